package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/aussiebroadwan/custody/internal/custody/domain"
)

// repos implements every repository over a backend. Reads always hand out
// copies; view callbacks must never write to the document.
type repos struct{ backend }

func (r repos) Users() Users               { return userRepo(r) }
func (r repos) Certificates() Certificates { return certRepo(r) }
func (r repos) Catalog() Catalog           { return catalogRepo(r) }
func (r repos) Requests() Requests         { return requestRepo(r) }
func (r repos) Logs() Logs                 { return logRepo(r) }

func notFound(table string, id int64) error {
	return fmt.Errorf("%w: %s %d", ErrNotFound, table, id)
}

func filter[T any](rows []T, keep func(T) bool) []T {
	out := make([]T, 0)
	for _, row := range rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}

/* Users */

type userRepo repos

func (r userRepo) Get(ctx context.Context, id int64) (u domain.User, err error) {
	err = r.view(ctx, func(d *Document) error {
		i := slices.IndexFunc(d.Users, func(u domain.User) bool { return u.ID == id })
		if i < 0 {
			return notFound(TableUsers, id)
		}
		u = d.Users[i]
		return nil
	})
	return u, err
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (u domain.User, err error) {
	err = r.view(ctx, func(d *Document) error {
		i := slices.IndexFunc(d.Users, func(u domain.User) bool { return u.Email == email })
		if i < 0 {
			return fmt.Errorf("%w: user with email %q", ErrNotFound, email)
		}
		u = d.Users[i]
		return nil
	})
	return u, err
}

func (r userRepo) List(ctx context.Context) (out []domain.User, err error) {
	err = r.view(ctx, func(d *Document) error {
		out = slices.Clone(d.Users)
		return nil
	})
	return out, err
}

func (r userRepo) ListByRole(ctx context.Context, role domain.Role) (out []domain.User, err error) {
	err = r.view(ctx, func(d *Document) error {
		out = filter(d.Users, func(u domain.User) bool { return u.Role == role })
		return nil
	})
	return out, err
}

func (r userRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	if !u.Role.Valid() || u.Email == "" {
		return domain.User{}, fmt.Errorf("%w: user needs an email and a role", ErrInvalidRecord)
	}
	err := r.update(ctx, func(d *Document) error {
		if slices.ContainsFunc(d.Users, func(x domain.User) bool { return x.Email == u.Email }) {
			return fmt.Errorf("%w: duplicate email %q", ErrInvalidRecord, u.Email)
		}
		u.ID = d.NextID(TableUsers)
		d.Users = append(d.Users, u)
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r userRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	return r.update(ctx, func(d *Document) error {
		i := slices.IndexFunc(d.Users, func(u domain.User) bool { return u.ID == id })
		if i < 0 {
			return notFound(TableUsers, id)
		}
		d.Users[i].PasswordHash = hash
		return nil
	})
}

func (r userRepo) Reset(ctx context.Context) error {
	return r.update(ctx, func(d *Document) error {
		d.Users = []domain.User{}
		return nil
	})
}

/* Certificates */

type certRepo repos

func (r certRepo) Get(ctx context.Context, id int64) (c domain.Certificate, err error) {
	err = r.view(ctx, func(d *Document) error {
		i := slices.IndexFunc(d.Certificates, func(c domain.Certificate) bool { return c.ID == id })
		if i < 0 {
			return notFound(TableCertificates, id)
		}
		c = d.Certificates[i]
		return nil
	})
	return c, err
}

func (r certRepo) List(ctx context.Context) (out []domain.Certificate, err error) {
	err = r.view(ctx, func(d *Document) error {
		out = slices.Clone(d.Certificates)
		return nil
	})
	return out, err
}

func (r certRepo) ListByUser(ctx context.Context, userID int64) (out []domain.Certificate, err error) {
	err = r.view(ctx, func(d *Document) error {
		out = filter(d.Certificates, func(c domain.Certificate) bool { return c.UserID == userID })
		return nil
	})
	return out, err
}

func (r certRepo) Create(ctx context.Context, c domain.Certificate) (domain.Certificate, error) {
	if !c.Status.Valid() {
		return domain.Certificate{}, fmt.Errorf("%w: status %q", ErrInvalidRecord, c.Status)
	}
	err := r.update(ctx, func(d *Document) error {
		c.ID = d.NextID(TableCertificates)
		d.Certificates = append(d.Certificates, c)
		return nil
	})
	if err != nil {
		return domain.Certificate{}, err
	}
	return c, nil
}

func (r certRepo) Update(ctx context.Context, c domain.Certificate) error {
	if !c.Status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidRecord, c.Status)
	}
	return r.update(ctx, func(d *Document) error {
		i := slices.IndexFunc(d.Certificates, func(x domain.Certificate) bool { return x.ID == c.ID })
		if i < 0 {
			return notFound(TableCertificates, c.ID)
		}
		d.Certificates[i] = c
		return nil
	})
}

func (r certRepo) Reset(ctx context.Context) error {
	return r.update(ctx, func(d *Document) error {
		d.Certificates = []domain.Certificate{}
		return nil
	})
}

/* Catalog */

type catalogRepo repos

func (r catalogRepo) List(ctx context.Context) (out []domain.CertificateType, err error) {
	err = r.view(ctx, func(d *Document) error {
		out = slices.Clone(d.Catalog)
		return nil
	})
	return out, err
}

func (r catalogRepo) Create(ctx context.Context, ct domain.CertificateType) (domain.CertificateType, error) {
	err := r.update(ctx, func(d *Document) error {
		ct.ID = d.NextID(TableCatalog)
		d.Catalog = append(d.Catalog, ct)
		return nil
	})
	if err != nil {
		return domain.CertificateType{}, err
	}
	return ct, nil
}

func (r catalogRepo) Reset(ctx context.Context) error {
	return r.update(ctx, func(d *Document) error {
		d.Catalog = []domain.CertificateType{}
		return nil
	})
}

/* Requests */

type requestRepo repos

func (r requestRepo) Get(ctx context.Context, id int64) (req domain.Request, err error) {
	err = r.view(ctx, func(d *Document) error {
		i := slices.IndexFunc(d.Requests, func(x domain.Request) bool { return x.ID == id })
		if i < 0 {
			return notFound(TableRequests, id)
		}
		req = d.Requests[i]
		return nil
	})
	return req, err
}

func (r requestRepo) List(ctx context.Context) (out []domain.Request, err error) {
	err = r.view(ctx, func(d *Document) error {
		out = slices.Clone(d.Requests)
		return nil
	})
	return out, err
}

func (r requestRepo) ListByUser(ctx context.Context, userID int64) (out []domain.Request, err error) {
	err = r.view(ctx, func(d *Document) error {
		out = filter(d.Requests, func(x domain.Request) bool { return x.UserID == userID })
		return nil
	})
	return out, err
}

func (r requestRepo) Create(ctx context.Context, req domain.Request) (domain.Request, error) {
	err := r.update(ctx, func(d *Document) error {
		req.ID = d.NextID(TableRequests)
		d.Requests = append(d.Requests, req)
		return nil
	})
	if err != nil {
		return domain.Request{}, err
	}
	return req, nil
}

func (r requestRepo) Update(ctx context.Context, req domain.Request) error {
	return r.update(ctx, func(d *Document) error {
		i := slices.IndexFunc(d.Requests, func(x domain.Request) bool { return x.ID == req.ID })
		if i < 0 {
			return notFound(TableRequests, req.ID)
		}
		d.Requests[i] = req
		return nil
	})
}

/* Logs */

type logRepo repos

func (r logRepo) List(ctx context.Context) (out []domain.ActivityLog, err error) {
	err = r.view(ctx, func(d *Document) error {
		out = slices.Clone(d.Logs)
		return nil
	})
	return out, err
}

func (r logRepo) Append(ctx context.Context, l domain.ActivityLog) (domain.ActivityLog, error) {
	if l.Action != domain.ActionIssue && l.Action != domain.ActionReturn {
		return domain.ActivityLog{}, fmt.Errorf("%w: action %q", ErrInvalidRecord, l.Action)
	}
	err := r.update(ctx, func(d *Document) error {
		l.ID = d.NextID(TableLogs)
		d.Logs = append(d.Logs, l)
		return nil
	})
	if err != nil {
		return domain.ActivityLog{}, err
	}
	return l, nil
}
