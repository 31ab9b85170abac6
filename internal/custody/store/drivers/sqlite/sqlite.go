// Package sqlite persists the custody document in SQLite. The document is
// still loaded and flushed whole; each flush replaces every table inside a
// single SQL transaction.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aussiebroadwan/custody/internal/custody/domain"
	"github.com/aussiebroadwan/custody/internal/custody/store"
	_ "modernc.org/sqlite"
)

const timeLayout = time.RFC3339Nano

type Persister struct {
	db  *sql.DB
	dsn string
}

var _ store.Persister = (*Persister)(nil)

// New opens the database and applies migrations.
func New(dsn string) (*Persister, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection keeps ":memory:" databases alive and writes serialised.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), `PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	p := &Persister{db: db, dsn: dsn}
	if err := p.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return p, nil
}

// Open is a shortcut for New followed by store.Open.
func Open(ctx context.Context, dsn string) (*store.DocStore, error) {
	p, err := New(dsn)
	if err != nil {
		return nil, err
	}
	s, err := store.Open(ctx, p)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return s, nil
}

func (p *Persister) Close() error { return p.db.Close() }

// Ping verifies the database connection is still alive.
func (p *Persister) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *Persister) Load(ctx context.Context) (*store.Document, error) {
	doc := store.NewDocument()

	steps := []func(context.Context, *store.Document) error{
		p.loadUsers,
		p.loadCatalog,
		p.loadCertificates,
		p.loadRequests,
		p.loadLogs,
		p.loadCounters,
	}
	for _, step := range steps {
		if err := step(ctx, doc); err != nil {
			return nil, fmt.Errorf("sqlite: load: %w", err)
		}
	}

	doc.Normalize()
	return doc, nil
}

func (p *Persister) Flush(ctx context.Context, doc *store.Document) (err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"users", "certificate_master", "certificates", "requests", "logs", "id_counters"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("sqlite: clear %s: %w", table, err)
		}
	}

	for _, u := range doc.Users {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO users (id, name, email, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			u.ID, u.Name, u.Email, u.PasswordHash, u.Role.String(), formatTime(u.CreatedAt))
		if err != nil {
			return fmt.Errorf("sqlite: insert user %d: %w", u.ID, err)
		}
	}

	for _, ct := range doc.Catalog {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO certificate_master (id, title, created_at) VALUES (?, ?, ?)`,
			ct.ID, ct.Title, formatTime(ct.CreatedAt))
		if err != nil {
			return fmt.Errorf("sqlite: insert catalog %d: %w", ct.ID, err)
		}
	}

	for _, c := range doc.Certificates {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO certificates (id, user_id, certificate_type_id, title, description, present_in_office,
				status, issue_date, return_date, submitted_at, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.UserID, nullInt(c.CertificateTypeID), c.Title, c.Description, boolInt(bool(c.PresentInOffice)),
			string(c.Status), nullTime(c.IssueDate), nullTime(c.ReturnDate), nullTime(c.SubmittedAt), formatTime(c.CreatedAt))
		if err != nil {
			return fmt.Errorf("sqlite: insert certificate %d: %w", c.ID, err)
		}
	}

	for _, r := range doc.Requests {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO requests (id, user_id, certificate_id, purpose, status, decided_by, decided_at, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.UserID, r.CertificateID, r.Purpose, string(r.Status), nullInt(r.DecidedBy), nullTime(r.DecidedAt),
			formatTime(r.CreatedAt))
		if err != nil {
			return fmt.Errorf("sqlite: insert request %d: %w", r.ID, err)
		}
	}

	for _, l := range doc.Logs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO logs (id, certificate_id, action, by_user_id, timestamp, notes) VALUES (?, ?, ?, ?, ?, ?)`,
			l.ID, l.CertificateID, string(l.Action), l.ByUserID, formatTime(l.Timestamp), l.Notes)
		if err != nil {
			return fmt.Errorf("sqlite: insert log %d: %w", l.ID, err)
		}
	}

	for table, value := range doc.IDs {
		if _, err = tx.ExecContext(ctx, `INSERT INTO id_counters (table_name, value) VALUES (?, ?)`, table, value); err != nil {
			return fmt.Errorf("sqlite: insert counter %s: %w", table, err)
		}
	}

	return tx.Commit()
}

func (p *Persister) loadUsers(ctx context.Context, doc *store.Document) error {
	rows, err := p.db.QueryContext(ctx, `SELECT id, name, email, password_hash, role, created_at FROM users ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			u         domain.User
			role      string
			createdAt string
		)
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &createdAt); err != nil {
			return err
		}
		if u.Role, err = domain.ParseRole(role); err != nil {
			return fmt.Errorf("user %d: %w", u.ID, err)
		}
		if u.CreatedAt, err = parseTime(createdAt); err != nil {
			return err
		}
		doc.Users = append(doc.Users, u)
	}
	return rows.Err()
}

func (p *Persister) loadCatalog(ctx context.Context, doc *store.Document) error {
	rows, err := p.db.QueryContext(ctx, `SELECT id, title, created_at FROM certificate_master ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ct        domain.CertificateType
			createdAt string
		)
		if err := rows.Scan(&ct.ID, &ct.Title, &createdAt); err != nil {
			return err
		}
		if ct.CreatedAt, err = parseTime(createdAt); err != nil {
			return err
		}
		doc.Catalog = append(doc.Catalog, ct)
	}
	return rows.Err()
}

func (p *Persister) loadCertificates(ctx context.Context, doc *store.Document) error {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, user_id, certificate_type_id, title, description, present_in_office, status,
			issue_date, return_date, submitted_at, created_at
		 FROM certificates ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			c                             domain.Certificate
			typeID                        sql.NullInt64
			present                       int64
			status, createdAt             string
			issued, returned, submittedAt sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.UserID, &typeID, &c.Title, &c.Description, &present, &status,
			&issued, &returned, &submittedAt, &createdAt); err != nil {
			return err
		}
		c.CertificateTypeID = mapNullInt(typeID)
		c.PresentInOffice = present != 0
		c.Status = domain.CustodyStatus(status)
		if c.IssueDate, err = mapNullTime(issued); err != nil {
			return err
		}
		if c.ReturnDate, err = mapNullTime(returned); err != nil {
			return err
		}
		if c.SubmittedAt, err = mapNullTime(submittedAt); err != nil {
			return err
		}
		if c.CreatedAt, err = parseTime(createdAt); err != nil {
			return err
		}
		doc.Certificates = append(doc.Certificates, c)
	}
	return rows.Err()
}

func (p *Persister) loadRequests(ctx context.Context, doc *store.Document) error {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, user_id, certificate_id, purpose, status, decided_by, decided_at, created_at
		 FROM requests ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			r                 domain.Request
			status, createdAt string
			decidedBy         sql.NullInt64
			decidedAt         sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.UserID, &r.CertificateID, &r.Purpose, &status, &decidedBy, &decidedAt, &createdAt); err != nil {
			return err
		}
		r.Status = domain.RequestStatus(status)
		r.DecidedBy = mapNullInt(decidedBy)
		if r.DecidedAt, err = mapNullTime(decidedAt); err != nil {
			return err
		}
		if r.CreatedAt, err = parseTime(createdAt); err != nil {
			return err
		}
		doc.Requests = append(doc.Requests, r)
	}
	return rows.Err()
}

func (p *Persister) loadLogs(ctx context.Context, doc *store.Document) error {
	// Insertion order is id order; the activity view relies on it for ties.
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, certificate_id, action, by_user_id, timestamp, notes FROM logs ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			l              domain.ActivityLog
			action, tstamp string
		)
		if err := rows.Scan(&l.ID, &l.CertificateID, &action, &l.ByUserID, &tstamp, &l.Notes); err != nil {
			return err
		}
		l.Action = domain.LogAction(action)
		if l.Timestamp, err = parseTime(tstamp); err != nil {
			return err
		}
		doc.Logs = append(doc.Logs, l)
	}
	return rows.Err()
}

func (p *Persister) loadCounters(ctx context.Context, doc *store.Document) error {
	rows, err := p.db.QueryContext(ctx, `SELECT table_name, value FROM id_counters`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			table string
			value int64
		)
		if err := rows.Scan(&table, &value); err != nil {
			return err
		}
		doc.IDs[table] = value
	}
	return rows.Err()
}

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad timestamp %q: %w", s, err)
	}
	return t, nil
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func mapNullTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func mapNullInt(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
