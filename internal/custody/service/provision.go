package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aussiebroadwan/custody/internal/custody/domain"
	"github.com/aussiebroadwan/custody/internal/custody/store"
	"github.com/aussiebroadwan/custody/pkg/cryptox"
	"github.com/aussiebroadwan/custody/pkg/slogx"
	"gopkg.in/yaml.v3"
)

// RosterUser is one account in a roster file.
type RosterUser struct {
	Name     string      `yaml:"name"`
	Email    string      `yaml:"email"`
	Password string      `yaml:"password"`
	Role     domain.Role `yaml:"role"`
}

// StudentRange expands to Prefix+From ... Prefix+To. Name and email are
// both the roll number.
type StudentRange struct {
	Prefix   string `yaml:"prefix"`
	From     int    `yaml:"from"`
	To       int    `yaml:"to"`
	Password string `yaml:"password"`
}

// Roster describes everything Seed creates.
type Roster struct {
	Staff    []RosterUser   `yaml:"staff"`
	Students []RosterUser   `yaml:"students"`
	Ranges   []StudentRange `yaml:"student_ranges"`
	Catalog  []string       `yaml:"catalog"`
}

// DefaultRoster is the roster a fresh deployment is seeded with.
func DefaultRoster() Roster {
	return Roster{
		Staff: []RosterUser{
			{Name: "Admin User", Email: "admin", Password: "adminpass", Role: domain.RoleAdmin},
			{Name: "Management User", Email: "management", Password: "managepass", Role: domain.RoleManagement},
		},
		Ranges: []StudentRange{
			{Prefix: "24UAM", From: 101, To: 165, Password: "studentpass"},
		},
		Catalog: []string{
			"Aadhar Xerox",
			"Birth Certificate",
			"10th TC",
			"12th TC",
			"PAN Card Xerox",
			"Voter ID Xerox",
			"Community Certificate",
		},
	}
}

// LoadRoster reads a YAML roster file.
func LoadRoster(path string) (Roster, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Roster{}, err
	}
	var r Roster
	if err := yaml.Unmarshal(raw, &r); err != nil {
		return Roster{}, fmt.Errorf("parse roster %s: %w", path, err)
	}
	return r, nil
}

// Users expands the roster into the accounts to create, staff first. Student
// entries without a role are students.
func (r Roster) Users() ([]RosterUser, error) {
	var out []RosterUser
	out = append(out, r.Staff...)
	for _, s := range r.Students {
		if s.Role == 0 {
			s.Role = domain.RoleStudent
		}
		if s.Name == "" {
			s.Name = s.Email
		}
		out = append(out, s)
	}
	for _, rg := range r.Ranges {
		if rg.To < rg.From {
			return nil, fmt.Errorf("%w: student range %s%d-%d is empty", domain.ErrMissingField, rg.Prefix, rg.From, rg.To)
		}
		for i := rg.From; i <= rg.To; i++ {
			roll := fmt.Sprintf("%s%d", rg.Prefix, i)
			out = append(out, RosterUser{Name: roll, Email: roll, Password: rg.Password, Role: domain.RoleStudent})
		}
	}

	seen := make(map[string]struct{}, len(out))
	for _, u := range out {
		if strings.TrimSpace(u.Email) == "" || u.Password == "" {
			return nil, fmt.Errorf("%w: every roster user needs an email and a password", domain.ErrMissingField)
		}
		if !u.Role.Valid() {
			return nil, fmt.Errorf("%w: role for %s", domain.ErrMissingField, u.Email)
		}
		if _, dup := seen[u.Email]; dup {
			return nil, fmt.Errorf("duplicate roster email %q", u.Email)
		}
		seen[u.Email] = struct{}{}
	}
	return out, nil
}

// SeedSummary counts what Seed created.
type SeedSummary struct {
	Users        int
	Catalog      int
	Certificates int
}

// ProvisionService loads a roster into the store.
type ProvisionService struct {
	Store store.Store
	Clock Clock

	// Hash defaults to cryptox.HashPassword.
	Hash func(password string) (string, error)
}

// Seed replaces the users, the certificate catalog and the ledger with the
// roster's users and one not_present certificate per student and catalog
// entry. Requests and the activity log are kept. Id counters keep counting,
// so a session issued before the reseed never names a new user. It is all
// or nothing.
func (s *ProvisionService) Seed(ctx context.Context, roster Roster) (SeedSummary, error) {
	l := slogx.FromContext(ctx)

	users, err := roster.Users()
	if err != nil {
		return SeedSummary{}, err
	}
	for _, title := range roster.Catalog {
		if strings.TrimSpace(title) == "" {
			return SeedSummary{}, fmt.Errorf("%w: catalog title", domain.ErrMissingField)
		}
	}

	hash := s.Hash
	if hash == nil {
		hash = cryptox.HashPassword
	}
	// Hashing is slow; do it before taking the writer lock.
	hashes := make([]string, len(users))
	for i, u := range users {
		if hashes[i], err = hash(u.Password); err != nil {
			return SeedSummary{}, fmt.Errorf("hash password for %s: %w", u.Email, err)
		}
	}

	now := s.Clock.now()
	var sum SeedSummary

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, reset := range []func(context.Context) error{
			tx.Users().Reset,
			tx.Catalog().Reset,
			tx.Certificates().Reset,
		} {
			if err := reset(ctx); err != nil {
				return err
			}
		}

		var students []domain.User
		for i, u := range users {
			created, err := tx.Users().Create(ctx, domain.User{
				Name:         u.Name,
				Email:        strings.TrimSpace(u.Email),
				PasswordHash: hashes[i],
				Role:         u.Role,
				CreatedAt:    now,
			})
			if err != nil {
				return err
			}
			if created.Role == domain.RoleStudent {
				students = append(students, created)
			}
		}
		sum.Users = len(users)

		var catalog []domain.CertificateType
		for _, title := range roster.Catalog {
			ct, err := tx.Catalog().Create(ctx, domain.CertificateType{Title: strings.TrimSpace(title), CreatedAt: now})
			if err != nil {
				return err
			}
			catalog = append(catalog, ct)
		}
		sum.Catalog = len(catalog)

		for _, st := range students {
			for _, ct := range catalog {
				typeID := ct.ID
				if _, err := tx.Certificates().Create(ctx, domain.Certificate{
					UserID:            st.ID,
					CertificateTypeID: &typeID,
					Title:             ct.Title,
					Status:            domain.StatusNotPresent,
					CreatedAt:         now,
				}); err != nil {
					return err
				}
				sum.Certificates++
			}
		}
		return nil
	})
	if err != nil {
		return SeedSummary{}, err
	}

	l.Info("store seeded",
		slog.Int("users", sum.Users),
		slog.Int("catalog", sum.Catalog),
		slog.Int("certificates", sum.Certificates),
	)
	return sum, nil
}

// Provisioned reports whether the store already has at least one user.
func (s *ProvisionService) Provisioned(ctx context.Context) (bool, error) {
	users, err := s.Store.Users().List(ctx)
	if err != nil {
		return false, err
	}
	return len(users) > 0, nil
}
