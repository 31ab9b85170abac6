// Package policy decides who may run which custody operation.
package policy

import (
	"fmt"
	"slices"

	"github.com/aussiebroadwan/custody/internal/custody/domain"
)

// Operation names a guarded custody operation.
type Operation int

const (
	OpCurrentIdentity Operation = iota + 1
	OpListCertificates
	OpCreateCertificate
	OpSetPresence
	OpIssueCertificate
	OpReturnCertificate
	OpSubmitRequest
	OpListRequests
	OpDecideRequest
	OpListLogs
)

var (
	staff       = []domain.Role{domain.RoleAdmin, domain.RoleManagement}
	adminOnly   = []domain.Role{domain.RoleAdmin}
	studentOnly = []domain.Role{domain.RoleStudent}
)

func (op Operation) String() string {
	switch op {
	case OpCurrentIdentity:
		return "current_identity"
	case OpListCertificates:
		return "list_certificates"
	case OpCreateCertificate:
		return "create_certificate"
	case OpSetPresence:
		return "set_presence"
	case OpIssueCertificate:
		return "issue_certificate"
	case OpReturnCertificate:
		return "return_certificate"
	case OpSubmitRequest:
		return "submit_request"
	case OpListRequests:
		return "list_requests"
	case OpDecideRequest:
		return "decide_request"
	case OpListLogs:
		return "list_logs"
	default:
		return fmt.Sprintf("Operation(%d)", int(op))
	}
}

// Required returns the roles allowed to run op. An empty slice means any
// authenticated role; ok is false for an unknown operation.
func Required(op Operation) (roles []domain.Role, ok bool) {
	switch op {
	case OpCurrentIdentity, OpListCertificates, OpListRequests:
		return nil, true
	case OpCreateCertificate, OpSetPresence, OpIssueCertificate, OpReturnCertificate, OpDecideRequest:
		return adminOnly, true
	case OpSubmitRequest:
		return studentOnly, true
	case OpListLogs:
		return staff, true
	default:
		return nil, false
	}
}

// Check authorizes id for op using the role table above.
func Check(id *domain.Identity, op Operation) error {
	roles, ok := Required(op)
	if !ok {
		if id == nil {
			return domain.ErrUnauthenticated
		}
		return fmt.Errorf("%w: unknown operation %s", domain.ErrForbidden, op)
	}
	if err := Authorize(id, roles...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Authorize fails with ErrUnauthenticated for a nil identity and with
// ErrForbidden when the role is not in allowed. No allowed roles means any
// authenticated role. Undeclared role values are always forbidden.
func Authorize(id *domain.Identity, allowed ...domain.Role) error {
	if id == nil {
		return domain.ErrUnauthenticated
	}

	switch id.Role {
	case domain.RoleStudent, domain.RoleAdmin, domain.RoleManagement:
		if len(allowed) == 0 || slices.Contains(allowed, id.Role) {
			return nil
		}
		return domain.ErrForbidden
	default:
		return domain.ErrForbidden
	}
}

// ScopeAll reports whether id reads every ledger row rather than only its own.
func ScopeAll(id *domain.Identity) bool {
	if id == nil {
		return false
	}
	switch id.Role {
	case domain.RoleAdmin, domain.RoleManagement:
		return true
	case domain.RoleStudent:
		return false
	default:
		return false
	}
}

// OwnsRecord reports whether a row owned by ownerID is visible to id under
// the student filter.
func OwnsRecord(id *domain.Identity, ownerID int64) bool {
	return id != nil && id.UserID == ownerID
}

// Visible reports whether id may read a row owned by ownerID.
func Visible(id *domain.Identity, ownerID int64) bool {
	return ScopeAll(id) || OwnsRecord(id, ownerID)
}
