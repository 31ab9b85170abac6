package custodysdk

import (
	"context"
	"fmt"
	"net/http"
)

// Session performs operations as a signed-in user.
type Session struct {
	client   *SDKClient
	token    string
	identity IdentityResponse
}

// Token is the raw session token.
func (s *Session) Token() string { return s.token }

// Identity is the identity returned at login. It is empty for sessions made
// with NewSessionFromToken; call Me instead.
func (s *Session) Identity() IdentityResponse { return s.identity }

func (s *Session) Me(ctx context.Context) (*IdentityResponse, error) {
	var out IdentityResponse
	if err := s.get(ctx, "/api/me", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes the token. The session is unusable afterwards.
func (s *Session) Logout(ctx context.Context) error {
	return s.send(ctx, http.MethodPost, "/api/logout", struct{}{}, &OKResponse{})
}

func (s *Session) ListCertificates(ctx context.Context) ([]Certificate, error) {
	var out []Certificate
	if err := s.get(ctx, "/api/certificates", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) CreateCertificate(ctx context.Context, req CreateCertificateRequest) (int64, error) {
	var out CreatedResponse
	if err := s.send(ctx, http.MethodPost, "/api/certificates", req, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

func (s *Session) SetPresence(ctx context.Context, certID int64, present bool) error {
	path := fmt.Sprintf("/api/certificates/%d/present", certID)
	return s.send(ctx, http.MethodPut, path, PresenceRequest{Present: present}, &OKResponse{})
}

func (s *Session) Issue(ctx context.Context, certID int64, notes string) (*IssueResponse, error) {
	var out IssueResponse
	path := fmt.Sprintf("/api/certificates/%d/issue", certID)
	if err := s.send(ctx, http.MethodPost, path, NotesRequest{Notes: notes}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) Return(ctx context.Context, certID int64, notes string) (*ReturnResponse, error) {
	var out ReturnResponse
	path := fmt.Sprintf("/api/certificates/%d/return", certID)
	if err := s.send(ctx, http.MethodPost, path, NotesRequest{Notes: notes}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) SubmitRequest(ctx context.Context, certID int64, purpose string) (int64, error) {
	var out CreatedResponse
	req := SubmitRequestRequest{CertificateID: ID(certID), Purpose: purpose}
	if err := s.send(ctx, http.MethodPost, "/api/requests", req, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

func (s *Session) ListRequests(ctx context.Context) ([]Request, error) {
	var out []Request
	if err := s.get(ctx, "/api/requests", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Decide approves or rejects a request. decision is "approved" or "rejected".
func (s *Session) Decide(ctx context.Context, requestID int64, decision string) error {
	path := fmt.Sprintf("/api/requests/%d/decision", requestID)
	return s.send(ctx, http.MethodPost, path, DecisionRequest{Decision: decision}, &OKResponse{})
}

func (s *Session) ListLogs(ctx context.Context) ([]ActivityLog, error) {
	var out []ActivityLog
	if err := s.get(ctx, "/api/logs", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) get(ctx context.Context, path string, target any) error {
	resp, err := s.client.doRequest(ctx, http.MethodGet, path, s.token, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, target, http.StatusOK)
}

func (s *Session) send(ctx context.Context, method, path string, body, target any) error {
	resp, err := s.client.doJSON(ctx, method, path, s.token, body)
	if err != nil {
		return err
	}
	return decodeJSON(resp, target, http.StatusOK)
}
