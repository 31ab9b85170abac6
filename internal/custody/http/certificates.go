package http

import (
	"net/http"

	"github.com/aussiebroadwan/custody/internal/custody/service"
	"github.com/aussiebroadwan/custody/pkg/custodysdk"
	"github.com/aussiebroadwan/custody/pkg/httpx"
)

// CertificatesHandler serves the custody ledger.
type CertificatesHandler struct {
	LedgerService *service.LedgerService
}

// HandleList godoc
//
//	@Summary		List certificates
//	@Description	Students see their own certificates. Staff see every certificate with the owner's name.
//	@Tags			Certificates
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		custodysdk.Certificate
//	@Failure		401	{object}	custodysdk.APIError
//	@Router			/api/certificates [get].
func (h *CertificatesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := h.LedgerService.List(ctx, identityFrom(ctx))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]custodysdk.Certificate, 0, len(rows))
	for _, row := range rows {
		out = append(out, certificateResponse(row))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCreate godoc
//
//	@Summary		Record a certificate
//	@Description	Admin only. Adds a ledger row for a student; it starts present in the office.
//	@Tags			Certificates
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		custodysdk.CreateCertificateRequest	true	"Owner and title"
//	@Success		200		{object}	custodysdk.CreatedResponse
//	@Failure		400		{object}	custodysdk.APIError	"Missing user_id or title"
//	@Failure		401		{object}	custodysdk.APIError
//	@Failure		403		{object}	custodysdk.APIError
//	@Failure		404		{object}	custodysdk.APIError	"Unknown user"
//	@Router			/api/certificates [post].
func (h *CertificatesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req custodysdk.CreateCertificateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		custodysdk.ErrInvalidRequest.WriteError(w)
		return
	}

	c, err := h.LedgerService.Create(ctx, identityFrom(ctx), service.NewCertificate{
		UserID:      int64(req.UserID),
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, custodysdk.CreatedResponse{ID: c.ID})
}

// HandleSetPresence godoc
//
//	@Summary		Set presence
//	@Description	Admin only. Marks a certificate as in the office or taken out.
//	@Tags			Certificates
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int							true	"Certificate id"
//	@Param			body	body		custodysdk.PresenceRequest	true	"Presence flag"
//	@Success		200		{object}	custodysdk.OKResponse
//	@Failure		401		{object}	custodysdk.APIError
//	@Failure		403		{object}	custodysdk.APIError
//	@Failure		404		{object}	custodysdk.APIError
//	@Router			/api/certificates/{id}/present [put].
func (h *CertificatesHandler) HandleSetPresence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	certID, ok := pathID(r)
	if !ok {
		custodysdk.ErrNotFound.WriteError(w)
		return
	}

	var req custodysdk.PresenceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		custodysdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if _, err := h.LedgerService.SetPresence(ctx, identityFrom(ctx), certID, req.Present); err != nil {
		writeError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, custodysdk.OKResponse{OK: true})
}

// HandleIssue godoc
//
//	@Summary		Issue a certificate
//	@Description	Admin only. Hands the certificate out and appends an activity entry.
//	@Tags			Certificates
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int						true	"Certificate id"
//	@Param			body	body		custodysdk.NotesRequest	false	"Optional notes"
//	@Success		200		{object}	custodysdk.IssueResponse
//	@Failure		401		{object}	custodysdk.APIError
//	@Failure		403		{object}	custodysdk.APIError
//	@Failure		404		{object}	custodysdk.APIError
//	@Router			/api/certificates/{id}/issue [post].
func (h *CertificatesHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	certID, ok := pathID(r)
	if !ok {
		custodysdk.ErrNotFound.WriteError(w)
		return
	}

	var req custodysdk.NotesRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		custodysdk.ErrInvalidRequest.WriteError(w)
		return
	}

	c, err := h.LedgerService.Issue(ctx, identityFrom(ctx), certID, req.Notes)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, custodysdk.IssueResponse{OK: true, IssuedAt: *c.IssueDate})
}

// HandleReturn godoc
//
//	@Summary		Return a certificate
//	@Description	Admin only. Records the certificate coming back and appends an activity entry.
//	@Tags			Certificates
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int						true	"Certificate id"
//	@Param			body	body		custodysdk.NotesRequest	false	"Optional notes"
//	@Success		200		{object}	custodysdk.ReturnResponse
//	@Failure		401		{object}	custodysdk.APIError
//	@Failure		403		{object}	custodysdk.APIError
//	@Failure		404		{object}	custodysdk.APIError
//	@Router			/api/certificates/{id}/return [post].
func (h *CertificatesHandler) HandleReturn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	certID, ok := pathID(r)
	if !ok {
		custodysdk.ErrNotFound.WriteError(w)
		return
	}

	var req custodysdk.NotesRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		custodysdk.ErrInvalidRequest.WriteError(w)
		return
	}

	c, err := h.LedgerService.MarkReturned(ctx, identityFrom(ctx), certID, req.Notes)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, custodysdk.ReturnResponse{OK: true, ReturnedAt: *c.ReturnDate})
}
