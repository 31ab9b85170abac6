package http

import (
	"net/http"

	"github.com/aussiebroadwan/custody/internal/custody/service"
	"github.com/aussiebroadwan/custody/pkg/custodysdk"
	"github.com/aussiebroadwan/custody/pkg/httpx"
)

// RequestsHandler serves release requests.
type RequestsHandler struct {
	RequestService *service.RequestService
}

// HandleSubmit godoc
//
//	@Summary		Request a release
//	@Description	Student only. Asks for one of the caller's own certificates to be released.
//	@Tags			Requests
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		custodysdk.SubmitRequestRequest	true	"Certificate and purpose"
//	@Success		200		{object}	custodysdk.CreatedResponse
//	@Failure		400		{object}	custodysdk.APIError	"Missing certificate_id"
//	@Failure		401		{object}	custodysdk.APIError
//	@Failure		403		{object}	custodysdk.APIError	"Not a student, or not the owner"
//	@Failure		404		{object}	custodysdk.APIError
//	@Router			/api/requests [post].
func (h *RequestsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req custodysdk.SubmitRequestRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		custodysdk.ErrInvalidRequest.WriteError(w)
		return
	}

	created, err := h.RequestService.Submit(ctx, identityFrom(ctx), int64(req.CertificateID), req.Purpose)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, custodysdk.CreatedResponse{ID: created.ID})
}

// HandleList godoc
//
//	@Summary		List requests
//	@Description	Students see their own requests. Staff see every request with the requester's name.
//	@Tags			Requests
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		custodysdk.Request
//	@Failure		401	{object}	custodysdk.APIError
//	@Router			/api/requests [get].
func (h *RequestsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := h.RequestService.List(ctx, identityFrom(ctx))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]custodysdk.Request, 0, len(rows))
	for _, row := range rows {
		out = append(out, requestResponse(row))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleDecide godoc
//
//	@Summary		Decide a request
//	@Description	Admin only. Approves or rejects a pending request.
//	@Tags			Requests
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int							true	"Request id"
//	@Param			body	body		custodysdk.DecisionRequest	true	"approved or rejected"
//	@Success		200		{object}	custodysdk.OKResponse
//	@Failure		400		{object}	custodysdk.APIError	"Invalid decision"
//	@Failure		401		{object}	custodysdk.APIError
//	@Failure		403		{object}	custodysdk.APIError
//	@Failure		404		{object}	custodysdk.APIError
//	@Failure		409		{object}	custodysdk.APIError	"Already decided"
//	@Router			/api/requests/{id}/decision [post].
func (h *RequestsHandler) HandleDecide(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reqID, ok := pathID(r)
	if !ok {
		custodysdk.ErrNotFound.WriteError(w)
		return
	}

	var req custodysdk.DecisionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		custodysdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if _, err := h.RequestService.Decide(ctx, identityFrom(ctx), reqID, req.Decision); err != nil {
		writeError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, custodysdk.OKResponse{OK: true})
}
