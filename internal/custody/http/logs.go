package http

import (
	"net/http"

	"github.com/aussiebroadwan/custody/internal/custody/service"
	"github.com/aussiebroadwan/custody/pkg/custodysdk"
	"github.com/aussiebroadwan/custody/pkg/httpx"
)

type LogsHandler struct {
	ActivityService *service.ActivityService
}

// ServeHTTP godoc
//
//	@Summary		Activity log
//	@Description	Staff only. Every issue and return, newest first.
//	@Tags			Activity
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		custodysdk.ActivityLog
//	@Failure		401	{object}	custodysdk.APIError
//	@Failure		403	{object}	custodysdk.APIError
//	@Router			/api/logs [get].
func (h *LogsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := h.ActivityService.ListAll(ctx, identityFrom(ctx))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]custodysdk.ActivityLog, 0, len(rows))
	for _, row := range rows {
		out = append(out, activityResponse(row))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
