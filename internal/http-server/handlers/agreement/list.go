package agreement

import (
	"BandDesk/entity"
	"BandDesk/internal/lib/api/response"
	"BandDesk/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// List returns the full agreement collection partitioned into pending and
// completed. Partitioning happens here, per request, over the complete set;
// there is no separate pending index in the store. The live WebSocket feed
// delivers the same shape on every change.
func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.agreement")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("agreement service not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("agreement service not available"))
			return
		}

		agreements, err := handler.ListAgreements(r.Context())
		if err != nil {
			logger.Error("failed to list agreements", sl.Err(err))
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, response.RetryableError("Failed to load agreements, please retry"))
			return
		}

		var pending, completed []entity.Agreement
		for _, a := range agreements {
			if a.IsPending() {
				pending = append(pending, a)
			} else {
				completed = append(completed, a)
			}
		}

		logger.Debug("agreements listed",
			slog.Int("pending", len(pending)),
			slog.Int("completed", len(completed)),
		)

		render.JSON(w, r, response.Ok(struct {
			Pending   []entity.Agreement `json:"pending"`
			Completed []entity.Agreement `json:"completed"`
		}{pending, completed}))
	}
}
