package agreement

import (
	"BandDesk/internal/lib/api/response"
	"BandDesk/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// Export streams the full agreement roster as an xlsx workbook.
func Export(log *slog.Logger, handler Core) http.HandlerFunc {
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

		roster, err := handler.BuildRoster(agreements)
		if err != nil {
			logger.Error("failed to build roster", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to build roster"))
			return
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="agreements.xlsx"`)
		if err := roster.Write(w); err != nil {
			logger.Error("failed to stream roster", sl.Err(err))
		}
	}
}
