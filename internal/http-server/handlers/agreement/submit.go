package agreement

import (
	"BandDesk/internal/lib/api/cont"
	"BandDesk/internal/lib/api/response"
	"BandDesk/internal/lib/sl"
	"BandDesk/internal/service/submission"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// Submit accepts a filled agreement form, validates it and persists it as a
// pending agreement. Validation failures come back as a field to message
// mapping; store failures are retryable.
func Submit(log *slog.Logger, handler Core) http.HandlerFunc {
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

		var form submission.Form
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			logger.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}

		submittedBy := ""
		if session := cont.GetSession(r.Context()); session != nil {
			submittedBy = session.Identity
		}

		result, err := handler.SubmitAgreement(r.Context(), &form, submittedBy)
		if err != nil {
			logger.Error("failed to submit agreement", sl.Err(err))
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, response.RetryableError("Failed to save agreement, please retry"))
			return
		}

		if len(result.FieldErrors) > 0 {
			logger.Debug("submission rejected", slog.Int("violations", len(result.FieldErrors)))
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.FieldErrors(result.FieldErrors))
			return
		}

		logger.Info("agreement submitted", slog.String("id", result.ID))
		render.JSON(w, r, response.Ok(result))
	}
}
