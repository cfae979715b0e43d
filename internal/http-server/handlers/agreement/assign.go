package agreement

import (
	"BandDesk/internal/lib/api/response"
	"BandDesk/internal/lib/sl"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	repository "BandDesk/internal/database"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type AssignRequest struct {
	Instrument string `json:"instrument"`
	Brand      string `json:"brand"`
	Defects    string `json:"defects"`
}

// Assign attaches instrument data to one pending agreement. The write is
// last-writer-wins: a concurrent assignment that landed first is overwritten
// without warning.
func Assign(log *slog.Logger, handler Core) http.HandlerFunc {
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

		id := chi.URLParam(r, "id")
		if id == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("agreement id required"))
			return
		}

		var req AssignRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}

		result, err := handler.AssignInstrument(r.Context(), id, req.Instrument, req.Brand, req.Defects)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("Agreement not found"))
				return
			}
			logger.Error("failed to assign instrument", slog.String("id", id), sl.Err(err))
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, response.RetryableError("Failed to save assignment, please retry"))
			return
		}

		if len(result.FieldErrors) > 0 {
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.FieldErrors(result.FieldErrors))
			return
		}

		logger.Info("instrument assigned", slog.String("id", id), slog.String("instrument", req.Instrument))
		render.JSON(w, r, response.Ok(result))
	}
}
