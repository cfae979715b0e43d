package session

import (
	"BandDesk/internal/lib/api/response"
	"BandDesk/internal/lib/sl"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"BandDesk/internal/service/identity"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type ResolveRequest struct {
	Credential string `json:"credential"`
}

// Resolve signs a client in and returns its session token and role claim.
// An absent credential yields an anonymous submitter session. When the
// identity service never initialized, neither role is served.
func Resolve(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.session")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil || !handler.IdentityReady() {
			logger.Error("identity service not ready")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("identity service not available"))
			return
		}

		var req ResolveRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				logger.Error("failed to decode request body", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("Invalid request body"))
				return
			}
		}

		session, err := handler.ResolveSession(req.Credential)
		if err != nil {
			if errors.Is(err, identity.ErrBadCredential) {
				logger.Warn("bad bootstrap credential")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("Invalid credential"))
				return
			}
			logger.Error("failed to resolve session", sl.Err(err))
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("identity service not available"))
			return
		}

		logger.Debug("session resolved", slog.String("claim", string(session.Claim)))
		render.JSON(w, r, response.Ok(session))
	}
}
