package api

import (
	"BandDesk/internal/config"
	"BandDesk/internal/http-server/handlers/agreement"
	"BandDesk/internal/http-server/handlers/errors"
	"BandDesk/internal/http-server/handlers/session"
	"BandDesk/internal/http-server/middleware/authenticate"
	"BandDesk/internal/http-server/middleware/timeout"
	"BandDesk/internal/lib/sl"
	"BandDesk/internal/ws"
	"fmt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net"
	"net/http"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	session.Core
	agreement.Core
}

func New(conf *config.Config, log *slog.Logger, handler Handler, hub *ws.Hub) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	router.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(timeout.Timeout(15))
		v1.Use(render.SetContentType(render.ContentTypeJSON))

		// Sign-in is the only route outside the authenticated group.
		v1.Post("/session", session.Resolve(log, handler))

		v1.Group(func(r chi.Router) {
			r.Use(authenticate.New(log, handler))

			r.Post("/agreements", agreement.Submit(log, handler))

			r.Group(func(admin chi.Router) {
				admin.Use(authenticate.RequireAdministrator())
				admin.Get("/agreements", agreement.List(log, handler))
				admin.Get("/agreements/export", agreement.Export(log, handler))
				admin.Post("/agreements/{id}/assign", agreement.Assign(log, handler))
			})
		})
	})

	// The live feed stays outside the timeout chain: the upgrade carries
	// its token in the query string and the handler checks the
	// administrator claim itself.
	router.Get("/live", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWs(hub, handler, log, w, r)
	})

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:  router,
		ErrorLog: httpLog,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
