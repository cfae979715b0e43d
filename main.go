package main

import (
	"BandDesk/bot"
	"BandDesk/impl/core"
	"BandDesk/internal/config"
	repository "BandDesk/internal/database"
	"BandDesk/internal/http-server/api"
	"BandDesk/internal/lib/logger"
	"BandDesk/internal/lib/sl"
	"BandDesk/internal/service/adminview"
	"BandDesk/internal/service/assignment"
	"BandDesk/internal/service/export"
	"BandDesk/internal/service/identity"
	"BandDesk/internal/service/submission"
	"BandDesk/internal/ws"
	"context"
	"flag"
	"log/slog"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	// Initialize Telegram notifier if enabled
	var tgBot *bot.TgBot
	if conf.Telegram.Enabled {
		var err error
		tgBot, err = bot.NewTgBot(conf.Telegram.BotName, conf.Telegram.ApiKey, conf.Telegram.AdminId, lg)
		if err != nil {
			lg.Error("failed to initialize telegram bot", slog.String("error", err.Error()))
		} else {
			// Error-level log records also reach the operator chat.
			lg = logger.SetupTelegramHandler(lg, tgBot, slog.LevelError)
			lg.With(
				slog.String("bot_name", conf.Telegram.BotName),
			).Info("telegram bot initialized")
		}
	}

	lg.Info("starting banddesk", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	handler := core.New(lg)

	identityService, err := identity.NewService(conf, lg)
	if err != nil {
		// The service stays wired but never ready: the API refuses to
		// serve either role until the configuration is fixed.
		lg.Error("identity service", sl.Err(err))
	}
	handler.SetIdentityService(identityService)

	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.With(
			sl.Err(err),
		).Error("mongo client")
	}
	if db != nil {
		if err := db.EnsureIndexes(context.Background()); err != nil {
			lg.Error("ensuring indexes", sl.Err(err))
		}
		handler.SetRepository(db)
		lg.With(
			slog.String("host", conf.Mongo.Host),
			slog.String("port", conf.Mongo.Port),
			slog.String("database", conf.Mongo.Database),
		).Info("mongo client initialized")
	}

	submissionService := submission.NewService(lg)
	handler.SetSubmissionService(submissionService)

	assignmentService := assignment.NewService(lg)
	handler.SetAssignmentService(assignmentService)

	if db != nil {
		submissionService.SetRepository(db)
		assignmentService.SetRepository(db)
	}

	exportService := export.NewService(conf.District, lg)
	handler.SetExportService(exportService)

	if tgBot != nil {
		submissionService.SetNotifier(tgBot)
		assignmentService.SetNotifier(tgBot)
	}

	hub := ws.NewHub(lg)
	go hub.Run()

	// One standing subscription feeds every connected administrator
	// console through the hub.
	view := adminview.NewView(adminview.WatchFunc(
		func(ctx context.Context) (adminview.Subscription, error) {
			return db.WatchAgreements(ctx)
		}), lg)
	view.SetBroadcaster(hub)
	if db != nil {
		if err := view.Open(context.Background()); err != nil {
			lg.Error("opening admin view", sl.Err(err))
		} else {
			defer view.Close()
		}
	}

	// *** blocking start with http server ***
	err = api.New(conf, lg, handler, hub)
	if err != nil {
		lg.Error("server start", sl.Err(err))
		return
	}
	lg.Error("service stopped")
}
