package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skallars-social/domain/repository"
	"skallars-social/infrastructure/cache"
	linkedinclient "skallars-social/infrastructure/clients/linkedin"
	"skallars-social/infrastructure/configuration"
	"skallars-social/infrastructure/logger"
	"skallars-social/infrastructure/persistence"
	"skallars-social/infrastructure/pubsub"
	"skallars-social/infrastructure/realtime"
	"skallars-social/infrastructure/servicebus"
	httpHandler "skallars-social/interfaces/http"
	"skallars-social/server"
	"skallars-social/usecase"

	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")

	app := configuration.C.App

	psqlDb, err := persistence.NewPostgreSQLDB()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot connect to PostgreSQL")
		os.Exit(1)
	}

	// Schema capabilities are resolved once here and injected; queries never
	// infer column presence from error text at request time.
	caps, err := persistence.EnsureLinkedInSchema(psqlDb)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("failed ensuring linkedin schema")
		os.Exit(1)
	}
	logger.GetLogger().WithField("share_mode_column", caps.ShareModeColumn).Info("Database connected.")

	mongoDb, err := persistence.NewMongoDb(
		configuration.C.Database.Mongo.Host,
		configuration.C.Database.Mongo.Port,
		configuration.C.Database.Mongo.User,
		configuration.C.Database.Mongo.Password,
		configuration.C.Database.Mongo.Name,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("MongoDB not available - continuing without response archive")
		mongoDb = nil
	} else if err := mongoDb.Ping(ctx, nil); err != nil {
		logger.GetLogger().WithField("error", err).Warn("MongoDB ping failed - continuing without response archive")
		mongoDb = nil
	}

	pubSubClient, err := pubsub.NewPubSub(ctx, configuration.C.Pubsub.ProjectID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Pub/Sub not available - continuing without share events")
		pubSubClient = nil
	}
	azServiceBusClient, err := servicebus.NewServiceBus(ctx, configuration.C.ServiceBus.Namespace)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Azure Service Bus not available - continuing without Service Bus events")
		azServiceBusClient = nil
	}
	redisClient, _ := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
		configuration.C.RedisClient.Username,
		configuration.C.RedisClient.Password,
	)

	// User store: Azure SQL in production, PostgreSQL otherwise.
	var userRepository repository.IUser
	if env := os.Getenv("ENV"); env == "production" || env == "prod" || os.Getenv("DB_VENDOR") == "mssql" {
		var mssqlDb *sql.DB
		mssqlDb, err = persistence.NewMSSQLDB()
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Cannot connect to MSSQL user store")
			os.Exit(1)
		}
		userRepository = persistence.NewUserRepositoryMssql(mssqlDb)
	} else {
		userRepository = persistence.NewUserRepository(psqlDb)
	}

	accountRepository := persistence.NewLinkedInAccountRepository(psqlDb)
	stateRepository := persistence.NewOAuthStateRepository(psqlDb)
	queueRepository := persistence.NewShareQueueRepository(psqlDb, caps)
	logRepository := persistence.NewShareLogRepository(psqlDb)
	articleRepository := persistence.NewArticleRepository(psqlDb)
	settingsRepository := persistence.NewSettingsRepository(psqlDb)
	responseArchive := persistence.NewResponseArchive(mongoDb)

	linkedInClient := linkedinclient.NewClient(configuration.C.LinkedIn.Version)
	oauthFlow := linkedinclient.NewOAuth(configuration.C.LinkedIn)
	composer := usecase.NewComposer(linkedInClient)
	shareHub := realtime.NewShareHub()
	shareEvents := pubsub.NewShareEvents(pubSubClient, configuration.C.Pubsub.Topic)
	busSender := servicebus.NewShareEventSender(azServiceBusClient, configuration.C.ServiceBus.Queue)
	metricsCache := cache.NewMetricsCache(redisClient, time.Duration(configuration.C.Metrics.CacheTTLSeconds)*time.Second)

	runner := usecase.NewRunnerUsecase(
		queueRepository,
		logRepository,
		accountRepository,
		articleRepository,
		linkedInClient,
		composer,
		usecase.RunnerConfig{
			BatchSize:    configuration.C.Share.BatchSize,
			LeaseMinutes: configuration.C.Share.LeaseMinutes,
			SiteBaseURL:  configuration.C.Site.BaseURL,
			Languages:    configuration.C.Site.Languages,
		},
		shareHub,
		shareEvents,
		busSender,
		responseArchive,
	)
	metricsUsecase := usecase.NewMetricsUsecase(linkedInClient, metricsCache)
	shareUsecase := usecase.NewShareUsecase(
		queueRepository,
		logRepository,
		settingsRepository,
		accountRepository,
		runner,
		metricsUsecase,
		caps,
		configuration.C.Share.DefaultVisibility,
	)
	oauthUsecase := usecase.NewOAuthUsecase(
		accountRepository,
		stateRepository,
		oauthFlow,
		linkedInClient,
		configuration.C.Site.ConnectFallbackPath,
	)
	userUsecase := usecase.NewUserUsecase(userRepository, app.SecretKey)

	userHandler := httpHandler.NewUserHandler(userUsecase)
	linkedInAuthHandler := httpHandler.NewLinkedInAuthHandler(oauthUsecase)
	shareHandler := httpHandler.NewShareHandler(shareUsecase)

	router := server.InitiateRouter(
		userHandler,
		linkedInAuthHandler,
		shareHandler,
		userRepository,
		shareHub,
		configuration.C.Scheduler.Secret,
	)

	// Background queue runner (ticker loop alongside the external trigger).
	g.Go(func() error {
		ticker := time.NewTicker(time.Duration(configuration.C.Share.PollSeconds) * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				runCtx, cancelRun := context.WithTimeout(ctx, 2*time.Minute)
				if _, err := runner.ProcessDue(runCtx, ""); err != nil {
					logger.GetLogger().WithField("error", err).Error("queue run failed")
				}
				cancelRun()
			}
		}
	})

	// Stuck-item reaper: items claimed longer than the lease go back to retry.
	g.Go(func() error {
		ticker := time.NewTicker(time.Duration(configuration.C.Share.LeaseMinutes) * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				reapCtx, cancelReap := context.WithTimeout(ctx, 30*time.Second)
				reclaimed, err := runner.ReapStuck(reapCtx)
				if err != nil {
					logger.GetLogger().WithField("error", err).Error("reaper failed")
				} else if reclaimed > 0 {
					logger.GetLogger().WithField("reclaimed", reclaimed).Warn("requeued stuck share items")
				}
				cancelReap()
			}
		}
	})

	port := app.Port
	logger.GetLogger().WithFields(map[string]interface{}{"port": port, "tls": app.TLSEnabled}).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if app.TLSEnabled {
			cert := app.TLSCertFile
			key := app.TLSKeyFile
			if cert == "" || key == "" {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
				if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			} else {
				if err := httpServer.ListenAndServeTLS(cert, key); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			}
		} else {
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}
