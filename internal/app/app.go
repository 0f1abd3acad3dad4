package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/edseguy/code-scanner/internal/config"
	"github.com/edseguy/code-scanner/internal/enrich"
	"github.com/edseguy/code-scanner/internal/httpserver"
	"github.com/edseguy/code-scanner/internal/httpserver/deps"
	"github.com/edseguy/code-scanner/internal/logger"
	"github.com/edseguy/code-scanner/internal/redis"
	"github.com/edseguy/code-scanner/internal/scheduler"
	"github.com/edseguy/code-scanner/internal/session"
	"github.com/edseguy/code-scanner/internal/shell"
	"github.com/edseguy/code-scanner/internal/store"
	redisstore "github.com/edseguy/code-scanner/internal/store/redis"
	"github.com/edseguy/code-scanner/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	controller  *session.Controller
	reloader    *scheduler.ProfileReloader
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// History backend: redis when enabled, in-process memory otherwise.
	var kv store.KV
	var redisClient *goredis.Client
	if cfg.RedisEnabled {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		loggerClient.Info("Redis initialized successfully")
		redisClient = client
		kv = redisstore.NewKV(client)
	} else {
		loggerClient.Warn("redis disabled, scan history will not survive restarts")
		kv = store.NewMemoryKV()
	}

	history := store.NewHistoryStore(kv, redisstore.HistoryKey(), loggerClient)

	shellClient := shell.New(cfg.ShellURL, cfg.ShellTimeout, loggerClient)
	enricher := enrich.New(cfg.LookupURL, cfg.LookupTimeout, loggerClient)

	controller := session.New(session.Options{
		History:    history,
		Enricher:   enricher,
		Opener:     shellClient,
		Clipboard:  shellClient,
		Permission: shellClient,
		Capture:    shellClient,
		Logger:     loggerClient,
	})

	// Profile reloader (if a profile file is configured)
	var reloader *scheduler.ProfileReloader
	var reloadTrigger chan struct{}
	if cfg.ProfileFile != "" {
		loggerClient.Info("profile file configured, initializing profile reloader",
			logger.String("file", cfg.ProfileFile))
		reloadTrigger = make(chan struct{}, 1)
		reloader = scheduler.NewProfileReloader(
			cfg.ProfileFile,
			controller,
			loggerClient,
			cfg.ProfileReloadInterval,
			reloadTrigger,
		)
	} else {
		loggerClient.Info("profile file not configured, using built-in defaults")
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:               loggerClient,
		StartTime:            time.Now(),
		Version:              version.Version,
		Commit:               version.Commit,
		BuildDate:            version.BuildDate,
		GoVersion:            version.GoVersion,
		Controller:           controller,
		RedisClient:          redisClient,
		ProfileReloadTrigger: reloadTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		controller:  controller,
		reloader:    reloader,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting scand v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("scand %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Arm the session: permission + history load. Denial is not fatal; the
	// shell retries through the permission endpoint.
	if err := a.controller.Start(ctx); err != nil {
		if errors.Is(err, session.ErrPermissionDenied) {
			a.logger.Warn("camera permission denied, waiting for retry from shell")
		} else {
			a.logger.Warn("session start failed, waiting for retry from shell",
				logger.Error(err))
		}
	}

	// Start profile reloader (if enabled)
	if a.reloader != nil {
		if err := a.reloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start profile reloader: %w", err)
		}
		a.logger.Info("profile reloader started",
			logger.Duration("interval", a.cfg.ProfileReloadInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.reloader != nil {
		a.reloader.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ scand stopped cleanly")
	return nil
}
