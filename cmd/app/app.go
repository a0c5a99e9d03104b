package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yizeng/gab/gin/gorm/inventory/internal/api"
	"github.com/yizeng/gab/gin/gorm/inventory/internal/config"
	"github.com/yizeng/gab/gin/gorm/inventory/internal/db"
	"github.com/yizeng/gab/gin/gorm/inventory/internal/logger"
	"github.com/yizeng/gab/gin/gorm/inventory/internal/repository/dao"
)

const (
	configPath      = "./cmd/app/config.yml"
	shutdownTimeout = 10 * time.Second
)

func Start() error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	if err = logger.SetLevel(conf.API.LogLevel); err != nil {
		return fmt.Errorf("failed to set log level -> %w", err)
	}
	defer func() {
		// stderr sinks report EINVAL on sync; nothing to act on
		_ = zap.L().Sync()
	}()

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		conf.Database.Driver = config.DriverPostgres
		conf.Database.DSN = dbURL
	}

	gormDB, err := db.Open(conf.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}
	defer closeDB(gormDB)

	if conf.Database.AutoMigrate {
		if err = dao.InitTables(gormDB); err != nil {
			return fmt.Errorf("failed to create tables -> %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, statErr := os.Stat(configPath); statErr == nil {
		config.Watch(configPath, func(c *config.AppConfig) {
			if err := logger.SetLevel(c.API.LogLevel); err != nil {
				zap.L().Warn("ignoring log level from reloaded config", zap.Error(err))
				return
			}
			zap.L().Info("config reloaded", zap.String("log_level", c.API.LogLevel))
		}, func(err error) {
			zap.L().Warn("ignoring invalid config change", zap.Error(err))
		})
	}

	s := api.NewServer(conf, gormDB)
	go s.Feed.Run(ctx)

	addr := ":" + s.Config.API.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.L().Error("failed to shut down server", zap.Error(err))
		}
	}()

	zap.L().Info(fmt.Sprintf("starting server at %v", addr),
		zap.String("driver", conf.Database.Driver))
	if err = srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}

func closeDB(gormDB *gorm.DB) {
	if err := db.Close(gormDB); err != nil {
		zap.L().Warn("failed to close database", zap.Error(err))
	}
}
