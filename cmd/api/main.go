package main

import (
	"context"

	"go-thread/internal/app"
	"go-thread/internal/bootstrap"
	"go-thread/internal/config"
	"go-thread/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger, err := app.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// build dependency + routes
	ctx := context.Background()
	cleanup, err := app.BuildApp(ctx, r, cfg)
	if err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}
	defer cleanup()

	auditLogger := bootstrap.NewStdoutAuditLogger()
	err = bootstrap.StartHTTPServer(
		ctx,
		r,
		bootstrap.ServerConfig{
			Port:         cfg.Port,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		auditLogger,
	)
	if err != nil {
		logger.Error("http server failed", zap.Error(err))
	}
}
