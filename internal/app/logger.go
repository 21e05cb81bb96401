package app

import (
	"go-thread/internal/config"

	"go.uber.org/zap"
)

// NewLogger builds the process logger: development output unless APP_ENV is
// production.
func NewLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
