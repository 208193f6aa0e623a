// Package logging constructs the process-wide zap logger.
package logging

import (
	"go.uber.org/zap"

	"github.com/abhisek/quizsmith/internal/config"
)

// New returns a zap logger matching the configured environment: JSON output
// in production, human-readable otherwise.
func New(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
