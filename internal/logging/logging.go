package logging

import (
	"go.uber.org/zap"
)

// New builds the process logger. Dev mode gets the human console encoder,
// production gets JSON.
func New(dev bool) (*zap.Logger, error) {
	if dev {
		cfg := zap.NewDevelopmentConfig()
		return cfg.Build()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}
