// Package logger builds the service's zap logger and the scoped child loggers
// used by requests, client mutations and scheduled jobs.
package logger

import (
	"fmt"

	"github.com/straye-as/pipeline-api/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field keys shared by the scoped loggers
const (
	KeyRequestID = "request_id"
	KeyClientID  = "client_id"
	KeyJobName   = "job_name"
)

// NewLogger writes JSON in production or when logging.format is "json",
// and colored console lines everywhere else. An unknown level means info.
func NewLogger(cfg *config.LoggingConfig, appCfg *config.AppConfig) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if cfg.Format == "json" || appCfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	level := zapcore.InfoLevel
	if parsed, err := zapcore.ParseLevel(cfg.Level); err == nil {
		level = parsed
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.InitialFields = map[string]interface{}{
		"app":         appCfg.Name,
		"environment": appCfg.Environment,
	}

	log, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s logger: %w", level, err)
	}
	return log, nil
}

// WithRequest scopes log to one HTTP request
func WithRequest(log *zap.Logger, method, path, requestID string) *zap.Logger {
	return log.With(
		zap.String("method", method),
		zap.String("path", path),
		zap.String(KeyRequestID, requestID),
	)
}

func WithClient(log *zap.Logger, clientID int) *zap.Logger {
	return log.With(zap.Int(KeyClientID, clientID))
}

func WithJob(log *zap.Logger, name string) *zap.Logger {
	return log.With(zap.String(KeyJobName, name))
}
