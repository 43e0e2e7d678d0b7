package logger

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap logger. Level debug selects the development preset; any other
// level uses the production preset at that level.
func New(cfg *Config) (*zap.Logger, error) {
	var config zap.Config
	if cfg.Level == "debug" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
		if cfg.Level != "" {
			level, err := zap.ParseAtomicLevel(cfg.Level)
			if err != nil {
				return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
			}
			config.Level = level
		}
	}

	if cfg.Format == "console" {
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true
	} else {
		config.Encoding = "json"
	}
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.MessageKey = "message"

	return config.Build()
}

// WithRayID annotates l with the request's ray id, when the rayid middleware set one.
func WithRayID(l *zap.Logger, c *fiber.Ctx) *zap.Logger {
	if rid, ok := c.Locals("ray_id").(string); ok && rid != "" {
		return l.With(zap.String("ray_id", rid))
	}
	return l
}

// WithRun annotates l with an import run id and ruleset.
func WithRun(l *zap.Logger, runID, ruleset string) *zap.Logger {
	return l.With(zap.String("run_id", runID), zap.String("ruleset", ruleset))
}
