package config

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the application logger from LOG_LEVEL and GO_ENV.
// Production logs are JSON so they can be shipped as-is; everything else gets timestamped text.
func NewLogger(cfg *Config) *logrus.Logger {
	return newLogger(cfg, os.Stdout)
}

func newLogger(cfg *Config, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	if cfg.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("log_level", cfg.LogLevel).Warn("Unknown LOG_LEVEL, falling back to info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}
