package logger

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Config controls log level and output format
type Config struct {
	Level       string
	Format      string
	ServiceName string
}

// New builds a structured logrus logger. Every log line carries the service
// name so aggregated logs stay attributable.
func New(config Config) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if config.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: time.RFC3339Nano,
			FullTimestamp:   true,
		})
	}

	log.SetOutput(os.Stdout)
	log.AddHook(&serviceHook{serviceName: config.ServiceName})

	return log
}

// serviceHook stamps the service name onto every entry
type serviceHook struct {
	serviceName string
}

func (h *serviceHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *serviceHook) Fire(entry *logrus.Entry) error {
	entry.Data["service"] = h.serviceName
	return nil
}
