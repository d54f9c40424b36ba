package logging

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logger *logrus.Logger
	once   sync.Once
)

// GetLogger returns the shared logger. It is usable before InitLogger is
// called and defaults to the info level.
func GetLogger() *logrus.Logger {
	once.Do(func() {
		logger = logrus.New()
		// stdout belongs to the display target.
		logger.SetOutput(os.Stderr)
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	})
	return logger
}

// InitLogger sets the level of the shared logger.
func InitLogger(level logrus.Level) {
	GetLogger().SetLevel(level)
}
