package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

const ProdEnv = "production"

// global accessible logger
var (
	logger *logrus.Logger
	Log    *logrus.Entry
)

// Tests and tools that never call InitLogger still get a usable Log.
func init() {
	InitLogger("development", "info")
}

// InitLogger rebuilds the global logger. Production logs are JSON, anything
// else uses the text formatter for readability.
func InitLogger(env, level string) {
	logger = logrus.New()
	logger.SetOutput(os.Stderr)

	if env == ProdEnv {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	Log = logger.WithFields(
		logrus.Fields{"service": "quillpress-api", "is_development": env != ProdEnv},
	)
	if err != nil {
		Log.WithField("level", level).Warn("unknown log level, using info")
	}
}
