package util

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the application logger.
var Log = logrus.New()

// InitLogger configures Log for the given environment and level.
// Production and staging log JSON; everything else logs text.
func InitLogger(appEnv, level string) {
	Log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		Log.Warnf("Invalid log level '%s', defaulting to 'info'. Error: %v", level, err)
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	switch strings.ToLower(appEnv) {
	case "production", "staging":
		Log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	default:
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	Log.WithField("env", appEnv).Debugf("log level set to %s", Log.GetLevel())
}

// SetLogOutputForTest redirects Log and returns a function restoring stdout.
func SetLogOutputForTest(w io.Writer) func() {
	Log.SetOutput(w)
	return func() { Log.SetOutput(os.Stdout) }
}
