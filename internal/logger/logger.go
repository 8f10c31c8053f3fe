package logger

import (
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	app  *logrus.Logger
	once sync.Once
)

// Setup configures the application logger. Safe to call once from main; later
// calls are no-ops.
func Setup(level, format string) {
	once.Do(func() {
		app = logrus.New()
		app.SetOutput(os.Stdout)

		lvl, err := logrus.ParseLevel(strings.ToLower(level))
		if err != nil {
			lvl = logrus.InfoLevel
		}
		app.SetLevel(lvl)

		if strings.EqualFold(format, "json") {
			app.SetFormatter(&logrus.JSONFormatter{})
		} else {
			app.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		}
	})
}

// Get returns the application logger, initializing it with defaults when
// Setup was never called (tests, tools).
func Get() *logrus.Logger {
	Setup("info", "text")
	return app
}

// Component returns a child logger tagged with a component name.
func Component(name string) *logrus.Entry {
	return Get().WithField("component", name)
}
