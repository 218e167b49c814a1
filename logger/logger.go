package logger

import (
	"fmt"
	"strings"

	"github.com/ghprofile/profile-api/config"
	"github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger from the LOGS section
func Setup(cfg config.Config) error {
	return Configure(logrus.StandardLogger(), cfg)
}

// Configure applies the formatter and level to l and tags every entry with
// the data source it serves. Calling it again replaces the previous setup.
func Configure(l *logrus.Logger, cfg config.Config) error {
	level, err := ParseLevel(cfg.Logs.Level)
	if err != nil {
		return err
	}

	if cfg.Logs.OutputLogsAsJSON {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	l.SetLevel(level)

	hooks := make(logrus.LevelHooks)
	hooks.Add(sourceHook{kind: cfg.Source.Kind})
	l.ReplaceHooks(hooks)

	return nil
}

// ParseLevel accepts any logrus level name, case insensitive
func ParseLevel(level string) (logrus.Level, error) {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.ErrorLevel, fmt.Errorf("unknown log level %q", level)
	}

	return parsed, nil
}

// sourceHook adds the configured source kind, so fixture runs are easy to tell
// apart from live github traffic in shared log output
type sourceHook struct {
	kind string
}

func (h sourceHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h sourceHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data["source"]; !ok {
		entry.Data["source"] = h.kind
	}

	return nil
}
