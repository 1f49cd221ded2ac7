package lookahead

import "github.com/sirupsen/logrus"

// disabledLogger is used whenever a Config carries no Logger, so that the
// core never writes to stdout/stderr on its own (it is a library, per §6
// "CLI surface: None").
func disabledLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(discardWriter{})
	l.SetLevel(logrus.PanicLevel)
	return l
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// logger resolves cfg.Logger, falling back to a disabled logger.
func (cfg *Config) logger() *logrus.Logger {
	if cfg.Logger == nil {
		return disabledLogger()
	}
	return cfg.Logger
}
