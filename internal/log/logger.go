package log

import (
	"github.com/sirupsen/logrus"
)

// Logger is the handle passed into the internal API routines. It wraps a
// logrus logger so the hosting process can swap in its own formatter and
// output without the dispatcher caring.
type Logger struct {
	Log *logrus.Logger
}

func NewLogger(l *logrus.Logger, level logrus.Level) *Logger {
	if l == nil {
		l = logrus.New()
	}
	l.SetLevel(level)
	return &Logger{
		Log: l,
	}
}
