package gles

import (
	"github.com/sirupsen/logrus"
)

var log logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the logger used for compile, link and framebuffer
// diagnostics. A nil logger restores the logrus standard logger.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	log = l
}

// Logger returns the logger currently in use.
func Logger() logrus.FieldLogger {
	return log
}
