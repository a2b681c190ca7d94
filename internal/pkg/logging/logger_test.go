//go:build unit

package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestCompactFormatter(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(LogConfig{Level: "debug", Format: "simple"}, &buf)

	l.WithFields(logrus.Fields{
		"interface": "eth0",
		"component": "factory",
		"zeta":      1,
		"alpha":     "x",
	}).Info("Provisioning started")

	assert.Equal(t, "[INFO][factory][eth0] Provisioning started (alpha=x, zeta=1)\n", buf.String())
}

func TestNewLogger_InvalidSettings(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(LogConfig{Level: "loud", Format: "fancy"}, &buf)

	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, l.Formatter)
	assert.Contains(t, buf.String(), "Invalid log level")
	assert.Contains(t, buf.String(), "Invalid log format")
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewLogger(LogConfig{Level: "info", Format: "simple"}, &buf))

	WithComponentAndInterface("tracker", "eth1").Warn("Link vanished")
	assert.Equal(t, "[WARNING][tracker][eth1] Link vanished\n", buf.String())
}
