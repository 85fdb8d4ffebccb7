package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/2beens/tcxvis/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"
)

func TestGetLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, GetLevel("debug"))
	assert.Equal(t, logrus.ErrorLevel, GetLevel("ERROR"))
	assert.Equal(t, logrus.InfoLevel, GetLevel("info"))
	assert.Equal(t, logrus.WarnLevel, GetLevel("warn"))
	assert.Equal(t, logrus.WarnLevel, GetLevel("warning"))
	assert.Equal(t, logrus.TraceLevel, GetLevel("trace"))
	assert.Equal(t, logrus.InfoLevel, GetLevel("whatever"))
	assert.Equal(t, logrus.InfoLevel, GetLevel(""))
}

func TestOutput(t *testing.T) {
	assert.Equal(t, os.Stdout, output(LoggerSetupParams{}))

	dir := t.TempDir()
	fileOnly := output(LoggerSetupParams{LogFileName: filepath.Join(dir, "service")})
	rotating, ok := fileOnly.(*lumberjack.Logger)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "service.log"), rotating.Filename)

	both := output(LoggerSetupParams{LogFileName: filepath.Join(dir, "service.log"), LogToStdout: true})
	_, ok = both.(*pkg.FanOutWriter)
	assert.True(t, ok)
}

func TestSentryHook_Levels(t *testing.T) {
	levels := []logrus.Level{logrus.ErrorLevel, logrus.FatalLevel}
	hook := NewSentryHook(levels)
	assert.Equal(t, levels, hook.Levels())

	// no client bound to the hub, firing must be a no-op
	entry := logrus.NewEntry(logrus.New()).WithField("tcxid", 3)
	entry.Message = "failed to get samples"
	entry.Level = logrus.ErrorLevel
	assert.NoError(t, hook.Fire(entry))
}

func TestSentryLevel(t *testing.T) {
	assert.Equal(t, sentry.LevelFatal, sentryLevel(logrus.PanicLevel))
	assert.Equal(t, sentry.LevelError, sentryLevel(logrus.ErrorLevel))
	assert.Equal(t, sentry.LevelWarning, sentryLevel(logrus.WarnLevel))
	assert.Equal(t, sentry.LevelDebug, sentryLevel(logrus.TraceLevel))
}
