package logger

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithFieldBeforeInitFollowsConfiguration(t *testing.T) {
	saved := Logger
	Logger = nil
	defer func() { Logger = saved }()

	// Module loggers are created at package init, before Init runs.
	moduleLog := WithField("module", "api.transport")

	require.NoError(t, Init(Config{Level: "debug"}))

	assert.Same(t, Logger, moduleLog.Logger,
		"pre-Init entries must share the configured logger instance")
	assert.Equal(t, logrus.DebugLevel, moduleLog.Logger.GetLevel())
}

func TestWithFieldAfterInitBindsToSharedLogger(t *testing.T) {
	require.NoError(t, Init(Config{Level: "warn"}))

	entry := WithFields(logrus.Fields{"module": "store"})
	assert.Same(t, Logger, entry.Logger)
	assert.Equal(t, logrus.WarnLevel, entry.Logger.GetLevel())
}

func TestInitWithFileRecordsLogPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "fxterm.log")
	require.NoError(t, Init(Config{Level: "info", OutputFile: path, MaxSize: 1}))
	assert.Equal(t, path, GetCurrentLogFile())
}
