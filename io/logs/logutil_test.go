package logs

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() (*logrus.Logger, *bytes.Buffer) {
	var stdout bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&stdout)
	logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, DisableTimestamp: true})
	return logger, &stdout
}

func TestConfigurePersistentLogging(t *testing.T) {
	tests := []struct {
		name string
		path func(dir string) string
	}{
		{
			name: "existing directory",
			path: func(dir string) string { return filepath.Join(dir, "test.log") },
		},
		{
			name: "missing directory",
			path: func(dir string) string { return filepath.Join(dir, "non-existing", "test.log") },
		},
		{
			name: "missing nested directory",
			path: func(dir string) string { return filepath.Join(dir, "a", "b", "test.log") },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, stdout := testLogger()
			logFile := tt.path(t.TempDir())
			require.NoError(t, configurePersistentLogging(logger, logFile))

			logger.WithField("slot", 12).Info("Broadcast published block")
			content, err := os.ReadFile(logFile)
			require.NoError(t, err)
			assert.Contains(t, string(content), "Broadcast published block")
			assert.Contains(t, stdout.String(), "Broadcast published block")
		})
	}
}

func TestConfigurePersistentLogging_Appends(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")
	require.NoError(t, os.WriteFile(logFile, []byte("previous run\n"), 0600))

	logger, _ := testLogger()
	require.NoError(t, configurePersistentLogging(logger, logFile))
	logger.Info("new run")

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "previous run")
	assert.Contains(t, string(content), "new run")
}

func TestConfigurePersistentLogging_DirectoryIsAFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte{}, 0600))

	logger, _ := testLogger()
	err := configurePersistentLogging(logger, filepath.Join(blocker, "test.log"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not create log directory")
}
