// Package logs creates a Multi writer instance that
// write all logs that are written to stdout.
package logs

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	logDirPermissions  = 0700
	logFilePermissions = 0600
)

func addLogWriter(logger *logrus.Logger, w io.Writer) {
	mw := io.MultiWriter(logger.Out, w)
	logger.SetOutput(mw)
}

// ConfigurePersistentLogging adds a log-to-file writer to the standard logger.
// File content is identical to stdout. Missing parent directories are created.
func ConfigurePersistentLogging(logFileName string) error {
	return configurePersistentLogging(logrus.StandardLogger(), logFileName)
}

func configurePersistentLogging(logger *logrus.Logger, logFileName string) error {
	logger.WithField("logFileName", logFileName).Info("Logs will be made persistent")
	if err := os.MkdirAll(filepath.Dir(logFileName), logDirPermissions); err != nil {
		return errors.Wrap(err, "could not create log directory")
	}
	f, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermissions) // #nosec G304
	if err != nil {
		return errors.Wrap(err, "could not open log file")
	}

	addLogWriter(logger, f)

	logger.Info("File logging initialized")
	return nil
}
