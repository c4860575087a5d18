// Package logging builds the logger shared by the gazegrid commands.
package logging

import (
	"io"
	"os"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileEnv names an optional log file; when set the logger tees through a
// size-rotated file in addition to stderr.
const FileEnv = "GAZEGRID_LOG_FILE"

// New returns a logrus logger writing human-readable lines to stderr and,
// when GAZEGRID_LOG_FILE is set, to a rotated file as well.
func New() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&formatter.Formatter{
		NoColors:        false,
		TimestampFormat: "2006-01-02 15:04:05",
		HideKeys:        false,
	})

	writers := []io.Writer{os.Stderr}
	if path := os.Getenv(FileEnv); path != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   path,
			LocalTime:  true,
			Compress:   true,
			MaxSize:    50,
			MaxAge:     7,
			MaxBackups: 3,
		})
	}
	logger.SetOutput(io.MultiWriter(writers...))
	return logger
}
