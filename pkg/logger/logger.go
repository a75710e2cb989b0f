package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/skillshare/cli/pkg/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger *log.Logger

// Init initializes the logger
func Init(verbose bool) {
	logLevel := parseLevel(config.GetString("log.level"))
	if verbose {
		logLevel = log.DebugLevel
	}

	logger = log.NewWithOptions(fileWriter(), log.Options{
		ReportTimestamp: true,
		Prefix:          "skillshare",
	})
	logger.SetLevel(logLevel)
}

// fileWriter returns a rotating writer for log.file, or stderr if the
// directory can't be created.
func fileWriter() io.Writer {
	logFile := config.GetString("log.file")
	if logFile == "" {
		return os.Stderr
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0700); err != nil {
		return os.Stderr
	}

	maxSize := config.GetInt("log.max_size_mb")
	if maxSize <= 0 {
		maxSize = 10
	}

	return &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    maxSize,
		MaxBackups: config.GetInt("log.max_backups"),
		MaxAge:     28,
	}
}

func parseLevel(level string) log.Level {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel
	}
	return parsed
}

// SetOutput replaces the logger with one writing to w at debug level
func SetOutput(w io.Writer) {
	logger = log.New(w)
	logger.SetLevel(log.DebugLevel)
}

// Debug logs a debug message
func Debug(msg string, args ...interface{}) {
	if logger != nil {
		logger.Debug(msg, args...)
	}
}

// Info logs an info message
func Info(msg string, args ...interface{}) {
	if logger != nil {
		logger.Info(msg, args...)
	}
}

// Warn logs a warning message
func Warn(msg string, args ...interface{}) {
	if logger != nil {
		logger.Warn(msg, args...)
	}
}

// Error logs an error message
func Error(msg string, args ...interface{}) {
	if logger != nil {
		logger.Error(msg, args...)
	}
}

// Fatal logs a fatal message and exits
func Fatal(msg string, args ...interface{}) {
	if logger != nil {
		logger.Fatal(msg, args...)
	} else {
		os.Exit(1)
	}
}

// GetLogger returns the logger instance
func GetLogger() *log.Logger {
	return logger
}
