// Package logger wraps zap for structured logging.
package logger

import (
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	log      *zap.Logger
	once     sync.Once
	logFile  string // empty means console only
	logLevel = zapcore.InfoLevel
	runID    string

	// stdout carries data, so console output goes to stderr
	console zapcore.WriteSyncer = zapcore.Lock(os.Stderr)
)

// Configure sets the level and the optional log file before the first use of the logger.
func Configure(level, file string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logLevel = lvl
	logFile = file
	return nil
}

// InitLogger initializes the Zap logger with structured logging.
func InitLogger() {
	once.Do(func() {
		level := zap.NewAtomicLevelAt(logLevel)

		consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		cores := []zapcore.Core{
			zapcore.NewCore(consoleEncoder, console, level),
		}

		var fileErr error
		if logFile != "" {
			file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
			if err == nil {
				fileEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
				cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.AddSync(file), level))
			} else {
				fileErr = err
			}
		}

		runID = uuid.NewString()
		log = zap.New(zapcore.NewTee(cores...), zap.AddCaller()).With(zap.String("run", runID))

		if fileErr != nil {
			log.Warn("Could not open log file, logging to console only",
				zap.String("path", logFile),
				zap.Error(fileErr))
		}
	})
}

// GetLogger provides access to the initialized logger.
func GetLogger() *zap.Logger {
	if log == nil {
		InitLogger()
	}
	return log
}

// RunID returns the id attached to every entry of this invocation.
func RunID() string {
	GetLogger()
	return runID
}

// Sync ensures buffered logs are written before the application exits.
func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}

// ResetLogger drops the global logger so the next call rebuilds it.
func ResetLogger() {
	Sync()
	log = nil
	once = sync.Once{}
	logFile = ""
	logLevel = zapcore.InfoLevel
	runID = ""
}
