package logger

import (
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	// globalLogger holds the singleton logger instance
	globalLogger *AppLogger
	// once ensures the fallback logger is initialized only once
	once sync.Once
	// mu protects access to the global logger
	mu sync.RWMutex
)

// SetGlobalLogger sets the global logger instance
// This should be called once during application startup
func SetGlobalLogger(logger *AppLogger) {
	mu.Lock()
	defer mu.Unlock()
	globalLogger = logger
}

// GetGlobalLogger returns the global logger instance
// If no logger is set, it returns a default logger
func GetGlobalLogger() *AppLogger {
	mu.RLock()
	defer mu.RUnlock()

	if globalLogger == nil {
		// Return a default logger if none is set (for safety)
		once.Do(func() {
			defaultLogger, _ := NewAppLogger(Config{Level: "info"})
			globalLogger = defaultLogger
		})
	}

	return globalLogger
}

// Global logger convenience functions

// Info logs an info message using the global logger
func Info(msg string, fields ...logrus.Fields) {
	entry(fields...).Info(msg)
}

// Warn logs a warning message using the global logger
func Warn(msg string, fields ...logrus.Fields) {
	entry(fields...).Warn(msg)
}

// Error logs an error message using the global logger
func Error(msg string, fields ...logrus.Fields) {
	entry(fields...).Error(msg)
}

// Debug logs a debug message using the global logger
func Debug(msg string, fields ...logrus.Fields) {
	entry(fields...).Debug(msg)
}

// Fatal logs a fatal message and exits using the global logger
func Fatal(msg string, fields ...logrus.Fields) {
	entry(fields...).Fatal(msg)
}

// WithError returns an entry with an error field using the global logger
func WithError(err error) *logrus.Entry {
	return GetGlobalLogger().WithError(err)
}

func entry(fields ...logrus.Fields) *logrus.Entry {
	merged := logrus.Fields{}
	for _, f := range fields {
		for k, v := range f {
			merged[k] = v
		}
	}
	return GetGlobalLogger().WithFields(merged)
}
