package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

func init() {
	globalLogger = NewDefault()
	if err := Configure(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT")); err != nil {
		globalLogger.Warn("Ignoring invalid logger environment", map[string]interface{}{"error": err.Error()})
	}
}

// Configure applies a level and format name to the global logger.
// Empty values leave the current setting; "auto" picks text for a terminal.
func Configure(level, format string) error {
	l := GetGlobalLogger()

	if level != "" {
		parsed, err := ParseLevel(level)
		if err != nil {
			return err
		}
		l.SetLevel(parsed)
	}

	if format != "" {
		parsed, err := ParseFormat(format)
		if err != nil {
			return err
		}
		l.SetFormat(parsed)
	}
	return nil
}

// ParseLevel parses a log level name
func ParseLevel(level string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG, nil
	case "INFO":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	case "FATAL":
		return FATAL, nil
	default:
		return INFO, fmt.Errorf("unknown log level %q", level)
	}
}

// ParseFormat parses a log format name
func ParseFormat(format string) (LogFormat, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return JSONFormat, nil
	case "text":
		return TextFormat, nil
	case "auto":
		if isTerminal(os.Stdout) {
			return TextFormat, nil
		}
		return JSONFormat, nil
	default:
		return JSONFormat, fmt.Errorf("unknown log format %q", format)
	}
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// SetGlobalLogger sets the global logger instance
func SetGlobalLogger(logger *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = logger
}

// Component returns a global logger bound to component
func Component(name string) *Logger {
	return GetGlobalLogger().WithComponent(name)
}

// Debug logs a debug message using the global logger
func Debug(message string, fields ...map[string]interface{}) {
	GetGlobalLogger().log(DEBUG, message, first(fields), nil)
}

// Info logs an info message using the global logger
func Info(message string, fields ...map[string]interface{}) {
	GetGlobalLogger().log(INFO, message, first(fields), nil)
}

// Warn logs a warning message using the global logger
func Warn(message string, fields ...map[string]interface{}) {
	GetGlobalLogger().log(WARN, message, first(fields), nil)
}

// Error logs an error message using the global logger
func Error(message string, err error, fields ...map[string]interface{}) {
	GetGlobalLogger().log(ERROR, message, first(fields), err)
}

// Fatal logs a fatal message using the global logger and exits
func Fatal(message string, err error, fields ...map[string]interface{}) {
	GetGlobalLogger().log(FATAL, message, first(fields), err)
}
