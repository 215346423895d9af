// Package logger provides the shared file-backed logger.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Level filters which messages are written.
type Level int

// Log levels, most verbose first.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	globalLogger *log.Logger
	logFile      *os.File
	echo         io.Writer // optional console mirror
	minLevel     = LevelInfo
	mu           sync.Mutex
)

// Init initializes the global logger with the specified log file path.
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	logFile = f
	globalLogger = log.New(f, "", log.Ltime|log.Lmicroseconds)

	return nil
}

// SetLevel sets the minimum level that gets written.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = l
}

// SetEcho mirrors log output to the given writer (typically stderr for
// --verbose runs). Pass nil to disable.
func SetEcho(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	echo = w
}

// Close closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
		globalLogger = nil
	}
}

// Debug logs a debug message.
func Debug(format string, v ...interface{}) {
	write(LevelDebug, "[DEBUG] ", format, v...)
}

// Info logs an info message.
func Info(format string, v ...interface{}) {
	write(LevelInfo, "[INFO] ", format, v...)
}

// Warn logs a warning message.
func Warn(format string, v ...interface{}) {
	write(LevelWarn, "[WARN] ", format, v...)
}

// Error logs an error message.
func Error(format string, v ...interface{}) {
	write(LevelError, "[ERROR] ", format, v...)
}

func write(l Level, prefix, format string, v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if l < minLevel {
		return
	}
	if globalLogger != nil {
		globalLogger.Printf(prefix+format, v...)
	}
	if echo != nil {
		fmt.Fprintf(echo, prefix+format+"\n", v...)
	}
}

// GetWriter returns the underlying writer for use by subprocesses.
func GetWriter() io.Writer {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		return logFile
	}
	return io.Discard
}
