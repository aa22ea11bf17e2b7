package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// LogLevel represents the log level
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

var levelNames = map[LogLevel]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

var levelColors = map[LogLevel]*color.Color{
	WARN:  color.New(color.FgYellow),
	ERROR: color.New(color.FgRed, color.Bold),
}

func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel maps "debug", "info", "warn" and "error" to a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG, nil
	case "info", "":
		return INFO, nil
	case "warn", "warning":
		return WARN, nil
	case "error":
		return ERROR, nil
	default:
		return INFO, fmt.Errorf("invalid log level: %s", s)
	}
}

// Logger writes every message at or above its level to a log file and echoes
// warnings and errors to the console.
type Logger struct {
	mu            sync.Mutex
	level         LogLevel
	fileLogger    *log.Logger
	consoleLogger *log.Logger
	file          *os.File
	logDir        string
}

var defaultLogger *Logger

// Init initializes the default logger
func Init(logDir string, level LogLevel) error {
	logger, err := NewLogger(logDir, level)
	if err != nil {
		return err
	}
	defaultLogger = logger
	return nil
}

// NewLogger creates a logger writing to a timestamped file in logDir
func NewLogger(logDir string, level LogLevel) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logFile := filepath.Join(logDir, fmt.Sprintf("fsutil_%s.log", timestamp))

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	// latest.log always points at the newest file
	latestLog := filepath.Join(logDir, "latest.log")
	os.Remove(latestLog)
	os.Symlink(filepath.Base(logFile), latestLog)

	return &Logger{
		level:         level,
		fileLogger:    log.New(file, "", 0),
		consoleLogger: log.New(color.Error, "", 0),
		file:          file,
		logDir:        logDir,
	}, nil
}

// NewWriterLogger creates a logger without a log file, writing every message
// at or above level to w.
func NewWriterLogger(w io.Writer, level LogLevel) *Logger {
	return &Logger{
		level:      level,
		fileLogger: log.New(w, "", 0),
	}
}

// log writes a log message
func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	message := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	line := fmt.Sprintf("[%s] %s: %s", timestamp, level, message)

	if l.fileLogger != nil {
		l.fileLogger.Println(line)
	}
	if level >= WARN && l.consoleLogger != nil {
		l.consoleLogger.Println(levelColors[level].Sprintf("%s: %s", level, message))
	}
}

// SetLevel changes the minimum level written
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DEBUG, format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(INFO, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WARN, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ERROR, format, args...)
}

// Close closes the log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		l.fileLogger = nil
		return err
	}
	return nil
}

// GetLogDir returns the log directory
func (l *Logger) GetLogDir() string {
	return l.logDir
}

// SetDefault replaces the default logger; nil disables package-level logging.
func SetDefault(l *Logger) {
	defaultLogger = l
}

// Package-level functions for default logger. They are no-ops until Init or
// SetDefault is called, so library code may log unconditionally.

// Debug logs a debug message using the default logger
func Debug(format string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Debug(format, args...)
	}
}

// Info logs an info message using the default logger
func Info(format string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Info(format, args...)
	}
}

// Warn logs a warning message using the default logger
func Warn(format string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Warn(format, args...)
	}
}

// Error logs an error message using the default logger
func Error(format string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Error(format, args...)
	}
}

// Close closes the default logger
func Close() error {
	if defaultLogger != nil {
		return defaultLogger.Close()
	}
	return nil
}
