// Package common provides shared constants, types, and utilities
// used across the LAN party client.
package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// relayTag marks lines relayed from the OpenVPN process.
const relayTag = "OpenVPN"

// AppLogger writes timestamped messages to the console and, optionally,
// to a size-rotated log file. Console output is colored when the writer
// is a terminal; the file always gets plain text.
type AppLogger struct {
	mu      sync.Mutex
	level   LogLevel
	console io.Writer
	styles  logStyles
	file    io.WriteCloser
	now     func() time.Time
}

// LogConfig holds configuration options for the logger.
type LogConfig struct {
	Level      LogLevel
	EnableFile bool
	// Dir is where the log file is created. Empty means the user config dir.
	Dir        string
	MaxSizeMB  int // default 5
	MaxBackups int // default 5
}

type logStyles struct {
	debug lipgloss.Style
	info  lipgloss.Style
	warn  lipgloss.Style
	err   lipgloss.Style
	relay lipgloss.Style
}

var (
	defaultLogger *AppLogger
	loggerOnce    sync.Once
)

const (
	defaultMaxSizeMB  = 5
	defaultMaxBackups = 5
)

// NewLogger creates a console logger writing to w.
func NewLogger(w io.Writer, level LogLevel) *AppLogger {
	return &AppLogger{
		level:   level,
		console: w,
		styles:  newLogStyles(w),
		now:     time.Now,
	}
}

func newLogStyles(w io.Writer) logStyles {
	r := lipgloss.NewRenderer(w)
	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return logStyles{
		debug: base.Faint(true),
		info:  base,
		warn:  base.Foreground(lipgloss.Color("3")),
		err:   base.Foreground(lipgloss.Color("1")),
		relay: base.Foreground(lipgloss.Color("4")),
	}
}

// isSymlink checks if a path is a symbolic link.
// Returns false if path doesn't exist (safe to create).
func isSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}

// GetLogger returns the singleton logger instance.
func GetLogger() *AppLogger {
	loggerOnce.Do(func() {
		defaultLogger = NewLogger(os.Stdout, LevelInfo)
	})
	return defaultLogger
}

// InitLogger initializes the default logger.
// Should be called early in application startup.
func InitLogger(config LogConfig) error {
	logger := GetLogger()
	logger.SetLevel(config.Level)

	if config.EnableFile {
		return logger.EnableFileLogging(config)
	}
	return nil
}

// SetLevel sets the minimum log level.
func (l *AppLogger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// EnableFileLogging mirrors every message into a rotated log file.
func (l *AppLogger) EnableFileLogging(config LogConfig) error {
	logDir := config.Dir
	if logDir == "" {
		logDir = GetLogDir()
		if logDir == "" {
			return fmt.Errorf("cannot determine log directory")
		}
	}

	if isSymlink(logDir) {
		return fmt.Errorf("security error: log directory is a symlink")
	}
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return err
	}

	logPath := filepath.Join(logDir, LogFileName)
	if isSymlink(logPath) {
		return fmt.Errorf("security error: log file is a symlink")
	}

	maxSize := config.MaxSizeMB
	if maxSize <= 0 {
		maxSize = defaultMaxSizeMB
	}
	maxBackups := config.MaxBackups
	if maxBackups <= 0 {
		maxBackups = defaultMaxBackups
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		l.file.Close()
	}
	l.file = &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		Compress:   true,
	}
	return nil
}

// GetLogDir returns the log directory path.
func GetLogDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppID, "logs")
}

// write emits one message to the console and the file.
func (l *AppLogger) write(level LogLevel, tag string, style func(*logStyles) lipgloss.Style, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	now := l.now()
	console := fmt.Sprintf("[%s][%s] %s", now.Format("15:04:05"), tag, msg)
	fmt.Fprintln(l.console, style(&l.styles).Render(console))

	if l.file != nil {
		fmt.Fprintf(l.file, "%s [%s] %s\n", now.Format("2006/01/02 15:04:05"), tag, msg)
	}
}

func (l *AppLogger) log(level LogLevel, style func(*logStyles) lipgloss.Style, msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	l.write(level, level.String(), style, msg)
}

// Debug logs a debug message.
func (l *AppLogger) Debug(msg string, args ...interface{}) {
	l.log(LevelDebug, func(s *logStyles) lipgloss.Style { return s.debug }, msg, args...)
}

// Info logs an informational message.
func (l *AppLogger) Info(msg string, args ...interface{}) {
	l.log(LevelInfo, func(s *logStyles) lipgloss.Style { return s.info }, msg, args...)
}

// Warn logs a warning message.
func (l *AppLogger) Warn(msg string, args ...interface{}) {
	l.log(LevelWarn, func(s *logStyles) lipgloss.Style { return s.warn }, msg, args...)
}

// Error logs an error message.
func (l *AppLogger) Error(msg string, args ...interface{}) {
	l.log(LevelError, func(s *logStyles) lipgloss.Style { return s.err }, msg, args...)
}

// Relay logs a line of OpenVPN output. The line is never formatted.
func (l *AppLogger) Relay(line string) {
	l.write(LevelInfo, relayTag, func(s *logStyles) lipgloss.Style { return s.relay }, strings.TrimRight(line, "\r"))
}

// Shorthand functions for default logger.

// LogWarn logs a warning message to the default logger.
func LogWarn(msg string, args ...interface{}) {
	GetLogger().Warn(msg, args...)
}

// Close closes the log file. Should be called on application shutdown.
func (l *AppLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// CloseLogger closes the default logger.
func CloseLogger() error {
	return GetLogger().Close()
}
