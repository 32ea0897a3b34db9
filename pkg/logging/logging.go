package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// LogLevel defines the severity of the log entry.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String makes LogLevel satisfy the fmt.Stringer interface.
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

func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo // Default to INFO for unknown
	}
}

// LogEntry is the structured log entry passed to the TUI.
type LogEntry struct {
	Timestamp time.Time
	Level     LogLevel
	Subsystem string
	Host      string // remote host the entry is about, if any
	Message   string
	Err       error
}

var (
	mu            sync.RWMutex
	defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	filterLevel   = LevelInfo
	tuiLogChannel chan LogEntry
)

const tuiChannelBufferSize = 2048

// InitForCLI writes text records at or above level to output.
func InitForCLI(level LogLevel, output io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	tuiLogChannel = nil
	filterLevel = level
	defaultLogger = slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: level.SlogLevel()}))
	slog.SetDefault(defaultLogger)
}

// InitForTUI routes entries at or above level to the returned channel instead
// of a writer. The run-window view drains it.
func InitForTUI(level LogLevel) <-chan LogEntry {
	mu.Lock()
	defer mu.Unlock()

	filterLevel = level
	tuiLogChannel = make(chan LogEntry, tuiChannelBufferSize)
	return tuiLogChannel
}

// CloseTUIChannel closes the TUI log channel and returns to stderr logging.
func CloseTUIChannel() {
	mu.Lock()
	defer mu.Unlock()

	if tuiLogChannel != nil {
		close(tuiLogChannel)
		tuiLogChannel = nil
	}
}

func logInternal(level LogLevel, subsystem, host string, err error, messageFmt string, args ...interface{}) {
	msg := messageFmt
	if len(args) > 0 {
		msg = fmt.Sprintf(messageFmt, args...)
	}

	mu.RLock()
	defer mu.RUnlock()

	if level < filterLevel {
		return
	}

	if tuiLogChannel != nil {
		entry := LogEntry{
			Timestamp: time.Now(),
			Level:     level,
			Subsystem: subsystem,
			Host:      host,
			Message:   msg,
			Err:       err,
		}
		// Drop rather than block the orchestrator when the view falls behind.
		select {
		case tuiLogChannel <- entry:
		default:
		}
		return
	}

	attrs := []slog.Attr{slog.String("subsystem", subsystem)}
	if host != "" {
		attrs = append(attrs, slog.String("host", host))
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	defaultLogger.LogAttrs(context.Background(), level.SlogLevel(), msg, attrs...)
}

// Debug logs a debug message.
func Debug(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelDebug, subsystem, "", nil, messageFmt, args...)
}

// Info logs an informational message.
func Info(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelInfo, subsystem, "", nil, messageFmt, args...)
}

// Warn logs a warning message.
func Warn(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelWarn, subsystem, "", nil, messageFmt, args...)
}

// Error logs an error message.
func Error(subsystem string, err error, messageFmt string, args ...interface{}) {
	logInternal(LevelError, subsystem, "", err, messageFmt, args...)
}

// HostDebug logs a debug message about one remote host.
func HostDebug(subsystem, host string, messageFmt string, args ...interface{}) {
	logInternal(LevelDebug, subsystem, host, nil, messageFmt, args...)
}

// HostInfo logs an informational message about one remote host.
func HostInfo(subsystem, host string, messageFmt string, args ...interface{}) {
	logInternal(LevelInfo, subsystem, host, nil, messageFmt, args...)
}

// HostError logs a failure on one remote host.
func HostError(subsystem, host string, err error, messageFmt string, args ...interface{}) {
	logInternal(LevelError, subsystem, host, err, messageFmt, args...)
}
