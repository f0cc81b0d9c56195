package testutil

import (
	"fmt"
	"strings"
	"sync"
)

// Logger records formatted messages by level
type Logger struct {
	mu       sync.Mutex
	Messages map[string][]string
}

// NewLogger creates a recording logger
func NewLogger() *Logger {
	return &Logger{Messages: make(map[string][]string)}
}

func (l *Logger) Debug(format string, v ...interface{}) { l.add("debug", format, v...) }
func (l *Logger) Info(format string, v ...interface{})  { l.add("info", format, v...) }
func (l *Logger) Warn(format string, v ...interface{})  { l.add("warn", format, v...) }
func (l *Logger) Error(format string, v ...interface{}) { l.add("error", format, v...) }

// Contains reports whether any message at level contains substr
func (l *Logger) Contains(level, substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.Messages[level] {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

func (l *Logger) add(level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages[level] = append(l.Messages[level], fmt.Sprintf(format, v...))
}
