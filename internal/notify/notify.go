// Package notify delivers the short status messages shown after user actions.
package notify

import (
	"fmt"
	"log"
	"sync"
)

// Level classifies a notification
type Level string

const (
	LevelInfo    Level = "INFO"
	LevelSuccess Level = "SUCCESS"
	LevelError   Level = "ERROR"
)

// Message is a single notification
type Message struct {
	Level Level
	Text  string
}

func (m Message) String() string {
	return fmt.Sprintf("[%s] %s", m.Level, m.Text)
}

// Notifier receives user-facing notifications
type Notifier interface {
	Notify(level Level, text string)
}

// LogNotifier writes notifications through a standard logger
type LogNotifier struct {
	logger *log.Logger
}

// NewLogNotifier creates a notifier writing to logger, or log.Default() when nil
func NewLogNotifier(logger *log.Logger) *LogNotifier {
	if logger == nil {
		logger = log.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify implements Notifier
func (n *LogNotifier) Notify(level Level, text string) {
	n.logger.Print(Message{Level: level, Text: text}.String())
}

// Recorder keeps notifications in memory
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

// Notify implements Notifier
func (r *Recorder) Notify(level Level, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Level: level, Text: text})
}

// Messages returns a copy of everything recorded so far
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// Last returns the most recent notification
func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return Message{}, false
	}
	return r.messages[len(r.messages)-1], true
}

// Success is shorthand for Notify(LevelSuccess, ...)
func Success(n Notifier, format string, args ...interface{}) {
	n.Notify(LevelSuccess, fmt.Sprintf(format, args...))
}

// Error is shorthand for Notify(LevelError, ...)
func Error(n Notifier, format string, args ...interface{}) {
	n.Notify(LevelError, fmt.Sprintf(format, args...))
}

// Info is shorthand for Notify(LevelInfo, ...)
func Info(n Notifier, format string, args ...interface{}) {
	n.Notify(LevelInfo, fmt.Sprintf(format, args...))
}
