// Package notice defines the levelled, localized messages reported to the
// user after an operation.
package notice

import (
	"encoding/json"
	"time"
)

// Level is the severity of a notice.
type Level string

// Notice levels.
const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Timeout returns how long a notice of the level stays visible. Errors
// return 0 and stay until dismissed.
func (l Level) Timeout() time.Duration {
	switch l {
	case LevelSuccess, LevelInfo:
		return 2500 * time.Millisecond
	case LevelWarning:
		return 3500 * time.Millisecond
	}
	return 0
}

// Notice is one message for the user.
type Notice struct {
	Level   Level
	Message string
	Timeout time.Duration
	// Err is the error behind an error or warning notice.
	Err error
}

// New returns a notice with the default timeout of level.
func New(level Level, msg string) Notice {
	return Notice{Level: level, Message: msg, Timeout: level.Timeout()}
}

// Sticky reports whether the notice stays until dismissed.
func (n Notice) Sticky() bool {
	return n.Timeout == 0
}

// Failed reports whether the notice reports an error or a warning.
func (n Notice) Failed() bool {
	return n.Level == LevelError || n.Level == LevelWarning
}

// String returns the message.
func (n Notice) String() string {
	return n.Message
}

// MarshalJSON encodes the notice with the timeout in milliseconds. Err is
// not encoded.
func (n Notice) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Level     Level  `json:"level"`
		Message   string `json:"message"`
		TimeoutMS int64  `json:"timeout_ms"`
	}{n.Level, n.Message, n.Timeout.Milliseconds()})
}
