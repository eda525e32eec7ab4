// Package notify defines the contract of the transient notification
// subsystem the workflows report to.
package notify

import (
	"fmt"
	"io"
	"os"
)

// Severity classifies a notification.
type Severity string

const (
	// SeveritySuccess marks a successful submission.
	SeveritySuccess Severity = "success"

	// SeverityError marks a failed submission.
	SeverityError Severity = "error"
)

// Notifier displays a transient notification. Fire-and-forget: callers never
// consume a result.
type Notifier interface {
	Notify(severity Severity, title, description string)
}

// Console writes notifications to a terminal stream.
type Console struct {
	w io.Writer
}

// NewConsole creates a console notifier. A nil writer defaults to stderr.
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = os.Stderr
	}
	return &Console{w: w}
}

// Notify implements Notifier.
func (c *Console) Notify(severity Severity, title, description string) {
	fmt.Fprintf(c.w, "[%s] %s: %s\n", severity, title, description)
}

// Nop discards all notifications.
type Nop struct{}

// Notify implements Notifier.
func (Nop) Notify(Severity, string, string) {}

var (
	_ Notifier = (*Console)(nil)
	_ Notifier = Nop{}
)
