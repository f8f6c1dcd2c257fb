//go:build windows

// Package stderr is a no-op on Windows, whose audio backend does not
// write to the console.
package stderr

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Capture is a no-op.
type Capture struct{}

// Start does nothing.
func Start(_ logrus.FieldLogger) (*Capture, error) {
	return &Capture{}, nil
}

// WriteOriginal writes to stderr.
func (c *Capture) WriteOriginal(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

// Stop does nothing.
func (c *Capture) Stop() {}
