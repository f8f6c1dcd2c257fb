//go:build !windows

// Package stderr redirects file descriptor 2 while the TUI owns the
// terminal. The audio backend's C libraries (ALSA through oto) write
// diagnostics there directly, bypassing os.Stderr, which would corrupt
// the screen. Captured lines go to the log instead.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
)

// Capture is an active redirection of fd 2.
type Capture struct {
	log  logrus.FieldLogger
	orig int
	r, w *os.File
	done chan struct{}
}

// Start redirects fd 2 into a pipe and logs every non-empty line written
// to it. It must run before the audio output is initialized. On error
// nothing is redirected and the program can continue without capture.
func Start(logger logrus.FieldLogger) (*Capture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	orig, err := syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}

	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		syscall.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	c := &Capture{
		log:  logger.WithField("source", "stderr"),
		orig: orig,
		r:    r,
		w:    w,
		done: make(chan struct{}),
	}
	go c.pump()
	return c, nil
}

func (c *Capture) pump() {
	defer close(c.done)
	scanner := bufio.NewScanner(c.r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			c.log.Warn(line)
		}
	}
}

// WriteOriginal writes to the terminal's stderr, bypassing the capture.
func (c *Capture) WriteOriginal(msg string) {
	_, _ = syscall.Write(c.orig, []byte(msg))
}

// Stop restores fd 2 and waits for the captured output to be logged.
func (c *Capture) Stop() {
	_ = syscall.Dup2(c.orig, int(os.Stderr.Fd()))
	_ = syscall.Close(c.orig)
	c.w.Close()
	<-c.done
	c.r.Close()
}
