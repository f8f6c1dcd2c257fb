package player

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies why a clip could not be loaded or played.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindAborted means the load was superseded or cancelled. It never
	// reaches the user.
	KindAborted
	KindNetwork
	KindDecode
	KindUnsupportedSource
	// KindAutoplayDenied means the audio output refused to start.
	KindAutoplayDenied
	// KindNoAudioAvailable means there was nothing to play.
	KindNoAudioAvailable
)

// String returns the kind name for logs.
func (k ErrorKind) String() string {
	switch k {
	case KindAborted:
		return "aborted"
	case KindNetwork:
		return "network"
	case KindDecode:
		return "decode"
	case KindUnsupportedSource:
		return "unsupported source"
	case KindAutoplayDenied:
		return "autoplay denied"
	case KindNoAudioAvailable:
		return "no audio available"
	default:
		return "unknown"
	}
}

// Retryable reports whether trying the same clip again may succeed.
func (k ErrorKind) Retryable() bool {
	switch k {
	case KindNetwork, KindAutoplayDenied, KindUnknown:
		return true
	default:
		return false
	}
}

var (
	// ErrNotLoaded is returned by Play when no clip is loaded.
	ErrNotLoaded = errors.New("no clip loaded")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("player closed")
)

// PlayError is a classified gateway failure.
type PlayError struct {
	Kind ErrorKind
	Err  error
}

func (e *PlayError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *PlayError) Unwrap() error { return e.Err }

// KindOf classifies err. Context cancellation is Aborted, deadline
// expiry is Network, and anything unrecognised is Unknown.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var pe *PlayError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	switch {
	case errors.Is(err, context.Canceled):
		return KindAborted
	case errors.Is(err, context.DeadlineExceeded):
		return KindNetwork
	case errors.Is(err, ErrNotLoaded):
		return KindNoAudioAvailable
	}
	return KindUnknown
}

func newError(kind ErrorKind, err error) *PlayError {
	return &PlayError{Kind: kind, Err: err}
}
