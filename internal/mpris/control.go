// Package mpris exposes the recitation session to desktop media keys and
// MPRIS clients.
package mpris

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/llehouerou/tilawa/internal/playback"
)

// Command is a control request from an MPRIS client.
type Command int

const (
	CommandPlay Command = iota
	CommandPause
	CommandPlayPause
	CommandStop
	CommandNext
	CommandPrevious
	CommandSeek        // relative, by Offset
	CommandSetPosition // absolute, to Offset
	CommandSetVolume
)

func (c Command) String() string {
	switch c {
	case CommandPlay:
		return "play"
	case CommandPause:
		return "pause"
	case CommandPlayPause:
		return "play-pause"
	case CommandStop:
		return "stop"
	case CommandNext:
		return "next"
	case CommandPrevious:
		return "previous"
	case CommandSeek:
		return "seek"
	case CommandSetPosition:
		return "set-position"
	case CommandSetVolume:
		return "set-volume"
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// Request is a command with its argument.
type Request struct {
	Command Command
	Offset  time.Duration
	Volume  float64
}

// Dispatcher hands a request to the goroutine that owns the session. It
// is called from D-Bus goroutines and must not block.
type Dispatcher func(Request)

// State is what MPRIS clients read. The session owner publishes a new
// State after every change; D-Bus goroutines only ever read it.
type State struct {
	Status   playback.Status
	VerseKey string
	Reciter  string
	Page     int
	Position time.Duration
	Duration time.Duration
	Volume   float64
	Muted    bool
	CanPlay  bool
	CanNext  bool
	CanPrev  bool
}

// StateFrom builds a State from a session snapshot.
func StateFrom(s playback.Snapshot, reciter string, page int) State {
	return State{
		Status:   s.Status,
		VerseKey: s.VerseKey,
		Reciter:  reciter,
		Page:     page,
		Position: s.Position,
		Duration: s.Duration.OrEmpty(),
		Volume:   s.Volume,
		Muted:    s.Muted,
		CanPlay:  !s.Playlist.IsEmpty(),
		CanNext:  !s.Playlist.IsEmpty(),
		CanPrev:  s.Index > 0,
	}
}

// Title is the track title shown by MPRIS clients.
func (s State) Title() string {
	if s.VerseKey == "" {
		return ""
	}
	return "Verse " + s.VerseKey
}

// effectiveVolume folds mute into the level, as MPRIS has no mute.
func (s State) effectiveVolume() float64 {
	if s.Muted {
		return 0
	}
	return s.Volume
}

type stateBox struct {
	v atomic.Pointer[State]
}

func (b *stateBox) store(s State) { b.v.Store(&s) }

func (b *stateBox) load() State {
	if s := b.v.Load(); s != nil {
		return *s
	}
	return State{}
}
