// Package player is the media resource gateway: it fetches recitation
// clips over HTTP, decodes them and plays them through the shared beep
// speaker, reporting progress as generation-tagged events.
package player

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultLoadTimeout bounds how long a clip may take to become ready.
	DefaultLoadTimeout = 10 * time.Second

	progressInterval = 250 * time.Millisecond
	eventBufferSize  = 16
)

// Decoder turns a clip body into a seekable stream.
type Decoder func(data []byte) (beep.StreamSeekCloser, beep.Format, error)

// Options configures a Player. Zero values select the defaults.
type Options struct {
	LoadTimeout time.Duration
	Client      *http.Client
	Logger      logrus.FieldLogger

	Fetch  Fetcher
	Decode Decoder
	Output Output
}

// clip is a decoded clip owned by the player.
type clip struct {
	gen      uint64
	stream   beep.StreamSeekCloser
	format   beep.Format
	duration time.Duration
	ctrl     *beep.Ctrl
	volume   *effects.Volume

	queued  bool // handed to the output
	stopped atomic.Bool
	tick    chan struct{}
}

// Player plays one clip at a time. Its methods are safe for concurrent
// use; events are delivered on Events.
type Player struct {
	fetch       Fetcher
	decode      Decoder
	out         Output
	log         logrus.FieldLogger
	loadTimeout time.Duration

	events    chan Event
	done      chan struct{}
	closeOnce sync.Once

	mu          sync.Mutex
	gen         uint64
	cancel      context.CancelFunc
	clip        *clip
	playing     bool
	volumeLevel float64
	muted       bool
	closed      bool
}

// New creates a player.
func New(opts Options) *Player {
	p := &Player{
		fetch:       opts.Fetch,
		decode:      opts.Decode,
		out:         opts.Output,
		log:         opts.Logger,
		loadTimeout: opts.LoadTimeout,
		events:      make(chan Event, eventBufferSize),
		done:        make(chan struct{}),
		volumeLevel: 1,
	}
	if p.fetch == nil {
		p.fetch = HTTPFetcher(opts.Client)
	}
	if p.decode == nil {
		p.decode = decodeMP3
	}
	if p.out == nil {
		p.out = Speaker()
	}
	if p.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		p.log = l
	}
	if p.loadTimeout <= 0 {
		p.loadTimeout = DefaultLoadTimeout
	}
	return p
}

// Events returns the event channel. It is never closed.
func (p *Player) Events() <-chan Event { return p.events }

func (p *Player) Load(url string) uint64 {
	p.mu.Lock()
	if p.closed {
		gen := p.gen
		p.mu.Unlock()
		return gen
	}
	prevCancel := p.cancel
	p.releaseLocked()
	p.gen++
	gen := p.gen
	ctx, cancel := context.WithTimeout(context.Background(), p.loadTimeout)
	p.cancel = cancel
	p.mu.Unlock()

	if prevCancel != nil {
		prevCancel()
	}

	p.log.WithFields(logrus.Fields{"gen": gen, "url": url}).Debug("loading clip")
	go p.load(ctx, cancel, gen, url)
	return gen
}

func (p *Player) load(ctx context.Context, cancel context.CancelFunc, gen uint64, url string) {
	defer cancel()

	if err := validateSource(url); err != nil {
		p.failLoad(gen, classifyLoad(err))
		return
	}

	data, err := p.fetch(ctx, url)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		p.failLoad(gen, classifyLoad(err))
		return
	}

	stream, format, err := p.decode(data)
	if err != nil {
		p.failLoad(gen, newError(KindDecode, err))
		return
	}
	if err := ctx.Err(); err != nil {
		stream.Close()
		p.failLoad(gen, classifyLoad(err))
		return
	}

	ctrl := &beep.Ctrl{Streamer: stream, Paused: true}
	c := &clip{
		gen:      gen,
		stream:   stream,
		format:   format,
		duration: format.SampleRate.D(stream.Len()),
		ctrl:     ctrl,
		volume:   &effects.Volume{Streamer: ctrl, Base: 2},
	}

	p.mu.Lock()
	if p.closed || p.gen != gen {
		p.mu.Unlock()
		stream.Close()
		p.emit(Event{Kind: EventError, Gen: gen, Err: newError(KindAborted, context.Canceled)})
		return
	}
	p.applyVolumeLocked(c)
	p.clip = c
	p.cancel = nil
	p.mu.Unlock()

	p.log.WithFields(logrus.Fields{
		"gen":      gen,
		"size":     humanize.Bytes(uint64(len(data))),
		"duration": c.duration,
	}).Debug("clip ready")
	p.emit(Event{Kind: EventDurationKnown, Gen: gen, Duration: c.duration})
	p.emit(Event{Kind: EventReady, Gen: gen, Duration: c.duration})
}

func (p *Player) failLoad(gen uint64, err *PlayError) {
	p.mu.Lock()
	if p.gen == gen {
		p.cancel = nil
	}
	p.mu.Unlock()

	if err.Kind != KindAborted {
		p.log.WithFields(logrus.Fields{"gen": gen, "kind": err.Kind}).WithError(err.Err).Debug("clip load failed")
	}
	p.emit(Event{Kind: EventError, Gen: gen, Err: err})
}

func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return newError(KindUnknown, ErrClosed)
	}
	c := p.clip
	if c == nil {
		return newError(KindNoAudioAvailable, ErrNotLoaded)
	}
	if p.playing {
		return nil
	}

	rate, err := p.out.Init(c.format)
	if err != nil {
		return newError(KindAutoplayDenied, fmt.Errorf("audio output: %w", err))
	}

	if c.queued {
		p.out.Lock()
		c.ctrl.Paused = false
		p.out.Unlock()
	} else {
		c.ctrl.Paused = false
		var s beep.Streamer = c.volume
		if rate != c.format.SampleRate {
			s = beep.Resample(4, c.format.SampleRate, rate, s)
		}
		c.queued = true
		p.out.Play(beep.Seq(s, beep.Callback(func() {
			// Runs with the output locked.
			if c.stopped.Load() {
				return
			}
			go p.ended(c)
		})))
	}

	p.playing = true
	p.startProgressLocked(c)
	return nil
}

// ended handles a clip whose stream ran out: played to its end, or cut
// short by a decode failure.
func (p *Player) ended(c *clip) {
	p.mu.Lock()
	if p.clip != c || c.stopped.Load() {
		p.mu.Unlock()
		return
	}
	p.playing = false
	p.stopProgressLocked(c)
	p.out.Lock()
	streamErr := c.stream.Err()
	pos := c.format.SampleRate.D(c.stream.Position())
	// Rewind so a later Play starts the clip over.
	c.queued = false
	c.ctrl.Paused = true
	_ = c.stream.Seek(0)
	p.out.Unlock()
	gen, d := c.gen, c.duration
	p.mu.Unlock()

	if streamErr != nil {
		p.log.WithFields(logrus.Fields{"gen": gen, "position": pos}).
			WithError(streamErr).Warn("clip decode failed during playback")
		p.emit(Event{Kind: EventError, Gen: gen, Position: pos, Duration: d, Err: newError(KindDecode, streamErr)})
		return
	}
	p.emit(Event{Kind: EventEnded, Gen: gen, Position: d, Duration: d})
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	c := p.clip
	if !p.playing || c == nil {
		return
	}
	p.out.Lock()
	c.ctrl.Paused = true
	p.out.Unlock()
	p.playing = false
	p.stopProgressLocked(c)
}

func (p *Player) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.releaseLocked()
	p.gen++
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// releaseLocked detaches and closes the loaded clip. p.mu must be held.
func (p *Player) releaseLocked() {
	c := p.clip
	if c == nil {
		return
	}
	c.stopped.Store(true)
	p.stopProgressLocked(c)
	if c.queued {
		p.out.Lock()
		c.ctrl.Streamer = nil
		p.out.Unlock()
	}
	c.stream.Close()
	p.clip = nil
	p.playing = false
}

func (p *Player) Seek(pos time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	c := p.clip
	if c == nil {
		return
	}
	pos = max(0, min(pos, c.duration))
	sample := c.format.SampleRate.N(pos)

	p.out.Lock()
	err := c.stream.Seek(sample)
	p.out.Unlock()
	if err != nil {
		p.log.WithError(err).WithField("gen", c.gen).Warn("seek failed")
	}
}

func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.clip == nil {
		return 0
	}
	return p.positionLocked(p.clip)
}

func (p *Player) positionLocked(c *clip) time.Duration {
	p.out.Lock()
	pos := c.format.SampleRate.D(c.stream.Position())
	p.out.Unlock()
	return min(pos, c.duration)
}

func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.clip == nil {
		return 0
	}
	return p.clip.duration
}

// SetVolume sets the volume level (0.0 to 1.0).
// If muted, only stores the level.
func (p *Player) SetVolume(level float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volumeLevel = clampLevel(level)
	if p.clip != nil {
		p.lockedApply(p.clip)
	}
}

// SetMuted silences output without forgetting the level.
func (p *Player) SetMuted(muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = muted
	if p.clip != nil {
		p.lockedApply(p.clip)
	}
}

func (p *Player) lockedApply(c *clip) {
	if c.queued {
		p.out.Lock()
		defer p.out.Unlock()
	}
	p.applyVolumeLocked(c)
}

func (p *Player) applyVolumeLocked(c *clip) {
	c.volume.Volume = levelToVolume(p.volumeLevel)
	c.volume.Silent = p.muted || p.volumeLevel <= 0
}

// Close stops playback and releases the player. Further Loads are ignored.
func (p *Player) Close() error {
	p.closeOnce.Do(func() {
		p.Stop()
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
		close(p.done)
	})
	return nil
}

func (p *Player) startProgressLocked(c *clip) {
	if c.tick != nil {
		return
	}
	stop := make(chan struct{})
	c.tick = stop
	go func() {
		t := time.NewTicker(progressInterval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-p.done:
				return
			case <-t.C:
				p.mu.Lock()
				if p.clip != c || !p.playing {
					p.mu.Unlock()
					return
				}
				pos := p.positionLocked(c)
				p.mu.Unlock()
				p.emitProgress(Event{Kind: EventProgress, Gen: c.gen, Position: pos, Duration: c.duration})
			}
		}
	}()
}

func (p *Player) stopProgressLocked(c *clip) {
	if c.tick != nil {
		close(c.tick)
		c.tick = nil
	}
}

// emit delivers an event that must not be lost.
func (p *Player) emit(e Event) {
	select {
	case p.events <- e:
	case <-p.done:
	}
}

// emitProgress drops the event when the consumer lags.
func (p *Player) emitProgress(e Event) {
	select {
	case p.events <- e:
	default:
	}
}
