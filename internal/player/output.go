package player

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// Output is the audio device. The default is the process-wide beep
// speaker, shared by every Player.
type Output interface {
	// Init prepares the device for clips of the given format and returns
	// the device sample rate. It is called on every Play.
	Init(format beep.Format) (beep.SampleRate, error)
	Play(s beep.Streamer)
	// Lock and Unlock guard streamers that have been handed to Play.
	Lock()
	Unlock()
}

var (
	speakerMu   sync.Mutex
	speakerRate beep.SampleRate
)

type speakerOutput struct{}

// Speaker returns the shared beep speaker output.
func Speaker() Output { return speakerOutput{} }

func (speakerOutput) Init(format beep.Format) (beep.SampleRate, error) {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if speakerRate != 0 {
		return speakerRate, nil
	}
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return 0, err
	}
	speakerRate = format.SampleRate
	return speakerRate, nil
}

func (speakerOutput) Play(s beep.Streamer) { speaker.Play(s) }

func (speakerOutput) Lock() { speaker.Lock() }

func (speakerOutput) Unlock() { speaker.Unlock() }
