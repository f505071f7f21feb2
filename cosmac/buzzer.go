package cosmac

import (
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

// Buzzer sounds while the machine's sound timer is running.
type Buzzer interface {
	SetTone(on bool)
}

// Silent is a Buzzer that makes no sound.
type Silent struct{}

func (Silent) SetTone(bool) {}

const (
	sampleRate = 44100
	toneHz     = 440
	amplitude  = 0x1000
)

// tone generates a signed 16-bit little-endian mono square wave while on
// and silence otherwise.
type tone struct {
	on    atomic.Bool
	phase int
}

func (t *tone) SetTone(on bool) { t.on.Store(on) }

func (t *tone) Read(p []byte) (int, error) {
	const half = sampleRate / toneHz / 2
	on := t.on.Load()
	for i := 0; i+1 < len(p); i += 2 {
		var v int16
		if on {
			v = amplitude
			if t.phase >= half {
				v = -amplitude
			}
			t.phase = (t.phase + 1) % (2 * half)
		}
		p[i] = byte(v)
		p[i+1] = byte(uint16(v) >> 8)
	}
	if len(p)%2 == 1 {
		p[len(p)-1] = 0
	}
	return len(p), nil
}

// Beeper is a Buzzer that plays a square wave on the default audio device.
type Beeper struct {
	tone
	ctx    *oto.Context
	player *oto.Player
}

// NewBeeper opens the audio device and starts a silent stream.
func NewBeeper() (*Beeper, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	b := &Beeper{ctx: ctx}
	b.player = ctx.NewPlayer(&b.tone)
	b.player.Play()
	return b, nil
}

func (b *Beeper) Close() error {
	b.SetTone(false)
	return b.player.Close()
}
