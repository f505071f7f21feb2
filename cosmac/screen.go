package cosmac

import (
	"image"
	"image/color"
	"sync"

	"github.com/nf/c8/chip8"
)

const pixels = chip8.Width * chip8.Height

// Theme holds the colours of lit and unlit pixels.
type Theme struct {
	On, Off color.RGBA
}

var DefaultTheme = Theme{
	On:  color.RGBA{0xff, 0xcc, 0x00, 0xff},
	Off: color.RGBA{0x99, 0x66, 0x00, 0xff},
}

// Screen holds the most recently published frame. The runner writes it
// and frontends read it from their own goroutines.
type Screen struct {
	mu  sync.Mutex
	pix [pixels]bool
	gen uint64 // incremented on every publish

	ops int // frame ops at the last publish; runner goroutine only
}

// update copies f into the screen if it was drawn to since the last
// update, or unconditionally if force is set.
func (s *Screen) update(f chip8.Frame, force bool) {
	if !force && f.Ops() == s.ops {
		return
	}
	s.ops = f.Ops()
	s.mu.Lock()
	defer s.mu.Unlock()
	for y := 0; y < chip8.Height; y++ {
		for x := 0; x < chip8.Width; x++ {
			s.pix[y*chip8.Width+x] = f.Pixel(x, y)
		}
	}
	s.gen++
}

// Gen returns the number of frames published so far.
func (s *Screen) Gen() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Snapshot copies the current frame into dst, row by row,
// and returns its generation.
func (s *Screen) Snapshot(dst *[pixels]bool) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	*dst = s.pix
	return s.gen
}

// Render paints the current frame into m, which must be
// chip8.Width by chip8.Height, and returns its generation.
func (s *Screen) Render(m *image.RGBA, t Theme) uint64 {
	var pix [pixels]bool
	gen := s.Snapshot(&pix)
	for i, on := range pix {
		c := t.Off
		if on {
			c = t.On
		}
		m.SetRGBA(i%chip8.Width, i/chip8.Width, c)
	}
	return gen
}

func newFrameImage() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, chip8.Width, chip8.Height))
}
