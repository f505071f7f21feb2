package chip8

// Display dimensions in pixels.
const (
	Width  = 64
	Height = 32
)

// Frame is a read-only view of a FrameBuffer.
type Frame interface {
	// Pixel reports whether the pixel at (x, y) is on.
	// Coordinates outside the display are always off.
	Pixel(x, y int) bool
	// Ops returns the number of Clear and Draw operations applied so far.
	Ops() int
}

// FrameBuffer is the monochrome CHIP-8 display.
type FrameBuffer struct {
	pix [Width * Height]bool
	ops int // total count of draw operations
}

var _ Frame = (*FrameBuffer)(nil)

func (f *FrameBuffer) Pixel(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return f.pix[y*Width+x]
}

func (f *FrameBuffer) Ops() int { return f.ops }

// Clear turns every pixel off.
func (f *FrameBuffer) Clear() {
	f.pix = [Width * Height]bool{}
	f.ops++
}

// Draw XORs sprite onto the display with its top-left corner at (x, y).
// Each byte is one 8-pixel row, most significant bit leftmost. Pixels that
// fall past an edge wrap around to the opposite edge. Draw reports whether
// any pixel that was on has been turned off.
func (f *FrameBuffer) Draw(x, y int, sprite []byte) (collision bool) {
	for row, bits := range sprite {
		py := mod(y+row, Height)
		for col := 0; col < 8; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}
			i := py*Width + mod(x+col, Width)
			if f.pix[i] {
				collision = true
			}
			f.pix[i] = !f.pix[i]
		}
	}
	f.ops++
	return collision
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}
