package chip8

import (
	"math/rand/v2"
	"testing"
)

func TestDrawWrap(t *testing.T) {
	var fb FrameBuffer
	if fb.Draw(60, 0, []byte{0xff}) {
		t.Errorf("collision on empty display")
	}
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			want := y == 0 && (x >= 60 || x <= 3)
			if g := fb.Pixel(x, y); g != want {
				t.Errorf("pixel (%d, %d) is %v, want %v", x, y, g, want)
			}
		}
	}
}

func TestDrawWrapVertical(t *testing.T) {
	var fb FrameBuffer
	fb.Draw(-1, 30, []byte{0x81, 0x00, 0x00, 0x80})
	for _, p := range [][2]int{{63, 30}, {6, 30}, {63, 1}} {
		if !fb.Pixel(p[0], p[1]) {
			t.Errorf("pixel %v is off, want on", p)
		}
	}
	if g := countOn(&fb); g != 3 {
		t.Errorf("%d pixels on, want 3\n%s", g, frameString(&fb))
	}
}

func TestDrawCollision(t *testing.T) {
	var fb FrameBuffer
	fb.Draw(0, 0, []byte{0xf0})
	if fb.Draw(4, 0, []byte{0xf0}) {
		t.Errorf("collision reported for disjoint sprites")
	}
	if !fb.Draw(7, 0, []byte{0x80}) {
		t.Errorf("no collision reported when turning a pixel off")
	}
	if fb.Pixel(7, 0) {
		t.Errorf("pixel (7, 0) still on after XOR")
	}
}

func TestDrawTwiceRestores(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		var fb FrameBuffer
		for j := 0; j < 10; j++ {
			fb.Draw(r.IntN(256), r.IntN(256), randSprite(r))
		}
		before := fb.pix

		x, y, sprite := r.IntN(256), r.IntN(256), randSprite(r)
		fb.Draw(x, y, sprite)
		var lit bool
		for row := range sprite {
			for col := 0; col < 8; col++ {
				if sprite[row]&(0x80>>col) != 0 && fb.Pixel(mod(x+col, Width), mod(y+row, Height)) {
					lit = true
				}
			}
		}
		if got := fb.Draw(x, y, sprite); got != lit {
			t.Fatalf("second draw collision %v, want %v", got, lit)
		}
		if fb.pix != before {
			t.Fatalf("drawing twice did not restore the display")
		}
	}
}

func TestClear(t *testing.T) {
	var fb FrameBuffer
	fb.Draw(10, 10, []byte{0xff, 0xff})
	ops := fb.Ops()
	fb.Clear()
	if n := countOn(&fb); n != 0 {
		t.Errorf("%d pixels on after Clear", n)
	}
	if fb.Ops() != ops+1 {
		t.Errorf("Ops is %d, want %d", fb.Ops(), ops+1)
	}
	if fb.Pixel(-1, 0) || fb.Pixel(Width, 0) || fb.Pixel(0, Height) {
		t.Errorf("pixel outside the display reported on")
	}
}

func randSprite(r *rand.Rand) []byte {
	s := make([]byte, 1+r.IntN(15))
	for i := range s {
		s[i] = byte(r.Uint32())
	}
	return s
}

func countOn(f Frame) (n int) {
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if f.Pixel(x, y) {
				n++
			}
		}
	}
	return n
}
