package cosmac

import (
	"sync/atomic"
	"unicode"

	"github.com/nf/c8/chip8"
)

// Keys is the state of the hexadecimal keypad. It is written by a
// frontend and read by the machine, possibly from different goroutines.
type Keys struct {
	held atomic.Uint32
}

var _ chip8.Keypad = (*Keys)(nil)

func (k *Keys) Pressed(key byte) bool {
	return key < 16 && k.held.Load()&(1<<key) != 0
}

// Set records key as held down or released.
func (k *Keys) Set(key byte, down bool) {
	if key >= 16 {
		return
	}
	for {
		old := k.held.Load()
		v := old &^ (1 << key)
		if down {
			v |= 1 << key
		}
		if k.held.CompareAndSwap(old, v) {
			return
		}
	}
}

// Held returns a bit mask of the held keys, bit n for key n.
func (k *Keys) Held() uint16 { return uint16(k.held.Load()) }

// layout maps the left-hand block of a QWERTY keyboard onto the keypad:
//
//	1 2 3 4      1 2 3 C
//	q w e r      4 5 6 D
//	a s d f  ->  7 8 9 E
//	z x c v      A 0 B F
var layout = map[rune]byte{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xc,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xd,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xe,
	'z': 0xa, 'x': 0x0, 'c': 0xb, 'v': 0xf,
}

// KeyFor returns the keypad key for keyboard character r.
func KeyFor(r rune) (byte, bool) {
	k, ok := layout[unicode.ToLower(r)]
	return k, ok
}
