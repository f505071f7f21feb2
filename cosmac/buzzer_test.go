package cosmac

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTone(t *testing.T) {
	var tn tone
	buf := make([]byte, 401)
	n, err := tn.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, len(buf), n)
	for _, b := range buf {
		assert.Zero(t, b)
	}

	tn.SetTone(true)
	tn.Read(buf)
	const half = sampleRate / toneHz / 2
	for i := 0; i < 200; i++ {
		v := int16(binary.LittleEndian.Uint16(buf[2*i:]))
		want := int16(amplitude)
		if i%(2*half) >= half {
			want = -amplitude
		}
		if v != want {
			t.Fatalf("sample %d is %d, want %d", i, v, want)
		}
	}
}
