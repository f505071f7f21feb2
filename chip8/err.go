package chip8

import (
	"errors"

	"github.com/nf/c8/internal/translate"
)

var f = translate.From

// ErrCapacity is matched by errors.Is for every *CapacityError.
var ErrCapacity = errors.New(f("program too large"))

// CapacityError is returned by Load when a program does not fit in memory
// above its load offset.
type CapacityError struct {
	Size   int
	Offset uint16
}

func (e *CapacityError) Error() string {
	return f("program too large: %#x bytes at %#.3x exceeds %#x byte memory",
		e.Size, e.Offset, MemorySize)
}

func (e *CapacityError) Is(err error) bool { return err == ErrCapacity }

// ConfigError reports an invalid Config.
type ConfigError struct {
	Field string
	Value any
}

func (e *ConfigError) Error() string {
	switch e.Field {
	case "TicksPerSecond":
		return f("invalid tick rate %v: must be a positive multiple of 60", e.Value)
	default:
		return f("invalid %s %v", e.Field, e.Value)
	}
}

// HaltError is returned by Tick if the instruction cannot be executed.
// The machine is left as it was before the tick.
type HaltError struct {
	HaltCode
	Op   Op
	Addr uint16
}

func (e HaltError) Error() string {
	return f("%s executing %.4x (%s) at %.3x", e.HaltCode, uint16(e.Op), e.Op, e.Addr)
}

// HaltCode signifies the type of condition that halted execution.
type HaltCode byte

const (
	StackOverflow    HaltCode = 0x01
	StackUnderflow   HaltCode = 0x02
	MemoryOutOfRange HaltCode = 0x03
)

func (c HaltCode) String() string {
	if s, ok := map[HaltCode]string{
		StackOverflow:    "stack overflow",
		StackUnderflow:   "stack underflow",
		MemoryOutOfRange: "memory access out of range",
	}[c]; ok {
		return f(s)
	}
	return f("unknown (%.2x)", byte(c))
}
