package chip8

import "fmt"

// LoadOffset is the address at which programs are installed and start
// executing.
type LoadOffset uint16

const (
	Chip8  LoadOffset = 0x200 // COSMAC VIP and most interpreters
	ETI660 LoadOffset = 0x600 // ETI-660 interpreter
)

func (o LoadOffset) String() string { return fmt.Sprintf("%#.3x", uint16(o)) }

// TimerRate is the frequency, in Hz, at which DT and ST count down.
const TimerRate = 60

// Config holds the options that shape a Machine.
type Config struct {
	Offset LoadOffset

	// TicksPerSecond is the instruction rate. It must be a multiple of
	// TimerRate; the timers count down once every TicksPerSecond/TimerRate
	// ticks.
	TicksPerSecond int

	// Seed, if non-nil, makes the RND instruction deterministic.
	// The generator is reseeded on every Load.
	Seed *uint64
}

// DefaultConfig returns the configuration used by most CHIP-8 programs.
func DefaultConfig() Config {
	return Config{Offset: Chip8, TicksPerSecond: 600}
}

// Validate returns a *ConfigError if c cannot be used to build a Machine.
func (c Config) Validate() error {
	switch c.Offset {
	case Chip8, ETI660:
	default:
		return &ConfigError{Field: "Offset", Value: c.Offset}
	}
	if c.TicksPerSecond <= 0 || c.TicksPerSecond%TimerRate != 0 {
		return &ConfigError{Field: "TicksPerSecond", Value: c.TicksPerSecond}
	}
	return nil
}

// Cadence returns the number of ticks between timer decrements.
func (c Config) Cadence() int { return c.TicksPerSecond / TimerRate }
