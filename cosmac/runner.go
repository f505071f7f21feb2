// Package cosmac hosts a CHIP-8 machine: it drives execution in real time,
// publishes the display, reads the keypad and sounds the buzzer.
package cosmac

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/nf/c8/chip8"
)

// StateKind describes why a StateFunc was called.
type StateKind int

const (
	ClearState StateKind = iota // execution resumed
	QuietState                  // end of frame, nothing of note happened
	BreakState                  // stopped at a breakpoint
	DebugState                  // passed a trace point
	PauseState                  // paused or single-stepped
	HaltState                   // the machine halted
	WaitState                   // began waiting for a key press
)

func (k StateKind) String() string {
	switch k {
	case ClearState:
		return "clear"
	case QuietState:
		return "quiet"
	case BreakState:
		return "break"
	case DebugState:
		return "debug"
	case PauseState:
		return "pause"
	case HaltState:
		return "halt"
	case WaitState:
		return "wait"
	}
	return "unknown"
}

// ErrStopped is returned by Swap once Run has returned.
var ErrStopped = errors.New("runner stopped")

// StateFunc is called from the runner's goroutine. It must not retain m.
type StateFunc func(m *chip8.Machine, k StateKind)

// DebugKind selects the action of a DebugCmd.
type DebugKind int

const (
	Break DebugKind = iota
	Trace
	Pause
	Continue
	Step
	Reset
)

// DebugCmd is a debugger request. For Break and Trace, Addr is the point
// to set, or with Clear set the point is removed. Cond, if non-nil,
// restricts a breakpoint to machine states where it holds.
type DebugCmd struct {
	Kind  DebugKind
	Addr  uint16
	Clear bool
	Cond  *Cond
}

// Runner executes a Machine at its configured rate, one batch of ticks
// per 60Hz frame.
type Runner struct {
	m     *chip8.Machine
	scr   *Screen
	buzz  Buzzer
	dev   bool
	state StateFunc

	swap    chan swapReq
	debug   chan DebugCmd
	stopped chan struct{}

	rom       []byte
	halted    bool
	paused    bool
	waiting   bool
	skipBreak bool
	brk       *breakpoint
	trace     *uint16
}

type swapReq struct {
	rom  []byte
	done chan error
}

type breakpoint struct {
	addr uint16
	cond *Cond
}

// NewRunner returns a Runner for m. In dev mode a halted machine is
// reported and kept for inspection instead of ending Run. The state
// func may be nil.
func NewRunner(m *chip8.Machine, scr *Screen, buzz Buzzer, devMode bool, state StateFunc) *Runner {
	if buzz == nil {
		buzz = Silent{}
	}
	return &Runner{
		m:       m,
		scr:     scr,
		buzz:    buzz,
		dev:     devMode,
		state:   state,
		swap:    make(chan swapReq),
		debug:   make(chan DebugCmd),
		stopped: make(chan struct{}),
	}
}

// Swap loads rom into the machine, replacing the running program.
// It blocks until Run is executing.
func (r *Runner) Swap(rom []byte) error {
	done := make(chan error, 1)
	select {
	case r.swap <- swapReq{rom: rom, done: done}:
		return <-done
	case <-r.stopped:
		return ErrStopped
	}
}

// Debug passes cmd to the runner. Commands sent after Run has returned
// are dropped.
func (r *Runner) Debug(cmd DebugCmd) {
	select {
	case r.debug <- cmd:
	case <-r.stopped:
	}
}

// Run loads rom and executes it until ctx is done or, outside dev mode,
// the machine halts. Run may be called only once.
func (r *Runner) Run(ctx context.Context, rom []byte) error {
	defer close(r.stopped)
	if err := r.load(rom); err != nil {
		return err
	}
	defer r.buzz.SetTone(false)

	t := time.NewTicker(time.Second / chip8.TimerRate)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case req := <-r.swap:
			req.done <- r.load(req.rom)
		case cmd := <-r.debug:
			r.handle(cmd)
		case <-t.C:
			if err := r.frame(); err != nil {
				return err
			}
		}
	}
}

func (r *Runner) load(rom []byte) error {
	if err := r.m.Load(rom); err != nil {
		return err
	}
	r.rom = rom
	r.halted, r.waiting = false, false
	r.skipBreak = r.paused
	r.scr.update(r.m.Frame(), true)
	r.buzz.SetTone(false)
	r.report(ClearState)
	return nil
}

// frame runs one frame's worth of ticks and publishes the result.
func (r *Runner) frame() error {
	if r.paused || r.halted {
		return nil
	}
	for n := r.m.Config().Cadence(); n > 0 && !r.paused && !r.halted; n-- {
		if r.atBreak() {
			break
		}
		if err := r.step(); err != nil {
			return err
		}
	}
	r.publish()
	return nil
}

func (r *Runner) atBreak() bool {
	if r.skipBreak {
		r.skipBreak = false
		return false
	}
	b := r.brk
	if b == nil || r.m.PC != b.addr {
		return false
	}
	if b.cond != nil {
		ok, err := b.cond.Eval(r.m)
		if err != nil {
			log.Printf("break: %v", err)
		} else if !ok {
			return false
		}
	}
	r.paused = true
	r.report(BreakState)
	return true
}

func (r *Runner) step() error {
	if r.trace != nil && r.m.PC == *r.trace {
		r.report(DebugState)
	}
	out, err := r.m.Tick()
	if err != nil {
		if !r.dev {
			return err
		}
		log.Printf("chip8: %v", err)
		r.halted = true
		r.buzz.SetTone(false)
		r.report(HaltState)
		return nil
	}
	switch {
	case out == chip8.AwaitingKey && !r.waiting:
		r.waiting = true
		r.report(WaitState)
	case out == chip8.Completed:
		r.waiting = false
	}
	return nil
}

func (r *Runner) publish() {
	r.scr.update(r.m.Frame(), false)
	r.buzz.SetTone(r.m.ST > 0)
	r.report(QuietState)
}

func (r *Runner) handle(cmd DebugCmd) {
	switch cmd.Kind {
	case Break:
		if cmd.Clear {
			r.brk = nil
		} else {
			r.brk = &breakpoint{addr: cmd.Addr, cond: cmd.Cond}
		}
	case Trace:
		if cmd.Clear {
			r.trace = nil
		} else {
			addr := cmd.Addr
			r.trace = &addr
		}
	case Pause:
		r.paused = true
		r.buzz.SetTone(false)
		r.report(PauseState)
	case Continue:
		if r.halted {
			log.Print("machine halted; reset to continue")
			return
		}
		if r.paused {
			r.paused = false
			r.skipBreak = true
			r.report(ClearState)
		}
	case Step:
		if r.halted {
			log.Print("machine halted; reset to continue")
			return
		}
		r.paused = true
		if err := r.step(); err != nil {
			// Outside dev mode a stepped halt is still kept.
			log.Printf("chip8: %v", err)
			r.halted = true
			r.report(HaltState)
			return
		}
		r.scr.update(r.m.Frame(), false)
		if !r.halted {
			r.report(PauseState)
		}
	case Reset:
		if err := r.load(r.rom); err != nil {
			log.Printf("reset: %v", err)
		}
	}
}

func (r *Runner) report(k StateKind) {
	if r.state != nil {
		r.state(r.m, k)
	}
}
