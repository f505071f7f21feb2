// Package chip8 provides an implementation of a CHIP-8 virtual machine,
// called Machine, that can be used to execute CHIP-8 programs.
package chip8

import (
	"math/bits"
	"math/rand/v2"
	"time"
)

// MemorySize is the size of the CHIP-8 address space in bytes.
const MemorySize = 0x1000

// Machine is an implementation of a CHIP-8 CPU with its memory, timers
// and display.
type Machine struct {
	Mem   [MemorySize]byte
	V     [16]byte // VF doubles as the carry, borrow and collision flag
	I     uint16
	PC    uint16
	Stack Stack
	DT    byte // delay timer
	ST    byte // sound timer
	Ticks uint64

	cfg  Config
	keys Keypad
	fb   FrameBuffer
	rng  *rand.Rand
	wait keyWait
}

// Keypad reports the state of the 16 logical keys, 0x0 to 0xf.
type Keypad interface {
	Pressed(key byte) bool
}

// keyWait tracks an executing LD Vx, K instruction.
type keyWait struct {
	active bool
	held   uint16 // keys held at the previous sample
}

// Outcome describes the result of a successful Tick.
type Outcome byte

const (
	// Completed means the instruction ran to completion.
	Completed Outcome = iota
	// AwaitingKey means the machine is blocked in LD Vx, K and PC still
	// addresses that instruction.
	AwaitingKey
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case AwaitingKey:
		return "awaiting key"
	}
	return "unknown"
}

// New returns a Machine with cfg and no program loaded.
// Keys may be nil, in which case no key is ever pressed.
func New(cfg Config, keys Keypad) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Machine{cfg: cfg, keys: keys}
	m.reset(nil)
	return m, nil
}

// Config returns the configuration the machine was built with.
func (m *Machine) Config() Config { return m.cfg }

// Frame returns a view of the display. The view tracks the display as the
// machine runs; it is not safe to read while Tick is executing.
func (m *Machine) Frame() Frame { return &m.fb }

// Waiting reports whether the machine is blocked waiting for a key press.
func (m *Machine) Waiting() bool { return m.wait.active }

// Load resets the machine and installs program at the configured offset.
// If program does not fit, Load returns a *CapacityError and the machine
// is left unchanged.
func (m *Machine) Load(program []byte) error {
	if off := int(m.cfg.Offset); off+len(program) > MemorySize {
		return &CapacityError{Size: len(program), Offset: uint16(off)}
	}
	m.reset(program)
	return nil
}

func (m *Machine) reset(program []byte) {
	*m = Machine{cfg: m.cfg, keys: m.keys}
	copy(m.Mem[:], font[:])
	copy(m.Mem[m.cfg.Offset:], program)
	m.PC = uint16(m.cfg.Offset)

	seed := uint64(time.Now().UnixNano())
	if m.cfg.Seed != nil {
		seed = *m.cfg.Seed
	}
	m.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// OpAt returns the instruction word at addr, and reports whether both of
// its bytes lie in memory.
func (m *Machine) OpAt(addr uint16) (Op, bool) {
	if int(addr)+2 > MemorySize {
		return 0, false
	}
	return Op(short(m.Mem[addr], m.Mem[addr+1])), true
}

// Tick executes the instruction at m.PC and counts down the timers when
// the tick count reaches a multiple of the timer cadence.
//
// If the instruction cannot be executed Tick returns a HaltError and the
// machine is left exactly as it was before the call.
func (m *Machine) Tick() (out Outcome, err error) {
	opPC := m.PC
	op, ok := m.OpAt(opPC)
	if !ok {
		return Completed, HaltError{HaltCode: MemoryOutOfRange, Addr: opPC}
	}
	defer func() {
		if e := recover(); e != nil {
			if code, ok := e.(HaltCode); ok {
				m.PC = opPC
				err = HaltError{
					HaltCode: code,
					Op:       op,
					Addr:     opPC,
				}
			} else {
				panic(e)
			}
		}
	}()

	m.PC += 2
	out = m.exec(op)

	m.Ticks++
	if m.Ticks%uint64(m.cfg.Cadence()) == 0 {
		if m.DT > 0 {
			m.DT--
		}
		if m.ST > 0 {
			m.ST--
		}
	}
	return out, nil
}

// exec runs op with PC already advanced past it. Handlers must detect every
// halt condition before mutating any state.
func (m *Machine) exec(op Op) Outcome {
	var (
		x, y   = op.X(), op.Y()
		vx, vy = m.V[x], m.V[y]
	)
	switch op.Decode() {
	case CLS:
		m.fb.Clear()
	case RET:
		m.PC = m.Stack.pop()
	case JP:
		m.PC = op.Addr()
	case CALL:
		m.Stack.push(m.PC)
		m.PC = op.Addr()
	case SEI:
		m.skipIf(vx == op.KK())
	case SNEI:
		m.skipIf(vx != op.KK())
	case SE:
		m.skipIf(vx == vy)
	case SNE:
		m.skipIf(vx != vy)
	case LDI:
		m.V[x] = op.KK()
	case ADDI:
		m.V[x] = vx + op.KK()
	case LD:
		m.V[x] = vy
	case OR:
		m.V[x] = vx | vy
	case AND:
		m.V[x] = vx & vy
	case XOR:
		m.V[x] = vx ^ vy
	case ADD:
		sum := uint16(vx) + uint16(vy)
		m.V[x] = byte(sum)
		m.V[0xf] = flag(sum > 0xff)
	case SUB:
		m.V[0xf] = flag(vx >= vy)
		m.V[x] = vx - vy
	case SHR:
		m.V[0xf] = vx & 0x01
		m.V[x] = vx >> 1
	case SUBN:
		// The result lands in Vy, not Vx.
		m.V[0xf] = flag(vy >= vx)
		m.V[y] = vy - vx
	case SHL:
		m.V[0xf] = vx >> 7
		m.V[x] = vx << 1
	case LDA:
		m.I = op.Addr()
	case JPV:
		m.PC = op.Addr() + uint16(m.V[0])
	case RND:
		m.V[x] = byte(m.rng.Uint32()) & op.KK()
	case DRW:
		sprite := m.span(m.I, int(op.N()))
		m.V[0xf] = flag(m.fb.Draw(int(vx), int(vy), sprite))
	case SKP:
		m.skipIf(m.pressed(vx))
	case SKNP:
		m.skipIf(!m.pressed(vx))
	case LDDT:
		m.V[x] = m.DT
	case LDK:
		return m.waitKey(x)
	case SETDT:
		m.DT = vx
	case SETST:
		m.ST = vx
	case ADDA:
		m.I += uint16(vx)
	case LDF:
		m.I = uint16(vx) * glyphSize
	case BCD:
		b := m.span(m.I, 3)
		b[0], b[1], b[2] = vx/100, vx/10%10, vx%10
	case STR:
		copy(m.span(m.I, int(x)+1), m.V[:x+1])
	case LDR:
		copy(m.V[:x+1], m.span(m.I, int(x)+1))
	case Unknown:
		// Unrecognised words, including 0nnn, do nothing.
	}
	return Completed
}

func (m *Machine) skipIf(cond bool) {
	if cond {
		m.PC += 2
	}
}

// span returns mem[addr:addr+n], panicking with MemoryOutOfRange if any of
// it lies outside memory.
func (m *Machine) span(addr uint16, n int) []byte {
	if int(addr)+n > MemorySize {
		panic(MemoryOutOfRange)
	}
	return m.Mem[addr : int(addr)+n]
}

func (m *Machine) pressed(key byte) bool {
	return key < 16 && m.keys != nil && m.keys.Pressed(key)
}

func (m *Machine) held() (mask uint16) {
	for k := byte(0); k < 16; k++ {
		if m.pressed(k) {
			mask |= 1 << k
		}
	}
	return mask
}

// waitKey implements LD Vx, K by re-entry: until a key that was up at the
// previous sample goes down, PC is wound back onto the instruction.
func (m *Machine) waitKey(x byte) Outcome {
	held := m.held()
	if m.wait.active {
		if down := held &^ m.wait.held; down != 0 {
			m.V[x] = byte(bits.TrailingZeros16(down))
			m.wait = keyWait{}
			return Completed
		}
	}
	m.wait = keyWait{active: true, held: held}
	m.PC -= 2
	return AwaitingKey
}

func flag(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func short(hi, lo byte) uint16 {
	return uint16(hi)<<8 + uint16(lo)
}
