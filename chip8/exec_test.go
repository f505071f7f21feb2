package chip8

import (
	"errors"
	"fmt"
	"testing"
)

func TestExec(t *testing.T) {
	c := newExecTestCase
	full := make([]uint16, StackSize)
	for i := range full {
		full[i] = 0x300 + uint16(i)*2
	}
	for i, c := range []*execTestCase{
		c(0x00e0).draw(3, 4, 0xff).want().clear(),

		c(0x00ee).stack(0x345).want().stack().pc(0x345),
		c(0x00ee).want().pc(0x200).error(StackUnderflow),

		c(0x1abc).want().pc(0xabc),

		c(0x2abc).want().stack(0x202).pc(0xabc),
		c(0x2abc).stack(0x400).want().stack(0x400, 0x202).pc(0xabc),
		c(0x2abc).stack(full...).want().pc(0x200).error(StackOverflow),

		c(0x3342).v(3, 0x42).want().pc(0x204),
		c(0x3342).v(3, 0x41).want(),
		c(0x4342).v(3, 0x41).want().pc(0x204),
		c(0x4342).v(3, 0x42).want(),
		c(0x5120).v(1, 7).v(2, 7).want().pc(0x204),
		c(0x5120).v(1, 7).v(2, 8).want(),
		c(0x9120).v(1, 7).v(2, 8).want().pc(0x204),
		c(0x9120).v(1, 7).v(2, 7).want(),

		c(0x6a42).want().v(0xa, 0x42),
		c(0x7a01).v(0xa, 0x41).want().v(0xa, 0x42),
		c(0x7a01).v(0xa, 0xff).v(0xf, 7).want().v(0xa, 0x00),

		c(0x8120).v(2, 9).want().v(1, 9),
		c(0x8121).v(1, 0x36).v(2, 0x63).want().v(1, 0x77),
		c(0x8122).v(1, 0x99).v(2, 0xb8).want().v(1, 0x98),
		c(0x8123).v(1, 0x31).v(2, 0x13).want().v(1, 0x22),

		c(0x8014).v(0, 0x10).v(1, 0x20).v(0xf, 1).want().v(0, 0x30).v(0xf, 0),
		c(0x8014).v(0, 0xff).v(1, 0x02).want().v(0, 0x01).v(0xf, 1),
		c(0x8f14).v(0xf, 0xff).v(1, 0x01).want().v(0xf, 1),

		c(0x8015).v(0, 5).v(1, 3).want().v(0, 2).v(0xf, 1),
		c(0x8015).v(0, 5).v(1, 5).want().v(0, 0).v(0xf, 1),
		c(0x8015).v(0, 3).v(1, 5).v(0xf, 1).want().v(0, 0xfe).v(0xf, 0),

		c(0x8016).v(0, 0x05).want().v(0, 0x02).v(0xf, 1),
		c(0x8016).v(0, 0x04).v(0xf, 1).want().v(0, 0x02).v(0xf, 0),

		c(0x8017).v(0, 3).v(1, 5).want().v(1, 2).v(0xf, 1),
		c(0x8017).v(0, 5).v(1, 3).v(0xf, 1).want().v(1, 0xfe).v(0xf, 0),

		c(0x801e).v(0, 0x81).want().v(0, 0x02).v(0xf, 1),
		c(0x801e).v(0, 0x41).v(0xf, 1).want().v(0, 0x82).v(0xf, 0),

		c(0xa123).want().i(0x123),
		c(0xb300).v(0, 0x10).want().pc(0x310),
		c(0xc000).v(0, 0x0f).want().v(0, 0x00),

		c(0xd015).v(0, 2).v(1, 3).want().draw(2, 3, font[0:5]...).v(0xf, 0),
		c(0xd011).i(0x300).mem(0x300, 0x80).draw(0, 0, 0x80).
			want().clear().v(0xf, 1),
		c(0xd012).i(0xfff).want().pc(0x200).error(MemoryOutOfRange),

		c(0xe09e).v(0, 0xa).keys(0xa).want().pc(0x204),
		c(0xe09e).v(0, 0xa).keys(0xb).want(),
		c(0xe0a1).v(0, 0xa).keys(0xb).want().pc(0x204),
		c(0xe0a1).v(0, 0xa).keys(0xa).want(),
		c(0xe0a1).v(0, 0x1a).keys(0xa).want().pc(0x204),

		c(0xf307).dt(9).want().v(3, 9),
		c(0xf315).v(3, 42).want().dt(42),
		c(0xf318).v(3, 42).want().st(42),
		c(0xf31e).i(0x10).v(3, 0x20).want().i(0x30),
		c(0xf329).v(3, 0xa).want().i(50),

		c(0xf333).i(0x300).v(3, 254).want().mem(0x300, 2, 5, 4),
		c(0xf333).i(0x300).v(3, 7).want().mem(0x300, 0, 0, 7),
		c(0xf333).i(0xffe).v(3, 7).want().pc(0x200).error(MemoryOutOfRange),

		c(0xf255).i(0x300).v(0, 1).v(1, 2).v(2, 3).v(3, 4).
			want().mem(0x300, 1, 2, 3),
		c(0xf255).i(0xffe).v(0, 1).v(1, 2).v(2, 3).
			want().pc(0x200).error(MemoryOutOfRange),
		c(0xf265).i(0x300).mem(0x300, 7, 8, 9, 10).
			want().v(0, 7).v(1, 8).v(2, 9),
		c(0xf065).i(0xfff).mem(0xfff, 6).want().v(0, 6),

		c(0xf30a).want().pc(0x200),

		// Unknown words do nothing.
		c(0x0123).v(1, 1).want(),
		c(0x5121).v(1, 1).v(2, 1).want(),
		c(0x8018).v(1, 1).want(),
		c(0xe0ff).keys(0).want(),
		c(0xf0ff).want(),
	} {
		t.Run(fmt.Sprintf("%.4x_%d", uint16(c.op), i), func(t *testing.T) {
			_, err := c.m.Tick()
			if c.err != 0 {
				var h HaltError
				if !errors.As(err, &h) || h.HaltCode != c.err {
					t.Fatalf("got error %v, want %v", err, c.err)
				}
				if h.Op != c.op || h.Addr != 0x200 {
					t.Errorf("got %+v, want op %v at 200", h, c.op)
				}
			} else if err != nil {
				t.Fatalf("got error %v, want nil", err)
			}
			if g, w := c.m.V, c.w.V; g != w {
				t.Errorf("V is\n\t% x\nwant\n\t% x", g, w)
			}
			if g, w := c.m.I, c.w.I; g != w {
				t.Errorf("I is %.3x, want %.3x", g, w)
			}
			if g, w := c.m.PC, c.w.PC; g != w {
				t.Errorf("PC is %.3x, want %.3x", g, w)
			}
			if g, w := c.m.Stack, c.w.Stack; !stackEq(g, w) {
				t.Errorf("stack is %v, want %v", g, w)
			}
			if g, w := c.m.DT, c.w.DT; g != w {
				t.Errorf("DT is %d, want %d", g, w)
			}
			if g, w := c.m.ST, c.w.ST; g != w {
				t.Errorf("ST is %d, want %d", g, w)
			}
			if g, w := c.m.Mem, c.w.Mem; g != w {
				for i := range g {
					if g[i] != w[i] {
						t.Errorf("memory[%.3x] = %.2x, want %.2x", i, g[i], w[i])
					}
				}
			}
			if g, w := c.m.fb.pix, c.w.fb.pix; g != w {
				t.Errorf("display is\n%v\nwant\n%v", frameString(&c.m.fb), frameString(&c.w.fb))
			}
		})
	}
}

type execTestCase struct {
	op   Op
	m, w *Machine
	err  HaltCode
	set  *Machine
	held testKeys
}

func newExecTestCase(op uint16) *execTestCase {
	c := &execTestCase{op: Op(op)}
	c.m = newTestMachine(&c.held)
	c.w = newTestMachine(&c.held)
	prog := []byte{byte(op >> 8), byte(op)}
	if err := c.m.Load(prog); err != nil {
		panic(err)
	}
	if err := c.w.Load(prog); err != nil {
		panic(err)
	}
	c.w.PC += 2
	c.set = c.m
	return c
}

// each applies fn to the machine being set up and, before want is called,
// to the expected machine too.
func (c *execTestCase) each(fn func(m *Machine)) *execTestCase {
	fn(c.set)
	if c.set == c.m {
		fn(c.w)
	}
	return c
}

func (c *execTestCase) v(reg, val byte) *execTestCase {
	return c.each(func(m *Machine) { m.V[reg] = val })
}

func (c *execTestCase) i(addr uint16) *execTestCase {
	return c.each(func(m *Machine) { m.I = addr })
}

func (c *execTestCase) pc(addr uint16) *execTestCase {
	return c.each(func(m *Machine) { m.PC = addr })
}

func (c *execTestCase) dt(v byte) *execTestCase {
	return c.each(func(m *Machine) { m.DT = v })
}

func (c *execTestCase) st(v byte) *execTestCase {
	return c.each(func(m *Machine) { m.ST = v })
}

func (c *execTestCase) mem(addr uint16, bytes ...byte) *execTestCase {
	return c.each(func(m *Machine) { copy(m.Mem[addr:], bytes) })
}

func (c *execTestCase) stack(addrs ...uint16) *execTestCase {
	return c.each(func(m *Machine) {
		m.Stack = Stack{Ptr: byte(len(addrs))}
		copy(m.Stack.Addrs[:], addrs)
	})
}

func (c *execTestCase) draw(x, y int, sprite ...byte) *execTestCase {
	return c.each(func(m *Machine) { m.fb.Draw(x, y, sprite) })
}

func (c *execTestCase) clear() *execTestCase {
	return c.each(func(m *Machine) { m.fb.Clear() })
}

func (c *execTestCase) keys(keys ...byte) *execTestCase {
	for _, k := range keys {
		c.held.hold(k)
	}
	return c
}

func (c *execTestCase) want() *execTestCase {
	c.set = c.w
	return c
}

func (c *execTestCase) error(code HaltCode) *execTestCase {
	c.err = code
	return c
}

func stackEq(a, b Stack) bool {
	ac := Stack{Ptr: a.Ptr}
	bc := Stack{Ptr: b.Ptr}
	copy(ac.Addrs[:], a.Addrs[:a.Ptr])
	copy(bc.Addrs[:], b.Addrs[:b.Ptr])
	return ac == bc
}
