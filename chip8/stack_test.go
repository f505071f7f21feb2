package chip8

import "testing"

func TestStack(t *testing.T) {
	var s Stack
	for i := 0; i < StackSize; i++ {
		s.push(uint16(0x200 + i))
	}
	if g := haltCode(func() { s.push(0x300) }); g != StackOverflow {
		t.Errorf("push onto full stack: got %v, want %v", g, StackOverflow)
	}
	if s.Ptr != StackSize {
		t.Errorf("Ptr is %d after overflow, want %d", s.Ptr, StackSize)
	}
	for i := StackSize - 1; i >= 0; i-- {
		if g, w := s.pop(), uint16(0x200+i); g != w {
			t.Errorf("pop returned %.3x, want %.3x", g, w)
		}
	}
	if g := haltCode(func() { s.pop() }); g != StackUnderflow {
		t.Errorf("pop from empty stack: got %v, want %v", g, StackUnderflow)
	}
	if g := s.String(); g != "( )" {
		t.Errorf("String() = %q", g)
	}
	s.push(0x202)
	if g := s.String(); g != "( 202 )" {
		t.Errorf("String() = %q", g)
	}
}

func haltCode(fn func()) (code HaltCode) {
	defer func() {
		if e := recover(); e != nil {
			code = e.(HaltCode)
		}
	}()
	fn()
	return 0
}
