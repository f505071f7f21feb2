package chip8

import (
	"fmt"
	"strings"
)

// StackSize is the number of nested subroutine calls the stack can hold.
const StackSize = 16

// Stack holds the return addresses of subroutine calls.
// Addrs[:Ptr] are in use; Ptr is always in [0, StackSize].
type Stack struct {
	Addrs [StackSize]uint16
	Ptr   byte
}

// push panics with StackOverflow if the stack is full.
func (s *Stack) push(addr uint16) {
	if int(s.Ptr) >= StackSize {
		panic(StackOverflow)
	}
	s.Addrs[s.Ptr] = addr
	s.Ptr++
}

// pop panics with StackUnderflow if the stack is empty.
func (s *Stack) pop() uint16 {
	if s.Ptr == 0 {
		panic(StackUnderflow)
	}
	s.Ptr--
	return s.Addrs[s.Ptr]
}

func (s Stack) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for _, v := range s.Addrs[:s.Ptr] {
		b.WriteByte(' ')
		fmt.Fprintf(&b, "%.3x", v)
	}
	b.WriteByte(' ')
	b.WriteByte(')')
	return b.String()
}
