package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/nf/c8/chip8"
)

// symbols is sorted by address.
type symbols []symbol

type symbol struct {
	addr  uint16
	label string
}

func (s symbol) String() string { return fmt.Sprintf("%s (%.3x)", s.label, s.addr) }

func (s *symbols) forAddr(addr uint16) (ss []symbol) {
	if s == nil {
		return nil
	}
	i := sort.Search(len(*s), func(i int) bool { return (*s)[i].addr >= addr })
	for ; i < len(*s) && (*s)[i].addr == addr; i++ {
		ss = append(ss, (*s)[i])
	}
	return ss
}

func (s *symbols) withLabelPrefix(p string) (ss []symbol) {
	if s == nil {
		return nil
	}
	for _, sym := range *s {
		if strings.HasPrefix(sym.label, p) {
			ss = append(ss, sym)
		}
	}
	return ss
}

// resolve looks up arg as a label and then as a hexadecimal address,
// optionally prefixed with $ or 0x.
func (s *symbols) resolve(arg string) (symbol, bool) {
	if s != nil {
		for _, sym := range *s {
			if sym.label == arg {
				return sym, true
			}
		}
	}
	h := strings.TrimPrefix(strings.TrimPrefix(arg, "$"), "0x")
	addr, err := strconv.ParseUint(h, 16, 16)
	if err != nil || addr >= chip8.MemorySize {
		return symbol{}, false
	}
	if ss := s.forAddr(uint16(addr)); len(ss) > 0 {
		return ss[0], true
	}
	return symbol{addr: uint16(addr), label: fmt.Sprintf("%.3x", addr)}, true
}

// readSymbols reads the symbol file at name. A missing file yields no
// symbols and no error.
func readSymbols(name string) (*symbols, error) {
	f, err := os.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseSymbols(f)
}

// parseSymbols reads lines of the form "<hex addr> <label>".
// Blank lines and lines beginning with # are ignored.
func parseSymbols(r io.Reader) (*symbols, error) {
	var (
		ss   symbols
		sc   = bufio.NewScanner(r)
		line int
	)
	for sc.Scan() {
		line++
		t := strings.TrimSpace(sc.Text())
		if t == "" || t[0] == '#' {
			continue
		}
		f := strings.Fields(t)
		if len(f) != 2 {
			return nil, fmt.Errorf("line %d: want address and label, got %q", line, t)
		}
		addr, err := strconv.ParseUint(f[0], 16, 16)
		if err != nil || addr >= chip8.MemorySize {
			return nil, fmt.Errorf("line %d: invalid address %q", line, f[0])
		}
		ss = append(ss, symbol{addr: uint16(addr), label: f[1]})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(ss, func(i, j int) bool {
		return ss[i].addr < ss[j].addr
	})
	return &ss, nil
}
