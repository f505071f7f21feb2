package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nf/c8/chip8"
	"github.com/nf/c8/cosmac"
)

func TestParseCommand(t *testing.T) {
	syms, err := parseSymbols(strings.NewReader(testSyms))
	require.NoError(t, err)

	for _, c := range []struct {
		line  string
		name  string
		addr  int // -1 for no address
		short bool
		cond  string
	}{
		{"b draw", "break", 0x20a, false, ""},
		{"break 3f0 if v3 == 1", "break", 0x3f0, false, "v3 == 1"},
		{"b", "break", -1, false, ""},
		{"d main", "debug", 0x200, false, ""},
		{"debug", "debug", -1, false, ""},
		{"w 300", "watch", 0x300, false, ""},
		{"w2 sprites", "watch", 0x3f0, true, ""},
		{"p", "pause", -1, false, ""},
		{"c", "cont", -1, false, ""},
		{"s", "step", -1, false, ""},
		{"r", "reset", -1, false, ""},
		{"exit", "exit", -1, false, ""},
	} {
		cmd, err := parseCommand(syms, c.line)
		require.NoError(t, err, c.line)
		assert.Equal(t, c.name, cmd.name, c.line)
		assert.Equal(t, c.short, cmd.short, c.line)
		if c.addr < 0 {
			assert.Nil(t, cmd.sym, c.line)
		} else if assert.NotNil(t, cmd.sym, c.line) {
			assert.EqualValues(t, c.addr, cmd.sym.addr, c.line)
		}
		if c.cond == "" {
			assert.Nil(t, cmd.cond, c.line)
		} else if assert.NotNil(t, cmd.cond, c.line) {
			assert.Equal(t, c.cond, cmd.cond.String(), c.line)
		}
	}

	for _, line := range []string{
		"frobnicate",
		"w",
		"w2 fff",
		"b nowhere",
		"d 200 if v0 == 1",
		"b 200 if v0 ==",
		"s 200",
	} {
		_, err := parseCommand(syms, line)
		assert.Error(t, err, line)
	}
}

func TestStateMsg(t *testing.T) {
	syms, err := parseSymbols(strings.NewReader(testSyms))
	require.NoError(t, err)
	m, err := chip8.New(chip8.DefaultConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, m.Load([]byte{0x22, 0x0a})) // CALL 20a

	msg := stateMsg(syms, m, cosmac.BreakState)
	lines := strings.Split(msg, "\n")
	assert.Equal(t, "200 CALL $20A        [break] start (200) -> draw (20a)", lines[0])
	assert.Contains(t, msg, "I: 000 DT: 00 ST: 00 ticks: 0")
	assert.Contains(t, msg, "stack: ( )")
}
