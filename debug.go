package main

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/nf/c8/chip8"
	"github.com/nf/c8/cosmac"
)

type debugger struct {
	run *cosmac.Runner

	log   *tview.TextView
	watch *tview.TextView
	state *tview.TextView
	input *tview.InputField
	cols  *tview.Flex
	rows  *tview.Flex
	app   *tview.Application

	mu       sync.Mutex
	syms     *symbols
	watches  []watch
	dbg, brk *symbol
	cond     *cosmac.Cond
}

type watch struct {
	symbol
	short bool
}

func (d *debugger) symbols() *symbols {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.syms
}

func (d *debugger) setSymbols(s *symbols) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.syms = s
}

func newDebugger() *debugger {
	d := &debugger{
		log: tview.NewTextView().
			SetMaxLines(1000),
		watch: tview.NewTextView().
			SetWrap(false).
			SetTextAlign(tview.AlignRight),
		state: tview.NewTextView().
			SetWrap(false),
		input: tview.NewInputField(),
		cols:  tview.NewFlex(),
		rows: tview.NewFlex().
			SetDirection(tview.FlexRow),
		app: tview.NewApplication(),
	}
	d.log.SetChangedFunc(func() { d.app.Draw() })
	d.watch.SetBackgroundColor(tcell.ColorDarkBlue)
	d.state.SetBackgroundColor(tcell.ColorDarkGrey)
	d.cols.
		AddItem(d.watch, 0, 1, false).
		AddItem(d.log, 0, 2, false)
	d.rows.
		AddItem(d.cols, 0, 1, false).
		AddItem(d.state, 4, 0, false).
		AddItem(d.input, 1, 0, true)
	d.app.SetRoot(d.rows, true)

	d.input.SetAutocompleteFunc(func(t string) (entries []string) {
		if cmd, arg, ok := strings.Cut(t, " "); ok {
			switch cmd {
			case "b", "break", "d", "debug", "w", "w2", "watch", "watch2":
				for _, s := range d.symbols().withLabelPrefix(arg) {
					entries = append(entries, cmd+" "+s.label)
				}
			}
		}
		return
	})
	d.input.SetAutocompletedFunc(func(t string, index, src int) bool {
		if src != tview.AutocompletedNavigate {
			d.input.SetText(t)
		}
		return src == tview.AutocompletedEnter || src == tview.AutocompletedClick
	})
	d.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		line := d.input.GetText()
		if line == "" {
			return
		}
		d.input.SetText("")
		c, err := parseCommand(d.symbols(), line)
		if err != nil {
			log.Print(err)
			return
		}
		d.do(c)
	})
	return d
}

// command is a parsed debugger input line.
type command struct {
	name  string // break, debug, watch, pause, cont, step, reset or exit
	sym   *symbol
	short bool
	cond  *cosmac.Cond
}

var errUsage = errors.New("commands: b|break [addr [if cond]], d|debug [addr], w|watch addr, w2|watch2 addr, p|pause, c|cont, s|step, r|reset, exit")

func parseCommand(syms *symbols, line string) (command, error) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	var c command
	switch cmd {
	case "b", "break":
		c.name = "break"
	case "d", "debug":
		c.name = "debug"
	case "w", "watch", "w2", "watch2":
		c.name = "watch"
		c.short = strings.HasSuffix(cmd, "2")
		if arg == "" {
			return c, errUsage
		}
	case "p", "pause":
		c.name = "pause"
	case "c", "cont", "continue":
		c.name = "cont"
	case "s", "step":
		c.name = "step"
	case "r", "reset":
		c.name = "reset"
	case "exit", "quit":
		c.name = "exit"
	default:
		return c, errUsage
	}
	if arg == "" {
		return c, nil
	}
	switch c.name {
	case "break", "debug", "watch":
	default:
		return c, fmt.Errorf("%s takes no argument", c.name)
	}

	addr, expr, hasCond := strings.Cut(arg, " if ")
	if hasCond && c.name != "break" {
		return c, fmt.Errorf("only breakpoints take a condition")
	}
	s, ok := syms.resolve(strings.TrimSpace(addr))
	if !ok {
		return c, fmt.Errorf("invalid address %q", addr)
	}
	c.sym = &s
	if c.short && s.addr+1 >= chip8.MemorySize {
		return c, fmt.Errorf("invalid address %q", addr)
	}
	if hasCond {
		cond, err := cosmac.CompileCond(strings.TrimSpace(expr))
		if err != nil {
			return c, err
		}
		c.cond = cond
	}
	return c, nil
}

func (d *debugger) do(c command) {
	switch c.name {
	case "exit":
		d.app.Stop()
	case "break":
		if c.sym == nil {
			d.run.Debug(cosmac.DebugCmd{Kind: cosmac.Break, Clear: true})
			d.setBreak(nil, nil)
			log.Print("cleared break")
			return
		}
		d.run.Debug(cosmac.DebugCmd{Kind: cosmac.Break, Addr: c.sym.addr, Cond: c.cond})
		d.setBreak(c.sym, c.cond)
		if c.cond != nil {
			log.Printf("set break %.3x if %v", c.sym.addr, c.cond)
		} else {
			log.Printf("set break %.3x", c.sym.addr)
		}
	case "debug":
		if c.sym == nil {
			d.run.Debug(cosmac.DebugCmd{Kind: cosmac.Trace, Clear: true})
			d.setDebug(nil)
			log.Print("cleared debug")
			return
		}
		d.run.Debug(cosmac.DebugCmd{Kind: cosmac.Trace, Addr: c.sym.addr})
		d.setDebug(c.sym)
		log.Printf("set debug %.3x", c.sym.addr)
	case "watch":
		d.mu.Lock()
		d.watches = append(d.watches, watch{symbol: *c.sym, short: c.short})
		d.mu.Unlock()
		log.Printf("watching %.3x", c.sym.addr)
	case "pause":
		d.run.Debug(cosmac.DebugCmd{Kind: cosmac.Pause})
	case "cont":
		d.run.Debug(cosmac.DebugCmd{Kind: cosmac.Continue})
	case "step":
		d.run.Debug(cosmac.DebugCmd{Kind: cosmac.Step})
	case "reset":
		d.run.Debug(cosmac.DebugCmd{Kind: cosmac.Reset})
		log.Print("reset")
	}
}

func (d *debugger) setBreak(s *symbol, cond *cosmac.Cond) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.brk, d.cond = s, cond
}

func (d *debugger) setDebug(s *symbol) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dbg = s
}

func (d *debugger) Run() error { return d.app.Run() }

func (d *debugger) StateFunc(m *chip8.Machine, k cosmac.StateKind) {
	var (
		watch = d.watchContent(m)
		state string
	)
	if k != cosmac.ClearState && k != cosmac.QuietState {
		state = stateMsg(d.symbols(), m, k)
	}
	d.app.QueueUpdateDraw(func() {
		switch k {
		case cosmac.DebugState, cosmac.ClearState:
			d.state.SetTextColor(tcell.ColorBlack)
			d.state.SetBackgroundColor(tcell.ColorDarkGrey)
		case cosmac.BreakState:
			d.state.SetTextColor(tcell.ColorYellow)
			d.state.SetBackgroundColor(tcell.ColorDarkBlue)
		case cosmac.PauseState, cosmac.WaitState:
			d.state.SetTextColor(tcell.ColorWhite)
			d.state.SetBackgroundColor(tcell.ColorDarkBlue)
		case cosmac.HaltState:
			d.state.SetTextColor(tcell.ColorWhite)
			d.state.SetBackgroundColor(tcell.ColorDarkRed)
		}
		d.watch.SetText(watch)
		if k != cosmac.QuietState {
			d.state.SetText(state)
		}
	})
}

func stateMsg(syms *symbols, m *chip8.Machine, k cosmac.StateKind) string {
	var (
		op, _ = m.OpAt(m.PC)
		pcSym string
		sym   string
	)
	if s := syms.forAddr(m.PC); len(s) > 0 {
		pcSym = s[0].String() + " -> "
	}
	switch op.Decode() {
	case chip8.JP, chip8.CALL, chip8.LDA, chip8.JPV:
		for i, s := range syms.forAddr(op.Addr()) {
			if i != 0 {
				sym += " "
			}
			sym += s.String()
		}
	}
	kind := "       "
	switch k {
	case cosmac.BreakState:
		kind = "[break]"
	case cosmac.DebugState:
		kind = "[debug]"
	case cosmac.PauseState:
		kind = "[pause]"
	case cosmac.WaitState:
		kind = "[wait?]"
	case cosmac.HaltState:
		kind = "[HALT!]"
	}
	return fmt.Sprintf("%.3x %-16s %s %s%s\nV: % x\nI: %.3x DT: %.2x ST: %.2x ticks: %d\nstack: %v\n",
		m.PC, op, kind, pcSym, sym, m.V, m.I, m.DT, m.ST, m.Ticks, m.Stack)
}

func (d *debugger) watchContent(m *chip8.Machine) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var b strings.Builder
	if s := d.brk; s != nil {
		fmt.Fprintf(&b, "%s [%.3x] brk!", s.label, s.addr)
		if d.cond != nil {
			fmt.Fprintf(&b, " if %v", d.cond)
		}
		b.WriteByte('\n')
	}
	if s := d.dbg; s != nil {
		fmt.Fprintf(&b, "%s [%.3x] dbg?\n", s.label, s.addr)
	}
	for _, w := range d.watches {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s [%.3x] ", w.label, w.addr)
		if w.short {
			fmt.Fprintf(&b, "%.2x%.2x", m.Mem[w.addr], m.Mem[w.addr+1])
		} else {
			fmt.Fprintf(&b, "  %.2x", m.Mem[w.addr])
		}
	}
	return b.String()
}
