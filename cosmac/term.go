package cosmac

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/nf/c8/chip8"
)

// Terminals report key presses but not releases, so a key is held for
// keyHold after its most recent press (or auto-repeat).
const keyHold = 150 * time.Millisecond

// Term is a Frontend that draws into the terminal, two pixel rows per
// character cell.
type Term struct {
	scr   *Screen
	keys  *Keys
	theme Theme
	hold  holdKeys
}

func NewTerm(scr *Screen, keys *Keys) *Term {
	return &Term{scr: scr, keys: keys, theme: DefaultTheme, hold: holdKeys{keys: keys}}
}

func (t *Term) Run(exit <-chan bool) error {
	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()
	s.HideCursor()

	events := make(chan tcell.Event)
	quit := make(chan struct{})
	go s.ChannelEvents(events, quit)
	defer close(quit)

	tk := time.NewTicker(time.Second / 60)
	defer tk.Stop()
	var gen uint64
	force := true
	for {
		select {
		case <-exit:
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch ev.Key() {
				case tcell.KeyEscape, tcell.KeyCtrlC:
					return nil
				case tcell.KeyRune:
					if k, ok := KeyFor(ev.Rune()); ok {
						t.hold.press(k, time.Now())
					}
				}
			case *tcell.EventResize:
				s.Sync()
				force = true
			}
		case now := <-tk.C:
			t.hold.expire(now)
			if g := t.scr.Gen(); g != gen || force {
				gen = t.draw(s)
				force = false
			}
		}
	}
}

func (t *Term) draw(s tcell.Screen) uint64 {
	var pix [pixels]bool
	gen := t.scr.Snapshot(&pix)
	on := tcell.NewRGBColor(int32(t.theme.On.R), int32(t.theme.On.G), int32(t.theme.On.B))
	off := tcell.NewRGBColor(int32(t.theme.Off.R), int32(t.theme.Off.G), int32(t.theme.Off.B))
	colour := func(lit bool) tcell.Color {
		if lit {
			return on
		}
		return off
	}
	for y := 0; y < chip8.Height; y += 2 {
		for x := 0; x < chip8.Width; x++ {
			st := tcell.StyleDefault.
				Foreground(colour(pix[y*chip8.Width+x])).
				Background(colour(pix[(y+1)*chip8.Width+x]))
			s.SetContent(x, y/2, '▀', nil, st)
		}
	}
	s.Show()
	return gen
}

// holdKeys releases keys that have not been pressed for keyHold.
type holdKeys struct {
	keys  *Keys
	until [16]time.Time
}

func (h *holdKeys) press(k byte, now time.Time) {
	h.keys.Set(k, true)
	h.until[k] = now.Add(keyHold)
}

func (h *holdKeys) expire(now time.Time) {
	for k, u := range h.until {
		if !u.IsZero() && !now.Before(u) {
			h.keys.Set(byte(k), false)
			h.until[k] = time.Time{}
		}
	}
}
