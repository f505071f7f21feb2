package cosmac

import (
	"image"
	"image/draw"
	"log"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/nf/c8/chip8"
)

// GUI is a Frontend that draws into a native window.
type GUI struct {
	scr   *Screen
	keys  *Keys
	theme Theme

	frame *image.RGBA
	buf   screen.Buffer
	tex   screen.Texture
	gen   uint64
}

func NewGUI(scr *Screen, keys *Keys) *GUI {
	return &GUI{scr: scr, keys: keys, theme: DefaultTheme, frame: newFrameImage()}
}

var codeKeys = map[key.Code]byte{
	key.Code1: 0x1, key.Code2: 0x2, key.Code3: 0x3, key.Code4: 0xc,
	key.CodeQ: 0x4, key.CodeW: 0x5, key.CodeE: 0x6, key.CodeR: 0xd,
	key.CodeA: 0x7, key.CodeS: 0x8, key.CodeD: 0x9, key.CodeF: 0xe,
	key.CodeZ: 0xa, key.CodeX: 0x0, key.CodeC: 0xb, key.CodeV: 0xf,
}

func (g *GUI) Run(exit <-chan bool) (err error) {
	driver.Main(func(s screen.Screen) {
		dim := image.Point{chip8.Width * scale, chip8.Height * scale}
		var w screen.Window
		w, err = s.NewWindow(&screen.NewWindowOptions{
			Title:  "c8",
			Width:  dim.X,
			Height: dim.Y,
		})
		if err != nil {
			return
		}
		defer w.Release()
		if g.buf, err = s.NewBuffer(dim); err != nil {
			return
		}
		defer g.buf.Release()
		if g.tex, err = s.NewTexture(dim); err != nil {
			return
		}
		defer g.tex.Release()

		type update struct{}
		done := make(chan bool)
		defer close(done)
		go func() {
			t := time.NewTicker(time.Second / 60)
			defer t.Stop()
			for {
				select {
				case <-t.C:
					w.Send(update{})
				case <-exit:
					w.Send(update{})
					return
				case <-done:
					return
				}
			}
		}()

		var sz size.Event
		for {
			e := w.NextEvent()

			select {
			case <-exit:
				return
			default:
			}

			switch e := e.(type) {
			case size.Event:
				sz = e
				if sz.WidthPx+sz.HeightPx == 0 {
					return
				}

			case lifecycle.Event:
				if e.To == lifecycle.StageDead {
					return
				}

			case key.Event:
				if e.Code == key.CodeEscape {
					return
				}
				if k, ok := codeKeys[e.Code]; ok {
					g.keys.Set(k, e.Direction != key.DirRelease)
				}

			case paint.Event:
				g.paint(w, sz, true)

			case update:
				g.paint(w, sz, false)

			case error:
				log.Print(e)
			}
		}
	})
	return err
}

func (g *GUI) paint(w screen.Window, sz size.Event, force bool) {
	if gen := g.scr.Gen(); gen == g.gen && !force {
		return
	}
	g.gen = g.scr.Render(g.frame, g.theme)
	m := g.buf.RGBA()
	xdraw.NearestNeighbor.Scale(m, m.Bounds(), g.frame, g.frame.Bounds(), draw.Src, nil)
	g.tex.Upload(image.Point{}, g.buf, g.buf.Bounds())
	w.Scale(sz.Bounds(), g.tex, g.tex.Bounds(), draw.Src, nil)
	w.Publish()
}
