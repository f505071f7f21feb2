package cosmac

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/nf/c8/chip8"
)

// EbitenGUI is a Frontend drawn with Ebitengine.
type EbitenGUI struct {
	scr   *Screen
	keys  *Keys
	theme Theme
	exit  <-chan bool

	frame *image.RGBA
	img   *ebiten.Image
	gen   uint64
}

func NewEbitenGUI(scr *Screen, keys *Keys) *EbitenGUI {
	return &EbitenGUI{scr: scr, keys: keys, theme: DefaultTheme, frame: newFrameImage()}
}

var ebitenKeys = map[ebiten.Key]byte{
	ebiten.KeyDigit1: 0x1, ebiten.KeyDigit2: 0x2, ebiten.KeyDigit3: 0x3, ebiten.KeyDigit4: 0xc,
	ebiten.KeyQ: 0x4, ebiten.KeyW: 0x5, ebiten.KeyE: 0x6, ebiten.KeyR: 0xd,
	ebiten.KeyA: 0x7, ebiten.KeyS: 0x8, ebiten.KeyD: 0x9, ebiten.KeyF: 0xe,
	ebiten.KeyZ: 0xa, ebiten.KeyX: 0x0, ebiten.KeyC: 0xb, ebiten.KeyV: 0xf,
}

func (g *EbitenGUI) Run(exit <-chan bool) error {
	g.exit = exit
	ebiten.SetWindowSize(chip8.Width*scale, chip8.Height*scale)
	ebiten.SetWindowTitle("c8")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetRunnableOnUnfocused(true)
	return ebiten.RunGame(g)
}

func (g *EbitenGUI) Update() error {
	select {
	case <-g.exit:
		return ebiten.Termination
	default:
	}
	if ebiten.IsWindowBeingClosed() || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	for k, v := range ebitenKeys {
		g.keys.Set(v, ebiten.IsKeyPressed(k))
	}
	return nil
}

func (g *EbitenGUI) Draw(screen *ebiten.Image) {
	if g.img == nil {
		g.img = ebiten.NewImage(chip8.Width, chip8.Height)
		g.gen = g.scr.Render(g.frame, g.theme)
		g.img.WritePixels(g.frame.Pix)
	} else if g.scr.Gen() != g.gen {
		g.gen = g.scr.Render(g.frame, g.theme)
		g.img.WritePixels(g.frame.Pix)
	}
	screen.DrawImage(g.img, nil)
}

func (g *EbitenGUI) Layout(_, _ int) (int, int) {
	return chip8.Width, chip8.Height
}
