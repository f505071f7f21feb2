package cosmac

import (
	"fmt"
	"strings"
)

// Frontend presents a Screen and feeds Keys. Run blocks until the user
// quits or exit is closed.
type Frontend interface {
	Run(exit <-chan bool) error
}

// scale is the initial window magnification of the graphical frontends.
const scale = 10

// Frontends lists the names accepted by NewFrontend.
var Frontends = []string{"shiny", "ebiten", "term", "none"}

// NewFrontend returns the named frontend.
func NewFrontend(name string, scr *Screen, keys *Keys) (Frontend, error) {
	switch name {
	case "shiny":
		return NewGUI(scr, keys), nil
	case "ebiten":
		return NewEbitenGUI(scr, keys), nil
	case "term":
		return NewTerm(scr, keys), nil
	case "none":
		return headless{}, nil
	}
	return nil, fmt.Errorf("unknown frontend %q (want one of %s)", name, strings.Join(Frontends, ", "))
}

type headless struct{}

func (headless) Run(exit <-chan bool) error {
	<-exit
	return nil
}
