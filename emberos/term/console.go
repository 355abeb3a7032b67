package term

import (
	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"

	"ember/hal"
)

// Console mirrors terminal traffic onto a local screen.
type Console interface {
	WriteByte(b byte) error
	Display()
}

// fbConsole pairs a tinyterm renderer with the framebuffer it draws into,
// so a flush both renders and presents.
type fbConsole struct {
	term *tinyterm.Terminal
	disp *fbDisplay
}

func (c *fbConsole) WriteByte(b byte) error { return c.term.WriteByte(b) }

func (c *fbConsole) Display() { _ = c.disp.Display() }

// NewConsole builds a framebuffer console for the board display, or nil
// when there is no usable framebuffer (headless host, displayless board).
func NewConsole(disp hal.Display) Console {
	if disp == nil {
		return nil
	}
	d := newFBDisplay(disp.Framebuffer())
	if d == nil {
		return nil
	}
	t := tinyterm.NewTerminal(d)
	t.Configure(&tinyterm.Config{
		Font:       &proggy.TinySZ8pt7b,
		FontHeight: 10,
		FontOffset: 6,
	})
	return &fbConsole{term: t, disp: d}
}
