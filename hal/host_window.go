//go:build !tinygo && cgo

package hal

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"ember/internal/buildinfo"
)

// ledBarHeight is the strip under the framebuffer where the four user LEDs
// are drawn.
const ledBarHeight = 28

// ledColors match the board silkscreen: LD3 orange, LD4 green, LD5 red,
// LD6 blue.
var ledColors = [4]color.RGBA{
	{R: 0xFF, G: 0x99, B: 0x00, A: 0xFF},
	{R: 0x22, G: 0xCC, B: 0x33, A: 0xFF},
	{R: 0xEE, G: 0x22, B: 0x22, A: 0xFF},
	{R: 0x33, G: 0x66, B: 0xFF, A: 0xFF},
}

// RunWindow opens the board window: the framebuffer console on top, the LED
// bank underneath. Keystrokes are injected into the serial receive path, so
// the window acts as the board's terminal. Blocks until the window closes.
func RunWindow(newApp func(HAL) func() error) error {
	h := New().(*hostHAL)
	step := newApp(h)

	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle("Ember (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.width*2, (h.fb.height+ledBarHeight)*2)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *hostHAL
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
	step    func() error
}

func (g *hostGame) Update() error {
	g.h.kbd.poll()
	g.drainKeys()
	g.h.t.step(1)
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

// drainKeys converts pending key events to serial bytes. The window is the
// terminal, so everything ends up on the receive path.
func (g *hostGame) drainKeys() {
	for {
		select {
		case ev := <-g.h.kbd.ch:
			if !ev.Press {
				continue
			}
			switch {
			case ev.Rune != 0 && ev.Rune < 0x80:
				g.h.serial.inject(byte(ev.Rune))
			case ev.Code == KeyEnter:
				g.h.serial.inject('\r')
			case ev.Code == KeyBackspace || ev.Code == KeyDelete:
				g.h.serial.inject(0x08)
			case ev.Code == KeyTab:
				g.h.serial.inject('\t')
			case ev.Code == KeyEscape:
				g.h.serial.inject(0x1B)
			}
		default:
			return
		}
	}
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.img == nil {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.buf))
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	fb.snapshot(g.scratch)

	src := g.scratch
	dst := g.img.Pix
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, gg, b := rgb888From565(uint16(src[i]) | uint16(src[i+1])<<8)
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = gg
		dst[j+2] = b
		dst[j+3] = 0xFF
	}

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)

	// LED bank.
	cy := float32(fb.height + ledBarHeight/2)
	for i, l := range g.h.leds {
		cx := float32(fb.width/2 + (i-2)*40 + 20)
		c := ledColors[i]
		if !l.lit() {
			c = color.RGBA{R: c.R / 5, G: c.G / 5, B: c.B / 5, A: 0xFF}
		}
		vector.DrawFilledCircle(screen, cx, cy, 9, c, true)
	}
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height + ledBarHeight
}
