package term

import (
	"image/color"

	"tinygo.org/x/drivers"

	"ember/hal"
)

// fbDisplay adapts a hal.Framebuffer to the tinyterm Displayer contract.
// Only RGB565 framebuffers are supported. Drawing happens in a memory-space
// buffer; SetScroll names the memory row shown at the top of the panel, the
// way a controller's vertical scroll start address does, and Display
// composes the viewport into the framebuffer.
type fbDisplay struct {
	fb     hal.Framebuffer
	mem    []byte
	width  int
	height int
	stride int
	scroll int
}

func newFBDisplay(fb hal.Framebuffer) *fbDisplay {
	if fb == nil || fb.Format() != hal.PixelFormatRGB565 || fb.Buffer() == nil {
		return nil
	}
	return &fbDisplay{
		fb:     fb,
		mem:    make([]byte, len(fb.Buffer())),
		width:  fb.Width(),
		height: fb.Height(),
		stride: fb.StrideBytes(),
	}
}

func (d *fbDisplay) Size() (x, y int16) {
	return int16(d.width), int16(d.height)
}

func (d *fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= d.width || iy < 0 || iy >= d.height {
		return
	}
	p := rgb565(c)
	off := iy*d.stride + ix*2
	d.mem[off] = byte(p)
	d.mem[off+1] = byte(p >> 8)
}

// Display presents the memory buffer through the viewport: the scroll row
// lands at the top, earlier rows wrap to the bottom.
func (d *fbDisplay) Display() error {
	buf := d.fb.Buffer()
	if d.scroll == 0 {
		copy(buf, d.mem)
	} else {
		split := d.scroll * d.stride
		n := copy(buf, d.mem[split:])
		copy(buf[n:], d.mem[:split])
	}
	return d.fb.Present()
}

func (d *fbDisplay) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	x0, y0 := clamp(int(x), d.width), clamp(int(y), d.height)
	x1, y1 := clamp(int(x)+int(width), d.width), clamp(int(y)+int(height), d.height)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}
	p := rgb565(c)
	lo, hi := byte(p), byte(p>>8)
	for py := y0; py < y1; py++ {
		row := py * d.stride
		for px := x0; px < x1; px++ {
			d.mem[row+px*2] = lo
			d.mem[row+px*2+1] = hi
		}
	}
	return nil
}

// SetScroll sets the memory row displayed at the top of the panel.
func (d *fbDisplay) SetScroll(line int16) {
	n := int(line) % d.height
	if n < 0 {
		n += d.height
	}
	d.scroll = n
}

func (d *fbDisplay) SetRotation(rotation drivers.Rotation) error { return nil }

func rgb565(c color.RGBA) uint16 {
	return uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
}

func clamp(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}
