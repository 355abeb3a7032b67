package hal

// rgb565 packs 8-bit channels into the framebuffer's 16bpp layout.
func rgb565(r, g, b uint8) uint16 {
	return uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
}

// rgb888From565 expands a framebuffer pixel back to 8-bit channels,
// rescaled so full-scale 565 maps to full-scale 888.
func rgb888From565(p uint16) (r, g, b uint8) {
	r = uint8((p >> 11 & 0x1F) * 255 / 31)
	g = uint8((p >> 5 & 0x3F) * 255 / 63)
	b = uint8((p & 0x1F) * 255 / 31)
	return r, g, b
}
