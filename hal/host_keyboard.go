//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type hostKeyboard struct {
	ch chan KeyEvent
}

func newHostKeyboard() *hostKeyboard {
	return &hostKeyboard{ch: make(chan KeyEvent, 64)}
}

func (k *hostKeyboard) Events() <-chan KeyEvent { return k.ch }

func (k *hostKeyboard) poll() {
	emit := func(ev KeyEvent) {
		select {
		case k.ch <- ev:
		default:
		}
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	if ctrl {
		// Common control characters for a serial terminal.
		for _, c := range []struct {
			key ebiten.Key
			r   rune
		}{
			{ebiten.KeyC, 0x03},
			{ebiten.KeyD, 0x04},
			{ebiten.KeyU, 0x15},
		} {
			if inpututil.IsKeyJustPressed(c.key) {
				emit(KeyEvent{Press: true, Rune: c.r})
			}
		}
		return
	}

	for _, r := range ebiten.AppendInputChars(nil) {
		emit(KeyEvent{Press: true, Rune: r})
	}

	for _, c := range []struct {
		key  ebiten.Key
		code KeyCode
	}{
		{ebiten.KeyEnter, KeyEnter},
		{ebiten.KeyBackspace, KeyBackspace},
		{ebiten.KeyTab, KeyTab},
		{ebiten.KeyEscape, KeyEscape},
		{ebiten.KeyDelete, KeyDelete},
		{ebiten.KeyArrowUp, KeyUp},
		{ebiten.KeyArrowDown, KeyDown},
		{ebiten.KeyArrowLeft, KeyLeft},
		{ebiten.KeyArrowRight, KeyRight},
	} {
		if inpututil.IsKeyJustPressed(c.key) {
			emit(KeyEvent{Code: c.code, Press: true})
		}
		if inpututil.IsKeyJustReleased(c.key) {
			emit(KeyEvent{Code: c.code, Press: false})
		}
	}
}
