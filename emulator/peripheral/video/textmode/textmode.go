/*
Copyright (c) 2019-2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

// Package textmode renders the 80x25 colour text page of a CGA compatible
// adapter to a terminal.
package textmode

import (
	"sync"
	"time"

	"github.com/gdamore/tcell"
	"github.com/sirupsen/logrus"

	"github.com/andreas-jonsson/i8086-core/emulator/memory"
	"github.com/andreas-jonsson/i8086-core/emulator/peripheral"
)

const (
	MemoryBase = 0xB8000
	memorySize = 0x4000

	Columns = 80
	Rows    = 25
)

var cgaPalette = [16]tcell.Color{
	tcell.ColorBlack,
	tcell.ColorNavy,
	tcell.ColorGreen,
	tcell.ColorTeal,
	tcell.ColorMaroon,
	tcell.ColorPurple,
	tcell.ColorOlive,
	tcell.ColorSilver,
	tcell.ColorGray,
	tcell.ColorBlue,
	tcell.ColorLime,
	tcell.ColorAqua,
	tcell.ColorRed,
	tcell.ColorFuchsia,
	tcell.ColorYellow,
	tcell.ColorWhite,
}

type (
	redrawEvent struct{}
	quitEvent   struct{}
)

type Device struct {
	// Screen is created from the terminal on install when nil.
	Screen tcell.Screen

	// OnQuit is called from the event loop when the user presses F12.
	OnQuit func()

	lock     sync.RWMutex
	quitChan chan struct{}

	dirty bool
	mem   [memorySize]byte

	crtAddr   byte
	crtReg    [0x100]byte
	modeReg   byte
	statusReg byte

	cursorPos     uint16
	cursorVisible bool
}

func (m *Device) Install(h peripheral.Host) error {
	m.Reset()
	if err := h.InstallMemoryDevice(m, MemoryBase, MemoryBase+memorySize-1); err != nil {
		return err
	}
	if err := h.InstallIODevice(m, 0x3D0, 0x3DF); err != nil {
		return err
	}
	return m.startRenderLoop()
}

func (m *Device) Name() string {
	return "CGA Text Mode Display"
}

func (m *Device) Reset() {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.modeReg = 1
	m.cursorPos = 0
	m.cursorVisible = true
	m.dirty = true
}

func (m *Device) Step(int) error {
	return nil
}

// Close stops the event loop and restores the terminal.
func (m *Device) Close() error {
	if m.quitChan == nil {
		return nil
	}
	if err := m.Screen.PostEvent(tcell.NewEventInterrupt(quitEvent{})); err != nil {
		return err
	}
	<-m.quitChan
	return nil
}

func style(attr byte, blink bool) tcell.Style {
	return tcell.StyleDefault.
		Blink(blink && attr&0x80 != 0).
		Background(cgaPalette[attr&0x70>>4]).
		Foreground(cgaPalette[attr&0xF])
}

// Render draws the text page and cursor to the screen.
func (m *Device) Render() {
	m.lock.Lock()
	blink := m.modeReg&0x20 != 0
	for y := 0; y < Rows; y++ {
		for x := 0; x < Columns; x++ {
			offset := (y*Columns + x) * 2
			m.Screen.SetContent(x, y, codePage437[m.mem[offset]], nil, style(m.mem[offset+1], blink))
		}
	}
	if m.cursorVisible {
		m.Screen.ShowCursor(int(m.cursorPos%Columns), int(m.cursorPos/Columns))
	} else {
		m.Screen.HideCursor()
	}
	m.dirty = false
	m.lock.Unlock()

	m.Screen.Show()
}

func (m *Device) startRenderLoop() error {
	if m.Screen == nil {
		tcell.SetEncodingFallback(tcell.EncodingFallbackASCII)
		s, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		m.Screen = s
	}
	s := m.Screen
	if err := s.Init(); err != nil {
		return err
	}
	s.DisableMouse()
	s.Clear()

	m.quitChan = make(chan struct{})
	redrawTicker := time.NewTicker(time.Second / 30)

	go func() {
		for {
			switch ev := s.PollEvent().(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyF12 && m.OnQuit != nil {
					go m.OnQuit()
				}
			case *tcell.EventResize:
				s.Sync()
				m.lock.Lock()
				m.dirty = true
				m.lock.Unlock()
			case *tcell.EventInterrupt:
				switch ev.Data().(type) {
				case quitEvent:
					redrawTicker.Stop()
					s.Fini()
					close(m.quitChan)
					return
				case redrawEvent:
					m.Render()
				}
			case nil:
				logrus.Debug("text mode screen finalized")
				return
			}
		}
	}()

	go func() {
		for range redrawTicker.C {
			m.lock.RLock()
			dirty := m.dirty
			m.lock.RUnlock()
			if dirty {
				s.PostEvent(tcell.NewEventInterrupt(redrawEvent{}))
			}
		}
	}()
	return nil
}

func (m *Device) In(port uint16) byte {
	m.lock.Lock()
	defer m.lock.Unlock()

	switch port {
	case 0x3D1, 0x3D3, 0x3D5, 0x3D7:
		return m.crtReg[m.crtAddr]
	case 0x3D8:
		return m.modeReg
	case 0x3DA:
		// Alternate retrace and display so polling loops make progress.
		m.statusReg ^= 0x9
		return m.statusReg
	}
	return 0xFF
}

func (m *Device) Out(port uint16, data byte) {
	m.lock.Lock()
	defer m.lock.Unlock()

	switch port {
	case 0x3D0, 0x3D2, 0x3D4, 0x3D6:
		m.crtAddr = data
	case 0x3D1, 0x3D3, 0x3D5, 0x3D7:
		m.crtReg[m.crtAddr] = data
		switch m.crtAddr {
		case 0xA:
			m.cursorVisible = data&0x20 == 0
		case 0xE:
			m.cursorPos = (m.cursorPos & 0x00FF) | uint16(data)<<8
		case 0xF:
			m.cursorPos = (m.cursorPos & 0xFF00) | uint16(data)
		}
		m.dirty = true
	case 0x3D8:
		m.modeReg = data
		m.dirty = true
	}
}

func (m *Device) ReadByte(addr memory.Pointer) byte {
	m.lock.RLock()
	v := m.mem[(addr-MemoryBase)&(memorySize-1)]
	m.lock.RUnlock()
	return v
}

func (m *Device) WriteByte(addr memory.Pointer, data byte) {
	m.lock.Lock()
	m.dirty = true
	m.mem[(addr-MemoryBase)&(memorySize-1)] = data
	m.lock.Unlock()
}
