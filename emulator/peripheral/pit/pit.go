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

// Package pit emulates channel timing of the Intel 8253 programmable interval
// timer. The counters are clocked by retired instructions, not wall time, so a
// program observes the same timer behaviour on every run.
package pit

import (
	"github.com/andreas-jonsson/i8086-core/emulator/peripheral"
	"github.com/andreas-jonsson/i8086-core/emulator/processor"
)

const (
	modeLatchCount = iota
	modeLowByte
	modeHighByte
	modeToggle
)

// InputFrequency is the PIT input clock in Hz.
const InputFrequency = 1193182

type channel struct {
	enabled, toggle bool
	counter, data   uint16
	latch           uint16
	latched         bool
	mode            byte
}

func (ch *channel) reload() uint32 {
	if ch.data == 0 {
		return 0x10000
	}
	return uint32(ch.data)
}

type Device struct {
	// BasePort defaults to 0x40.
	BasePort uint16
	// ClocksPerStep is how many input clocks one retired instruction is worth.
	// Defaults to 4.
	ClocksPerStep int
	// PIC receives IRQ0 on channel 0 terminal count. When nil it is taken from
	// the processor at install time.
	PIC processor.InterruptController

	channels [3]channel
	ticks    uint64
}

type controllerGetter interface {
	GetInterruptController() processor.InterruptController
}

func (m *Device) Install(h peripheral.Host) error {
	if m.BasePort == 0 {
		m.BasePort = 0x40
	}
	if m.ClocksPerStep <= 0 {
		m.ClocksPerStep = 4
	}
	if m.PIC == nil {
		if g, ok := h.Processor().(controllerGetter); ok {
			m.PIC = g.GetInterruptController()
		}
	}
	return h.InstallIODevice(m, m.BasePort, m.BasePort+3)
}

func (m *Device) Name() string {
	return "Programmable Interval Timer (Intel 8253)"
}

func (m *Device) Reset() {
	m.channels = [3]channel{}
	m.ticks = 0
}

// Step advances every enabled counter by cycles instructions.
func (m *Device) Step(cycles int) error {
	clocks := uint32(cycles * m.ClocksPerStep)
	for i := range m.channels {
		ch := &m.channels[i]
		if !ch.enabled {
			continue
		}

		remaining := uint32(ch.counter)
		if remaining == 0 {
			remaining = 0x10000
		}
		for c := clocks; c > 0; {
			if c < remaining {
				remaining -= c
				break
			}
			c -= remaining
			remaining = ch.reload()
			if i == 0 {
				m.ticks++
				if m.PIC != nil {
					m.PIC.IRQ(0)
				}
			}
		}
		ch.counter = uint16(remaining)
	}
	return nil
}

// Ticks returns the number of channel 0 terminal counts since reset.
func (m *Device) Ticks() uint64 {
	return m.ticks
}

// Frequency returns the output frequency of a channel in Hz, zero if it is not running.
func (m *Device) Frequency(n int) float64 {
	ch := &m.channels[n]
	if !ch.enabled {
		return 0
	}
	return InputFrequency / float64(ch.reload())
}

func (m *Device) In(port uint16) byte {
	port -= m.BasePort
	if port == 3 {
		return 0
	}

	ch := &m.channels[port]
	v := ch.counter
	if ch.latched {
		v = ch.latch
	}

	var ret byte
	switch {
	case ch.mode == modeLowByte, ch.mode != modeHighByte && !ch.toggle:
		ret = byte(v)
	default:
		ret = byte(v >> 8)
	}

	if ch.mode == modeLatchCount || ch.mode == modeToggle {
		if ch.toggle = !ch.toggle; !ch.toggle {
			ch.latched = false
		}
	} else {
		ch.latched = false
	}
	return ret
}

func (m *Device) Out(port uint16, data byte) {
	port -= m.BasePort
	if port == 3 {
		ch := &m.channels[(data>>6)&3]
		if data>>6 == 3 {
			return
		}
		mode := (data >> 4) & 3
		if mode == modeLatchCount {
			ch.latch = ch.counter
			ch.latched = true
			ch.toggle = false
			return
		}
		ch.mode = mode
		ch.toggle = false
		return
	}

	ch := &m.channels[port]
	switch {
	case ch.mode == modeLowByte, ch.mode == modeToggle && !ch.toggle:
		ch.data = (ch.data & 0xFF00) | uint16(data)
	case ch.mode == modeHighByte, ch.mode == modeToggle && ch.toggle:
		ch.data = (ch.data & 0x00FF) | uint16(data)<<8
	}

	if ch.mode == modeToggle {
		if ch.toggle = !ch.toggle; ch.toggle {
			return
		}
	}
	ch.enabled = true
	ch.counter = ch.data
}
