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

// Package pic emulates the Intel 8259 programmable interrupt controller in
// single (non-cascaded) mode.
package pic

import (
	"errors"

	"github.com/andreas-jonsson/i8086-core/emulator/peripheral"
)

var ErrNoInterrupts = errors.New("no interrupts")

const (
	icw1Init   = 0x10
	icw1ICW4   = 0x01
	icw1Single = 0x02
	icw4AEOI   = 0x02

	ocw2EOI      = 0x20
	ocw2Specific = 0x40
	ocw3Select   = 0x08
	ocw3ReadReg  = 0x02
	ocw3ReadISR  = 0x01
)

type Device struct {
	BasePort uint16

	maskReg, requestReg, serviceReg byte
	vectorOffset                    byte
	icwStep                         int
	needICW4, single, autoEOI       bool
	readISR                         bool
}

func (m *Device) Install(h peripheral.Host) error {
	if m.BasePort == 0 {
		m.BasePort = 0x20
	}
	return h.InstallIODevice(m, m.BasePort, m.BasePort+1)
}

func (m *Device) Name() string {
	return "Programmable Interrupt Controller (Intel 8259)"
}

func (m *Device) Reset() {
	*m = Device{BasePort: m.BasePort}
}

func (m *Device) Step(int) error {
	return nil
}

// GetInterrupt acknowledges the highest priority pending request and returns its vector.
func (m *Device) GetInterrupt() (int, error) {
	pending := m.requestReg &^ m.maskReg
	if pending == 0 {
		return 0, ErrNoInterrupts
	}
	for i := 0; i < 8; i++ {
		bit := byte(1 << i)
		if m.serviceReg&bit != 0 {
			// A request of equal or lower priority is already in service.
			return 0, ErrNoInterrupts
		}
		if pending&bit != 0 {
			m.requestReg &^= bit
			if !m.autoEOI {
				m.serviceReg |= bit
			}
			return int(m.vectorOffset) + i, nil
		}
	}
	return 0, ErrNoInterrupts
}

func (m *Device) IRQ(n int) {
	m.requestReg |= byte(1 << (n & 7))
}

func (m *Device) In(port uint16) byte {
	if port == m.BasePort {
		if m.readISR {
			return m.serviceReg
		}
		return m.requestReg
	}
	return m.maskReg
}

func (m *Device) Out(port uint16, data byte) {
	if port == m.BasePort {
		m.command(data)
		return
	}

	switch m.icwStep {
	case 2: // ICW2
		m.vectorOffset = data & 0xF8
		switch {
		case !m.single:
			m.icwStep = 3
		case m.needICW4:
			m.icwStep = 4
		default:
			m.icwStep = 0
		}
	case 3: // ICW3 has no meaning without a slave controller.
		if m.needICW4 {
			m.icwStep = 4
		} else {
			m.icwStep = 0
		}
	case 4: // ICW4
		m.autoEOI = data&icw4AEOI != 0
		m.icwStep = 0
	default: // OCW1
		m.maskReg = data
	}
}

func (m *Device) command(data byte) {
	switch {
	case data&icw1Init != 0: // ICW1
		m.maskReg, m.serviceReg, m.requestReg = 0, 0, 0
		m.needICW4 = data&icw1ICW4 != 0
		m.single = data&icw1Single != 0
		m.icwStep = 2
	case data&ocw3Select != 0: // OCW3
		if data&ocw3ReadReg != 0 {
			m.readISR = data&ocw3ReadISR != 0
		}
	case data&ocw2EOI != 0: // OCW2
		if data&ocw2Specific != 0 {
			m.serviceReg &^= 1 << (data & 7)
			return
		}
		for i := 0; i < 8; i++ {
			if bit := byte(1 << i); m.serviceReg&bit != 0 {
				m.serviceReg &^= bit
				return
			}
		}
	}
}
