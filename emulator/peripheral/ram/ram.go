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

package ram

import (
	"crypto/rand"

	"github.com/andreas-jonsson/i8086-core/emulator/memory"
	"github.com/andreas-jonsson/i8086-core/emulator/peripheral"
)

type Device struct {
	// Clear leaves memory zeroed instead of scrambled.
	Clear bool

	// Size of the mapped range starting at physical address zero.
	// Zero maps the whole address space.
	Size memory.Pointer

	mem memory.RAM
}

func (m *Device) Install(h peripheral.Host) error {
	if !m.Clear {
		rand.Read(m.mem[:]) // Scramble memory.
	}
	if m.Size == 0 || m.Size > memory.AddressSpace {
		m.Size = memory.AddressSpace
	}
	return h.InstallMemoryDevice(m, 0x0, m.Size-1)
}

func (m *Device) Name() string {
	return "RAM"
}

func (m *Device) Reset() {
}

func (m *Device) Step(int) error {
	return nil
}

func (m *Device) ReadByte(addr memory.Pointer) byte {
	return m.mem.ReadByte(addr)
}

func (m *Device) WriteByte(addr memory.Pointer, data byte) {
	m.mem.WriteByte(addr, data)
}
