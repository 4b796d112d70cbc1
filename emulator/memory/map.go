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

package memory

import (
	"errors"
	"fmt"
)

const MaxDevices = 32

var ErrDeviceNotFound = errors.New("could not find memory device")

// RAM is a flat store covering the whole address space.
type RAM [AddressSpace]byte

func (m *RAM) ReadByte(addr Pointer) byte {
	return m[addr&(AddressSpace-1)]
}

func (m *RAM) WriteByte(addr Pointer, data byte) {
	m[addr&(AddressSpace-1)] = data
}

// Map routes every physical byte to one of up to MaxDevices devices.
// Index zero is reserved for unmapped space.
type Map struct {
	mmap    [AddressSpace]byte
	devices [MaxDevices]Memory
	num     int
}

func NewMap() *Map {
	m := &Map{num: 1}
	dummy := &DummyMemory{}
	for i := range m.devices {
		m.devices[i] = dummy
	}
	return m
}

// Register makes a device available for InstallMemoryDevice.
func (m *Map) Register(device Memory) error {
	for _, d := range m.devices[1:m.num] {
		if d == device {
			return nil
		}
	}
	if m.num >= MaxDevices {
		return fmt.Errorf("too many memory devices (max %d)", MaxDevices-1)
	}
	m.devices[m.num] = device
	m.num++
	return nil
}

func (m *Map) InstallMemoryDevice(device Memory, from, to Pointer) error {
	if from > to || to >= AddressSpace {
		return fmt.Errorf("invalid memory range %v-%v", from, to)
	}
	if err := m.Register(device); err != nil {
		return err
	}
	for i, d := range m.devices[:m.num] {
		if i > 0 && d == device {
			for a := from; a <= to; a++ {
				m.mmap[a] = byte(i)
			}
			return nil
		}
	}
	return ErrDeviceNotFound
}

func (m *Map) GetMappedMemoryDevice(addr Pointer) Memory {
	return m.devices[m.mmap[addr&(AddressSpace-1)]]
}

func (m *Map) IsMapped(addr Pointer) bool {
	return m.mmap[addr&(AddressSpace-1)] != 0
}

func (m *Map) ReadByte(addr Pointer) byte {
	addr &= AddressSpace - 1
	return m.devices[m.mmap[addr]].ReadByte(addr)
}

func (m *Map) WriteByte(addr Pointer, data byte) {
	addr &= AddressSpace - 1
	m.devices[m.mmap[addr]].WriteByte(addr, data)
}
