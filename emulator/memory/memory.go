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
	"fmt"

	"github.com/sirupsen/logrus"
)

// AddressSpace is the size of the physical address space (20 address lines).
const AddressSpace = 0x100000

// Address is a far pointer packed as (segment << 16) | offset.
type Address uint32

func NewAddress(seg, offset uint16) Address {
	return (Address(seg) << 16) | Address(offset)
}

func (a Address) String() string {
	return fmt.Sprintf("%04X:%04X", a.Segment(), a.Offset())
}

func (a Address) Segment() uint16 {
	return uint16(a >> 16)
}

func (a Address) Offset() uint16 {
	return uint16(a & 0xFFFF)
}

func (a Address) Pointer() Pointer {
	return NewPointer(a.Segment(), a.Offset())
}

// AddInt moves the offset part and wraps inside the segment.
func (a Address) AddInt(i int) Address {
	return (a & 0xFFFF0000) | Address(a.Offset()+uint16(i))
}

// Pointer is a physical address.
type Pointer uint32

func NewPointer(seg, offset uint16) Pointer {
	return (Pointer(seg)*0x10 + Pointer(offset)) & (AddressSpace - 1)
}

func (p Pointer) String() string {
	return fmt.Sprintf("0x%05X", uint32(p))
}

type Memory interface {
	ReadByte(addr Pointer) byte
	WriteByte(addr Pointer, data byte)
}

type IO interface {
	In(port uint16) byte
	Out(port uint16, data byte)
}

type DummyIO struct{}

func (m *DummyIO) In(port uint16) byte {
	logrus.WithField("port", fmt.Sprintf("0x%X", port)).Debug("reading unmapped IO port")
	return 0xFF
}

func (m *DummyIO) Out(port uint16, data byte) {
	logrus.WithFields(logrus.Fields{
		"port": fmt.Sprintf("0x%X", port),
		"data": fmt.Sprintf("0x%X", data),
	}).Debug("writing unmapped IO port")
}

type DummyMemory struct{}

func (m *DummyMemory) ReadByte(addr Pointer) byte {
	logrus.WithField("addr", addr).Debug("reading unmapped memory")
	return 0xFF
}

func (m *DummyMemory) WriteByte(addr Pointer, data byte) {
	logrus.WithField("addr", addr).Debug("writing unmapped memory")
}
