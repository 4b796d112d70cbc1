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

package cpu

import (
	"github.com/andreas-jonsson/i8086-core/emulator/memory"
	"github.com/andreas-jonsson/i8086-core/emulator/processor"
)

const (
	registerLocation = 1 << 63
	segmentLocation  = 1 << 62
)

// dataLocation is an operand reference. Register and segment operands carry their
// index in the low bits, memory operands carry a far pointer.
type dataLocation uint64

func (addr dataLocation) isMemory() bool {
	return addr&(registerLocation|segmentLocation) == 0
}

func (addr dataLocation) getAddress() memory.Address {
	return memory.Address(addr & 0xFFFFFFFF)
}

func (addr dataLocation) readByte(p *CPU) byte {
	if addr&registerLocation != 0 {
		return p.Reg8(byte(addr & 7))
	}
	a := addr.getAddress()
	return p.active.ReadByte(a.Segment(), a.Offset())
}

func (addr dataLocation) writeByte(p *CPU, data byte) {
	if addr&registerLocation != 0 {
		p.SetReg8(byte(addr&7), data)
		return
	}
	a := addr.getAddress()
	p.active.WriteByte(a.Segment(), a.Offset(), data)
}

func (addr dataLocation) readWord(p *CPU) uint16 {
	switch {
	case addr&registerLocation != 0:
		return p.Reg16(byte(addr & 7))
	case addr&segmentLocation != 0:
		return p.Seg(byte(addr & 3))
	}
	a := addr.getAddress()
	return memory.ReadWord(p.active, a.Segment(), a.Offset())
}

func (addr dataLocation) writeWord(p *CPU, data uint16) {
	switch {
	case addr&registerLocation != 0:
		p.SetReg16(byte(addr&7), data)
		return
	case addr&segmentLocation != 0:
		p.SetSeg(byte(addr&3), data)
		return
	}
	a := addr.getAddress()
	memory.WriteWord(p.active, a.Segment(), a.Offset(), data)
}

// readFar reads the offset and segment words of a far pointer operand.
func (addr dataLocation) readFar(p *CPU) (uint16, uint16) {
	a := addr.getAddress()
	return memory.ReadWord(p.active, a.Segment(), a.Offset()),
		memory.ReadWord(p.active, a.Segment(), a.Offset()+2)
}

const noIndex = -1

// Base and index registers with the implied segment for each r/m value.
var effectiveAddressLookup = [8]struct {
	base, index int
	seg         byte
}{
	{processor.BX, processor.SI, processor.DS}, // [BX+SI]
	{processor.BX, processor.DI, processor.DS}, // [BX+DI]
	{processor.BP, processor.SI, processor.SS}, // [BP+SI]
	{processor.BP, processor.DI, processor.SS}, // [BP+DI]
	{processor.SI, noIndex, processor.DS},      // [SI]
	{processor.DI, noIndex, processor.DS},      // [DI]
	{processor.BP, noIndex, processor.SS},      // [BP], [a16] when mod is 0
	{processor.BX, noIndex, processor.DS},      // [BX]
}

// effectiveAddress consumes the displacement bytes of the current ModRM byte
// and returns the segment:offset it selects.
func (p *CPU) effectiveAddress() memory.Address {
	mod, rm := p.modRegRM>>6, p.modRegRM&7
	if mod == 0 && rm == 6 {
		return memory.NewAddress(p.getSeg(processor.DS), p.readOpcodeImm16())
	}

	ea := effectiveAddressLookup[rm]
	offset := p.Reg16(byte(ea.base))
	if ea.index != noIndex {
		offset += p.Reg16(byte(ea.index))
	}

	switch mod {
	case 1:
		offset += uint16(int8(p.readOpcodeStream()))
	case 2:
		offset += p.readOpcodeImm16()
	}
	return memory.NewAddress(p.getSeg(ea.seg), offset)
}
