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

func memoryWord(p *CPU, seg byte, offset uint16) uint16 {
	return memory.ReadWord(p.active, p.Seg(seg), offset)
}

func (p *CPU) opXchg() {
	p.readModRegRM()
	reg, rm := p.regLocation(), p.rmLocation()
	if p.isWide {
		a, b := reg.readWord(p), rm.readWord(p)
		reg.writeWord(p, b)
		rm.writeWord(p, a)
		return
	}
	a, b := reg.readByte(p), rm.readByte(p)
	reg.writeByte(p, b)
	rm.writeByte(p, a)
}

// MOV r/m16,sreg and MOV sreg,r/m16
func (p *CPU) opMovSeg() error {
	p.readModRegRM()
	if p.getReg() > 3 {
		return p.invalidOpcode()
	}

	seg, rm := p.segLocation(), p.rmLocation()
	if p.opcode == 0x8C {
		rm.writeWord(p, seg.readWord(p))
		return nil
	}

	seg.writeWord(p, rm.readWord(p))
	if p.getReg() == processor.SS {
		p.inhibit = true
	}
	return nil
}

func (p *CPU) opLea() error {
	p.readModRegRM()
	if !p.hasMemoryOperand() {
		return p.invalidOpcode()
	}
	p.regLocation().writeWord(p, p.effectiveAddress().Offset())
	return nil
}

// LES/LDS r16,m16:16
func (p *CPU) opLoadFar() error {
	p.readModRegRM()
	if !p.hasMemoryOperand() {
		return p.invalidOpcode()
	}

	off, seg := p.rmLocation().readFar(p)
	p.regLocation().writeWord(p, off)
	if p.opcode == 0xC4 {
		p.SetES(seg)
	} else {
		p.SetDS(seg)
	}
	return nil
}

func (p *CPU) opMovAccMem() {
	loc := dataLocation(memory.NewAddress(p.getSeg(processor.DS), p.readOpcodeImm16()))
	switch p.opcode {
	case 0xA0: // MOV AL,[a16]
		p.SetAL(loc.readByte(p))
	case 0xA1: // MOV AX,[a16]
		p.SetAX(loc.readWord(p))
	case 0xA2: // MOV [a16],AL
		loc.writeByte(p, p.AL())
	case 0xA3: // MOV [a16],AX
		loc.writeWord(p, p.AX())
	}
}

func (p *CPU) opMovRegImm() {
	r := p.opcode & 7
	if p.opcode < 0xB8 {
		p.SetReg8(r, p.readOpcodeStream())
		return
	}
	p.SetReg16(r, p.readOpcodeImm16())
}

func (p *CPU) opMovRMImm() {
	p.readModRegRM()
	dest := p.rmLocation()
	if p.isWide {
		dest.writeWord(p, p.readOpcodeImm16())
	} else {
		dest.writeByte(p, p.readOpcodeStream())
	}
}
