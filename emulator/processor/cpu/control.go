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

func (p *CPU) jmpRel8() {
	diff := signExtend16(p.readOpcodeStream())
	p.IP += diff
}

func (p *CPU) jmpRel8Cond(cond bool) {
	if cond {
		p.jmpRel8()
	} else {
		p.readOpcodeStream()
	}
}

func (p *CPU) condition(cc byte) bool {
	var res bool
	switch cc >> 1 {
	case 0: // JO
		res = p.Get(processor.Overflow)
	case 1: // JB
		res = p.Get(processor.Carry)
	case 2: // JZ
		res = p.Get(processor.Zero)
	case 3: // JBE
		res = p.Get(processor.Carry) || p.Get(processor.Zero)
	case 4: // JS
		res = p.Get(processor.Sign)
	case 5: // JP
		res = p.Get(processor.Parity)
	case 6: // JL
		res = p.Get(processor.Sign) != p.Get(processor.Overflow)
	case 7: // JLE
		res = p.Get(processor.Zero) || p.Get(processor.Sign) != p.Get(processor.Overflow)
	}
	// Odd condition codes are the negated forms.
	if cc&1 != 0 {
		return !res
	}
	return res
}

func (p *CPU) opJcc() {
	p.jmpRel8Cond(p.condition(p.opcode & 0xF))
}

// LOOPNZ, LOOPZ, LOOP and JCXZ
func (p *CPU) opLoop() {
	if p.opcode == 0xE3 {
		p.jmpRel8Cond(p.CX() == 0)
		return
	}

	p.SetCX(p.CX() - 1)
	cond := p.CX() != 0
	switch p.opcode {
	case 0xE0:
		cond = cond && !p.Get(processor.Zero)
	case 0xE1:
		cond = cond && p.Get(processor.Zero)
	}
	p.jmpRel8Cond(cond)
}

func (p *CPU) opCallNear() {
	diff := p.readOpcodeImm16()
	p.Push16(p.IP)
	p.IP += diff
}

func (p *CPU) opJmp() {
	if p.opcode == 0xEB {
		p.jmpRel8()
		return
	}
	diff := p.readOpcodeImm16()
	p.IP += diff
}

// INT3, INT imm8 and INTO
func (p *CPU) opInterrupt() error {
	switch p.opcode {
	case 0xCC:
		return p.softwareInterrupt(3)
	case 0xCD:
		return p.softwareInterrupt(p.readOpcodeStream())
	default:
		if p.Get(processor.Overflow) {
			return p.softwareInterrupt(4)
		}
	}
	return nil
}

// BOUND r16,m16&16 raises #BR with ip at the instruction.
func (p *CPU) opBound() error {
	p.readModRegRM()
	if !p.hasMemoryOperand() {
		return p.invalidOpcode()
	}

	a := p.effectiveAddress()
	idx := int16(p.regLocation().readWord(p))
	lower := int16(memory.ReadWord(p.active, a.Segment(), a.Offset()))
	upper := int16(memory.ReadWord(p.active, a.Segment(), a.Offset()+2))

	if idx < lower || idx > upper {
		p.IP = p.decodeAt
		return p.interrupt(5)
	}
	return nil
}
