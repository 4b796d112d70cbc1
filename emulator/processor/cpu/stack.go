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

import "github.com/andreas-jonsson/i8086-core/emulator/processor"

func (p *CPU) opPopSeg() {
	seg := (p.opcode >> 3) & 3
	p.SetSeg(seg, p.Pop16())
	if seg == processor.SS {
		p.inhibit = true
	}
}

// PUSH SP stores the decremented value.
func (p *CPU) opPushReg() {
	r := p.opcode & 7
	v := p.Reg16(r)
	if r == processor.SP {
		v -= 2
	}
	p.Push16(v)
}

func (p *CPU) opPushImm() {
	if p.opcode == 0x6A {
		p.Push16(signExtend16(p.readOpcodeStream()))
		return
	}
	p.Push16(p.readOpcodeImm16())
}

func (p *CPU) opPusha() {
	sp := p.SP()
	p.Push16(p.AX())
	p.Push16(p.CX())
	p.Push16(p.DX())
	p.Push16(p.BX())
	p.Push16(sp)
	p.Push16(p.BP())
	p.Push16(p.SI())
	p.Push16(p.DI())
}

func (p *CPU) opPopa() {
	p.SetDI(p.Pop16())
	p.SetSI(p.Pop16())
	p.SetBP(p.Pop16())
	p.Pop16()
	p.SetBX(p.Pop16())
	p.SetDX(p.Pop16())
	p.SetCX(p.Pop16())
	p.SetAX(p.Pop16())
}

// ENTER size,level
func (p *CPU) opEnter() {
	size := p.readOpcodeImm16()
	level := p.readOpcodeStream() & 0x1F

	p.Push16(p.BP())
	frame := p.SP()

	if level > 0 {
		bp := p.BP()
		for i := byte(1); i < level; i++ {
			bp -= 2
			p.Push16(memoryWord(p, processor.SS, bp))
		}
		p.Push16(frame)
	}

	p.SetBP(frame)
	p.SetSP(p.SP() - size)
}

func (p *CPU) opRet() {
	var n uint16
	if p.opcode == 0xC2 {
		n = p.readOpcodeImm16()
	}
	p.IP = p.Pop16()
	p.SetSP(p.SP() + n)
}

func (p *CPU) opRetFar() {
	var n uint16
	if p.opcode == 0xCA {
		n = p.readOpcodeImm16()
	}
	p.IP = p.Pop16()
	p.SetCS(p.Pop16())
	p.SetSP(p.SP() + n)
}
