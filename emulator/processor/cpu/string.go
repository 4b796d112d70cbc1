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
	"github.com/andreas-jonsson/i8086-core/emulator/processor/alu"
)

func (p *CPU) stringDelta() uint16 {
	var n uint16 = 1
	if p.isWide {
		n = 2
	}
	if p.Get(processor.Direction) {
		return -n
	}
	return n
}

func (p *CPU) updateDI() {
	p.SetDI(p.DI() + p.stringDelta())
}

func (p *CPU) updateSI() {
	p.SetSI(p.SI() + p.stringDelta())
}

func (p *CPU) updateDISI() {
	p.updateDI()
	p.updateSI()
}

// Source is DS:SI (segment overridable), destination is always ES:DI.
func (p *CPU) srcLocation() dataLocation {
	return dataLocation(memory.NewAddress(p.getSeg(processor.DS), p.SI()))
}

func (p *CPU) dstLocation() dataLocation {
	return dataLocation(memory.NewAddress(p.ES(), p.DI()))
}

// opString executes one element of a string instruction.
func (p *CPU) opString() {
	src, dst := p.srcLocation(), p.dstLocation()

	switch p.opcode {
	case 0x6C: // INSB
		dst.writeByte(p, p.gateway.ReadPort(p.DX()))
		p.updateDI()
	case 0x6D: // INSW
		dst.writeWord(p, p.readPort16(p.DX()))
		p.updateDI()
	case 0x6E: // OUTSB
		p.gateway.WritePort(p.DX(), src.readByte(p))
		p.updateSI()
	case 0x6F: // OUTSW
		p.writePort16(p.DX(), src.readWord(p))
		p.updateSI()
	case 0xA4: // MOVSB
		dst.writeByte(p, src.readByte(p))
		p.updateDISI()
	case 0xA5: // MOVSW
		dst.writeWord(p, src.readWord(p))
		p.updateDISI()
	case 0xA6: // CMPSB
		alu.Sub8(&p.Flags, src.readByte(p), dst.readByte(p))
		p.updateDISI()
	case 0xA7: // CMPSW
		alu.Sub16(&p.Flags, src.readWord(p), dst.readWord(p))
		p.updateDISI()
	case 0xAA: // STOSB
		dst.writeByte(p, p.AL())
		p.updateDI()
	case 0xAB: // STOSW
		dst.writeWord(p, p.AX())
		p.updateDI()
	case 0xAC: // LODSB
		p.SetAL(src.readByte(p))
		p.updateSI()
	case 0xAD: // LODSW
		p.SetAX(src.readWord(p))
		p.updateSI()
	case 0xAE: // SCASB
		alu.Sub8(&p.Flags, p.AL(), dst.readByte(p))
		p.updateDI()
	case 0xAF: // SCASW
		alu.Sub16(&p.Flags, p.AX(), dst.readWord(p))
		p.updateDI()
	}
}
