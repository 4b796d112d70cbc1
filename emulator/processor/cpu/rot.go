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

import "github.com/andreas-jonsson/i8086-core/emulator/processor/alu"

// Shift group: C0/C1 count imm8, D0/D1 count 1, D2/D3 count CL.
// The count is masked to five bits by the ALU.
func (p *CPU) opShift() error {
	p.readModRegRM()
	op := alu.Shift(p.getReg())
	if op == alu.ShiftSal {
		return p.invalidOpcode()
	}

	dest := p.rmLocation()

	var count byte
	switch p.opcode {
	case 0xC0, 0xC1:
		count = p.readOpcodeStream()
	case 0xD0, 0xD1:
		count = 1
	default:
		count = p.CL()
	}

	if p.isWide {
		dest.writeWord(p, alu.Shift16(&p.Flags, op, dest.readWord(p), count))
	} else {
		dest.writeByte(p, alu.Shift8(&p.Flags, op, dest.readByte(p), count))
	}
	return nil
}
