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
	"github.com/andreas-jonsson/i8086-core/emulator/processor"
	"github.com/andreas-jonsson/i8086-core/emulator/processor/alu"
)

func signExtend16(v byte) uint16 {
	return uint16(int16(int8(v)))
}

func (p *CPU) opArith() {
	op := alu.Op(p.opcode>>3) & 7

	switch p.opcode & 7 {
	case 4: // op AL,d8
		if res, store := alu.Arith8(&p.Flags, op, p.AL(), p.readOpcodeStream()); store {
			p.SetAL(res)
		}
	case 5: // op AX,d16
		if res, store := alu.Arith16(&p.Flags, op, p.AX(), p.readOpcodeImm16()); store {
			p.SetAX(res)
		}
	default: // op r/m,r or r,r/m
		dest, src := p.parseOperands()
		if p.isWide {
			if res, store := alu.Arith16(&p.Flags, op, dest.readWord(p), src.readWord(p)); store {
				dest.writeWord(p, res)
			}
		} else if res, store := alu.Arith8(&p.Flags, op, dest.readByte(p), src.readByte(p)); store {
			dest.writeByte(p, res)
		}
	}
}

func (p *CPU) opAdjust() {
	switch p.opcode {
	case 0x27: // DAA
		p.SetAL(alu.Daa(&p.Flags, p.AL()))
	case 0x2F: // DAS
		p.SetAL(alu.Das(&p.Flags, p.AL()))
	case 0x37: // AAA
		p.SetAX(alu.Aaa(&p.Flags, p.AX()))
	case 0x3F: // AAS
		p.SetAX(alu.Aas(&p.Flags, p.AX()))
	}
}

func (p *CPU) opAsciiAdjust() error {
	base := p.readOpcodeStream()
	if p.opcode == 0xD4 { // AAM
		res, ok := alu.Aam(&p.Flags, p.AL(), base)
		if !ok {
			return p.divideError()
		}
		p.SetAX(res)
		return nil
	}
	p.SetAX(alu.Aad(&p.Flags, p.AX(), base)) // AAD
	return nil
}

func (p *CPU) opIncDecReg() {
	r := p.opcode & 7
	if p.opcode&8 == 0 {
		p.SetReg16(r, alu.Inc16(&p.Flags, p.Reg16(r)))
	} else {
		p.SetReg16(r, alu.Dec16(&p.Flags, p.Reg16(r)))
	}
}

// IMUL r16,r/m16,imm
func (p *CPU) opIMulImm() {
	p.readModRegRM()
	src := p.rmLocation().readWord(p)

	var imm uint16
	if p.opcode == 0x6B {
		imm = signExtend16(p.readOpcodeStream())
	} else {
		imm = p.readOpcodeImm16()
	}
	p.regLocation().writeWord(p, uint16(alu.IMul16(&p.Flags, src, imm)))
}

func (p *CPU) opTest() {
	dest, src := p.parseOperands()
	if p.isWide {
		alu.Test16(&p.Flags, dest.readWord(p), src.readWord(p))
	} else {
		alu.Test8(&p.Flags, dest.readByte(p), src.readByte(p))
	}
}

func (p *CPU) opTestAcc() {
	if p.isWide {
		alu.Test16(&p.Flags, p.AX(), p.readOpcodeImm16())
	} else {
		alu.Test8(&p.Flags, p.AL(), p.readOpcodeStream())
	}
}

func (p *CPU) opConvert() {
	if p.opcode == 0x98 { // CBW
		p.SetAX(alu.Cbw(p.AL()))
	} else { // CWD
		p.SetDX(alu.Cwd(p.AX()))
	}
}

func (p *CPU) opFlag() {
	switch p.opcode {
	case 0xF8: // CLC
		p.Clear(processor.Carry)
	case 0xF9: // STC
		p.Set(processor.Carry)
	case 0xFA: // CLI
		p.Clear(processor.InterruptEnable)
	case 0xFB: // STI
		p.Set(processor.InterruptEnable)
		p.inhibit = true
	case 0xFC: // CLD
		p.Clear(processor.Direction)
	case 0xFD: // STD
		p.Set(processor.Direction)
	}
}

func (p *CPU) opFlagsAH() {
	if p.opcode == 0x9E { // SAHF
		p.Store(p.Load()&0xFF00 | uint16(p.AH()))
	} else { // LAHF
		p.SetAH(byte(p.Load()))
	}
}

// Immediate group: op r/m,imm
func (p *CPU) grp1() {
	p.readModRegRM()
	dest := p.rmLocation()
	op := alu.Op(p.getReg())

	switch p.opcode {
	case 0x81:
		if res, store := alu.Arith16(&p.Flags, op, dest.readWord(p), p.readOpcodeImm16()); store {
			dest.writeWord(p, res)
		}
	case 0x83:
		if res, store := alu.Arith16(&p.Flags, op, dest.readWord(p), signExtend16(p.readOpcodeStream())); store {
			dest.writeWord(p, res)
		}
	default: // 0x80, 0x82
		if res, store := alu.Arith8(&p.Flags, op, dest.readByte(p), p.readOpcodeStream()); store {
			dest.writeByte(p, res)
		}
	}
}

func (p *CPU) grp3() error {
	p.readModRegRM()
	dest := p.rmLocation()

	if p.isWide {
		return p.grp3w(dest)
	}

	v := dest.readByte(p)
	switch p.getReg() {
	case 0, 1: // TEST
		alu.Test8(&p.Flags, v, p.readOpcodeStream())
	case 2: // NOT
		dest.writeByte(p, alu.Not8(&p.Flags, v))
	case 3: // NEG
		dest.writeByte(p, alu.Neg8(&p.Flags, v))
	case 4: // MUL
		p.SetAX(alu.Mul8(&p.Flags, p.AL(), v))
	case 5: // IMUL
		p.SetAX(alu.IMul8(&p.Flags, p.AL(), v))
	case 6: // DIV
		res, ok := alu.Div8(p.AX(), v)
		if !ok {
			return p.divideError()
		}
		p.SetAX(res)
	case 7: // IDIV
		res, ok := alu.IDiv8(p.AX(), v)
		if !ok {
			return p.divideError()
		}
		p.SetAX(res)
	}
	return nil
}

func (p *CPU) grp3w(dest dataLocation) error {
	v := dest.readWord(p)
	dxax := uint32(p.DX())<<16 | uint32(p.AX())

	var res uint32
	switch p.getReg() {
	case 0, 1: // TEST
		alu.Test16(&p.Flags, v, p.readOpcodeImm16())
		return nil
	case 2: // NOT
		dest.writeWord(p, alu.Not16(&p.Flags, v))
		return nil
	case 3: // NEG
		dest.writeWord(p, alu.Neg16(&p.Flags, v))
		return nil
	case 4: // MUL
		res = alu.Mul16(&p.Flags, p.AX(), v)
	case 5: // IMUL
		res = alu.IMul16(&p.Flags, p.AX(), v)
	case 6: // DIV
		var ok bool
		if res, ok = alu.Div16(dxax, v); !ok {
			return p.divideError()
		}
	case 7: // IDIV
		var ok bool
		if res, ok = alu.IDiv16(dxax, v); !ok {
			return p.divideError()
		}
	}
	p.SetAX(uint16(res))
	p.SetDX(uint16(res >> 16))
	return nil
}

// INC/DEC r/m8
func (p *CPU) grp4() error {
	p.readModRegRM()
	op := p.getReg()
	if op > 1 {
		return p.invalidOpcode()
	}

	dest := p.rmLocation()
	if op == 0 {
		dest.writeByte(p, alu.Inc8(&p.Flags, dest.readByte(p)))
	} else {
		dest.writeByte(p, alu.Dec8(&p.Flags, dest.readByte(p)))
	}
	return nil
}

func (p *CPU) grp5() error {
	p.readModRegRM()
	op := p.getReg()
	switch {
	case op == 7:
		return p.invalidOpcode()
	case (op == 3 || op == 5) && !p.hasMemoryOperand():
		return p.invalidOpcode()
	}

	dest := p.rmLocation()
	switch op {
	case 0: // INC
		dest.writeWord(p, alu.Inc16(&p.Flags, dest.readWord(p)))
	case 1: // DEC
		dest.writeWord(p, alu.Dec16(&p.Flags, dest.readWord(p)))
	case 2: // CALL r/m16
		v := dest.readWord(p)
		p.Push16(p.IP)
		p.IP = v
	case 3: // CALL m16:16
		ip, cs := dest.readFar(p)
		p.Push16(p.CS())
		p.Push16(p.IP)
		p.SetCS(cs)
		p.IP = ip
	case 4: // JMP r/m16
		p.IP = dest.readWord(p)
	case 5: // JMP m16:16
		ip, cs := dest.readFar(p)
		p.SetCS(cs)
		p.IP = ip
	case 6: // PUSH r/m16
		v := dest.readWord(p)
		if dest == registerLocation|processor.SP {
			v -= 2
		}
		p.Push16(v)
	}
	return nil
}
