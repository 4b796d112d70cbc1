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
	"errors"
	"fmt"

	"github.com/andreas-jonsson/i8086-core/emulator/memory"
	"github.com/andreas-jonsson/i8086-core/emulator/processor"
)

const noOverride = -1

type instructionState struct {
	opcode, modRegRM,
	repeatMode byte

	isWide, rmToReg bool
	decodeAt        uint16
	segOverride     int
}

func (p *CPU) getReg() byte {
	return (p.modRegRM >> 3) & 7
}

func (p *CPU) hasMemoryOperand() bool {
	return p.modRegRM < 0xC0
}

func (p *CPU) regLocation() dataLocation {
	return dataLocation(p.getReg()) | registerLocation
}

func (p *CPU) segLocation() dataLocation {
	return dataLocation(p.getReg()&3) | segmentLocation
}

func (p *CPU) rmLocation() dataLocation {
	if !p.hasMemoryOperand() {
		return dataLocation(p.modRegRM&7) | registerLocation
	}
	return dataLocation(p.effectiveAddress())
}

func (p *CPU) readOpcodeStream() byte {
	v := p.active.ReadByte(p.CS(), p.IP)
	p.IP++
	return v
}

func (p *CPU) readOpcodeImm16() uint16 {
	v := memory.ReadWord(p.active, p.CS(), p.IP)
	p.IP += 2
	return v
}

func (p *CPU) readModRegRM() {
	p.modRegRM = p.readOpcodeStream()
}

func (p *CPU) parseOperands() (dataLocation, dataLocation) {
	p.readModRegRM()
	reg, rm := p.regLocation(), p.rmLocation()
	if p.rmToReg {
		return reg, rm
	}
	return rm, reg
}

func (p *CPU) getSeg(seg byte) uint16 {
	if p.segOverride != noOverride {
		return p.Seg(byte(p.segOverride))
	}
	return p.Seg(seg)
}

// maxPrefixes bounds the prefix bytes accepted before an opcode.
const maxPrefixes = 14

func (p *CPU) parseOpcode() error {
	p.segOverride = noOverride
	p.repeatMode = 0
	p.modRegRM = 0
	p.decodeAt = p.IP

	var op byte
loop:
	for n := 0; ; n++ {
		if n > maxPrefixes {
			p.opcode = op
			return p.invalidOpcode()
		}
		switch op = p.readOpcodeStream(); op {
		case 0x26: // ES:
			p.segOverride = processor.ES
		case 0x2E: // CS:
			p.segOverride = processor.CS
		case 0x36: // SS:
			p.segOverride = processor.SS
		case 0x3E: // DS:
			p.segOverride = processor.DS
		case 0xF0, 0xF1: // LOCK
		case 0xF2, 0xF3: // REPNE/REPNZ,REP/REPE/REPZ
			p.repeatMode = op
		default:
			break loop
		}
	}

	p.opcode = op
	p.isWide = op&1 != 0
	p.rmToReg = op&2 != 0
	return nil
}

func (p *CPU) invalidOpcode() error {
	return &processor.DecodeError{
		Opcode: p.opcode,
		ModRM:  p.modRegRM,
		At:     memory.NewAddress(p.CS(), p.decodeAt),
	}
}

// Step executes one instruction, or one element of a repeated string instruction.
func (p *CPU) Step() error {
	if p.halted {
		return processor.ErrCPUHalt
	}
	if p.breakRequested {
		p.breakRequested = false
		return processor.ErrBreak
	}

	// A delivered IRQ is kept even if the handler's first instruction faults.
	if err := p.acknowledgeIRQ(); err != nil {
		return err
	}

	snapshot := p.Registers
	if err := p.step(); err != nil {
		p.Registers = snapshot
		p.breakAfter = false

		var decodeErr *processor.DecodeError
		if errors.As(err, &decodeErr) {
			p.stats.NumDecodeErrors++
		}
		return err
	}

	p.time++
	p.stats.NumInstructions++

	if p.hook != nil && !p.hook.Retired(p) {
		p.breakAfter = true
	}
	if p.halted {
		p.breakAfter = false
		return processor.ErrCPUHalt
	}
	if p.breakAfter {
		p.breakAfter = false
		return processor.ErrBreak
	}
	return nil
}

func (p *CPU) acknowledgeIRQ() error {
	irq := !p.inhibit && p.pic != nil && p.Get(processor.InterruptEnable)
	p.inhibit = false
	if !irq {
		return nil
	}
	n, err := p.pic.GetInterrupt()
	if err != nil {
		return nil
	}
	return p.interrupt(byte(n))
}

func (p *CPU) step() error {
	trap := p.Get(processor.Trap)

	if err := p.parseOpcode(); err != nil {
		return err
	}
	if err := p.doRepeat(); err != nil {
		return err
	}

	if trap {
		return p.interrupt(1)
	}
	return nil
}

func (p *CPU) doRepeat() error {
	if p.repeatMode == 0 || !isStringOp(p.opcode) {
		return p.execute()
	}

	if p.CX() == 0 {
		return nil
	}
	if err := p.execute(); err != nil {
		return err
	}
	p.SetCX(p.CX() - 1)

	if p.CX() == 0 {
		return nil
	}
	if isCompareString(p.opcode) {
		zf := p.Get(processor.Zero)
		if (p.repeatMode == 0xF2 && zf) || (p.repeatMode == 0xF3 && !zf) {
			return nil
		}
	}
	p.IP = p.decodeAt
	return nil
}

// interrupt delivers vector n through the gateway and falls back to the
// interrupt vector table when the host does not handle it.
func (p *CPU) interrupt(n byte) error {
	p.stats.NumInterrupts++

	err := p.gateway.RaiseInterrupt(n)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, processor.ErrCPUHalt):
		p.halted = true
		return nil
	case errors.Is(err, processor.ErrBreak):
		p.breakAfter = true
		return nil
	case !errors.Is(err, processor.ErrInterruptNotHandled):
		return fmt.Errorf("interrupt 0x%X: %w", n, err)
	}

	p.Push16(p.Load())
	p.Push16(p.CS())
	p.Push16(p.IP)

	offset := uint16(n) * 4
	p.IP = memory.ReadWord(p.active, 0, offset)
	p.SetCS(memory.ReadWord(p.active, 0, offset+2))
	p.Clear(processor.InterruptEnable)
	p.Clear(processor.Trap)
	return nil
}

// softwareInterrupt offers n to the step hook before delivering it.
func (p *CPU) softwareInterrupt(n byte) error {
	if p.hook != nil && !p.hook.Interrupt(p, n) {
		p.breakAfter = true
		return nil
	}
	return p.interrupt(n)
}

// divideError raises #DE with ip past the faulting instruction.
func (p *CPU) divideError() error {
	return p.interrupt(0)
}

func (p *CPU) execute() error {
	switch opcodeFamily[p.opcode] {
	case famArith:
		p.opArith()
	case famPushSeg:
		p.Push16(p.Seg(p.opcode >> 3))
	case famPopSeg:
		p.opPopSeg()
	case famAdjust:
		p.opAdjust()
	case famIncDecReg:
		p.opIncDecReg()
	case famPushReg:
		p.opPushReg()
	case famPopReg:
		p.SetReg16(p.opcode&7, p.Pop16())
	case famPushAll:
		p.opPusha()
	case famPopAll:
		p.opPopa()
	case famBound:
		return p.opBound()
	case famPushImm:
		p.opPushImm()
	case famIMulImm:
		p.opIMulImm()
	case famString:
		p.opString()
	case famJcc:
		p.opJcc()
	case famGroup1:
		p.grp1()
	case famTest:
		p.opTest()
	case famXchg:
		p.opXchg()
	case famMov:
		dest, src := p.parseOperands()
		if p.isWide {
			dest.writeWord(p, src.readWord(p))
		} else {
			dest.writeByte(p, src.readByte(p))
		}
	case famMovSeg:
		return p.opMovSeg()
	case famLea:
		return p.opLea()
	case famPopRM:
		p.readModRegRM()
		if p.getReg() != 0 {
			return p.invalidOpcode()
		}
		dest := p.rmLocation()
		dest.writeWord(p, p.Pop16())
	case famXchgAcc:
		r := p.opcode & 7
		v := p.Reg16(r)
		p.SetReg16(r, p.AX())
		p.SetAX(v)
	case famConvert:
		p.opConvert()
	case famCallFar:
		ip, cs := p.readOpcodeImm16(), p.readOpcodeImm16()
		p.Push16(p.CS())
		p.Push16(p.IP)
		p.SetCS(cs)
		p.IP = ip
	case famWait:
	case famPushf:
		p.Push16(p.Load())
	case famPopf:
		p.Store(p.Pop16())
	case famFlagsAH:
		p.opFlagsAH()
	case famMovAccMem:
		p.opMovAccMem()
	case famTestAcc:
		p.opTestAcc()
	case famMovRegImm:
		p.opMovRegImm()
	case famRet:
		p.opRet()
	case famRetFar:
		p.opRetFar()
	case famLoadFar:
		return p.opLoadFar()
	case famMovRMImm:
		p.opMovRMImm()
	case famEnter:
		p.opEnter()
	case famLeave:
		p.SetSP(p.BP())
		p.SetBP(p.Pop16())
	case famInterrupt:
		return p.opInterrupt()
	case famIret:
		p.IP = p.Pop16()
		p.SetCS(p.Pop16())
		p.Store(p.Pop16())
	case famShift:
		return p.opShift()
	case famAsciiAdjust:
		return p.opAsciiAdjust()
	case famSalc:
		if p.Get(processor.Carry) {
			p.SetAL(0xFF)
		} else {
			p.SetAL(0)
		}
	case famXlat:
		p.SetAL(p.active.ReadByte(p.getSeg(processor.DS), p.BX()+uint16(p.AL())))
	case famEscape:
		p.readModRegRM()
		p.rmLocation()
	case famLoop:
		p.opLoop()
	case famInOut:
		p.opInOut()
	case famCallNear:
		p.opCallNear()
	case famJmp:
		p.opJmp()
	case famJmpFar:
		ip, cs := p.readOpcodeImm16(), p.readOpcodeImm16()
		p.SetCS(cs)
		p.IP = ip
	case famHlt:
		p.halted = true
	case famCmc:
		p.SetBool(processor.Carry, !p.Get(processor.Carry))
	case famGroup3:
		return p.grp3()
	case famFlag:
		p.opFlag()
	case famGroup4:
		return p.grp4()
	case famGroup5:
		return p.grp5()
	case famPrefix, famInvalid:
		return p.invalidOpcode()
	default:
		panic(fmt.Sprintf("opcode 0x%02X has no handler for family %v", p.opcode, opcodeFamily[p.opcode]))
	}
	return nil
}
