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

package processor

import (
	"strings"
)

type Flag uint16

const (
	Carry           Flag = 0x001
	Parity          Flag = 0x004
	Adjust          Flag = 0x010
	Zero            Flag = 0x040
	Sign            Flag = 0x080
	Trap            Flag = 0x100
	InterruptEnable Flag = 0x200
	Direction       Flag = 0x400
	Overflow        Flag = 0x800
)

const (
	SupportedBits = uint16(Carry | Parity | Adjust | Zero | Sign | Trap | InterruptEnable | Direction | Overflow)

	// Bit 1 always reads as one and bits 12-15 are hardwired to one on the 8086.
	FixedBits uint16 = 0xF002
)

// Flags holds the architectural flags. The raw word is never exposed, reads always
// go through the supported/fixed bit mask.
type Flags struct {
	bits uint16
}

func (r *Flags) Get(f Flag) bool {
	return r.bits&uint16(f) != 0
}

func (r *Flags) Set(f Flag) {
	r.bits |= uint16(f)
}

func (r *Flags) Clear(f Flag) {
	r.bits &^= uint16(f)
}

func (r *Flags) SetBool(f Flag, b bool) {
	if b {
		r.Set(f)
		return
	}
	r.Clear(f)
}

func (r *Flags) Store(v uint16) {
	r.bits = v & SupportedBits
}

func (r *Flags) Load() uint16 {
	return (r.bits & SupportedBits) | FixedBits
}

func (r *Flags) String() string {
	s := [9]byte{'-', '-', '-', '-', '-', '-', '-', '-', '-'}
	for i, f := range [9]Flag{Carry, Parity, Adjust, Zero, Sign, Trap, InterruptEnable, Direction, Overflow} {
		if r.Get(f) {
			s[i] = "CPAZSTIDO"[i]
		}
	}
	return string(s[:])
}

// Register indices as encoded in the reg and r/m fields.
const (
	AX = iota
	CX
	DX
	BX
	SP
	BP
	SI
	DI
)

// Segment register indices as encoded in the sreg field.
const (
	ES = iota
	CS
	SS
	DS
)

var (
	reg16Names = [8]string{"ax", "cx", "dx", "bx", "sp", "bp", "si", "di"}
	reg8Names  = [8]string{"al", "cl", "dl", "bl", "ah", "ch", "dh", "bh"}
	segNames   = [4]string{"es", "cs", "ss", "ds"}
	flagNames  = map[string]Flag{
		"cf": Carry, "pf": Parity, "af": Adjust, "zf": Zero, "sf": Sign,
		"tf": Trap, "if": InterruptEnable, "df": Direction, "of": Overflow,
	}
)

func Reg16Name(i int) string { return reg16Names[i&7] }
func Reg8Name(i int) string  { return reg8Names[i&7] }
func SegName(i int) string   { return segNames[i&3] }

type Registers struct {
	gp  [8]uint16
	seg [4]uint16

	Flags

	IP uint16
}

func (r *Registers) Reset() {
	*r = Registers{}
}

// Reg16 returns a word register by its encoded index.
func (r *Registers) Reg16(i byte) uint16 {
	return r.gp[i&7]
}

func (r *Registers) SetReg16(i byte, v uint16) {
	r.gp[i&7] = v
}

// Reg8 returns a byte register by its encoded index (AL, CL, DL, BL, AH, CH, DH, BH).
func (r *Registers) Reg8(i byte) byte {
	if i&4 != 0 {
		return byte(r.gp[i&3] >> 8)
	}
	return byte(r.gp[i&3])
}

func (r *Registers) SetReg8(i byte, v byte) {
	p := &r.gp[i&3]
	if i&4 != 0 {
		*p = *p&0xFF | uint16(v)<<8
		return
	}
	*p = *p&0xFF00 | uint16(v)
}

func (r *Registers) Seg(i byte) uint16 {
	return r.seg[i&3]
}

func (r *Registers) SetSeg(i byte, v uint16) {
	r.seg[i&3] = v
}

func (r *Registers) AL() byte { return r.Reg8(0) }
func (r *Registers) CL() byte { return r.Reg8(1) }
func (r *Registers) DL() byte { return r.Reg8(2) }
func (r *Registers) BL() byte { return r.Reg8(3) }
func (r *Registers) AH() byte { return r.Reg8(4) }
func (r *Registers) CH() byte { return r.Reg8(5) }
func (r *Registers) DH() byte { return r.Reg8(6) }
func (r *Registers) BH() byte { return r.Reg8(7) }

func (r *Registers) SetAL(v byte) { r.SetReg8(0, v) }
func (r *Registers) SetCL(v byte) { r.SetReg8(1, v) }
func (r *Registers) SetDL(v byte) { r.SetReg8(2, v) }
func (r *Registers) SetBL(v byte) { r.SetReg8(3, v) }
func (r *Registers) SetAH(v byte) { r.SetReg8(4, v) }
func (r *Registers) SetCH(v byte) { r.SetReg8(5, v) }
func (r *Registers) SetDH(v byte) { r.SetReg8(6, v) }
func (r *Registers) SetBH(v byte) { r.SetReg8(7, v) }

func (r *Registers) AX() uint16 { return r.gp[AX] }
func (r *Registers) CX() uint16 { return r.gp[CX] }
func (r *Registers) DX() uint16 { return r.gp[DX] }
func (r *Registers) BX() uint16 { return r.gp[BX] }
func (r *Registers) SP() uint16 { return r.gp[SP] }
func (r *Registers) BP() uint16 { return r.gp[BP] }
func (r *Registers) SI() uint16 { return r.gp[SI] }
func (r *Registers) DI() uint16 { return r.gp[DI] }

func (r *Registers) SetAX(v uint16) { r.gp[AX] = v }
func (r *Registers) SetCX(v uint16) { r.gp[CX] = v }
func (r *Registers) SetDX(v uint16) { r.gp[DX] = v }
func (r *Registers) SetBX(v uint16) { r.gp[BX] = v }
func (r *Registers) SetSP(v uint16) { r.gp[SP] = v }
func (r *Registers) SetBP(v uint16) { r.gp[BP] = v }
func (r *Registers) SetSI(v uint16) { r.gp[SI] = v }
func (r *Registers) SetDI(v uint16) { r.gp[DI] = v }

func (r *Registers) ES() uint16 { return r.seg[ES] }
func (r *Registers) CS() uint16 { return r.seg[CS] }
func (r *Registers) SS() uint16 { return r.seg[SS] }
func (r *Registers) DS() uint16 { return r.seg[DS] }

func (r *Registers) SetES(v uint16) { r.seg[ES] = v }
func (r *Registers) SetCS(v uint16) { r.seg[CS] = v }
func (r *Registers) SetSS(v uint16) { r.seg[SS] = v }
func (r *Registers) SetDS(v uint16) { r.seg[DS] = v }

// Lookup resolves a register or flag by name. Flags read as 0 or 1.
func (r *Registers) Lookup(name string) (uint16, bool) {
	name = strings.ToLower(name)
	for i, n := range reg16Names {
		if n == name {
			return r.gp[i], true
		}
	}
	for i, n := range reg8Names {
		if n == name {
			return uint16(r.Reg8(byte(i))), true
		}
	}
	for i, n := range segNames {
		if n == name {
			return r.seg[i], true
		}
	}
	switch name {
	case "ip":
		return r.IP, true
	case "flags", "eflags":
		return r.Load(), true
	}
	if f, ok := flagNames[name]; ok {
		if r.Get(f) {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// Assign sets a register or flag by name. Byte registers are truncated.
func (r *Registers) Assign(name string, v uint16) bool {
	name = strings.ToLower(name)
	for i, n := range reg16Names {
		if n == name {
			r.gp[i] = v
			return true
		}
	}
	for i, n := range reg8Names {
		if n == name {
			r.SetReg8(byte(i), byte(v))
			return true
		}
	}
	for i, n := range segNames {
		if n == name {
			r.seg[i] = v
			return true
		}
	}
	switch name {
	case "ip":
		r.IP = v
		return true
	case "flags", "eflags":
		r.Store(v)
		return true
	}
	if f, ok := flagNames[name]; ok {
		r.SetBool(f, v != 0)
		return true
	}
	return false
}

// Names lists every name understood by Lookup and Assign.
func Names() []string {
	names := make([]string, 0, 32)
	names = append(names, reg16Names[:]...)
	names = append(names, reg8Names[:]...)
	names = append(names, segNames[:]...)
	names = append(names, "ip", "flags")
	for _, n := range []string{"cf", "pf", "af", "zf", "sf", "tf", "if", "df", "of"} {
		names = append(names, n)
	}
	return names
}

func (r *Registers) GetValues() [12]uint16 {
	return [12]uint16{
		r.AX(), r.CX(), r.DX(), r.BX(),
		r.SP(), r.BP(), r.SI(), r.DI(),
		r.ES(), r.CS(), r.SS(), r.DS(),
	}
}
