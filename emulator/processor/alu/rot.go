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

package alu

import "github.com/andreas-jonsson/i8086-core/emulator/processor"

// Shift is a shift or rotate operation as encoded in the reg field of the shift group.
type Shift byte

const (
	ShiftRol Shift = iota
	ShiftRor
	ShiftRcl
	ShiftRcr
	ShiftShl
	ShiftShr
	ShiftSal
	ShiftSar
)

var shiftNames = [8]string{"rol", "ror", "rcl", "rcr", "shl", "shr", "sal", "sar"}

func (s Shift) String() string {
	return shiftNames[s&7]
}

// CountMask is applied to every shift count.
const CountMask = 0x1F

func shiftOrRotate(f *processor.Flags, w width, op Shift, v uint32, count byte) uint32 {
	count &= CountMask
	if count == 0 {
		return v
	}

	msb := w.sign
	org := v
	c := f.Get(processor.Carry)

	for i := byte(0); i < count; i++ {
		switch op {
		case ShiftRol:
			c = v&msb != 0
			v = (v << 1) & w.mask
			if c {
				v |= 1
			}
		case ShiftRor:
			c = v&1 != 0
			v >>= 1
			if c {
				v |= msb
			}
		case ShiftRcl:
			out := v&msb != 0
			v = (v << 1) & w.mask
			if c {
				v |= 1
			}
			c = out
		case ShiftRcr:
			out := v&1 != 0
			v >>= 1
			if c {
				v |= msb
			}
			c = out
		case ShiftShl, ShiftSal:
			c = v&msb != 0
			v = (v << 1) & w.mask
		case ShiftShr:
			c = v&1 != 0
			v >>= 1
		case ShiftSar:
			c = v&1 != 0
			v = v>>1 | v&msb
		}
	}
	f.SetBool(processor.Carry, c)

	// Left: carry XOR the result MSB. Right rotates: XOR of the two top result bits.
	switch op {
	case ShiftRol, ShiftRcl:
		f.SetBool(processor.Overflow, c != (v&msb != 0))
	case ShiftRor, ShiftRcr:
		f.SetBool(processor.Overflow, (v&msb != 0) != (v&(msb>>1) != 0))
	case ShiftShl, ShiftSal:
		f.SetBool(processor.Overflow, c != (v&msb != 0))
		updateSZP(f, w, v)
	case ShiftShr:
		f.SetBool(processor.Overflow, count == 1 && org&msb != 0)
		updateSZP(f, w, v)
	case ShiftSar:
		f.Clear(processor.Overflow)
		updateSZP(f, w, v)
	}
	return v
}

func Shift8(f *processor.Flags, op Shift, v, count byte) byte {
	return byte(shiftOrRotate(f, w8, op, uint32(v), count))
}

func Shift16(f *processor.Flags, op Shift, v uint16, count byte) uint16 {
	return uint16(shiftOrRotate(f, w16, op, uint32(v), count))
}

func Rol8(f *processor.Flags, v, n byte) byte { return Shift8(f, ShiftRol, v, n) }
func Ror8(f *processor.Flags, v, n byte) byte { return Shift8(f, ShiftRor, v, n) }
func Rcl8(f *processor.Flags, v, n byte) byte { return Shift8(f, ShiftRcl, v, n) }
func Rcr8(f *processor.Flags, v, n byte) byte { return Shift8(f, ShiftRcr, v, n) }
func Shl8(f *processor.Flags, v, n byte) byte { return Shift8(f, ShiftShl, v, n) }
func Shr8(f *processor.Flags, v, n byte) byte { return Shift8(f, ShiftShr, v, n) }
func Sar8(f *processor.Flags, v, n byte) byte { return Shift8(f, ShiftSar, v, n) }

func Rol16(f *processor.Flags, v uint16, n byte) uint16 { return Shift16(f, ShiftRol, v, n) }
func Ror16(f *processor.Flags, v uint16, n byte) uint16 { return Shift16(f, ShiftRor, v, n) }
func Rcl16(f *processor.Flags, v uint16, n byte) uint16 { return Shift16(f, ShiftRcl, v, n) }
func Rcr16(f *processor.Flags, v uint16, n byte) uint16 { return Shift16(f, ShiftRcr, v, n) }
func Shl16(f *processor.Flags, v uint16, n byte) uint16 { return Shift16(f, ShiftShl, v, n) }
func Shr16(f *processor.Flags, v uint16, n byte) uint16 { return Shift16(f, ShiftShr, v, n) }
func Sar16(f *processor.Flags, v uint16, n byte) uint16 { return Shift16(f, ShiftSar, v, n) }
