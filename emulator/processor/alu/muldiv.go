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

// Multiplication and division only define carry and overflow.
// Zero, sign, adjust and parity are left unchanged.

func Mul8(f *processor.Flags, a, b byte) uint16 {
	res := uint16(a) * uint16(b)
	f.SetBool(processor.Carry, res&0xFF00 != 0)
	f.SetBool(processor.Overflow, res&0xFF00 != 0)
	return res
}

func Mul16(f *processor.Flags, a, b uint16) uint32 {
	res := uint32(a) * uint32(b)
	f.SetBool(processor.Carry, res&0xFFFF0000 != 0)
	f.SetBool(processor.Overflow, res&0xFFFF0000 != 0)
	return res
}

func IMul8(f *processor.Flags, a, b byte) uint16 {
	res := int16(int8(a)) * int16(int8(b))
	ext := res != int16(int8(res))
	f.SetBool(processor.Carry, ext)
	f.SetBool(processor.Overflow, ext)
	return uint16(res)
}

func IMul16(f *processor.Flags, a, b uint16) uint32 {
	res := int32(int16(a)) * int32(int16(b))
	ext := res != int32(int16(res))
	f.SetBool(processor.Carry, ext)
	f.SetBool(processor.Overflow, ext)
	return uint32(res)
}

// Div8 divides a by b and returns the quotient in the low byte and the remainder
// in the high byte. It returns false on division by zero or quotient overflow.
func Div8(a uint16, b byte) (uint16, bool) {
	if b == 0 {
		return 0, false
	}
	q := a / uint16(b)
	if q > 0xFF {
		return 0, false
	}
	return (a%uint16(b))<<8 | q, true
}

// Div16 returns the quotient in the low word and the remainder in the high word.
func Div16(a uint32, b uint16) (uint32, bool) {
	if b == 0 {
		return 0, false
	}
	q := a / uint32(b)
	if q > 0xFFFF {
		return 0, false
	}
	return (a%uint32(b))<<16 | q, true
}

// IDiv8 is the signed version of Div8. The quotient must fit in -127..127.
func IDiv8(a uint16, b byte) (uint16, bool) {
	d := int32(int8(b))
	if d == 0 {
		return 0, false
	}
	n := int32(int16(a))
	q, r := n/d, n%d
	if q > 0x7F || q < -0x7F {
		return 0, false
	}
	return uint16(byte(r))<<8 | uint16(byte(q)), true
}

// IDiv16 is the signed version of Div16. The quotient must fit in -32767..32767.
func IDiv16(a uint32, b uint16) (uint32, bool) {
	d := int64(int16(b))
	if d == 0 {
		return 0, false
	}
	n := int64(int32(a))
	q, r := n/d, n%d
	if q > 0x7FFF || q < -0x7FFF {
		return 0, false
	}
	return uint32(uint16(r))<<16 | uint32(uint16(q)), true
}
