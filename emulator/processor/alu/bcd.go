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

func adjustNeeded(f *processor.Flags, al byte) bool {
	return al&0xF > 9 || f.Get(processor.Adjust)
}

// Aaa adjusts ax after an unpacked BCD addition.
func Aaa(f *processor.Flags, ax uint16) uint16 {
	al, ah := byte(ax), byte(ax>>8)
	if adjustNeeded(f, al) {
		al += 6
		ah++
		f.Set(processor.Adjust)
		f.Set(processor.Carry)
	} else {
		f.Clear(processor.Adjust)
		f.Clear(processor.Carry)
	}
	al &= 0xF
	updateSZP(f, w8, uint32(al))
	return uint16(ah)<<8 | uint16(al)
}

// Aas adjusts ax after an unpacked BCD subtraction. A digit above 9 with no
// incoming borrow is corrected twice, so al=0xCC yields 0x00.
func Aas(f *processor.Flags, ax uint16) uint16 {
	al, ah := byte(ax), byte(ax>>8)
	if adjustNeeded(f, al) {
		if !f.Get(processor.Adjust) {
			al -= 6
		}
		al -= 6
		ah--
		f.Set(processor.Adjust)
		f.Set(processor.Carry)
	} else {
		f.Clear(processor.Adjust)
		f.Clear(processor.Carry)
	}
	al &= 0xF
	updateSZP(f, w8, uint32(al))
	return uint16(ah)<<8 | uint16(al)
}

// Aam splits al into base digits. A zero base is a divide fault.
func Aam(f *processor.Flags, al, base byte) (uint16, bool) {
	if base == 0 {
		return 0, false
	}
	ah, al := al/base, al%base
	updateSZP(f, w8, uint32(al))
	return uint16(ah)<<8 | uint16(al), true
}

// Aad folds ah into al using base.
func Aad(f *processor.Flags, ax uint16, base byte) uint16 {
	al := byte(ax) + byte(ax>>8)*base
	updateSZP(f, w8, uint32(al))
	return uint16(al)
}

// Daa adjusts al after a packed BCD addition.
func Daa(f *processor.Flags, al byte) byte {
	org, c := al, f.Get(processor.Carry)
	f.Clear(processor.Carry)

	if adjustNeeded(f, al) {
		f.SetBool(processor.Carry, c || al > 0xF9)
		al += 6
		f.Set(processor.Adjust)
	} else {
		f.Clear(processor.Adjust)
	}

	if org > 0x99 || c {
		al += 0x60
		f.Set(processor.Carry)
	} else {
		f.Clear(processor.Carry)
	}
	updateSZP(f, w8, uint32(al))
	return al
}

// Das adjusts al after a packed BCD subtraction.
func Das(f *processor.Flags, al byte) byte {
	org, c := al, f.Get(processor.Carry)
	f.Clear(processor.Carry)

	if adjustNeeded(f, al) {
		f.SetBool(processor.Carry, c || al < 6)
		al -= 6
		f.Set(processor.Adjust)
	} else {
		f.Clear(processor.Adjust)
	}

	if org > 0x99 || c {
		al -= 0x60
		f.Set(processor.Carry)
	}
	updateSZP(f, w8, uint32(al))
	return al
}

// Cbw sign extends al into ax.
func Cbw(al byte) uint16 {
	return uint16(int16(int8(al)))
}

// Cwd returns the dx half of ax sign extended into dx:ax.
func Cwd(ax uint16) uint16 {
	if ax&0x8000 != 0 {
		return 0xFFFF
	}
	return 0
}
