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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreas-jonsson/i8086-core/emulator/processor"
)

func TestAdd16(t *testing.T) {
	var f processor.Flags
	assert.Equal(t, uint16(0x30), Add16(&f, 0x8010, 0x8020))
	assert.True(t, f.Get(processor.Carry))
	assert.True(t, f.Get(processor.Overflow))

	for _, c := range [][2]uint16{{0, 0}, {1, 0xFFFF}, {0x7FFF, 1}, {0x1234, 0x4321}, {0xFFFF, 0xFFFF}} {
		a, b := c[0], c[1]
		res := Add16(&f, a, b)
		assert.Equal(t, uint16(uint32(a)+uint32(b)), res)
		assert.Equal(t, uint32(a)+uint32(b) >= 0x10000, f.Get(processor.Carry), "0x%X + 0x%X", a, b)
		assert.Equal(t, res == 0, f.Get(processor.Zero))
	}
}

func TestSub16Overflow(t *testing.T) {
	var f processor.Flags
	minus2, minus1 := uint16(0xFFFE), uint16(0xFFFF)

	assert.Equal(t, uint16(32768), Sub16(&f, 32766, minus2))
	assert.True(t, f.Get(processor.Overflow))

	assert.Equal(t, uint16(32767), Sub16(&f, 32766, minus1))
	assert.False(t, f.Get(processor.Overflow))
}

func TestAdcSbb(t *testing.T) {
	var f processor.Flags
	f.Set(processor.Carry)
	assert.Equal(t, byte(0x00), Adc8(&f, 0xFF, 0x00))
	assert.True(t, f.Get(processor.Carry))
	assert.True(t, f.Get(processor.Zero))

	f.Set(processor.Carry)
	assert.Equal(t, byte(0xFF), Sbb8(&f, 0x00, 0x00))
	assert.True(t, f.Get(processor.Carry))
	assert.True(t, f.Get(processor.Sign))
}

func TestIncDecPreserveCarry(t *testing.T) {
	var f processor.Flags
	f.Set(processor.Carry)
	assert.Equal(t, uint16(0), Inc16(&f, 0xFFFF))
	assert.True(t, f.Get(processor.Carry))
	assert.True(t, f.Get(processor.Zero))

	f.Clear(processor.Carry)
	assert.Equal(t, byte(0xFF), Dec8(&f, 0))
	assert.False(t, f.Get(processor.Carry))
	assert.True(t, f.Get(processor.Adjust))

	assert.Equal(t, byte(0x80), Inc8(&f, 0x7F))
	assert.True(t, f.Get(processor.Overflow))
}

func TestNegNot(t *testing.T) {
	var f processor.Flags
	assert.Equal(t, byte(0), Neg8(&f, 0))
	assert.False(t, f.Get(processor.Carry))
	assert.Equal(t, uint16(0xFFFF), Neg16(&f, 1))
	assert.True(t, f.Get(processor.Carry))

	f.Store(0)
	assert.Equal(t, uint16(0xEDCB), Not16(&f, 0x1234))
	assert.Equal(t, processor.FixedBits, f.Load())
}

func TestLogicClearsCarryAndOverflow(t *testing.T) {
	var f processor.Flags
	f.Set(processor.Carry)
	f.Set(processor.Overflow)
	assert.Equal(t, byte(0x0F), Xor8(&f, 0xF0, 0xFF))
	assert.False(t, f.Get(processor.Carry))
	assert.False(t, f.Get(processor.Overflow))
	assert.True(t, f.Get(processor.Parity))

	res, store := Arith16(&f, OpCmp, 5, 5)
	assert.False(t, store)
	assert.Equal(t, uint16(5), res)
	assert.True(t, f.Get(processor.Zero))
}

func TestMul(t *testing.T) {
	var f processor.Flags
	assert.Equal(t, uint16(0x00FF), Mul8(&f, 0xFF, 1))
	assert.False(t, f.Get(processor.Carry))
	assert.Equal(t, uint16(0xFE01), Mul8(&f, 0xFF, 0xFF))
	assert.True(t, f.Get(processor.Carry))
	assert.True(t, f.Get(processor.Overflow))

	assert.Equal(t, uint16(0x0001), IMul8(&f, 0xFF, 0xFF))
	assert.False(t, f.Get(processor.Carry))
	assert.Equal(t, uint16(0xFF80), IMul8(&f, 0x80, 1))
	assert.False(t, f.Get(processor.Overflow))
	assert.Equal(t, uint32(0x00004000), IMul16(&f, 0x80, 0x80))
	assert.False(t, f.Get(processor.Overflow))
	assert.Equal(t, uint32(0xFFFE0000), IMul16(&f, 0x8000, 4))
	assert.True(t, f.Get(processor.Overflow))
	assert.Equal(t, uint32(0xFFFE0001), Mul16(&f, 0xFFFF, 0xFFFF))
}

func TestDivision(t *testing.T) {
	res, ok := Div8(0x0100, 0x10)
	require.True(t, ok)
	assert.Equal(t, uint16(0x0010), res)

	res, ok = Div8(1000, 7)
	require.True(t, ok)
	assert.Equal(t, uint16(6)<<8|142, res)

	_, ok = Div8(0x1000, 0x10)
	assert.False(t, ok, "quotient overflow")
	_, ok = Div8(1, 0)
	assert.False(t, ok, "division by zero")

	res32, ok := Div16(0x00123456, 0x1000)
	require.True(t, ok)
	assert.Equal(t, uint32(0x0456)<<16|0x0123, res32)
	_, ok = Div16(0x10000000, 2)
	assert.False(t, ok)

	// -7 / 2 = -3 remainder -1
	res, ok = IDiv8(0xFFF9, 2)
	require.True(t, ok)
	assert.Equal(t, uint16(0xFFFD), res)

	_, ok = IDiv8(0xFF81, 0xFF)
	assert.True(t, ok)
	_, ok = IDiv8(0xFF80, 0xFF)
	assert.False(t, ok)
	_, ok = IDiv8(0x0080, 1)
	assert.False(t, ok)

	res32, ok = IDiv16(0xFFFF8001, 0xFFFF)
	require.True(t, ok)
	assert.Equal(t, uint32(0x7FFF), res32)
	_, ok = IDiv16(0x80000000, 0xFFFF)
	assert.False(t, ok)
	_, ok = IDiv16(1, 0)
	assert.False(t, ok)
}

func TestRotateThroughCarryRoundTrip(t *testing.T) {
	var f processor.Flags
	for _, x := range []uint16{0x0000, 0x8001, 0x1234, 0xFFFF, 0xA5A5} {
		for n := byte(1); n <= 17; n++ {
			for _, c := range []bool{false, true} {
				f.SetBool(processor.Carry, c)
				y := Rcr16(&f, x, n)
				assert.Equal(t, x, Rcl16(&f, y, n), "x=0x%X n=%d", x, n)
				assert.Equal(t, c, f.Get(processor.Carry))
			}
		}
	}
}

func TestShifts(t *testing.T) {
	var f processor.Flags

	assert.Equal(t, byte(0x03), Rol8(&f, 0x81, 1))
	assert.True(t, f.Get(processor.Carry))
	assert.True(t, f.Get(processor.Overflow))

	assert.Equal(t, byte(0xC0), Ror8(&f, 0x81, 1))
	assert.True(t, f.Get(processor.Carry))
	assert.False(t, f.Get(processor.Overflow))

	assert.Equal(t, uint16(0x4000), Shr16(&f, 0x8000, 1))
	assert.True(t, f.Get(processor.Overflow))
	assert.False(t, f.Get(processor.Carry))

	assert.Equal(t, byte(0xF0), Sar8(&f, 0x80, 3))
	assert.False(t, f.Get(processor.Overflow))
	assert.True(t, f.Get(processor.Sign))

	assert.Equal(t, uint16(0), Shl16(&f, 0x8000, 1))
	assert.True(t, f.Get(processor.Carry))
	assert.True(t, f.Get(processor.Zero))

	f.Store(0)
	assert.Equal(t, byte(0x81), Shl8(&f, 0x81, 0x20), "count is masked to five bits")
	assert.Equal(t, processor.FixedBits, f.Load())
}

func TestAaa(t *testing.T) {
	var f processor.Flags
	assert.Equal(t, uint16(0x0201), Aaa(&f, 0x0201))
	assert.False(t, f.Get(processor.Adjust))
	assert.False(t, f.Get(processor.Carry))

	f.Set(processor.Adjust)
	assert.Equal(t, uint16(0x0307), Aaa(&f, 0x0201))
	assert.True(t, f.Get(processor.Adjust))
	assert.True(t, f.Get(processor.Carry))

	f.Store(0)
	assert.Equal(t, uint16(0x0301), Aaa(&f, 0x020b))
	assert.True(t, f.Get(processor.Adjust))
	assert.True(t, f.Get(processor.Carry))
}

func TestBCDAdjustOnCC(t *testing.T) {
	var f processor.Flags
	assert.Equal(t, byte(0x32), Daa(&f, 0xCC))
	assert.True(t, f.Get(processor.Carry))

	f.Store(0)
	assert.Equal(t, byte(0x66), Das(&f, 0xCC))
	assert.True(t, f.Get(processor.Carry))

	f.Store(0)
	assert.Equal(t, byte(0x02), byte(Aaa(&f, 0x00CC)))

	f.Store(0)
	res := Aas(&f, 0x00CC)
	assert.Equal(t, uint16(0xFF00), res)
	assert.True(t, f.Get(processor.Carry))
	assert.True(t, f.Get(processor.Adjust))
}

func TestAas(t *testing.T) {
	tests := []struct {
		ax, want uint16
		adjust   bool
		carry    bool
	}{
		{0x0205, 0x0205, false, false},
		{0x02FD, 0x0107, true, true}, // 2 - 5 borrows.
		{0x0209, 0x0103, true, true},
		{0x020C, 0x0100, false, true},
		{0x020F, 0x0103, false, true},
	}
	for _, tc := range tests {
		var f processor.Flags
		f.SetBool(processor.Adjust, tc.adjust)
		assert.Equal(t, tc.want, Aas(&f, tc.ax), "AAS 0x%04X", tc.ax)
		assert.Equal(t, tc.carry, f.Get(processor.Carry), "AAS 0x%04X", tc.ax)
		assert.Equal(t, tc.carry, f.Get(processor.Adjust), "AAS 0x%04X", tc.ax)
	}
}

func TestAamAad(t *testing.T) {
	var f processor.Flags
	res, ok := Aam(&f, 63, 10)
	require.True(t, ok)
	assert.Equal(t, uint16(0x0603), res)

	_, ok = Aam(&f, 63, 0)
	assert.False(t, ok)

	assert.Equal(t, uint16(63), Aad(&f, 0x0603, 10))
	assert.Equal(t, uint16(0), Aad(&f, 0x0000, 10))
	assert.True(t, f.Get(processor.Zero))
}

func TestSignExtend(t *testing.T) {
	assert.Equal(t, uint16(0xFF80), Cbw(0x80))
	assert.Equal(t, uint16(0x007F), Cbw(0x7F))
	assert.Equal(t, uint16(0xFFFF), Cwd(0x8000))
	assert.Equal(t, uint16(0), Cwd(0x7FFF))
}

func BenchmarkArith16(b *testing.B) {
	var f processor.Flags
	for i := 0; i < b.N; i++ {
		Arith16(&f, Op(i&7), uint16(i), uint16(i>>3))
	}
}
