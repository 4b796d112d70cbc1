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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteRegisterAliasing(t *testing.T) {
	var r Registers
	r.SetAX(0x1234)
	assert.Equal(t, byte(0x34), r.AL())
	assert.Equal(t, byte(0x12), r.AH())

	r.SetAH(0xAB)
	assert.Equal(t, uint16(0xAB34), r.AX())
	r.SetBL(0xCD)
	r.SetBH(0xEF)
	assert.Equal(t, uint16(0xEFCD), r.BX())

	for i := byte(0); i < 8; i++ {
		r.SetReg8(i, 0x10+i)
	}
	assert.Equal(t, uint16(0x1410), r.AX())
	assert.Equal(t, uint16(0x1511), r.CX())
	assert.Equal(t, uint16(0x1612), r.DX())
	assert.Equal(t, uint16(0x1713), r.BX())
}

func TestFlagsMask(t *testing.T) {
	var r Registers
	r.Store(0xFFFF)
	assert.Equal(t, uint16(0xFFD7), r.Load())
	assert.Equal(t, r.Load(), (r.Load()&SupportedBits)|FixedBits)

	r.Store(0)
	assert.Equal(t, FixedBits, r.Load())

	r.Set(Carry)
	r.Set(Overflow)
	assert.True(t, r.Get(Carry))
	assert.Equal(t, FixedBits|0x801, r.Load())
	r.SetBool(Carry, false)
	assert.False(t, r.Get(Carry))
	assert.Equal(t, "--------O", r.Flags.String())
}

func TestLookupAndAssign(t *testing.T) {
	var r Registers
	require.True(t, r.Assign("AX", 0x1122))
	require.True(t, r.Assign("ah", 0x33))
	require.True(t, r.Assign("ds", 0x4000))
	require.True(t, r.Assign("zf", 1))
	require.False(t, r.Assign("eax", 1))

	v, ok := r.Lookup("ax")
	require.True(t, ok)
	assert.Equal(t, uint16(0x3322), v)

	v, ok = r.Lookup("al")
	require.True(t, ok)
	assert.Equal(t, uint16(0x22), v)

	v, _ = r.Lookup("zf")
	assert.Equal(t, uint16(1), v)
	v, _ = r.Lookup("flags")
	assert.Equal(t, FixedBits|uint16(Zero), v)

	assert.Equal(t, uint16(0x4000), r.DS())

	for _, n := range Names() {
		_, ok := r.Lookup(n)
		assert.True(t, ok, n)
	}
}
