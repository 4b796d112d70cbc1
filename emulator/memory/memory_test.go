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

package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointerWraps(t *testing.T) {
	assert.Equal(t, Pointer(0x12350), NewPointer(0x1234, 0x10))
	assert.Equal(t, Pointer(0xFFFFF), NewPointer(0xF000, 0xFFFF))
	assert.Equal(t, Pointer(0x0FFEF), NewPointer(0xFFFF, 0xFFFF))
	assert.Equal(t, Pointer(0x00000), NewPointer(0xFFFF, 0x10))
}

func TestAddress(t *testing.T) {
	a := NewAddress(0xF000, 0xFFF0)
	assert.Equal(t, uint16(0xF000), a.Segment())
	assert.Equal(t, uint16(0xFFF0), a.Offset())
	assert.Equal(t, Address(0xF000FFF0), a)
	assert.Equal(t, "F000:FFF0", a.String())
	assert.Equal(t, NewAddress(0xF000, 0x0002), a.AddInt(0x12))
	assert.Equal(t, Pointer(0xFFFF0), a.Pointer())
}

func TestWordAccessWrapsAtSegmentBoundary(t *testing.T) {
	var ram RAM
	bus := NewSegmentedBus(&ram)

	bus.WriteWord(0x1000, 0xFFFF, 0xBEEF)
	assert.Equal(t, byte(0xEF), ram[0x1FFFF])
	assert.Equal(t, byte(0xBE), ram[0x10000], "high byte belongs at offset 0 of the same segment")
	assert.Equal(t, uint16(0xBEEF), bus.ReadWord(0x1000, 0xFFFF))

	bus.WriteDWord(0x2000, 0xFFFE, 0x11223344)
	assert.Equal(t, []byte{0x44, 0x33}, ram[0x2FFFE:0x30000])
	assert.Equal(t, []byte{0x22, 0x11}, ram[0x20000:0x20002])
	assert.Equal(t, uint32(0x11223344), bus.ReadDWord(0x2000, 0xFFFE))
}

func TestLittleEndian(t *testing.T) {
	var ram RAM
	bus := NewSegmentedBus(&ram)
	bus.WriteDWord(0, 0x100, 0xAABBCCDD)
	assert.Equal(t, []byte{0xDD, 0xCC, 0xBB, 0xAA}, ram[0x100:0x104])
	assert.Equal(t, uint16(0xCCDD), bus.ReadWord(0, 0x100))
	assert.Equal(t, byte(0xBB), bus.ReadByte(0x10, 0x2))
}

type countingBus struct {
	Bus
	reads, writes int
}

func (b *countingBus) ReadByte(seg, offset uint16) byte {
	b.reads++
	return b.Bus.ReadByte(seg, offset)
}

func (b *countingBus) WriteByte(seg, offset uint16, data byte) {
	b.writes++
	b.Bus.WriteByte(seg, offset, data)
}

func TestHelpersUseBytePrimitives(t *testing.T) {
	var ram RAM
	bus := &countingBus{Bus: NewSegmentedBus(&ram)}

	WriteDWord(bus, 0, 0, 0x01020304)
	assert.Equal(t, 4, bus.writes)
	assert.Equal(t, uint32(0x01020304), ReadDWord(bus, 0, 0))
	assert.Equal(t, 4, bus.reads)
}

type rom struct {
	data [16]byte
}

func (r *rom) ReadByte(addr Pointer) byte {
	return r.data[addr&0xF]
}

func (r *rom) WriteByte(Pointer, byte) {}

func TestMap(t *testing.T) {
	m := NewMap()
	ram := &RAM{}
	r := &rom{}
	r.data[0] = 0xEA

	require.NoError(t, m.InstallMemoryDevice(ram, 0, 0x9FFFF))
	require.NoError(t, m.InstallMemoryDevice(r, 0xFFFF0, 0xFFFFF))
	require.Error(t, m.InstallMemoryDevice(ram, 0x10, 0x1))

	m.WriteByte(0x1234, 0x55)
	assert.Equal(t, byte(0x55), ram[0x1234])
	assert.Equal(t, byte(0xEA), m.ReadByte(0xFFFF0))
	assert.Equal(t, byte(0xFF), m.ReadByte(0xA0000), "unmapped memory reads as 0xFF")

	m.WriteByte(0xFFFF0, 0)
	assert.Equal(t, byte(0xEA), m.ReadByte(0xFFFF0))

	bus := NewSegmentedBus(m)
	assert.True(t, bus.IsExecutableSelector(0x0000))
	assert.True(t, bus.IsExecutableSelector(0xFFFF))
	assert.False(t, bus.IsExecutableSelector(0xA000))
	assert.True(t, NewSegmentedBus(ram).IsExecutableSelector(0xA000))
}
