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

package disasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreas-jonsson/i8086-core/emulator/memory"
)

func newBus(seg, offset uint16, code ...byte) memory.Bus {
	ram := &memory.RAM{}
	for i, v := range code {
		ram.WriteByte(memory.NewPointer(seg, offset+uint16(i)), v)
	}
	return memory.NewSegmentedBus(ram)
}

func TestDecode(t *testing.T) {
	ln, err := Decode([]byte{0xB8, 0x34, 0x12, 0x90}, memory.NewAddress(0x1000, 0))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xB8, 0x34, 0x12}, ln.Bytes)
	assert.Contains(t, ln.Text, "mov")
	assert.Contains(t, ln.Text, "0x1234")
	assert.Contains(t, ln.String(), "1000:0000  B83412")
}

func TestCursor(t *testing.T) {
	bus := newBus(0x1000, 0x100,
		0xB8, 0x34, 0x12, // MOV AX,1234h
		0x90,       // NOP
		0xEB, 0xFE, // JMP $
	)

	lines := Lines(bus, memory.NewAddress(0x1000, 0x100), 3)
	assert.Equal(t, memory.NewAddress(0x1000, 0x103), lines[1].At)
	assert.Contains(t, lines[1].Text, "nop")
	assert.Equal(t, memory.NewAddress(0x1000, 0x104), lines[2].At)
	assert.Contains(t, lines[2].Text, "jmp")
	assert.Len(t, lines[2].Bytes, 2)
}

func TestCursorWraps(t *testing.T) {
	bus := newBus(0x1000, 0xFFFF, 0x90)
	c := NewCursor(bus, memory.NewAddress(0x1000, 0xFFFF))
	c.Next()
	assert.Equal(t, memory.NewAddress(0x1000, 0), c.At)
}

func TestEmptyInput(t *testing.T) {
	ln, err := Decode(nil, 0)
	assert.Error(t, err)
	assert.Empty(t, ln.Bytes)
}
