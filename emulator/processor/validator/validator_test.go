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

package validator

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreas-jonsson/i8086-core/emulator/memory"
	"github.com/andreas-jonsson/i8086-core/emulator/processor"
	"github.com/andreas-jonsson/i8086-core/emulator/processor/cpu"
)

func TestRecorder(t *testing.T) {
	ram := &memory.RAM{}
	p := cpu.NewCPU(memory.NewSegmentedBus(ram), nil)
	p.SetCS(0x1000)
	p.IP = 0
	p.SetSS(0x2000)
	p.SetSP(0x100)
	p.SetAX(0x1234)

	for i, v := range []byte{0x50, 0x90, 0xF4} { // PUSH AX; NOP; HLT
		ram.WriteByte(memory.NewPointer(0x1000, uint16(i)), v)
	}

	var buf bytes.Buffer
	r := New(&buf, 0)
	r.Attach(p)
	p.SetStepHook(r)

	require.NoError(t, p.Step())
	require.NoError(t, p.Step())
	require.Equal(t, processor.ErrCPUHalt, p.Step())
	require.NoError(t, r.Close())

	events, err := ReadAll(&buf)
	require.NoError(t, err)
	require.Len(t, events, 3)

	push := events[0]
	assert.Equal(t, byte(0x50), push.Opcode)
	assert.Equal(t, "1000:0000", push.At)
	assert.Equal(t, uint16(0x100), push.Before.Values[processor.SP])
	assert.Equal(t, uint16(0xFE), push.After.Values[processor.SP])
	assert.Equal(t, []MemOp{{0x10000, 0x50}}, push.Reads)
	assert.Equal(t, []MemOp{{0x200FE, 0x34}, {0x200FF, 0x12}}, push.Writes)

	assert.Equal(t, uint16(1), push.After.IP)

	assert.Equal(t, byte(0x90), events[1].Opcode)
	assert.Empty(t, events[1].Writes)
	assert.Equal(t, events[1].After, events[2].Before)
	assert.Equal(t, byte(0xF4), events[2].Opcode)
}

func TestAppendOpLimit(t *testing.T) {
	var (
		ops     []MemOp
		dropped int
	)
	for i := 0; i < MaxMemOps+3; i++ {
		ops = appendOp(ops, &dropped, memory.Pointer(i), 0)
	}
	assert.Len(t, ops, MaxMemOps)
	assert.Equal(t, 3, dropped)
}
