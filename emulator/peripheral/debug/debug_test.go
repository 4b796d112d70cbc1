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

package debug

import (
	"bytes"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreas-jonsson/i8086-core/emulator/memory"
	"github.com/andreas-jonsson/i8086-core/emulator/processor"
	"github.com/andreas-jonsson/i8086-core/emulator/processor/cpu"
)

type scriptReader struct {
	lines []string
}

func (s *scriptReader) Readline() (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	ln := s.lines[0]
	s.lines = s.lines[1:]
	return ln, nil
}

func newMonitor(t *testing.T, code ...byte) (*Monitor, *cpu.CPU, *bytes.Buffer) {
	ram := &memory.RAM{}
	for i, v := range code {
		ram.WriteByte(memory.NewPointer(0x1000, uint16(i)), v)
	}

	p := cpu.NewCPU(memory.NewSegmentedBus(ram), nil)
	p.SetCS(0x1000)
	p.IP = 0
	p.SetSS(0x2000)
	p.SetSP(0x1000)
	p.SetDS(0x3000)

	var out bytes.Buffer
	m := NewMonitor(&out)
	m.Fs = afero.NewMemMapFs()
	m.Attach(p)
	p.SetStepHook(m)
	return m, p, &out
}

func stepUntilBreak(t *testing.T, p *cpu.CPU, limit int) int {
	for i := 1; i <= limit; i++ {
		switch err := p.Step(); err {
		case nil:
		case processor.ErrBreak:
			return i
		default:
			t.Fatal(err)
		}
	}
	t.Fatal("no break")
	return 0
}

func TestConditionalBreakpoint(t *testing.T) {
	m, p, _ := newMonitor(t,
		0xB8, 0x34, 0x12, // MOV AX,1234h
		0x40, 0x40, // INC AX; INC AX
		0xEB, 0xFC, // JMP 3
	)
	_, err := m.Exec("b 1000:0003 ax >= 0x1238")
	require.NoError(t, err)

	assert.Equal(t, 7, stepUntilBreak(t, p, 100))
	assert.Equal(t, uint16(0x1238), p.AX())
	assert.Equal(t, "breakpoint 0", m.Reason())

	_, err = m.Exec("b 3 ax >=")
	assert.Error(t, err)
}

func TestStepCommand(t *testing.T) {
	m, p, out := newMonitor(t, 0x90, 0x90, 0x90, 0xF4)
	resume, err := m.Exec("")
	require.NoError(t, err)
	assert.True(t, resume)

	assert.Equal(t, 1, stepUntilBreak(t, p, 10))
	require.NoError(t, m.Interact(&scriptReader{lines: []string{"s"}}))
	assert.Contains(t, out.String(), "break: step")
	assert.Equal(t, 1, stepUntilBreak(t, p, 10))
	assert.Equal(t, uint16(2), p.IP)
}

func TestWatchpoint(t *testing.T) {
	m, p, _ := newMonitor(t,
		0x90,
		0xA2, 0x10, 0x00, // MOV [10h],AL
		0xF4,
	)
	_, err := m.Exec("w 0x30010")
	require.NoError(t, err)

	assert.Equal(t, 2, stepUntilBreak(t, p, 10))
	assert.Contains(t, m.Reason(), "watchpoint 0x30010")
}

func TestInt3(t *testing.T) {
	m, p, _ := newMonitor(t, 0xCC, 0xF4)
	assert.Equal(t, processor.ErrBreak, p.Step())
	assert.Equal(t, "int 3", m.Reason())
	assert.Equal(t, uint16(1), p.IP)
}

func TestRegisterCommands(t *testing.T) {
	m, p, out := newMonitor(t, 0xF4)
	_, err := m.Exec("r ax=55 cf=1 ds=cs")
	require.NoError(t, err)
	assert.Equal(t, uint16(0x55), p.AX())
	assert.True(t, p.Get(processor.Carry))
	assert.Equal(t, uint16(0x1000), p.DS())

	_, err = m.Exec("r")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "AX=0055")
	assert.Contains(t, out.String(), "CS=1000 IP=0000")

	_, err = m.Exec("r xx=1")
	assert.Error(t, err)
	_, err = m.Exec("bogus")
	assert.Error(t, err)

	_, err = m.Exec("e ax + 1")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "86")
}

func TestDumpAndUnassemble(t *testing.T) {
	m, _, out := newMonitor(t, 0xB8, 0x34, 0x12, 0x90, 0xF4)
	_, err := m.Exec("m 1000:0000 4")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "b8 34 12 90")

	out.Reset()
	_, err = m.Exec("u cs:ip 2")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "1000:0003")
	assert.Contains(t, out.String(), "nop")
}

func TestHistory(t *testing.T) {
	m, p, _ := newMonitor(t, 0x90, 0x40, 0x90, 0xF4)
	m.HistorySize = 2
	for i := 0; i < 3; i++ {
		require.NoError(t, p.Step())
	}

	h := m.History()
	require.Len(t, h, 2)
	assert.Equal(t, memory.NewAddress(0x1000, 1), h[0].At)
	assert.Equal(t, memory.NewAddress(0x1000, 2), h[1].At)
	assert.Equal(t, uint64(1), m.historyLost)

	_, err := m.Exec("ch")
	require.NoError(t, err)
	assert.Empty(t, m.History())
}

func TestInteractQuit(t *testing.T) {
	m, _, _ := newMonitor(t, 0xF4)
	assert.ErrorIs(t, m.Interact(&scriptReader{}), ErrQuit)
	assert.ErrorIs(t, m.Interact(&scriptReader{lines: []string{"r", "q"}}), ErrQuit)
}

func TestSettings(t *testing.T) {
	m, _, _ := newMonitor(t, 0xF4)
	require.NoError(t, m.AddBreakpoint(memory.NewAddress(0xF000, 0xE05B), "cx == 0"))
	m.AddWatchpoint(0x00413)
	m.BreakOnInt3 = false

	_, err := m.Exec("save /monitor.yaml")
	require.NoError(t, err)
	data, err := afero.ReadFile(m.Fs, "/monitor.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "F000:E05B")

	other, _, _ := newMonitor(t, 0xF4)
	other.Fs = m.Fs
	_, err = other.Exec("load /monitor.yaml")
	require.NoError(t, err)
	assert.Equal(t, m.Settings(), other.Settings())
	assert.False(t, other.BreakOnInt3)

	_, err = other.Exec("load /missing.yaml")
	assert.Error(t, err)
}
