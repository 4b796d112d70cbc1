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

package cpu

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreas-jonsson/i8086-core/emulator/memory"
	"github.com/andreas-jonsson/i8086-core/emulator/processor"
)

// SingleStepTests/8088 (https://github.com/SingleStepTests/8088) unpacked
// into this directory are run by TestSingleStep.
const singleStepDir = "testdata/8088/v1"

// Opcodes where this processor deliberately behaves like an 80186, plus AAS
// which corrects an out of range digit twice.
var singleStepSkip = map[byte]bool{
	0x3F: true,
	0xC0: true, 0xC1: true, 0xC8: true, 0xC9: true,
	0xD2: true, 0xD3: true,
}

func init() {
	for op := 0x60; op <= 0x6F; op++ {
		singleStepSkip[byte(op)] = true
	}
}

type singleStepState struct {
	Regs map[string]uint16 `json:"regs"`
	RAM  [][2]uint32       `json:"ram"`
}

type singleStepCase struct {
	Name    string          `json:"name"`
	Bytes   []byte          `json:"bytes"`
	Initial singleStepState `json:"initial"`
	Final   singleStepState `json:"final"`
}

type singleStepMeta struct {
	Opcodes map[string]struct {
		Status    string `json:"status"`
		FlagsMask uint16 `json:"flags-mask"`
		Reg       map[string]struct {
			Status    string `json:"status"`
			FlagsMask uint16 `json:"flags-mask"`
		} `json:"reg"`
	} `json:"opcodes"`
}

func loadSingleStep(path string) ([]singleStepCase, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	gz, err := gzip.NewReader(fp)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	var cases []singleStepCase
	return cases, json.NewDecoder(gz).Decode(&cases)
}

// flagsMask returns the defined flags for the test file name, e.g. "F6.7".
func (m *singleStepMeta) flagsMask(name string) uint16 {
	mask := processor.SupportedBits
	if m == nil {
		return mask
	}
	op, reg, _ := strings.Cut(name, ".")
	entry, ok := m.Opcodes[op]
	if !ok {
		return mask
	}
	if r, ok := entry.Reg[reg]; ok && r.FlagsMask != 0 {
		return mask & r.FlagsMask
	}
	if entry.FlagsMask != 0 {
		mask &= entry.FlagsMask
	}
	return mask
}

func runSingleStep(t *testing.T, tc singleStepCase, flagsMask uint16) {
	ram := &memory.RAM{}
	p := NewCPU(memory.NewSegmentedBus(ram), nil)

	r := p.GetRegisters()
	for name, v := range tc.Initial.Regs {
		require.True(t, r.Assign(name, v), name)
	}
	for _, m := range tc.Initial.RAM {
		ram.WriteByte(memory.Pointer(m[0]), byte(m[1]))
	}

	start := r.IP
	for i := 0; i < 0x20000; i++ {
		err := p.Step()
		var decodeErr *processor.DecodeError
		if errors.As(err, &decodeErr) {
			t.Skip(err)
		}
		if err != nil && err != processor.ErrCPUHalt {
			t.Fatal(err)
		}
		// Repeated string instructions rewind ip until they are done.
		if r.IP != start || p.Halted() {
			break
		}
	}

	for name, want := range tc.Final.Regs {
		got, ok := r.Lookup(name)
		require.True(t, ok, name)
		if name == "flags" {
			assert.Equal(t, want&flagsMask, got&flagsMask, "%s: flags", tc.Name)
			continue
		}
		assert.Equal(t, want, got, "%s: %s", tc.Name, name)
	}
	for _, m := range tc.Final.RAM {
		assert.Equal(t, byte(m[1]), ram.ReadByte(memory.Pointer(m[0])), "%s: ram[0x%05X]", tc.Name, m[0])
	}
}

func TestSingleStep(t *testing.T) {
	files, _ := filepath.Glob(filepath.Join(singleStepDir, "*.json.gz"))
	if len(files) == 0 {
		t.Skip("no SingleStepTests in " + singleStepDir)
	}

	var meta *singleStepMeta
	if data, err := os.ReadFile(filepath.Join(singleStepDir, "8088.json")); err == nil {
		meta = &singleStepMeta{}
		require.NoError(t, json.Unmarshal(data, meta))
	}

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".json.gz")
		op, err := strconv.ParseUint(name[:2], 16, 8)
		if err != nil || singleStepSkip[byte(op)] {
			continue
		}

		t.Run(name, func(t *testing.T) {
			cases, err := loadSingleStep(file)
			require.NoError(t, err)
			if testing.Short() && len(cases) > 100 {
				cases = cases[:100]
			}

			mask := meta.flagsMask(name)
			for _, tc := range cases {
				runSingleStep(t, tc, mask)
				if t.Failed() {
					return
				}
			}
		})
	}
}
