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

package rom

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreas-jonsson/i8086-core/emulator/machine"
	"github.com/andreas-jonsson/i8086-core/emulator/peripheral/ram"
)

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/roms/bios.bin", []byte{0xEA, 0x5B, 0xE0, 0x00, 0xF0}, 0o644))

	m, err := Load(fs, "/roms/bios.bin", 0xFE000)
	require.NoError(t, err)
	assert.Equal(t, "bios.bin", m.Name())
	assert.Equal(t, 5, m.Size())
	assert.Equal(t, byte(0xEA), m.ReadByte(0xFE000))

	m.WriteByte(0xFE000, 0)
	assert.Equal(t, byte(0xEA), m.ReadByte(0xFE000))

	_, err = Load(fs, "/roms/missing.bin", 0)
	assert.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, "/roms/empty.bin", nil, 0o644))
	_, err = Load(fs, "/roms/empty.bin", 0)
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestInstall(t *testing.T) {
	image := []byte{0xEA, 0x00, 0x00, 0x00, 0xF0}
	m, errs := machine.New(
		&ram.Device{Clear: true},
		&Device{Base: 0xFFFF0, Reader: bytes.NewReader(image)},
	)
	require.Empty(t, errs)

	mem := m.Memory()
	assert.Equal(t, byte(0xEA), mem.ReadByte(0xFFFF0))
	mem.WriteByte(0xFFFF0, 0x90)
	assert.Equal(t, byte(0xEA), mem.ReadByte(0xFFFF0))
	assert.Equal(t, "ROM", m.Peripherals()[1].Name())
}

func TestInstallErrors(t *testing.T) {
	_, errs := machine.New(
		&Device{},
		&Device{Base: 0xFFFF8, Reader: bytes.NewReader(make([]byte, 16))},
	)
	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0], ErrEmptyImage)
}
