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

package ram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreas-jonsson/i8086-core/emulator/machine"
	"github.com/andreas-jonsson/i8086-core/emulator/memory"
)

func TestInstallSize(t *testing.T) {
	dev := &Device{Clear: true, Size: 0x1000}
	m, errs := machine.New(dev)
	require.Empty(t, errs)

	assert.True(t, m.Memory().IsMapped(0xFFF))
	assert.False(t, m.Memory().IsMapped(0x1000))

	m.Load(0, 0x10, []byte{1, 2, 3})
	assert.Equal(t, byte(2), dev.ReadByte(0x11))
	assert.Zero(t, dev.ReadByte(0x20))
}

func TestWholeAddressSpace(t *testing.T) {
	dev := &Device{Clear: true}
	_, errs := machine.New(dev)
	require.Empty(t, errs)
	assert.Equal(t, memory.Pointer(memory.AddressSpace), dev.Size)

	dev.WriteByte(0xFFFFF, 0xAA)
	assert.Equal(t, byte(0xAA), dev.ReadByte(0xFFFFF))
}
