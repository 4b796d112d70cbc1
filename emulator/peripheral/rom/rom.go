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
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/andreas-jonsson/i8086-core/emulator/memory"
	"github.com/andreas-jonsson/i8086-core/emulator/peripheral"
)

var ErrEmptyImage = errors.New("empty ROM image")

type Device struct {
	mem []byte

	Base    memory.Pointer
	RomName string
	Reader  io.Reader
}

// Load reads a ROM image from fs and maps it at base.
func Load(fs afero.Fs, path string, base memory.Pointer) (*Device, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("could not load ROM: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyImage)
	}
	return &Device{mem: data, Base: base, RomName: filepath.Base(path)}, nil
}

// Size returns the image size in bytes.
func (m *Device) Size() int {
	return len(m.mem)
}

func (m *Device) Install(h peripheral.Host) error {
	if m.mem == nil {
		if m.Reader == nil {
			return ErrEmptyImage
		}
		var err error
		if m.mem, err = io.ReadAll(m.Reader); err != nil {
			return err
		}
	}
	if len(m.mem) == 0 {
		return ErrEmptyImage
	}
	if m.RomName == "" {
		m.RomName = "ROM"
	}

	end := m.Base + memory.Pointer(len(m.mem)-1)
	if end >= memory.AddressSpace {
		return fmt.Errorf("%s does not fit at %v", m.RomName, m.Base)
	}
	return h.InstallMemoryDevice(m, m.Base, end)
}

func (m *Device) Name() string {
	return m.RomName
}

func (m *Device) Reset() {
}

func (m *Device) Step(int) error {
	return nil
}

func (m *Device) ReadByte(addr memory.Pointer) byte {
	return m.mem[addr-m.Base]
}

func (m *Device) WriteByte(addr memory.Pointer, data byte) {
	logrus.WithFields(logrus.Fields{
		"rom":  m.RomName,
		"addr": addr,
		"data": fmt.Sprintf("0x%X", data),
	}).Debug("write to ROM ignored")
}
