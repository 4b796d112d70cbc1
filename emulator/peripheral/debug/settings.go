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
	"fmt"
	"strconv"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/andreas-jonsson/i8086-core/emulator/memory"
)

type Settings struct {
	HistorySize int                 `yaml:"history_size"`
	BreakOnInt3 bool                `yaml:"break_on_int3"`
	Breakpoints []BreakpointSetting `yaml:"breakpoints,omitempty"`
	Watchpoints []string            `yaml:"watchpoints,omitempty"`
}

type BreakpointSetting struct {
	At        string `yaml:"at"`
	Condition string `yaml:"condition,omitempty"`
}

func LoadSettings(fs afero.Fs, path string) (Settings, error) {
	var s Settings
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return s, fmt.Errorf("could not load monitor settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func SaveSettings(fs afero.Fs, path string, s Settings) error {
	data, err := yaml.Marshal(&s)
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, path, data, 0o644)
}

func (m *Monitor) Settings() Settings {
	s := Settings{HistorySize: m.HistorySize, BreakOnInt3: m.BreakOnInt3}
	for _, bp := range m.breakpoints {
		s.Breakpoints = append(s.Breakpoints, BreakpointSetting{At: bp.at.String(), Condition: bp.cond})
	}
	for _, w := range m.watchpoints {
		s.Watchpoints = append(s.Watchpoints, fmt.Sprintf("0x%05X", uint32(w)))
	}
	return s
}

// Apply replaces breakpoints, watchpoints and options with s.
func (m *Monitor) Apply(s Settings) error {
	m.breakpoints, m.watchpoints = nil, nil
	m.BreakOnInt3 = s.BreakOnInt3

	if s.HistorySize != m.HistorySize {
		m.HistorySize = s.HistorySize
		m.clearHistory()
		m.history = nil
	}

	for _, bp := range s.Breakpoints {
		at, err := m.parseAddress(bp.At)
		if err != nil {
			return err
		}
		if err := m.AddBreakpoint(at, bp.Condition); err != nil {
			return err
		}
	}
	for _, w := range s.Watchpoints {
		p, err := strconv.ParseUint(w, 0, 20)
		if err != nil {
			return fmt.Errorf("invalid watchpoint: %s", w)
		}
		m.AddWatchpoint(memory.Pointer(p))
	}
	return nil
}
