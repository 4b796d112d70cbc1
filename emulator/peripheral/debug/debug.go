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

// Package debug implements an interactive machine monitor. It observes the
// processor through a step hook and an active bus interceptor.
package debug

import (
	"errors"
	"fmt"
	"io"

	"github.com/dop251/goja"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/andreas-jonsson/i8086-core/emulator/disasm"
	"github.com/andreas-jonsson/i8086-core/emulator/memory"
	"github.com/andreas-jonsson/i8086-core/emulator/peripheral"
	"github.com/andreas-jonsson/i8086-core/emulator/processor"
)

var ErrQuit = errors.New("quit")

const DefaultHistorySize = 128

// LineReader is the command source. *readline.Instance satisfies it.
type LineReader interface {
	Readline() (string, error)
}

type breakpoint struct {
	at   memory.Address
	cond string
	prog *goja.Program
}

type Monitor struct {
	Out io.Writer
	Fs  afero.Fs

	HistorySize int
	BreakOnInt3 bool

	p   processor.Processor
	bus memory.Bus
	vm  *goja.Runtime

	breakpoints []breakpoint
	watchpoints []memory.Pointer

	history     []disasm.Line
	historyPos  int
	historyLost uint64
	next        disasm.Line

	stepping bool
	reason   string
}

func NewMonitor(out io.Writer) *Monitor {
	return &Monitor{
		Out:         out,
		Fs:          afero.NewOsFs(),
		HistorySize: DefaultHistorySize,
		BreakOnInt3: true,
		vm:          goja.New(),
	}
}

// Attach interposes the monitor on the active bus of p. The caller is
// responsible for installing the monitor as step hook.
func (m *Monitor) Attach(p processor.Processor) {
	m.p = p
	m.bus = p.ActiveBus()
	p.SetActiveBus(m)

	m.vm.Set("mem", func(seg, offset uint16) byte {
		return m.bus.ReadByte(seg, offset)
	})
	m.vm.Set("word", func(seg, offset uint16) uint16 {
		return memory.ReadWord(m.bus, seg, offset)
	})
	m.next = m.disassemble(m.current())
}

func (m *Monitor) current() memory.Address {
	r := m.p.GetRegisters()
	return memory.NewAddress(r.CS(), r.IP)
}

func (m *Monitor) disassemble(at memory.Address) disasm.Line {
	return disasm.NewCursor(m.bus, at).Next()
}

// Break stops execution after the current instruction.
func (m *Monitor) Break(reason string) {
	if m.reason == "" {
		m.reason = reason
	}
}

// Reason returns why the last break happened.
func (m *Monitor) Reason() string {
	return m.reason
}

func (m *Monitor) ReadByte(seg, offset uint16) byte {
	return m.bus.ReadByte(seg, offset)
}

func (m *Monitor) WriteByte(seg, offset uint16, data byte) {
	if len(m.watchpoints) > 0 {
		addr := memory.NewPointer(seg, offset)
		for _, w := range m.watchpoints {
			if w == addr {
				m.Break(fmt.Sprintf("watchpoint %v written with 0x%02X", addr, data))
			}
		}
	}
	m.bus.WriteByte(seg, offset, data)
}

func (m *Monitor) IsExecutableSelector(seg uint16) bool {
	return m.bus.IsExecutableSelector(seg)
}

func (m *Monitor) Retired(p processor.Processor) bool {
	m.pushHistory(m.next)

	at := m.current()
	m.next = m.disassemble(at)

	if m.stepping {
		m.stepping = false
		m.Break("step")
	}
	for i, bp := range m.breakpoints {
		if bp.at == at && m.evaluate(bp) {
			m.Break(fmt.Sprintf("breakpoint %d", i))
		}
	}
	return m.reason == ""
}

func (m *Monitor) Interrupt(_ processor.Processor, n byte) bool {
	if n == 3 && m.BreakOnInt3 {
		m.Break("int 3")
		return false
	}
	return true
}

func (m *Monitor) bindRegisters() {
	r := m.p.GetRegisters()
	for _, name := range processor.Names() {
		v, _ := r.Lookup(name)
		m.vm.Set(name, v)
	}
}

func (m *Monitor) evaluate(bp breakpoint) bool {
	if bp.prog == nil {
		return true
	}
	m.bindRegisters()
	v, err := m.vm.RunProgram(bp.prog)
	if err != nil {
		logrus.WithError(err).WithField("condition", bp.cond).Warn("breakpoint condition failed")
		return true
	}
	return v.ToBoolean()
}

func (m *Monitor) pushHistory(ln disasm.Line) {
	if m.HistorySize <= 0 {
		return
	}
	if len(m.history) < m.HistorySize {
		m.history = append(m.history, ln)
		return
	}
	m.history[m.historyPos] = ln
	m.historyPos = (m.historyPos + 1) % len(m.history)
	m.historyLost++
}

// History returns the retired instructions, oldest first.
func (m *Monitor) History() []disasm.Line {
	h := make([]disasm.Line, 0, len(m.history))
	h = append(h, m.history[m.historyPos:]...)
	return append(h, m.history[:m.historyPos]...)
}

func (m *Monitor) clearHistory() {
	m.historyLost += uint64(len(m.history))
	m.history = m.history[:0]
	m.historyPos = 0
}

// Prompt is the prompt text for the current location.
func (m *Monitor) Prompt() string {
	return fmt.Sprintf("[%v]> ", m.current())
}

// Interact reports the pending break and processes commands until one of
// them resumes execution. End of input is treated as quit.
func (m *Monitor) Interact(r LineReader) error {
	if m.reason != "" {
		fmt.Fprintf(m.Out, "break: %s\n", m.reason)
		m.reason = ""
	}
	fmt.Fprintln(m.Out, m.next)

	for {
		ln, err := r.Readline()
		if errors.Is(err, io.EOF) {
			return ErrQuit
		} else if err != nil {
			return err
		}

		resume, err := m.Exec(ln)
		if errors.Is(err, ErrQuit) {
			return err
		} else if err != nil {
			fmt.Fprintln(m.Out, err)
		}
		if resume {
			return nil
		}
	}
}

func (m *Monitor) Install(h peripheral.Host) error {
	m.Attach(h.Processor())
	h.InstallStepHook(m)
	return nil
}

func (m *Monitor) Name() string {
	return "Debug Monitor"
}

func (m *Monitor) Reset() {
	m.clearHistory()
	m.reason = ""
	m.stepping = false
}

func (m *Monitor) Step(int) error {
	return nil
}
