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
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/dop251/goja"

	"github.com/andreas-jonsson/i8086-core/emulator/disasm"
	"github.com/andreas-jonsson/i8086-core/emulator/memory"
)

const helpText = `s, <enter>        step one instruction
c                 continue
q                 quit
r [name=value..]  show or assign registers and flags
m [addr] [n]      dump memory
u [addr] [n]      disassemble
b [addr] [cond]   list or set breakpoints, cond is a JavaScript expression
rb <i>, cb        remove or clear breakpoints
w [phys]          list or set write watchpoints
rw <i>            remove watchpoint
h [n], ch         show or clear history
t                 statistics
e <expr>          evaluate a JavaScript expression
save <file>       save breakpoints and settings
load <file>       load breakpoints and settings`

// Exec runs a single monitor command. It reports whether execution should resume.
func (m *Monitor) Exec(line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		m.stepping = true
		return true, nil
	}

	args := fields[1:]
	switch fields[0] {
	case "s":
		m.stepping = true
		return true, nil
	case "c":
		return true, nil
	case "q":
		return false, ErrQuit
	case "r":
		return false, m.registers(args)
	case "m":
		return false, m.dump(args)
	case "u":
		return false, m.unassemble(args)
	case "b":
		if len(args) == 0 {
			for i, bp := range m.breakpoints {
				fmt.Fprintf(m.Out, "%d: %v %s\n", i, bp.at, bp.cond)
			}
			return false, nil
		}
		at, err := m.parseAddress(args[0])
		if err != nil {
			return false, err
		}
		return false, m.AddBreakpoint(at, strings.Join(args[1:], " "))
	case "rb":
		i, err := index(args, len(m.breakpoints))
		if err != nil {
			return false, err
		}
		m.breakpoints = append(m.breakpoints[:i], m.breakpoints[i+1:]...)
	case "cb":
		m.breakpoints = nil
	case "w":
		if len(args) == 0 {
			for i, w := range m.watchpoints {
				fmt.Fprintf(m.Out, "%d: %v\n", i, w)
			}
			return false, nil
		}
		p, err := strconv.ParseUint(args[0], 0, 20)
		if err != nil {
			return false, fmt.Errorf("invalid physical address: %s", args[0])
		}
		m.AddWatchpoint(memory.Pointer(p))
	case "rw":
		i, err := index(args, len(m.watchpoints))
		if err != nil {
			return false, err
		}
		m.watchpoints = append(m.watchpoints[:i], m.watchpoints[i+1:]...)
	case "h":
		n := 16
		if len(args) > 0 {
			var err error
			if n, err = strconv.Atoi(args[0]); err != nil {
				return false, err
			}
		}
		m.showHistory(n)
	case "ch":
		m.clearHistory()
	case "t":
		s := m.p.GetStats()
		fmt.Fprintf(m.Out, "instructions: %d (since last: %d)\ninterrupts: %d\ndecode errors: %d\n",
			m.p.InstructionCount(), s.NumInstructions, s.NumInterrupts, s.NumDecodeErrors)
	case "e":
		m.bindRegisters()
		v, err := m.vm.RunString(strings.Join(args, " "))
		if err != nil {
			return false, err
		}
		fmt.Fprintln(m.Out, v)
	case "save":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: save <file>")
		}
		return false, SaveSettings(m.Fs, args[0], m.Settings())
	case "load":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: load <file>")
		}
		s, err := LoadSettings(m.Fs, args[0])
		if err != nil {
			return false, err
		}
		return false, m.Apply(s)
	case "help", "?":
		fmt.Fprintln(m.Out, helpText)
	default:
		return false, fmt.Errorf("unknown command: %s", fields[0])
	}
	return false, nil
}

// AddBreakpoint stops execution when the next instruction is at. An empty
// condition always breaks.
func (m *Monitor) AddBreakpoint(at memory.Address, cond string) error {
	bp := breakpoint{at: at, cond: cond}
	if cond != "" {
		prog, err := goja.Compile("breakpoint", cond, true)
		if err != nil {
			return fmt.Errorf("invalid condition: %w", err)
		}
		bp.prog = prog
	}
	m.breakpoints = append(m.breakpoints, bp)
	return nil
}

// AddWatchpoint breaks after any instruction that writes the physical address.
func (m *Monitor) AddWatchpoint(addr memory.Pointer) {
	m.watchpoints = append(m.watchpoints, addr&(memory.AddressSpace-1))
}

func index(args []string, n int) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected an index")
	}
	i, err := strconv.Atoi(args[0])
	if err != nil || i < 0 || i >= n {
		return 0, fmt.Errorf("invalid index: %s", args[0])
	}
	return i, nil
}

// parseValue accepts a register name or a hexadecimal number with an
// optional 0x prefix or h suffix.
func (m *Monitor) parseValue(s string) (uint16, error) {
	if v, ok := m.p.GetRegisters().Lookup(s); ok {
		return v, nil
	}
	h := strings.ToLower(s)
	h = strings.TrimSuffix(strings.TrimPrefix(h, "0x"), "h")
	v, err := strconv.ParseUint(h, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid value: %s", s)
	}
	return uint16(v), nil
}

// parseAddress accepts seg:offset or an offset into the code segment.
func (m *Monitor) parseAddress(s string) (memory.Address, error) {
	seg, offset, found := strings.Cut(s, ":")
	if !found {
		seg, offset = "cs", s
	}
	sv, err := m.parseValue(seg)
	if err != nil {
		return 0, err
	}
	ov, err := m.parseValue(offset)
	if err != nil {
		return 0, err
	}
	return memory.NewAddress(sv, ov), nil
}

func (m *Monitor) addressAndCount(args []string, at memory.Address, n int) (memory.Address, int, error) {
	var err error
	if len(args) > 0 {
		if at, err = m.parseAddress(args[0]); err != nil {
			return at, n, err
		}
	}
	if len(args) > 1 {
		if n, err = strconv.Atoi(args[1]); err != nil || n <= 0 {
			return at, n, fmt.Errorf("invalid count: %s", args[1])
		}
	}
	return at, n, nil
}

func (m *Monitor) registers(args []string) error {
	r := m.p.GetRegisters()
	if len(args) == 0 {
		fmt.Fprintf(m.Out, "AX=%04X BX=%04X CX=%04X DX=%04X SP=%04X BP=%04X SI=%04X DI=%04X\n",
			r.AX(), r.BX(), r.CX(), r.DX(), r.SP(), r.BP(), r.SI(), r.DI())
		fmt.Fprintf(m.Out, "DS=%04X ES=%04X SS=%04X CS=%04X IP=%04X %v\n",
			r.DS(), r.ES(), r.SS(), r.CS(), r.IP, &r.Flags)
		return nil
	}

	for _, a := range args {
		name, value, found := strings.Cut(a, "=")
		if !found {
			return fmt.Errorf("expected name=value: %s", a)
		}
		v, err := m.parseValue(value)
		if err != nil {
			return err
		}
		if !r.Assign(name, v) {
			return fmt.Errorf("unknown register: %s", name)
		}
	}
	m.next = m.disassemble(m.current())
	return nil
}

func (m *Monitor) dump(args []string) error {
	r := m.p.GetRegisters()
	at, n, err := m.addressAndCount(args, memory.NewAddress(r.DS(), 0), 64)
	if err != nil {
		return err
	}

	buf := make([]byte, n)
	for i := range buf {
		buf[i] = m.bus.ReadByte(at.Segment(), at.Offset()+uint16(i))
	}
	fmt.Fprintf(m.Out, "%v\n%s", at, hex.Dump(buf))
	return nil
}

func (m *Monitor) unassemble(args []string) error {
	at, n, err := m.addressAndCount(args, m.current(), 8)
	if err != nil {
		return err
	}
	for _, ln := range disasm.Lines(m.bus, at, n) {
		fmt.Fprintln(m.Out, ln)
	}
	return nil
}

func (m *Monitor) showHistory(n int) {
	h := m.History()
	if n > 0 && n < len(h) {
		h = h[len(h)-n:]
	}
	fmt.Fprintln(m.Out, "lost instructions:", m.historyLost)
	for _, ln := range h {
		fmt.Fprintln(m.Out, ln)
	}
}
