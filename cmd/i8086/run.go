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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/andreas-jonsson/i8086-core/emulator/machine"
	"github.com/andreas-jonsson/i8086-core/emulator/memory"
	"github.com/andreas-jonsson/i8086-core/emulator/peripheral"
	"github.com/andreas-jonsson/i8086-core/emulator/peripheral/debug"
	"github.com/andreas-jonsson/i8086-core/emulator/peripheral/pic"
	"github.com/andreas-jonsson/i8086-core/emulator/peripheral/pit"
	"github.com/andreas-jonsson/i8086-core/emulator/peripheral/ram"
	"github.com/andreas-jonsson/i8086-core/emulator/peripheral/rom"
	"github.com/andreas-jonsson/i8086-core/emulator/peripheral/video/textmode"
	"github.com/andreas-jonsson/i8086-core/emulator/processor"
	"github.com/andreas-jonsson/i8086-core/emulator/processor/validator"
)

type runOptions struct {
	base, entry, stack string
	bios               string
	ramKB              int
	debug              bool
	settings           string
	trace              string
	text               bool
	int21              bool
	limit              uint64
}

func newRunCommand() *cobra.Command {
	var opt runOptions

	cmd := &cobra.Command{
		Use:   "run <image>",
		Short: "Load a binary image and execute it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], &opt)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opt.base, "base", envOr("I86_LOAD_BASE", "0x7C00"), "physical load address of the image")
	f.StringVar(&opt.entry, "entry", envOr("I86_ENTRY", "0000:7C00"), "initial CS:IP, FFFF:0000 when a BIOS is given")
	f.StringVar(&opt.stack, "stack", "", "initial SS:SP (default <entry segment>:FFFE)")
	f.StringVar(&opt.bios, "bios", envOr("I86_BIOS_PATH", ""), "ROM image mapped at the top of the address space")
	f.IntVar(&opt.ramKB, "ram", 640, "RAM in KB mapped from address zero, 0 maps the whole address space")
	f.BoolVar(&opt.debug, "debug", false, "enter the monitor before the first instruction")
	f.StringVar(&opt.settings, "monitor-settings", envOr("I86_MONITOR_SETTINGS", ""), "load monitor breakpoints and options from file")
	f.StringVar(&opt.trace, "trace", "", "record a compressed instruction trace to file")
	f.BoolVar(&opt.text, "text", false, "show the CGA text page in the terminal")
	f.BoolVar(&opt.int21, "int21", false, "provide console services on INT 21h (AH=02h, 09h, 4Ch)")
	f.Uint64Var(&opt.limit, "max-instructions", 0, "stop after n instructions, 0 means no limit")
	return cmd
}

func run(cmd *cobra.Command, image string, opt *runOptions) error {
	data, err := afero.ReadFile(appFs, image)
	if err != nil {
		return err
	}
	base, err := parsePointer(opt.base)
	if err != nil {
		return err
	}
	entry, err := parseAddress(opt.entry)
	if err != nil {
		return err
	}
	if opt.bios != "" && !cmd.Flags().Changed("entry") {
		entry = memory.NewAddress(0xFFFF, 0)
	}
	stack := memory.NewAddress(entry.Segment(), 0xFFFE)
	if opt.stack != "" {
		if stack, err = parseAddress(opt.stack); err != nil {
			return err
		}
	}

	peripherals := []peripheral.Peripheral{
		&ram.Device{Size: memory.Pointer(opt.ramKB) * 1024},
		&pic.Device{},
		&pit.Device{},
	}

	if opt.bios != "" {
		bios, err := rom.Load(appFs, opt.bios, 0)
		if err != nil {
			return err
		}
		bios.Base = memory.AddressSpace - memory.Pointer(bios.Size())
		peripherals = append(peripherals, bios)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	if opt.text {
		peripherals = append(peripherals, &textmode.Device{OnQuit: cancel})
	}

	if opt.trace != "" {
		fp, err := appFs.Create(opt.trace)
		if err != nil {
			return err
		}
		defer fp.Close()
		peripherals = append(peripherals, validator.New(fp, validator.DefaultQueueSize))
	}

	var mon *debug.Monitor
	if opt.debug || opt.settings != "" {
		mon = debug.NewMonitor(cmd.OutOrStdout())
		mon.Fs = appFs
		peripherals = append(peripherals, mon)
	}

	m, errs := machine.New(peripherals...)
	defer m.Close()
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	if opt.int21 {
		if err := m.InstallInterruptHandler(0x21, &consoleServices{out: cmd.OutOrStdout()}); err != nil {
			return err
		}
	}

	m.Load(uint16(base>>4), uint16(base&0xF), data)
	r := m.CPU().GetRegisters()
	r.SetCS(entry.Segment())
	r.IP = entry.Offset()
	r.SetDS(entry.Segment())
	r.SetES(entry.Segment())
	r.SetSS(stack.Segment())
	r.SetSP(stack.Offset())

	logrus.WithFields(logrus.Fields{
		"image": image,
		"size":  len(data),
		"base":  base,
		"entry": entry,
	}).Info("image loaded")

	var interact func() error
	if mon != nil {
		if opt.settings != "" {
			s, err := debug.LoadSettings(appFs, opt.settings)
			if err != nil {
				return err
			}
			if err := mon.Apply(s); err != nil {
				return err
			}
		}

		rl, err := readline.NewEx(&readline.Config{
			Prompt:      mon.Prompt(),
			HistoryFile: filepath.Join(os.TempDir(), ".i8086_history"),
			Stdout:      cmd.OutOrStdout(),
		})
		if err != nil {
			return err
		}
		defer rl.Close()

		interact = func() error {
			rl.SetPrompt(mon.Prompt())
			err := mon.Interact(rl)
			if errors.Is(err, readline.ErrInterrupt) {
				return debug.ErrQuit
			}
			return err
		}
	}

	err = execute(ctx, m, opt, interact)
	if errors.Is(err, debug.ErrQuit) {
		err = nil
	}

	s := m.GetStats()
	logrus.WithFields(logrus.Fields{
		"instructions":  s.NumInstructions,
		"interrupts":    s.NumInterrupts,
		"decode_errors": s.NumDecodeErrors,
		"port_reads":    s.RX,
		"port_writes":   s.TX,
	}).Info("execution finished")
	return err
}

func execute(ctx context.Context, m *machine.Machine, opt *runOptions, interact func() error) error {
	if opt.debug && interact != nil {
		if err := interact(); err != nil {
			return err
		}
	}

	start := m.CPU().InstructionCount()
	for {
		var remaining uint64
		if opt.limit > 0 {
			done := m.CPU().InstructionCount() - start
			if done >= opt.limit {
				logrus.WithField("limit", opt.limit).Info("instruction limit reached")
				return nil
			}
			remaining = opt.limit - done
		}

		err := m.Run(ctx, remaining)
		var decodeErr *processor.DecodeError

		switch {
		case err == nil:
			if remaining == 0 || m.CPU().Halted() {
				return nil
			}
		case errors.Is(err, processor.ErrBreak):
			if interact != nil {
				if err := interact(); err != nil {
					return err
				}
			}
		case errors.Is(err, context.Canceled):
			logrus.Info("interrupted")
			return nil
		case errors.As(err, &decodeErr):
			logrus.WithFields(logrus.Fields{
				"at":     decodeErr.At,
				"opcode": fmt.Sprintf("0x%02X", decodeErr.Opcode),
				"modrm":  fmt.Sprintf("0x%02X", decodeErr.ModRM),
			}).Error("invalid instruction")
			return err
		default:
			return err
		}
	}
}

// consoleServices implements a minimal INT 21h console for test programs.
type consoleServices struct {
	out io.Writer
}

func (s *consoleServices) HandleInterrupt(p processor.Processor, _ byte) error {
	r := p.GetRegisters()
	switch r.AH() {
	case 0x02:
		s.out.Write([]byte{r.DL()})
		r.SetAL(r.DL())
	case 0x09:
		bus := p.ActiveBus()
		var buf []byte
		offset := r.DX()
		for i := 0; i < 0x10000; i++ {
			b := bus.ReadByte(r.DS(), offset+uint16(i))
			if b == '$' {
				break
			}
			buf = append(buf, b)
		}
		s.out.Write(buf)
		r.SetAL('$')
	case 0x4C:
		logrus.WithField("code", r.AL()).Info("program terminated")
		return processor.ErrCPUHalt
	default:
		return processor.ErrInterruptNotHandled
	}
	return nil
}
