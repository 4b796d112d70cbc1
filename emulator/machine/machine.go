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

// Package machine wires a processor to memory, port devices and peripherals.
package machine

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/andreas-jonsson/i8086-core/emulator/memory"
	"github.com/andreas-jonsson/i8086-core/emulator/peripheral"
	"github.com/andreas-jonsson/i8086-core/emulator/processor"
	"github.com/andreas-jonsson/i8086-core/emulator/processor/cpu"
)

const MaxIODevices = 32

type Stats struct {
	processor.Stats
	RX, TX uint64
}

type Machine struct {
	cpu         *cpu.CPU
	mem         *memory.Map
	bus         *memory.SegmentedBus
	peripherals []peripheral.Peripheral

	iomap     [0x10000]byte
	ioDevices [MaxIODevices]memory.IO
	numIO     int

	interceptors [0x100]processor.InterruptHandler
	hooks        []processor.StepHook

	rx, tx uint64
}

// New creates a machine and installs the peripherals in order. Later devices
// override the memory and port ranges of earlier ones. Install failures are
// reported but do not stop the remaining peripherals from being installed.
func New(peripherals ...peripheral.Peripheral) (*Machine, []error) {
	m := &Machine{
		mem:         memory.NewMap(),
		peripherals: peripherals,
		numIO:       1,
	}
	m.bus = memory.NewSegmentedBus(m.mem)
	m.cpu = cpu.NewCPU(m.bus, m)

	dummyIO := &memory.DummyIO{}
	for i := range m.ioDevices {
		m.ioDevices[i] = dummyIO
	}

	var errs []error
	for _, d := range peripherals {
		if err := d.Install(m); err != nil {
			logrus.WithError(err).WithField("peripheral", d.Name()).Error("failed to install peripheral")
			errs = append(errs, fmt.Errorf("%s: %w", d.Name(), err))
			continue
		}
		if pic, ok := d.(processor.InterruptController); ok {
			m.cpu.SetInterruptController(pic)
		}
		logrus.WithField("peripheral", d.Name()).Debug("peripheral installed")
	}
	if m.cpu.GetInterruptController() == nil {
		logrus.Debug("no interrupt controller detected")
	}
	return m, errs
}

func (m *Machine) CPU() *cpu.CPU {
	return m.cpu
}

func (m *Machine) Processor() processor.Processor {
	return m.cpu
}

func (m *Machine) Memory() *memory.Map {
	return m.mem
}

func (m *Machine) Bus() *memory.SegmentedBus {
	return m.bus
}

func (m *Machine) Peripherals() []peripheral.Peripheral {
	return m.peripherals
}

func (m *Machine) InstallMemoryDevice(device memory.Memory, from, to memory.Pointer) error {
	return m.mem.InstallMemoryDevice(device, from, to)
}

func (m *Machine) registerIO(device memory.IO) (byte, error) {
	for i, d := range m.ioDevices[1:m.numIO] {
		if d == device {
			return byte(i + 1), nil
		}
	}
	if m.numIO >= MaxIODevices {
		return 0, fmt.Errorf("too many IO devices (max %d)", MaxIODevices-1)
	}
	m.ioDevices[m.numIO] = device
	m.numIO++
	return byte(m.numIO - 1), nil
}

func (m *Machine) InstallIODevice(device memory.IO, from, to uint16) error {
	if from > to {
		return fmt.Errorf("invalid port range 0x%X-0x%X", from, to)
	}
	idx, err := m.registerIO(device)
	if err != nil {
		return err
	}
	for port := int(from); port <= int(to); port++ {
		m.iomap[port] = idx
	}
	return nil
}

func (m *Machine) InstallIODeviceAt(device memory.IO, port ...uint16) error {
	for _, p := range port {
		if err := m.InstallIODevice(device, p, p); err != nil {
			return err
		}
	}
	return nil
}

func (m *Machine) GetMappedIODevice(port uint16) memory.IO {
	return m.ioDevices[m.iomap[port]]
}

func (m *Machine) InstallInterruptHandler(n byte, handler processor.InterruptHandler) error {
	if m.interceptors[n] != nil {
		return fmt.Errorf("interrupt 0x%X already has a handler", n)
	}
	m.interceptors[n] = handler
	return nil
}

// InstallStepHook adds an observer. Hooks are consulted in install order.
func (m *Machine) InstallStepHook(hook processor.StepHook) {
	m.hooks = append(m.hooks, hook)
	m.cpu.SetStepHook(m)
}

func (m *Machine) RaiseInterrupt(n byte) error {
	if h := m.interceptors[n]; h != nil {
		err := h.HandleInterrupt(m.cpu, n)
		if !errors.Is(err, processor.ErrInterruptNotHandled) {
			return err
		}
	}
	logrus.WithField("vector", fmt.Sprintf("0x%X", n)).Debug("interrupt dispatched through vector table")
	return processor.ErrInterruptNotHandled
}

func (m *Machine) ReadPort(port uint16) byte {
	m.rx++
	return m.GetMappedIODevice(port).In(port)
}

func (m *Machine) WritePort(port uint16, data byte) {
	m.tx++
	m.GetMappedIODevice(port).Out(port, data)
}

func (m *Machine) Retired(p processor.Processor) bool {
	cont := true
	for _, h := range m.hooks {
		if !h.Retired(p) {
			cont = false
		}
	}
	return cont
}

func (m *Machine) Interrupt(p processor.Processor, n byte) bool {
	for _, h := range m.hooks {
		if !h.Interrupt(p, n) {
			return false
		}
	}
	return true
}

// Load copies data into physical memory at seg:offset.
func (m *Machine) Load(seg, offset uint16, data []byte) {
	base := memory.NewPointer(seg, offset)
	for i, v := range data {
		m.mem.WriteByte((base+memory.Pointer(i))&(memory.AddressSpace-1), v)
	}
}

func (m *Machine) Reset() {
	m.cpu.Reset()
	for _, d := range m.peripherals {
		d.Reset()
	}
}

// Step executes one processor step and then advances every peripheral if an
// instruction retired, including one that ends in a break or a halt.
func (m *Machine) Step() error {
	count := m.cpu.InstructionCount()
	err := m.cpu.Step()
	if m.cpu.InstructionCount() == count {
		return err
	}
	for _, d := range m.peripherals {
		if perr := d.Step(1); perr != nil {
			return fmt.Errorf("%s: %w", d.Name(), perr)
		}
	}
	return err
}

// Run steps the machine until it halts, breaks, fails, the context is cancelled
// or limit instructions have been executed. A zero limit means no limit.
// Halting and reaching the limit are not errors.
func (m *Machine) Run(ctx context.Context, limit uint64) error {
	start := m.cpu.InstructionCount()
	for i := 0; ; i++ {
		if i&0xFFF == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if limit != 0 && m.cpu.InstructionCount()-start >= limit {
			return nil
		}

		if err := m.Step(); err != nil {
			if errors.Is(err, processor.ErrCPUHalt) {
				logrus.WithField("at", memory.NewAddress(m.cpu.CS(), m.cpu.IP)).Info("processor halted")
				return nil
			}
			return err
		}
	}
}

func (m *Machine) GetStats() Stats {
	s := Stats{Stats: m.cpu.GetStats(), RX: m.rx, TX: m.tx}
	m.rx, m.tx = 0, 0
	return s
}

func (m *Machine) Close() {
	for _, d := range m.peripherals {
		if cd, ok := d.(peripheral.PeripheralCloser); ok {
			if err := cd.Close(); err != nil {
				logrus.WithError(err).WithField("peripheral", d.Name()).Error("failed to close peripheral")
			}
		}
	}
}
