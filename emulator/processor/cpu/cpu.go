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
	"github.com/andreas-jonsson/i8086-core/emulator/memory"
	"github.com/andreas-jonsson/i8086-core/emulator/processor"
)

type CPU struct {
	processor.Registers
	instructionState

	bus, active memory.Bus
	gateway     processor.Gateway
	pic         processor.InterruptController
	hook        processor.StepHook

	halted, inhibit bool
	breakRequested  bool
	breakAfter      bool

	time  uint64
	stats processor.Stats
}

// NewCPU creates a processor executing from bus. A nil gateway reads 0xFF from
// every port and dispatches every interrupt through the vector table.
func NewCPU(bus memory.Bus, gw processor.Gateway) *CPU {
	if gw == nil {
		gw = nullGateway{}
	}
	p := &CPU{bus: bus, active: bus, gateway: gw}
	p.Reset()
	return p
}

func (p *CPU) SetStepHook(h processor.StepHook) {
	p.hook = h
}

func (p *CPU) SetInterruptController(pic processor.InterruptController) {
	p.pic = pic
}

func (p *CPU) GetInterruptController() processor.InterruptController {
	return p.pic
}

// Reset puts the processor in its power-on state. The instruction counter keeps counting.
func (p *CPU) Reset() {
	p.Registers.Reset()
	p.SetCS(0xFFFF)
	p.instructionState = instructionState{}
	p.halted, p.inhibit = false, false
	p.breakRequested, p.breakAfter = false, false
}

func (p *CPU) Halted() bool {
	return p.halted
}

// Break makes the next call to Step return processor.ErrBreak without executing anything.
func (p *CPU) Break() {
	p.breakRequested = true
}

// GetStats returns the statistics gathered since the last call.
func (p *CPU) GetStats() processor.Stats {
	s := p.stats
	p.stats = processor.Stats{}
	return s
}

func (p *CPU) InstructionCount() uint64 {
	return p.time
}

func (p *CPU) GetRegisters() *processor.Registers {
	return &p.Registers
}

func (p *CPU) MemoryBus() memory.Bus {
	return p.bus
}

func (p *CPU) ActiveBus() memory.Bus {
	return p.active
}

// SetActiveBus routes all memory accesses through b. Passing nil restores the memory bus.
func (p *CPU) SetActiveBus(b memory.Bus) {
	if b == nil {
		b = p.bus
	}
	p.active = b
}

func (p *CPU) Push16(v uint16) {
	p.SetSP(p.SP() - 2)
	memory.WriteWord(p.active, p.SS(), p.SP(), v)
}

func (p *CPU) Pop16() uint16 {
	v := memory.ReadWord(p.active, p.SS(), p.SP())
	p.SetSP(p.SP() + 2)
	return v
}

func (p *CPU) readPort16(port uint16) uint16 {
	lo := p.gateway.ReadPort(port)
	return uint16(p.gateway.ReadPort(port+1))<<8 | uint16(lo)
}

func (p *CPU) writePort16(port, data uint16) {
	p.gateway.WritePort(port, byte(data))
	p.gateway.WritePort(port+1, byte(data>>8))
}

type nullGateway struct{}

func (nullGateway) RaiseInterrupt(byte) error {
	return processor.ErrInterruptNotHandled
}

func (nullGateway) ReadPort(uint16) byte {
	return 0xFF
}

func (nullGateway) WritePort(uint16, byte) {}

var _ processor.Processor = (*CPU)(nil)
