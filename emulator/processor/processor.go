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

package processor

import (
	"errors"
	"fmt"

	"github.com/andreas-jonsson/i8086-core/emulator/memory"
)

type Stats struct {
	NumInterrupts   uint64
	NumInstructions uint64
	NumDecodeErrors uint64
}

var (
	ErrCPUHalt             = errors.New("CPU HALT")
	ErrBreak               = errors.New("break requested")
	ErrInterruptNotHandled = errors.New("interrupt not handled")
)

// DecodeError reports an opcode or ModRM combination with no defined behaviour.
type DecodeError struct {
	Opcode byte
	ModRM  byte
	At     memory.Address
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid instruction at %v: opcode 0x%02X, modrm 0x%02X", e.At, e.Opcode, e.ModRM)
}

// Gateway is the host surface for interrupts and port I/O.
type Gateway interface {
	RaiseInterrupt(n byte) error
	ReadPort(port uint16) byte
	WritePort(port uint16, data byte)
}

type InterruptHandler interface {
	HandleInterrupt(p Processor, n byte) error
}

type InterruptController interface {
	GetInterrupt() (int, error)
	IRQ(n int)
}

// StepHook observes execution. Retired is called once per retired step and may
// return false to request a break. Interrupt is called before a software interrupt
// is delivered and may return false to veto delivery.
type StepHook interface {
	Retired(p Processor) bool
	Interrupt(p Processor, n byte) bool
}

type Debug interface {
	Break()
	GetStats() Stats
	InstructionCount() uint64
}

type Processor interface {
	Debug

	GetRegisters() *Registers

	// MemoryBus is the bus the processor was created with.
	MemoryBus() memory.Bus

	// ActiveBus is the bus every fetch and operand access goes through.
	ActiveBus() memory.Bus
	SetActiveBus(b memory.Bus)

	Push16(v uint16)
	Pop16() uint16
}
