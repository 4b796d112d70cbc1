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

package validator

import (
	"github.com/andreas-jonsson/i8086-core/emulator/memory"
	"github.com/andreas-jonsson/i8086-core/emulator/processor"
)

// MaxMemOps bounds the reads and writes recorded for a single instruction.
// A REP element, ENTER with a deep nesting level and PUSHA stay well below it.
const MaxMemOps = 64

const DefaultQueueSize = 1024

// Event is one retired instruction. Opcode is the first byte read during the
// step, which is the vector table entry when a hardware interrupt was taken.
type Event struct {
	Opcode byte    `json:"opcode"`
	At     string  `json:"at"`
	Before Regs    `json:"before"`
	After  Regs    `json:"after"`
	Reads  []MemOp `json:"reads,omitempty"`
	Writes []MemOp `json:"writes,omitempty"`

	// Dropped counts accesses beyond MaxMemOps.
	Dropped int `json:"dropped,omitempty"`
}

type Regs struct {
	Values [12]uint16 `json:"regs"`
	IP     uint16     `json:"ip"`
	Flags  uint16     `json:"flags"`
}

func snapshot(r *processor.Registers) Regs {
	return Regs{Values: r.GetValues(), IP: r.IP, Flags: r.Load()}
}

type MemOp struct {
	Addr memory.Pointer `json:"addr"`
	Data byte           `json:"data"`
}

func appendOp(ops []MemOp, dropped *int, addr memory.Pointer, data byte) []MemOp {
	if len(ops) >= MaxMemOps {
		*dropped++
		return ops
	}
	return append(ops, MemOp{addr, data})
}
