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

// Package disasm turns the instruction stream on a bus into Intel syntax text.
package disasm

import (
	"fmt"
	"strings"

	"golang.org/x/arch/x86/x86asm"

	"github.com/andreas-jonsson/i8086-core/emulator/memory"
)

// MaxInstructionLength is the longest encoding the decoder is offered.
const MaxInstructionLength = 15

type Line struct {
	At    memory.Address
	Bytes []byte
	Text  string
}

func (l Line) String() string {
	var hex strings.Builder
	for _, b := range l.Bytes {
		fmt.Fprintf(&hex, "%02X", b)
	}
	return fmt.Sprintf("%v  %-14s %s", l.At, hex.String(), l.Text)
}

// Decode disassembles the first instruction in code as if it was located at at.
// Undecodable bytes produce a one byte "db" line and the decoder error.
func Decode(code []byte, at memory.Address) (Line, error) {
	inst, err := x86asm.Decode(code, 16)
	if err != nil || inst.Len == 0 {
		if len(code) == 0 {
			return Line{At: at, Text: "(end)"}, err
		}
		return Line{At: at, Bytes: code[:1], Text: fmt.Sprintf("db 0x%02X", code[0])}, err
	}
	text := x86asm.IntelSyntax(inst, uint64(at.Offset()), nil)
	return Line{At: at, Bytes: code[:inst.Len], Text: text}, nil
}

// Cursor walks the instruction stream of a bus. The offset wraps within the segment.
type Cursor struct {
	bus memory.Bus
	At  memory.Address
}

func NewCursor(bus memory.Bus, at memory.Address) *Cursor {
	return &Cursor{bus: bus, At: at}
}

func (c *Cursor) fetch() []byte {
	seg, offset := c.At.Segment(), c.At.Offset()
	code := make([]byte, MaxInstructionLength)
	for i := range code {
		code[i] = c.bus.ReadByte(seg, offset+uint16(i))
	}
	return code
}

// Next decodes the instruction at the cursor and advances past it.
func (c *Cursor) Next() Line {
	ln, _ := Decode(c.fetch(), c.At)
	c.At = memory.NewAddress(c.At.Segment(), c.At.Offset()+uint16(len(ln.Bytes)))
	return ln
}

// Lines decodes n instructions starting at at.
func Lines(bus memory.Bus, at memory.Address, n int) []Line {
	c := NewCursor(bus, at)
	lines := make([]Line, n)
	for i := range lines {
		lines[i] = c.Next()
	}
	return lines
}
