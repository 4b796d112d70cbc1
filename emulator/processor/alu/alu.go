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

// Package alu implements the arithmetic and logic operations of the processor
// together with their flag side effects.
package alu

import (
	"math/bits"

	"github.com/andreas-jonsson/i8086-core/emulator/processor"
)

var parityLookup [256]bool

func init() {
	for i := range parityLookup {
		parityLookup[i] = bits.OnesCount8(uint8(i))%2 == 0
	}
}

// Parity reports the even parity of the low byte.
func Parity(v byte) bool {
	return parityLookup[v]
}

type width struct {
	carry, sign, mask uint32
}

var (
	w8  = width{carry: 0xFF00, sign: 0x80, mask: 0xFF}
	w16 = width{carry: 0xFFFF0000, sign: 0x8000, mask: 0xFFFF}
)

func updateSZP(f *processor.Flags, w width, res uint32) {
	res &= w.mask
	f.SetBool(processor.Sign, res&w.sign != 0)
	f.SetBool(processor.Zero, res == 0)
	f.SetBool(processor.Parity, parityLookup[byte(res)])
}

func updateOACAdd(f *processor.Flags, w width, res, a, b uint32) {
	f.SetBool(processor.Carry, res&w.carry != 0)
	f.SetBool(processor.Adjust, (a^b^res)&0x10 != 0)
	f.SetBool(processor.Overflow, (res^a)&(res^b)&w.sign != 0)
}

func updateOACSub(f *processor.Flags, w width, res, a, b uint32) {
	f.SetBool(processor.Carry, res&w.carry != 0)
	f.SetBool(processor.Adjust, (a^b^res)&0x10 != 0)
	f.SetBool(processor.Overflow, (res^a)&(a^b)&w.sign != 0)
}

func carryIn(f *processor.Flags) uint32 {
	if f.Get(processor.Carry) {
		return 1
	}
	return 0
}

func add(f *processor.Flags, w width, a, b, c uint32) uint32 {
	res := a + b + c
	updateOACAdd(f, w, res, a, b)
	updateSZP(f, w, res)
	return res & w.mask
}

func sub(f *processor.Flags, w width, a, b, c uint32) uint32 {
	res := a - b - c
	updateOACSub(f, w, res, a, b)
	updateSZP(f, w, res)
	return res & w.mask
}

func logic(f *processor.Flags, w width, res uint32) uint32 {
	f.Clear(processor.Carry)
	f.Clear(processor.Overflow)
	f.Clear(processor.Adjust)
	updateSZP(f, w, res)
	return res & w.mask
}

func Add8(f *processor.Flags, a, b byte) byte {
	return byte(add(f, w8, uint32(a), uint32(b), 0))
}

func Add16(f *processor.Flags, a, b uint16) uint16 {
	return uint16(add(f, w16, uint32(a), uint32(b), 0))
}

func Adc8(f *processor.Flags, a, b byte) byte {
	return byte(add(f, w8, uint32(a), uint32(b), carryIn(f)))
}

func Adc16(f *processor.Flags, a, b uint16) uint16 {
	return uint16(add(f, w16, uint32(a), uint32(b), carryIn(f)))
}

func Sub8(f *processor.Flags, a, b byte) byte {
	return byte(sub(f, w8, uint32(a), uint32(b), 0))
}

func Sub16(f *processor.Flags, a, b uint16) uint16 {
	return uint16(sub(f, w16, uint32(a), uint32(b), 0))
}

func Sbb8(f *processor.Flags, a, b byte) byte {
	return byte(sub(f, w8, uint32(a), uint32(b), carryIn(f)))
}

func Sbb16(f *processor.Flags, a, b uint16) uint16 {
	return uint16(sub(f, w16, uint32(a), uint32(b), carryIn(f)))
}

func And8(f *processor.Flags, a, b byte) byte {
	return byte(logic(f, w8, uint32(a&b)))
}

func And16(f *processor.Flags, a, b uint16) uint16 {
	return uint16(logic(f, w16, uint32(a&b)))
}

func Or8(f *processor.Flags, a, b byte) byte {
	return byte(logic(f, w8, uint32(a|b)))
}

func Or16(f *processor.Flags, a, b uint16) uint16 {
	return uint16(logic(f, w16, uint32(a|b)))
}

func Xor8(f *processor.Flags, a, b byte) byte {
	return byte(logic(f, w8, uint32(a^b)))
}

func Xor16(f *processor.Flags, a, b uint16) uint16 {
	return uint16(logic(f, w16, uint32(a^b)))
}

// Inc8 adds one without touching the carry flag.
func Inc8(f *processor.Flags, v byte) byte {
	c := f.Get(processor.Carry)
	res := Add8(f, v, 1)
	f.SetBool(processor.Carry, c)
	return res
}

func Inc16(f *processor.Flags, v uint16) uint16 {
	c := f.Get(processor.Carry)
	res := Add16(f, v, 1)
	f.SetBool(processor.Carry, c)
	return res
}

// Dec8 subtracts one without touching the carry flag.
func Dec8(f *processor.Flags, v byte) byte {
	c := f.Get(processor.Carry)
	res := Sub8(f, v, 1)
	f.SetBool(processor.Carry, c)
	return res
}

func Dec16(f *processor.Flags, v uint16) uint16 {
	c := f.Get(processor.Carry)
	res := Sub16(f, v, 1)
	f.SetBool(processor.Carry, c)
	return res
}

func Neg8(f *processor.Flags, v byte) byte {
	res := Sub8(f, 0, v)
	f.SetBool(processor.Carry, v != 0)
	return res
}

func Neg16(f *processor.Flags, v uint16) uint16 {
	res := Sub16(f, 0, v)
	f.SetBool(processor.Carry, v != 0)
	return res
}

func Not8(_ *processor.Flags, v byte) byte {
	return ^v
}

func Not16(_ *processor.Flags, v uint16) uint16 {
	return ^v
}

// Op is an arithmetic group operation as encoded in bits 3-5 of the opcode
// (or the reg field of the immediate group).
type Op byte

const (
	OpAdd Op = iota
	OpOr
	OpAdc
	OpSbb
	OpAnd
	OpSub
	OpXor
	OpCmp
)

var opNames = [8]string{"add", "or", "adc", "sbb", "and", "sub", "xor", "cmp"}

func (op Op) String() string {
	return opNames[op&7]
}

// Arith8 applies op and reports whether the result should be written back.
func Arith8(f *processor.Flags, op Op, a, b byte) (byte, bool) {
	switch op & 7 {
	case OpAdd:
		return Add8(f, a, b), true
	case OpOr:
		return Or8(f, a, b), true
	case OpAdc:
		return Adc8(f, a, b), true
	case OpSbb:
		return Sbb8(f, a, b), true
	case OpAnd:
		return And8(f, a, b), true
	case OpSub:
		return Sub8(f, a, b), true
	case OpXor:
		return Xor8(f, a, b), true
	default:
		Sub8(f, a, b)
		return a, false
	}
}

func Arith16(f *processor.Flags, op Op, a, b uint16) (uint16, bool) {
	switch op & 7 {
	case OpAdd:
		return Add16(f, a, b), true
	case OpOr:
		return Or16(f, a, b), true
	case OpAdc:
		return Adc16(f, a, b), true
	case OpSbb:
		return Sbb16(f, a, b), true
	case OpAnd:
		return And16(f, a, b), true
	case OpSub:
		return Sub16(f, a, b), true
	case OpXor:
		return Xor16(f, a, b), true
	default:
		Sub16(f, a, b)
		return a, false
	}
}

// Test8 computes the flags of a and b without producing a result.
func Test8(f *processor.Flags, a, b byte) {
	And8(f, a, b)
}

func Test16(f *processor.Flags, a, b uint16) {
	And16(f, a, b)
}
