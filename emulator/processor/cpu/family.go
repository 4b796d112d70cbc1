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

// family groups opcodes that share a decoding form and handler.
type family byte

const (
	famInvalid family = iota
	famPrefix
	famArith
	famPushSeg
	famPopSeg
	famAdjust
	famIncDecReg
	famPushReg
	famPopReg
	famPushAll
	famPopAll
	famBound
	famPushImm
	famIMulImm
	famString
	famJcc
	famGroup1
	famTest
	famXchg
	famMov
	famMovSeg
	famLea
	famPopRM
	famXchgAcc
	famConvert
	famCallFar
	famWait
	famPushf
	famPopf
	famFlagsAH
	famMovAccMem
	famTestAcc
	famMovRegImm
	famRet
	famRetFar
	famLoadFar
	famMovRMImm
	famEnter
	famLeave
	famInterrupt
	famIret
	famShift
	famAsciiAdjust
	famSalc
	famXlat
	famEscape
	famLoop
	famInOut
	famCallNear
	famJmp
	famJmpFar
	famHlt
	famCmc
	famGroup3
	famFlag
	famGroup4
	famGroup5

	numFamilies
)

var familyNames = [numFamilies]string{
	"invalid", "prefix", "arith", "push seg", "pop seg", "adjust", "inc/dec reg", "push reg",
	"pop reg", "pusha", "popa", "bound", "push imm", "imul imm", "string", "jcc",
	"group 1", "test", "xchg", "mov", "mov seg", "lea", "pop r/m", "xchg acc",
	"convert", "call far", "wait", "pushf", "popf", "sahf/lahf", "mov acc/mem", "test acc",
	"mov reg/imm", "ret", "retf", "les/lds", "mov r/m,imm", "enter", "leave", "int",
	"iret", "shift", "aam/aad", "salc", "xlat", "escape", "loop", "in/out",
	"call", "jmp", "jmp far", "hlt", "cmc", "group 3", "flag", "group 4",
	"group 5",
}

func (f family) String() string {
	if f >= numFamilies {
		return "unknown"
	}
	return familyNames[f]
}

var opcodeFamily [0x100]family

func assign(f family, opcodes ...int) {
	for _, op := range opcodes {
		opcodeFamily[op] = f
	}
}

func assignRange(f family, from, to int) {
	for op := from; op <= to; op++ {
		opcodeFamily[op] = f
	}
}

func init() {
	for base := 0x00; base < 0x40; base += 8 {
		assignRange(famArith, base, base+5)
	}
	assign(famPushSeg, 0x06, 0x0E, 0x16, 0x1E)
	assign(famPopSeg, 0x07, 0x0F, 0x17, 0x1F)
	assign(famPrefix, 0x26, 0x2E, 0x36, 0x3E, 0xF0, 0xF1, 0xF2, 0xF3)
	assign(famAdjust, 0x27, 0x2F, 0x37, 0x3F)
	assignRange(famIncDecReg, 0x40, 0x4F)
	assignRange(famPushReg, 0x50, 0x57)
	assignRange(famPopReg, 0x58, 0x5F)

	assign(famPushAll, 0x60)
	assign(famPopAll, 0x61)
	assign(famBound, 0x62)
	assign(famPushImm, 0x68, 0x6A)
	assign(famIMulImm, 0x69, 0x6B)
	assignRange(famString, 0x6C, 0x6F)

	assignRange(famJcc, 0x70, 0x7F)
	assignRange(famGroup1, 0x80, 0x83)
	assign(famTest, 0x84, 0x85)
	assign(famXchg, 0x86, 0x87)
	assignRange(famMov, 0x88, 0x8B)
	assign(famMovSeg, 0x8C, 0x8E)
	assign(famLea, 0x8D)
	assign(famPopRM, 0x8F)

	assignRange(famXchgAcc, 0x90, 0x97)
	assign(famConvert, 0x98, 0x99)
	assign(famCallFar, 0x9A)
	assign(famWait, 0x9B)
	assign(famPushf, 0x9C)
	assign(famPopf, 0x9D)
	assign(famFlagsAH, 0x9E, 0x9F)

	assignRange(famMovAccMem, 0xA0, 0xA3)
	assignRange(famString, 0xA4, 0xA7)
	assign(famTestAcc, 0xA8, 0xA9)
	assignRange(famString, 0xAA, 0xAF)
	assignRange(famMovRegImm, 0xB0, 0xBF)

	assign(famShift, 0xC0, 0xC1)
	assign(famRet, 0xC2, 0xC3)
	assign(famLoadFar, 0xC4, 0xC5)
	assign(famMovRMImm, 0xC6, 0xC7)
	assign(famEnter, 0xC8)
	assign(famLeave, 0xC9)
	assign(famRetFar, 0xCA, 0xCB)
	assign(famInterrupt, 0xCC, 0xCD, 0xCE)
	assign(famIret, 0xCF)

	assignRange(famShift, 0xD0, 0xD3)
	assign(famAsciiAdjust, 0xD4, 0xD5)
	assign(famSalc, 0xD6)
	assign(famXlat, 0xD7)
	assignRange(famEscape, 0xD8, 0xDF)

	assignRange(famLoop, 0xE0, 0xE3)
	assignRange(famInOut, 0xE4, 0xE7)
	assign(famCallNear, 0xE8)
	assign(famJmp, 0xE9, 0xEB)
	assign(famJmpFar, 0xEA)
	assignRange(famInOut, 0xEC, 0xEF)

	assign(famHlt, 0xF4)
	assign(famCmc, 0xF5)
	assign(famGroup3, 0xF6, 0xF7)
	assignRange(famFlag, 0xF8, 0xFD)
	assign(famGroup4, 0xFE)
	assign(famGroup5, 0xFF)
}

// isStringOp reports whether the opcode honours the repeat prefixes.
func isStringOp(op byte) bool {
	return opcodeFamily[op] == famString
}

// isCompareString reports whether the repeat condition also tests the zero flag.
func isCompareString(op byte) bool {
	switch op {
	case 0xA6, 0xA7, 0xAE, 0xAF:
		return true
	}
	return false
}
