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

package memory

// Bus is the segmented view of the address space that instructions execute against.
// Word and double word accesses are composed from the byte primitives by ReadWord,
// WriteWord, ReadDWord and WriteDWord, so an interceptor only has to implement bytes.
type Bus interface {
	ReadByte(seg, offset uint16) byte
	WriteByte(seg, offset uint16, data byte)
	IsExecutableSelector(seg uint16) bool
}

// ReadWord reads a little-endian word. The second byte wraps at the segment boundary.
func ReadWord(b Bus, seg, offset uint16) uint16 {
	return uint16(b.ReadByte(seg, offset)) | uint16(b.ReadByte(seg, offset+1))<<8
}

func WriteWord(b Bus, seg, offset, data uint16) {
	b.WriteByte(seg, offset, byte(data))
	b.WriteByte(seg, offset+1, byte(data>>8))
}

func ReadDWord(b Bus, seg, offset uint16) uint32 {
	return uint32(ReadWord(b, seg, offset)) | uint32(ReadWord(b, seg, offset+2))<<16
}

func WriteDWord(b Bus, seg, offset uint16, data uint32) {
	WriteWord(b, seg, offset, uint16(data))
	WriteWord(b, seg, offset+2, uint16(data>>16))
}

// SegmentedBus translates segment:offset pairs into physical addresses of a Memory.
type SegmentedBus struct {
	mem Memory
}

func NewSegmentedBus(mem Memory) *SegmentedBus {
	return &SegmentedBus{mem: mem}
}

func (b *SegmentedBus) Memory() Memory {
	return b.mem
}

func (b *SegmentedBus) ReadByte(seg, offset uint16) byte {
	return b.mem.ReadByte(NewPointer(seg, offset))
}

func (b *SegmentedBus) WriteByte(seg, offset uint16, data byte) {
	b.mem.WriteByte(NewPointer(seg, offset), data)
}

func (b *SegmentedBus) ReadWord(seg, offset uint16) uint16 {
	return ReadWord(b, seg, offset)
}

func (b *SegmentedBus) WriteWord(seg, offset, data uint16) {
	WriteWord(b, seg, offset, data)
}

func (b *SegmentedBus) ReadDWord(seg, offset uint16) uint32 {
	return ReadDWord(b, seg, offset)
}

func (b *SegmentedBus) WriteDWord(seg, offset uint16, data uint32) {
	WriteDWord(b, seg, offset, data)
}

// IsExecutableSelector reports whether the segment base is backed by a device.
// Every paragraph is addressable in real mode, so a plain Memory always answers true.
func (b *SegmentedBus) IsExecutableSelector(seg uint16) bool {
	if m, ok := b.mem.(interface{ IsMapped(Pointer) bool }); ok {
		return m.IsMapped(NewPointer(seg, 0))
	}
	return true
}
