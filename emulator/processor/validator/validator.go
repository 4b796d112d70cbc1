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

// Package validator records the bus traffic and register state of every
// retired instruction, for comparison against a reference implementation.
package validator

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/andreas-jonsson/i8086-core/emulator/memory"
	"github.com/andreas-jonsson/i8086-core/emulator/peripheral"
	"github.com/andreas-jonsson/i8086-core/emulator/processor"
)

// Recorder sits between the processor and its bus. Events are encoded on a
// separate goroutine so the processor only blocks when the queue is full.
type Recorder struct {
	bus       memory.Bus
	p         processor.Processor
	current   Event
	fetchNext bool

	outputChan chan Event
	quitChan   chan error
}

func New(w io.Writer, queueSize int) *Recorder {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	r := &Recorder{
		outputChan: make(chan Event, queueSize),
		quitChan:   make(chan error, 1),
	}

	go func() {
		enc := NewEncoder(w)
		var err error
		for ev := range r.outputChan {
			if err != nil {
				continue
			}
			if err = enc.Encode(ev); err != nil {
				logrus.WithError(err).Error("could not encode trace event")
			}
		}
		if cerr := enc.Close(); err == nil {
			err = cerr
		}
		r.quitChan <- err
	}()
	return r
}

// Attach interposes the recorder on the active bus of p. Install does this
// for a machine; Attach is for processors driven directly.
func (r *Recorder) Attach(p processor.Processor) {
	r.p = p
	r.bus = p.ActiveBus()
	p.SetActiveBus(r)
	r.begin()
}

func (r *Recorder) begin() {
	regs := r.p.GetRegisters()
	r.current = Event{
		Before: snapshot(regs),
		At:     memory.NewAddress(regs.CS(), regs.IP).String(),
	}
	r.fetchNext = true
}

func (r *Recorder) ReadByte(seg, offset uint16) byte {
	data := r.bus.ReadByte(seg, offset)
	if r.fetchNext {
		r.current.Opcode = data
		r.fetchNext = false
	}
	r.current.Reads = appendOp(r.current.Reads, &r.current.Dropped, memory.NewPointer(seg, offset), data)
	return data
}

func (r *Recorder) WriteByte(seg, offset uint16, data byte) {
	r.current.Writes = appendOp(r.current.Writes, &r.current.Dropped, memory.NewPointer(seg, offset), data)
	r.bus.WriteByte(seg, offset, data)
}

func (r *Recorder) IsExecutableSelector(seg uint16) bool {
	return r.bus.IsExecutableSelector(seg)
}

// Retired completes the current event.
func (r *Recorder) Retired(p processor.Processor) bool {
	r.current.After = snapshot(p.GetRegisters())
	if r.current.Dropped > 0 {
		logrus.WithFields(logrus.Fields{
			"at":      r.current.At,
			"dropped": r.current.Dropped,
		}).Warn("trace event truncated")
	}
	r.outputChan <- r.current
	r.begin()
	return true
}

func (r *Recorder) Interrupt(processor.Processor, byte) bool {
	return true
}

// Discard drops the accesses of an instruction that did not retire.
func (r *Recorder) Discard() {
	if r.p != nil {
		r.begin()
	}
}

func (r *Recorder) Install(h peripheral.Host) error {
	r.Attach(h.Processor())
	h.InstallStepHook(r)
	return nil
}

func (r *Recorder) Name() string {
	return "Trace Recorder"
}

func (r *Recorder) Reset() {
	r.Discard()
}

func (r *Recorder) Step(int) error {
	return nil
}

// Close flushes queued events and finishes the compressed stream.
func (r *Recorder) Close() error {
	close(r.outputChan)
	return <-r.quitChan
}
