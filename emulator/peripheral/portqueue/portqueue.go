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

// Package portqueue scripts port I/O. Reads are served from a per-port FIFO and
// writes are captured per port, so programs can be tested without device models.
package portqueue

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/andreas-jonsson/i8086-core/emulator/peripheral"
)

type Device struct {
	// Ports the device is installed at. Empty means the whole port space.
	Ports []uint16

	// Default is returned for reads with an empty queue.
	Default byte

	reads  map[uint16][]byte
	writes map[uint16][]byte
}

func New(ports ...uint16) *Device {
	m := &Device{Ports: ports, Default: 0xFF}
	m.Reset()
	return m
}

// Expect queues bytes to be returned by reads of port.
func (m *Device) Expect(port uint16, data ...byte) {
	m.init()
	m.reads[port] = append(m.reads[port], data...)
}

// ExpectWord queues a word read as two byte reads of port and port+1.
func (m *Device) ExpectWord(port, data uint16) {
	m.Expect(port, byte(data))
	m.Expect(port+1, byte(data>>8))
}

// Pending returns the number of queued reads left for port.
func (m *Device) Pending(port uint16) int {
	return len(m.reads[port])
}

// Written returns every byte written to port in order.
func (m *Device) Written(port uint16) []byte {
	return m.writes[port]
}

// Touched returns the ports that have been written, sorted.
func (m *Device) Touched() []uint16 {
	ports := make([]uint16, 0, len(m.writes))
	for p := range m.writes {
		ports = append(ports, p)
	}
	sort.Slice(ports, func(i, j int) bool { return ports[i] < ports[j] })
	return ports
}

func (m *Device) init() {
	if m.reads == nil {
		m.reads = make(map[uint16][]byte)
	}
	if m.writes == nil {
		m.writes = make(map[uint16][]byte)
	}
}

func (m *Device) In(port uint16) byte {
	q := m.reads[port]
	if len(q) == 0 {
		logrus.WithField("port", fmt.Sprintf("0x%X", port)).Debug("port queue empty")
		return m.Default
	}
	m.reads[port] = q[1:]
	return q[0]
}

func (m *Device) Out(port uint16, data byte) {
	m.init()
	m.writes[port] = append(m.writes[port], data)
}

func (m *Device) Install(h peripheral.Host) error {
	if len(m.Ports) == 0 {
		return h.InstallIODevice(m, 0, 0xFFFF)
	}
	return h.InstallIODeviceAt(m, m.Ports...)
}

func (m *Device) Name() string {
	return "Port Queue"
}

func (m *Device) Reset() {
	m.reads = make(map[uint16][]byte)
	m.writes = make(map[uint16][]byte)
}

func (m *Device) Step(int) error {
	return nil
}
