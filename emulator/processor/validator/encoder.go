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
	"bufio"
	"compress/gzip"
	"encoding/json"
	"errors"
	"io"
)

// Encoder writes events as gzip compressed JSON lines.
type Encoder struct {
	writer *gzip.Writer
	enc    *json.Encoder
}

func NewEncoder(w io.Writer) *Encoder {
	gz := gzip.NewWriter(w)
	return &Encoder{writer: gz, enc: json.NewEncoder(gz)}
}

func (enc *Encoder) Encode(ev Event) error {
	return enc.enc.Encode(ev)
}

func (enc *Encoder) Close() error {
	return enc.writer.Close()
}

// Decoder reads a stream written by Encoder.
type Decoder struct {
	reader *gzip.Reader
	dec    *json.Decoder
}

func NewDecoder(r io.Reader) (*Decoder, error) {
	gz, err := gzip.NewReader(bufio.NewReader(r))
	if err != nil {
		return nil, err
	}
	return &Decoder{reader: gz, dec: json.NewDecoder(gz)}, nil
}

// Decode returns io.EOF after the last event.
func (dec *Decoder) Decode() (Event, error) {
	var ev Event
	err := dec.dec.Decode(&ev)
	return ev, err
}

func (dec *Decoder) Close() error {
	return dec.reader.Close()
}

// ReadAll decodes every event in r.
func ReadAll(r io.Reader) ([]Event, error) {
	dec, err := NewDecoder(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var events []Event
	for {
		ev, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return events, nil
		} else if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
}
