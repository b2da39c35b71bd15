// img2pdf - lossless conversion of raster images into PDF files
// Copyright (C) 2026  The imgpdf Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package testimg assembles small image files in memory, for use in tests.
package testimg

import (
	"encoding/binary"
	"slices"
)

// Field types, as in the TIFF specification.
const (
	Byte      = 1
	ASCII     = 2
	Short     = 3
	Long      = 4
	Rational  = 5
	Undefined = 7
)

// Field is one entry of a TIFF directory.  Values is used for the integer
// types (two values per entry for Rational), Raw for all other types.
type Field struct {
	Tag    uint16
	Type   uint16
	Values []uint32
	Raw    []byte
}

// ByteOrder is implemented by binary.LittleEndian and binary.BigEndian.
type ByteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// TIFF builds a TIFF file.
type TIFF struct {
	order ByteOrder
	data  []byte
	dirs  [][]Field
}

// NewTIFF starts a new TIFF file with the given byte order.
func NewTIFF(order ByteOrder) *TIFF {
	hdr := []byte("II\x2a\x00\x00\x00\x00\x00")
	if order == binary.BigEndian {
		hdr = []byte("MM\x00\x2a\x00\x00\x00\x00")
	}
	return &TIFF{order: order, data: hdr}
}

// AddData appends data to the file and returns its offset.
func (t *TIFF) AddData(data []byte) uint32 {
	off := uint32(len(t.data))
	t.data = append(t.data, data...)
	return off
}

// AddIFD appends an image file directory.
func (t *TIFF) AddIFD(fields ...Field) {
	t.dirs = append(t.dirs, fields)
}

func (t *TIFF) encode(f Field) []byte {
	if f.Raw != nil {
		return f.Raw
	}
	var res []byte
	for _, v := range f.Values {
		switch f.Type {
		case Byte, Undefined:
			res = append(res, byte(v))
		case Short:
			res = t.order.AppendUint16(res, uint16(v))
		default:
			res = t.order.AppendUint32(res, v)
		}
	}
	return res
}

func count(f Field) uint32 {
	switch {
	case f.Raw != nil:
		return uint32(len(f.Raw))
	case f.Type == Rational:
		return uint32(len(f.Values) / 2)
	default:
		return uint32(len(f.Values))
	}
}

// Bytes returns the complete file.
func (t *TIFF) Bytes() []byte {
	buf := slices.Clone(t.data)
	link := 4
	for _, fields := range t.dirs {
		if len(buf)%2 == 1 {
			buf = append(buf, 0)
		}
		fields = slices.Clone(fields)
		slices.SortFunc(fields, func(a, b Field) int { return int(a.Tag) - int(b.Tag) })

		ifdOff := len(buf)
		t.order.PutUint32(buf[link:], uint32(ifdOff))
		extraOff := ifdOff + 2 + 12*len(fields) + 4

		var extra []byte
		buf = t.order.AppendUint16(buf, uint16(len(fields)))
		for _, f := range fields {
			val := t.encode(f)
			buf = t.order.AppendUint16(buf, f.Tag)
			buf = t.order.AppendUint16(buf, f.Type)
			buf = t.order.AppendUint32(buf, count(f))
			if len(val) <= 4 {
				var slot [4]byte
				copy(slot[:], val)
				buf = append(buf, slot[:]...)
			} else {
				buf = t.order.AppendUint32(buf, uint32(extraOff+len(extra)))
				extra = append(extra, val...)
				if len(extra)%2 == 1 {
					extra = append(extra, 0)
				}
			}
		}
		link = len(buf)
		buf = append(buf, 0, 0, 0, 0)
		buf = append(buf, extra...)
	}
	return buf
}

// BilevelTIFF returns a one page TIFF file with one bit per pixel and
// photometric interpretation BlackIsZero.
func BilevelTIFF(w, h, compression, fillOrder uint32, strips ...[]byte) []byte {
	b := NewTIFF(binary.LittleEndian)
	var offsets, counts []uint32
	for _, s := range strips {
		offsets = append(offsets, b.AddData(s))
		counts = append(counts, uint32(len(s)))
	}
	rows := h
	if len(strips) > 1 {
		rows = (h + uint32(len(strips)) - 1) / uint32(len(strips))
	}
	b.AddIFD(
		Field{Tag: 256, Type: Short, Values: []uint32{w}},
		Field{Tag: 257, Type: Short, Values: []uint32{h}},
		Field{Tag: 258, Type: Short, Values: []uint32{1}},
		Field{Tag: 259, Type: Short, Values: []uint32{compression}},
		Field{Tag: 262, Type: Short, Values: []uint32{1}},
		Field{Tag: 266, Type: Short, Values: []uint32{fillOrder}},
		Field{Tag: 273, Type: Long, Values: offsets},
		Field{Tag: 278, Type: Short, Values: []uint32{rows}},
		Field{Tag: 279, Type: Long, Values: counts},
	)
	return b.Bytes()
}
