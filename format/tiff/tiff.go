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

// Package tiff walks the image file directories of TIFF files.
//
// The same structure is used inside JPEG files for EXIF data and for the
// index of multi-picture (MPO) files, so the walker works on any byte slice
// which starts with a TIFF header.
package tiff

import (
	"encoding/binary"
	"math"

	"github.com/imgpdf/img2pdf/format"
)

// Header bytes for the two byte orders.
const (
	HeaderLE = "II\x2a\x00"
	HeaderBE = "MM\x00\x2a"
)

// Field types.
const (
	TypeByte      = 1
	TypeASCII     = 2
	TypeShort     = 3
	TypeLong      = 4
	TypeRational  = 5
	TypeSByte     = 6
	TypeUndefined = 7
	TypeSShort    = 8
	TypeSLong     = 9
	TypeSRational = 10
	TypeFloat     = 11
	TypeDouble    = 12
)

var typeSize = [...]int{0, 1, 1, 2, 4, 8, 1, 1, 2, 4, 8, 4, 8}

// Tags used by this module.
const (
	TagImageWidth      = 256
	TagImageLength     = 257
	TagBitsPerSample   = 258
	TagCompression     = 259
	TagPhotometric     = 262
	TagFillOrder       = 266
	TagStripOffsets    = 273
	TagOrientation     = 274
	TagSamplesPerPixel = 277
	TagRowsPerStrip    = 278
	TagStripByteCounts = 279
	TagXResolution     = 282
	TagYResolution     = 283
	TagResolutionUnit  = 296
	TagExtraSamples    = 338
	TagICCProfile      = 34675
)

// Compression schemes.
const (
	CompressionNone   = 1
	CompressionG3     = 3
	CompressionG4     = 4
	CompressionLZW    = 5
	CompressionJPEG   = 7
	CompressionFlate  = 8
	CompressionPacked = 32773
)

// Photometric interpretations.
const (
	PhotometricMinIsWhite = 0
	PhotometricMinIsBlack = 1
	PhotometricRGB        = 2
	PhotometricPalette    = 3
	PhotometricSeparated  = 5
)

// maxIFDs bounds the length of the directory chain.
const maxIFDs = 65536

// Entry is one field of an image file directory.
type Entry struct {
	Tag   uint16
	Type  uint16
	Count uint32

	// Value holds the Count*size bytes of the field, in file byte order.
	Value []byte
}

// IFD is an image file directory.
type IFD struct {
	Order   binary.ByteOrder
	Offset  uint32
	Entries map[uint16]*Entry
}

// File is the directory structure of a TIFF file.
type File struct {
	Order binary.ByteOrder
	IFDs  []*IFD
}

func malformed(pos int64, msg string) error {
	return format.Errorf("tiff", pos, msg)
}

// Order returns the byte order given by a TIFF header, or nil if data does
// not start with a TIFF header.
func Order(data []byte) binary.ByteOrder {
	if len(data) < 8 {
		return nil
	}
	switch string(data[:4]) {
	case HeaderLE:
		return binary.LittleEndian
	case HeaderBE:
		return binary.BigEndian
	}
	return nil
}

// IsTIFF reports whether data starts with a (classic) TIFF header.
func IsTIFF(data []byte) bool {
	return Order(data) != nil
}

// Parse reads the chain of image file directories.  Offsets inside the
// directories are relative to the start of data.
func Parse(data []byte) (*File, error) {
	order := Order(data)
	if order == nil {
		if len(data) >= 4 && (string(data[:4]) == "II\x2b\x00" || string(data[:4]) == "MM\x00\x2b") {
			return nil, malformed(0, "BigTIFF is not supported")
		}
		return nil, malformed(0, "missing header")
	}

	f := &File{Order: order}
	seen := make(map[uint32]bool)
	offset := order.Uint32(data[4:8])
	for offset != 0 {
		if seen[offset] {
			return nil, malformed(int64(offset), "loop in directory chain")
		}
		if len(f.IFDs) >= maxIFDs {
			return nil, malformed(int64(offset), "too many directories")
		}
		seen[offset] = true

		ifd, next, err := ReadIFD(data, order, offset)
		if err != nil {
			return nil, err
		}
		f.IFDs = append(f.IFDs, ifd)
		offset = next
	}
	if len(f.IFDs) == 0 {
		return nil, malformed(4, "no image directory")
	}
	return f, nil
}

// ReadIFD reads the directory at the given offset and returns it together
// with the offset of the next directory.
func ReadIFD(data []byte, order binary.ByteOrder, offset uint32) (*IFD, uint32, error) {
	pos := int64(offset)
	if pos+2 > int64(len(data)) {
		return nil, 0, &format.MalformedError{Format: "tiff", Pos: pos, Err: format.ErrTruncated}
	}
	n := int64(order.Uint16(data[pos:]))
	end := pos + 2 + 12*n
	if end > int64(len(data)) {
		return nil, 0, &format.MalformedError{Format: "tiff", Pos: pos, Err: format.ErrTruncated}
	}

	ifd := &IFD{
		Order:   order,
		Offset:  offset,
		Entries: make(map[uint16]*Entry, n),
	}
	for i := range n {
		p := pos + 2 + 12*i
		e := &Entry{
			Tag:   order.Uint16(data[p:]),
			Type:  order.Uint16(data[p+2:]),
			Count: order.Uint32(data[p+4:]),
		}
		if int(e.Type) >= len(typeSize) || e.Type == 0 {
			// unknown types must be ignored
			continue
		}
		size := int64(typeSize[e.Type]) * int64(e.Count)
		if size <= 4 {
			e.Value = data[p+8 : p+8+size]
		} else {
			start := int64(order.Uint32(data[p+8:]))
			if start+size > int64(len(data)) {
				return nil, 0, &format.MalformedError{Format: "tiff", Pos: p, Err: format.ErrTruncated}
			}
			e.Value = data[start : start+size]
		}
		ifd.Entries[e.Tag] = e
	}

	var next uint32
	if end+4 <= int64(len(data)) {
		next = order.Uint32(data[end:])
	}
	return ifd, next, nil
}

// Has reports whether the directory contains the given tag.
func (ifd *IFD) Has(tag uint16) bool {
	_, ok := ifd.Entries[tag]
	return ok
}

// Uints returns the values of an integer field.
func (ifd *IFD) Uints(tag uint16) []uint32 {
	e := ifd.Entries[tag]
	if e == nil {
		return nil
	}
	res := make([]uint32, e.Count)
	for i := range res {
		switch e.Type {
		case TypeByte, TypeUndefined:
			res[i] = uint32(e.Value[i])
		case TypeSByte:
			res[i] = uint32(int8(e.Value[i]))
		case TypeShort:
			res[i] = uint32(ifd.Order.Uint16(e.Value[2*i:]))
		case TypeSShort:
			res[i] = uint32(int16(ifd.Order.Uint16(e.Value[2*i:])))
		case TypeLong, TypeSLong:
			res[i] = ifd.Order.Uint32(e.Value[4*i:])
		default:
			return nil
		}
	}
	return res
}

// Uint returns the first value of an integer field.
func (ifd *IFD) Uint(tag uint16) (uint32, bool) {
	vals := ifd.Uints(tag)
	if len(vals) == 0 {
		return 0, false
	}
	return vals[0], true
}

// UintDefault is like Uint, but returns def if the field is missing.
func (ifd *IFD) UintDefault(tag uint16, def uint32) uint32 {
	val, ok := ifd.Uint(tag)
	if !ok {
		return def
	}
	return val
}

// Bytes returns the raw value of a field.
func (ifd *IFD) Bytes(tag uint16) []byte {
	e := ifd.Entries[tag]
	if e == nil {
		return nil
	}
	return e.Value
}

// Rational returns the first value of a rational or floating point field.
func (ifd *IFD) Rational(tag uint16) (float64, bool) {
	e := ifd.Entries[tag]
	if e == nil || e.Count == 0 {
		return 0, false
	}
	switch e.Type {
	case TypeRational:
		num := ifd.Order.Uint32(e.Value)
		den := ifd.Order.Uint32(e.Value[4:])
		if den == 0 {
			return 0, false
		}
		return float64(num) / float64(den), true
	case TypeSRational:
		num := int32(ifd.Order.Uint32(e.Value))
		den := int32(ifd.Order.Uint32(e.Value[4:]))
		if den == 0 {
			return 0, false
		}
		return float64(num) / float64(den), true
	case TypeFloat:
		return float64(math.Float32frombits(ifd.Order.Uint32(e.Value))), true
	case TypeDouble:
		return math.Float64frombits(ifd.Order.Uint64(e.Value)), true
	}
	if v, ok := ifd.Uint(tag); ok {
		return float64(v), true
	}
	return 0, false
}

// Resolution returns the image resolution in dots per inch.  Zero values
// are returned if the directory gives no absolute resolution.
func (ifd *IFD) Resolution() (dpiX, dpiY float64) {
	var scale float64
	switch ifd.UintDefault(TagResolutionUnit, 2) {
	case 2:
		scale = 1
	case 3:
		scale = 2.54
	default:
		return 0, 0
	}
	x, okX := ifd.Rational(TagXResolution)
	y, okY := ifd.Rational(TagYResolution)
	if !okX || !okY || x <= 0 || y <= 0 {
		return 0, 0
	}
	return x * scale, y * scale
}
