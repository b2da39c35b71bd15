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

package testimg

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
)

// Segment returns a JPEG marker segment with the given body.
func Segment(marker byte, body []byte) []byte {
	res := []byte{0xff, marker, 0, 0}
	binary.BigEndian.PutUint16(res[2:], uint16(len(body)+2))
	return append(res, body...)
}

// InsertSegments adds marker segments directly after the SOI marker.
func InsertSegments(jpg []byte, segs ...[]byte) []byte {
	res := append([]byte{}, jpg[:2]...)
	for _, s := range segs {
		res = append(res, s...)
	}
	return append(res, jpg[2:]...)
}

// JPEG encodes a w×h test pattern.  With gray set, a one component image
// is written.
func JPEG(w, h int, gray bool) []byte {
	var img image.Image
	if gray {
		g := image.NewGray(image.Rect(0, 0, w, h))
		for y := range h {
			for x := range w {
				g.SetGray(x, y, color.Gray{Y: uint8(x * 255 / w)})
			}
		}
		img = g
	} else {
		c := image.NewRGBA(image.Rect(0, 0, w, h))
		for y := range h {
			for x := range w {
				c.Set(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
			}
		}
		img = c
	}
	buf := &bytes.Buffer{}
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 90}); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// JFIF returns an APP0 segment with the given density.  Unit 1 means dots
// per inch, unit 2 dots per centimetre.
func JFIF(unit byte, x, y uint16) []byte {
	body := []byte("JFIF\x00\x01\x02")
	body = append(body, unit)
	body = binary.BigEndian.AppendUint16(body, x)
	body = binary.BigEndian.AppendUint16(body, y)
	body = append(body, 0, 0)
	return Segment(0xe0, body)
}

// EXIF returns an APP1 segment holding the given orientation tag.
func EXIF(orientation uint32) []byte {
	t := NewTIFF(binary.BigEndian)
	t.AddIFD(Field{Tag: 274, Type: Short, Values: []uint32{orientation}})
	return Segment(0xe1, append([]byte("Exif\x00\x00"), t.Bytes()...))
}

// Adobe returns an APP14 segment with the given color transform.
func Adobe(transform byte) []byte {
	body := []byte("Adobe\x00\x64\x00\x00\x00\x00")
	return Segment(0xee, append(body, transform))
}

// ICC splits a color profile into APP2 segments of at most chunk bytes.
func ICC(profile []byte, chunk int) [][]byte {
	n := (len(profile) + chunk - 1) / chunk
	var res [][]byte
	for i := range n {
		part := profile[i*chunk : min((i+1)*chunk, len(profile))]
		body := append([]byte("ICC_PROFILE\x00"), byte(i+1), byte(n))
		res = append(res, Segment(0xe2, append(body, part...)))
	}
	return res
}

// MPO joins JPEG images into a multi-picture file.  The first image gets
// the MP index, types gives the MP type code of every image.
func MPO(images [][]byte, types []uint32) []byte {
	const base = 2 + 4 + 4 // SOI, APP2 marker and length, "MPF\x00"

	index := func(offsets, sizes []uint32) []byte {
		var entries []byte
		for i := range images {
			entries = binary.LittleEndian.AppendUint32(entries, types[i])
			entries = binary.LittleEndian.AppendUint32(entries, sizes[i])
			entries = binary.LittleEndian.AppendUint32(entries, offsets[i])
			entries = append(entries, 0, 0, 0, 0)
		}
		t := NewTIFF(binary.LittleEndian)
		t.AddIFD(
			Field{Tag: 0xb000, Type: Undefined, Raw: []byte("0100")},
			Field{Tag: 0xb001, Type: Long, Values: []uint32{uint32(len(images))}},
			Field{Tag: 0xb002, Type: Undefined, Raw: entries},
		)
		return Segment(0xe2, append([]byte("MPF\x00"), t.Bytes()...))
	}

	offsets := make([]uint32, len(images))
	sizes := make([]uint32, len(images))
	first := InsertSegments(images[0], index(offsets, sizes))
	pos := len(first)
	sizes[0] = uint32(len(first))
	for i := 1; i < len(images); i++ {
		offsets[i] = uint32(pos - base)
		sizes[i] = uint32(len(images[i]))
		pos += len(images[i])
	}

	res := InsertSegments(images[0], index(offsets, sizes))
	for _, img := range images[1:] {
		res = append(res, img...)
	}
	return res
}
