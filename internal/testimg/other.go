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
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"
	"strings"
)

// PNGChunk returns a PNG chunk, including length and checksum.
func PNGChunk(tp string, body []byte) []byte {
	res := binary.BigEndian.AppendUint32(nil, uint32(len(body)))
	res = append(res, tp...)
	res = append(res, body...)
	return binary.BigEndian.AppendUint32(res, crc32.ChecksumIEEE(res[4:]))
}

// InsertPNGChunk adds a chunk directly after the IHDR chunk.
func InsertPNGChunk(data []byte, tp string, body []byte) []byte {
	const afterIHDR = 8 + 25
	res := append([]byte{}, data[:afterIHDR]...)
	res = append(res, PNGChunk(tp, body)...)
	return append(res, data[afterIHDR:]...)
}

// ICCP returns the body of a PNG iCCP chunk.
func ICCP(profile []byte) []byte {
	buf := &bytes.Buffer{}
	buf.WriteString("icc\x00\x00")
	zw := zlib.NewWriter(buf)
	zw.Write(profile)
	zw.Close()
	return buf.Bytes()
}

// JP2 assembles a JP2 file with the given image header and enumerated
// colorspace.  The codestream is not valid image data.
func JP2(w, h uint32, channels uint16, depth byte, cs uint32) []byte {
	box := func(tp string, body ...[]byte) []byte {
		n := 8
		for _, b := range body {
			n += len(b)
		}
		res := binary.BigEndian.AppendUint32(nil, uint32(n))
		res = append(res, tp...)
		for _, b := range body {
			res = append(res, b...)
		}
		return res
	}

	ihdr := binary.BigEndian.AppendUint32(nil, h)
	ihdr = binary.BigEndian.AppendUint32(ihdr, w)
	ihdr = binary.BigEndian.AppendUint16(ihdr, channels)
	ihdr = append(ihdr, depth-1, 7, 0, 0)
	colr := binary.BigEndian.AppendUint32([]byte{1, 0, 0}, cs)

	var res []byte
	res = append(res, "\x00\x00\x00\x0cjP  \r\n\x87\n"...)
	res = append(res, box("ftyp", []byte("jp2 \x00\x00\x00\x00jp2 "))...)
	res = append(res, box("jp2h", box("ihdr", ihdr), box("colr", colr))...)
	res = append(res, box("jp2c", []byte("\xff\x4f\xff\x51"))...)
	return res
}

// JPEGHeader returns the marker segments of a JPEG file with the given
// number of components, without any image data.
func JPEGHeader(w, h uint16, components int, segs ...[]byte) []byte {
	sof := []byte{8}
	sof = binary.BigEndian.AppendUint16(sof, h)
	sof = binary.BigEndian.AppendUint16(sof, w)
	sof = append(sof, byte(components))
	for i := range components {
		sof = append(sof, byte(i+1), 0x11, 0)
	}

	res := []byte{0xff, 0xd8}
	for _, s := range segs {
		res = append(res, s...)
	}
	res = append(res, Segment(0xc0, sof)...)
	res = append(res, Segment(0xda, []byte{0})...)
	return append(res, 0xff, 0xd9)
}

// MIFF assembles a MIFF image from header lines and the payload.
func MIFF(payload []byte, lines ...string) []byte {
	hdr := "id=ImageMagick\n" + strings.Join(lines, "\n") + "\n\f\n:\x1a"
	return append([]byte(hdr), payload...)
}
