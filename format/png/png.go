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

// Package png reads the chunk structure of PNG files.
//
// Image decoders normalise the pixel format of PNG images and lose some of
// the information needed to embed the compressed data unchanged into a PDF
// file: the bit depth as stored, the interlace flag and the raw palette.
// This package recovers these facts directly from the chunks.
package png

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"io"

	"github.com/imgpdf/img2pdf/format"
)

// Signature is the 8-byte header of every PNG file.
const Signature = "\x89PNG\r\n\x1a\n"

// Color types, as stored in the IHDR chunk.
const (
	ColorGray      = 0
	ColorRGB       = 2
	ColorPalette   = 3
	ColorGrayAlpha = 4
	ColorRGBA      = 6
)

// Info describes a PNG file.
type Info struct {
	Width, Height int
	BitDepth      int
	ColorType     int
	Interlaced    bool

	// IDAT is the concatenation of all IDAT chunks, in file order.
	IDAT []byte

	// Palette holds the contents of the PLTE chunk, three bytes per entry.
	Palette []byte

	// Transparency holds the contents of the tRNS chunk.
	Transparency []byte

	// ICCProfile is the decompressed embedded color profile, if any.
	ICCProfile []byte

	// DPIX and DPIY give the resolution from the pHYs chunk, or zero if
	// no absolute resolution is given.
	DPIX, DPIY float64
}

// Channels returns the number of samples per pixel.
func (info *Info) Channels() int {
	switch info.ColorType {
	case ColorRGB:
		return 3
	case ColorGrayAlpha:
		return 2
	case ColorRGBA:
		return 4
	default:
		return 1
	}
}

// HasAlpha reports whether the image carries an alpha channel.
func (info *Info) HasAlpha() bool {
	return info.ColorType == ColorGrayAlpha || info.ColorType == ColorRGBA
}

func malformed(pos int, msg string) error {
	return format.Errorf("png", int64(pos), msg)
}

// Parse scans the chunks of a PNG file.
func Parse(data []byte) (*Info, error) {
	if !bytes.HasPrefix(data, []byte(Signature)) {
		return nil, malformed(0, "missing signature")
	}
	// the IHDR chunk must come first
	if len(data) < 33 || string(data[12:16]) != "IHDR" {
		return nil, malformed(8, "missing IHDR chunk")
	}

	info := &Info{
		Width:      int(binary.BigEndian.Uint32(data[16:20])),
		Height:     int(binary.BigEndian.Uint32(data[20:24])),
		BitDepth:   int(data[24]),
		ColorType:  int(data[25]),
		Interlaced: data[28] != 0,
	}

	var idat []byte
	pos := len(Signature)
	for pos < len(data) {
		if pos+8 > len(data) {
			return nil, &format.MalformedError{Format: "png", Pos: int64(pos), Err: format.ErrTruncated}
		}
		n := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		tp := string(data[pos+4 : pos+8])
		start := pos + 8
		if n > len(data)-start {
			return nil, &format.MalformedError{Format: "png", Pos: int64(pos), Err: format.ErrTruncated}
		}
		body := data[start : start+n]

		switch tp {
		case "IDAT":
			idat = append(idat, body...)
		case "PLTE":
			info.Palette = append(info.Palette, body...)
		case "tRNS":
			info.Transparency = body
		case "iCCP":
			profile, err := readICCP(body)
			if err != nil {
				return nil, &format.MalformedError{Format: "png", Pos: int64(pos), Err: err}
			}
			info.ICCProfile = profile
		case "pHYs":
			if len(body) == 9 && body[8] == 1 {
				// pixels per meter
				info.DPIX = float64(binary.BigEndian.Uint32(body[0:4])) * 0.0254
				info.DPIY = float64(binary.BigEndian.Uint32(body[4:8])) * 0.0254
			}
		}

		// the CRC is not checked here; the image decoder does that
		pos = start + n + 4
		if tp == "IEND" {
			break
		}
	}
	info.IDAT = idat
	return info, nil
}

func readICCP(body []byte) ([]byte, error) {
	// profile name, NUL, compression method, zlib data
	k := bytes.IndexByte(body, 0)
	if k < 0 || k+2 > len(body) {
		return nil, errICCP
	}
	if body[k+1] != 0 {
		return nil, errICCP
	}
	r, err := zlib.NewReader(bytes.NewReader(body[k+2:]))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

var errICCP = errors.New("invalid iCCP chunk")
