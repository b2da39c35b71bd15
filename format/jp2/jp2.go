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

// Package jp2 reads the header boxes of JPEG 2000 files.
//
// Both the JP2 container format and raw J2K codestreams are recognised.
package jp2

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/imgpdf/img2pdf/format"
)

// Signature is the JP2 signature box which starts every JP2 file.
const Signature = "\x00\x00\x00\x0cjP  \r\n\x87\n"

// CodestreamMagic starts a raw J2K codestream: SOC followed by SIZ.
const CodestreamMagic = "\xff\x4f\xff\x51"

// Colorspace is the enumerated colorspace from the colr box.
type Colorspace int

// These are the enumerated colorspaces supported by this package.
const (
	ColorspaceUnknown Colorspace = 0
	SRGB              Colorspace = 16
	Greyscale         Colorspace = 17
)

func (cs Colorspace) String() string {
	switch cs {
	case SRGB:
		return "sRGB"
	case Greyscale:
		return "greyscale"
	default:
		return fmt.Sprintf("jp2.Colorspace(%d)", int(cs))
	}
}

// Info describes a JPEG 2000 image.
type Info struct {
	Width, Height int
	Channels      int
	BitDepth      int
	Colorspace    Colorspace

	// DPIX and DPIY are the capture resolution from the resc box, or zero.
	DPIX, DPIY float64

	// Raw is true if the data is a bare codestream without JP2 container.
	Raw bool
}

// IsJP2 reports whether data starts with the JP2 signature box.
func IsJP2(data []byte) bool {
	return bytes.HasPrefix(data, []byte(Signature))
}

// IsCodestream reports whether data is a raw J2K codestream.
func IsCodestream(data []byte) bool {
	return bytes.HasPrefix(data, []byte(CodestreamMagic))
}

// Parse reads the header information from a JP2 file or a raw J2K
// codestream.
func Parse(data []byte) (*Info, error) {
	if IsCodestream(data) {
		return parseCodestream(data)
	}
	if !IsJP2(data) {
		return nil, format.Errorf("jp2", 0, "missing signature")
	}

	info := &Info{}
	err := walkBoxes(data, 0, func(tp string, body []byte, pos int) error {
		if tp == "jp2h" {
			return parseJP2H(info, body, pos)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch {
	case info.Width == 0 || info.Height == 0:
		return nil, format.Errorf("jp2", -1, "no image size in header")
	case info.Colorspace == ColorspaceUnknown:
		return nil, format.Errorf("jp2", -1, "no colorspace in header")
	}
	return info, nil
}

// walkBoxes calls fn for every box in data.  The offset base is used for
// error messages only.
func walkBoxes(data []byte, base int, fn func(tp string, body []byte, pos int) error) error {
	pos := 0
	for pos < len(data) {
		if len(data)-pos < 8 {
			return &format.MalformedError{Format: "jp2", Pos: int64(base + pos), Err: format.ErrTruncated}
		}
		length := uint64(binary.BigEndian.Uint32(data[pos:]))
		tp := string(data[pos+4 : pos+8])
		headerLen := 8
		switch length {
		case 0: // the box extends to the end of the data
			length = uint64(len(data) - pos)
		case 1: // 64-bit extended length
			if len(data)-pos < 16 {
				return &format.MalformedError{Format: "jp2", Pos: int64(base + pos), Err: format.ErrTruncated}
			}
			length = binary.BigEndian.Uint64(data[pos+8:])
			headerLen = 16
		}
		if length < uint64(headerLen) || length > uint64(len(data)-pos) {
			return &format.MalformedError{Format: "jp2", Pos: int64(base + pos), Err: format.ErrTruncated}
		}

		end := pos + int(length)
		err := fn(tp, data[pos+headerLen:end], base+pos+headerLen)
		if err != nil {
			return err
		}
		pos = end
	}
	return nil
}

func parseJP2H(info *Info, data []byte, base int) error {
	return walkBoxes(data, base, func(tp string, body []byte, pos int) error {
		switch tp {
		case "ihdr":
			if len(body) < 11 {
				return format.Errorf("jp2", int64(pos), "short ihdr box")
			}
			info.Height = int(binary.BigEndian.Uint32(body[0:4]))
			info.Width = int(binary.BigEndian.Uint32(body[4:8]))
			info.Channels = int(binary.BigEndian.Uint16(body[8:10]))
			info.BitDepth = int(body[10]&0x7f) + 1
		case "colr":
			if len(body) < 7 {
				return format.Errorf("jp2", int64(pos), "short colr box")
			}
			if body[0] != 1 {
				return format.Errorf("jp2", int64(pos), "only enumerated colorspaces are supported")
			}
			cs := Colorspace(binary.BigEndian.Uint32(body[3:7]))
			if cs != SRGB && cs != Greyscale {
				return &format.MalformedError{
					Format: "jp2",
					Pos:    int64(pos),
					Err:    fmt.Errorf("unsupported colorspace %d", int(cs)),
				}
			}
			info.Colorspace = cs
		case "res ":
			return walkBoxes(body, pos, func(tp string, body []byte, pos int) error {
				if tp != "resc" {
					return nil
				}
				if len(body) < 10 {
					return format.Errorf("jp2", int64(pos), "short resc box")
				}
				info.DPIY = resolution(body[0:2], body[2:4], body[8])
				info.DPIX = resolution(body[4:6], body[6:8], body[9])
				return nil
			})
		}
		return nil
	})
}

// resolution converts a resc box entry into the resolution reported for
// the image, num/den * 10^exp * 100 / 2.54.
func resolution(num, den []byte, exp byte) float64 {
	n := float64(binary.BigEndian.Uint16(num))
	d := float64(binary.BigEndian.Uint16(den))
	if d == 0 {
		return 0
	}
	return n / d * math.Pow(10, float64(int8(exp))) * 100 / 2.54
}

// parseCodestream reads the SIZ marker segment at the start of a raw
// codestream.
func parseCodestream(data []byte) (*Info, error) {
	const sizStart = 4 // after SOC and the SIZ marker
	if len(data) < 42 {
		return nil, &format.MalformedError{Format: "j2k", Pos: sizStart, Err: format.ErrTruncated}
	}
	siz := data[sizStart:]
	xsiz := binary.BigEndian.Uint32(siz[4:8])
	ysiz := binary.BigEndian.Uint32(siz[8:12])
	xosiz := binary.BigEndian.Uint32(siz[12:16])
	yosiz := binary.BigEndian.Uint32(siz[16:20])
	csiz := int(binary.BigEndian.Uint16(siz[36:38]))
	if xosiz > xsiz || yosiz > ysiz {
		return nil, format.Errorf("j2k", sizStart+4, "invalid image offset")
	}
	if csiz != 3 {
		return nil, format.Errorf("j2k", sizStart+36, "only RGB codestreams are supported")
	}
	comps := siz[38:]
	if len(comps) < 3*csiz {
		return nil, &format.MalformedError{Format: "j2k", Pos: sizStart + 38, Err: format.ErrTruncated}
	}
	for i := 0; i < csiz; i++ {
		if comps[3*i] != 7 {
			return nil, format.Errorf("j2k", int64(sizStart+38+3*i), "only 8-bit unsigned components are supported")
		}
	}

	return &Info{
		Width:      int(xsiz - xosiz),
		Height:     int(ysiz - yosiz),
		Channels:   csiz,
		BitDepth:   8,
		Colorspace: SRGB,
		Raw:        true,
	}, nil
}
