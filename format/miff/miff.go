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

// Package miff reads ImageMagick MIFF files.
//
// A MIFF file consists of a text header with key=value pairs, terminated
// by ":\x1a", followed by the uncompressed pixel data.  Several images can
// be concatenated in one file.
package miff

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/imgpdf/img2pdf/format"
)

// Magic starts every MIFF image header.
const Magic = "id=ImageMagick"

const headerEnd = ":\x1a"

// Image is one image from a MIFF file.
type Image struct {
	Class      string // "DirectClass" or "PseudoClass"
	Colorspace string // "sRGB", "CMYK" or "Gray"
	Depth      int    // bits per sample: 8, 16 or 32
	Colors     int    // number of palette entries, for PseudoClass images
	Matte      bool   // the image has an alpha channel
	Columns    int
	Rows       int

	// DPIX and DPIY are the image resolution, or zero if not given.
	DPIX, DPIY float64

	// ICCProfile holds the embedded color profile, if any.
	ICCProfile []byte

	// Palette holds the color map of a PseudoClass image: 3 samples of
	// Depth bits for each entry.
	Palette []byte

	// Pixels holds the samples (DirectClass) or the palette indices
	// (PseudoClass), interleaved.
	Pixels []byte
}

// Channels returns the number of samples stored per pixel.
func (img *Image) Channels() int {
	n := 1
	if img.Class == "DirectClass" {
		switch img.Colorspace {
		case "sRGB", "RGB":
			n = 3
		case "CMYK":
			n = 4
		}
	}
	if img.Matte {
		n++
	}
	return n
}

// IsMIFF reports whether data starts like a MIFF file.
func IsMIFF(data []byte) bool {
	return bytes.HasPrefix(data, []byte(Magic))
}

// Parse reads all images from a MIFF file.
func Parse(data []byte) ([]*Image, error) {
	var res []*Image
	pos := 0
	for {
		img, n, err := parseOne(data[pos:], pos)
		if err != nil {
			return nil, err
		}
		res = append(res, img)
		pos += n

		// skip separating white space
		for pos < len(data) && isSpace(data[pos]) {
			pos++
		}
		if pos == len(data) {
			break
		}
		if !bytes.HasPrefix(data[pos:], []byte(Magic)) {
			return nil, format.Errorf("miff", int64(pos), "unexpected data after image")
		}
	}
	return res, nil
}

// parseOne reads one image from the start of data and returns the number
// of bytes used.  The offset base is used for error messages.
func parseOne(data []byte, base int) (*Image, int, error) {
	end := bytes.Index(data, []byte(headerEnd))
	if !bytes.HasPrefix(data, []byte(Magic)) || end < 0 {
		return nil, 0, format.Errorf("miff", int64(base), "missing MIFF header")
	}
	fields, err := parseHeader(data[:end])
	if err != nil {
		return nil, 0, &format.MalformedError{Format: "miff", Pos: int64(base), Err: err}
	}

	img := &Image{
		Class:      "DirectClass",
		Colorspace: "sRGB",
		Depth:      8,
	}
	errorAt := func(msg string) error {
		return format.Errorf("miff", int64(base), msg)
	}
	var profileLen int
	var units string
	for _, f := range fields {
		switch f.key {
		case "class":
			if f.val != "DirectClass" && f.val != "PseudoClass" {
				return nil, 0, errorAt("unsupported class " + f.val)
			}
			img.Class = f.val
		case "colorspace":
			img.Colorspace = f.val
		case "depth":
			img.Depth, err = strconv.Atoi(f.val)
			if err != nil || (img.Depth != 8 && img.Depth != 16 && img.Depth != 32) {
				return nil, 0, errorAt("invalid depth " + f.val)
			}
		case "colors":
			img.Colors, err = strconv.Atoi(f.val)
			if err != nil || img.Colors < 0 {
				return nil, 0, errorAt("invalid colors " + f.val)
			}
		case "matte", "alpha-trait":
			img.Matte = f.val == "True" || f.val == "BlendPixelTrait"
		case "columns":
			img.Columns, err = strconv.Atoi(f.val)
			if err != nil || img.Columns <= 0 {
				return nil, 0, errorAt("invalid columns " + f.val)
			}
		case "rows":
			img.Rows, err = strconv.Atoi(f.val)
			if err != nil || img.Rows <= 0 {
				return nil, 0, errorAt("invalid rows " + f.val)
			}
		case "profile", "profile-icc":
			profileLen, err = strconv.Atoi(f.val)
			if err != nil || profileLen < 0 {
				return nil, 0, errorAt("invalid profile length " + f.val)
			}
		case "resolution":
			img.DPIX, img.DPIY, err = parseResolution(f.val)
			if err != nil {
				return nil, 0, errorAt("invalid resolution " + f.val)
			}
		case "units":
			units = f.val
		case "compression":
			if f.val != "None" {
				return nil, 0, errorAt("unsupported compression " + f.val)
			}
		}
	}
	if img.Columns == 0 || img.Rows == 0 {
		return nil, 0, errorAt("missing image size")
	}
	if units == "PixelsPerCentimeter" {
		img.DPIX *= 2.54
		img.DPIY *= 2.54
	} else if units == "Undefined" {
		// no absolute resolution
		img.DPIX, img.DPIY = 0, 0
	}

	pos := end + len(headerEnd)
	take := func(factors ...int) ([]byte, error) {
		n, ok := payloadSize(len(data)-pos, factors...)
		if !ok {
			return nil, &format.MalformedError{Format: "miff", Pos: int64(base + pos), Err: format.ErrTruncated}
		}
		b := data[pos : pos+n]
		pos += n
		return b, nil
	}

	if profileLen > 0 {
		img.ICCProfile, err = take(profileLen)
		if err != nil {
			return nil, 0, err
		}
	}

	bytesPerSample := img.Depth / 8
	switch img.Class {
	case "DirectClass":
		img.Pixels, err = take(bytesPerSample, img.Channels(), img.Columns, img.Rows)
	case "PseudoClass":
		if img.Colors == 0 {
			return nil, 0, errorAt("missing palette size")
		}
		img.Palette, err = take(3, img.Colors, bytesPerSample)
		if err == nil {
			img.Pixels, err = take(img.Rows, img.Columns, img.Channels())
		}
	}
	if err != nil {
		return nil, 0, err
	}
	return img, pos, nil
}

// payloadSize returns the product of the factors.  The result is false if
// a factor is negative or the product exceeds limit.
func payloadSize(limit int, factors ...int) (int, bool) {
	n := 1
	for _, f := range factors {
		if f < 0 || (f > 0 && n > limit/f) {
			return 0, false
		}
		n *= f
	}
	return n, n <= limit
}

type field struct {
	key, val string
}

// parseHeader splits a MIFF header into key=value pairs.  Values in braces
// may contain white space and "=" signs.  Comments in braces at the
// position of a key are skipped.
func parseHeader(header []byte) ([]field, error) {
	var fields []field
	s := string(header)
	i := 0
	for {
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if i == len(s) {
			return fields, nil
		}
		if s[i] == '{' {
			k := strings.IndexByte(s[i:], '}')
			if k < 0 {
				return nil, errUnterminated
			}
			i += k + 1
			continue
		}

		eq := strings.IndexByte(s[i:], '=')
		if eq < 0 {
			return nil, fmt.Errorf("missing '=' after %q", s[i:])
		}
		key := strings.TrimSpace(s[i : i+eq])
		i += eq + 1

		var val string
		if i < len(s) && s[i] == '{' {
			k := strings.IndexByte(s[i:], '}')
			if k < 0 {
				return nil, errUnterminated
			}
			val = s[i+1 : i+k]
			i += k + 1
		} else {
			start := i
			for i < len(s) && !isSpace(s[i]) {
				i++
			}
			val = s[start:i]
		}
		fields = append(fields, field{key: key, val: val})
	}
}

func parseResolution(s string) (float64, float64, error) {
	xs, ys, ok := strings.Cut(s, "x")
	if !ok {
		ys = xs
	}
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

var errUnterminated = errors.New("unterminated '{'")
