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

// Package frame decides how the frames of an input image are embedded into
// a PDF file.
//
// For every frame the cheapest lossless representation is chosen: the
// compressed data of JPEG, JPEG 2000, PNG and CCITT Group 4 files is copied
// unchanged where possible, bilevel images are transcoded to Group 4, CMYK
// samples are stored with a plain flate filter and everything else is
// re-encoded as a PNG predictor stream.
package frame

import (
	"errors"
	"fmt"
)

// Colorspace is the color model of a frame.
type Colorspace int

// These are the supported color models.
const (
	ColorspaceUnknown Colorspace = iota
	Gray
	GrayAlpha
	RGB
	RGBA
	Bilevel
	Indexed
	CMYK
	CMYKInverted
	Other
)

func (cs Colorspace) String() string {
	switch cs {
	case Gray:
		return "L"
	case GrayAlpha:
		return "LA"
	case RGB:
		return "RGB"
	case RGBA:
		return "RGBA"
	case Bilevel:
		return "1"
	case Indexed:
		return "P"
	case CMYK:
		return "CMYK"
	case CMYKInverted:
		return "CMYK;I"
	case Other:
		return "other"
	default:
		return fmt.Sprintf("frame.Colorspace(%d)", int(cs))
	}
}

// ParseColorspace converts a colorspace name, as accepted by the command
// line tool, into a Colorspace.
func ParseColorspace(s string) (Colorspace, error) {
	switch s {
	case "L", "gray", "grey":
		return Gray, nil
	case "LA":
		return GrayAlpha, nil
	case "RGB":
		return RGB, nil
	case "RGBA":
		return RGBA, nil
	case "1", "bilevel":
		return Bilevel, nil
	case "P", "indexed":
		return Indexed, nil
	case "CMYK":
		return CMYK, nil
	case "CMYK;I":
		return CMYKInverted, nil
	}
	return ColorspaceUnknown, fmt.Errorf("unknown colorspace %q", s)
}

// Channels returns the number of color components, excluding alpha.
func (cs Colorspace) Channels() int {
	switch cs {
	case RGB, RGBA:
		return 3
	case CMYK, CMYKInverted:
		return 4
	default:
		return 1
	}
}

// HasAlpha reports whether the colorspace includes an alpha channel.
func (cs Colorspace) HasAlpha() bool {
	return cs == GrayAlpha || cs == RGBA
}

// PayloadFormat describes the encoding of the frame payload.
type PayloadFormat int

// These are the supported payload formats.
const (
	JPEG PayloadFormat = iota + 1
	JPEG2000
	CCITTGroup4
	FlateRaw
)

func (f PayloadFormat) String() string {
	switch f {
	case JPEG:
		return "JPEG"
	case JPEG2000:
		return "JPEG2000"
	case CCITTGroup4:
		return "CCITTGroup4"
	case FlateRaw:
		return "FlateRaw"
	default:
		return fmt.Sprintf("frame.PayloadFormat(%d)", int(f))
	}
}

// Frame describes one page worth of image data, ready to be embedded.
// Frames are never modified after they have been returned by [Extract].
type Frame struct {
	Colorspace Colorspace
	Format     PayloadFormat
	Payload    []byte

	// Predictor is set for FlateRaw payloads which contain PNG predictor
	// rows.  The rows then have one filter type byte each.
	Predictor bool

	// SoftMask, if non-nil, is an 8-bit grayscale PNG predictor stream,
	// flate compressed, with the alpha channel of the image.
	SoftMask []byte

	Width, Height int
	BitDepth      int
	DPIX, DPIY    float64

	// Palette holds the RGB triples of an Indexed frame.
	Palette []byte

	// Inverted is used for CCITTGroup4 payloads.  If set, the black runs
	// of the coded data are black on the page.  Otherwise black runs decode
	// to 1 bits, which show as white.
	Inverted bool

	// Rotation is the clockwise page rotation in degrees.
	Rotation int

	ICCProfile []byte
}

// Channels returns the number of samples per pixel in the payload.
func (f *Frame) Channels() int {
	if f.Format == JPEG2000 && f.Colorspace.HasAlpha() {
		return f.Colorspace.Channels() + 1
	}
	return f.Colorspace.Channels()
}

// Classification errors.  These are returned, possibly wrapped, by
// [Extract].
var (
	ErrJPEGMonochrome        = errors.New("JPEG images cannot be monochrome")
	ErrJPEGPalette           = errors.New("JPEG images cannot have a color palette")
	ErrJPEGAlpha             = errors.New("JPEG images cannot have an alpha channel")
	ErrAlphaDepth            = errors.New("alpha channels with more than 8 bits per sample are not supported")
	ErrUnsupportedColorspace = errors.New("unknown or unsupported colorspace")
	ErrMultiStrip            = errors.New("CCITT Group 4 data must be stored in a single strip")
	ErrIndexedICC            = errors.New("ICC profiles cannot be combined with an indexed colorspace")
	ErrInvalidRotation       = errors.New("invalid or unsupported EXIF orientation")
	ErrUnsupportedFormat     = errors.New("unsupported image format")
)
