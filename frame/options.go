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

package frame

import (
	"fmt"
	"math"
)

// RotationMode selects how the page rotation is determined.
type RotationMode int

// Rotation modes.  The zero value uses the EXIF orientation and fails on
// invalid or flipped orientations.
const (
	RotateAuto RotationMode = iota
	RotateNone
	RotateIfValid
	Rotate0
	Rotate90
	Rotate180
	Rotate270
)

func (m RotationMode) String() string {
	switch m {
	case RotateAuto:
		return "auto"
	case RotateNone:
		return "none"
	case RotateIfValid:
		return "ifvalid"
	case Rotate0:
		return "0"
	case Rotate90:
		return "90"
	case Rotate180:
		return "180"
	case Rotate270:
		return "270"
	default:
		return fmt.Sprintf("frame.RotationMode(%d)", int(m))
	}
}

// ParseRotationMode converts the command line form of a rotation mode.
func ParseRotationMode(s string) (RotationMode, error) {
	for m := RotateAuto; m <= Rotate270; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("invalid rotation %q", s)
}

// DefaultDPI is the resolution used when an image does not specify one.
const DefaultDPI = 96

// Options control frame extraction.  The zero value is ready to use.
type Options struct {
	// Rotation selects how the page rotation is determined.
	Rotation RotationMode

	// Colorspace, if set, overrides the colorspace of the input image.
	Colorspace Colorspace

	// DefaultDPI is used for images without resolution information.
	// If zero, [DefaultDPI] is used.
	DefaultDPI float64

	// FirstFrameOnly stops after the first frame of multi-frame images.
	FirstFrameOnly bool

	// IncludeThumbnails makes the preview images of MPO files into pages
	// of their own.
	IncludeThumbnails bool

	// Warn, if non-nil, is called for conditions which do not stop the
	// conversion.  The arguments are key/value pairs, as for log/slog.
	Warn func(msg string, args ...any)
}

func (o *Options) warn(msg string, args ...any) {
	if o.Warn != nil {
		o.Warn(msg, args...)
	}
}

// resolution rounds the image resolution to whole numbers and substitutes
// the default for missing values.
func (o *Options) resolution(x, y float64) (float64, float64) {
	x = math.Round(x)
	y = math.Round(y)
	if x <= 0 || y <= 0 {
		def := o.DefaultDPI
		if def <= 0 {
			def = DefaultDPI
		}
		return def, def
	}
	return x, y
}

// rotation converts an EXIF orientation value (0 if absent) into a page
// rotation, according to the rotation mode.
func (o *Options) rotation(orientation int) (int, error) {
	switch o.Rotation {
	case RotateNone, Rotate0:
		return 0, nil
	case Rotate90:
		return 90, nil
	case Rotate180:
		return 180, nil
	case Rotate270:
		return 270, nil
	}

	switch orientation {
	case 0, 1:
		return 0, nil
	case 3:
		return 180, nil
	case 6:
		return 90, nil
	case 8:
		return 270, nil
	}

	var err error
	switch orientation {
	case 2, 4, 5, 7:
		err = fmt.Errorf("%w: flipped orientation %d", ErrInvalidRotation, orientation)
	default:
		err = fmt.Errorf("%w: %d", ErrInvalidRotation, orientation)
	}
	if o.Rotation == RotateIfValid {
		o.warn("ignoring EXIF orientation", "error", err)
		return 0, nil
	}
	return 0, err
}
