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

package img2pdf

import (
	"errors"
	"fmt"

	"github.com/imgpdf/img2pdf/layout"
)

// ErrorKind classifies conversion failures.
type ErrorKind int

// These are the possible error kinds.
const (
	// InputError indicates that the input could not be read, or that no
	// input was given.
	InputError ErrorKind = iota + 1

	// FormatError indicates an unsupported or malformed image.
	FormatError

	// ConfigError indicates invalid or conflicting settings.
	ConfigError
)

func (k ErrorKind) String() string {
	switch k {
	case InputError:
		return "input error"
	case FormatError:
		return "format error"
	case ConfigError:
		return "configuration error"
	default:
		return fmt.Sprintf("img2pdf.ErrorKind(%d)", int(k))
	}
}

// ConversionError is the error type returned by [Convert].
type ConversionError struct {
	Kind ErrorKind

	// Image and Frame are the zero-based indices of the input image and of
	// the frame within the image, or -1 if not applicable.
	Image int
	Frame int

	Err error
}

func (err *ConversionError) Error() string {
	msg := err.Kind.String()
	if err.Image >= 0 {
		msg += fmt.Sprintf(": image %d", err.Image)
		if err.Frame >= 0 {
			msg += fmt.Sprintf(", frame %d", err.Frame)
		}
	}
	return msg + ": " + err.Err.Error()
}

func (err *ConversionError) Unwrap() error {
	return err.Err
}

// ErrNoInput is returned when Convert is called without images.
var ErrNoInput = errors.New("no input images")

func configError(err error) *ConversionError {
	return &ConversionError{Kind: ConfigError, Image: -1, Frame: -1, Err: err}
}

// imageError classifies an error which occurred while processing an image.
func imageError(img, fr int, err error) *ConversionError {
	kind := FormatError
	if errors.Is(err, layout.ErrNegativeDimension) || errors.Is(err, layout.ErrPageTooLarge) {
		kind = ConfigError
	}
	return &ConversionError{Kind: kind, Image: img, Frame: fr, Err: err}
}
