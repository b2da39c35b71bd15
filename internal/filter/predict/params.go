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

// Package predict prepares image samples for PNG predictor streams.
//
// Rows are written with the PNG filter type 0 ("None") in front of every
// row.  A stream built this way can be described by /Predictor 15 in the PDF
// decode parameters, since that value allows a different filter type on
// every row.
package predict

import (
	"errors"
	"fmt"

	"github.com/imgpdf/img2pdf/pdf"
)

const maxColumns = 1 << 24

// Params describes the sample layout of an image.
type Params struct {
	// Colors is the number of color components per pixel.
	// Valid range: 1 to 4.
	Colors int

	// BitsPerComponent is the number of bits used to represent each color
	// component.  Valid values: 1, 2, 4, 8, or 16.
	BitsPerComponent int

	// Columns is the width of the image in pixels.
	Columns int
}

// Validate checks the parameters for consistency.
func (p *Params) Validate() error {
	if p.Colors < 1 || p.Colors > 4 {
		return fmt.Errorf("Colors must be between 1 and 4, got %d", p.Colors)
	}

	switch p.BitsPerComponent {
	case 1, 2, 4, 8, 16:
		// Valid values
	default:
		return fmt.Errorf("BitsPerComponent must be 1, 2, 4, 8, or 16, got %d", p.BitsPerComponent)
	}

	if p.Columns < 1 || p.Columns > maxColumns {
		return errors.New("invalid Columns value")
	}
	return nil
}

// DecodeParms returns the PDF decode parameters for a stream which uses
// these parameters.
func (p *Params) DecodeParms() pdf.Dict {
	return pdf.Dict{
		"Predictor":        pdf.Integer(15),
		"Colors":           pdf.Integer(p.Colors),
		"Columns":          pdf.Integer(p.Columns),
		"BitsPerComponent": pdf.Integer(p.BitsPerComponent),
	}
}

func (p *Params) bitsPerPixel() int {
	return p.Colors * p.BitsPerComponent
}

// BytesPerRow returns the number of bytes per row, excluding the filter
// type byte.
func (p *Params) BytesPerRow() int {
	return (p.bitsPerPixel()*p.Columns + 7) / 8
}
