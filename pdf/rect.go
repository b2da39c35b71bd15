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

package pdf

import (
	"io"

	"seehuhn.de/go/geom/rect"
)

// Rectangle represents a PDF rectangle, given by the coordinates of the
// lower left and upper right corners.
type Rectangle rect.Rect

// PDF implements the Object interface.
func (r *Rectangle) PDF(w io.Writer) error {
	a := Array{Real(r.LLx), Real(r.LLy), Real(r.URx), Real(r.URy)}
	return a.PDF(w)
}

// Inset returns the rectangle shrunk by dy at the top and bottom and by dx
// on the left and right.
func (r *Rectangle) Inset(dy, dx float64) *Rectangle {
	return &Rectangle{
		LLx: r.LLx + dx,
		LLy: r.LLy + dy,
		URx: r.URx - dx,
		URy: r.URy - dy,
	}
}

// Dx returns the width of the rectangle.
func (r *Rectangle) Dx() float64 {
	return r.URx - r.LLx
}

// Dy returns the height of the rectangle.
func (r *Rectangle) Dy() float64 {
	return r.URy - r.LLy
}
