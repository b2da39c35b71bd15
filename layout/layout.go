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

// Package layout computes the size of the pages and of the images placed on
// them.
//
// All lengths are in PDF units of 1/72 inch.  Pixel dimensions are
// converted using the image resolution.  Without any configuration, the
// page has exactly the size of the image.
package layout

import (
	"errors"
	"fmt"

	"seehuhn.de/go/geom/rect"

	"github.com/imgpdf/img2pdf/pdf"
)

// MaxPageSize is the largest page dimension allowed by the PDF
// specification, in units of 1/72 inch.  Larger pages need /UserUnit.
const MaxPageSize = 14400

// MinPageSize is the smallest page dimension some viewers can display.
const MinPageSize = 3

var (
	// ErrNegativeDimension indicates that the border leaves no room for the
	// image.
	ErrNegativeDimension = errors.New("border exceeds the available space")

	// ErrPageTooLarge is returned for pages larger than 200 inches, unless
	// Config.AllowOversized is set.
	ErrPageTooLarge = errors.New("page width or height exceeds 200 inches")
)

// Config describes the desired page layout.  The zero value places every
// image on a page of its own size.
type Config struct {
	// PageSize, if set, fixes one or both page dimensions.  Only absolute
	// lengths are allowed.
	PageSize *Size

	// ImageSize, if set, fixes one or both image dimensions.
	ImageSize *Size

	// Border is the minimum distance between the image and the page edges.
	Border *Border

	Fit Fit

	// AutoOrient swaps the page dimensions (and the border) if the
	// orientation of the image does not match the page.  This only applies
	// if both page dimensions are given.
	AutoOrient bool

	// AllowOversized enables /UserUnit scaling for pages larger than
	// 200 inches.
	AllowOversized bool
}

// Border holds the border widths at the top and bottom (Vertical) and on
// the left and right (Horizontal).
type Border struct {
	Vertical, Horizontal float64
}

// Result is the outcome of a layout computation.
type Result struct {
	PageWidth, PageHeight   float64
	ImageWidth, ImageHeight float64

	// UserUnit is the size of one PDF unit in multiples of 1/72 inch.  It
	// is 1, unless the page was scaled down to stay within MaxPageSize.
	UserUnit float64
}

// MediaBox returns the page area.
func (r *Result) MediaBox() *pdf.Rectangle {
	return &pdf.Rectangle{URx: r.PageWidth, URy: r.PageHeight}
}

// ImageBox returns the area covered by the image, centred on the page.
func (r *Result) ImageBox() rect.Rect {
	x := (r.PageWidth - r.ImageWidth) / 2
	y := (r.PageHeight - r.ImageHeight) / 2
	return rect.Rect{LLx: x, LLy: y, URx: x + r.ImageWidth, URy: y + r.ImageHeight}
}

// TooSmall reports whether one of the page dimensions is below
// MinPageSize.
func (r *Result) TooSmall() bool {
	return r.PageWidth < MinPageSize || r.PageHeight < MinPageSize
}

// PxToPt converts a length in pixels to PDF units.
func PxToPt(px int, dpi float64) float64 {
	return float64(px) * 72 / dpi
}

// Compute determines the page and image size for an image of w×h pixels
// with the given resolution.
func (c *Config) Compute(w, h int, dpiX, dpiY float64) (*Result, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", w, h)
	}
	if dpiX <= 0 || dpiY <= 0 {
		return nil, fmt.Errorf("invalid resolution %gx%g", dpiX, dpiY)
	}
	if c.PageSize != nil && (c.PageSize.Width.relative() || c.PageSize.Height.relative()) {
		return nil, errors.New("page size must be given as an absolute length")
	}

	imgW := PxToPt(w, dpiX)
	imgH := PxToPt(h, dpiY)

	var border Border
	if c.Border != nil {
		border = *c.Border
	}
	turned := c.orient(w, h)
	if turned {
		border.Vertical, border.Horizontal = border.Horizontal, border.Vertical
	}

	res := &Result{UserUnit: 1}
	var err error
	switch {
	case c.PageSize == nil && c.ImageSize == nil:
		res.ImageWidth, res.ImageHeight = imgW, imgH
		res.PageWidth = imgW + 2*border.Horizontal
		res.PageHeight = imgH + 2*border.Vertical

	case c.ImageSize == nil:
		pageW, pageH := c.PageSize.Width, c.PageSize.Height
		if turned {
			pageW, pageH = pageH, pageW
		}
		box := Size{}
		if pageW.IsSet() {
			box.Width = Pt(pageW.Value - 2*border.Horizontal)
		}
		if pageH.IsSet() {
			box.Height = Pt(pageH.Value - 2*border.Vertical)
		}
		res.ImageWidth, res.ImageHeight, err = c.Fit.apply(imgW, imgH, box)
		if err != nil {
			return nil, err
		}
		res.PageWidth = pageW.or(res.ImageWidth + 2*border.Horizontal)
		res.PageHeight = pageH.or(res.ImageHeight + 2*border.Vertical)

	default:
		box := Size{
			Width:  c.ImageSize.Width.scale(w, dpiX),
			Height: c.ImageSize.Height.scale(h, dpiY),
		}
		res.ImageWidth, res.ImageHeight, err = c.Fit.apply(imgW, imgH, box)
		if err != nil {
			return nil, err
		}
		res.PageWidth = res.ImageWidth + 2*border.Horizontal
		res.PageHeight = res.ImageHeight + 2*border.Vertical
		if c.PageSize != nil {
			pageW, pageH := c.PageSize.Width, c.PageSize.Height
			if turned {
				pageW, pageH = pageH, pageW
			}
			res.PageWidth = pageW.or(res.PageWidth)
			res.PageHeight = pageH.or(res.PageHeight)
		}
	}

	if max(res.PageWidth, res.PageHeight) > MaxPageSize {
		if !c.AllowOversized {
			return nil, ErrPageTooLarge
		}
		unit := userUnit(res.PageWidth, res.PageHeight)
		res.UserUnit = unit
		res.PageWidth /= unit
		res.PageHeight /= unit
		res.ImageWidth /= unit
		res.ImageHeight /= unit
	}
	return res, nil
}

// orient reports whether the page needs to be turned to match the
// orientation of a w×h image.
func (c *Config) orient(w, h int) bool {
	if !c.AutoOrient || c.PageSize == nil {
		return false
	}
	pw, ph := c.PageSize.Width, c.PageSize.Height
	if !pw.IsSet() || !ph.IsSet() {
		return false
	}
	return w > h && pw.Value < ph.Value || w < h && ph.Value < pw.Value
}

// userUnit returns the smallest power of ten which brings both page
// dimensions within MaxPageSize.
func userUnit(w, h float64) float64 {
	size := max(w, h)
	unit := 1.0
	for size/unit > MaxPageSize {
		unit *= 10
	}
	return unit
}
