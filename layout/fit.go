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

package layout

import "fmt"

// Fit selects how an image is scaled into a box.
type Fit int

// Fit modes.  A box may leave one of its dimensions unconstrained; the
// image is then scaled to match the other dimension.
const (
	// FitInto scales the image, preserving the aspect ratio, so that it
	// fits entirely into the box.
	FitInto Fit = iota

	// FitFill scales the image, preserving the aspect ratio, so that it
	// covers the box.
	FitFill

	// FitExact scales the image to the box, ignoring the aspect ratio.
	FitExact

	// FitShrink is FitInto for images larger than the box.  Other images
	// are not scaled.
	FitShrink

	// FitEnlarge is FitInto for images smaller than the box.  Other images
	// are not scaled.
	FitEnlarge
)

var fitNames = []string{"into", "fill", "exact", "shrink", "enlarge"}

func (f Fit) String() string {
	if f >= 0 && int(f) < len(fitNames) {
		return fitNames[f]
	}
	return fmt.Sprintf("layout.Fit(%d)", int(f))
}

// ParseFit converts the name of a fit mode.
func ParseFit(s string) (Fit, error) {
	for i, name := range fitNames {
		if name == s {
			return Fit(i), nil
		}
	}
	return 0, fmt.Errorf("invalid fit mode %q", s)
}

// apply scales an image of w×h PDF units into box.  The box must have
// absolute or unset dimensions.
func (f Fit) apply(w, h float64, box Size) (float64, float64, error) {
	bw, bh := box.Width, box.Height
	if !bw.IsSet() && !bh.IsSet() {
		return w, h, nil
	}

	negW := bw.IsSet() && bw.Value < 0
	negH := bh.IsSet() && bh.Value < 0
	if f == FitFill || f == FitEnlarge {
		if negW && negH {
			return 0, 0, fmt.Errorf("%w: both dimensions negative", ErrNegativeDimension)
		}
	} else if negW || negH {
		return 0, 0, fmt.Errorf("%w: %s for fit mode %s", ErrNegativeDimension, &box, f)
	}

	into := func() (float64, float64) {
		switch {
		case !bh.IsSet():
			return bw.Value, bw.Value * h / w
		case !bw.IsSet():
			return bh.Value * w / h, bh.Value
		}
		nw, nh := bw.Value, bw.Value*h/w
		if nh > bh.Value {
			nw, nh = bh.Value*w/h, bh.Value
		}
		return nw, nh
	}

	both := bw.IsSet() && bh.IsSet()
	switch f {
	case FitFill:
		if both {
			nw, nh := bw.Value, bw.Value*h/w
			if nh < bh.Value {
				nw, nh = bh.Value*w/h, bh.Value
			}
			return nw, nh, nil
		}
	case FitExact:
		if both {
			return bw.Value, bh.Value, nil
		}
	case FitShrink:
		if (!bw.IsSet() || w <= bw.Value) && (!bh.IsSet() || h <= bh.Value) {
			return w, h, nil
		}
	case FitEnlarge:
		if bw.IsSet() && w > bw.Value || bh.IsSet() && h > bh.Value {
			return w, h, nil
		}
	}
	nw, nh := into()
	return nw, nh, nil
}
