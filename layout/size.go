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

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit distinguishes absolute lengths from lengths relative to the image.
type Unit int

// These are the supported units.  A Length with unit Unset is absent.
const (
	Unset    Unit = iota
	Absolute      // PDF units
	Percent       // percent of the image size at its own resolution
	DPI           // the image size at the given resolution
)

// Length is an optional length.
type Length struct {
	Value float64
	Unit  Unit
}

// Pt returns an absolute length in PDF units.
func Pt(v float64) Length {
	return Length{Value: v, Unit: Absolute}
}

// IsSet reports whether the length is present.
func (l Length) IsSet() bool {
	return l.Unit != Unset
}

func (l Length) relative() bool {
	return l.Unit == Percent || l.Unit == DPI
}

func (l Length) or(v float64) float64 {
	if l.IsSet() {
		return l.Value
	}
	return v
}

// scale converts l into an absolute length, for an image dimension of px
// pixels at resolution dpi.
func (l Length) scale(px int, dpi float64) Length {
	switch l.Unit {
	case Percent:
		return Pt(PxToPt(px, dpi) * l.Value / 100)
	case DPI:
		return Pt(PxToPt(px, l.Value))
	}
	return l
}

func (l Length) String() string {
	v := strconv.FormatFloat(l.Value, 'f', -1, 64)
	switch l.Unit {
	case Absolute:
		return v + "pt"
	case Percent:
		return v + "%"
	case DPI:
		return v + "dpi"
	}
	return ""
}

// Size is a pair of optional lengths.
type Size struct {
	Width, Height Length
}

func (s *Size) String() string {
	return s.Width.String() + "x" + s.Height.String()
}

// PaperSizes lists the paper formats recognised by ParseSize.
var PaperSizes = map[string]string{
	"letter":  "8.5inx11in",
	"legal":   "8.5inx14in",
	"tabloid": "11inx17in",
	"a0":      "841mmx1189mm",
	"a1":      "594mmx841mm",
	"a2":      "420mmx594mm",
	"a3":      "297mmx420mm",
	"a4":      "210mmx297mm",
	"a5":      "148mmx210mm",
	"a6":      "105mmx148mm",
	"b0":      "1000mmx1414mm",
	"b1":      "707mmx1000mm",
	"b2":      "500mmx707mm",
	"b3":      "353mmx500mm",
	"b4":      "250mmx353mm",
	"b5":      "176mmx250mm",
	"b6":      "125mmx176mm",
	"jb0":     "1030mmx1456mm",
	"jb1":     "728mmx1030mm",
	"jb2":     "515mmx728mm",
	"jb3":     "364mmx515mm",
	"jb4":     "257mmx364mm",
	"jb5":     "182mmx257mm",
	"jb6":     "128mmx182mm",
}

var lengthUnits = []struct {
	suffix string
	factor float64
}{
	{"pt", 1},
	{"cm", 72 / 2.54},
	{"mm", 72 / 25.4},
	{"in", 72},
}

// ParseLength converts a length with an optional unit (pt, cm, mm or in)
// into PDF units.  Without a unit, the value is in PDF units.
func ParseLength(s string) (float64, error) {
	factor := 1.0
	num := s
	for _, u := range lengthUnits {
		if rest, ok := strings.CutSuffix(s, u.suffix); ok {
			num = rest
			factor = u.factor
			break
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative length %q", s)
	}
	return v * factor, nil
}

func parseSizeLength(s string) (Length, error) {
	if s == "" {
		return Length{}, nil
	}
	var l Length
	var err error
	if num, ok := strings.CutSuffix(s, "%"); ok {
		l.Unit = Percent
		l.Value, err = strconv.ParseFloat(num, 64)
	} else if num, ok := strings.CutSuffix(s, "dpi"); ok {
		l.Unit = DPI
		l.Value, err = strconv.ParseFloat(num, 64)
	} else {
		l.Unit = Absolute
		l.Value, err = ParseLength(s)
	}
	if err != nil {
		return Length{}, fmt.Errorf("invalid length %q", s)
	}
	if l.Value <= 0 {
		return Length{}, fmt.Errorf("length %q must be positive", s)
	}
	return l, nil
}

// ParseSize parses a size of the form "WxH", where either W or H may be
// omitted, or the name of a paper format from PaperSizes.  A suffix "^T"
// swaps width and height.  The lengths may carry a unit as for
// ParseLength, or be given as a percentage ("50%") or resolution
// ("300dpi") relative to the image.
func ParseSize(s string) (*Size, error) {
	dims, transpose := strings.CutSuffix(strings.TrimSpace(s), "^T")
	if paper, ok := PaperSizes[strings.ToLower(dims)]; ok {
		dims = paper
	}

	w, h, ok := strings.Cut(dims, "x")
	if !ok {
		return nil, fmt.Errorf("invalid size %q: expected WxH or a paper name", s)
	}
	width, err := parseSizeLength(w)
	if err != nil {
		return nil, err
	}
	height, err := parseSizeLength(h)
	if err != nil {
		return nil, err
	}
	if !width.IsSet() && !height.IsSet() {
		return nil, fmt.Errorf("invalid size %q: width and height missing", s)
	}

	if transpose {
		width, height = height, width
	}
	return &Size{Width: width, Height: height}, nil
}

// ParseBorder parses one or two lengths separated by a colon.  A single
// length applies to all sides, two lengths give the vertical and the
// horizontal border.
func ParseBorder(s string) (*Border, error) {
	v, h, two := strings.Cut(s, ":")
	vertical, err := ParseLength(v)
	if err != nil {
		return nil, err
	}
	horizontal := vertical
	if two {
		horizontal, err = ParseLength(h)
		if err != nil {
			return nil, err
		}
	}
	return &Border{Vertical: vertical, Horizontal: horizontal}, nil
}
