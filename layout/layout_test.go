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
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

// test images at 96 dpi: 648x216pt and 864x432pt
var testImages = [][2]int{{864, 288}, {1152, 576}}

func TestDefault(t *testing.T) {
	c := &Config{}
	res, err := c.Compute(864, 288, 96, 96)
	if err != nil {
		t.Fatal(err)
	}
	want := &Result{648, 216, 648, 216, 1}
	if d := cmp.Diff(want, res, approx); d != "" {
		t.Errorf("result (-want +got):\n%s", d)
	}

	res, err = c.Compute(300, 600, 300, 150)
	if err != nil {
		t.Fatal(err)
	}
	want = &Result{72, 288, 72, 288, 1}
	if d := cmp.Diff(want, res, approx); d != "" {
		t.Errorf("result (-want +got):\n%s", d)
	}
}

func TestFitPageSize(t *testing.T) {
	page := &Size{Width: Pt(972), Height: Pt(504)}
	cases := []struct {
		fit  Fit
		want [2][2]float64
	}{
		{FitInto, [2][2]float64{{972, 324}, {972, 486}}},
		{FitFill, [2][2]float64{{1512, 504}, {1008, 504}}},
		{FitExact, [2][2]float64{{972, 504}, {972, 504}}},
		{FitShrink, [2][2]float64{{648, 216}, {864, 432}}},
		{FitEnlarge, [2][2]float64{{972, 324}, {972, 486}}},
	}
	for _, c := range cases {
		for i, im := range testImages {
			conf := &Config{PageSize: page, Fit: c.fit}
			res, err := conf.Compute(im[0], im[1], 96, 96)
			if err != nil {
				t.Fatal(err)
			}
			want := &Result{972, 504, c.want[i][0], c.want[i][1], 1}
			if d := cmp.Diff(want, res, approx); d != "" {
				t.Errorf("%s, image %d (-want +got):\n%s", c.fit, i, d)
			}
		}
	}
}

func TestFitImageSize(t *testing.T) {
	img := &Size{Width: Pt(756), Height: Pt(324)}
	cases := []struct {
		fit  Fit
		want [2][2]float64
	}{
		{FitInto, [2][2]float64{{756, 252}, {648, 324}}},
		{FitFill, [2][2]float64{{972, 324}, {756, 378}}},
		{FitExact, [2][2]float64{{756, 324}, {756, 324}}},
		{FitShrink, [2][2]float64{{648, 216}, {648, 324}}},
		{FitEnlarge, [2][2]float64{{756, 252}, {864, 432}}},
	}
	for _, c := range cases {
		for i, im := range testImages {
			w, h := c.want[i][0], c.want[i][1]

			conf := &Config{ImageSize: img, Fit: c.fit}
			res, err := conf.Compute(im[0], im[1], 96, 96)
			if err != nil {
				t.Fatal(err)
			}
			want := &Result{w, h, w, h, 1}
			if d := cmp.Diff(want, res, approx); d != "" {
				t.Errorf("%s, image %d (-want +got):\n%s", c.fit, i, d)
			}

			// a page size does not change the image size
			conf.PageSize = &Size{Width: Pt(972), Height: Pt(504)}
			res, err = conf.Compute(im[0], im[1], 96, 96)
			if err != nil {
				t.Fatal(err)
			}
			want = &Result{972, 504, w, h, 1}
			if d := cmp.Diff(want, res, approx); d != "" {
				t.Errorf("%s, image %d with page (-want +got):\n%s", c.fit, i, d)
			}
		}
	}
}

func TestFitLaws(t *testing.T) {
	for _, im := range [][2]int{{100, 100}, {1000, 10}, {10, 1000}, {333, 777}} {
		for _, box := range [][2]float64{{100, 100}, {500, 20}, {20, 500}, {1e4, 1e4}} {
			conf := &Config{PageSize: &Size{Width: Pt(box[0]), Height: Pt(box[1])}}
			res, err := conf.Compute(im[0], im[1], 72, 72)
			if err != nil {
				t.Fatal(err)
			}
			if res.ImageWidth > box[0]+1e-9 || res.ImageHeight > box[1]+1e-9 {
				t.Errorf("into %v: image %gx%g exceeds %v", im, res.ImageWidth, res.ImageHeight, box)
			}
			ratio := float64(im[0]) / float64(im[1])
			if got := res.ImageWidth / res.ImageHeight; !cmp.Equal(got, ratio, cmpopts.EquateApprox(1e-9, 0)) {
				t.Errorf("into %v: aspect ratio %g, want %g", im, got, ratio)
			}
		}
	}
}

func TestOneDimension(t *testing.T) {
	conf := &Config{PageSize: &Size{Width: Pt(324)}}
	res, err := conf.Compute(864, 288, 96, 96)
	if err != nil {
		t.Fatal(err)
	}
	want := &Result{324, 108, 324, 108, 1}
	if d := cmp.Diff(want, res, approx); d != "" {
		t.Errorf("result (-want +got):\n%s", d)
	}

	conf = &Config{
		PageSize: &Size{Height: Pt(108)},
		Border:   &Border{Vertical: 10, Horizontal: 20},
	}
	res, err = conf.Compute(864, 288, 96, 96)
	if err != nil {
		t.Fatal(err)
	}
	want = &Result{304, 108, 264, 88, 1}
	if d := cmp.Diff(want, res, approx); d != "" {
		t.Errorf("result (-want +got):\n%s", d)
	}
}

func TestRelativeImageSize(t *testing.T) {
	conf := &Config{ImageSize: &Size{Width: Length{50, Percent}}}
	res, err := conf.Compute(864, 288, 96, 96)
	if err != nil {
		t.Fatal(err)
	}
	want := &Result{324, 108, 324, 108, 1}
	if d := cmp.Diff(want, res, approx); d != "" {
		t.Errorf("percent (-want +got):\n%s", d)
	}

	conf = &Config{ImageSize: &Size{Width: Length{300, DPI}, Height: Length{300, DPI}}, Fit: FitExact}
	res, err = conf.Compute(600, 300, 96, 96)
	if err != nil {
		t.Fatal(err)
	}
	want = &Result{144, 72, 144, 72, 1}
	if d := cmp.Diff(want, res, approx); d != "" {
		t.Errorf("dpi (-want +got):\n%s", d)
	}

	conf = &Config{PageSize: &Size{Width: Length{50, Percent}}}
	if _, err := conf.Compute(10, 10, 96, 96); err == nil {
		t.Error("relative page size accepted")
	}
}

func TestBorder(t *testing.T) {
	border := &Border{Vertical: 10, Horizontal: 20}

	conf := &Config{Border: border}
	res, err := conf.Compute(864, 288, 96, 96)
	if err != nil {
		t.Fatal(err)
	}
	want := &Result{688, 236, 648, 216, 1}
	if d := cmp.Diff(want, res, approx); d != "" {
		t.Errorf("border only (-want +got):\n%s", d)
	}

	conf = &Config{PageSize: &Size{Width: Pt(972), Height: Pt(504)}, Border: border}
	res, err = conf.Compute(864, 288, 96, 96)
	if err != nil {
		t.Fatal(err)
	}
	want = &Result{972, 504, 932, 932.0 / 3, 1}
	if d := cmp.Diff(want, res, approx); d != "" {
		t.Errorf("page and border (-want +got):\n%s", d)
	}
	box := res.ImageBox()
	if !cmp.Equal(box.LLx, 20.0, approx) || !cmp.Equal(box.URx, 952.0, approx) {
		t.Errorf("image not centred: %v", box)
	}
}

func TestAutoOrient(t *testing.T) {
	page := &Size{Width: Pt(972), Height: Pt(504)}
	border := &Border{Vertical: 0, Horizontal: 36}

	conf := &Config{PageSize: page, Border: border, AutoOrient: true}
	res, err := conf.Compute(288, 864, 96, 96)
	if err != nil {
		t.Fatal(err)
	}
	// the page is turned to portrait, the border follows
	want := &Result{504, 972, 300, 900, 1}
	if d := cmp.Diff(want, res, approx); d != "" {
		t.Errorf("result (-want +got):\n%s", d)
	}

	// with an image size the page is turned as well
	conf = &Config{
		PageSize:   page,
		ImageSize:  &Size{Width: Pt(200)},
		Border:     border,
		AutoOrient: true,
	}
	res, err = conf.Compute(288, 864, 96, 96)
	if err != nil {
		t.Fatal(err)
	}
	want = &Result{504, 972, 200, 600, 1}
	if d := cmp.Diff(want, res, approx); d != "" {
		t.Errorf("result (-want +got):\n%s", d)
	}
	box := res.ImageBox()
	if !cmp.Equal(box.LLx, 152.0, approx) || !cmp.Equal(box.LLy, 186.0, approx) {
		t.Errorf("image not centred: %v", box)
	}

	// only width given: nothing to swap
	conf = &Config{PageSize: &Size{Width: Pt(100)}, AutoOrient: true}
	res, err = conf.Compute(100, 200, 72, 72)
	if err != nil {
		t.Fatal(err)
	}
	if res.PageWidth != 100 || res.PageHeight != 200 {
		t.Errorf("page %gx%g, want 100x200", res.PageWidth, res.PageHeight)
	}
}

func TestNegativeDimension(t *testing.T) {
	page := &Size{Width: Pt(100), Height: Pt(100)}
	cases := []struct {
		border Border
		fit    Fit
		ok     bool
	}{
		{Border{60, 0}, FitInto, false},
		{Border{0, 60}, FitShrink, false},
		{Border{60, 0}, FitExact, false},
		{Border{60, 0}, FitFill, true},
		{Border{0, 60}, FitEnlarge, true},
		{Border{60, 60}, FitFill, false},
		{Border{60, 60}, FitEnlarge, false},
		{Border{40, 40}, FitInto, true},
	}
	for _, c := range cases {
		conf := &Config{PageSize: page, Border: &c.border, Fit: c.fit}
		_, err := conf.Compute(100, 50, 72, 72)
		if c.ok && err != nil {
			t.Errorf("%v/%s: unexpected error %v", c.border, c.fit, err)
		} else if !c.ok && !errors.Is(err, ErrNegativeDimension) {
			t.Errorf("%v/%s: got %v, want ErrNegativeDimension", c.border, c.fit, err)
		}
	}
}

func TestOversized(t *testing.T) {
	page := &Size{Width: Pt(97200), Height: Pt(50400)}
	conf := &Config{PageSize: page, Fit: FitFill}
	if _, err := conf.Compute(864, 288, 96, 96); !errors.Is(err, ErrPageTooLarge) {
		t.Fatalf("got %v, want ErrPageTooLarge", err)
	}

	conf.AllowOversized = true
	wants := []*Result{
		{9720, 5040, 15120, 5040, 10},
		{9720, 5040, 10080, 5040, 10},
	}
	for i, im := range testImages {
		res, err := conf.Compute(im[0], im[1], 96, 96)
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(wants[i], res, approx); d != "" {
			t.Errorf("image %d (-want +got):\n%s", i, d)
		}
	}

	for _, c := range []struct {
		size float64
		unit float64
	}{
		{14401, 10},
		{144000, 10},
		{143999, 10},
		{144001, 100},
		{50 * 14400, 100},
	} {
		if got := userUnit(c.size, 1); got != c.unit {
			t.Errorf("userUnit(%g) = %g, want %g", c.size, got, c.unit)
		}
	}
}

func TestTooSmall(t *testing.T) {
	res, err := (&Config{}).Compute(2, 2, 72, 72)
	if err != nil {
		t.Fatal(err)
	}
	if !res.TooSmall() {
		t.Error("2x2pt page not reported as too small")
	}
}

func TestParseSize(t *testing.T) {
	cases := []struct {
		in   string
		want *Size
	}{
		{"100x200", &Size{Pt(100), Pt(200)}},
		{"1inx2in", &Size{Pt(72), Pt(144)}},
		{"x10cm", &Size{Height: Pt(720 / 2.54)}},
		{"50%x", &Size{Width: Length{50, Percent}}},
		{"300dpix150dpi", &Size{Length{300, DPI}, Length{150, DPI}}},
		{"letter", &Size{Pt(612), Pt(792)}},
		{"Letter^T", &Size{Pt(792), Pt(612)}},
		{"A4", &Size{Pt(210 * 72 / 25.4), Pt(297 * 72 / 25.4)}},
		{"10x20^T", &Size{Pt(20), Pt(10)}},
	}
	for _, c := range cases {
		got, err := ParseSize(c.in)
		if err != nil {
			t.Errorf("%q: %v", c.in, err)
			continue
		}
		if d := cmp.Diff(c.want, got, approx); d != "" {
			t.Errorf("%q (-want +got):\n%s", c.in, d)
		}
	}

	for _, in := range []string{"", "x", "100", "axb", "-1x2", "0x5", "a9"} {
		if _, err := ParseSize(in); err == nil {
			t.Errorf("%q: missing error", in)
		}
	}

	for name := range PaperSizes {
		if _, err := ParseSize(name); err != nil {
			t.Errorf("paper size %s: %v", name, err)
		}
	}
}

func TestParseBorder(t *testing.T) {
	cases := []struct {
		in   string
		want *Border
	}{
		{"10", &Border{10, 10}},
		{"1in:2cm", &Border{72, 144 / 2.54}},
		{"0:5mm", &Border{0, 5 * 72 / 25.4}},
	}
	for _, c := range cases {
		got, err := ParseBorder(c.in)
		if err != nil {
			t.Errorf("%q: %v", c.in, err)
			continue
		}
		if d := cmp.Diff(c.want, got, approx); d != "" {
			t.Errorf("%q (-want +got):\n%s", c.in, d)
		}
	}
	for _, in := range []string{"", "1:", "a", "-3"} {
		if _, err := ParseBorder(in); err == nil {
			t.Errorf("%q: missing error", in)
		}
	}
}

func TestParseFit(t *testing.T) {
	for f := FitInto; f <= FitEnlarge; f++ {
		got, err := ParseFit(f.String())
		if err != nil || got != f {
			t.Errorf("ParseFit(%q) = %v, %v", f, got, err)
		}
	}
	if _, err := ParseFit("stretch"); err == nil {
		t.Error("invalid fit mode accepted")
	}
	if s := Fit(9).String(); s != fmt.Sprintf("layout.Fit(%d)", 9) {
		t.Errorf("unexpected name %q", s)
	}
}
