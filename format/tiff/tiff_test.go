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

package tiff

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/imgpdf/img2pdf/format"
	"github.com/imgpdf/img2pdf/internal/testimg"
)

func twoPages(order testimg.ByteOrder) []byte {
	t := testimg.NewTIFF(order)
	s1 := t.AddData([]byte{1, 2, 3, 4, 5})
	s2 := t.AddData([]byte{6, 7})
	t.AddIFD(
		testimg.Field{Tag: TagImageWidth, Type: testimg.Short, Values: []uint32{60}},
		testimg.Field{Tag: TagImageLength, Type: testimg.Long, Values: []uint32{40}},
		testimg.Field{Tag: TagBitsPerSample, Type: testimg.Short, Values: []uint32{1}},
		testimg.Field{Tag: TagCompression, Type: testimg.Short, Values: []uint32{CompressionG4}},
		testimg.Field{Tag: TagPhotometric, Type: testimg.Short, Values: []uint32{PhotometricMinIsWhite}},
		testimg.Field{Tag: TagFillOrder, Type: testimg.Short, Values: []uint32{2}},
		testimg.Field{Tag: TagStripOffsets, Type: testimg.Long, Values: []uint32{s1}},
		testimg.Field{Tag: TagStripByteCounts, Type: testimg.Long, Values: []uint32{5}},
		testimg.Field{Tag: TagXResolution, Type: testimg.Rational, Values: []uint32{300, 1}},
		testimg.Field{Tag: TagYResolution, Type: testimg.Rational, Values: []uint32{600, 2}},
		testimg.Field{Tag: TagResolutionUnit, Type: testimg.Short, Values: []uint32{2}},
	)
	t.AddIFD(
		testimg.Field{Tag: TagImageWidth, Type: testimg.Long, Values: []uint32{7}},
		testimg.Field{Tag: TagImageLength, Type: testimg.Long, Values: []uint32{3}},
		testimg.Field{Tag: TagBitsPerSample, Type: testimg.Short, Values: []uint32{8, 8, 8}},
		testimg.Field{Tag: TagSamplesPerPixel, Type: testimg.Short, Values: []uint32{3}},
		testimg.Field{Tag: TagPhotometric, Type: testimg.Short, Values: []uint32{PhotometricRGB}},
		testimg.Field{Tag: TagOrientation, Type: testimg.Short, Values: []uint32{6}},
		testimg.Field{Tag: TagStripOffsets, Type: testimg.Long, Values: []uint32{s2, s2 + 1}},
		testimg.Field{Tag: TagStripByteCounts, Type: testimg.Long, Values: []uint32{1, 1}},
		testimg.Field{Tag: TagXResolution, Type: testimg.Rational, Values: []uint32{100, 1}},
		testimg.Field{Tag: TagYResolution, Type: testimg.Rational, Values: []uint32{100, 1}},
		testimg.Field{Tag: TagResolutionUnit, Type: testimg.Short, Values: []uint32{3}},
		testimg.Field{Tag: TagICCProfile, Type: testimg.Undefined, Raw: []byte("profile")},
	)
	return t.Bytes()
}

func TestParsePages(t *testing.T) {
	for _, order := range []testimg.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		t.Run(order.String(), func(t *testing.T) {
			data := twoPages(order)
			f, err := Parse(data)
			if err != nil {
				t.Fatal(err)
			}
			if len(f.IFDs) != 2 {
				t.Fatalf("got %d pages, want 2", len(f.IFDs))
			}

			p0, err := f.Page(0)
			if err != nil {
				t.Fatal(err)
			}
			want0 := &Page{
				Index:           0,
				Width:           60,
				Height:          40,
				BitsPerSample:   []int{1},
				SamplesPerPixel: 1,
				Compression:     CompressionG4,
				Photometric:     PhotometricMinIsWhite,
				FillOrder:       2,
				Orientation:     1,
				StripOffsets:    []uint32{8},
				StripByteCounts: []uint32{5},
				DPIX:            300,
				DPIY:            300,
			}
			if d := cmp.Diff(want0, p0); d != "" {
				t.Errorf("page 0 (-want +got):\n%s", d)
			}
			if !p0.IsBilevel() {
				t.Error("page 0 is not bilevel")
			}
			strip, err := p0.Strip(data)
			if err != nil {
				t.Fatal(err)
			}
			if d := cmp.Diff([]byte{1, 2, 3, 4, 5}, strip); d != "" {
				t.Errorf("strip (-want +got):\n%s", d)
			}

			p1, err := f.Page(1)
			if err != nil {
				t.Fatal(err)
			}
			if p1.Orientation != 6 || p1.SamplesPerPixel != 3 || p1.IsBilevel() {
				t.Errorf("unexpected page 1: %+v", p1)
			}
			if p1.DPIX != 254 || p1.DPIY != 254 {
				t.Errorf("page 1 resolution = %g x %g, want 254 x 254", p1.DPIX, p1.DPIY)
			}
			if string(p1.ICCProfile) != "profile" {
				t.Errorf("ICC profile = %q", p1.ICCProfile)
			}
			if _, err := p1.Strip(data); err == nil {
				t.Error("multi-strip page accepted")
			}
		})
	}
}

func TestSelectPage(t *testing.T) {
	data := twoPages(binary.LittleEndian)
	f, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}

	sel, err := f.SelectPage(data, 1)
	if err != nil {
		t.Fatal(err)
	}
	g, err := Parse(sel)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.IFDs) != 1 || g.IFDs[0].Offset != f.IFDs[1].Offset {
		t.Errorf("selected file has wrong first directory")
	}
	// the original must be left alone
	h, _ := Parse(data)
	if len(h.IFDs) != 2 {
		t.Error("original data was modified")
	}
	if _, err := f.SelectPage(data, 2); err == nil {
		t.Error("page 2 accepted")
	}
}

func TestParseErrors(t *testing.T) {
	good := twoPages(binary.BigEndian)

	loop := testimg.NewTIFF(binary.LittleEndian)
	loop.AddIFD(testimg.Field{Tag: TagImageWidth, Type: testimg.Short, Values: []uint32{1}})
	loopData := loop.Bytes()
	// let the next pointer refer back to the first directory
	copy(loopData[len(loopData)-4:], loopData[4:8])

	cases := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"no header", []byte("GIF89a\x00\x00\x00\x00")},
		{"BigTIFF", []byte("II\x2b\x00\x08\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00")},
		{"truncated", good[:len(good)-20]},
		{"loop", loopData},
		{"no directory", []byte("II\x2a\x00\x00\x00\x00\x00")},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse(c.data)
			var mErr *format.MalformedError
			if !errors.As(err, &mErr) {
				t.Fatalf("got %v, want a MalformedError", err)
			}
		})
	}
}

func TestResolutionUnits(t *testing.T) {
	build := func(unit uint32) *IFD {
		b := testimg.NewTIFF(binary.LittleEndian)
		fields := []testimg.Field{
			{Tag: TagXResolution, Type: testimg.Rational, Values: []uint32{72, 1}},
			{Tag: TagYResolution, Type: testimg.Rational, Values: []uint32{144, 1}},
		}
		if unit != 0 {
			fields = append(fields, testimg.Field{Tag: TagResolutionUnit, Type: testimg.Short, Values: []uint32{unit}})
		}
		b.AddIFD(fields...)
		f, err := Parse(b.Bytes())
		if err != nil {
			t.Fatal(err)
		}
		return f.IFDs[0]
	}

	cases := []struct {
		unit   uint32
		wx, wy float64
	}{
		{0, 72, 144},
		{1, 0, 0},
		{2, 72, 144},
		{3, 72 * 2.54, 144 * 2.54},
	}
	for _, c := range cases {
		x, y := build(c.unit).Resolution()
		if x != c.wx || y != c.wy {
			t.Errorf("unit %d: got %g x %g, want %g x %g", c.unit, x, y, c.wx, c.wy)
		}
	}
}
