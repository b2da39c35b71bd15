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

package predict

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParamsValidate(t *testing.T) {
	cases := []struct {
		p  Params
		ok bool
	}{
		{Params{Colors: 1, BitsPerComponent: 8, Columns: 1}, true},
		{Params{Colors: 3, BitsPerComponent: 16, Columns: 100}, true},
		{Params{Colors: 0, BitsPerComponent: 8, Columns: 1}, false},
		{Params{Colors: 5, BitsPerComponent: 8, Columns: 1}, false},
		{Params{Colors: 1, BitsPerComponent: 3, Columns: 1}, false},
		{Params{Colors: 1, BitsPerComponent: 8, Columns: 0}, false},
	}
	for i, test := range cases {
		err := test.p.Validate()
		if (err == nil) != test.ok {
			t.Errorf("%d: unexpected error status %v", i, err)
		}
	}
}

func TestBytesPerRow(t *testing.T) {
	cases := []struct {
		p   Params
		out int
	}{
		{Params{Colors: 1, BitsPerComponent: 1, Columns: 9}, 2},
		{Params{Colors: 1, BitsPerComponent: 2, Columns: 5}, 2},
		{Params{Colors: 1, BitsPerComponent: 4, Columns: 3}, 2},
		{Params{Colors: 3, BitsPerComponent: 8, Columns: 3}, 9},
		{Params{Colors: 4, BitsPerComponent: 16, Columns: 2}, 16},
	}
	for _, test := range cases {
		if got := test.p.BytesPerRow(); got != test.out {
			t.Errorf("%v: got %d, want %d", test.p, got, test.out)
		}
	}
}

func TestWriter(t *testing.T) {
	p := &Params{Colors: 1, BitsPerComponent: 8, Columns: 3}
	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, p)
	if err != nil {
		t.Fatal(err)
	}
	// rows split across calls
	for _, chunk := range [][]byte{{1, 2}, {3, 4, 5, 6, 7}, {8, 9}} {
		if _, err := w.Write(chunk); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	want := []byte{0, 1, 2, 3, 0, 4, 5, 6, 0, 7, 8, 9}
	if d := cmp.Diff(want, buf.Bytes()); d != "" {
		t.Error(d)
	}
}

func TestWriterPartialRow(t *testing.T) {
	p := &Params{Colors: 3, BitsPerComponent: 8, Columns: 1}
	w, err := NewWriter(&bytes.Buffer{}, p)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte{1, 2}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err == nil {
		t.Error("incomplete row not detected")
	}
}

func TestPacker(t *testing.T) {
	cases := []struct {
		bpc  int
		rows [][]uint16
		out  []byte
	}{
		{1, [][]uint16{{1, 0, 1}, {0, 1, 1}}, []byte{0b10100000, 0b01100000}},
		{2, [][]uint16{{3, 0, 1, 2, 1}}, []byte{0b11000110, 0b01000000}},
		{4, [][]uint16{{0xA, 0x5, 0xF}}, []byte{0xA5, 0xF0}},
		{8, [][]uint16{{1, 255}}, []byte{1, 255}},
		{16, [][]uint16{{0x1234}}, []byte{0x12, 0x34}},
	}
	for _, test := range cases {
		p := NewPacker(test.bpc, 0)
		for _, row := range test.rows {
			for _, v := range row {
				p.Add(v)
			}
			p.EndRow()
		}
		if d := cmp.Diff(test.out, p.Bytes()); d != "" {
			t.Errorf("bpc=%d: %s", test.bpc, d)
		}
	}
}

func TestDecodeParms(t *testing.T) {
	p := &Params{Colors: 3, BitsPerComponent: 8, Columns: 60}
	d := p.DecodeParms()
	if d["Predictor"] == nil || d["Colors"] == nil || d["Columns"] == nil {
		t.Errorf("incomplete decode parameters %v", d)
	}
}
