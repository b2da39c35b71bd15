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

package ccittfax

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/ccitt"
)

func encode(t *testing.T, p *Params, data []byte) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, p)
	if err != nil {
		t.Fatal(err)
	}
	n, err := w.Write(data)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(data) {
		t.Fatalf("wrote %d bytes, expected %d", n, len(data))
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestAllWhiteRow(t *testing.T) {
	p := &Params{Columns: 8, BlackIs1: true}
	got := encode(t, p, []byte{0x00})

	// V0, then EOFB, padded to a byte boundary
	expected := []byte{0x80, 0x08, 0x00, 0x80}
	if d := cmp.Diff(expected, got); d != "" {
		t.Fatalf("unexpected output: %s", d)
	}
}

type pattern struct {
	name string
	fn   func(x, y int) bool
}

var patterns = []pattern{
	{"white", func(x, y int) bool { return false }},
	{"black", func(x, y int) bool { return true }},
	{"stripes", func(x, y int) bool { return (x/3+y)%2 == 1 }},
	{"circle", func(x, y int) bool { return (x-28)*(x-28)+(y-30)*(y-30) <= 29*29 }},
	{"triangle", func(x, y int) bool { return x <= y }},
	{"noise", func() func(x, y int) bool {
		rng := rand.New(rand.NewSource(1))
		return func(x, y int) bool { return rng.Intn(7) == 0 }
	}()},
}

// TestCompatibility checks that the output can be decoded by
// golang.org/x/image/ccitt.
func TestCompatibility(t *testing.T) {
	for _, width := range []int{1, 7, 8, 62, 300, 3000} {
		for _, pat := range patterns {
			for _, blackIs1 := range []bool{false, true} {
				name := fmt.Sprintf("%d-%s-%t", width, pat.name, blackIs1)
				t.Run(name, func(t *testing.T) {
					height := 40
					lineBytes := (width + 7) / 8
					image := make([]byte, height*lineBytes)
					for y := range height {
						for x := range width {
							if pat.fn(x, y) == blackIs1 {
								image[y*lineBytes+x/8] |= 1 << (7 - x%8)
							}
						}
					}

					p := &Params{Columns: width, BlackIs1: blackIs1}
					encoded := encode(t, p, image)

					// By default, the decoder writes white pixels as 1 bits.
					opt := &ccitt.Options{Invert: blackIs1}
					r := ccitt.NewReader(bytes.NewReader(encoded), ccitt.MSB, ccitt.Group4, width, height, opt)
					out, err := io.ReadAll(r)
					if err != nil {
						t.Fatal(err)
					}
					clearPadding(out, width)
					if d := cmp.Diff(image, out); d != "" {
						t.Errorf("decoder produced different output: %s", d)
					}
				})
			}
		}
	}
}

// clearPadding zeros the unused bits at the end of every row.
func clearPadding(data []byte, width int) {
	if width%8 == 0 {
		return
	}
	lineBytes := (width + 7) / 8
	mask := byte(0xFF << (8 - width%8))
	for i := lineBytes - 1; i < len(data); i += lineBytes {
		data[i] &= mask
	}
}

func TestTooManyRows(t *testing.T) {
	w, err := NewWriter(io.Discard, &Params{Columns: 8, MaxRows: 1})
	if err != nil {
		t.Fatal(err)
	}
	_, err = w.Write([]byte{0, 0})
	if err != errTooManyRows {
		t.Errorf("expected errTooManyRows, got %v", err)
	}
}

func TestPartialRow(t *testing.T) {
	w, err := NewWriter(io.Discard, &Params{Columns: 9})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte{0}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != errPartialRow {
		t.Errorf("expected errPartialRow, got %v", err)
	}
}

func TestInvalidColumns(t *testing.T) {
	_, err := NewWriter(io.Discard, &Params{Columns: 0})
	if err == nil {
		t.Error("zero columns accepted")
	}
}

func TestReverseBits(t *testing.T) {
	in := []byte{0x01, 0x80, 0xF0, 0xA5, 0x00, 0xFF}
	want := []byte{0x80, 0x01, 0x0F, 0xA5, 0x00, 0xFF}
	if d := cmp.Diff(want, ReverseBits(in)); d != "" {
		t.Error(d)
	}
	for i := range 256 {
		if reverseTable[reverseTable[i]] != byte(i) {
			t.Fatalf("reversal of %02x is not an involution", i)
		}
	}
}
