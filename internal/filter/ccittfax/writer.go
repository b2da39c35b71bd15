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

// Package ccittfax implements a CCITT Group 4 (ITU-T T.6) encoder for
// bilevel images, together with the bit order helpers needed to embed
// Group 4 data from TIFF files into PDF.
package ccittfax

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// Params holds the encoder parameters.
type Params struct {
	// Columns is the width of the image in pixels.
	Columns int

	// BlackIs1 indicates that 1 bits in the input data are black pixels.
	// If this is false, 0 bits are black.
	BlackIs1 bool

	// MaxRows, if positive, limits the number of rows which can be written.
	MaxRows int
}

// Writer encodes data using CCITT Group 4 compression.
//
// Input rows are packed one bit per pixel, most significant bit first, and
// every row starts at a byte boundary.  The output is always written in
// most significant bit first order.
type Writer struct {
	p      Params
	w      *bufio.Writer
	closed bool

	lineBytes int
	line      []byte
	numRows   int

	// changing elements of the current and the reference line
	cur, ref []int

	byteVal   byte
	validBits int
}

// NewWriter creates a new Group 4 encoder with the given parameters.
func NewWriter(w io.Writer, p *Params) (*Writer, error) {
	if p.Columns < 1 {
		return nil, fmt.Errorf("ccittfax: invalid number of columns %d", p.Columns)
	}
	lineBytes := (p.Columns + 7) / 8
	out := &Writer{
		w:         bufio.NewWriter(w),
		p:         *p,
		lineBytes: lineBytes,
		line:      make([]byte, 0, lineBytes),
	}
	// the first reference line is all white
	out.ref = appendSentinels(out.ref[:0], p.Columns)
	return out, nil
}

// Write implements the io.Writer interface.
func (w *Writer) Write(p []byte) (n int, err error) {
	if w.closed {
		return 0, errClosed
	}
	for len(p) > 0 {
		if w.p.MaxRows > 0 && w.numRows >= w.p.MaxRows {
			return n, errTooManyRows
		}

		k := min(w.lineBytes-len(w.line), len(p))
		w.line = append(w.line, p[:k]...)
		p = p[k:]
		n += k

		if len(w.line) == w.lineBytes {
			err = w.writeRow()
			if err != nil {
				return n, err
			}
			w.numRows++
			w.line = w.line[:0]
		}
	}
	return n, nil
}

// Close writes the end-of-block marker and flushes the output.
// The underlying writer is not closed.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if len(w.line) != 0 {
		return errPartialRow
	}

	// EOFB: 000000000001000000000001
	if err := w.writeBits(0b000000000001_000000000001, 24); err != nil {
		return err
	}
	return w.flushBits()
}

func (w *Writer) writeRow() error {
	w.cur = w.changingElements(w.cur[:0])
	err := w.encodeLine()
	if err != nil {
		return err
	}
	w.cur, w.ref = w.ref, w.cur
	return nil
}

// changingElements lists the positions where the color of the current line
// changes, starting from an imaginary white pixel left of the line.  Even
// indices are changes to black, odd indices changes to white.
func (w *Writer) changingElements(buf []int) []int {
	color := false
	for x := 0; x < w.p.Columns; x++ {
		if w.isBlack(x) != color {
			buf = append(buf, x)
			color = !color
		}
	}
	return appendSentinels(buf, w.p.Columns)
}

func appendSentinels(buf []int, columns int) []int {
	return append(buf, columns, columns, columns)
}

func (w *Writer) isBlack(x int) bool {
	bit := w.line[x/8]>>(7-x%8)&1 == 1
	return bit == w.p.BlackIs1
}

// encodeLine encodes the current line in two-dimensional mode, relative to
// the reference line.
func (w *Writer) encodeLine() error {
	columns := w.p.Columns
	a0 := -1
	black := false // the color of a0

	ci, ri := 0, 0
	for a0 < columns {
		for w.cur[ci] <= a0 {
			ci++
		}
		a1 := w.cur[ci]
		a2 := w.cur[ci+1]

		for w.ref[ri] <= a0 {
			ri++
		}
		j := ri
		if (j%2 == 1) != black {
			// w.ref[j] has the same color as a0
			j++
		}
		b1 := w.ref[j]
		b2 := w.ref[j+1]

		var err error
		switch {
		case b2 < a1: // pass mode
			err = w.writeBits(0b0001, 4)
			a0 = b2
		case a1-b1 >= -3 && a1-b1 <= 3: // vertical mode
			c := verticalCodes[a1-b1+3]
			err = w.writeBits(c.code, c.bits)
			a0 = a1
			black = !black
		default: // horizontal mode
			err = w.writeBits(0b001, 3)
			if err == nil {
				err = w.writeRun(a1-max(a0, 0), black)
			}
			if err == nil {
				err = w.writeRun(a2-a1, !black)
			}
			a0 = a2
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// writeRun writes the code words for a run of pixels of one color.
func (w *Writer) writeRun(n int, black bool) error {
	term, makeup := whiteTerm, whiteMakeup
	if black {
		term, makeup = blackTerm, blackMakeup
	}

	for n >= 2560+64 {
		c := extMakeup[len(extMakeup)-1]
		if err := w.writeBits(c.code, c.bits); err != nil {
			return err
		}
		n -= 2560
	}
	if n >= 64 {
		m := n / 64 // 1 <= m <= 40
		var c code
		if m <= len(makeup) {
			c = makeup[m-1]
		} else {
			c = extMakeup[m-len(makeup)-1]
		}
		if err := w.writeBits(c.code, c.bits); err != nil {
			return err
		}
		n -= 64 * m
	}
	c := term[n]
	return w.writeBits(c.code, c.bits)
}

func (w *Writer) writeBits(code uint32, length uint8) error {
	for bit := uint32(1) << (length - 1); bit > 0; bit >>= 1 {
		if code&bit != 0 {
			w.byteVal |= 1 << (7 - w.validBits)
		}
		w.validBits++

		if w.validBits >= 8 {
			if err := w.w.WriteByte(w.byteVal); err != nil {
				return err
			}
			w.byteVal = 0
			w.validBits = 0
		}
	}
	return nil
}

func (w *Writer) flushBits() error {
	if w.validBits > 0 {
		if err := w.w.WriteByte(w.byteVal); err != nil {
			return err
		}
		w.byteVal = 0
		w.validBits = 0
	}
	return w.w.Flush()
}

var (
	errClosed      = errors.New("ccittfax: writer is closed")
	errTooManyRows = errors.New("ccittfax: too many rows")
	errPartialRow  = errors.New("ccittfax: incomplete last row")
)
