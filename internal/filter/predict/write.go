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
	"errors"
	"io"
)

// Writer inserts a PNG filter type byte in front of every row of data
// written to it.
type Writer struct {
	w      io.Writer
	rowLen int
	rowPos int
	closed bool
}

// NewWriter returns a new Writer.  Data written to the Writer must consist
// of complete rows of p.BytesPerRow() bytes each, but rows may be split
// across calls to Write.
func NewWriter(w io.Writer, p *Params) (*Writer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Writer{w: w, rowLen: p.BytesPerRow()}, nil
}

var filterNone = []byte{0}

// Write implements the [io.Writer] interface.
func (w *Writer) Write(data []byte) (int, error) {
	if w.closed {
		return 0, errClosed
	}
	n := 0
	for len(data) > 0 {
		if w.rowPos == 0 {
			if _, err := w.w.Write(filterNone); err != nil {
				return n, err
			}
		}
		k := min(w.rowLen-w.rowPos, len(data))
		m, err := w.w.Write(data[:k])
		n += m
		if err != nil {
			return n, err
		}
		w.rowPos = (w.rowPos + k) % w.rowLen
		data = data[k:]
	}
	return n, nil
}

// Close checks that the last row was complete.
// The underlying writer is not closed.
func (w *Writer) Close() error {
	if w.closed {
		return errClosed
	}
	w.closed = true
	if w.rowPos != 0 {
		return errPartialRow
	}
	return nil
}

var (
	errClosed     = errors.New("predict: writer is closed")
	errPartialRow = errors.New("predict: incomplete last row")
)
