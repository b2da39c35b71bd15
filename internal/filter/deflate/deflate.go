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

// Package deflate implements a zlib encoder which only uses stored deflate
// blocks.
//
// The output of this encoder is a pure function of the input bytes.  It does
// not depend on the zlib version, the platform or any compression heuristics,
// so that repeated conversions give byte-identical PDF files.  Data is not
// made smaller, and is in fact slightly enlarged.
package deflate

import (
	"encoding/binary"
	"errors"
	"hash"
	"hash/adler32"
	"io"
)

// MaxBlockSize is the largest amount of data stored in one deflate block.
const MaxBlockSize = 0xFFFF

// header is the zlib header for "deflate, 32K window, no compression".
var header = []byte{0x78, 0x01}

// Compress returns the zlib encoding of data.
func Compress(data []byte) []byte {
	numBlocks := (len(data) + MaxBlockSize - 1) / MaxBlockSize
	if numBlocks == 0 {
		numBlocks = 1
	}
	out := make([]byte, 0, len(header)+5*numBlocks+len(data)+4)
	out = append(out, header...)
	for i := 0; i < numBlocks; i++ {
		start := i * MaxBlockSize
		end := min(start+MaxBlockSize, len(data))
		out = appendBlock(out, data[start:end], i == numBlocks-1)
	}
	return binary.BigEndian.AppendUint32(out, adler32.Checksum(data))
}

func appendBlock(out, chunk []byte, last bool) []byte {
	var ctrl byte
	if last {
		ctrl = 0x01
	}
	n := uint16(len(chunk))
	out = append(out, ctrl)
	out = binary.LittleEndian.AppendUint16(out, n)
	out = binary.LittleEndian.AppendUint16(out, ^n)
	return append(out, chunk...)
}

// Writer is a streaming version of [Compress].  The data written to a Writer
// is encoded into the same bytes as Compress would produce.
type Writer struct {
	w       io.Writer
	buf     []byte
	sum     hash.Hash32
	started bool
	closed  bool
	err     error
}

// NewWriter returns a new Writer which writes the encoded data to w.
// Close must be called to write the final block and the checksum.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w:   w,
		buf: make([]byte, 0, MaxBlockSize),
		sum: adler32.New(),
	}
}

// Write implements the io.Writer interface.
func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, errClosed
	}
	if w.err != nil {
		return 0, w.err
	}

	n := 0
	for len(p) > 0 {
		// A full buffer is only flushed once more data arrives, since the
		// last block must carry the final-block flag.
		if len(w.buf) == MaxBlockSize {
			w.flush(false)
			if w.err != nil {
				return n, w.err
			}
		}
		k := min(MaxBlockSize-len(w.buf), len(p))
		w.buf = append(w.buf, p[:k]...)
		w.sum.Write(p[:k])
		p = p[k:]
		n += k
	}
	return n, nil
}

// Close writes the final block and the checksum.
// Close does not close the underlying writer.
func (w *Writer) Close() error {
	if w.closed {
		return errClosed
	}
	w.closed = true
	w.flush(true)
	if w.err != nil {
		return w.err
	}
	_, w.err = w.w.Write(binary.BigEndian.AppendUint32(nil, w.sum.Sum32()))
	return w.err
}

func (w *Writer) flush(last bool) {
	var out []byte
	if !w.started {
		out = append(out, header...)
		w.started = true
	}
	out = appendBlock(out, w.buf, last)
	_, w.err = w.w.Write(out)
	w.buf = w.buf[:0]
}

var errClosed = errors.New("deflate: writer is closed")
