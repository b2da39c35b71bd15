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

// Packer packs sample values into bytes, with the most significant bits
// first.  Rows always start at a byte boundary.
type Packer struct {
	bpc  int
	buf  []byte
	acc  uint
	bits int
}

// NewPacker returns a Packer for the given number of bits per sample.
// The capacity hint is the expected number of output bytes.
func NewPacker(bitsPerComponent int, capacity int) *Packer {
	return &Packer{
		bpc: bitsPerComponent,
		buf: make([]byte, 0, capacity),
	}
}

// Add appends one sample.  Values are truncated to the sample width.
func (p *Packer) Add(v uint16) {
	switch p.bpc {
	case 8:
		p.buf = append(p.buf, byte(v))
	case 16:
		p.buf = append(p.buf, byte(v>>8), byte(v))
	default:
		p.acc = p.acc<<p.bpc | uint(v)&(1<<p.bpc-1)
		p.bits += p.bpc
		if p.bits == 8 {
			p.buf = append(p.buf, byte(p.acc))
			p.acc = 0
			p.bits = 0
		}
	}
}

// EndRow pads the current row with zero bits to a byte boundary.
func (p *Packer) EndRow() {
	if p.bits > 0 {
		p.buf = append(p.buf, byte(p.acc<<(8-p.bits)))
		p.acc = 0
		p.bits = 0
	}
}

// Bytes returns the packed data.  A partial last row is padded.
func (p *Packer) Bytes() []byte {
	p.EndRow()
	return p.buf
}
