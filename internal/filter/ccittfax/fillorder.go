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

// reverseTable maps every byte to the byte with the bit order reversed.
var reverseTable [256]byte

func init() {
	for i := range reverseTable {
		var r byte
		for bit := 0; bit < 8; bit++ {
			if i&(1<<bit) != 0 {
				r |= 0x80 >> bit
			}
		}
		reverseTable[i] = r
	}
}

// ReverseBits returns a copy of data with the bit order of every byte
// reversed.  This converts between TIFF FillOrder 2 (least significant bit
// first) and the most significant bit first order required by PDF.
func ReverseBits(data []byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = reverseTable[b]
	}
	return out
}
