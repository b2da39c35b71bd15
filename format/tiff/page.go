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
	"fmt"

	"github.com/imgpdf/img2pdf/format"
)

// Page summarises the directory of one TIFF page.
type Page struct {
	Index         int
	Width, Height int

	BitsPerSample   []int
	SamplesPerPixel int
	ExtraSamples    []int

	Compression int
	Photometric int
	FillOrder   int
	Orientation int

	StripOffsets    []uint32
	StripByteCounts []uint32

	DPIX, DPIY float64
	ICCProfile []byte
}

// Page returns a summary of page i.
func (f *File) Page(i int) (*Page, error) {
	if i < 0 || i >= len(f.IFDs) {
		return nil, fmt.Errorf("tiff: page %d out of range", i)
	}
	ifd := f.IFDs[i]

	w, okW := ifd.Uint(TagImageWidth)
	h, okH := ifd.Uint(TagImageLength)
	if !okW || !okH {
		return nil, malformed(int64(ifd.Offset), "missing image dimensions")
	}

	p := &Page{
		Index:           i,
		Width:           int(w),
		Height:          int(h),
		SamplesPerPixel: int(ifd.UintDefault(TagSamplesPerPixel, 1)),
		Compression:     int(ifd.UintDefault(TagCompression, CompressionNone)),
		Photometric:     int(ifd.UintDefault(TagPhotometric, PhotometricMinIsWhite)),
		FillOrder:       int(ifd.UintDefault(TagFillOrder, 1)),
		Orientation:     int(ifd.UintDefault(TagOrientation, 1)),
		StripOffsets:    ifd.Uints(TagStripOffsets),
		StripByteCounts: ifd.Uints(TagStripByteCounts),
		ICCProfile:      ifd.Bytes(TagICCProfile),
	}
	for _, b := range ifd.Uints(TagBitsPerSample) {
		p.BitsPerSample = append(p.BitsPerSample, int(b))
	}
	if p.BitsPerSample == nil {
		p.BitsPerSample = []int{1}
	}
	for _, x := range ifd.Uints(TagExtraSamples) {
		p.ExtraSamples = append(p.ExtraSamples, int(x))
	}
	p.DPIX, p.DPIY = ifd.Resolution()
	return p, nil
}

// IsBilevel reports whether the page stores one bit per pixel.
func (p *Page) IsBilevel() bool {
	return p.SamplesPerPixel == 1 && len(p.BitsPerSample) > 0 && p.BitsPerSample[0] == 1
}

// Strip returns the data of a page which is stored in a single strip.
func (p *Page) Strip(data []byte) ([]byte, error) {
	if len(p.StripOffsets) != 1 || len(p.StripByteCounts) != 1 {
		return nil, fmt.Errorf("tiff: page %d has %d strips, need exactly one",
			p.Index, len(p.StripOffsets))
	}
	start := int64(p.StripOffsets[0])
	end := start + int64(p.StripByteCounts[0])
	if end > int64(len(data)) {
		return nil, &format.MalformedError{Format: "tiff", Pos: start, Err: format.ErrTruncated}
	}
	return data[start:end], nil
}

// SelectPage returns a copy of data in which page i is the first page.
// Decoders which only read the first directory can then be used to decode
// any page of a multi-page file.
func (f *File) SelectPage(data []byte, i int) ([]byte, error) {
	if i < 0 || i >= len(f.IFDs) {
		return nil, fmt.Errorf("tiff: page %d out of range", i)
	}
	if i == 0 {
		return data, nil
	}
	res := make([]byte, len(data))
	copy(res, data)
	f.Order.PutUint32(res[4:8], f.IFDs[i].Offset)
	return res, nil
}
