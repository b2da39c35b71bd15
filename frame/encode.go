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

package frame

import (
	"bytes"
	"fmt"

	"github.com/imgpdf/img2pdf/internal/filter/ccittfax"
	"github.com/imgpdf/img2pdf/internal/filter/deflate"
	"github.com/imgpdf/img2pdf/internal/filter/predict"
)

// encodePNG packs samples into a flate compressed PNG predictor stream.
func encodePNG(w, h, colors, depth int, samples []uint16) ([]byte, error) {
	params := &predict.Params{
		Colors:           colors,
		BitsPerComponent: depth,
		Columns:          w,
	}
	buf := &bytes.Buffer{}
	zw := deflate.NewWriter(buf)
	pw, err := predict.NewWriter(zw, params)
	if err != nil {
		return nil, err
	}

	rowLen := params.BytesPerRow()
	perRow := w * colors
	for y := range h {
		packer := predict.NewPacker(depth, rowLen)
		for _, v := range samples[y*perRow : (y+1)*perRow] {
			packer.Add(v)
		}
		if _, err := pw.Write(packer.Bytes()); err != nil {
			return nil, err
		}
	}
	if err := pw.Close(); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encodeRaw compresses samples without a predictor.
func encodeRaw(depth int, samples []uint16) []byte {
	packer := predict.NewPacker(depth, len(samples)*depth/8)
	for _, v := range samples {
		packer.Add(v)
	}
	return deflate.Compress(packer.Bytes())
}

// encodeG4 encodes a bilevel image as CCITT Group 4 data.  The samples
// must be 0 (black) or 0xff (white).  The output is always stored most
// significant bit first and uses BlackIs1, so that the decoded bits equal
// the gray samples.
func encodeG4(p *pixels) ([]byte, error) {
	if !p.isBilevel() {
		return nil, fmt.Errorf("not a bilevel image")
	}
	buf := &bytes.Buffer{}
	enc, err := ccittfax.NewWriter(buf, &ccittfax.Params{
		Columns:  p.w,
		BlackIs1: true,
		MaxRows:  p.h,
	})
	if err != nil {
		return nil, err
	}
	for y := range p.h {
		packer := predict.NewPacker(1, (p.w+7)/8)
		for _, v := range p.samples[y*p.w : (y+1)*p.w] {
			packer.Add(v & 1)
		}
		if _, err := enc.Write(packer.Bytes()); err != nil {
			return nil, err
		}
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encodePixels turns decoded samples into a frame.  The fields of base
// describing the source (resolution, rotation, ICC profile) are copied.
func (o *Options) encodePixels(p *pixels, base Frame, bilevel bool) (*Frame, error) {
	f := base
	f.Width = p.w
	f.Height = p.h

	if bilevel && p.isBilevel() {
		data, err := encodeG4(p)
		if err == nil {
			f.Colorspace = Bilevel
			f.Format = CCITTGroup4
			f.Payload = data
			f.BitDepth = 1
			f.ICCProfile = o.checkICC(f.ICCProfile, Gray)
			return &f, nil
		}
		o.warn("CCITT Group 4 encoding failed, storing as grayscale", "error", err)
	}

	if p.alpha != nil {
		if p.depth > 8 {
			return nil, ErrAlphaDepth
		}
		o.warn("image has an alpha channel, storing it as a soft mask")
		mask, err := encodePNG(p.w, p.h, 1, 8, p.alpha)
		if err != nil {
			return nil, err
		}
		f.SoftMask = mask
	}

	f.Colorspace = p.cs
	f.BitDepth = p.depth
	f.Format = FlateRaw

	switch p.cs {
	case CMYK, CMYKInverted:
		f.Payload = encodeRaw(p.depth, p.samples)
		f.ICCProfile = o.checkICC(f.ICCProfile, p.cs)
		return &f, nil

	case Indexed:
		if len(p.palette)/3 > 1<<p.depth {
			return nil, fmt.Errorf("palette with %d entries exceeds bit depth %d",
				len(p.palette)/3, p.depth)
		}
		for _, idx := range p.samples {
			if 3*int(idx) >= len(p.palette) {
				return nil, fmt.Errorf("palette index %d out of range", idx)
			}
		}
		if f.ICCProfile != nil {
			return nil, ErrIndexedICC
		}
		f.Palette = p.palette

	case Gray, RGB:
		f.ICCProfile = o.checkICC(f.ICCProfile, p.cs)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedColorspace, p.cs)
	}

	data, err := encodePNG(p.w, p.h, p.channels(), p.depth, p.samples)
	if err != nil {
		return nil, err
	}
	f.Payload = data
	f.Predictor = true
	return &f, nil
}
