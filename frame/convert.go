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

import "fmt"

// convert changes the colorspace of the samples to cs.  Alpha channels are
// kept.  Conversions follow the simple formulas used by common image
// libraries; no color management is applied.
func (p *pixels) convert(cs Colorspace) error {
	switch cs {
	case GrayAlpha:
		cs = Gray
	case RGBA:
		cs = RGB
	}
	if cs == p.cs {
		return nil
	}
	if p.depth == 16 || (p.depth < 8 && p.cs != Indexed) {
		p.to8Bit()
	}

	switch cs {
	case Gray, Bilevel:
		p.toRGB()
		gray := make([]uint16, 0, p.w*p.h)
		for i := 0; i < len(p.samples); i += 3 {
			r, g, b := uint32(p.samples[i]), uint32(p.samples[i+1]), uint32(p.samples[i+2])
			gray = append(gray, uint16((r*299+g*587+b*114)/1000))
		}
		p.samples = gray
		p.cs = Gray
		if cs == Bilevel {
			for i, v := range p.samples {
				if v >= 0x80 {
					p.samples[i] = 0xff
				} else {
					p.samples[i] = 0
				}
			}
		}

	case RGB:
		p.toRGB()

	case CMYK, CMYKInverted:
		p.toRGB()
		res := make([]uint16, 0, 4*p.w*p.h)
		for i := 0; i < len(p.samples); i += 3 {
			c, m, y := 0xff-p.samples[i], 0xff-p.samples[i+1], 0xff-p.samples[i+2]
			if cs == CMYKInverted {
				res = append(res, 0xff-c, 0xff-m, 0xff-y, 0xff)
			} else {
				res = append(res, c, m, y, 0)
			}
		}
		p.samples = res
		p.cs = cs

	case Indexed:
		return p.toIndexed()

	default:
		return fmt.Errorf("%w: cannot convert to %s", ErrUnsupportedColorspace, cs)
	}
	return nil
}

// to8Bit scales 16-bit samples down and 1, 2 or 4 bit samples up.
func (p *pixels) to8Bit() {
	switch {
	case p.depth == 16:
		for i, v := range p.samples {
			p.samples[i] = v >> 8
		}
		for i, v := range p.alpha {
			p.alpha[i] = v >> 8
		}
	case p.depth < 8:
		step := 0xff / (uint16(1)<<p.depth - 1)
		for i, v := range p.samples {
			p.samples[i] = v * step
		}
	}
	p.depth = 8
}

// toRGB converts 8-bit samples to RGB.
func (p *pixels) toRGB() {
	switch p.cs {
	case Indexed:
		p.expandPalette()
	case Gray:
		res := make([]uint16, 0, 3*len(p.samples))
		for _, v := range p.samples {
			res = append(res, v, v, v)
		}
		p.samples = res
	case CMYK, CMYKInverted:
		res := make([]uint16, 0, 3*p.w*p.h)
		for i := 0; i < len(p.samples); i += 4 {
			c, m, y, k := p.samples[i], p.samples[i+1], p.samples[i+2], p.samples[i+3]
			if p.cs == CMYKInverted {
				c, m, y, k = 0xff-c, 0xff-m, 0xff-y, 0xff-k
			}
			res = append(res,
				uint16(uint32(0xff-c)*uint32(0xff-k)/0xff),
				uint16(uint32(0xff-m)*uint32(0xff-k)/0xff),
				uint16(uint32(0xff-y)*uint32(0xff-k)/0xff))
		}
		p.samples = res
	}
	p.cs = RGB
	p.depth = 8
}

// toIndexed builds a palette for an image with at most 256 colors.
func (p *pixels) toIndexed() error {
	p.toRGB()
	index := make(map[[3]uint16]uint16)
	var palette []byte
	res := make([]uint16, 0, p.w*p.h)
	for i := 0; i < len(p.samples); i += 3 {
		key := [3]uint16{p.samples[i], p.samples[i+1], p.samples[i+2]}
		idx, ok := index[key]
		if !ok {
			if len(index) == 256 {
				return fmt.Errorf("%w: more than 256 colors for an indexed image", ErrUnsupportedColorspace)
			}
			idx = uint16(len(index))
			index[key] = idx
			palette = append(palette, byte(key[0]), byte(key[1]), byte(key[2]))
		}
		res = append(res, idx)
	}
	p.cs = Indexed
	p.samples = res
	p.palette = palette
	p.depth = paletteDepth(len(index))
	return nil
}
