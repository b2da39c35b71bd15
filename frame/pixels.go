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
	"fmt"
	"image"
	"image/color"
)

// pixels holds decoded samples in a normalised form.
type pixels struct {
	cs    Colorspace // Gray, RGB, Indexed, CMYK or CMYKInverted
	w, h  int
	depth int

	// samples holds w*h*cs.Channels() values, or w*h palette indices
	samples []uint16

	// alpha is nil for opaque images
	alpha []uint16

	palette []byte
}

func (p *pixels) channels() int {
	return p.cs.Channels()
}

// fromImage converts a decoded image.  If grayHint is set and the image
// only contains gray values, the result uses the Gray colorspace.
func fromImage(img image.Image, grayHint bool) (*pixels, error) {
	b := img.Bounds()
	p := &pixels{w: b.Dx(), h: b.Dy()}
	if p.w <= 0 || p.h <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", p.w, p.h)
	}
	n := p.w * p.h

	switch img := img.(type) {
	case *image.Paletted:
		pal := make([]color.NRGBA, len(img.Palette))
		for i, c := range img.Palette {
			pal[i] = color.NRGBAModel.Convert(c).(color.NRGBA)
		}
		p.cs = Indexed
		p.samples = make([]uint16, 0, n)
		transparent := false
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				idx := img.ColorIndexAt(x, y)
				if int(idx) >= len(pal) {
					return nil, fmt.Errorf("palette index %d out of range", idx)
				}
				if pal[idx].A != 0xff {
					transparent = true
				}
				p.samples = append(p.samples, uint16(idx))
			}
		}
		p.palette = make([]byte, 0, 3*len(pal))
		for _, c := range pal {
			p.palette = append(p.palette, c.R, c.G, c.B)
		}
		p.depth = paletteDepth(len(pal))
		if transparent {
			// PDF cannot attach a soft mask to palette entries
			p.expandPalette()
			p.alpha = make([]uint16, n)
			i := 0
			for y := b.Min.Y; y < b.Max.Y; y++ {
				for x := b.Min.X; x < b.Max.X; x++ {
					p.alpha[i] = uint16(pal[img.ColorIndexAt(x, y)].A)
					i++
				}
			}
		}
		return p, nil

	case *image.Gray:
		p.cs, p.depth = Gray, 8
		p.samples = make([]uint16, 0, n)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				p.samples = append(p.samples, uint16(img.GrayAt(x, y).Y))
			}
		}
		return p, nil

	case *image.Gray16:
		p.cs, p.depth = Gray, 16
		p.samples = make([]uint16, 0, n)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				p.samples = append(p.samples, img.Gray16At(x, y).Y)
			}
		}
		return p, nil

	case *image.CMYK:
		p.cs, p.depth = CMYK, 8
		p.samples = make([]uint16, 0, 4*n)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := img.CMYKAt(x, y)
				p.samples = append(p.samples, uint16(c.C), uint16(c.M), uint16(c.Y), uint16(c.K))
			}
		}
		return p, nil

	case *image.RGBA64, *image.NRGBA64:
		p.cs, p.depth = RGB, 16
		p.samples = make([]uint16, 0, 3*n)
		alpha := make([]uint16, 0, n)
		opaque := true
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBA64Model.Convert(img.At(x, y)).(color.NRGBA64)
				p.samples = append(p.samples, c.R, c.G, c.B)
				alpha = append(alpha, c.A)
				opaque = opaque && c.A == 0xffff
			}
		}
		if !opaque {
			p.alpha = alpha
		}
		p.grayIfPossible(grayHint)
		return p, nil
	}

	p.cs, p.depth = RGB, 8
	p.samples = make([]uint16, 0, 3*n)
	alpha := make([]uint16, 0, n)
	opaque := true
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			p.samples = append(p.samples, uint16(c.R), uint16(c.G), uint16(c.B))
			alpha = append(alpha, uint16(c.A))
			opaque = opaque && c.A == 0xff
		}
	}
	if !opaque {
		p.alpha = alpha
	}
	p.grayIfPossible(grayHint)
	return p, nil
}

// paletteDepth returns the smallest PNG bit depth which can index n colors.
func paletteDepth(n int) int {
	switch {
	case n <= 2:
		return 1
	case n <= 4:
		return 2
	case n <= 16:
		return 4
	default:
		return 8
	}
}

// grayIfPossible reduces an RGB image to Gray, if requested and if no
// information is lost.
func (p *pixels) grayIfPossible(grayHint bool) {
	if !grayHint || p.cs != RGB {
		return
	}
	s := p.samples
	for i := 0; i < len(s); i += 3 {
		if s[i] != s[i+1] || s[i] != s[i+2] {
			return
		}
	}
	gray := make([]uint16, 0, len(s)/3)
	for i := 0; i < len(s); i += 3 {
		gray = append(gray, s[i])
	}
	p.cs = Gray
	p.samples = gray
}

// expandPalette replaces palette indices by RGB samples.
func (p *pixels) expandPalette() {
	if p.cs != Indexed {
		return
	}
	res := make([]uint16, 0, 3*len(p.samples))
	for _, idx := range p.samples {
		i := 3 * int(idx)
		res = append(res, uint16(p.palette[i]), uint16(p.palette[i+1]), uint16(p.palette[i+2]))
	}
	p.cs = RGB
	p.depth = 8
	p.samples = res
	p.palette = nil
}

// isBilevel reports whether all samples are black or white.
func (p *pixels) isBilevel() bool {
	if p.cs != Gray || p.depth != 8 || p.alpha != nil {
		return false
	}
	for _, v := range p.samples {
		if v != 0 && v != 0xff {
			return false
		}
	}
	return true
}

// reduceDepth tries to store 8-bit gray samples with srcDepth bits per
// sample.  This recovers the bit depth of 2 and 4 bit images, which
// decoders scale up to 8 bits.
func (p *pixels) reduceDepth(srcDepth int) {
	if p.cs != Gray || p.depth != 8 || (srcDepth != 2 && srcDepth != 4) {
		return
	}
	maxVal := uint16(1)<<srcDepth - 1
	step := 0xff / maxVal
	for _, v := range p.samples {
		if v%step != 0 {
			return
		}
	}
	for i, v := range p.samples {
		p.samples[i] = v / step
	}
	p.depth = srcDepth
}
