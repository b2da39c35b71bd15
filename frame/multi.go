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
	"encoding/binary"
	"fmt"
	"image"
	"image/draw"
	"image/gif"

	xtiff "golang.org/x/image/tiff"

	"github.com/imgpdf/img2pdf/format/miff"
	"github.com/imgpdf/img2pdf/format/tiff"
	"github.com/imgpdf/img2pdf/internal/filter/ccittfax"
)

func (o *Options) tiffFrames(data []byte) ([]*Frame, error) {
	file, err := tiff.Parse(data)
	if err != nil {
		return nil, err
	}

	n := len(file.IFDs)
	if o.FirstFrameOnly {
		n = 1
	}
	res := make([]*Frame, 0, n)
	for i := range n {
		page, err := file.Page(i)
		if err != nil {
			return nil, err
		}
		f, err := o.tiffFrame(data, file, page)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		res = append(res, f)
	}
	return res, nil
}

func (o *Options) tiffFrame(data []byte, file *tiff.File, page *tiff.Page) (*Frame, error) {
	base, err := o.baseFrame(page.DPIX, page.DPIY, page.Orientation, page.ICCProfile)
	if err != nil {
		return nil, err
	}

	forced := o.Colorspace
	if page.Compression == tiff.CompressionG4 &&
		(forced == ColorspaceUnknown || forced == Bilevel) {
		return o.g4Passthrough(data, page, base)
	}

	pageData, err := file.SelectPage(data, page.Index)
	if err != nil {
		return nil, err
	}
	img, err := xtiff.Decode(bytes.NewReader(pageData))
	if err != nil {
		return nil, err
	}

	var depth int
	if len(page.BitsPerSample) > 0 {
		depth = page.BitsPerSample[0]
	}
	h := hints{
		gray: page.Photometric == tiff.PhotometricMinIsWhite ||
			page.Photometric == tiff.PhotometricMinIsBlack,
		depth: depth,
	}
	h.bilevel = h.gray && page.IsBilevel()
	return o.fromDecoded(img, h, base)
}

// g4Passthrough copies the strip of a Group 4 compressed page.
func (o *Options) g4Passthrough(data []byte, page *tiff.Page, base Frame) (*Frame, error) {
	if len(page.StripOffsets) != 1 {
		return nil, fmt.Errorf("%w: page has %d strips", ErrMultiStrip, len(page.StripOffsets))
	}

	var inverted bool
	switch page.Photometric {
	case tiff.PhotometricMinIsWhite:
		inverted = true
	case tiff.PhotometricMinIsBlack:
		inverted = false
	default:
		return nil, fmt.Errorf("%w: photometric interpretation %d for Group 4 data",
			ErrUnsupportedColorspace, page.Photometric)
	}

	strip, err := page.Strip(data)
	if err != nil {
		return nil, err
	}
	switch page.FillOrder {
	case 1:
	case 2:
		strip = ccittfax.ReverseBits(strip)
	default:
		return nil, fmt.Errorf("invalid fill order %d", page.FillOrder)
	}

	f := base
	f.Colorspace = Bilevel
	f.Format = CCITTGroup4
	f.Payload = strip
	f.Width = page.Width
	f.Height = page.Height
	f.BitDepth = 1
	f.Inverted = inverted
	f.ICCProfile = o.checkICC(f.ICCProfile, Bilevel)
	return &f, nil
}

func (o *Options) gifFrames(data []byte) ([]*Frame, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("GIF file without images")
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}
	canvas := image.NewNRGBA(bounds)

	var res []*Frame
	for i, frame := range g.Image {
		var saved *image.NRGBA
		var disposal byte
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			saved = image.NewNRGBA(bounds)
			copy(saved.Pix, canvas.Pix)
		}
		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)

		var img image.Image = frame
		if frame.Bounds() != bounds || !opaque(frame) {
			snapshot := image.NewNRGBA(bounds)
			copy(snapshot.Pix, canvas.Pix)
			img = snapshot
		}
		base, err := o.baseFrame(0, 0, 0, nil)
		if err != nil {
			return nil, err
		}
		f, err := o.fromDecoded(img, hints{}, base)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		res = append(res, f)
		if o.FirstFrameOnly {
			break
		}

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = saved
		}
	}
	return res, nil
}

// opaque reports whether no pixel of the image uses a transparent palette
// entry.
func opaque(img *image.Paletted) bool {
	var transparent [256]bool
	found := false
	for i, c := range img.Palette {
		if _, _, _, a := c.RGBA(); a != 0xffff {
			transparent[i] = true
			found = true
		}
	}
	if !found {
		return true
	}
	for _, idx := range img.Pix {
		if transparent[idx] {
			return false
		}
	}
	return true
}

func (o *Options) miffFrames(data []byte) ([]*Frame, error) {
	images, err := miff.Parse(data)
	if err != nil {
		return nil, err
	}
	if o.FirstFrameOnly {
		images = images[:1]
	}
	res := make([]*Frame, 0, len(images))
	for i, img := range images {
		p, err := miffPixels(img)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		base, err := o.baseFrame(img.DPIX, img.DPIY, 0, img.ICCProfile)
		if err != nil {
			return nil, err
		}
		f, err := o.fromPixels(p, hints{}, base)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		res = append(res, f)
	}
	return res, nil
}

// miffPixels converts the samples of a MIFF image.
func miffPixels(img *miff.Image) (*pixels, error) {
	if img.Depth == 32 {
		return nil, fmt.Errorf("%w: 32 bits per sample", ErrUnsupportedColorspace)
	}
	p := &pixels{w: img.Columns, h: img.Rows, depth: img.Depth}
	n := p.w * p.h

	if img.Class == "PseudoClass" {
		if img.Colors > 256 {
			return nil, fmt.Errorf("%w: palette with %d colors", ErrUnsupportedColorspace, img.Colors)
		}
		step := img.Depth / 8
		p.palette = make([]byte, 0, 3*img.Colors)
		for i := 0; i < len(img.Palette); i += step {
			// 16 bit palette entries are reduced to their high byte
			p.palette = append(p.palette, img.Palette[i])
		}
		p.cs = Indexed
		p.depth = paletteDepth(img.Colors)
		stride := img.Channels()
		p.samples = make([]uint16, 0, n)
		for i := 0; i < len(img.Pixels); i += stride {
			if int(img.Pixels[i]) >= img.Colors {
				return nil, fmt.Errorf("palette index %d out of range", img.Pixels[i])
			}
			p.samples = append(p.samples, uint16(img.Pixels[i]))
		}
		if img.Matte {
			p.alpha = make([]uint16, 0, n)
			for i := 1; i < len(img.Pixels); i += stride {
				p.alpha = append(p.alpha, uint16(img.Pixels[i]))
			}
			p.expandPalette()
		}
		return p, nil
	}

	switch img.Colorspace {
	case "Gray", "gray", "GRAY":
		p.cs = Gray
	case "sRGB", "RGB":
		p.cs = RGB
	case "CMYK":
		p.cs = CMYK
	default:
		return nil, fmt.Errorf("%w: MIFF colorspace %q", ErrUnsupportedColorspace, img.Colorspace)
	}

	channels := img.Channels()
	colors := p.cs.Channels()
	p.samples = make([]uint16, 0, n*colors)
	if img.Matte {
		p.alpha = make([]uint16, 0, n)
	}
	step := img.Depth / 8
	for i := 0; i < n; i++ {
		px := img.Pixels[i*channels*step : (i+1)*channels*step]
		for c := range channels {
			var v uint16
			if step == 2 {
				v = binary.BigEndian.Uint16(px[2*c:])
			} else {
				v = uint16(px[c])
			}
			if c < colors {
				p.samples = append(p.samples, v)
			} else {
				p.alpha = append(p.alpha, v)
			}
		}
	}
	return p, nil
}
