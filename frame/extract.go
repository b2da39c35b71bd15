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
	"image"
	gopng "image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"

	"github.com/imgpdf/img2pdf/format/jp2"
	"github.com/imgpdf/img2pdf/format/jpeg"
	"github.com/imgpdf/img2pdf/format/miff"
	"github.com/imgpdf/img2pdf/format/png"
	"github.com/imgpdf/img2pdf/format/tiff"
)

// Kind identifies the container format of an input file.
type Kind int

// These are the recognised input formats.
const (
	KindUnknown Kind = iota
	KindJPEG
	KindJPEG2000
	KindPNG
	KindTIFF
	KindGIF
	KindMIFF
	KindBMP
	KindWebP
)

func (k Kind) String() string {
	switch k {
	case KindJPEG:
		return "JPEG"
	case KindJPEG2000:
		return "JPEG2000"
	case KindPNG:
		return "PNG"
	case KindTIFF:
		return "TIFF"
	case KindGIF:
		return "GIF"
	case KindMIFF:
		return "MIFF"
	case KindBMP:
		return "BMP"
	case KindWebP:
		return "WebP"
	default:
		return "unknown"
	}
}

// Detect determines the format of an image file from its first bytes.
func Detect(data []byte) Kind {
	switch {
	case jpeg.IsJPEG(data):
		return KindJPEG
	case jp2.IsJP2(data) || jp2.IsCodestream(data):
		return KindJPEG2000
	case bytes.HasPrefix(data, []byte(png.Signature)):
		return KindPNG
	case tiff.IsTIFF(data):
		return KindTIFF
	case bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a")):
		return KindGIF
	case miff.IsMIFF(data):
		return KindMIFF
	case bytes.HasPrefix(data, []byte("BM")):
		return KindBMP
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return KindWebP
	}
	return KindUnknown
}

// Extract splits an image file into frames, one for each page of the
// output.  A nil opts is the same as the zero Options.
func Extract(data []byte, opts *Options) ([]*Frame, error) {
	if opts == nil {
		opts = &Options{}
	}
	switch Detect(data) {
	case KindJPEG:
		return opts.jpegFrames(data)
	case KindJPEG2000:
		f, err := opts.jp2Frame(data)
		if err != nil {
			return nil, err
		}
		return []*Frame{f}, nil
	case KindPNG:
		f, err := opts.pngFrame(data)
		if err != nil {
			return nil, err
		}
		return []*Frame{f}, nil
	case KindTIFF:
		return opts.tiffFrames(data)
	case KindGIF:
		return opts.gifFrames(data)
	case KindMIFF:
		return opts.miffFrames(data)
	case KindBMP:
		img, err := bmp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return opts.single(img, hints{})
	case KindWebP:
		img, err := webp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return opts.single(img, hints{})
	}
	return nil, ErrUnsupportedFormat
}

// hints carry facts about the source which decoders do not preserve.
type hints struct {
	gray    bool // the source is grayscale
	bilevel bool // the source has one bit per pixel
	depth   int  // bits per sample in the source, if known
}

func (o *Options) single(img image.Image, h hints) ([]*Frame, error) {
	base, err := o.baseFrame(0, 0, 0, nil)
	if err != nil {
		return nil, err
	}
	f, err := o.fromDecoded(img, h, base)
	if err != nil {
		return nil, err
	}
	return []*Frame{f}, nil
}

// baseFrame sets up the fields which do not depend on the payload.
func (o *Options) baseFrame(dpiX, dpiY float64, orientation int, profile []byte) (Frame, error) {
	rot, err := o.rotation(orientation)
	if err != nil {
		return Frame{}, err
	}
	f := Frame{Rotation: rot, ICCProfile: profile}
	f.DPIX, f.DPIY = o.resolution(dpiX, dpiY)
	return f, nil
}

// fromDecoded stores a decoded image.
func (o *Options) fromDecoded(img image.Image, h hints, base Frame) (*Frame, error) {
	p, err := fromImage(img, h.gray)
	if err != nil {
		return nil, err
	}
	return o.fromPixels(p, h, base)
}

func (o *Options) fromPixels(p *pixels, h hints, base Frame) (*Frame, error) {
	if p.cs == Indexed && h.depth >= p.depth && h.depth <= 8 {
		p.depth = h.depth
	}

	bilevel := h.bilevel
	if cs := o.Colorspace; cs != ColorspaceUnknown {
		if cs == Bilevel {
			bilevel = true
		} else if cs != Gray {
			bilevel = false
		}
		if err := p.convert(cs); err != nil {
			return nil, err
		}
		if p.cs == Indexed && base.ICCProfile != nil {
			return nil, ErrIndexedICC
		}
	} else if p.cs == Indexed && base.ICCProfile != nil {
		// an ICC profile cannot describe the base space of a palette
		p.expandPalette()
	}
	if p.cs == Gray && !bilevel {
		p.reduceDepth(h.depth)
	}
	return o.encodePixels(p, base, bilevel)
}

func (o *Options) jpegFrames(data []byte) ([]*Frame, error) {
	info, err := jpeg.Parse(data)
	if err != nil {
		return nil, err
	}

	images := [][]byte{data}
	infos := []*jpeg.Info{info}
	if len(info.MPF) > 1 {
		parts, err := jpeg.Images(data, info)
		if err != nil {
			return nil, err
		}
		if jpeg.ThumbnailsOnly(info.MPF) && !o.IncludeThumbnails || o.FirstFrameOnly {
			images = parts[:1]
		} else {
			images = parts
			for _, img := range parts[1:] {
				sub, err := jpeg.Parse(img)
				if err != nil {
					return nil, err
				}
				infos = append(infos, sub)
			}
		}
	}

	res := make([]*Frame, 0, len(images))
	for i, img := range images {
		f, err := o.jpegFrame(img, infos[i])
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		res = append(res, f)
	}
	return res, nil
}

func (o *Options) jpegFrame(data []byte, info *jpeg.Info) (*Frame, error) {
	if !info.IsDCTDecodable() {
		return nil, fmt.Errorf("%w: JPEG process %#x with %d-bit samples",
			ErrUnsupportedFormat, info.SOF, info.Precision)
	}

	var cs Colorspace
	switch info.Components {
	case 1:
		cs = Gray
	case 3:
		cs = RGB
	case 4:
		cs = CMYK
		if info.Adobe {
			cs = CMYKInverted
		}
	default:
		return nil, fmt.Errorf("%w: JPEG with %d components", ErrUnsupportedColorspace, info.Components)
	}
	if o.Colorspace != ColorspaceUnknown {
		cs = o.Colorspace
	}
	switch cs {
	case Bilevel:
		return nil, ErrJPEGMonochrome
	case Indexed:
		return nil, ErrJPEGPalette
	case RGBA, GrayAlpha:
		return nil, ErrJPEGAlpha
	}
	if cs.Channels() != info.Components {
		return nil, fmt.Errorf("%w: %s for a JPEG with %d components",
			ErrUnsupportedColorspace, cs, info.Components)
	}

	base, err := o.baseFrame(info.DPIX, info.DPIY, info.Orientation, nil)
	if err != nil {
		return nil, err
	}
	f := base
	f.Colorspace = cs
	f.Format = JPEG
	f.Payload = data
	f.Width = info.Width
	f.Height = info.Height
	f.BitDepth = info.Precision
	f.ICCProfile = o.checkICC(info.ICCProfile, cs)
	return &f, nil
}

func (o *Options) jp2Frame(data []byte) (*Frame, error) {
	info, err := jp2.Parse(data)
	if err != nil {
		return nil, err
	}

	var cs Colorspace
	switch {
	case info.Colorspace == jp2.Greyscale && info.Channels == 1:
		cs = Gray
	case info.Colorspace == jp2.Greyscale && info.Channels == 2:
		cs = GrayAlpha
	case info.Colorspace != jp2.Greyscale && info.Channels == 3:
		cs = RGB
	case info.Colorspace != jp2.Greyscale && info.Channels == 4:
		cs = RGBA
	default:
		return nil, fmt.Errorf("%w: JPEG 2000 image with %d channels (%s)",
			ErrUnsupportedColorspace, info.Channels, info.Colorspace)
	}
	if forced := o.Colorspace; forced != ColorspaceUnknown {
		if forced.Channels() != cs.Channels() || forced.HasAlpha() != cs.HasAlpha() {
			return nil, fmt.Errorf("%w: %s for a %s JPEG 2000 image",
				ErrUnsupportedColorspace, forced, cs)
		}
	}

	base, err := o.baseFrame(info.DPIX, info.DPIY, 0, nil)
	if err != nil {
		return nil, err
	}
	f := base
	f.Colorspace = cs
	f.Format = JPEG2000
	f.Payload = data
	f.Width = info.Width
	f.Height = info.Height
	f.BitDepth = info.BitDepth
	return &f, nil
}

func (o *Options) pngFrame(data []byte) (*Frame, error) {
	info, err := png.Parse(data)
	if err != nil {
		return nil, err
	}

	var cs Colorspace
	switch info.ColorType {
	case png.ColorGray:
		cs = Gray
		if info.BitDepth == 1 {
			cs = Bilevel
		}
	case png.ColorRGB:
		cs = RGB
	case png.ColorPalette:
		cs = Indexed
	case png.ColorGrayAlpha:
		cs = GrayAlpha
	case png.ColorRGBA:
		cs = RGBA
	default:
		return nil, fmt.Errorf("%w: PNG color type %d", ErrUnsupportedColorspace, info.ColorType)
	}
	switch info.BitDepth {
	case 1, 2, 4, 8, 16:
	default:
		return nil, fmt.Errorf("invalid PNG bit depth %d", info.BitDepth)
	}

	base, err := o.baseFrame(info.DPIX, info.DPIY, 0, info.ICCProfile)
	if err != nil {
		return nil, err
	}

	forced := o.Colorspace
	passthrough := !info.Interlaced &&
		!cs.HasAlpha() &&
		info.Transparency == nil &&
		!(cs == Indexed && info.ICCProfile != nil) &&
		(forced == ColorspaceUnknown || forced == cs)
	if passthrough {
		f := base
		f.Colorspace = cs
		f.Format = FlateRaw
		f.Predictor = true
		f.Payload = info.IDAT
		f.Width = info.Width
		f.Height = info.Height
		f.BitDepth = info.BitDepth
		if cs == Indexed {
			f.Palette = info.Palette
			if len(f.Palette) == 0 || len(f.Palette)%3 != 0 {
				return nil, fmt.Errorf("invalid PNG palette of %d bytes", len(f.Palette))
			}
			if len(f.Palette)/3 > 1<<info.BitDepth {
				return nil, fmt.Errorf("PNG palette has %d entries, more than bit depth %d allows",
					len(f.Palette)/3, info.BitDepth)
			}
		} else {
			f.ICCProfile = o.checkICC(f.ICCProfile, cs)
		}
		return &f, nil
	}

	if cs.HasAlpha() && info.BitDepth > 8 {
		return nil, ErrAlphaDepth
	}
	img, err := gopng.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	h := hints{
		gray:    info.ColorType == png.ColorGray || info.ColorType == png.ColorGrayAlpha,
		bilevel: cs == Bilevel,
		depth:   info.BitDepth,
	}
	return o.fromDecoded(img, h, base)
}
