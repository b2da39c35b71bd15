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

package img2pdf

import (
	"fmt"

	"github.com/imgpdf/img2pdf/frame"
	"github.com/imgpdf/img2pdf/internal/filter/deflate"
	"github.com/imgpdf/img2pdf/internal/filter/predict"
	"github.com/imgpdf/img2pdf/pdf"
)

// imageDict builds the image XObject for a frame.  The soft mask and the
// ICC profile, if any, are added to the document as separate objects, in
// this order.
func (c *converter) imageDict(f *frame.Frame) (*pdf.Stream, error) {
	dict := pdf.Dict{
		"Type":             pdf.Name("XObject"),
		"Subtype":          pdf.Name("Image"),
		"Width":            pdf.Integer(f.Width),
		"Height":           pdf.Integer(f.Height),
		"BitsPerComponent": pdf.Integer(f.BitDepth),
	}

	if f.SoftMask != nil {
		params := &predict.Params{Colors: 1, BitsPerComponent: 8, Columns: f.Width}
		mask := &pdf.Stream{
			Dict: pdf.Dict{
				"Type":             pdf.Name("XObject"),
				"Subtype":          pdf.Name("Image"),
				"Width":            pdf.Integer(f.Width),
				"Height":           pdf.Integer(f.Height),
				"ColorSpace":       pdf.Name("DeviceGray"),
				"BitsPerComponent": pdf.Integer(8),
				"Filter":           pdf.Array{pdf.Name("FlateDecode")},
				"DecodeParms":      pdf.Array{params.DecodeParms()},
			},
			Data: f.SoftMask,
		}
		dict["SMask"] = c.doc.Add(mask)
		c.ver = c.ver.Max(pdf.V1_4)
	}

	colors := f.Colorspace.Channels()
	var cs pdf.Object
	switch f.Colorspace {
	case frame.Gray, frame.Bilevel, frame.GrayAlpha:
		cs = pdf.Name("DeviceGray")
	case frame.RGB, frame.RGBA:
		cs = pdf.Name("DeviceRGB")
	case frame.CMYK, frame.CMYKInverted:
		cs = pdf.Name("DeviceCMYK")
		if f.Colorspace == frame.CMYKInverted {
			dict["Decode"] = pdf.Array{
				pdf.Integer(1), pdf.Integer(0), pdf.Integer(1), pdf.Integer(0),
				pdf.Integer(1), pdf.Integer(0), pdf.Integer(1), pdf.Integer(0),
			}
		}
	case frame.Indexed:
		n := len(f.Palette) / 3
		if n == 0 {
			return nil, fmt.Errorf("%w: empty palette", frame.ErrUnsupportedColorspace)
		}
		cs = pdf.Array{
			pdf.Name("Indexed"), pdf.Name("DeviceRGB"),
			pdf.Integer(n - 1), pdf.String(f.Palette),
		}
		colors = 1
	default:
		return nil, fmt.Errorf("%w: %s", frame.ErrUnsupportedColorspace, f.Colorspace)
	}

	if f.ICCProfile != nil && f.Colorspace != frame.Indexed {
		ref := c.doc.Add(iccStream(f.ICCProfile, colors, cs))
		cs = pdf.Array{pdf.Name("ICCBased"), ref}
	}
	if f.Format == frame.JPEG2000 && f.Colorspace.HasAlpha() {
		// the alpha channel is part of the JPEG 2000 data
		cs = nil
		dict["SMaskInData"] = pdf.Integer(1)
	}
	if cs != nil {
		dict["ColorSpace"] = cs
	}

	switch f.Format {
	case frame.JPEG:
		dict["Filter"] = pdf.Array{pdf.Name("DCTDecode")}
	case frame.JPEG2000:
		dict["Filter"] = pdf.Array{pdf.Name("JPXDecode")}
		c.ver = c.ver.Max(pdf.V1_5)
	case frame.CCITTGroup4:
		dict["Filter"] = pdf.Array{pdf.Name("CCITTFaxDecode")}
		dict["DecodeParms"] = pdf.Array{pdf.Dict{
			"K":        pdf.Integer(-1),
			"BlackIs1": pdf.Bool(!f.Inverted),
			"Columns":  pdf.Integer(f.Width),
			"Rows":     pdf.Integer(f.Height),
		}}
	case frame.FlateRaw:
		dict["Filter"] = pdf.Array{pdf.Name("FlateDecode")}
		if f.Predictor {
			params := &predict.Params{
				Colors:           colors,
				BitsPerComponent: f.BitDepth,
				Columns:          f.Width,
			}
			if err := params.Validate(); err != nil {
				return nil, err
			}
			dict["DecodeParms"] = pdf.Array{params.DecodeParms()}
		}
	default:
		return nil, fmt.Errorf("unknown payload format %s", f.Format)
	}

	return &pdf.Stream{Dict: dict, Data: f.Payload}, nil
}

// iccStream embeds an ICC profile for a colorspace with n components.
func iccStream(profile []byte, n int, alternate pdf.Object) *pdf.Stream {
	return &pdf.Stream{
		Dict: pdf.Dict{
			"N":         pdf.Integer(n),
			"Alternate": alternate,
			"Filter":    pdf.Name("FlateDecode"),
		},
		Data: deflate.Compress(profile),
	}
}
