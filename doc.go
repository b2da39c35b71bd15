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

// Package img2pdf converts raster images into PDF files without loss of
// quality.
//
// Each frame of each input image becomes one page.  Where the PDF format
// allows it, the compressed image data is copied into the PDF file
// unchanged: this applies to JPEG and JPEG 2000 files, to PNG files
// without transparency and to CCITT Group 4 compressed TIFF files.  Other
// images are decoded and stored losslessly, either as a PNG predictor
// stream or, for bilevel images, as CCITT Group 4 data.
//
// A simple conversion looks like this:
//
//	data, err := os.ReadFile("scan.jpg")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out := &bytes.Buffer{}
//	err = img2pdf.Convert(out, [][]byte{data}, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The page size, the placement of the images, viewer preferences and the
// document metadata are controlled by a [Config].  Output is written only
// once the whole document has been assembled, so that a failed conversion
// never leaves a truncated file behind.
package img2pdf
