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

// Package jpeg scans the marker segments of JPEG files.
//
// Only the segments before the first scan are examined.  The entropy coded
// data is never decoded; JPEG images are embedded into PDF files unchanged.
package jpeg

import (
	"bytes"
	"encoding/binary"
	"slices"

	"github.com/imgpdf/img2pdf/format"
	"github.com/imgpdf/img2pdf/format/tiff"
)

const (
	sof0Marker  = 0xc0
	sof1Marker  = 0xc1
	sof2Marker  = 0xc2
	sof15Marker = 0xcf
	dhtMarker   = 0xc4
	jpgMarker   = 0xc8
	dacMarker   = 0xcc
	rst0Marker  = 0xd0
	rst7Marker  = 0xd7
	soiMarker   = 0xd8
	eoiMarker   = 0xd9
	sosMarker   = 0xda
	app0Marker  = 0xe0
	app1Marker  = 0xe1
	app2Marker  = 0xe2
	app14Marker = 0xee
)

// Info describes a JPEG file.
type Info struct {
	Width, Height int
	Components    int
	Precision     int

	// SOF is the start-of-frame marker, 0xc0 for baseline images.
	SOF         byte
	Progressive bool

	// DPIX and DPIY give the resolution from the JFIF or EXIF data, or
	// zero if the file does not specify an absolute resolution.
	DPIX, DPIY float64

	// Orientation is the EXIF orientation tag, or 0 if there is none.
	Orientation int

	// Adobe is set if an Adobe APP14 segment is present.  Photoshop
	// writes CMYK data inverted in this case.
	Adobe          bool
	AdobeTransform int

	// ICCProfile is the reassembled color profile from the APP2 segments.
	ICCProfile []byte

	// MPF is the multi-picture index, if present.
	MPF []MPEntry
}

func malformed(pos int, msg string) error {
	return format.Errorf("jpeg", int64(pos), msg)
}

// IsJPEG reports whether data starts with a JPEG start-of-image marker.
func IsJPEG(data []byte) bool {
	return len(data) >= 3 && data[0] == 0xff && data[1] == soiMarker && data[2] == 0xff
}

type iccChunk struct {
	seq  int
	data []byte
}

// Parse reads the marker segments up to the first scan.
func Parse(data []byte) (*Info, error) {
	if !IsJPEG(data) {
		return nil, malformed(0, "missing SOI marker")
	}

	info := &Info{}
	var jfifUnit int
	var jfifX, jfifY float64
	var exifX, exifY float64
	var iccChunks []iccChunk

	pos := 2
scan:
	for {
		// skip extraneous data and fill bytes
		for pos < len(data) && data[pos] != 0xff {
			pos++
		}
		for pos < len(data) && data[pos] == 0xff {
			pos++
		}
		if pos >= len(data) {
			break
		}
		marker := data[pos]
		pos++

		switch {
		case marker == 0 || marker == soiMarker || (rst0Marker <= marker && marker <= rst7Marker):
			continue
		case marker == eoiMarker || marker == sosMarker:
			break scan
		}

		if pos+2 > len(data) {
			return nil, &format.MalformedError{Format: "jpeg", Pos: int64(pos), Err: format.ErrTruncated}
		}
		n := int(binary.BigEndian.Uint16(data[pos:]))
		if n < 2 {
			return nil, malformed(pos, "short segment length")
		}
		if pos+n > len(data) {
			return nil, &format.MalformedError{Format: "jpeg", Pos: int64(pos), Err: format.ErrTruncated}
		}
		body := data[pos+2 : pos+n]
		segStart := pos + 2
		pos += n

		switch {
		case isSOF(marker):
			if info.Components != 0 {
				return nil, malformed(segStart, "multiple SOF markers")
			}
			if len(body) < 6 {
				return nil, malformed(segStart, "short SOF segment")
			}
			info.SOF = marker
			info.Precision = int(body[0])
			info.Height = int(binary.BigEndian.Uint16(body[1:]))
			info.Width = int(binary.BigEndian.Uint16(body[3:]))
			info.Components = int(body[5])
			info.Progressive = marker&3 == 2
			if len(body) < 6+3*info.Components {
				return nil, malformed(segStart, "SOF has wrong length")
			}

		case marker == app0Marker && bytes.HasPrefix(body, []byte("JFIF\x00")) && len(body) >= 12:
			jfifUnit = int(body[7])
			jfifX = float64(binary.BigEndian.Uint16(body[8:]))
			jfifY = float64(binary.BigEndian.Uint16(body[10:]))

		case marker == app1Marker && bytes.HasPrefix(body, []byte("Exif\x00\x00")):
			if tiff.IsTIFF(body[6:]) {
				exif, err := tiff.Parse(body[6:])
				if err == nil {
					ifd0 := exif.IFDs[0]
					if o, ok := ifd0.Uint(tiff.TagOrientation); ok {
						info.Orientation = int(o)
					}
					exifX, exifY = ifd0.Resolution()
				}
			}

		case marker == app2Marker && bytes.HasPrefix(body, []byte("ICC_PROFILE\x00")) && len(body) >= 14:
			iccChunks = append(iccChunks, iccChunk{seq: int(body[12]), data: body[14:]})

		case marker == app2Marker && bytes.HasPrefix(body, []byte("MPF\x00")) && info.MPF == nil:
			entries, err := parseMPF(body[4:], segStart+4)
			if err != nil {
				return nil, err
			}
			info.MPF = entries

		case marker == app14Marker && bytes.HasPrefix(body, []byte("Adobe")) && len(body) >= 12:
			info.Adobe = true
			info.AdobeTransform = int(body[11])
		}
	}

	if info.Components == 0 {
		return nil, malformed(pos, "missing SOF marker")
	}

	switch {
	case jfifUnit == 1 && jfifX > 0 && jfifY > 0:
		info.DPIX, info.DPIY = jfifX, jfifY
	case jfifUnit == 2 && jfifX > 0 && jfifY > 0:
		info.DPIX, info.DPIY = jfifX*2.54, jfifY*2.54
	default:
		info.DPIX, info.DPIY = exifX, exifY
	}

	if len(iccChunks) > 0 {
		slices.SortStableFunc(iccChunks, func(a, b iccChunk) int { return a.seq - b.seq })
		for _, c := range iccChunks {
			info.ICCProfile = append(info.ICCProfile, c.data...)
		}
	}

	return info, nil
}

// IsDCTDecodable reports whether the image uses 8-bit Huffman coded DCT
// compression (baseline, extended sequential or progressive).  PDF readers
// cannot be expected to decode lossless, hierarchical or arithmetic coded
// JPEG files.
func (info *Info) IsDCTDecodable() bool {
	switch info.SOF {
	case sof0Marker, sof1Marker, sof2Marker:
		return info.Precision == 8
	default:
		return false
	}
}

func isSOF(marker byte) bool {
	if marker < sof0Marker || marker > sof15Marker {
		return false
	}
	return marker != dhtMarker && marker != jpgMarker && marker != dacMarker
}
