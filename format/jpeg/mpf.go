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

package jpeg

import (
	"strconv"

	"github.com/imgpdf/img2pdf/format"
	"github.com/imgpdf/img2pdf/format/tiff"
)

// Tags of the multi-picture index.
const (
	tagMPFVersion   = 0xb000
	tagNumberImages = 0xb001
	tagMPEntry      = 0xb002
)

// Types of individual images in a multi-picture file.
const (
	MPTypeBaselinePrimary = 0x030000
	MPTypeLargeThumbVGA   = 0x010001
	MPTypeLargeThumbHD    = 0x010002
	MPTypePanorama        = 0x020001
	MPTypeDisparity       = 0x020002
	MPTypeMultiAngle      = 0x020003
)

// MPEntry describes one image of a multi-picture (MPO) file.
type MPEntry struct {
	Attribute uint32

	// Offset and Size locate the image within the file.  Offset is
	// absolute, the first image always has offset zero.
	Offset int
	Size   int
}

// Type returns the MP type code of the image.
func (e MPEntry) Type() uint32 {
	return e.Attribute & 0x00ffffff
}

// IsThumbnail reports whether the image is a preview of the primary image.
func (e MPEntry) IsThumbnail() bool {
	t := e.Type()
	return t == MPTypeLargeThumbVGA || t == MPTypeLargeThumbHD
}

// parseMPF reads the MP index IFD.  base is the absolute position of the
// TIFF header in the file, relative to which the image offsets are given.
func parseMPF(body []byte, base int) ([]MPEntry, error) {
	f, err := tiff.Parse(body)
	if err != nil {
		return nil, err
	}
	ifd := f.IFDs[0]
	raw := ifd.Bytes(tagMPEntry)
	if raw == nil {
		// MP attribute IFDs of the second and later images carry no index
		return nil, nil
	}
	if n, ok := ifd.Uint(tagNumberImages); ok && int(n)*16 != len(raw) {
		return nil, malformed(base, "inconsistent MP index length")
	}
	if len(raw)%16 != 0 {
		return nil, malformed(base, "invalid MP entry size")
	}

	entries := make([]MPEntry, 0, len(raw)/16)
	for i := 0; i+16 <= len(raw); i += 16 {
		e := MPEntry{
			Attribute: f.Order.Uint32(raw[i:]),
			Size:      int(f.Order.Uint32(raw[i+4:])),
			Offset:    int(f.Order.Uint32(raw[i+8:])),
		}
		if e.Offset != 0 {
			e.Offset += base
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Images splits a multi-picture file into its individual JPEG images,
// using the index in info.MPF.  A file without an index is a single image.
func Images(data []byte, info *Info) ([][]byte, error) {
	if len(info.MPF) == 0 {
		return [][]byte{data}, nil
	}
	res := make([][]byte, 0, len(info.MPF))
	for i, e := range info.MPF {
		end := e.Offset + e.Size
		if e.Offset < 0 || end > len(data) || e.Size <= 0 {
			return nil, &format.MalformedError{Format: "jpeg", Pos: int64(e.Offset), Err: format.ErrTruncated}
		}
		img := data[e.Offset:end]
		if !IsJPEG(img) {
			return nil, malformed(e.Offset, "MP entry "+strconv.Itoa(i)+" is not a JPEG image")
		}
		res = append(res, img)
	}
	return res, nil
}

// ThumbnailsOnly reports whether all images except the first are thumbnails
// of the primary image.
func ThumbnailsOnly(entries []MPEntry) bool {
	if len(entries) < 2 || entries[0].Type() != MPTypeBaselinePrimary {
		return false
	}
	for _, e := range entries[1:] {
		if !e.IsThumbnail() {
			return false
		}
	}
	return true
}
