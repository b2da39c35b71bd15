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

// Package metadata builds the XMP metadata stream required by PDF/A.
//
// The packet repeats the entries of the document information dictionary,
// using the Dublin Core, XMP basic and Adobe PDF schemas, and declares
// conformance to PDF/A-1b.
package metadata

import (
	"bytes"
	"strings"

	"golang.org/x/text/language"
	"seehuhn.de/go/xmp"

	"github.com/imgpdf/img2pdf/pdf"
)

// PDF is the XMP namespace for PDF metadata.
type PDF struct {
	_        xmp.Namespace `xmp:"http://ns.adobe.com/pdf/1.3/"`
	_        xmp.Prefix    `xmp:"pdf"`
	Keywords xmp.Text
	Producer xmp.AgentName
}

// PDFAID is the XMP namespace for PDF/A identification.
type PDFAID struct {
	_           xmp.Namespace `xmp:"http://www.aiim.org/pdfa/ns/id/"`
	_           xmp.Prefix    `xmp:"pdfaid"`
	Part        xmp.Text
	Conformance xmp.Text
}

// Stream represents an XMP metadata stream.
type Stream struct {
	Data *xmp.Packet
}

// FromInfo creates the metadata for a PDF/A-1b file with the given
// document information.  The title and description are tagged with lang;
// use language.Und if the language is unknown.
func FromInfo(info *pdf.Info, lang language.Tag) (*Stream, error) {
	dc := &xmp.DublinCore{}
	if info.Title != "" {
		dc.Title.Set(lang, info.Title)
	}
	if info.Author != "" {
		dc.Creator.Append(xmp.NewProperName(info.Author))
	}
	if info.Subject != "" {
		dc.Description.Set(lang, info.Subject)
	}

	basic := &xmp.Basic{}
	if !info.CreationDate.IsZero() {
		basic.CreateDate = xmp.NewDate(info.CreationDate)
	}
	if !info.ModDate.IsZero() {
		basic.ModifyDate = xmp.NewDate(info.ModDate)
	}

	pdfInfo := &PDF{}
	if len(info.Keywords) > 0 {
		pdfInfo.Keywords = xmp.NewText(strings.Join(info.Keywords, ", "))
	}
	if info.Producer != "" {
		pdfInfo.Producer = xmp.NewAgentName(info.Producer)
	}

	id := &PDFAID{
		Part:        xmp.NewText("1"),
		Conformance: xmp.NewText("B"),
	}

	packet := xmp.NewPacket()
	err := packet.Set(dc, basic, pdfInfo, id)
	if err != nil {
		return nil, err
	}
	return &Stream{Data: packet}, nil
}

// Read decodes an XMP packet.
func Read(data []byte) (*Stream, error) {
	packet, err := xmp.Read(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &Stream{Data: packet}, nil
}

// AsStream serialises the packet into an uncompressed metadata stream.
// PDF/A requires the packet to be readable without decoding filters.
func (s *Stream) AsStream() (*pdf.Stream, error) {
	buf := &bytes.Buffer{}
	err := s.Data.Write(buf, nil)
	if err != nil {
		return nil, err
	}
	dict := pdf.Dict{
		"Type":    pdf.Name("Metadata"),
		"Subtype": pdf.Name("XML"),
	}
	return &pdf.Stream{Dict: dict, Data: buf.Bytes()}, nil
}

// Equal reports whether s and other represent the same XMP metadata.
func (s *Stream) Equal(other *Stream) bool {
	if s == nil || other == nil {
		return s == other
	}

	return s.Data.Equal(other.Data)
}
