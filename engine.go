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
	"io"

	"github.com/imgpdf/img2pdf/pdf"
)

// Engine creates the documents into which images are converted.
type Engine interface {
	NewDocument() Document
}

// Document collects the objects of a PDF file.
//
// Objects are numbered in the order in which they are allocated.
type Document interface {
	// Alloc reserves an object number.  The object must be supplied later
	// with Put.
	Alloc() pdf.Reference

	// Put sets the contents of an allocated object.
	Put(ref pdf.Reference, obj pdf.Object) error

	// Add allocates an object number and sets the contents.
	Add(obj pdf.Object) pdf.Reference

	// Serialize writes the complete file.  If withID is set, the trailer
	// gets a file identifier computed from the file contents.
	Serialize(w io.Writer, ver pdf.Version, root, info pdf.Reference, withID bool) error
}

// Internal is the built-in engine.
var Internal Engine = internalEngine{}

type internalEngine struct{}

func (internalEngine) NewDocument() Document {
	return &internalDoc{w: pdf.NewWriter(pdf.V1_3)}
}

func (internalEngine) String() string {
	return "internal"
}

type internalDoc struct {
	w *pdf.Writer
}

func (d *internalDoc) Alloc() pdf.Reference {
	return d.w.Alloc()
}

func (d *internalDoc) Put(ref pdf.Reference, obj pdf.Object) error {
	return d.w.Put(ref, obj)
}

func (d *internalDoc) Add(obj pdf.Object) pdf.Reference {
	return d.w.Add(obj)
}

func (d *internalDoc) Serialize(w io.Writer, ver pdf.Version, root, info pdf.Reference, withID bool) error {
	d.w.Version = ver
	d.w.Root = root
	d.w.Info = info
	d.w.WithID = withID
	_, err := d.w.WriteTo(w)
	return err
}

// ParseEngine returns the engine with the given name.
func ParseEngine(name string) (Engine, error) {
	switch name {
	case "", "internal":
		return Internal, nil
	}
	return nil, fmt.Errorf("unknown engine %q", name)
}
