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

package pdf

import (
	"crypto/md5"
	"errors"
	"fmt"
	"io"
)

// Writer collects the indirect objects of a PDF file and serialises them,
// together with a cross-reference table and a trailer.
//
// Objects are numbered consecutively, starting at 1, in the order in which
// they are allocated.  They are written to the file in the same order,
// independent of the order in which their contents are supplied.
type Writer struct {
	// Version is written into the file header.
	Version Version

	// Root and Info are written into the trailer.  Root is required.
	Root Reference
	Info Reference

	// WithID adds a file identifier to the trailer.  The identifier is the
	// MD5 sum of all objects, so that it is reproducible.
	WithID bool

	objects []Object
}

// NewWriter returns a new, empty Writer for a file of the given version.
func NewWriter(ver Version) *Writer {
	return &Writer{Version: ver}
}

// Alloc allocates an object number for an indirect object.  The object
// contents must be supplied later, using [Writer.Put].
func (pdf *Writer) Alloc() Reference {
	pdf.objects = append(pdf.objects, nil)
	return Reference(len(pdf.objects))
}

// Put sets the contents of a previously allocated indirect object.
func (pdf *Writer) Put(ref Reference, obj Object) error {
	idx := int(ref) - 1
	if idx < 0 || idx >= len(pdf.objects) {
		return fmt.Errorf("object %d not allocated", ref)
	}
	if pdf.objects[idx] != nil {
		return fmt.Errorf("object %d already set", ref)
	}
	if obj == nil {
		return fmt.Errorf("object %d: missing contents", ref)
	}
	pdf.objects[idx] = obj
	return nil
}

// Add allocates a new object number and sets the object contents.
func (pdf *Writer) Add(obj Object) Reference {
	ref := pdf.Alloc()
	pdf.objects[ref-1] = obj
	return ref
}

// NumObjects returns the number of indirect objects allocated so far.
func (pdf *Writer) NumObjects() int {
	return len(pdf.objects)
}

// Get returns the contents of an indirect object, or nil if the object
// has not been set.
func (pdf *Writer) Get(ref Reference) Object {
	idx := int(ref) - 1
	if idx < 0 || idx >= len(pdf.objects) {
		return nil
	}
	return pdf.objects[idx]
}

// WriteTo writes the complete PDF file to w.
// This implements the io.WriterTo interface.
func (pdf *Writer) WriteTo(w io.Writer) (int64, error) {
	if !pdf.Root.IsValid() {
		return 0, errors.New("missing /Root")
	}
	verString, err := pdf.Version.ToString()
	if err != nil {
		return 0, err
	}

	out := &posWriter{w: w}

	// the file identifier covers the header and all objects
	sum := md5.New()
	if pdf.WithID {
		out.tee = sum
	}

	_, err = fmt.Fprintf(out, "%%PDF-%s\n%%\xe2\xe3\xcf\xd3\n", verString)
	if err != nil {
		return out.pos, err
	}

	xref := make([]int64, len(pdf.objects))
	for i, obj := range pdf.objects {
		if obj == nil {
			return out.pos, fmt.Errorf("object %d: missing contents", i+1)
		}
		xref[i] = out.pos
		_, err = fmt.Fprintf(out, "%d 0 obj\n", i+1)
		if err != nil {
			return out.pos, err
		}
		err = obj.PDF(out)
		if err != nil {
			return out.pos, err
		}
		_, err = out.Write([]byte("\nendobj\n"))
		if err != nil {
			return out.pos, err
		}
	}
	out.tee = nil

	trailer := Dict{
		"Size": Integer(len(pdf.objects) + 1),
		"Root": pdf.Root,
	}
	if pdf.Info.IsValid() {
		trailer["Info"] = pdf.Info
	}
	if pdf.WithID {
		id := HexString(sum.Sum(nil))
		trailer["ID"] = Array{id, id}
	}

	xRefPos := out.pos
	err = writeXRefTable(out, xref, trailer)
	if err != nil {
		return out.pos, err
	}

	_, err = fmt.Fprintf(out, "startxref\n%d\n%%%%EOF\n", xRefPos)
	return out.pos, err
}

func writeXRefTable(w io.Writer, xref []int64, trailer Dict) error {
	_, err := fmt.Fprintf(w, "xref\n0 %d\n", len(xref)+1)
	if err != nil {
		return err
	}
	_, err = w.Write([]byte("0000000000 65535 f \n"))
	if err != nil {
		return err
	}
	for _, pos := range xref {
		_, err = fmt.Fprintf(w, "%010d 00000 n \n", pos)
		if err != nil {
			return err
		}
	}

	_, err = w.Write([]byte("trailer\n"))
	if err != nil {
		return err
	}
	err = trailer.PDF(w)
	if err != nil {
		return err
	}
	_, err = w.Write([]byte("\n"))
	return err
}

// posWriter counts the bytes written, so that the cross-reference table can
// record object positions.
type posWriter struct {
	w   io.Writer
	tee io.Writer
	pos int64
}

func (w *posWriter) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.pos += int64(n)
	if w.tee != nil {
		w.tee.Write(p[:n])
	}
	return n, err
}
