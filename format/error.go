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

// Package format holds definitions shared by the container parsers in the
// subdirectories.  The parsers extract structural facts from raw image
// files without decoding the pixel data.
package format

import (
	"errors"
	"strconv"
)

// MalformedError indicates that an image file could not be parsed.
type MalformedError struct {
	Format string // e.g. "png" or "jp2"
	Pos    int64  // byte offset of the problem, or -1 if unknown
	Err    error
}

// Errorf returns a new MalformedError.
func Errorf(format string, pos int64, msg string) *MalformedError {
	return &MalformedError{
		Format: format,
		Pos:    pos,
		Err:    errors.New(msg),
	}
}

func (err *MalformedError) Error() string {
	middle := ""
	if err.Err != nil {
		middle = ": " + err.Err.Error()
	}
	tail := ""
	if err.Pos >= 0 {
		tail = " (at byte " + strconv.FormatInt(err.Pos, 10) + ")"
	}
	return "not a valid " + err.Format + " file" + middle + tail
}

func (err *MalformedError) Unwrap() error {
	return err.Err
}

// ErrTruncated is used when a length field points past the end of the data.
var ErrTruncated = errors.New("length exceeds the available data")
