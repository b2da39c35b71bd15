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

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/imgpdf/img2pdf/layout"
)

// pdfaFlag implements the --pdfa option, which can be used on its own or
// with the name of an ICC profile file.
type pdfaFlag struct {
	enabled bool
	path    string
}

func (f *pdfaFlag) String() string {
	if f == nil || !f.enabled {
		return ""
	}
	if f.path == "" {
		return "true"
	}
	return f.path
}

func (f *pdfaFlag) Set(s string) error {
	switch s {
	case "true":
		f.enabled, f.path = true, ""
	case "false":
		f.enabled, f.path = false, ""
	default:
		f.enabled, f.path = true, s
	}
	return nil
}

func (f *pdfaFlag) IsBoolFlag() bool { return true }

// borderFlag holds an optional border given as "v" or "v:h".
type borderFlag struct {
	b *layout.Border
}

func (f *borderFlag) String() string {
	if f == nil || f.b == nil {
		return ""
	}
	return fmt.Sprintf("%g:%g", f.b.Vertical, f.b.Horizontal)
}

func (f *borderFlag) Set(s string) error {
	b, err := layout.ParseBorder(s)
	if err != nil {
		return err
	}
	f.b = b
	return nil
}

// sizeFlag holds an optional page or image size.
type sizeFlag struct {
	s *layout.Size
}

func (f *sizeFlag) String() string {
	if f == nil || f.s == nil {
		return ""
	}
	return f.s.String()
}

func (f *sizeFlag) Set(s string) error {
	size, err := layout.ParseSize(s)
	if err != nil {
		return err
	}
	f.s = size
	return nil
}

// dateFlag holds a date given on the command line.
type dateFlag struct {
	t time.Time
}

var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (f *dateFlag) String() string {
	if f == nil || f.t.IsZero() {
		return ""
	}
	return f.t.Format(time.RFC3339)
}

func (f *dateFlag) Set(s string) error {
	for _, tmpl := range dateFormats {
		t, err := time.ParseInLocation(tmpl, s, time.Local)
		if err == nil {
			f.t = t
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

// listFlag collects the values of a repeatable option.  Each value may
// contain several comma separated entries.
type listFlag []string

func (f *listFlag) String() string {
	if f == nil {
		return ""
	}
	return strings.Join(*f, ",")
}

func (f *listFlag) Set(s string) error {
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			*f = append(*f, part)
		}
	}
	return nil
}
