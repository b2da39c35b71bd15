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
	"fmt"
	"io"
	"time"

	"golang.org/x/text/encoding/unicode"
)

// TextString represents a human readable string in a PDF file.
//
// Pure ASCII text is written as a literal string.  All other text is written
// as UTF-16BE with a byte order mark, in hexadecimal form.
type TextString string

// PDF implements the Object interface.
func (x TextString) PDF(w io.Writer) error {
	if isASCII(string(x)) {
		return String(x).PDF(w)
	}
	return HexString(utf16Encode(string(x))).PDF(w)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func utf16Encode(s string) []byte {
	enc := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder()
	b, err := enc.Bytes([]byte(s))
	if err != nil {
		// invalid UTF-8 is replaced by U+FFFD, this cannot fail
		panic(err)
	}
	return b
}

// Date represents a date and time in a PDF file.
type Date time.Time

// PDF implements the Object interface.
func (x Date) PDF(w io.Writer) error {
	return String(FormatDate(time.Time(x))).PDF(w)
}

// FormatDate converts a time to the PDF date format,
// for example "D:20260102150405+01'00'".
func FormatDate(t time.Time) string {
	s := t.Format("D:20060102150405")
	_, offset := t.Zone()
	if offset == 0 {
		return s + "Z"
	}
	sign := byte('+')
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	offset /= 60
	return fmt.Sprintf("%s%c%02d'%02d'", s, sign, offset/60, offset%60)
}
