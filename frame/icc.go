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

package frame

import (
	"seehuhn.de/go/icc"
)

// checkICC returns the profile if it can be used for images in the given
// colorspace, and nil otherwise.  Profiles which cannot be parsed or which
// do not match the number of color components are dropped with a warning;
// some cameras and editors are known to write such profiles.
func (o *Options) checkICC(profile []byte, cs Colorspace) []byte {
	if len(profile) == 0 {
		return nil
	}
	p, err := icc.Decode(profile)
	if err != nil {
		o.warn("dropping unreadable ICC profile", "error", err)
		return nil
	}
	want := cs.Channels()
	if cs == Bilevel {
		want = 1
	}
	if n := p.ColorSpace.NumComponents(); n != want {
		o.warn("dropping ICC profile with wrong number of components",
			"components", n, "colorspace", cs.String())
		return nil
	}
	return profile
}
