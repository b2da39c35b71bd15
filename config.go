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
	"log/slog"
	"strconv"
	"strings"

	"github.com/imgpdf/img2pdf/frame"
	"github.com/imgpdf/img2pdf/layout"
	"github.com/imgpdf/img2pdf/pdf"
)

// Version is the version of the img2pdf library.  It is used in the default
// producer string.
const Version = "0.6.0"

// Config holds the settings for a conversion.
type Config struct {
	// Engine assembles the PDF file.  If nil, the internal engine is used.
	Engine Engine

	Layout layout.Config

	// Rotation selects how the page rotation is determined.
	Rotation frame.RotationMode

	// Colorspace, if set, overrides the colorspace of all images.
	Colorspace frame.Colorspace

	// DefaultDPI is used for images without resolution information.
	DefaultDPI float64

	Viewer Viewer

	// Info is the document information.  An empty producer is replaced by
	// "img2pdf <version>".  Missing dates are set to the current time,
	// unless NoDate is set.
	Info   pdf.Info
	NoDate bool

	// PDFA selects PDF/A-1b output.  PDFAICCPath names the ICC profile
	// for the output intent; if empty, a built-in sRGB profile is used.
	PDFA        bool
	PDFAICCPath string

	FirstFrameOnly    bool
	IncludeThumbnails bool

	// The page boxes, given as a border inside the media box.  Nil
	// borders are omitted.
	CropBorder  *layout.Border
	BleedBorder *layout.Border
	TrimBorder  *layout.Border
	ArtBorder   *layout.Border

	// Logger receives warnings.  If nil, warnings are discarded.
	Logger *slog.Logger
}

// DefaultConfig returns the default settings.
func DefaultConfig() *Config {
	return &Config{
		Engine:     Internal,
		Rotation:   frame.RotateAuto,
		DefaultDPI: frame.DefaultDPI,
	}
}

// Viewer holds the settings for PDF viewers.  The zero value leaves all
// choices to the viewer.
type Viewer struct {
	// Panes selects the navigation panes shown when the document is
	// opened.
	Panes PageMode

	// FullScreen opens the document in full screen mode.  Panes then
	// applies when leaving full screen mode.
	FullScreen bool

	PageLayout PageLayout

	// InitialPage is the one-based number of the page shown first.  Zero
	// means the first page.
	InitialPage int

	Magnification Magnification

	FitWindow    bool
	CenterWindow bool
}

// PageMode selects the navigation panes of the viewer.
type PageMode int

// These are the supported page modes.
const (
	PanesDefault PageMode = iota
	PanesNone
	PanesOutlines
	PanesThumbs
)

var pageModeNames = []string{"", "none", "outlines", "thumbs"}
var pageModePDF = []pdf.Name{"", "UseNone", "UseOutlines", "UseThumbs"}

func (m PageMode) String() string {
	if m >= 0 && int(m) < len(pageModeNames) {
		return pageModeNames[m]
	}
	return fmt.Sprintf("img2pdf.PageMode(%d)", int(m))
}

// ParsePageMode converts the name of a page mode.
func ParsePageMode(s string) (PageMode, error) {
	for i, name := range pageModeNames {
		if name == s && i > 0 {
			return PageMode(i), nil
		}
	}
	return 0, fmt.Errorf("invalid viewer panes %q", s)
}

// PageLayout selects how the viewer arranges the pages.
type PageLayout int

// These are the supported page layouts.
const (
	LayoutDefault PageLayout = iota
	LayoutSingle
	LayoutOneColumn
	LayoutTwoColumnLeft
	LayoutTwoColumnRight
	LayoutTwoPageLeft
	LayoutTwoPageRight
)

var pageLayoutNames = []string{"", "single", "onecolumn",
	"twocolumnleft", "twocolumnright", "twopageleft", "twopageright"}
var pageLayoutPDF = []pdf.Name{"", "SinglePage", "OneColumn",
	"TwoColumnLeft", "TwoColumnRight", "TwoPageLeft", "TwoPageRight"}

func (l PageLayout) String() string {
	if l >= 0 && int(l) < len(pageLayoutNames) {
		return pageLayoutNames[l]
	}
	return fmt.Sprintf("img2pdf.PageLayout(%d)", int(l))
}

// ParsePageLayout converts the name of a page layout.
func ParsePageLayout(s string) (PageLayout, error) {
	for i, name := range pageLayoutNames {
		if name == s && i > 0 {
			return PageLayout(i), nil
		}
	}
	return 0, fmt.Errorf("invalid page layout %q", s)
}

// version returns the PDF version needed for the page layout.
func (l PageLayout) version() pdf.Version {
	if l == LayoutTwoPageLeft || l == LayoutTwoPageRight {
		return pdf.V1_5
	}
	return pdf.V1_0
}

// Magnification selects the zoom level of the initial page.
type Magnification struct {
	Mode MagnificationMode

	// Percent is the zoom factor for ZoomPercent.
	Percent float64
}

// MagnificationMode is the kind of a Magnification.
type MagnificationMode int

// These are the supported magnification modes.
const (
	ZoomDefault MagnificationMode = iota
	ZoomFit                       // fit the page into the window
	ZoomFitH                      // fit the page width
	ZoomFitBH                     // fit the width of the bounding box
	ZoomPercent
)

// ParseMagnification converts "fit", "fith", "fitbh" or a zoom percentage.
func ParseMagnification(s string) (Magnification, error) {
	switch strings.ToLower(s) {
	case "fit":
		return Magnification{Mode: ZoomFit}, nil
	case "fith":
		return Magnification{Mode: ZoomFitH}, nil
	case "fitbh":
		return Magnification{Mode: ZoomFitBH}, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil || v <= 0 {
		return Magnification{}, fmt.Errorf("invalid magnification %q", s)
	}
	return Magnification{Mode: ZoomPercent, Percent: v}, nil
}

// openAction returns the /OpenAction destination for the given page.
func (m Magnification) openAction(page pdf.Reference, pageHeight float64) pdf.Array {
	switch m.Mode {
	case ZoomFit:
		return pdf.Array{page, pdf.Name("Fit")}
	case ZoomFitH:
		return pdf.Array{page, pdf.Name("FitH"), pdf.Real(pageHeight)}
	case ZoomFitBH:
		return pdf.Array{page, pdf.Name("FitBH"), pdf.Real(pageHeight)}
	case ZoomPercent:
		return pdf.Array{page, pdf.Name("XYZ"), nil, nil, pdf.Real(m.Percent / 100)}
	default:
		return pdf.Array{page, pdf.Name("XYZ"), nil, nil, pdf.Integer(0)}
	}
}

// catalog adds the viewer preferences to a catalog dictionary.  pages
// holds the page references and heights, in order.
func (v *Viewer) catalog(cat pdf.Dict, pages []pdf.Reference, heights []float64) error {
	mode := v.Panes
	if v.FullScreen {
		cat["PageMode"] = pdf.Name("FullScreen")
	} else if mode != PanesDefault {
		cat["PageMode"] = pageModePDF[mode]
	}
	if v.PageLayout != LayoutDefault {
		cat["PageLayout"] = pageLayoutPDF[v.PageLayout]
	}

	prefs := pdf.Dict{}
	if v.FitWindow {
		prefs["FitWindow"] = pdf.Bool(true)
	}
	if v.CenterWindow {
		prefs["CenterWindow"] = pdf.Bool(true)
	}
	if v.FullScreen && mode != PanesDefault {
		prefs["NonFullScreenPageMode"] = pageModePDF[mode]
	}
	if len(prefs) > 0 {
		cat["ViewerPreferences"] = prefs
	}

	if v.InitialPage != 0 || v.Magnification.Mode != ZoomDefault {
		idx := 0
		if v.InitialPage != 0 {
			idx = v.InitialPage - 1
		}
		if idx < 0 || idx >= len(pages) {
			return fmt.Errorf("initial page %d out of range 1-%d", v.InitialPage, len(pages))
		}
		cat["OpenAction"] = v.Magnification.openAction(pages[idx], heights[idx])
	}
	return nil
}
