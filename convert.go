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
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/text/language"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/icc"

	"github.com/imgpdf/img2pdf/frame"
	"github.com/imgpdf/img2pdf/layout"
	"github.com/imgpdf/img2pdf/metadata"
	"github.com/imgpdf/img2pdf/pdf"
)

// Convert writes a PDF file with one page for every frame of the given
// images.  On error nothing is written to w, and the error is a
// [*ConversionError].
func Convert(w io.Writer, images [][]byte, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if len(images) == 0 {
		return &ConversionError{Kind: InputError, Image: -1, Frame: -1, Err: ErrNoInput}
	}

	c, err := newConverter(cfg)
	if err != nil {
		return err
	}
	for i, data := range images {
		err := c.addImage(i, data)
		if err != nil {
			return err
		}
	}

	buf := &bytes.Buffer{}
	err = c.finish(buf)
	if err != nil {
		return err
	}
	_, err = buf.WriteTo(w)
	if err != nil {
		return &ConversionError{Kind: InputError, Image: -1, Frame: -1, Err: err}
	}
	return nil
}

// converter holds the state of a conversion in progress.
type converter struct {
	cfg  *Config
	log  *slog.Logger
	doc  Document
	ver  pdf.Version
	opts frame.Options

	info, catalog, pages pdf.Reference

	kids    []pdf.Reference
	heights []float64

	outputProfile []byte
}

func newConverter(cfg *Config) (*converter, error) {
	engine := cfg.Engine
	if engine == nil {
		engine = Internal
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	c := &converter{
		cfg: cfg,
		log: logger,
		doc: engine.NewDocument(),
		ver: pdf.V1_3,
		opts: frame.Options{
			Rotation:          cfg.Rotation,
			Colorspace:        cfg.Colorspace,
			DefaultDPI:        cfg.DefaultDPI,
			FirstFrameOnly:    cfg.FirstFrameOnly,
			IncludeThumbnails: cfg.IncludeThumbnails,
		},
	}

	if cfg.PDFA {
		profile, err := loadOutputProfile(cfg.PDFAICCPath)
		if err != nil {
			return nil, configError(err)
		}
		c.outputProfile = profile
		c.ver = c.ver.Max(pdf.V1_4)
	}
	c.ver = c.ver.Max(cfg.Viewer.PageLayout.version())

	c.info = c.doc.Alloc()
	c.catalog = c.doc.Alloc()
	c.pages = c.doc.Alloc()
	return c, nil
}

// loadOutputProfile reads the ICC profile for the PDF/A output intent.
func loadOutputProfile(path string) ([]byte, error) {
	if path == "" {
		return icc.SRGBv2Profile, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("PDF/A output profile: %w", err)
	}
	_, err = icc.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("PDF/A output profile %q: %w", path, err)
	}
	return data, nil
}

func (c *converter) addImage(idx int, data []byte) error {
	opts := c.opts
	opts.Warn = func(msg string, args ...any) {
		c.log.Warn(msg, append([]any{"image", idx}, args...)...)
	}

	frames, err := frame.Extract(data, &opts)
	if err != nil {
		return imageError(idx, -1, err)
	}
	for j, f := range frames {
		c.log.Debug("adding frame", "image", idx, "frame", j,
			"format", f.Format.String(), "colorspace", f.Colorspace.String(),
			"width", f.Width, "height", f.Height)
		err := c.addPage(f, c.log.With("image", idx, "frame", j))
		if err != nil {
			return imageError(idx, j, err)
		}
	}
	return nil
}

func (c *converter) addPage(f *frame.Frame, log *slog.Logger) error {
	res, err := c.cfg.Layout.Compute(f.Width, f.Height, f.DPIX, f.DPIY)
	if err != nil {
		return err
	}
	if res.TooSmall() {
		log.Warn("page width or height below 3pt, too small for some viewers",
			"width", res.PageWidth, "height", res.PageHeight)
	}
	if res.UserUnit != 1 {
		log.Warn("page exceeds 200 inches, using /UserUnit", "unit", res.UserUnit)
		c.ver = c.ver.Max(pdf.V1_6)
	}

	contentRef := c.doc.Alloc()
	imageRef := c.doc.Alloc()
	image, err := c.imageDict(f)
	if err != nil {
		return err
	}
	err = c.doc.Put(imageRef, image)
	if err != nil {
		return err
	}
	err = c.doc.Put(contentRef, &pdf.Stream{Data: contentStream(res)})
	if err != nil {
		return err
	}

	mediaBox := res.MediaBox()
	page := pdf.Dict{
		"Type":     pdf.Name("Page"),
		"Parent":   c.pages,
		"MediaBox": mediaBox,
		"Resources": pdf.Dict{
			"XObject": pdf.Dict{"Im0": imageRef},
		},
		"Contents": contentRef,
	}
	if f.Rotation != 0 {
		page["Rotate"] = pdf.Integer(f.Rotation)
	}
	if res.UserUnit != 1 {
		page["UserUnit"] = pdf.Real(res.UserUnit)
	}
	boxes := []struct {
		key    pdf.Name
		border *layout.Border
	}{
		{"CropBox", c.cfg.CropBorder},
		{"BleedBox", c.cfg.BleedBorder},
		{"TrimBox", c.cfg.TrimBorder},
		{"ArtBox", c.cfg.ArtBorder},
	}
	for _, b := range boxes {
		if b.border != nil {
			page[b.key] = mediaBox.Inset(b.border.Vertical/res.UserUnit, b.border.Horizontal/res.UserUnit)
		}
	}

	c.kids = append(c.kids, c.doc.Add(page))
	c.heights = append(c.heights, res.PageHeight)
	return nil
}

// contentStream draws the image centred on the page.
func contentStream(res *layout.Result) []byte {
	box := res.ImageBox()
	m := matrix.Scale(res.ImageWidth, res.ImageHeight).Mul(matrix.Translate(box.LLx, box.LLy))
	return fmt.Appendf(nil, "q\n%.4f %.4f %.4f %.4f %.4f %.4f cm\n/Im0 Do\nQ",
		m[0], m[1], m[2], m[3], m[4], m[5])
}

// finish writes the document level objects and serialises the file.
func (c *converter) finish(w io.Writer) error {
	if len(c.kids) == 0 {
		return &ConversionError{Kind: InputError, Image: -1, Frame: -1, Err: errors.New("no pages")}
	}

	kids := make(pdf.Array, len(c.kids))
	for i, ref := range c.kids {
		kids[i] = ref
	}
	err := c.doc.Put(c.pages, pdf.Dict{
		"Type":  pdf.Name("Pages"),
		"Kids":  kids,
		"Count": pdf.Integer(len(kids)),
	})
	if err != nil {
		return configError(err)
	}

	info := c.cfg.Info
	if info.Producer == "" {
		info.Producer = "img2pdf " + Version
	}
	if c.cfg.NoDate {
		info.CreationDate = time.Time{}
		info.ModDate = time.Time{}
	} else {
		now := time.Now()
		if info.CreationDate.IsZero() {
			info.CreationDate = now
		}
		if info.ModDate.IsZero() {
			info.ModDate = now
		}
	}
	err = c.doc.Put(c.info, info.AsDict())
	if err != nil {
		return configError(err)
	}

	catalog := pdf.Dict{
		"Type":  pdf.Name("Catalog"),
		"Pages": c.pages,
	}
	err = c.cfg.Viewer.catalog(catalog, c.kids, c.heights)
	if err != nil {
		return configError(err)
	}
	if c.cfg.PDFA {
		err = c.addPDFA(catalog, &info)
		if err != nil {
			return configError(err)
		}
	}
	err = c.doc.Put(c.catalog, catalog)
	if err != nil {
		return configError(err)
	}

	err = c.doc.Serialize(w, c.ver, c.catalog, c.info, c.cfg.PDFA)
	if err != nil {
		return &ConversionError{Kind: InputError, Image: -1, Frame: -1, Err: err}
	}
	return nil
}

// addPDFA adds the XMP metadata and the output intent required for
// PDF/A-1b.
func (c *converter) addPDFA(catalog pdf.Dict, info *pdf.Info) error {
	meta, err := metadata.FromInfo(info, language.Und)
	if err != nil {
		return err
	}
	stm, err := meta.AsStream()
	if err != nil {
		return err
	}
	catalog["Metadata"] = c.doc.Add(stm)

	p, err := icc.Decode(c.outputProfile)
	if err != nil {
		return err
	}
	profile := c.doc.Add(&pdf.Stream{
		Dict: pdf.Dict{"N": pdf.Integer(p.ColorSpace.NumComponents())},
		Data: c.outputProfile,
	})
	catalog["OutputIntents"] = pdf.Array{
		pdf.Dict{
			"Type":                      pdf.Name("OutputIntent"),
			"S":                         pdf.Name("GTS_PDFA1"),
			"OutputConditionIdentifier": pdf.String("sRGB"),
			"DestOutputProfile":         profile,
		},
	}
	return nil
}
