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
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/icc"

	"github.com/imgpdf/img2pdf/frame"
	"github.com/imgpdf/img2pdf/internal/testimg"
	"github.com/imgpdf/img2pdf/layout"
	"github.com/imgpdf/img2pdf/pdf"
)

// objects checks the cross-reference table of a PDF file and returns the
// text of all objects, indexed by object number.
func objects(t *testing.T, data []byte) map[int]string {
	t.Helper()

	m := regexp.MustCompile(`startxref\n(\d+)\n%%EOF\n$`).FindSubmatch(data)
	if m == nil {
		t.Fatal("missing startxref")
	}
	pos, _ := strconv.Atoi(string(m[1]))
	if pos >= len(data) || !bytes.HasPrefix(data[pos:], []byte("xref\n0 ")) {
		t.Fatalf("startxref %d does not point to the xref table", pos)
	}
	lines := strings.Split(string(data[pos:]), "\n")
	n, err := strconv.Atoi(strings.TrimPrefix(lines[1], "0 "))
	if err != nil {
		t.Fatal(err)
	}
	if lines[2] != "0000000000 65535 f " {
		t.Errorf("wrong free list head %q", lines[2])
	}

	res := make(map[int]string)
	for i := 1; i < n; i++ {
		entry := lines[2+i]
		if len(entry) != 19 || !strings.HasSuffix(entry, " 00000 n ") {
			t.Fatalf("malformed xref entry %q", entry)
		}
		off, _ := strconv.Atoi(entry[:10])
		head := fmt.Sprintf("%d 0 obj\n", i)
		if !bytes.HasPrefix(data[off:], []byte(head)) {
			t.Fatalf("xref entry %d points to %q", i, data[off:off+10])
		}
		body := data[off+len(head):]
		end := bytes.Index(body, []byte("\nendobj\n"))
		if end < 0 {
			t.Fatalf("object %d not terminated", i)
		}
		res[i] = string(body[:end])
	}
	return res
}

// find returns the objects containing all the given strings.
func find(objs map[int]string, parts ...string) []string {
	var res []string
	for i := 1; i <= len(objs); i++ {
		obj := objs[i]
		ok := true
		for _, p := range parts {
			ok = ok && strings.Contains(obj, p)
		}
		if ok {
			res = append(res, obj)
		}
	}
	return res
}

func convert(t *testing.T, cfg *Config, images ...[]byte) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	err := Convert(buf, images, cfg)
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func noDate() *Config {
	cfg := DefaultConfig()
	cfg.NoDate = true
	return cfg
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestJPEG(t *testing.T) {
	jpg := testimg.JPEG(60, 60, false)
	data := convert(t, noDate(), jpg)

	if !bytes.HasPrefix(data, []byte("%PDF-1.3\n%\xe2\xe3\xcf\xd3\n")) {
		t.Errorf("wrong header %q", data[:15])
	}
	objs := objects(t, data)
	if len(objs) != 6 {
		t.Errorf("got %d objects, want 6", len(objs))
	}

	if !strings.Contains(objs[1], "/Producer (img2pdf "+Version+")") {
		t.Errorf("unexpected info dictionary %q", objs[1])
	}
	if strings.Contains(objs[1], "Date") {
		t.Error("dates written in NoDate mode")
	}
	if !strings.Contains(objs[2], "/Type /Catalog") || !strings.Contains(objs[2], "/Pages 3 0 R") {
		t.Errorf("unexpected catalog %q", objs[2])
	}
	if !strings.Contains(objs[3], "/Count 1") || !strings.Contains(objs[3], "/Kids [6 0 R]") {
		t.Errorf("unexpected page tree %q", objs[3])
	}

	content := "q\n45.0000 0.0000 0.0000 45.0000 0.0000 0.0000 cm\n/Im0 Do\nQ"
	if !strings.HasSuffix(objs[4], "stream\n"+content+"\nendstream") {
		t.Errorf("unexpected content stream %q", objs[4])
	}

	for _, want := range []string{
		"/Filter [/DCTDecode]",
		"/ColorSpace /DeviceRGB",
		"/BitsPerComponent 8",
		"/Width 60",
		"/Height 60",
		"/Length " + strconv.Itoa(len(jpg)),
	} {
		if !strings.Contains(objs[5], want) {
			t.Errorf("image dictionary lacks %q", want)
		}
	}
	if !strings.Contains(objs[5], "\nstream\n"+string(jpg)+"\nendstream") {
		t.Error("JPEG data not embedded verbatim")
	}

	for _, want := range []string{"/MediaBox [0 0 45 45]", "/Parent 3 0 R", "/Contents 4 0 R", "/Im0 5 0 R"} {
		if !strings.Contains(objs[6], want) {
			t.Errorf("page dictionary lacks %q", want)
		}
	}
	if strings.Contains(objs[6], "/Rotate") {
		t.Error("unexpected /Rotate")
	}
}

func TestSoftMask(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 17)
	}
	data := convert(t, noDate(), encodePNG(t, img))
	if !bytes.HasPrefix(data, []byte("%PDF-1.4\n")) {
		t.Errorf("wrong header %q", data[:9])
	}
	objs := objects(t, data)
	images := find(objs, "/Subtype /Image", "/SMask ")
	if len(images) != 1 {
		t.Fatalf("found %d images with soft mask", len(images))
	}
	masks := find(objs, "/Subtype /Image", "/ColorSpace /DeviceGray", "/Predictor 15")
	if len(masks) != 1 {
		t.Errorf("found %d soft masks", len(masks))
	}

	// content stream, image, soft mask, page
	if !strings.Contains(objs[5], "/SMask 6 0 R") || objs[6] != masks[0] {
		t.Error("wrong object order")
	}
	if !strings.Contains(objs[7], "/Type /Page\n") {
		t.Errorf("object 7 is not the page: %q", objs[7])
	}
	if !strings.Contains(images[0], "/DecodeParms [<<\n/BitsPerComponent 8\n/Colors 3\n/Columns 4\n/Predictor 15\n>>]") {
		t.Errorf("unexpected image dictionary %q", images[0])
	}
}

func TestCCITT(t *testing.T) {
	rows := []byte{0xf0, 0xc0, 0xaa, 0x40, 0x00, 0x00}
	tif := testimg.BilevelTIFF(10, 3, 1, 1, rows)
	objs := objects(t, convert(t, noDate(), tif))
	images := find(objs, "/Filter [/CCITTFaxDecode]")
	if len(images) != 1 {
		t.Fatalf("found %d CCITT images", len(images))
	}
	for _, want := range []string{
		"/BlackIs1 true", "/K -1", "/Columns 10", "/Rows 3",
		"/BitsPerComponent 1", "/ColorSpace /DeviceGray",
	} {
		if !strings.Contains(images[0], want) {
			t.Errorf("image dictionary lacks %q", want)
		}
	}

	g4 := testimg.BilevelTIFF(10, 3, 4, 1, []byte{0x12, 0x34})
	objs = objects(t, convert(t, noDate(), g4))
	images = find(objs, "/Filter [/CCITTFaxDecode]", "\nstream\n\x12\x34\nendstream")
	if len(images) != 1 {
		t.Errorf("Group 4 data not copied")
	}
}

func TestIndexed(t *testing.T) {
	pal := color.Palette{color.RGBA{255, 0, 0, 255}, color.RGBA{0, 0, 255, 255}}
	img := image.NewPaletted(image.Rect(0, 0, 8, 2), pal)
	img.Pix[3] = 1
	objs := objects(t, convert(t, noDate(), encodePNG(t, img)))
	images := find(objs, "/ColorSpace [/Indexed /DeviceRGB 1 (\xff\x00\x00\x00\x00\xff)]")
	if len(images) != 1 {
		t.Fatal("indexed colorspace missing")
	}
	if !strings.Contains(images[0], "/Colors 1") || !strings.Contains(images[0], "/BitsPerComponent 1") {
		t.Errorf("unexpected image dictionary %q", images[0])
	}
}

func TestICCBased(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	data := testimg.InsertPNGChunk(encodePNG(t, img), "iCCP", testimg.ICCP(icc.SRGBv2Profile))
	objs := objects(t, convert(t, noDate(), data))

	if !strings.Contains(objs[5], "/ColorSpace [/ICCBased 6 0 R]") {
		t.Errorf("unexpected image dictionary %q", objs[5])
	}
	for _, want := range []string{"/N 3", "/Alternate /DeviceRGB", "/Filter /FlateDecode"} {
		if !strings.Contains(objs[6], want) {
			t.Errorf("ICC stream lacks %q", want)
		}
	}
	if !strings.Contains(objs[7], "/Type /Page\n") {
		t.Errorf("object 7 is not the page: %q", objs[7])
	}
}

func TestRotation(t *testing.T) {
	jpg := testimg.InsertSegments(testimg.JPEG(16, 8, false), testimg.EXIF(6))
	objs := objects(t, convert(t, noDate(), jpg))
	if len(find(objs, "/Type /Page\n", "/Rotate 90")) != 1 {
		t.Error("missing /Rotate 90")
	}

	cfg := noDate()
	cfg.Rotation = frame.RotateNone
	objs = objects(t, convert(t, cfg, jpg))
	if len(find(objs, "/Rotate")) != 0 {
		t.Error("rotation not disabled")
	}
}

func TestMultipleImages(t *testing.T) {
	pal := color.Palette{color.Black, color.White}
	g := &gif.GIF{}
	for range 2 {
		g.Image = append(g.Image, image.NewPaletted(image.Rect(0, 0, 5, 5), pal))
		g.Delay = append(g.Delay, 0)
	}
	buf := &bytes.Buffer{}
	if err := gif.EncodeAll(buf, g); err != nil {
		t.Fatal(err)
	}

	objs := objects(t, convert(t, noDate(), buf.Bytes(), testimg.JPEG(8, 8, true)))
	pages := find(objs, "/Type /Pages")
	if len(pages) != 1 || !strings.Contains(pages[0], "/Count 3") {
		t.Errorf("unexpected page tree %q", pages)
	}

	cfg := noDate()
	cfg.FirstFrameOnly = true
	objs = objects(t, convert(t, cfg, buf.Bytes()))
	if pages := find(objs, "/Type /Pages"); !strings.Contains(pages[0], "/Count 1") {
		t.Errorf("unexpected page tree %q", pages)
	}
}

func TestLayout(t *testing.T) {
	cfg := noDate()
	cfg.Layout.PageSize = &layout.Size{Width: layout.Pt(200), Height: layout.Pt(100)}
	cfg.CropBorder = &layout.Border{Vertical: 10, Horizontal: 20}
	objs := objects(t, convert(t, cfg, testimg.JPEG(80, 80, true)))

	page := find(objs, "/Type /Page\n")
	if len(page) != 1 {
		t.Fatal("page not found")
	}
	for _, want := range []string{"/MediaBox [0 0 200 100]", "/CropBox [20 10 180 90]"} {
		if !strings.Contains(page[0], want) {
			t.Errorf("page lacks %q", want)
		}
	}
	content := "q\n100.0000 0.0000 0.0000 100.0000 50.0000 0.0000 cm\n/Im0 Do\nQ"
	if len(find(objs, content)) != 1 {
		t.Error("image not centred")
	}
}

func TestOversized(t *testing.T) {
	cfg := noDate()
	cfg.Layout.PageSize = &layout.Size{Width: layout.Pt(97200), Height: layout.Pt(50400)}
	jpg := testimg.JPEG(8, 8, false)

	err := Convert(&bytes.Buffer{}, [][]byte{jpg}, cfg)
	var convErr *ConversionError
	if !errors.As(err, &convErr) || convErr.Kind != ConfigError || !errors.Is(err, layout.ErrPageTooLarge) {
		t.Fatalf("got %v, want a ConfigError", err)
	}

	cfg.Layout.AllowOversized = true
	data := convert(t, cfg, jpg)
	if !bytes.HasPrefix(data, []byte("%PDF-1.6\n")) {
		t.Errorf("wrong header %q", data[:9])
	}
	objs := objects(t, data)
	if len(find(objs, "/UserUnit 10", "/MediaBox [0 0 9720 5040]")) != 1 {
		t.Error("missing /UserUnit")
	}
}

func TestViewer(t *testing.T) {
	cfg := noDate()
	cfg.Viewer = Viewer{
		Panes:         PanesThumbs,
		FullScreen:    true,
		PageLayout:    LayoutTwoPageLeft,
		InitialPage:   2,
		Magnification: Magnification{Mode: ZoomPercent, Percent: 150},
		FitWindow:     true,
	}
	jpg := testimg.JPEG(8, 8, false)
	data := convert(t, cfg, jpg, jpg)
	if !bytes.HasPrefix(data, []byte("%PDF-1.5\n")) {
		t.Errorf("wrong header %q", data[:9])
	}
	objs := objects(t, data)
	for _, want := range []string{
		"/PageMode /FullScreen",
		"/PageLayout /TwoPageLeft",
		"/NonFullScreenPageMode /UseThumbs",
		"/FitWindow true",
		"/OpenAction [9 0 R /XYZ null null 1.5]",
	} {
		if !strings.Contains(objs[2], want) {
			t.Errorf("catalog lacks %q", want)
		}
	}

	cfg.Viewer = Viewer{InitialPage: 3}
	err := Convert(&bytes.Buffer{}, [][]byte{jpg}, cfg)
	var convErr *ConversionError
	if !errors.As(err, &convErr) || convErr.Kind != ConfigError {
		t.Errorf("got %v, want a ConfigError", err)
	}
}

func TestPDFA(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PDFA = true
	cfg.Info = pdf.Info{
		Title:        "Scan",
		CreationDate: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		ModDate:      time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	jpg := testimg.JPEG(8, 8, false)
	data := convert(t, cfg, jpg)
	if !bytes.HasPrefix(data, []byte("%PDF-1.4\n")) {
		t.Errorf("wrong header %q", data[:9])
	}
	objs := objects(t, data)
	if !strings.Contains(objs[2], "/Metadata ") || !strings.Contains(objs[2], "/S /GTS_PDFA1") {
		t.Errorf("catalog lacks PDF/A entries: %q", objs[2])
	}
	if len(find(objs, "/Subtype /XML", "pdfaid")) != 1 {
		t.Error("missing XMP metadata")
	}
	if !regexp.MustCompile(`/ID \[<[0-9a-f]{32}> <[0-9a-f]{32}>\]`).Match(data) {
		t.Error("missing file identifier")
	}

	if d := cmp.Diff(data, convert(t, cfg, jpg)); d != "" {
		t.Errorf("output not reproducible:\n%s", d)
	}

	cfg.PDFAICCPath = "/nonexistent/profile.icc"
	err := Convert(&bytes.Buffer{}, [][]byte{jpg}, cfg)
	var convErr *ConversionError
	if !errors.As(err, &convErr) || convErr.Kind != ConfigError {
		t.Errorf("got %v, want a ConfigError", err)
	}
}

func TestDeterministic(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 30, 20))
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}
	in := [][]byte{encodePNG(t, img), testimg.JPEG(16, 16, false)}
	a := convert(t, noDate(), in...)
	b := convert(t, noDate(), in...)
	if !bytes.Equal(a, b) {
		t.Error("output differs between runs")
	}
}

func TestErrors(t *testing.T) {
	jpg := testimg.JPEG(8, 8, false)
	cases := []struct {
		images [][]byte
		cfg    *Config
		kind   ErrorKind
		image  int
		frame  int
		err    error
	}{
		{nil, nil, InputError, -1, -1, ErrNoInput},
		{[][]byte{jpg, []byte("not an image")}, nil, FormatError, 1, -1, frame.ErrUnsupportedFormat},
		{[][]byte{jpg}, &Config{Colorspace: frame.Bilevel}, FormatError, 0, -1, frame.ErrJPEGMonochrome},
		{[][]byte{jpg}, &Config{Layout: layout.Config{
			PageSize: &layout.Size{Width: layout.Pt(10), Height: layout.Pt(10)},
			Border:   &layout.Border{Vertical: 6, Horizontal: 0},
		}}, ConfigError, 0, 0, layout.ErrNegativeDimension},
	}
	for i, c := range cases {
		out := &bytes.Buffer{}
		err := Convert(out, c.images, c.cfg)
		var convErr *ConversionError
		if !errors.As(err, &convErr) {
			t.Errorf("%d: got %v, want a ConversionError", i, err)
			continue
		}
		if convErr.Kind != c.kind || convErr.Image != c.image || convErr.Frame != c.frame {
			t.Errorf("%d: got %s/%d/%d, want %s/%d/%d", i,
				convErr.Kind, convErr.Image, convErr.Frame, c.kind, c.image, c.frame)
		}
		if !errors.Is(err, c.err) {
			t.Errorf("%d: %v does not wrap %v", i, err, c.err)
		}
		if out.Len() != 0 {
			t.Errorf("%d: %d bytes written on error", i, out.Len())
		}
	}
}

func TestWarnings(t *testing.T) {
	buf := &bytes.Buffer{}
	cfg := noDate()
	cfg.Logger = slog.New(slog.NewTextHandler(buf, nil))

	convert(t, cfg, testimg.JPEG(8, 8, false), testimg.JPEG(2, 2, false))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d warnings, want 1:\n%s", len(lines), buf)
	}
	for _, want := range []string{"level=WARN", "image=1", "frame=0"} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("warning lacks %q: %s", want, lines[0])
		}
	}
}

func TestParseEngine(t *testing.T) {
	e, err := ParseEngine("internal")
	if err != nil || e != Internal {
		t.Errorf("ParseEngine(internal) = %v, %v", e, err)
	}
	if _, err := ParseEngine("pikepdf"); err == nil {
		t.Error("unknown engine accepted")
	}
}

func TestParseViewer(t *testing.T) {
	m, err := ParseMagnification("200")
	if err != nil || m != (Magnification{Mode: ZoomPercent, Percent: 200}) {
		t.Errorf("ParseMagnification(200) = %v, %v", m, err)
	}
	if m, _ := ParseMagnification("FitH"); m.Mode != ZoomFitH {
		t.Errorf("ParseMagnification(FitH) = %v", m)
	}
	for l := LayoutSingle; l <= LayoutTwoPageRight; l++ {
		if got, err := ParsePageLayout(l.String()); err != nil || got != l {
			t.Errorf("ParsePageLayout(%s) = %v, %v", l, got, err)
		}
	}
	if _, err := ParsePageMode(""); err == nil {
		t.Error("empty page mode accepted")
	}
}
