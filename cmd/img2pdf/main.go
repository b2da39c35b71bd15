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

// Img2pdf converts raster images into a PDF file, without loss of quality.
//
// Usage:
//
//	img2pdf [options] image... [-o out.pdf]
//
// Each frame of each image becomes one page.  The name "-" reads an image
// from standard input.  Without -o, the PDF file is written to standard
// output, unless standard output is a terminal.
package main

import (
	"bufio"
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/imgpdf/img2pdf"
	"github.com/imgpdf/img2pdf/frame"
	"github.com/imgpdf/img2pdf/layout"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// errUsage marks errors in the command line.
var errUsage = errors.New("usage error")

type options struct {
	cfg *img2pdf.Config

	output   string
	fromFile string
	inputs   []string
	verbose  bool
}

func run(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	} else if err != nil {
		fmt.Fprintln(stderr, "img2pdf:", err)
		return 2
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	opts.cfg.Logger = logger

	if opts.output == "" {
		if f, ok := stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			fmt.Fprintln(stderr, "img2pdf: refusing to write PDF data to a terminal, use -o")
			return 2
		}
	}

	images, err := readInputs(opts, stdin)
	if err != nil {
		fmt.Fprintln(stderr, "img2pdf:", err)
		return 1
	}

	buf := &bytes.Buffer{}
	err = img2pdf.Convert(buf, images, opts.cfg)
	if err != nil {
		fmt.Fprintln(stderr, "img2pdf:", err)
		return 1
	}

	if opts.output == "" || opts.output == "-" {
		_, err = buf.WriteTo(stdout)
	} else {
		err = os.WriteFile(opts.output, buf.Bytes(), 0o666)
	}
	if err != nil {
		fmt.Fprintln(stderr, "img2pdf:", err)
		return 1
	}
	logger.Debug("PDF written", "bytes", buf.Len(), "images", len(images))
	return 0
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("img2pdf", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: img2pdf [options] image... [-o out.pdf]")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}

	opts := &options{cfg: img2pdf.DefaultConfig()}
	cfg := opts.cfg

	fs.StringVar(&opts.output, "o", "", "write the PDF to `file` (\"-\" for standard output)")
	fs.StringVar(&opts.fromFile, "from-file", "", "read image file names, one per line, from `file`")
	fs.BoolVar(&opts.verbose, "v", false, "print debugging information")

	// layout
	var pageSize, imgSize sizeFlag
	var border borderFlag
	fs.Var(&pageSize, "pagesize", "page `size`, e.g. A4, letter^T, 20cmx or 200ptx300pt")
	fs.Var(&imgSize, "imgsize", "image `size`, lengths may also be given in % or dpi")
	fs.Var(&border, "border", "`v[:h]` border around the image")
	fit := fs.String("fit", "into", "fit `mode`: into, fill, exact, shrink or enlarge")
	fs.BoolVar(&cfg.Layout.AutoOrient, "auto-orient", false, "rotate the page to match the image orientation")
	fs.BoolVar(&cfg.Layout.AllowOversized, "allow-oversized", false, "allow pages larger than 200 inches")
	var crop, bleed, trim, art borderFlag
	fs.Var(&crop, "crop-border", "`v[:h]` inset of the CropBox")
	fs.Var(&bleed, "bleed-border", "`v[:h]` inset of the BleedBox")
	fs.Var(&trim, "trim-border", "`v[:h]` inset of the TrimBox")
	fs.Var(&art, "art-border", "`v[:h]` inset of the ArtBox")

	// images
	rotation := fs.String("rotation", "auto", "page `rotation`: auto, none, ifvalid, 0, 90, 180 or 270")
	colorspace := fs.String("colorspace", "", "force the `colorspace` of all images")
	fs.Float64Var(&cfg.DefaultDPI, "default-dpi", frame.DefaultDPI, "`resolution` for images without one")
	fs.BoolVar(&cfg.FirstFrameOnly, "first-frame-only", false, "use only the first frame of multi-frame images")
	fs.BoolVar(&cfg.IncludeThumbnails, "include-thumbnails", false, "include the preview images of MPO files")
	engine := fs.String("engine", "internal", "PDF `engine`")

	// viewer
	panes := fs.String("viewer-panes", "", "show `panes`: none, outlines or thumbs")
	fs.BoolVar(&cfg.Viewer.FullScreen, "viewer-fullscreen", false, "open in full screen mode")
	pageLayout := fs.String("viewer-page-layout", "", "page `layout`: single, onecolumn, twocolumnleft, ...")
	fs.IntVar(&cfg.Viewer.InitialPage, "viewer-initial-page", 0, "`page` shown first")
	magnification := fs.String("viewer-magnification", "", "`zoom`: fit, fith, fitbh or a percentage")
	fs.BoolVar(&cfg.Viewer.FitWindow, "viewer-fit-window", false, "resize the window to the first page")
	fs.BoolVar(&cfg.Viewer.CenterWindow, "viewer-center-window", false, "center the window on the screen")

	// metadata
	fs.StringVar(&cfg.Info.Title, "title", "", "document `title`")
	fs.StringVar(&cfg.Info.Author, "author", "", "document `author`")
	fs.StringVar(&cfg.Info.Creator, "creator", "", "`name` of the creating application")
	fs.StringVar(&cfg.Info.Producer, "producer", "", "`name` of the producing application")
	fs.StringVar(&cfg.Info.Subject, "subject", "", "document `subject`")
	var keywords listFlag
	fs.Var(&keywords, "keywords", "comma separated `list` of keywords")
	var created, modified dateFlag
	fs.Var(&created, "creationdate", "creation `date`, e.g. 2026-01-02T15:04:05")
	fs.Var(&modified, "moddate", "modification `date`")
	fs.BoolVar(&cfg.NoDate, "nodate", false, "omit the dates, for reproducible output")
	var pdfa pdfaFlag
	fs.Var(&pdfa, "pdfa", "write PDF/A-1b, optionally with the output intent ICC profile from `file`")

	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}
	opts.inputs = fs.Args()

	if opts.fromFile != "" && len(opts.inputs) > 0 {
		return nil, fmt.Errorf("%w: --from-file cannot be combined with image arguments", errUsage)
	}
	if opts.fromFile == "" && len(opts.inputs) == 0 {
		fs.Usage()
		return nil, fmt.Errorf("%w: no input images", errUsage)
	}

	cfg.Layout.PageSize = pageSize.s
	cfg.Layout.ImageSize = imgSize.s
	cfg.Layout.Border = border.b
	cfg.CropBorder = crop.b
	cfg.BleedBorder = bleed.b
	cfg.TrimBorder = trim.b
	cfg.ArtBorder = art.b
	cfg.Info.Keywords = keywords
	cfg.Info.CreationDate = created.t
	cfg.Info.ModDate = modified.t
	cfg.PDFA = pdfa.enabled
	cfg.PDFAICCPath = pdfa.path

	cfg.Layout.Fit, err = layout.ParseFit(*fit)
	if err != nil {
		return nil, err
	}
	cfg.Rotation, err = frame.ParseRotationMode(*rotation)
	if err != nil {
		return nil, err
	}
	if *colorspace != "" {
		cfg.Colorspace, err = frame.ParseColorspace(*colorspace)
		if err != nil {
			return nil, err
		}
	}
	cfg.Engine, err = img2pdf.ParseEngine(*engine)
	if err != nil {
		return nil, err
	}
	if *panes != "" {
		cfg.Viewer.Panes, err = img2pdf.ParsePageMode(*panes)
		if err != nil {
			return nil, err
		}
	}
	if *pageLayout != "" {
		cfg.Viewer.PageLayout, err = img2pdf.ParsePageLayout(*pageLayout)
		if err != nil {
			return nil, err
		}
	}
	if *magnification != "" {
		cfg.Viewer.Magnification, err = img2pdf.ParseMagnification(*magnification)
		if err != nil {
			return nil, err
		}
	}
	if cfg.Viewer.InitialPage < 0 {
		return nil, fmt.Errorf("%w: negative initial page", errUsage)
	}

	return opts, nil
}

// readInputs reads all input images into memory.
func readInputs(opts *options, stdin io.Reader) ([][]byte, error) {
	names := opts.inputs
	if opts.fromFile != "" {
		var err error
		names, err = readNameList(opts.fromFile, stdin)
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			return nil, fmt.Errorf("%s: no file names found", opts.fromFile)
		}
	}

	stdinUsed := opts.fromFile == "-"
	images := make([][]byte, 0, len(names))
	for _, name := range names {
		var data []byte
		var err error
		if name == "-" {
			if stdinUsed {
				return nil, errors.New("standard input can only be read once")
			}
			stdinUsed = true
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(name)
		}
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			return nil, fmt.Errorf("%s: empty input", name)
		}
		images = append(images, data)
	}
	return images, nil
}

// readNameList reads file names, one per line.  Empty lines are ignored.
func readNameList(fname string, stdin io.Reader) ([]string, error) {
	r := stdin
	if fname != "-" {
		fd, err := os.Open(fname)
		if err != nil {
			return nil, err
		}
		defer fd.Close()
		r = fd
	}

	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line != "" {
			names = append(names, line)
		}
	}
	return names, scanner.Err()
}
