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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/imgpdf/img2pdf"
	"github.com/imgpdf/img2pdf/internal/testimg"
	"github.com/imgpdf/img2pdf/layout"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	jpg := filepath.Join(dir, "a.jpg")
	err := os.WriteFile(jpg, testimg.JPEG(16, 16, false), 0o666)
	if err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.pdf")

	stderr := &bytes.Buffer{}
	code := run([]string{"-o", out, "--nodate", "--pagesize", "A4", jpg}, nil, &bytes.Buffer{}, stderr)
	if code != 0 {
		t.Fatalf("exit code %d: %s", code, stderr)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-1.3\n")) {
		t.Errorf("unexpected output %q", data[:10])
	}
	if !bytes.Contains(data, []byte("/MediaBox [0 0 595.2756 841.8898]")) {
		t.Error("page size not applied")
	}
}

func TestStdin(t *testing.T) {
	stdin := bytes.NewReader(testimg.JPEG(8, 8, true))
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := run([]string{"--nodate", "-"}, stdin, stdout, stderr)
	if code != 0 {
		t.Fatalf("exit code %d: %s", code, stderr)
	}
	if !bytes.HasPrefix(stdout.Bytes(), []byte("%PDF-")) {
		t.Error("no PDF written to stdout")
	}
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	var names []string
	for _, name := range []string{"a.jpg", "b.jpg"} {
		fname := filepath.Join(dir, name)
		err := os.WriteFile(fname, testimg.JPEG(8, 8, false), 0o666)
		if err != nil {
			t.Fatal(err)
		}
		names = append(names, fname)
	}
	stdin := strings.NewReader(strings.Join(names, "\n") + "\n\n")
	stdout := &bytes.Buffer{}
	code := run([]string{"--from-file", "-", "--nodate"}, stdin, stdout, &bytes.Buffer{})
	if code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if !bytes.Contains(stdout.Bytes(), []byte("/Count 2")) {
		t.Error("expected two pages")
	}

	code = run([]string{"--from-file", "-", names[0]}, stdin, &bytes.Buffer{}, &bytes.Buffer{})
	if code != 2 {
		t.Errorf("conflicting inputs: exit code %d, want 2", code)
	}
}

func TestErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.jpg")
	err := os.WriteFile(bad, []byte("not an image"), 0o666)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		args []string
		code int
	}{
		{[]string{}, 2},
		{[]string{"--fit", "squeeze", bad}, 2},
		{[]string{"--engine", "pikepdf", bad}, 2},
		{[]string{"--pagesize", "A4x", bad}, 2},
		{[]string{bad}, 1},
		{[]string{filepath.Join(dir, "missing.png")}, 1},
	}
	for _, c := range cases {
		stdout := &bytes.Buffer{}
		code := run(c.args, nil, stdout, &bytes.Buffer{})
		if code != c.code {
			t.Errorf("%q: exit code %d, want %d", c.args, code, c.code)
		}
		if stdout.Len() != 0 {
			t.Errorf("%q: output written on error", c.args)
		}
	}
}

func TestParseArgs(t *testing.T) {
	opts, err := parseArgs([]string{
		"--border", "10:20",
		"--fit", "fill",
		"--keywords", "scan, archive",
		"--keywords", "2026",
		"--viewer-page-layout", "twopageright",
		"--viewer-magnification", "fith",
		"--pdfa",
		"--rotation", "ifvalid",
		"in.png",
	}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	cfg := opts.cfg
	if d := cmp.Diff(&layout.Border{Vertical: 10, Horizontal: 20}, cfg.Layout.Border); d != "" {
		t.Errorf("border (-want +got):\n%s", d)
	}
	if cfg.Layout.Fit != layout.FitFill {
		t.Errorf("fit = %s", cfg.Layout.Fit)
	}
	if d := cmp.Diff([]string{"scan", "archive", "2026"}, cfg.Info.Keywords); d != "" {
		t.Errorf("keywords (-want +got):\n%s", d)
	}
	if cfg.Viewer.PageLayout != img2pdf.LayoutTwoPageRight || cfg.Viewer.Magnification.Mode != img2pdf.ZoomFitH {
		t.Errorf("unexpected viewer settings %+v", cfg.Viewer)
	}
	if !cfg.PDFA || cfg.PDFAICCPath != "" {
		t.Errorf("PDFA = %t, %q", cfg.PDFA, cfg.PDFAICCPath)
	}
	if d := cmp.Diff([]string{"in.png"}, opts.inputs); d != "" {
		t.Errorf("inputs (-want +got):\n%s", d)
	}

	opts, err = parseArgs([]string{"--pdfa=/tmp/profile.icc", "x"}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if !opts.cfg.PDFA || opts.cfg.PDFAICCPath != "/tmp/profile.icc" {
		t.Errorf("PDFA = %t, %q", opts.cfg.PDFA, opts.cfg.PDFAICCPath)
	}
}

func TestDateFlag(t *testing.T) {
	var f dateFlag
	if err := f.Set("2026-01-02"); err != nil {
		t.Fatal(err)
	}
	if f.t.Year() != 2026 || f.t.Day() != 2 {
		t.Errorf("unexpected date %v", f.t)
	}
	if err := f.Set("yesterday"); err == nil {
		t.Error("invalid date accepted")
	}
}
