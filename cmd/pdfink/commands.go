// seehuhn.de/go/pdfink - freehand ink annotations for PDF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
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
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"golang.org/x/term"

	"seehuhn.de/go/pdfink"
	"seehuhn.de/go/pdfink/bridge"
	"seehuhn.de/go/pdfink/config"
	"seehuhn.de/go/pdfink/engine"
	"seehuhn.de/go/pdfink/inkpdf"
	"seehuhn.de/go/pdfink/pdfimage"
	"seehuhn.de/go/pdfink/render"
)

// parse parses the options of a sub-command and checks the number of
// remaining arguments.
func parse(fs *flag.FlagSet, args []string, nArgs int) error {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil || fs.NArg() != nArgs {
		return &usageError{}
	}
	return nil
}

func runImport(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	password := fs.String("password", "", "password for encrypted files")
	out := fs.String("o", "", "output file (default stdout)")
	if err := parse(fs, args, 1); err != nil {
		return err
	}

	doc, _, err := readPDF(fs.Arg(0), *password)
	if err != nil {
		return err
	}
	pages, err := inkpdf.Extract(context.Background(), doc)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(pages, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if *out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(*out, data, 0o644)
}

func runExport(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	password := fs.String("password", "", "password for encrypted files")
	pathsFile := fs.String("paths", "", "JSON path map (default: the strokes found in the file)")
	flatten := fs.Bool("flatten", false, "draw the strokes into the page content")
	out := fs.String("o", "out.pdf", "output file name")
	force := fs.Bool("f", false, "overwrite output file if it exists")
	if err := parse(fs, args, 1); err != nil {
		return err
	}
	if !*force {
		if _, err := os.Stat(*out); !os.IsNotExist(err) {
			return fmt.Errorf("output file %q already exists", *out)
		}
	}

	doc, pw, err := readPDF(fs.Arg(0), *password)
	if err != nil {
		return err
	}
	pages, err := loadPaths(doc, *pathsFile)
	if err != nil {
		return err
	}

	opt := &inkpdf.Options{
		Password: pw,
		Flatten:  *flatten,
		Producer: cfg.Producer,
	}
	err = inkpdf.Apply(doc, pages, opt)
	if err != nil {
		return err
	}

	fd, err := os.Create(*out)
	if err != nil {
		return err
	}
	err = doc.Write(fd)
	if err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}

func runRender(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	password := fs.String("password", "", "password for encrypted files")
	pathsFile := fs.String("paths", "", "JSON path map (default: the strokes found in the file)")
	pageNo := fs.Int("page", 1, "page number")
	size := fs.Int("size", 1024, "length of the longer image side, in pixels")
	if err := parse(fs, args, 2); err != nil {
		return err
	}

	doc, _, err := readPDF(fs.Arg(0), *password)
	if err != nil {
		return err
	}
	boxes, err := inkpdf.PageBoxes(doc)
	if err != nil {
		return err
	}
	if *pageNo < 1 || *pageNo > len(boxes) {
		return fmt.Errorf("page %d out of range 1-%d", *pageNo, len(boxes))
	}
	pages, err := loadPaths(doc, *pathsFile)
	if err != nil {
		return err
	}

	box := boxes[*pageNo-1]
	c := render.Thumbnail(pages[*pageNo], box.Width(), box.Height(), *size)
	defer c.Close()

	fd, err := os.Create(fs.Arg(1))
	if err != nil {
		return err
	}
	err = c.EncodePNG(fd)
	if err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}

func runImg2PDF(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("img2pdf", flag.ContinueOnError)
	dpi := fs.Float64("dpi", 72, "image resolution")
	title := fs.String("title", "", "document title")
	if err := parse(fs, args, 2); err != nil {
		return err
	}

	img, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	buf := &bytes.Buffer{}
	err = pdfimage.Convert(buf, img, &pdfimage.Options{DPI: *dpi, Title: *title})
	if err != nil {
		return err
	}
	return os.WriteFile(fs.Arg(1), buf.Bytes(), 0o644)
}

func runServe(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	listen := fs.String("listen", cfg.Listen, "listen `address`")
	advertise := fs.Bool("advertise", cfg.Advertise, "announce the server using mDNS")
	if err := parse(fs, args, 0); err != nil {
		return err
	}

	ln, err := net.Listen("tcp", *listen)
	if err != nil {
		return err
	}
	port := ln.Addr().(*net.TCPAddr).Port

	if *advertise {
		zone, err := bridge.Advertise(port)
		if err != nil {
			ln.Close()
			return err
		}
		defer zone.Shutdown()
	}

	srv := &http.Server{
		Handler: &bridge.Server{
			NewEngine: func() *engine.Engine {
				return engine.New(cfg.EngineOptions())
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	log.Printf("bridge listening on ws://%s/", ln.Addr())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func runBrowse(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("browse", flag.ContinueOnError)
	timeout := fs.Duration("t", 2*time.Second, "how long to wait for answers")
	if err := parse(fs, args, 0); err != nil {
		return err
	}

	urls, err := bridge.Browse(*timeout)
	if err != nil {
		return err
	}
	for _, url := range urls {
		fmt.Println(url)
	}
	return nil
}

// readPDF loads a PDF file.  If the file is encrypted and no usable
// password was given, the password is read from the terminal.
// The password which opened the file is returned.
func readPDF(fname, password string) (*inkpdf.Document, string, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, "", err
	}

	for try := 0; ; try++ {
		doc, err := inkpdf.Read(bytes.NewReader(data), &inkpdf.Options{Password: password})
		if err == nil {
			return doc, password, nil
		}
		fd := int(os.Stdin.Fd())
		if !errors.Is(err, inkpdf.ErrPassword) || try >= 3 || !term.IsTerminal(fd) {
			return nil, "", fmt.Errorf("%s: %w", fname, err)
		}

		fmt.Fprint(os.Stderr, "password: ")
		pw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, "", err
		}
		password = string(pw)
	}
}

// loadPaths reads a JSON path map, or the strokes stored in doc if fname
// is empty.
func loadPaths(doc *inkpdf.Document, fname string) (pdfink.Pages, error) {
	if fname == "" {
		return inkpdf.Extract(context.Background(), doc)
	}
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	pages, err := pdfink.DecodePages(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return pages, nil
}
