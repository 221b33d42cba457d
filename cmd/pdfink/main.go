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

// Pdfink reads, writes and renders freehand ink annotations in PDF files.
//
// Usage:
//
//	pdfink [-v] [-config file] command [options] arguments
//
// The commands are:
//
//	import   print the ink annotations of a PDF file as a JSON path map
//	export   add the strokes of a JSON path map to a PDF file
//	render   draw the ink of one page into a PNG image
//	img2pdf  convert an image into a single-page PDF file
//	serve    run the WebSocket bridge for a host application
//	browse   list the bridge servers announced on the local network
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"seehuhn.de/go/pdfink"
	"seehuhn.de/go/pdfink/config"
)

type command struct {
	name  string
	usage string
	run   func(cfg *config.Config, args []string) error
}

var commands = []command{
	{"import", "import [-password pw] [-o paths.json] in.pdf", runImport},
	{"export", "export [-password pw] [-paths paths.json] [-flatten] [-o out.pdf] in.pdf", runExport},
	{"render", "render [-password pw] [-paths paths.json] [-page n] [-size px] in.pdf out.png", runRender},
	{"img2pdf", "img2pdf [-dpi n] [-title t] in.img out.pdf", runImg2PDF},
	{"serve", "serve [-listen addr] [-advertise]", runServe},
	{"browse", "browse [-t duration]", runBrowse},
}

func usage() {
	w := flag.CommandLine.Output()
	fmt.Fprintf(w, "Usage: %s [options] command [command options] arguments\n\n", os.Args[0])
	fmt.Fprintln(w, "Options:")
	flag.PrintDefaults()
	fmt.Fprintln(w, "\nCommands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %s\n", c.usage)
	}
}

func main() {
	verbose := flag.Bool("v", false, "log progress to stderr")
	cfgFile := flag.String("config", "", "configuration `file` (TOML)")
	flag.Usage = usage
	flag.Parse()

	if *verbose {
		h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		pdfink.SetLogger(slog.New(h))
	}

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	name := flag.Arg(0)
	for _, c := range commands {
		if c.name != name {
			continue
		}
		err := c.run(cfg, flag.Args()[1:])
		var uErr *usageError
		if errors.As(err, &uErr) {
			fmt.Fprintf(os.Stderr, "Usage: %s %s\n", os.Args[0], c.usage)
			os.Exit(2)
		} else if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "error: unknown command %q\n", name)
	usage()
	os.Exit(2)
}

type usageError struct{}

func (*usageError) Error() string {
	return "invalid arguments"
}
