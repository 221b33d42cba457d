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

// Package config reads the settings of the pdfink tool from a TOML file.
//
// A configuration file looks like this:
//
//	min_distance = 2.0
//	default_width = 12
//	default_color = "#000000"
//	input_mode = "any"
//	producer = "seehuhn.de/go/pdfink"
//	listen = "localhost:8417"
//	advertise = false
//
// Missing keys keep their default values.  Unknown keys are an error.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"seehuhn.de/go/pdfink"
	"seehuhn.de/go/pdfink/capture"
	"seehuhn.de/go/pdfink/engine"
	"seehuhn.de/go/pdfink/inkpdf"
)

// Config holds the user settings.
type Config struct {
	// MinDistance is the debounce distance for pointer input, in page
	// pixels.
	MinDistance float64 `toml:"min_distance"`

	DefaultWidth pdfink.Width     `toml:"default_width"`
	DefaultColor pdfink.Color     `toml:"default_color"`
	InputMode    pdfink.InputMode `toml:"input_mode"`

	// Producer is recorded in the metadata of exported files.
	Producer string `toml:"producer"`

	// Listen is the address of the bridge server.
	Listen string `toml:"listen"`

	// Advertise announces the bridge server on the local network using
	// mDNS.
	Advertise bool `toml:"advertise"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		MinDistance:  capture.DefaultMinDistance,
		DefaultWidth: pdfink.DefaultWidth,
		DefaultColor: pdfink.Black,
		InputMode:    pdfink.AnyInput,
		Producer:     inkpdf.DefaultProducer,
		Listen:       "localhost:8417",
	}
}

// Path returns the location of the per-user configuration file.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pdfink", "config.toml"), nil
}

// Load reads the configuration file at path.  If path is empty, the
// per-user file is used, and a missing file gives the defaults.
func Load(path string) (*Config, error) {
	optional := false
	if path == "" {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
		optional = true
	}

	fd, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) && optional {
		return Default(), nil
	} else if err != nil {
		return nil, err
	}
	defer fd.Close()

	c, err := Decode(fd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Decode reads a configuration in TOML format.
func Decode(r io.Reader) (*Config, error) {
	c := Default()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	err := dec.Decode(c)
	if err != nil {
		return nil, err
	}
	err = c.Check()
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Encode writes the configuration in TOML format.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Check reports invalid settings.
func (c *Config) Check() error {
	if !(c.MinDistance >= 0) {
		return fmt.Errorf("min_distance %g must not be negative", c.MinDistance)
	}
	if !c.DefaultWidth.IsValid() {
		return fmt.Errorf("default_width %d not in %v", c.DefaultWidth, pdfink.Widths)
	}
	if !c.DefaultColor.IsValid() {
		return fmt.Errorf("invalid default_color %d", c.DefaultColor)
	}
	return nil
}

// EngineOptions returns the engine settings described by c.
func (c *Config) EngineOptions() *engine.Options {
	return &engine.Options{
		Color:       c.DefaultColor,
		Width:       c.DefaultWidth,
		InputMode:   c.InputMode,
		MinDistance: c.MinDistance,
		Producer:    c.Producer,
	}
}
