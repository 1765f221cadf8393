/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export encodes a confirmed annotation result and writes its
// artifacts: the raster image, the link descriptors, a clickable PDF proof
// and an SVG image map.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"imgannot/internal/domain"
)

// Format names an output encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// DefaultJPEGQuality is used when Options.JPEGQuality is unset.
const DefaultJPEGQuality = 92

// ParseFormat maps a config value to a Format; anything unknown is PNG.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jpg", "jpeg":
		return FormatJPEG
	default:
		return FormatPNG
	}
}

// Options controls raster encoding.
// - Format: png (default) or jpeg
// - JPEGQuality: 1..100, 0 means DefaultJPEGQuality
// - Now: clock for the fallback file name; nil means time.Now
type Options struct {
	Format      Format
	JPEGQuality int
	Now         func() time.Time
}

func (o Options) ext() string {
	if o.Format == FormatJPEG {
		return ".jpg"
	}
	return ".png"
}

func (o Options) contentType() string {
	if o.Format == FormatJPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Encode encodes img into a named file record. original is the source file
// name; the result is called "<original>-<w>x<h>.<ext>".
func Encode(img image.Image, original string, opt Options) (domain.File, error) {
	if img == nil {
		return domain.File{}, fmt.Errorf("encode: image is nil")
	}
	now := time.Now
	if opt.Now != nil {
		now = opt.Now
	}
	b := img.Bounds()
	var buf bytes.Buffer
	switch opt.Format {
	case FormatJPEG:
		q := opt.JPEGQuality
		if q <= 0 || q > 100 {
			q = DefaultJPEGQuality
		}
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
			return domain.File{}, fmt.Errorf("encode jpeg: %w", err)
		}
	default:
		if err := png.Encode(&buf, img); err != nil {
			return domain.File{}, fmt.Errorf("encode png: %w", err)
		}
	}
	return domain.File{
		Name:        domain.ExportName(original, now(), b.Dx(), b.Dy(), opt.ext()),
		ContentType: opt.contentType(),
		Width:       b.Dx(),
		Height:      b.Dy(),
		Data:        buf.Bytes(),
	}, nil
}

// WriteFile writes f into dir under its own name and returns the path.
func WriteFile(dir string, f domain.File) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure out dir: %w", err)
	}
	name := filepath.Join(dir, filepath.Base(f.Name))
	if err := os.WriteFile(name, f.Data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return name, nil
}

// LinksName is the file name of the link descriptors stored next to an export.
func LinksName(f domain.File) string {
	base := strings.TrimSuffix(filepath.Base(f.Name), filepath.Ext(f.Name))
	return base + "-links.json"
}

// WriteLinks writes the result's links as JSON next to its image.
func WriteLinks(dir string, res domain.Result) (string, error) {
	b, err := res.LinksJSON()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure out dir: %w", err)
	}
	name := filepath.Join(dir, LinksName(res.Image))
	if err := os.WriteFile(name, b, 0o644); err != nil {
		return "", fmt.Errorf("write links: %w", err)
	}
	return name, nil
}
