/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"imgannot/internal/domain"
	"imgannot/internal/geom"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
)

// BatchOptions controls writing every artifact of a result in one go.
//
// Formats: allowed png (the encoded image as is), links, pdf, svg; empty means preset defaults.
// Guides: when set, overrides the preset's default for hotspot outlines.
type BatchOptions struct {
	Preset  PresetName
	Formats []string
	Display geom.Size
	Guides  *bool
	OutDir  string
}

// BatchExport writes the artifacts the preset asks for and returns their paths.
func BatchExport(res domain.Result, opt BatchOptions) ([]string, error) {
	if len(res.Image.Data) == 0 {
		return nil, fmt.Errorf("result has no image")
	}
	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	guides := presetIncludeGuides(opt.Preset)
	if opt.Guides != nil {
		guides = *opt.Guides
	}
	dir := opt.OutDir
	if dir == "" {
		dir = "."
	}

	var out []string
	for _, f := range formats {
		var (
			path string
			err  error
		)
		switch strings.ToLower(strings.TrimSpace(f)) {
		case "png", "image":
			path, err = WriteFile(dir, res.Image)
		case "links":
			path, err = WriteLinks(dir, res)
		case "pdf":
			path = pdfPath(dir, res.Image)
			err = WriteProofPDF(path, res, PDFOptions{Display: opt.Display, Guides: guides})
		case "svg":
			path, err = WriteSVG(dir, res, SVGOptions{Display: opt.Display, Guides: guides})
		default:
			return out, fmt.Errorf("unknown format: %s", f)
		}
		if err != nil {
			return out, fmt.Errorf("%s: %w", f, err)
		}
		out = append(out, path)
	}
	return out, nil
}

func pdfPath(dir string, f domain.File) string {
	name := LinksName(f)
	return filepath.Join(dir, strings.TrimSuffix(name, "-links.json")+".pdf")
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetWeb:
		return []string{"png", "links", "svg"}
	case PresetPrint:
		return []string{"png", "links", "pdf"}
	default:
		return []string{"png", "links"}
	}
}

func presetIncludeGuides(p PresetName) bool {
	return p == PresetPrint
}
