/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"imgannot/internal/domain"
	"imgannot/internal/geom"
)

// PDFOptions controls the proof sheet.
// Units are points. The page is the display size plus a margin on every side.
//
// - Display: size the image is shown at; zero means the logical 800x600
// - Margin: page margin around the image, default 36pt
// - Guides: draw dashed outlines around link hotspots
// - Title: document title; empty uses the image file name
type PDFOptions struct {
	Display geom.Size
	Margin  float64
	Guides  bool
	Title   string
}

// WriteProofPDF places the exported image on a single page and adds a link
// annotation over every hotspot, mapped from logical to display coordinates
// the same way a viewer re-applies them.
func WriteProofPDF(outPath string, res domain.Result, opt PDFOptions) error {
	disp := opt.Display
	if disp.W <= 0 || disp.H <= 0 {
		disp = geom.LogicalSize
	}
	n, err := geom.NewNormalizer(disp)
	if err != nil {
		return fmt.Errorf("proof pdf: %w", err)
	}
	margin := opt.Margin
	if margin <= 0 {
		margin = 36
	}
	pageW, pageH := disp.W+2*margin, disp.H+2*margin

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	title := opt.Title
	if title == "" {
		title = res.Image.Name
	}
	pdf.SetTitle(title, true)
	pdf.SetAuthor("imgannot", false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	imgType := "PNG"
	if res.Image.ContentType == "image/jpeg" {
		imgType = "JPG"
	}
	info := pdf.RegisterImageOptionsReader(res.Image.Name, gofpdf.ImageOptions{ImageType: imgType}, bytes.NewReader(res.Image.Data))
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("proof pdf image: %w", err)
	}
	if info == nil {
		return fmt.Errorf("proof pdf image: not registered")
	}
	pdf.ImageOptions(res.Image.Name, margin, margin, disp.W, disp.H, false, gofpdf.ImageOptions{ImageType: imgType}, 0, "")

	pdf.SetDrawColor(0, 102, 204)
	pdf.SetLineWidth(1)
	for _, l := range res.Links {
		r := l.ScreenRect(n)
		pdf.LinkString(margin+r.X, margin+r.Y, r.W, r.H, l.URL)
		if opt.Guides {
			pdf.SetDashPattern([]float64{3, 3}, 0)
			pdf.Rect(margin+r.X, margin+r.Y, r.W, r.H, "D")
			pdf.SetDashPattern([]float64{}, 0)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
