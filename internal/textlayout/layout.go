/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

// Text measurement and line breaking shared by the preview, the export and
// hit testing. All three must agree on the wrapped block, so they go through
// the same Engine with the same Provider.

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// FontSpec describes a requested font.
type FontSpec struct {
	Family string  // CSS style list, e.g. "Nanum Gothic, serif"
	Size   float64 // px
	Weight int     // 100..900, 0 means regular
	Italic bool
}

// Metrics provides font metrics in pixels for the resolved face.
type Metrics struct {
	Ascent, Descent, LineGap float64
}

// Provider maps a FontSpec to a concrete font.Face.
// Faces are not safe for concurrent use; neither are the providers that cache them.
type Provider interface {
	Resolve(FontSpec) (font.Face, Metrics)
}

// BasicProvider uses x/image/basicfont Face7x13 for deterministic tests.
// Every glyph advances exactly 7px whatever size is requested.
type BasicProvider struct{}

func (BasicProvider) Resolve(FontSpec) (font.Face, Metrics) {
	f := basicfont.Face7x13
	return f, metricsOf(f)
}

func metricsOf(f font.Face) Metrics {
	m := f.Metrics()
	return Metrics{
		Ascent:  float64(m.Ascent.Round()),
		Descent: float64(m.Descent.Round()),
		LineGap: float64(m.Height.Round() - m.Ascent.Round() - m.Descent.Round()),
	}
}

// Block is a wrapped, measured run of text.
type Block struct {
	Lines      []string
	Widths     []float64 // per line
	Width      float64   // widest line
	FontSize   float64
	LineHeight float64 // FontSize + gap
	Face       font.Face
	Metrics    Metrics
}

// Height is the vertical extent of the lines: n·FontSize plus the gaps between them.
func (b Block) Height() float64 {
	n := float64(len(b.Lines))
	if n == 0 {
		return 0
	}
	return n*b.FontSize + (n-1)*(b.LineHeight-b.FontSize)
}

// LineY returns the baseline-centered y of line i when the block is centered on anchorY.
func (b Block) LineY(i int, anchorY float64) float64 {
	return anchorY + (float64(i)-float64(len(b.Lines)-1)/2)*b.LineHeight
}

// Engine wraps and measures text with a Provider.
type Engine struct{ Provider Provider }

func NewEngine(p Provider) *Engine { return &Engine{Provider: p} }

func (e *Engine) provider() Provider {
	if e == nil || e.Provider == nil {
		return BasicProvider{}
	}
	return e.Provider
}

// Face resolves spec through the engine's provider.
func (e *Engine) Face(spec FontSpec) (font.Face, Metrics) { return e.provider().Resolve(spec) }

// Wrap splits text on '\n' into paragraphs, keeps blank paragraphs as empty
// lines, and packs words greedily while the line stays narrower than maxWidth.
// A single word wider than maxWidth is kept on its own line.
func (e *Engine) Wrap(text string, spec FontSpec, maxWidth, lineGap float64) Block {
	face, met := e.Face(spec)
	d := &font.Drawer{Face: face}
	b := Block{FontSize: spec.Size, LineHeight: spec.Size + lineGap, Face: face, Metrics: met}

	push := func(line string) {
		w := advance(d, line)
		b.Lines = append(b.Lines, line)
		b.Widths = append(b.Widths, w)
		if w > b.Width {
			b.Width = w
		}
	}
	for _, para := range strings.Split(text, "\n") {
		if strings.TrimSpace(para) == "" {
			push("")
			continue
		}
		words := strings.Split(para, " ")
		cur := words[0]
		for _, w := range words[1:] {
			if cand := cur + " " + w; advance(d, cand) < maxWidth {
				cur = cand
				continue
			}
			push(cur)
			cur = w
		}
		if cur != "" {
			push(cur)
		}
	}
	return b
}

// MeasureLine returns the advance width of s on a single line.
func (e *Engine) MeasureLine(s string, spec FontSpec) float64 {
	face, _ := e.Face(spec)
	return advance(&font.Drawer{Face: face}, s)
}

func advance(d *font.Drawer, s string) float64 {
	return float64(d.MeasureString(s)) / 64 // fixed.Int26_6 to px
}
