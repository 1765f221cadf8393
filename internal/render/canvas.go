/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package render draws annotations onto a 2D canvas: the editing preview with
// its debug overlays and the caption-only composition that gets exported.
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// Canvas is the drawing surface the renderers need. Fill and stroke colors
// are tracked separately. Text is drawn centered on the given point both
// horizontally and vertically.
type Canvas interface {
	Size() (w, h int)
	Clear(c color.Color)
	DrawImage(img image.Image, x, y int)

	Push()
	Pop()
	Translate(x, y float64)
	Rotate(rad float64)

	SetFillColor(c color.Color)
	SetStrokeColor(c color.Color)
	SetLineWidth(w float64)
	// SetDash sets the dash pattern for strokes; no arguments means solid.
	SetDash(dashes ...float64)
	SetFontFace(face font.Face)

	FillRect(x, y, w, h float64)
	StrokeRect(x, y, w, h float64)
	FillCircle(x, y, r float64)
	FillText(s string, x, y float64)
	// StrokeText draws the outline of s with the current line width.
	StrokeText(s string, x, y float64)
}

// GGCanvas implements Canvas on a fogleman/gg context.
type GGCanvas struct {
	dc        *gg.Context
	fill      color.Color
	stroke    color.Color
	lineWidth float64
}

// NewGGCanvas returns a w×h canvas backed by a fresh RGBA image.
func NewGGCanvas(w, h int) *GGCanvas { return wrap(gg.NewContext(w, h)) }

// NewGGCanvasForRGBA draws directly into img.
func NewGGCanvasForRGBA(img *image.RGBA) *GGCanvas { return wrap(gg.NewContextForRGBA(img)) }

func wrap(dc *gg.Context) *GGCanvas {
	return &GGCanvas{dc: dc, fill: color.Black, stroke: color.Black, lineWidth: 1}
}

// Image returns the backing image.
func (c *GGCanvas) Image() image.Image { return c.dc.Image() }

func (c *GGCanvas) Size() (int, int) { return c.dc.Width(), c.dc.Height() }

func (c *GGCanvas) Clear(col color.Color) {
	c.dc.SetColor(col)
	c.dc.Clear()
}

func (c *GGCanvas) DrawImage(img image.Image, x, y int) { c.dc.DrawImage(img, x, y) }

func (c *GGCanvas) Push()                  { c.dc.Push() }
func (c *GGCanvas) Pop()                   { c.dc.Pop() }
func (c *GGCanvas) Translate(x, y float64) { c.dc.Translate(x, y) }
func (c *GGCanvas) Rotate(rad float64)     { c.dc.Rotate(rad) }

func (c *GGCanvas) SetFillColor(col color.Color)   { c.fill = col }
func (c *GGCanvas) SetStrokeColor(col color.Color) { c.stroke = col }
func (c *GGCanvas) SetLineWidth(w float64)         { c.lineWidth = w }
func (c *GGCanvas) SetDash(d ...float64)           { c.dc.SetDash(d...) }
func (c *GGCanvas) SetFontFace(face font.Face)     { c.dc.SetFontFace(face) }

func (c *GGCanvas) FillRect(x, y, w, h float64) {
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.SetColor(c.fill)
	c.dc.Fill()
}

func (c *GGCanvas) StrokeRect(x, y, w, h float64) {
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.SetColor(c.stroke)
	c.dc.SetLineWidth(c.lineWidth)
	c.dc.Stroke()
}

func (c *GGCanvas) FillCircle(x, y, r float64) {
	c.dc.DrawCircle(x, y, r)
	c.dc.SetColor(c.fill)
	c.dc.Fill()
}

func (c *GGCanvas) FillText(s string, x, y float64) {
	if s == "" {
		return
	}
	c.dc.SetColor(c.fill)
	c.dc.DrawStringAnchored(s, x, y, 0.5, 0.5)
}

// StrokeText stamps the glyphs at every offset within half the line width,
// which gives the same silhouette as a centered stroke of the outline.
func (c *GGCanvas) StrokeText(s string, x, y float64) {
	if s == "" || c.lineWidth <= 0 {
		return
	}
	r := c.lineWidth / 2
	n := int(math.Ceil(r))
	c.dc.SetColor(c.stroke)
	for dy := -n; dy <= n; dy++ {
		for dx := -n; dx <= n; dx++ {
			if float64(dx*dx+dy*dy) > r*r {
				continue
			}
			c.dc.DrawStringAnchored(s, x+float64(dx), y+float64(dy), 0.5, 0.5)
		}
	}
}
