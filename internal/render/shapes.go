/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"image/color"
	"math"

	"imgannot/internal/domain"
	"imgannot/internal/geom"
	"imgannot/internal/textlayout"
)

// ShapePadding is the gap between the text block and its background shape.
const ShapePadding = 8

// Outline widths of the stroked-text treatment.
const (
	CaptionStrokeWidth   = 2
	LinkStrokeWidth      = 8
	DraftLinkStrokeWidth = 3
)

// Fallback colors used when a style carries an unparsable color.
var (
	defaultTextColor   = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	defaultStrokeColor = color.RGBA{A: 0xff}
)

// fillBlock draws every line of b centered horizontally on at.X and stacked around at.Y.
func fillBlock(c Canvas, b textlayout.Block, at geom.Pt) {
	c.SetFontFace(b.Face)
	for i, line := range b.Lines {
		c.FillText(line, at.X, b.LineY(i, at.Y))
	}
}

func strokeBlock(c Canvas, b textlayout.Block, at geom.Pt) {
	c.SetFontFace(b.Face)
	for i, line := range b.Lines {
		c.StrokeText(line, at.X, b.LineY(i, at.Y))
	}
}

// outlinedText is the stroke-then-fill treatment used for captions and for
// links without a background shape.
func outlinedText(c Canvas, b textlayout.Block, at geom.Pt, fill, stroke color.Color, width float64) {
	c.SetStrokeColor(stroke)
	c.SetLineWidth(width)
	strokeBlock(c, b, at)
	c.SetFillColor(fill)
	fillBlock(c, b, at)
}

// DrawCaption draws a caption block: outlined text, never a background.
func DrawCaption(c Canvas, b textlayout.Block, at geom.Pt, style domain.CaptionStyle) {
	fill := domain.MustColor(style.Color, defaultTextColor)
	stroke := domain.MustColor(style.StrokeColor, defaultStrokeColor)
	outlinedText(c, b, at, fill, stroke, CaptionStrokeWidth)
}

// DrawLink draws a link block with its outline shape. noneWidth is the text
// outline width used when the shape is OutlineNone or unknown.
func DrawLink(c Canvas, b textlayout.Block, at geom.Pt, style domain.LinkStyle, noneWidth float64) {
	fill := domain.MustColor(style.Color, defaultTextColor)
	bg := domain.MustColor(style.StrokeColor, defaultStrokeColor)
	w, h := b.Width, b.Height()

	switch style.OutlineShape {
	case domain.OutlineRectangle:
		c.SetFillColor(bg)
		c.FillRect(at.X-w/2-ShapePadding, at.Y-h/2-ShapePadding, w+2*ShapePadding, h+2*ShapePadding)
	case domain.OutlineCircle:
		c.SetFillColor(bg)
		c.FillCircle(at.X, at.Y, math.Max(w, h)/2+ShapePadding)
	case domain.OutlineDiamond:
		s := diamondHalf(w, h)
		c.SetFillColor(bg)
		c.Push()
		c.Translate(at.X, at.Y)
		c.Rotate(math.Pi / 4)
		c.FillRect(-s, -s, 2*s, 2*s)
		c.Pop()
	default:
		outlinedText(c, b, at, fill, bg, noneWidth)
		return
	}
	c.SetFillColor(fill)
	fillBlock(c, b, at)
}

func diamondHalf(w, h float64) float64 { return math.Max(w, h)/2 + ShapePadding }

// ShapeBounds returns the axis-aligned extent a link occupies on the canvas.
func ShapeBounds(shape domain.OutlineShape, b textlayout.Block, at geom.Pt) geom.Rect {
	w, h := b.Width, b.Height()
	switch shape {
	case domain.OutlineRectangle:
		return geom.CenteredRect(at, w+2*ShapePadding, h+2*ShapePadding)
	case domain.OutlineCircle:
		d := math.Max(w, h) + 2*ShapePadding
		return geom.CenteredRect(at, d, d)
	case domain.OutlineDiamond:
		s := diamondHalf(w, h)
		m := geom.Translate(at.X, at.Y).Mul(geom.Rotate(math.Pi / 4))
		return m.ApplyRect(geom.R(-s, -s, 2*s, 2*s))
	default:
		return geom.CenteredRect(at, w, h)
	}
}
