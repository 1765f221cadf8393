/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"image"
	"image/color"
	"strconv"

	"imgannot/internal/domain"
	"imgannot/internal/geom"
	"imgannot/internal/textlayout"
)

// Preview overlay colors.
var (
	captionBoxColor   = color.NRGBA{R: 255, A: 128}
	captionLabelColor = color.NRGBA{R: 255, A: 204}
	linkBoxColor      = color.NRGBA{G: 102, B: 204, A: 128}
	linkIndexColor    = color.NRGBA{G: 102, B: 204, A: 255}
	draftBoxColor     = color.NRGBA{R: 255, A: 179}
	backgroundColor   = color.White
)

// Overlay geometry.
const (
	captionBoxMargin = 10
	labelOffset      = 20
	linkBoxMargin    = 4
	draftBoxMargin   = 5
)

// Scene is everything one preview frame depends on.
type Scene struct {
	// Base is the source image already resampled to the logical size.
	Base     image.Image
	Captions []domain.Caption
	Links    []domain.LinkHotspot
	// Draft is drawn only when placed and non-empty.
	Draft *domain.DraftLink
}

// Renderer draws scenes. It holds no per-frame state, so the same scene
// always produces the same pixels.
type Renderer struct {
	Text *textlayout.Engine
}

func NewRenderer(text *textlayout.Engine) *Renderer { return &Renderer{Text: text} }

// CaptionBlock wraps a caption with the caption preset.
func (r *Renderer) CaptionBlock(c domain.Caption) textlayout.Block {
	p := textlayout.MustPreset("Caption").WithFont(c.FontFamily, c.FontSize)
	return r.Text.WrapPreset(c.Text, p)
}

// LinkBlock wraps link text with the link preset.
func (r *Renderer) LinkBlock(text string, style domain.LinkStyle) textlayout.Block {
	p := textlayout.MustPreset("Link").WithFont(style.FontFamily, style.FontSize)
	return r.Text.WrapPreset(text, p)
}

// Preview redraws the whole editing view: base image, captions, links and the
// placed draft, each with its debug overlay.
func (r *Renderer) Preview(c Canvas, s Scene) {
	r.background(c, s.Base)
	for i, cp := range s.Captions {
		b := r.CaptionBlock(cp)
		DrawCaption(c, b, cp.Pos(), cp.CaptionStyle)
		r.captionOverlay(c, i, cp, len(b.Lines))
	}
	for i, l := range s.Links {
		b := r.LinkBlock(l.Text, l.Style)
		DrawLink(c, b, l.Pos(), l.Style, LinkStrokeWidth)
		r.linkOverlay(c, i, l, b)
	}
	if d := s.Draft; d != nil && d.Placed && d.Text != "" {
		b := r.LinkBlock(d.Text, d.Style)
		DrawLink(c, b, d.Pos(), d.Style, DraftLinkStrokeWidth)
		c.SetStrokeColor(draftBoxColor)
		c.SetLineWidth(2)
		c.SetDash(3, 3)
		c.StrokeRect(d.X-b.Width/2-draftBoxMargin, d.Y-b.Height()/2-draftBoxMargin, b.Width+2*draftBoxMargin, b.Height()+2*draftBoxMargin)
		c.SetDash()
	}
}

// Compose draws the exported image: the base and the captions, nothing else.
func (r *Renderer) Compose(c Canvas, base image.Image, captions []domain.Caption) {
	r.background(c, base)
	for _, cp := range captions {
		DrawCaption(c, r.CaptionBlock(cp), cp.Pos(), cp.CaptionStyle)
	}
}

// Rasterize composes captions over base on a fresh logical-size canvas.
func (r *Renderer) Rasterize(base image.Image, captions []domain.Caption) image.Image {
	c := NewGGCanvas(geom.LogicalW, geom.LogicalH)
	r.Compose(c, base, captions)
	return c.Image()
}

func (r *Renderer) background(c Canvas, base image.Image) {
	c.Clear(backgroundColor)
	if base != nil {
		b := base.Bounds()
		c.DrawImage(base, -b.Min.X, -b.Min.Y)
	}
}

// The caption box spans the full wrap width so the author sees where lines break.
func (r *Renderer) captionOverlay(c Canvas, i int, cp domain.Caption, lines int) {
	maxW := textlayout.CaptionMaxWidth
	textH := cp.FontSize * float64(lines)
	c.SetStrokeColor(captionBoxColor)
	c.SetLineWidth(1)
	c.SetDash(3, 3)
	c.StrokeRect(cp.X-maxW/2-captionBoxMargin, cp.Y-textH/2-captionBoxMargin, maxW+2*captionBoxMargin, textH+2*captionBoxMargin)
	c.SetDash()

	label := textlayout.MustPreset("CaptionLabel")
	face, _ := r.Text.Face(label.Font)
	c.SetFontFace(face)
	c.SetFillColor(captionLabelColor)
	c.FillText("Caption "+strconv.Itoa(i+1), cp.X, cp.Y-textH/2-labelOffset)
}

func (r *Renderer) linkOverlay(c Canvas, i int, l domain.LinkHotspot, b textlayout.Block) {
	box := ShapeBounds(l.Style.OutlineShape, b, l.Pos()).Inset(-linkBoxMargin, -linkBoxMargin)
	c.SetStrokeColor(linkBoxColor)
	c.SetLineWidth(1)
	c.SetDash(3, 3)
	c.StrokeRect(box.X, box.Y, box.W, box.H)
	c.SetDash()

	idx := textlayout.MustPreset("LinkIndex")
	face, _ := r.Text.Face(idx.Font)
	c.SetFontFace(face)
	c.SetFillColor(linkIndexColor)
	c.FillText(strconv.Itoa(i+1), l.X, l.Y-b.Height()/2-labelOffset)
}
