/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"

	"imgannot/internal/domain"
	"imgannot/internal/geom"
	"imgannot/internal/textlayout"
)

func basicRenderer() *Renderer { return NewRenderer(textlayout.NewEngine(textlayout.BasicProvider{})) }

func linkWith(shape domain.OutlineShape, text string) domain.LinkHotspot {
	st := domain.DefaultLinkStyle()
	st.OutlineShape = shape
	return domain.LinkHotspot{ID: "link_1", URL: "https://example.com", Text: text, Style: st, X: 400, Y: 300}
}

func TestOutlineShapesDispatch(t *testing.T) {
	r := basicRenderer()
	type counts struct{ fillRect, fillCircle, rotate, strokeText, fillText int }
	cases := []struct {
		shape domain.OutlineShape
		want  counts
	}{
		{domain.OutlineRectangle, counts{fillRect: 1, fillText: 1}},
		{domain.OutlineCircle, counts{fillCircle: 1, fillText: 1}},
		{domain.OutlineDiamond, counts{fillRect: 1, rotate: 1, fillText: 1}},
		{domain.OutlineNone, counts{strokeText: 1, fillText: 1}},
		{domain.OutlineShape("star"), counts{strokeText: 1, fillText: 1}},
	}
	for _, c := range cases {
		rec := &recorder{}
		l := linkWith(c.shape, "Go")
		DrawLink(rec, r.LinkBlock(l.Text, l.Style), l.Pos(), l.Style, LinkStrokeWidth)
		got := counts{rec.count("FillRect"), rec.count("FillCircle"), rec.count("Rotate"), rec.count("StrokeText"), rec.count("FillText")}
		if got != c.want {
			t.Fatalf("shape %q: got %+v want %+v", c.shape, got, c.want)
		}
	}
}

func TestRectangleGeometry(t *testing.T) {
	r := basicRenderer()
	rec := &recorder{}
	l := linkWith(domain.OutlineRectangle, "abcd") // 28px wide with basicfont
	b := r.LinkBlock(l.Text, l.Style)
	DrawLink(rec, b, l.Pos(), l.Style, LinkStrokeWidth)
	fr, err := rec.first("FillRect")
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{400 - 14 - 8, 300 - 16 - 8, 28 + 16, 32 + 16}
	for i := range want {
		if fr.args[i] != want[i] {
			t.Fatalf("FillRect args = %v want %v", fr.args, want)
		}
	}
	if fr.col != (color.RGBA{G: 0x66, B: 0xcc, A: 0xff}) {
		t.Fatalf("background should use the stroke color, got %v", fr.col)
	}
}

func TestCircleAndDiamondSizes(t *testing.T) {
	r := basicRenderer()
	l := linkWith(domain.OutlineCircle, "abcdefgh") // 56px wide, 32 high
	b := r.LinkBlock(l.Text, l.Style)
	rec := &recorder{}
	DrawLink(rec, b, l.Pos(), l.Style, LinkStrokeWidth)
	fc, _ := rec.first("FillCircle")
	if fc.args[2] != 56.0/2+8 {
		t.Fatalf("circle radius = %v", fc.args[2])
	}

	l.Style.OutlineShape = domain.OutlineDiamond
	rec = &recorder{}
	DrawLink(rec, b, l.Pos(), l.Style, LinkStrokeWidth)
	ops := []string{}
	for _, c := range rec.calls {
		switch c.op {
		case "Push", "Translate", "Rotate", "FillRect", "Pop":
			ops = append(ops, c.op)
		}
	}
	if len(ops) != 5 || ops[0] != "Push" || ops[1] != "Translate" || ops[2] != "Rotate" || ops[3] != "FillRect" || ops[4] != "Pop" {
		t.Fatalf("diamond op order = %v", ops)
	}
	rot, _ := rec.first("Rotate")
	if rot.args[0] != math.Pi/4 {
		t.Fatalf("rotation = %v", rot.args[0])
	}
	fr, _ := rec.first("FillRect")
	if fr.args[0] != -36 || fr.args[2] != 72 {
		t.Fatalf("diamond square = %v", fr.args)
	}
	bounds := ShapeBounds(domain.OutlineDiamond, b, l.Pos())
	if math.Abs(bounds.W-72*math.Sqrt2) > 1e-9 {
		t.Fatalf("diamond bounds = %+v", bounds)
	}
}

func TestCaptionNeverHasBackground(t *testing.T) {
	r := basicRenderer()
	rec := &recorder{}
	cp := domain.Caption{ID: "caption_1", Text: "line one\nline two", CaptionStyle: domain.DefaultCaptionStyle(), X: 400, Y: 300}
	DrawCaption(rec, r.CaptionBlock(cp), cp.Pos(), cp.CaptionStyle)
	if rec.count("FillRect")+rec.count("FillCircle") != 0 {
		t.Fatalf("caption drew a background")
	}
	if rec.count("StrokeText") != 2 || rec.count("FillText") != 2 {
		t.Fatalf("caption text calls stroke=%d fill=%d", rec.count("StrokeText"), rec.count("FillText"))
	}
	lw, _ := rec.first("SetLineWidth")
	if lw.args[0] != CaptionStrokeWidth {
		t.Fatalf("caption stroke width = %v", lw.args[0])
	}
}

func TestPreviewDrawsOverlays(t *testing.T) {
	r := basicRenderer()
	rec := &recorder{}
	draft := &domain.DraftLink{Text: "draft", URL: "https://example.com", Style: domain.DefaultLinkStyle(), Placed: true, X: 100, Y: 100}
	s := Scene{
		Captions: []domain.Caption{{ID: "caption_1", Text: "hello", CaptionStyle: domain.DefaultCaptionStyle(), X: 400, Y: 300}},
		Links:    []domain.LinkHotspot{linkWith(domain.OutlineRectangle, "a"), linkWith(domain.OutlineNone, "b")},
		Draft:    draft,
	}
	r.Preview(rec, s)
	if got := rec.count("StrokeRect"); got != 4 {
		t.Fatalf("expected 4 debug boxes (1 caption, 2 links, 1 draft), got %d", got)
	}
	labels := rec.texts("FillText")
	want := map[string]bool{"Caption 1": false, "1": false, "2": false}
	for _, l := range labels {
		if _, ok := want[l]; ok {
			want[l] = true
		}
	}
	for l, seen := range want {
		if !seen {
			t.Fatalf("label %q missing from %v", l, labels)
		}
	}
	box, _ := rec.first("StrokeRect")
	// caption box spans the full 640px wrap width plus margins.
	if box.args[0] != 400-320-10 || box.args[2] != 660 || box.args[1] != 300-12-10 || box.args[3] != 24+20 {
		t.Fatalf("caption box = %v", box.args)
	}

	draft.Placed = false
	rec2 := &recorder{}
	r.Preview(rec2, s)
	if got := rec2.count("StrokeRect"); got != 3 {
		t.Fatalf("unplaced draft should not be drawn; boxes=%d", got)
	}
}

func TestComposeHasNoLinksOrOverlays(t *testing.T) {
	r := basicRenderer()
	rec := &recorder{}
	caps := []domain.Caption{{ID: "caption_1", Text: "burn me", CaptionStyle: domain.DefaultCaptionStyle(), X: 400, Y: 300}}
	r.Compose(rec, nil, caps)
	if n := rec.count("StrokeRect") + rec.count("FillRect") + rec.count("FillCircle"); n != 0 {
		t.Fatalf("compose drew %d overlay/shape calls", n)
	}
	if got := rec.texts("FillText"); len(got) != 1 || got[0] != "burn me" {
		t.Fatalf("compose text = %v", got)
	}
}

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

func TestPreviewIsIdempotent(t *testing.T) {
	r := NewRenderer(textlayout.NewEngine(textlayout.NewGoFontProvider()))
	base := ToLogical(solid(320, 200, color.RGBA{R: 30, G: 120, B: 60, A: 255}))
	s := Scene{
		Base:     base,
		Captions: []domain.Caption{{ID: "caption_1", Text: "Hello captions", CaptionStyle: domain.DefaultCaptionStyle(), X: 400, Y: 300}},
		Links:    []domain.LinkHotspot{linkWith(domain.OutlineDiamond, "Shop"), linkWith(domain.OutlineNone, "Docs")},
	}
	a := NewGGCanvas(geom.LogicalW, geom.LogicalH)
	r.Preview(a, s)
	r.Preview(a, s) // drawing twice onto the same canvas must not accumulate
	b := NewGGCanvas(geom.LogicalW, geom.LogicalH)
	r.Preview(b, s)
	pa := a.Image().(*image.RGBA).Pix
	pb := b.Image().(*image.RGBA).Pix
	if !bytes.Equal(pa, pb) {
		t.Fatalf("preview output differs between identical renders")
	}
}

func TestRasterizeOnlyTouchesCaptionArea(t *testing.T) {
	r := NewRenderer(textlayout.NewEngine(textlayout.NewGoFontProvider()))
	bg := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	base := ToLogical(solid(100, 100, bg))
	img := r.Rasterize(base, []domain.Caption{{ID: "caption_1", Text: "X", CaptionStyle: domain.DefaultCaptionStyle(), X: 400, Y: 300}})
	if b := img.Bounds(); b.Dx() != geom.LogicalW || b.Dy() != geom.LogicalH {
		t.Fatalf("rasterized size = %v", b)
	}
	if got := img.At(10, 10); !closeColor(got, bg) {
		t.Fatalf("corner pixel = %v, want base color", got)
	}
	changed := false
	for y := 285; y < 315 && !changed; y++ {
		for x := 385; x < 415; x++ {
			if !closeColor(img.At(x, y), bg) {
				changed = true
				break
			}
		}
	}
	if !changed {
		t.Fatalf("caption glyphs not burned in around the anchor")
	}
}

func TestToLogicalStretches(t *testing.T) {
	src := solid(1920, 1080, color.RGBA{R: 200, A: 255})
	dst := ToLogical(src)
	if dst.Bounds() != image.Rect(0, 0, 800, 600) {
		t.Fatalf("bounds = %v", dst.Bounds())
	}
	if got := dst.RGBAAt(400, 300); !closeColor(got, color.RGBA{R: 200, A: 255}) {
		t.Fatalf("center pixel = %v", got)
	}
}

// closeColor allows for filter rounding of a couple of levels per channel.
func closeColor(a, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	d := func(x, y uint32) bool { return math.Abs(float64(x>>8)-float64(y>>8)) <= 2 }
	return d(ar, br) && d(ag, bg) && d(ab, bb) && d(aa, ba)
}
