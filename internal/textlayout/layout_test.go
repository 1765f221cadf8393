/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// basicfont advances 7px per glyph, which makes wrap points exact.
func basicEngine() *Engine { return NewEngine(BasicProvider{}) }

func TestWrapMonospaceBound(t *testing.T) {
	e := basicEngine()
	// "aaaa" is 28px; "aaaa aaaa" is 63px.
	b := e.Wrap("aaaa aaaa aaaa", FontSpec{Size: 13}, 70, 5)
	want := []string{"aaaa aaaa", "aaaa"}
	if diff := cmp.Diff(want, b.Lines); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
	for i, line := range b.Lines {
		if strings.Contains(line, " ") && b.Widths[i] >= 70 {
			t.Fatalf("multi-word line %q is %vpx, not narrower than 70", line, b.Widths[i])
		}
	}
	if b.Width != 63 || b.LineHeight != 18 {
		t.Fatalf("width=%v lineHeight=%v", b.Width, b.LineHeight)
	}
}

func TestWrapStrictlyLessThanMaxWidth(t *testing.T) {
	// "aaaa aaaa" is exactly 63px; at maxWidth 63 it must break.
	b := basicEngine().Wrap("aaaa aaaa", FontSpec{Size: 13}, 63, 0)
	if len(b.Lines) != 2 {
		t.Fatalf("expected a break at exact width, got %q", b.Lines)
	}
}

func TestWrapKeepsBlankParagraphs(t *testing.T) {
	b := basicEngine().Wrap("top\n\n  \nbottom", FontSpec{Size: 10}, 640, 5)
	want := []string{"top", "", "", "bottom"}
	if diff := cmp.Diff(want, b.Lines); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestWrapOverlongWordStaysWhole(t *testing.T) {
	b := basicEngine().Wrap("a supercalifragilistic b", FontSpec{Size: 10}, 30, 0)
	want := []string{"a", "supercalifragilistic", "b"}
	if diff := cmp.Diff(want, b.Lines); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
	if b.Width != 7*20 {
		t.Fatalf("block width = %v", b.Width)
	}
}

func TestBlockCenteredOnAnchor(t *testing.T) {
	b := basicEngine().Wrap("one\ntwo\nthree", FontSpec{Size: 24}, 640, 5)
	if got := b.LineY(0, 300); got != 300-29 {
		t.Fatalf("LineY(0) = %v", got)
	}
	if got := b.LineY(1, 300); got != 300 {
		t.Fatalf("LineY(1) = %v", got)
	}
	if got := b.LineY(2, 300); got != 329 {
		t.Fatalf("LineY(2) = %v", got)
	}
	if got := b.Height(); got != 3*24+2*5 {
		t.Fatalf("Height = %v", got)
	}
	single := basicEngine().Wrap("x", FontSpec{Size: 32}, 800, 4)
	if single.Height() != 32 || single.LineY(0, 100) != 100 {
		t.Fatalf("single line block: h=%v y=%v", single.Height(), single.LineY(0, 100))
	}
}

func TestMeasureLineMatchesWrapWidth(t *testing.T) {
	e := basicEngine()
	spec := FontSpec{Size: 12}
	if got := e.MeasureLine("ABC", spec); got != 21 {
		t.Fatalf("MeasureLine = %v", got)
	}
	b := e.Wrap("ABC", spec, 800, 4)
	if b.Width != e.MeasureLine("ABC", spec) {
		t.Fatalf("wrap width %v != measure", b.Width)
	}
}

func TestGoFontProviderScalesWithSize(t *testing.T) {
	e := NewEngine(NewGoFontProvider())
	small := e.MeasureLine("Hello", FontSpec{Family: "Malgun Gothic, sans-serif", Size: 12})
	large := e.MeasureLine("Hello", FontSpec{Family: "Malgun Gothic, sans-serif", Size: 48})
	if !(small > 0) || !(large > 3*small) {
		t.Fatalf("expected width to scale with size: small=%v large=%v", small, large)
	}
	mono := e.MeasureLine("iiii", FontSpec{Family: "monospace", Size: 20})
	monoW := e.MeasureLine("WWWW", FontSpec{Family: "monospace", Size: 20})
	if mono != monoW {
		t.Fatalf("monospace family should be fixed pitch: %v vs %v", mono, monoW)
	}
}

func TestFamiliesParsesCSSList(t *testing.T) {
	got := Families(` "Nanum Gothic" , serif,, 'Noto Sans KR' `)
	want := []string{"Nanum Gothic", "serif", "Noto Sans KR"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Families mismatch (-want +got):\n%s", diff)
	}
}

func TestOTProviderFallsBack(t *testing.T) {
	p := NewOTProvider(NewFontLibrary(), BasicProvider{})
	face, _ := p.Resolve(FontSpec{Family: "Does Not Exist", Size: 20})
	if face == nil {
		t.Fatalf("expected fallback face")
	}
	if NewFontLibrary().Has("anything") {
		t.Fatalf("empty library reports a family")
	}
}

func TestPresets(t *testing.T) {
	for _, name := range ListPresets() {
		if _, ok := GetPreset(name); !ok {
			t.Fatalf("preset %q listed but missing", name)
		}
	}
	c := MustPreset("Caption").WithFont("monospace", 30)
	if c.MaxWidth != 640 || c.LineGap != 5 || c.Font.Family != "monospace" || c.Font.Size != 30 {
		t.Fatalf("caption preset = %+v", c)
	}
	l := MustPreset("Link").WithFont("", 0)
	if l.MaxWidth != 800 || l.LineGap != 4 || l.Font.Size != 32 {
		t.Fatalf("link preset = %+v", l)
	}
}
