/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// FontLibrary stores parsed OpenType fonts keyed by family/weight/italic.
// Family lookups are case-insensitive.
type FontLibrary struct {
	fonts map[fontKey]*opentype.Font
}

type fontKey struct {
	family string
	weight int
	italic bool
}

func NewFontLibrary() *FontLibrary { return &FontLibrary{fonts: make(map[fontKey]*opentype.Font)} }

// LoadTTF loads a font file into the library under the given family/weight/italic.
func (fl *FontLibrary) LoadTTF(family string, weight int, italic bool, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", path, err)
	}
	fl.add(family, weight, italic, f)
	return nil
}

// LoadDir registers every .ttf/.otf file in dir under the family and style
// recorded in the font's own name table. It returns the families it found.
func (fl *FontLibrary) LoadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read font dir %s: %w", dir, err)
	}
	seen := map[string]bool{}
	var buf sfnt.Buffer
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".ttf" && ext != ".otf") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font %s: %w", path, err)
		}
		f, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", path, err)
		}
		family, err := f.Name(&buf, sfnt.NameIDFamily)
		if err != nil || strings.TrimSpace(family) == "" {
			family = strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		}
		sub, _ := f.Name(&buf, sfnt.NameIDSubfamily)
		weight, italic := styleFromSubfamily(sub)
		fl.add(family, weight, italic, f)
		seen[family] = true
	}
	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out, nil
}

func styleFromSubfamily(sub string) (weight int, italic bool) {
	s := strings.ToLower(sub)
	weight = 400
	switch {
	case strings.Contains(s, "black") || strings.Contains(s, "heavy"):
		weight = 900
	case strings.Contains(s, "extrabold"):
		weight = 800
	case strings.Contains(s, "bold"):
		weight = 700
	case strings.Contains(s, "light"):
		weight = 300
	}
	return weight, strings.Contains(s, "italic") || strings.Contains(s, "oblique")
}

func (fl *FontLibrary) add(family string, weight int, italic bool, f *opentype.Font) {
	if fl.fonts == nil {
		fl.fonts = make(map[fontKey]*opentype.Font)
	}
	fl.fonts[fontKey{family: normFamily(family), weight: normWeight(weight), italic: italic}] = f
}

// Has reports whether any style of family is loaded.
func (fl *FontLibrary) Has(family string) bool { return fl.find(family, 400, false) != nil }

func (fl *FontLibrary) find(family string, weight int, italic bool) *opentype.Font {
	if fl == nil || fl.fonts == nil {
		return nil
	}
	fam := normFamily(family)
	if f, ok := fl.fonts[fontKey{family: fam, weight: normWeight(weight), italic: italic}]; ok {
		return f
	}
	// nearest weight with the same slant, then anything in the family
	var best *opentype.Font
	bestDist := 1 << 30
	for k, f := range fl.fonts {
		if k.family != fam || k.italic != italic {
			continue
		}
		if d := abs(k.weight - normWeight(weight)); d < bestDist {
			best, bestDist = f, d
		}
	}
	if best != nil {
		return best
	}
	for k, f := range fl.fonts {
		if k.family == fam {
			return f
		}
	}
	return nil
}

func normFamily(s string) string { return strings.ToLower(strings.TrimSpace(strings.Trim(s, `"'`))) }

func normWeight(w int) int {
	if w <= 0 {
		return 400
	}
	return w
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Families splits a CSS font-family list into trimmed, unquoted names.
func Families(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		if f := strings.TrimSpace(strings.Trim(strings.TrimSpace(part), `"'`)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

type faceKey struct {
	font *opentype.Font
	size float64
}

// faceCache builds opentype faces once per font and size.
type faceCache struct {
	mu    sync.Mutex
	dpi   float64
	faces map[faceKey]font.Face
}

func (c *faceCache) face(f *opentype.Font, size float64) (font.Face, error) {
	if size <= 0 {
		size = 12
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	k := faceKey{font: f, size: size}
	if face, ok := c.faces[k]; ok {
		return face, nil
	}
	dpi := c.dpi
	if dpi <= 0 {
		dpi = 72 // 1pt == 1px
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: dpi, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	if c.faces == nil {
		c.faces = make(map[faceKey]font.Face)
	}
	c.faces[k] = face
	return face, nil
}

// OTProvider resolves FontSpec families against a FontLibrary, trying each
// family of the CSS list in order, and otherwise defers to Fallback.
type OTProvider struct {
	Lib      *FontLibrary
	Fallback Provider
	cache    faceCache
}

func NewOTProvider(lib *FontLibrary, fallback Provider) *OTProvider {
	return &OTProvider{Lib: lib, Fallback: fallback}
}

func (p *OTProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	for _, fam := range Families(spec.Family) {
		if f := p.Lib.find(fam, spec.Weight, spec.Italic); f != nil {
			if face, err := p.cache.face(f, spec.Size); err == nil {
				return face, metricsOf(face)
			}
		}
	}
	fb := p.Fallback
	if fb == nil {
		fb = BasicProvider{}
	}
	return fb.Resolve(spec)
}

// goFonts holds the parsed Go font family bundled with x/image.
var goFonts struct {
	once                                 sync.Once
	regular, bold, italic, mono, monoBld *opentype.Font
	err                                  error
}

func loadGoFonts() error {
	goFonts.once.Do(func() {
		parse := func(b []byte) *opentype.Font {
			f, err := opentype.Parse(b)
			if err != nil && goFonts.err == nil {
				goFonts.err = fmt.Errorf("parse go font: %w", err)
			}
			return f
		}
		goFonts.regular = parse(goregular.TTF)
		goFonts.bold = parse(gobold.TTF)
		goFonts.italic = parse(goitalic.TTF)
		goFonts.mono = parse(gomono.TTF)
		goFonts.monoBld = parse(gomonobold.TTF)
	})
	return goFonts.err
}

// GoFontProvider serves the bundled Go fonts for any family: generic
// "monospace" maps to Go Mono, everything else to Go Regular/Bold/Italic.
type GoFontProvider struct {
	cache faceCache
}

func NewGoFontProvider() *GoFontProvider { return &GoFontProvider{} }

func (p *GoFontProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	if err := loadGoFonts(); err != nil {
		return BasicProvider{}.Resolve(spec)
	}
	mono := false
	for _, fam := range Families(spec.Family) {
		if strings.EqualFold(fam, "monospace") || strings.EqualFold(fam, "go mono") {
			mono = true
			break
		}
	}
	bold := spec.Weight >= 600
	var f *opentype.Font
	switch {
	case mono && bold:
		f = goFonts.monoBld
	case mono:
		f = goFonts.mono
	case bold:
		f = goFonts.bold
	case spec.Italic:
		f = goFonts.italic
	default:
		f = goFonts.regular
	}
	face, err := p.cache.face(f, spec.Size)
	if err != nil {
		return BasicProvider{}.Resolve(spec)
	}
	return face, metricsOf(face)
}
