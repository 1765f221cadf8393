/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

// Preset bundles a font with the wrapping parameters of one kind of text.
type Preset struct {
	Name string
	Font FontSpec
	// MaxWidth is the wrap width in logical px; LineGap is added to the font size per line.
	MaxWidth float64
	LineGap  float64
}

// Wrap parameters for annotations on the 800px wide logical canvas.
const (
	CaptionMaxWidth = 800 * 0.8
	CaptionLineGap  = 5
	LinkMaxWidth    = 800
	LinkLineGap     = 4
)

var builtinPresets = map[string]Preset{
	"Caption": {Name: "Caption", Font: FontSpec{Family: "Malgun Gothic, sans-serif", Size: 24}, MaxWidth: CaptionMaxWidth, LineGap: CaptionLineGap},
	"Link":    {Name: "Link", Font: FontSpec{Family: "Malgun Gothic, sans-serif", Size: 32}, MaxWidth: LinkMaxWidth, LineGap: LinkLineGap},
	// preview-only labels
	"CaptionLabel": {Name: "CaptionLabel", Font: FontSpec{Family: "Malgun Gothic, sans-serif", Size: 12}},
	"LinkIndex":    {Name: "LinkIndex", Font: FontSpec{Family: "Malgun Gothic, sans-serif", Size: 18, Weight: 700}},
}

// GetPreset returns a builtin preset by name.
func GetPreset(name string) (Preset, bool) { p, ok := builtinPresets[name]; return p, ok }

// MustPreset returns the named preset and panics for unknown names.
func MustPreset(name string) Preset {
	p, ok := builtinPresets[name]
	if !ok {
		panic("textlayout: unknown preset " + name)
	}
	return p
}

// ListPresets lists the builtin preset names in stable order.
func ListPresets() []string { return []string{"Caption", "Link", "CaptionLabel", "LinkIndex"} }

// WithFont returns p using the given family and size; zero values keep p's.
func (p Preset) WithFont(family string, size float64) Preset {
	if family != "" {
		p.Font.Family = family
	}
	if size > 0 {
		p.Font.Size = size
	}
	return p
}

// Wrap lays text out with the preset's parameters.
func (e *Engine) WrapPreset(text string, p Preset) Block {
	return e.Wrap(text, p.Font, p.MaxWidth, p.LineGap)
}
