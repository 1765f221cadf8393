/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the annotation data model. Positions are centers of the
// annotation in logical canvas units (see geom.LogicalW/LogicalH) and
// serialize as camelCase JSON so stored link descriptors stay readable.

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"imgannot/internal/geom"
)

// OutlineShape selects the background drawn behind a link label.
type OutlineShape string

const (
	OutlineRectangle OutlineShape = "rectangle"
	OutlineCircle    OutlineShape = "circle"
	OutlineDiamond   OutlineShape = "diamond"
	OutlineNone      OutlineShape = "none"
)

// OutlineShapes lists every supported shape in menu order.
var OutlineShapes = []OutlineShape{OutlineRectangle, OutlineCircle, OutlineDiamond, OutlineNone}

// ParseOutlineShape maps s onto a known shape; anything unrecognized becomes OutlineNone.
func ParseOutlineShape(s string) OutlineShape {
	switch OutlineShape(strings.ToLower(strings.TrimSpace(s))) {
	case OutlineRectangle:
		return OutlineRectangle
	case OutlineCircle:
		return OutlineCircle
	case OutlineDiamond:
		return OutlineDiamond
	default:
		return OutlineNone
	}
}

// Normalize returns the shape itself when known, otherwise OutlineNone.
func (s OutlineShape) Normalize() OutlineShape { return ParseOutlineShape(string(s)) }

func (s *OutlineShape) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = ParseOutlineShape(raw)
	return nil
}

// CaptionStyle is the text styling of a caption.
type CaptionStyle struct {
	FontSize    float64 `json:"fontSize"`
	Color       string  `json:"color"`
	StrokeColor string  `json:"strokeColor"`
	FontFamily  string  `json:"fontFamily"`
}

// Caption is text burned into the exported image.
type Caption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	CaptionStyle
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (c Caption) Pos() geom.Pt { return geom.Pt{X: c.X, Y: c.Y} }

// LinkStyle is the styling of a link label.
type LinkStyle struct {
	FontSize     float64      `json:"fontSize"`
	Color        string       `json:"color"`
	StrokeColor  string       `json:"strokeColor"`
	FontFamily   string       `json:"fontFamily"`
	OutlineShape OutlineShape `json:"outlineShape"`
}

// LinkHotspot is a clickable label. It is only shown in the editing preview;
// the export carries it as metadata and consumers re-overlay it at display size.
type LinkHotspot struct {
	ID    string    `json:"id"`
	URL   string    `json:"url"`
	Text  string    `json:"text"`
	Style LinkStyle `json:"style"`
	X     float64   `json:"x"`
	Y     float64   `json:"y"`
	// Width and Height are the measured label block in logical units.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (l LinkHotspot) Pos() geom.Pt { return geom.Pt{X: l.X, Y: l.Y} }

// Rect is the label block in logical units.
func (l LinkHotspot) Rect() geom.Rect { return geom.CenteredRect(l.Pos(), l.Width, l.Height) }

// ScreenRect is the label block on a display described by n.
func (l LinkHotspot) ScreenRect(n geom.Normalizer) geom.Rect { return n.RectToScreen(l.Rect()) }

// DraftLink is the link being composed. It is previewed once placed but never
// exported until committed.
type DraftLink struct {
	Text   string    `json:"text"`
	URL    string    `json:"url"`
	Style  LinkStyle `json:"style"`
	Placed bool      `json:"placed"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
}

func (d DraftLink) Pos() geom.Pt { return geom.Pt{X: d.X, Y: d.Y} }

// Kind tells captions and links apart where both can appear.
type Kind int

const (
	KindCaption Kind = iota + 1
	KindLink
)

func (k Kind) String() string {
	switch k {
	case KindCaption:
		return "caption"
	case KindLink:
		return "link"
	default:
		return "unknown"
	}
}

// NewID returns a fresh identifier such as "caption_1f0c…".
func NewID(k Kind) string { return k.String() + "_" + uuid.NewString() }

// Defaults as shipped by the editor.
const (
	DefaultFontFamily = "Malgun Gothic, sans-serif"
	CaptionFontSize   = 24
	LinkFontSize      = 32
)

// DefaultCaptionStyle is white text with a black outline.
func DefaultCaptionStyle() CaptionStyle {
	return CaptionStyle{FontSize: CaptionFontSize, Color: "#ffffff", StrokeColor: "#000000", FontFamily: DefaultFontFamily}
}

// DefaultLinkStyle is white text on a blue rectangle.
func DefaultLinkStyle() LinkStyle {
	return LinkStyle{FontSize: LinkFontSize, Color: "#ffffff", StrokeColor: "#0066cc", FontFamily: DefaultFontFamily, OutlineShape: OutlineRectangle}
}

// FontFamilies are the families offered by the editor, CSS style with a generic fallback.
var FontFamilies = []string{
	"Malgun Gothic, sans-serif",
	"Dotum, sans-serif",
	"Gulim, sans-serif",
	"Batang, serif",
	"Gungsuh, serif",
	"Nanum Gothic, sans-serif",
	"Nanum Myeongjo, serif",
	"Nanum Pen Script, cursive",
	"Noto Sans KR, sans-serif",
	"Noto Serif KR, serif",
	"Arial, sans-serif",
	"Helvetica, sans-serif",
	"monospace",
}
