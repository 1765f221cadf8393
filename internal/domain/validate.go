/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/fredbi/uri"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	ErrEmptyText       = errors.New("text is empty")
	ErrInvalidURL      = errors.New("invalid url")
	ErrInvalidColor    = errors.New("invalid color")
	ErrInvalidFontSize = errors.New("font size must be positive")
	ErrNotFound        = errors.New("annotation not found")
)

// ValidateText rejects text that is empty after trimming whitespace.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	return nil
}

// ValidateURL accepts absolute URIs only. Web schemes also need a host.
func ValidateURL(raw string) error {
	s := strings.TrimSpace(raw)
	if s == "" {
		return fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	u, err := uri.Parse(s)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidURL, s, err)
	}
	switch strings.ToLower(u.Scheme()) {
	case "http", "https", "ftp", "ws", "wss":
		if u.Authority().Host() == "" {
			return fmt.Errorf("%w: %q has no host", ErrInvalidURL, s)
		}
	}
	return nil
}

// ParseColor parses a "#rgb" or "#rrggbb" color.
func ParseColor(s string) (color.RGBA, error) {
	c, err := colorful.Hex(strings.TrimSpace(s))
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// MustColor parses s and falls back to fb on error.
func MustColor(s string, fb color.RGBA) color.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		return fb
	}
	return c
}

func validateFontSize(v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidFontSize, v)
	}
	return nil
}

// Validate checks size and colors.
func (s CaptionStyle) Validate() error {
	if err := validateFontSize(s.FontSize); err != nil {
		return err
	}
	if _, err := ParseColor(s.Color); err != nil {
		return fmt.Errorf("color: %w", err)
	}
	if _, err := ParseColor(s.StrokeColor); err != nil {
		return fmt.Errorf("stroke color: %w", err)
	}
	return nil
}

// Validate checks size and colors. Unknown shapes are not an error; they render as none.
func (s LinkStyle) Validate() error {
	return CaptionStyle{FontSize: s.FontSize, Color: s.Color, StrokeColor: s.StrokeColor}.Validate()
}

// WithDefaults fills zero fields from d.
func (s CaptionStyle) WithDefaults(d CaptionStyle) CaptionStyle {
	if s.FontSize == 0 {
		s.FontSize = d.FontSize
	}
	if s.Color == "" {
		s.Color = d.Color
	}
	if s.StrokeColor == "" {
		s.StrokeColor = d.StrokeColor
	}
	if s.FontFamily == "" {
		s.FontFamily = d.FontFamily
	}
	return s
}

// WithDefaults fills zero fields from d.
func (s LinkStyle) WithDefaults(d LinkStyle) LinkStyle {
	if s.FontSize == 0 {
		s.FontSize = d.FontSize
	}
	if s.Color == "" {
		s.Color = d.Color
	}
	if s.StrokeColor == "" {
		s.StrokeColor = d.StrokeColor
	}
	if s.FontFamily == "" {
		s.FontFamily = d.FontFamily
	}
	if s.OutlineShape == "" {
		s.OutlineShape = d.OutlineShape
	}
	s.OutlineShape = s.OutlineShape.Normalize()
	return s
}
