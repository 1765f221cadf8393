/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"fmt"
	"strconv"
	"strings"

	"imgannot/internal/domain"
	"imgannot/internal/editor"
)

// Row is one entry of the annotation list in the editor side panel.
type Row struct {
	Kind  domain.Kind
	ID    string
	Label string
}

// Rows lists captions then links, numbered the way the preview labels them.
func Rows(s *editor.Session) []Row {
	var out []Row
	for i, c := range s.Captions() {
		out = append(out, Row{Kind: domain.KindCaption, ID: c.ID, Label: fmt.Sprintf("Caption %d: %s", i+1, firstLine(c.Text))})
	}
	for i, l := range s.Links() {
		out = append(out, Row{Kind: domain.KindLink, ID: l.ID, Label: fmt.Sprintf("%d. %s -> %s", i+1, firstLine(l.Text), l.URL)})
	}
	return out
}

// Remove deletes the row's annotation from s.
func (r Row) Remove(s *editor.Session) error {
	if r.Kind == domain.KindLink {
		return s.RemoveLink(r.ID)
	}
	return s.RemoveCaption(r.ID)
}

func firstLine(s string) string {
	line, _, cut := strings.Cut(s, "\n")
	if cut {
		return line + " ..."
	}
	return line
}

// captionStyle parses the style form fields. An empty size keeps the default.
func captionStyle(size, fill, stroke, family string) (domain.CaptionStyle, error) {
	st := domain.CaptionStyle{Color: strings.TrimSpace(fill), StrokeColor: strings.TrimSpace(stroke), FontFamily: strings.TrimSpace(family)}
	if v := strings.TrimSpace(size); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return st, fmt.Errorf("font size %q: %w", v, domain.ErrInvalidFontSize)
		}
		st.FontSize = f
	}
	return st, st.WithDefaults(domain.DefaultCaptionStyle()).Validate()
}
