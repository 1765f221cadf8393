/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package document reads and writes annotation documents: the JSON form of a
// session's captions, links and draft. Documents are checked against an
// embedded JSON schema and then applied through the session operations, so
// style defaults, validation and clamping are the same as interactive edits.
package document

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"imgannot/internal/domain"
	"imgannot/internal/editor"
	"imgannot/internal/geom"
)

//go:embed schema.json
var schemaJSON []byte

// Version is written into new documents.
const Version = 1

var ErrInvalid = errors.New("invalid annotation document")

// Document is the serialized annotation set.
type Document struct {
	Version  int       `json:"version,omitempty"`
	Captions []Caption `json:"captions,omitempty"`
	Links    []Link    `json:"links,omitempty"`
	Draft    *Draft    `json:"draft,omitempty"`
}

// Caption omits x/y to mean the canvas center.
type Caption struct {
	ID    string               `json:"id,omitempty"`
	Text  string               `json:"text"`
	X     *float64             `json:"x,omitempty"`
	Y     *float64             `json:"y,omitempty"`
	Style *domain.CaptionStyle `json:"style,omitempty"`
}

type Link struct {
	ID    string            `json:"id,omitempty"`
	Text  string            `json:"text"`
	URL   string            `json:"url"`
	X     *float64          `json:"x,omitempty"`
	Y     *float64          `json:"y,omitempty"`
	Style *domain.LinkStyle `json:"style,omitempty"`
}

// Draft carries a position only when placed.
type Draft struct {
	Text  string            `json:"text,omitempty"`
	URL   string            `json:"url,omitempty"`
	X     *float64          `json:"x,omitempty"`
	Y     *float64          `json:"y,omitempty"`
	Style *domain.LinkStyle `json:"style,omitempty"`
}

// Schema returns the embedded JSON schema.
func Schema() []byte { return append([]byte(nil), schemaJSON...) }

// Validate checks raw JSON against the schema and reports every violation.
func Validate(data []byte) error {
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// Parse validates and decodes a document.
func Parse(data []byte) (Document, error) {
	if err := Validate(data); err != nil {
		return Document{}, err
	}
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return d, nil
}

// Marshal encodes d as indented JSON.
func Marshal(d Document) ([]byte, error) {
	if d.Version == 0 {
		d.Version = Version
	}
	return json.MarshalIndent(d, "", "  ")
}

func point(x, y *float64) *geom.Pt {
	if x == nil && y == nil {
		return nil
	}
	p := geom.LogicalCenter
	if x != nil {
		p.X = *x
	}
	if y != nil {
		p.Y = *y
	}
	return &p
}

// Apply adds every annotation of d to s in document order. It stops at the
// first rejected entry and reports its position; earlier entries stay applied.
func Apply(s *editor.Session, d Document) error {
	for i, c := range d.Captions {
		if _, err := s.AddCaption(c.Text, deref(c.Style), point(c.X, c.Y)); err != nil {
			return fmt.Errorf("captions[%d]: %w", i, err)
		}
	}
	for i, l := range d.Links {
		if _, err := s.AddLink(l.Text, l.URL, deref(l.Style), point(l.X, l.Y)); err != nil {
			return fmt.Errorf("links[%d]: %w", i, err)
		}
	}
	if dr := d.Draft; dr != nil {
		if err := s.SetDraftStyle(deref(dr.Style)); err != nil {
			return fmt.Errorf("draft: %w", err)
		}
		s.SetDraft(dr.Text, dr.URL)
		if p := point(dr.X, dr.Y); p != nil && dr.Text != "" {
			s.PlaceDraft(*p)
		}
	}
	return nil
}

func ptr[T any](v T) *T { return &v }

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// FromSession snapshots a session's annotations and draft.
func FromSession(s *editor.Session) Document {
	d := fromAnnotations(s.Captions(), s.Links())
	if dr := s.Draft(); dr.Text != "" || dr.URL != "" {
		out := &Draft{Text: dr.Text, URL: dr.URL, Style: ptr(dr.Style)}
		if dr.Placed {
			out.X, out.Y = ptr(dr.X), ptr(dr.Y)
		}
		d.Draft = out
	}
	return d
}

// FromResult turns a confirmed result back into a document, for re-editing.
func FromResult(res domain.Result) Document { return fromAnnotations(res.Captions, res.Links) }

func fromAnnotations(captions []domain.Caption, links []domain.LinkHotspot) Document {
	d := Document{Version: Version}
	for _, c := range captions {
		d.Captions = append(d.Captions, Caption{ID: c.ID, Text: c.Text, X: ptr(c.X), Y: ptr(c.Y), Style: ptr(c.CaptionStyle)})
	}
	for _, l := range links {
		d.Links = append(d.Links, Link{ID: l.ID, Text: l.Text, URL: l.URL, X: ptr(l.X), Y: ptr(l.Y), Style: ptr(l.Style)})
	}
	return d
}
