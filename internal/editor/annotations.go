/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"fmt"
	"log/slog"
	"strings"

	"imgannot/internal/domain"
	"imgannot/internal/geom"
)

// Captions returns a copy of the captions in paint order.
func (s *Session) Captions() []domain.Caption { return append([]domain.Caption(nil), s.captions...) }

// Links returns a copy of the committed links in paint order.
func (s *Session) Links() []domain.LinkHotspot { return append([]domain.LinkHotspot(nil), s.links...) }

// Caption looks up a caption by id.
func (s *Session) Caption(id string) (domain.Caption, bool) {
	if i := s.captionIndex(id); i >= 0 {
		return s.captions[i], true
	}
	return domain.Caption{}, false
}

// Link looks up a link by id.
func (s *Session) Link(id string) (domain.LinkHotspot, bool) {
	if i := s.linkIndex(id); i >= 0 {
		return s.links[i], true
	}
	return domain.LinkHotspot{}, false
}

func (s *Session) center(at *geom.Pt) geom.Pt {
	if at == nil {
		return geom.LogicalCenter
	}
	return geom.Clamp(*at)
}

// AddCaption appends a caption. Zero style fields take the session defaults;
// a nil position centers it on the canvas.
func (s *Session) AddCaption(text string, style domain.CaptionStyle, at *geom.Pt) (domain.Caption, error) {
	if err := domain.ValidateText(text); err != nil {
		s.log.Debug("caption rejected", slog.Any("err", err))
		return domain.Caption{}, fmt.Errorf("add caption: %w", err)
	}
	st := style.WithDefaults(s.defaults.Caption)
	if err := st.Validate(); err != nil {
		return domain.Caption{}, fmt.Errorf("add caption: %w", err)
	}
	p := s.center(at)
	c := domain.Caption{ID: s.newID(domain.KindCaption), Text: text, CaptionStyle: st, X: p.X, Y: p.Y}
	s.captions = append(s.captions, c)
	s.log.Debug("caption added", slog.String("id", c.ID), slog.Int("count", len(s.captions)))
	s.changed()
	return c, nil
}

// SetCaptionText replaces the text of a caption.
func (s *Session) SetCaptionText(id, text string) error {
	i := s.captionIndex(id)
	if i < 0 {
		return fmt.Errorf("caption %s: %w", id, domain.ErrNotFound)
	}
	if err := domain.ValidateText(text); err != nil {
		return fmt.Errorf("caption %s: %w", id, err)
	}
	s.captions[i].Text = text
	s.changed()
	return nil
}

// SetCaptionStyle replaces the style of a caption.
func (s *Session) SetCaptionStyle(id string, style domain.CaptionStyle) error {
	i := s.captionIndex(id)
	if i < 0 {
		return fmt.Errorf("caption %s: %w", id, domain.ErrNotFound)
	}
	st := style.WithDefaults(s.defaults.Caption)
	if err := st.Validate(); err != nil {
		return fmt.Errorf("caption %s: %w", id, err)
	}
	s.captions[i].CaptionStyle = st
	s.changed()
	return nil
}

// MoveCaption sets a caption's logical position, clamped to the canvas.
func (s *Session) MoveCaption(id string, at geom.Pt) error {
	if !s.moveTo(domain.KindCaption, id, geom.Clamp(at)) {
		return fmt.Errorf("caption %s: %w", id, domain.ErrNotFound)
	}
	s.changed()
	return nil
}

// RemoveCaption deletes a caption. Removing the drag target ends the drag.
func (s *Session) RemoveCaption(id string) error {
	i := s.captionIndex(id)
	if i < 0 {
		return fmt.Errorf("caption %s: %w", id, domain.ErrNotFound)
	}
	s.captions = append(s.captions[:i], s.captions[i+1:]...)
	s.dropDragOn(id)
	s.changed()
	return nil
}

// Draft returns the link being composed.
func (s *Session) Draft() domain.DraftLink { return s.draft }

// SetDraft updates the draft text and URL. Clearing the text unplaces it.
func (s *Session) SetDraft(text, url string) {
	s.draft.Text = text
	s.draft.URL = url
	if text == "" {
		s.draft.Placed = false
	}
	s.changed()
}

// SetDraftStyle sets the style the draft previews with and commits with.
func (s *Session) SetDraftStyle(style domain.LinkStyle) error {
	st := style.WithDefaults(s.defaults.Link)
	if err := st.Validate(); err != nil {
		return fmt.Errorf("draft style: %w", err)
	}
	s.draft.Style = st
	s.changed()
	return nil
}

// PlaceDraft positions the draft at a logical point.
func (s *Session) PlaceDraft(at geom.Pt) {
	p := geom.Clamp(at)
	s.draft.Placed = true
	s.draft.X, s.draft.Y = p.X, p.Y
	s.changed()
}

// ClearDraft empties the draft and keeps its style.
func (s *Session) ClearDraft() {
	s.draft = domain.DraftLink{Style: s.draft.Style}
	s.changed()
}

// CommitDraft turns the draft into a link at the draft's placed position
// (canvas center when never placed) and clears it. On a validation error the
// draft is kept so the author can fix it.
func (s *Session) CommitDraft() (domain.LinkHotspot, error) {
	var at *geom.Pt
	if s.draft.Placed {
		p := s.draft.Pos()
		at = &p
	}
	l, err := s.AddLink(s.draft.Text, s.draft.URL, s.draft.Style, at)
	if err != nil {
		return domain.LinkHotspot{}, err
	}
	s.draft = domain.DraftLink{Style: s.draft.Style}
	s.changed()
	return l, nil
}

// AddLink appends a link with a measured label block.
func (s *Session) AddLink(text, url string, style domain.LinkStyle, at *geom.Pt) (domain.LinkHotspot, error) {
	if err := domain.ValidateText(text); err != nil {
		s.log.Debug("link rejected", slog.Any("err", err))
		return domain.LinkHotspot{}, fmt.Errorf("add link: %w", err)
	}
	if err := domain.ValidateURL(url); err != nil {
		s.log.Debug("link rejected", slog.Any("err", err))
		return domain.LinkHotspot{}, fmt.Errorf("add link: %w", err)
	}
	st := style.WithDefaults(s.defaults.Link)
	if err := st.Validate(); err != nil {
		return domain.LinkHotspot{}, fmt.Errorf("add link: %w", err)
	}
	p := s.center(at)
	l := domain.LinkHotspot{ID: s.newID(domain.KindLink), URL: strings.TrimSpace(url), Text: text, Style: st, X: p.X, Y: p.Y}
	s.measureLink(&l)
	s.links = append(s.links, l)
	s.log.Debug("link added", slog.String("id", l.ID), slog.String("url", l.URL), slog.Int("count", len(s.links)))
	s.changed()
	return l, nil
}

// SetLinkText replaces a link's label and re-measures it.
func (s *Session) SetLinkText(id, text string) error {
	i := s.linkIndex(id)
	if i < 0 {
		return fmt.Errorf("link %s: %w", id, domain.ErrNotFound)
	}
	if err := domain.ValidateText(text); err != nil {
		return fmt.Errorf("link %s: %w", id, err)
	}
	s.links[i].Text = text
	s.measureLink(&s.links[i])
	s.changed()
	return nil
}

// SetLinkURL replaces a link's target.
func (s *Session) SetLinkURL(id, url string) error {
	i := s.linkIndex(id)
	if i < 0 {
		return fmt.Errorf("link %s: %w", id, domain.ErrNotFound)
	}
	if err := domain.ValidateURL(url); err != nil {
		return fmt.Errorf("link %s: %w", id, err)
	}
	s.links[i].URL = strings.TrimSpace(url)
	s.changed()
	return nil
}

// SetLinkStyle replaces a link's style and re-measures it.
func (s *Session) SetLinkStyle(id string, style domain.LinkStyle) error {
	i := s.linkIndex(id)
	if i < 0 {
		return fmt.Errorf("link %s: %w", id, domain.ErrNotFound)
	}
	st := style.WithDefaults(s.defaults.Link)
	if err := st.Validate(); err != nil {
		return fmt.Errorf("link %s: %w", id, err)
	}
	s.links[i].Style = st
	s.measureLink(&s.links[i])
	s.changed()
	return nil
}

// MoveLink sets a link's logical position, clamped to the canvas.
func (s *Session) MoveLink(id string, at geom.Pt) error {
	if !s.moveTo(domain.KindLink, id, geom.Clamp(at)) {
		return fmt.Errorf("link %s: %w", id, domain.ErrNotFound)
	}
	s.changed()
	return nil
}

// RemoveLink deletes a link. Removing the drag target ends the drag.
func (s *Session) RemoveLink(id string) error {
	i := s.linkIndex(id)
	if i < 0 {
		return fmt.Errorf("link %s: %w", id, domain.ErrNotFound)
	}
	s.links = append(s.links[:i], s.links[i+1:]...)
	s.dropDragOn(id)
	s.changed()
	return nil
}

func (s *Session) measureLink(l *domain.LinkHotspot) {
	b := s.renderer.LinkBlock(l.Text, l.Style)
	l.Width, l.Height = b.Width, b.Height()
}

func (s *Session) dropDragOn(id string) {
	if s.drag != nil && s.drag.TargetID == id {
		s.drag = nil
	}
}

func (s *Session) captionIndex(id string) int {
	for i := range s.captions {
		if s.captions[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) linkIndex(id string) int {
	for i := range s.links {
		if s.links[i].ID == id {
			return i
		}
	}
	return -1
}
