/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"log/slog"

	"imgannot/internal/domain"
	"imgannot/internal/geom"
)

// DragSession is an in-progress drag. A nil *DragSession means idle.
type DragSession struct {
	TargetID string
	Kind     domain.Kind
	// Offset is the pointer minus the target's screen anchor at grab time.
	Offset geom.Pt
}

// PointerDown starts a drag on the topmost annotation under p. With nothing
// hit and a non-empty draft, the draft is placed at p instead. display is the
// size the preview currently occupies on screen.
func (s *Session) PointerDown(p geom.Pt, display geom.Size) *Hit {
	n, err := geom.NewNormalizer(display)
	if err != nil {
		s.log.Debug("pointer down ignored", slog.Any("err", err))
		return nil
	}
	if h := s.hitTest(n, p); h != nil {
		s.drag = &DragSession{TargetID: h.ID, Kind: h.Kind, Offset: h.Offset}
		s.log.Debug("drag started", slog.String("target", h.ID), slog.String("kind", h.Kind.String()))
		return h
	}
	if s.draft.Text != "" {
		at := n.ToLogicalClamped(p)
		s.draft.Placed = true
		s.draft.X, s.draft.Y = at.X, at.Y
		s.log.Debug("draft placed", slog.Float64("x", at.X), slog.Float64("y", at.Y))
		s.changed()
	}
	return nil
}

// PointerMove moves the dragged annotation so it keeps its grab offset under
// the pointer. It reports whether anything moved; moves while idle do nothing.
func (s *Session) PointerMove(p geom.Pt, display geom.Size) bool {
	if s.drag == nil {
		return false
	}
	n, err := geom.NewNormalizer(display)
	if err != nil {
		return false
	}
	at := n.ToLogicalClamped(p.Sub(s.drag.Offset)).Round()
	if !s.moveTo(s.drag.Kind, s.drag.TargetID, at) {
		// target vanished under the pointer
		s.drag = nil
		return false
	}
	s.changed()
	return true
}

// PointerUp ends any drag. Positions written during the drag stay.
func (s *Session) PointerUp() { s.endDrag("up") }

// PointerLeave ends any drag when the pointer leaves the preview.
func (s *Session) PointerLeave() { s.endDrag("leave") }

func (s *Session) endDrag(why string) {
	if s.drag == nil {
		return
	}
	s.log.Debug("drag ended", slog.String("target", s.drag.TargetID), slog.String("reason", why))
	s.drag = nil
}

// Dragging returns a copy of the active drag, or nil when idle.
func (s *Session) Dragging() *DragSession {
	if s.drag == nil {
		return nil
	}
	d := *s.drag
	return &d
}

// HitTest reports the annotation under p without starting a drag.
func (s *Session) HitTest(p geom.Pt, display geom.Size) *Hit {
	n, err := geom.NewNormalizer(display)
	if err != nil {
		return nil
	}
	return s.hitTest(n, p)
}

func (s *Session) hitTest(n geom.Normalizer, p geom.Pt) *Hit {
	return hitTest(n, p, s.hitMargin, s.captions, s.links, s.captionSize)
}

func (s *Session) captionSize(c domain.Caption) geom.Size {
	b := s.renderer.CaptionBlock(c)
	return geom.Size{W: b.Width, H: b.Height()}
}

func (s *Session) moveTo(k domain.Kind, id string, at geom.Pt) bool {
	switch k {
	case domain.KindCaption:
		if i := s.captionIndex(id); i >= 0 {
			s.captions[i].X, s.captions[i].Y = at.X, at.Y
			return true
		}
	case domain.KindLink:
		if i := s.linkIndex(id); i >= 0 {
			s.links[i].X, s.links[i].Y = at.X, at.Y
			return true
		}
	}
	return false
}
