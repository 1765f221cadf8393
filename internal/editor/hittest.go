/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"math"

	"imgannot/internal/domain"
	"imgannot/internal/geom"
)

// DefaultHitMargin is added to each half-extent of an annotation, in screen pixels.
const DefaultHitMargin = 10

// Hit identifies the annotation under the pointer. Offset is the pointer
// minus the annotation anchor, both in screen pixels.
type Hit struct {
	ID     string
	Kind   domain.Kind
	Offset geom.Pt
}

// hitTest finds the topmost annotation under p. Links are painted above
// captions and later annotations above earlier ones, so links are searched
// first and both lists back to front.
func hitTest(n geom.Normalizer, p geom.Pt, margin float64,
	captions []domain.Caption, links []domain.LinkHotspot,
	captionSize func(domain.Caption) geom.Size,
) *Hit {
	for i := len(links) - 1; i >= 0; i-- {
		l := links[i]
		if off, ok := within(n, p, l.Pos(), geom.Size{W: l.Width, H: l.Height}, margin); ok {
			return &Hit{ID: l.ID, Kind: domain.KindLink, Offset: off}
		}
	}
	for i := len(captions) - 1; i >= 0; i-- {
		c := captions[i]
		if off, ok := within(n, p, c.Pos(), captionSize(c), margin); ok {
			return &Hit{ID: c.ID, Kind: domain.KindCaption, Offset: off}
		}
	}
	return nil
}

// within reports whether screen point p lies in the margin-grown box of a
// logical-size block anchored at the logical point anchor.
func within(n geom.Normalizer, p, anchor geom.Pt, size geom.Size, margin float64) (geom.Pt, bool) {
	a := n.ToScreen(anchor)
	half := n.LengthToScreen(size)
	off := p.Sub(a)
	if math.Abs(off.X) < half.W/2+margin && math.Abs(off.Y) < half.H/2+margin {
		return off, true
	}
	return geom.Pt{}, false
}
