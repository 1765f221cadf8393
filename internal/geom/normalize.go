/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import (
	"errors"
	"fmt"
	"math"
)

// Logical canvas every annotation position is stored in. The source image is
// resampled to exactly this size, so images that are not 4:3 get stretched.
const (
	LogicalW = 800
	LogicalH = 600
)

// LogicalSize and LogicalBounds describe the logical canvas.
var (
	LogicalSize   = Size{W: LogicalW, H: LogicalH}
	LogicalBounds = Rect{W: LogicalW, H: LogicalH}
	LogicalCenter = Pt{X: LogicalW / 2, Y: LogicalH / 2}
)

// ErrInvalidDisplay is returned for a display size that cannot be mapped.
var ErrInvalidDisplay = errors.New("display size must be positive")

// Normalizer converts between screen pixels of the displayed preview and
// logical canvas units. Build one per pointer event from the size the image
// currently has on screen; a stale normalizer maps resized displays wrongly.
type Normalizer struct {
	Display Size
	ScaleX  float64 // logical units per screen pixel, horizontally
	ScaleY  float64
}

// NewNormalizer derives the scales for a display of the given size.
func NewNormalizer(display Size) (Normalizer, error) {
	if !(display.W > 0) || !(display.H > 0) || math.IsInf(display.W, 0) || math.IsInf(display.H, 0) {
		return Normalizer{}, fmt.Errorf("%w: %gx%g", ErrInvalidDisplay, display.W, display.H)
	}
	return Normalizer{
		Display: display,
		ScaleX:  LogicalW / display.W,
		ScaleY:  LogicalH / display.H,
	}, nil
}

// Unit is the normalizer for a preview shown at exactly the logical size.
func Unit() Normalizer { return Normalizer{Display: LogicalSize, ScaleX: 1, ScaleY: 1} }

// ToLogical maps a screen point into logical units (unclamped).
func (n Normalizer) ToLogical(p Pt) Pt { return Pt{X: p.X * n.ScaleX, Y: p.Y * n.ScaleY} }

// ToScreen maps a logical point onto the display.
func (n Normalizer) ToScreen(p Pt) Pt { return Pt{X: p.X / n.ScaleX, Y: p.Y / n.ScaleY} }

// ToLogicalClamped is ToLogical followed by Clamp, the form used for every write.
func (n Normalizer) ToLogicalClamped(p Pt) Pt { return Clamp(n.ToLogical(p)) }

// LengthToScreen maps a logical extent onto the display.
func (n Normalizer) LengthToScreen(s Size) Size { return Size{W: s.W / n.ScaleX, H: s.H / n.ScaleY} }

// RectToScreen maps a logical rect onto the display.
func (n Normalizer) RectToScreen(r Rect) Rect {
	p := n.ToScreen(r.Min())
	s := n.LengthToScreen(Size{W: r.W, H: r.H})
	return Rect{X: p.X, Y: p.Y, W: s.W, H: s.H}
}

// Clamp forces p into [0,LogicalW]×[0,LogicalH].
func Clamp(p Pt) Pt {
	return Pt{X: clamp(p.X, 0, LogicalW), Y: clamp(p.Y, 0, LogicalH)}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
