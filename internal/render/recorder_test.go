/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
)

// recorder is a Canvas that logs calls instead of drawing.
type recorder struct {
	calls []call
	fill  color.Color
}

type call struct {
	op   string
	args []float64
	text string
	col  color.Color
}

func (r *recorder) add(op string, text string, args ...float64) {
	r.calls = append(r.calls, call{op: op, args: args, text: text, col: r.fill})
}

func (r *recorder) count(op string) int {
	n := 0
	for _, c := range r.calls {
		if c.op == op {
			n++
		}
	}
	return n
}

func (r *recorder) texts(op string) []string {
	var out []string
	for _, c := range r.calls {
		if c.op == op {
			out = append(out, c.text)
		}
	}
	return out
}

func (r *recorder) first(op string) (call, error) {
	for _, c := range r.calls {
		if c.op == op {
			return c, nil
		}
	}
	return call{}, fmt.Errorf("no %s call", op)
}

func (r *recorder) Size() (int, int)                { return 800, 600 }
func (r *recorder) Clear(color.Color)               { r.add("Clear", "") }
func (r *recorder) DrawImage(image.Image, int, int) { r.add("DrawImage", "") }
func (r *recorder) Push()                           { r.add("Push", "") }
func (r *recorder) Pop()                            { r.add("Pop", "") }
func (r *recorder) Translate(x, y float64)          { r.add("Translate", "", x, y) }
func (r *recorder) Rotate(rad float64)              { r.add("Rotate", "", rad) }
func (r *recorder) SetFillColor(c color.Color)      { r.fill = c }
func (r *recorder) SetStrokeColor(color.Color)      {}
func (r *recorder) SetLineWidth(w float64)          { r.add("SetLineWidth", "", w) }
func (r *recorder) SetDash(d ...float64)            { r.add("SetDash", "", d...) }
func (r *recorder) SetFontFace(font.Face)           {}
func (r *recorder) FillRect(x, y, w, h float64)     { r.add("FillRect", "", x, y, w, h) }
func (r *recorder) StrokeRect(x, y, w, h float64)   { r.add("StrokeRect", "", x, y, w, h) }
func (r *recorder) FillCircle(x, y, rad float64)    { r.add("FillCircle", "", x, y, rad) }
func (r *recorder) FillText(s string, x, y float64) { r.add("FillText", s, x, y) }
func (r *recorder) StrokeText(s string, x, y float64) {
	r.add("StrokeText", s, x, y)
}
