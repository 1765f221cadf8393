//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// These tests validate the Fyne-based editor widget. They are gated behind the
// "fyne" build tag so CI (which is headless) does not need Fyne or a display.
// To run locally:
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"image"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	"imgannot/internal/domain"
	"imgannot/internal/editor"
	"imgannot/internal/geom"
	"imgannot/internal/textlayout"
)

func newCanvasWithSession(t *testing.T) (*EditorCanvas, *editor.Session) {
	t.Helper()
	test.NewApp()
	ed := NewEditorCanvas()
	s, err := editor.New(image.NewRGBA(image.Rect(0, 0, 8, 6)), "x.png",
		editor.WithFonts(textlayout.BasicProvider{}), editor.WithOnRender(ed.show))
	if err != nil {
		t.Fatal(err)
	}
	ed.SetSession(s)
	ed.Resize(fyne.NewSize(400, 300))
	return ed, s
}

func mouse(x, y float32) *desktop.MouseEvent {
	ev := &desktop.MouseEvent{Button: desktop.MouseButtonPrimary}
	ev.Position = fyne.NewPos(x, y)
	return ev
}

func TestEditorCanvasDragsInWidgetCoordinates(t *testing.T) {
	ed, s := newCanvasWithSession(t)
	c, _ := s.AddCaption("Hello", domain.CaptionStyle{}, nil)

	ed.MouseDown(mouse(200, 150))
	ed.MouseMoved(mouse(225, 135))
	ed.MouseUp(mouse(225, 135))

	got, _ := s.Caption(c.ID)
	if got.Pos() != geom.P(450, 270) {
		t.Fatalf("caption at %+v, want (450,270)", got.Pos())
	}
}

func TestEditorCanvasMouseOutEndsDrag(t *testing.T) {
	ed, s := newCanvasWithSession(t)
	s.AddCaption("Hello", domain.CaptionStyle{}, nil)
	ed.MouseDown(mouse(200, 150))
	ed.MouseOut()
	if s.Dragging() != nil {
		t.Fatalf("mouse out should end the drag")
	}
	ed.MouseMoved(mouse(10, 10))
	if s.Captions()[0].Pos() != geom.LogicalCenter {
		t.Fatalf("caption moved after mouse out")
	}
}

func TestEditorCanvasShowsPreview(t *testing.T) {
	ed, s := newCanvasWithSession(t)
	changes := 0
	ed.OnChange = func() { changes++ }
	s.AddCaption("Hello", domain.CaptionStyle{}, nil)
	if changes != 1 || ed.img.Image == nil {
		t.Fatalf("preview not pushed to the widget")
	}
	if b := ed.img.Image.Bounds(); b.Dx() != geom.LogicalW || b.Dy() != geom.LogicalH {
		t.Fatalf("preview size %v", b)
	}
}
