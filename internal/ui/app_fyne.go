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

package ui

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	imgapp "imgannot/internal/app"
	"imgannot/internal/config"
	"imgannot/internal/crash"
	"imgannot/internal/domain"
	"imgannot/internal/editor"
	"imgannot/internal/geom"
	applog "imgannot/internal/log"
)

// Run starts the desktop annotation editor on the image at imagePath.
func Run(imagePath string) error {
	defer crash.Recover("")
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	imgapp.Logger(cfg.Logging)
	l := applog.WithComponent("ui")
	if strings.TrimSpace(imagePath) == "" {
		return fmt.Errorf("usage: imgannot ui <image>")
	}

	ed := NewEditorCanvas()
	s, err := imgapp.OpenImage(context.Background(), imagePath, cfg, l, editor.WithOnRender(ed.show))
	if err != nil {
		return err
	}
	ed.SetSession(s)
	l.Info("starting UI", slog.String("image", imagePath))

	a := app.NewWithID("imgannot")
	w := a.NewWindow("Image annotations: " + filepath.Base(imagePath))
	w.Resize(fyne.NewSize(1200, 700))

	status := widget.NewLabel("Ready")
	rows := newAnnotationList(s, func(msg string) { status.SetText(msg) })
	ed.OnChange = rows.Refresh

	form := newForms(s, status, rows)
	confirm := widget.NewButton("Confirm and export", func() {
		out := filepath.Dir(imagePath)
		res, paths, err := imgapp.Export(context.Background(), s, cfg, imgapp.ExportRequest{OutDir: out})
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText(fmt.Sprintf("Exported %s with %d links", res.Image.Name, len(res.Links)))
		l.Info("exported", slog.Any("paths", paths))
	})
	reset := widget.NewButton("Reset", func() {
		dialog.ShowConfirm("Reset", "Remove every caption and link?", func(ok bool) {
			if ok {
				s.Reset()
				rows.Refresh()
			}
		}, w)
	})

	side := container.NewVBox(form, widget.NewSeparator(), widget.NewLabel("Annotations"))
	right := container.NewBorder(side, container.NewVBox(container.NewGridWithColumns(2, reset, confirm), status), nil, nil, rows.list)
	split := container.NewHSplit(ed, right)
	split.Offset = 0.68
	w.SetContent(split)
	ed.show(s.Preview())
	w.ShowAndRun()
	return nil
}

// EditorCanvas shows the session preview stretched over the widget and feeds
// desktop mouse events to the session in widget coordinates.
type EditorCanvas struct {
	widget.BaseWidget
	session  *editor.Session
	img      *canvas.Image
	down     bool
	OnChange func()
}

var (
	_ desktop.Mouseable = (*EditorCanvas)(nil)
	_ desktop.Hoverable = (*EditorCanvas)(nil)
)

func NewEditorCanvas() *EditorCanvas {
	e := &EditorCanvas{img: canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, geom.LogicalW, geom.LogicalH)))}
	e.img.FillMode = canvas.ImageFillStretch
	e.img.ScaleMode = canvas.ImageScaleSmooth
	e.ExtendBaseWidget(e)
	return e
}

func (e *EditorCanvas) SetSession(s *editor.Session) { e.session = s }

func (e *EditorCanvas) show(img image.Image) {
	e.img.Image = img
	canvas.Refresh(e.img)
	if e.OnChange != nil {
		e.OnChange()
	}
}

func (e *EditorCanvas) display() geom.Size {
	sz := e.Size()
	return geom.Size{W: float64(sz.Width), H: float64(sz.Height)}
}

func toPt(p fyne.Position) geom.Pt { return geom.Pt{X: float64(p.X), Y: float64(p.Y)} }

func (e *EditorCanvas) MouseDown(ev *desktop.MouseEvent) {
	if e.session == nil || ev.Button != desktop.MouseButtonPrimary {
		return
	}
	e.down = true
	e.session.PointerDown(toPt(ev.Position), e.display())
}

func (e *EditorCanvas) MouseUp(*desktop.MouseEvent) {
	if e.session == nil {
		return
	}
	e.down = false
	e.session.PointerUp()
}

func (e *EditorCanvas) MouseIn(*desktop.MouseEvent) {}

func (e *EditorCanvas) MouseMoved(ev *desktop.MouseEvent) {
	if e.session == nil || !e.down {
		return
	}
	e.session.PointerMove(toPt(ev.Position), e.display())
}

func (e *EditorCanvas) MouseOut() {
	if e.session == nil {
		return
	}
	e.down = false
	e.session.PointerLeave()
}

func (e *EditorCanvas) MinSize() fyne.Size { return fyne.NewSize(geom.LogicalW/2, geom.LogicalH/2) }

func (e *EditorCanvas) CreateRenderer() fyne.WidgetRenderer { return widget.NewSimpleRenderer(e.img) }

// annotationList lists captions then links with a remove button each.
type annotationList struct {
	s    *editor.Session
	list *widget.List
	rows []Row
}

func newAnnotationList(s *editor.Session, status func(string)) *annotationList {
	al := &annotationList{s: s}
	al.list = widget.NewList(
		func() int { return len(al.rows) },
		func() fyne.CanvasObject {
			return container.NewBorder(nil, nil, nil, widget.NewButton("Remove", nil), widget.NewLabel(""))
		},
		func(id widget.ListItemID, o fyne.CanvasObject) {
			if id >= len(al.rows) {
				return
			}
			r := al.rows[id]
			c := o.(*fyne.Container)
			for _, obj := range c.Objects {
				switch w := obj.(type) {
				case *widget.Label:
					w.SetText(r.Label)
				case *widget.Button:
					w.OnTapped = func() {
						if err := r.Remove(al.s); err != nil {
							status(err.Error())
						}
						al.Refresh()
					}
				}
			}
		},
	)
	al.Refresh()
	return al
}

func (al *annotationList) Refresh() {
	al.rows = Rows(al.s)
	if al.list != nil {
		al.list.Refresh()
	}
}

func newForms(s *editor.Session, status *widget.Label, rows *annotationList) fyne.CanvasObject {
	d := s.Defaults()

	capText := widget.NewMultiLineEntry()
	capText.SetPlaceHolder("Caption text")
	capSize := widget.NewEntry()
	capSize.SetText(strconv.FormatFloat(d.Caption.FontSize, 'f', -1, 64))
	capColor := widget.NewEntry()
	capColor.SetText(d.Caption.Color)
	capStroke := widget.NewEntry()
	capStroke.SetText(d.Caption.StrokeColor)
	capFont := widget.NewSelectEntry(fontChoices(d.Caption.FontFamily))
	capFont.SetText(d.Caption.FontFamily)
	addCaption := widget.NewButton("Add caption", func() {
		st, err := captionStyle(capSize.Text, capColor.Text, capStroke.Text, capFont.Text)
		if err == nil {
			_, err = s.AddCaption(capText.Text, st, nil)
		}
		if err != nil {
			status.SetText(err.Error())
			return
		}
		capText.SetText("")
		rows.Refresh()
	})

	linkText := widget.NewEntry()
	linkText.SetPlaceHolder("Link text")
	linkURL := widget.NewEntry()
	linkURL.SetPlaceHolder("https://")
	syncDraft := func(string) { s.SetDraft(linkText.Text, linkURL.Text) }
	linkText.OnChanged = syncDraft
	linkURL.OnChanged = syncDraft

	linkSize := widget.NewEntry()
	linkSize.SetText(strconv.FormatFloat(d.Link.FontSize, 'f', -1, 64))
	linkColor := widget.NewEntry()
	linkColor.SetText(d.Link.Color)
	linkStroke := widget.NewEntry()
	linkStroke.SetText(d.Link.StrokeColor)
	shapes := make([]string, 0, len(domain.OutlineShapes))
	for _, sh := range domain.OutlineShapes {
		shapes = append(shapes, string(sh))
	}
	linkShape := widget.NewSelect(shapes, nil)
	linkShape.SetSelected(string(d.Link.OutlineShape))
	applyDraftStyle := func() {
		st, err := captionStyle(linkSize.Text, linkColor.Text, linkStroke.Text, d.Link.FontFamily)
		if err != nil {
			status.SetText(err.Error())
			return
		}
		ls := domain.LinkStyle{FontSize: st.FontSize, Color: st.Color, StrokeColor: st.StrokeColor,
			FontFamily: st.FontFamily, OutlineShape: domain.ParseOutlineShape(linkShape.Selected)}
		if err := s.SetDraftStyle(ls); err != nil {
			status.SetText(err.Error())
		}
	}
	linkShape.OnChanged = func(string) { applyDraftStyle() }
	for _, en := range []*widget.Entry{linkSize, linkColor, linkStroke} {
		en.OnSubmitted = func(string) { applyDraftStyle() }
	}
	addLink := widget.NewButton("Add link", func() {
		applyDraftStyle()
		if _, err := s.CommitDraft(); err != nil {
			status.SetText(err.Error())
			return
		}
		linkText.SetText("")
		linkURL.SetText("")
		status.SetText("Link added")
		rows.Refresh()
	})

	captions := widget.NewForm(
		widget.NewFormItem("Text", capText),
		widget.NewFormItem("Size", capSize),
		widget.NewFormItem("Color", capColor),
		widget.NewFormItem("Stroke", capStroke),
		widget.NewFormItem("Font", capFont),
	)
	links := widget.NewForm(
		widget.NewFormItem("Text", linkText),
		widget.NewFormItem("URL", linkURL),
		widget.NewFormItem("Size", linkSize),
		widget.NewFormItem("Color", linkColor),
		widget.NewFormItem("Stroke", linkStroke),
		widget.NewFormItem("Shape", linkShape),
	)
	hint := widget.NewLabel("Click the image to place the link, then add it.")
	hint.Wrapping = fyne.TextWrapWord
	return container.NewAppTabs(
		container.NewTabItem("Caption", container.NewVBox(captions, addCaption)),
		container.NewTabItem("Link", container.NewVBox(links, hint, addLink)),
	)
}

func fontChoices(current string) []string {
	out := append([]string(nil), domain.FontFamilies...)
	for _, f := range out {
		if f == current {
			return out
		}
	}
	return append(out, current)
}
