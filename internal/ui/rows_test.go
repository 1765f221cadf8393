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
	"errors"
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"

	"imgannot/internal/domain"
	"imgannot/internal/editor"
	"imgannot/internal/textlayout"
)

func TestRowsAndRemove(t *testing.T) {
	s, err := editor.New(image.NewRGBA(image.Rect(0, 0, 8, 6)), "x.png", editor.WithFonts(textlayout.BasicProvider{}))
	if err != nil {
		t.Fatal(err)
	}
	c, _ := s.AddCaption("Line one\nline two", domain.CaptionStyle{}, nil)
	l, _ := s.AddLink("Shop", "https://example.com", domain.LinkStyle{}, nil)
	want := []Row{
		{Kind: domain.KindCaption, ID: c.ID, Label: "Caption 1: Line one ..."},
		{Kind: domain.KindLink, ID: l.ID, Label: "1. Shop -> https://example.com"},
	}
	rows := Rows(s)
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("rows (-want +got):\n%s", diff)
	}
	for _, r := range rows {
		if err := r.Remove(s); err != nil {
			t.Fatalf("remove %s: %v", r.ID, err)
		}
	}
	if len(Rows(s)) != 0 {
		t.Fatalf("rows left after remove")
	}
}

func TestCaptionStyleForm(t *testing.T) {
	st, err := captionStyle("30", "#ff0000", "", " Go Mono ")
	if err != nil {
		t.Fatalf("style: %v", err)
	}
	if st.FontSize != 30 || st.FontFamily != "Go Mono" {
		t.Fatalf("unexpected style %+v", st)
	}
	if _, err := captionStyle("big", "", "", ""); !errors.Is(err, domain.ErrInvalidFontSize) {
		t.Fatalf("expected ErrInvalidFontSize, got %v", err)
	}
	if _, err := captionStyle("", "chartreuse?", "", ""); !errors.Is(err, domain.ErrInvalidColor) {
		t.Fatalf("expected ErrInvalidColor, got %v", err)
	}
}
