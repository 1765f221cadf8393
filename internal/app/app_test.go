/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package app

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"imgannot/internal/config"
	"imgannot/internal/domain"
	"imgannot/internal/export"
	"imgannot/internal/geom"
	applog "imgannot/internal/log"
)

func writePNG(t *testing.T, dir string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 320, 240))); err != nil {
		t.Fatal(err)
	}
	p := filepath.Join(dir, "banner.png")
	if err := os.WriteFile(p, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestOpenAndExport(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Defaults()
	cfg.Editor.Caption.FontSize = 30
	s, err := OpenImage(context.Background(), writePNG(t, dir), cfg, applog.Discard())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	c, err := s.AddCaption("Hello", domain.CaptionStyle{}, nil)
	if err != nil || c.FontSize != 30 {
		t.Fatalf("caption = %+v, %v", c, err)
	}
	if _, err := s.AddLink("Go", "https://go.dev", domain.LinkStyle{}, &geom.Pt{X: 100, Y: 100}); err != nil {
		t.Fatalf("link: %v", err)
	}
	out := filepath.Join(dir, "out")
	res, paths, err := Export(context.Background(), s, cfg, ExportRequest{OutDir: out, Preset: "print"})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if res.Image.Name != "banner-800x600.png" || len(paths) != 3 {
		t.Fatalf("unexpected export %s %v", res.Image.Name, paths)
	}
}

func TestExportOptions(t *testing.T) {
	o := ExportOptions(config.ExportConfig{Format: "jpg", JPEGQuality: 80})
	if o.Format != export.FormatJPEG || o.JPEGQuality != 80 {
		t.Fatalf("unexpected options %+v", o)
	}
}

func TestFontsDefaultsToGoFonts(t *testing.T) {
	p, err := Fonts(config.FontsConfig{}, applog.Discard())
	if err != nil || p == nil {
		t.Fatalf("fonts = %v, %v", p, err)
	}
	if _, err := Fonts(config.FontsConfig{Dir: filepath.Join(t.TempDir(), "missing")}, applog.Discard()); err == nil {
		t.Fatalf("expected error for missing font dir")
	}
}

func TestOpenStoreSQLite(t *testing.T) {
	st, err := OpenStore(context.Background(), config.StoreConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "a.db")})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() { _ = st.Close() }()
	if st.Driver() != "sqlite" {
		t.Fatalf("driver = %s", st.Driver())
	}
}
