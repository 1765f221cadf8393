/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package app wires configuration into editing sessions and exports. The CLI
// and the desktop editor share it so both build sessions the same way.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"imgannot/internal/config"
	"imgannot/internal/domain"
	"imgannot/internal/editor"
	"imgannot/internal/export"
	applog "imgannot/internal/log"
	"imgannot/internal/storage"
	"imgannot/internal/textlayout"
)

// Fonts builds the font provider from the fonts section: the configured
// library first, then the bundled Go fonts.
func Fonts(cfg config.FontsConfig, l *slog.Logger) (textlayout.Provider, error) {
	fallback := textlayout.NewGoFontProvider()
	if cfg.Dir == "" && len(cfg.Files) == 0 {
		return fallback, nil
	}
	lib := textlayout.NewFontLibrary()
	if cfg.Dir != "" {
		fams, err := lib.LoadDir(cfg.Dir)
		if err != nil {
			return nil, err
		}
		l.Debug("fonts loaded", slog.String("dir", cfg.Dir), slog.Any("families", fams))
	}
	names := make([]string, 0, len(cfg.Files))
	for fam := range cfg.Files {
		names = append(names, fam)
	}
	sort.Strings(names)
	for _, fam := range names {
		if err := lib.LoadTTF(fam, 400, false, cfg.Files[fam]); err != nil {
			return nil, err
		}
	}
	return textlayout.NewOTProvider(lib, fallback), nil
}

// SessionOptions maps the configuration onto editor options.
func SessionOptions(cfg config.AppConfig, l *slog.Logger) ([]editor.Option, error) {
	fonts, err := Fonts(cfg.Fonts, l)
	if err != nil {
		return nil, fmt.Errorf("fonts: %w", err)
	}
	return []editor.Option{
		editor.WithLogger(l),
		editor.WithFonts(fonts),
		editor.WithDefaults(editor.Defaults{Caption: cfg.Editor.CaptionStyle(), Link: cfg.Editor.LinkStyle()}),
		editor.WithHitMargin(cfg.Editor.HitMargin),
		editor.WithMaxPixels(cfg.Editor.MaxPixels),
		editor.WithExport(ExportOptions(cfg.Export)),
	}, nil
}

// ExportOptions maps the export section onto encoder options.
func ExportOptions(cfg config.ExportConfig) export.Options {
	return export.Options{Format: export.ParseFormat(cfg.Format), JPEGQuality: cfg.JPEGQuality}
}

// OpenImage starts a session on the image file at path.
func OpenImage(ctx context.Context, path string, cfg config.AppConfig, l *slog.Logger, extra ...editor.Option) (*editor.Session, error) {
	opts, err := SessionOptions(cfg, l)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer func() { _ = f.Close() }()
	return editor.Open(ctx, f, filepath.Base(path), append(opts, extra...)...)
}

// ExportRequest selects what Export writes.
type ExportRequest struct {
	OutDir  string
	Preset  string   // web | print; empty uses the configured preset
	Formats []string // overrides the preset
}

// Export confirms s and writes the artifacts of the chosen preset.
func Export(ctx context.Context, s *editor.Session, cfg config.AppConfig, req ExportRequest) (domain.Result, []string, error) {
	res, err := s.Confirm(ctx)
	if err != nil {
		return domain.Result{}, nil, err
	}
	preset := req.Preset
	if preset == "" {
		preset = cfg.Export.Preset
	}
	paths, err := export.BatchExport(res, export.BatchOptions{
		Preset:  export.PresetName(preset),
		Formats: req.Formats,
		OutDir:  req.OutDir,
	})
	return res, paths, err
}

// OpenStore connects to the configured attachment store, filling the pgx
// password from the keyring.
func OpenStore(ctx context.Context, cfg config.StoreConfig) (*storage.Store, error) {
	dsn, err := config.ResolveDSN(cfg)
	if err != nil {
		return nil, err
	}
	return storage.Open(ctx, cfg.Driver, dsn)
}

// Logger initializes the process logger from the logging section.
func Logger(cfg config.LoggingConfig) *slog.Logger {
	return applog.Init(applog.Options{Level: cfg.Level, Format: cfg.Format, AddSource: cfg.Source, File: cfg.File})
}
