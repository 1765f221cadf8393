/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package editor holds one image annotation session: the decoded source, the
// captions and links placed on it, the link draft, and the pointer-driven
// drag state. A Session is event driven and not safe for concurrent use.
package editor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"time"

	// decoders for image.Decode
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"imgannot/internal/domain"
	"imgannot/internal/export"
	"imgannot/internal/geom"
	applog "imgannot/internal/log"
	"imgannot/internal/render"
	"imgannot/internal/textlayout"
)

var (
	ErrDecode        = errors.New("decode image")
	ErrImageTooLarge = errors.New("image too large")
)

// DefaultMaxPixels bounds the decoded source size.
const DefaultMaxPixels = 50_000_000

// Defaults are the styles new annotations start from.
type Defaults struct {
	Caption domain.CaptionStyle
	Link    domain.LinkStyle
}

// Option configures a Session.
type Option func(*Session)

// WithLogger routes session diagnostics to l. Sessions are silent by default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithFonts sets the font provider used for layout and drawing.
func WithFonts(p textlayout.Provider) Option {
	return func(s *Session) { s.renderer = render.NewRenderer(textlayout.NewEngine(p)) }
}

// WithDefaults replaces the starting styles; zero fields keep the built-in values.
func WithDefaults(d Defaults) Option {
	return func(s *Session) {
		s.defaults.Caption = d.Caption.WithDefaults(s.defaults.Caption)
		s.defaults.Link = d.Link.WithDefaults(s.defaults.Link)
	}
}

// WithHitMargin sets the screen-pixel margin around hit boxes.
func WithHitMargin(px float64) Option { return func(s *Session) { s.hitMargin = px } }

// WithMaxPixels bounds width×height of the source accepted by Open.
func WithMaxPixels(n int) Option { return func(s *Session) { s.maxPixels = n } }

// WithIDs replaces the identifier generator.
func WithIDs(gen func(domain.Kind) string) Option { return func(s *Session) { s.newID = gen } }

// WithExport sets the encoding used by Confirm.
func WithExport(o export.Options) Option { return func(s *Session) { s.export = o } }

// WithOnRender registers a callback receiving a fresh preview after every change.
// The image is reused by the next render.
func WithOnRender(fn func(image.Image)) Option { return func(s *Session) { s.onRender = fn } }

// Session is one editing session over one source image.
type Session struct {
	name      string
	source    image.Image
	base      *image.RGBA // source stretched to the logical canvas
	captions  []domain.Caption
	links     []domain.LinkHotspot
	draft     domain.DraftLink
	drag      *DragSession
	defaults  Defaults
	hitMargin float64
	maxPixels int

	renderer *render.Renderer
	canvas   *render.GGCanvas
	export   export.Options
	newID    func(domain.Kind) string
	onRender func(image.Image)
	log      *slog.Logger
}

func newSession(name string, opts []Option) *Session {
	s := &Session{
		name:      name,
		defaults:  Defaults{Caption: domain.DefaultCaptionStyle(), Link: domain.DefaultLinkStyle()},
		hitMargin: DefaultHitMargin,
		maxPixels: DefaultMaxPixels,
		newID:     domain.NewID,
		log:       applog.Discard(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.renderer == nil {
		s.renderer = render.NewRenderer(textlayout.NewEngine(textlayout.NewGoFontProvider()))
	}
	s.draft.Style = s.defaults.Link
	return s
}

// Open decodes the image in r and starts a session on it. name is the
// original file name and drives the export file name. Undecodable input is
// rejected here, so a Session always has an image.
func Open(ctx context.Context, r io.Reader, name string, opts ...Option) (*Session, error) {
	s := newSession(name, opts)
	l := applog.WithOperation(s.log, "open").With(slog.String("name", name))

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		l.Warn("decode config failed", slog.Any("err", err))
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if s.maxPixels > 0 && cfg.Width*cfg.Height > s.maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrImageTooLarge, cfg.Width, cfg.Height, s.maxPixels)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		l.Warn("decode failed", slog.String("format", format), slog.Any("err", err))
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.attach(img)
	l.Info("session opened", slog.String("format", format), slog.Int("w", cfg.Width), slog.Int("h", cfg.Height))
	return s, nil
}

// New starts a session on an already decoded image.
func New(img image.Image, name string, opts ...Option) (*Session, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrDecode)
	}
	s := newSession(name, opts)
	s.attach(img)
	return s, nil
}

func (s *Session) attach(img image.Image) {
	s.source = img
	s.base = render.ToLogical(img)
	s.canvas = render.NewGGCanvas(geom.LogicalW, geom.LogicalH)
}

// Name is the original file name.
func (s *Session) Name() string { return s.name }

// SourceSize is the native size of the decoded image.
func (s *Session) SourceSize() (w, h int) {
	b := s.source.Bounds()
	return b.Dx(), b.Dy()
}

// Base is the source stretched to the logical canvas.
func (s *Session) Base() image.Image { return s.base }

// Defaults returns the styles new annotations start from.
func (s *Session) Defaults() Defaults { return s.defaults }

// Scene snapshots the current state for rendering.
func (s *Session) Scene() render.Scene {
	var d *domain.DraftLink
	if s.draft.Placed && s.draft.Text != "" {
		dd := s.draft
		d = &dd
	}
	return render.Scene{Base: s.base, Captions: s.Captions(), Links: s.Links(), Draft: d}
}

// Preview renders the editing view at logical size.
func (s *Session) Preview() image.Image {
	s.renderer.Preview(s.canvas, s.Scene())
	return s.canvas.Image()
}

// Rasterize renders the export image: base plus captions.
func (s *Session) Rasterize() image.Image { return s.renderer.Rasterize(s.base, s.captions) }

// Confirm produces the exported image and the link descriptors.
func (s *Session) Confirm(ctx context.Context) (domain.Result, error) {
	if err := ctx.Err(); err != nil {
		return domain.Result{}, err
	}
	l := applog.WithOperation(s.log, "confirm")
	start := time.Now()
	f, err := export.Encode(s.Rasterize(), s.name, s.export)
	if err != nil {
		l.Error("encode failed", slog.Any("err", err))
		return domain.Result{}, err
	}
	res := domain.Result{Image: f, Captions: s.Captions(), Links: s.Links()}
	l.Info("exported", slog.String("file", f.Name), slog.Int("bytes", len(f.Data)),
		slog.Int("captions", len(res.Captions)), slog.Int("links", len(res.Links)),
		slog.Duration("took", time.Since(start)))
	return res, nil
}

// Reset drops every annotation, the draft and any drag, as when the editor is reopened.
func (s *Session) Reset() {
	s.captions = nil
	s.links = nil
	s.drag = nil
	s.draft = domain.DraftLink{Style: s.defaults.Link}
	s.changed()
}

func (s *Session) changed() {
	if s.onRender != nil {
		s.onRender(s.Preview())
	}
}
