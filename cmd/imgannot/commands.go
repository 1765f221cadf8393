/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"imgannot/internal/app"
	"imgannot/internal/config"
	"imgannot/internal/document"
	"imgannot/internal/domain"
	"imgannot/internal/editor"
	"imgannot/internal/export"
	"imgannot/internal/ui"
	"imgannot/internal/version"
)

type usageError string

func (e usageError) Error() string { return string(e) }

type cli struct {
	cfg config.AppConfig
	log *slog.Logger
	out io.Writer
	in  io.Reader
}

func run(ctx context.Context, c cli, args []string) error {
	switch args[0] {
	case "version", "--version", "-v":
		fmt.Fprintln(c.out, version.String())
		return nil
	case "annotate":
		pos, flags := splitFlags(args[1:])
		if len(pos) < 3 {
			return usageError("annotate requires <image> <doc.json> <outDir>")
		}
		return c.annotate(ctx, pos[0], pos[1], pos[2], flags)
	case "preview":
		if len(args) < 4 {
			return usageError("preview requires <image> <doc.json> <out.png>")
		}
		return c.preview(ctx, args[1], args[2], args[3])
	case "schema":
		_, err := c.out.Write(document.Schema())
		return err
	case "store":
		if len(args) < 2 {
			return usageError("store requires a subcommand")
		}
		return c.store(ctx, args[1], args[2:])
	case "ui":
		var image string
		if len(args) >= 2 {
			image = args[1]
		}
		return ui.Run(image)
	default:
		return usageError(fmt.Sprintf("unknown command %q", args[0]))
	}
}

func splitFlags(args []string) (pos []string, flags map[string]bool) {
	flags = map[string]bool{}
	for _, a := range args {
		if strings.HasPrefix(a, "--") {
			flags[strings.TrimPrefix(a, "--")] = true
			continue
		}
		pos = append(pos, a)
	}
	return pos, flags
}

// session opens image and applies the annotation document at docPath.
func (c cli) session(ctx context.Context, image, docPath string) (*editor.Session, error) {
	data, err := os.ReadFile(docPath)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	doc, err := document.Parse(data)
	if err != nil {
		return nil, err
	}
	s, err := app.OpenImage(ctx, image, c.cfg, c.log)
	if err != nil {
		return nil, err
	}
	if err := document.Apply(s, doc); err != nil {
		return nil, err
	}
	return s, nil
}

func (c cli) annotate(ctx context.Context, image, docPath, outDir string, flags map[string]bool) error {
	s, err := c.session(ctx, image, docPath)
	if err != nil {
		return err
	}
	formats := []string{"png", "links"}
	if flags["pdf"] {
		formats = append(formats, "pdf")
	}
	if flags["svg"] {
		formats = append(formats, "svg")
	}
	res, paths, err := app.Export(ctx, s, c.cfg, app.ExportRequest{OutDir: outDir, Formats: formats})
	if err != nil {
		return err
	}
	c.log.Info("annotated", slog.String("image", image), slog.Int("captions", len(res.Captions)), slog.Int("links", len(res.Links)))
	for _, p := range paths {
		fmt.Fprintln(c.out, p)
	}
	return nil
}

func (c cli) preview(ctx context.Context, image, docPath, outPath string) error {
	s, err := c.session(ctx, image, docPath)
	if err != nil {
		return err
	}
	f, err := export.Encode(s.Preview(), filepath.Base(outPath), export.Options{})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := os.WriteFile(outPath, f.Data, 0o644); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}
	fmt.Fprintln(c.out, outPath)
	return nil
}

func (c cli) store(ctx context.Context, sub string, args []string) error {
	if sub == "login" {
		return c.login()
	}
	st, err := app.OpenStore(ctx, c.cfg.Store)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	switch sub {
	case "put":
		if len(args) < 2 {
			return usageError("store put requires <image> <doc.json>")
		}
		s, err := c.session(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		res, err := s.Confirm(ctx)
		if err != nil {
			return err
		}
		id, err := st.Put(ctx, res)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, id)
		return nil
	case "get":
		if len(args) < 2 {
			return usageError("store get requires <fileId> <outDir>")
		}
		a, err := st.Get(ctx, args[0])
		if err != nil {
			return err
		}
		res := domain.Result{Image: a.File, Captions: a.Captions, Links: a.Links}
		paths, err := export.BatchExport(res, export.BatchOptions{Formats: []string{"png", "links"}, OutDir: args[1]})
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintln(c.out, p)
		}
		return nil
	case "list":
		entries, err := st.List(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "FILE ID\tNAME\tSIZE\tLINKS\tCREATED")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%dx%d\t%d\t%s\n", e.FileID, e.FileName, e.Width, e.Height, e.Links, e.CreatedAt.Format("2006-01-02 15:04"))
		}
		return tw.Flush()
	case "rm":
		if len(args) < 1 {
			return usageError("store rm requires <fileId>")
		}
		return st.Delete(ctx, args[0])
	default:
		return usageError(fmt.Sprintf("unknown store subcommand %q", sub))
	}
}

func (c cli) login() error {
	if c.cfg.Store.User == "" {
		return fmt.Errorf("set store.user in %s first", configPathHint())
	}
	fmt.Fprintf(c.out, "Password for %s: ", c.cfg.Store.User)
	line, err := bufio.NewReader(c.in).ReadString('\n')
	if err != nil && err != io.EOF {
		return err
	}
	if err := config.SetStorePassword(c.cfg.Store, strings.TrimRight(line, "\r\n")); err != nil {
		return fmt.Errorf("save password: %w", err)
	}
	fmt.Fprintln(c.out, "saved")
	return nil
}

func configPathHint() string {
	if p, err := config.ConfigPath(); err == nil {
		return p
	}
	return "the config file"
}
