/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// TestInitWritesJSONToFile checks the rotating file sink receives JSON lines
// carrying the static and contextual attributes.
func TestInitWritesJSONToFile(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "imga.json")
	var console bytes.Buffer
	Init(Options{Level: "debug", Format: "json", File: fpath, Out: &console})

	l := WithOperation(WithComponent("editor"), "drag")
	l.Info("drag ended", slog.String("target", "caption_1"))

	b, err := os.ReadFile(fpath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var last string
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			last = s
		}
	}
	if last == "" {
		t.Fatalf("no log lines in %s", fpath)
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("unmarshal json log: %v", err)
	}
	if m["app"] != "imgannot" {
		t.Fatalf("app attr = %v", m["app"])
	}
	if _, ok := m["ver"].(string); !ok {
		t.Fatalf("missing ver attr")
	}
	if m["component"] != "editor" || m["op"] != "drag" || m["target"] != "caption_1" {
		t.Fatalf("context attrs mismatch: %v", m)
	}
	if console.Len() == 0 {
		t.Fatalf("console writer received nothing")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("IMGA_LOG_LEVEL", "warn")
	t.Setenv("IMGA_LOG_FORMAT", "json")
	t.Setenv("IMGA_LOG_SOURCE", "yes")
	t.Setenv("IMGA_LOG_FILE", "")

	opts := FromEnv()
	if opts.Level != "warn" || opts.Format != "json" || !opts.AddSource || opts.File != "" {
		t.Fatalf("FromEnv mismatch: %+v", opts)
	}
	if v := getenv("IMGA_SURELY_UNSET_VAR", "fallback"); v != "fallback" {
		t.Fatalf("getenv fallback = %q", v)
	}
}

func TestPrettyTextHandler(t *testing.T) {
	var buf bytes.Buffer
	h := &prettyTextHandler{opts: prettyOpts{Level: slog.LevelWarn}, mu: &sync.Mutex{}, w: &buf}

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("info should be filtered at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("error should pass at warn level")
	}

	h2 := h.WithAttrs([]slog.Attr{slog.String("k", "v")}).WithGroup("hit")
	r := slog.NewRecord(time.Now(), slog.LevelError, "boom", 0)
	r.AddAttrs(slog.Int("n", 42), slog.Float64("scale", 1.25), slog.Bool("ok", true))
	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("handle: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"ERR", "boom", " k=v", "hit.n=42", "hit.scale=1.25", "hit.ok=true"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
}

func TestDiscardDropsEverything(t *testing.T) {
	l := Discard()
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("discard logger should not be enabled")
	}
	l.With("a", 1).WithGroup("g").Error("ignored")
}

func TestFanOutReachesAllHandlers(t *testing.T) {
	var a, b bytes.Buffer
	h := fanOut(
		&prettyTextHandler{opts: prettyOpts{Level: slog.LevelDebug}, mu: &sync.Mutex{}, w: &a},
		&prettyTextHandler{opts: prettyOpts{Level: slog.LevelError}, mu: &sync.Mutex{}, w: &b},
	)
	l := slog.New(h)
	l.Info("only first")
	l.Error("both")
	if !strings.Contains(a.String(), "only first") || !strings.Contains(a.String(), "both") {
		t.Fatalf("first handler output: %q", a.String())
	}
	if strings.Contains(b.String(), "only first") || !strings.Contains(b.String(), "both") {
		t.Fatalf("second handler output: %q", b.String())
	}
}
