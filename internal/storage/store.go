/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"imgannot/internal/domain"
	applog "imgannot/internal/log"
	"imgannot/internal/version"

	// Postgres through database/sql
	_ "github.com/jackc/pgx/v5/stdlib"
	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite = "sqlite"
	DriverPgx    = "pgx"

	// schemaVersion tracks the attachment schema. Bump this when you perform
	// breaking schema changes and add migrations.
	schemaVersion = 1
)

var ErrNotFound = errors.New("attachment not found")

// Attachment is a stored export.
type Attachment struct {
	FileID    string
	File      domain.File
	Links     []domain.LinkHotspot
	Captions  []domain.Caption
	CreatedAt time.Time
}

// Entry is the listing view of an attachment; it carries no image bytes.
type Entry struct {
	FileID      string
	FileName    string
	ContentType string
	Width       int
	Height      int
	Links       int
	CreatedAt   time.Time
}

// Store persists attachments.
type Store struct {
	db     *sql.DB
	driver string
	log    *slog.Logger
	newID  func() string
	now    func() time.Time
}

// Open connects to the attachment database and makes sure the schema exists.
// For sqlite, dsn is a file path; for pgx, a Postgres URL or keyword DSN.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "open").With(slog.String("driver", driver))
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("store dsn is required")
	}
	var (
		db  *sql.DB
		err error
	)
	switch driver {
	case DriverSQLite, "":
		driver = DriverSQLite
		db, err = openSQLite(ctx, dsn)
	case DriverPgx:
		db, err = sql.Open(DriverPgx, dsn)
		if err == nil {
			err = db.PingContext(ctx)
		}
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		l.Error("open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	s := &Store{db: db, driver: driver, log: l, newID: uuid.NewString, now: time.Now}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		l.Error("ensure schema failed", slog.Any("err", err))
		return nil, err
	}
	l.Info("store ready")
	return s, nil
}

func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open(DriverSQLite, dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		return db, fmt.Errorf("enable WAL: %w", err)
	}
	return db, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// Driver reports which driver the store runs on.
func (s *Store) Driver() string { return s.driver }

func (s *Store) ensureSchema(ctx context.Context) error {
	blob := "BLOB"
	if s.driver == DriverPgx {
		blob = "BYTEA"
	}
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS attachments_version (
			id         INTEGER PRIMARY KEY CHECK(id=1),
			schema     INTEGER NOT NULL,
			app        TEXT,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS attachments (
			file_id       TEXT PRIMARY KEY,
			file_name     TEXT NOT NULL,
			content_type  TEXT NOT NULL,
			width         INTEGER NOT NULL,
			height        INTEGER NOT NULL,
			data          ` + blob + ` NOT NULL,
			links_json    TEXT NOT NULL,
			captions_json TEXT NOT NULL,
			created_at    TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS attachments_created ON attachments(created_at)`,
	}
	for _, q := range ddl {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	var cur int
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT schema FROM attachments_version WHERE id=1`)).Scan(&cur)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := s.db.ExecContext(ctx, s.rebind(`INSERT INTO attachments_version (id, schema, app, updated_at) VALUES (1, ?, ?, ?)`),
			schemaVersion, version.String(), now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	case cur > schemaVersion:
		return fmt.Errorf("store schema %d is newer than supported %d", cur, schemaVersion)
	}
	return nil
}

// rebind rewrites ? placeholders as $1..$n for pgx.
func (s *Store) rebind(q string) string {
	if s.driver != DriverPgx {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Put stores a confirmed result and returns its new file id.
func (s *Store) Put(ctx context.Context, res domain.Result) (string, error) {
	if len(res.Image.Data) == 0 {
		return "", errors.New("put: result has no image data")
	}
	links, err := res.LinksJSON()
	if err != nil {
		return "", err
	}
	caps := res.Captions
	if caps == nil {
		caps = []domain.Caption{}
	}
	capsJSON, err := json.Marshal(caps)
	if err != nil {
		return "", fmt.Errorf("encode captions: %w", err)
	}
	id := s.newID()
	f := res.Image
	_, err = s.db.ExecContext(ctx, s.rebind(`INSERT INTO attachments
		(file_id, file_name, content_type, width, height, data, links_json, captions_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		id, f.Name, f.ContentType, f.Width, f.Height, f.Data, string(links), string(capsJSON),
		s.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		s.log.Error("put failed", slog.Any("err", err))
		return "", fmt.Errorf("insert attachment: %w", err)
	}
	s.log.Debug("attachment stored", slog.String("file_id", id), slog.String("name", f.Name), slog.Int("links", len(res.Links)))
	return id, nil
}

// Get loads an attachment with its image bytes.
func (s *Store) Get(ctx context.Context, fileID string) (Attachment, error) {
	var (
		a                   Attachment
		linksJSON, capsJSON string
		created             string
	)
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT file_id, file_name, content_type, width, height, data, links_json, captions_json, created_at
		FROM attachments WHERE file_id = ?`), fileID).
		Scan(&a.FileID, &a.File.Name, &a.File.ContentType, &a.File.Width, &a.File.Height, &a.File.Data, &linksJSON, &capsJSON, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Attachment{}, fmt.Errorf("%s: %w", fileID, ErrNotFound)
	}
	if err != nil {
		return Attachment{}, fmt.Errorf("get attachment: %w", err)
	}
	if a.Links, err = domain.ParseLinks([]byte(linksJSON)); err != nil {
		return Attachment{}, err
	}
	if err := json.Unmarshal([]byte(capsJSON), &a.Captions); err != nil {
		return Attachment{}, fmt.Errorf("decode captions: %w", err)
	}
	a.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return a, nil
}

// Links returns only the link descriptors stored with a file.
func (s *Store) Links(ctx context.Context, fileID string) ([]domain.LinkHotspot, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT links_json FROM attachments WHERE file_id = ?`), fileID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", fileID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get links: %w", err)
	}
	return domain.ParseLinks([]byte(raw))
}

// List returns every attachment, newest first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT file_id, file_name, content_type, width, height, links_json, created_at
		FROM attachments ORDER BY created_at DESC, file_id`)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []Entry
	for rows.Next() {
		var (
			e              Entry
			links, created string
		)
		if err := rows.Scan(&e.FileID, &e.FileName, &e.ContentType, &e.Width, &e.Height, &links, &created); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		ls, err := domain.ParseLinks([]byte(links))
		if err != nil {
			return nil, err
		}
		e.Links = len(ls)
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Delete removes an attachment.
func (s *Store) Delete(ctx context.Context, fileID string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM attachments WHERE file_id = ?`), fileID)
	if err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", fileID, ErrNotFound)
	}
	return nil
}
