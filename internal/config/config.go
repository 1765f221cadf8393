/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"

	"imgannot/internal/domain"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Editor        EditorConfig  `yaml:"editor"`
	Fonts         FontsConfig   `yaml:"fonts"`
	Export        ExportConfig  `yaml:"export"`
	Store         StoreConfig   `yaml:"store"`
	Logging       LoggingConfig `yaml:"logging"`
}

type StyleConfig struct {
	FontSize     float64 `yaml:"font_size"`
	Color        string  `yaml:"color"`
	StrokeColor  string  `yaml:"stroke_color"`
	FontFamily   string  `yaml:"font_family"`
	OutlineShape string  `yaml:"outline_shape,omitempty"` // links only
}

type EditorConfig struct {
	Caption   StyleConfig `yaml:"caption"`
	Link      StyleConfig `yaml:"link"`
	HitMargin float64     `yaml:"hit_margin"`
	MaxPixels int         `yaml:"max_pixels"`
}

// FontsConfig points at OpenType fonts. Dir is scanned for .ttf/.otf files;
// Files maps a family name to a single file.
type FontsConfig struct {
	Dir   string            `yaml:"dir"`
	Files map[string]string `yaml:"files,omitempty"`
}

type ExportConfig struct {
	Format      string `yaml:"format"` // png | jpeg
	JPEGQuality int    `yaml:"jpeg_quality"`
	Preset      string `yaml:"preset"` // web | print
}

type StoreConfig struct {
	Driver string `yaml:"driver"` // sqlite | pgx
	DSN    string `yaml:"dsn"`
	// User names the keyring entry holding the database password; the
	// password itself is never written to disk.
	User string `yaml:"user"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	cs, ls := domain.DefaultCaptionStyle(), domain.DefaultLinkStyle()
	return AppConfig{
		ConfigVersion: 1,
		Editor: EditorConfig{
			Caption:   StyleConfig{FontSize: cs.FontSize, Color: cs.Color, StrokeColor: cs.StrokeColor, FontFamily: cs.FontFamily},
			Link:      StyleConfig{FontSize: ls.FontSize, Color: ls.Color, StrokeColor: ls.StrokeColor, FontFamily: ls.FontFamily, OutlineShape: string(ls.OutlineShape)},
			HitMargin: 10,
			MaxPixels: 50_000_000,
		},
		Export:  ExportConfig{Format: "png", JPEGQuality: 92, Preset: "web"},
		Store:   StoreConfig{Driver: "sqlite", DSN: defaultStorePath()},
		Logging: LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvConfigPath  = "IMGA_CONFIG"
	EnvFontDir     = "IMGA_FONT_DIR"
	EnvHitMargin   = "IMGA_HIT_MARGIN"
	EnvMaxPixels   = "IMGA_MAX_PIXELS"
	EnvExportFmt   = "IMGA_EXPORT_FORMAT"
	EnvJPEGQuality = "IMGA_JPEG_QUALITY"
	EnvStoreDriver = "IMGA_STORE_DRIVER"
	EnvStoreDSN    = "IMGA_STORE_DSN"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "IMGA_LOG_LEVEL"
	EnvLogFormat = "IMGA_LOG_FORMAT"
	EnvLogSource = "IMGA_LOG_SOURCE"
	EnvLogFile   = "IMGA_LOG_FILE"
)

const keyringService = "imgannot"

// SecretStore abstracts the keyring, so we can stub in tests.
type SecretStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

var secretStore SecretStore = osKeyring{}

// osKeyring implements SecretStore using the OS keyring via github.com/zalando/go-keyring.
type osKeyring struct{}

func (osKeyring) Get(service, key string) (string, error) { return keyring.Get(service, key) }
func (osKeyring) Set(service, key, value string) error    { return keyring.Set(service, key, value) }
func (osKeyring) Delete(service, key string) error        { return keyring.Delete(service, key) }

func configDir() string {
	switch runtime.GOOS {
	case "windows":
		base := os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		return filepath.Join(base, "imgannot")
	case "darwin":
		return filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "imgannot")
	default:
		return filepath.Join(os.Getenv("HOME"), ".config", "imgannot")
	}
}

func defaultStorePath() string { return filepath.Join(configDir(), "attachments.db") }

// ConfigPath returns the per-user config file path; IMGA_CONFIG overrides it.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	base := configDir()
	if !filepath.IsAbs(base) {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	return LoadFrom(path)
}

// LoadFrom is Load against an explicit file. A missing file is not an error;
// a malformed one is.
func LoadFrom(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			applyEnvOverrides(&cfg)
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

func SaveTo(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// StorePassword reads the database password for the configured store user.
// No user or no entry yields "".
func StorePassword(s StoreConfig) (string, error) {
	if s.User == "" {
		return "", nil
	}
	pw, err := secretStore.Get(keyringService, s.User)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	return pw, err
}

// SetStorePassword saves (or with "" deletes) the password for the configured store user.
func SetStorePassword(s StoreConfig, password string) error {
	if s.User == "" {
		return errors.New("store user is not configured")
	}
	if password == "" {
		err := secretStore.Delete(keyringService, s.User)
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return err
	}
	return secretStore.Set(keyringService, s.User, password)
}

// ResolveDSN returns the DSN to connect with. For pgx URLs the configured
// user and keyring password are filled in when the DSN carries none.
func ResolveDSN(s StoreConfig) (string, error) {
	if s.Driver != "pgx" || s.User == "" {
		return s.DSN, nil
	}
	u, err := url.Parse(s.DSN)
	if err != nil || u.Scheme == "" {
		return s.DSN, nil // keyword/value DSN, left as written
	}
	if u.User != nil {
		if _, set := u.User.Password(); set {
			return s.DSN, nil
		}
	}
	pw, err := StorePassword(s)
	if err != nil {
		return "", fmt.Errorf("store password: %w", err)
	}
	if pw == "" {
		u.User = url.User(s.User)
	} else {
		u.User = url.UserPassword(s.User, pw)
	}
	return u.String(), nil
}

// CaptionStyle converts the caption defaults to a domain style.
func (e EditorConfig) CaptionStyle() domain.CaptionStyle {
	return domain.CaptionStyle{
		FontSize: e.Caption.FontSize, Color: e.Caption.Color,
		StrokeColor: e.Caption.StrokeColor, FontFamily: e.Caption.FontFamily,
	}.WithDefaults(domain.DefaultCaptionStyle())
}

// LinkStyle converts the link defaults to a domain style.
func (e EditorConfig) LinkStyle() domain.LinkStyle {
	return domain.LinkStyle{
		FontSize: e.Link.FontSize, Color: e.Link.Color,
		StrokeColor: e.Link.StrokeColor, FontFamily: e.Link.FontFamily,
		OutlineShape: domain.OutlineShape(e.Link.OutlineShape),
	}.WithDefaults(domain.DefaultLinkStyle())
}

func mergeStyle(dst *StyleConfig, src StyleConfig) {
	if src.FontSize != 0 {
		dst.FontSize = src.FontSize
	}
	if src.Color != "" {
		dst.Color = src.Color
	}
	if src.StrokeColor != "" {
		dst.StrokeColor = src.StrokeColor
	}
	if src.FontFamily != "" {
		dst.FontFamily = src.FontFamily
	}
	if src.OutlineShape != "" {
		dst.OutlineShape = strings.ToLower(strings.TrimSpace(src.OutlineShape))
	}
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	mergeStyle(&dst.Editor.Caption, src.Editor.Caption)
	mergeStyle(&dst.Editor.Link, src.Editor.Link)
	if src.Editor.HitMargin > 0 {
		dst.Editor.HitMargin = src.Editor.HitMargin
	}
	if src.Editor.MaxPixels > 0 {
		dst.Editor.MaxPixels = src.Editor.MaxPixels
	}
	if strings.TrimSpace(src.Fonts.Dir) != "" {
		dst.Fonts.Dir = strings.TrimSpace(src.Fonts.Dir)
	}
	if len(src.Fonts.Files) > 0 {
		dst.Fonts.Files = src.Fonts.Files
	}
	if strings.TrimSpace(src.Export.Format) != "" {
		dst.Export.Format = strings.ToLower(strings.TrimSpace(src.Export.Format))
	}
	if src.Export.JPEGQuality != 0 {
		dst.Export.JPEGQuality = src.Export.JPEGQuality
	}
	if strings.TrimSpace(src.Export.Preset) != "" {
		dst.Export.Preset = strings.ToLower(strings.TrimSpace(src.Export.Preset))
	}
	if strings.TrimSpace(src.Store.Driver) != "" {
		dst.Store.Driver = strings.ToLower(strings.TrimSpace(src.Store.Driver))
	}
	if strings.TrimSpace(src.Store.DSN) != "" {
		dst.Store.DSN = strings.TrimSpace(src.Store.DSN)
	}
	if strings.TrimSpace(src.Store.User) != "" {
		dst.Store.User = strings.TrimSpace(src.Store.User)
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func truthy(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvFontDir)); v != "" {
		cfg.Fonts.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvHitMargin)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.Editor.HitMargin = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvMaxPixels)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Editor.MaxPixels = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportFmt)); v != "" {
		cfg.Export.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvJPEGQuality)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Export.JPEGQuality = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvStoreDriver)); v != "" {
		cfg.Store.Driver = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvStoreDSN)); v != "" {
		cfg.Store.DSN = v
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

var envKeys = map[string]string{
	"fonts.dir":           EnvFontDir,
	"editor.hit_margin":   EnvHitMargin,
	"editor.max_pixels":   EnvMaxPixels,
	"export.format":       EnvExportFmt,
	"export.jpeg_quality": EnvJPEGQuality,
	"store.driver":        EnvStoreDriver,
	"store.dsn":           EnvStoreDSN,
	"logging.level":       EnvLogLevel,
	"logging.format":      EnvLogFormat,
	"logging.source":      EnvLogSource,
	"logging.file":        EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	if env, ok := envKeys[key]; ok && os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}
