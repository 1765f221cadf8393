/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// File is an encoded image ready to be uploaded or written to disk.
type File struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Data        []byte `json:"-"`
}

// Result is what a confirmed editing session hands to its caller.
type Result struct {
	Image    File          `json:"image"`
	Captions []Caption     `json:"captions"`
	Links    []LinkHotspot `json:"links"`
}

// LinksJSON encodes the link descriptors stored alongside the uploaded file.
// An empty set encodes as [] rather than null.
func (r Result) LinksJSON() ([]byte, error) {
	links := r.Links
	if links == nil {
		links = []LinkHotspot{}
	}
	b, err := json.Marshal(links)
	if err != nil {
		return nil, fmt.Errorf("encode links: %w", err)
	}
	return b, nil
}

// ParseLinks decodes a stored link payload. Empty input yields no links.
func ParseLinks(b []byte) ([]LinkHotspot, error) {
	if len(strings.TrimSpace(string(b))) == 0 {
		return nil, nil
	}
	var links []LinkHotspot
	if err := json.Unmarshal(b, &links); err != nil {
		return nil, fmt.Errorf("decode links: %w", err)
	}
	return links, nil
}

// ExportName derives "<name>-800x600<ext>" from the original file name.
// Without a usable name it falls back to "image-<unix ms>".
func ExportName(original string, now time.Time, w, h int, ext string) string {
	base := filepath.Base(strings.TrimSpace(original))
	if base == "." || base == string(filepath.Separator) {
		base = ""
	}
	if e := filepath.Ext(base); e != "" {
		base = strings.TrimSuffix(base, e)
	}
	if base == "" {
		base = fmt.Sprintf("image-%d", now.UnixMilli())
	}
	return fmt.Sprintf("%s-%dx%d%s", base, w, h, ext)
}
