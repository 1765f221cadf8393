/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"imgannot/internal/domain"
	"imgannot/internal/geom"
)

// SVGOptions controls the image map export.
// - Display: width/height attributes; the viewBox stays logical so hotspots scale with it
// - Guides: outline hotspots instead of leaving them invisible
type SVGOptions struct {
	Display geom.Size
	Guides  bool
}

// RenderSVG builds a standalone SVG that embeds the exported image and wraps
// each hotspot rect in an anchor, so the links stay clickable in a browser.
func RenderSVG(res domain.Result, opt SVGOptions) []byte {
	disp := opt.Display
	if disp.W <= 0 || disp.H <= 0 {
		disp = geom.LogicalSize
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%g" height="%g" viewBox="0 0 %d %d">`+"\n",
		disp.W, disp.H, geom.LogicalW, geom.LogicalH)
	fmt.Fprintf(&buf, `  <image x="0" y="0" width="%d" height="%d" preserveAspectRatio="none" href="data:%s;base64,%s"/>`+"\n",
		geom.LogicalW, geom.LogicalH, res.Image.ContentType, base64.StdEncoding.EncodeToString(res.Image.Data))

	stroke := `stroke="none"`
	if opt.Guides {
		stroke = `stroke="#0066cc" stroke-width="1" stroke-dasharray="3,3"`
	}
	for _, l := range res.Links {
		r := l.Rect()
		fmt.Fprintf(&buf, `  <a href="%s" target="_blank"><title>%s</title>`, escAttr(l.URL), escText(l.Text))
		fmt.Fprintf(&buf, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="#000" fill-opacity="0" %s/></a>`+"\n",
			r.X, r.Y, r.W, r.H, stroke)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// WriteSVG writes RenderSVG output next to the image and returns the path.
func WriteSVG(dir string, res domain.Result, opt SVGOptions) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure out dir: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(res.Image.Name), filepath.Ext(res.Image.Name))
	name := filepath.Join(dir, base+".svg")
	if err := os.WriteFile(name, RenderSVG(res, opt), 0o644); err != nil {
		return "", fmt.Errorf("write svg: %w", err)
	}
	return name, nil
}

func escAttr(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; ch {
		case '"':
			out = append(out, "&quot;"...)
		case '&':
			out = append(out, "&amp;"...)
		case '<':
			out = append(out, "&lt;"...)
		case '\n':
			out = append(out, ' ')
		case '\r':
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; ch {
		case '&':
			out = append(out, "&amp;"...)
		case '<':
			out = append(out, "&lt;"...)
		case '>':
			out = append(out, "&gt;"...)
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
