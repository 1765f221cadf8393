//go:build fyne && !cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import "errors"

// ErrNoCgo is returned by Run when the binary was built with the fyne tag but
// without cgo, which the OpenGL driver needs.
var ErrNoCgo = errors.New("desktop editor needs cgo (OpenGL): rebuild with CGO_ENABLED=1 go build -tags fyne ./cmd/imgannot, then run imgannot ui <image>")

func Run(_ string) error { return ErrNoCgo }
