/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"imgannot/internal/app"
	"imgannot/internal/config"
	"imgannot/internal/crash"
	applog "imgannot/internal/log"
	"imgannot/internal/version"
)

func usage() {
	fmt.Println("imgannot: captions and link hotspots for images")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  imgannot version|-v|--version                       Show version")
	fmt.Println("  imgannot annotate <image> <doc.json> <outDir> [--pdf] [--svg]")
	fmt.Println("                                                      Burn captions in, write <name>-800x600.png and its links")
	fmt.Println("  imgannot preview <image> <doc.json> <out.png>       Write the editing preview with debug overlays")
	fmt.Println("  imgannot schema                                     Print the annotation document JSON schema")
	fmt.Println("  imgannot store put <image> <doc.json>               Export and store as an attachment")
	fmt.Println("  imgannot store get <fileId> <outDir>                Write a stored attachment and its links")
	fmt.Println("  imgannot store list                                 List stored attachments")
	fmt.Println("  imgannot store rm <fileId>                          Delete a stored attachment")
	fmt.Println("  imgannot store login                                Save the store password (read from stdin) in the OS keyring")
	fmt.Println("  imgannot ui <image>                                 Launch the desktop editor (build with -tags fyne)")
}

func main() {
	defer crash.Recover("")

	cfg, cfgErr := config.Load()
	app.Logger(cfg.Logging)
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("config not loaded, using defaults", slog.Any("err", cfgErr))
	}

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) < 2 {
		usage()
		return
	}
	err := run(context.Background(), cli{cfg: cfg, log: l, out: os.Stdout, in: os.Stdin}, args[1:])
	var ue usageError
	switch {
	case err == nil:
	case errors.As(err, &ue):
		fmt.Println(ue.Error())
		usage()
		os.Exit(2)
	default:
		l.Error("command failed", slog.String("cmd", args[1]), slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
