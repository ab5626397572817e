// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// upload.go - Upload a WhatsApp transcript export for processing.

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// HandleUpload reads a transcript file, sends it to the processing
// backend, and stores the parsed chat locally.
//
// Usage: chatlore upload <file> [--name <name>] [--json]
func HandleUpload(args []string) error {
	p := NewArgParser(args)
	jsonMode := p.BoolFlag("json")

	path := p.Positional(0)
	if path == "" {
		return ErrMissingArgument("file", "chatlore upload chat.txt --name \"Family Group\"")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return NewCommandError("upload", "failed to read transcript file", err)
	}

	name := p.Flag("name")
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	app, err := NewApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if !jsonMode {
		fmt.Printf("Uploading %s for processing...\n", filepath.Base(path))
	}

	chat, err := app.Session.UploadChat(context.Background(), name, string(data))
	if err != nil {
		return NewCommandError("upload", "processing failed", err)
	}

	if jsonMode {
		OutputJSON("upload", UploadData{
			ChatID:       chat.ID,
			Name:         chat.Name,
			MessageCount: chat.MessageCount,
		})
		return nil
	}

	fmt.Printf("%s Uploaded %q (%d messages)\n",
		SuccessStyle.Render("[OK]"), chat.Name, chat.MessageCount)
	fmt.Printf("  ID: %s\n", chat.ID)
	return nil
}
