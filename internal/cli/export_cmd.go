// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// export_cmd.go - Export a chat to a file.

package cli

import (
	"context"
	"fmt"

	"github.com/chatlore/chatlore-tui/internal/api"
	"github.com/chatlore/chatlore-tui/internal/export"
)

var exportFormats = []string{"md", "json", "redacted"}

// HandleExport writes a chat transcript to disk in the requested format.
// The redacted format fetches redacted content from the backend first.
//
// Usage: chatlore export [chat] [--format md|json|redacted] [--output DIR]
//
//	[--no-analysis] [--json]
func HandleExport(args []string) error {
	p := NewArgParser(args)
	jsonMode := p.BoolFlag("json")

	format := p.Flag("format")
	if format == "" {
		format = "md"
	}

	app, err := NewApp()
	if err != nil {
		return err
	}
	defer app.Close()

	chat, err := app.SelectChatRef(p.Positional(0))
	if err != nil {
		return err
	}

	ce := &export.ChatExport{
		Chat:      chat,
		Messages:  app.Session.Messages(),
		Analysis:  app.Session.Analysis(),
		Sensitive: app.Session.SensitiveItems(),
	}

	opts := export.DefaultOptions()
	if dir := p.Flag("output"); dir != "" {
		opts.OutputDir = dir
	}
	if p.BoolFlag("no-analysis") {
		opts.IncludeAnalysis = false
	}

	var exporter export.Exporter
	switch format {
	case "md", "markdown":
		exporter = export.NewMarkdownExporter(opts)
	case "json":
		exporter = export.NewJSONExporter(opts)
	case "redacted":
		redacted, rerr := app.Client.RedactedMessages(
			context.Background(), api.FromModels(ce.Messages))
		if rerr != nil {
			return NewCommandError("export", "failed to fetch redacted transcript", rerr)
		}
		ce.Redacted = redacted
		exporter = export.NewRedactedExporter(opts)
	default:
		return ErrUnsupportedFormat(format, exportFormats)
	}

	path, err := export.ExportToFile(ce, exporter, opts)
	if err != nil {
		return NewCommandError("export", "write failed", err)
	}

	if jsonMode {
		OutputJSON("export", ExportData{ChatID: chat.ID, Format: format, Path: path})
		return nil
	}
	fmt.Printf("%s Exported %q to %s\n", SuccessStyle.Render("[OK]"), chat.Name, path)
	return nil
}
