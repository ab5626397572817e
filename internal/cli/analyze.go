// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// analyze.go - Run or display the security analysis for a chat.

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/chatlore/chatlore-tui/internal/export"
	"github.com/chatlore/chatlore-tui/internal/model"
)

// HandleAnalyze runs a fresh security analysis against the backend and
// renders the report. With --cached the stored result is shown without
// contacting the server.
//
// Usage: chatlore analyze [chat] [--cached] [--json]
func HandleAnalyze(args []string) error {
	p := NewArgParser(args)
	jsonMode := p.BoolFlag("json")

	app, err := NewApp()
	if err != nil {
		return err
	}
	defer app.Close()

	chat, err := app.SelectChatRef(p.Positional(0))
	if err != nil {
		return err
	}

	if !p.BoolFlag("cached") {
		if !jsonMode {
			fmt.Printf("Analyzing %q...\n", chat.Name)
		}
		if err := app.Session.RefreshAnalysis(context.Background()); err != nil {
			return NewCommandError("analyze", "analysis failed", err)
		}
	}

	analysis := app.Session.Analysis()
	if analysis == nil {
		return NewCommandError("analyze", "no cached analysis for this chat, run without --cached", nil)
	}
	sensitive := app.Session.SensitiveItems()

	if jsonMode {
		OutputJSON("analyze", AnalysisData{
			ChatID:          chat.ID,
			SecurityScore:   analysis.SecurityScore,
			Grade:           analysis.ScoreGrade(),
			Findings:        len(analysis.Findings),
			Recommendations: len(analysis.Recommendations),
			SensitiveData:   sensitiveByCategory(sensitive),
		})
		return nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", chat.Name))
	export.WriteSecurityReport(&sb, analysis, sensitive)

	fmt.Print(renderMarkdown(sb.String()))
	return nil
}

// renderMarkdown renders a markdown report for the terminal, falling
// back to the raw text when rendering is unavailable.
func renderMarkdown(md string) string {
	if !IsOutputTTY() {
		return md
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func sensitiveByCategory(items []*model.SensitiveDataItem) map[string][]string {
	if len(items) == 0 {
		return nil
	}
	out := make(map[string][]string, len(items))
	for _, item := range items {
		out[item.Type] = append(out[item.Type], item.Values()...)
	}
	return out
}
