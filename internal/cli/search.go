// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// search.go - Semantic and local full-text search over a chat.
//
// With a query argument a single search runs and prints results. With
// no query an interactive prompt loops until Ctrl+C or Ctrl+D.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/chatlore/chatlore-tui/internal/api"
	"github.com/chatlore/chatlore-tui/internal/session"
	"github.com/chatlore/chatlore-tui/internal/util"
)

// HandleSearch searches the selected chat's messages.
//
// Usage: chatlore search [chat] [--query <text>] [--local] [--explain]
//
//	[--limit N] [--min-similarity F] [--json]
func HandleSearch(args []string) error {
	p := NewArgParser(args)
	jsonMode := p.BoolFlag("json")

	app, err := NewApp()
	if err != nil {
		return err
	}
	defer app.Close()

	// A lone positional is the query when it doesn't resolve to a chat.
	chatRef := ""
	query := p.Flag("query")
	if pos := p.Positional(0); pos != "" {
		if _, rerr := app.ResolveChat(pos); rerr == nil {
			chatRef = pos
			if query == "" {
				query = p.Positional(1)
			}
		} else if query == "" {
			query = pos
		}
	}

	chat, err := app.SelectChatRef(chatRef)
	if err != nil {
		return err
	}
	if len(app.Session.Messages()) == 0 {
		return session.ErrNoMessages
	}

	runOne := func(q string) error {
		return runSearch(app, q, p, jsonMode)
	}

	if query != "" {
		return runOne(query)
	}

	if jsonMode {
		return ErrMissingArgument("query", "chatlore search --query \"dinner plans\" --json")
	}

	// Interactive loop.
	fmt.Printf("Searching %q. Ctrl+C to exit.\n", chat.Name)
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		input, err := line.Prompt(PromptStyle.Render("search> "))
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		if err := runOne(input); err != nil {
			DisplayError(err, false)
		}
	}
}

func runSearch(app *App, query string, p *ArgParser, jsonMode bool) error {
	limit := p.IntFlag("limit", 10)

	if p.BoolFlag("local") {
		return runLocalSearch(app, query, limit, jsonMode)
	}

	req := api.SemanticSearchRequest{
		Query:           query,
		Messages:        api.FromModels(app.Session.Messages()),
		Limit:           limit,
		WithExplanation: p.BoolFlag("explain"),
	}
	if f, ok := p.FloatFlag("min-similarity"); ok {
		req.MinSimilarity = f
	}

	results, err := app.Client.SemanticSearch(context.Background(), req)
	if err != nil {
		return NewCommandError("search", "semantic search failed", err)
	}

	if jsonMode {
		out := make([]SearchResultData, 0, len(results))
		for _, r := range results {
			out = append(out, SearchResultData{
				Sender:      r.Message.Sender,
				Content:     r.Message.Content,
				Timestamp:   r.Message.Timestamp,
				Similarity:  r.Similarity,
				Before:      r.Context.Before,
				After:       r.Context.After,
				Explanation: r.Explanation,
			})
		}
		OutputJSON("search", out)
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	for i, r := range results {
		fmt.Printf("%d. %s %s: %s  %s\n",
			i+1,
			TimestampStyle.Render(r.Message.Timestamp),
			SenderStyle.Render(r.Message.Sender),
			util.TruncateRunes(r.Message.Content, 80),
			TimestampStyle.Render(fmt.Sprintf("(%.0f%%)", r.Similarity*100)))
		for _, b := range r.Context.Before {
			fmt.Printf("     ^ %s\n", TimestampStyle.Render(util.TruncateRunes(b, 70)))
		}
		for _, a := range r.Context.After {
			fmt.Printf("     v %s\n", TimestampStyle.Render(util.TruncateRunes(a, 70)))
		}
		if r.Explanation != "" {
			fmt.Printf("     %s\n", r.Explanation)
		}
	}
	return nil
}

// runLocalSearch queries the on-disk FTS index instead of the backend.
func runLocalSearch(app *App, query string, limit int, jsonMode bool) error {
	if app.Index == nil {
		return NewCommandError("search", "local search index is disabled", nil)
	}

	selected := app.Session.Selected()
	chatID := ""
	if selected != nil {
		chatID = selected.ID
	}

	hits, err := app.Index.Search(query, chatID, limit)
	if err != nil {
		return NewCommandError("search", "local search failed", err)
	}

	if jsonMode {
		out := make([]SearchResultData, 0, len(hits))
		for _, h := range hits {
			out = append(out, SearchResultData{
				Sender:    h.Sender,
				Content:   h.Content,
				Timestamp: h.Timestamp.Format(time.RFC3339),
			})
		}
		OutputJSON("search", out)
		return nil
	}

	if len(hits) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	for i, h := range hits {
		fmt.Printf("%d. %s %s: %s\n",
			i+1,
			TimestampStyle.Render(h.Timestamp.Format("2006-01-02 15:04")),
			SenderStyle.Render(h.Sender),
			util.TruncateRunes(h.Content, 80))
	}
	return nil
}
