// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// show.go - Print a chat transcript to the terminal.

package cli

import (
	"context"
	"fmt"

	"github.com/chatlore/chatlore-tui/internal/api"
	"github.com/chatlore/chatlore-tui/internal/model"
)

// HandleShow prints the transcript of a chat. With --redacted the
// backend redactor rewrites sensitive content before display.
//
// Usage: chatlore show [chat] [--limit N] [--redacted]
func HandleShow(args []string) error {
	p := NewArgParser(args)

	app, err := NewApp()
	if err != nil {
		return err
	}
	defer app.Close()

	chat, err := app.SelectChatRef(p.Positional(0))
	if err != nil {
		return err
	}

	msgs := app.Session.Messages()
	if len(msgs) == 0 {
		fmt.Printf("Chat %q has no messages.\n", chat.Name)
		return nil
	}

	limit := p.IntFlag("limit", 0)
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}

	fmt.Println(TitleStyle.Render(chat.Name))

	if p.BoolFlag("redacted") || (app.Config.UI.RedactByDefault && !p.BoolFlag("raw")) {
		redacted, err := app.Client.RedactedMessages(context.Background(), api.FromModels(msgs))
		if err != nil {
			return NewCommandError("show", "failed to fetch redacted transcript", err)
		}
		for _, rm := range redacted {
			printTranscriptLine(rm.Original.Sender, rm.RedactedContent, rm.Original.Timestamp)
		}
		return nil
	}

	for _, m := range msgs {
		body := m.Content
		if body == "" && m.Type != model.TypeText {
			body = m.Type.DisplayLabel()
		}
		printTranscriptLine(m.Sender, body, m.Timestamp.Format("2006-01-02 15:04"))
	}
	return nil
}

func printTranscriptLine(sender, content, timestamp string) {
	fmt.Printf("%s %s: %s\n",
		TimestampStyle.Render(timestamp),
		SenderStyle.Render(sender),
		content)
}
