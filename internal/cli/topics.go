// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// topics.go - Group a chat's messages into topic clusters.

package cli

import (
	"context"
	"fmt"

	"github.com/chatlore/chatlore-tui/internal/api"
	"github.com/chatlore/chatlore-tui/internal/session"
	"github.com/chatlore/chatlore-tui/internal/util"
)

// HandleTopics asks the backend to cluster the chat's messages into
// topics and prints one section per cluster.
//
// Usage: chatlore topics [chat] [--json]
func HandleTopics(args []string) error {
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

	msgs := app.Session.Messages()
	if len(msgs) == 0 {
		return session.ErrNoMessages
	}

	if !jsonMode {
		fmt.Printf("Clustering %q into topics...\n", chat.Name)
	}

	clusters, err := app.Client.TopicClusters(context.Background(), api.FromModels(msgs))
	if err != nil {
		return NewCommandError("topics", "clustering failed", err)
	}

	if jsonMode {
		OutputJSON("topics", clusters)
		return nil
	}

	if len(clusters) == 0 {
		fmt.Println("No topics found.")
		return nil
	}

	for _, c := range clusters {
		header := fmt.Sprintf("Topic %d (%d messages)", c.TopicID, len(c.Messages))
		fmt.Println(SectionStyle.Render(header))
		if c.Summary != "" {
			fmt.Printf("  %s\n", c.Summary)
		}
		for i, m := range c.Messages {
			if i >= 3 {
				fmt.Printf("  %s\n", TimestampStyle.Render(fmt.Sprintf("... and %d more", len(c.Messages)-i)))
				break
			}
			fmt.Printf("  %s: %s\n",
				SenderStyle.Render(m.Sender),
				util.TruncateRunes(m.Content, 70))
		}
	}
	return nil
}
