// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chats.go - List stored chats, newest upload first.

package cli

import (
	"fmt"

	"github.com/chatlore/chatlore-tui/internal/util"
)

// HandleChats lists all stored chats.
//
// Usage: chatlore chats [--json]
func HandleChats(args []string) error {
	p := NewArgParser(args)
	jsonMode := p.BoolFlag("json")

	app, err := NewApp()
	if err != nil {
		return err
	}
	defer app.Close()

	chats := app.Session.Chats()

	if jsonMode {
		out := make([]ChatData, 0, len(chats))
		for _, c := range chats {
			out = append(out, ChatData{
				ID:           c.ID,
				Name:         c.Name,
				UploadDate:   c.UploadDate.UTC().Format("2006-01-02T15:04:05Z07:00"),
				MessageCount: c.MessageCount,
			})
		}
		OutputJSON("chats", out)
		return nil
	}

	if len(chats) == 0 {
		fmt.Println("No chats stored yet. Upload one with: chatlore upload <file>")
		return nil
	}

	fmt.Println(TitleStyle.Render("Stored Chats"))
	selected := app.Session.Selected()
	for _, c := range chats {
		marker := "  "
		if selected != nil && selected.ID == c.ID {
			marker = SuccessStyle.Render("* ")
		}
		fmt.Printf("%s%s  %s  %s\n",
			marker,
			util.PadRight(util.TruncateRunes(c.Name, 32), 34),
			TimestampStyle.Render(c.UploadDate.Format("2006-01-02 15:04")),
			fmt.Sprintf("%d messages", c.MessageCount))
		fmt.Printf("    %s\n", TimestampStyle.Render(c.ID))
	}
	return nil
}
