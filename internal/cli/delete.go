// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// delete.go - Delete a chat and all of its derived data.

package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// HandleDelete removes a chat along with its messages, analysis,
// sensitive data, and context blobs. Prompts for confirmation unless
// --yes is given.
//
// Usage: chatlore delete <chat> [--yes]
func HandleDelete(args []string) error {
	p := NewArgParser(args)

	ref := p.Positional(0)
	if ref == "" {
		return ErrMissingArgument("chat", "chatlore delete \"Family Group\" --yes")
	}

	app, err := NewApp()
	if err != nil {
		return err
	}
	defer app.Close()

	chat, err := app.ResolveChat(ref)
	if err != nil {
		return err
	}

	if !p.BoolFlag("yes") {
		fmt.Printf("Delete %q (%d messages) and all derived data? [y/N] ",
			chat.Name, chat.MessageCount)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := app.Session.DeleteChat(chat.ID); err != nil {
		return NewCommandError("delete", "failed to delete chat", err)
	}

	fmt.Printf("%s Deleted %q\n", SuccessStyle.Render("[OK]"), chat.Name)
	if next := app.Session.Selected(); next != nil {
		fmt.Printf("  Selected chat is now %q\n", next.Name)
	}
	return nil
}
