// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sensitive.go - Display detected sensitive data for a chat.

package cli

import (
	"context"
	"fmt"
)

// HandleSensitive shows the sensitive data items detected in a chat,
// grouped by category. Cached results are shown when present; use
// --refresh to re-run detection against the backend.
//
// Usage: chatlore sensitive [chat] [--refresh] [--json]
func HandleSensitive(args []string) error {
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

	items := app.Session.SensitiveItems()
	if p.BoolFlag("refresh") || len(items) == 0 {
		if !jsonMode {
			fmt.Printf("Scanning %q for sensitive data...\n", chat.Name)
		}
		if err := app.Session.RefreshAnalysis(context.Background()); err != nil {
			return NewCommandError("sensitive", "detection failed", err)
		}
		items = app.Session.SensitiveItems()
	}

	if jsonMode {
		OutputJSON("sensitive", sensitiveByCategory(items))
		return nil
	}

	if len(items) == 0 {
		fmt.Printf("%s No sensitive data detected in %q\n",
			SuccessStyle.Render("[OK]"), chat.Name)
		return nil
	}

	fmt.Println(TitleStyle.Render(fmt.Sprintf("Sensitive Data: %s", chat.Name)))
	for _, item := range items {
		fmt.Println(SectionStyle.Render(item.Type))
		for _, v := range item.Values() {
			fmt.Printf("  %s %s\n", WarningStyle.Render("-"), v)
		}
	}
	return nil
}
