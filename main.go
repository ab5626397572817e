// chatlore - a terminal interface for chat transcript analysis.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chatlore/chatlore-tui/internal/cli"
	"github.com/chatlore/chatlore-tui/internal/ui"
	"github.com/chatlore/chatlore-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI()
	case cli.CmdUpload:
		exitOnError(cli.HandleUpload(args), args)
	case cli.CmdChats:
		exitOnError(cli.HandleChats(args), args)
	case cli.CmdShow:
		exitOnError(cli.HandleShow(args), args)
	case cli.CmdAnalyze:
		exitOnError(cli.HandleAnalyze(args), args)
	case cli.CmdSensitive:
		exitOnError(cli.HandleSensitive(args), args)
	case cli.CmdSearch:
		exitOnError(cli.HandleSearch(args), args)
	case cli.CmdTopics:
		exitOnError(cli.HandleTopics(args), args)
	case cli.CmdExport:
		exitOnError(cli.HandleExport(args), args)
	case cli.CmdDelete:
		exitOnError(cli.HandleDelete(args), args)
	case cli.CmdConfig:
		exitOnError(cli.HandleConfig(args), args)
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp(args)
	default:
		runTUI()
	}
}

// exitOnError displays a command error and exits with its mapped code.
func exitOnError(err error, args []string) {
	if err == nil {
		return
	}
	jsonMode := cli.NewArgParser(args).BoolFlag("json")
	cli.HandleErrorAndExit(err, jsonMode)
}

// runTUI starts the full-screen terminal interface.
func runTUI() {
	app, err := cli.NewApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	theme := styles.NewTheme()
	m := ui.New(theme, app.Session, app.Client)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Repaint whenever the session publishes new state.
	app.Session.Subscribe(func() {
		p.Send(ui.SessionChanged())
	})

	// Pick up rewrites of the store document by another chatlore process.
	// Session.Reload publishes through the subscriber above, and the
	// watcher is a convenience: failing to start it is not fatal.
	if watcher, err := app.Store.Watch(func() {
		if err := app.Session.Reload(); err != nil {
			log.Printf("reload after external store change failed: %v", err)
		}
	}); err != nil {
		log.Printf("store watcher unavailable: %v", err)
	} else {
		defer watcher.Close()
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running chatlore: %v\n", err)
		os.Exit(1)
	}
}
