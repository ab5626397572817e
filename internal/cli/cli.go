// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for chatlore.
package cli

import (
	"fmt"
	"os"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdUpload
	CmdChats
	CmdShow
	CmdAnalyze
	CmdSensitive
	CmdSearch
	CmdTopics
	CmdExport
	CmdDelete
	CmdConfig
	CmdVersion
	CmdHelp
)

const usageText = `chatlore - chat transcript analysis from your terminal

Chatlore uploads exported chat transcripts to a local processing backend,
caches the parsed messages on disk, and gives you security analysis,
sensitive data detection, and search over your chats.

Usage:
  chatlore                     Start the interactive TUI
  chatlore upload <file>       Upload a transcript file
  chatlore chats               List cached chats
  chatlore show [chat]         Print a chat transcript
  chatlore analyze [chat]      Run (or re-run) security analysis
  chatlore sensitive [chat]    Show detected sensitive data
  chatlore search [query]      Search the selected chat (REPL without query)
  chatlore topics [chat]       Group a chat's messages into topics
  chatlore export [chat]       Export a chat (--format md|json|redacted)
  chatlore delete <chat>       Delete a chat and all cached data
  chatlore config              Show or set configuration
  chatlore version             Print version information
  chatlore help                Show this help

Chats are referenced by name prefix or ID prefix; commands that take an
optional [chat] default to the most recently uploaded one.

Common flags:
  --json          Machine-readable JSON output
  --local         Use the offline index for search
  --limit N       Cap result counts
  --redacted      Show redacted content (show, export)
  --yes           Skip confirmation prompts (delete)

Examples:
  chatlore upload ~/Downloads/whatsapp-family.txt
  chatlore analyze
  chatlore search "dinner plans"
  chatlore search --local pizza
  chatlore export --format redacted
  chatlore config set api.base_url http://localhost:8000
`

// Parse inspects os.Args and returns the command plus its remaining
// arguments. Unknown commands fall through to help with a usage error.
func Parse() (Command, []string) {
	args := os.Args[1:]
	if len(args) == 0 {
		return CmdTUI, nil
	}

	switch args[0] {
	case "upload":
		return CmdUpload, args[1:]
	case "chats", "list", "ls":
		return CmdChats, args[1:]
	case "show", "cat":
		return CmdShow, args[1:]
	case "analyze", "analyse":
		return CmdAnalyze, args[1:]
	case "sensitive":
		return CmdSensitive, args[1:]
	case "search":
		return CmdSearch, args[1:]
	case "topics":
		return CmdTopics, args[1:]
	case "export":
		return CmdExport, args[1:]
	case "delete", "rm":
		return CmdDelete, args[1:]
	case "config":
		return CmdConfig, args[1:]
	case "version", "--version", "-v":
		return CmdVersion, args[1:]
	case "help", "--help", "-h":
		return CmdHelp, args[1:]
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		return CmdHelp, nil
	}
}

// PrintUsage writes the usage text to stdout.
func PrintUsage() {
	fmt.Print(usageText)
}

// HandleVersion prints version information.
func HandleVersion(args []string) {
	p := NewArgParser(args)
	if p.BoolFlag("json") {
		OutputJSON("version", map[string]string{
			"version": Version,
			"commit":  GitCommit,
			"built":   BuildDate,
		})
		return
	}
	fmt.Printf("chatlore %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}

// HandleHelp prints the usage text.
func HandleHelp(args []string) {
	PrintUsage()
}
