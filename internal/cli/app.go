// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// app.go - Shared application wiring for CLI command handlers.
//
// Every command needs the same stack: config, store, repository, API
// client, optional search index, and a session. NewApp builds it once
// so handlers stay small.

package cli

import (
	"fmt"
	"log"
	"strings"

	"github.com/chatlore/chatlore-tui/internal/api"
	"github.com/chatlore/chatlore-tui/internal/config"
	"github.com/chatlore/chatlore-tui/internal/index"
	"github.com/chatlore/chatlore-tui/internal/model"
	"github.com/chatlore/chatlore-tui/internal/repo"
	"github.com/chatlore/chatlore-tui/internal/session"
	"github.com/chatlore/chatlore-tui/internal/store"
)

// App bundles the wired dependencies shared by all command handlers.
type App struct {
	Config  *config.Config
	Store   *store.Store
	Repo    *repo.Repository
	Client  *api.Client
	Index   *index.Index
	Session *session.Session
}

// NewApp loads configuration and wires the full application stack.
// The caller must Close the app when done.
func NewApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, WrapError(err, "failed to load config")
	}
	return NewAppWithConfig(cfg)
}

// NewAppWithConfig wires the application stack from an explicit config.
func NewAppWithConfig(cfg *config.Config) (*App, error) {
	if err := config.EnsureAppDir(); err != nil {
		return nil, WrapError(err, "failed to create app directory")
	}

	storePath, err := cfg.StorePath()
	if err != nil {
		return nil, err
	}

	var st *store.Store
	if cfg.Store.Encrypted {
		pass, perr := ReadPassphrase("Store passphrase: ")
		if perr != nil {
			return nil, WrapError(perr, "failed to read passphrase")
		}
		st, err = store.OpenSealed(storePath, pass)
	} else {
		st, err = store.Open(storePath)
	}
	if err != nil {
		return nil, WrapError(err, "failed to open store")
	}

	client := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.RequestTimeout(),
	})

	r := repo.New(st)

	var idx *index.Index
	opts := &session.Options{}
	if cfg.Index.Enabled {
		indexPath, perr := cfg.IndexPath()
		if perr == nil {
			idx, perr = index.Open(indexPath)
		}
		if perr != nil {
			// The index is a convenience layer; never fatal.
			log.Printf("warning: search index unavailable: %v", perr)
			idx = nil
		} else {
			opts.Index = idx
		}
	}

	sess, err := session.New(r, client, opts)
	if err != nil {
		if idx != nil {
			idx.Close()
		}
		return nil, WrapError(err, "failed to load chats")
	}

	return &App{
		Config:  cfg,
		Store:   st,
		Repo:    r,
		Client:  client,
		Index:   idx,
		Session: sess,
	}, nil
}

// Close releases the app's resources. The store itself persists on
// every write and needs no explicit shutdown.
func (a *App) Close() {
	if a.Index != nil {
		a.Index.Close()
	}
}

// ResolveChat finds a chat by ID, ID prefix, or case-insensitive name
// match. An empty ref resolves to the currently selected chat.
func (a *App) ResolveChat(ref string) (*model.Chat, error) {
	if ref == "" {
		if c := a.Session.Selected(); c != nil {
			return c, nil
		}
		return nil, session.ErrNoChatSelected
	}

	chats := a.Session.Chats()

	for _, c := range chats {
		if c.ID == ref {
			return c, nil
		}
	}
	for _, c := range chats {
		if strings.EqualFold(c.Name, ref) {
			return c, nil
		}
	}

	var prefixed []*model.Chat
	for _, c := range chats {
		if strings.HasPrefix(c.ID, ref) {
			prefixed = append(prefixed, c)
		}
	}
	switch len(prefixed) {
	case 1:
		return prefixed[0], nil
	case 0:
		return nil, fmt.Errorf("%w: %s", repo.ErrChatNotFound, ref)
	default:
		return nil, fmt.Errorf("chat reference %q is ambiguous (%d matches)", ref, len(prefixed))
	}
}

// SelectChatRef resolves a ref and makes it the session's selected chat.
func (a *App) SelectChatRef(ref string) (*model.Chat, error) {
	c, err := a.ResolveChat(ref)
	if err != nil {
		return nil, err
	}
	if sel := a.Session.Selected(); sel == nil || sel.ID != c.ID {
		if err := a.Session.SelectChat(c.ID); err != nil {
			return nil, err
		}
	}
	return c, nil
}
