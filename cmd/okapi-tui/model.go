// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/okapisearch/okapi"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#382110")).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999")).Padding(0, 1)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#D93025")).Padding(0, 1)
)

// resultItem adapts an okapi.Result to list.DefaultItem.
type resultItem struct {
	okapi.Result
}

func (r resultItem) Title() string       { return r.CallerKey }
func (r resultItem) Description() string { return fmt.Sprintf("score %.4f", r.Score) }
func (r resultItem) FilterValue() string { return r.CallerKey }

// searchResultMsg carries a completed search back onto the Update loop.
type searchResultMsg struct {
	results []okapi.Result
	err     error
}

type model struct {
	ctx    context.Context
	engine *okapi.Engine

	input textinput.Model
	list  list.Model

	status string
	err    error
}

func newModel(ctx context.Context, engine *okapi.Engine) model {
	ti := textinput.New()
	ti.Placeholder = "search query"
	ti.Focus()
	ti.CharLimit = 256

	delegate := list.NewDefaultDelegate()
	l := list.New(nil, delegate, 0, 0)
	l.Title = "Results"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	return model{ctx: ctx, engine: engine, input: ti, list: l}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) search(query string) tea.Cmd {
	return func() tea.Msg {
		if query == "" {
			return searchResultMsg{}
		}
		results, err := m.engine.Search(m.ctx, query, 25)
		return searchResultMsg{results: results, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 4
		m.list.SetSize(msg.Width, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			query := m.input.Value()
			m.status = fmt.Sprintf("searching %q...", query)
			m.err = nil
			return m, m.search(query)
		}

	case searchResultMsg:
		m.err = msg.err
		if msg.err != nil {
			if errors.Is(msg.err, okapi.ErrEmptyIndex) {
				m.status = "index is empty"
			} else {
				m.status = ""
			}
			m.list.SetItems(nil)
			return m, nil
		}
		items := make([]list.Item, len(msg.results))
		for i, r := range msg.results {
			items[i] = resultItem{r}
		}
		m.list.SetItems(items)
		m.status = fmt.Sprintf("%d results", len(msg.results))
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	header := headerStyle.Render("okapi search") + "\n" + m.input.View() + "\n"

	var footer string
	switch {
	case m.err != nil:
		footer = errStyle.Render(m.err.Error())
	case m.status != "":
		footer = statusStyle.Render(m.status)
	default:
		footer = statusStyle.Render("enter a query, press enter to search, esc to quit")
	}

	return header + m.list.View() + "\n" + footer
}
