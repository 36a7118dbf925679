package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hsbacot/mercat/catalog"
	"github.com/hsbacot/mercat/client"
)

type itemEntry struct {
	item     client.Item
	imageURL string
}

func (i itemEntry) Title() string {
	return fmt.Sprintf("%s  #%d", i.item.Name, i.item.ID)
}

func (i itemEntry) Description() string {
	category := i.item.Category
	if category == "" {
		category = "uncategorized"
	}
	return fmt.Sprintf("%s • 🖼 %s", category, i.imageURL)
}

func (i itemEntry) FilterValue() string {
	return i.item.Name + " " + i.item.Category
}

type itemListModel struct {
	list      list.Model
	deletable bool
	source    catalog.Source
	query     string
}

func newItemList(width, height int) itemListModel {
	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(1)

	l := list.New(nil, delegate, width, height)
	l.Title = "🛍 Catalog"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false) // search goes to the server
	l.SetShowHelp(false)
	l.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		MarginLeft(2)

	return itemListModel{list: l, deletable: true}
}

// setView replaces the list contents with a rendered view
func (m itemListModel) setView(v catalog.View, query string, imageURL func(string) string) itemListModel {
	entries := make([]list.Item, len(v.Items))
	for i, item := range v.Items {
		entries[i] = itemEntry{item: item, imageURL: imageURL(item.ImageName)}
	}
	m.list.SetItems(entries)
	m.deletable = v.Deletable
	m.source = v.Source
	m.query = query

	if v.Source == catalog.SourceSearch {
		m.list.Title = fmt.Sprintf("🔍 Search %q (%d results)", query, len(v.Items))
	} else {
		m.list.Title = fmt.Sprintf("🛍 Catalog (%d items)", len(v.Items))
	}
	return m
}

// selected returns the highlighted item if any
func (m itemListModel) selected() (client.Item, bool) {
	entry, ok := m.list.SelectedItem().(itemEntry)
	if !ok {
		return client.Item{}, false
	}
	return entry.item, true
}

func (m itemListModel) Update(msg tea.Msg) (itemListModel, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.list.SetSize(msg.Width, msg.Height-4)
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m itemListModel) View() string {
	return m.list.View()
}
