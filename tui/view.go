package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hsbacot/mercat/catalog"
	"github.com/hsbacot/mercat/ui"
)

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).MarginLeft(2)
)

// View renders the UI based on the current state
func (m Model) View() string {
	var b strings.Builder

	switch m.state {
	case stateAdding:
		b.WriteString("\n" + titleStyle.Render("New listing") + "\n\n")
		if m.addForm != nil {
			b.WriteString(m.addForm.View())
		}

	case stateConfirmDelete:
		b.WriteString("\n" + m.list.View() + "\n")
		if m.deleteTarget != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Delete %s? (y/n)", ui.ItemLabel(*m.deleteTarget))))
		}

	case stateSearchInput:
		b.WriteString("\n" + m.list.View() + "\n")
		b.WriteString(infoStyle.Render(m.search.View()))

	default:
		b.WriteString("\n" + m.list.View())
	}

	b.WriteString("\n" + m.statusLine() + "\n")
	b.WriteString(helpStyle.Render(m.helpLine()) + "\n")
	return b.String()
}

func (m Model) statusLine() string {
	switch {
	case m.pending > 0:
		return fmt.Sprintf("%s Working...", spinnerStyle.Render(m.spinner.View()))
	case m.err != nil:
		return errorStyle.Render(fmt.Sprintf("✗ %v", m.err))
	case m.status != "":
		return successStyle.Render("✓ " + m.status)
	default:
		return ""
	}
}

func (m Model) helpLine() string {
	switch m.state {
	case stateSearchInput:
		return "enter search • esc cancel"
	case stateConfirmDelete:
		return "y delete • n cancel"
	case stateAdding:
		return "enter next • esc cancel"
	}
	if m.list.source == catalog.SourceSearch {
		return "/ search • a add • r show catalog • q quit"
	}
	return "/ search • a add • d delete • r reload • q quit"
}
