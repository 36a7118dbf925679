package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/hsbacot/mercat/client"
	"github.com/hsbacot/mercat/ui"
)

type reloadRequestMsg struct{}

// Init starts the spinner and requests the first catalog load
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg { return reloadRequestMsg{} },
	)
}

// Update handles messages and state transitions
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
		if m.state == stateAdding {
			cmds = append(cmds, m.updateForm(msg))
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case reloadRequestMsg:
		m.reload = true
		cmds = append(cmds, m.runEffects())

	case reloadCompleteMsg:
		m.pending--
		if err := m.controller.ApplyReload(msg.snapshot, msg.err); err != nil {
			m.fail("reload", err)
			break
		}
		m.succeed(fmt.Sprintf("Loaded %d items", len(msg.snapshot)))
		// load completed: lower the flag so the next create can raise it
		m.reload = false
		cmds = append(cmds, m.runEffects())

	case searchCompleteMsg:
		m.pending--
		if err := m.controller.ApplySearch(msg.keyword, msg.snapshot, msg.err); err != nil {
			m.fail("search", err)
			break
		}
		if len(msg.snapshot) == 0 {
			m.succeed(fmt.Sprintf("No items match %q", msg.keyword))
		} else {
			m.succeed(fmt.Sprintf("Found %d items", len(msg.snapshot)))
		}

	case deleteCompleteMsg:
		m.pending--
		if err := m.controller.ApplyDelete(msg.id, msg.resp, msg.err); err != nil {
			m.fail("delete", err)
			break
		}
		m.succeed(fmt.Sprintf("Deleted item #%d", msg.id))

	case createCompleteMsg:
		m.pending--
		if msg.err != nil {
			m.logger.Error("POST error", "error", msg.err)
			m.fail("create", msg.err)
			break
		}
		m.succeed(msg.ack.Message)
		m.reload = true
		cmds = append(cmds, m.runEffects())

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		cmds = append(cmds, m.handleKey(msg))

	default:
		if m.state == stateAdding {
			cmds = append(cmds, m.updateForm(msg))
		}
	}

	m.syncList()
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.state {

	case stateSearchInput:
		switch msg.String() {
		case "enter":
			keyword := m.search.Value()
			m.search.Blur()
			m.state = stateBrowsing
			return m.searchItems(keyword)
		case "esc":
			m.search.Blur()
			m.state = stateBrowsing
			return nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return cmd

	case stateConfirmDelete:
		target := m.deleteTarget
		switch msg.String() {
		case "y", "enter":
			m.state = stateBrowsing
			m.deleteTarget = nil
			if target == nil {
				return nil
			}
			return m.removeItem(target.ID)
		case "n", "esc", "q":
			m.state = stateBrowsing
			m.deleteTarget = nil
		}
		return nil

	case stateAdding:
		if msg.String() == "esc" {
			m.state = stateBrowsing
			m.addForm = nil
			m.succeed("Add cancelled")
			return nil
		}
		return m.updateForm(msg)
	}

	switch msg.String() {
	case "q":
		return tea.Quit
	case "/":
		m.state = stateSearchInput
		m.search.SetValue("")
		return m.search.Focus()
	case "r":
		// an explicit reload fires even when the flag is already up
		m.reloadEffect.Reset()
		m.reload = true
		return m.runEffects()
	case "a":
		m.addValues = &ui.ItemFormValues{}
		m.addForm = ui.NewItemForm(m.addValues)
		m.state = stateAdding
		return m.addForm.Init()
	case "d":
		if !m.list.deletable {
			m.succeed("Delete is only available in the full catalog (press r)")
			return nil
		}
		if item, ok := m.list.selected(); ok {
			m.deleteTarget = &item
			m.state = stateConfirmDelete
		}
		return nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return cmd
}

func (m *Model) updateForm(msg tea.Msg) tea.Cmd {
	if m.addForm == nil {
		return nil
	}

	model, cmd := m.addForm.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		m.addForm = f
	}

	switch m.addForm.State {
	case huh.StateCompleted:
		values := *m.addValues
		m.state = stateBrowsing
		m.addForm = nil
		return tea.Batch(cmd, m.createItem(values))
	case huh.StateAborted:
		m.state = stateBrowsing
		m.addForm = nil
		m.succeed("Add cancelled")
	}
	return cmd
}

// runEffects fires the reload effect when the reload flag changed
func (m *Model) runEffects() tea.Cmd {
	var cmd tea.Cmd
	m.reloadEffect.Run(m.reload, func() {
		if m.reload {
			cmd = m.fetchCatalog()
		}
	})
	return cmd
}

func (m *Model) syncList() {
	if !m.sync.dirty {
		return
	}
	m.list = m.list.setView(m.sync.view, m.store.Query().Name, m.backend.ImageURL)
	m.sync.dirty = false
}

func (m *Model) fail(op string, err error) {
	m.err = fmt.Errorf("%s failed: %w", op, err)
	m.status = ""
}

func (m *Model) succeed(status string) {
	m.err = nil
	m.status = status
}

// Command functions (run async)

func (m *Model) fetchCatalog() tea.Cmd {
	m.pending++
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		snapshot, err := backend.ListCatalog(ctx)
		return reloadCompleteMsg{snapshot: snapshot, err: err}
	}
}

func (m *Model) searchItems(keyword string) tea.Cmd {
	m.pending++
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		snapshot, err := backend.SearchCatalog(ctx, keyword)
		return searchCompleteMsg{keyword: keyword, snapshot: snapshot, err: err}
	}
}

func (m *Model) removeItem(id int) tea.Cmd {
	m.pending++
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		resp, err := backend.RemoveItem(ctx, id)
		return deleteCompleteMsg{id: id, resp: resp, err: err}
	}
}

func (m *Model) createItem(values ui.ItemFormValues) tea.Cmd {
	m.pending++
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		input := client.CreateItemInput{Name: values.Name, Category: values.Category}
		if values.ImagePath != "" {
			img, f, err := client.ImageFromPath(values.ImagePath)
			if err != nil {
				return createCompleteMsg{err: fmt.Errorf("failed to open image: %w", err)}
			}
			defer f.Close()
			input.Image = img
		}
		ack, err := backend.CreateItem(ctx, input)
		return createCompleteMsg{ack: ack, err: err}
	}
}
