package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/hsbacot/mercat/catalog"
	"github.com/hsbacot/mercat/client"
	"github.com/hsbacot/mercat/ui"
)

type state int

const (
	stateBrowsing state = iota
	stateSearchInput
	stateAdding
	stateConfirmDelete
)

// Backend is everything the TUI asks of the listing service
type Backend interface {
	catalog.Catalog
	CreateItem(ctx context.Context, input client.CreateItemInput) (*client.ServerAck, error)
	ImageURL(imageName string) string
}

// Options contains configuration for the Model
type Options struct {
	Backend Backend
	Logger  *log.Logger
	// Store is optional; a fresh one is created when nil
	Store *catalog.Store
	// Context bounds every request the model issues; defaults to Background
	Context context.Context
}

// viewSync receives store notifications. Store changes only happen inside
// Update, so the subscriber and the model share the event loop goroutine.
type viewSync struct {
	view  catalog.View
	dirty bool
}

// Model is the Bubble Tea model for the catalog browser
type Model struct {
	ctx        context.Context
	backend    Backend
	controller *catalog.Controller
	store      *catalog.Store
	logger     *log.Logger

	// State
	state        state
	reload       bool
	reloadEffect *catalog.Effect[bool]
	pending      int
	sync         *viewSync
	status       string
	err          error

	// UI Components
	spinner      spinner.Model
	list         itemListModel
	search       textinput.Model
	addForm      *huh.Form
	addValues    *ui.ItemFormValues
	deleteTarget *client.Item
}

// NewModel creates a new Bubble Tea model. The catalog loads on Init.
func NewModel(opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ti := textinput.New()
	ti.Placeholder = "keyword"
	ti.Prompt = "Search: "
	ti.CharLimit = 128

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	store := opts.Store
	if store == nil {
		store = catalog.NewStore()
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	vs := &viewSync{view: store.Rendered(), dirty: true}
	store.Subscribe(func(v catalog.View) {
		vs.view = v
		vs.dirty = true
	})

	return Model{
		ctx:          ctx,
		backend:      opts.Backend,
		controller:   catalog.NewController(opts.Backend, store, logger),
		store:        store,
		logger:       logger,
		state:        stateBrowsing,
		reload:       true,
		reloadEffect: &catalog.Effect[bool]{},
		sync:         vs,
		spinner:      s,
		list:         newItemList(80, 20),
		search:       ti,
	}
}

// Store returns the view state backing the model
func (m Model) Store() *catalog.Store {
	return m.store
}

// Err returns the last trigger error, if any
func (m Model) Err() error {
	return m.err
}

// Status returns the last status line
func (m Model) Status() string {
	return m.status
}

// Busy reports whether a request is in flight
func (m Model) Busy() bool {
	return m.pending > 0
}
