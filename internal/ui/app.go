package ui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pantry/internal/favorites"
	"github.com/five82/pantry/internal/prefs"
	"github.com/five82/pantry/internal/recipes"
	"github.com/five82/pantry/internal/settings"
	"github.com/five82/pantry/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewBrowse View = iota
	ViewSearch
	ViewDetail
	ViewFavorites
)

func (v View) String() string {
	switch v {
	case ViewBrowse:
		return "Browse"
	case ViewSearch:
		return "Search"
	case ViewDetail:
		return "Recipe"
	case ViewFavorites:
		return "Favorites"
	default:
		return "Unknown"
	}
}

// tabOrder is the cycle for tab and shift+tab. The detail view is reached
// from a list, not by cycling.
var tabOrder = []View{ViewBrowse, ViewSearch, ViewFavorites}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Browser   *recipes.Browser
	Details   *recipes.Details
	Favorite  *favorites.Controller
	Favorites *favorites.List
	Settings  *settings.Settings
	Logger    *slog.Logger

	SearchDebounce time.Duration
	MinQueryLength int
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Collaborators
	ctx       context.Context
	store     *state.Store
	browser   *recipes.Browser
	details   *recipes.Details
	favorite  *favorites.Controller
	favorites *favorites.List
	settings  *settings.Settings
	logger    *slog.Logger

	// UI state
	keys        keyMap
	theme       Theme
	currentView View
	returnView  View // where the detail view goes back to
	width       int
	height      int
	ready       bool
	showHelp    bool
	spinner     spinner.Model

	// Store notifications
	changes     <-chan struct{}
	unsubscribe func()

	browse browseState
	search searchState
	detail detailState
	favs   favoritesState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	debounce := opts.SearchDebounce
	if debounce <= 0 {
		debounce = DefaultSearchDebounce
	}
	minLen := opts.MinQueryLength
	if minLen <= 0 {
		minLen = DefaultMinQueryLength
	}

	changes := make(chan struct{}, 1)
	unsubscribe := func() {}
	if opts.Store != nil {
		unsubscribe = opts.Store.Subscribe(func() {
			select {
			case changes <- struct{}{}:
			default:
			}
		})
	}

	input := textinput.New()
	input.Placeholder = "Search recipes by name..."
	input.CharLimit = 64
	input.Prompt = "/ "

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:         ctx,
		store:       opts.Store,
		browser:     opts.Browser,
		details:     opts.Details,
		favorite:    opts.Favorite,
		favorites:   opts.Favorites,
		settings:    opts.Settings,
		logger:      logger,
		keys:        DefaultKeyMap(),
		theme:       ThemeFor(prefs.Default()),
		currentView: ViewBrowse,
		returnView:  ViewBrowse,
		spinner:     sp,
		changes:     changes,
		unsubscribe: unsubscribe,
		browse:      browseState{category: -1, area: -1},
		search:      searchState{input: input, debounce: debounce, minLen: minLen},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForChange(m.changes),
		m.spinner.Tick,
		m.initThemeCmd(),
		m.loadFiltersCmd(),
		m.fetchBrowseCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initDetailViewport()
		}
		m.ready = true
		m.updateDetailViewport()
		return m, nil

	case storeChangedMsg:
		m.syncFromStore()
		return m, waitForChange(m.changes)

	case searchDebounceMsg:
		return m, m.handleSearchDebounce(msg)

	case opDoneMsg:
		if msg.err != nil {
			m.logger.Debug("ui operation failed", "op", msg.op, "error", msg.err)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	// The search box takes every printable key.
	if m.currentView == ViewSearch {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.ToggleTheme):
		return m, m.toggleThemeCmd()

	case key.Matches(msg, m.keys.Tab):
		cmd := m.switchView(m.nextTab(1))
		return m, cmd

	case key.Matches(msg, m.keys.ShiftTab):
		cmd := m.switchView(m.nextTab(-1))
		return m, cmd

	case key.Matches(msg, m.keys.ViewBrowse):
		cmd := m.switchView(ViewBrowse)
		return m, cmd

	case key.Matches(msg, m.keys.ViewSearch):
		cmd := m.switchView(ViewSearch)
		return m, cmd

	case key.Matches(msg, m.keys.ViewFavorites):
		cmd := m.switchView(ViewFavorites)
		return m, cmd
	}

	switch m.currentView {
	case ViewBrowse:
		return m.handleBrowseKey(msg)
	case ViewDetail:
		return m.handleDetailKey(msg)
	case ViewFavorites:
		return m.handleFavoritesKey(msg)
	}
	return m, nil
}

// nextTab returns the tab view step places away from the current one.
func (m Model) nextTab(step int) View {
	current := m.currentView
	if current == ViewDetail {
		current = m.returnView
	}
	for i, v := range tabOrder {
		if v == current {
			return tabOrder[(i+step+len(tabOrder))%len(tabOrder)]
		}
	}
	return ViewBrowse
}

// switchView leaves the current view and enters to. Leaving the detail view
// for the view it was opened from only closes the detail.
func (m *Model) switchView(to View) tea.Cmd {
	if m.currentView == to {
		return nil
	}
	if m.currentView == ViewDetail {
		m.closeDetail()
		if m.currentView == to {
			return m.resumeView()
		}
	}
	m.leaveView(m.currentView)
	m.currentView = to
	return m.enterView(to)
}

func (m *Model) leaveView(v View) {
	switch v {
	case ViewSearch:
		m.search.input.Blur()
	case ViewFavorites:
		m.favorites.Unmount()
	}
}

func (m *Model) enterView(v View) tea.Cmd {
	switch v {
	case ViewBrowse:
		m.browse.selected = 0
		return m.fetchBrowseCmd()
	case ViewSearch:
		return m.enterSearch()
	case ViewFavorites:
		m.favs.selected = 0
		m.favorites.Mount(m.ctx)
	}
	return nil
}

// resumeView restores focus after the detail view closes.
func (m *Model) resumeView() tea.Cmd {
	if m.currentView == ViewSearch {
		return m.search.input.Focus()
	}
	return nil
}

// syncFromStore re-reads machine state after a store notification.
func (m *Model) syncFromStore() {
	if m.settings != nil {
		m.theme = ThemeFor(m.settings.Mode())
	}
	m.browse.selected = clampIndex(m.browse.selected, len(m.browser.Meals.Snapshot().Payload))
	m.search.selected = clampIndex(m.search.selected, len(m.browser.Meals.Snapshot().Payload))
	m.favs.selected = clampIndex(m.favs.selected, len(m.favorites.Items.Snapshot().Payload))
	m.updateDetailViewport()
}

// shutdown releases the subscriptions the model holds.
func (m Model) shutdown() {
	m.favorites.Unmount()
	m.unsubscribe()
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewBrowse:
		return m.renderBrowse()
	case ViewSearch:
		return m.renderSearch()
	case ViewDetail:
		return m.renderDetail()
	case ViewFavorites:
		return m.renderFavorites()
	default:
		return ""
	}
}

// Messages

type storeChangedMsg struct{}

// opDoneMsg reports that a background operation finished. Its outcome is
// already in the state machines; err is kept for logging.
type opDoneMsg struct {
	op  string
	err error
}

// Commands

func waitForChange(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-changes
		return storeChangedMsg{}
	}
}

func (m Model) initThemeCmd() tea.Cmd {
	if m.settings == nil {
		return nil
	}
	settings, ctx := m.settings, m.ctx
	return func() tea.Msg {
		_, err := settings.Init(ctx)
		return opDoneMsg{op: "load theme", err: err}
	}
}

func (m Model) toggleThemeCmd() tea.Cmd {
	if m.settings == nil {
		return nil
	}
	settings, ctx := m.settings, m.ctx
	return func() tea.Msg {
		_, err := settings.Toggle(ctx)
		return opDoneMsg{op: "toggle theme", err: err}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.shutdown()
	} else {
		m.shutdown()
	}
	return err
}
