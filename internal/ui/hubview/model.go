// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package hubview provides the download manager view for the TUI.
package hubview

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/hubrun-tui/internal/catalog"
	"github.com/jeranaias/hubrun-tui/internal/downloads"
	"github.com/jeranaias/hubrun-tui/internal/ui/components"
	"github.com/jeranaias/hubrun-tui/internal/ui/styles"
)

// errEmptyInput rejects a blank add prompt.
var errEmptyInput = errors.New("enter a repository as owner/name")

// =============================================================================
// VIEW STATE
// =============================================================================

// State represents the current state of the download view.
type State int

const (
	// StateLoading is the initial fetch before the first table arrives.
	StateLoading State = iota
	// StateList is the download table, ready for input.
	StateList
	// StateAdd is the add-model prompt.
	StateAdd
	// StateConfirmDelete is the delete confirmation prompt.
	StateConfirmDelete
)

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// CatalogClient is the slice of the catalog API the view needs.
// *catalog.Client satisfies it; tests substitute fakes.
type CatalogClient interface {
	Model(ctx context.Context, repoID string) (*catalog.Model, error)
}

// HealthChecker probes the hub daemon. *hub.Client satisfies it.
type HealthChecker interface {
	CheckRunning(ctx context.Context) error
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the download manager view.
type Model struct {
	// State
	state    State
	showHelp bool
	quitting bool

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Collaborators
	tracker *downloads.Tracker
	catalog CatalogClient
	health  HealthChecker

	// Refresh cadence for the download table.
	refreshInterval time.Duration

	// UI components
	list      *components.DownloadList
	statusBar *components.StatusBar
	toasts    *components.ToastManager
	spin      components.Spinner
	input     textinput.Model

	// Key bindings
	keyMap KeyMap

	// Daemon reachability from the last health check.
	daemonUp bool

	// Identifier awaiting delete confirmation.
	pendingDelete string

	// Last refresh failure shown, to avoid toast spam while the daemon
	// stays down.
	lastRefreshErr string
}

// New creates the download manager view.
func New(tracker *downloads.Tracker, cat CatalogClient, health HealthChecker, theme *styles.Theme, refreshInterval time.Duration) *Model {
	if refreshInterval <= 0 {
		refreshInterval = 2 * time.Second
	}

	input := textinput.New()
	input.Placeholder = "owner/repo [quant]  e.g. TheBloke/Llama-2-7B-GGUF q4_k_m"
	input.CharLimit = 200
	input.Width = 60

	return &Model{
		state:           StateLoading,
		theme:           theme,
		tracker:         tracker,
		catalog:         cat,
		health:          health,
		refreshInterval: refreshInterval,
		list:            components.NewDownloadList(theme, tracker),
		statusBar:       components.NewStatusBar(theme),
		toasts:          components.NewToastManager(),
		spin:            components.NewSpinner("Connecting to hubd"),
		input:           input,
		keyMap:          DefaultKeyMap(),
	}
}

// Init kicks off the first health check, table fetch, and refresh tick.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Start(),
		m.checkDaemonCmd(),
		m.refreshCmd(),
		tickCmd(m.refreshInterval),
	)
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.list.SetSize(msg.Width, msg.Height-4)
		m.statusBar.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)

	case TickMsg:
		if m.quitting {
			return m, nil
		}
		return m, tea.Batch(
			m.refreshCmd(),
			m.checkDaemonCmd(),
			tickCmd(m.refreshInterval),
		)

	case RefreshedMsg:
		m.spin.Stop()
		if m.state == StateLoading {
			m.state = StateList
		}
		return m, m.handleRefreshErr(msg.Err)

	case DaemonStatusMsg:
		m.daemonUp = msg.Up
		return m, nil

	case CommandDoneMsg:
		if msg.Err != nil {
			m.toasts.AddError(msg.Op + " " + msg.ID + ": " + components.SummarizeError(msg.Err.Error()))
		} else {
			m.toasts.AddStatus(msg.Op + " " + msg.ID)
		}
		return m, components.ToastTickCmd()

	case CatalogResolvedMsg:
		return m.handleCatalogResolved(msg)

	case StartDoneMsg:
		if msg.Err != nil {
			m.toasts.AddError("start failed: " + components.SummarizeError(msg.Err.Error()))
		} else {
			m.toasts.AddSuccess("downloading " + msg.ID)
		}
		return m, components.ToastTickCmd()

	case components.ToastTickMsg:
		if len(m.toasts.Tick()) > 0 {
			return m, components.ToastTickCmd()
		}
		return m, nil

	case spinner.TickMsg:
		return m, m.spin.Update(msg)
	}

	return m, nil
}

// updateKeys routes key presses by view state.
func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Emergency quit works everywhere.
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case StateAdd:
		return m.updateAddKeys(msg)
	case StateConfirmDelete:
		return m.updateConfirmKeys(msg)
	default:
		return m.updateListKeys(msg)
	}
}

// updateListKeys handles keys in the download table.
func (m *Model) updateListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key dismisses the overlay.
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keyMap.Up):
		m.list.MoveUp()
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		m.list.MoveDown()
		return m, nil

	case key.Matches(msg, m.keyMap.Refresh):
		return m, m.refreshCmd()

	case key.Matches(msg, m.keyMap.Add):
		m.state = StateAdd
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keyMap.Pause):
		if id := m.list.SelectedID(); id != "" {
			return m, m.commandCmd("pause", id)
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Resume):
		if id := m.list.SelectedID(); id != "" {
			return m, m.commandCmd("resume", id)
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Cancel):
		if id := m.list.SelectedID(); id != "" {
			return m, m.commandCmd("cancel", id)
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Delete):
		if id := m.list.SelectedID(); id != "" {
			m.pendingDelete = id
			m.state = StateConfirmDelete
		}
		return m, nil
	}

	return m, nil
}

// updateAddKeys handles keys in the add-model prompt.
func (m *Model) updateAddKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Back):
		m.state = StateList
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		repoID, quant, err := parseAddInput(m.input.Value())
		if err != nil {
			m.toasts.AddError(err.Error())
			return m, components.ToastTickCmd()
		}
		m.state = StateList
		m.input.Blur()
		m.toasts.AddStatus("looking up " + repoID)
		return m, tea.Batch(m.resolveCatalogCmd(repoID, quant), components.ToastTickCmd())
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// updateConfirmKeys handles keys in the delete confirmation prompt.
func (m *Model) updateConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Submit), msg.String() == "y":
		id := m.pendingDelete
		m.pendingDelete = ""
		m.state = StateList
		return m, m.commandCmd("delete", id)

	case key.Matches(msg, m.keyMap.Back), msg.String() == "n":
		m.pendingDelete = ""
		m.state = StateList
		return m, nil
	}
	return m, nil
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

// handleRefreshErr surfaces a refresh failure once per distinct error, so a
// daemon outage does not stack an identical toast every tick.
func (m *Model) handleRefreshErr(err error) tea.Cmd {
	if err == nil {
		m.lastRefreshErr = ""
		return nil
	}
	summary := components.SummarizeError(err.Error())
	if summary == m.lastRefreshErr {
		return nil
	}
	m.lastRefreshErr = summary
	m.toasts.AddError("refresh failed: " + summary)
	return components.ToastTickCmd()
}

// handleCatalogResolved picks the files to download from a catalog answer
// and issues the start request.
func (m *Model) handleCatalogResolved(msg CatalogResolvedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.toasts.AddError("lookup failed: " + components.SummarizeError(msg.Err.Error()))
		return m, components.ToastTickCmd()
	}

	files, err := chooseFiles(msg.Model, msg.Quant)
	if err != nil {
		m.toasts.AddError(components.SummarizeError(err.Error()))
		return m, components.ToastTickCmd()
	}

	return m, m.startDownloadCmd(msg.Model, files)
}

// chooseFiles selects which repository files to request. A quant filter
// narrows a GGUF repo to a single file; otherwise quantized repos get all
// their GGUF files and everything else is fetched whole.
func chooseFiles(model *catalog.Model, quant string) ([]string, error) {
	if quant != "" {
		file, err := model.FindQuant(quant)
		if err != nil {
			return nil, err
		}
		return []string{file}, nil
	}
	if model.Quantized() {
		return model.GGUFFiles(), nil
	}
	return model.Files, nil
}

// parseAddInput splits the add prompt into a repository reference and an
// optional quantization label.
func parseAddInput(raw string) (repoID, quant string, err error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return "", "", errEmptyInput
	}
	repoID, err = catalog.ParseRepoID(fields[0])
	if err != nil {
		return "", "", err
	}
	if len(fields) > 1 {
		quant = fields[1]
	}
	return repoID, quant, nil
}

// =============================================================================
// ACCESSORS
// =============================================================================

// CurrentState returns the view state, for tests.
func (m *Model) CurrentState() State {
	return m.state
}
