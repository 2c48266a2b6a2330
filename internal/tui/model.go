package tui

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/manpower/internal/alloc"
	"github.com/papapumpkin/manpower/internal/plan"
	"github.com/papapumpkin/manpower/internal/workspace"
)

// chromeHeight is the rows used by the status bar, tab bar, and footer.
const chromeHeight = 4

// AppModel is the root BubbleTea model.
type AppModel struct {
	WS        *workspace.Workspace
	Path      string  // plan file; empty disables saving
	Step      float64 // +/- increment
	EndDate   string  // person-days end date
	Tab       Tab
	Grid      Grid
	StatusBar StatusBar
	Keys      KeyMap
	Width     int
	Height    int
	Dirty     bool

	changes <-chan workspace.Change
}

// NewAppModel creates the root model over ws. changes may be nil when the
// plan file is not watched.
func NewAppModel(ws *workspace.Workspace, opts Options, changes <-chan workspace.Change) AppModel {
	step := opts.Step
	if step <= 0 {
		step = 1
	}
	m := AppModel{
		WS:      ws,
		Path:    opts.Path,
		Step:    step,
		EndDate: opts.EndDate,
		Keys:    DefaultKeyMap(),
		changes: changes,
	}
	ws.Read(func(reg *plan.Registry, _ *alloc.Matrix) {
		m.Grid = NewGrid(reg)
	})
	m.StatusBar.Title = ws.Document().Metadata.Title
	m.refreshStatus()
	return m
}

// Init subscribes to plan file changes.
func (m AppModel) Init() tea.Cmd {
	return waitForChange(m.changes)
}

// Update handles all messages.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.StatusBar.Width = msg.Width
		m.Grid.SetHeight(msg.Height - chromeHeight - 1)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case MsgPlanChanged:
		m.handleChange(msg.Change)
		return m, waitForChange(m.changes)

	case MsgSaved:
		if msg.Err != nil {
			m.setMessage(fmt.Sprintf("save failed: %v", msg.Err), true)
		} else {
			m.Dirty = false
			m.setMessage("saved "+filepath.Base(msg.Path), false)
		}
	}
	m.refreshStatus()
	return m, nil
}

// handleKey processes keyboard input.
func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.NextTab):
		m.Tab = m.Tab.Next()

	case key.Matches(msg, m.Keys.PrevTab):
		m.Tab = m.Tab.Prev()

	case key.Matches(msg, m.Keys.Save):
		cmd = m.save()

	case msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '9':
		if t, ok := TabFromNumber(int(msg.Runes[0] - '0')); ok {
			m.Tab = t
		}

	case m.Tab != TabGrid:
		// Cursor and edit keys only apply to the grid.

	case key.Matches(msg, m.Keys.Up):
		m.Grid.Move(-1, 0)

	case key.Matches(msg, m.Keys.Down):
		m.Grid.Move(1, 0)

	case key.Matches(msg, m.Keys.Left):
		m.Grid.Move(0, -1)

	case key.Matches(msg, m.Keys.Right):
		m.Grid.Move(0, 1)

	case key.Matches(msg, m.Keys.Occupied):
		m.Grid.Field = alloc.Occupied

	case key.Matches(msg, m.Keys.Prerelease):
		m.Grid.Field = alloc.Prerelease

	case key.Matches(msg, m.Keys.Inc):
		m.step(m.Step)

	case key.Matches(msg, m.Keys.Dec):
		m.step(-m.Step)
	}

	m.refreshStatus()
	return m, cmd
}

// step adds delta to the cursor cell's selected field.
func (m *AppModel) step(delta float64) {
	k, ok := m.Grid.Key()
	if !ok {
		return
	}
	cur := m.Grid.Field.Of(m.WS.Get(k))
	next := math.Max(0, math.Round((cur+delta)*100)/100)
	if next == cur {
		return
	}
	res := m.WS.SetCell(k, m.Grid.Field, next)
	m.Dirty = true
	if n := len(res.Writes); n > 1 {
		m.setMessage(fmt.Sprintf("%d cells reconciled", n), false)
	} else {
		m.setMessage("", false)
	}
}

func (m *AppModel) save() tea.Cmd {
	if m.Path == "" {
		m.setMessage("no plan file to save to", true)
		return nil
	}
	return saveCmd(m.Path, m.WS.Document())
}

// handleChange applies an external edit of the plan file.
func (m *AppModel) handleChange(c workspace.Change) {
	switch c.Kind {
	case workspace.ChangeModified:
		m.WS.Replace(c.Doc)
		m.WS.Read(func(reg *plan.Registry, _ *alloc.Matrix) {
			m.Grid.Reload(reg)
		})
		m.StatusBar.Title = c.Doc.Metadata.Title
		m.Dirty = false
		m.setMessage("reloaded "+filepath.Base(c.File), false)
	case workspace.ChangeInvalid:
		m.setMessage(fmt.Sprintf("plan file invalid, keeping current plan: %v", c.Err), true)
	case workspace.ChangeRemoved:
		m.setMessage("plan file removed; press w to write it back", true)
	}
	m.refreshStatus()
}

func (m *AppModel) setMessage(msg string, isError bool) {
	m.StatusBar.Message = msg
	m.StatusBar.IsError = isError
}

// refreshStatus syncs the status bar with the cursor and save state.
func (m *AppModel) refreshStatus() {
	m.StatusBar.Dirty = m.Dirty
	m.StatusBar.Field = ""
	if m.Tab == TabGrid {
		m.StatusBar.Field = string(m.Grid.Field)
	}
	m.StatusBar.TimePoint = ""
	if len(m.Grid.TimePoints) > 0 {
		tp := m.Grid.TimePoints[m.Grid.Col]
		m.StatusBar.TimePoint = tp.Name
		m.StatusBar.Overall = m.WS.OverallUtilization(tp.ID)
	}
}

// View renders the full TUI.
func (m AppModel) View() string {
	bindings := ViewFooterBindings(m.Keys)
	if m.Tab == TabGrid {
		bindings = GridFooterBindings(m.Keys)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.StatusBar.View(),
		TabBar{Active: m.Tab, Width: m.Width}.View(),
		m.body(),
		Footer{Width: m.Width, Bindings: bindings}.View(),
	)
}

func (m AppModel) body() string {
	switch m.Tab {
	case TabUtilization:
		return utilizationView(m.WS)
	case TabFlow:
		return flowView(m.WS)
	case TabPersonDays:
		return personDaysView(m.WS, m.EndDate, m.Width)
	}
	return m.Grid.View(m.WS.Get, m.WS.TeamUtilization)
}
