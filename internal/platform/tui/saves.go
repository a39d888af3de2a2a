package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tetrus/internal/registry"
	"github.com/vovakirdan/tetrus/internal/storage"
)

// Saves browser layout constants
const (
	tableMinWidth = 50  // Minimum table width
	maxSaves      = 100 // Max saves to load
)

// SavesKeyMap defines the key bindings for the saves browser.
type SavesKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextGame key.Binding
	PrevGame key.Binding
	Resume   key.Binding
	Delete   key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k SavesKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextGame, k.Resume, k.Delete, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k SavesKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextGame, k.PrevGame},
		{k.Resume, k.Delete, k.Back, k.Quit},
	}
}

// DefaultSavesKeyMap returns default key bindings.
func DefaultSavesKeyMap() SavesKeyMap {
	return SavesKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextGame: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next game"),
		),
		PrevGame: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev game"),
		),
		Resume: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "resume"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// SavesModel is the Bubble Tea model for browsing saved games.
type SavesModel struct {
	filters   []registry.GameInfo // First entry lists every game
	filter    int
	store     *storage.Store
	saves     []storage.SavedGame
	table     table.Model
	help      help.Model
	keys      SavesKeyMap
	width     int
	height    int
	message   string
	selected  *storage.SavedGame
	quitting  bool
	goingBack bool
}

// NewSavesModel creates a new saves browser.
func NewSavesModel(store *storage.Store, width, height int) SavesModel {
	filters := append([]registry.GameInfo{{Title: "All games"}}, registry.List()...)

	h := help.New()
	h.Width = width

	m := SavesModel{
		filters: filters,
		store:   store,
		keys:    DefaultSavesKeyMap(),
		help:    h,
		width:   width,
		height:  height,
	}
	m.table = m.createTable()
	m.loadSaves()
	return m
}

// createTable creates a new table sized to the current window.
func (m *SavesModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Game", Width: 15},
		{Title: "Score", Width: 8},
		{Title: "Lines", Width: 6},
		{Title: "Saved", Width: 14},
	}

	// Give extra width to the game column
	tableWidth := m.width - 4
	if tableWidth > tableMinWidth {
		extra := tableWidth - tableMinWidth
		if extra > 10 {
			extra = 10
		}
		columns[1].Width += extra
	}

	height := m.height - 8 // Leave room for header, help, and margins
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadSaves reloads the saves for the current filter.
func (m *SavesModel) loadSaves() {
	m.saves = nil
	if m.store != nil {
		saves, err := m.store.ListSaves(m.filters[m.filter].ID, maxSaves)
		if err != nil {
			m.message = "Could not load saves"
		} else {
			m.saves = saves
		}
	}

	rows := make([]table.Row, len(m.saves))
	for i, s := range m.saves {
		rows[i] = table.Row{
			fmt.Sprintf("%d", s.ID),
			s.GameID,
			fmt.Sprintf("%d", s.Score),
			fmt.Sprintf("%d", s.Lines),
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.GotoTop()
	}
}

// current returns the highlighted save, if any.
func (m SavesModel) current() (storage.SavedGame, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.saves) {
		return storage.SavedGame{}, false
	}
	return m.saves[i], true
}

// Init initializes the saves model.
func (m SavesModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the saves browser.
func (m SavesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextGame):
			m.filter = (m.filter + 1) % len(m.filters)
			m.table.GotoTop()
			m.loadSaves()
			return m, nil

		case key.Matches(msg, m.keys.PrevGame):
			m.filter--
			if m.filter < 0 {
				m.filter = len(m.filters) - 1
			}
			m.table.GotoTop()
			m.loadSaves()
			return m, nil

		case key.Matches(msg, m.keys.Resume):
			save, ok := m.current()
			if !ok {
				return m, nil
			}
			full, err := m.store.LoadGame(save.ID)
			if err != nil {
				m.message = fmt.Sprintf("Could not load save #%d", save.ID)
				return m, nil
			}
			m.selected = full
			return m, tea.Quit

		case key.Matches(msg, m.keys.Delete):
			save, ok := m.current()
			if !ok {
				return m, nil
			}
			if err := m.store.DeleteSave(save.ID); err != nil {
				m.message = fmt.Sprintf("Could not delete save #%d", save.ID)
			} else {
				m.message = fmt.Sprintf("Deleted save #%d", save.ID)
			}
			m.loadSaves()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.loadSaves()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the saves browser.
func (m SavesModel) View() string {
	if m.quitting || m.goingBack || m.selected != nil {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))

	title := fmt.Sprintf("SAVED GAMES - %s", m.filters[m.filter].Title)
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))
	b.WriteString("\n")

	if m.message != "" {
		b.WriteString(statusStyle.Render(m.message))
		b.WriteString("\n")
	}

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m SavesModel) renderTableContent() string {
	if len(m.saves) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No saved games yet.\nPress Ctrl+S during a game to save it.")
	}

	return m.table.View()
}

// Selected returns the save chosen for resuming, or nil.
func (m SavesModel) Selected() *storage.SavedGame {
	return m.selected
}

// IsGoingBack returns true if user wants to go back to menu.
func (m SavesModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m SavesModel) IsQuitting() bool {
	return m.quitting
}

// SavesResult holds the result of running the saves browser.
type SavesResult struct {
	Selected *storage.SavedGame
	GoBack   bool
}

// RunSaves runs the saves browser.
func RunSaves(store *storage.Store, width, height int) (SavesResult, error) {
	p := tea.NewProgram(
		NewSavesModel(store, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return SavesResult{}, err
	}

	m, ok := finalModel.(SavesModel)
	if !ok {
		return SavesResult{}, nil
	}

	return SavesResult{Selected: m.Selected(), GoBack: m.IsGoingBack()}, nil
}
