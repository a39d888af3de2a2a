package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tetrus/internal/core"
	"github.com/vovakirdan/tetrus/internal/registry"
	"github.com/vovakirdan/tetrus/internal/storage"
)

// statusSeconds is how long a footer status message stays visible.
const statusSeconds = 3

var statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger used for save and resume failures.
func WithLogger(logger *log.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithBackToMenu lets B/Esc leave a paused or finished game.
func WithBackToMenu() Option {
	return func(m *Model) {
		m.allowBack = true
	}
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game        registry.Game
	screen      *core.Screen
	store       *storage.Store
	logger      *log.Logger
	config      core.RuntimeConfig
	inputFrame  core.InputFrame
	gameState   core.GameState
	keys        *KeyMapper
	help        help.Model
	status      string
	statusTicks int
	started     bool
	allowBack   bool
	backToMenu  bool
	quitting    bool
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...Option) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}

	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, playHeight(cfg.ScreenH)),
		store:      store,
		logger:     log.Default(),
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keys:       NewKeyMapper(),
		help:       help.New(),
	}
	m.help.Width = cfg.ScreenW
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Resume starts the game from an encoded state instead of a fresh board.
// The game comes back paused.
func (m *Model) Resume(state []byte) error {
	saver, ok := m.game.(registry.Saver)
	if !ok {
		return fmt.Errorf("tui: %s does not support saved games", m.game.ID())
	}

	m.game.Reset(m.config)
	if err := saver.LoadState(state); err != nil {
		return fmt.Errorf("tui: resume %s: %w", m.game.ID(), err)
	}
	m.gameState = m.game.State()
	m.started = true
	return nil
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	if !m.started {
		m.game.Reset(m.config)
	}
	// Note: gameState will be set on first tick (value receiver limitation)

	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionSave:
		m.save()
		return m, nil
	case core.ActionBack:
		if m.allowBack && (m.gameState.GameOver || m.gameState.Paused) {
			m.backToMenu = true
		}
		return m, nil
	case core.ActionNone:
		if msg.String() == "ctrl+t" {
			m.saveScreenshot()
		}
		return m, nil
	}

	m.inputFrame.Set(action)
	return m, nil
}

// handleResize processes window resize events.
// The board is centered on every render, so a running game keeps its state.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, playHeight(msg.Height))
	m.help.Width = msg.Width
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.statusTicks > 0 {
		m.statusTicks--
		if m.statusTicks == 0 {
			m.status = ""
		}
	}

	// Check for restart
	if m.inputFrame.Has(core.ActionRestart) && (m.gameState.GameOver || m.gameState.Paused) {
		// Reset seed for new game
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	// Clear input for next frame
	m.inputFrame.Clear()

	return m, tickCmd(m.config.TickRate)
}

// save stores the running game in the saves database.
func (m *Model) save() {
	id, err := m.saveGame()
	if err != nil {
		m.logger.Warn("could not save game", "game", m.game.ID(), "error", err)
		m.setStatus("Save failed")
		return
	}
	m.logger.Info("game saved", "game", m.game.ID(), "id", id, "score", m.gameState.Score)
	m.setStatus(fmt.Sprintf("Saved #%d", id))
}

func (m *Model) saveGame() (int64, error) {
	if m.store == nil {
		return 0, errors.New("tui: no saves database")
	}
	saver, ok := m.game.(registry.Saver)
	if !ok {
		return 0, fmt.Errorf("tui: %s does not support saved games", m.game.ID())
	}
	data, err := saver.SaveState()
	if err != nil {
		return 0, err
	}
	state := m.game.State()
	name := time.Now().Format("2006-01-02 15:04")
	return m.store.SaveGame(m.game.ID(), name, state.Score, state.Lines, data)
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusTicks = statusSeconds * m.config.TickRate
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
		return
	}
	dir := filepath.Join(home, ".tetrus", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
		return
	}
	m.setStatus("Screenshot saved")
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("  ")
	}
	b.WriteString(m.help.View(m.keys.Keys))
	return b.String()
}

// GameState returns the state seen on the last tick.
func (m Model) GameState() core.GameState {
	return m.gameState
}

// Status returns the footer status message, if any.
func (m Model) Status() string {
	return m.status
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// playHeight leaves one row for the help footer.
func playHeight(h int) int {
	if h <= 1 {
		return 1
	}
	return h - 1
}

// Run starts the Bubble Tea program with the given model.
func Run(m Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
