package tui

import (
	"errors"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hersh/blockstack/internal/engine"
	"github.com/hersh/blockstack/internal/leaderboard"
	"github.com/hersh/blockstack/internal/mode"
	"github.com/hersh/blockstack/internal/netclient"
	"github.com/hersh/blockstack/internal/protocol"
)

const frameInterval = 16 * time.Millisecond

// --- Custom tea.Msg types ---

// FrameMsg drives a local session.
type FrameMsg time.Time

// --- Screens ---

type Screen int

const (
	ScreenConnecting Screen = iota
	ScreenWelcome
	ScreenPlaying
	ScreenGameOver
)

// Options configures a Model.
type Options struct {
	Name     string
	Mode     string
	Seed     int64
	Reporter engine.Reporter
	Store    *leaderboard.FileStore
	Logger   *log.Logger
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// --- Model ---

type Model struct {
	screen   Screen
	name     string
	playerID string
	modes    []mode.Config
	cursor   int
	keys     KeyMap

	seed     int64
	reporter engine.Reporter
	store    *leaderboard.FileStore
	logger   *log.Logger
	clock    func() time.Time

	// Local play
	session *engine.Session
	ticking bool

	// Remote play
	client *netclient.Client

	snap    engine.Snapshot
	hasSnap bool
	result  *engine.Result
	top     []leaderboard.Entry

	width  int
	height int

	err          error
	disconnected bool
}

// NewModel creates the terminal model. With a nil client the game runs a
// local session; otherwise it plays on the server behind client.
func NewModel(opts Options, client *netclient.Client) Model {
	screen := ScreenConnecting
	if client == nil {
		screen = ScreenWelcome
	}
	m := Model{
		screen:   screen,
		name:     opts.Name,
		modes:    mode.All(),
		keys:     Keys,
		seed:     opts.Seed,
		reporter: opts.Reporter,
		store:    opts.Store,
		logger:   opts.Logger,
		clock:    opts.Clock,
		client:   client,
	}
	if m.logger == nil {
		m.logger = log.Default()
	}
	if m.clock == nil {
		m.clock = time.Now
	}
	if cfg, ok := mode.Lookup(opts.Mode); ok {
		for i, c := range m.modes {
			if c.Key == cfg.Key {
				m.cursor = i
			}
		}
	} else if opts.Mode != "" {
		m.logger.Printf("tui: unknown mode %q, using %s", opts.Mode, mode.DefaultKey)
		m.cursor = indexOf(m.modes, mode.DefaultKey)
	} else {
		m.cursor = indexOf(m.modes, mode.DefaultKey)
	}
	return m
}

func indexOf(modes []mode.Config, key string) int {
	for i, c := range modes {
		if c.Key == key {
			return i
		}
	}
	return 0
}

func (m Model) Init() tea.Cmd {
	return nil
}

func frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

// Screen returns the current screen.
func (m Model) Screen() Screen {
	return m.screen
}

// Snapshot returns the last frame shown.
func (m Model) Snapshot() (engine.Snapshot, bool) {
	return m.snap, m.hasSnap
}

// --- Update ---

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.BlurMsg:
		m.pause()
		return m, nil
	case FrameMsg:
		return m.handleFrame()

	// Network messages
	case netclient.ConnectedMsg:
		m.playerID = msg.PlayerID
		m.screen = ScreenWelcome
		return m, nil
	case netclient.SnapshotMsg:
		return m.show(msg.Snapshot), nil
	case netclient.ResultMsg:
		res := msg.Result
		m.result = &res
		m.screen = ScreenGameOver
		m.loadTop(res.Mode)
		return m, nil
	case netclient.ErrorMsg:
		m.err = errors.New(msg.Message)
		return m, nil
	case netclient.DisconnectedMsg:
		m.disconnected = true
		m.err = msg.Err
		return m, nil
	}
	return m, nil
}

func (m Model) handleFrame() (tea.Model, tea.Cmd) {
	if m.session == nil {
		m.ticking = false
		return m, nil
	}
	m.session.Advance(m.clock())
	m = m.syncLocal()
	if m.session.State() == engine.StateGameOver {
		m.ticking = false
		return m, nil
	}
	return m, frameCmd()
}

// syncLocal copies the local session's state into the model.
func (m Model) syncLocal() Model {
	m = m.show(m.session.Snapshot())
	if res, ok := m.session.Result(); ok && m.result == nil {
		m.result = &res
		m.loadTop(res.Mode)
	}
	return m
}

func (m Model) show(s engine.Snapshot) Model {
	if m.screen == ScreenWelcome {
		return m
	}
	m.snap = s
	m.hasSnap = true
	if s.State == engine.StateGameOver {
		m.screen = ScreenGameOver
	} else {
		m.screen = ScreenPlaying
	}
	return m
}

func (m *Model) loadTop(modeKey string) {
	if m.store == nil {
		return
	}
	top, err := m.store.Top(modeKey)
	if err != nil {
		m.logger.Printf("tui: load leaderboard: %v", err)
		return
	}
	m.top = top
}

// --- Key handlers ---

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m.quit()
	}

	switch m.screen {
	case ScreenWelcome:
		return m.handleWelcomeKeys(msg)
	case ScreenPlaying:
		return m.handlePlayingKeys(msg)
	case ScreenGameOver:
		return m.handleGameOverKeys(msg)
	case ScreenConnecting:
		if key.Matches(msg, m.keys.Quit) {
			return m.quit()
		}
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.client != nil {
		m.client.Close()
	}
	return m, tea.Quit
}

func (m Model) handleWelcomeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Up):
		m.cursor = (m.cursor + len(m.modes) - 1) % len(m.modes)
	case key.Matches(msg, m.keys.Down):
		m.cursor = (m.cursor + 1) % len(m.modes)
	case key.Matches(msg, m.keys.Select):
		return m.startGame(m.modes[m.cursor])
	}
	return m, nil
}

func (m Model) startGame(cfg mode.Config) (tea.Model, tea.Cmd) {
	m.result = nil
	m.top = nil
	m.err = nil
	m.screen = ScreenPlaying

	if m.client != nil {
		m.hasSnap = false
		if err := m.client.StartGame(cfg.Key, m.name); err != nil {
			m.err = err
		}
		return m, nil
	}

	if m.session == nil {
		opts := []engine.Option{
			engine.WithUsername(m.name),
			engine.WithLogger(m.logger),
			engine.WithStart(m.clock()),
		}
		if m.seed != 0 {
			opts = append(opts, engine.WithSeed(m.seed))
		}
		if m.reporter != nil {
			opts = append(opts, engine.WithReporter(m.reporter))
		}
		m.session = engine.New(cfg, opts...)
		m.session.Start()
	} else {
		m.session.Advance(m.clock())
		m.session.Restart(cfg)
	}
	m = m.syncLocal()
	if m.ticking {
		return m, nil
	}
	m.ticking = true
	return m, frameCmd()
}

func (m Model) handlePlayingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Pause):
		if m.snap.State == engine.StatePaused {
			m.resume()
		} else {
			m.pause()
		}
		return m.refresh(), nil
	case key.Matches(msg, m.keys.Restart):
		return m.startGame(m.currentMode())
	case key.Matches(msg, m.keys.Quit):
		if m.snap.State != engine.StatePaused {
			// Don't quit during gameplay with q
			return m, nil
		}
		return m.quit()
	}

	// Terminals report presses only, so each one is a tap.
	for _, b := range []struct {
		binding key.Binding
		action  protocol.Action
	}{
		{m.keys.Left, protocol.ActionLeft},
		{m.keys.Right, protocol.ActionRight},
		{m.keys.SoftDrop, protocol.ActionSoftDrop},
		{m.keys.HardDrop, protocol.ActionHardDrop},
		{m.keys.RotateCW, protocol.ActionRotateCW},
		{m.keys.RotateCCW, protocol.ActionRotateCCW},
		{m.keys.Hold, protocol.ActionHold},
	} {
		if key.Matches(msg, b.binding) {
			m.tap(b.action)
			return m.refresh(), nil
		}
	}
	return m, nil
}

func (m Model) handleGameOverKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Restart):
		return m.startGame(m.currentMode())
	case key.Matches(msg, m.keys.Select), key.Matches(msg, m.keys.Back):
		m.screen = ScreenWelcome
		m.hasSnap = false
		m.result = nil
		return m, nil
	}
	return m, nil
}

func (m Model) currentMode() mode.Config {
	if m.hasSnap {
		if cfg, ok := mode.Lookup(m.snap.Mode); ok {
			return cfg
		}
	}
	return m.modes[m.cursor]
}

// tap sends a press followed by a release.
func (m Model) tap(a protocol.Action) {
	if m.client != nil {
		m.client.Intent(a, true)
		m.client.Intent(a, false)
		return
	}
	if m.session == nil {
		return
	}
	s := m.session
	s.Advance(m.clock())
	switch a {
	case protocol.ActionLeft:
		s.MoveLeft(true)
		s.MoveLeft(false)
	case protocol.ActionRight:
		s.MoveRight(true)
		s.MoveRight(false)
	case protocol.ActionSoftDrop:
		s.SoftDrop(true)
		s.SoftDrop(false)
	case protocol.ActionHardDrop:
		s.HardDrop()
	case protocol.ActionRotateCW:
		s.RotateCW()
	case protocol.ActionRotateCCW:
		s.RotateCCW()
	case protocol.ActionHold:
		s.Hold()
	}
}

func (m Model) pause() {
	if m.client != nil {
		m.client.Pause()
		return
	}
	if m.session != nil {
		m.session.Advance(m.clock())
		m.session.Pause()
	}
}

func (m Model) resume() {
	if m.client != nil {
		m.client.Resume()
		return
	}
	if m.session != nil {
		m.session.Advance(m.clock())
		m.session.Resume()
	}
}

// refresh redraws from the local session right away instead of waiting for
// the next frame.
func (m Model) refresh() Model {
	if m.session == nil {
		return m
	}
	return m.syncLocal()
}

// --- View ---

func (m Model) View() string {
	if m.disconnected {
		return m.renderCentered("Disconnected from server.\nPress Ctrl+C to exit.")
	}

	switch m.screen {
	case ScreenConnecting:
		return m.renderCentered("Connecting to server...")
	case ScreenWelcome:
		return m.renderCentered(RenderWelcome(m.modes, m.cursor, m.name))
	case ScreenPlaying:
		return m.renderPlaying()
	case ScreenGameOver:
		return m.renderCentered(RenderGameOver(m.snap, m.result, m.top, m.name))
	}
	return ""
}

func (m Model) renderCentered(content string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (m Model) renderPlaying() string {
	if !m.hasSnap {
		return m.renderCentered("Loading...")
	}

	board := RenderBoard(m.snap)
	info := RenderInfo(m.snap, m.name)

	leftPanel := lipgloss.NewStyle().
		Width(24).
		Render(info)

	centerPanel := lipgloss.NewStyle().
		Padding(1, 2).
		Render(board)

	rightPanel := lipgloss.NewStyle().
		Padding(1, 2).
		Render(RenderControls(m.keys))

	mainContent := lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftPanel,
		centerPanel,
		rightPanel,
	)
	if m.err != nil {
		mainContent = lipgloss.JoinVertical(lipgloss.Left, mainContent, errorStyle.Render(m.err.Error()))
	}

	return m.renderCentered(mainContent)
}
