package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/precalc-roulette/internal/config"
	"github.com/jwebster45206/precalc-roulette/internal/logger"
	"github.com/jwebster45206/precalc-roulette/pkg/actor"
	"github.com/jwebster45206/precalc-roulette/pkg/deck"
	"github.com/jwebster45206/precalc-roulette/pkg/dice"
	"github.com/jwebster45206/precalc-roulette/pkg/revolver"
	"github.com/jwebster45206/precalc-roulette/pkg/state"
)

const GameTitle = "PRECALC ROULETTE"

type screen int

const (
	screenTitle screen = iota
	screenGame
	screenEnd
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	cfg    *config.Config
	pool   []deck.Card
	src    dice.Source
	logger *slog.Logger

	engine     *state.Engine
	transcript *state.Transcript

	logViewport viewport.Model
	keys        keyMap
	screen      screen
	width       int
	height      int
	status      string
	err         error

	// Quit confirmation state
	showQuitModal bool

	copyToClipboard func(string) error
}

// monsterTurnMsg is the delayed callback that lets the monster answer.
type monsterTurnMsg struct {
	session uuid.UUID
}

type keyMap struct {
	Answer   key.Binding
	Shoot    key.Binding
	Skip     key.Binding
	Continue key.Binding
	Restart  key.Binding
	Copy     key.Binding
	Quit     key.Binding
	Abort    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Answer:   key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-4", "answer")),
		Shoot:    key.NewBinding(key.WithKeys("s", "S"), key.WithHelp("S", "shoot the monster")),
		Skip:     key.NewBinding(key.WithKeys("k", "K"), key.WithHelp("K", "skip the shot")),
		Continue: key.NewBinding(key.WithKeys("enter", " ", "space"), key.WithHelp("space/enter", "continue")),
		Restart:  key.NewBinding(key.WithKeys("r", "R"), key.WithHelp("R", "new attempt")),
		Copy:     key.NewBinding(key.WithKeys("c", "C"), key.WithHelp("C", "copy transcript")),
		Quit:     key.NewBinding(key.WithKeys("q", "Q"), key.WithHelp("Q", "quit")),
		Abort:    key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(1, 2)

	logPanelStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			PaddingTop(1)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	hudStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	bangStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // red
			Bold(true)

	clickStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	optionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("120")).
			Bold(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

func NewConsoleUI(cfg *config.Config, pool []deck.Card, src dice.Source, log *slog.Logger) ConsoleUI {
	vp := viewport.New(30, 20)
	vp.MouseWheelEnabled = true

	return ConsoleUI{
		cfg:             cfg,
		pool:            pool,
		src:             src,
		logger:          log,
		logViewport:     vp,
		keys:            defaultKeyMap(),
		screen:          screenTitle,
		copyToClipboard: clipboard.WriteAll,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return nil
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLog()
		m.writeTranscript()
		return m, nil

	case monsterTurnMsg:
		// Stale ticks from an earlier session fall through the engine guard.
		if m.engine != nil && m.engine.ResolveMonsterTurn(msg.session) {
			m.writeTranscript()
		}
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Abort) {
			m.showQuitModal = true
			return m, nil
		}

		switch m.screen {
		case screenTitle:
			if key.Matches(msg, m.keys.Continue) {
				return m.startSession()
			}
		case screenGame:
			return m.updateGame(msg)
		case screenEnd:
			return m.updateEnd(msg)
		}
	}

	return m, nil
}

// updateGame forwards input to the engine. The engine decides whether the
// key means anything in the current phase.
func (m ConsoleUI) updateGame(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var applied bool

	switch {
	case key.Matches(msg, m.keys.Answer):
		applied = m.engine.Answer(int(msg.String()[0]-'1'))
	case key.Matches(msg, m.keys.Shoot):
		applied = m.engine.Decide(actor.Shoot)
	case key.Matches(msg, m.keys.Skip):
		applied = m.engine.Decide(actor.Skip)
	case key.Matches(msg, m.keys.Continue):
		if m.engine.Frame().Over() {
			m.screen = screenEnd
			return m, nil
		}
		applied = m.engine.Advance()
	default:
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		return m, cmd
	}

	if !applied {
		return m, nil
	}
	m.writeTranscript()
	return m, m.scheduleMonster()
}

func (m ConsoleUI) updateEnd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Restart):
		return m.startSession()
	case key.Matches(msg, m.keys.Copy):
		if err := m.copyToClipboard(m.transcript.String()); err != nil {
			logger.WithError(m.logger, err).Warn("Failed to copy transcript")
			m.status = "Could not copy transcript: " + err.Error()
		} else {
			m.status = fmt.Sprintf("Copied %d transcript entries to the clipboard.", m.transcript.Len())
		}
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

// startSession throws the old duel away and opens a new one.
func (m ConsoleUI) startSession() (tea.Model, tea.Cmd) {
	engine, err := state.NewSession(m.cfg.Rules(), m.pool, m.src, m.logger)
	if err != nil {
		logger.WithError(m.logger, err).Error("Failed to start session")
		m.err = err
		return m, nil
	}

	m.err = nil
	m.status = ""
	m.transcript = &state.Transcript{}
	m.engine = engine.WithSink(m.transcript)
	m.engine.Start()
	m.screen = screenGame
	m.writeTranscript()

	logger.WithSession(m.logger, engine.Session()).Info("Session started",
		"chambers", m.cfg.Chambers,
		"questions", engine.State().Deck.Size())
	return m, nil
}

// scheduleMonster arms the monster's delayed answer when it is the monster's
// question. The tick carries the session so a restart voids it.
func (m ConsoleUI) scheduleMonster() tea.Cmd {
	f := m.engine.Frame()
	if !f.AwaitingMonster {
		return nil
	}
	session := f.Session
	return tea.Tick(f.MonsterDelay, func(time.Time) tea.Msg {
		return monsterTurnMsg{session: session}
	})
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLog()

	case monsterTurnMsg:
		// The duel keeps running behind the modal.
		if m.engine != nil && m.engine.ResolveMonsterTurn(msg.session) {
			m.writeTranscript()
		}

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
			}
		}
	}

	return m, nil
}

func (m *ConsoleUI) resizeLog() {
	logWidth := m.width - gamePanelWidth(m.width) - 4
	if logWidth < 10 {
		logWidth = 10
	}
	m.logViewport.Width = logWidth
	m.logViewport.Height = max(m.height-6, 5)
}

// writeTranscript refreshes the transcript panel.
func (m *ConsoleUI) writeTranscript() {
	if m.transcript == nil {
		m.logViewport.SetContent("")
		return
	}

	width := max(m.logViewport.Width-2, 10)
	var b strings.Builder
	b.WriteString(titleStyle.Render("TRANSCRIPT") + "\n\n")
	for _, e := range m.transcript.Entries() {
		b.WriteString(speakerStyle.Render(e.Speaker()+":") + "\n")
		b.WriteString(wordwrap.String(e.Text, width) + "\n\n")
	}
	m.logViewport.SetContent(b.String())
	m.logViewport.GotoBottom()
}

func gamePanelWidth(total int) int {
	w := int(float64(total)*0.62) - 2
	if w < 40 {
		w = 40
	}
	return w
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if m.width == 0 || m.height == 0 {
		return "\n  Initializing..."
	}

	switch m.screen {
	case screenGame:
		return m.renderGame()
	case screenEnd:
		return m.renderEnd()
	default:
		return m.renderTitle()
	}
}

func (m ConsoleUI) renderTitle() string {
	var content strings.Builder
	content.WriteString(titleStyle.Render(GameTitle) + "\n\n")
	content.WriteString(strings.Join([]string{
		"A dim lamp swings over the table.",
		"You are shackled. Across from you: a monster.",
		"A revolver. One bullet. A deck of math cards.",
		"Answer correctly to earn a choice.",
		"Answer wrong and you must shoot yourself.",
		"Last one standing wins.",
	}, "\n"))
	content.WriteString("\n\n")
	content.WriteString(dimStyle.Render(strings.Join([]string{
		"Controls:",
		"- Choose answers: [1]-[4]",
		"- If correct: [S] shoot monster, [K] skip",
		"- Continue prompts: [Space] / [Enter]",
		"- Restart on end screen: [R]",
	}, "\n")))
	content.WriteString("\n\n")
	if m.err != nil {
		content.WriteString(bangStyle.Render("Error: "+m.err.Error()) + "\n\n")
	}
	content.WriteString(titleStyle.Render("Press Enter to begin"))

	box := panelStyle.Width(min(64, m.width-4)).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m ConsoleUI) renderGame() string {
	f := m.engine.Frame()
	panelWidth := gamePanelWidth(m.width)
	textWidth := panelWidth - 8

	hud := hudStyle.Render(fmt.Sprintf("Round %d    Turn: %s", f.Round, f.Turn.Title())) + "\n" +
		dimStyle.Render(fmt.Sprintf("Status - You: %s | Monster: %s", aliveLabel(f.PlayerAlive), aliveLabel(f.MonsterAlive))) + "\n" +
		dimStyle.Render(f.Revolver)

	var body strings.Builder
	switch f.Phase {
	case state.PhaseQuestion:
		body.WriteString(dimStyle.Render(state.CardPrompt(f.Turn)) + "\n\n")
		writeCard(&body, f.Card, textWidth)
	case state.PhaseDecision:
		writeCard(&body, f.Card, textWidth)
		body.WriteString("\n" + renderMessage(f, textWidth) + "\n\n")
		body.WriteString(dimStyle.Render(helpLine(m.keys.Shoot, m.keys.Skip)))
	case state.PhaseMessage:
		body.WriteString(renderMessage(f, textWidth) + "\n\n")
		if f.Over() {
			body.WriteString(dimStyle.Render("[Space] / [Enter] to face what comes next"))
		} else {
			body.WriteString(dimStyle.Render(helpLine(m.keys.Continue)))
		}
	}

	gamePanel := panelStyle.Width(panelWidth).Render(hud + "\n\n" + body.String())
	logPanel := logPanelStyle.Render(m.logViewport.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, gamePanel, logPanel)
}

func (m ConsoleUI) renderEnd() string {
	f := m.engine.Frame()

	var content strings.Builder
	if f.Outcome == state.OutcomeWon {
		content.WriteString(winStyle.Render(state.EndTitle(f.Outcome)))
	} else {
		content.WriteString(bangStyle.Render(state.EndTitle(f.Outcome)))
	}
	content.WriteString("\n\n")
	content.WriteString(wordwrap.String(state.EndSubtitle(f.Outcome), 56))
	content.WriteString("\n\n")
	content.WriteString(dimStyle.Render(fmt.Sprintf("The duel lasted %d rounds.", f.Round-1)))
	content.WriteString("\n\n")
	content.WriteString(dimStyle.Render(helpLine(m.keys.Restart, m.keys.Copy, m.keys.Quit)))
	if m.status != "" {
		content.WriteString("\n\n" + m.status)
	}

	box := panelStyle.Width(min(64, m.width-4)).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to leave the table?")
	content.WriteString("\n\n")
	content.WriteString(dimStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func writeCard(b *strings.Builder, c *deck.Card, width int) {
	if c == nil {
		return
	}
	b.WriteString(titleStyle.Render(wordwrap.String(c.Prompt, width)) + "\n\n")
	for i, opt := range c.Options {
		b.WriteString(optionStyle.Render(fmt.Sprintf("  [%d] %s", i+1, opt)) + "\n")
	}
}

// renderMessage colors the final BANG or click line of a narrative.
func renderMessage(f state.Frame, width int) string {
	lines := strings.Split(f.Message, "\n")
	for i, line := range lines {
		lines[i] = wordwrap.String(line, width)
	}
	if n := len(lines); n > 0 {
		switch f.Shot {
		case revolver.Bang:
			lines[n-1] = bangStyle.Render(lines[n-1])
		case revolver.NoBang, revolver.Spent:
			lines[n-1] = clickStyle.Render(lines[n-1])
		}
	}
	return strings.Join(lines, "\n")
}

func helpLine(bindings ...key.Binding) string {
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		h := b.Help()
		parts[i] = fmt.Sprintf("[%s] %s", h.Key, h.Desc)
	}
	return strings.Join(parts, "   ")
}

func aliveLabel(alive bool) string {
	if alive {
		return "Alive"
	}
	return "Dead"
}
