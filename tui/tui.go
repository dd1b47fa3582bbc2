// Package tui provides a Bubble Tea terminal UI for the RealmForge engine.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mwynn/realmforge/cli"
	"github.com/mwynn/realmforge/types"
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for the RealmForge TUI.
type Model struct {
	session *cli.Session

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated output lines (unstyled, for re-wrapping)

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
	lastCmd  string
}

// gameOutputMsg carries command output into the Update loop.
type gameOutputMsg struct {
	input    string   // echoed player input (empty for intro)
	lines    []string // output lines
	isSystem bool     // true for meta-command output
}

// engineEventMsg carries one engine event into the Update loop. Events
// arrive here from the engine subscription, whichever goroutine dispatched
// them: a timed craft or a contract merge-back shows up the same way a
// direct command does.
type engineEventMsg struct {
	event types.Event
}

// New creates a TUI model wired to the given session.
func New(session *cli.Session) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		session: session,
		input:   ti,
		history: NewHistory(100),
	}
}

// Run starts the Bubble Tea program. Engine events are forwarded into the
// Update loop for the lifetime of the program.
func Run(session *cli.Session) error {
	m := New(session)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	session.Engine.Subscribe(func(ev types.Event) {
		p.Send(engineEventMsg{event: ev})
	})
	_, err := p.Run()
	return err
}

// Init returns the initial command that produces the intro and first status.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		var lines []string

		if m.session.Defs != nil {
			w := m.session.Defs.World
			if w.Name != "" {
				lines = append(lines, w.Name)
				lines = append(lines, "")
			}
			if w.Intro != "" {
				lines = append(lines, w.Intro)
				lines = append(lines, "")
			}
		}

		lines = append(lines, m.session.Execute("status")...)

		return gameOutputMsg{lines: lines}
	}
}

// Update handles messages (key presses, window resize, game output, events).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case gameOutputMsg:
		m = m.appendOutput(msg)

	case engineEventMsg:
		m = m.appendEvent(msg.event)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// Handle "again" / "g".
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(gameOutputMsg{
				input: input, lines: []string{"Nothing to repeat."}, isSystem: true,
			})
			return m, nil
		}
		input = m.lastCmd
	} else {
		m.lastCmd = input
	}

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	// Game command. Dispatched events arrive separately as engineEventMsg.
	m = m.appendOutput(gameOutputMsg{input: input, lines: m.session.Execute(input)})
	return m, nil
}

// appendOutput adds command output to the log and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	// Blank line separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// appendEvent adds one formatted engine event to the log. No turn separator:
// several events commonly follow a single command.
func (m Model) appendEvent(ev types.Event) Model {
	line := cli.FormatEvent(ev)
	m.rawLines = append(m.rawLines, rawLine{text: line, kind: classifyLine(line)})
	if m.trace {
		m.rawLines = append(m.rawLines, rawLine{
			text: fmt.Sprintf("[trace] %s %v", ev.Type, ev.Data),
			kind: kindTrace,
		})
	}
	m.refreshViewport()
	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := len(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the full TUI layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	switch strings.Fields(input)[0] {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/help":
		return m.cmdHelp(), false

	case "/state":
		return m.cmdState(), false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", input)}, false
	}
}

func (m *Model) cmdHelp() []string {
	return []string{
		"System:",
		"  /quit                 Exit game",
		"  /help                 Show this help",
		"  /state                Debug: summarize the snapshot",
		"  /trace                Toggle event trace output",
		"",
		"Queries:",
		"  status, inventory (i), quests (q), market, recipes,",
		"  regions (map), look (l), guild",
		"",
		"Actions:",
		"  move <x> <y> <z>      Walk to a position",
		"  travel <region>       Travel to another region",
		"  fight <monster>       Fight a monster here",
		"  harvest <resource>    Harvest a resource node here",
		"  equip <item> [slot]   Equip a weapon or armor",
		"  use <item>            Drink or eat a consumable",
		"  buy <item>            Buy from the marketplace",
		"  craft <recipe>        Craft from materials",
		"  advance <quest>       Progress a quest objective",
		"  claim <quest>         Claim a completed quest's rewards",
		"  join <guild>          Join a guild",
		"  found <name>          Found your own guild",
		"  contribute <amount>   Donate to the guild treasury",
		"  allocate <stat>       Spend a skill point",
		"  stake <amount>        Stake tokens",
		"",
		"Contract calls:",
		"  seek                  Ask the quest board for work",
		"  delve [seed]          Explore a generated dungeon",
		"  rewards               Claim staking rewards",
		"  mint <item>           Mint an item on chain",
		"",
		"  again (g)             Repeat your last command",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for command history",
	}
}

func (m *Model) cmdState() []string {
	st := m.session.Engine.State()
	p := st.Player
	output := []string{
		fmt.Sprintf("Player: %s (Lv %d, %d xp, %d skill points)", p.Name, p.Level, p.Experience, p.SkillPoints),
		fmt.Sprintf("Tokens: %d (staked: %d)", p.Tokens, p.Staked),
		fmt.Sprintf("Region: %s  Position: (%v, %v, %v)", p.CurrentRegion, p.Position.X, p.Position.Y, p.Position.Z),
		fmt.Sprintf("Inventory: %d items  Quests: %d  Recipes: %d", len(st.Inventory), len(st.Quests), len(st.Recipes)),
	}
	if st.Guild != nil {
		output = append(output, fmt.Sprintf("Guild: %s (treasury %d)", st.Guild.Name, st.Guild.Treasury))
	}
	return output
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
