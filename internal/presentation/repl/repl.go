// Package repl implements the interactive Lua prompt of the facet CLI.
package repl

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Evaluator runs interactive input against a live runtime.
type Evaluator interface {
	// Eval runs one input and returns its printable results.
	Eval(ctx context.Context, src string) ([]string, error)
	// GlobalNames lists the names visible to completion.
	GlobalNames() []string
}

var (
	accentColor    = lipgloss.Color("#818cf8")
	successColor   = lipgloss.Color("#4ade80")
	errorColor     = lipgloss.Color("#f87171")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#F59E0B")

	promptStyle   = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	resultStyle   = lipgloss.NewStyle().Foreground(successColor)
	errorStyle    = lipgloss.NewStyle().Foreground(errorColor)
	mutedStyle    = lipgloss.NewStyle().Foreground(mutedColor)
	headerStyle   = lipgloss.NewStyle().Foreground(accentColor).Bold(true).Padding(0, 1)
	helpKeyStyle  = lipgloss.NewStyle().Foreground(highlightColor)
	helpDescStyle = lipgloss.NewStyle().Foreground(mutedColor)
	borderStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

var luaKeywords = []string{
	"and", "break", "do", "else", "elseif", "end", "false", "for", "function",
	"if", "in", "local", "nil", "not", "or", "repeat", "return", "then",
	"true", "until", "while",
}

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	CtrlC key.Binding
	CtrlD key.Binding
	CtrlL key.Binding
	Tab   key.Binding
	CtrlK key.Binding
}

var keys = keyMap{
	Up:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous input")),
	Down:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next input")),
	Enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "evaluate")),
	CtrlC: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "interrupt or quit")),
	CtrlD: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "quit")),
	CtrlL: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
	Tab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete")),
	CtrlK: key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "toggle help")),
}

// evalResultMsg carries the outcome of an evaluation started by Update.
type evalResultMsg struct {
	input   string
	results []string
	err     error
}

// Model is the bubbletea model of the prompt. While an evaluation runs,
// the Lua state belongs to it and input is held back; ctrl+c cancels it.
type Model struct {
	textInput  textinput.Model
	eval       Evaluator
	version    string
	history    []historyEntry
	cmdHistory []string
	historyIdx int
	cancel     context.CancelFunc

	width       int
	height      int
	showHelp    bool
	running     bool
	quitting    bool
	initialized bool
}

// New creates a prompt evaluating input with eval.
func New(eval Evaluator, version string) Model {
	ti := textinput.New()
	ti.Placeholder = "type a Lua expression or statement..."
	ti.Focus()
	ti.CharLimit = 2000
	ti.Width = 60
	ti.PromptStyle = promptStyle
	ti.Prompt = "facet> "

	return Model{
		textInput:  ti,
		eval:       eval,
		version:    version,
		historyIdx: -1,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		m.initialized = true
		return m, nil

	case evalResultMsg:
		m.running = false
		m.cancel = nil
		m.history = append(m.history, formatResult(msg))
		return m, nil

	case tea.KeyMsg:
		if m.running {
			if key.Matches(msg, keys.CtrlC) && m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, keys.CtrlC), key.Matches(msg, keys.CtrlD):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.CtrlL):
			m.history = nil
			return m, nil

		case key.Matches(msg, keys.CtrlK):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, keys.Up):
			if len(m.cmdHistory) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.cmdHistory) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.historyIdx != -1 {
				if m.historyIdx < len(m.cmdHistory)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Tab):
			return m.complete(), nil

		case key.Matches(msg, keys.Enter):
			input := strings.TrimSpace(m.textInput.Value())
			if input == "" {
				return m, nil
			}
			m.textInput.SetValue("")
			m.historyIdx = -1

			if strings.HasPrefix(input, ":") {
				return m.handleCommand(input)
			}

			m.cmdHistory = append(m.cmdHistory, input)
			return m.start(input)
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// start hands input to the evaluator on the command goroutine.
func (m Model) start(input string) (Model, tea.Cmd) {
	ctx, cancel := context.WithCancel(context.Background())
	m.running = true
	m.cancel = cancel
	eval := m.eval
	return m, func() tea.Msg {
		defer cancel()
		results, err := eval.Eval(ctx, input)
		return evalResultMsg{input: input, results: results, err: err}
	}
}

func formatResult(msg evalResultMsg) historyEntry {
	if msg.err != nil {
		return historyEntry{input: msg.input, output: msg.err.Error(), isErr: true}
	}
	if len(msg.results) == 0 {
		return historyEntry{input: msg.input, output: "ok"}
	}
	return historyEntry{input: msg.input, output: strings.Join(msg.results, "\t")}
}

func (m Model) handleCommand(input string) (Model, tea.Cmd) {
	cmd := strings.Fields(input)[0]

	switch cmd {
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.history = nil
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		m.history = append(m.history, historyEntry{
			input:  input,
			output: fmt.Sprintf("Unknown command: %s", cmd),
			isErr:  true,
		})
	}
	return m, nil
}

// complete extends the identifier under the cursor from the globals and
// Lua keywords. Several candidates are listed instead.
func (m Model) complete() Model {
	input := m.textInput.Value()
	start := strings.LastIndexFunc(input, func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	}) + 1
	word := input[start:]
	if word == "" {
		return m
	}

	var completions []string
	for _, name := range append(slices.Clone(luaKeywords), m.eval.GlobalNames()...) {
		if strings.HasPrefix(name, word) && name != word {
			completions = append(completions, name)
		}
	}

	switch len(completions) {
	case 0:
	case 1:
		m.textInput.SetValue(input[:start] + completions[0])
		m.textInput.CursorEnd()
	default:
		m.history = append(m.history, historyEntry{
			output: "Completions: " + strings.Join(completions, ", "),
		})
	}
	return m
}

func (m Model) View() string {
	if !m.initialized {
		return "Loading..."
	}
	if m.quitting {
		return mutedStyle.Render("Goodbye!\n")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("facet REPL") + " " + mutedStyle.Render("v"+m.version) + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", max(min(m.width-2, 60), 0))) + "\n\n")

	reservedLines := 8
	if m.showHelp {
		reservedLines += 9
	}
	availableHeight := max(m.height-reservedLines, 1)

	historyStart := 0
	if len(m.history) > availableHeight {
		historyStart = len(m.history) - availableHeight
	}
	for _, entry := range m.history[historyStart:] {
		if entry.input != "" {
			b.WriteString(mutedStyle.Render("  › ") + entry.input + "\n")
		}
		if entry.isErr {
			b.WriteString("  " + errorStyle.Render("✗ "+entry.output) + "\n")
		} else {
			b.WriteString("  " + resultStyle.Render("→ "+entry.output) + "\n")
		}
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString(renderHelpPanel() + "\n")
	}

	if m.running {
		b.WriteString(mutedStyle.Render("  running... (ctrl+c to interrupt)") + "\n\n")
	} else {
		b.WriteString(m.textInput.View() + "\n\n")
	}

	footer := helpKeyStyle.Render("ctrl+k") + helpDescStyle.Render(" help  ") +
		helpKeyStyle.Render("ctrl+l") + helpDescStyle.Render(" clear  ") +
		helpKeyStyle.Render("ctrl+c") + helpDescStyle.Render(" quit")
	b.WriteString(footer)

	return b.String()
}

func renderHelpPanel() string {
	help := []struct {
		key  string
		desc string
	}{
		{"↑/↓", "Navigate input history"},
		{"Tab", "Complete globals and keywords"},
		{"Enter", "Evaluate"},
		{":help", "Toggle this help"},
		{":clear", "Clear history"},
		{":quit", "Exit REPL"},
	}

	lines := []string{lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Help")}
	for _, h := range help {
		lines = append(lines, fmt.Sprintf("  %s  %s",
			helpKeyStyle.Render(fmt.Sprintf("%-8s", h.key)),
			helpDescStyle.Render(h.desc)))
	}
	return borderStyle.Render(strings.Join(lines, "\n"))
}

// Run starts the prompt on the terminal and blocks until the user quits.
func Run(eval Evaluator, version string) error {
	p := tea.NewProgram(New(eval, version), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
