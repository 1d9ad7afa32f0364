// Package repl implements the interactive calculator prompt.
package repl

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/codefionn/yardcalc/internal/calc"
	"github.com/codefionn/yardcalc/internal/consts"
	"github.com/codefionn/yardcalc/internal/history"
	"github.com/codefionn/yardcalc/internal/logger"
	"github.com/muesli/reflow/wordwrap"
	"golang.design/x/clipboard"
)

const maxScrollback = 200

// History is the persistence the prompt needs for recall
type History interface {
	Append(entry history.Entry) (int64, error)
	Recent(limit int) ([]history.Entry, error)
}

// ClipboardCopyMsg is sent when content is copied to clipboard
type ClipboardCopyMsg struct {
	Content string
	Success bool
	Error   string
}

var (
	echoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	resultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
)

type scrollbackLine struct {
	expression string
	output     string
	failed     bool
}

// Model is the bubbletea model of the prompt
type Model struct {
	engine *calc.Engine
	hist   History
	input  textinput.Model

	lines      []scrollbackLine
	recall     []string
	recallIdx  int // len(recall) means "not recalling"
	draft      string
	lastResult string
	status     string
	width      int
	quitting   bool

	copy func(string) tea.Cmd
}

// NewModel creates the prompt. hist may be nil; otherwise up to limit
// earlier expressions are loaded for recall.
func NewModel(engine *calc.Engine, hist History, limit int) Model {
	if engine == nil {
		engine = calc.New(calc.Options{})
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "3 + 4 * 2"
	ti.CharLimit = consts.MaxExpressionBytes
	ti.Focus()

	m := Model{
		engine: engine,
		hist:   hist,
		input:  ti,
		copy:   copyToClipboard,
	}

	if hist != nil && limit > 0 {
		entries, err := hist.Recent(limit)
		if err != nil {
			logger.Warn("Failed to load history: %v", err)
		}
		for _, e := range entries {
			m.recall = append(m.recall, e.Expression)
		}
	}
	m.recallIdx = len(m.recall)

	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-len(m.input.Prompt)-1, 0)
		return m, nil

	case ClipboardCopyMsg:
		if msg.Success {
			m.status = fmt.Sprintf("Copied %s", msg.Content)
		} else {
			m.status = msg.Error
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit

		case tea.KeyEnter:
			return m.submit(), nil

		case tea.KeyUp:
			return m.recallPrevious(), nil

		case tea.KeyDown:
			return m.recallNext(), nil

		case tea.KeyCtrlY:
			if m.lastResult == "" {
				m.status = "Nothing to copy"
				return m, nil
			}
			return m, m.copy(m.lastResult)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() Model {
	expr := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	m.status = ""
	if expr == "" {
		return m
	}

	entry := history.Entry{Expression: expr}
	line := scrollbackLine{expression: expr}

	value, err := m.engine.Compute(expr)
	if err != nil {
		line.output = err.Error()
		line.failed = true
		entry.Error = err.Error()
	} else {
		line.output = calc.FormatResult(value)
		m.lastResult = line.output
		entry.Result = line.output
	}

	m.lines = append(m.lines, line)
	if len(m.lines) > maxScrollback {
		m.lines = m.lines[len(m.lines)-maxScrollback:]
	}

	if n := len(m.recall); n == 0 || m.recall[n-1] != expr {
		m.recall = append(m.recall, expr)
	}
	m.recallIdx = len(m.recall)
	m.draft = ""

	if m.hist != nil {
		if _, err := m.hist.Append(entry); err != nil {
			logger.Warn("Failed to record history: %v", err)
			m.status = "History not saved"
		}
	}
	return m
}

func (m Model) recallPrevious() Model {
	if m.recallIdx == 0 {
		return m
	}
	if m.recallIdx == len(m.recall) {
		m.draft = m.input.Value()
	}
	m.recallIdx--
	m.input.SetValue(m.recall[m.recallIdx])
	m.input.CursorEnd()
	return m
}

func (m Model) recallNext() Model {
	if m.recallIdx >= len(m.recall) {
		return m
	}
	m.recallIdx++
	if m.recallIdx == len(m.recall) {
		m.input.SetValue(m.draft)
	} else {
		m.input.SetValue(m.recall[m.recallIdx])
	}
	m.input.CursorEnd()
	return m
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	for _, line := range m.lines {
		b.WriteString(echoStyle.Render(m.wrap("> " + line.expression)))
		b.WriteByte('\n')
		if line.failed {
			b.WriteString(errorStyle.Render(m.wrap(line.output)))
		} else {
			b.WriteString(resultStyle.Render(m.wrap(line.output)))
		}
		b.WriteByte('\n')
	}

	b.WriteString(m.input.View())
	b.WriteByte('\n')
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteByte('\n')
	}
	b.WriteString(helpStyle.Render("↑/↓ history • ctrl+y copy result • ctrl+d quit"))
	b.WriteByte('\n')
	return b.String()
}

func (m Model) wrap(s string) string {
	if m.width <= 0 {
		return s
	}
	return wordwrap.String(s, m.width)
}

// copyToClipboard copies content to system clipboard
func copyToClipboard(content string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.Init(); err != nil {
			return ClipboardCopyMsg{
				Success: false,
				Error:   fmt.Sprintf("Failed to initialize clipboard: %v", err),
			}
		}

		clipboard.Write(clipboard.FmtText, []byte(content))
		return ClipboardCopyMsg{Content: content, Success: true}
	}
}

// Run starts the prompt on the terminal and blocks until the user quits
func Run(ctx context.Context, engine *calc.Engine, hist History, limit int) error {
	p := tea.NewProgram(NewModel(engine, hist, limit), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}
