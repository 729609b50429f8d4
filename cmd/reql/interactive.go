package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/reql/transcoder"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	termStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	modeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err     error
	input   textinput.Model
	source  string
	term    string
	result  string
	history []string
	conf    config
}

type encodedMsg struct {
	err    error
	source string
	term   string
	result string
}

func newInteractiveModel(conf config) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = `{name: "ada", tags: [1, 2]}`
	ti.Prompt = "value: "
	ti.Width = 60
	ti.Focus()
	return &interactiveModel{input: ti, conf: conf}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+r":
			m.conf.Encode.RawJSON = !m.conf.Encode.RawJSON
			return m, nil

		case "enter":
			src := strings.TrimSpace(m.input.Value())
			if src == "" {
				return m, nil
			}
			return m, m.encode(src)
		}

	case encodedMsg:
		m.source = msg.source
		m.term = msg.term
		m.result = msg.result
		m.err = msg.err
		if msg.err == nil {
			m.history = append(m.history, msg.source)
		}
		m.input.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// encode runs a fresh Encoder per submission; an Encoder binds once it has
// produced an expression.
func (m *interactiveModel) encode(src string) tea.Cmd {
	opts := m.conf.encodeOptions()
	return func() tea.Msg {
		doc, err := parseDocument([]byte(src))
		if err != nil {
			return encodedMsg{source: src, err: err}
		}

		res, err := transcoder.NewEncoder(opts...).Encode(doc)
		if err != nil {
			return encodedMsg{source: src, err: err}
		}

		query, ok := res.(*transcoder.Expr)
		if !ok {
			query, err = transcoder.ExprOf(res, opts...)
			if err != nil {
				return encodedMsg{source: src, err: err}
			}
			return encodedMsg{source: src, term: query.Term().Type.String(), result: "deferred: " + query.String()}
		}
		return encodedMsg{source: src, term: query.Term().Type.String(), result: query.String()}
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("ReQL Encoder"))
	mode := "terms"
	if m.conf.Encode.RawJSON {
		mode = "raw json"
	}
	b.WriteString(" ")
	b.WriteString(modeStyle.Render(fmt.Sprintf("[%s, max nesting %d]", mode, m.conf.Encode.MaxNesting)))
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.source != "" {
		b.WriteString(fmt.Sprintf("Encoded %s\n", helpStyle.Render(m.source)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(termStyle.Render(m.term))
			b.WriteString(" ")
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
	}

	if n := len(m.history); n > 0 {
		b.WriteString(helpStyle.Render(fmt.Sprintf("%d encoded", n)))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("enter encode • ctrl+r toggle raw json • esc quit"))

	return b.String()
}

func runInteractive(conf config) error {
	p := tea.NewProgram(newInteractiveModel(conf), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
