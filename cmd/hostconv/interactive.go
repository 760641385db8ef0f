package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/hostconv/conv"
	"github.com/wippyai/hostconv/host"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateSelectFunc modelState = iota
	stateInputArgs
	stateShowResult
)

type interactiveModel struct {
	err      error
	runner   *runner
	names    []string
	result   []string
	inputs   []textinput.Model
	params   []conv.Param
	selected int
	focusIdx int
	state    modelState
}

type callResultMsg struct {
	err   error
	lines []string
}

func newInteractiveModel(r *runner) *interactiveModel {
	return &interactiveModel{
		runner: r,
		names:  signatureNames(),
		state:  stateSelectFunc,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) current() signature {
	return signatures[m.names[m.selected]]
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputArgs {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectFunc && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectFunc && m.selected < len(m.names)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectFunc:
				m.prepareInputs()
				m.state = stateInputArgs
				return m, nil

			case stateInputArgs:
				return m, m.callFunction

			case stateShowResult:
				m.reset()
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInputArgs:
				m.state = stateSelectFunc
				m.inputs = nil
			case stateShowResult:
				m.reset()
			}
		}

	case callResultMsg:
		m.result = msg.lines
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) reset() {
	m.state = stateSelectFunc
	m.result = nil
	m.err = nil
}

func (m *interactiveModel) prepareInputs() {
	m.params = m.current().params()
	m.inputs = make([]textinput.Model, len(m.params))
	for i, p := range m.params {
		ti := textinput.New()
		ti.Placeholder = conv.TypeString(p.WitType())
		ti.Prompt = p.Name + " = "
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

// callFunction evaluates every non-empty input as an expression and passes
// it by keyword. Empty inputs are omitted.
func (m *interactiveModel) callFunction() tea.Msg {
	c := callSpec{
		Func:   m.current().name,
		Kwargs: make(map[string]host.Value),
	}
	for i, input := range m.inputs {
		src := strings.TrimSpace(input.Value())
		if src == "" {
			continue
		}
		v, diags := parseValue(src)
		if diags.HasErrors() {
			return callResultMsg{err: fmt.Errorf("%s: %w", m.params[i].Name, diags)}
		}
		c.Kwargs[m.params[i].Name] = v
	}

	lines, err := m.runner.execute(c)
	return callResultMsg{lines: lines, err: err}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Host Converters"))
	b.WriteString(" ")
	b.WriteString(m.runner.heap.Config().FSEncodingName)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectFunc:
		b.WriteString("Select a function to call:\n\n")
		for i, name := range m.names {
			line := m.formatFunc(signatures[name])
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter choose • q quit"))

	case stateInputArgs:
		sig := m.current()
		b.WriteString(fmt.Sprintf("Calling %s\n\n", funcStyle.Render(sig.name)))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(conv.TypeString(m.params[i].WitType())))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(`values are expressions: "big", 4096, pathlike("/tmp"), enum("Architecture", "X86_64")`))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter call • esc back"))

	case stateShowResult:
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", funcStyle.Render(m.current().name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(formatError(m.err)))
		} else {
			b.WriteString(resultStyle.Render(strings.Join(m.result, "\n")))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatFunc(sig signature) string {
	params := sig.params()
	parts := make([]string, len(params))
	for i, p := range params {
		s := p.Name + ": " + typeStyle.Render(conv.TypeString(p.WitType()))
		if p.Optional {
			s += "?"
		}
		parts[i] = s
	}
	return funcStyle.Render(sig.name) + "(" + strings.Join(parts, ", ") + ")"
}

func runInteractive(opts options) error {
	ctx := context.Background()
	r, err := newRunner(ctx, opts)
	if err != nil {
		return err
	}
	defer r.Close(ctx)

	p := tea.NewProgram(newInteractiveModel(r), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
