// Package tui implements the interactive template previewer. It is thin
// presentation glue over the generation pipeline: all resolution and
// rendering happens in the core packages.
package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizsmith/internal/generate"
	"github.com/abhisek/quizsmith/internal/template"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8B5CF6"))
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F8FAFC")).Padding(1, 0)
	correctStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	wrongStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F43F5E"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8")).Italic(true)
	diagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F97316"))
)

// Model is the previewer's Bubble Tea model: one template, one instance at a
// time, regenerated on demand.
type Model struct {
	tpl *template.Template
	gen *generate.Generator

	inst     *template.Instance
	diags    []generate.Diagnostic
	input    textinput.Model
	answered bool
	correct  bool
	right    int
	total    int
	width    int
}

// New creates a previewer for tpl drawing fresh instances from gen.
func New(tpl *template.Template, gen *generate.Generator) Model {
	ti := textinput.New()
	ti.Placeholder = "your answer"
	ti.Focus()

	m := Model{tpl: tpl, gen: gen, input: ti}
	m.nextInstance()
	return m
}

func (m *Model) nextInstance() {
	m.inst, m.diags = m.gen.Instantiate(m.tpl)
	m.answered = false
	m.input.Reset()
}

func (m Model) Init() tea.Cmd {
	return m.input.Focus()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if m.answered {
				m.nextInstance()
				return m, nil
			}
			given := strings.TrimSpace(m.input.Value())
			if given == "" {
				return m, nil
			}
			m.answered = true
			m.correct = template.CheckAnswer(given, m.inst.Answer)
			m.total++
			if m.correct {
				m.right++
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() tea.View {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Template %s", m.tpl.ID)))
	if m.tpl.Objective != "" {
		b.WriteString(hintStyle.Render(fmt.Sprintf("  (%s)", m.tpl.Objective)))
	}
	b.WriteString("\n")
	b.WriteString(questionStyle.Render(m.inst.Question))
	b.WriteString("\n")

	if m.answered {
		if m.correct {
			b.WriteString(correctStyle.Render("✓ Correct!"))
		} else {
			b.WriteString(wrongStyle.Render(fmt.Sprintf("✗ Wrong. Answer: %s", m.inst.Answer)))
		}
		b.WriteString(hintStyle.Render(fmt.Sprintf("\n%d/%d so far — enter for another, esc to quit", m.right, m.total)))
	} else {
		b.WriteString(m.input.View())
		b.WriteString(hintStyle.Render("\nenter to check, esc to quit"))
	}

	for _, d := range m.diags {
		b.WriteString("\n")
		b.WriteString(diagStyle.Render(fmt.Sprintf("! %s: %s", d.Variable, d.Reason)))
	}

	v := tea.NewView(b.String())
	return v
}

// Run starts the previewer and blocks until the operator quits.
func Run(tpl *template.Template, gen *generate.Generator) error {
	_, err := tea.NewProgram(New(tpl, gen)).Run()
	return err
}
