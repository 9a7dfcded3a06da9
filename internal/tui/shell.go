// internal/tui/shell.go
// Package tui implements the interactive question shell.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/passageqa/internal/rag"
	"github.com/mwiater/passageqa/internal/util"
)

// Asker is the shell-facing subset of rag.Service.
type Asker interface {
	Ask(ctx context.Context, question string, topK int) ([]rag.RankedAnswer, error)
	Stats() rag.Stats
}

type answersMsg struct {
	question string
	answers  []rag.RankedAnswer
}

type askErr struct{ error }

type model struct {
	ctx      context.Context
	service  Asker
	topK     int
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	answers  []rag.RankedAnswer
	question string
	cursor   int
	busy     bool
	err      error
	width    int
	height   int
}

func initialModel(ctx context.Context, service Asker, topK int) *model {
	ti := textinput.New()
	ti.Prompt = "? "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &model{
		ctx:      ctx,
		service:  service,
		topK:     topK,
		input:    ti,
		viewport: viewport.New(0, 0),
		spinner:  sp,
	}
}

// Run starts the shell and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, service Asker, topK int) error {
	p := tea.NewProgram(initialModel(ctx, service, topK), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m *model) Init() tea.Cmd { return textinput.Blink }

func (m *model) ask(question string) tea.Cmd {
	ctx, service, topK := m.ctx, m.service, m.topK
	return func() tea.Msg {
		answers, err := service.Ask(ctx, question, topK)
		if err != nil {
			return askErr{err}
		}
		return answersMsg{question: question, answers: answers}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		_, frame := resultBoxStyle.GetFrameSize()
		_, inputFrame := inputBoxStyle.GetFrameSize()
		// header, status and a spacer line
		vh := msg.Height - 3 - inputFrame - 1 - frame
		m.viewport.Width = max(20, msg.Width-4)
		m.viewport.Height = max(3, vh)
		m.viewport.SetContent(m.renderAnswer())
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			q := strings.TrimSpace(m.input.Value())
			if q == "" || m.busy {
				return m, nil
			}
			m.busy = true
			m.err = nil
			return m, tea.Batch(m.ask(q), m.spinner.Tick)
		case tea.KeyDown:
			if len(m.answers) > 0 {
				m.cursor = (m.cursor + 1) % len(m.answers)
				m.viewport.SetContent(m.renderAnswer())
			}
			return m, nil
		case tea.KeyUp:
			if len(m.answers) > 0 {
				m.cursor = (m.cursor - 1 + len(m.answers)) % len(m.answers)
				m.viewport.SetContent(m.renderAnswer())
			}
			return m, nil
		case tea.KeyPgDown, tea.KeyPgUp:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case answersMsg:
		m.busy = false
		m.question = msg.question
		m.answers = msg.answers
		m.cursor = 0
		m.input.SetValue("")
		m.viewport.SetContent(m.renderAnswer())
		return m, nil

	case askErr:
		m.busy = false
		m.err = msg.error
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}
	header := headerStyle.Render("passageqa") + renderIndexBadge(m.service.Stats()) + " " + renderTopKBadge(m.topK)
	body := resultBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	return header + "\n" + body + "\n" + input + "\n" + m.statusLine()
}

func (m *model) statusLine() string {
	switch {
	case m.busy:
		return m.spinner.View() + " Searching..."
	case m.err != nil:
		return errorStyle.Render("Error: " + m.err.Error())
	case len(m.answers) > 0:
		return statusStyle.Render(fmt.Sprintf("%d answers for %q  (up/down to browse, esc to quit)", len(m.answers), util.Ellipsize(m.question, 60)))
	default:
		return statusStyle.Render("Ready. Esc or Ctrl+C quits.")
	}
}

func (m *model) renderAnswer() string {
	if len(m.answers) == 0 {
		return "No answers yet."
	}
	a := m.answers[m.cursor]
	title := fmt.Sprintf("Answer %d/%d  combined=%.4f  extraction=%.4f  retrieval=%.4f  passage=%d",
		m.cursor+1, len(m.answers), a.CombinedScore, a.ExtractionScore, a.RetrievalScore, a.PassageID)
	text := util.Wrap(strings.TrimSpace(a.AnswerText), m.viewport.Width)
	switch {
	case a.Failed:
		text = errorStyle.Render("(extraction failed)")
	case text == "":
		text = "(no answer found in this passage)"
	default:
		text = answerStyle.Render(text)
	}
	return title + "\n\n" + text
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	answerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)
