package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/akolanti/kbchat/internal/api"
	"github.com/akolanti/kbchat/internal/config"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ChatPort is the TUI-facing subset of the chat API client.
type ChatPort interface {
	Ask(ctx context.Context, message string, topK int) (api.ChatResponse, error)
}

type answerMsg struct {
	resp api.ChatResponse
}

type errMsg struct {
	err error
}

// Model is the Bubble Tea model for the chat front end.
type Model struct {
	client     ChatPort
	apiURL     string
	input      textinput.Model
	viewport   viewport.Model
	transcript *Transcript
	sources    []api.Source
	topK       int
	status     string
	pending    bool
	ready      bool
}

func New(client ChatPort, apiURL string, topK int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		client:     client,
		apiURL:     apiURL,
		input:      ti,
		viewport:   viewport.New(0, 0),
		transcript: &Transcript{},
		topK:       clampTopK(topK),
		status:     "Ready. ctrl+up/ctrl+down changes top_k, ctrl+c quits.",
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, bh := transcriptBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header lines, status, input box, spacer
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-bh)
		m.refresh()
		return m, nil

	case answerMsg:
		m.pending = false
		m.transcript.Append(RoleAssistant, msg.resp.Answer)
		m.sources = msg.resp.Sources
		m.status = fmt.Sprintf("%d sources", len(msg.resp.Sources))
		m.refresh()
		return m, nil

	case errMsg:
		m.pending = false
		m.status = "Error: " + msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			return m.submit()
		case "ctrl+up":
			m.topK = clampTopK(m.topK + 1)
			return m, nil
		case "ctrl+down":
			m.topK = clampTopK(m.topK - 1)
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit records the question and starts the request; only one request is in flight at a time.
func (m Model) submit() (tea.Model, tea.Cmd) {
	question := m.input.Value()
	if m.pending || strings.TrimSpace(question) == "" {
		return m, nil
	}
	m.transcript.Append(RoleUser, question)
	m.sources = nil
	m.input.Reset()
	m.pending = true
	m.status = "Thinking..."
	m.refresh()
	return m, ask(m.client, question, m.topK)
}

func ask(client ChatPort, question string, topK int) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.Ask(context.Background(), question, topK)
		if err != nil {
			return errMsg{err: err}
		}
		return answerMsg{resp: resp}
	}
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Knowledge Base Chat")
	settings := mutedStyle.Render(fmt.Sprintf("%s  top_k=%d", m.apiURL, m.topK))
	body := transcriptBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + settings + "\n" + body + "\n" + input + "\n" + status
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m Model) renderTranscript() string {
	if m.transcript.Len() == 0 {
		return mutedStyle.Render("No messages yet.")
	}
	var b strings.Builder
	for _, e := range m.transcript.Entries() {
		if e.Role == RoleUser {
			b.WriteString(userStyle.Render("You") + "\n")
		} else {
			b.WriteString(assistantStyle.Render("Assistant") + "\n")
		}
		b.WriteString(e.Content + "\n\n")
	}
	if len(m.sources) > 0 {
		b.WriteString(headerStyle.Render("Sources") + "\n")
		b.WriteString(RenderSources(m.sources))
	}
	return b.String()
}

// RenderSources lists each source as "[n] label" followed by a preview of its text.
func RenderSources(sources []api.Source) string {
	var b strings.Builder
	for i, s := range sources {
		label := ""
		if v, ok := s.Metadata["source"]; ok && v != nil {
			label = fmt.Sprint(v)
		}
		fmt.Fprintf(&b, "[%d] %s\n%s\n\n", i+1, label, preview(s.Text, config.SourcePreviewChars))
	}
	return b.String()
}

func preview(text string, limit int) string {
	r := []rune(text)
	if len(r) <= limit {
		return text
	}
	return string(r[:limit])
}

func clampTopK(k int) int {
	return min(max(k, config.MinTopK), config.UIMaxTopK)
}

var (
	headerStyle        = lipgloss.NewStyle().Bold(true)
	mutedStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	userStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
