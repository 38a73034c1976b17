package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/akolanti/ChatPDF/internal/config"
	"github.com/akolanti/ChatPDF/internal/domain/chatModel"
	"github.com/akolanti/ChatPDF/internal/domain/commonModels"
	"github.com/akolanti/ChatPDF/internal/session"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const uploadCommand = "/upload"

// ChatPort is the TUI-facing subset of the session orchestrator.
type ChatPort interface {
	Upload(ctx context.Context, sessionId string, uploads []commonModels.Upload) ([]commonModels.Document, error)
	Ask(ctx context.Context, sessionId, input string) (session.Exchange, error)
	Transcript(sessionId string) ([]chatModel.Turn, error)
}

type uploadedMsg struct {
	docs []commonModels.Document
	err  error
}

type answeredMsg struct {
	exchange session.Exchange
	err      error
}

// Model is the Bubble Tea model for one chat session.
type Model struct {
	ctx       context.Context
	port      ChatPort
	sessionId string

	input    textinput.Model
	viewport viewport.Model
	status   string
	files    []string
	pending  []string
	busy     bool
	ready    bool
}

// New builds the model; initial paths are uploaded as soon as the program starts.
func New(ctx context.Context, port ChatPort, sessionId string, initial []string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = config.QueryPlaceholder
	ti.Focus()
	ti.CharLimit = 0
	return Model{
		ctx:       ctx,
		port:      port,
		sessionId: sessionId,
		input:     ti,
		viewport:  viewport.New(0, 0),
		pending:   initial,
		status:    config.NoDocumentsPrompt,
	}
}

func (m Model) Init() tea.Cmd {
	if len(m.pending) > 0 {
		return tea.Batch(textinput.Blink, m.upload(m.pending))
	}
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + th + 1 // header, status, input box, frame, spacer
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter {
			return m.submit()
		}

	case uploadedMsg:
		m.busy = false
		m.pending = nil
		if msg.err != nil {
			m.status = "Upload failed: " + msg.err.Error()
			return m, nil
		}
		m.files = nil
		for _, d := range msg.docs {
			m.files = append(m.files, d.Name)
		}
		m.status = fmt.Sprintf("Indexed %d document(s). %s", len(m.files), config.QueryPlaceholder)
		return m, nil

	case answeredMsg:
		m.busy = false
		switch {
		case msg.err == nil:
			m.status = "Search query: " + msg.exchange.SearchQuery
		case errors.Is(msg.err, session.ErrNoDocuments), errors.Is(msg.err, session.ErrNoQuery):
			m.status = msg.err.Error()
		default:
			m.status = "Error: " + msg.err.Error()
		}
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	line := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if rest, ok := strings.CutPrefix(line, uploadCommand); ok {
		paths := strings.Fields(rest)
		if len(paths) == 0 {
			m.status = "usage: /upload file1.pdf [file2.pdf ...]"
			return m, nil
		}
		m.busy = true
		m.status = "Indexing " + strings.Join(paths, ", ") + "..."
		return m, m.upload(paths)
	}
	if len(m.files) == 0 {
		m.status = config.NoDocumentsPrompt
		return m, nil
	}
	if line == "" {
		return m, nil
	}

	m.busy = true
	m.status = "Thinking..."
	return m, m.ask(line)
}

func (m Model) upload(paths []string) tea.Cmd {
	return func() tea.Msg {
		uploads, err := readFiles(paths)
		if err != nil {
			return uploadedMsg{err: err}
		}
		docs, err := m.port.Upload(m.ctx, m.sessionId, uploads)
		return uploadedMsg{docs: docs, err: err}
	}
}

func (m Model) ask(question string) tea.Cmd {
	return func() tea.Msg {
		ex, err := m.port.Ask(m.ctx, m.sessionId, question)
		return answeredMsg{exchange: ex, err: err}
	}
}

func readFiles(paths []string) ([]commonModels.Upload, error) {
	uploads := make([]commonModels.Upload, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, commonModels.Upload{Name: filepath.Base(p), Data: data})
	}
	return uploads, nil
}

// refresh re-renders the transcript and keeps the newest turn in view.
func (m *Model) refresh() {
	turns, err := m.port.Transcript(m.sessionId)
	if err != nil {
		m.status = "Error: " + err.Error()
		return
	}
	m.viewport.SetContent(renderTranscript(turns, max(20, m.viewport.Width-4)))
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("ChatPDF")
	if len(m.files) > 0 {
		header += filesStyle.Render("  " + strings.Join(m.files, ", "))
	}
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func renderTranscript(turns []chatModel.Turn, width int) string {
	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		label, style := "AI", assistantStyle
		if t.Role == chatModel.RoleUser {
			label, style = "You", userStyle
		}
		b.WriteString(style.Render(label + ":"))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Render(t.Content))
	}
	return b.String()
}

var (
	headerStyle        = lipgloss.NewStyle().Bold(true)
	filesStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	userStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
