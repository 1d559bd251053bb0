// Package tui renders the assistant panel: a chat viewport, model/persona
// selections in the status bar, and streamed responses. All session logic
// stays in pkg/session; the panel only translates keys to inbound events and
// outbound events to view updates.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sidenote/sidenote/pkg/chat"
	"github.com/sidenote/sidenote/pkg/logging"
	"github.com/sidenote/sidenote/pkg/persona"
	"github.com/sidenote/sidenote/pkg/session"
	"github.com/sidenote/sidenote/pkg/transport"
)

// chatMessage is one entry in the panel history.
type chatMessage struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Model is the bubbletea model for the assistant panel.
type Model struct {
	input    textinput.Model
	viewport viewport.Model
	styles   Styles

	messages     []chatMessage
	streaming    bool
	streamBuffer *strings.Builder

	// Mirror of the session state, replaced on every state event.
	models          []string
	selectedModel   string
	personas        []persona.Persona
	selectedPersona string
	mode            string

	controller *session.Controller
	bus        *transport.ChannelTransport
	ctx        context.Context
	logger     logging.Logger

	width    int
	height   int
	ready    bool
	quitting bool
}

// New creates the panel model around an already-constructed controller and
// its transport.
func New(ctx context.Context, controller *session.Controller, bus *transport.ChannelTransport, logger logging.Logger) *Model {
	ti := textinput.New()
	ti.Placeholder = "Ask about your workspace, or /help..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = 80

	if logger == nil {
		logger = logging.NopLogger()
	}

	return &Model{
		input:        ti,
		styles:       DefaultStyles(),
		streamBuffer: &strings.Builder{},
		mode:         string(chat.ModeChat),
		controller:   controller,
		bus:          bus,
		ctx:          ctx,
		logger:       logger,
	}
}

// Init implements tea.Model. The ready event triggers the first state
// emission; persona reload was already started by the host.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.dispatch(transport.Ready{}),
		waitForOutbound(m.bus.Messages()),
	)
}

// dispatch feeds one inbound event to the controller off the UI goroutine.
func (m *Model) dispatch(ev transport.Inbound) tea.Cmd {
	return func() tea.Msg {
		m.controller.HandleEvent(m.ctx, ev)
		return eventHandledMsg{}
	}
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		headerHeight := 1
		inputHeight := 1
		statusHeight := 1
		separatorHeight := 2
		m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-inputHeight-statusHeight-separatorHeight)
		m.viewport.SetContent(m.renderMessages())
		m.input.Width = msg.Width - 4

	case outboundMsg:
		m.applyOutbound(msg.msg)
		return m, waitForOutbound(msg.ch)

	case transportClosedMsg:
		m.quitting = true
		return m, tea.Quit

	case eventHandledMsg:
		// Controller output arrives through the transport.
	}

	var vpCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)
	cmds = append(cmds, vpCmd)

	var tiCmd tea.Cmd
	m.input, tiCmd = m.input.Update(msg)
	cmds = append(cmds, tiCmd)

	return m, tea.Batch(cmds...)
}

// applyOutbound folds one controller event into the view.
func (m *Model) applyOutbound(ev transport.Outbound) {
	switch msg := ev.(type) {
	case transport.State:
		m.models = msg.Models
		m.selectedModel = msg.SelectedModel
		m.personas = msg.CustomGPTs
		m.selectedPersona = msg.SelectedCustomGPT
		m.mode = msg.Mode

	case transport.Context:
		open := make([]string, 0, len(msg.OpenFiles))
		for _, f := range msg.OpenFiles {
			open = append(open, f.Path)
		}
		note := fmt.Sprintf("context: %d files", len(msg.Files))
		if len(open) > 0 {
			note += fmt.Sprintf(", open: %s", strings.Join(open, ", "))
		}
		m.addSystemMessage(note)

	case transport.ResponseStart:
		m.streaming = true
		m.streamBuffer.Reset()
		m.messages = append(m.messages, chatMessage{Role: "assistant"})

	case transport.ResponseChunk:
		m.streamBuffer.WriteString(msg.Text)
		if len(m.messages) > 0 && m.messages[len(m.messages)-1].Role == "assistant" {
			m.messages[len(m.messages)-1].Content = m.streamBuffer.String()
		}

	case transport.ResponseDone:
		m.streaming = false
		if len(m.messages) > 0 && m.messages[len(m.messages)-1].Role == "assistant" {
			m.messages[len(m.messages)-1].Content = msg.Text
		}

	case transport.Error:
		m.streaming = false
		m.addSystemMessage("error: " + msg.Message)
	}

	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

// handleKeyMsg processes keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyCtrlA:
		return m, m.dispatch(transport.ModeChanged{Mode: nextMode(m.mode)})

	case tea.KeyPgUp, tea.KeyPgDown:
		var vpCmd tea.Cmd
		m.viewport, vpCmd = m.viewport.Update(msg)
		return m, vpCmd

	case tea.KeyEnter:
		return m.handleSubmit()

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// handleSubmit processes the submitted input
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())
	if value == "" {
		return m, nil
	}
	if m.streaming {
		return m, nil
	}

	m.input.SetValue("")

	if strings.HasPrefix(value, "/") {
		return m.handleSlashCommand(value)
	}

	m.messages = append(m.messages, chatMessage{Role: "user", Content: value})
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()

	return m, m.dispatch(transport.Chat{Content: value})
}

// handleSlashCommand processes slash commands
func (m Model) handleSlashCommand(input string) (tea.Model, tea.Cmd) {
	parts := strings.SplitN(input[1:], " ", 2)
	cmdName := strings.ToLower(parts[0])
	args := ""
	if len(parts) > 1 {
		args = strings.TrimSpace(parts[1])
	}

	switch cmdName {
	case "quit", "exit":
		m.quitting = true
		return m, tea.Quit

	case "clear":
		m.messages = nil
		m.viewport.SetContent("")
		return m, nil

	case "help":
		m.addSystemMessage(m.renderHelp())
		m.refresh()
		return m, nil

	case "model":
		if args == "" {
			m.addSystemMessage("models: " + strings.Join(m.models, ", "))
			m.refresh()
			return m, nil
		}
		return m, m.dispatch(transport.ModelChanged{Model: args})

	case "gpt":
		if args == "" {
			var labels []string
			for _, p := range m.personas {
				labels = append(labels, fmt.Sprintf("%s (%s)", p.ID, p.Label))
			}
			m.addSystemMessage("custom GPTs: " + strings.Join(labels, ", "))
			m.refresh()
			return m, nil
		}
		return m, m.dispatch(transport.CustomGPTChanged{ID: args})

	case "mode":
		if args == "" {
			m.addSystemMessage("mode: " + m.mode + " (chat, agent, full-agent)")
			m.refresh()
			return m, nil
		}
		return m, m.dispatch(transport.ModeChanged{Mode: args})

	default:
		m.addSystemMessage(fmt.Sprintf("unknown command: /%s, see /help", cmdName))
		m.refresh()
		return m, nil
	}
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

func (m *Model) addSystemMessage(content string) {
	m.messages = append(m.messages, chatMessage{Role: "system", Content: content})
}

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return "Bye.\n"
	}
	if !m.ready {
		return "Loading panel...\n"
	}

	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.styles.InputSeparator.Render(strings.Repeat("─", m.width)))
	b.WriteString("\n")
	b.WriteString(m.styles.InputPrompt.Render("> ") + m.input.View())
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())
	return b.String()
}

func (m *Model) renderStatusBar() string {
	model := m.styles.StatusModel.Render(m.selectedModel)
	personaLabel := "no custom GPT"
	for _, p := range m.personas {
		if p.ID == m.selectedPersona {
			personaLabel = p.Label
			break
		}
	}
	status := model +
		" | " + m.styles.StatusPersona.Render(personaLabel) +
		" | " + m.styles.StatusMode.Render("["+strings.ToUpper(m.mode)+"]")
	if m.streaming {
		status += " | " + m.styles.StatusStreaming.Render("responding...")
	}
	return m.styles.StatusBar.Width(m.width).Render(status)
}

func (m *Model) renderHelpBar() string {
	help := []string{
		m.styles.HelpKey.Render("Enter") + " " + m.styles.HelpDesc.Render("send"),
		m.styles.HelpKey.Render("Ctrl+A") + " " + m.styles.HelpDesc.Render("mode"),
		m.styles.HelpKey.Render("/help") + " " + m.styles.HelpDesc.Render("commands"),
		m.styles.HelpKey.Render("Ctrl+C") + " " + m.styles.HelpDesc.Render("quit"),
	}
	return m.styles.HelpBar.Render(strings.Join(help, "  |  "))
}

// renderMessages renders the chat history
func (m *Model) renderMessages() string {
	var lines []string

	contentWidth := m.width - 10
	if contentWidth < 40 {
		contentWidth = 40
	}

	for _, msg := range m.messages {
		switch msg.Role {
		case "user":
			prompt := m.styles.UserPrompt.Render("you> ")
			lines = append(lines, prompt+m.styles.UserMessage.Render(wrapText(msg.Content, contentWidth)), "")
		case "assistant":
			prompt := m.styles.UserPrompt.Render("sidenote> ")
			rendered := strings.Split(wrapText(msg.Content, contentWidth), "\n")
			for i, line := range rendered {
				if i == 0 {
					lines = append(lines, prompt+m.styles.Response.Render(line))
				} else {
					lines = append(lines, m.styles.Response.Render(line))
				}
			}
			lines = append(lines, "")
		case "system":
			lines = append(lines, m.styles.SystemMessage.Render(wrapText(msg.Content, contentWidth)), "")
		}
	}

	return strings.Join(lines, "\n")
}

func (m *Model) renderHelp() string {
	var sb strings.Builder
	sb.WriteString("Commands:\n")
	sb.WriteString("  /model [id]   - show or select the model\n")
	sb.WriteString("  /gpt [id]     - show or select the custom GPT\n")
	sb.WriteString("  /mode [name]  - show or switch mode (chat, agent, full-agent)\n")
	sb.WriteString("  /clear        - clear the panel\n")
	sb.WriteString("  /quit         - exit\n")
	return sb.String()
}

// nextMode cycles chat -> agent -> full-agent -> chat.
func nextMode(mode string) string {
	switch chat.Mode(mode) {
	case chat.ModeChat:
		return string(chat.ModeAgent)
	case chat.ModeAgent:
		return string(chat.ModeFullAgent)
	default:
		return string(chat.ModeChat)
	}
}

// wrapText wraps text to fit within the specified width, preserving
// existing line breaks.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		if len(line) <= width {
			out = append(out, line)
			continue
		}
		var cur strings.Builder
		for _, word := range strings.Fields(line) {
			if cur.Len() > 0 && cur.Len()+1+len(word) > width {
				out = append(out, cur.String())
				cur.Reset()
			}
			if cur.Len() > 0 {
				cur.WriteString(" ")
			}
			cur.WriteString(word)
		}
		if cur.Len() > 0 {
			out = append(out, cur.String())
		}
	}
	return strings.Join(out, "\n")
}
