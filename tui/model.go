// Package tui is a terminal front end for the shell. It drives the same
// view controller as the GTK window: keys switch modes and tabs while the
// sessions themselves stay in their browser windows.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yllada/ai-wrapper/catalog"
	"github.com/yllada/ai-wrapper/common"
	"github.com/yllada/ai-wrapper/ollama"
	"github.com/yllada/ai-wrapper/views"
)

const maxChatLines = 8

// Tabs keeps the tab set most recently announced by the controller.
// The controller notifies from inside Update, so no locking is needed.
type Tabs struct {
	services []catalog.ServiceDescriptor
}

// NewTabs returns an empty tab set.
func NewTabs() *Tabs {
	return &Tabs{}
}

// TabsUpdated implements views.TabsNotifier.
func (t *Tabs) TabsUpdated(services []catalog.ServiceDescriptor) {
	t.services = services
}

// Services returns the current tab set.
func (t *Tabs) Services() []catalog.ServiceDescriptor {
	return t.services
}

var _ views.TabsNotifier = (*Tabs)(nil)

type chatLine struct {
	role string
	text string
}

type replyMsg ollama.Reply

// Model is the bubbletea model for terminal mode.
type Model struct {
	ctrl      *views.Controller
	tabs      *Tabs
	broker    *ollama.Broker
	chatModel string

	keys  keyMap
	help  help.Model
	input textinput.Model
	th    theme

	lines   []chatLine
	pending int
	width   int
}

// New returns a model over ctrl. tabs must be the notifier ctrl was built
// with. broker may be nil, which hides the chat panel.
func New(ctrl *views.Controller, tabs *Tabs, broker *ollama.Broker, chatModel string) *Model {
	input := textinput.New()
	input.Placeholder = "Ask " + chatModel + "..."
	input.CharLimit = 4000

	return &Model{
		ctrl:      ctrl,
		tabs:      tabs,
		broker:    broker,
		chatModel: chatModel,
		keys:      defaultKeyMap(),
		help:      help.New(),
		input:     input,
		th:        defaultTheme(),
	}
}

// Init shows the first mode and starts listening for chat replies.
func (m *Model) Init() tea.Cmd {
	m.ctrl.Start()
	return m.waitReply()
}

func (m *Model) waitReply() tea.Cmd {
	if m.broker == nil {
		return nil
	}
	replies := m.broker.Replies()
	return func() tea.Msg {
		reply, ok := <-replies
		if !ok {
			return nil
		}
		return replyMsg(reply)
	}
}

// Update handles one message.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-8, 10)
		return m, nil

	case replyMsg:
		m.pending = max(m.pending-1, 0)
		if msg.Failed() {
			m.addLine(ollama.RoleError, "Error: "+msg.Error)
		} else {
			m.addLine(ollama.RoleAssistant, msg.Response)
		}
		return m, m.waitReply()

	case tea.KeyMsg:
		if m.input.Focused() {
			return m.updateChat(msg)
		}
		return m.updateNav(msg)
	}
	return m, nil
}

func (m *Model) updateNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Mode):
		idx := int(msg.String()[0] - '1')
		names := m.ctrl.Catalog().ModeNames()
		if idx < len(names) {
			m.ctrl.SwitchMode(names[idx])
		}
	case key.Matches(msg, m.keys.Next):
		m.step(1)
	case key.Matches(msg, m.keys.Prev):
		m.step(-1)
	case key.Matches(msg, m.keys.Chat):
		if m.broker != nil {
			return m, m.input.Focus()
		}
	}
	return m, nil
}

func (m *Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Blur):
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Send):
		m.submit()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// step moves delta tabs through the current tab set, wrapping around.
func (m *Model) step(delta int) {
	services := m.tabs.Services()
	if len(services) == 0 {
		return
	}
	current := m.ctrl.State().ServiceID
	idx := 0
	for i, svc := range services {
		if svc.ID == current {
			idx = i
			break
		}
	}
	next := (idx + delta + len(services)) % len(services)
	m.ctrl.SwitchTab(services[next].ID)
}

func (m *Model) submit() {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return
	}
	m.input.Reset()
	m.addLine(ollama.RoleUser, text)

	if _, err := m.broker.Submit(ollama.ChatRequest{Model: m.chatModel, Message: text}); err != nil {
		m.addLine(ollama.RoleError, "Error: "+err.Error())
		return
	}
	m.pending++
}

func (m *Model) addLine(role, text string) {
	m.lines = append(m.lines, chatLine{role: role, text: text})
	if len(m.lines) > maxChatLines {
		m.lines = m.lines[len(m.lines)-maxChatLines:]
	}
}

// View renders the chrome bar, the active session, and the chat panel.
func (m *Model) View() string {
	var b strings.Builder

	state := m.ctrl.State()
	modes := []string{m.th.Title.Render(common.AppName)}
	for i, name := range m.ctrl.Catalog().ModeNames() {
		label := fmt.Sprintf("%d %s", i+1, catalog.ModeTitle(name))
		if name == state.Mode.Name {
			modes = append(modes, m.th.ActiveMode.Render(label))
		} else {
			modes = append(modes, m.th.Mode.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, modes...))
	b.WriteString("\n")

	var tabs []string
	for _, svc := range m.tabs.Services() {
		label := catalog.Icon(svc.ID) + " " + catalog.Label(svc.ID)
		if svc.ID == state.ServiceID {
			tabs = append(tabs, m.th.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, m.th.Tab.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	if session, ok := m.ctrl.Visible(); ok {
		v := session.Bounds()
		b.WriteString(m.th.Muted.Render(fmt.Sprintf("%s  at %d,%d  %dx%d",
			session.Descriptor.URL, v.X, v.Y, v.Width, v.Height)))
	} else {
		b.WriteString(m.th.Muted.Render("no session visible"))
	}
	b.WriteString("\n")

	if m.broker != nil {
		b.WriteString(m.chatView())
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) chatView() string {
	var lines []string
	for _, l := range m.lines {
		switch l.role {
		case ollama.RoleUser:
			lines = append(lines, m.th.User.Render("> "+l.text))
		case ollama.RoleError:
			lines = append(lines, m.th.Error.Render(l.text))
		default:
			lines = append(lines, m.th.Assistant.Render(l.text))
		}
	}
	if m.pending > 0 {
		lines = append(lines, m.th.Muted.Render("thinking..."))
	}
	lines = append(lines, m.input.View())

	panel := m.th.Panel
	if m.width > 4 {
		panel = panel.Width(m.width - 4)
	}
	return panel.Render(strings.Join(lines, "\n"))
}

// Run starts the program and blocks until the user quits.
func Run(m *Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
