package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yllada/ai-wrapper/catalog"
	"github.com/yllada/ai-wrapper/ollama"
	"github.com/yllada/ai-wrapper/views"
)

type nopSurface struct{}

func (nopSurface) Load(string) {}
func (nopSurface) Show() {}
func (nopSurface) Hide() {}
func (nopSurface) SetBounds(views.Viewport) {}
func (nopSurface) Close() error { return nil }

type nopBackend struct{}

func (nopBackend) Open(context.Context, catalog.ServiceDescriptor) (views.Surface, error) {
	return nopSurface{}, nil
}
func (nopBackend) Close() error { return nil }

type cannedChatter struct{}

func (cannedChatter) Chat(_ context.Context, req ollama.ChatRequest) ollama.ChatResponse {
	return ollama.ChatResponse{Response: "re: " + req.Message}
}

func newTestModel(t *testing.T, broker *ollama.Broker) *Model {
	t.Helper()
	cat := catalog.Default()
	pool := views.NewPool(nopBackend{})
	require.NoError(t, pool.CreateAll(context.Background(), cat.Services()))

	tabs := NewTabs()
	ctrl := views.NewController(cat, pool, views.FixedHost{Width: 1200, Height: 800}, tabs, 50)
	m := New(ctrl, tabs, broker, "llama3")
	m.Init()
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_InitShowsFirstMode(t *testing.T) {
	m := newTestModel(t, nil)

	state := m.ctrl.State()
	assert.Equal(t, catalog.ModeStandard, state.Mode.Name)
	assert.Equal(t, "gemini", state.ServiceID)
	assert.Len(t, m.tabs.Services(), 5)
	assert.Contains(t, m.View(), "Gemini")
}

func TestModel_ModeKeys(t *testing.T) {
	m := newTestModel(t, nil)

	m.Update(runes("3"))
	assert.Equal(t, catalog.ModeMedia, m.ctrl.State().Mode.Name)
	assert.Equal(t, "midjourney", m.ctrl.State().ServiceID)
	assert.Equal(t, "midjourney", m.tabs.Services()[0].ID)

	m.Update(runes("9"))
	assert.Equal(t, catalog.ModeMedia, m.ctrl.State().Mode.Name, "out-of-range mode key is ignored")
}

func TestModel_TabKeysWrap(t *testing.T) {
	m := newTestModel(t, nil)

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "studio", m.ctrl.State().ServiceID)

	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, "copilot", m.ctrl.State().ServiceID)

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "gemini", m.ctrl.State().ServiceID)

	session, ok := m.ctrl.Visible()
	require.True(t, ok)
	assert.Equal(t, views.Viewport{X: 0, Y: 50, Width: 1200, Height: 750}, session.Bounds())
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, nil)

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_ChatWithoutBrokerIgnored(t *testing.T) {
	m := newTestModel(t, nil)

	m.Update(runes("c"))
	assert.False(t, m.input.Focused())
	assert.NotContains(t, m.View(), "thinking")
}

func TestModel_Chat(t *testing.T) {
	broker := ollama.NewBroker(cannedChatter{}, nil)
	broker.Start(context.Background(), 1)
	t.Cleanup(broker.Close)

	m := newTestModel(t, broker)
	m.Update(runes("c"))
	require.True(t, m.input.Focused())

	m.Update(runes("3"))
	assert.Equal(t, catalog.ModeStandard, m.ctrl.State().Mode.Name, "digits go to the input while chatting")

	m.input.SetValue("hello")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 1, m.pending)
	assert.Empty(t, m.input.Value())

	reply := <-broker.Replies()
	m.Update(replyMsg(reply))
	assert.Equal(t, 0, m.pending)
	require.Len(t, m.lines, 2)
	assert.Equal(t, "re: hello", m.lines[1].text)

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.input.Focused())
}
