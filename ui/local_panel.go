package ui

import (
	"context"
	"strings"

	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/google/uuid"
	"github.com/yllada/ai-wrapper/common"
	"github.com/yllada/ai-wrapper/ollama"
	"github.com/yllada/ai-wrapper/shell"
)

// transcriptLimit is how many stored messages are shown on start.
const transcriptLimit = 50

// LocalPanel is the side panel chatting with a local Ollama model.
type LocalPanel struct {
	ctx    context.Context
	chat   *shell.Chat
	health *ollama.HealthChecker

	revealer    *gtk.Revealer
	statusDot   *gtk.Box
	statusLabel *gtk.Label
	installBtn  *gtk.Button
	modelDrop   *gtk.DropDown
	models      []string
	transcript  *gtk.Box
	scrolled    *gtk.ScrolledWindow
	entry       *gtk.Entry
	sendBtn     *gtk.Button

	pending map[uuid.UUID]*gtk.Label
}

// NewLocalPanel builds the panel for the configured models. It stays
// hidden until toggled.
func NewLocalPanel(ctx context.Context, models []string, model string) *LocalPanel {
	lp := &LocalPanel{
		ctx:     ctx,
		models:  models,
		pending: make(map[uuid.UUID]*gtk.Label),
	}
	lp.build(model)
	return lp
}

func (lp *LocalPanel) build(model string) {
	panel := gtk.NewBox(gtk.OrientationVertical, 10)
	panel.AddCSSClass("local-panel")
	panel.SetSizeRequest(common.LocalPanelWidth, -1)

	header := gtk.NewBox(gtk.OrientationHorizontal, 8)
	title := gtk.NewLabel("Local AI")
	title.AddCSSClass("heading")
	title.SetXAlign(0)
	title.SetHExpand(true)
	header.Append(title)

	lp.statusDot = gtk.NewBox(gtk.OrientationHorizontal, 0)
	lp.statusDot.AddCSSClass("status-dot")
	lp.statusDot.SetVAlign(gtk.AlignCenter)
	header.Append(lp.statusDot)

	lp.statusLabel = gtk.NewLabel("Checking...")
	lp.statusLabel.AddCSSClass("dim-label")
	header.Append(lp.statusLabel)
	panel.Append(header)

	lp.installBtn = gtk.NewButtonWithLabel("Install Ollama")
	lp.installBtn.AddCSSClass("suggested-action")
	lp.installBtn.SetVisible(false)
	lp.installBtn.ConnectClicked(lp.onInstall)
	panel.Append(lp.installBtn)

	lp.modelDrop = gtk.NewDropDown(gtk.NewStringList(lp.models), nil)
	for i, m := range lp.models {
		if m == model {
			lp.modelDrop.SetSelected(uint(i))
		}
	}
	panel.Append(lp.modelDrop)

	lp.transcript = gtk.NewBox(gtk.OrientationVertical, 0)
	lp.scrolled = gtk.NewScrolledWindow()
	lp.scrolled.SetVExpand(true)
	lp.scrolled.SetPolicy(gtk.PolicyNever, gtk.PolicyAutomatic)
	lp.scrolled.SetChild(lp.transcript)
	panel.Append(lp.scrolled)

	inputRow := gtk.NewBox(gtk.OrientationHorizontal, 6)
	lp.entry = gtk.NewEntry()
	lp.entry.SetPlaceholderText("Ask the local model...")
	lp.entry.SetHExpand(true)
	lp.entry.ConnectActivate(lp.onSend)
	inputRow.Append(lp.entry)

	lp.sendBtn = gtk.NewButton()
	lp.sendBtn.SetIconName("mail-send-symbolic")
	lp.sendBtn.SetTooltipText("Send")
	lp.sendBtn.ConnectClicked(lp.onSend)
	inputRow.Append(lp.sendBtn)
	panel.Append(inputRow)

	lp.revealer = gtk.NewRevealer()
	lp.revealer.SetTransitionType(gtk.RevealerTransitionTypeSlideLeft)
	lp.revealer.SetChild(panel)
	lp.revealer.SetRevealChild(false)
	lp.setInputEnabled(false)
}

// Widget returns the revealer holding the panel.
func (lp *LocalPanel) Widget() *gtk.Revealer {
	return lp.revealer
}

// Visible reports whether the panel is revealed.
func (lp *LocalPanel) Visible() bool {
	return lp.revealer.RevealChild()
}

// SetVisible reveals or hides the panel.
func (lp *LocalPanel) SetVisible(visible bool) {
	lp.revealer.SetRevealChild(visible)
}

// Attach connects the panel to chat: it loads the stored transcript,
// schedules the status check and starts forwarding broker replies.
func (lp *LocalPanel) Attach(chat *shell.Chat) {
	lp.chat = chat
	lp.loadHistory()

	glib.TimeoutAdd(uint(common.StatusCheckDelay.Milliseconds()), func() bool {
		lp.checkStatus()
		return false
	})

	go func() {
		for reply := range chat.Broker.Replies() {
			glib.IdleAdd(func() {
				lp.onReply(reply)
			})
		}
	}()
}

// SetUnavailable disables the panel and shows reason.
func (lp *LocalPanel) SetUnavailable(reason string) {
	lp.setStatus("missing", "Unavailable")
	lp.appendMessage(ollama.RoleError, reason)
	lp.setInputEnabled(false)
}

func (lp *LocalPanel) loadHistory() {
	history := lp.chat.History
	go func() {
		messages, err := history.Recent(lp.ctx, transcriptLimit)
		if err != nil {
			common.LogWarn("Could not load chat history: %v", err)
			return
		}
		glib.IdleAdd(func() {
			for _, m := range messages {
				lp.appendMessage(m.Role, m.Content)
			}
		})
	}()
}

func (lp *LocalPanel) checkStatus() {
	client := lp.chat.Client
	go func() {
		status := client.CheckStatus()
		glib.IdleAdd(func() {
			lp.applyStatus(status)
		})
	}()
}

func (lp *LocalPanel) applyStatus(status ollama.Status) {
	lp.startHealth()
	if status.Installed {
		lp.setStatus("installed", "Ready")
		lp.installBtn.SetVisible(false)
		lp.setInputEnabled(true)
		return
	}
	lp.setStatus("missing", "Not installed")
	lp.installBtn.SetVisible(true)
	lp.installBtn.SetSensitive(true)
	lp.installBtn.SetLabel("Install Ollama")
	// A remote endpoint may still answer without a local binary.
	lp.setInputEnabled(true)
}

// startHealth begins probing the endpoint. State changes replace the
// status text.
func (lp *LocalPanel) startHealth() {
	if lp.health != nil {
		return
	}
	lp.health = ollama.NewHealthChecker(lp.chat.Client, ollama.DefaultHealthConfig())
	lp.health.SetOnChange(func(_, newState ollama.HealthState) {
		glib.IdleAdd(func() {
			lp.applyHealth(newState)
		})
	})
	lp.health.Start(lp.ctx)
}

func (lp *LocalPanel) applyHealth(state ollama.HealthState) {
	if !lp.installBtn.Sensitive() {
		// Install in progress.
		return
	}
	switch state {
	case ollama.HealthHealthy:
		lp.setStatus("installed", "Running")
	case ollama.HealthDegraded:
		lp.setStatus("missing", "Not responding")
	case ollama.HealthUnhealthy:
		lp.setStatus("missing", "Offline")
	}
}

// Stop ends the endpoint probe.
func (lp *LocalPanel) Stop() {
	if lp.health != nil {
		lp.health.Stop()
	}
}

func (lp *LocalPanel) setStatus(class, text string) {
	lp.statusDot.RemoveCSSClass("installed")
	lp.statusDot.RemoveCSSClass("missing")
	lp.statusDot.AddCSSClass(class)
	lp.statusLabel.SetText(text)
}

func (lp *LocalPanel) setInputEnabled(enabled bool) {
	lp.entry.SetSensitive(enabled)
	lp.sendBtn.SetSensitive(enabled)
	lp.modelDrop.SetSensitive(enabled)
}

func (lp *LocalPanel) onInstall() {
	if lp.chat == nil {
		return
	}
	lp.installBtn.SetSensitive(false)
	lp.installBtn.SetLabel("Installing...")
	lp.statusLabel.SetText("Installing")

	client := lp.chat.Client
	go func() {
		result := client.Install(lp.ctx)
		glib.IdleAdd(func() {
			if !result.Success {
				lp.appendMessage(ollama.RoleError, "Install failed: "+result.Error)
				lp.installBtn.SetSensitive(true)
				lp.installBtn.SetLabel("Retry Install")
				lp.statusLabel.SetText("Not installed")
				NotifyError("Ollama", "Install failed")
				return
			}
			NotifySuccess("Ollama", "Ollama installed")
			lp.checkStatus()
		})
	}()
}

func (lp *LocalPanel) selectedModel() string {
	i := int(lp.modelDrop.Selected())
	if i >= 0 && i < len(lp.models) {
		return lp.models[i]
	}
	return ""
}

func (lp *LocalPanel) onSend() {
	if lp.chat == nil {
		return
	}
	text := strings.TrimSpace(lp.entry.Text())
	if text == "" {
		return
	}
	lp.entry.SetText("")
	lp.appendMessage(ollama.RoleUser, text)

	id, err := lp.chat.Broker.Submit(ollama.ChatRequest{Model: lp.selectedModel(), Message: text})
	if err != nil {
		lp.appendMessage(ollama.RoleError, err.Error())
		return
	}
	lp.pending[id] = lp.appendMessage(ollama.RoleAssistant, "Thinking...")
}

func (lp *LocalPanel) onReply(reply ollama.Reply) {
	label, ok := lp.pending[reply.ID]
	delete(lp.pending, reply.ID)

	role, text := ollama.RoleAssistant, reply.Response
	if reply.Failed() {
		role, text = ollama.RoleError, reply.Error
	}
	if !ok {
		lp.appendMessage(role, text)
		return
	}
	label.SetText(text)
	if role == ollama.RoleError {
		label.RemoveCSSClass(ollama.RoleAssistant)
		label.AddCSSClass(ollama.RoleError)
	}
	lp.scrollToEnd()
}

// appendMessage adds a transcript bubble and returns its label.
func (lp *LocalPanel) appendMessage(role, text string) *gtk.Label {
	label := gtk.NewLabel(text)
	label.SetWrap(true)
	label.SetSelectable(true)
	label.SetXAlign(0)
	label.AddCSSClass("message")
	label.AddCSSClass(role)
	lp.transcript.Append(label)
	lp.scrollToEnd()
	return label
}

func (lp *LocalPanel) scrollToEnd() {
	glib.IdleAdd(func() {
		adj := lp.scrolled.VAdjustment()
		adj.SetValue(adj.Upper())
	})
}
