package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

const noticeDuration = 3 * time.Second

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		return a, cmd

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()
		a.ready = true
		a.updateViewportContent(true)
		// width changed: every reply needs re-wrapping
		return a, a.rerenderAll()

	case tea.KeyMsg:
		return a.handleKey(msg)

	case streamFragmentMsg, streamDoneMsg, streamErrorMsg, drainTickMsg, reassuranceTickMsg:
		return a.handleStreamingMessage(msg)

	case markdownRenderedMsg:
		if m := a.dataModel.Conversation.Message(msg.MessageID); m != nil {
			m.Rendered = msg.Rendered
			a.updateViewportContent(a.viewport.AtBottom())
		}
		return a, nil

	case pdfExportedMsg:
		if msg.Err != nil {
			a.acknowledge("⚠️  No se pudo exportar", msg.Err.Error(), ModalTypeError)
			return a, nil
		}
		a.acknowledge("📄 Ficha exportada", "Guardada en:\n"+msg.Path, ModalTypeInfo)
		return a, nil

	case clipboardCopiedMsg:
		if msg.Err != nil {
			a.acknowledge("⚠️  Portapapeles no disponible", msg.Err.Error(), ModalTypeWarning)
			return a, nil
		}
		return a.flash(copiedNotice(msg.What))

	case preferencesSavedMsg:
		if msg.Err != nil {
			logf("[Settings] Saving preferences failed: %v", msg.Err)
			return a.flash("No se pudieron guardar los ajustes: " + msg.Err.Error())
		}
		return a, nil

	case flashTickMsg:
		a.noticeSeq--
		if a.noticeSeq <= 0 {
			a.noticeSeq = 0
			a.notice = ""
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

func copiedNotice(what string) string {
	switch what {
	case "reply":
		return "Respuesta copiada al portapapeles"
	case "conversation":
		return "Conversación copiada al portapapeles"
	case "link":
		return "Enlace del documento copiado al portapapeles"
	default:
		return "Copiado al portapapeles"
	}
}

// flash shows a status-bar notice for a few seconds. Overlapping notices extend each other.
func (a AppView) flash(notice string) (AppView, tea.Cmd) {
	a.notice = notice
	a.noticeSeq++
	return a, tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return flashTickMsg{}
	})
}

func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kb := a.dataModel.Config.Keybindings
	pressed := msg.String()

	if pressed == "ctrl+c" || kb.Matches(pressed, "quit") {
		a.dataModel.CancelStream()
		a.dataModel.Quitting = true
		return a, tea.Quit
	}

	// Modals swallow every key while open
	switch {
	case a.showAcknowledgeModal:
		if pressed == "enter" || pressed == "esc" {
			a.showAcknowledgeModal = false
		}
		return a, nil

	case a.showHelp:
		if pressed == "esc" || kb.Matches(pressed, "help") {
			a.showHelp = false
		}
		return a, nil

	case a.showPrivacy:
		if pressed == "enter" || pressed == "esc" || kb.Matches(pressed, "privacy") {
			a.showPrivacy = false
		}
		return a, nil

	case a.showSettings:
		return a.handleSettingsInput(msg)

	case a.showSources:
		return a.handleSourcesInput(msg)

	case a.showQuickOptions:
		return a.handleQuickOptionsInput(msg)
	}

	if handled, model, cmd := a.handleGlobalAction(pressed); handled {
		return model, cmd
	}

	if pressed == "enter" {
		return a.send(a.textarea.Value())
	}

	// Input stays disabled while a reply is in flight
	if a.dataModel.Conversation.Busy() {
		return a, nil
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

func (a AppView) handleGlobalAction(pressed string) (bool, tea.Model, tea.Cmd) {
	kb := a.dataModel.Config.Keybindings

	switch {
	case kb.Matches(pressed, "help"):
		a.showHelp = true
	case kb.Matches(pressed, "settings"):
		a.showSettings = true
		a.selectedSetting = settingDarkMode
	case kb.Matches(pressed, "privacy"):
		a.showPrivacy = true
	case kb.Matches(pressed, "sources"):
		a.sources.reset()
		a.showSources = true
	case kb.Matches(pressed, "quick_options"):
		if a.dataModel.Conversation.Busy() {
			return true, a, nil
		}
		a.quickOptions.reset()
		a.showQuickOptions = true

	case kb.Matches(pressed, "quick_option_1"):
		model, cmd := a.sendQuickOption(0)
		return true, model, cmd
	case kb.Matches(pressed, "quick_option_2"):
		model, cmd := a.sendQuickOption(1)
		return true, model, cmd
	case kb.Matches(pressed, "quick_option_3"):
		model, cmd := a.sendQuickOption(2)
		return true, model, cmd

	case kb.Matches(pressed, "cancel_stream"):
		if !a.dataModel.CancelStream() {
			return false, a, nil
		}
		a.textarea.Focus()
		a.updateViewportContent(true)
		model, cmd := a.flash("Respuesta cancelada")
		return true, model, tea.Batch(cmd, textarea.Blink)

	case kb.Matches(pressed, "scroll_down"):
		a.viewport.ScrollDown(1)
	case kb.Matches(pressed, "scroll_up"):
		a.viewport.ScrollUp(1)
	case kb.Matches(pressed, "half_page_down"):
		a.viewport.HalfPageDown()
	case kb.Matches(pressed, "half_page_up"):
		a.viewport.HalfPageUp()
	case kb.Matches(pressed, "page_down"):
		a.viewport.PageDown()
	case kb.Matches(pressed, "page_up"):
		a.viewport.PageUp()
	case kb.Matches(pressed, "scroll_to_top"):
		a.viewport.GotoTop()
	case kb.Matches(pressed, "scroll_to_bottom"):
		a.viewport.GotoBottom()

	case kb.Matches(pressed, "yank_last_response"):
		cmd := a.dataModel.CopyLastReply()
		if cmd == nil {
			model, flashCmd := a.flash("Todavía no hay una respuesta para copiar")
			return true, model, flashCmd
		}
		return true, a, cmd
	case kb.Matches(pressed, "yank_conversation"):
		return true, a, a.dataModel.CopyTranscript()
	case kb.Matches(pressed, "export_pdf"):
		return true, a, a.dataModel.ExportLastReply()

	case kb.Matches(pressed, "toggle_dark_mode"):
		model, cmd := a.toggleDarkMode()
		model.updateViewportContent(false)
		return true, model, cmd
	case kb.Matches(pressed, "font_size_up"):
		model, cmd := a.changeFontSize(1)
		return true, model, cmd
	case kb.Matches(pressed, "font_size_down"):
		model, cmd := a.changeFontSize(-1)
		return true, model, cmd

	case kb.Matches(pressed, "dismiss_banner"):
		if !a.dismissBanner() {
			return false, a, nil
		}
		a.layout()
		return true, a, a.dataModel.SavePreferences()

	default:
		return false, a, nil
	}

	return true, a, nil
}

// send submits text exactly as typed. Blank text and a reply already in flight are ignored,
// and the input is kept in that case.
func (a AppView) send(text string) (AppView, tea.Cmd) {
	cmd := a.dataModel.SendUserText(text)
	if cmd == nil {
		return a, nil
	}

	logf("[UI] Sent %d chars", len(text))

	a.textarea.Reset()
	a.textarea.Blur()
	a.updateViewportContent(true)
	return a, cmd
}
