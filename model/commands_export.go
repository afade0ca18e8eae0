package model

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"anmi/config"
	"anmi/pdf"
)

// ExportLastReply typesets the latest assistant reply into the exports directory.
func (m *Model) ExportLastReply() tea.Cmd {
	msg, ok := m.Conversation.LastAssistantMessage()
	if !ok {
		return func() tea.Msg {
			return PDFExportedMsg{Err: fmt.Errorf("no reply to export yet")}
		}
	}

	dir := m.Config.ExportsDir()
	opts := pdf.Options{
		FontScale: m.Config.Preferences.FontScale(),
		Now:       time.Now(),
	}
	content := msg.Text

	return func() tea.Msg {
		path, err := pdf.WriteFile(dir, content, opts)
		if err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Export] PDF export failed: %v", err)
			}
			return PDFExportedMsg{Err: err}
		}
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Export] PDF written to %s", path)
		}
		return PDFExportedMsg{Path: path}
	}
}

// SavePreferences persists the current preferences in the background. Saves are serialized,
// and one overtaken by a newer call is dropped so the file always ends on the latest values.
func (m *Model) SavePreferences() tea.Cmd {
	dataDir := m.Config.DataDir()
	prefs := m.Config.Preferences
	seq := m.prefsSeq.Add(1)

	return func() tea.Msg {
		m.prefsWrite.Lock()
		defer m.prefsWrite.Unlock()

		if seq < m.prefsSeq.Load() {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Config] Preference save %d superseded", seq)
			}
			return PreferencesSavedMsg{}
		}
		return PreferencesSavedMsg{Err: config.SavePreferences(dataDir, prefs)}
	}
}

// CopyLastReply copies the latest assistant reply to the system clipboard.
func (m *Model) CopyLastReply() tea.Cmd {
	msg, ok := m.Conversation.LastAssistantMessage()
	if !ok {
		return nil
	}
	return CopyText("reply", msg.Text)
}

// CopyTranscript copies the whole conversation to the system clipboard.
func (m *Model) CopyTranscript() tea.Cmd {
	return CopyText("conversation", m.Conversation.Transcript())
}

// CopyText copies text to the system clipboard; what names it in the resulting message.
func CopyText(what, text string) tea.Cmd {
	return func() tea.Msg {
		return ClipboardCopiedMsg{What: what, Err: clipboard.WriteAll(text)}
	}
}
