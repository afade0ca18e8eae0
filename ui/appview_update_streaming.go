package ui

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// handleStreamingMessage applies stream events to the conversation and refreshes the view.
// When the reply finishes (done, failed, or fully drained) the input comes back and the final
// text is rendered as markdown.
func (a AppView) handleStreamingMessage(msg tea.Msg) (AppView, tea.Cmd) {
	conv := a.dataModel.Conversation

	var messageID string
	if conv.Pending != nil {
		messageID = conv.Pending.MessageID
	}
	followAlong := a.viewport.AtBottom()

	cmd, _ := a.dataModel.HandleStreamMsg(msg)
	cmds := []tea.Cmd{cmd}

	if messageID != "" && conv.Pending == nil {
		logf("[UI] Reply finished (%d messages)", len(conv.Messages))

		if m := conv.Message(messageID); m != nil {
			cmds = append(cmds, a.renderMarkdownAsync(m.ID, m.Text))
		}
		a.textarea.Focus()
		cmds = append(cmds, textarea.Blink)
	}

	a.updateViewportContent(followAlong)
	return a, tea.Batch(cmds...)
}
