package ui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
)

var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	urlRegex        = regexp.MustCompile(`(https?://[^\s]+)`)
)

const streamCursor = "▋"

func (a *AppView) updateViewportContent(gotoBottom bool) {
	conv := a.dataModel.Conversation

	streamingID := ""
	if conv.Pending != nil {
		streamingID = conv.Pending.MessageID
	}

	var content strings.Builder
	for _, msg := range conv.Messages {
		timestamp := DimStyle.Render(msg.CreatedAt.Format("[15:04]"))

		if !msg.FromAssistant {
			content.WriteString(formatUserMessage(timestamp, UserStyle.Render("Tú"), msg.Text))
			continue
		}

		body := msg.Rendered
		if body == "" || msg.ID == streamingID {
			// raw text until the reply is complete and rendered
			body = wordWrap(msg.Text, max(a.width-4, 20))
		}
		if msg.ID == streamingID {
			body += streamCursor
		}
		content.WriteString(fmt.Sprintf("%s %s\n%s\n\n", timestamp, AssistantStyle.Render("ANMI"), body))
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

func formatUserMessage(timestamp, role, content string) string {
	bar := UserStyle.Render("┃")

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s %s %s\n", bar, timestamp, role))
	for _, line := range strings.Split(content, "\n") {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}
	result.WriteString("\n")

	return result.String()
}

func postProcessMarkdown(rendered string) string {
	rendered = fixInlineCode(rendered)
	return colorURLs(rendered)
}

// preprocessLinks turns [text](url) into the bare url so every link renders the same way.
func preprocessLinks(content string) string {
	return mdLinkRegex.ReplaceAllString(content, "$2")
}

// fixInlineCode swaps the renderer's blue-background inline code for plain red text.
func fixInlineCode(s string) string {
	return inlineCodeRegex.ReplaceAllString(s, "\x1b[31m$1\x1b[0m")
}

func colorURLs(s string) string {
	return urlRegex.ReplaceAllString(s, "\x1b[31m$1\x1b[0m")
}

// renderMarkdown renders an assistant reply for a terminal of the given width.
func renderMarkdown(content string, width int) string {
	content = preprocessLinks(content)

	// Autolink off: URLs stay plain text for the terminal to detect
	p := parser.NewWithExtensions(markdown.Extensions() &^ parser.Autolink)
	r := markdown.NewRenderer(max(width-4, 20), 0)
	rendered := gomarkdown.Render(p.Parse([]byte(content)), r)

	return postProcessMarkdown(string(rendered))
}

func (a AppView) renderMarkdownAsync(messageID, content string) tea.Cmd {
	width := a.width
	return func() tea.Msg {
		start := time.Now()
		rendered := renderMarkdown(content, width)
		logf("[Render] Message %s rendered in %v (%d chars)", messageID, time.Since(start), len(content))

		return markdownRenderedMsg{
			MessageID: messageID,
			Rendered:  rendered,
		}
	}
}

// rerenderAll re-renders every assistant message, e.g. after a resize or theme change.
func (a AppView) rerenderAll() tea.Cmd {
	conv := a.dataModel.Conversation

	var cmds []tea.Cmd
	for _, msg := range conv.Messages {
		if !msg.FromAssistant {
			continue
		}
		if conv.Pending != nil && msg.ID == conv.Pending.MessageID {
			continue
		}
		cmds = append(cmds, a.renderMarkdownAsync(msg.ID, msg.Text))
	}
	return tea.Batch(cmds...)
}
