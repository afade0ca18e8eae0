package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"anmi/config"
	appmodel "anmi/model"
)

const (
	appTitle    = "ANMI"
	appSubtitle = "Asistente Nutricional Materno Infantil"
	placeholder = "Escribe tu pregunta..."
)

type AppView struct {
	// Reference to core data model
	dataModel *appmodel.Model

	// UI Components
	viewport       viewport.Model
	textarea       textarea.Model
	loadingSpinner spinner.Model

	// Window state
	width  int
	height int
	ready  bool

	// Detected once at startup; the stored preference wins once the user toggles it
	terminalDark bool

	showHelp     bool
	showPrivacy  bool
	showSettings bool
	showSources  bool

	showQuickOptions bool
	quickOptions     pickerState
	sources          pickerState

	selectedSetting settingRow

	// Acknowledge modal (export results, clipboard failures)
	showAcknowledgeModal  bool
	acknowledgeModalTitle string
	acknowledgeModalMsg   string
	acknowledgeModalType  ModalType

	// One-line status notice, cleared by flashTickMsg
	notice    string
	noticeSeq int
}

func NewAppView(dataModel *appmodel.Model, terminalDark bool) AppView {
	ApplyTheme(dataModel.Config.Preferences.IsDarkMode(terminalDark))

	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.Focus()
	ta.CharLimit = 2000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.SetWidth(80)

	// Enter sends (handled in Update); Alt+Enter inserts a newline
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	a := AppView{
		dataModel:      dataModel,
		textarea:       ta,
		viewport:       viewport.New(0, 0),
		loadingSpinner: sp,
		terminalDark:   terminalDark,
		quickOptions:   newPickerState(quickOptionTargets()),
		sources:        newPickerState(sourceTargets()),
	}
	a.refreshStyles()
	return a
}

func (a AppView) Init() tea.Cmd {
	// Markdown waits for the first WindowSizeMsg so it renders at the right width
	return tea.Batch(textarea.Blink, a.loadingSpinner.Tick)
}

// refreshStyles re-applies palette colours to components that copy styles at construction.
func (a *AppView) refreshStyles() {
	a.loadingSpinner.Style = lipgloss.NewStyle().Foreground(accentColor)
	a.textarea.FocusedStyle.Prompt = lipgloss.NewStyle().Foreground(successColor)
	a.textarea.BlurredStyle.Prompt = lipgloss.NewStyle().Foreground(dimColor)
}

func (a AppView) View() string {
	if !a.ready {
		return "Cargando ANMI..."
	}

	// Modal layers, top first
	switch {
	case a.showAcknowledgeModal:
		return RenderAcknowledgeModal(a.acknowledgeModalTitle, a.acknowledgeModalMsg, a.acknowledgeModalType, a.width, a.height)
	case a.showHelp:
		return a.renderHelpModal(a.width, a.height)
	case a.showSettings:
		return a.renderSettingsModal(a.width, a.height)
	case a.showPrivacy:
		return a.renderPrivacyModal(a.width, a.height)
	case a.showSources:
		return a.renderSourcesModal(a.width, a.height)
	case a.showQuickOptions:
		return a.renderQuickOptionsModal(a.width, a.height)
	}

	var sections []string
	sections = append(sections, a.renderTitleBar())
	if banner := a.renderBanner(); banner != "" {
		sections = append(sections, banner)
	}
	sections = append(sections,
		a.viewport.View(),
		a.renderTypingLine(),
		a.renderQuickOptionsBar(),
		a.textarea.View(),
		a.renderStatusBar(),
	)

	return strings.Join(sections, "\n")
}

func (a AppView) renderTitleBar() string {
	title := TitleStyle.Foreground(successColor).Render(appTitle) + DimStyle.Render(" - "+appSubtitle)
	notice := DimStyle.Render(privacyNotice)

	gap := a.width - lipgloss.Width(title) - lipgloss.Width(notice)
	if gap < 2 {
		return title
	}
	return title + strings.Repeat(" ", gap) + notice
}

// renderTypingLine shows the spinner while no part of the reply is on screen yet, with the
// reassurance text once it is due.
func (a AppView) renderTypingLine() string {
	conv := a.dataModel.Conversation
	if !conv.ShowTyping() {
		return ""
	}
	text := "Escribiendo..."
	if conv.Reassurance != "" {
		text = conv.Reassurance
	}
	return a.loadingSpinner.View() + " " + DimStyle.Render(text)
}

func (a AppView) renderStatusBar() string {
	if a.notice != "" {
		return StatusStyle.Render(a.notice)
	}

	kb := a.dataModel.Config.Keybindings
	var hints []string
	if a.dataModel.Conversation.Busy() {
		hints = append(hints, kb.DisplayActionKey("cancel_stream"), "Cancelar")
	} else {
		hints = append(hints, "Enter", "Enviar")
	}
	hints = append(hints,
		kb.DisplayActionKey("export_pdf"), "PDF",
		kb.DisplayActionKey("sources"), "Fuentes",
		kb.DisplayActionKey("help"), "Ayuda",
		kb.DisplayActionKey("quit"), "Salir",
	)

	footer := FormatFooter(hints...)
	return footer + "\n" + DimStyle.Italic(true).Render(inputDisclaimer)
}

// layout sizes the viewport to whatever the fixed chrome leaves.
func (a *AppView) layout() {
	a.textarea.SetWidth(a.width)

	chrome := 1 + // title
		1 + // typing line
		1 + // quick options
		a.textarea.Height() +
		2 // status + disclaimer
	if a.renderBanner() != "" {
		chrome++
	}

	a.viewport.Width = a.width
	a.viewport.Height = max(a.height-chrome, 3)
}

func (a *AppView) closeAllModals() {
	a.showHelp = false
	a.showPrivacy = false
	a.showSettings = false
	a.showSources = false
	a.showQuickOptions = false
	a.showAcknowledgeModal = false
	a.sources.reset()
	a.quickOptions.reset()
}

func (a AppView) anyModalOpen() bool {
	return a.showHelp || a.showPrivacy || a.showSettings || a.showSources || a.showQuickOptions || a.showAcknowledgeModal
}

func (a *AppView) acknowledge(title, msg string, t ModalType) {
	a.showAcknowledgeModal = true
	a.acknowledgeModalTitle = title
	a.acknowledgeModalMsg = msg
	a.acknowledgeModalType = t
}

// logf writes to the debug log when it is enabled.
func logf(format string, args ...any) {
	if config.DebugLog != nil {
		config.DebugLog.Printf(format, args...)
	}
}
