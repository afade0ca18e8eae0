package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

type pickerAction int

const (
	pickerNone pickerAction = iota
	pickerClose
	pickerChoose
)

// pickerState is a fuzzy-filterable list used by the sources and quick options modals.
type pickerState struct {
	targets   []string
	filter    textinput.Model
	filtering bool
	selected  int
	visible   []int // indexes into targets, best match first
}

func newPickerState(targets []string) pickerState {
	filter := textinput.New()
	filter.Prompt = "Filtrar: "
	filter.CharLimit = 64

	p := pickerState{targets: targets, filter: filter}
	p.reset()
	return p
}

func (p *pickerState) reset() {
	p.filtering = false
	p.filter.SetValue("")
	p.filter.Blur()
	p.selected = 0
	p.applyFilter()
}

func (p *pickerState) applyFilter() {
	value := p.filter.Value()
	p.visible = p.visible[:0]
	if value == "" {
		for i := range p.targets {
			p.visible = append(p.visible, i)
		}
	} else {
		for _, match := range fuzzy.Find(value, p.targets) {
			p.visible = append(p.visible, match.Index)
		}
	}

	if p.selected >= len(p.visible) {
		p.selected = max(len(p.visible)-1, 0)
	}
}

// current returns the target index under the cursor.
func (p pickerState) current() (int, bool) {
	if p.selected < 0 || p.selected >= len(p.visible) {
		return 0, false
	}
	return p.visible[p.selected], true
}

func (p *pickerState) move(delta int) {
	next := p.selected + delta
	if next >= 0 && next < len(p.visible) {
		p.selected = next
	}
}

func (p *pickerState) update(msg tea.KeyMsg) (pickerAction, tea.Cmd) {
	if p.filtering {
		switch msg.String() {
		case "esc":
			p.filtering = false
			p.filter.Blur()
			return pickerNone, nil
		case "enter":
			return pickerChoose, nil
		case "down", "alt+j":
			p.move(1)
			return pickerNone, nil
		case "up", "alt+k":
			p.move(-1)
			return pickerNone, nil
		}

		var cmd tea.Cmd
		p.filter, cmd = p.filter.Update(msg)
		p.applyFilter()
		return pickerNone, cmd
	}

	switch msg.String() {
	case "/":
		p.filtering = true
		p.filter.Focus()
		return pickerNone, textinput.Blink
	case "esc", "q":
		return pickerClose, nil
	case "enter":
		return pickerChoose, nil
	case "j", "down":
		p.move(1)
	case "k", "up":
		p.move(-1)
	}
	return pickerNone, nil
}

// header is the filter input while filtering, otherwise a match count.
func (p pickerState) header(noun string) string {
	if p.filtering {
		return p.filter.View()
	}
	if len(p.visible) == len(p.targets) {
		return DimStyle.Render(fmt.Sprintf("%d %s  (/ para filtrar)", len(p.targets), noun))
	}
	return DimStyle.Render(fmt.Sprintf("%d de %d %s", len(p.visible), len(p.targets), noun))
}

func (p pickerState) emptyLine(width int) string {
	return lipgloss.NewStyle().
		Foreground(dimColor).
		Italic(true).
		Align(lipgloss.Center).
		Width(width).
		Render("Sin coincidencias")
}
