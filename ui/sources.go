package ui

import (
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	appmodel "anmi/model"
)

// Source is one reference document the assistant's answers are based on.
type Source struct {
	Title       string
	Description string
	Filename    string
	Icon        string
}

var Sources = []Source{
	{
		Title:       "Guías Alimentarias para Niñas y Niños Menores de 2 Años",
		Description: "Recomendaciones oficiales del MINSA para la alimentación complementaria.",
		Filename:    "Guías alimentarias para niñas y niños menores de 2 años de edad.pdf",
		Icon:        "👶",
	},
	{
		Title:       "Norma Técnica: Manejo de la Anemia",
		Description: "Manejo terapéutico y preventivo de la anemia en niños, adolescentes, gestantes y puérperas.",
		Filename:    "Norma_técnica___Manejo_terapéutico_y_preventivo_de_la_anemia_en_niños__adolescentes__mujeres_gestantes_y_puérperas.pdf",
		Icon:        "📋",
	},
	{
		Title:       "Guía para Gestantes y Puérperas",
		Description: "Orientaciones nutricionales para mujeres embarazadas y en período de lactancia.",
		Filename:    "GuiaGestanteyPuerpera.pdf",
		Icon:        "🤰",
	},
	{
		Title:       "Guías Alimentarias para la Población Peruana",
		Description: "Recomendaciones generales de alimentación saludable para toda la familia.",
		Filename:    "Guías_alimentarias para la poblacion peruana.pdf",
		Icon:        "🇵🇪",
	},
	{
		Title:       "Recetario Nutritivo",
		Description: "Recetas prácticas ricas en hierro para prevenir la anemia.",
		Filename:    "Recetario.pdf",
		Icon:        "🍲",
	},
	{
		Title:       "Informe: La Anemia Infantil en el Perú",
		Description: "Análisis y estadísticas sobre la situación de la anemia infantil.",
		Filename:    "INFORME-DEL-SEMINARIO-LA-ANEMIA-INFANTIL-EN-EL-PERU.pdf",
		Icon:        "📊",
	},
	{
		Title:       "Resolución Ministerial - Medidas",
		Description: "Marco normativo y medidas oficiales contra la anemia.",
		Filename:    "resolucion-ministerial-medidas.pdf",
		Icon:        "⚖️",
	},
}

const (
	sourcesIntro  = "La información de ANMI está basada en documentos oficiales del MINSA y otras fuentes confiables."
	sourcesFooter = "⚠️ Información educativa. No reemplaza la consulta médica."
)

// DocumentURL is where the API serves a source document. Documents live next to the API
// under /docs, so a trailing /api segment on the base is dropped.
func DocumentURL(apiBase string, s Source) string {
	base := strings.TrimRight(apiBase, "/")
	base = strings.TrimSuffix(base, "/api")
	return base + "/docs/" + url.PathEscape(s.Filename)
}

func sourceTargets() []string {
	targets := make([]string, len(Sources))
	for i, s := range Sources {
		targets[i] = s.Title + " " + s.Description
	}
	return targets
}

func (a AppView) handleSourcesInput(msg tea.KeyMsg) (AppView, tea.Cmd) {
	action, cmd := a.sources.update(msg)
	switch action {
	case pickerClose:
		a.showSources = false
		a.sources.reset()
	case pickerChoose:
		idx, ok := a.sources.current()
		if !ok {
			return a, cmd
		}
		link := DocumentURL(a.dataModel.Config.APIBaseURL, Sources[idx])
		a.showSources = false
		a.sources.reset()
		return a, appmodel.CopyText("link", link)
	}
	return a, cmd
}

func (a AppView) renderSourcesModal(width, height int) string {
	modalWidth := 70
	if width < modalWidth+10 {
		modalWidth = width - 10
	}

	var lines []string
	lines = append(lines, leftLines(sourcesIntro, modalWidth, DimStyle)...)
	lines = append(lines, "")
	lines = append(lines, a.sources.header("documentos"))
	lines = append(lines, "")

	if len(a.sources.visible) == 0 {
		lines = append(lines, a.sources.emptyLine(modalWidth))
	}

	descStyle := lipgloss.NewStyle().Foreground(dimColor).PaddingLeft(5)
	for i, idx := range a.sources.visible {
		s := Sources[idx]
		row := s.Icon + "  " + s.Title
		if i == a.sources.selected {
			lines = append(lines, SelectedStyle.Render("▶ "+row))
			for _, l := range strings.Split(wordWrap(s.Description, modalWidth-7), "\n") {
				lines = append(lines, descStyle.Render(l))
			}
			continue
		}
		lines = append(lines, "  "+row)
	}

	lines = append(lines, "")
	lines = append(lines, leftLines(sourcesFooter, modalWidth, lipgloss.NewStyle().Foreground(warningColor))...)

	footer := FormatFooter("j/k", "Navegar", "/", "Filtrar", "Enter", "Copiar enlace", "Esc", "Cerrar")
	return RenderThreeSectionModal("📚 Fuentes oficiales", lines, footer, ModalTypeInfo, modalWidth, width, height)
}
