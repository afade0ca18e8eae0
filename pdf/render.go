package pdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-pdf/fpdf"

	"anmi/config"
)

const (
	DefaultTitle  = "ANMI - Ficha Nutricional"
	DefaultFooter = "Fuente: ANMI (Basado en MINSA/OMS). Información educativa."
)

// Page geometry in millimetres (A4 portrait).
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	margin       = 20.0
	maxLineWidth = pageWidth - 2*margin
	headerHeight = 20.0
	firstPageY   = 40.0
	nextPageY    = 30.0
	breakY       = pageHeight - 20
	lineHeight   = 5.0
	fontFamily   = "Helvetica"
)

type rgb struct{ r, g, b int }

var (
	colorTeal      = rgb{13, 148, 136}
	colorTealDark  = rgb{15, 118, 110}
	colorTealLight = rgb{45, 212, 191}
	colorBody      = rgb{40, 40, 40}
	colorParagraph = rgb{60, 60, 60}
	colorQuote     = rgb{80, 80, 80}
	colorNote      = rgb{100, 100, 100}
	colorFooter    = rgb{150, 150, 150}
	colorRule      = rgb{200, 200, 200}
	colorWhite     = rgb{255, 255, 255}
	colorBlack     = rgb{0, 0, 0}
)

// Options tunes one export. Zero values fall back to the defaults.
type Options struct {
	Title     string
	Footer    string
	FontScale float64 // multiplies every font size; 1 is the 16px baseline preference
	Now       time.Time
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.Footer == "" {
		o.Footer = DefaultFooter
	}
	if o.FontScale <= 0 {
		o.FontScale = 1
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	return o
}

// FileName is the export name for a given day, e.g. Ficha_ANMI_18-10-2026.pdf.
func FileName(t time.Time) string {
	return "Ficha_ANMI_" + t.Format("02-01-2006") + ".pdf"
}

type renderer struct {
	doc   *fpdf.Fpdf
	tr    func(string) string
	opts  Options
	y     float64
	scale float64
}

// Render typesets content and writes the PDF to w.
func Render(w io.Writer, content string, opts Options) error {
	opts = opts.withDefaults()

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	doc.SetTitle(opts.Title, true)
	doc.SetCreator("ANMI", true)
	doc.SetCreationDate(opts.Now)

	r := &renderer{
		doc:   doc,
		tr:    doc.UnicodeTranslatorFromDescriptor(""),
		opts:  opts,
		scale: opts.FontScale,
	}
	doc.SetFooterFunc(r.footer)

	doc.AddPage()
	r.header()
	r.y = firstPageY

	for _, b := range Parse(content) {
		r.block(b)
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	return nil
}

// WriteFile renders content into dir under FileName and returns the written path.
// A same-day export replaces the previous one.
func WriteFile(dir, content string, opts Options) (string, error) {
	opts = opts.withDefaults()

	if err := config.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	var buf bytes.Buffer
	if err := Render(&buf, content, opts); err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName(opts.Now))
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return "", fmt.Errorf("failed to write PDF: %w", err)
	}
	return path, nil
}

func (r *renderer) header() {
	d := r.doc
	r.fill(colorTeal)
	d.Rect(0, 0, pageWidth, headerHeight, "F")
	r.color(colorWhite)
	d.SetFont(fontFamily, "B", 14)
	d.Text(15, 13, r.text(r.opts.Title))
}

func (r *renderer) footer() {
	d := r.doc
	footerY := pageHeight - 10
	r.draw(colorRule)
	d.SetLineWidth(0.2)
	d.Line(margin, footerY-5, pageWidth-margin, footerY-5)
	d.SetFont(fontFamily, "I", 8)
	r.color(colorFooter)
	d.Text(margin, footerY, r.text(r.opts.Footer))
}

func (r *renderer) ensureSpace(h float64) {
	if r.y+h >= breakY {
		r.doc.AddPage()
		r.y = nextPageY
	}
}

func (r *renderer) font(style string, size float64, c rgb) {
	r.doc.SetFont(fontFamily, style, size*r.scale)
	r.color(c)
}

func (r *renderer) lines(lines []string, x float64) {
	for i, line := range lines {
		r.doc.Text(x, r.y+float64(i)*lineHeight*r.scale, line)
	}
}

func (r *renderer) block(b Block) {
	d := r.doc
	lh := lineHeight * r.scale

	switch b.Kind {
	case BlockBlank:
		r.y += 3

	case BlockHeading:
		r.ensureSpace(15)
		size := 11.0
		switch b.Level {
		case 1:
			size = 14
		case 2:
			size = 12
		}
		r.font("B", size, colorTealDark)
		d.Text(margin, r.y, r.text(b.Text))
		if b.Level == 1 {
			r.y += 10
		} else {
			r.y += 8
		}

	case BlockBullet:
		r.font("", 10, colorBody)
		r.ensureSpace(7)
		r.fill(colorTeal)
		d.Circle(margin+2, r.y-1, 1, "F")
		wrapped := r.wrap(b.Text, maxLineWidth-5)
		r.lines(wrapped, margin+6)
		r.y += float64(len(wrapped))*lh + 2

	case BlockNumbered:
		r.font("B", 10, colorBody)
		r.ensureSpace(7)
		d.Text(margin, r.y, b.Number+".")
		r.font("", 10, colorBody)
		wrapped := r.wrap(b.Text, maxLineWidth-8)
		r.lines(wrapped, margin+8)
		r.y += float64(len(wrapped))*lh + 2

	case BlockTableRow:
		r.ensureSpace(10)
		style := ""
		if b.Header {
			style = "B"
		}
		r.font(style, 9, colorBody)
		if len(b.Cells) > 0 {
			cellWidth := maxLineWidth / float64(len(b.Cells))
			for i, cell := range b.Cells {
				d.Text(margin+float64(i)*cellWidth, r.y, r.fit(cell, cellWidth-2))
			}
		}
		r.y += 6

	case BlockQuote:
		r.ensureSpace(10)
		r.draw(colorTealLight)
		d.SetLineWidth(2)
		d.Line(margin, r.y-3, margin, r.y+5)
		r.font("I", 9, colorQuote)
		wrapped := r.wrap(b.Text, maxLineWidth-8)
		r.lines(wrapped, margin+6)
		r.y += float64(len(wrapped))*lh + 4

	case BlockSubtitle:
		r.ensureSpace(10)
		r.font("B", 10, colorBlack)
		d.Text(margin, r.y, r.text(b.Text))
		r.y += 6

	case BlockNote:
		r.ensureSpace(10)
		r.font("I", 9, colorNote)
		wrapped := r.wrap(b.Text, maxLineWidth)
		h := float64(len(wrapped)) * lh
		r.ensureSpace(h)
		r.lines(wrapped, margin)
		r.y += h + 4

	case BlockParagraph:
		r.font("", 10, colorParagraph)
		wrapped := r.wrap(b.Text, maxLineWidth)
		h := float64(len(wrapped)) * lh
		r.ensureSpace(h)
		r.lines(wrapped, margin)
		r.y += h + 3
	}
}

func (r *renderer) fill(c rgb)  { r.doc.SetFillColor(c.r, c.g, c.b) }
func (r *renderer) draw(c rgb)  { r.doc.SetDrawColor(c.r, c.g, c.b) }
func (r *renderer) color(c rgb) { r.doc.SetTextColor(c.r, c.g, c.b) }

// text converts s to the core fonts' cp1252 encoding. Pictographs have no glyph there and are
// dropped rather than printed as dots.
func (r *renderer) text(s string) string {
	s = strings.Map(func(c rune) rune {
		if c > 0xFFFF || unicode.Is(unicode.So, c) || unicode.Is(unicode.Variation_Selector, c) || c == '\u200d' {
			return -1
		}
		return c
	}, s)
	return strings.TrimSpace(r.tr(s))
}

// wrap breaks s into lines no wider than width at the current font, splitting words that do
// not fit on a line of their own.
func (r *renderer) wrap(s string, width float64) []string {
	d := r.doc
	words := strings.Fields(r.text(s))
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := ""
	for _, word := range words {
		for d.GetStringWidth(word) > width {
			cut := fitBytes(d, word, width)
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			lines = append(lines, word[:cut])
			word = word[cut:]
		}

		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if d.GetStringWidth(candidate) > width && current != "" {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// fit truncates a table cell to width.
func (r *renderer) fit(s string, width float64) string {
	s = r.text(s)
	if r.doc.GetStringWidth(s) <= width {
		return s
	}
	return s[:fitBytes(r.doc, s, width)]
}

// fitBytes returns how many leading bytes of a cp1252 string fit in width, at least one.
func fitBytes(d *fpdf.Fpdf, s string, width float64) int {
	n := 1
	for n < len(s) && d.GetStringWidth(s[:n+1]) <= width {
		n++
	}
	return n
}
