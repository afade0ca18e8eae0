// Package pdf typesets an assistant reply into a one-file nutrition sheet.
//
// Only the markdown subset the assistant produces is recognised, one line at a time: headings,
// bullet and numbered lists, pipe tables, block quotes, short bold subtitles, italic notes and
// plain paragraphs.
package pdf

import (
	"regexp"
	"strings"
)

type BlockKind int

const (
	BlockBlank BlockKind = iota
	BlockHeading
	BlockBullet
	BlockNumbered
	BlockTableRow
	BlockQuote
	BlockSubtitle
	BlockNote
	BlockParagraph
)

func (k BlockKind) String() string {
	switch k {
	case BlockBlank:
		return "blank"
	case BlockHeading:
		return "heading"
	case BlockBullet:
		return "bullet"
	case BlockNumbered:
		return "numbered"
	case BlockTableRow:
		return "table_row"
	case BlockQuote:
		return "quote"
	case BlockSubtitle:
		return "subtitle"
	case BlockNote:
		return "note"
	case BlockParagraph:
		return "paragraph"
	default:
		return "unknown"
	}
}

// subtitleMaxLen is the length under which a line carrying bold markup reads as a subtitle.
const subtitleMaxLen = 60

// Block is one classified source line with its inline markup already stripped.
type Block struct {
	Kind   BlockKind
	Text   string
	Level  int      // heading level
	Number string   // numbered list marker, without the dot
	Cells  []string // table cells
	Header bool     // first row of a table
}

var (
	headingPrefix = regexp.MustCompile(`^#+`)
	headingStrip  = regexp.MustCompile(`^#+\s*`)
	numberedItem  = regexp.MustCompile(`^(\d+)\.\s(.+)$`)
	numberedStart = regexp.MustCompile(`^\d+\.\s`)

	boldMarkup   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicMarkup = regexp.MustCompile(`\*(.+?)\*`)
	codeMarkup   = regexp.MustCompile("`(.+?)`")
)

// StripInline removes bold, italic and inline code markers.
func StripInline(s string) string {
	s = boldMarkup.ReplaceAllString(s, "$1")
	s = italicMarkup.ReplaceAllString(s, "$1")
	return codeMarkup.ReplaceAllString(s, "$1")
}

// Parse classifies content line by line. Table separator rows produce no block.
func Parse(content string) []Block {
	var blocks []Block
	inTable := false

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)

		switch {
		case line == "":
			blocks = append(blocks, Block{Kind: BlockBlank})

		case strings.HasPrefix(line, "#"):
			blocks = append(blocks, Block{
				Kind:  BlockHeading,
				Level: len(headingPrefix.FindString(line)),
				Text:  strings.TrimSpace(headingStrip.ReplaceAllString(line, "")),
			})

		case strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* "):
			blocks = append(blocks, Block{
				Kind: BlockBullet,
				Text: StripInline(strings.TrimSpace(line[2:])),
			})

		case numberedStart.MatchString(line):
			m := numberedItem.FindStringSubmatch(line)
			if m == nil {
				// "1. " with nothing after it
				continue
			}
			blocks = append(blocks, Block{
				Kind:   BlockNumbered,
				Number: m[1],
				Text:   StripInline(m[2]),
			})

		case strings.Contains(line, "|"):
			if strings.Contains(line, "---") {
				inTable = true
				continue
			}
			var cells []string
			for _, cell := range strings.Split(line, "|") {
				if cell = strings.TrimSpace(cell); cell != "" {
					cells = append(cells, StripInline(cell))
				}
			}
			blocks = append(blocks, Block{
				Kind:   BlockTableRow,
				Cells:  cells,
				Header: !inTable,
			})
			inTable = true

		case strings.HasPrefix(line, "> "):
			blocks = append(blocks, Block{
				Kind: BlockQuote,
				Text: StripInline(line[2:]),
			})

		case strings.Contains(line, "**") && len([]rune(line)) < subtitleMaxLen:
			blocks = append(blocks, Block{
				Kind: BlockSubtitle,
				Text: StripInline(line),
			})

		case strings.HasPrefix(line, "*") && strings.HasSuffix(line, "*") && !strings.Contains(line, "**"):
			blocks = append(blocks, Block{
				Kind: BlockNote,
				Text: StripInline(line),
			})

		default:
			inTable = false
			blocks = append(blocks, Block{
				Kind: BlockParagraph,
				Text: StripInline(line),
			})
		}
	}

	return blocks
}
