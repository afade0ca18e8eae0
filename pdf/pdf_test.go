package pdf

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleReply = `# Alimentos ricos en hierro

Para prevenir la **anemia** en niños pequeños, incluye estos alimentos en su dieta diaria:

## De origen animal
- Sangrecita de pollo
* Hígado y bazo
1. Lava bien los alimentos
2. Cocina a **fuego medio**

| Alimento | Hierro (mg) |
|---|---|
| Sangrecita | 29.5 |
| Bazo | 28.7 |

> Combina con cítricos para mejorar la absorción 🍊
**Consejo práctico**
*Consulta siempre con tu centro de salud.*`

func TestParse(t *testing.T) {
	blocks := Parse(sampleReply)

	var kinds []string
	for _, b := range blocks {
		kinds = append(kinds, b.Kind.String())
	}

	want := []string{
		"heading", "blank", "paragraph", "blank",
		"heading", "bullet", "bullet", "numbered", "numbered", "blank",
		"table_row", "table_row", "table_row", "blank",
		"quote", "subtitle", "note",
	}
	if strings.Join(kinds, ",") != strings.Join(want, ",") {
		t.Fatalf("kinds = %v\nwant    %v", kinds, want)
	}

	if blocks[0].Level != 1 || blocks[0].Text != "Alimentos ricos en hierro" {
		t.Errorf("heading = %+v", blocks[0])
	}
	if blocks[4].Level != 2 {
		t.Errorf("second heading level = %d", blocks[4].Level)
	}
	if blocks[2].Text != "Para prevenir la anemia en niños pequeños, incluye estos alimentos en su dieta diaria:" {
		t.Errorf("paragraph text = %q", blocks[2].Text)
	}
	if blocks[8].Number != "2" || blocks[8].Text != "Cocina a fuego medio" {
		t.Errorf("numbered = %+v", blocks[8])
	}

	header, row := blocks[10], blocks[11]
	if !header.Header || strings.Join(header.Cells, "|") != "Alimento|Hierro (mg)" {
		t.Errorf("table header = %+v", header)
	}
	if row.Header || strings.Join(row.Cells, "|") != "Sangrecita|29.5" {
		t.Errorf("table row = %+v", row)
	}

	if blocks[15].Text != "Consejo práctico" {
		t.Errorf("subtitle = %q", blocks[15].Text)
	}
	if blocks[16].Text != "Consulta siempre con tu centro de salud." {
		t.Errorf("note = %q", blocks[16].Text)
	}
}

func TestParseTableStateResetsOnParagraph(t *testing.T) {
	blocks := Parse("| a | b |\n|---|---|\n| 1 | 2 |\nTexto\n| c | d |")

	if len(blocks) != 4 {
		t.Fatalf("expected 4 blocks, got %d", len(blocks))
	}
	if !blocks[0].Header || blocks[1].Header {
		t.Error("only the first row of the first table is a header")
	}
	if !blocks[3].Header {
		t.Error("a table after a paragraph starts with a header row")
	}
}

func TestParseLongBoldLineIsParagraph(t *testing.T) {
	line := "Este es un texto largo con **negrita** que supera claramente los sesenta caracteres"
	blocks := Parse(line)
	if len(blocks) != 1 || blocks[0].Kind != BlockParagraph {
		t.Fatalf("blocks = %+v", blocks)
	}
	if strings.Contains(blocks[0].Text, "*") {
		t.Errorf("inline markup not stripped: %q", blocks[0].Text)
	}
}

func TestStripInline(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"**hierro**", "hierro"},
		{"*vitamina C*", "vitamina C"},
		{"usa `agua hervida`", "usa agua hervida"},
		{"**a** y *b*", "a y b"},
		{"sin formato", "sin formato"},
	}
	for _, tt := range tests {
		if got := StripInline(tt.in); got != tt.want {
			t.Errorf("StripInline(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFileName(t *testing.T) {
	got := FileName(time.Date(2026, 3, 7, 15, 0, 0, 0, time.UTC))
	if got != "Ficha_ANMI_07-03-2026.pdf" {
		t.Errorf("FileName = %q", got)
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleReply, Options{Now: time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output does not look like a PDF: %q", buf.Bytes()[:min(16, buf.Len())])
	}
}

func TestRenderPaginatesLongContent(t *testing.T) {
	var b strings.Builder
	for range 200 {
		b.WriteString("Los alimentos de origen animal aportan hierro hemínico, que el cuerpo absorbe mejor que el de origen vegetal.\n")
	}

	var short, long bytes.Buffer
	if err := Render(&short, "Una línea.", Options{}); err != nil {
		t.Fatalf("Render short: %v", err)
	}
	if err := Render(&long, b.String(), Options{FontScale: 18.0 / 16.0}); err != nil {
		t.Fatalf("Render long: %v", err)
	}

	if n := bytes.Count(short.Bytes(), []byte("<</Type /Page\n")); n != 1 {
		t.Errorf("short document has %d pages, want 1", n)
	}
	if n := bytes.Count(long.Bytes(), []byte("<</Type /Page\n")); n < 2 {
		t.Errorf("long document has %d pages, want several", n)
	}
}

func TestRenderSurvivesOddInput(t *testing.T) {
	inputs := []string{
		"",
		"|",
		"1. ",
		"#",
		strings.Repeat("x", 500),
		"💚🇵🇪 solo emojis 👶",
	}
	for _, in := range inputs {
		var buf bytes.Buffer
		if err := Render(&buf, in, Options{}); err != nil {
			t.Errorf("Render(%q): %v", in, err)
		}
	}
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	path, err := WriteFile(dir, sampleReply, Options{Now: now})
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if filepath.Base(path) != "Ficha_ANMI_18-10-2026.pdf" {
		t.Errorf("path = %q", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("empty PDF written")
	}
}
