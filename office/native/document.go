package native

import (
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/aerissecure/contractfill/docx"
)

const (
	fontFamily   = "Helvetica"
	bodySizePt   = 11
	docMarginMM  = 20
	lineHeightMM = 5.5
)

var headingSizes = map[int]float64{1: 16, 2: 14, 3: 13, 4: 12, 5: 11, 6: 11}

func runStyle(s docx.RunStyle) string {
	var st string
	if s.Bold {
		st += "B"
	}
	if s.Italic {
		st += "I"
	}
	return st
}

func cleanText(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

// renderDocument writes the document body as flowing A4 text.
func renderDocument(mdl docx.DocumentModel, out string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreator("contratorpa", true)
	pdf.SetMargins(docMarginMM, docMarginMM, docMarginMM)
	pdf.SetAutoPageBreak(true, docMarginMM)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	for _, b := range mdl.Blocks {
		switch {
		case b.Paragraph != nil:
			writeParagraph(pdf, tr, *b.Paragraph)
		case b.Table != nil:
			writeTable(pdf, tr, *b.Table)
		}
	}
	return pdf.OutputFileAndClose(out)
}

func writeParagraph(pdf *fpdf.Fpdf, tr func(string) string, p docx.RenderParagraph) {
	size := float64(bodySizePt)
	bold := false
	if lvl := p.Style.HeadingLevel; lvl > 0 {
		size = headingSizes[lvl]
		bold = true
	}
	h := lineHeightMM * size / bodySizePt
	for _, r := range p.Runs {
		st := runStyle(r.Style)
		if bold && !strings.Contains(st, "B") {
			st = "B" + st
		}
		pdf.SetFont(fontFamily, st, size)
		pdf.Write(h, tr(cleanText(r.Text)))
	}
	pdf.Ln(h * 1.4)
}

func writeTable(pdf *fpdf.Fpdf, tr func(string) string, t docx.RenderTable) {
	cols := t.Columns()
	if cols == 0 {
		return
	}
	pageW, pageH := pdf.GetPageSize()
	left, _, right, bottom := pdf.GetMargins()
	colW := (pageW - left - right) / float64(cols)
	pdf.SetFont(fontFamily, "", bodySizePt-1)
	lineH := lineHeightMM * 0.9

	for _, row := range t.Rows {
		texts := make([]string, cols)
		lines := 1
		for i, c := range row.Cells {
			var parts []string
			for _, p := range c.Paragraphs {
				parts = append(parts, p.Text())
			}
			texts[i] = tr(cleanText(strings.Join(parts, "\n")))
			n := 0
			for _, seg := range strings.Split(texts[i], "\n") {
				n += max(1, len(pdf.SplitText(seg, colW-2)))
			}
			lines = max(lines, n)
		}
		rowH := float64(lines)*lineH + 2
		if pdf.GetY()+rowH > pageH-bottom {
			pdf.AddPage()
		}
		y := pdf.GetY()
		for i, text := range texts {
			x := left + float64(i)*colW
			pdf.Rect(x, y, colW, rowH, "D")
			pdf.SetXY(x+1, y+1)
			pdf.MultiCell(colW-2, lineH, text, "", "L", false)
		}
		pdf.SetXY(left, y+rowH)
	}
	pdf.Ln(lineHeightMM)
}
