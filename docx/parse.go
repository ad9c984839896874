package docx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/schema/soo/wml"
)

// ParseDocumentModel opens the document at path and builds its
// intermediate representation. Headers and footers are not included.
func ParseDocumentModel(path string) (DocumentModel, error) {
	doc, err := document.Open(path)
	if err != nil {
		return DocumentModel{}, fmt.Errorf("%w %s: %v", ErrOpenTemplate, path, err)
	}
	return documentModel(doc), nil
}

func documentModel(doc *document.Document) DocumentModel {
	var mdl DocumentModel

	// Map underlying XML pointers back to the high-level wrappers.
	pMap := make(map[*wml.CT_P]document.Paragraph)
	for _, p := range doc.Paragraphs() {
		pMap[p.X()] = p
	}
	tMap := make(map[*wml.CT_Tbl]document.Table)
	for _, t := range doc.Tables() {
		tMap[t.X()] = t
	}

	body := doc.X().Body
	if body == nil {
		return mdl
	}
	for _, bl := range body.EG_BlockLevelElts {
		for _, c := range bl.EG_ContentBlockContent {
			for _, cp := range c.P {
				if par, ok := pMap[cp]; ok {
					rp := convertParagraph(par)
					mdl.Blocks = append(mdl.Blocks, DocumentBlock{Paragraph: &rp})
				}
			}
			for _, ct := range c.Tbl {
				if tbl, ok := tMap[ct]; ok {
					rt := convertTable(tbl)
					mdl.Blocks = append(mdl.Blocks, DocumentBlock{Table: &rt})
				}
			}
		}
	}
	return mdl
}

func convertRun(r document.Run) RenderRun {
	return RenderRun{
		Text: runText(r.X()),
		Style: RunStyle{
			Bold:   r.Properties().IsBold(),
			Italic: r.Properties().IsItalic(),
		},
	}
}

func convertParagraph(p document.Paragraph) RenderParagraph {
	rp := RenderParagraph{Style: ParagraphStyle{StyleID: p.Style()}}
	rp.Style.HeadingLevel = headingLevel(rp.Style.StyleID)
	for _, run := range p.Runs() {
		rp.Runs = append(rp.Runs, convertRun(run))
	}
	return rp
}

// headingLevel reads the level from style ids like "Heading2" or "Title".
func headingLevel(style string) int {
	if strings.EqualFold(style, "Title") {
		return 1
	}
	rest, ok := strings.CutPrefix(style, "Heading")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 || n > 6 {
		return 0
	}
	return n
}

func convertTable(t document.Table) RenderTable {
	var rt RenderTable
	for _, row := range t.Rows() {
		var rr RenderTableRow
		for _, cell := range row.Cells() {
			var rc RenderTableCell
			for _, p := range cell.Paragraphs() {
				rc.Paragraphs = append(rc.Paragraphs, convertParagraph(p))
			}
			rr.Cells = append(rr.Cells, rc)
		}
		rt.Rows = append(rt.Rows, rr)
	}
	return rt
}
