package docx

import "fmt"

// Intermediate representation of document content, in body order. It
// carries just enough structure to lay the document out as PDF without an
// office suite.

// RunStyle captures the character formatting of a run.
type RunStyle struct {
	Bold   bool
	Italic bool
}

func (s RunStyle) String() string {
	return fmt.Sprintf("Bold: %t, Italic: %t", s.Bold, s.Italic)
}

// RenderRun is a single run of text. Text may contain \n and \t.
type RenderRun struct {
	Text  string
	Style RunStyle
}

func (r RenderRun) String() string {
	return fmt.Sprintf("Text: %q, Style: [%s]", r.Text, r.Style)
}

// ParagraphStyle captures paragraph-level formatting.
type ParagraphStyle struct {
	StyleID      string // e.g. "Heading1"
	HeadingLevel int    // 0 for body text, 1-6 for headings
}

// RenderParagraph is a paragraph and its runs.
type RenderParagraph struct {
	Runs  []RenderRun
	Style ParagraphStyle
}

// Text is the concatenated text of the runs.
func (p RenderParagraph) Text() string {
	var s string
	for _, r := range p.Runs {
		s += r.Text
	}
	return s
}

func (p RenderParagraph) String() string {
	return fmt.Sprintf("Runs: %d, Style: %s, Heading: %d", len(p.Runs), p.Style.StyleID, p.Style.HeadingLevel)
}

// RenderTableCell holds the paragraphs of one table cell.
type RenderTableCell struct {
	Paragraphs []RenderParagraph
}

// RenderTableRow is a table row.
type RenderTableRow struct {
	Cells []RenderTableCell
}

// RenderTable is a table, rows in order.
type RenderTable struct {
	Rows []RenderTableRow
}

// Columns is the widest row's cell count.
func (t RenderTable) Columns() int {
	n := 0
	for _, r := range t.Rows {
		n = max(n, len(r.Cells))
	}
	return n
}

func (t RenderTable) String() string {
	return fmt.Sprintf("Rows: %d, Columns: %d", len(t.Rows), t.Columns())
}

// DocumentBlock is a top-level body element. Exactly one of Paragraph and
// Table is non-nil.
type DocumentBlock struct {
	Paragraph *RenderParagraph
	Table     *RenderTable
}

// DocumentModel is the body of a document as an ordered list of blocks.
type DocumentModel struct {
	Blocks []DocumentBlock
}

func (d DocumentModel) String() string {
	return fmt.Sprintf("Blocks: %d", len(d.Blocks))
}
