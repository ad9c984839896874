package docx

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/schema/soo/wml"
	"go.uber.org/zap/zaptest"
)

func addText(p document.Paragraph, texts ...string) {
	for _, s := range texts {
		p.AddRun().AddText(s)
	}
}

// nestedTable appends a one-cell table holding text inside cell.
func nestedTable(cell document.Cell, text string) {
	p := wml.NewCT_P()
	r := wml.NewCT_R()
	ic := wml.NewEG_RunInnerContent()
	ic.T = wml.NewCT_Text()
	ic.T.Content = text
	r.EG_RunInnerContent = append(r.EG_RunInnerContent, ic)
	pc := wml.NewEG_PContent()
	rc := wml.NewEG_ContentRunContent()
	rc.R = r
	pc.EG_ContentRunContent = append(pc.EG_ContentRunContent, rc)
	p.EG_PContent = append(p.EG_PContent, pc)

	tc := wml.NewCT_Tc()
	inner := wml.NewEG_BlockLevelElts()
	innerContent := wml.NewEG_ContentBlockContent()
	innerContent.P = append(innerContent.P, p)
	inner.EG_ContentBlockContent = append(inner.EG_ContentBlockContent, innerContent)
	tc.EG_BlockLevelElts = append(tc.EG_BlockLevelElts, inner)

	row := wml.NewCT_Row()
	cc := wml.NewEG_ContentCellContent()
	cc.Tc = append(cc.Tc, tc)
	row.EG_ContentCellContent = append(row.EG_ContentCellContent, cc)

	tbl := wml.NewCT_Tbl()
	rowContent := wml.NewEG_ContentRowContent()
	rowContent.Tr = append(rowContent.Tr, row)
	tbl.EG_ContentRowContent = append(tbl.EG_ContentRowContent, rowContent)

	bl := wml.NewEG_BlockLevelElts()
	bc := wml.NewEG_ContentBlockContent()
	bc.Tbl = append(bc.Tbl, tbl)
	bl.EG_ContentBlockContent = append(bl.EG_ContentBlockContent, bc)
	cell.X().EG_BlockLevelElts = append(cell.X().EG_BlockLevelElts, bl)
}

func writeTemplate(t *testing.T, build func(doc *document.Document)) string {
	t.Helper()
	doc := document.New()
	build(doc)
	path := filepath.Join(t.TempDir(), "modelo.docx")
	if err := doc.SaveToFile(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func texts(t *testing.T, path string) []string {
	t.Helper()
	doc, err := document.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	var out []string
	for _, p := range paragraphs(doc) {
		out = append(out, paragraphText(p))
	}
	return out
}

func fill(t *testing.T, template string, values map[string]string) (string, Stats) {
	t.Helper()
	out := filepath.Join(t.TempDir(), "preenchido.docx")
	st, err := NewFiller(template, zaptest.NewLogger(t)).Fill(values, out)
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	return out, st
}

func TestFillReplacesInEveryPart(t *testing.T) {
	template := writeTemplate(t, func(doc *document.Document) {
		addText(doc.AddParagraph(), "CONTRATANTE: ", "contratante_nome")
		addText(doc.AddParagraph(), "sem marcadores")

		cell := doc.AddTable().AddRow().AddCell()
		addText(cell.AddParagraph(), "Valor: preço_total")
		nestedTable(cell, "Prazo: prazo_dias")

		hdr := doc.AddHeader()
		addText(hdr.AddParagraph(), "Obra obra_nome")
		doc.BodySection().SetHeader(hdr, wml.ST_HdrFtrDefault)

		ftr := doc.AddFooter()
		addText(ftr.AddParagraph(), "contratada_nome")
		doc.BodySection().SetFooter(ftr, wml.ST_HdrFtrDefault)
	})
	values := map[string]string{
		"contratante_nome": "ACME SA",
		"preço_total":      "R$ 1.234,50",
		"prazo_dias":       "120",
		"obra_nome":        "Residencial Alfa",
		"contratada_nome":  "Construtora Beta",
	}

	out, st := fill(t, template, values)
	got := texts(t, out)
	want := []string{
		"CONTRATANTE: ACME SA",
		"sem marcadores",
		"Valor: R$ 1.234,50",
		"Prazo: 120",
		"Obra Residencial Alfa",
		"Construtora Beta",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("paragraphs = %q\nwant %q", got, want)
	}
	if st.Paragraphs != 6 || st.Replaced != 5 || st.Tokens != 5 {
		t.Errorf("stats = %+v", st)
	}

	// The template itself is never modified.
	if orig := texts(t, template); orig[0] != "CONTRATANTE: contratante_nome" {
		t.Errorf("template changed: %q", orig[0])
	}
}

func TestFillCollapsesRunsKeepingFirstProperties(t *testing.T) {
	template := writeTemplate(t, func(doc *document.Document) {
		p := doc.AddParagraph()
		r := p.AddRun()
		r.Properties().SetBold(true)
		r.AddText("Sr. ")
		p.AddRun().AddText("nome")

		untouched := doc.AddParagraph()
		addText(untouched, "dois ", "runs")
	})
	out, _ := fill(t, template, map[string]string{"nome": "Fulano"})

	doc, err := document.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	ps := doc.Paragraphs()
	runs := ps[0].Runs()
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	if runs[0].Text() != "Sr. Fulano" || !runs[0].Properties().IsBold() {
		t.Errorf("run = %q bold=%t", runs[0].Text(), runs[0].Properties().IsBold())
	}
	if n := len(ps[1].Runs()); n != 2 {
		t.Errorf("paragraph without tokens has %d runs, want 2", n)
	}
}

func TestFillMultilineValue(t *testing.T) {
	template := writeTemplate(t, func(doc *document.Document) {
		addText(doc.AddParagraph(), "Endereço: endereco")
	})
	out, _ := fill(t, template, map[string]string{"endereco": "Rua A, 1\nSão Paulo\tSP"})

	doc, err := document.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	p := doc.Paragraphs()[0].X()
	if got := paragraphText(p); got != "Endereço: Rua A, 1\nSão Paulo\tSP" {
		t.Errorf("text = %q", got)
	}
	var breaks, tabs int
	for _, r := range directRuns(p) {
		for _, ic := range r.EG_RunInnerContent {
			if ic.Br != nil {
				breaks++
			}
			if ic.Tab != nil {
				tabs++
			}
		}
	}
	if breaks != 1 || tabs != 1 {
		t.Errorf("breaks = %d, tabs = %d; want 1, 1", breaks, tabs)
	}
}

func TestFillKeepsPageBreakRuns(t *testing.T) {
	template := writeTemplate(t, func(doc *document.Document) {
		p := doc.AddParagraph()
		p.AddRun().AddText("Anexo numero ")
		br := wml.NewEG_RunInnerContent()
		br.Br = wml.NewCT_Br()
		br.Br.TypeAttr = wml.ST_BrTypePage
		pb := p.AddRun().X()
		pb.EG_RunInnerContent = append(pb.EG_RunInnerContent, br)
		p.AddRun().AddText("fim")
	})
	out, _ := fill(t, template, map[string]string{"numero": "II"})

	doc, err := document.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	p := doc.Paragraphs()[0].X()
	if got := paragraphText(p); got != "Anexo II fim" {
		t.Errorf("text = %q", got)
	}
	var pageRuns int
	for _, r := range directRuns(p) {
		if pageBreakRun(r) {
			pageRuns++
		}
	}
	if pageRuns != 1 {
		t.Errorf("page-break runs = %d, want 1", pageRuns)
	}
}

func TestFillTokenSplitAcrossParagraphsIsNotMatched(t *testing.T) {
	template := writeTemplate(t, func(doc *document.Document) {
		addText(doc.AddParagraph(), "contra")
		addText(doc.AddParagraph(), "tante")
	})
	out, st := fill(t, template, map[string]string{"contratante": "X"})
	if st.Tokens != 0 {
		t.Errorf("tokens = %d, want 0", st.Tokens)
	}
	if got := texts(t, out); got[0] != "contra" || got[1] != "tante" {
		t.Errorf("paragraphs = %q", got)
	}
}

func TestFillErrors(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.docx")

	_, err := NewFiller(filepath.Join(dir, "missing.docx"), zaptest.NewLogger(t)).Fill(nil, out)
	if !errors.Is(err, ErrOpenTemplate) {
		t.Fatalf("err = %v, want ErrOpenTemplate", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("no output should exist after an open failure")
	}

	template := writeTemplate(t, func(doc *document.Document) {
		addText(doc.AddParagraph(), "x")
	})
	_, err = NewFiller(template, zaptest.NewLogger(t)).Fill(nil, filepath.Join(dir, "no", "such", "dir", "out.docx"))
	if !errors.Is(err, ErrSave) {
		t.Fatalf("err = %v, want ErrSave", err)
	}
}

func TestFillSaveFailureLeavesNothingBehind(t *testing.T) {
	template := writeTemplate(t, func(doc *document.Document) {
		addText(doc.AddParagraph(), "nome")
	})
	dir := t.TempDir()
	// A non-empty directory under the output name makes the final rename fail.
	out := filepath.Join(dir, "ContratoPreenchido_15-03-24_09-05.docx")
	if err := os.MkdirAll(filepath.Join(out, "ocupado"), 0o755); err != nil {
		t.Fatal(err)
	}
	_, err := NewFiller(template, zaptest.NewLogger(t)).Fill(map[string]string{"nome": "Fulano"}, out)
	if !errors.Is(err, ErrSave) {
		t.Fatalf("err = %v, want ErrSave", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != filepath.Base(out) {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("output dir holds %q, want only the pre-existing entry", names)
	}
}

func TestFillLeavesOnlyTheOutput(t *testing.T) {
	template := writeTemplate(t, func(doc *document.Document) {
		addText(doc.AddParagraph(), "nome")
	})
	out, _ := fill(t, template, map[string]string{"nome": "Fulano"})
	entries, err := os.ReadDir(filepath.Dir(out))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "preenchido.docx" {
		t.Errorf("output dir has %d entries, want only preenchido.docx", len(entries))
	}
}

func TestParseDocumentModel(t *testing.T) {
	path := writeTemplate(t, func(doc *document.Document) {
		h := doc.AddParagraph()
		h.SetStyle("Heading1")
		addText(h, "CONTRATO")

		p := doc.AddParagraph()
		r := p.AddRun()
		r.Properties().SetBold(true)
		r.AddText("Cláusula 1")
		p.AddRun().AddText(" objeto")

		row := doc.AddTable().AddRow()
		addText(row.AddCell().AddParagraph(), "a")
		addText(row.AddCell().AddParagraph(), "b")
	})

	mdl, err := ParseDocumentModel(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(mdl.Blocks) != 3 {
		t.Fatalf("blocks = %d, want 3", len(mdl.Blocks))
	}
	head := mdl.Blocks[0].Paragraph
	if head == nil || head.Style.HeadingLevel != 1 || head.Text() != "CONTRATO" {
		t.Errorf("heading = %v", head)
	}
	body := mdl.Blocks[1].Paragraph
	if body == nil || !body.Runs[0].Style.Bold || body.Runs[1].Style.Bold {
		t.Errorf("body = %v", body)
	}
	tbl := mdl.Blocks[2].Table
	if tbl == nil || tbl.Columns() != 2 || tbl.Rows[0].Cells[1].Paragraphs[0].Text() != "b" {
		t.Errorf("table = %v", tbl)
	}
}

func TestHeadingLevel(t *testing.T) {
	tests := map[string]int{"Heading1": 1, "Heading6": 6, "Heading7": 0, "Title": 1, "Normal": 0, "": 0, "HeadingX": 0}
	for in, want := range tests {
		if got := headingLevel(in); got != want {
			t.Errorf("headingLevel(%q) = %d, want %d", in, got, want)
		}
	}
}
