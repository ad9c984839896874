package docx

import (
	"strings"

	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/schema/soo/wml"
)

// paragraphs lists every paragraph of the document in substitution order:
// body paragraphs, body tables (nested tables included), then each header
// and each footer. A paragraph appears once even if reachable twice.
func paragraphs(doc *document.Document) []*wml.CT_P {
	w := &walker{seen: make(map[*wml.CT_P]bool)}
	if body := doc.X().Body; body != nil {
		w.blocks(body.EG_BlockLevelElts)
	}
	for _, h := range doc.Headers() {
		w.part(h.Paragraphs(), h.Tables())
	}
	for _, f := range doc.Footers() {
		w.part(f.Paragraphs(), f.Tables())
	}
	return w.out
}

type walker struct {
	seen map[*wml.CT_P]bool
	out  []*wml.CT_P
}

func (w *walker) add(p *wml.CT_P) {
	if p == nil || w.seen[p] {
		return
	}
	w.seen[p] = true
	w.out = append(w.out, p)
}

// blocks visits the paragraphs of a block list before its tables.
func (w *walker) blocks(elts []*wml.EG_BlockLevelElts) {
	var tables []*wml.CT_Tbl
	for _, bl := range elts {
		for _, c := range bl.EG_ContentBlockContent {
			for _, p := range c.P {
				w.add(p)
			}
			tables = append(tables, c.Tbl...)
		}
	}
	for _, t := range tables {
		w.table(t)
	}
}

func (w *walker) table(t *wml.CT_Tbl) {
	for _, rc := range t.EG_ContentRowContent {
		for _, row := range rc.Tr {
			for _, cc := range row.EG_ContentCellContent {
				for _, tc := range cc.Tc {
					w.blocks(tc.EG_BlockLevelElts)
				}
			}
		}
	}
}

func (w *walker) part(ps []document.Paragraph, ts []document.Table) {
	for _, p := range ps {
		w.add(p.X())
	}
	for _, t := range ts {
		w.table(t.X())
	}
}

// directRuns are the runs that are immediate children of the paragraph.
func directRuns(p *wml.CT_P) []*wml.CT_R {
	var runs []*wml.CT_R
	for _, pc := range p.EG_PContent {
		for _, rc := range pc.EG_ContentRunContent {
			if rc.R != nil {
				runs = append(runs, rc.R)
			}
		}
	}
	return runs
}

func runText(r *wml.CT_R) string {
	var b strings.Builder
	for _, ic := range r.EG_RunInnerContent {
		switch {
		case ic.T != nil:
			b.WriteString(ic.T.Content)
		case ic.Tab != nil:
			b.WriteByte('\t')
		case ic.Br != nil:
			if ic.Br.TypeAttr != wml.ST_BrTypePage {
				b.WriteByte('\n')
			}
		case ic.Cr != nil:
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// pageBreakRun reports whether r holds page breaks and nothing else. Such
// runs carry no text and survive a rewrite.
func pageBreakRun(r *wml.CT_R) bool {
	if len(r.EG_RunInnerContent) == 0 {
		return false
	}
	for _, ic := range r.EG_RunInnerContent {
		if ic.Br == nil || ic.Br.TypeAttr != wml.ST_BrTypePage {
			return false
		}
	}
	return true
}

// paragraphText concatenates the text of the paragraph's runs.
func paragraphText(p *wml.CT_P) string {
	var b strings.Builder
	for _, r := range directRuns(p) {
		b.WriteString(runText(r))
	}
	return b.String()
}

// setParagraphText replaces the paragraph's runs by a single run holding
// text. The new run takes the place and the properties of the first text
// run; page-break runs and other paragraph content such as bookmarks and
// hyperlinks are kept.
func setParagraphText(p *wml.CT_P, text string) {
	var rpr *wml.CT_RPr
	for _, r := range directRuns(p) {
		if !pageBreakRun(r) {
			rpr = r.RPr
			break
		}
	}
	run := newRun(rpr, text)

	placed := false
	for _, pc := range p.EG_PContent {
		kept := pc.EG_ContentRunContent[:0]
		for _, rc := range pc.EG_ContentRunContent {
			if rc.R == nil || pageBreakRun(rc.R) {
				kept = append(kept, rc)
				continue
			}
			if !placed {
				rc.R = run
				kept = append(kept, rc)
				placed = true
			}
		}
		pc.EG_ContentRunContent = kept
	}
	if !placed {
		pc := wml.NewEG_PContent()
		rc := wml.NewEG_ContentRunContent()
		rc.R = run
		pc.EG_ContentRunContent = append(pc.EG_ContentRunContent, rc)
		p.EG_PContent = append(p.EG_PContent, pc)
	}
}

// newRun builds a run for text, turning newlines into breaks and tabs into
// tab elements.
func newRun(rpr *wml.CT_RPr, text string) *wml.CT_R {
	r := wml.NewCT_R()
	r.RPr = rpr
	var seg strings.Builder
	flush := func() {
		if seg.Len() == 0 {
			return
		}
		ic := wml.NewEG_RunInnerContent()
		ic.T = wml.NewCT_Text()
		ic.T.Content = seg.String()
		if needsSpacePreserve(ic.T.Content) {
			preserve := "preserve"
			ic.T.SpaceAttr = &preserve
		}
		r.EG_RunInnerContent = append(r.EG_RunInnerContent, ic)
		seg.Reset()
	}
	for _, ch := range text {
		switch ch {
		case '\n':
			flush()
			ic := wml.NewEG_RunInnerContent()
			ic.Br = wml.NewCT_Br()
			r.EG_RunInnerContent = append(r.EG_RunInnerContent, ic)
		case '\t':
			flush()
			ic := wml.NewEG_RunInnerContent()
			ic.Tab = wml.NewCT_Empty()
			r.EG_RunInnerContent = append(r.EG_RunInnerContent, ic)
		case '\r':
		default:
			seg.WriteRune(ch)
		}
	}
	flush()
	return r
}

func needsSpacePreserve(s string) bool {
	return s != strings.TrimSpace(s) || strings.Contains(s, "  ")
}
