package xlsx

import (
	"fmt"
	"strings"

	"github.com/unidoc/unioffice/spreadsheet/reference"
)

const (
	defaultColWidthChars = 8.43
	defaultRowHeightPt   = 15.0
)

// colWidthPt converts a column width in characters of the default font to
// points (7px per character plus 5px padding, at 96 dpi).
func colWidthPt(chars float64) float64 {
	return (chars*7 + 5) * 0.75
}

// ParseRange builds the intermediate representation of sheet!ref. Cells
// covered by a merge are nil; the merge's top-left cell carries the spans,
// clipped to the range.
func (r *Reader) ParseRange(sheet, ref string) (RangeModel, error) {
	si, ok := r.index(sheet)
	if !ok {
		return RangeModel{}, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}
	from, to, err := reference.ParseRangeReference(strings.ToUpper(strings.TrimSpace(ref)))
	if err != nil {
		return RangeModel{}, fmt.Errorf("parse range %q: %w", ref, err)
	}
	if from.RowIdx == 0 || to.RowIdx < from.RowIdx || to.ColumnIdx < from.ColumnIdx {
		return RangeModel{}, fmt.Errorf("parse range %q: empty or inverted range", ref)
	}
	firstCol, lastCol := from.ColumnIdx, to.ColumnIdx
	firstRow, lastRow := from.RowIdx, to.RowIdx
	nCols := int(lastCol - firstCol + 1)

	m := RangeModel{
		Sheet: sheet,
		Ref: fmt.Sprintf("%s%d:%s%d",
			reference.IndexToColumn(firstCol), firstRow,
			reference.IndexToColumn(lastCol), lastRow),
		ColWidths: make([]float64, nCols),
		ColHidden: make([]bool, nCols),
	}

	// Column metadata
	for i := 0; i < nCols; i++ {
		m.ColWidths[i] = colWidthPt(defaultColWidthChars)
		col := si.sheet.Column(firstCol + uint32(i) + 1)
		if x := col.X(); x != nil {
			if x.WidthAttr != nil && (x.CustomWidthAttr == nil || *x.CustomWidthAttr) {
				m.ColWidths[i] = colWidthPt(*x.WidthAttr)
			}
			if x.HiddenAttr != nil {
				m.ColHidden[i] = *x.HiddenAttr
			}
		}
	}

	type span struct{ rows, cols int }
	masters := make(map[cellKey]span)
	covered := make(map[cellKey]bool)
	if mc := si.sheet.X().MergeCells; mc != nil {
		for _, c := range mc.MergeCell {
			mf, mt, err := reference.ParseRangeReference(c.RefAttr)
			if err != nil {
				continue
			}
			rf, rt := max(mf.RowIdx, firstRow), min(mt.RowIdx, lastRow)
			cf, ct := max(mf.ColumnIdx, firstCol), min(mt.ColumnIdx, lastCol)
			if rf > rt || cf > ct {
				continue
			}
			masters[cellKey{cf, rf}] = span{int(rt - rf + 1), int(ct - cf + 1)}
			for row := rf; row <= rt; row++ {
				for col := cf; col <= ct; col++ {
					if row != rf || col != cf {
						covered[cellKey{col, row}] = true
					}
				}
			}
		}
	}

	rowMeta := make(map[uint32]RenderRow)
	for _, row := range si.sheet.Rows() {
		n := row.RowNumber()
		if n < firstRow || n > lastRow {
			continue
		}
		rr := RenderRow{Number: n, HeightPt: defaultRowHeightPt, Hidden: row.IsHidden()}
		if x := row.X(); x.HtAttr != nil && (x.CustomHeightAttr == nil || *x.CustomHeightAttr) {
			rr.HeightPt = *x.HtAttr
		}
		rowMeta[n] = rr
	}

	for n := firstRow; n <= lastRow; n++ {
		rr, ok := rowMeta[n]
		if !ok {
			rr = RenderRow{Number: n, HeightPt: defaultRowHeightPt}
		}
		rr.Cells = make([]*RenderCell, nCols)
		for i := 0; i < nCols; i++ {
			key := cellKey{firstCol + uint32(i), n}
			if covered[key] {
				continue
			}
			sp, isMaster := masters[key]
			c, ok := si.cells[key]
			if !ok && !isMaster {
				continue
			}
			rc := &RenderCell{
				Ref:     fmt.Sprintf("%s%d", reference.IndexToColumn(key.col), n),
				ColSpan: 1,
				RowSpan: 1,
			}
			if ok {
				rc.Value = r.display(c)
				if c.X().SAttr != nil {
					rc.Style = r.cellStyle(*c.X().SAttr)
				}
			}
			if isMaster {
				rc.RowSpan, rc.ColSpan = sp.rows, sp.cols
			}
			rr.Cells[i] = rc
		}
		m.Rows = append(m.Rows, rr)
	}
	return m, nil
}
