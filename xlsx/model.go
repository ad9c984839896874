package xlsx

import "fmt"

// Intermediate representation of a print range, consumed by renderers
// that draw a sheet region without an office suite.

// CellStyle captures the subset of cell styling the renderers honor.
type CellStyle struct {
	FontFamily      string  // e.g. "Calibri"
	FontSizePt      float64 // original size in points
	FontColor       string  // "RRGGBB"
	BackgroundColor string  // "RRGGBB"
	Bold            bool
	Italic          bool
	Border          bool   // any edge drawn
	HorizontalAlign string // left|center|right|justify
	VerticalAlign   string // top|middle|bottom
	WrapText        bool
}

func (s CellStyle) String() string {
	return fmt.Sprintf("FontFamily: %s, FontSizePt: %g, Bold: %t, Border: %t, HorizontalAlign: %s", s.FontFamily, s.FontSizePt, s.Bold, s.Border, s.HorizontalAlign)
}

// RenderCell is a single cell, or the master of a merged block.
type RenderCell struct {
	Ref     string // e.g. "A1"
	Value   string // already formatted
	ColSpan int    // 1 if not merged
	RowSpan int    // 1 if not merged
	Style   CellStyle
}

func (c RenderCell) String() string {
	return fmt.Sprintf("Ref: %s, Value: %q, ColSpan: %d, RowSpan: %d", c.Ref, c.Value, c.ColSpan, c.RowSpan)
}

// RenderRow is one row of the range.
type RenderRow struct {
	Number   uint32  // 1-based sheet row number
	HeightPt float64
	Hidden   bool
	Cells    []*RenderCell // len == len(RangeModel.ColWidths); nil for blank or covered cells
}

// RangeModel is a rectangular region of a sheet.
type RangeModel struct {
	Sheet     string
	Ref       string    // normalized, e.g. "A1:K134"
	ColWidths []float64 // points
	ColHidden []bool
	Rows      []RenderRow
}

func (m RangeModel) String() string {
	return fmt.Sprintf("Sheet: %s, Ref: %s, Cols: %d, Rows: %d", m.Sheet, m.Ref, len(m.ColWidths), len(m.Rows))
}

// Width is the printed width in points, skipping hidden columns.
func (m RangeModel) Width() float64 {
	var w float64
	for i, cw := range m.ColWidths {
		if !m.ColHidden[i] {
			w += cw
		}
	}
	return w
}

// Height is the printed height in points, skipping hidden rows.
func (m RangeModel) Height() float64 {
	var h float64
	for _, r := range m.Rows {
		if !r.Hidden {
			h += r.HeightPt
		}
	}
	return h
}
