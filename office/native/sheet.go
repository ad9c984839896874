package native

import (
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/aerissecure/contractfill/office"
	"github.com/aerissecure/contractfill/xlsx"
)

const (
	sheetMarginPt = 28
	defaultFontPt = 11
	cellPaddingPt = 2
)

func hexRGB(hex string) (int, int, int, bool) {
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v>>16&0xFF), int(v>>8&0xFF), int(v&0xFF), true
}

func align(h string) string {
	switch h {
	case "center", "centerContinuous", "distributed":
		return "CM"
	case "right":
		return "RM"
	}
	return "LM"
}

// renderRange draws a print range scaled to one page wide; rows flow onto
// as many pages as needed.
func renderRange(m xlsx.RangeModel, o office.Orientation, out string) error {
	orient := "P"
	if o == office.Landscape {
		orient = "L"
	}
	pdf := fpdf.New(orient, "pt", "A4", "")
	pdf.SetCreator("contratorpa", true)
	pdf.SetMargins(sheetMarginPt, sheetMarginPt, sheetMarginPt)
	pdf.SetAutoPageBreak(false, sheetMarginPt)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetLineWidth(0.5)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	scale := 1.0
	if w := m.Width(); w > pageW-2*sheetMarginPt {
		scale = (pageW - 2*sheetMarginPt) / w
	}

	colX := make([]float64, len(m.ColWidths)+1)
	colX[0] = sheetMarginPt
	for i, w := range m.ColWidths {
		if m.ColHidden[i] {
			w = 0
		}
		colX[i+1] = colX[i] + w*scale
	}
	rowH := make([]float64, len(m.Rows))
	for i, r := range m.Rows {
		if !r.Hidden {
			rowH[i] = r.HeightPt * scale
		}
	}

	y := float64(sheetMarginPt)
	for ri, row := range m.Rows {
		if row.Hidden {
			continue
		}
		if y+rowH[ri] > pageH-sheetMarginPt && y > sheetMarginPt {
			pdf.AddPage()
			y = sheetMarginPt
		}
		for ci, c := range row.Cells {
			if c == nil || m.ColHidden[ci] {
				continue
			}
			x := colX[ci]
			w := colX[min(ci+c.ColSpan, len(m.ColWidths))] - x
			h := 0.0
			for k := ri; k < min(ri+c.RowSpan, len(m.Rows)); k++ {
				h += rowH[k]
			}
			drawCell(pdf, tr, c, x, y, w, h, scale)
		}
		y += rowH[ri]
	}
	return pdf.OutputFileAndClose(out)
}

func drawCell(pdf *fpdf.Fpdf, tr func(string) string, c *xlsx.RenderCell, x, y, w, h, scale float64) {
	if w <= 0 || h <= 0 {
		return
	}
	st := c.Style
	if r, g, b, ok := hexRGB(st.BackgroundColor); ok {
		pdf.SetFillColor(r, g, b)
		pdf.Rect(x, y, w, h, "F")
	}
	if st.Border {
		pdf.SetDrawColor(0, 0, 0)
		pdf.Rect(x, y, w, h, "D")
	}
	if c.Value == "" {
		return
	}
	style := ""
	if st.Bold {
		style += "B"
	}
	if st.Italic {
		style += "I"
	}
	size := st.FontSizePt
	if size <= 0 {
		size = defaultFontPt
	}
	pdf.SetFont(fontFamily, style, size*scale)
	if r, g, b, ok := hexRGB(st.FontColor); ok {
		pdf.SetTextColor(r, g, b)
	} else {
		pdf.SetTextColor(0, 0, 0)
	}
	pad := cellPaddingPt * scale
	pdf.SetXY(x+pad, y)
	if st.WrapText {
		pdf.MultiCell(w-2*pad, size*scale*1.15, tr(cleanText(c.Value)), "", align(st.HorizontalAlign)[:1], false)
		return
	}
	pdf.CellFormat(w-2*pad, h, tr(cleanText(c.Value)), "", 0, align(st.HorizontalAlign), false, 0, "")
}
