package xlsx

import (
	"strings"

	"github.com/unidoc/unioffice/schema/soo/dml"
	"github.com/unidoc/unioffice/schema/soo/sml"
	"github.com/unidoc/unioffice/spreadsheet"
)

func cellXf(ss spreadsheet.StyleSheet, styleID uint32) *sml.CT_Xf {
	x := ss.X()
	if x == nil || x.CellXfs == nil || int(styleID) >= len(x.CellXfs.Xf) {
		return nil
	}
	return x.CellXfs.Xf[styleID]
}

// numberFormatCode resolves the number format code of a cell style, looking
// at the workbook's custom formats before the built-in table.
func numberFormatCode(ss spreadsheet.StyleSheet, styleID uint32) string {
	xf := cellXf(ss, styleID)
	if xf == nil || xf.NumFmtIdAttr == nil {
		return ""
	}
	id := *xf.NumFmtIdAttr
	if nf := ss.X().NumFmts; nf != nil {
		for _, f := range nf.NumFmt {
			if f.NumFmtIdAttr == id {
				return f.FormatCodeAttr
			}
		}
	}
	code, _ := BuiltinFormat(id)
	return code
}

func fontProps(ss spreadsheet.StyleSheet, styleID uint32) *sml.CT_Font {
	xf := cellXf(ss, styleID)
	if xf == nil || xf.FontIdAttr == nil || ss.X().Fonts == nil {
		return nil
	}
	idx := int(*xf.FontIdAttr)
	if idx >= len(ss.X().Fonts.Font) {
		return nil
	}
	return ss.X().Fonts.Font[idx]
}

func fillProps(ss spreadsheet.StyleSheet, styleID uint32) *sml.CT_Fill {
	xf := cellXf(ss, styleID)
	if xf == nil || xf.FillIdAttr == nil || ss.X().Fills == nil {
		return nil
	}
	idx := int(*xf.FillIdAttr)
	if idx >= len(ss.X().Fills.Fill) {
		return nil
	}
	return ss.X().Fills.Fill[idx]
}

func borderProps(ss spreadsheet.StyleSheet, styleID uint32) *sml.CT_Border {
	xf := cellXf(ss, styleID)
	if xf == nil || xf.BorderIdAttr == nil || ss.X().Borders == nil {
		return nil
	}
	idx := int(*xf.BorderIdAttr)
	if idx >= len(ss.X().Borders.Border) {
		return nil
	}
	return ss.X().Borders.Border[idx]
}

func hasEdge(p *sml.CT_BorderPr) bool {
	return p != nil && p.StyleAttr != sml.ST_BorderStyleUnset && p.StyleAttr != sml.ST_BorderStyleNone
}

// themeColorToRGB resolves a theme color index to an RGB hex string
// ("FFFFFF"). Tint is not applied.
func themeColorToRGB(wb *spreadsheet.Workbook, themeIdx uint32) (string, bool) {
	themes := wb.Themes()
	if len(themes) == 0 || themes[0] == nil || themes[0].ThemeElements == nil || themes[0].ThemeElements.ClrScheme == nil {
		return "", false
	}
	scheme := themes[0].ThemeElements.ClrScheme

	var clr *dml.CT_Color
	switch themeIdx {
	case 0:
		clr = scheme.Dk1
	case 1:
		clr = scheme.Lt1
	case 2:
		clr = scheme.Dk2
	case 3:
		clr = scheme.Lt2
	case 4:
		clr = scheme.Accent1
	case 5:
		clr = scheme.Accent2
	case 6:
		clr = scheme.Accent3
	case 7:
		clr = scheme.Accent4
	case 8:
		clr = scheme.Accent5
	case 9:
		clr = scheme.Accent6
	case 10:
		clr = scheme.Hlink
	case 11:
		clr = scheme.FolHlink
	default:
		return "", false
	}
	if clr == nil {
		return "", false
	}
	if clr.SrgbClr != nil && clr.SrgbClr.ValAttr != "" {
		return clr.SrgbClr.ValAttr, true
	}
	if clr.SysClr != nil && clr.SysClr.LastClrAttr != nil {
		return *clr.SysClr.LastClrAttr, true
	}
	return "", false
}

// normalizeColor converts an 8-digit ARGB hex to 6-digit RGB.
func normalizeColor(hex string) string {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 8 {
		return hex[2:]
	}
	return hex
}

func (r *Reader) cellStyle(styleID uint32) CellStyle {
	ss := r.wb.StyleSheet
	var st CellStyle
	if font := fontProps(ss, styleID); font != nil {
		if len(font.Name) > 0 {
			st.FontFamily = font.Name[0].ValAttr
		}
		if len(font.Sz) > 0 {
			st.FontSizePt = font.Sz[0].ValAttr
		}
		if len(font.Color) > 0 && font.Color[0].RgbAttr != nil {
			st.FontColor = normalizeColor(*font.Color[0].RgbAttr)
		}
		if len(font.B) > 0 {
			st.Bold = font.B[0].ValAttr == nil || *font.B[0].ValAttr
		}
		if len(font.I) > 0 {
			st.Italic = font.I[0].ValAttr == nil || *font.I[0].ValAttr
		}
	}
	if fill := fillProps(ss, styleID); fill != nil && fill.PatternFill != nil && fill.PatternFill.FgColor != nil {
		fg := fill.PatternFill.FgColor
		if fg.RgbAttr != nil {
			st.BackgroundColor = normalizeColor(*fg.RgbAttr)
		} else if fg.ThemeAttr != nil {
			if hex, ok := themeColorToRGB(r.wb, *fg.ThemeAttr); ok {
				st.BackgroundColor = hex
			}
		}
	}
	if b := borderProps(ss, styleID); b != nil {
		st.Border = hasEdge(b.Left) || hasEdge(b.Right) || hasEdge(b.Top) || hasEdge(b.Bottom)
	}
	if xf := cellXf(ss, styleID); xf != nil && xf.Alignment != nil {
		st.HorizontalAlign = xf.Alignment.HorizontalAttr.String()
		switch xf.Alignment.VerticalAttr.String() {
		case "top":
			st.VerticalAlign = "top"
		case "center":
			st.VerticalAlign = "middle"
		default:
			st.VerticalAlign = "bottom"
		}
		if xf.Alignment.WrapTextAttr != nil {
			st.WrapText = *xf.Alignment.WrapTextAttr
		}
	}
	return st
}
