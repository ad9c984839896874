package xlsx

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FormatKind is the display class of a cell number format.
type FormatKind int

const (
	KindGeneral FormatKind = iota
	KindPercent
	KindCurrency
	KindDate
	KindTime
)

func (k FormatKind) String() string {
	switch k {
	case KindPercent:
		return "percent"
	case KindCurrency:
		return "currency"
	case KindDate:
		return "date"
	case KindTime:
		return "time"
	}
	return "general"
}

// builtinFormats are the implicit number formats of SpreadsheetML (ids the
// workbook references without declaring them in numFmts).
var builtinFormats = map[uint32]string{
	0:  "General",
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	5:  `"$"#,##0_);("$"#,##0)`,
	6:  `"$"#,##0_);[Red]("$"#,##0)`,
	7:  `"$"#,##0.00_);("$"#,##0.00)`,
	8:  `"$"#,##0.00_);[Red]("$"#,##0.00)`,
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	12: "# ?/?",
	13: "# ??/??",
	14: "mm-dd-yy",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "h:mm",
	21: "h:mm:ss",
	22: "m/d/yy h:mm",
	37: "#,##0_);(#,##0)",
	38: "#,##0_);[Red](#,##0)",
	39: "#,##0.00_);(#,##0.00)",
	40: "#,##0.00_);[Red](#,##0.00)",
	44: `_("$"* #,##0.00_)_("$"* \(#,##0.00\)_("$"* "-"??_)_(@_)`,
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mmss.0",
	48: "##0.0E+0",
	49: "@",
}

// BuiltinFormat returns the code of a built-in number format id.
func BuiltinFormat(id uint32) (string, bool) {
	code, ok := builtinFormats[id]
	return code, ok
}

// Quoted literals, escapes, fill/pad characters and bracketed sections
// (except elapsed-time markers like [h]) carry no date semantics.
var formatNoiseRe = regexp.MustCompile(`"[^"]*"|\\.|_.|\*.|\[(?:[^\]hms][^\]]*|[hms][^hms\]][^\]]*)\]`)

// Classify inspects a number-format code and reports how its values
// should be displayed. Dates win over percent, percent over currency.
func Classify(code string) FormatKind {
	if code == "" {
		return KindGeneral
	}
	stripped := strings.ToLower(formatNoiseRe.ReplaceAllString(code, ""))
	if stripped != "general" {
		switch {
		case strings.ContainsAny(stripped, "dy"):
			return KindDate
		case strings.ContainsAny(stripped, "hs"):
			return KindTime
		case strings.Contains(stripped, "m"):
			return KindDate
		}
	}
	lower := strings.ToLower(code)
	if strings.Contains(lower, "%") {
		return KindPercent
	}
	if strings.Contains(lower, "r$") || strings.Contains(lower, "[$") {
		return KindCurrency
	}
	return KindGeneral
}

// FormatNumber renders a numeric cell value according to its number
// format code, using the Brazilian conventions for currency, percentages
// and dates.
func FormatNumber(v float64, code string, date1904 bool) string {
	switch Classify(code) {
	case KindDate:
		if t, ok := SerialToTime(v, date1904); ok {
			return FormatDateBR(t)
		}
	case KindTime:
		if t, ok := SerialToTime(v, date1904); ok {
			return t.Format("15:04:05")
		}
	case KindPercent:
		return FormatPercentBR(v)
	case KindCurrency:
		return FormatBRL(v)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatBRL renders v as Brazilian currency: R$ 1.234,56, with the minus
// sign ahead of the prefix.
func FormatBRL(v float64) string {
	s := strconv.FormatFloat(math.Abs(v), 'f', 2, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	sign := ""
	if v < 0 {
		sign = "-"
	}
	return sign + "R$ " + groupThousands(intPart, '.') + "," + frac
}

// FormatPercentBR renders a ratio as a percentage with two decimals and a
// comma separator: 0.1234 -> 12,34%.
func FormatPercentBR(v float64) string {
	return strings.Replace(strconv.FormatFloat(v*100, 'f', 2, 64), ".", ",", 1) + "%"
}

// FormatDateBR renders t as DD/MM/YYYY.
func FormatDateBR(t time.Time) string {
	return t.Format("02/01/2006")
}

func groupThousands(digits string, sep byte) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

var (
	epoch1900 = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	epoch1904 = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// SerialToTime converts a spreadsheet date serial to a time. Serials below
// 60 in the 1900 system are shifted one day to undo the phantom
// 29/02/1900.
func SerialToTime(serial float64, date1904 bool) (time.Time, bool) {
	if serial < 0 || math.IsNaN(serial) || math.IsInf(serial, 0) {
		return time.Time{}, false
	}
	base := epoch1900
	if date1904 {
		base = epoch1904
	} else if serial < 60 {
		serial++
	}
	ms := math.Round(serial * 86400 * 1000)
	return base.Add(time.Duration(ms) * time.Millisecond), true
}
