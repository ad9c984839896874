package xlsx

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/unidoc/unioffice/schema/soo/sml"
	"github.com/unidoc/unioffice/spreadsheet"
	"github.com/unidoc/unioffice/spreadsheet/reference"
	"go.uber.org/zap"

	"github.com/aerissecure/contractfill/mapping"
)

// Status is the outcome of a single cell read.
type Status int

const (
	StatusFound Status = iota
	StatusBlank
	StatusSheetNotFound
	StatusInvalidCell
	StatusError // the cell exists but its value cannot be decoded
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusBlank:
		return "blank"
	case StatusSheetNotFound:
		return "sheet not found"
	case StatusInvalidCell:
		return "invalid cell"
	case StatusError:
		return "read error"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

var (
	ErrSheetNotFound = errors.New("sheet not found")
	ErrInvalidCell   = errors.New("invalid cell address")
	ErrCellValue     = errors.New("unreadable cell value")
)

// Result is the outcome of reading one cell. Value is empty unless Status
// is StatusFound.
type Result struct {
	Sheet  string
	Cell   string
	Value  string
	Status Status
	Err    error
}

func (r Result) OK() bool { return r.Status == StatusFound }

// Values maps markers to their rendered cell values.
type Values map[string]string

type cellKey struct {
	col uint32 // 0-based
	row uint32 // 1-based
}

type sheetIndex struct {
	sheet spreadsheet.Sheet
	cells map[cellKey]spreadsheet.Cell
}

// Reader reads cached cell values from a workbook. Formulas are never
// evaluated.
type Reader struct {
	wb       *spreadsheet.Workbook
	date1904 bool
	sheets   map[string]*sheetIndex
	logger   *zap.Logger
}

// Open loads the workbook at path.
func Open(path string, logger *zap.Logger) (*Reader, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	wb, err := spreadsheet.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	r := &Reader{
		wb:     wb,
		sheets: make(map[string]*sheetIndex),
		logger: logger,
	}
	if pr := wb.X().WorkbookPr; pr != nil && pr.Date1904Attr != nil {
		r.date1904 = *pr.Date1904Attr
	}
	if sst := wb.SharedStrings.X(); sst != nil && len(sst.Si) == 0 {
		loaded, err := loadSharedStrings(path)
		switch {
		case err != nil:
			// Text cells will report StatusError.
			logger.Warn("shared strings unreadable", zap.String("workbook", path), zap.Error(err))
		case loaded != nil:
			sst.Si = loaded.Si
		}
	}
	for _, s := range wb.Sheets() {
		r.sheets[s.Name()] = &sheetIndex{sheet: s}
	}
	return r, nil
}

// Close releases the workbook and the scratch files unioffice extracted
// it to.
func (r *Reader) Close() error {
	if r.wb == nil {
		return nil
	}
	err := r.wb.Close()
	r.wb = nil
	r.sheets = nil
	return err
}

// SheetNames lists the workbook's sheets in workbook order.
func (r *Reader) SheetNames() []string {
	var names []string
	for _, s := range r.wb.Sheets() {
		names = append(names, s.Name())
	}
	return names
}

func (r *Reader) index(name string) (*sheetIndex, bool) {
	si, ok := r.sheets[name]
	if !ok {
		return nil, false
	}
	if si.cells == nil {
		si.cells = make(map[cellKey]spreadsheet.Cell)
		for _, row := range si.sheet.Rows() {
			for _, c := range row.Cells() {
				col, err := c.Column()
				if err != nil {
					continue
				}
				si.cells[cellKey{reference.ColumnToIndex(col), row.RowNumber()}] = c
			}
		}
	}
	return si, true
}

func parseCell(addr string) (cellKey, string, error) {
	cr, err := reference.ParseCellReference(strings.ToUpper(strings.TrimSpace(addr)))
	if err != nil || cr.RowIdx == 0 {
		return cellKey{}, "", fmt.Errorf("%w: %q", ErrInvalidCell, addr)
	}
	return cellKey{cr.ColumnIdx, cr.RowIdx}, fmt.Sprintf("%s%d", reference.IndexToColumn(cr.ColumnIdx), cr.RowIdx), nil
}

// Read returns the rendered value of sheet!cell.
func (r *Reader) Read(sheet, cell string) Result {
	res := Result{Sheet: sheet, Cell: cell}
	si, ok := r.index(sheet)
	if !ok {
		res.Status = StatusSheetNotFound
		res.Err = fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
		return res
	}
	key, ref, err := parseCell(cell)
	if err != nil {
		res.Status = StatusInvalidCell
		res.Err = err
		return res
	}
	res.Cell = ref
	c, ok := si.cells[key]
	if !ok {
		res.Status = StatusBlank
		return res
	}
	v, err := r.render(c)
	if err != nil {
		res.Status = StatusError
		res.Err = fmt.Errorf("%s!%s: %w", sheet, ref, err)
		return res
	}
	if v == "" {
		res.Status = StatusBlank
		return res
	}
	res.Value = v
	res.Status = StatusFound
	return res
}

func (r *Reader) formatCode(c spreadsheet.Cell) string {
	if c.X().SAttr == nil {
		return ""
	}
	return numberFormatCode(r.wb.StyleSheet, *c.X().SAttr)
}

// render applies the Brazilian display rules to a cell's cached value.
// An empty result means the cell holds nothing.
func (r *Reader) render(c spreadsheet.Cell) (string, error) {
	x := c.X()
	if x.V == nil && x.Is == nil {
		return "", nil
	}
	switch {
	case c.IsBool():
		if strings.TrimSpace(c.GetString()) == "1" {
			return "TRUE", nil
		}
		return "FALSE", nil
	case x.TAttr == sml.ST_CellTypeS:
		if x.V == nil {
			return "", nil
		}
		return r.sharedString(*x.V)
	case x.TAttr == sml.ST_CellTypeD:
		if x.V == nil {
			return "", nil
		}
		return r.isoDate(*x.V, r.formatCode(c))
	case !c.IsNumber():
		return c.GetString(), nil
	}
	v, err := c.GetValueAsNumber()
	if err != nil {
		return c.GetString(), nil
	}
	return FormatNumber(v, r.formatCode(c), r.date1904), nil
}

func (r *Reader) sharedString(v string) (string, error) {
	id, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return "", fmt.Errorf("%w: shared string index %q", ErrCellValue, v)
	}
	s, err := r.wb.SharedStrings.GetString(id)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCellValue, err)
	}
	return s, nil
}

// Layouts accepted for ISO 8601 date cells (t="d").
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
	"15:04:05.999999999",
}

func (r *Reader) isoDate(v, code string) (string, error) {
	raw := strings.TrimSpace(v)
	for _, layout := range isoLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		if Classify(code) == KindTime {
			return t.Format("15:04:05"), nil
		}
		return FormatDateBR(t), nil
	}
	return "", fmt.Errorf("%w: date %q", ErrCellValue, raw)
}

// display is the text a cell shows when printed: Brazilian rendering for
// dates, percentages and currency, the workbook's own formatting otherwise.
func (r *Reader) display(c spreadsheet.Cell) string {
	if c.IsNumber() {
		switch Classify(r.formatCode(c)) {
		case KindDate, KindTime, KindPercent, KindCurrency:
			v, _ := r.render(c)
			return v
		}
		return c.GetFormattedValue()
	}
	v, _ := r.render(c)
	return v
}

// ReadAll reads every mapping entry in stored order. Outcomes other than
// StatusFound are logged and leave the marker empty in the returned values.
func (r *Reader) ReadAll(m mapping.Mapping) (Values, []Result) {
	entries := m.Entries()
	values := make(Values, len(entries))
	results := make([]Result, 0, len(entries))
	for _, e := range entries {
		res := r.Read(e.Sheet, e.Cell)
		results = append(results, res)
		values[e.Marker] = res.Value
		switch res.Status {
		case StatusFound:
			r.logger.Debug("cell read",
				zap.String("marker", e.Marker),
				zap.String("source", e.Source()),
				zap.String("value", res.Value))
		case StatusBlank:
			r.logger.Warn("cell is blank",
				zap.String("marker", e.Marker),
				zap.String("source", e.Source()))
		default:
			r.logger.Warn("cell could not be read",
				zap.String("marker", e.Marker),
				zap.String("source", e.Source()),
				zap.Stringer("status", res.Status),
				zap.Error(res.Err))
		}
	}
	return values, results
}
