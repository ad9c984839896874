package xlsx

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/unidoc/unioffice/schema/soo/sml"
	"github.com/unidoc/unioffice/spreadsheet"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"

	"github.com/aerissecure/contractfill/mapping"
)

const testSheet = "CADASTRO DAS OBRAS"

// buildWorkbook writes an excelize-built workbook to a temp dir.
func buildWorkbook(t *testing.T, fill func(f *excelize.File)) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", testSheet); err != nil {
		t.Fatal(err)
	}
	fill(f)
	path := filepath.Join(t.TempDir(), "obra.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func mustStyle(t *testing.T, f *excelize.File, s *excelize.Style) int {
	t.Helper()
	id, err := f.NewStyle(s)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func setStyled(t *testing.T, f *excelize.File, cell string, v any, style int) {
	t.Helper()
	if err := f.SetCellValue(testSheet, cell, v); err != nil {
		t.Fatal(err)
	}
	if style != 0 {
		if err := f.SetCellStyle(testSheet, cell, cell, style); err != nil {
			t.Fatal(err)
		}
	}
}

func openTest(t *testing.T, path string) *Reader {
	t.Helper()
	r, err := Open(path, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestReadRendersBrazilianFormats(t *testing.T) {
	brl := `"R$" #,##0.00`
	ddmm := "dd/mm/yyyy"
	path := buildWorkbook(t, func(f *excelize.File) {
		currency := mustStyle(t, f, &excelize.Style{CustomNumFmt: &brl})
		date := mustStyle(t, f, &excelize.Style{CustomNumFmt: &ddmm})
		builtinDate := mustStyle(t, f, &excelize.Style{NumFmt: 14})
		percent := mustStyle(t, f, &excelize.Style{NumFmt: 10})
		clock := mustStyle(t, f, &excelize.Style{NumFmt: 21})

		setStyled(t, f, "B2", "ACME Engenharia Ltda", 0)
		setStyled(t, f, "B3", 1234.5, currency)
		setStyled(t, f, "B4", -5, currency)
		setStyled(t, f, "B5", 45366, date)
		setStyled(t, f, "B6", 45366.75, builtinDate)
		setStyled(t, f, "B7", 0.1234, percent)
		setStyled(t, f, "B8", 1500.5, 0)
		setStyled(t, f, "B9", 0.75, clock)
		setStyled(t, f, "B10", true, 0)
		setStyled(t, f, "B11", 42, 0)
	})
	r := openTest(t, path)

	tests := []struct {
		cell string
		want string
	}{
		{"B2", "ACME Engenharia Ltda"},
		{"B3", "R$ 1.234,50"},
		{"B4", "-R$ 5,00"},
		{"B5", "15/03/2024"},
		{"B6", "15/03/2024"},
		{"B7", "12,34%"},
		{"B8", "1500.5"},
		{"B9", "18:00:00"},
		{"B10", "TRUE"},
		{"B11", "42"},
	}
	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			res := r.Read(testSheet, tt.cell)
			if res.Status != StatusFound {
				t.Fatalf("status = %v (%v), want found", res.Status, res.Err)
			}
			if res.Value != tt.want {
				t.Errorf("value = %q, want %q", res.Value, tt.want)
			}
		})
	}
}

func TestReadOutcomes(t *testing.T) {
	path := buildWorkbook(t, func(f *excelize.File) {
		setStyled(t, f, "A1", "x", 0)
		setStyled(t, f, "A2", "", 0)
	})
	r := openTest(t, path)

	tests := []struct {
		name   string
		sheet  string
		cell   string
		status Status
		err    error
	}{
		{"found", testSheet, "A1", StatusFound, nil},
		{"lowercase address", testSheet, "a1", StatusFound, nil},
		{"empty string cell", testSheet, "A2", StatusBlank, nil},
		{"absent cell", testSheet, "Z99", StatusBlank, nil},
		{"missing sheet", "QUALIFICACAO", "A1", StatusSheetNotFound, ErrSheetNotFound},
		{"bad address", testSheet, "1A", StatusInvalidCell, ErrInvalidCell},
		{"empty address", testSheet, "", StatusInvalidCell, ErrInvalidCell},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Read(tt.sheet, tt.cell)
			if res.Status != tt.status {
				t.Fatalf("status = %v, want %v", res.Status, tt.status)
			}
			if tt.err != nil && !errors.Is(res.Err, tt.err) {
				t.Errorf("err = %v, want %v", res.Err, tt.err)
			}
			if tt.status != StatusFound && res.Value != "" {
				t.Errorf("value = %q, want empty", res.Value)
			}
		})
	}
}

func TestReadDate1904(t *testing.T) {
	ddmm := "dd/mm/yyyy"
	path := buildWorkbook(t, func(f *excelize.File) {
		on := true
		if err := f.SetWorkbookProps(&excelize.WorkbookPropsOptions{Date1904: &on}); err != nil {
			t.Fatal(err)
		}
		date := mustStyle(t, f, &excelize.Style{CustomNumFmt: &ddmm})
		setStyled(t, f, "C1", 43904, date)
	})
	r := openTest(t, path)
	if got := r.Read(testSheet, "C1").Value; got != "15/03/2024" {
		t.Errorf("value = %q, want 15/03/2024", got)
	}
}

func TestReadAllFollowsMappingOrder(t *testing.T) {
	path := buildWorkbook(t, func(f *excelize.File) {
		setStyled(t, f, "A1", "Contratante SA", 0)
		setStyled(t, f, "A3", "São Paulo", 0)
	})
	r := openTest(t, path)
	m := mapping.MustNew(
		mapping.Entry{Marker: "contratante", Sheet: testSheet, Cell: "A1"},
		mapping.Entry{Marker: "vazio", Sheet: testSheet, Cell: "A2"},
		mapping.Entry{Marker: "cidade", Sheet: testSheet, Cell: "A3"},
		mapping.Entry{Marker: "fora", Sheet: "CRONOGRAMA", Cell: "A1"},
	)

	values, results := r.ReadAll(m)
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	wantStatus := []Status{StatusFound, StatusBlank, StatusFound, StatusSheetNotFound}
	for i, res := range results {
		if res.Status != wantStatus[i] {
			t.Errorf("result %d status = %v, want %v", i, res.Status, wantStatus[i])
		}
	}
	if values["contratante"] != "Contratante SA" || values["cidade"] != "São Paulo" {
		t.Errorf("unexpected values: %v", values)
	}
	if v, ok := values["fora"]; !ok || v != "" {
		t.Errorf("missing sheet should map to empty value, got %q, %t", v, ok)
	}
}

func TestParseRange(t *testing.T) {
	brl := `"R$" #,##0.00`
	path := buildWorkbook(t, func(f *excelize.File) {
		currency := mustStyle(t, f, &excelize.Style{CustomNumFmt: &brl})
		bold := mustStyle(t, f, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
		setStyled(t, f, "B2", "QUADRO DE CONCORRÊNCIA", bold)
		if err := f.MergeCell(testSheet, "B2", "D2"); err != nil {
			t.Fatal(err)
		}
		setStyled(t, f, "B3", "Total", 0)
		setStyled(t, f, "C3", 1000, currency)
		if err := f.SetRowHeight(testSheet, 3, 30); err != nil {
			t.Fatal(err)
		}
		if err := f.SetRowVisible(testSheet, 4, false); err != nil {
			t.Fatal(err)
		}
		setStyled(t, f, "E5", "outside", 0)
	})
	r := openTest(t, path)

	m, err := r.ParseRange(testSheet, "b2:d4")
	if err != nil {
		t.Fatalf("ParseRange: %v", err)
	}
	if m.Ref != "B2:D4" {
		t.Errorf("ref = %q", m.Ref)
	}
	if len(m.ColWidths) != 3 || len(m.Rows) != 3 {
		t.Fatalf("got %d cols x %d rows, want 3x3", len(m.ColWidths), len(m.Rows))
	}

	title := m.Rows[0].Cells[0]
	if title == nil || title.Value != "QUADRO DE CONCORRÊNCIA" || title.ColSpan != 3 {
		t.Fatalf("title cell = %v", title)
	}
	if !title.Style.Bold || title.Style.FontSizePt != 14 {
		t.Errorf("title style = %v", title.Style)
	}
	if m.Rows[0].Cells[1] != nil || m.Rows[0].Cells[2] != nil {
		t.Error("cells covered by the merge should be nil")
	}
	if got := m.Rows[1].Cells[1]; got == nil || got.Value != "R$ 1.000,00" {
		t.Errorf("currency cell = %v", got)
	}
	if m.Rows[1].HeightPt != 30 {
		t.Errorf("row 3 height = %v, want 30", m.Rows[1].HeightPt)
	}
	if !m.Rows[2].Hidden {
		t.Error("row 4 should be hidden")
	}
	if m.Height() != defaultRowHeightPt+30 {
		t.Errorf("height = %v", m.Height())
	}
}

func TestParseRangeErrors(t *testing.T) {
	path := buildWorkbook(t, func(f *excelize.File) {})
	r := openTest(t, path)
	if _, err := r.ParseRange("NOPE", "A1:B2"); !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("err = %v, want ErrSheetNotFound", err)
	}
	if _, err := r.ParseRange(testSheet, "not a range"); err == nil {
		t.Error("expected error for malformed range")
	}
}

// buildRawWorkbook writes a unioffice-built workbook, for cells excelize
// will not produce.
func buildRawWorkbook(t *testing.T, fill func(s spreadsheet.Sheet)) string {
	t.Helper()
	wb := spreadsheet.New()
	s := wb.AddSheet()
	s.SetName(testSheet)
	fill(s)
	path := filepath.Join(t.TempDir(), "bruto.xlsx")
	if err := wb.SaveToFile(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func setRaw(s spreadsheet.Sheet, ref string, typ sml.ST_CellType, v string) {
	c := s.Cell(ref)
	c.X().TAttr = typ
	c.X().V = &v
}

func TestReadSharedStringsFromExcelize(t *testing.T) {
	path := buildWorkbook(t, func(f *excelize.File) {
		setStyled(t, f, "B2", "ACME Engenharia", 0)
		setStyled(t, f, "B3", "Construtora Beta", 0)
	})
	r := openTest(t, path)
	for cell, want := range map[string]string{"B2": "ACME Engenharia", "B3": "Construtora Beta"} {
		res := r.Read(testSheet, cell)
		if res.Status != StatusFound || res.Value != want {
			t.Errorf("%s = %+v, want %q found", cell, res, want)
		}
	}
}

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		base, target, want string
	}{
		{"xl", "/xl/sharedStrings.xml", "xl/sharedStrings.xml"},
		{"xl", "sharedStrings.xml", "xl/sharedStrings.xml"},
		{"xl", "../customXml/item1.xml", "customXml/item1.xml"},
		{".", "xl/workbook.xml", "xl/workbook.xml"},
	}
	for _, tt := range tests {
		if got := resolveTarget(tt.base, tt.target); got != tt.want {
			t.Errorf("resolveTarget(%q, %q) = %q, want %q", tt.base, tt.target, got, tt.want)
		}
	}
}

func TestReadUnresolvedSharedStringIsError(t *testing.T) {
	path := buildRawWorkbook(t, func(s spreadsheet.Sheet) {
		setRaw(s, "A1", sml.ST_CellTypeS, "42")
		setRaw(s, "A2", sml.ST_CellTypeS, "x")
	})
	r := openTest(t, path)
	for _, cell := range []string{"A1", "A2"} {
		res := r.Read(testSheet, cell)
		if res.Status != StatusError || !errors.Is(res.Err, ErrCellValue) {
			t.Errorf("%s = %+v, want read error", cell, res)
		}
		if res.Value != "" {
			t.Errorf("%s value = %q, want empty", cell, res.Value)
		}
	}
}

func TestReadISODateCells(t *testing.T) {
	path := buildRawWorkbook(t, func(s spreadsheet.Sheet) {
		setRaw(s, "A1", sml.ST_CellTypeD, "2024-03-15T10:30:00Z")
		setRaw(s, "A2", sml.ST_CellTypeD, "2024-12-01")
		setRaw(s, "A3", sml.ST_CellTypeD, "amanhã")
	})
	r := openTest(t, path)
	if got := r.Read(testSheet, "A1").Value; got != "15/03/2024" {
		t.Errorf("A1 = %q, want 15/03/2024", got)
	}
	if got := r.Read(testSheet, "A2").Value; got != "01/12/2024" {
		t.Errorf("A2 = %q, want 01/12/2024", got)
	}
	if res := r.Read(testSheet, "A3"); res.Status != StatusError {
		t.Errorf("A3 = %+v, want read error", res)
	}
}

func TestCloseRemovesScratchFiles(t *testing.T) {
	path := buildWorkbook(t, func(f *excelize.File) {
		setStyled(t, f, "A1", "x", 0)
	})
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	for i := 0; i < 3; i++ {
		r, err := Open(path, nil)
		if err != nil {
			t.Fatal(err)
		}
		if err := r.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
		if err := r.Close(); err != nil {
			t.Fatalf("second Close: %v", err)
		}
	}
	left, err := filepath.Glob(filepath.Join(tmp, "gooxml-xlsx*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 0 {
		t.Errorf("scratch dirs left behind: %q", left)
	}
}
