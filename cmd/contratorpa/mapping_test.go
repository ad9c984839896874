package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/aerissecure/contractfill/mapping"
	"github.com/aerissecure/contractfill/xlsx"
)

func TestListMapping(t *testing.T) {
	var buf bytes.Buffer
	if err := listMapping(&buf, mapping.Default()); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != mapping.Default().Len()+1 {
		t.Fatalf("got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "RAZÃO SOCIAL SPE") || !strings.HasSuffix(lines[1], "O27") {
		t.Errorf("first entry = %q", lines[1])
	}
}

func TestCheckResultsCountsBlankCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obra.xlsx")
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", "CADASTRO DAS OBRAS"); err != nil {
		t.Fatal(err)
	}
	f.SetCellValue("CADASTRO DAS OBRAS", "O27", "SPE Alfa Ltda")
	f.SetCellValue("CADASTRO DAS OBRAS", "O28", "   ")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	m := mapping.MustNew(
		mapping.Entry{Marker: "RAZÃO SOCIAL SPE", Sheet: "CADASTRO DAS OBRAS", Cell: "O27"},
		mapping.Entry{Marker: "nome_completo_contratante", Sheet: "CADASTRO DAS OBRAS", Cell: "O28"},
		mapping.Entry{Marker: "cidade_contratante", Sheet: "CADASTRO DAS OBRAS", Cell: "O30"},
		mapping.Entry{Marker: "R1", Sheet: "CONTRATO", Cell: "V47"},
	)
	r, err := xlsx.Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	_, results := r.ReadAll(m)

	var buf bytes.Buffer
	if got := checkResults(&buf, m, results, r.SheetNames()); got != 3 {
		t.Errorf("missing = %d, want 3", got)
	}
	out := buf.String()
	for _, want := range []string{"SPE Alfa Ltda", "CADASTRO DAS OBRAS!O30", "CONTRATO!V47", "Abas disponíveis: CADASTRO DAS OBRAS"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestCheckResultsListsSheetsOnlyWhenOneIsMissing(t *testing.T) {
	m := mapping.MustNew(mapping.Entry{Marker: "cidade", Sheet: "OBRA", Cell: "A1"})
	results := []xlsx.Result{{Sheet: "OBRA", Cell: "A1", Value: "Recife", Status: xlsx.StatusFound}}
	var buf bytes.Buffer
	if got := checkResults(&buf, m, results, []string{"OBRA"}); got != 0 {
		t.Errorf("missing = %d, want 0", got)
	}
	if strings.Contains(buf.String(), "Abas disponíveis") {
		t.Errorf("sheet list printed without a missing sheet:\n%s", buf.String())
	}
}
