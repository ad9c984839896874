// Package office defines the seam between the pipeline and whatever turns
// documents and spreadsheet ranges into PDF.
package office

import (
	"context"
	"fmt"
	"strings"
)

// Orientation is the page orientation of an exported range.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// ParseOrientation accepts "portrait" or "landscape", case-insensitive.
func ParseOrientation(s string) (Orientation, error) {
	switch o := Orientation(strings.ToLower(strings.TrimSpace(s))); o {
	case Portrait, Landscape:
		return o, nil
	}
	return "", fmt.Errorf("invalid orientation %q", s)
}

// PrintRange is one spreadsheet region exported as its own PDF part.
type PrintRange struct {
	Sheet       string      `toml:"sheet"`
	Range       string      `toml:"range"` // e.g. "A1:K134"
	Orientation Orientation `toml:"orientation"`
	File        string      `toml:"file"` // part file name inside the scratch dir
}

func (r PrintRange) String() string {
	return fmt.Sprintf("%s!%s (%s)", r.Sheet, r.Range, r.Orientation)
}

// Validate checks that the range names a sheet, a range, an orientation
// and a plain file name.
func (r PrintRange) Validate() error {
	if strings.TrimSpace(r.Sheet) == "" {
		return fmt.Errorf("print range %q: empty sheet", r.Range)
	}
	if from, to, ok := strings.Cut(r.Range, ":"); !ok || from == "" || to == "" {
		return fmt.Errorf("print range %s: range must look like A1:B2", r.Sheet)
	}
	if _, err := ParseOrientation(string(r.Orientation)); err != nil {
		return fmt.Errorf("print range %s: %w", r, err)
	}
	if r.File == "" || strings.ContainsAny(r.File, `/\`) {
		return fmt.Errorf("print range %s: file must be a plain name, got %q", r, r.File)
	}
	return nil
}

// DefaultRanges are the three annex ranges appended after the contract,
// in merge order.
func DefaultRanges() []PrintRange {
	return []PrintRange{
		{Sheet: "QUADRO DE CONCORRENCIA", Range: "A1:K134", Orientation: Portrait, File: "02_quadro.pdf"},
		{Sheet: "CRONOGRAMA", Range: "B2:T26", Orientation: Landscape, File: "03_cronograma.pdf"},
		{Sheet: "QUALIFICACAO", Range: "B2:E36", Orientation: Portrait, File: "04_checklist.pdf"},
	}
}

// Backend starts office sessions. Every call opens a fresh session which
// the caller must Quit.
type Backend interface {
	Name() string
	OpenWordProcessor(ctx context.Context) (WordProcessor, error)
	OpenSpreadsheet(ctx context.Context) (Spreadsheet, error)
}

// WordProcessor exports documents.
type WordProcessor interface {
	ExportPDF(ctx context.Context, docPath, outPDF string) error
	Quit() error
}

// Spreadsheet opens workbooks for range export.
type Spreadsheet interface {
	// OpenWorkbook opens path read-only; the file on disk is never saved.
	OpenWorkbook(ctx context.Context, path string) (Workbook, error)
	Quit() error
}

// Workbook exports print ranges of an opened workbook.
type Workbook interface {
	ExportRange(ctx context.Context, r PrintRange, outPDF string) error
	Close() error
}
