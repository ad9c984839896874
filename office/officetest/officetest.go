// Package officetest provides an in-process office backend for tests. It
// records every call and writes small single-page PDFs whose page width
// grows with each export, so merge order can be read back from the result.
package officetest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-pdf/fpdf"

	"github.com/aerissecure/contractfill/office"
)

// BaseWidth is the page width of the first exported part, in points. Each
// later export is WidthStep wider.
const (
	BaseWidth  = 300.0
	WidthStep  = 10.0
	PageHeight = 400.0
)

// ErrInjected is returned by operations configured to fail.
var ErrInjected = errors.New("injected failure")

type Backend struct {
	FailOpenWriter  bool
	FailDocument    bool
	FailOpenCalc    bool
	FailWorkbook    bool
	FailRange       string // sheet whose export fails
	SkipRangeOutput string // sheet whose export reports success but writes nothing
	PanicRange      string // sheet whose export panics

	mu      sync.Mutex
	calls   []string
	exports int
}

func (b *Backend) record(format string, args ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, fmt.Sprintf(format, args...))
}

// Calls returns the recorded calls in order.
func (b *Backend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *Backend) nextWidth() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	w := BaseWidth + WidthStep*float64(b.exports)
	b.exports++
	return w
}

func (b *Backend) Name() string { return "officetest" }

func (b *Backend) OpenWordProcessor(ctx context.Context) (office.WordProcessor, error) {
	b.record("open writer")
	if b.FailOpenWriter {
		return nil, ErrInjected
	}
	return &writer{b}, nil
}

func (b *Backend) OpenSpreadsheet(ctx context.Context) (office.Spreadsheet, error) {
	b.record("open calc")
	if b.FailOpenCalc {
		return nil, ErrInjected
	}
	return &calc{b}, nil
}

type writer struct{ b *Backend }

func (w *writer) ExportPDF(ctx context.Context, docPath, outPDF string) error {
	w.b.record("export document")
	if w.b.FailDocument {
		return ErrInjected
	}
	return WritePDF(outPDF, 1, w.b.nextWidth(), PageHeight)
}

func (w *writer) Quit() error {
	w.b.record("quit writer")
	return nil
}

type calc struct{ b *Backend }

func (c *calc) OpenWorkbook(ctx context.Context, path string) (office.Workbook, error) {
	c.b.record("open workbook")
	if c.b.FailWorkbook {
		return nil, ErrInjected
	}
	return &workbook{c.b}, nil
}

func (c *calc) Quit() error {
	c.b.record("quit calc")
	return nil
}

type workbook struct{ b *Backend }

func (w *workbook) ExportRange(ctx context.Context, r office.PrintRange, outPDF string) error {
	w.b.record("export %s!%s", r.Sheet, r.Range)
	switch r.Sheet {
	case w.b.FailRange:
		return ErrInjected
	case w.b.PanicRange:
		panic("officetest: export " + r.Sheet)
	case w.b.SkipRangeOutput:
		return nil
	}
	return WritePDF(outPDF, 1, w.b.nextWidth(), PageHeight)
}

func (w *workbook) Close() error {
	w.b.record("close workbook")
	return nil
}

// WritePDF writes a PDF with the given number of w x h point pages.
func WritePDF(path string, pages int, w, h float64) error {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetFont("Helvetica", "", 12)
	for i := 0; i < pages; i++ {
		pdf.AddPage()
		pdf.Cell(w/2, 20, fmt.Sprintf("page %d", i+1))
	}
	return pdf.OutputFileAndClose(path)
}
