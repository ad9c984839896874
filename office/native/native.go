// Package native renders documents and spreadsheet ranges to PDF in pure
// Go. Layout is simplified: text flow, tables and cell grids, without
// the fidelity of an office suite.
package native

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aerissecure/contractfill/docx"
	"github.com/aerissecure/contractfill/office"
	"github.com/aerissecure/contractfill/xlsx"
)

type Backend struct {
	Logger *zap.Logger
}

func New(logger *zap.Logger) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backend{Logger: logger}
}

func (b *Backend) Name() string { return "native" }

func (b *Backend) OpenWordProcessor(ctx context.Context) (office.WordProcessor, error) {
	return &writer{logger: b.Logger}, nil
}

func (b *Backend) OpenSpreadsheet(ctx context.Context) (office.Spreadsheet, error) {
	return &calc{logger: b.Logger}, nil
}

type writer struct{ logger *zap.Logger }

func (w *writer) ExportPDF(ctx context.Context, docPath, outPDF string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mdl, err := docx.ParseDocumentModel(docPath)
	if err != nil {
		return err
	}
	if err := renderDocument(mdl, outPDF); err != nil {
		return fmt.Errorf("render %s: %w", docPath, err)
	}
	w.logger.Info("exported pdf", zap.String("source", docPath), zap.String("pdf", outPDF), zap.Int("blocks", len(mdl.Blocks)))
	return nil
}

func (w *writer) Quit() error { return nil }

type calc struct{ logger *zap.Logger }

func (c *calc) OpenWorkbook(ctx context.Context, path string) (office.Workbook, error) {
	r, err := xlsx.Open(path, c.logger)
	if err != nil {
		return nil, err
	}
	return &workbook{r: r, logger: c.logger}, nil
}

func (c *calc) Quit() error { return nil }

type workbook struct {
	r      *xlsx.Reader
	logger *zap.Logger
}

func (w *workbook) ExportRange(ctx context.Context, pr office.PrintRange, outPDF string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m, err := w.r.ParseRange(pr.Sheet, pr.Range)
	if err != nil {
		return fmt.Errorf("export %s: %w", pr, err)
	}
	if err := renderRange(m, pr.Orientation, outPDF); err != nil {
		return fmt.Errorf("render %s: %w", pr, err)
	}
	w.logger.Info("exported pdf", zap.Stringer("range", pr), zap.String("pdf", outPDF))
	return nil
}

func (w *workbook) Close() error { return w.r.Close() }
