// Package pdf turns a filled contract and its spreadsheet annexes into a
// single PDF.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/aerissecure/contractfill/office"
)

var (
	ErrConversion = errors.New("pdf conversion failed")
	ErrMissingPDF = errors.New("pdf part missing")
	ErrMerge      = errors.New("pdf merge failed")
)

// DocumentPart is the file name of the converted contract inside scratch.
const DocumentPart = "01_contrato.docx.pdf"

// Job names the inputs and the final output of one assembly.
type Job struct {
	Document string    // filled .docx
	Workbook string    // source workbook for the print ranges
	Output   string    // final merged PDF
	Date     time.Time // names the scratch dir; zero means now
}

type Assembler struct {
	backend office.Backend
	ranges  []office.PrintRange
	logger  *zap.Logger
	now     func() time.Time
}

func NewAssembler(backend office.Backend, ranges []office.PrintRange, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{
		backend: backend,
		ranges:  append([]office.PrintRange(nil), ranges...),
		logger:  logger,
		now:     time.Now,
	}
}

// Assemble converts the document, exports every range, and merges the
// parts into job.Output. Steps run in order and any failure stops the
// run. The scratch directory is removed on every path and job.Output is
// only ever written whole.
func (a *Assembler) Assemble(ctx context.Context, job Job) (string, error) {
	date := job.Date
	if date.IsZero() {
		date = a.now()
	}
	scratch, err := os.MkdirTemp(filepath.Dir(job.Output), "_finalData_"+date.Format("02-01-06")+"_")
	if err != nil {
		return "", fmt.Errorf("create scratch dir: %w", err)
	}
	log := a.logger.With(zap.String("scratch", scratch))
	defer func() {
		if rmErr := os.RemoveAll(scratch); rmErr != nil {
			log.Warn("could not remove scratch dir", zap.Error(rmErr))
		}
	}()

	parts := []string{filepath.Join(scratch, DocumentPart)}
	if err := a.convertDocument(ctx, job.Document, parts[0]); err != nil {
		return "", err
	}
	log.Info("document converted", zap.String("pdf", parts[0]))

	for _, r := range a.ranges {
		parts = append(parts, filepath.Join(scratch, r.File))
	}
	if err := a.exportRanges(ctx, job.Workbook, parts[1:]); err != nil {
		return "", err
	}

	merged := filepath.Join(scratch, "merged.pdf")
	pages, err := Merge(parts, merged)
	if err != nil {
		return "", err
	}
	if err := os.Rename(merged, job.Output); err != nil {
		return "", fmt.Errorf("%w: move to %s: %v", ErrMerge, job.Output, err)
	}
	log.Info("final pdf written", zap.String("pdf", job.Output), zap.Int("parts", len(parts)), zap.Int("pages", pages))
	return job.Output, nil
}

func (a *Assembler) convertDocument(ctx context.Context, docPath, outPDF string) error {
	wp, err := a.backend.OpenWordProcessor(ctx)
	if err != nil {
		return fmt.Errorf("%w: start word processor: %v", ErrConversion, err)
	}
	defer func() {
		if err := wp.Quit(); err != nil {
			a.logger.Warn("word processor quit", zap.Error(err))
		}
	}()
	if err := wp.ExportPDF(ctx, docPath, outPDF); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrConversion, filepath.Base(docPath), err)
	}
	return nil
}

// exportRanges opens the workbook once and exports each range in order.
func (a *Assembler) exportRanges(ctx context.Context, wbPath string, outs []string) error {
	if len(a.ranges) == 0 {
		return nil
	}
	sp, err := a.backend.OpenSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("%w: start spreadsheet: %v", ErrConversion, err)
	}
	defer func() {
		if err := sp.Quit(); err != nil {
			a.logger.Warn("spreadsheet quit", zap.Error(err))
		}
	}()
	wb, err := sp.OpenWorkbook(ctx, wbPath)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrConversion, filepath.Base(wbPath), err)
	}
	defer func() {
		if err := wb.Close(); err != nil {
			a.logger.Warn("workbook close", zap.Error(err))
		}
	}()
	for i, r := range a.ranges {
		if err := wb.ExportRange(ctx, r, outs[i]); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrConversion, r, err)
		}
		a.logger.Info("range exported", zap.Stringer("range", r), zap.String("pdf", outs[i]))
	}
	return nil
}
