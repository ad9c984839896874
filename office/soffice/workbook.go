package soffice

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/aerissecure/contractfill/office"
)

const printAreaName = "_xlnm.Print_Area"

type calc struct{ s *session }

// OpenWorkbook loads path once. Print settings are applied to the
// in-memory copy and written to staged files; the original is not saved.
func (c *calc) OpenWorkbook(ctx context.Context, path string) (office.Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		ext = ".xlsx"
	}
	return &workbook{s: c.s, f: f, base: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), ext: ext}, nil
}

func (c *calc) Quit() error { return c.s.quit() }

type workbook struct {
	s    *session
	f    *excelize.File
	base string
	ext  string
	n    int
}

func (w *workbook) ExportRange(ctx context.Context, r office.PrintRange, outPDF string) error {
	if err := stagePrintRange(w.f, r); err != nil {
		return err
	}
	w.n++
	staged := filepath.Join(w.s.dir, fmt.Sprintf("%s_%02d%s", w.base, w.n, w.ext))
	if err := w.f.SaveAs(staged); err != nil {
		return fmt.Errorf("stage %s: %w", r, err)
	}
	w.s.logger.Debug("staged print range", zap.Stringer("range", r), zap.String("file", staged))
	return w.s.convert(ctx, staged, calcFilter, outPDF)
}

func (w *workbook) Close() error { return w.f.Close() }

// absRange turns "A1:K134" into "'Sheet'!$A$1:$K$134".
func absRange(sheet, rng string) (string, error) {
	from, to, ok := strings.Cut(strings.ToUpper(strings.TrimSpace(rng)), ":")
	if !ok {
		return "", fmt.Errorf("invalid range %q", rng)
	}
	var parts []string
	for _, ref := range []string{from, to} {
		col, row, err := excelize.CellNameToCoordinates(ref)
		if err != nil {
			return "", fmt.Errorf("invalid range %q: %w", rng, err)
		}
		abs, err := excelize.CoordinatesToCellName(col, row, true)
		if err != nil {
			return "", err
		}
		parts = append(parts, abs)
	}
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(sheet, "'", "''"), strings.Join(parts, ":")), nil
}

// stagePrintRange makes r's sheet the only visible and active sheet, sets
// its print area and fits it to one page wide.
func stagePrintRange(f *excelize.File, r office.PrintRange) error {
	idx, err := f.GetSheetIndex(r.Sheet)
	if err != nil || idx < 0 {
		return fmt.Errorf("stage %s: sheet not found", r)
	}
	ref, err := absRange(r.Sheet, r.Range)
	if err != nil {
		return fmt.Errorf("stage %s: %w", r, err)
	}
	if err := f.SetSheetVisible(r.Sheet, true); err != nil {
		return fmt.Errorf("stage %s: %w", r, err)
	}
	f.SetActiveSheet(idx)
	for _, name := range f.GetSheetList() {
		if name == r.Sheet {
			continue
		}
		if err := f.SetSheetVisible(name, false); err != nil {
			return fmt.Errorf("stage %s: hide %q: %w", r, name, err)
		}
	}

	// A sheet without a print area yet reports ErrDefinedNameScope.
	err = f.DeleteDefinedName(&excelize.DefinedName{Name: printAreaName, Scope: r.Sheet})
	if err != nil && !errors.Is(err, excelize.ErrDefinedNameScope) {
		return fmt.Errorf("stage %s: clear print area: %w", r, err)
	}
	if err := f.SetDefinedName(&excelize.DefinedName{Name: printAreaName, RefersTo: ref, Scope: r.Sheet}); err != nil {
		return fmt.Errorf("stage %s: print area: %w", r, err)
	}

	orientation := string(r.Orientation)
	fitWide, fitTall := 1, 0
	if err := f.SetPageLayout(r.Sheet, &excelize.PageLayoutOptions{
		Orientation: &orientation,
		FitToWidth:  &fitWide,
		FitToHeight: &fitTall,
	}); err != nil {
		return fmt.Errorf("stage %s: page layout: %w", r, err)
	}
	fit := true
	if err := f.SetSheetProps(r.Sheet, &excelize.SheetPropsOptions{FitToPage: &fit}); err != nil {
		return fmt.Errorf("stage %s: sheet props: %w", r, err)
	}
	return nil
}
