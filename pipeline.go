// Package contractfill generates the filled contract PDF for a
// construction job: cell values from the job workbook are substituted
// into the Word template, and the result is merged with PDF exports of
// the workbook's annex ranges.
package contractfill

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aerissecure/contractfill/docx"
	"github.com/aerissecure/contractfill/mapping"
	"github.com/aerissecure/contractfill/office"
	"github.com/aerissecure/contractfill/pdf"
	"github.com/aerissecure/contractfill/xlsx"
)

const (
	filledPrefix = "ContratoPreenchido_"
	finalPrefix  = "ContratoFinal_"
)

// FilledName and FinalName are the output file names for a run at t.
func FilledName(t time.Time) string { return filledPrefix + t.Format("02-01-06_15-04") + ".docx" }
func FinalName(t time.Time) string { return finalPrefix + t.Format("02-01-06") + ".pdf" }

type Config struct {
	Mapping      mapping.Mapping
	TemplatePath string
	Ranges       []office.PrintRange // nil means office.DefaultRanges()
	Backend      office.Backend
	Logger       *zap.Logger
	Now          func() time.Time
}

// Generator runs the pipeline. It holds no per-run state; runs are
// expected to be issued one at a time.
type Generator struct {
	cfg    Config
	logger *zap.Logger
}

func New(cfg Config) (*Generator, error) {
	if cfg.Mapping.Len() == 0 {
		return nil, errors.New("contractfill: empty mapping")
	}
	if cfg.TemplatePath == "" {
		return nil, errors.New("contractfill: template path is required")
	}
	if cfg.Backend == nil {
		return nil, errors.New("contractfill: office backend is required")
	}
	if cfg.Ranges == nil {
		cfg.Ranges = office.DefaultRanges()
	}
	files := map[string]bool{pdf.DocumentPart: true}
	for _, r := range cfg.Ranges {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("contractfill: %w", err)
		}
		if files[r.File] {
			return nil, fmt.Errorf("contractfill: part file %q used twice", r.File)
		}
		files[r.File] = true
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Generator{cfg: cfg, logger: cfg.Logger}, nil
}

type Request struct {
	WorkbookPath string
	OutputDir    string
}

type Result struct {
	RunID    string
	FinalPDF string
	Values   xlsx.Values
	Stats    docx.Stats
}

// Run executes the full pipeline. On failure the returned error is a
// *ValidationError, a *MissingFieldsError, or wraps one of the component
// sentinels or ErrUnexpected.
func (g *Generator) Run(ctx context.Context, req Request) (res Result, err error) {
	res.RunID = uuid.NewString()
	log := g.logger.With(zap.String("run", res.RunID))
	defer recoverPanic(log, &res, &err)

	started := g.cfg.Now()
	log.Info("run started",
		zap.String("workbook", req.WorkbookPath),
		zap.String("output_dir", req.OutputDir),
		zap.String("backend", g.cfg.Backend.Name()))

	if err := g.validate(req.WorkbookPath, req.OutputDir, true); err != nil {
		log.Error("preflight failed", zap.Error(err))
		return res, err
	}

	values, missing, err := g.collect(req.WorkbookPath, log)
	if err != nil {
		log.Error("workbook read failed", zap.Error(err))
		return res, err
	}
	res.Values = values
	if len(missing) > 0 {
		return res, g.reportMissing(req.OutputDir, started, missing, log)
	}

	filled := filepath.Join(req.OutputDir, FilledName(started))
	res.Stats, err = docx.NewFiller(g.cfg.TemplatePath, log).Fill(values, filled)
	if err != nil {
		log.Error("document fill failed", zap.Error(err))
		return res, err
	}
	log.Info("contract saved", zap.String("document", filled))

	final, err := g.assemble(ctx, log, filled, req.WorkbookPath, req.OutputDir, started)
	if err != nil {
		// The filled document stays for inspection and Rebuild.
		log.Error("post-process failed", zap.Error(err), zap.String("document", filled))
		return res, err
	}
	if err := os.Remove(filled); err != nil {
		log.Warn("could not remove filled document", zap.Error(err))
	}
	res.FinalPDF = final
	log.Info("run finished", zap.String("pdf", final), zap.Duration("elapsed", time.Since(started)))
	return res, nil
}

type RebuildRequest struct {
	WorkbookPath string
	OutputDir    string
	Document     string // empty picks the newest filled document in OutputDir
}

// Rebuild re-runs only the PDF post-process on an already filled
// document. The document is left in place.
func (g *Generator) Rebuild(ctx context.Context, req RebuildRequest) (res Result, err error) {
	res.RunID = uuid.NewString()
	log := g.logger.With(zap.String("run", res.RunID))
	defer recoverPanic(log, &res, &err)

	started := g.cfg.Now()
	if err := g.validate(req.WorkbookPath, req.OutputDir, false); err != nil {
		log.Error("preflight failed", zap.Error(err))
		return res, err
	}
	doc := req.Document
	if doc == "" {
		doc, err = NewestFilled(req.OutputDir)
		if err != nil {
			log.Error("no document to rebuild", zap.Error(err))
			return res, err
		}
	} else if fi, statErr := os.Stat(doc); statErr != nil || fi.IsDir() {
		err := &ValidationError{Problems: []Problem{{Field: FieldDocument, Path: doc, Reason: "file not found"}}}
		log.Error("preflight failed", zap.Error(err))
		return res, err
	}
	log.Info("rebuild started", zap.String("document", doc))

	final, err := g.assemble(ctx, log, doc, req.WorkbookPath, req.OutputDir, started)
	if err != nil {
		log.Error("post-process failed", zap.Error(err))
		return res, err
	}
	res.FinalPDF = final
	log.Info("rebuild finished", zap.String("pdf", final))
	return res, nil
}

func recoverPanic(log *zap.Logger, res *Result, err *error) {
	r := recover()
	if r == nil {
		return
	}
	log.Error("panic in pipeline", zap.Any("panic", r), zap.Stack("stack"))
	*res = Result{RunID: res.RunID}
	*err = fmt.Errorf("%w: %v", ErrUnexpected, r)
}

func checkFile(field, path string) *Problem {
	fi, err := os.Stat(path)
	switch {
	case path == "":
		return &Problem{Field: field, Path: path, Reason: "path is empty"}
	case err != nil:
		return &Problem{Field: field, Path: path, Reason: "file not found"}
	case fi.IsDir():
		return &Problem{Field: field, Path: path, Reason: "is a directory"}
	}
	return nil
}

func (g *Generator) validate(workbook, outputDir string, needTemplate bool) error {
	var problems []Problem
	if p := checkFile(FieldWorkbook, workbook); p != nil {
		problems = append(problems, *p)
	}
	fi, err := os.Stat(outputDir)
	switch {
	case outputDir == "":
		problems = append(problems, Problem{Field: FieldOutputDir, Reason: "path is empty"})
	case err != nil:
		problems = append(problems, Problem{Field: FieldOutputDir, Path: outputDir, Reason: "directory not found"})
	case !fi.IsDir():
		problems = append(problems, Problem{Field: FieldOutputDir, Path: outputDir, Reason: "not a directory"})
	}
	if needTemplate {
		if p := checkFile(FieldTemplate, g.cfg.TemplatePath); p != nil {
			problems = append(problems, *p)
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// collect reads the mapping and returns the entries that have no usable
// value. Whitespace-only values count as missing.
func (g *Generator) collect(workbook string, log *zap.Logger) (xlsx.Values, []mapping.Entry, error) {
	r, err := xlsx.Open(workbook, log)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrWorkbook, err)
	}
	defer r.Close()

	values, results := r.ReadAll(g.cfg.Mapping)
	var missing []mapping.Entry
	for i, e := range g.cfg.Mapping.Entries() {
		if !results[i].OK() || strings.TrimSpace(results[i].Value) == "" {
			missing = append(missing, e)
		}
	}
	log.Info("values collected", zap.Int("markers", len(results)), zap.Int("missing", len(missing)))
	return values, missing, nil
}

func (g *Generator) reportMissing(dir string, t time.Time, missing []mapping.Entry, log *zap.Logger) error {
	mf := &MissingFieldsError{Fields: missing}
	path, err := writeReport(dir, t, missing)
	if err != nil {
		log.Warn("could not write missing-fields report", zap.Error(err))
	} else {
		mf.ReportPath = path
	}
	lines := make([]string, len(missing))
	for i, e := range missing {
		lines[i] = e.String()
	}
	log.Error("required fields are empty",
		zap.Int("count", len(missing)),
		zap.Strings("fields", lines),
		zap.String("report", mf.ReportPath))
	return mf
}

func (g *Generator) assemble(ctx context.Context, log *zap.Logger, doc, workbook, outputDir string, t time.Time) (string, error) {
	asm := pdf.NewAssembler(g.cfg.Backend, g.cfg.Ranges, log)
	return asm.Assemble(ctx, pdf.Job{
		Document: doc,
		Workbook: workbook,
		Output:   filepath.Join(outputDir, FinalName(t)),
		Date:     t,
	})
}

// NewestFilled returns the most recently modified filled document in dir.
func NewestFilled(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, filledPrefix+"*.docx"))
	if err != nil {
		return "", err
	}
	type candidate struct {
		path string
		mod  time.Time
	}
	var cs []candidate
	for _, m := range matches {
		fi, err := os.Stat(m)
		if err != nil || fi.IsDir() {
			continue
		}
		cs = append(cs, candidate{m, fi.ModTime()})
	}
	if len(cs) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoDocument, dir)
	}
	sort.Slice(cs, func(i, j int) bool { return cs[i].mod.After(cs[j].mod) })
	return cs[0].path, nil
}
