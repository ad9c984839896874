// Package soffice exports documents and spreadsheet ranges to PDF with a
// headless LibreOffice.
package soffice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aerissecure/contractfill/office"
)

const (
	writerFilter = "writer_pdf_Export"
	calcFilter   = "calc_pdf_Export"
)

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Backend launches one LibreOffice process per conversion, each session
// with a private user profile so concurrent desktop instances are not
// disturbed.
type Backend struct {
	Binary  string
	Timeout time.Duration // per conversion; zero means no limit
	Run     Runner
	Logger  *zap.Logger
}

// New returns a backend for the soffice binary at path, or the first one
// found by FindBinary when path is empty.
func New(path string, logger *zap.Logger) (*Backend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path == "" {
		found, err := FindBinary()
		if err != nil {
			return nil, err
		}
		path = found
	}
	return &Backend{
		Binary: path,
		Run:    execRunner,
		Logger: logger,
	}, nil
}

var candidates = map[string][]string{
	"windows": {
		`C:\Program Files\LibreOffice\program\soffice.exe`,
		`C:\Program Files (x86)\LibreOffice\program\soffice.exe`,
	},
	"darwin": {"/Applications/LibreOffice.app/Contents/MacOS/soffice"},
}

// FindBinary looks for soffice on PATH and in the usual install locations.
func FindBinary() (string, error) {
	for _, name := range []string{"soffice", "libreoffice"} {
		if p, err := exec.LookPath(name); err == nil {
			return p, nil
		}
	}
	for _, p := range candidates[runtime.GOOS] {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", errors.New("soffice not found on PATH; set office.soffice in config")
}

func (b *Backend) Name() string { return "soffice" }

func (b *Backend) OpenWordProcessor(ctx context.Context) (office.WordProcessor, error) {
	s, err := b.newSession("writer")
	if err != nil {
		return nil, err
	}
	return &writer{s}, nil
}

func (b *Backend) OpenSpreadsheet(ctx context.Context) (office.Spreadsheet, error) {
	s, err := b.newSession("calc")
	if err != nil {
		return nil, err
	}
	return &calc{s}, nil
}

// session owns a scratch directory holding the LibreOffice profile,
// staged workbook copies and raw conversion output.
type session struct {
	b      *Backend
	dir    string
	logger *zap.Logger
	n      int
}

func (b *Backend) newSession(kind string) (*session, error) {
	dir, err := os.MkdirTemp("", "contratorpa-"+kind+"-")
	if err != nil {
		return nil, fmt.Errorf("create %s session: %w", kind, err)
	}
	if b.Run == nil {
		b.Run = execRunner
	}
	logger := b.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &session{b: b, dir: dir, logger: logger.With(zap.String("session", kind))}
	s.logger.Debug("session started", zap.String("dir", dir))
	return s, nil
}

func (s *session) quit() error {
	s.logger.Debug("session closed")
	return os.RemoveAll(s.dir)
}

// fileURL renders path as a file:// URL as LibreOffice expects it for
// -env:UserInstallation.
func fileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}

// convert runs one headless conversion of src with the given PDF export
// filter and moves the result to outPDF.
func (s *session) convert(ctx context.Context, src, filter, outPDF string) error {
	s.n++
	outDir := filepath.Join(s.dir, fmt.Sprintf("out%02d", s.n))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	if s.b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.b.Timeout)
		defer cancel()
	}
	args := []string{
		"-env:UserInstallation=" + fileURL(filepath.Join(s.dir, "profile")),
		"--headless",
		"--invisible",
		"--nologo",
		"--nolockcheck",
		"--norestore",
		"--convert-to", "pdf:" + filter,
		"--outdir", outDir,
		src,
	}
	s.logger.Debug("running soffice", zap.String("binary", s.b.Binary), zap.Strings("args", args))
	out, err := s.b.Run(ctx, s.b.Binary, args...)
	if err != nil {
		return fmt.Errorf("soffice %s: %w: %s", filepath.Base(src), err, strings.TrimSpace(string(out)))
	}
	produced := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))+".pdf")
	if _, err := os.Stat(produced); err != nil {
		return fmt.Errorf("soffice %s produced no pdf: %s", filepath.Base(src), strings.TrimSpace(string(out)))
	}
	if err := moveFile(produced, outPDF); err != nil {
		return err
	}
	s.logger.Info("exported pdf", zap.String("source", filepath.Base(src)), zap.String("pdf", outPDF))
	return nil
}

// moveFile renames src to dst, copying when they sit on different volumes.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}

type writer struct{ s *session }

func (w *writer) ExportPDF(ctx context.Context, docPath, outPDF string) error {
	return w.s.convert(ctx, docPath, writerFilter, outPDF)
}

func (w *writer) Quit() error { return w.s.quit() }
