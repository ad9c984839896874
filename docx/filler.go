// Package docx fills marker tokens in Word templates and exposes a light
// intermediate representation of document content.
package docx

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/unidoc/unioffice/document"
	"go.uber.org/zap"
)

var (
	ErrOpenTemplate = errors.New("open template")
	ErrSave         = errors.New("save document")
)

// Stats summarizes one fill.
type Stats struct {
	Paragraphs int // paragraphs visited
	Replaced   int // paragraphs rewritten
	Tokens     int // token occurrences substituted
}

// Filler substitutes marker tokens in a template, writing a new document
// and leaving the template untouched.
type Filler struct {
	templatePath string
	logger       *zap.Logger
}

func NewFiller(templatePath string, logger *zap.Logger) *Filler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Filler{templatePath: templatePath, logger: logger}
}

// Fill replaces every token of values in body, tables, headers and
// footers, then saves the result to outputPath. Matching is done per
// paragraph; a token split across paragraphs is not found.
func (f *Filler) Fill(values map[string]string, outputPath string) (Stats, error) {
	var st Stats
	doc, err := document.Open(f.templatePath)
	if err != nil {
		return st, fmt.Errorf("%w %s: %v", ErrOpenTemplate, f.templatePath, err)
	}

	m := newMatcher(values)
	for _, p := range paragraphs(doc) {
		st.Paragraphs++
		text := paragraphText(p)
		out, n := m.replace(text)
		if n == 0 || out == text {
			continue
		}
		setParagraphText(p, out)
		st.Replaced++
		st.Tokens += n
	}

	if err := save(doc, outputPath); err != nil {
		return st, fmt.Errorf("%w %s: %v", ErrSave, outputPath, err)
	}
	f.logger.Info("document filled",
		zap.String("output", outputPath),
		zap.Int("paragraphs", st.Paragraphs),
		zap.Int("replaced", st.Replaced),
		zap.Int("tokens", st.Tokens))
	return st, nil
}

// save writes doc beside outputPath and renames it into place, so a failed
// write never leaves a truncated document under the final name.
func save(doc *document.Document, outputPath string) error {
	tmp, err := os.CreateTemp(filepath.Dir(outputPath), ".filling-*.docx")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := doc.Save(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), outputPath)
}
