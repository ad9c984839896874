package contractfill

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aerissecure/contractfill/docx"
	"github.com/aerissecure/contractfill/mapping"
	"github.com/aerissecure/contractfill/pdf"
)

var (
	// ErrUnexpected marks a panic recovered at the pipeline boundary.
	ErrUnexpected = errors.New("unexpected error")
	ErrWorkbook   = errors.New("read workbook")
	ErrNoDocument = errors.New("no filled document found")
)

// Field names used in validation problems.
const (
	FieldWorkbook  = "workbook"
	FieldOutputDir = "output_dir"
	FieldTemplate  = "template"
	FieldDocument  = "document"
)

// Problem is one failed precondition.
type Problem struct {
	Field  string
	Path   string
	Reason string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s %q: %s", p.Field, p.Path, p.Reason)
}

// ValidationError reports inputs that failed the preflight checks. The
// pipeline does not start when it is returned.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.String()
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// MissingFieldsError lists the mapping entries whose cells are blank or
// unreadable. ReportPath is empty when the report could not be written.
type MissingFieldsError struct {
	Fields     []mapping.Entry
	ReportPath string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("%d required fields are empty", len(e.Fields))
}

var fieldLabels = map[string]string{
	FieldWorkbook:  "Planilha",
	FieldOutputDir: "Pasta de saída",
	FieldTemplate:  "Modelo Word",
	FieldDocument:  "Contrato preenchido",
}

const genericMessage = "Ocorreu um erro inesperado."

// UserMessage renders err as the single message shown to the operator.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	var mf *MissingFieldsError
	switch {
	case errors.As(err, &ve):
		var b strings.Builder
		b.WriteString("Verifique os caminhos informados:")
		for _, p := range ve.Problems {
			fmt.Fprintf(&b, "\n - %s: %s (%s)", fieldLabels[p.Field], p.Path, p.Reason)
		}
		return b.String()
	case errors.As(err, &mf):
		var b strings.Builder
		fmt.Fprintf(&b, "Existem %d campos obrigatórios sem preenchimento. Preencha no Excel antes de continuar.", len(mf.Fields))
		for _, f := range mf.Fields {
			b.WriteString("\n - " + f.String())
		}
		if mf.ReportPath != "" {
			b.WriteString("\nRelatório: " + mf.ReportPath)
		}
		return b.String()
	case errors.Is(err, ErrUnexpected):
		return genericMessage
	case errors.Is(err, ErrWorkbook):
		return "Falha na leitura do Excel."
	case errors.Is(err, ErrNoDocument):
		return "Nenhum DOCX encontrado na pasta de saída."
	case errors.Is(err, docx.ErrOpenTemplate):
		return "Erro ao abrir o modelo Word."
	case errors.Is(err, docx.ErrSave):
		return "Falha na geração do DOCX."
	case errors.Is(err, pdf.ErrConversion), errors.Is(err, pdf.ErrMissingPDF), errors.Is(err, pdf.ErrMerge):
		return "Pós-processamento falhou: " + err.Error()
	}
	if msg := err.Error(); strings.TrimSpace(msg) != "" {
		return msg
	}
	return genericMessage
}
