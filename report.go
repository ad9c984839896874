package contractfill

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aerissecure/contractfill/mapping"
)

// ReportName is the missing-fields report file name for a run started at t.
func ReportName(t time.Time) string {
	return "campos_vazios_" + t.Format("2006-01-02_1504") + ".txt"
}

// writeReport writes one line per missing field, formatted by Entry.String.
func writeReport(dir string, t time.Time, fields []mapping.Entry) (string, error) {
	lines := make([]string, len(fields))
	for i, f := range fields {
		lines[i] = f.String()
	}
	path := filepath.Join(dir, ReportName(t))
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
