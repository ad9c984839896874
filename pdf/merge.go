package pdf

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// pdfcpu would otherwise create a config dir under the user's home.
	api.DisableConfigDir()
}

// Merge concatenates parts, in order and without divider pages, into out.
// Every part must exist.
func Merge(parts []string, out string) (int, error) {
	if len(parts) == 0 {
		return 0, fmt.Errorf("%w: no input files", ErrMerge)
	}
	for _, p := range parts {
		if _, err := os.Stat(p); err != nil {
			return 0, fmt.Errorf("%w: %s", ErrMissingPDF, p)
		}
	}
	conf := model.NewDefaultConfiguration()
	if err := api.MergeCreateFile(parts, out, false, conf); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMerge, err)
	}
	n, err := api.PageCountFile(out)
	if err != nil {
		return 0, fmt.Errorf("%w: count pages: %v", ErrMerge, err)
	}
	return n, nil
}
