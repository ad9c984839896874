package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aerissecure/contractfill/internal/config"
	"github.com/aerissecure/contractfill/mapping"
	"github.com/aerissecure/contractfill/xlsx"
)

func newMappingCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mapping",
		Short: "Inspeciona a tabela de marcadores",
	}
	cmd.AddCommand(newMappingListCmd(root), newMappingCheckCmd(root))
	return cmd
}

func loadMapping(root *rootFlags) (*config.AppConfig, mapping.Mapping, error) {
	cfg, err := config.Load(root.config)
	if err != nil {
		return nil, mapping.Mapping{}, err
	}
	m, err := cfg.Mapping()
	if err != nil {
		return nil, mapping.Mapping{}, err
	}
	return cfg, m, nil
}

func newMappingListCmd(root *rootFlags) *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Lista marcadores e células de origem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, m, err := loadMapping(root)
			if err != nil {
				return err
			}
			if asYAML {
				data, err := m.Marshal()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return listMapping(cmd.OutOrStdout(), m)
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print as YAML, suitable for paths.mapping")
	return cmd
}

func listMapping(w io.Writer, m mapping.Mapping) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MARCADOR\tPLANILHA\tCÉLULA")
	for _, e := range m.Entries() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Marker, e.Sheet, e.Cell)
	}
	return tw.Flush()
}

func newMappingCheckCmd(root *rootFlags) *cobra.Command {
	var workbook string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Lê todas as células mapeadas e mostra o resultado",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, m, err := loadMapping(root)
			if err != nil {
				return err
			}
			if workbook == "" {
				workbook = cfg.Paths.Workbook
			}
			r, err := xlsx.Open(workbook, nil)
			if err != nil {
				return fmt.Errorf("falha na leitura do Excel: %w", err)
			}
			defer r.Close()

			_, results := r.ReadAll(m)
			missing := checkResults(cmd.OutOrStdout(), m, results, r.SheetNames())
			if missing > 0 {
				return fmt.Errorf("%d campos sem valor", missing)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&workbook, "workbook", "w", "", "job workbook; defaults to paths.workbook")
	return cmd
}

// checkResults prints one line per entry and returns how many are not
// usable. When a mapped sheet is missing, the workbook's sheets are listed
// so a renamed tab is easy to spot.
func checkResults(w io.Writer, m mapping.Mapping, results []xlsx.Result, sheets []string) int {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MARCADOR\tORIGEM\tSTATUS\tVALOR")
	missing := 0
	sheetMissing := false
	for i, e := range m.Entries() {
		res := results[i]
		if !res.OK() || isBlank(res.Value) {
			missing++
		}
		if res.Status == xlsx.StatusSheetNotFound {
			sheetMissing = true
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Marker, e.Source(), res.Status, res.Value)
	}
	tw.Flush()
	if sheetMissing {
		fmt.Fprintf(w, "\nAbas disponíveis: %s\n", strings.Join(sheets, ", "))
	}
	return missing
}

func isBlank(v string) bool { return strings.TrimSpace(v) == "" }
