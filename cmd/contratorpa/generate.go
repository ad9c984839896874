package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aerissecure/contractfill"
)

type pathFlags struct {
	workbook  string
	outputDir string
}

func (p *pathFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&p.workbook, "workbook", "w", "", "job workbook (.xlsx/.xlsm); defaults to paths.workbook")
	cmd.Flags().StringVarP(&p.outputDir, "output", "o", "", "output folder; defaults to paths.output_dir")
}

func (p *pathFlags) resolve(a *app) (string, string) {
	workbook, out := p.workbook, p.outputDir
	if workbook == "" {
		workbook = a.cfg.Paths.Workbook
	}
	if out == "" {
		out = a.cfg.Paths.OutputDir
	}
	return workbook, out
}

// report prints the outcome of a run. Failures come back as the operator
// message.
func report(res contractfill.Result, err error) error {
	if err != nil {
		return errors.New(contractfill.UserMessage(err))
	}
	fmt.Printf("Processo concluído! PDF final: %s\n", res.FinalPDF)
	return nil
}

func newGenerateCmd(root *rootFlags) *cobra.Command {
	paths := &pathFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Preenche o contrato e monta o PDF final",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(root, nil, nil)
			if err != nil {
				return err
			}
			defer a.close()
			workbook, out := paths.resolve(a)
			return report(a.gen.Run(cmd.Context(), contractfill.Request{WorkbookPath: workbook, OutputDir: out}))
		},
	}
	paths.register(cmd)
	return cmd
}

func newRebuildCmd(root *rootFlags) *cobra.Command {
	paths := &pathFlags{}
	var document string
	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Monta o PDF final a partir de um contrato já preenchido",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(root, nil, nil)
			if err != nil {
				return err
			}
			defer a.close()
			workbook, out := paths.resolve(a)
			return report(a.gen.Rebuild(cmd.Context(), contractfill.RebuildRequest{
				WorkbookPath: workbook,
				OutputDir:    out,
				Document:     document,
			}))
		},
	}
	paths.register(cmd)
	cmd.Flags().StringVarP(&document, "document", "d", "", "filled .docx; defaults to the newest one in the output folder")
	return cmd
}
