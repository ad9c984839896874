package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aerissecure/contractfill"
	"github.com/aerissecure/contractfill/internal/config"
	"github.com/aerissecure/contractfill/internal/logging"
	"github.com/aerissecure/contractfill/internal/tui"
	"github.com/aerissecure/contractfill/office"
	"github.com/aerissecure/contractfill/office/native"
	"github.com/aerissecure/contractfill/office/soffice"
)

type rootFlags struct {
	config  string
	backend string
	level   string
}

// app is everything a subcommand needs once the config is loaded.
type app struct {
	cfg    *config.AppConfig
	logger *zap.Logger
	gen    *contractfill.Generator
	close  func()
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "contratorpa",
		Short:         "Gera o contrato final a partir da planilha da obra",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(flags)
		},
	}
	root.PersistentFlags().StringVar(&flags.config, "config", "", "config file (default: config.toml next to the executable)")
	root.PersistentFlags().StringVar(&flags.backend, "backend", "", "office backend: soffice or native")
	root.PersistentFlags().StringVar(&flags.level, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(newGenerateCmd(flags), newRebuildCmd(flags), newMappingCmd(flags), newConfigCmd(flags))
	return root
}

// setup loads the config and wires logger, office backend and generator.
// lines, when set, receives formatted log lines for the TUI.
func setup(flags *rootFlags, console io.Writer, lines chan<- string) (*app, error) {
	cfg, err := config.Load(flags.config)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if flags.backend != "" {
		cfg.Office.Backend = flags.backend
	}
	if flags.level != "" {
		cfg.Log.Level = flags.level
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Log.File != "" {
		if err := os.MkdirAll(cfg.Paths.OutputDir, 0o755); err != nil {
			return nil, err
		}
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Console: console,
		Lines:   lines,
	})
	if err != nil {
		return nil, err
	}

	backend, err := newBackend(cfg, logger)
	if err != nil {
		closeLog()
		return nil, err
	}
	m, err := cfg.Mapping()
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("mapping: %w", err)
	}
	gen, err := contractfill.New(contractfill.Config{
		Mapping:      m,
		TemplatePath: cfg.Paths.Template,
		Ranges:       cfg.Export.Ranges,
		Backend:      backend,
		Logger:       logger,
	})
	if err != nil {
		closeLog()
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, gen: gen, close: closeLog}, nil
}

func newBackend(cfg *config.AppConfig, logger *zap.Logger) (office.Backend, error) {
	switch cfg.Office.Backend {
	case config.BackendNative:
		return native.New(logger), nil
	default:
		b, err := soffice.New(cfg.Office.Soffice, logger)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
}

func runTUI(flags *rootFlags) error {
	lines := make(chan string, 256)
	a, err := setup(flags, io.Discard, lines)
	if err != nil {
		return err
	}
	defer a.close()

	run := func(ctx context.Context, workbook, outputDir string) (contractfill.Result, error) {
		return a.gen.Run(ctx, contractfill.Request{WorkbookPath: workbook, OutputDir: outputDir})
	}
	p := tea.NewProgram(
		tui.New(run, lines, a.cfg.Paths.Workbook, a.cfg.Paths.OutputDir),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
