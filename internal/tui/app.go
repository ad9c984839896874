// Package tui is the interactive front end: pick the workbook and output
// folder, start a run, and follow the log while it works.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aerissecure/contractfill"
)

// RunFunc runs the pipeline for one workbook and output folder.
type RunFunc func(ctx context.Context, workbook, outputDir string) (contractfill.Result, error)

const (
	fieldWorkbook = iota
	fieldOutput
	fieldButton
	fieldCount
)

const maxLogLines = 500

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginBottom(1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	buttonStyle  = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("255")).Background(lipgloss.Color("62"))
	focusedStyle = buttonStyle.Background(lipgloss.Color("205"))
	disableStyle = buttonStyle.Background(lipgloss.Color("240")).Foreground(lipgloss.Color("248"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	logStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238"))
)

type logLineMsg string

type runFinishedMsg struct {
	res contractfill.Result
	err error
}

// App is the bubbletea model.
type App struct {
	inputs  []textinput.Model
	focus   int
	spinner spinner.Model
	logView viewport.Model
	lines   []string

	running bool
	status  string
	failed  bool

	run  RunFunc
	logs <-chan string

	width int
}

// New builds the model. logs carries formatted log lines from the
// pipeline; it may be nil.
func New(run RunFunc, logs <-chan string, workbook, outputDir string) *App {
	wb := textinput.New()
	wb.Placeholder = "caminho da planilha .xlsx / .xlsm"
	wb.SetValue(workbook)
	wb.Prompt = "› "
	wb.Focus()

	out := textinput.New()
	out.Placeholder = "pasta onde o contrato será salvo"
	out.SetValue(outputDir)
	out.Prompt = "› "

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return &App{
		inputs:  []textinput.Model{wb, out},
		spinner: sp,
		logView: viewport.New(80, 12),
		run:     run,
		logs:    logs,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForLog(a.logs))
}

// waitForLog delivers the next log line. It is re-issued after each one.
func waitForLog(logs <-chan string) tea.Cmd {
	if logs == nil {
		return nil
	}
	return func() tea.Msg {
		line, ok := <-logs
		if !ok {
			return nil
		}
		return logLineMsg(line)
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		for i := range a.inputs {
			a.inputs[i].Width = max(20, msg.Width-6)
		}
		a.logView.Width = max(20, msg.Width-2)
		a.logView.Height = max(5, msg.Height-14)
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			if a.running {
				a.status = "Aguarde a conclusão da geração."
				return a, nil
			}
			return a, tea.Quit
		case "tab", "down":
			return a, a.setFocus((a.focus + 1) % fieldCount)
		case "shift+tab", "up":
			return a, a.setFocus((a.focus + fieldCount - 1) % fieldCount)
		case "enter":
			if a.focus == fieldButton {
				return a, a.start()
			}
			return a, a.setFocus(a.focus + 1)
		}

	case logLineMsg:
		a.appendLog(string(msg))
		return a, waitForLog(a.logs)

	case runFinishedMsg:
		a.running = false
		a.failed = msg.err != nil
		if msg.err != nil {
			a.status = contractfill.UserMessage(msg.err)
		} else {
			a.status = "Processo concluído! PDF final: " + msg.res.FinalPDF
		}
		return a, nil

	case spinner.TickMsg:
		if !a.running {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	if a.focus < len(a.inputs) {
		var cmd tea.Cmd
		a.inputs[a.focus], cmd = a.inputs[a.focus].Update(msg)
		return a, cmd
	}
	var cmd tea.Cmd
	a.logView, cmd = a.logView.Update(msg)
	return a, cmd
}

func (a *App) setFocus(i int) tea.Cmd {
	a.focus = i
	var cmd tea.Cmd
	for j := range a.inputs {
		if j == i {
			cmd = a.inputs[j].Focus()
		} else {
			a.inputs[j].Blur()
		}
	}
	return cmd
}

func (a *App) appendLog(line string) {
	a.lines = append(a.lines, line)
	if len(a.lines) > maxLogLines {
		a.lines = a.lines[len(a.lines)-maxLogLines:]
	}
	a.logView.SetContent(strings.Join(a.lines, "\n"))
	a.logView.GotoBottom()
}

// start launches a run unless one is already in flight.
func (a *App) start() tea.Cmd {
	if a.running {
		return nil
	}
	workbook := strings.TrimSpace(a.inputs[fieldWorkbook].Value())
	outputDir := strings.TrimSpace(a.inputs[fieldOutput].Value())
	if workbook == "" || outputDir == "" {
		a.failed = true
		a.status = "Informe a planilha e a pasta de saída."
		return nil
	}
	a.running = true
	a.failed = false
	a.status = ""
	return tea.Batch(a.spinner.Tick, runPipeline(a.run, workbook, outputDir))
}

func runPipeline(run RunFunc, workbook, outputDir string) tea.Cmd {
	return func() tea.Msg {
		res, err := run(context.Background(), workbook, outputDir)
		return runFinishedMsg{res: res, err: err}
	}
}

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("ContratoRPA · geração de contratos"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Planilha da obra") + "\n")
	b.WriteString(a.inputs[fieldWorkbook].View() + "\n\n")
	b.WriteString(labelStyle.Render("Pasta de saída") + "\n")
	b.WriteString(a.inputs[fieldOutput].View() + "\n\n")

	button := buttonStyle
	switch {
	case a.running:
		button = disableStyle
	case a.focus == fieldButton:
		button = focusedStyle
	}
	b.WriteString(button.Render("Gerar contrato"))
	if a.running {
		b.WriteString("  " + a.spinner.View() + " Gerando…")
	}
	b.WriteString("\n\n")

	if a.status != "" {
		style := okStyle
		if a.failed {
			style = errStyle
		}
		b.WriteString(style.Render(a.status) + "\n\n")
	}
	b.WriteString(logStyle.Render(a.logView.View()))
	b.WriteString("\n" + labelStyle.Render("tab: navegar · enter: confirmar · esc: sair"))
	return b.String()
}
