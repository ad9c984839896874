package tui

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aerissecure/contractfill"
	"github.com/aerissecure/contractfill/mapping"
)

func keyType(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func TestStartRequiresBothPaths(t *testing.T) {
	app := New(func(context.Context, string, string) (contractfill.Result, error) {
		t.Fatal("pipeline must not run")
		return contractfill.Result{}, nil
	}, nil, "", "/tmp/out")
	app.setFocus(fieldButton)
	_, cmd := app.Update(keyType(tea.KeyEnter))
	if cmd != nil || app.running {
		t.Fatal("run started without a workbook")
	}
	if !strings.Contains(app.status, "Informe") {
		t.Errorf("status = %q", app.status)
	}
}

func TestRunLifecycle(t *testing.T) {
	var calls atomic.Int32
	run := func(ctx context.Context, workbook, out string) (contractfill.Result, error) {
		calls.Add(1)
		if workbook != "/dados/obra.xlsm" || out != "/dados/saida" {
			t.Errorf("run(%q, %q)", workbook, out)
		}
		return contractfill.Result{FinalPDF: "/dados/saida/ContratoFinal_15-03-24.pdf"}, nil
	}
	app := New(run, nil, " /dados/obra.xlsm ", "/dados/saida")

	app.setFocus(fieldButton)
	if _, cmd := app.Update(keyType(tea.KeyEnter)); cmd == nil || !app.running {
		t.Fatal("enter on the button should start a run")
	}
	if !strings.Contains(app.View(), "Gerando") {
		t.Error("view should show progress while running")
	}
	if cmd := app.start(); cmd != nil {
		t.Error("a second run must not start while one is in flight")
	}

	msg := runPipeline(run, "/dados/obra.xlsm", "/dados/saida")()
	app.Update(msg)
	if app.running || app.failed {
		t.Fatalf("running = %t, failed = %t", app.running, app.failed)
	}
	if !strings.Contains(app.status, "ContratoFinal_15-03-24.pdf") {
		t.Errorf("status = %q", app.status)
	}
	if calls.Load() != 1 {
		t.Errorf("pipeline ran %d times", calls.Load())
	}
}

func TestRunFailureShowsUserMessage(t *testing.T) {
	app := New(nil, nil, "a", "b")
	app.running = true
	err := &contractfill.MissingFieldsError{Fields: []mapping.Entry{{Marker: "cnpj_contratante", Sheet: "CADASTRO DAS OBRAS", Cell: "O32"}}}
	app.Update(runFinishedMsg{err: err})
	if !app.failed || !strings.Contains(app.status, "cnpj_contratante — CADASTRO DAS OBRAS!O32") {
		t.Errorf("status = %q", app.status)
	}

	app.Update(runFinishedMsg{err: errors.New("")})
	if app.status != "Ocorreu um erro inesperado." {
		t.Errorf("status = %q", app.status)
	}
}

func TestLogLinesStream(t *testing.T) {
	logs := make(chan string, 2)
	app := New(nil, logs, "", "")
	logs <- "INFO contract saved"
	msg := waitForLog(logs)()
	_, cmd := app.Update(msg)
	if cmd == nil {
		t.Error("the log reader must be re-armed")
	}
	if len(app.lines) != 1 || app.lines[0] != "INFO contract saved" {
		t.Errorf("lines = %q", app.lines)
	}
	close(logs)
	if msg := waitForLog(logs)(); msg != nil {
		t.Errorf("closed channel should yield nil, got %v", msg)
	}
}

func TestQuitIsRefusedWhileRunning(t *testing.T) {
	app := New(nil, nil, "", "")
	app.running = true
	if _, cmd := app.Update(keyType(tea.KeyEsc)); cmd != nil {
		t.Error("esc must not quit during a run")
	}
	app.running = false
	if _, cmd := app.Update(keyType(tea.KeyEsc)); cmd == nil {
		t.Error("esc should quit when idle")
	}
}

func TestFocusCycles(t *testing.T) {
	app := New(nil, nil, "", "")
	for i := 0; i < fieldCount; i++ {
		app.Update(keyType(tea.KeyTab))
	}
	if app.focus != fieldWorkbook {
		t.Errorf("focus = %d after a full cycle", app.focus)
	}
	app.Update(keyType(tea.KeyShiftTab))
	if app.focus != fieldButton {
		t.Errorf("focus = %d, want button", app.focus)
	}
}
