package repl

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEvaluator struct {
	inputs  []string
	results []string
	err     error
	globals []string
}

func (f *fakeEvaluator) Eval(ctx context.Context, src string) ([]string, error) {
	f.inputs = append(f.inputs, src)
	return f.results, f.err
}

func (f *fakeEvaluator) GlobalNames() []string { return f.globals }

func enter(t *testing.T, m Model, input string) (Model, tea.Cmd) {
	t.Helper()
	m.textInput.SetValue(input)
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm, ok := model.(Model)
	require.True(t, ok, "unexpected model type %T", model)
	return rm, cmd
}

func TestUpdate_EvaluatesInput(t *testing.T) {
	eval := &fakeEvaluator{results: []string{"2"}}
	m, cmd := enter(t, New(eval, "test"), "1 + 1")

	assert.True(t, m.running)
	assert.Empty(t, m.textInput.Value())
	assert.Equal(t, []string{"1 + 1"}, m.cmdHistory)
	require.NotNil(t, cmd)

	msg := cmd()
	assert.Equal(t, []string{"1 + 1"}, eval.inputs)

	model, _ := m.Update(msg)
	m = model.(Model)
	assert.False(t, m.running)
	require.Len(t, m.history, 1)
	assert.Equal(t, historyEntry{input: "1 + 1", output: "2"}, m.history[0])
}

func TestUpdate_ReportsErrors(t *testing.T) {
	eval := &fakeEvaluator{err: errors.New("unknown property")}
	m, cmd := enter(t, New(eval, "test"), "b.nope")

	model, _ := m.Update(cmd())
	m = model.(Model)
	require.Len(t, m.history, 1)
	assert.True(t, m.history[0].isErr)
	assert.Equal(t, "unknown property", m.history[0].output)
}

func TestUpdate_StatementsPrintOK(t *testing.T) {
	m, cmd := enter(t, New(&fakeEvaluator{}, "test"), "x = 1")
	model, _ := m.Update(cmd())
	assert.Equal(t, "ok", model.(Model).history[0].output)
}

func TestUpdate_InputHeldWhileRunning(t *testing.T) {
	m, _ := enter(t, New(&fakeEvaluator{}, "test"), "while true do end")
	require.True(t, m.running)

	cancelled := false
	m.cancel = func() { cancelled = true }

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = model.(Model)
	assert.Nil(t, cmd)
	assert.True(t, cancelled, "ctrl+c interrupts the evaluation")
	assert.False(t, m.quitting)
}

func TestUpdate_QuitCommand(t *testing.T) {
	m, cmd := enter(t, New(&fakeEvaluator{}, "test"), ":quit")

	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok, "expected tea.Quit")
}

func TestUpdate_Commands(t *testing.T) {
	m, cmd := enter(t, New(&fakeEvaluator{}, "test"), ":help")
	assert.Nil(t, cmd)
	assert.True(t, m.showHelp)

	m, _ = enter(t, m, ":nope")
	require.Len(t, m.history, 1)
	assert.True(t, m.history[0].isErr)

	m, _ = enter(t, m, ":clear")
	assert.Empty(t, m.history)
	assert.Empty(t, m.cmdHistory, "commands are not recorded as input")
}

func TestUpdate_HistoryNavigation(t *testing.T) {
	m := New(&fakeEvaluator{}, "test")
	m.cmdHistory = []string{"a = 1", "a"}

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = model.(Model)
	assert.Equal(t, "a", m.textInput.Value())

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = model.(Model)
	assert.Equal(t, "a = 1", m.textInput.Value())

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = model.(Model)
	assert.Equal(t, "a", m.textInput.Value())

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = model.(Model)
	assert.Empty(t, m.textInput.Value())
}

func TestComplete(t *testing.T) {
	m := New(&fakeEvaluator{globals: []string{"button", "buffer", "print"}}, "test")

	m.textInput.SetValue("x = pri")
	m = m.complete()
	assert.Equal(t, "x = print", m.textInput.Value())

	m.textInput.SetValue("bu")
	m = m.complete()
	assert.Equal(t, "bu", m.textInput.Value())
	require.Len(t, m.history, 1)
	assert.Equal(t, "Completions: button, buffer", m.history[0].output)
}

func TestView(t *testing.T) {
	m := New(&fakeEvaluator{}, "1.2.3")
	assert.Equal(t, "Loading...", m.View())

	model, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = model.(Model)
	m.history = []historyEntry{{input: "1", output: "1"}}
	out := m.View()
	assert.Contains(t, out, "facet REPL")
	assert.Contains(t, out, "v1.2.3")
	assert.Contains(t, out, "→ 1")
}
