package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/mpi-runtime/attr"
	"github.com/wippyai/mpi-runtime/datatype"
	"github.com/wippyai/mpi-runtime/handle"
	"github.com/wippyai/mpi-runtime/runtime"
)

type modelState int

const (
	stateKeyvals modelState = iota
	stateDatatypes
	stateInputExtra
)

type interactiveModel struct {
	err      error
	p        *runtime.Process
	status   string
	keyvals  []attr.Info
	types    []runtime.DatatypeInfo
	input    textinput.Model
	selected int
	state    modelState
}

func newInteractiveModel(p *runtime.Process) *interactiveModel {
	m := &interactiveModel{p: p, state: stateKeyvals}
	m.refresh()
	return m
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) refresh() {
	m.keyvals = m.p.Keyvals()

	m.types = m.types[:0]
	for _, h := range datatype.Pairs() {
		if info, err := m.p.DatatypeInfo(h); err == nil {
			m.types = append(m.types, info)
		}
	}
	m.types = append(m.types, m.p.Datatypes()...)

	if n := m.rows(); m.selected >= n {
		m.selected = max(n-1, 0)
	}
}

func (m *interactiveModel) rows() int {
	if m.state == stateDatatypes {
		return len(m.types)
	}
	return len(m.keyvals)
}

func (m *interactiveModel) report(msg string, err error) {
	m.err = err
	m.status = msg
	m.refresh()
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.state == stateInputExtra {
		switch key.String() {
		case "enter":
			var kv handle.Handle
			err := m.p.CreateWinKeyval(attr.DupFn, attr.NullDeleteFn, &kv, m.input.Value())
			m.state = stateKeyvals
			m.report("created "+kv.String(), err)
			return m, nil
		case "esc":
			m.state = stateKeyvals
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "tab":
		if m.state == stateKeyvals {
			m.state = stateDatatypes
		} else {
			m.state = stateKeyvals
		}
		m.selected = 0
		m.refresh()

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.selected < m.rows()-1 {
			m.selected++
		}

	case "n":
		if m.state == stateKeyvals {
			ti := textinput.New()
			ti.Placeholder = "extra state"
			ti.Prompt = "extra: "
			ti.Width = 40
			ti.Focus()
			m.input = ti
			m.state = stateInputExtra
		}

	case "x":
		m.free()

	case "c":
		if m.state == stateDatatypes && m.selected < len(m.types) {
			h := m.types[m.selected].Handle
			m.report("committed "+m.types[m.selected].Name, m.p.CommitDatatypeRepresentation(h))
		}

	case "d":
		if m.state == stateDatatypes && m.selected < len(m.types) {
			var dt handle.Handle
			err := m.p.TypeContiguous(2, m.types[m.selected].Handle, &dt)
			m.report("derived "+dt.String(), err)
		}
	}

	return m, nil
}

func (m *interactiveModel) free() {
	switch m.state {
	case stateKeyvals:
		if m.selected >= len(m.keyvals) {
			return
		}
		kv := m.keyvals[m.selected].Handle
		name := kv.String()
		m.report("freed "+name, m.p.FreeWinKeyval(&kv))

	case stateDatatypes:
		if m.selected >= len(m.types) {
			return
		}
		info := m.types[m.selected]
		if info.Builtin {
			m.report("released "+info.Name, m.p.FreeDatatypeRepresentation(info.Handle))
			return
		}
		dt := info.Handle
		m.report("freed "+info.Name, m.p.TypeFree(&dt))
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	s := m.p.Stats()
	b.WriteString(titleStyle.Render("MPI Objects"))
	fmt.Fprintf(&b, " keyvals %d • datatypes %d • hooks bound %v\n\n", s.Keyvals, s.Datatypes, s.HooksBound)

	switch m.state {
	case stateKeyvals, stateInputExtra:
		b.WriteString(headerStyle.Render("Keyvals"))
		b.WriteString("  datatypes\n\n")
		if len(m.keyvals) == 0 {
			b.WriteString(helpStyle.Render("  no keyvals"))
			b.WriteString("\n")
		}
		for i, kv := range m.keyvals {
			m.writeRow(&b, i, formatKeyval(kv))
		}

	case stateDatatypes:
		b.WriteString("keyvals  ")
		b.WriteString(headerStyle.Render("Datatypes"))
		b.WriteString("\n\n")
		for i, info := range m.types {
			m.writeRow(&b, i, formatDatatype(info))
		}
	}

	b.WriteString("\n")
	if m.state == stateInputExtra {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(resultStyle.Render(m.status))
		b.WriteString("\n")
	}

	switch m.state {
	case stateKeyvals:
		b.WriteString(helpStyle.Render("↑/↓ select • n new • x free • tab datatypes • q quit"))
	case stateDatatypes:
		b.WriteString(helpStyle.Render("↑/↓ select • c commit • d derive • x free • tab keyvals • q quit"))
	case stateInputExtra:
		b.WriteString(helpStyle.Render("enter create • esc cancel"))
	}
	return b.String()
}

func (m *interactiveModel) writeRow(b *strings.Builder, i int, row string) {
	if i == m.selected {
		b.WriteString(selectedStyle.Render("> " + row))
	} else {
		b.WriteString("  " + row)
	}
	b.WriteString("\n")
}

func runInteractive(p *runtime.Process) error {
	prog := tea.NewProgram(newInteractiveModel(p), tea.WithAltScreen())
	_, err := prog.Run()
	return err
}
