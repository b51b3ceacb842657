package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/mpi-runtime/attr"
	"github.com/wippyai/mpi-runtime/datatype"
	"github.com/wippyai/mpi-runtime/runtime"
	"github.com/wippyai/mpi-runtime/typerep"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#87CEEB"))

	handleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func renderReport(p *runtime.Process) string {
	var b strings.Builder

	s := p.Stats()
	b.WriteString(titleStyle.Render("MPI Objects"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "keyvals: %d  datatypes: %d  representations: %d  hooks bound: %v\n\n",
		s.Keyvals, s.Datatypes, s.Representations, s.HooksBound)

	b.WriteString(headerStyle.Render("Keyvals"))
	b.WriteString("\n")
	kvs := p.Keyvals()
	if len(kvs) == 0 {
		b.WriteString(helpStyle.Render("  none"))
		b.WriteString("\n")
	}
	for _, kv := range kvs {
		b.WriteString("  ")
		b.WriteString(formatKeyval(kv))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(headerStyle.Render("Pair datatypes"))
	b.WriteString("\n")
	for _, h := range datatype.Pairs() {
		info, err := p.DatatypeInfo(h)
		if err != nil {
			continue
		}
		b.WriteString("  ")
		b.WriteString(formatDatatype(info))
		b.WriteString("\n")
	}

	derived := p.Datatypes()
	if len(derived) > 0 {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render("Derived datatypes"))
		b.WriteString("\n")
		for _, info := range derived {
			b.WriteString("  ")
			b.WriteString(formatDatatype(info))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func formatKeyval(kv attr.Info) string {
	state := "live"
	if kv.WasFreed {
		state = "freed"
	}
	return fmt.Sprintf("%s refs=%d %s extra=%v",
		handleStyle.Render(kv.Handle.String()), kv.RefCount, state, kv.ExtraState)
}

func formatDatatype(info runtime.DatatypeInfo) string {
	if !info.Committed && info.Rep == typerep.TypeNull {
		return fmt.Sprintf("%-20s %s", info.Name, helpStyle.Render("uncommitted"))
	}
	return fmt.Sprintf("%-20s %s rep=%s blocks=%d",
		info.Name, handleStyle.Render(info.Handle.String()), info.Rep, info.NumContigBlocks)
}
