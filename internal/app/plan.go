package app

import (
	"fmt"
	"io"
	"strings"

	"relayctl/internal/command"
	"relayctl/internal/config"
	"relayctl/internal/orchestrator"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func renderPlan(w io.Writer, exp config.Experiment, plan *orchestrator.Plan) {
	fmt.Fprintf(w, "%d node(s), %d relay(s), shell %s\n", exp.Nodes, exp.Relays, exp.Shell)
	fmt.Fprintf(w, "relay settle %s, node settle %s, readiness %s\n\n", exp.RelaySettle(), exp.NodeSettle(), exp.Readiness)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"RELAY", "HOST", "NODE IDS", "COUNT"})
	for _, a := range plan.Table.Assignments() {
		t.AppendRow(table.Row{a.Index, a.Relay.Key(), a.Range.String(), a.Range.Size()})
	}
	for i := len(plan.Table.Assignments()); i < plan.Table.Relays(); i++ {
		t.AppendRow(table.Row{i, text.FgRed.Sprint("missing"), "-", 0})
	}
	t.Render()

	writeScripts(w, "relay", exp.Shell, plan.RelayScripts)
	writeScripts(w, "node", exp.Shell, plan.NodeScripts)
}

func writeScripts(w io.Writer, role string, shell config.Protocol, scripts []command.Script) {
	for _, s := range scripts {
		fmt.Fprintf(w, "\n# %s session: %s %s\n", role, shell, s.Address)
		fmt.Fprint(w, strings.TrimRight(s.Render(), "\n")+"\n")
	}
}
