package render

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/matzehuels/extractgym/pkg/egraph"
	"github.com/matzehuels/extractgym/pkg/extract"
)

// tableStyle is borderless and header-less so that every row is one line.
var tableStyle = func() table.Style {
	s := table.StyleDefault
	s.Name = "selection"
	s.Options = table.OptionsNoBordersAndSeparators
	s.Box.PaddingLeft = ""
	s.Box.PaddingRight = "  "
	s.Format.Header = text.FormatDefault
	return s
}()

// Table dumps sel in selection order, one line per entry, with columns
// class, node, family, cost and children. roots is ignored: the table shows
// every entry whether or not it is reachable.
//
// An entry whose node is unknown to g is shown with family "?" and no cost.
func Table(g *egraph.Graph, sel *extract.Selection, _ []egraph.ClassID) []string {
	if sel.Len() == 0 {
		return nil
	}

	w := table.NewWriter()
	w.SetStyle(tableStyle)
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
	})

	for _, class := range sel.Classes() {
		id, _ := sel.Choice(class)
		n, ok := g.Node(id)
		if !ok {
			w.AppendRow(table.Row{cell(string(class)), cell(string(id)), "?", "-", "[]"})
			continue
		}
		w.AppendRow(table.Row{
			cell(string(class)),
			cell(string(id)),
			n.Op.Family(),
			egraph.FormatCost(n.Cost),
			children(n.Children),
		})
	}

	lines := strings.Split(w.Render(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return lines
}

func children(ids []egraph.NodeID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = cell(string(id))
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, " "))
}

// cell keeps identifiers on a single line.
func cell(s string) string {
	return strings.NewReplacer("\n", `\n`, "\r", `\r`).Replace(s)
}
