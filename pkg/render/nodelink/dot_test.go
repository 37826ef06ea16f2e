package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/extractgym/pkg/egraph"
	"github.com/matzehuels/extractgym/pkg/extract"
)

func testGraph(t *testing.T) (*egraph.Graph, *extract.Selection) {
	t.Helper()
	g := egraph.New()
	for _, n := range []egraph.Node{
		{ID: "x", Label: `Var("x")`, Class: "cx", Cost: 1},
		{ID: "neg", Label: "Not", Class: "cn", Cost: 1, Children: []egraph.NodeID{"x"}},
		{ID: "sum", Label: "Add", Class: "cs", Cost: 2, Children: []egraph.NodeID{"neg", "x"}},
	} {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}
	g.SetRoots([]egraph.ClassID{"cs"})
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate(): %v", err)
	}

	sel := extract.NewSelection()
	sel.Choose("cx", "x")
	sel.Choose("cn", "neg")
	sel.Choose("cs", "sum")
	return g, sel
}

func TestToDOT_Basic(t *testing.T) {
	g, sel := testGraph(t)
	dot := ToDOT(g, sel, g.Roots(), Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	for _, want := range []string{`"cs" -> "cn";`, `"cs" -> "cx";`, `"cn" -> "cx";`} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing edge %s", want)
		}
	}
	// the shared class is drawn once
	if n := strings.Count(dot, `"cx" [`); n != 1 {
		t.Errorf("class cx declared %d times, want 1", n)
	}
	if !strings.Contains(dot, "penwidth=3") {
		t.Error("ToDOT() root not highlighted")
	}
	if !strings.Contains(dot, "lightyellow") {
		t.Error("ToDOT() variable leaf not highlighted")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	g, sel := testGraph(t)
	dot := ToDOT(g, sel, g.Roots(), Options{Detailed: true})

	if !strings.Contains(dot, `class: cs\nnode: sum\ncost: 2`) {
		t.Errorf("ToDOT() detailed output missing metadata:\n%s", dot)
	}
}

func TestToDOT_Missing(t *testing.T) {
	g, _ := testGraph(t)
	sel := extract.NewSelection()
	sel.Choose("cs", "sum")
	sel.Choose("cn", "neg")

	dot := ToDOT(g, sel, g.Roots(), Options{})
	if n := strings.Count(dot, "unknown_cx"); n != 1 {
		t.Errorf("placeholder declared %d times, want 1:\n%s", n, dot)
	}
	if !strings.Contains(dot, "dashed") {
		t.Error("ToDOT() placeholder missing dashed style")
	}
}

func TestFmtLabel_Simple(t *testing.T) {
	n := &egraph.Node{ID: "n1", Label: "Mul(_, Num(3))", Class: "c1", Cost: 4}
	if got := fmtLabel("c1", n, false); got != "Mul(_, Num(3))" {
		t.Errorf("fmtLabel() simple mode = %q, want %q", got, "Mul(_, Num(3))")
	}
}

func TestRenderSVG(t *testing.T) {
	g, sel := testGraph(t)
	svg, err := RenderSVG(context.Background(), ToDOT(g, sel, g.Roots(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output is not SVG")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 20.00" width="10" height="20"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %q, want %q", got, want)
	}
}
