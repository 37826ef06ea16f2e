// Package render turns a validated selection into text.
//
// # Modes
//
// Three renderers share the signature func(g, sel, roots) []string:
//
//   - [Table]: one row per selection entry (class, node, family, cost,
//     children), in selection order. A direct dump that never traverses.
//   - [Tree]: one S-expression per root with shared classes re-printed at
//     every occurrence, mirroring tree cost.
//   - [Assign]: single-assignment form. Every distinct class is emitted once,
//     after its operands, mirroring DAG cost.
//
// [Mode] names them for the command line; [Render] dispatches on a Mode.
//
//	lines, err := render.Render(render.ModeAssign, g, sel, g.Roots())
//
// # Placeholders
//
// Renderers are best-effort views and never fail. A class without a usable
// choice renders as unknown_<class>; a class reached again while it is
// still being rendered renders as cycle_<class>. Run [extract.Check] first
// to rule both out.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage draws the selected DAG with Graphviz.
//
// [extract.Check]: github.com/matzehuels/extractgym/pkg/extract.Check
// [nodelink]: github.com/matzehuels/extractgym/pkg/render/nodelink
package render
