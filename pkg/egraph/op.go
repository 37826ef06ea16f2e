package egraph

import (
	"fmt"
	"strings"
)

// OpKind is the operator family decoded from a node label.
type OpKind int

const (
	// OpOther is any label without a dedicated family.
	OpOther OpKind = iota
	// OpVar is a variable leaf, e.g. Var("x").
	OpVar
	OpAdd
	OpOr
	OpAnd
	OpNot
	// OpMul may carry a constant factor, e.g. Mul(_, Num(3)).
	OpMul
	// OpShl and OpShr may carry a shift amount, e.g. Shl(_,4).
	OpShl
	OpShr
	// OpRoot names a program output, e.g. RootNode("out").
	OpRoot
)

var kindNames = map[OpKind]string{
	OpOther: "other",
	OpVar:   "var",
	OpAdd:   "add",
	OpOr:    "or",
	OpAnd:   "and",
	OpNot:   "not",
	OpMul:   "mul",
	OpShl:   "shl",
	OpShr:   "shr",
	OpRoot:  "root",
}

// String returns the lower-case family name.
func (k OpKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("OpKind(%d)", int(k))
}

// prefixes lists label prefixes in match order.
var prefixes = []struct {
	prefix string
	kind   OpKind
}{
	{"Add", OpAdd},
	{"Not", OpNot},
	{"Or", OpOr},
	{"And", OpAnd},
	{"Mul", OpMul},
	{"Shl", OpShl},
	{"Shr", OpShr},
	{"RootNode", OpRoot},
}

// infix maps binary families to their operator symbol.
var infix = map[OpKind]string{
	OpAdd: "+",
	OpOr:  "|",
	OpAnd: "&",
	OpMul: "*",
	OpShl: "<<",
	OpShr: ">>",
}

// Op is a decoded operator label.
//
// Name holds the variable name for OpVar and, when the node has operands, the
// output name for OpRoot.
// Literal holds the constant factor for OpMul and the shift amount for
// OpShl/OpShr. Both are empty when the label carries no such payload.
type Op struct {
	Kind    OpKind
	Raw     string
	Name    string
	Literal string
}

// DecodeOp interprets label for a node with the given number of children.
// Only childless Var( labels decode to OpVar; a Var label with operands is
// treated as an opaque operator. A childless Var( label without the closing
// parenthesis is still a variable leaf but has no name of its own.
func DecodeOp(label string, arity int) Op {
	op := Op{Kind: OpOther, Raw: label}

	if arity == 0 && strings.HasPrefix(label, "Var(") {
		op.Kind = OpVar
		if strings.HasSuffix(label, ")") {
			op.Name = strings.Trim(label[len("Var("):len(label)-1], `"`)
		}
		return op
	}

	for _, p := range prefixes {
		if strings.HasPrefix(label, p.prefix) {
			op.Kind = p.kind
			break
		}
	}

	switch op.Kind {
	case OpMul:
		op.Literal, _ = between(label, "Num(", ")")
	case OpShl, OpShr:
		if amount, ok := between(label, ",", ")"); ok {
			op.Literal = strings.TrimSpace(amount)
		}
	case OpRoot:
		if arity > 0 {
			op.Name, _ = between(label, `"`, `"`)
		}
	}
	return op
}

// between returns the text after the first occurrence of open and before the
// next occurrence of close.
func between(s, open, close string) (string, bool) {
	start := strings.Index(s, open)
	if start < 0 {
		return "", false
	}
	rest := s[start+len(open):]
	end := strings.Index(rest, close)
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// Family returns the family label shown in tabular output.
func (o Op) Family() string { return o.Kind.String() }

// IsVar reports whether the operator is a variable leaf.
func (o Op) IsVar() bool { return o.Kind == OpVar }

// Symbol returns the name under which a node decoded as o is referenced.
// Variable leaves are referenced by their own name, everything else by the
// synthetic name (the node ID). An unterminated Var( leaf uses the synthetic
// name too.
func (o Op) Symbol(synthetic string) string {
	if o.Kind == OpVar && strings.HasSuffix(o.Raw, ")") {
		return o.Name
	}
	return synthetic
}

// Target returns the left-hand side an assignment for o is written to.
// RootNode labels with operands and a quoted output name assign to that
// name. A childless RootNode is an ordinary leaf.
func (o Op) Target(synthetic string) string {
	if o.Kind == OpRoot && o.Name != "" {
		return o.Name
	}
	return synthetic
}

// Statement renders the assignment for a node decoded as o, whose operands
// have already been named args. It returns false for variable leaves, which
// are substituted at their use sites instead of assigned.
func (o Op) Statement(name string, args []string) (string, bool) {
	if o.Kind == OpVar {
		return "", false
	}
	lhs := o.Target(name)
	if len(args) == 0 {
		return lhs + " = " + o.Raw, true
	}

	var rhs string
	switch o.Kind {
	case OpAdd, OpOr, OpAnd:
		rhs = chain(args, infix[o.Kind])
	case OpNot:
		if len(args) == 1 {
			rhs = "~" + args[0]
		} else {
			rhs = "~(" + strings.Join(args, ", ") + ")"
		}
	case OpMul:
		if o.Literal != "" {
			rhs = args[0] + " * " + o.Literal
		} else {
			rhs = chain(args, "*")
		}
	case OpShl, OpShr:
		if len(args) == 2 {
			rhs = chain(args, infix[o.Kind])
		} else {
			amount := o.Literal
			if amount == "" {
				amount = "1"
			}
			rhs = args[0] + " " + infix[o.Kind] + " " + amount
		}
	case OpRoot:
		rhs = args[0]
	default:
		rhs = o.Raw + "(" + strings.Join(args, ", ") + ")"
	}
	return lhs + " = " + rhs, true
}

func chain(args []string, sym string) string {
	return strings.Join(args, " "+sym+" ")
}
