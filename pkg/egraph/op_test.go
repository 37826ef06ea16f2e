package egraph

import "testing"

func TestDecodeOp(t *testing.T) {
	tests := []struct {
		name    string
		label   string
		arity   int
		kind    OpKind
		opName  string
		literal string
	}{
		{"quoted var", `Var("x")`, 0, OpVar, "x", ""},
		{"bare var", "Var(y)", 0, OpVar, "y", ""},
		{"var with children is opaque", `Var("x")`, 1, OpOther, "", ""},
		{"var without close paren", `Var("x"`, 0, OpVar, "", ""},
		{"var without close paren with children", `Var("x"`, 1, OpOther, "", ""},
		{"add", "Add", 2, OpAdd, "", ""},
		{"or", "Or", 2, OpOr, "", ""},
		{"and", "And", 2, OpAnd, "", ""},
		{"not", "Not", 1, OpNot, "", ""},
		{"mul with constant", "Mul(_, Num(3))", 1, OpMul, "", "3"},
		{"mul plain", "Mul", 2, OpMul, "", ""},
		{"shl amount", "Shl(_,4)", 1, OpShl, "", "4"},
		{"shr amount spaced", "Shr(_, 2 )", 1, OpShr, "", "2"},
		{"shl no amount", "Shl", 1, OpShl, "", ""},
		{"root", `RootNode("out")`, 1, OpRoot, "out", ""},
		{"root unquoted", "RootNode", 1, OpRoot, "", ""},
		{"root leaf has no output name", `RootNode("out")`, 0, OpRoot, "", ""},
		{"other", "Xor", 2, OpOther, "", ""},
		{"other leaf", "Num(7)", 0, OpOther, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := DecodeOp(tt.label, tt.arity)
			if op.Kind != tt.kind {
				t.Errorf("DecodeOp(%q).Kind = %v, want %v", tt.label, op.Kind, tt.kind)
			}
			if op.Name != tt.opName {
				t.Errorf("DecodeOp(%q).Name = %q, want %q", tt.label, op.Name, tt.opName)
			}
			if op.Literal != tt.literal {
				t.Errorf("DecodeOp(%q).Literal = %q, want %q", tt.label, op.Literal, tt.literal)
			}
			if op.Raw != tt.label {
				t.Errorf("DecodeOp(%q).Raw = %q", tt.label, op.Raw)
			}
		})
	}
}

func TestOpStatement(t *testing.T) {
	tests := []struct {
		name   string
		label  string
		args   []string
		want   string
		wantOK bool
	}{
		{"var leaf", `Var("x")`, nil, "", false},
		{"unterminated var leaf", `Var(x`, nil, "", false},
		{"root leaf", `RootNode("out")`, nil, `n = RootNode("out")`, true},
		{"other leaf", "Num(7)", nil, "n = Num(7)", true},
		{"add binary", "Add", []string{"a", "b"}, "n = a + b", true},
		{"add ternary", "Add", []string{"a", "b", "c"}, "n = a + b + c", true},
		{"or binary", "Or", []string{"a", "b"}, "n = a | b", true},
		{"and unary", "And", []string{"a"}, "n = a", true},
		{"not unary", "Not", []string{"a"}, "n = ~a", true},
		{"not binary", "Not", []string{"a", "b"}, "n = ~(a, b)", true},
		{"mul constant", "Mul(_, Num(3))", []string{"c0"}, "n = c0 * 3", true},
		{"mul constant ignores extra children", "Mul(_, Num(3))", []string{"c0", "c1"}, "n = c0 * 3", true},
		{"mul binary", "Mul", []string{"a", "b"}, "n = a * b", true},
		{"mul ternary", "Mul", []string{"a", "b", "c"}, "n = a * b * c", true},
		{"shl binary", "Shl", []string{"a", "b"}, "n = a << b", true},
		{"shl amount", "Shl(_,4)", []string{"c0"}, "n = c0 << 4", true},
		{"shr default amount", "Shr", []string{"c0"}, "n = c0 >> 1", true},
		{"root named", `RootNode("out")`, []string{"c0"}, "out = c0", true},
		{"root fallback", "RootNode", []string{"c0"}, "n = c0", true},
		{"other with children", "Xor", []string{"a", "b"}, "n = Xor(a, b)", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := DecodeOp(tt.label, len(tt.args))
			got, ok := op.Statement("n", tt.args)
			if ok != tt.wantOK {
				t.Fatalf("Statement() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Statement() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOpSymbolAndTarget(t *testing.T) {
	v := DecodeOp(`Var("x")`, 0)
	if got := v.Symbol("n1"); got != "x" {
		t.Errorf("Symbol() = %q, want %q", got, "x")
	}

	r := DecodeOp(`RootNode("out")`, 1)
	if got := r.Symbol("n2"); got != "n2" {
		t.Errorf("Symbol() = %q, want %q", got, "n2")
	}
	if got := r.Target("n2"); got != "out" {
		t.Errorf("Target() = %q, want %q", got, "out")
	}

	rl := DecodeOp(`RootNode("out")`, 0)
	if got := rl.Target("n4"); got != "n4" {
		t.Errorf("childless Target() = %q, want %q", got, "n4")
	}

	u := DecodeOp(`Var(x`, 0)
	if got := u.Symbol("n5"); got != "n5" {
		t.Errorf("unterminated var Symbol() = %q, want %q", got, "n5")
	}

	a := DecodeOp("Add", 2)
	if got := a.Target("n3"); got != "n3" {
		t.Errorf("Target() = %q, want %q", got, "n3")
	}
}

func TestOpKindString(t *testing.T) {
	if got := OpMul.String(); got != "mul" {
		t.Errorf("OpMul.String() = %q, want %q", got, "mul")
	}
	if got := OpKind(99).String(); got != "OpKind(99)" {
		t.Errorf("OpKind(99).String() = %q", got)
	}
}
