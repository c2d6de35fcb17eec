package interp

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/havrydotdev/golox/ast"
	"github.com/havrydotdev/golox/parser"
	"github.com/havrydotdev/golox/resolver"
	"github.com/havrydotdev/golox/scanner"
	"github.com/havrydotdev/golox/token"
)

func compile(t *testing.T, in *Interpreter, source string) []ast.Stmt {
	t.Helper()

	tokens, errs := scanner.New(source).Scan()
	if len(errs) != 0 {
		t.Fatalf("scan: %v", errs)
	}

	stmts, errs := parser.New(tokens).Parse()
	if len(errs) != 0 {
		t.Fatalf("parse: %v", errs)
	}

	if errs := resolver.New(in).Resolve(stmts); len(errs) != 0 {
		t.Fatalf("resolve: %v", errs)
	}

	return stmts
}

func run(t *testing.T, source string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	in := New(&Options{Stdout: &out})
	err := in.Interpret(compile(t, in, source))

	return out.String(), err
}

func lines(s ...string) string {
	return strings.Join(s, "\n") + "\n"
}

func TestPrograms(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"arithmetic", "print 1 + 2 * 3; print (1 + 2) * 3; print 7 / 2; print -(3 - 5);", lines("7", "9", "3.5", "2")},
		{"float division", "print 1 / 3 * 3; print 10 / 4;", lines("1", "2.5")},
		{"concat", `print "a" + "b";`, lines("ab")},
		{"comparison", "print 1 < 2; print 2 <= 1; print 3 > 3; print 3 >= 3;", lines("true", "false", "false", "true")},
		{"equality", `print 1 == 1; print "a" == "a"; print nil == nil; print 1 == "1"; print nil != false;`, lines("true", "true", "true", "false", "true")},
		{"truthiness", `print !nil; print !0; print !""; print !false;`, lines("true", "false", "false", "true")},
		{"logical returns operand", `print nil or "x"; print "a" and "b"; print false and crash(); print 1 or crash();`, lines("x", "b", "false", "1")},
		{"shadowing", `var a = "global"; { var a = "local"; print a; } print a;`, lines("local", "global")},
		{"for loop", "for (var i = 0; i < 3; i = i + 1) print i;", lines("0", "1", "2")},
		{"while loop", "var i = 3; while (i > 0) { print i; i = i - 1; }", lines("3", "2", "1")},
		{"if else", `if (nil) print "yes"; else print "no"; if (0) print "zero";`, lines("no", "zero")},
		{"assignment value", "var a; var b; a = b = 4; print a; print b;", lines("4", "4")},
		{"uninitialized var", "var a; print a;", lines("nil")},
		{"redeclare global", "var a = 1; var a = 2; print a;", lines("2")},
		{
			"closure counter",
			`fun makeCounter() { var i = 0; fun inc() { i = i + 1; return i; } return inc; }
			 var c = makeCounter(); print c(); print c();`,
			lines("1", "2"),
		},
		{
			"closure is lexical",
			`var a = "global";
			 { fun show() { print a; } show(); var a = "block"; show(); }`,
			lines("global", "global"),
		},
		{
			"recursion",
			"fun fib(n) { if (n < 2) return n; return fib(n - 1) + fib(n - 2); } print fib(15);",
			lines("610"),
		},
		{"return from nested block", "fun f() { while (true) { { return 1; } } } print f();", lines("1")},
		{"implicit nil return", "fun f() {} print f();", lines("nil")},
		{"display", "fun f() {} class A {} print f; print clock; print A; print A();", lines("<fn f>", "<native fn>", "A", "A instance")},
		{
			"fields and methods",
			`class P { init(x) { this.x = x; } get() { return this.x; } }
			 var p = P(3); print p.get(); p.x = 4; print p.get();`,
			lines("3", "4"),
		},
		{
			"field shadows method",
			`class A { m() { return "method"; } } var a = A(); a.m = "field"; print a.m;`,
			lines("field"),
		},
		{
			"bound method keeps this",
			`class A { init(n) { this.n = n; } m() { return this.n; } }
			 var m = A("first").m; print m();`,
			lines("first"),
		},
		{
			"inherited methods",
			`class A { hi() { return "A.hi"; } } class B < A {} class C < B {} print C().hi();`,
			lines("A.hi"),
		},
		{
			"super call",
			`class A { m() { return "A"; } } class B < A { m() { return "B" + super.m(); } } print B().m();`,
			lines("BA"),
		},
		{
			"initializer bare return",
			`class A { init() { this.v = 1; return; this.v = 2; } } var a = A(); print a.v; print a.init() == a;`,
			lines("1", "true"),
		},
		{
			"inherited initializer arity",
			`class A { init(a, b) { this.s = a + b; } } class B < A {} print B(1, 2).s;`,
			lines("3"),
		},
		{"clock is a number", "print clock() > 0;", lines("true")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.source)
			if err != nil {
				t.Fatalf("runtime error: %v", err)
			}

			if got != tt.want {
				t.Errorf("got\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
		output string
	}{
		{"negate string", `-"a";`, "Operand must be a number.\n[line 1]", ""},
		{"subtract nil", "print 1 - nil;", "Operand must be a number.\n[line 1]", ""},
		{"compare strings", `print "a" < "b";`, "Operand must be a number.\n[line 1]", ""},
		{"mixed plus", `print 1 + "a";`, "Operands must be two numbers or two strings.\n[line 1]", ""},
		{"undefined variable", "print 1;\nprint missing;\nprint 2;", "Undefined variable 'missing'.\n[line 2]", "1\n"},
		{"undefined assign", "missing = 1;", "Undefined variable 'missing'.\n[line 1]", ""},
		{"global self reference", "var a = a;", "Undefined variable 'a'.\n[line 1]", ""},
		{"call non callable", `"str"();`, "Can only call functions and classes.\n[line 1]", ""},
		{"arity", "fun f(a, b) {} f(1);", "Expected 2 arguments but got 1.\n[line 1]", ""},
		{"class arity", "class A { init(x) {} } A();", "Expected 1 arguments but got 0.\n[line 1]", ""},
		{"get on non instance", "var a = 1; a.b;", "Only instances have properties.\n[line 1]", ""},
		{"set on non instance", "var a = 1; a.b = 2;", "Only instances have fields.\n[line 1]", ""},
		{"undefined property", "class A {} A().missing;", "Undefined property 'missing'.\n[line 1]", ""},
		{"bad superclass", "var NotClass = 1; class A < NotClass {}", "Superclass must be a class.\n[line 1]", ""},
		{"undefined super method", "class A {} class B < A { m() { return super.m(); } } B().m();", "Undefined property 'm'.\n[line 1]", ""},
		{"stack overflow", "fun f() { f(); } f();", "Stack overflow.\n[line 1]", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.source)

			var rerr *RuntimeError
			if !errors.As(err, &rerr) {
				t.Fatalf("got %v, want *RuntimeError", err)
			}

			if err.Error() != tt.want {
				t.Errorf("got %q, want %q", err.Error(), tt.want)
			}

			if out != tt.output {
				t.Errorf("output: got %q, want %q", out, tt.output)
			}
		})
	}
}

func TestStateSurvivesRuntimeError(t *testing.T) {
	var out bytes.Buffer
	in := New(&Options{Stdout: &out})

	if err := in.Interpret(compile(t, in, `var a = "kept"; { var b = 1; b.x; }`)); err == nil {
		t.Fatalf("expected a runtime error")
	}

	if in.environment != in.globals {
		t.Fatalf("current environment not restored after error")
	}

	if err := in.Interpret(compile(t, in, "print a;")); err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if got := out.String(); got != "kept\n" {
		t.Errorf("got %q", got)
	}
}

func TestCallDepthRecovers(t *testing.T) {
	var out bytes.Buffer
	in := New(&Options{Stdout: &out, MaxCallDepth: 50})

	if err := in.Interpret(compile(t, in, "fun deep(n) { if (n > 0) deep(n - 1); } deep(100);")); err == nil {
		t.Fatalf("expected stack overflow")
	}

	if in.depth != 0 {
		t.Fatalf("call depth not unwound: %d", in.depth)
	}

	if err := in.Interpret(compile(t, in, "deep(10); print \"ok\";")); err != nil {
		t.Fatalf("shallow call failed: %v", err)
	}

	if got := out.String(); got != "ok\n" {
		t.Errorf("got %q", got)
	}
}

func TestMaxCallDepthIsCapped(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		want  int
	}{
		{"default", 0, DefaultMaxCallDepth},
		{"negative", -5, DefaultMaxCallDepth},
		{"explicit", 64, 64},
		{"at limit", MaxCallDepthLimit, MaxCallDepthLimit},
		{"above limit", 1_000_000, MaxCallDepthLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(&Options{MaxCallDepth: tt.depth}).maxDepth; got != tt.want {
				t.Errorf("maxDepth = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHugeCallDepthStillOverflowsCleanly(t *testing.T) {
	if testing.Short() {
		t.Skip("recurses to MaxCallDepthLimit")
	}

	in := New(&Options{Stdout: &bytes.Buffer{}, MaxCallDepth: 1_000_000})

	err := in.Interpret(compile(t, in, "fun f() { f(); } f();"))

	var rerr *RuntimeError
	if !errors.As(err, &rerr) || rerr.Message != "Stack overflow." {
		t.Fatalf("got %v, want Stack overflow.", err)
	}

	if in.depth != 0 {
		t.Errorf("call depth not unwound: %d", in.depth)
	}
}

func TestNativeFunction(t *testing.T) {
	double := NewNativeFunction(1, func(_ *Interpreter, args []any) (any, error) {
		return args[0].(float64) * 2, nil
	})

	if double.Arity() != 1 {
		t.Errorf("Arity() = %d, want 1", double.Arity())
	}

	got, err := double.Call(New(nil), []any{21.0})
	if err != nil || got != 42.0 {
		t.Errorf("Call = %v, %v, want 42", got, err)
	}

	if s := double.String(); s != "<native fn>" {
		t.Errorf("String() = %q", s)
	}
}

func TestMethodAccessBindsFreshly(t *testing.T) {
	var out bytes.Buffer
	in := New(&Options{Stdout: &out})

	if err := in.Interpret(compile(t, in, "class A { m() {} } var a = A(); var m1 = a.m; var m2 = a.m; print m1 == m2;")); err != nil {
		t.Fatal(err)
	}

	if got := out.String(); got != "false\n" {
		t.Errorf("each access should produce a new bound method, got %q", got)
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{nil, "nil"},
		{true, "true"},
		{3.0, "3"},
		{-0.5, "-0.5"},
		{1e21, "1000000000000000000000"},
		{"text", "text"},
	}

	for _, tt := range tests {
		if got := Stringify(tt.value); got != tt.want {
			t.Errorf("Stringify(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestClassCallBuildsInstance(t *testing.T) {
	in := New(nil)
	if err := in.Interpret(compile(t, in, "class A {} var a = A();")); err != nil {
		t.Fatal(err)
	}

	value, err := in.globals.Get(token.New(token.Identifier, "a", nil, 1))
	if err != nil {
		t.Fatal(err)
	}

	inst, ok := value.(*Instance)
	if !ok || inst.Class().Name != "A" {
		t.Errorf("got %v (%T), want an instance of A", value, value)
	}
}
