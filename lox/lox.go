// Package lox wires the scanner, parser, resolver and interpreter into a
// single run and aggregates their errors.
package lox

import (
	"fmt"
	"io"
	"os"

	"github.com/havrydotdev/golox/ast"
	interp "github.com/havrydotdev/golox/interpreter"
	"github.com/havrydotdev/golox/parser"
	"github.com/havrydotdev/golox/resolver"
	"github.com/havrydotdev/golox/scanner"
)

// Process exit statuses, following sysexits.h.
const (
	ExitOK       = 0
	ExitUsage    = 64
	ExitDataErr  = 65
	ExitSoftware = 70
	ExitIOErr    = 74
)

type Options struct {
	// Stdout receives program output (default os.Stdout).
	Stdout io.Writer
	// Stderr receives the -dump-ast output (default os.Stderr).
	Stderr io.Writer
	// DumpAST prints each parsed statement before resolution.
	DumpAST bool
	// MaxCallDepth is passed to the interpreter.
	MaxCallDepth int
}

func (o *Options) normalize() Options {
	var out Options
	if o != nil {
		out = *o
	}

	if out.Stdout == nil {
		out.Stdout = os.Stdout
	}

	if out.Stderr == nil {
		out.Stderr = os.Stderr
	}

	return out
}

// Result describes how a run ended. Static errors come from scanning,
// parsing or resolving and prevent execution entirely.
type Result struct {
	StaticErrors []error
	RuntimeError error
}

func (r Result) Failed() bool {
	return len(r.StaticErrors) != 0 || r.RuntimeError != nil
}

func (r Result) ExitCode() int {
	switch {
	case len(r.StaticErrors) != 0:
		return ExitDataErr
	case r.RuntimeError != nil:
		return ExitSoftware
	}

	return ExitOK
}

// Lox runs source text. Globals and resolved bindings persist between
// runs, so one Lox can serve every line of a REPL session.
type Lox struct {
	interpreter *interp.Interpreter
	resolver    *resolver.Resolver

	stderr  io.Writer
	dumpAST bool
}

func New(opt *Options) *Lox {
	o := opt.normalize()
	in := interp.New(&interp.Options{Stdout: o.Stdout, MaxCallDepth: o.MaxCallDepth})

	return &Lox{
		interpreter: in,
		resolver:    resolver.New(in),
		stderr:      o.Stderr,
		dumpAST:     o.DumpAST,
	}
}

func (l *Lox) Run(source string) Result {
	tokens, scanErrs := scanner.New(source).Scan()

	stmts, parseErrs := parser.New(tokens).Parse()
	if errs := append(scanErrs, parseErrs...); len(errs) != 0 {
		return Result{StaticErrors: errs}
	}

	if l.dumpAST {
		for _, stmt := range stmts {
			fmt.Fprintln(l.stderr, ast.Printer{}.Stmt(stmt))
		}
	}

	if errs := l.resolver.Resolve(stmts); len(errs) != 0 {
		return Result{StaticErrors: errs}
	}

	if err := l.interpreter.Interpret(stmts); err != nil {
		return Result{RuntimeError: err}
	}

	return Result{}
}

// Report writes every error of res to w, one per line.
func Report(w io.Writer, res Result) {
	for _, err := range res.StaticErrors {
		fmt.Fprintln(w, err)
	}

	if res.RuntimeError != nil {
		fmt.Fprintln(w, res.RuntimeError)
	}
}
