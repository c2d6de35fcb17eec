package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/havrydotdev/golox/config"
	"github.com/havrydotdev/golox/lox"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run is the whole driver; it returns the process exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("golox", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "path to a YAML config file")
	dumpAST := flags.Bool("dump-ast", false, "print parsed statements before running them")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "Usage: golox [flags] [script]")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return lox.ExitUsage
	}

	if flags.NArg() > 1 {
		flags.Usage()
		return lox.ExitUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return lox.ExitIOErr
	}

	l := lox.New(&lox.Options{
		Stdout:       stdout,
		Stderr:       stderr,
		DumpAST:      cfg.DumpAST || *dumpAST,
		MaxCallDepth: cfg.MaxCallDepth,
	})

	if flags.NArg() == 1 {
		return runFile(l, flags.Arg(0), stderr)
	}

	runPrompt(l, cfg, stdin, stdout, stderr)
	return lox.ExitOK
}

func runFile(l *lox.Lox, fileName string, stderr io.Writer) int {
	text, err := os.ReadFile(fileName)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return lox.ExitIOErr
	}

	res := l.Run(string(text))
	lox.Report(stderr, res)

	return res.ExitCode()
}

// runPrompt reads one line at a time until stdin is exhausted. Errors
// only abandon the line they occur on.
func runPrompt(l *lox.Lox, cfg config.Config, stdin io.Reader, stdout, stderr io.Writer) {
	if cfg.ShowBanner() {
		fmt.Fprintf(stdout, "Welcome to GoLox (version %s)!\n", version)
	}

	reader := bufio.NewScanner(stdin)
	for {
		fmt.Fprint(stdout, cfg.Prompt)
		if !reader.Scan() {
			break
		}

		lox.Report(stderr, l.Run(reader.Text()))
	}

	if err := reader.Err(); err != nil {
		fmt.Fprintln(stderr, err)
	}

	fmt.Fprintln(stdout)
}
