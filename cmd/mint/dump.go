package main

import (
	"fmt"
	"os"

	"github.com/oarkflow/json"
	"github.com/urfave/cli/v2"

	"github.com/oarkflow/mint"
)

func dumpTokens(c *cli.Context) error {
	source, err := readSource(c)
	if err != nil {
		return err
	}
	lexer := mint.NewLexer(source)
	tokens := lexer.ScanTokens()
	if err := reportStatic(lexer.Errors()); err != nil {
		return err
	}
	return printJSON(tokens)
}

func dumpAST(c *cli.Context) error {
	source, err := readSource(c)
	if err != nil {
		return err
	}
	lexer := mint.NewLexer(source)
	tokens := lexer.ScanTokens()
	if err := reportStatic(lexer.Errors()); err != nil {
		return err
	}
	parser := mint.NewParser(tokens)
	tree := parser.Parse()
	if err := reportStatic(parser.Errors()); err != nil {
		return err
	}
	return printJSON(tree)
}

func readSource(c *cli.Context) (string, error) {
	path, err := fileArg(c)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", cli.Exit(err.Error(), 1)
	}
	return string(data), nil
}

func reportStatic(errs []*mint.Error) error {
	if len(errs) == 0 {
		return nil
	}
	w := newDiagnosticWriter(os.Stderr)
	for _, e := range errs {
		fmt.Fprintln(w, e.Error())
	}
	return cli.Exit("", mint.StatusStaticError.ExitCode())
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	fmt.Println(string(data))
	return nil
}
