package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/gofrs/flock"
	"github.com/peterh/liner"
	"github.com/urfave/cli/v2"

	"github.com/oarkflow/mint"
	"github.com/oarkflow/mint/pkg/config"
)

const defaultHistoryFile = ".mint_history"

func runRepl(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	history := historyPath(cfg)
	loadHistory(ln, history)
	defer saveHistory(ln, history)

	runner := mint.NewRunner(
		mint.WithLogger(logger),
		mint.WithDiagnostics(newDiagnosticWriter(os.Stderr)),
	)
	logger.Info().Str("session", runner.ID()).Msg("repl started")

	fmt.Printf("Mint %s. Type %s to leave.\n", version, strings.Join(cfg.ExitWords, ", "))
	for {
		input, ok := readInput(ln, cfg)
		if !ok {
			fmt.Println()
			return nil
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		if cfg.IsExitWord(input) {
			return nil
		}
		ln.AppendHistory(strings.ReplaceAll(input, "\n", " "))
		runner.RunLine(input)
	}
}

// readInput reads one unit of input, asking for more lines while braces are
// still open.
func readInput(ln *liner.State, cfg *config.Config) (string, bool) {
	var b strings.Builder
	depth := 0
	for {
		prompt := cfg.Prompt
		if b.Len() > 0 {
			prompt = cfg.ContinuationPrompt
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		depth += braceDepth(line)
		if depth <= 0 {
			return b.String(), true
		}
	}
}

// braceDepth counts opening minus closing braces, ignoring braces inside
// strings and comments.
func braceDepth(line string) int {
	depth := 0
	for _, tok := range mint.NewLexer(line).ScanTokens() {
		switch tok.Type {
		case mint.LEFT_BRACE:
			depth++
		case mint.RIGHT_BRACE:
			depth--
		}
	}
	return depth
}

func historyPath(cfg *config.Config) string {
	if cfg.HistoryFile != "" {
		return cfg.HistoryFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, defaultHistoryFile)
}

// loadHistory and saveHistory hold a file lock so concurrent sessions do
// not interleave writes to the same history file.
func loadHistory(ln *liner.State, path string) {
	if path == "" {
		return
	}
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return
	}
	defer lock.Unlock()
	if f, err := os.Open(path); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
}

func saveHistory(ln *liner.State, path string) {
	if path == "" {
		return
	}
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return
	}
	defer lock.Unlock()
	if f, err := os.Create(path); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
}

// diagnosticWriter paints each diagnostic line red.
type diagnosticWriter struct {
	w     io.Writer
	paint func(a ...any) string
}

func newDiagnosticWriter(w io.Writer) *diagnosticWriter {
	return &diagnosticWriter{w: w, paint: color.New(color.FgRed).SprintFunc()}
}

func (d *diagnosticWriter) Write(p []byte) (int, error) {
	text := strings.TrimSuffix(string(p), "\n")
	if _, err := fmt.Fprintln(d.w, d.paint(text)); err != nil {
		return 0, err
	}
	return len(p), nil
}
