package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/oarkflow/log"
	"github.com/urfave/cli/v2"

	"github.com/oarkflow/mint"
	"github.com/oarkflow/mint/pkg/config"
)

const version = "0.1.0"

const about = `Mint is a small dynamically typed scripting language with first-class
functions and closures, run by a tree-walking interpreter.`

func main() {
	app := &cli.App{
		Name:    "mint",
		Usage:   "Run Mint scripts or start the interactive prompt",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Run a Mint script",
			},
			&cli.BoolFlag{
				Name:    "about",
				Aliases: []string{"a"},
				Usage:   "About Mint",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a configuration file (YAML, JSON, or BCL)",
				EnvVars: []string{"MINT_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Override the configured log level",
			},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("about") {
				fmt.Println(about)
				return nil
			}
			if path := c.String("file"); path != "" {
				return runFile(c, path)
			}
			if c.NArg() > 0 {
				return cli.Exit("unexpected arguments; use --file to run a script", 1)
			}
			return runRepl(c)
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Run a Mint script",
				ArgsUsage: "FILE",
				Action: func(c *cli.Context) error {
					path, err := fileArg(c)
					if err != nil {
						return err
					}
					return runFile(c, path)
				},
			},
			{
				Name:   "repl",
				Usage:  "Start the interactive prompt",
				Action: runRepl,
			},
			{
				Name:      "tokens",
				Usage:     "Print the tokens of a script as JSON",
				ArgsUsage: "FILE",
				Action:    dumpTokens,
			},
			{
				Name:      "ast",
				Usage:     "Print the syntax tree of a script as JSON",
				ArgsUsage: "FILE",
				Action:    dumpAST,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config named by --config, or the defaults, and
// applies command line overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, cli.Exit(fmt.Sprintf("config: %v", err), 1)
		}
		cfg = loaded
	}
	if level := c.String("log-level"); level != "" {
		cfg.LogLevel = level
		if err := cfg.Validate(); err != nil {
			return nil, cli.Exit(fmt.Sprintf("config: %v", err), 1)
		}
	}
	if !cfg.ColorEnabled() {
		color.NoColor = true
	}
	rc := mint.GetRuntimeConfig()
	rc.CompileCacheSize = cfg.CacheSize
	rc.CacheCompiledUnits = cfg.CacheSize > 0
	mint.SetRuntimeConfig(rc)
	return cfg, nil
}

func newLogger(cfg *config.Config) *log.Logger {
	return &log.Logger{
		Level:  log.ParseLevel(strings.ToLower(cfg.LogLevel)),
		Writer: &log.IOWriter{Writer: os.Stderr},
	}
}

func fileArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", cli.Exit(fmt.Sprintf("usage: mint %s FILE", c.Command.Name), 1)
	}
	return c.Args().First(), nil
}

func runFile(c *cli.Context, path string) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	logger := newLogger(cfg)
	runner := mint.NewRunner(
		mint.WithLogger(logger),
		mint.WithDiagnostics(newDiagnosticWriter(os.Stderr)),
	)
	logger.Info().Str("file", path).Str("session", runner.ID()).Msg("running script")
	if status := runner.Run(string(source)); status != mint.StatusOK {
		return cli.Exit("", status.ExitCode())
	}
	return nil
}
