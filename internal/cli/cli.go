package cli

import (
	"context"
	"errors"
	"io"

	"github.com/urfave/cli/v2"
	"github.com/vk/neccard/internal/app"
	"github.com/vk/neccard/internal/column"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(msg string) error { return &ExitError{Code: 2, Message: msg} }

func runtimeError(err error) error { return &ExitError{Code: 1, Message: err.Error()} }

// Run parses args (without the program name) and executes the selected
// command. Every returned error is an *ExitError.
func Run(ctx context.Context, args []string, outW, errW io.Writer) error {
	err := New(outW, errW).RunContext(ctx, append([]string{"neccard"}, args...))
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return usageError(err.Error())
}

// New builds the command tree.
func New(outW, errW io.Writer) *cli.App {
	return &cli.App{
		Name:      "neccard",
		Usage:     "build and reformat fixed-column NEC2 antenna models",
		Writer:    outW,
		ErrWriter: errW,
		// Exit codes are decided by the caller, never inside the library.
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "logging level: debug, info, warn or error"},
			&cli.StringFlag{Name: "log-format", Value: "text", Usage: "log output format: text or json"},
		},
		Commands: []*cli.Command{
			buildCommand(),
			reformatCommand(),
		},
	}
}

func buildCommand() *cli.Command {
	return &cli.Command{
		Name:      "build",
		Usage:     "write a .nec file for every HCL or YAML build request",
		ArgsUsage: "REQUEST...",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "0 silent, 1 summary, 2 summary and comments"},
			&cli.IntFlag{Name: "sig-figs", Usage: "digits after the decimal point in scientific fields"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "destination file (single request only)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return usageError("build: at least one request file or directory is required")
			}

			cfg := baseConfig(c)
			cfg.Output = c.String("output")
			if c.IsSet("verbose") {
				v := c.Int("verbose")
				cfg.Verbosity = &v
			}
			if c.IsSet("sig-figs") {
				n := c.Int("sig-figs")
				cfg.SigFigs = &n
			}

			config, err := app.NewConfig(cfg)
			if err != nil {
				return usageError(err.Error())
			}

			if _, err := app.NewApp(c.App.Writer, c.App.ErrWriter, config).Build(c.Context, c.Args().Slice()...); err != nil {
				return runtimeError(err)
			}
			return nil
		},
	}
}

func reformatCommand() *cli.Command {
	return &cli.Command{
		Name:      "reformat",
		Usage:     "rewrite a .nec file into canonical columns, resolving SY variables",
		ArgsUsage: "SRC DST",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "sig-figs", Value: column.DefaultSigFigs, Usage: "digits after the decimal point in scientific fields"},
			&cli.StringFlag{Name: "columns", Usage: "comma separated column offsets, starting with the card code column"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return usageError("reformat: expected SRC and DST")
			}

			cfg := baseConfig(c)
			sigFigs := c.Int("sig-figs")
			cfg.ReformatSigFigs = &sigFigs
			if text := c.String("columns"); text != "" {
				spec, err := column.ParseSpec(text)
				if err != nil {
					return usageError(err.Error())
				}
				cfg.ReformatColumns = spec
			}

			config, err := app.NewConfig(cfg)
			if err != nil {
				return usageError(err.Error())
			}

			if _, err := app.NewApp(c.App.Writer, c.App.ErrWriter, config).Reformat(c.Context, c.Args().Get(0), c.Args().Get(1)); err != nil {
				return runtimeError(err)
			}
			return nil
		},
	}
}

func baseConfig(c *cli.Context) app.Config {
	return app.Config{
		LogLevel:  c.String("log-level"),
		LogFormat: c.String("log-format"),
	}
}
