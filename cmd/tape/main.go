package main

import (
	"context"
	"io"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/tape/compiler"
	"github.com/slowlang/tape/compiler/back"
	"github.com/slowlang/tape/compiler/format"
	"github.com/slowlang/tape/compiler/ir"
)

func main() {
	dumpCmd := &cli.Command{
		Name:        "dump",
		Description: "print intermediate representation listing",
		Action:      dumpAct,
		Args:        cli.Args{},
	}

	fmtCmd := &cli.Command{
		Name:        "fmt",
		Description: "print program text rendered back from intermediate representation",
		Action:      fmtAct,
		Args:        cli.Args{},
	}

	replCmd := &cli.Command{
		Name:        "repl",
		Description: "run program text interactively line by line",
		Action:      replAct,
		Flags: []*cli.Flag{
			cli.NewFlag("input,i", "", "file to read program input from (default empty)"),
		},
	}

	app := &cli.Command{
		Name:        "tape",
		Description: "tape is a translator, interpreter and QBE code generator for eight-symbol tape programs",
		Action:      mainAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("execute,x", false, "run the program"),
			cli.NewFlag("output,o", "", "write QBE text to the file"),
			cli.NewFlag("cells", back.DefaultCells, "tape size for generated code"),
			cli.NewFlag("input,i", "-", "file to read program input from"),
			cli.NewFlag("log", false, "print trace logs to stderr"),
			cli.NewFlag("verbose,v", "", "verbosity topics (dump_ir, vm_trace)"),
			cli.HelpFlag,
		},
		Commands: []*cli.Command{
			dumpCmd,
			fmtCmd,
			replCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func mainAct(c *cli.Command) (err error) {
	ctx := setup(c)

	name, err := sourceArg(c)
	if err != nil {
		return err
	}

	p, err := compiler.TranslateFile(ctx, name)
	if err != nil {
		return err
	}

	switch {
	case c.Bool("execute"):
		in, closer, err := openInput(c.String("input"))
		if err != nil {
			return err
		}

		defer closer()

		return compiler.Run(ctx, p, in, os.Stdout)
	case c.String("output") != "":
		return compiler.BuildFile(ctx, c.String("output"), p, c.Int("cells"))
	}

	return nil
}

func dumpAct(c *cli.Command) (err error) {
	return printProgram(c, format.Listing)
}

func fmtAct(c *cli.Command) (err error) {
	return printProgram(c, func(ctx context.Context, b []byte, p ir.Program) ([]byte, error) {
		b, err := format.Source(ctx, b, p)
		if err != nil {
			return nil, err
		}

		return append(b, '\n'), nil
	})
}

func printProgram(c *cli.Command, f func(context.Context, []byte, ir.Program) ([]byte, error)) error {
	ctx := setup(c)

	for _, a := range c.Args {
		p, err := compiler.TranslateFile(ctx, a)
		if err != nil {
			return err
		}

		b, err := f(ctx, nil, p)
		if err != nil {
			return errors.Wrap(err, "format %v", a)
		}

		_, err = os.Stdout.Write(b)
		if err != nil {
			return errors.Wrap(err, "write")
		}
	}

	return nil
}

func setup(c *cli.Command) context.Context {
	ctx := context.Background()

	root := c
	for root.Parent != nil {
		root = root.Parent
	}

	if !root.Bool("log") {
		return ctx
	}

	tlog.SetVerbosity(root.String("verbose"))

	return tlog.ContextWithSpan(ctx, tlog.Root())
}

func sourceArg(c *cli.Command) (string, error) {
	if len(c.Args) != 1 {
		return "", errors.New("expected exactly one source file, got %d args", len(c.Args))
	}

	return c.Args[0], nil
}

func openInput(name string) (io.Reader, func(), error) {
	if name == "" || name == "-" {
		return os.Stdin, func() {}, nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open input")
	}

	return f, func() { _ = f.Close() }, nil
}
