package compiler

import (
	"bufio"
	"context"
	"io"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/tape/compiler/back"
	"github.com/slowlang/tape/compiler/front"
	"github.com/slowlang/tape/compiler/ir"
	"github.com/slowlang/tape/compiler/vm"
)

func TranslateFile(ctx context.Context, name string) (ir.Program, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "open file")
	}

	defer f.Close()

	if inf, err := f.Stat(); err == nil {
		tlog.SpanFromContext(ctx).Printw("read file", "size", inf.Size(), "name", name)
	}

	p, err := Translate(ctx, bufio.NewReader(f))
	if err != nil {
		return nil, errors.Wrap(err, "%v", name)
	}

	return p, nil
}

func Translate(ctx context.Context, r io.ByteReader) (ir.Program, error) {
	p, err := front.Translate(ctx, r)
	if err != nil {
		return nil, errors.Wrap(err, "translate")
	}

	return p, nil
}

// Run executes p on a fresh VM.
func Run(ctx context.Context, p ir.Program, in io.Reader, out io.Writer) error {
	m := vm.New(in, out)

	err := m.Run(ctx, p)
	if err != nil {
		return errors.Wrap(err, "run")
	}

	return nil
}

// Build renders p as QBE text with a tape of cells bytes. Zero cells means default.
func Build(ctx context.Context, p ir.Program, cells int) ([]byte, error) {
	c := back.Compiler{Cells: cells}

	obj, err := c.Compile(ctx, nil, p)
	if err != nil {
		return nil, errors.Wrap(err, "compile")
	}

	return obj, nil
}

func BuildFile(ctx context.Context, name string, p ir.Program, cells int) (err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "build file", "name", name)
	defer tr.Finish("err", &err)

	obj, err := Build(ctx, p, cells)
	if err != nil {
		return err
	}

	err = os.WriteFile(name, obj, 0o644)
	if err != nil {
		return errors.Wrap(err, "write file")
	}

	tr.Printw("written", "size", len(obj))

	return nil
}
