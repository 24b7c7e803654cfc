package front

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/slowlang/tape/compiler/ir"
)

type (
	SyntaxError struct {
		Pos  int
		Char byte
		Err  error
	}

	// InvariantError means the translator produced unbalanced jumps.
	// It's a bug in the translator, not in the program text.
	InvariantError struct {
		Index int
		Where loc.PC
	}
)

var (
	ErrUnmatched = errors.New("unmatched closing bracket")
	ErrUnclosed  = errors.New("unmatched opening bracket")
	ErrInvariant = errors.New("unbalanced jumps after fusion")
)

func TranslateBytes(ctx context.Context, text []byte) (ir.Program, error) {
	return Translate(ctx, bytes.NewReader(text))
}

// Translate reads source text until io.EOF and returns fused IR with resolved jumps.
func Translate(ctx context.Context, r io.ByteReader) (p ir.Program, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "front: translate")
	defer tr.Finish("err", &err)

	raw, size, err := scan(r)
	if err != nil {
		return nil, err
	}

	p = Fuse(raw)

	p, err = Resolve(p)
	if err != nil {
		return nil, errors.Wrap(err, "resolve jumps")
	}

	tr.Printw("translated", "source_size", size, "raw", len(raw), "fused", len(p))

	if tr.If("dump_ir") {
		for i, x := range p {
			tr.Printw("instruction", "i", i, "x", x)
		}
	}

	return p, nil
}

func scan(r io.ByteReader) (p ir.Program, pos int, err error) {
	var open []int

	for ; ; pos++ {
		c, err := r.ReadByte()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, pos, errors.Wrap(err, "read source at pos %d", pos)
		}

		switch c {
		case '>':
			p = append(p, ir.MovePointer(1))
		case '<':
			p = append(p, ir.MovePointer(-1))
		case '+':
			p = append(p, ir.Add(1))
		case '-':
			p = append(p, ir.Add(-1))
		case '.':
			p = append(p, ir.Output{})
		case ',':
			p = append(p, ir.Input{})
		case '[':
			p = append(p, ir.JumpIfZero(0))
			open = append(open, pos)
		case ']':
			if len(open) == 0 {
				return nil, pos, NewSyntaxError(pos, c, ErrUnmatched)
			}

			open = open[:len(open)-1]
			p = append(p, ir.JumpIfNonZero(0))
		}
	}

	if l := len(open); l != 0 {
		return nil, pos, NewSyntaxError(open[l-1], '[', ErrUnclosed)
	}

	return p, pos, nil
}

func NewSyntaxError(pos int, c byte, err error) *SyntaxError {
	return &SyntaxError{
		Pos:  pos,
		Char: c,
		Err:  err,
	}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at pos %d (%q): %v", e.Pos, e.Char, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

func newInvariantError(i int) *InvariantError {
	return &InvariantError{
		Index: i,
		Where: loc.Caller(1),
	}
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("internal error at instruction %d: %v (%v)", e.Index, ErrInvariant, e.Where)
}

func (e *InvariantError) Unwrap() error { return ErrInvariant }
