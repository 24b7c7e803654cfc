package format

import (
	"bytes"
	"context"
	"math"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/slowlang/tape/compiler/ir"
)

// Listing appends one line per instruction: index, name and payload, indented by loop depth.
func Listing(ctx context.Context, b []byte, p ir.Program) (_ []byte, err error) {
	d := 0

	for i, x := range p {
		if _, ok := x.(ir.JumpIfNonZero); ok && d > 0 {
			d--
		}

		b = hfmt.Appendf(b, "%04d  ", i)

		b, err = formatInstruction(ctx, b, x, d)
		if err != nil {
			return nil, errors.Wrap(err, "instruction %d", i)
		}

		b = append(b, '\n')

		if _, ok := x.(ir.JumpIfZero); ok {
			d++
		}
	}

	return b, nil
}

func formatInstruction(ctx context.Context, b []byte, x ir.Instruction, d int) ([]byte, error) {
	switch x := x.(type) {
	case ir.MovePointer:
		b = app(b, d, "%v %+d", ir.Name(x), int(x))
	case ir.Add:
		b = app(b, d, "%v %+d", ir.Name(x), int(x))
	case ir.Input, ir.Output:
		b = app(b, d, "%v", ir.Name(x))
	case ir.JumpIfZero:
		b = app(b, d, "%v %d", ir.Name(x), int(x))
	case ir.JumpIfNonZero:
		b = app(b, d, "%v %d", ir.Name(x), int(x))
	default:
		return nil, errors.New("unsupported instruction: %T", x)
	}

	return b, nil
}

// Source renders p back as program text.
// Zero payload moves and adds render as nothing.
func Source(ctx context.Context, b []byte, p ir.Program) (_ []byte, err error) {
	for i, x := range p {
		switch x := x.(type) {
		case ir.MovePointer:
			b, err = repeat(b, int(x), '>', '<')
		case ir.Add:
			b, err = repeat(b, int(x), '+', '-')
		case ir.Input:
			b = append(b, ',')
		case ir.Output:
			b = append(b, '.')
		case ir.JumpIfZero:
			b = append(b, '[')
		case ir.JumpIfNonZero:
			b = append(b, ']')
		default:
			return nil, errors.New("instruction %d: unsupported: %T", i, x)
		}

		if err != nil {
			return nil, errors.Wrap(err, "instruction %d", i)
		}
	}

	return b, nil
}

func repeat(b []byte, n int, pos, neg byte) ([]byte, error) {
	if n == math.MinInt {
		return nil, errors.New("payload out of range: %d", n)
	}

	c := pos
	if n < 0 {
		c, n = neg, -n
	}

	return append(b, bytes.Repeat([]byte{c}, n)...), nil
}

func app(b []byte, d int, f string, args ...any) []byte {
	const tabs = "\t\t\t\t\t\t\t\t\t\t\t\t\t\t\t"

	if d > len(tabs) {
		d = len(tabs)
	}

	b = append(b, tabs[:d]...)
	b = hfmt.Appendf(b, f, args...)

	return b
}
