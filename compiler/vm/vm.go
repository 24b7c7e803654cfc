package vm

import (
	"bufio"
	"bytes"
	"context"
	"io"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/tape/compiler/ir"
)

type (
	// VM interprets ir.Program against a sparse Tape.
	// Tape and pointer survive between Run calls until Reset.
	VM struct {
		in  io.Reader
		out *bufio.Writer

		tape *Tape
		ptr  uint

		steps int64

		buf [1]byte
	}
)

// New creates VM reading Input from in and writing Output to out.
// nil in acts as empty input, nil out discards output.
func New(in io.Reader, out io.Writer) *VM {
	if in == nil {
		in = bytes.NewReader(nil)
	}

	if out == nil {
		out = io.Discard
	}

	return &VM{
		in:   in,
		out:  bufio.NewWriter(out),
		tape: NewTape(),
	}
}

func (m *VM) Run(ctx context.Context, p ir.Program) (err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "vm: run", "instructions", len(p), "ptr", m.ptr)
	steps := m.steps

	defer func() {
		tr.Finish("err", err, "steps", m.steps-steps, "ptr", m.ptr, "cells", m.tape.Len())
	}()

	defer func() {
		e := m.out.Flush()
		if err == nil && e != nil {
			err = errors.Wrap(e, "flush output")
		}
	}()

	trace := tr.If("vm_trace")

	for ip := 0; ip < len(p); {
		x := p[ip]
		ip++

		m.steps++

		if trace {
			tr.Printw("step", "ip", ip-1, "x", x, "ptr", m.ptr, "cell", m.tape.Get(m.ptr))
		}

		switch x := x.(type) {
		case ir.MovePointer:
			m.ptr += uint(x)
		case ir.Add:
			m.tape.Set(m.ptr, m.tape.Get(m.ptr)+byte(x))
		case ir.Input:
			c, err := m.readByte()
			if err != nil {
				return errors.Wrap(err, "read input (instruction %d)", ip-1)
			}

			m.tape.Set(m.ptr, c)
		case ir.Output:
			err = m.out.WriteByte(m.tape.Get(m.ptr))
			if err != nil {
				return errors.Wrap(err, "write output (instruction %d)", ip-1)
			}
		case ir.JumpIfZero:
			// the paired JumpIfNonZero would see the same zero cell
			if m.tape.Get(m.ptr) == 0 {
				ip = int(x) + 1
			}
		case ir.JumpIfNonZero:
			if m.tape.Get(m.ptr) != 0 {
				ip = int(x) + 1
			}
		default:
			return errors.New("unsupported instruction %d: %T", ip-1, x)
		}
	}

	return nil
}

// readByte returns 0 on end of input.
func (m *VM) readByte() (byte, error) {
	err := m.out.Flush()
	if err != nil {
		return 0, errors.Wrap(err, "flush output")
	}

	if r, ok := m.in.(io.ByteReader); ok {
		c, err := r.ReadByte()
		if errors.Is(err, io.EOF) {
			return 0, nil
		}

		return c, err
	}

	_, err = io.ReadFull(m.in, m.buf[:])
	if errors.Is(err, io.EOF) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return m.buf[0], nil
}

func (m *VM) Tape() *Tape { return m.tape }

func (m *VM) Pointer() uint { return m.ptr }

// Steps is the number of instructions executed since creation or Reset.
func (m *VM) Steps() int64 { return m.steps }

func (m *VM) Reset() {
	m.tape.Reset()
	m.ptr = 0
	m.steps = 0
}
