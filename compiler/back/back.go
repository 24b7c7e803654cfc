package back

import (
	"context"
	"strconv"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/tape/compiler/ir"
)

type (
	// Compiler renders ir.Program as QBE intermediate language.
	//
	// The emitted tape is a fixed global block of Cells bytes.
	// Unlike vm.Tape it's not checked: moving outside of it corrupts neighbour data.
	Compiler struct {
		Cells int
	}

	labels map[int]string
)

const DefaultCells = 30000

const prelude = `function l $get_cell_addr() {
@start
    %p =l loadl $pointer
    %cellp =l add $cells, %p
    ret %cellp
}

function $move_pointer(l %n) {
@start
    %p =l loadl $pointer
    %p =l add %p, %n
    storel %p, $pointer
    ret
}

function $add(w %n) {
@start
    %p =l call $get_cell_addr()
    %c =w loadsb %p
    %c =w add %c, %n
    storeb %c, %p
    ret
}

function $input() {
@start
    %c =w call $getchar()
    %t =w ceqw %c, -1
    jnz %t, @eof, @store
@eof
    %c =w copy 0
@store
    %p =l call $get_cell_addr()
    storeb %c, %p
    ret
}

function $output() {
@start
    %p =l call $get_cell_addr()
    %c =w loadsb %p
    call $putchar(w %c)
    ret
}

`

func New() *Compiler {
	return &Compiler{Cells: DefaultCells}
}

// Compile appends the program text to b.
// Output depends only on p and c.Cells.
func (c *Compiler) Compile(ctx context.Context, b []byte, p ir.Program) (_ []byte, err error) {
	cells := DefaultCells
	if c != nil && c.Cells != 0 {
		cells = c.Cells
	}

	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "back: compile", "instructions", len(p), "cells", cells)
	defer tr.Finish("err", &err)

	if cells < 0 {
		return nil, errors.New("bad tape size: %d", cells)
	}

	st := len(b)

	b = append(b, prelude...)

	b = hfmt.Appendf(b, "data $cells = { z %d }\n", cells)
	b = append(b, "data $pointer = { l 0 }\n\n"...)

	b = append(b, "export function w $main() {\n@start\n"...)

	b = compileBody(b, p, makeLabels(p))

	b = append(b, "    ret 0\n}\n"...)

	tr.Printw("compiled", "size", len(b)-st)

	return b, nil
}

func compileBody(b []byte, p ir.Program, l labels) []byte {
	for i, x := range p {
		switch x := x.(type) {
		case ir.MovePointer:
			b = hfmt.Appendf(b, "    call $move_pointer(l %d)\n", int(x))
		case ir.Add:
			b = hfmt.Appendf(b, "    call $add(w %d)\n", int(x))
		case ir.Input:
			b = append(b, "    call $input()\n"...)
		case ir.Output:
			b = append(b, "    call $output()\n"...)
		case ir.JumpIfZero:
			b = hfmt.Appendf(b, "%s\n", l[i])
			b = append(b, "    %p =l call $get_cell_addr()\n"...)
			b = append(b, "    %c =w loadsb %p\n"...)
			b = append(b, "    %t =w ceqw %c, 0\n"...)
			b = hfmt.Appendf(b, "    jnz %%t, %s, %s.fallthrough\n", l[int(x)], l[i])
			b = hfmt.Appendf(b, "%s.fallthrough\n", l[i])
		case ir.JumpIfNonZero:
			b = append(b, "    %p =l call $get_cell_addr()\n"...)
			b = append(b, "    %c =w loadsb %p\n"...)
			b = hfmt.Appendf(b, "    jnz %%c, %s, %s\n", l[int(x)], l[i])
			b = hfmt.Appendf(b, "%s\n", l[i])
		}
	}

	return b
}

// makeLabels names every jump and every jump target by its instruction index.
func makeLabels(p ir.Program) labels {
	l := make(labels)

	add := func(i int) {
		if _, ok := l[i]; !ok {
			l[i] = "@L" + strconv.Itoa(i)
		}
	}

	for i, x := range p {
		switch x := x.(type) {
		case ir.JumpIfZero:
			add(i)
			add(int(x))
		case ir.JumpIfNonZero:
			add(i)
			add(int(x))
		}
	}

	return l
}
