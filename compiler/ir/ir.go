package ir

import (
	"tlog.app/go/errors"
	"tlog.app/go/tlog/tlwire"
)

type (
	// Instruction is one of MovePointer, Add, Input, Output, JumpIfZero, JumpIfNonZero.
	Instruction interface {
		instruction()
	}

	Program []Instruction

	MovePointer int
	Add         int

	Input  struct{}
	Output struct{}

	// JumpIfZero and JumpIfNonZero hold the index of the paired jump.
	JumpIfZero    int
	JumpIfNonZero int

	// Pair is a resolved loop: index of the JumpIfZero and of its JumpIfNonZero.
	Pair struct {
		Open  int
		Close int
	}
)

func (MovePointer) instruction()   {}
func (Add) instruction()           {}
func (Input) instruction()         {}
func (Output) instruction()        {}
func (JumpIfZero) instruction()    {}
func (JumpIfNonZero) instruction() {}

// Pairs recovers loop pairs by scanning jump kinds only, ignoring stored targets.
// Pairs are returned in order of their closing jump.
func (p Program) Pairs() (pairs []Pair, err error) {
	var stack []int

	for i, x := range p {
		switch x.(type) {
		case JumpIfZero:
			stack = append(stack, i)
		case JumpIfNonZero:
			if len(stack) == 0 {
				return nil, errors.New("unmatched jump at %d", i)
			}

			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			pairs = append(pairs, Pair{Open: open, Close: i})
		}
	}

	if len(stack) != 0 {
		return nil, errors.New("unmatched jump at %d", stack[len(stack)-1])
	}

	return pairs, nil
}

func Name(x Instruction) string {
	switch x.(type) {
	case MovePointer:
		return "move"
	case Add:
		return "add"
	case Input:
		return "input"
	case Output:
		return "output"
	case JumpIfZero:
		return "jz"
	case JumpIfNonZero:
		return "jnz"
	default:
		return "unknown"
	}
}

func (x MovePointer) TlogAppend(b []byte) []byte {
	return appendArg(b, x, int(x))
}

func (x Add) TlogAppend(b []byte) []byte {
	return appendArg(b, x, int(x))
}

func (x JumpIfZero) TlogAppend(b []byte) []byte {
	return appendArg(b, x, int(x))
}

func (x JumpIfNonZero) TlogAppend(b []byte) []byte {
	return appendArg(b, x, int(x))
}

func (x Input) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	return e.AppendString(b, Name(x))
}

func (x Output) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	return e.AppendString(b, Name(x))
}

func (p Pair) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	b = e.AppendMap(b, 2)
	b = e.AppendKeyInt(b, "open", p.Open)
	b = e.AppendKeyInt(b, "close", p.Close)

	return b
}

func appendArg(b []byte, x Instruction, arg int) []byte {
	var e tlwire.Encoder

	b = e.AppendMap(b, 1)
	b = e.AppendKeyInt(b, Name(x), arg)

	return b
}
