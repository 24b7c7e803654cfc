package front

import (
	"github.com/slowlang/tape/compiler/ir"
)

// Fuse merges adjacent MovePointer and adjacent Add instructions by summing payloads.
// Other instructions are copied as is, jump targets included.
func Fuse(p ir.Program) ir.Program {
	res := make(ir.Program, 0, len(p))

	for _, x := range p {
		if l := len(res); l != 0 {
			switch x := x.(type) {
			case ir.MovePointer:
				if last, ok := res[l-1].(ir.MovePointer); ok {
					res[l-1] = last + x
					continue
				}
			case ir.Add:
				if last, ok := res[l-1].(ir.Add); ok {
					res[l-1] = last + x
					continue
				}
			}
		}

		res = append(res, x)
	}

	return res
}

// Resolve recomputes jump targets from scratch.
// JumpIfZero gets the index of its JumpIfNonZero and vice versa.
// p is modified in place.
func Resolve(p ir.Program) (ir.Program, error) {
	var stack []int

	for i, x := range p {
		switch x.(type) {
		case ir.JumpIfZero:
			stack = append(stack, i)
		case ir.JumpIfNonZero:
			if len(stack) == 0 {
				return nil, newInvariantError(i)
			}

			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			p[open] = ir.JumpIfZero(i)
			p[i] = ir.JumpIfNonZero(open)
		}
	}

	if l := len(stack); l != 0 {
		return nil, newInvariantError(stack[l-1])
	}

	return p, nil
}
