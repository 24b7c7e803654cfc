package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"

	"github.com/slowlang/tape/compiler/format"
	"github.com/slowlang/tape/compiler/front"
	"github.com/slowlang/tape/compiler/ir"
	"github.com/slowlang/tape/compiler/vm"
)

const (
	promptMain = "tape> "
	promptCont = "..... "
)

func replAct(c *cli.Command) (err error) {
	ctx := setup(c)

	in := io.Reader(nil)

	if name := c.String("input"); name != "" {
		var closer func()

		in, closer, err = openInput(name)
		if err != nil {
			return err
		}

		defer closer()
	}

	ln := liner.NewLiner()
	defer ln.Close()

	ln.SetCtrlCAborts(true)

	m := vm.New(in, os.Stdout)

	var last ir.Program

	for {
		src, p, err := readProgram(ctx, ln)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			return nil
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		cmd := strings.TrimSpace(src)
		if cmd == "" {
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		switch cmd {
		case ":quit", ":q":
			return nil
		case ":reset":
			m.Reset()
			continue
		case ":tape":
			printTape(m)
			continue
		case ":dump":
			b, err := format.Listing(ctx, nil, last)
			if err != nil {
				return err
			}

			_, err = os.Stdout.Write(b)
			if err != nil {
				return errors.Wrap(err, "write")
			}

			continue
		}

		if p == nil {
			fmt.Fprintf(os.Stderr, "unknown command: %v (try :quit, :reset, :tape, :dump)\n", cmd)
			continue
		}

		err = m.Run(ctx, p)
		if err != nil {
			return errors.Wrap(err, "run")
		}

		last = p
	}
}

// readProgram reads lines until brackets are balanced.
// Meta commands are returned as src with nil program.
func readProgram(ctx context.Context, ln *liner.State) (src string, p ir.Program, err error) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() != 0 {
			prompt = promptCont
		}

		line, err := ln.Prompt(prompt)
		if err != nil {
			return "", nil, err
		}

		if b.Len() == 0 && strings.HasPrefix(strings.TrimSpace(line), ":") {
			return line, nil, nil
		}

		if b.Len() != 0 {
			b.WriteByte('\n')
		}

		b.WriteString(line)

		src = b.String()

		p, err = front.TranslateBytes(ctx, []byte(src))
		if errors.Is(err, front.ErrUnclosed) {
			continue
		}

		return src, p, err
	}
}

func printTape(m *vm.VM) {
	ptr := m.Pointer()

	fmt.Printf("ptr %d  steps %d  cells %d\n", ptr, m.Steps(), m.Tape().Len())

	for d := -4; d <= 4; d++ {
		addr := ptr + uint(d)

		mark := " "
		if d == 0 {
			mark = "^"
		}

		fmt.Printf("%s[%d]=%d ", mark, addr, m.Tape().Get(addr))
	}

	fmt.Println()
}
