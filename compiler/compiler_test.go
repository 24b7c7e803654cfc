package compiler

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/tape/compiler/front"
	"github.com/slowlang/tape/compiler/ir"
)

func TestTranslateFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	name := filepath.Join(dir, "add.b")

	err := os.WriteFile(name, []byte("++ add two\n[->+<] move it\n"), 0o644)
	require.NoError(t, err)

	p, err := TranslateFile(ctx, name)
	require.NoError(t, err)
	assert.Len(t, p, 7)

	_, err = TranslateFile(ctx, filepath.Join(dir, "missing.b"))
	assert.Error(t, err)
}

func TestTranslateFileSyntaxError(t *testing.T) {
	name := filepath.Join(t.TempDir(), "bad.b")

	err := os.WriteFile(name, []byte("+]"), 0o644)
	require.NoError(t, err)

	_, err = TranslateFile(context.Background(), name)
	assert.ErrorIs(t, err, front.ErrUnmatched)

	var serr *front.SyntaxError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 1, serr.Pos)
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	p, err := Translate(ctx, bufio.NewReader(strings.NewReader(",+.,+.")))
	require.NoError(t, err)

	var out bytes.Buffer

	err = Run(ctx, p, strings.NewReader("HI"), &out)
	require.NoError(t, err)

	assert.Equal(t, "IJ", out.String())
}

func TestBuildFile(t *testing.T) {
	ctx := context.Background()
	name := filepath.Join(t.TempDir(), "out.ssa")

	p := ir.Program{ir.Add(1), ir.Output{}}

	err := BuildFile(ctx, name, p, 64)
	require.NoError(t, err)

	data, err := os.ReadFile(name)
	require.NoError(t, err)

	obj, err := Build(ctx, p, 64)
	require.NoError(t, err)

	assert.Equal(t, obj, data)
	assert.Contains(t, string(data), "data $cells = { z 64 }\n")
	assert.Contains(t, string(data), "    call $add(w 1)\n    call $output()\n")
}
