package format

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/tape/compiler/front"
	"github.com/slowlang/tape/compiler/ir"
)

func TestListing(t *testing.T) {
	ctx := context.Background()

	p, err := front.TranslateBytes(ctx, []byte("++[->+<],."))
	require.NoError(t, err)

	b, err := Listing(ctx, nil, p)
	require.NoError(t, err)

	exp := "0000  add +2\n" +
		"0001  jz 6\n" +
		"0002  \tadd -1\n" +
		"0003  \tmove +1\n" +
		"0004  \tadd +1\n" +
		"0005  \tmove -1\n" +
		"0006  jnz 1\n" +
		"0007  input\n" +
		"0008  output\n"

	assert.Equal(t, exp, string(b))
}

func TestSource(t *testing.T) {
	ctx := context.Background()

	for _, tc := range []struct {
		src string
		exp string
	}{
		{src: "", exp: ""},
		{src: "+++ comment .", exp: "+++."},
		{src: "><+-", exp: ""},
		{src: ">><<<-->", exp: "<-->"},
		{src: "++[->+<]", exp: "++[->+<]"},
		{src: "+>+<-[[,].]", exp: "+>+<-[[,].]"},
	} {
		p, err := front.TranslateBytes(ctx, []byte(tc.src))
		require.NoError(t, err)

		b, err := Source(ctx, nil, p)
		require.NoError(t, err)

		assert.Equal(t, tc.exp, string(b), "src %q", tc.src)
	}
}

func TestSourceRoundTrip(t *testing.T) {
	ctx := context.Background()

	for _, src := range []string{
		"+++>>--<<<[->+<]..,",
		"++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++.",
	} {
		p, err := front.TranslateBytes(ctx, []byte(src))
		require.NoError(t, err)

		b, err := Source(ctx, nil, p)
		require.NoError(t, err)

		q, err := front.TranslateBytes(ctx, b)
		require.NoError(t, err)

		assert.Equal(t, p, q)
	}

	b, err := Source(ctx, nil, ir.Program{ir.MovePointer(-3), ir.Add(0), ir.Add(2)})
	require.NoError(t, err)
	assert.Equal(t, "<<<++", string(b))
}

func TestSourcePayloadRange(t *testing.T) {
	ctx := context.Background()

	for _, p := range []ir.Program{
		{ir.MovePointer(math.MinInt)},
		{ir.Output{}, ir.Add(math.MinInt)},
	} {
		_, err := Source(ctx, nil, p)
		assert.Error(t, err, "program %v", p)
	}

	b, err := Source(ctx, nil, ir.Program{ir.Add(-3), ir.MovePointer(-2)})
	require.NoError(t, err)
	assert.Equal(t, "---<<", string(b))
}
