package expr

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffwilliams/edcmd/internal/buffer"
	"github.com/jeffwilliams/edcmd/internal/settings"
)

func env() Env {
	return Env{Settings: settings.Default()}
}

func numberedLines(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = strconv.Itoa(i + 1)
	}
	return strings.Join(lines, "\n")
}

func TestDigitsAreLineAddresses(t *testing.T) {
	b := buffer.New(numberedLines(12))

	for _, in := range []string{"1", "7", "12", "007"} {
		t.Run(in, func(t *testing.T) {
			tokens := Tokenize(in)
			require.Len(t, tokens, 1)
			assert.Equal(t, Token{Type: NumberTok, Value: in}, tokens[0])

			exprs, err := Parse(tokens)
			require.NoError(t, err)
			n, _ := strconv.Atoi(in)
			assert.Equal(t, []Expression{rng(term(LineNumber{n}))}, exprs)

			a, err := InterpretAddressRange(exprs[0].(AddressRange), b)
			require.NoError(t, err)
			assert.Equal(t, n-1, a.P1.Row)
			assert.Equal(t, strconv.Itoa(n), b.Line(a.P1.Row))
		})
	}
}

func TestDot(t *testing.T) {
	assert.Equal(t, []Token{{Type: DotTok, Value: ".", Pos: 0}}, Tokenize("."))

	exprs, err := Parse(Tokenize("."))
	require.NoError(t, err)
	assert.Equal(t, []Expression{rng(term(Dot{}))}, exprs)
}

func TestSubstituteSingleOccurrence(t *testing.T) {
	b, err := HandleCommand(buffer.New("alpha\nbeta pat gamma\ndelta"), ",s/pat/repl/", env())
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(b.Text(), "repl"))
	assert.Equal(t, 0, strings.Count(b.Text(), "pat"))

	same, err := HandleCommand(buffer.New("nothing here"), ",s/pat/repl/", env())
	require.NoError(t, err)
	assert.Equal(t, "nothing here", same.Text())
}

func TestForEachMatchDeleteTerminates(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		pattern string
		gone    string
	}{
		{name: "single", text: "a\nbab\naaa", pattern: "a", gone: "a"},
		{name: "star", text: "xaaybaa\n\naaz", pattern: "a*", gone: "a"},
		{name: "optional", text: "banana", pattern: "an?", gone: "a"},
		{name: "empty only", text: "abc\ndef", pattern: "q*", gone: "q"},
		{name: "across empty lines", text: "\n\na\n", pattern: "a*", gone: "a"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := HandleCommand(buffer.New(tc.text), fmt.Sprintf(",x/%s/ d", tc.pattern), env())
			require.NoError(t, err)
			assert.Equal(t, 0, strings.Count(b.Text(), tc.gone), b.Text())
		})
	}
}

func TestIfMatchRunsAtMostOnce(t *testing.T) {
	text := "pat\npat\npat"

	b, err := HandleCommand(buffer.New(text), ",g/pat/ a/!/", env())
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(b.Text(), "!"))

	b, err = HandleCommand(buffer.New(text), ",g/zzz/ a/!/", env())
	require.NoError(t, err)
	assert.Equal(t, 0, strings.Count(b.Text(), "!"))

	b, err = HandleCommand(buffer.New(text), ",v/zzz/ a/!/", env())
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(b.Text(), "!"))

	b, err = HandleCommand(buffer.New(text), ",v/pat/ a/!/", env())
	require.NoError(t, err)
	assert.Equal(t, 0, strings.Count(b.Text(), "!"))
}

func TestDeleteLineRange(t *testing.T) {
	b, err := HandleCommand(buffer.New(numberedLines(5)), "2,3d", env())
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"1", "4", "5"}, b.Content); diff != "" {
		t.Fatalf("content mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, null(pos(1, 0)), DotAddress(b))
}

func TestUndoRestoresContent(t *testing.T) {
	const text = "one\ntwo\nthree\nfour"

	commands := []string{
		"2d",
		"2,3d",
		`2a/X\nY/`,
		"2i/X/",
		"2c/X/",
		"1m3",
		"1t$",
		",s/o/0/",
		",s/^/> /",
		",x/o/ d",
		",x/o*/ c/[&]/",
		",g/two/ d",
		",v/zzz/ d",
	}

	for _, cmd := range commands {
		t.Run(cmd, func(t *testing.T) {
			in := NewInterpreter(env())
			start := buffer.New(text)

			b, err := in.Handle(start, cmd)
			require.NoError(t, err)
			require.NotEqual(t, text, b.Text(), "command should change the buffer")

			b, err = in.Handle(b, "u")
			require.NoError(t, err)
			assert.Equal(t, start.Content, b.Content)
		})
	}
}

func TestMalformedSubstitute(t *testing.T) {
	b := buffer.New("pat")
	got, err := HandleCommand(b, "s/pat/", env())
	assert.ErrorIs(t, err, ErrTokenExpected)
	assert.Equal(t, "pat", got.Text())
}

func TestDebugHook(t *testing.T) {
	var msgs []string
	Debug = func(message string, args ...interface{}) {
		msgs = append(msgs, fmt.Sprintf(message, args...))
	}
	defer func() { Debug = nil }()

	_, err := HandleCommand(buffer.New("abc"), ",d", env())
	require.NoError(t, err)
	assert.NotEmpty(t, msgs)
}
