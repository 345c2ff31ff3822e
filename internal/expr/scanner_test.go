package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanner(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:     "empty",
			input:    "",
			expected: []Token{},
		},
		{
			name:  "range and command",
			input: "2,3d",
			expected: []Token{
				{Type: NumberTok, Value: "2", Pos: 0},
				{Type: CommaTok, Value: ",", Pos: 1},
				{Type: NumberTok, Value: "3", Pos: 2},
				{Type: CommandTok, Value: "d", Pos: 3},
			},
		},
		{
			name:  "escaped slash",
			input: `x/a\/b/ d`,
			expected: []Token{
				{Type: CommandTok, Value: "x", Pos: 0},
				{Type: SlashTok, Value: "/", Pos: 1},
				{Type: TextTok, Value: "a/b", Pos: 2},
				{Type: SlashTok, Value: "/", Pos: 6},
				{Type: CommandTok, Value: "d", Pos: 8},
			},
		},
		{
			name:  "escaped backslash",
			input: `/a\\/`,
			expected: []Token{
				{Type: SlashTok, Value: "/", Pos: 0},
				{Type: TextTok, Value: `a\\`, Pos: 1},
				{Type: SlashTok, Value: "/", Pos: 4},
			},
		},
		{
			name:  "substitute",
			input: "s/a/b/",
			expected: []Token{
				{Type: CommandTok, Value: "s", Pos: 0},
				{Type: SlashTok, Value: "/", Pos: 1},
				{Type: TextTok, Value: "a", Pos: 2},
				{Type: SlashTok, Value: "/", Pos: 3},
				{Type: TextTok, Value: "b", Pos: 4},
				{Type: SlashTok, Value: "/", Pos: 5},
			},
		},
		{
			name:  "substitute missing replacement",
			input: "s/pat/",
			expected: []Token{
				{Type: CommandTok, Value: "s", Pos: 0},
				{Type: SlashTok, Value: "/", Pos: 1},
				{Type: TextTok, Value: "pat", Pos: 2},
				{Type: SlashTok, Value: "/", Pos: 5},
			},
		},
		{
			name:  "empty text",
			input: "a//",
			expected: []Token{
				{Type: CommandTok, Value: "a", Pos: 0},
				{Type: SlashTok, Value: "/", Pos: 1},
				{Type: TextTok, Value: "", Pos: 2},
				{Type: SlashTok, Value: "/", Pos: 2},
			},
		},
		{
			name:  "unterminated text",
			input: "/abc",
			expected: []Token{
				{Type: SlashTok, Value: "/", Pos: 0},
				{Type: TextTok, Value: "abc", Pos: 1},
			},
		},
		{
			name:  "character address",
			input: "#12+.",
			expected: []Token{
				{Type: HashTok, Value: "#", Pos: 0},
				{Type: NumberTok, Value: "12", Pos: 1},
				{Type: PlusTok, Value: "+", Pos: 3},
				{Type: DotTok, Value: ".", Pos: 4},
			},
		},
		{
			name:  "backward regexp",
			input: "$-/x/",
			expected: []Token{
				{Type: DollarTok, Value: "$", Pos: 0},
				{Type: MinusTok, Value: "-", Pos: 1},
				{Type: SlashTok, Value: "/", Pos: 2},
				{Type: TextTok, Value: "x", Pos: 3},
				{Type: SlashTok, Value: "/", Pos: 4},
			},
		},
		{
			name:  "filename takes the rest",
			input: "e my-file.txt",
			expected: []Token{
				{Type: CommandTok, Value: "e", Pos: 0},
				{Type: FilenameTok, Value: "my-file.txt", Pos: 2},
			},
		},
		{
			name:  "quoted filename",
			input: `w "a b" p`,
			expected: []Token{
				{Type: CommandTok, Value: "w", Pos: 0},
				{Type: FilenameTok, Value: "a b", Pos: 2},
				{Type: CommandTok, Value: "p", Pos: 8},
			},
		},
		{
			name:  "external command",
			input: "|sort -u",
			expected: []Token{
				{Type: CommandTok, Value: "|", Pos: 0},
				{Type: ExternalTok, Value: "sort -u", Pos: 1},
			},
		},
		{
			name:  "undo count",
			input: "u3",
			expected: []Token{
				{Type: CommandTok, Value: "u", Pos: 0},
				{Type: NumberTok, Value: "3", Pos: 1},
			},
		},
		{
			name:  "commands split per rune",
			input: "dp",
			expected: []Token{
				{Type: CommandTok, Value: "d", Pos: 0},
				{Type: CommandTok, Value: "p", Pos: 1},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Tokenize(tc.input))
		})
	}
}

func withoutPositions(tokens []Token) []Token {
	out := make([]Token, len(tokens))
	for i, t := range tokens {
		t.Pos = 0
		out[i] = t
	}
	return out
}

func TestUntokenizeRoundTrips(t *testing.T) {
	inputs := []string{
		"",
		"2,3d",
		"1 2 3",
		`x/a\/b/ d`,
		`/a\\/`,
		`s/\\\//x/`,
		"s/(a)(b)/\\2\\1/",
		"#3,$-/x/ c/y/",
		`e "my file.txt"`,
		"r notes.txt",
		"|tr a-z A-Z",
		"u2 =",
		"/unterminated",
		"a/one\\ntwo/",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			tokens := Tokenize(in)
			again := Tokenize(Untokenize(tokens))
			assert.Equal(t, withoutPositions(tokens), withoutPositions(again))
		})
	}
}

func TestLiteral(t *testing.T) {
	assert.Equal(t, `a\/b`, Token{Type: TextTok, Value: "a/b"}.Literal())
	assert.Equal(t, `"a b"`, Token{Type: FilenameTok, Value: "a b"}.Literal())
	assert.Equal(t, "12", Token{Type: NumberTok, Value: "12"}.Literal())
}
