package expr

import (
	"fmt"
	"strings"
	"unicode"
)

// Scanner splits a command string into tokens. Runs of ordinary characters are
// collected into a buffer which is classified when a space or special character
// ends it: digits become a NumberTok and every other rune a CommandTok of its own.
// Slashes introduce delimited text.
type Scanner struct {
	pos    int
	input  []rune
	tokens []Token

	buf      []rune
	bufStart int
}

type Token struct {
	Type  TokenType
	Value string
	// Pos is the index of the rune in the input where the token started
	Pos int
}

func (t Token) String() string {
	if t.Value == "" {
		return fmt.Sprintf("(%s)", t.Type)
	}
	return fmt.Sprintf("(%s, %q)", t.Type, t.Value)
}

// Literal returns text which scans back to the same token.
func (t Token) Literal() string {
	switch t.Type {
	case TextTok:
		return strings.ReplaceAll(t.Value, "/", `\/`)
	case FilenameTok:
		if strings.ContainsAny(t.Value, " \t") {
			return `"` + t.Value + `"`
		}
	}
	return t.Value
}

func (t Token) len() int {
	n := len([]rune(t.Value))
	if n == 0 {
		return 1
	}
	return n
}

// Tokenize scans cmd. It never fails: malformed input shows up as a token
// sequence the parser rejects.
func Tokenize(cmd string) []Token {
	var s Scanner
	return s.Scan(cmd)
}

// Untokenize joins the literal forms of tokens into a command string that
// tokenizes to the same sequence.
func Untokenize(tokens []Token) string {
	var sb strings.Builder
	for i, t := range tokens {
		if i > 0 && t.Type == NumberTok && tokens[i-1].Type == NumberTok {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.Literal())
	}
	return sb.String()
}

func (s *Scanner) Scan(cmd string) []Token {
	s.input = []rune(cmd)
	s.pos = 0
	s.tokens = make([]Token, 0, 10)
	s.buf = s.buf[:0]

	for !s.atEnd() {
		r := s.input[s.pos]

		if unicode.IsSpace(r) || r == '/' || isSpecial(r) {
			if s.flush() {
				// The buffer consumed input beyond itself.
				continue
			}
		}

		switch {
		case unicode.IsSpace(r):
			s.pos++
		case r == '/':
			s.addToken(Token{Type: SlashTok, Value: "/", Pos: s.pos})
			s.pos++
			s.delimited()
		case isSpecial(r):
			s.addToken(Token{Type: specialTokens[r], Value: string(r), Pos: s.pos})
			s.pos++
		default:
			if len(s.buf) == 0 {
				s.bufStart = s.pos
			}
			s.buf = append(s.buf, r)
			s.pos++
		}
	}
	s.flush()

	dbg("tokens for %q: %v", cmd, s.tokens)
	return s.tokens
}

var specialTokens = map[rune]TokenType{
	',': CommaTok,
	'.': DotTok,
	'+': PlusTok,
	'-': MinusTok,
	'$': DollarTok,
	'#': HashTok,
}

func isSpecial(r rune) bool {
	_, ok := specialTokens[r]
	return ok
}

// delimited scans the text following an opening slash. The s command takes a
// pattern and a replacement; everything else takes one string.
func (s *Scanner) delimited() {
	n := 1
	if len(s.tokens) >= 2 {
		prev := s.tokens[len(s.tokens)-2]
		if prev.Type == CommandTok && prev.Value == "s" {
			n = 2
		}
	}

	for i := 0; i < n; i++ {
		start := s.pos
		text, closed := s.str('/')
		if !closed {
			if text != "" {
				s.addToken(Token{Type: TextTok, Value: text, Pos: start})
			}
			return
		}
		s.addToken(Token{Type: TextTok, Value: text, Pos: start})
		s.addToken(Token{Type: SlashTok, Value: "/", Pos: s.pos})
		s.pos++
	}
}

// str reads up to an unescaped delim. A delim preceded by an odd number of
// backslashes is escaped and the backslash that escaped it is dropped. Other
// backslashes are kept as written.
func (s *Scanner) str(delim rune) (text string, closed bool) {
	var sb strings.Builder
	backslashes := 0
	for ; !s.atEnd(); s.pos++ {
		r := s.input[s.pos]
		if r == delim {
			if backslashes%2 == 0 {
				return sb.String(), true
			}
			str := sb.String()
			sb.Reset()
			sb.WriteString(str[:len(str)-1])
			sb.WriteRune(r)
			backslashes = 0
			continue
		}

		if r == '\\' {
			backslashes++
		} else {
			backslashes = 0
		}
		sb.WriteRune(r)
	}
	return sb.String(), false
}

// flush classifies the buffered runes into tokens. It reports whether it consumed
// input past the buffer, which happens for commands that take a filename or an
// external command.
func (s *Scanner) flush() (consumed bool) {
	if len(s.buf) == 0 {
		return false
	}
	buf, start := s.buf, s.bufStart
	s.buf = s.buf[:0]

	for i := 0; i < len(buf); {
		r := buf[i]
		if isDigit(r) {
			j := i
			for j < len(buf) && isDigit(buf[j]) {
				j++
			}
			s.addToken(Token{Type: NumberTok, Value: string(buf[i:j]), Pos: start + i})
			i = j
			continue
		}

		s.addToken(Token{Type: CommandTok, Value: string(r), Pos: start + i})
		switch {
		case isFilenameCommand(r):
			s.filename(start + i + 1)
			return true
		case isExternalCommand(r):
			s.external(start + i + 1)
			return true
		}
		i++
	}
	return false
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isFilenameCommand(r rune) bool {
	switch r {
	case 'e', 'r', 'w', 'l':
		return true
	}
	return false
}

func isExternalCommand(r rune) bool {
	switch r {
	case '<', '>', '|', '!':
		return true
	}
	return false
}

// filename reads the argument of a filename command starting at input index from.
// A double-quoted name ends at the closing quote and scanning continues after it;
// otherwise the rest of the input is the name.
func (s *Scanner) filename(from int) {
	s.pos = from
	for !s.atEnd() && unicode.IsSpace(s.input[s.pos]) {
		s.pos++
	}
	if s.atEnd() {
		return
	}

	start := s.pos
	if s.input[s.pos] == '"' {
		s.pos++
		for !s.atEnd() && s.input[s.pos] != '"' {
			s.pos++
		}
		s.addToken(Token{Type: FilenameTok, Value: string(s.input[start+1 : s.pos]), Pos: start})
		if !s.atEnd() {
			s.pos++
		}
		return
	}

	name := strings.TrimRightFunc(string(s.input[start:]), unicode.IsSpace)
	s.addToken(Token{Type: FilenameTok, Value: name, Pos: start})
	s.pos = len(s.input)
}

func (s *Scanner) external(from int) {
	s.pos = len(s.input)
	if from >= len(s.input) {
		return
	}
	cmd := strings.TrimSpace(string(s.input[from:]))
	if cmd == "" {
		return
	}
	s.addToken(Token{Type: ExternalTok, Value: cmd, Pos: from})
}

func (s *Scanner) addToken(t Token) {
	s.tokens = append(s.tokens, t)
}

func (s *Scanner) atEnd() bool {
	return s.pos >= len(s.input)
}

type TokenType int

const (
	NilTok TokenType = iota
	NumberTok
	DotTok
	PlusTok
	MinusTok
	DollarTok
	CommandTok
	FilenameTok
	SlashTok
	CommaTok
	HashTok
	TextTok
	ExternalTok
)

func (t TokenType) String() string {
	switch t {
	case NilTok:
		return "nilTok"
	case NumberTok:
		return "numberTok"
	case DotTok:
		return "dotTok"
	case PlusTok:
		return "plusTok"
	case MinusTok:
		return "minusTok"
	case DollarTok:
		return "dollarTok"
	case CommandTok:
		return "commandTok"
	case FilenameTok:
		return "filenameTok"
	case SlashTok:
		return "slashTok"
	case CommaTok:
		return "commaTok"
	case HashTok:
		return "hashTok"
	case TextTok:
		return "textTok"
	case ExternalTok:
		return "externalTok"
	}
	return "<unknown token>"
}
