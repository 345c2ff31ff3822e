package expr

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Recursive Descent parser
// https://craftinginterpreters.com/parsing-expressions.html

// Parser builds a list of Expressions from tokens. It stops at the first error.
type Parser struct {
	tokens  []Token
	current int

	depth      int
	depthLimit int
}

// maxChainOperands bounds the operands of a single Chain. The grammar is binary:
// a+b+c parses as the term a+b followed by the term +c relative to dot.
const maxChainOperands = 2

// Parse parses tokens with no nesting limit.
func Parse(tokens []Token) ([]Expression, error) {
	var p Parser
	return p.Parse(tokens)
}

// SetNestingLimit bounds how deeply g, v, x and y may nest. Zero or less means no limit.
func (p *Parser) SetNestingLimit(n int) {
	p.depthLimit = n
}

func (p *Parser) Parse(tokens []Token) (exprs []Expression, err error) {
	p.tokens = tokens
	p.current = 0
	p.depth = 0

	for !p.atEnd() {
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	dbg("parsed %d expressions: %#v", len(exprs), exprs)
	return exprs, nil
}

func (p *Parser) expression() (Expression, error) {
	if p.check(CommandTok) {
		return p.command()
	}
	return p.addressRange()
}

func (p *Parser) addressRange() (AddressRange, error) {
	return parseChain(p, []string{","}, func(bool) (AddressTerm, error) {
		return p.addressTerm()
	})
}

func (p *Parser) addressTerm() (AddressTerm, error) {
	return parseChain(p, []string{"+", "-"}, p.simpleAddress)
}

// parseChain parses operand (op operand)* where op is one of ops. operand is told
// whether the chain already has operands, which changes the default it synthesizes
// when its operand is missing.
func parseChain[T any](p *Parser, ops []string, operand func(hasOperands bool) (T, error)) (chain Chain[T], err error) {
	first, err := operand(false)
	if err != nil {
		return
	}
	chain.Operands = append(chain.Operands, first)

	for len(chain.Operands) < maxChainOperands && p.checkValue(ops...) {
		op := p.advance().Value
		var next T
		next, err = operand(true)
		if err != nil {
			return
		}
		chain.Ops = append(chain.Ops, op)
		chain.Operands = append(chain.Operands, next)
	}
	return
}

// simpleAddress parses one simple address. When the address is omitted, as in
// ",5" or "+3", a default is synthesized and the following token is left in place.
func (p *Parser) simpleAddress(hasOperands bool) (SimpleAddress, error) {
	if p.atEnd() {
		return missingAddress(hasOperands), nil
	}

	t := p.peek()
	switch t.Type {
	case NumberTok:
		p.advance()
		n, err := p.number(t)
		if err != nil {
			return nil, err
		}
		return LineNumber{Value: n}, nil
	case HashTok:
		p.advance()
		if !p.match(NumberTok) {
			return nil, p.expected(NumberTok)
		}
		n, err := p.number(p.previous())
		if err != nil {
			return nil, err
		}
		return CharacterNumber{Value: n}, nil
	case SlashTok:
		text, err := p.delimitedText()
		if err != nil {
			return nil, err
		}
		return RegExp{Pattern: text}, nil
	case DollarTok:
		p.advance()
		return EndOfFile{}, nil
	case DotTok:
		p.advance()
		return Dot{}, nil
	case CommaTok:
		if hasOperands {
			return LineNumber{Value: 1}, nil
		}
		return LineNumber{Value: 0}, nil
	case PlusTok, MinusTok:
		if hasOperands {
			return LineNumber{Value: 1}, nil
		}
		return Dot{}, nil
	case CommandTok:
		return missingAddress(hasOperands), nil
	}
	return nil, newError(AddressExpected, t.Pos, "unexpected %s", t.Type)
}

func missingAddress(hasOperands bool) SimpleAddress {
	if hasOperands {
		return LineNumber{Value: 1}
	}
	return EndOfFile{}
}

func (p *Parser) command() (Command, error) {
	if p.atEnd() {
		return nil, newError(NoTokens, p.runePosition(), "expected a command")
	}
	if !p.match(CommandTok) {
		t := p.peek()
		return nil, newError(CommandExpected, t.Pos, "unexpected %s", t.Type)
	}

	t := p.previous()
	op, _ := utf8.DecodeRuneInString(t.Value)

	switch op {
	case 'a', 'c', 'i':
		text, err := p.delimitedText()
		if err != nil {
			return nil, err
		}
		text = unescapeText(text)
		switch op {
		case 'a':
			return Append{Text: text}, nil
		case 'c':
			return Change{Text: text}, nil
		}
		return Insert{Text: text}, nil
	case 'd':
		return Delete{}, nil
	case 'p':
		return Print{}, nil
	case '=':
		return PrintDot{}, nil
	case 'e', 'r', 'w':
		if !p.match(FilenameTok) {
			return nil, p.expected(FilenameTok)
		}
		name := p.previous().Value
		switch op {
		case 'e':
			return EditFile{Filename: name}, nil
		case 'r':
			return ReadFile{Filename: name}, nil
		}
		return WriteFile{Filename: name}, nil
	case 'g', 'v', 'x', 'y':
		return p.loop(op)
	case 'm', 't':
		addr, err := p.addressRange()
		if err != nil {
			return nil, err
		}
		if op == 'm' {
			return Move{Addr: addr}, nil
		}
		return Copy{Addr: addr}, nil
	case 's':
		return p.substitute()
	case 'u':
		n := 1
		if p.match(NumberTok) {
			var err error
			n, err = p.number(p.previous())
			if err != nil {
				return nil, err
			}
		}
		return Undo{Count: n}, nil
	case '|', '<', '>', '!':
		if !p.match(ExternalTok) {
			return nil, p.expected(ExternalTok)
		}
		return Pipe{Marker: op, Command: p.previous().Value}, nil
	}

	return nil, newError(CommandExpected, t.Pos, "unknown command '%c'", op)
}

func (p *Parser) loop(op rune) (Command, error) {
	re, err := p.delimitedText()
	if err != nil {
		return nil, err
	}

	p.depth++
	defer func() { p.depth-- }()
	if p.depthLimit > 0 && p.depth > p.depthLimit {
		return nil, newError(BadSyntax, p.runePosition(), "commands nested deeper than %d", p.depthLimit)
	}

	cmd, err := p.command()
	if err != nil {
		return nil, err
	}

	switch op {
	case 'g':
		return IfMatch{Regex: re, Cmd: cmd}, nil
	case 'v':
		return IfNotMatch{Regex: re, Cmd: cmd}, nil
	case 'x':
		return ForEachMatch{Regex: re, Cmd: cmd}, nil
	}
	return ForEachGap{Regex: re, Cmd: cmd}, nil
}

func (p *Parser) substitute() (Command, error) {
	re, err := p.delimitedText()
	if err != nil {
		return nil, err
	}
	if !p.match(TextTok) {
		return nil, p.expected(TextTok)
	}
	repl := p.previous().Value
	if !p.match(SlashTok) {
		return nil, p.expected(SlashTok)
	}
	return Substitute{Regex: re, Text: repl}, nil
}

// delimitedText parses / text /.
func (p *Parser) delimitedText() (string, error) {
	if !p.match(SlashTok) {
		return "", p.expected(SlashTok)
	}
	if !p.match(TextTok) {
		return "", p.expected(TextTok)
	}
	text := p.previous().Value
	if !p.match(SlashTok) {
		return "", p.expected(SlashTok)
	}
	return text, nil
}

func (p *Parser) number(t Token) (int, error) {
	n, err := strconv.Atoi(t.Value)
	if err != nil {
		return 0, newError(BadSyntax, t.Pos, "bad number %s", t.Value)
	}
	return n, nil
}

func (p *Parser) expected(typ TokenType) *Error {
	pos := p.runePosition()
	if !p.atEnd() {
		pos = p.peek().Pos
	}
	return newError(TokenExpected, pos, "expected %s", typ)
}

// unescapeText interprets \n, \t and \\ in the text of a, c and i.
func unescapeText(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	escaped := false
	for _, r := range s {
		if !escaped {
			if r == '\\' {
				escaped = true
				continue
			}
			sb.WriteRune(r)
			continue
		}
		escaped = false
		switch r {
		case 'n':
			sb.WriteRune('\n')
		case 't':
			sb.WriteRune('\t')
		case '\\':
			sb.WriteRune('\\')
		default:
			sb.WriteRune('\\')
			sb.WriteRune(r)
		}
	}
	if escaped {
		sb.WriteRune('\\')
	}
	return sb.String()
}

func (p *Parser) match(types ...TokenType) bool {
	if p.check(types...) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) check(types ...TokenType) bool {
	if p.atEnd() {
		return false
	}
	for _, t := range types {
		if p.peek().Type == t {
			return true
		}
	}
	return false
}

func (p *Parser) checkValue(values ...string) bool {
	if p.atEnd() {
		return false
	}
	t := p.peek()
	if t.Type != CommaTok && t.Type != PlusTok && t.Type != MinusTok {
		return false
	}
	for _, v := range values {
		if t.Value == v {
			return true
		}
	}
	return false
}

func (p *Parser) advance() Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() Token {
	return p.tokens[p.current-1]
}

func (p *Parser) atEnd() bool {
	return p.current >= len(p.tokens)
}

func (p *Parser) runePosition() int {
	if p.current == 0 {
		return 0
	}
	return p.previous().Pos + p.previous().len()
}
