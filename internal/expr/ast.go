package expr

// Expression is one element of a parsed command string: either an AddressRange,
// which only moves dot, or a Command.
type Expression interface {
	exprNode()
}

// Chain is a left-to-right chain of operands joined by operators of the same
// precedence. len(Ops) == len(Operands)-1.
type Chain[T any] struct {
	Operands []T
	Ops      []string
}

func (Chain[T]) exprNode() {}

// AddressTerm chains simple addresses with + and -.
type AddressTerm = Chain[SimpleAddress]

// AddressRange chains address terms with ,.
type AddressRange = Chain[AddressTerm]

type SimpleAddress interface {
	simpleAddr()
}

type LineNumber struct {
	Value int
}

type CharacterNumber struct {
	Value int
}

type Dot struct{}

type EndOfFile struct{}

type RegExp struct {
	Pattern string
}

func (LineNumber) simpleAddr()      {}
func (CharacterNumber) simpleAddr() {}
func (Dot) simpleAddr()             {}
func (EndOfFile) simpleAddr()       {}
func (RegExp) simpleAddr()          {}

// Command is a parsed command. The concrete types below are the only implementations.
type Command interface {
	Expression
	Op() rune
}

type (
	Append struct {
		Text string
	}
	Change struct {
		Text string
	}
	Delete    struct{}
	EditFile  struct {
		Filename string
	}
	IfMatch struct {
		Regex string
		Cmd   Command
	}
	Insert struct {
		Text string
	}
	Move struct {
		Addr AddressRange
	}
	Print    struct{}
	PrintDot struct{}
	ReadFile struct {
		Filename string
	}
	Substitute struct {
		Regex string
		Text  string
	}
	Copy struct {
		Addr AddressRange
	}
	Undo struct {
		Count int
	}
	IfNotMatch struct {
		Regex string
		Cmd   Command
	}
	WriteFile struct {
		Filename string
	}
	ForEachMatch struct {
		Regex string
		Cmd   Command
	}
	// ForEachGap is the complement of ForEachMatch. It parses but has no execution semantics.
	ForEachGap struct {
		Regex string
		Cmd   Command
	}
	// Pipe runs an external command. Marker is one of | < > !.
	Pipe struct {
		Marker  rune
		Command string
	}
	Noop struct{}
)

func (Append) Op() rune       { return 'a' }
func (Change) Op() rune       { return 'c' }
func (Delete) Op() rune       { return 'd' }
func (EditFile) Op() rune     { return 'e' }
func (IfMatch) Op() rune      { return 'g' }
func (Insert) Op() rune       { return 'i' }
func (Move) Op() rune         { return 'm' }
func (Print) Op() rune        { return 'p' }
func (PrintDot) Op() rune     { return '=' }
func (ReadFile) Op() rune     { return 'r' }
func (Substitute) Op() rune   { return 's' }
func (Copy) Op() rune         { return 't' }
func (Undo) Op() rune         { return 'u' }
func (IfNotMatch) Op() rune   { return 'v' }
func (WriteFile) Op() rune    { return 'w' }
func (ForEachMatch) Op() rune { return 'x' }
func (ForEachGap) Op() rune   { return 'y' }
func (p Pipe) Op() rune       { return p.Marker }
func (Noop) Op() rune         { return 0 }

func (Append) exprNode()       {}
func (Change) exprNode()       {}
func (Delete) exprNode()       {}
func (EditFile) exprNode()     {}
func (IfMatch) exprNode()      {}
func (Insert) exprNode()       {}
func (Move) exprNode()         {}
func (Print) exprNode()        {}
func (PrintDot) exprNode()     {}
func (ReadFile) exprNode()     {}
func (Substitute) exprNode()   {}
func (Copy) exprNode()         {}
func (Undo) exprNode()         {}
func (IfNotMatch) exprNode()   {}
func (WriteFile) exprNode()    {}
func (ForEachMatch) exprNode() {}
func (ForEachGap) exprNode()   {}
func (Pipe) exprNode()         {}
func (Noop) exprNode()         {}
