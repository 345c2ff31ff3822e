package expr

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/afero"

	"github.com/jeffwilliams/edcmd/internal/buffer"
	"github.com/jeffwilliams/edcmd/internal/cache"
	"github.com/jeffwilliams/edcmd/internal/settings"
)

// Piper runs external commands for the | < > and ! commands.
type Piper interface {
	// Pipe runs command with input on its standard input and returns its output.
	Pipe(command, input string) (output string, err error)
}

// Env holds what commands need from outside the buffer. The zero value is usable:
// files come from the OS, output is discarded and pipes fail.
type Env struct {
	Settings settings.Settings
	Fs       afero.Fs
	Output   io.Writer
	Piper    Piper
}

// Interpreter executes parsed expressions against a buffer. It keeps compiled
// regular expressions between calls.
type Interpreter struct {
	env     Env
	regexes cache.Cache[string, *regexp.Regexp]
	// record is false while running the body of x, which records one undo step
	// for the whole loop.
	record bool
}

func NewInterpreter(env Env) *Interpreter {
	if env.Fs == nil {
		env.Fs = afero.NewOsFs()
	}
	if env.Output == nil {
		env.Output = io.Discard
	}
	size := env.Settings.RegexCacheSize
	if size < 1 {
		size = settings.Default().RegexCacheSize
	}
	return &Interpreter{
		env:     env,
		regexes: cache.New[string, *regexp.Regexp](size),
		record:  true,
	}
}

// Handle tokenizes, parses and executes command. On a parse error b is returned
// unchanged. On an execution error the result of the expressions that ran
// before the failing one is returned along with the error.
func (in *Interpreter) Handle(b buffer.Buffer, command string) (buffer.Buffer, error) {
	var p Parser
	p.SetNestingLimit(in.env.Settings.MaxNesting)
	exprs, err := p.Parse(Tokenize(command))
	if err != nil {
		return b, err
	}
	return in.Execute(exprs, b)
}

func (in *Interpreter) Execute(exprs []Expression, b buffer.Buffer) (buffer.Buffer, error) {
	for _, e := range exprs {
		nb, err := in.apply(e, b)
		if err != nil {
			return b, err
		}
		b = nb
	}
	return b, nil
}

func (in *Interpreter) apply(e Expression, b buffer.Buffer) (buffer.Buffer, error) {
	switch e := e.(type) {
	case AddressRange:
		a, err := in.address(e, b)
		if err != nil {
			return b, err
		}
		return setDot(b, a), nil
	case Command:
		return in.execute(e, b)
	}
	return b, runtimeError(NotImplemented, "expression %T", e)
}

func (in *Interpreter) compile(pattern string) (*regexp.Regexp, error) {
	return in.regexes.GetOrSet(pattern, func() (*regexp.Regexp, error) {
		dbg("compiling regexp %q", pattern)
		return compileRegexp(pattern)
	})
}

func (in *Interpreter) address(r AddressRange, b buffer.Buffer) (Address, error) {
	return evalWith(r, b, in.compile)
}

func setDot(b buffer.Buffer, a Address) buffer.Buffer {
	if a.NullSelection {
		return b.MoveTo(a.P1)
	}
	return b.Select(a.P1, a.P2)
}

// dotSpan returns dot as the half-open span [p1, end).
func dotSpan(b buffer.Buffer) (p1, end buffer.Position) {
	d := DotAddress(b)
	if d.NullSelection {
		return d.P1, d.P1
	}
	return d.P1, buffer.NextPosition(b, d.P2)
}

func (in *Interpreter) execute(cmd Command, b buffer.Buffer) (buffer.Buffer, error) {
	dbg("executing %#v with dot %v", cmd, DotAddress(b))

	switch c := cmd.(type) {
	case Append:
		return in.appendText(b, c.Text), nil
	case Insert:
		return in.insertBefore(b, c.Text), nil
	case Change:
		return in.change(b, c.Text), nil
	case Delete:
		if !b.HasSelection() {
			return b, nil
		}
		return buffer.Erase(b, in.env.Settings, in.record), nil
	case Move:
		return in.moveOrCopy(b, c.Addr, true)
	case Copy:
		return in.moveOrCopy(b, c.Addr, false)
	case Substitute:
		return in.substitute(b, c)
	case IfMatch:
		return in.conditional(b, c.Regex, c.Cmd, true)
	case IfNotMatch:
		return in.conditional(b, c.Regex, c.Cmd, false)
	case ForEachMatch:
		return in.forEachMatch(b, c)
	case ForEachGap:
		return b, runtimeError(NotImplemented, "y")
	case ReadFile:
		return in.readFile(b, c.Filename)
	case EditFile:
		return in.editFile(b, c.Filename)
	case WriteFile:
		return in.writeFile(b, c.Filename)
	case Undo:
		for i := 0; i < c.Count && b.CanUndo(); i++ {
			b = buffer.Undo(b, in.env.Settings)
		}
		return b, nil
	case Print:
		return b, in.print(b)
	case PrintDot:
		return b, in.printDot(b)
	case Pipe:
		return in.pipe(b, c)
	case Noop:
		return b, nil
	}
	return b, runtimeError(NotImplemented, "command %T", cmd)
}

// insertText inserts text at the cursor, replacing the selection if any, and
// selects what was inserted.
func (in *Interpreter) insertText(b buffer.Buffer, text string, record bool) buffer.Buffer {
	start := DotAddress(b).P1
	b = buffer.Insert(b, text, in.env.Settings, record)
	if b.Pos == start {
		return b.MoveTo(start)
	}
	return b.Select(start, buffer.PreviousPosition(b, b.Pos))
}

func (in *Interpreter) appendText(b buffer.Buffer, text string) buffer.Buffer {
	_, end := dotSpan(b)
	return in.insertText(b.MoveTo(end), text, in.record)
}

func (in *Interpreter) insertBefore(b buffer.Buffer, text string) buffer.Buffer {
	p1, _ := dotSpan(b)
	return in.insertText(b.MoveTo(p1), text, in.record)
}

func (in *Interpreter) change(b buffer.Buffer, text string) buffer.Buffer {
	if !b.HasSelection() {
		return in.insertBefore(b, text)
	}
	if in.record {
		b = buffer.PushUndo(b)
	}
	b = buffer.Erase(b, in.env.Settings, false)
	return in.insertText(b, text, false)
}

func (in *Interpreter) moveOrCopy(b buffer.Buffer, addr AddressRange, move bool) (buffer.Buffer, error) {
	target, err := in.address(addr, b)
	if err != nil {
		return b, err
	}
	if !b.HasSelection() {
		return b, nil
	}

	text := buffer.Selection(b, in.env.Settings)
	p1, end := dotSpan(b)

	at := target.P2
	if !target.NullSelection {
		at = buffer.NextPosition(b, target.P2)
	}

	if !move {
		return in.insertText(b.MoveTo(at), text, in.record), nil
	}

	at = RecomputePositionAfterErase(at, p1, end)
	if in.record {
		b = buffer.PushUndo(b)
	}
	b = buffer.Erase(b, in.env.Settings, false)
	return in.insertText(b.MoveTo(at), text, false), nil
}

func (in *Interpreter) substitute(b buffer.Buffer, c Substitute) (buffer.Buffer, error) {
	re, err := in.compile(c.Regex)
	if err != nil {
		return b, err
	}

	p1, end := dotSpan(b)
	m, ok := nextMatch(re, b, p1, end)
	if !ok {
		return b, nil
	}

	repl := expandReplacement(c.Text, b.Line(m.row), m.loc)
	if m.empty() {
		b = b.MoveTo(m.start())
	} else {
		b = setDot(b, m.address(b))
	}
	return in.insertText(b, repl, in.record), nil
}

// expandReplacement builds the replacement text for a match. & stands for the
// whole match and \1 through \9 for submatches; \n, \t, \& and \\ are escapes.
func expandReplacement(template, line string, loc []int) string {
	if !strings.ContainsAny(template, `\&`) {
		return template
	}

	group := func(n int) string {
		if 2*n+1 >= len(loc) || loc[2*n] < 0 {
			return ""
		}
		return line[loc[2*n]:loc[2*n+1]]
	}

	var sb strings.Builder
	escaped := false
	for _, r := range template {
		if !escaped {
			switch r {
			case '\\':
				escaped = true
			case '&':
				sb.WriteString(group(0))
			default:
				sb.WriteRune(r)
			}
			continue
		}

		escaped = false
		switch {
		case unicode.IsDigit(r) && r != '0':
			n, _ := strconv.Atoi(string(r))
			sb.WriteString(group(n))
		case r == 'n':
			sb.WriteByte('\n')
		case r == 't':
			sb.WriteByte('\t')
		case r == '&' || r == '\\':
			sb.WriteRune(r)
		default:
			sb.WriteByte('\\')
			sb.WriteRune(r)
		}
	}
	if escaped {
		sb.WriteByte('\\')
	}
	return sb.String()
}

func (in *Interpreter) conditional(b buffer.Buffer, pattern string, cmd Command, want bool) (buffer.Buffer, error) {
	re, err := in.compile(pattern)
	if err != nil {
		return b, err
	}

	p1, end := dotSpan(b)
	if containsMatch(re, b, p1, end) != want {
		return b, nil
	}
	return in.execute(cmd, b)
}

// forEachMatch runs c.Cmd with dot set to each match in dot. After each run the
// end of the region is moved to account for the change the command made to its
// match, and the search resumes after it. The whole loop is one undo step.
func (in *Interpreter) forEachMatch(b buffer.Buffer, c ForEachMatch) (buffer.Buffer, error) {
	re, err := in.compile(c.Regex)
	if err != nil {
		return b, err
	}

	if in.record {
		b = buffer.PushUndo(b)
	}
	saved := in.record
	in.record = false
	defer func() { in.record = saved }()

	cur, end := dotSpan(b)
	for !end.Less(cur) {
		m, ok := nextMatch(re, b, cur, end)
		if !ok {
			break
		}

		o1, o2 := m.start(), m.end()
		b = setDot(b, m.address(b))
		b, err = in.execute(c.Cmd, b)
		if err != nil {
			return b, err
		}

		n1, n2 := dotSpan(b)
		end = RecomputePositionAfterDotChange(end, o1, o2, n1, n2)
		if n1 == o1 {
			cur = n2
		} else {
			cur = o2
		}

		if m.empty() {
			next := buffer.NextPosition(b, cur)
			if next == cur {
				break
			}
			cur = next
		}
	}
	return b, nil
}

func (in *Interpreter) readFile(b buffer.Buffer, name string) (buffer.Buffer, error) {
	f, err := buffer.ReadFromFile(in.env.Fs, name)
	if err != nil {
		return b, err
	}
	return in.insertBefore(b, f.Text()), nil
}

func (in *Interpreter) editFile(b buffer.Buffer, name string) (buffer.Buffer, error) {
	f, err := buffer.ReadFromFile(in.env.Fs, name)
	if err != nil {
		return b, err
	}

	if in.record {
		b = buffer.PushUndo(b)
	}
	b = b.Select(buffer.Position{}, buffer.LastPosition(b))
	b = buffer.Erase(b, in.env.Settings, false)
	b = buffer.Insert(b, f.Text(), in.env.Settings, false)
	b = b.MoveTo(buffer.Position{})
	b.Name = name
	b.Modified = false
	return b, nil
}

func (in *Interpreter) writeFile(b buffer.Buffer, name string) (buffer.Buffer, error) {
	if name == "" {
		name = b.Name
	}
	if name == "" {
		return b, runtimeError(BadSyntax, "no file name")
	}
	return buffer.SaveToFile(b, in.env.Fs, name)
}

func (in *Interpreter) print(b buffer.Buffer) error {
	text := buffer.Selection(b, in.env.Settings)
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := io.WriteString(in.env.Output, text)
	return err
}

// printDot prints dot as row:col or row:col,row:col. Rows and columns count from 1
// and columns count characters.
func (in *Interpreter) printDot(b buffer.Buffer) error {
	d := DotAddress(b)
	s := formatPosition(b, d.P1)
	if !d.NullSelection {
		s += "," + formatPosition(b, d.P2)
	}
	_, err := fmt.Fprintln(in.env.Output, s)
	return err
}

func formatPosition(b buffer.Buffer, p buffer.Position) string {
	col := utf8.RuneCountInString(b.Line(p.Row)[:p.Col])
	return fmt.Sprintf("%d:%d", p.Row+1, col+1)
}

// pipe runs an external command. | filters dot through the command, < replaces
// dot with the command's output, > sends dot to the command and ! just runs it.
// The output of > and ! is printed.
func (in *Interpreter) pipe(b buffer.Buffer, c Pipe) (buffer.Buffer, error) {
	if in.env.Piper == nil {
		return b, runtimeError(PipeError, "no shell to run %q", c.Command)
	}

	var input string
	if c.Marker == '|' || c.Marker == '>' {
		input = buffer.Selection(b, in.env.Settings)
	}

	out, err := in.env.Piper.Pipe(c.Command, input)
	if err != nil {
		return b, runtimeError(PipeError, "%s: %v", c.Command, err)
	}

	switch c.Marker {
	case '|', '<':
		if !b.HasSelection() {
			return in.insertBefore(b, out), nil
		}
		return in.insertText(b, out, in.record), nil
	}
	_, err = io.WriteString(in.env.Output, out)
	return b, err
}
