package expr

import "github.com/jeffwilliams/edcmd/internal/buffer"

// Address is a resolved address: the inclusive span [P1, P2]. A NullSelection
// address is the empty string at P1, and P2 == P1.
type Address struct {
	P1, P2        buffer.Position
	NullSelection bool
}

type direction int

const (
	forward direction = iota
	backward
)

func (d direction) flip() direction {
	if d == forward {
		return backward
	}
	return forward
}

// cursor is what a simple address is evaluated relative to. At the top level it
// is dot and line and character numbers count from the start of the file.
type cursor struct {
	addr Address
	dir  direction
	top  bool
}

// after is the first position following the cursor's address.
func (c cursor) after(b buffer.Buffer) buffer.Position {
	if c.addr.NullSelection {
		return c.addr.P2
	}
	return buffer.NextPosition(b, c.addr.P2)
}

type addrEvaluator struct {
	buf     buffer.Buffer
	compile compileFunc
}

// InterpretAddressRange resolves r against b, relative to b's dot.
func InterpretAddressRange(r AddressRange, b buffer.Buffer) (Address, error) {
	ev := addrEvaluator{buf: b, compile: compileRegexp}
	return ev.evalRange(r)
}

// DotAddress returns the address of b's dot.
func DotAddress(b buffer.Buffer) Address {
	p1, p2, ok := b.SelectionRange()
	if !ok {
		p := buffer.Clamp(b, b.Pos)
		return Address{P1: p, P2: p, NullSelection: true}
	}
	return normalize(b, Address{P1: p1, P2: p2})
}

func normalize(b buffer.Buffer, a Address) Address {
	a.P1, a.P2 = buffer.Ordered(buffer.Clamp(b, a.P1), buffer.Clamp(b, a.P2))
	if a.NullSelection {
		a.P2 = a.P1
	}
	return a
}

func (ev addrEvaluator) evalRange(r AddressRange) (Address, error) {
	if len(r.Operands) == 0 {
		return Address{}, runtimeError(BadSyntax, "empty address")
	}

	ref := cursor{addr: DotAddress(ev.buf), dir: forward, top: true}
	left, err := ev.evalTerm(r.Operands[0], ref)
	if err != nil {
		return left, err
	}

	for i, op := range r.Ops {
		right, err := ev.evalTerm(r.Operands[i+1], ref)
		if err != nil {
			return right, err
		}
		switch op {
		case ",":
			left = ev.span(left, right)
		default:
			return left, runtimeError(NotImplemented, "address operator %s", op)
		}
	}
	dbg("address %#v resolved to %v", r, left)
	return normalize(ev.buf, left), nil
}

// span returns the text from the start of l to the end of r. When r is empty the
// span stops short of r.
func (ev addrEvaluator) span(l, r Address) Address {
	res := Address{P1: l.P1, P2: r.P2}
	if !r.NullSelection {
		return res
	}
	if l.P1.Less(r.P2) {
		res.P2 = buffer.PreviousPosition(ev.buf, r.P2)
		return res
	}
	res.P2 = res.P1
	res.NullSelection = true
	return res
}

func (ev addrEvaluator) evalTerm(t AddressTerm, ref cursor) (Address, error) {
	if len(t.Operands) == 0 {
		return Address{}, runtimeError(BadSyntax, "empty address term")
	}

	left, err := ev.evalSimple(t.Operands[0], ref)
	if err != nil {
		return left, err
	}

	for i, op := range t.Ops {
		dir := ref.dir
		switch op {
		case "+":
		case "-":
			dir = dir.flip()
		default:
			return left, runtimeError(NotImplemented, "address operator %s", op)
		}
		left, err = ev.evalSimple(t.Operands[i+1], cursor{addr: left, dir: dir})
		if err != nil {
			return left, err
		}
	}
	return left, nil
}

func (ev addrEvaluator) evalSimple(a SimpleAddress, ref cursor) (Address, error) {
	switch a := a.(type) {
	case Dot:
		return DotAddress(ev.buf), nil
	case EndOfFile:
		last := buffer.LastPosition(ev.buf)
		return Address{P1: last, P2: last, NullSelection: true}, nil
	case LineNumber:
		return ev.line(a.Value, ref)
	case CharacterNumber:
		return ev.char(a.Value, ref)
	case RegExp:
		return ev.regexp(a.Pattern, ref)
	}
	return Address{}, runtimeError(NotImplemented, "address %T", a)
}

// line resolves line n. A line includes its newline, except for the last line
// which has none.
func (ev addrEvaluator) line(n int, ref cursor) (Address, error) {
	b := ev.buf
	if n == 0 {
		var p buffer.Position
		switch {
		case ref.top:
		case ref.dir == forward:
			p = ref.after(b)
		default:
			p = ref.addr.P1
		}
		return Address{P1: p, P2: p, NullSelection: true}, nil
	}

	var row int
	switch {
	case ref.top:
		row = n - 1
	case ref.dir == forward:
		row = ref.addr.P2.Row + n
	default:
		row = ref.addr.P1.Row - n
	}

	if row < 0 || row >= b.Rows() {
		return Address{}, runtimeError(InvalidAddress, "line %d is out of range", row+1)
	}

	p1 := buffer.Position{Row: row}
	end := buffer.Position{Row: row, Col: len(b.Line(row))}
	if row < b.Rows()-1 {
		return Address{P1: p1, P2: end}, nil
	}
	if end == p1 {
		return Address{P1: p1, P2: p1, NullSelection: true}, nil
	}
	return Address{P1: p1, P2: buffer.PreviousPosition(b, end)}, nil
}

// char resolves the empty string n characters from the reference.
func (ev addrEvaluator) char(n int, ref cursor) (Address, error) {
	b := ev.buf

	var p buffer.Position
	switch {
	case ref.top:
	case ref.dir == forward:
		p = ref.after(b)
	default:
		p = ref.addr.P1
	}

	for i := 0; i < n; i++ {
		var next buffer.Position
		if ref.top || ref.dir == forward {
			next = buffer.NextPosition(b, p)
			if next == p {
				return Address{}, runtimeError(InvalidAddress, "character %d is past the end of the file", n)
			}
		} else {
			next = buffer.PreviousPosition(b, p)
			if next == p {
				break
			}
		}
		p = next
	}
	return Address{P1: p, P2: p, NullSelection: true}, nil
}

func (ev addrEvaluator) regexp(pattern string, ref cursor) (Address, error) {
	re, err := ev.compile(pattern)
	if err != nil {
		return Address{}, err
	}

	var (
		m  lineMatch
		ok bool
	)
	if ref.top || ref.dir == forward {
		m, ok = searchForward(re, ev.buf, ref.after(ev.buf))
	} else {
		m, ok = searchBackward(re, ev.buf, ref.addr.P1)
	}
	if !ok {
		return Address{}, runtimeError(InvalidAddress, "no match for /%s/", pattern)
	}
	return m.address(ev.buf), nil
}

// evalWith resolves r with compile used for regular expressions.
func evalWith(r AddressRange, b buffer.Buffer, compile compileFunc) (Address, error) {
	ev := addrEvaluator{buf: b, compile: compile}
	return ev.evalRange(r)
}
