// Package expr implements a structural editing language in the style of ed and
// sam. A command string is a sequence of address ranges, which set dot, and
// commands, which act on dot.
package expr

/*
Addresses

	n       Line n. Line 0 is the empty string at the start of the file.
	#n      The empty string after character n.
	/re/    The next match of re after dot, wrapping around the end of the file.
	$       The empty string at the end of the file.
	.       Dot.
	a1+a2   a2 evaluated forward from the end of a1.
	a1-a2   a2 evaluated backward from the start of a1.
	a1,a2   From the start of a1 to the end of a2.

A missing left address of , is 0 and a missing right address is $. A missing
right address of + or - is 1 and a missing left address is dot.

Commands

	a/text/        Append text after dot.
	i/text/        Insert text before dot.
	c/text/        Replace dot with text.
	d              Delete dot.
	s/re/text/     Replace the first match of re in dot with text.
	m addr         Move dot to after addr.
	t addr         Copy dot to after addr.
	g/re/ cmd      Run cmd if dot contains a match of re.
	v/re/ cmd      Run cmd if dot does not contain a match of re.
	x/re/ cmd      Run cmd with dot set to each match of re in dot.
	y/re/ cmd      Not implemented.
	p              Print dot.
	=              Print the position of dot.
	e file         Replace the buffer with the contents of file.
	r file         Insert the contents of file at dot.
	w file         Write the buffer to file.
	u [n]          Undo the last n changes.
	| cmd          Replace dot with the output of cmd run on dot.
	< cmd          Replace dot with the output of cmd.
	> cmd          Print the output of cmd run on dot.
	! cmd          Print the output of cmd.

Text may contain \/ for a slash. In a, i and c text \n is a newline, \t a tab and
\\ a backslash. In s text & is the match and \1 to \9 are submatches.

Grammar:

	expression -> range | command
	range      -> term (',' term)?
	term       -> simple (('+' | '-') simple)?
	simple     -> number | '#' number | '/' text '/' | '$' | '.'
	command    -> 'a' '/' text '/' | ... | ('g' | 'v' | 'x' | 'y') '/' text '/' command
*/

import "github.com/jeffwilliams/edcmd/internal/buffer"

// Debug, when set, receives trace messages from the scanner, parser and interpreter.
var Debug func(message string, args ...interface{})

func dbg(message string, args ...interface{}) {
	if Debug != nil {
		Debug(message, args...)
	}
}

// HandleCommand runs command against b with a fresh Interpreter. Use an
// Interpreter directly to keep compiled regular expressions between commands.
func HandleCommand(b buffer.Buffer, command string, env Env) (buffer.Buffer, error) {
	return NewInterpreter(env).Handle(b, command)
}
