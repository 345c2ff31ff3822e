package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/afero"

	"github.com/jeffwilliams/edcmd/internal/buffer"
	"github.com/jeffwilliams/edcmd/internal/errs"
	"github.com/jeffwilliams/edcmd/internal/expr"
	"github.com/jeffwilliams/edcmd/internal/settings"
)

// session is one editing session: a buffer and the commands run against it.
type session struct {
	buf      buffer.Buffer
	in       *expr.Interpreter
	settings settings.Settings
	fs       afero.Fs
	out      io.Writer
	history  *History
	now      func() time.Time
}

// newSession starts a session on b. env.Fs and env.Output must be set.
func newSession(b buffer.Buffer, env expr.Env) *session {
	return &session{
		buf:      b,
		in:       expr.NewInterpreter(env),
		settings: env.Settings,
		fs:       env.Fs,
		out:      env.Output,
		history:  NewHistory(env.Settings.HistorySize),
		now:      time.Now,
	}
}

// run runs one command string. Failures are printed and returned; the buffer
// keeps whatever the command did before it failed.
func (s *session) run(command string) error {
	start := s.now()
	b, err := s.in.Handle(s.buf, command)
	s.buf = b

	e := s.history.Add(newHistoryEntry(command, start, s.now().Sub(start), expr.DotAddress(b), b.Rows(), err))
	log(LogCatgCommands, "%d %q took %dus\n", e.Seq, command, e.Micros)
	log(LogCatgBuffer, "%d rows, dot %s, modified %v\n", e.Rows, e.Dot, b.Modified)

	if err != nil {
		fmt.Fprintln(s.out, formatError(err))
	}
	return err
}

// runAll runs each command in turn, carrying on after failures.
func (s *session) runAll(commands []string) error {
	var failed errs.List
	for _, c := range commands {
		failed.Add(s.run(c))
	}
	return failed.Err()
}

// formatError renders err the way ed does, prefixed with a question mark:
// ?<kind>: <detail>
func formatError(err error) string {
	var e *expr.Error
	if !errors.As(err, &e) {
		return "?" + err.Error()
	}

	var sb strings.Builder
	sb.WriteByte('?')
	sb.WriteString(e.Kind.String())
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	if e.Pos >= 0 {
		fmt.Fprintf(&sb, " (at character %d)", e.Pos+1)
	}
	return sb.String()
}

const (
	caretMark = "‸"
	openMark  = "⟦"
	closeMark = "⟧"
)

// renderBuffer returns the buffer's rows numbered from 1, with dot marked.
func renderBuffer(b buffer.Buffer) string {
	dot := expr.DotAddress(b)
	var sb strings.Builder

	for r, line := range b.Content {
		fmt.Fprintf(&sb, "%4d  ", r+1)
		for c := 0; ; {
			p := buffer.Position{Row: r, Col: c}
			if p == dot.P1 {
				if dot.NullSelection {
					sb.WriteString(caretMark)
				} else {
					sb.WriteString(openMark)
				}
			}
			if c >= len(line) {
				if !dot.NullSelection && p == dot.P2 {
					sb.WriteString(closeMark)
				}
				break
			}
			_, size := utf8.DecodeRuneInString(line[c:])
			sb.WriteString(line[c : c+size])
			if !dot.NullSelection && p == dot.P2 {
				sb.WriteString(closeMark)
			}
			c += size
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
