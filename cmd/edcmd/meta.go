package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/armon/go-radix"
	"github.com/pkg/errors"

	"github.com/jeffwilliams/edcmd/internal/buffer"
)

// metaFunc runs a REPL meta command. It returns true when the REPL should end.
type metaFunc func(s *session, args []string) (quit bool, err error)

var metaCommands *radix.Tree

func init() {
	metaCommands = radix.NewFromMap(map[string]interface{}{
		"print":   metaFunc(metaPrint),
		"history": metaFunc(metaHistory),
		"log":     metaFunc(metaLog),
		"undo":    metaFunc(metaUndo),
		"redo":    metaFunc(metaRedo),
		"write":   metaFunc(metaWrite),
		"quit":    metaFunc(metaQuit),
	})
}

// lookupMeta finds the meta command named by name or by a unique prefix of it.
func lookupMeta(name string) (metaFunc, error) {
	if v, ok := metaCommands.Get(name); ok {
		return v.(metaFunc), nil
	}

	matches := metaNamesWithPrefix(name)
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("unknown command :%s", name)
	case 1:
		v, _ := metaCommands.Get(matches[0])
		return v.(metaFunc), nil
	}
	return nil, fmt.Errorf("ambiguous command :%s matches %s", name, strings.Join(matches, ", "))
}

func metaNamesWithPrefix(prefix string) []string {
	var names []string
	metaCommands.WalkPrefix(prefix, func(s string, v interface{}) bool {
		names = append(names, s)
		return false
	})
	sort.Strings(names)
	return names
}

// completeMeta offers the meta commands that start with line.
func completeMeta(line string) []string {
	if !strings.HasPrefix(line, ":") || strings.ContainsAny(line, " \t") {
		return nil
	}
	var c []string
	for _, n := range metaNamesWithPrefix(line[1:]) {
		c = append(c, ":"+n)
	}
	return c
}

// meta runs a line beginning with a colon.
func (s *session) meta(line string) (quit bool) {
	fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(line), ":"))
	name := ""
	if len(fields) > 0 {
		name = fields[0]
		fields = fields[1:]
	}

	f, err := lookupMeta(name)
	if err == nil {
		quit, err = f(s, fields)
	}
	if err != nil {
		fmt.Fprintln(s.out, formatError(err))
	}
	return
}

func metaPrint(s *session, args []string) (bool, error) {
	fmt.Fprint(s.out, renderBuffer(s.buf))
	return false, nil
}

func metaHistory(s *session, args []string) (bool, error) {
	for _, e := range s.history.Entries() {
		outcome := "ok"
		if e.Failed() {
			outcome = e.Error
		}
		fmt.Fprintf(s.out, "%4d  %-20s %s\n", e.Seq, e.Command, outcome)
	}
	return false, nil
}

func metaLog(s *session, args []string) (bool, error) {
	if len(args) == 0 {
		fmt.Fprintf(s.out, "categories: %s\n", strings.Join(debugLog.Categories(), " "))
	}
	fmt.Fprint(s.out, debugLog.String(args...))
	return false, nil
}

func metaUndo(s *session, args []string) (bool, error) {
	if !s.buf.CanUndo() {
		return false, errors.New("nothing to undo")
	}
	s.buf = buffer.Undo(s.buf, s.settings)
	return false, nil
}

func metaRedo(s *session, args []string) (bool, error) {
	if !s.buf.CanRedo() {
		return false, errors.New("nothing to redo")
	}
	s.buf = buffer.Redo(s.buf, s.settings)
	return false, nil
}

func metaWrite(s *session, args []string) (bool, error) {
	path := s.buf.Name
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return false, errors.New("no file name")
	}

	b, err := buffer.SaveToFile(s.buf, s.fs, path)
	if err != nil {
		return false, err
	}
	s.buf = b
	log(LogCatgApp, "wrote %s\n", path)
	fmt.Fprintln(s.out, path)
	return false, nil
}

func metaQuit(s *session, args []string) (bool, error) {
	return true, nil
}
