package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeffwilliams/edcmd/internal/settings"
)

const prompt = "* "

// repl reads commands from the terminal until :quit or end of input. Lines
// beginning with a colon are meta commands.
func (s *session) repl() {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(completeMeta)

	histPath := settings.HistoryFile()
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if err := os.MkdirAll(settings.ConfDir, 0o755); err != nil {
			log(LogCatgApp, "can't save REPL history: %v\n", err)
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(s.out)
			return
		}
		if err != nil {
			log(LogCatgApp, "reading input: %v\n", err)
			return
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)

		if strings.HasPrefix(strings.TrimSpace(line), ":") {
			if s.meta(line) {
				return
			}
			continue
		}
		s.run(line)
	}
}
