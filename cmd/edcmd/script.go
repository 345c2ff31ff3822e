package main

import (
	"bufio"
	"io"
	"strings"
)

// readScript returns the commands in a script, one per line. Blank lines and
// lines starting with #! are skipped.
func readScript(r io.Reader) ([]string, error) {
	var cmds []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#!") {
			continue
		}
		cmds = append(cmds, line)
	}
	return cmds, scanner.Err()
}
