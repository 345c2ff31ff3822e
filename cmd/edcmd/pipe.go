package main

import (
	"bytes"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// shellPiper runs external commands with `shell -c`.
type shellPiper struct {
	shell string
}

func (p shellPiper) Pipe(command, input string) (string, error) {
	cmd := exec.Command(p.shell, "-c", command)
	cmd.Stdin = strings.NewReader(input)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	log(LogCatgApp, "running %s -c %q\n", p.shell, command)
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return string(out), errors.Wrap(err, msg)
		}
		return string(out), err
	}
	return string(out), nil
}
