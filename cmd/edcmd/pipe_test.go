package main

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffwilliams/edcmd/internal/expr"
)

func TestShellPiper(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("no sh")
	}
	p := shellPiper{shell: "sh"}

	out, err := p.Pipe("tr a-z A-Z", "abc\n")
	require.NoError(t, err)
	assert.Equal(t, "ABC\n", out)

	_, err = p.Pipe("echo oops >&2; exit 3", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oops")

	s, _ := newTestSession("one\ntwo")
	s.in = expr.NewInterpreter(expr.Env{Settings: s.settings, Fs: s.fs, Output: s.out, Piper: p})
	require.NoError(t, s.run(",|tr a-z A-Z"))
	assert.Equal(t, "ONE\nTWO", s.buf.Text())
}
