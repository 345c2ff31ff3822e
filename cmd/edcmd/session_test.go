package main

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffwilliams/edcmd/internal/buffer"
	"github.com/jeffwilliams/edcmd/internal/expr"
	"github.com/jeffwilliams/edcmd/internal/settings"
)

var testTime = time.Date(2024, 5, 21, 12, 43, 12, 0, time.UTC)

func newTestSession(text string) (*session, *bytes.Buffer) {
	out := &bytes.Buffer{}
	s := newSession(buffer.New(text), expr.Env{
		Settings: settings.Default(),
		Fs:       afero.NewMemMapFs(),
		Output:   out,
	})
	s.now = func() time.Time { return testTime }
	return s, out
}

func TestRun(t *testing.T) {
	s, out := newTestSession("one\ntwo\nthree")

	require.NoError(t, s.run("2d"))
	assert.Equal(t, "one\nthree", s.buf.Text())
	assert.Empty(t, out.String())

	err := s.run("s/pat/")
	assert.ErrorIs(t, err, expr.ErrTokenExpected)
	assert.Equal(t, "?token expected: expected textTok (at character 7)\n", out.String())
	assert.Equal(t, "one\nthree", s.buf.Text())

	entries := s.history.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "2d", entries[0].Command)
	assert.False(t, entries[0].Failed())
	assert.True(t, entries[1].Failed())
	assert.Equal(t, 6, entries[1].ErrorPos)
}

func TestRunAll(t *testing.T) {
	s, out := newTestSession("one\ntwo\nthree")

	err := s.runAll([]string{"2d", "/zzz/ d", "$a/!/"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, expr.ErrInvalidAddress))
	assert.Equal(t, "one\nthree!", s.buf.Text())
	assert.Contains(t, out.String(), "?invalid address")

	assert.NoError(t, s.runAll([]string{"1d", "u"}))
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "plain", err: errors.New("boom"), expected: "?boom"},
		{name: "kind only", err: &expr.Error{Kind: expr.NoTokens, Pos: -1}, expected: "?no tokens"},
		{name: "detail", err: &expr.Error{Kind: expr.InvalidRegex, Detail: "missing )", Pos: -1}, expected: "?invalid regex: missing )"},
		{name: "position", err: &expr.Error{Kind: expr.CommandExpected, Pos: 0}, expected: "?command expected (at character 1)"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, formatError(tc.err))
		})
	}
}

func TestRenderBuffer(t *testing.T) {
	tests := []struct {
		name     string
		b        buffer.Buffer
		expected string
	}{
		{
			name:     "cursor",
			b:        buffer.New("one\ntwo"),
			expected: "   1  ‸one\n   2  two\n",
		},
		{
			name:     "cursor at end of line",
			b:        buffer.New("one\ntwo").MoveTo(buffer.Position{Row: 0, Col: 3}),
			expected: "   1  one‸\n   2  two\n",
		},
		{
			name:     "selection",
			b:        buffer.New("one\ntwo").Select(buffer.Position{Row: 1, Col: 0}, buffer.Position{Row: 1, Col: 1}),
			expected: "   1  one\n   2  ⟦tw⟧o\n",
		},
		{
			name:     "selection across rows",
			b:        buffer.New("ab\ncd").Select(buffer.Position{Row: 0, Col: 1}, buffer.Position{Row: 1, Col: 0}),
			expected: "   1  a⟦b\n   2  c⟧d\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, renderBuffer(tc.b))
		})
	}
}
