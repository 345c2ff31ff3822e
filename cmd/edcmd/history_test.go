package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryCSV(t *testing.T) {
	s, _ := newTestSession("one\ntwo\nthree")
	require.NoError(t, s.run("2d"))
	s.run("s/pat/")

	var out bytes.Buffer
	require.NoError(t, s.history.Write(&out, "csv"))

	expected := `seq,time,command,micros,rows,dot,error,error_pos
1,2024-05-21T12:43:12Z,2d,0,2,"(1,0)",,-1
2,2024-05-21T12:43:12Z,s/pat/,0,2,"(1,0)",At character 7: token expected: expected textTok,6
`
	assert.Equal(t, expected, out.String())
}

func TestHistoryJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewHistory(3).Write(&out, "json"))
	assert.Equal(t, "[]\n", out.String())

	s, _ := newTestSession("one")
	require.NoError(t, s.run("1d"))
	out.Reset()
	require.NoError(t, s.history.Write(&out, "json"))
	assert.Contains(t, out.String(), `"command": "1d"`)
	assert.NotContains(t, out.String(), `"error":`)
}

func TestHistoryUnknownFormat(t *testing.T) {
	assert.EqualError(t, NewHistory(1).Write(&bytes.Buffer{}, "xml"), `unknown history format "xml": expected csv or json`)
}

func TestHistoryKeepsMostRecent(t *testing.T) {
	h := NewHistory(2)
	h.Add(HistoryEntry{Command: "a"})
	h.Add(HistoryEntry{Command: "b"})
	h.Add(HistoryEntry{Command: "c"})

	entries := h.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, 2, entries[0].Seq)
	assert.Equal(t, "b", entries[0].Command)
	assert.Equal(t, 3, entries[1].Seq)
}
