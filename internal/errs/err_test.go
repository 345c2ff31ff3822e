package errs

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestList(t *testing.T) {
	var l List
	assert.NoError(t, l.Err())

	l.Add(nil)
	assert.Equal(t, 0, l.Len())

	l.Add(errors.New("line 1: bad"))
	l.Add(io.ErrUnexpectedEOF)
	assert.Equal(t, 2, l.Len())

	err := l.Err()
	assert.EqualError(t, err, "line 1: bad\nunexpected EOF")
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
