// Package errs collects the errors of several independent steps into one error.
package errs

import "strings"

type List []error

// Add appends err. Nil errors are ignored.
func (e *List) Add(err error) {
	if err != nil {
		*e = append(*e, err)
	}
}

func (e List) Len() int {
	return len(e)
}

func (e List) Error() string {
	s := make([]string, 0, len(e))
	for _, err := range e {
		s = append(s, err.Error())
	}
	return strings.Join(s, "\n")
}

// Unwrap lets errors.Is and errors.As look at each collected error.
func (e List) Unwrap() []error {
	return e
}

// Err returns nil if no errors were added and the List otherwise.
func (e List) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
