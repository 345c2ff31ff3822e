package buffer

import (
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// ReadFromFile loads the file at path into a new Buffer named after it.
func ReadFromFile(fs afero.Fs, path string) (Buffer, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Buffer{}, errors.Wrapf(err, "reading %s", path)
	}

	b := New(string(data))
	b.Name = path
	return b, nil
}

// SaveToFile writes the buffer's text to path. On success the returned Buffer is
// marked unmodified, and takes the name path if it had none.
func SaveToFile(b Buffer, fs afero.Fs, path string) (Buffer, error) {
	err := afero.WriteFile(fs, path, []byte(b.Text()), 0o644)
	if err != nil {
		return b, errors.Wrapf(err, "writing %s", path)
	}

	b.Modified = false
	if b.Name == "" {
		b.Name = path
	}
	return b, nil
}
