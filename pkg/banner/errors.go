package banner

import (
	"errors"
	"fmt"
)

var (
	ErrImageCount     = errors.New("composite needs exactly three images")
	ErrHeightMismatch = errors.New("images do not share a common height")
)

// IndexError is returned when a selection index falls outside a directory's candidates
type IndexError struct {
	Dir   string
	Index int
	Count int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range for %s (%d images)", e.Index, e.Dir, e.Count)
}

// DecodeError is returned when a selected file cannot be read as an image
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
