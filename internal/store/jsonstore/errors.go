package jsonstore

import (
	"errors"
	"fmt"
)

var (
	ErrCorrupt = errors.New("corrupt shopping list file")
	ErrIO      = errors.New("shopping list file i/o")
)

// CorruptStateError means the file exists but does not hold a valid list.
// Whether to abort or start over is the caller's decision.
type CorruptStateError struct {
	Path string
	Err  error
}

func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *CorruptStateError) Is(target error) bool { return target == ErrCorrupt }
func (e *CorruptStateError) Unwrap() error        { return e.Err }

// IOError wraps a failed read, write or rename of the backing file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Is(target error) bool { return target == ErrIO }
func (e *IOError) Unwrap() error        { return e.Err }
