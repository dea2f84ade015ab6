package engine

import (
	"errors"
	"fmt"
)

// ErrClosed is wrapped by persistence errors for writes enqueued after Close.
var ErrClosed = errors.New("engine closed")

// PersistenceError reports a failed store adapter call. The in-memory state
// that triggered the write stays authoritative.
type PersistenceError struct {
	Op  string // "get", "set", "remove", "decode", "encode"
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
