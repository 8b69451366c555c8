// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package utxo

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a kind of pool error.
type ErrorCode int

// These constants are used to identify a specific PoolError.
const (
	// ErrNotFound indicates an outpoint was expected in the pool but is
	// not there.
	ErrNotFound ErrorCode = iota

	// ErrConflict indicates an outpoint was about to be inserted while it
	// is already present.
	ErrConflict

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrNotFound: "ErrNotFound",
	ErrConflict: "ErrConflict",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// PoolError identifies a violation of the pool invariants.  Every key of the
// pool must be an unspent output, so removing a missing outpoint or inserting
// an existing one means a caller decided to spend or create something that is
// inconsistent with the actual contents of the pool.  Such errors indicate a
// programming error and are fatal to the batch being processed.
type PoolError struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
}

// Error satisfies the error interface and prints human-readable errors.
func (e PoolError) Error() string {
	return e.Description
}

// poolError creates a PoolError given a set of arguments.
func poolError(c ErrorCode, desc string) PoolError {
	return PoolError{ErrorCode: c, Description: desc}
}

// IsErrorCode returns whether or not the provided error is a pool error with
// the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	var perr PoolError
	return errors.As(err, &perr) && perr.ErrorCode == c
}
