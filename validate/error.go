// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package validate

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific RuleError.
const (
	// ErrNoTxInputs indicates a transaction does not have any inputs.
	ErrNoTxInputs ErrorCode = iota

	// ErrDuplicateTxInputs indicates a transaction references the same
	// input more than once.
	ErrDuplicateTxInputs

	// ErrBadProof indicates the proof of an input does not unlock the
	// output it spends.
	ErrBadProof

	// ErrBadTxInput indicates the outputs spent by a transaction carry a
	// value outside the range of valid amounts.
	ErrBadTxInput

	// ErrNegativeOutput indicates a transaction output has a negative
	// value.
	ErrNegativeOutput

	// ErrOutputTooLarge indicates a transaction output, or the sum of all
	// outputs, exceeds the maximum allowed value.
	ErrOutputTooLarge

	// ErrSpendTooHigh indicates a transaction is attempting to spend more
	// value than the sum of all of its inputs.
	ErrSpendTooHigh

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrNoTxInputs:        "ErrNoTxInputs",
	ErrDuplicateTxInputs: "ErrDuplicateTxInputs",
	ErrBadProof:          "ErrBadProof",
	ErrBadTxInput:        "ErrBadTxInput",
	ErrNegativeOutput:    "ErrNegativeOutput",
	ErrOutputTooLarge:    "ErrOutputTooLarge",
	ErrSpendTooHigh:      "ErrSpendTooHigh",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// RuleError identifies a rule violation.  It is used to indicate that
// classification of a transaction found it permanently invalid.  The caller
// can use errors.As to determine if a failure was specifically due to a rule
// violation and access the ErrorCode field to ascertain the specific reason
// for the rule violation.
type RuleError struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	return e.Description
}

// ruleError creates an RuleError given a set of arguments.
func ruleError(c ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: c, Description: desc}
}

// IsErrorCode returns whether or not the provided error is a rule error with
// the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	var rerr RuleError
	return errors.As(err, &rerr) && rerr.ErrorCode == c
}
