// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import "strconv"

// ErrorCode identifies a kind of script error.
type ErrorCode int

const (
	// ErrInternal is returned if an internal error is encountered, such as
	// a nil pointer provided where a non-nil value was expected.
	ErrInternal ErrorCode = iota

	// ErrInvalidIndex is returned when an input index is out of range for
	// the referenced transaction.
	ErrInvalidIndex

	// ErrUnsupportedAddress is returned when a concrete address type is
	// not supported by a script-construction helper.
	ErrUnsupportedAddress

	// ErrEarlyReturn is not returned by the engine: executing OP_RETURN
	// fails with ErrReservedOpcode, like the other reserved opcodes.
	ErrEarlyReturn

	// ErrEmptyStack is returned when the stack is empty at a point where
	// the engine requires at least one item, typically at the very end
	// of execution.
	ErrEmptyStack

	// ErrEvalFalse is returned when the final top-of-stack item evaluates
	// to false.
	ErrEvalFalse

	// ErrScriptUnfinished identifies an engine queried for its result
	// while it still has operations left to run. No function in this
	// package currently returns it.
	ErrScriptUnfinished

	// ErrInvalidProgramCounter is returned when the program counter
	// referenced by an instruction no longer points to a valid location.
	ErrInvalidProgramCounter

	// ErrElementTooBig is returned when an element to be pushed to the
	// stack exceeds the maximum allowed size, or when a raw script given
	// to NewEngine exceeds the maximum allowed script size.
	ErrElementTooBig

	// ErrStackOverflow is returned when the combined size of the data and
	// alt stack exceeds the maximum allowed size after an operation.
	ErrStackOverflow

	// ErrInvalidPubKeyCount is returned when the number of public keys
	// given to a CHECKMULTISIG family operation is negative, or exceeds
	// MaxPubKeysPerMultiSig.
	ErrInvalidPubKeyCount

	// ErrInvalidSignatureCount is returned when the number of signatures
	// given to a CHECKMULTISIG family operation is negative, or exceeds
	// the number of public keys present.
	ErrInvalidSignatureCount

	// ErrNumberTooBig is returned when the argument for an opcode that
	// requires numeric input is longer than four bytes.
	ErrNumberTooBig

	// ErrVerify is returned when the VERIFY operation finds the top item
	// on the stack is not true, as defined by the boolean cast.
	ErrVerify

	// ErrEqualVerify is returned when the EQUALVERIFY operation finds
	// the top two items on the stack are not equal.
	ErrEqualVerify

	// ErrCheckSigVerify is returned when the CHECKSIGVERIFY operation
	// fails its signature verification.
	ErrCheckSigVerify

	// ErrCheckMultiSigVerify is returned when the CHECKMULTISIGVERIFY
	// operation fails its signature verification.
	ErrCheckMultiSigVerify

	// ErrDisabledOpcode is returned when a disabled opcode is encountered
	// in a script, even when the program counter is inside a branch that
	// is not being executed.
	ErrDisabledOpcode

	// ErrReservedOpcode is returned when an opcode marked as reserved,
	// and therefore always-failing, is executed.
	ErrReservedOpcode

	// ErrMalformedPush is returned when a push opcode declares a length
	// that runs past the end of the script.
	ErrMalformedPush

	// ErrInvalidStackOperation is returned when an opcode is executed
	// that requires more items on the data or alt stack than are
	// present.
	ErrInvalidStackOperation

	// ErrUnbalancedConditional is returned when an ELSE or ENDIF is
	// encountered with no matching IF/NOTIF, or a script finishes
	// execution with an unterminated conditional.
	ErrUnbalancedConditional

	// ErrNotPushOnly is returned when a script that is required to
	// consist solely of push operations, such as a P2SH input script,
	// contains a non-push opcode.
	ErrNotPushOnly

	// ErrMalformedCoinbaseNullData is returned when a script claiming to
	// be the consensus-mandated coinbase uniqueness carrier does not
	// have the expected OP_RETURN <=256 bytes> shape.
	ErrMalformedCoinbaseNullData

	// ErrTooManyOperations is returned when a script exceeds the maximum
	// allowed number of non-push operations.
	ErrTooManyOperations

	// numErrorCodes is the maximum error code number used in tests to
	// ensure the tests stay in sync with the error codes.
	numErrorCodes
)

var errorCodeStrings = map[ErrorCode]string{
	ErrInternal:                  "ErrInternal",
	ErrInvalidIndex:              "ErrInvalidIndex",
	ErrUnsupportedAddress:        "ErrUnsupportedAddress",
	ErrEarlyReturn:               "ErrEarlyReturn",
	ErrEmptyStack:                "ErrEmptyStack",
	ErrEvalFalse:                 "ErrEvalFalse",
	ErrScriptUnfinished:          "ErrScriptUnfinished",
	ErrInvalidProgramCounter:     "ErrInvalidProgramCounter",
	ErrElementTooBig:             "ErrElementTooBig",
	ErrStackOverflow:             "ErrStackOverflow",
	ErrInvalidPubKeyCount:        "ErrInvalidPubKeyCount",
	ErrInvalidSignatureCount:     "ErrInvalidSignatureCount",
	ErrNumberTooBig:              "ErrNumberTooBig",
	ErrVerify:                    "ErrVerify",
	ErrEqualVerify:               "ErrEqualVerify",
	ErrCheckSigVerify:            "ErrCheckSigVerify",
	ErrCheckMultiSigVerify:       "ErrCheckMultiSigVerify",
	ErrDisabledOpcode:            "ErrDisabledOpcode",
	ErrReservedOpcode:            "ErrReservedOpcode",
	ErrMalformedPush:             "ErrMalformedPush",
	ErrInvalidStackOperation:     "ErrInvalidStackOperation",
	ErrUnbalancedConditional:     "ErrUnbalancedConditional",
	ErrNotPushOnly:               "ErrNotPushOnly",
	ErrMalformedCoinbaseNullData: "ErrMalformedCoinbaseNullData",
	ErrTooManyOperations:         "ErrTooManyOperations",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s, ok := errorCodeStrings[e]; ok {
		return s
	}
	return "Unknown ErrorCode (" + strconv.Itoa(int(e)) + ")"
}

// Error identifies a script-evaluation error, along with a human-readable
// description of the specific failure.
type Error struct {
	ErrorCode   ErrorCode
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// scriptError creates an Error given a set of arguments.
func scriptError(c ErrorCode, desc string) Error {
	return Error{ErrorCode: c, Description: desc}
}
