// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Halcyon Robotics

package oi

import (
	"errors"
	"fmt"
)

// Code classifies every failure this package can report. The set is
// closed: callers may switch on it exhaustively.
type Code uint8

const (
	Success Code = iota
	Timeout
	ChecksumError
	InvalidParameter
	BufferOverflow
	CommunicationError
	NotInitialized
	UnknownError Code = 255
)

func (c Code) String() string {
	switch c {
	case Success:
		return "success"
	case Timeout:
		return "timeout"
	case ChecksumError:
		return "checksum error"
	case InvalidParameter:
		return "invalid parameter"
	case BufferOverflow:
		return "buffer overflow"
	case CommunicationError:
		return "communication error"
	case NotInitialized:
		return "not initialized"
	}
	return "unknown error"
}

// Error is the concrete error type returned by fallible operations.
// Op names the operation that failed, Detail carries context, Err the
// underlying transport error when there is one.
type Error struct {
	Code   Code
	Op     string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("oi: %s: %s", e.Op, e.Code)
	if e.Detail != "" {
		s += ": " + e.Detail
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Err
}

func errf(code Code, op, format string, args ...interface{}) *Error {
	return &Error{Code: code, Op: op, Detail: fmt.Sprintf(format, args...)}
}

func wrapErr(code Code, op string, err error) *Error {
	return &Error{Code: code, Op: op, Err: err}
}

// CodeOf extracts the result code from an error. A nil error is Success;
// an error that did not originate here is UnknownError.
func CodeOf(err error) Code {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return UnknownError
}

// IsCode reports whether err carries the given result code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
