// Copyright 2016 ETH Zurich
// Copyright 2019 ETH Zurich, Anapaya Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package serrors provides errors that carry key/value context and, optionally, a stack
// trace. All returned errors support errors.Is and errors.As against their cause (and, for
// joined errors, against the base error).
//
// The context is rendered in the error string as {k0=v0; k1=v1} with keys sorted, and the
// errors implement zapcore.ObjectMarshaler so that logging them yields structured fields.
//
// Sentinel errors on hot paths should still be created with errors.New: New attaches a stack
// trace, which is the most expensive part of these errors.
package serrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxPair struct {
	Key   string
	Value any
}

// info holds what is shared by all error flavors of this package.
type info struct {
	ctx   []ctxPair
	cause error
	stack *stack
}

func newInfo(cause error, withStack bool, errCtx []any) info {
	n := len(errCtx) / 2
	pairs := make([]ctxPair, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, ctxPair{Key: fmt.Sprint(errCtx[2*i]), Value: errCtx[2*i+1]})
	}
	sort.SliceStable(pairs, func(a, b int) bool { return pairs[a].Key < pairs[b].Key })

	i := info{ctx: pairs, cause: cause}
	// Only the innermost error of this package records the stack.
	if withStack && !hasStack(cause) {
		i.stack = callers()
	}
	return i
}

func hasStack(err error) bool {
	if err == nil {
		return false
	}
	var b *basicError
	var j *joinedError
	return errors.As(err, &b) || errors.As(err, &j)
}

func (i info) suffix() string {
	var sb strings.Builder
	if len(i.ctx) > 0 {
		sb.WriteString(" {")
		for n, p := range i.ctx {
			if n > 0 {
				sb.WriteString("; ")
			}
			fmt.Fprintf(&sb, "%s=%v", p.Key, p.Value)
		}
		sb.WriteString("}")
	}
	if i.cause != nil {
		sb.WriteString(": ")
		sb.WriteString(i.cause.Error())
	}
	return sb.String()
}

func (i info) marshal(enc zapcore.ObjectEncoder) error {
	if i.cause != nil {
		if m, ok := i.cause.(zapcore.ObjectMarshaler); ok {
			if err := enc.AddObject("cause", m); err != nil {
				return err
			}
		} else {
			enc.AddString("cause", i.cause.Error())
		}
	}
	if i.stack != nil {
		if err := enc.AddArray("stacktrace", i.stack); err != nil {
			return err
		}
	}
	for _, p := range i.ctx {
		zap.Any(p.Key, p.Value).AddTo(enc)
	}
	return nil
}

// StackTrace returns the recorded stack trace, or nil.
func (i info) StackTrace() StackTrace {
	if i.stack == nil {
		return nil
	}
	return i.stack.StackTrace()
}

// basicError is a message with context and an optional cause.
type basicError struct {
	info
	msg string
}

func (e *basicError) Error() string { return e.msg + e.info.suffix() }

func (e *basicError) Unwrap() error { return e.cause }

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (e *basicError) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("msg", e.msg)
	return e.info.marshal(enc)
}

// joinedError associates an existing (typically sentinel) error with a cause.
type joinedError struct {
	info
	base error
}

func (e *joinedError) Error() string { return e.base.Error() + e.info.suffix() }

func (e *joinedError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.base}
	}
	return []error{e.base, e.cause}
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (e *joinedError) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("msg", e.base.Error())
	return e.info.marshal(enc)
}

// New creates an error with the given message and context, and records a stack trace.
func New(msg string, errCtx ...any) error {
	return &basicError{info: newInfo(nil, true, errCtx), msg: msg}
}

// Wrap returns an error with the given message that wraps cause. A stack trace is recorded
// unless cause already carries one.
func Wrap(msg string, cause error, errCtx ...any) error {
	return &basicError{info: newInfo(cause, true, errCtx), msg: msg}
}

// WrapNoStack is like Wrap but never records a stack trace.
func WrapNoStack(msg string, cause error, errCtx ...any) error {
	return &basicError{info: newInfo(cause, false, errCtx), msg: msg}
}

// Join returns an error that is err, with cause and context attached. It returns nil if both
// err and cause are nil.
func Join(err, cause error, errCtx ...any) error {
	return join(err, cause, true, errCtx)
}

// JoinNoStack is like Join but never records a stack trace.
func JoinNoStack(err, cause error, errCtx ...any) error {
	return join(err, cause, false, errCtx)
}

func join(err, cause error, withStack bool, errCtx []any) error {
	if err == nil && cause == nil {
		return nil
	}
	if err == nil {
		return &basicError{info: newInfo(cause, withStack, errCtx), msg: "error"}
	}
	return &joinedError{info: newInfo(cause, withStack, errCtx), base: err}
}

// IsTimeout returns whether err is or is caused by a timeout error.
func IsTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

// IsTemporary returns whether err is or is caused by a temporary error.
func IsTemporary(err error) bool {
	var t interface{ Temporary() bool }
	return errors.As(err, &t) && t.Temporary()
}

// List is a slice of errors.
type List []error

// Error implements the error interface.
func (e List) Error() string {
	s := make([]string, 0, len(e))
	for _, err := range e {
		s = append(s, err.Error())
	}
	return fmt.Sprintf("[ %s ]", strings.Join(s, "; "))
}

// ToError returns the list as error, or nil if it is empty.
func (e List) ToError() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// MarshalLogArray implements zapcore.ArrayMarshaler.
func (e List) MarshalLogArray(ae zapcore.ArrayEncoder) error {
	for _, err := range e {
		if m, ok := err.(zapcore.ObjectMarshaler); ok {
			if err := ae.AppendObject(m); err != nil {
				return err
			}
			continue
		}
		ae.AppendString(err.Error())
	}
	return nil
}
