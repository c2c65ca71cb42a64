// Package hfserr defines the error kinds shared across the core
// (spec.md §7). A typed HfsError wraps an underlying cause with a Kind
// that callers can test for with errors.Is against the package-level
// sentinels, without losing the original message via %w.
package hfserr

import (
	"errors"
	"fmt"
)

// Kind enumerates the error categories the core can report.
type Kind int

const (
	DeviceIo Kind = iota
	UnknownVolume
	UnsupportedVersion
	CorruptNode
	InvalidNodeIndex
	ShortFork
	BrokenChain
	OutputTooSmall
	NotFound
	PathSyntax
	DestinationExists
	OutOfRange
)

func (k Kind) String() string {
	switch k {
	case DeviceIo:
		return "DeviceIo"
	case UnknownVolume:
		return "UnknownVolume"
	case UnsupportedVersion:
		return "UnsupportedVersion"
	case CorruptNode:
		return "CorruptNode"
	case InvalidNodeIndex:
		return "InvalidNodeIndex"
	case ShortFork:
		return "ShortFork"
	case BrokenChain:
		return "BrokenChain"
	case OutputTooSmall:
		return "OutputTooSmall"
	case NotFound:
		return "NotFound"
	case PathSyntax:
		return "PathSyntax"
	case DestinationExists:
		return "DestinationExists"
	case OutOfRange:
		return "OutOfRange"
	default:
		return "Unknown"
	}
}

// sentinel lets every Kind be matched with errors.Is(err, hfserr.Sentinel(NotFound)).
type sentinel Kind

func (s sentinel) Error() string { return Kind(s).String() }

// Sentinel returns the comparable sentinel error for a Kind.
func Sentinel(k Kind) error { return sentinel(k) }

// HfsError is the concrete error type returned throughout the core.
type HfsError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *HfsError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *HfsError) Unwrap() error { return e.Err }

// Is implements errors.Is against the bare Kind sentinel: errors.Is(err,
// hfserr.Sentinel(NotFound)) matches any *HfsError of that Kind.
func (e *HfsError) Is(target error) bool {
	if s, ok := target.(sentinel); ok {
		return e.Kind == Kind(s)
	}
	return false
}

// New constructs an HfsError.
func New(kind Kind, op string, err error) *HfsError {
	return &HfsError{Kind: kind, Op: op, Err: err}
}

// Is is a convenience wrapper around errors.Is(err, Sentinel(kind)).
func Is(err error, kind Kind) bool {
	return errors.Is(err, Sentinel(kind))
}
