package shardtailiface

import (
	"errors"
)

const (
	ECrit  = "crit"
	EError = "error"
	EWarn  = "warn"
	EInfo  = "info"
	EDebug = "debug"
)

var (
	ErrShardNotFound       = errors.New("shard not found")
	ErrNotFound            = errors.New("stream not found")
	ErrProviderUnavailable = errors.New("stream provider unavailable")
	ErrInvalidPosition     = errors.New("position is no longer valid")
	ErrShardClosed         = errors.New("shard is closed")
	ErrCheckpoint          = errors.New("checkpoint failed")
	ErrLeaseLost           = errors.New("shard lease lost")
)

type Error struct {
	// One of "crit", "error", "warn", "info", "debug"
	Severity string
	// One of the Err* values above, or nil
	Kind    error
	message string
	// May be nil
	Origin error
}

func NewError(severity string, kind error, message string, origin error) *Error {
	return &Error{
		Severity: severity,
		Kind:     kind,
		message:  message,
		Origin:   origin,
	}
}

func (e *Error) Error() string {
	if e.Origin == nil {
		return e.message
	}
	return e.message + ": " + e.Origin.Error()
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Origin != nil {
		errs = append(errs, e.Origin)
	}
	return errs
}

// Fatal reports whether the error should stop consumption.
func (e *Error) Fatal() bool {
	return e.Severity == ECrit || e.Severity == EError
}
