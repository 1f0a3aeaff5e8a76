// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hibp

import (
	"errors"
	"fmt"
)

// ErrSkipped marks a lookup that was never attempted.
var ErrSkipped = errors.New("breach lookup skipped")

// Status separates "not in any breach" from "could not tell".
type Status int

const (
	Unavailable Status = iota
	NotFound
	Found
)

func (s Status) String() string {
	switch s {
	case NotFound:
		return "not found"
	case Found:
		return "found"
	default:
		return "unavailable"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result of a range lookup. Count is only meaningful when Status is Found; Err only when
// Status is Unavailable.
type Result struct {
	Status Status `json:"status"`
	Count  int64  `json:"count"`
	Err    error  `json:"-"`
}

func notFound() Result {
	return Result{Status: NotFound}
}

func found(count int64) Result {
	return Result{Status: Found, Count: count}
}

func unavailable(err error) Result {
	return Result{Status: Unavailable, Err: err}
}

// Failure is the result for a lookup that was attempted and could not complete.
func Failure(err error) Result {
	return unavailable(err)
}

// Skipped is the result for a lookup that was not attempted.
func Skipped() Result {
	return unavailable(ErrSkipped)
}

// Exposed reports a confirmed appearance in at least one breach.
func (r Result) Exposed() bool {
	return r.Status == Found && r.Count > 0
}

// ExposureCount collapses the result to a single number, 0 for anything but Found.
func (r Result) ExposureCount() int64 {
	if r.Status != Found {
		return 0
	}
	return r.Count
}

func (r Result) String() string {
	switch r.Status {
	case Found:
		return fmt.Sprintf("found %d times", r.Count)
	case NotFound:
		return "not found"
	default:
		if r.Err != nil {
			return fmt.Sprintf("unavailable: %s", r.Err)
		}
		return "unavailable"
	}
}
