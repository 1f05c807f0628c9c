// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors returned while parsing request paths. Callers can match
// against them with [errors.Is].
var (
	// ErrInvalidEntityID is returned when the entity id path segment is not a
	// positive integer.
	ErrInvalidEntityID = errors.New("invalid entity id")

	// ErrInvalidSectionID is returned when a course or section id path
	// segment is not an integer.
	ErrInvalidSectionID = errors.New("invalid course or section id")
)
