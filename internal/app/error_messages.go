// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// control API handlers and middleware.
//
// All Msg* constants are human-readable message strings written into HTTP
// response bodies or log entries to describe the outcome of an operation.
package app

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded.
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInternalServerError is returned when an unexpected failure occurs
	// that the caller cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgInvalidEntityID is returned when the entity id path segment is not
	// a positive integer.
	MsgInvalidEntityID = "invalid entity ID"

	// MsgInvalidSectionID is returned when a course or section id path
	// segment is not an integer.
	MsgInvalidSectionID = "invalid course or section ID"

	// MsgNoSiteSelected is returned when a site-scoped request names no site
	// and no site is logged in.
	MsgNoSiteSelected = "no site selected"

	// MsgUnknownSite is returned when the X-Site-ID header names a site the
	// client does not know.
	MsgUnknownSite = "unknown site"

	// MsgSyncFailed is returned when a synchronization could not run.
	MsgSyncFailed = "synchronization failed"

	// MsgPrefetchFailed is returned when module statuses or downloads could
	// not be computed or started.
	MsgPrefetchFailed = "prefetch failed"

	// MsgLoginFailed is returned when a site could not be logged in.
	MsgLoginFailed = "login failed"

	// MsgLogoutFailed is returned when a site could not be logged out.
	MsgLogoutFailed = "logout failed"
)
