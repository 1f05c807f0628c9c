// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

// errNoControlAPI is returned when there is no HTTP handler or listen
// address to serve the control API on.
var errNoControlAPI = errors.New("control API is not configured")
