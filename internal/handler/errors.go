// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import "errors"

// errNoHandlersAreCreated is returned by NewHandlers when no control API
// address is configured. This is treated as a fatal misconfiguration and
// causes the application to fail at startup.
var errNoHandlersAreCreated = errors.New("no handlers are created")
