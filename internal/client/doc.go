// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the sync client application runtime.
//
// It wires the local store, course modules, synchronization providers, the
// prefetch delegate, background workers and the local control API into a
// single process lifecycle.
package client
