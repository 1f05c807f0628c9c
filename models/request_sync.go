// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// ModulesRequest names the course modules a status or size query covers.
type ModulesRequest struct {
	Modules []CourseModule `json:"modules"`
}

// PrefetchRequest starts a bulk prefetch. Sending the DownloadID of a
// running prefetch joins it instead of starting a second one; an empty
// DownloadID gets a generated one.
type PrefetchRequest struct {
	DownloadID string         `json:"download_id,omitempty"`
	Modules    []CourseModule `json:"modules"`
}
