package models

import (
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// DownloadStatus is the local download state of a package.
type DownloadStatus string

const (
	StatusNotDownloadable DownloadStatus = "not-downloadable"
	StatusDownloaded      DownloadStatus = "downloaded"
	StatusNotDownloaded   DownloadStatus = "not-downloaded"
	StatusOutdated        DownloadStatus = "outdated"
	StatusDownloading     DownloadStatus = "downloading"
)

// Rank orders statuses for aggregation. A higher rank dominates.
func (s DownloadStatus) Rank() int {
	switch s {
	case StatusDownloaded:
		return 1
	case StatusNotDownloaded:
		return 2
	case StatusOutdated:
		return 3
	case StatusDownloading:
		return 4
	default:
		return 0
	}
}

// IsDownloadable reports whether the status describes content that can be
// fetched.
func (s DownloadStatus) IsDownloadable() bool {
	return s != "" && s != StatusNotDownloadable
}

// NeedsDownload reports whether a prefetch would transfer data.
func (s DownloadStatus) NeedsDownload() bool {
	return s == StatusNotDownloaded || s == StatusOutdated
}

// AggregateStatus folds package statuses into one section or course status.
// An empty input yields StatusNotDownloadable.
func AggregateStatus(statuses ...DownloadStatus) DownloadStatus {
	result := StatusNotDownloadable
	for _, s := range statuses {
		if s.Rank() > result.Rank() {
			result = s
		}
	}
	return result
}

// Fingerprint identifies a version of a package's remote content.
type Fingerprint struct {
	Revision     int64 `json:"revision"`
	TimeModified int64 `json:"time_modified"`
}

// Equal reports whether both fingerprints describe the same remote content.
func (f Fingerprint) Equal(other Fingerprint) bool {
	return f.Revision == other.Revision && f.TimeModified == other.TimeModified
}

var revisionInURL = regexp.MustCompile(`/content/(\d+)/`)

// RevisionFromURL extracts the content revision embedded in a pluginfile URL,
// returning 0 when the URL carries none.
func RevisionFromURL(fileURL string) int64 {
	m := revisionInURL.FindStringSubmatch(fileURL)
	if len(m) != 2 {
		return 0
	}
	rev, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0
	}
	return rev
}

// FingerprintFromFiles computes the fingerprint of a file list: the highest
// revision and the latest modification time among the files.
func FingerprintFromFiles(files []RemoteFile) Fingerprint {
	var fp Fingerprint
	for _, f := range files {
		rev := f.Revision
		if rev == 0 {
			rev = RevisionFromURL(f.FileURL)
		}
		fp.Revision = max(fp.Revision, rev)
		fp.TimeModified = max(fp.TimeModified, f.TimeModified)
	}
	return fp
}

// PackageRef identifies a downloadable package.
type PackageRef struct {
	Component   string `json:"component"`
	ComponentID int64  `json:"component_id"`
}

func (r PackageRef) String() string {
	return r.Component + "#" + strconv.FormatInt(r.ComponentID, 10)
}

// PackageID returns a stable, filesystem-safe identifier of the package.
func (r PackageRef) PackageID() string {
	sum := blake2b.Sum256([]byte(r.String()))
	return hex.EncodeToString(sum[:16])
}

// PackageStatus is the persisted status record of a package.
type PackageStatus struct {
	Component            string         `json:"component"`
	ComponentID          int64          `json:"component_id"`
	Status               DownloadStatus `json:"status"`
	Previous             DownloadStatus `json:"previous,omitempty"`
	Revision             int64          `json:"revision"`
	TimeModified         int64          `json:"time_modified"`
	SectionID            int64          `json:"section_id,omitempty"`
	CourseID             int64          `json:"course_id,omitempty"`
	Updated              int64          `json:"updated"`
	DownloadTime         int64          `json:"download_time,omitempty"`
	PreviousDownloadTime int64          `json:"previous_download_time,omitempty"`
}

// Ref returns the package identity of the record.
func (p PackageStatus) Ref() PackageRef {
	return PackageRef{Component: p.Component, ComponentID: p.ComponentID}
}

// Fingerprint returns the fingerprint of the content that was downloaded.
func (p PackageStatus) Fingerprint() Fingerprint {
	return Fingerprint{Revision: p.Revision, TimeModified: p.TimeModified}
}

// ParsePackageRef is the inverse of PackageRef.String.
func ParsePackageRef(s string) (PackageRef, bool) {
	i := strings.LastIndexByte(s, '#')
	if i <= 0 {
		return PackageRef{}, false
	}
	id, err := strconv.ParseInt(s[i+1:], 10, 64)
	if err != nil {
		return PackageRef{}, false
	}
	return PackageRef{Component: s[:i], ComponentID: id}, true
}
