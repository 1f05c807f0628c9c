package models

// RemoteFile is an entry of a module's remote file list.
type RemoteFile struct {
	FileName     string `json:"filename"`
	FilePath     string `json:"filepath"`
	FileURL      string `json:"fileurl"`
	FileSize     int64  `json:"filesize"`
	TimeModified int64  `json:"timemodified"`
	Revision     int64  `json:"revision,omitempty"`
}

// FileSizeSum is the estimated download size of a set of packages. Total is
// false when some package could not report its size.
type FileSizeSum struct {
	Size  int64 `json:"size"`
	Total bool  `json:"total"`
}

// Add folds other into s.
func (s *FileSizeSum) Add(other FileSizeSum) {
	s.Size += other.Size
	s.Total = s.Total && other.Total
}

// PrefetchProgress reports how many modules of a bulk prefetch completed.
type PrefetchProgress struct {
	DownloadID string `json:"download_id"`
	Count      int    `json:"count"`
	Total      int    `json:"total"`
	Success    bool   `json:"success"`
}
