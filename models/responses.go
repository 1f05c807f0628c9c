package models

// ModulesStatusResponse carries the status of every requested module and
// their aggregate.
type ModulesStatusResponse struct {
	// Status is the aggregate: the lowest status of all modules in the order
	// of [DownloadStatus.Rank].
	Status DownloadStatus `json:"status"`

	// Modules maps course module ids to their status. Modules whose type has
	// no prefetch handler are left out.
	Modules map[int64]DownloadStatus `json:"modules"`
}

// PrefetchResponse tells the caller which download id to watch for
// prefetch-progress events.
type PrefetchResponse struct {
	DownloadID string `json:"download_id"`
}
