package models

import "strconv"

// ResourceID identifies one synchronizable resource: an entity instance of a
// module type within a site.
type ResourceID struct {
	SiteID   string     `json:"site_id"`
	Module   ModuleType `json:"module"`
	EntityID int64      `json:"entity_id"`
}

func (r ResourceID) String() string {
	return r.SiteID + "#" + string(r.Module) + "#" + strconv.FormatInt(r.EntityID, 10)
}

// SyncResult is the outcome of one synchronization run.
type SyncResult struct {
	Warnings []string `json:"warnings"`
	Updated  bool     `json:"updated"`
}

// Merge folds other into r.
func (r *SyncResult) Merge(other SyncResult) {
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Updated = r.Updated || other.Updated
}

// SyncStatus describes the synchronization state of one resource.
type SyncStatus struct {
	Module   ModuleType `json:"module"`
	EntityID int64      `json:"entity_id"`
	HasData  bool       `json:"has_data"`
	Syncing  bool       `json:"syncing"`
	Blocked  bool       `json:"blocked"`
	Warnings []string   `json:"warnings"`
}
