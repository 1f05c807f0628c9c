package models

import "encoding/json"

// ActionStatus is the local replay state of an offline action.
type ActionStatus string

const (
	ActionPending ActionStatus = "pending"
	ActionSyncing ActionStatus = "syncing"
)

// OfflineAction is the persisted form of a user action captured while
// offline. Payload is opaque to the store and decoded by the module that owns
// the table.
type OfflineAction struct {
	Module       ModuleType      `json:"module"`
	EntityID     int64           `json:"entity_id"`
	Keys         []int64         `json:"keys,omitempty"`
	Payload      json.RawMessage `json:"payload"`
	TimeCreated  int64           `json:"time_created"`
	TimeModified int64           `json:"time_modified"`
	Status       ActionStatus    `json:"status"`
}
