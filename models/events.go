package models

// EventName identifies a client event.
type EventName string

const (
	EventLogin                EventName = "login"
	EventSiteUpdated          EventName = "site-updated"
	EventLogout               EventName = "logout"
	EventOnlineStatusChanged  EventName = "online-status-changed"
	EventPackageStatusChanged EventName = "package-status-changed"
	EventSectionStatusChanged EventName = "section-status-changed"
	EventAutoSynced           EventName = "auto-synced"
	EventEntryChanged         EventName = "entry-changed"
	EventPrefetchProgress     EventName = "prefetch-progress"
)

// AllEvents lists every event name, in declaration order.
func AllEvents() []EventName {
	return []EventName{
		EventLogin,
		EventSiteUpdated,
		EventLogout,
		EventOnlineStatusChanged,
		EventPackageStatusChanged,
		EventSectionStatusChanged,
		EventAutoSynced,
		EventEntryChanged,
		EventPrefetchProgress,
	}
}

// Event is a message delivered by the event bus. Fields that do not apply to
// an event are left empty.
type Event struct {
	Name        EventName         `json:"name"`
	SiteID      string            `json:"site_id,omitempty"`
	Module      ModuleType        `json:"module,omitempty"`
	EntityID    int64             `json:"entity_id,omitempty"`
	Component   string            `json:"component,omitempty"`
	ComponentID int64             `json:"component_id,omitempty"`
	SectionID   int64             `json:"section_id,omitempty"`
	CourseID    int64             `json:"course_id,omitempty"`
	Status      DownloadStatus    `json:"status,omitempty"`
	Online      bool              `json:"online,omitempty"`
	Warnings    []string          `json:"warnings,omitempty"`
	Progress    *PrefetchProgress `json:"progress,omitempty"`
}
