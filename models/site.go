package models

// Site is one authenticated server account known to the client. Every local
// table except the application-level ones is namespaced by Site.ID.
type Site struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	UserID        int64  `json:"user_id"`
	Token         string `json:"token"`
	RetainOffline bool   `json:"retain_offline"`
}

// ModuleType names a course module kind ("assign", "lesson", "quiz").
type ModuleType string

const (
	ModuleAssign ModuleType = "assign"
	ModuleLesson ModuleType = "lesson"
	ModuleQuiz   ModuleType = "quiz"
)

// Component returns the server-side component name of the module type.
func (m ModuleType) Component() string {
	return "mod_" + string(m)
}

// CourseModule is the subset of a course module description that the sync and
// prefetch layers need.
type CourseModule struct {
	ID        int64      `json:"id"`
	Instance  int64      `json:"instance"`
	ModName   ModuleType `json:"modname"`
	Name      string     `json:"name"`
	CourseID  int64      `json:"course"`
	SectionID int64      `json:"section"`
}

// PackageRef returns the package identity used by the status tracker.
func (m CourseModule) PackageRef() PackageRef {
	return PackageRef{Component: m.ModName.Component(), ComponentID: m.ID}
}
