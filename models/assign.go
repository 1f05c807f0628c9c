package models

// AssignSubmission is an assignment submission saved offline.
type AssignSubmission struct {
	CourseID int64 `json:"course_id"`
	UserID   int64 `json:"user_id"`
	// PluginData holds the submission plugin form values. Nil means only the
	// submitted flag changed offline.
	PluginData map[string]any `json:"plugin_data,omitempty"`
	// Remove asks to delete the submission instead of saving PluginData.
	Remove              bool `json:"remove,omitempty"`
	SubmitForGrading    bool `json:"submit_for_grading"`
	SubmissionStatement bool `json:"submission_statement"`
	// OnlineTimeModified is the server modification time of the submission
	// when it was edited offline, used to detect remote changes.
	OnlineTimeModified int64 `json:"online_time_modified"`
}

// AssignGrade is a grade given offline by a teacher.
type AssignGrade struct {
	CourseID       int64          `json:"course_id"`
	UserID         int64          `json:"user_id"`
	Grade          float64        `json:"grade"`
	AttemptNumber  int64          `json:"attempt_number"`
	AddAttempt     bool           `json:"add_attempt"`
	WorkflowState  string         `json:"workflow_state,omitempty"`
	ApplyToAll     bool           `json:"apply_to_all"`
	PluginData     map[string]any `json:"plugin_data,omitempty"`
	OutcomeGrades  map[int64]int  `json:"outcome_grades,omitempty"`
	GradedTimeSent int64          `json:"graded_time_sent,omitempty"`
}

// AssignSubmissionStatus is the part of the remote submission status the sync
// needs to detect conflicts.
type AssignSubmissionStatus struct {
	SubmissionID int64  `json:"id"`
	Status       string `json:"status"`
	TimeModified int64  `json:"timemodified"`
}
