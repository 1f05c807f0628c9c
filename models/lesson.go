package models

// LessonPageAttempt is an answer to a lesson page given offline.
type LessonPageAttempt struct {
	CourseID   int64             `json:"course_id"`
	PageType   int               `json:"page_type"`
	Data       map[string]string `json:"data"`
	NewPageID  int64             `json:"new_page_id"`
	AnswerID   int64             `json:"answer_id,omitempty"`
	Correct    bool              `json:"correct"`
	UserAnswer string            `json:"user_answer,omitempty"`
}

// LessonRetake is the offline state of a lesson retake.
type LessonRetake struct {
	CourseID         int64 `json:"course_id"`
	Retake           int64 `json:"retake"`
	Finished         bool  `json:"finished"`
	OutOfTime        bool  `json:"out_of_time"`
	LastQuestionPage int64 `json:"last_question_page,omitempty"`
}

// LessonAccessInfo is the part of the remote lesson access information the
// sync needs.
type LessonAccessInfo struct {
	AttemptsCount int64 `json:"attemptscount"`
	LastPageSeen  int64 `json:"lastpageseen"`
}
