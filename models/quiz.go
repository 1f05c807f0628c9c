package models

// QuizAttemptAnswers holds the answers of a quiz attempt taken offline.
type QuizAttemptAnswers struct {
	CourseID int64             `json:"course_id"`
	Answers  map[string]string `json:"answers"`
	Finish   bool              `json:"finish"`
	TimeUp   bool              `json:"time_up"`
}

// QuizAttempt is the part of a remote quiz attempt the sync needs.
type QuizAttempt struct {
	ID    int64  `json:"id"`
	State string `json:"state"`
}

const QuizAttemptInProgress = "inprogress"
