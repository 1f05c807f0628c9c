// Package quiz implements answering quiz attempts offline.
package quiz

import (
	"context"
	"maps"

	"github.com/MKhiriev/go-course-sync/internal/events"
	"github.com/MKhiriev/go-course-sync/internal/offline"
	"github.com/MKhiriev/go-course-sync/internal/store"
	"github.com/MKhiriev/go-course-sync/models"
)

const attemptsTable = "quiz_attempts"

// Offline stores the answers given offline, keyed by quiz id and attempt id.
type Offline struct {
	Attempts *offline.Repository[models.QuizAttemptAnswers]
}

// NewOffline returns the offline storage of quizzes.
func NewOffline(st store.LocalStore, bus *events.Bus, opts ...offline.Option) *Offline {
	opts = append([]offline.Option{offline.WithKeyArity(1), offline.WithEvents(bus)}, opts...)
	return &Offline{
		Attempts: offline.NewRepository[models.QuizAttemptAnswers](st, models.ModuleQuiz, attemptsTable, opts...),
	}
}

// SaveAnswers merges answers into the offline answers of the attempt. Once
// finish or timeUp is set it stays set.
func (o *Offline) SaveAnswers(ctx context.Context, siteID string, quizID, attemptID, courseID int64, answers map[string]string, finish, timeUp bool) (offline.Action[models.QuizAttemptAnswers], error) {
	current := models.QuizAttemptAnswers{CourseID: courseID, Answers: map[string]string{}}

	existing, ok, err := o.Attempts.Get(ctx, siteID, quizID, attemptID)
	if err != nil {
		return offline.Action[models.QuizAttemptAnswers]{}, err
	}
	if ok {
		current = existing.Payload
		if current.Answers == nil {
			current.Answers = map[string]string{}
		}
	}

	maps.Copy(current.Answers, answers)
	current.Finish = current.Finish || finish
	current.TimeUp = current.TimeUp || timeUp
	return o.Attempts.Save(ctx, siteID, quizID, []int64{attemptID}, current)
}

// GetAttemptAnswers returns the offline answers of the attempt.
func (o *Offline) GetAttemptAnswers(ctx context.Context, siteID string, quizID, attemptID int64) (offline.Action[models.QuizAttemptAnswers], bool, error) {
	return o.Attempts.Get(ctx, siteID, quizID, attemptID)
}

// DeleteAttempt removes the offline answers of the attempt.
func (o *Offline) DeleteAttempt(ctx context.Context, siteID string, quizID, attemptID int64) error {
	return o.Attempts.Delete(ctx, siteID, quizID, attemptID)
}

// HasOfflineData reports whether the quiz has offline answers.
func (o *Offline) HasOfflineData(ctx context.Context, siteID string, quizID int64) (bool, error) {
	return o.Attempts.HasOfflineData(ctx, siteID, quizID)
}
