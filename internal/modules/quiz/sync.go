package quiz

import (
	"context"
	"fmt"
	"strconv"

	"github.com/MKhiriev/go-course-sync/internal/adapter"
	"github.com/MKhiriev/go-course-sync/internal/modules"
	"github.com/MKhiriev/go-course-sync/internal/offline"
	"github.com/MKhiriev/go-course-sync/internal/syncer"
	"github.com/MKhiriev/go-course-sync/models"
)

const (
	fnGetUserAttempts = "mod_quiz_get_user_attempts"
	fnProcessAttempt  = "mod_quiz_process_attempt"
	fnGetQuizzes      = "mod_quiz_get_quizzes_by_courses"
)

// UserAttemptsCacheKey is the cache key of the user attempts answers of a
// quiz.
func UserAttemptsCacheKey(quizID int64) string {
	return "quiz:userattempts:" + strconv.FormatInt(quizID, 10)
}

type userAttemptsAnswer struct {
	Attempts []models.QuizAttempt `json:"attempts"`
}

type processAttemptAnswer struct {
	State    string              `json:"state"`
	Warnings []modules.WSWarning `json:"warnings"`
}

type attemptStrategy struct {
	ws adapter.CachedWebService
}

// Replay sends the answers of an attempt. An attempt that was finished or
// abandoned online can no longer take the offline answers.
func (s *attemptStrategy) Replay(ctx context.Context, site models.Site, action offline.Action[models.QuizAttemptAnswers]) ([]string, error) {
	quizID, attemptID := action.EntityID, action.Keys[0]

	var attempts userAttemptsAnswer
	err := s.ws.Call(ctx, site, fnGetUserAttempts, map[string]any{
		"quizid":          quizID,
		"userid":          site.UserID,
		"status":          "all",
		"includepreviews": true,
	}, &attempts)
	if err != nil {
		return nil, err
	}

	var online *models.QuizAttempt
	for i := range attempts.Attempts {
		if attempts.Attempts[i].ID == attemptID {
			online = &attempts.Attempts[i]
			break
		}
	}
	if online == nil {
		return nil, fmt.Errorf("%w: attempt %d not found", syncer.ErrInvalidAction, attemptID)
	}
	if online.State != models.QuizAttemptInProgress {
		return nil, syncer.ErrRemoteWins
	}

	var answer processAttemptAnswer
	err = s.ws.Call(ctx, site, fnProcessAttempt, map[string]any{
		"attemptid":     attemptID,
		"data":          modules.NameValues(action.Payload.Answers),
		"finishattempt": action.Payload.Finish,
		"timeup":        action.Payload.TimeUp,
	}, &answer)
	if err != nil {
		return nil, err
	}

	if err = s.ws.InvalidateByKey(ctx, site.ID, UserAttemptsCacheKey(quizID)); err != nil {
		return nil, err
	}
	return modules.WarningMessages(answer.Warnings), nil
}
