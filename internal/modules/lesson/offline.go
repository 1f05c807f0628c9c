// Package lesson implements offline lesson retakes: page answers given while
// offline and the retake they belong to.
package lesson

import (
	"context"
	"slices"
	"time"

	"github.com/MKhiriev/go-course-sync/internal/events"
	"github.com/MKhiriev/go-course-sync/internal/offline"
	"github.com/MKhiriev/go-course-sync/internal/store"
	"github.com/MKhiriev/go-course-sync/models"
)

const (
	attemptsTable = "lesson_page_attempts"
	retakesTable  = "lesson_retakes"
)

// Page types.
const (
	PageTypeQuestion  = 0
	PageTypeStructure = 1
)

// Offline stores the lesson progress made offline. Page attempts are keyed
// by lesson id, retake, page id and the time the page was answered, so a
// page answered several times keeps every attempt. A lesson has at most one
// offline retake.
type Offline struct {
	Attempts *offline.Repository[models.LessonPageAttempt]
	Retakes  *offline.Repository[models.LessonRetake]
}

// NewOffline returns the offline storage of lessons.
func NewOffline(st store.LocalStore, bus *events.Bus, opts ...offline.Option) *Offline {
	attemptOpts := slices.Concat([]offline.Option{offline.WithKeyArity(3), offline.WithEvents(bus)}, opts)
	retakeOpts := slices.Concat([]offline.Option{offline.WithEvents(bus)}, opts)
	return &Offline{
		Attempts: offline.NewRepository[models.LessonPageAttempt](st, models.ModuleLesson, attemptsTable, attemptOpts...),
		Retakes:  offline.NewRepository[models.LessonRetake](st, models.ModuleLesson, retakesTable, retakeOpts...),
	}
}

// ProcessPage stores the answer to a page given now.
func (o *Offline) ProcessPage(ctx context.Context, siteID string, lessonID, retake, pageID int64, attempt models.LessonPageAttempt) (offline.Action[models.LessonPageAttempt], error) {
	return o.ProcessPageAt(ctx, siteID, lessonID, retake, pageID, attempt, o.Attempts.Now())
}

// ProcessPageAt stores the answer to a page given at the time at. Answers to
// question pages also move the retake's last question page.
func (o *Offline) ProcessPageAt(ctx context.Context, siteID string, lessonID, retake, pageID int64, attempt models.LessonPageAttempt, at time.Time) (offline.Action[models.LessonPageAttempt], error) {
	action, err := o.Attempts.SaveAt(ctx, siteID, lessonID, []int64{retake, pageID, at.Unix()}, attempt, at)
	if err != nil {
		return offline.Action[models.LessonPageAttempt]{}, err
	}

	if attempt.PageType == PageTypeQuestion {
		if err = o.SetLastQuestionPageAttempted(ctx, siteID, lessonID, attempt.CourseID, retake, pageID); err != nil {
			return offline.Action[models.LessonPageAttempt]{}, err
		}
	}
	return action, nil
}

// SetLastQuestionPageAttempted records the last question page answered in
// the retake.
func (o *Offline) SetLastQuestionPageAttempted(ctx context.Context, siteID string, lessonID, courseID, retake, pageID int64) error {
	rt, err := o.currentRetake(ctx, siteID, lessonID, courseID, retake)
	if err != nil {
		return err
	}
	rt.LastQuestionPage = pageID
	_, err = o.Retakes.Save(ctx, siteID, lessonID, nil, rt)
	return err
}

// FinishRetake marks the retake as finished offline.
func (o *Offline) FinishRetake(ctx context.Context, siteID string, lessonID, courseID, retake int64, outOfTime bool) error {
	rt, err := o.currentRetake(ctx, siteID, lessonID, courseID, retake)
	if err != nil {
		return err
	}
	rt.Finished = true
	rt.OutOfTime = outOfTime
	_, err = o.Retakes.Save(ctx, siteID, lessonID, nil, rt)
	return err
}

// currentRetake returns the stored retake when it is retake, otherwise a new
// one replacing it.
func (o *Offline) currentRetake(ctx context.Context, siteID string, lessonID, courseID, retake int64) (models.LessonRetake, error) {
	existing, ok, err := o.Retakes.Get(ctx, siteID, lessonID)
	if err != nil {
		return models.LessonRetake{}, err
	}
	if ok && existing.Payload.Retake == retake {
		return existing.Payload, nil
	}
	return models.LessonRetake{CourseID: courseID, Retake: retake}, nil
}

// GetRetake returns the offline retake of the lesson.
func (o *Offline) GetRetake(ctx context.Context, siteID string, lessonID int64) (offline.Action[models.LessonRetake], bool, error) {
	return o.Retakes.Get(ctx, siteID, lessonID)
}

// HasFinishedRetake reports whether the lesson has a retake finished offline.
func (o *Offline) HasFinishedRetake(ctx context.Context, siteID string, lessonID int64) (bool, error) {
	rt, ok, err := o.Retakes.Get(ctx, siteID, lessonID)
	if err != nil || !ok {
		return false, err
	}
	return rt.Payload.Finished, nil
}

// DeleteRetake removes the offline retake of the lesson.
func (o *Offline) DeleteRetake(ctx context.Context, siteID string, lessonID int64) error {
	return o.Retakes.Delete(ctx, siteID, lessonID)
}

// GetRetakeAttempts returns the page attempts of a retake.
func (o *Offline) GetRetakeAttempts(ctx context.Context, siteID string, lessonID, retake int64) ([]offline.Action[models.LessonPageAttempt], error) {
	return o.Attempts.ListByPrefix(ctx, siteID, lessonID, retake)
}

// GetRetakeAttemptsForPage returns the attempts of one page in a retake.
func (o *Offline) GetRetakeAttemptsForPage(ctx context.Context, siteID string, lessonID, retake, pageID int64) ([]offline.Action[models.LessonPageAttempt], error) {
	return o.Attempts.ListByPrefix(ctx, siteID, lessonID, retake, pageID)
}

// GetLastQuestionPageAttempt returns the most recent attempt on a question
// page of the retake, selected by the time it was answered.
func (o *Offline) GetLastQuestionPageAttempt(ctx context.Context, siteID string, lessonID, retake int64) (offline.Action[models.LessonPageAttempt], bool, error) {
	attempts, err := o.GetRetakeAttempts(ctx, siteID, lessonID, retake)
	if err != nil {
		return offline.Action[models.LessonPageAttempt]{}, false, err
	}

	questions := attempts[:0]
	for _, a := range attempts {
		if a.Payload.PageType == PageTypeQuestion {
			questions = append(questions, a)
		}
	}
	latest, ok := offline.Latest(questions)
	return latest, ok, nil
}

// DeleteAttempt removes one page attempt.
func (o *Offline) DeleteAttempt(ctx context.Context, siteID string, lessonID, retake, pageID, timeModified int64) error {
	return o.Attempts.Delete(ctx, siteID, lessonID, retake, pageID, timeModified)
}

// HasOfflineData reports whether the lesson has offline attempts or a retake.
func (o *Offline) HasOfflineData(ctx context.Context, siteID string, lessonID int64) (bool, error) {
	has, err := o.Attempts.HasOfflineData(ctx, siteID, lessonID)
	if err != nil || has {
		return has, err
	}
	return o.Retakes.HasOfflineData(ctx, siteID, lessonID)
}
