package lesson

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
	fnGetAccessInformation = "mod_lesson_get_lesson_access_information"
	fnProcessPage          = "mod_lesson_process_page"
	fnFinishAttempt        = "mod_lesson_finish_attempt"
	fnGetLessons           = "mod_lesson_get_lessons_by_courses"
	fnGetPages             = "mod_lesson_get_pages"
)

// AccessInfoCacheKey is the cache key of the access information answers of
// a lesson.
func AccessInfoCacheKey(lessonID int64) string {
	return "lesson:accessinfo:" + strconv.FormatInt(lessonID, 10)
}

func currentRetake(ctx context.Context, ws adapter.WebService, site models.Site, lessonID int64) (int64, error) {
	var info models.LessonAccessInfo
	err := ws.Call(ctx, site, fnGetAccessInformation, map[string]any{"lessonid": lessonID}, &info)
	if err != nil {
		return 0, err
	}
	return info.AttemptsCount, nil
}

func retakeFinishedOnline(retake int64) string {
	return fmt.Sprintf("retake %d was finished online, offline answers discarded", retake)
}

type attemptStrategy struct {
	ws adapter.CachedWebService
}

// Prepare discards the attempts that do not belong to the retake the server
// is currently on.
func (s *attemptStrategy) Prepare(ctx context.Context, site models.Site, lessonID int64, actions []offline.Action[models.LessonPageAttempt]) ([]offline.Action[models.LessonPageAttempt], []syncer.Discarded[models.LessonPageAttempt], error) {
	current, err := currentRetake(ctx, s.ws, site, lessonID)
	if err != nil {
		return nil, nil, err
	}

	var (
		keep    []offline.Action[models.LessonPageAttempt]
		discard []syncer.Discarded[models.LessonPageAttempt]
	)
	for _, a := range actions {
		if retake := a.Keys[0]; retake != current {
			discard = append(discard, syncer.Discarded[models.LessonPageAttempt]{Action: a, Reason: retakeFinishedOnline(retake)})
			continue
		}
		keep = append(keep, a)
	}
	return keep, discard, nil
}

// Order replays the pages in the order they were visited.
func (s *attemptStrategy) Order(actions []offline.Action[models.LessonPageAttempt]) []offline.Action[models.LessonPageAttempt] {
	return offline.SortByModified(actions)
}

type processPageAnswer struct {
	Warnings []modules.WSWarning `json:"warnings"`
}

// Replay sends the answer to one page.
func (s *attemptStrategy) Replay(ctx context.Context, site models.Site, action offline.Action[models.LessonPageAttempt]) ([]string, error) {
	var answer processPageAnswer
	err := s.ws.Call(ctx, site, fnProcessPage, map[string]any{
		"lessonid": action.EntityID,
		"pageid":   action.Keys[1],
		"data":     modules.NameValues(action.Payload.Data),
		"review":   false,
	}, &answer)
	if err != nil {
		return nil, err
	}

	if err = s.ws.InvalidateByKey(ctx, site.ID, AccessInfoCacheKey(action.EntityID)); err != nil {
		return nil, err
	}
	return modules.WarningMessages(answer.Warnings), nil
}

type retakeStrategy struct {
	ws adapter.CachedWebService
}

// Prepare discards a retake the server already moved past.
func (s *retakeStrategy) Prepare(ctx context.Context, site models.Site, lessonID int64, actions []offline.Action[models.LessonRetake]) ([]offline.Action[models.LessonRetake], []syncer.Discarded[models.LessonRetake], error) {
	current, err := currentRetake(ctx, s.ws, site, lessonID)
	if err != nil {
		return nil, nil, err
	}

	var (
		keep    []offline.Action[models.LessonRetake]
		discard []syncer.Discarded[models.LessonRetake]
	)
	for _, a := range actions {
		if a.Payload.Retake != current {
			discard = append(discard, syncer.Discarded[models.LessonRetake]{Action: a, Reason: retakeFinishedOnline(a.Payload.Retake)})
			continue
		}
		keep = append(keep, a)
	}
	return keep, discard, nil
}

type finishAttemptAnswer struct {
	Warnings []modules.WSWarning `json:"warnings"`
}

// Replay finishes a retake finished offline. An unfinished retake only
// tracks offline navigation and has nothing to send.
func (s *retakeStrategy) Replay(ctx context.Context, site models.Site, action offline.Action[models.LessonRetake]) ([]string, error) {
	if !action.Payload.Finished {
		return nil, nil
	}

	var answer finishAttemptAnswer
	err := s.ws.Call(ctx, site, fnFinishAttempt, map[string]any{
		"lessonid":  action.EntityID,
		"outoftime": action.Payload.OutOfTime,
	}, &answer)
	if err != nil {
		return nil, err
	}

	if err = s.ws.InvalidateByKey(ctx, site.ID, AccessInfoCacheKey(action.EntityID)); err != nil {
		return nil, err
	}
	return modules.WarningMessages(answer.Warnings), nil
}
