package assign

import (
	"context"
	"strconv"

	"github.com/MKhiriev/go-course-sync/internal/adapter"
	"github.com/MKhiriev/go-course-sync/internal/modules"
	"github.com/MKhiriev/go-course-sync/internal/offline"
	"github.com/MKhiriev/go-course-sync/internal/syncer"
	"github.com/MKhiriev/go-course-sync/models"
)

const (
	fnGetSubmissionStatus = "mod_assign_get_submission_status"
	fnSaveSubmission      = "mod_assign_save_submission"
	fnRemoveSubmission    = "mod_assign_remove_submission"
	fnSubmitForGrading    = "mod_assign_submit_for_grading"
	fnSaveGrade           = "mod_assign_save_grade"
	fnGetAssignments      = "mod_assign_get_assignments"
)

// SubmissionStatusCacheKey is the cache key of the submission status answers
// of an assignment.
func SubmissionStatusCacheKey(assignID int64) string {
	return "assign:submissionstatus:" + strconv.FormatInt(assignID, 10)
}

type submissionStatusAnswer struct {
	LastAttempt *struct {
		Submission     *models.AssignSubmissionStatus `json:"submission"`
		TeamSubmission *models.AssignSubmissionStatus `json:"teamsubmission"`
	} `json:"lastattempt"`
}

func (a submissionStatusAnswer) submission() models.AssignSubmissionStatus {
	if a.LastAttempt == nil {
		return models.AssignSubmissionStatus{}
	}
	if a.LastAttempt.TeamSubmission != nil {
		return *a.LastAttempt.TeamSubmission
	}
	if a.LastAttempt.Submission != nil {
		return *a.LastAttempt.Submission
	}
	return models.AssignSubmissionStatus{}
}

type submissionStrategy struct {
	ws adapter.CachedWebService
}

// Replay sends an offline submission. When the submission was modified
// online after it was taken offline the online one wins.
func (s *submissionStrategy) Replay(ctx context.Context, site models.Site, action offline.Action[models.AssignSubmission]) ([]string, error) {
	assignID := action.EntityID
	sub := action.Payload

	var status submissionStatusAnswer
	err := s.ws.Call(ctx, site, fnGetSubmissionStatus, map[string]any{
		"assignid": assignID,
		"userid":   sub.UserID,
	}, &status)
	if err != nil {
		return nil, err
	}
	if online := status.submission(); online.TimeModified != sub.OnlineTimeModified {
		return nil, syncer.ErrRemoteWins
	}

	var warnings []modules.WSWarning
	switch {
	case sub.Remove:
		err = s.ws.Call(ctx, site, fnRemoveSubmission, map[string]any{
			"assignid": assignID,
			"userid":   sub.UserID,
		}, &warnings)
	case sub.PluginData != nil:
		err = s.ws.Call(ctx, site, fnSaveSubmission, map[string]any{
			"assignmentid": assignID,
			"plugindata":   sub.PluginData,
		}, &warnings)
	}
	if err != nil {
		return nil, err
	}

	if sub.SubmitForGrading {
		var submitWarnings []modules.WSWarning
		err = s.ws.Call(ctx, site, fnSubmitForGrading, map[string]any{
			"assignmentid":              assignID,
			"acceptsubmissionstatement": sub.SubmissionStatement,
		}, &submitWarnings)
		if err != nil {
			return nil, err
		}
		warnings = append(warnings, submitWarnings...)
	}

	if err = s.ws.InvalidateByKey(ctx, site.ID, SubmissionStatusCacheKey(assignID)); err != nil {
		return nil, err
	}
	return modules.WarningMessages(warnings), nil
}

type gradeStrategy struct {
	ws adapter.CachedWebService
}

// Replay sends a grade given offline.
func (s *gradeStrategy) Replay(ctx context.Context, site models.Site, action offline.Action[models.AssignGrade]) ([]string, error) {
	grade := action.Payload

	params := map[string]any{
		"assignmentid":  action.EntityID,
		"userid":        grade.UserID,
		"grade":         grade.Grade,
		"attemptnumber": grade.AttemptNumber,
		"addattempt":    grade.AddAttempt,
		"workflowstate": grade.WorkflowState,
		"applytoall":    grade.ApplyToAll,
	}
	if len(grade.PluginData) > 0 {
		params["plugindata"] = grade.PluginData
	}

	if err := s.ws.Call(ctx, site, fnSaveGrade, params, nil); err != nil {
		return nil, err
	}
	if err := s.ws.InvalidateByKey(ctx, site.ID, SubmissionStatusCacheKey(action.EntityID)); err != nil {
		return nil, err
	}
	return nil, nil
}
