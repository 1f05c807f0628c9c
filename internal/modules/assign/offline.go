// Package assign implements offline submissions and grading of assignments.
package assign

import (
	"context"

	"github.com/MKhiriev/go-course-sync/internal/events"
	"github.com/MKhiriev/go-course-sync/internal/offline"
	"github.com/MKhiriev/go-course-sync/internal/store"
	"github.com/MKhiriev/go-course-sync/models"
)

const (
	submissionsTable = "assign_submissions"
	gradesTable      = "assign_grades"
)

// Offline stores the assignment submissions and grades made offline. Both
// are keyed by assignment id and user id: one pending entry per user.
type Offline struct {
	Submissions *offline.Repository[models.AssignSubmission]
	Grades      *offline.Repository[models.AssignGrade]
}

// NewOffline returns the offline storage of assignments.
func NewOffline(st store.LocalStore, bus *events.Bus, opts ...offline.Option) *Offline {
	opts = append([]offline.Option{offline.WithKeyArity(1), offline.WithEvents(bus)}, opts...)
	return &Offline{
		Submissions: offline.NewRepository[models.AssignSubmission](st, models.ModuleAssign, submissionsTable, opts...),
		Grades:      offline.NewRepository[models.AssignGrade](st, models.ModuleAssign, gradesTable, opts...),
	}
}

// SaveSubmission stores the submission of sub.UserID for the assignment,
// replacing the previous offline one.
func (o *Offline) SaveSubmission(ctx context.Context, siteID string, assignID int64, sub models.AssignSubmission) (offline.Action[models.AssignSubmission], error) {
	return o.Submissions.Save(ctx, siteID, assignID, []int64{sub.UserID}, sub)
}

// MarkSubmitted flags the submission of userID to be submitted for grading,
// keeping any plugin data already saved offline.
func (o *Offline) MarkSubmitted(ctx context.Context, siteID string, assignID, courseID, userID int64, acceptStatement bool, onlineTimeModified int64) (offline.Action[models.AssignSubmission], error) {
	sub := models.AssignSubmission{
		CourseID:           courseID,
		UserID:             userID,
		OnlineTimeModified: onlineTimeModified,
	}

	existing, ok, err := o.Submissions.Get(ctx, siteID, assignID, userID)
	if err != nil {
		return offline.Action[models.AssignSubmission]{}, err
	}
	if ok {
		sub = existing.Payload
	}

	sub.SubmitForGrading = true
	sub.SubmissionStatement = acceptStatement
	return o.Submissions.Save(ctx, siteID, assignID, []int64{userID}, sub)
}

// GetSubmission returns the offline submission of userID.
func (o *Offline) GetSubmission(ctx context.Context, siteID string, assignID, userID int64) (offline.Action[models.AssignSubmission], bool, error) {
	return o.Submissions.Get(ctx, siteID, assignID, userID)
}

// DeleteSubmission removes the offline submission of userID.
func (o *Offline) DeleteSubmission(ctx context.Context, siteID string, assignID, userID int64) error {
	return o.Submissions.Delete(ctx, siteID, assignID, userID)
}

// SaveGrade stores the grade given to grade.UserID offline.
func (o *Offline) SaveGrade(ctx context.Context, siteID string, assignID int64, grade models.AssignGrade) (offline.Action[models.AssignGrade], error) {
	return o.Grades.Save(ctx, siteID, assignID, []int64{grade.UserID}, grade)
}

// GetGrade returns the offline grade of userID.
func (o *Offline) GetGrade(ctx context.Context, siteID string, assignID, userID int64) (offline.Action[models.AssignGrade], bool, error) {
	return o.Grades.Get(ctx, siteID, assignID, userID)
}

// DeleteGrade removes the offline grade of userID.
func (o *Offline) DeleteGrade(ctx context.Context, siteID string, assignID, userID int64) error {
	return o.Grades.Delete(ctx, siteID, assignID, userID)
}

// HasOfflineData reports whether the assignment has offline submissions or
// grades.
func (o *Offline) HasOfflineData(ctx context.Context, siteID string, assignID int64) (bool, error) {
	has, err := o.Submissions.HasOfflineData(ctx, siteID, assignID)
	if err != nil || has {
		return has, err
	}
	return o.Grades.HasOfflineData(ctx, siteID, assignID)
}
