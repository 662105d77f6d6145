package service

import (
	"context"
	"errors"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/campushire/platform/internal/domain"
	"github.com/campushire/platform/internal/events"
	"github.com/campushire/platform/internal/repository"
	"github.com/campushire/platform/internal/storage"
	apperrors "github.com/campushire/platform/pkg/util/errorutil"
)

// JobService coordinates postings, applications and saved jobs.
type JobService struct {
	jobs         repository.JobRepository
	applications repository.ApplicationRepository
	accounts     repository.AccountRepository
	store        storage.Storage
	dispatcher   events.Dispatcher
}

// JobDependencies bundles repositories for the job service.
type JobDependencies struct {
	JobRepo         repository.JobRepository
	ApplicationRepo repository.ApplicationRepository
	AccountRepo     repository.AccountRepository
	Store           storage.Storage
	Dispatcher      events.Dispatcher
}

// NewJobService constructs the service.
func NewJobService(deps JobDependencies) *JobService {
	return &JobService{
		jobs:         deps.JobRepo,
		applications: deps.ApplicationRepo,
		accounts:     deps.AccountRepo,
		store:        deps.Store,
		dispatcher:   deps.Dispatcher,
	}
}

// JobCreateInput describes a new posting.
type JobCreateInput struct {
	Title       string
	Company     string
	Location    string
	Description string
	Salary      *string
}

// JobUpdateInput carries partial posting fields.
type JobUpdateInput struct {
	Title       *string
	Company     *string
	Location    *string
	Description *string
	Salary      *string
}

// ApplyInput describes an application payload with an optional resume file.
type ApplyInput struct {
	CoverLetter string
	Resume      []byte
	ResumeName  string
}

// CreateJob opens a posting owned by the acting recruiter.
func (s *JobService) CreateJob(ctx context.Context, actor *domain.Account, input JobCreateInput) (*domain.Job, error) {
	if input.Title == "" || input.Company == "" {
		return nil, apperrors.NewValidationError("title and company required", nil)
	}

	job := &domain.Job{
		RecruiterID: &actor.ID,
		Title:       input.Title,
		Company:     input.Company,
		Location:    input.Location,
		Description: input.Description,
		Salary:      input.Salary,
		Status:      domain.JobStatusOpen,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, apperrors.MapError(err)
	}
	return job, nil
}

// UpdateJob applies partial changes to a posting the actor owns.
func (s *JobService) UpdateJob(ctx context.Context, actor *domain.Account, jobID string, input JobUpdateInput) (*domain.Job, error) {
	job, err := s.ownedJob(ctx, actor, jobID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		job.Title = *input.Title
	}
	if input.Company != nil {
		job.Company = *input.Company
	}
	if input.Location != nil {
		job.Location = *input.Location
	}
	if input.Description != nil {
		job.Description = *input.Description
	}
	if input.Salary != nil {
		job.Salary = input.Salary
	}

	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, apperrors.MapError(err)
	}
	return job, nil
}

// CloseJob stops a posting from accepting applications.
func (s *JobService) CloseJob(ctx context.Context, actor *domain.Account, jobID string) (*domain.Job, error) {
	job, err := s.ownedJob(ctx, actor, jobID)
	if err != nil {
		return nil, err
	}
	job.Status = domain.JobStatusClosed
	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, apperrors.MapError(err)
	}
	return job, nil
}

// GetJob loads a posting.
func (s *JobService) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("job", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return job, nil
}

// ListJobs returns postings matching the filter.
func (s *JobService) ListJobs(ctx context.Context, filter repository.JobFilter) ([]domain.Job, error) {
	jobs, err := s.jobs.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return jobs, nil
}

// Apply submits an application to an open posting, storing the resume when
// provided. A second application to the same posting is a conflict.
func (s *JobService) Apply(ctx context.Context, actor *domain.Account, jobID string, input ApplyInput) (*domain.Application, error) {
	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != domain.JobStatusOpen {
		return nil, apperrors.NewValidationError("job is closed", nil)
	}

	var resumeKey *string
	if len(input.Resume) > 0 {
		key, err := s.store.Save(ctx, input.Resume, storage.SaveOptions{
			Category:  "resumes",
			BaseName:  actor.ID,
			Extension: extensionOf(input.ResumeName),
		})
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		resumeKey = &key
	}

	app := &domain.Application{
		JobID:       jobID,
		AccountID:   actor.ID,
		CoverLetter: input.CoverLetter,
		ResumeKey:   resumeKey,
		Status:      domain.ApplicationStatusSubmitted,
		ActivityLog: []domain.ActivityEntry{{
			At:     time.Now().UTC(),
			Actor:  actor.ID,
			Status: domain.ApplicationStatusSubmitted,
		}},
	}
	if err := s.applications.Create(ctx, app); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("already applied to this job", nil)
		}
		return nil, apperrors.MapError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventApplicationSubmitted,
		AccountID: actor.ID,
		Timestamp: time.Now().UTC(),
		Payload: events.ApplicationSubmittedPayload{
			ApplicationID:  app.ID,
			JobID:          job.ID,
			JobTitle:       job.Title,
			ApplicantEmail: actor.Email,
			ApplicantName:  actor.Name,
		},
	})
	return app, nil
}

// ListJobApplications returns applications for a posting the actor owns.
func (s *JobService) ListJobApplications(ctx context.Context, actor *domain.Account, jobID string) ([]domain.Application, error) {
	if _, err := s.ownedJob(ctx, actor, jobID); err != nil {
		return nil, err
	}
	apps, err := s.applications.ListByJob(ctx, jobID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return apps, nil
}

// ListMyApplications returns the actor's own applications.
func (s *JobService) ListMyApplications(ctx context.Context, actor *domain.Account) ([]domain.Application, error) {
	apps, err := s.applications.ListByAccount(ctx, actor.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return apps, nil
}

// UpdateApplicationStatus moves an application to a new review state and
// appends the transition to its activity log.
func (s *JobService) UpdateApplicationStatus(ctx context.Context, actor *domain.Account, applicationID string, status domain.ApplicationStatus, note string) error {
	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("application", nil)
		}
		return apperrors.MapError(err)
	}
	if _, err := s.ownedJob(ctx, actor, app.JobID); err != nil {
		// Ownership miss reads as not-found so recruiters cannot probe
		// other recruiters' applications.
		return apperrors.NewNotFound("application", nil)
	}
	if status == domain.ApplicationStatusSubmitted {
		return apperrors.NewValidationError("cannot move application back to submitted", nil)
	}

	entry := domain.ActivityEntry{
		At:     time.Now().UTC(),
		Actor:  actor.ID,
		Status: status,
		Note:   note,
	}
	if err := s.applications.UpdateStatus(ctx, applicationID, status, entry); err != nil {
		return apperrors.MapError(err)
	}

	applicant, err := s.accounts.GetByID(ctx, app.AccountID)
	if err == nil {
		job, jobErr := s.jobs.GetByID(ctx, app.JobID)
		jobTitle := ""
		if jobErr == nil {
			jobTitle = job.Title
		}
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventApplicationStatusChanged,
			AccountID: actor.ID,
			Timestamp: time.Now().UTC(),
			Payload: events.ApplicationStatusChangedPayload{
				ApplicationID:  app.ID,
				JobTitle:       jobTitle,
				OldStatus:      app.Status,
				NewStatus:      status,
				ApplicantEmail: applicant.Email,
				ApplicantName:  applicant.Name,
			},
		})
	}
	return nil
}

// SaveJob bookmarks a posting for the actor; repeats are a no-op.
func (s *JobService) SaveJob(ctx context.Context, actor *domain.Account, jobID string) error {
	if _, err := s.GetJob(ctx, jobID); err != nil {
		return err
	}
	return apperrors.MapError(s.applications.SaveJob(ctx, jobID, actor.ID))
}

// UnsaveJob removes a bookmark.
func (s *JobService) UnsaveJob(ctx context.Context, actor *domain.Account, jobID string) error {
	return apperrors.MapError(s.applications.UnsaveJob(ctx, jobID, actor.ID))
}

// ListSavedJobs returns the actor's bookmarks.
func (s *JobService) ListSavedJobs(ctx context.Context, actor *domain.Account) ([]domain.Job, error) {
	jobs, err := s.applications.ListSavedJobs(ctx, actor.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return jobs, nil
}

// ownedJob loads a posting and verifies the actor owns it. A posting that
// exists but belongs to someone else reads as not-found.
func (s *JobService) ownedJob(ctx context.Context, actor *domain.Account, jobID string) (*domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("job", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if job.RecruiterID == nil || *job.RecruiterID != actor.ID {
		return nil, apperrors.NewNotFound("job", nil)
	}
	return job, nil
}

func extensionOf(filename string) string {
	ext := path.Ext(filename)
	if ext == "" {
		return "pdf"
	}
	return ext[1:]
}
