package dto

import (
	"time"

	"github.com/campushire/platform/internal/domain"
)

type CreateJobRequest struct {
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
	Salary      *string `json:"salary,omitempty"`
}

type UpdateJobRequest struct {
	Title       *string `json:"title,omitempty"`
	Company     *string `json:"company,omitempty"`
	Location    *string `json:"location,omitempty"`
	Description *string `json:"description,omitempty"`
	Salary      *string `json:"salary,omitempty"`
}

type JobResponse struct {
	ID          string    `json:"id"`
	RecruiterID *string   `json:"recruiter_id,omitempty"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Salary      *string   `json:"salary,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewJobResponse(job *domain.Job) JobResponse {
	return JobResponse{
		ID:          job.ID,
		RecruiterID: job.RecruiterID,
		Title:       job.Title,
		Company:     job.Company,
		Location:    job.Location,
		Description: job.Description,
		Salary:      job.Salary,
		Status:      string(job.Status),
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
	}
}

func NewJobListResponse(jobs []domain.Job) []JobResponse {
	out := make([]JobResponse, 0, len(jobs))
	for i := range jobs {
		out = append(out, NewJobResponse(&jobs[i]))
	}
	return out
}

// ApplyRequest carries a cover letter and an optional base64-encoded resume.
type ApplyRequest struct {
	CoverLetter string `json:"cover_letter"`
	Resume      string `json:"resume,omitempty"`
	ResumeName  string `json:"resume_name,omitempty"`
}

type ApplicationStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

type ApplicationResponse struct {
	ID          string                 `json:"id"`
	JobID       string                 `json:"job_id"`
	AccountID   string                 `json:"account_id"`
	CoverLetter string                 `json:"cover_letter,omitempty"`
	ResumeKey   *string                `json:"resume_key,omitempty"`
	Status      string                 `json:"status"`
	ActivityLog []domain.ActivityEntry `json:"activity_log"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

func NewApplicationResponse(app *domain.Application) ApplicationResponse {
	log := app.ActivityLog
	if log == nil {
		log = []domain.ActivityEntry{}
	}
	return ApplicationResponse{
		ID:          app.ID,
		JobID:       app.JobID,
		AccountID:   app.AccountID,
		CoverLetter: app.CoverLetter,
		ResumeKey:   app.ResumeKey,
		Status:      string(app.Status),
		ActivityLog: log,
		CreatedAt:   app.CreatedAt,
		UpdatedAt:   app.UpdatedAt,
	}
}

func NewApplicationListResponse(apps []domain.Application) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(apps))
	for i := range apps {
		out = append(out, NewApplicationResponse(&apps[i]))
	}
	return out
}
