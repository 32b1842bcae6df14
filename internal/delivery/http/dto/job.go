package dto

import (
	"time"

	"jobber/internal/model"
	"jobber/internal/usecase/listing"
)

// SubmitJobRequest is the payload for both submission and edit. Company and
// location may reference existing records by id; mismatching values create
// new records instead.
type SubmitJobRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	JobType        int    `json:"job_type"`
	ContactMethod  int    `json:"contact_method"`
	ContactEmail   string `json:"contact_email"`
	ContactURL     string `json:"contact_url"`
	RemoteWork     int    `json:"remote_work"`
	RecruiterName  string `json:"recruiter_name"`
	RecruiterEmail string `json:"recruiter_email"`

	CompanyID      int64  `json:"company_id"`
	CompanyName    string `json:"company_name"`
	CompanyWebsite string `json:"company_website"`

	LocationID  int64  `json:"location_id"`
	City        string `json:"city"`
	CountryCode string `json:"country_code"`

	Tags []string `json:"tags"`
}

func (r SubmitJobRequest) ToInput() listing.Input {
	return listing.Input{
		Fields: model.JobFields{
			Title:          r.Title,
			Description:    r.Description,
			JobType:        model.JobType(r.JobType),
			ContactMethod:  model.ContactMethod(r.ContactMethod),
			ContactEmail:   r.ContactEmail,
			ContactURL:     r.ContactURL,
			RemoteWork:     model.RemoteWork(r.RemoteWork),
			RecruiterName:  r.RecruiterName,
			RecruiterEmail: r.RecruiterEmail,
		},
		CompanyID:      r.CompanyID,
		CompanyName:    r.CompanyName,
		CompanyWebsite: r.CompanyWebsite,
		LocationID:     r.LocationID,
		City:           r.City,
		CountryCode:    r.CountryCode,
		Tags:           r.Tags,
	}
}

type CompanyResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Website string `json:"website,omitempty"`
	Slug    string `json:"slug"`
}

type LocationResponse struct {
	ID          int64  `json:"id"`
	City        string `json:"city"`
	CountryCode string `json:"country_code"`
	CountryName string `json:"country_name"`
}

type JobResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Published   bool   `json:"published"`

	JobType       string `json:"job_type"`
	RemoteWork    string `json:"remote_work"`
	ContactMethod string `json:"contact_method"`
	ContactEmail  string `json:"contact_email,omitempty"`
	ContactURL    string `json:"contact_url,omitempty"`

	Company  *CompanyResponse  `json:"company,omitempty"`
	Location *LocationResponse `json:"location,omitempty"`
	Tags     []string          `json:"tags"`

	URL     string `json:"url"`
	Created string `json:"created"`
}

// SubmittedJobResponse adds the edit link, which embeds the admin token. It
// is only returned to the submitter.
type SubmittedJobResponse struct {
	JobResponse
	EditURL string `json:"edit_url"`
}

func NewJobResponse(job *model.Job, baseURL string) JobResponse {
	out := JobResponse{
		ID:            job.ID,
		Title:         job.Title,
		Description:   job.Description,
		Published:     job.Published,
		JobType:       job.JobType.Label(),
		RemoteWork:    job.RemoteWork.Label(),
		ContactMethod: job.ContactMethod.Label(),
		ContactEmail:  job.ContactEmail,
		ContactURL:    job.ContactURL,
		Tags:          tagTexts(job.Tags),
		URL:           baseURL + job.URLPath(),
		Created:       job.Created.UTC().Format(time.RFC3339),
	}
	if job.Company != nil {
		out.Company = &CompanyResponse{
			ID:      job.Company.ID,
			Name:    job.Company.Name,
			Website: job.Company.Website,
			Slug:    job.Company.Slug,
		}
	}
	if job.Location != nil {
		out.Location = &LocationResponse{
			ID:          job.Location.ID,
			City:        job.Location.City,
			CountryCode: job.Location.CountryCode,
			CountryName: job.Location.CountryName(),
		}
	}
	return out
}

func NewSubmittedJobResponse(job *model.Job, baseURL string) SubmittedJobResponse {
	return SubmittedJobResponse{
		JobResponse: NewJobResponse(job, baseURL),
		EditURL:     baseURL + job.EditURLPath(),
	}
}

func NewJobResponses(jobs []*model.Job, baseURL string) []JobResponse {
	out := make([]JobResponse, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, NewJobResponse(job, baseURL))
	}
	return out
}

func tagTexts(tags []model.Tag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.Tag)
	}
	return out
}
