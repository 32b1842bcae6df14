package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrMissingField = errors.New("missing required field")

type Company struct {
	ID      int64
	Name    string
	Website string
	Slug    string
	Created time.Time
}

func NewCompany(name, website string) (*Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: company name", ErrMissingField)
	}
	return &Company{
		Name:    name,
		Website: strings.TrimSpace(website),
		Slug:    Slugify(name),
		Created: time.Now().UTC(),
	}, nil
}

type Location struct {
	ID          int64
	City        string
	CountryCode string
	Created     time.Time
}

func NewLocation(city, countryCode string) (*Location, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, fmt.Errorf("%w: city", ErrMissingField)
	}
	if !ValidCountryCode(countryCode) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCountryCode, countryCode)
	}
	return &Location{
		City:        city,
		CountryCode: countryCode,
		Created:     time.Now().UTC(),
	}, nil
}

func (l *Location) CountryName() string {
	return CountryName(l.CountryCode)
}

// Tag uses its slug as the natural primary key; two spellings that slugify
// the same are the same tag.
type Tag struct {
	Slug    string
	Tag     string
	Created time.Time
}

func NewTag(text string) (*Tag, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: tag", ErrMissingField)
	}
	return &Tag{
		Slug:    Slugify(text),
		Tag:     text,
		Created: time.Now().UTC(),
	}, nil
}

type Job struct {
	ID          int64
	Title       string
	Description string
	Published   bool

	ContactMethod ContactMethod
	ContactEmail  string
	ContactURL    string

	JobType    JobType
	RemoteWork RemoteWork

	// AdminToken is the edit capability for this job, generated once at
	// creation and immutable afterwards.
	AdminToken string

	RecruiterName  string
	RecruiterEmail string

	Slug       string
	CompanyID  int64
	LocationID int64
	Created    time.Time

	Company  *Company
	Location *Location
	Tags     []Tag
}

// JobFields is the mutable field set shared by submission and edit.
type JobFields struct {
	Title          string
	Description    string
	JobType        JobType
	ContactMethod  ContactMethod
	ContactEmail   string
	ContactURL     string
	RemoteWork     RemoteWork
	RecruiterName  string
	RecruiterEmail string
}

// NewJob builds an unpublished job from submitted fields, minting the admin
// token. Company, location and tags are attached by the caller.
func NewJob(f JobFields) (*Job, error) {
	j := &Job{
		AdminToken: NewAdminToken(),
		Created:    time.Now().UTC(),
	}
	if err := j.Populate(f); err != nil {
		return nil, err
	}
	return j, nil
}

// Populate replaces the mutable fields of the job and forces it back to the
// unpublished state: a new or freshly edited job always needs review.
func (j *Job) Populate(f JobFields) error {
	if err := validateFields(f); err != nil {
		return err
	}

	j.Title = strings.TrimSpace(f.Title)
	j.Description = f.Description
	j.JobType = f.JobType
	j.ContactMethod = f.ContactMethod
	j.RemoteWork = f.RemoteWork
	j.RecruiterName = strings.TrimSpace(f.RecruiterName)
	j.RecruiterEmail = strings.TrimSpace(f.RecruiterEmail)
	j.Slug = Slugify(j.Title)
	j.Published = false

	// Exactly one contact field is kept, per the contact method.
	if f.ContactMethod == ContactMethodLink {
		j.ContactURL = strings.TrimSpace(f.ContactURL)
		j.ContactEmail = ""
	} else {
		j.ContactEmail = strings.TrimSpace(f.ContactEmail)
		j.ContactURL = ""
	}

	return nil
}

func validateFields(f JobFields) error {
	if strings.TrimSpace(f.Title) == "" {
		return fmt.Errorf("%w: title", ErrMissingField)
	}
	if strings.TrimSpace(f.Description) == "" {
		return fmt.Errorf("%w: description", ErrMissingField)
	}
	if strings.TrimSpace(f.RecruiterName) == "" {
		return fmt.Errorf("%w: recruiter name", ErrMissingField)
	}
	if strings.TrimSpace(f.RecruiterEmail) == "" {
		return fmt.Errorf("%w: recruiter email", ErrMissingField)
	}
	if !f.JobType.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidJobType, f.JobType)
	}
	if !f.ContactMethod.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidContactMethod, f.ContactMethod)
	}
	if !f.RemoteWork.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidRemoteWork, f.RemoteWork)
	}
	switch f.ContactMethod {
	case ContactMethodLink:
		if strings.TrimSpace(f.ContactURL) == "" {
			return fmt.Errorf("%w: contact url", ErrMissingField)
		}
	case ContactMethodEmail:
		if strings.TrimSpace(f.ContactEmail) == "" {
			return fmt.Errorf("%w: contact email", ErrMissingField)
		}
	}
	return nil
}

func (j *Job) TagSlugs() []string {
	out := make([]string, 0, len(j.Tags))
	for _, t := range j.Tags {
		out = append(out, t.Slug)
	}
	return out
}

// URLPath is the canonical path of a published job listing.
func (j *Job) URLPath() string {
	if j.ID == 0 || j.Company == nil {
		return ""
	}
	return fmt.Sprintf("/jobs/%d/%s/%s", j.ID, j.Company.Slug, j.Slug)
}

// EditURLPath carries the admin token; possession of the link is the only
// edit authorization there is.
func (j *Job) EditURLPath() string {
	if j.ID == 0 {
		return ""
	}
	return fmt.Sprintf("/edit/%d/%s", j.ID, j.AdminToken)
}

// ReviewToken authorizes exactly one publish transition via email reply.
// Once used it is permanently inert.
type ReviewToken struct {
	ID      int64
	Token   string
	Used    bool
	UsedAt  *time.Time
	JobID   int64
	Created time.Time
}

func NewReviewToken(jobID int64) *ReviewToken {
	return &ReviewToken{
		Token:   NewReviewTokenValue(),
		JobID:   jobID,
		Created: time.Now().UTC(),
	}
}

func (t *ReviewToken) Use() {
	now := time.Now().UTC()
	t.Used = true
	t.UsedAt = &now
}

// SocialBroadcast records one announcement attempt of a job to an external
// service.
type SocialBroadcast struct {
	ID      int64
	JobID   int64
	Service string
	Success bool
	Created time.Time
}
