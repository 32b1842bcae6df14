package model

import (
	"strconv"
	"strings"
	"time"
)

// SearchDocument is the index-only projection of a published job. It holds
// nothing the store cannot regenerate: the index can always be rebuilt from
// the job aggregates alone.
type SearchDocument struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	JobType     string    `json:"job_type"`
	Tags        string    `json:"tags"`
	Created     time.Time `json:"created"`
}

// ToDocument projects the job into its search document. The company and
// location relations must be loaded.
func (j *Job) ToDocument() SearchDocument {
	var location string
	if j.Location != nil {
		location = j.Location.City + "," + j.Location.CountryName()
	}
	var company string
	if j.Company != nil {
		company = j.Company.Name
	}
	return SearchDocument{
		ID:          strconv.FormatInt(j.ID, 10),
		Title:       j.Title,
		Description: j.Description,
		Company:     company,
		Location:    location,
		JobType:     j.JobType.Label(),
		Tags:        strings.Join(j.TagSlugs(), ","),
		Created:     j.Created,
	}
}
