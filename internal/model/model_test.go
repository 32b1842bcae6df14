package model

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFields() JobFields {
	return JobFields{
		Title:          "Senior Gopher",
		Description:    "Write Go all day.",
		JobType:        JobTypeFullTime,
		ContactMethod:  ContactMethodEmail,
		ContactEmail:   "jobs@acme.test",
		RemoteWork:     RemoteWorkNegotiable,
		RecruiterName:  "Alex",
		RecruiterEmail: "alex@acme.test",
	}
}

func TestNewJobStartsUnpublished(t *testing.T) {
	job, err := NewJob(validFields())
	require.NoError(t, err)

	assert.False(t, job.Published)
	assert.Equal(t, "senior-gopher", job.Slug)
	assert.False(t, job.Created.IsZero())
}

func TestNewJobMintsAdminToken(t *testing.T) {
	job, err := NewJob(validFields())
	require.NoError(t, err)

	require.Len(t, job.AdminToken, 40)
	for _, c := range job.AdminToken {
		if !strings.ContainsRune("0123456789abcdef", c) {
			t.Fatalf("admin token contains non-hex character %q", c)
		}
	}

	other, err := NewJob(validFields())
	require.NoError(t, err)
	assert.NotEqual(t, job.AdminToken, other.AdminToken)
}

func TestPopulateKeepsExactlyOneContactField(t *testing.T) {
	f := validFields()
	f.ContactMethod = ContactMethodLink
	f.ContactURL = "https://acme.test/apply"
	f.ContactEmail = "jobs@acme.test"

	job, err := NewJob(f)
	require.NoError(t, err)
	assert.Equal(t, "https://acme.test/apply", job.ContactURL)
	assert.Empty(t, job.ContactEmail)

	f.ContactMethod = ContactMethodEmail
	require.NoError(t, job.Populate(f))
	assert.Equal(t, "jobs@acme.test", job.ContactEmail)
	assert.Empty(t, job.ContactURL)
}

func TestPopulateUnpublishesAndKeepsToken(t *testing.T) {
	job, err := NewJob(validFields())
	require.NoError(t, err)

	token := job.AdminToken
	job.Published = true

	f := validFields()
	f.Title = "Staff Gopher"
	require.NoError(t, job.Populate(f))

	assert.False(t, job.Published)
	assert.Equal(t, "staff-gopher", job.Slug)
	assert.Equal(t, token, job.AdminToken)
}

func TestPopulateValidation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*JobFields)
		wantErr error
	}{
		{"missing title", func(f *JobFields) { f.Title = "  " }, ErrMissingField},
		{"missing description", func(f *JobFields) { f.Description = "" }, ErrMissingField},
		{"missing recruiter name", func(f *JobFields) { f.RecruiterName = "" }, ErrMissingField},
		{"missing recruiter email", func(f *JobFields) { f.RecruiterEmail = "" }, ErrMissingField},
		{"bad job type", func(f *JobFields) { f.JobType = 99 }, ErrInvalidJobType},
		{"bad contact method", func(f *JobFields) { f.ContactMethod = 0 }, ErrInvalidContactMethod},
		{"bad remote work", func(f *JobFields) { f.RemoteWork = -1 }, ErrInvalidRemoteWork},
		{"email method without email", func(f *JobFields) { f.ContactEmail = "" }, ErrMissingField},
		{"link method without url", func(f *JobFields) {
			f.ContactMethod = ContactMethodLink
			f.ContactURL = ""
		}, ErrMissingField},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := validFields()
			tc.mutate(&f)
			_, err := NewJob(f)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestURLPaths(t *testing.T) {
	job, err := NewJob(validFields())
	require.NoError(t, err)
	job.ID = 7
	job.Company = &Company{Name: "Acme", Slug: "acme"}

	assert.Equal(t, "/jobs/7/acme/senior-gopher", job.URLPath())
	assert.Equal(t, "/edit/7/"+job.AdminToken, job.EditURLPath())
}

func TestURLPathNeedsCompany(t *testing.T) {
	job, err := NewJob(validFields())
	require.NoError(t, err)
	job.ID = 7

	assert.Empty(t, job.URLPath())
}

func TestReviewTokenValue(t *testing.T) {
	token := NewReviewToken(3)
	assert.Len(t, token.Token, 10)
	assert.False(t, token.Used)
	assert.Nil(t, token.UsedAt)
	assert.Equal(t, int64(3), token.JobID)

	token.Use()
	assert.True(t, token.Used)
	require.NotNil(t, token.UsedAt)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "senior-go-developer", Slugify("Senior Go Developer"))
	assert.Equal(t, "cafe-manager", Slugify("Café Manager"))

	long := strings.Repeat("go ", 60)
	s := Slugify(long)
	assert.LessOrEqual(t, len(s), 75)
	assert.False(t, strings.HasSuffix(s, "-"))
}

func TestNewTagUsesSlugAsKey(t *testing.T) {
	a, err := NewTag("Erlang Developer")
	require.NoError(t, err)
	b, err := NewTag("erlang developer")
	require.NoError(t, err)

	assert.Equal(t, a.Slug, b.Slug)
	assert.Equal(t, "Erlang Developer", a.Tag)
}

func TestNewLocationValidatesCountry(t *testing.T) {
	_, err := NewLocation("Limassol", "XXX")
	assert.ErrorIs(t, err, ErrInvalidCountryCode)

	loc, err := NewLocation("Limassol", "CYP")
	require.NoError(t, err)
	assert.Equal(t, "Cyprus", loc.CountryName())
}

func TestToDocument(t *testing.T) {
	job, err := NewJob(validFields())
	require.NoError(t, err)
	job.ID = 42
	job.Company = &Company{Name: "Acme", Slug: "acme"}
	job.Location = &Location{City: "Athens", CountryCode: "GRC"}
	job.Tags = []Tag{{Slug: "go", Tag: "Go"}, {Slug: "backend", Tag: "Backend"}}

	doc := job.ToDocument()
	assert.Equal(t, "42", doc.ID)
	assert.Equal(t, "Senior Gopher", doc.Title)
	assert.Equal(t, "Acme", doc.Company)
	assert.Equal(t, "Athens,Greece", doc.Location)
	assert.Equal(t, "Full Time", doc.JobType)
	assert.Equal(t, "go,backend", doc.Tags)
}
