package model

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidJobType       = errors.New("invalid job type")
	ErrInvalidContactMethod = errors.New("invalid contact method")
	ErrInvalidRemoteWork    = errors.New("invalid remote work option")
	ErrInvalidCountryCode   = errors.New("invalid country code")
)

// Enum codes follow the wire/database representation: small integers with a
// human label on the side. Labels and codes are mapped by pure functions so
// external values are validated at the boundary where they enter.

type JobType int

const (
	JobTypeFullTime JobType = iota + 1
	JobTypePartTime
	JobTypeContract
	JobTypeInternship
)

var jobTypeLabels = map[JobType]string{
	JobTypeFullTime:   "Full Time",
	JobTypePartTime:   "Part Time",
	JobTypeContract:   "Contract",
	JobTypeInternship: "Internship",
}

func (t JobType) Valid() bool {
	_, ok := jobTypeLabels[t]
	return ok
}

func (t JobType) Label() string {
	return jobTypeLabels[t]
}

func JobTypeFromLabel(label string) (JobType, error) {
	for t, l := range jobTypeLabels {
		if l == label {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidJobType, label)
}

type ContactMethod int

const (
	ContactMethodLink ContactMethod = iota + 1
	ContactMethodEmail
)

var contactMethodLabels = map[ContactMethod]string{
	ContactMethodLink:  "Link",
	ContactMethodEmail: "Email",
}

func (m ContactMethod) Valid() bool {
	_, ok := contactMethodLabels[m]
	return ok
}

func (m ContactMethod) Label() string {
	return contactMethodLabels[m]
}

func ContactMethodFromLabel(label string) (ContactMethod, error) {
	for m, l := range contactMethodLabels {
		if l == label {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidContactMethod, label)
}

type RemoteWork int

const (
	RemoteWorkYes RemoteWork = iota + 1
	RemoteWorkNo
	RemoteWorkNegotiable
)

var remoteWorkLabels = map[RemoteWork]string{
	RemoteWorkYes:        "Yes",
	RemoteWorkNo:         "No",
	RemoteWorkNegotiable: "Negotiable",
}

func (r RemoteWork) Valid() bool {
	_, ok := remoteWorkLabels[r]
	return ok
}

func (r RemoteWork) Label() string {
	return remoteWorkLabels[r]
}

// Supported countries until the board opens up more.
var countryNames = map[string]string{
	"CYP": "Cyprus",
	"GRC": "Greece",
	"GBR": "United Kingdom",
}

func ValidCountryCode(code string) bool {
	_, ok := countryNames[code]
	return ok
}

func CountryName(code string) string {
	return countryNames[code]
}
