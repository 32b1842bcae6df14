// Package feed renders the published listings as an RSS 2.0 feed.
package feed

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"jobber/internal/model"

	"github.com/gorilla/feeds"
)

// Lister is the slice of the listing service the feed needs.
type Lister interface {
	ListPublished(ctx context.Context, limit int) ([]*model.Job, error)
	SearchPublished(ctx context.Context, query string, limit int) ([]*model.Job, error)
}

const (
	feedDescription = "Find a great tech job in Cyprus, Greece or the United Kingdom."

	// DefaultLimit caps feed size; feed readers poll often and rarely page.
	DefaultLimit = 20
)

// Builder renders RSS from the published listings, optionally narrowed by a
// full-text query.
type Builder struct {
	listings Lister
	title    string
	baseURL  string
}

func NewBuilder(listings Lister, title, baseURL string) *Builder {
	return &Builder{
		listings: listings,
		title:    title,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// RenderRSS returns the feed XML. An empty query feeds the newest published
// jobs; a non-empty query feeds the search results for it.
func (b *Builder) RenderRSS(ctx context.Context, query string, limit int) (string, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	var (
		jobs []*model.Job
		err  error
	)
	if strings.TrimSpace(query) == "" {
		jobs, err = b.listings.ListPublished(ctx, limit)
	} else {
		jobs, err = b.listings.SearchPublished(ctx, query, limit)
	}
	if err != nil {
		return "", err
	}

	f := &feeds.Feed{
		Title:       b.title,
		Description: feedDescription,
		Link:        &feeds.Link{Href: b.selfLink(query)},
		Created:     time.Now().UTC(),
	}

	for _, job := range jobs {
		jobURL := b.baseURL + job.URLPath()
		f.Items = append(f.Items, &feeds.Item{
			Id:          jobURL,
			Title:       entryTitle(job),
			Link:        &feeds.Link{Href: jobURL},
			Description: job.Description,
			Created:     job.Created,
		})
	}

	return f.ToRss()
}

func (b *Builder) selfLink(query string) string {
	link := b.baseURL + "/feed"
	if strings.TrimSpace(query) != "" {
		link += "?query=" + url.QueryEscape(query)
	}
	return link
}

// entryTitle reads "Title at Company in City, Country".
func entryTitle(job *model.Job) string {
	company := ""
	if job.Company != nil {
		company = job.Company.Name
	}
	location := ""
	if job.Location != nil {
		location = fmt.Sprintf("%s, %s", job.Location.City, job.Location.CountryName())
	}
	return fmt.Sprintf("%s at %s in %s", job.Title, company, location)
}
