package search

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"jobber/internal/model"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	regexptok "github.com/blevesearch/bleve/v2/analysis/tokenizer/regexp"
	"github.com/blevesearch/bleve/v2/mapping"
)

// indexName is the on-disk name of the jobs index under the index directory.
const indexName = "jobs.bleve"

// SearchableFields are the fields the multi-field query fans out over;
// everything in the schema except the document id.
var SearchableFields = []string{"title", "description", "company", "location", "job_type", "tags"}

type Order string

const (
	OrderNone Order = ""
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Indexer is the write/read contract of the jobs search index. Every
// mutating call either commits fully or leaves the index untouched; bulk
// adds are all-or-nothing.
type Indexer interface {
	AddDocument(ctx context.Context, doc model.SearchDocument) error
	UpdateDocument(ctx context.Context, doc model.SearchDocument) error
	DeleteDocument(ctx context.Context, id string) error
	AddDocumentBulk(ctx context.Context, docs []model.SearchDocument) error
	Search(ctx context.Context, query string, order Order, limit int) ([]model.SearchDocument, error)
	Close() error
}

// Index wraps a bleve index. Bleve holds a single writer lock on the index
// directory, so exactly one process owns writes at a time.
type Index struct {
	idx bleve.Index
}

// Open opens the jobs index in dir, creating an empty one when it does not
// exist yet.
func Open(dir string) (*Index, error) {
	path := filepath.Join(dir, indexName)
	idx, err := bleve.Open(path)
	if err != nil {
		if !errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
			return nil, fmt.Errorf("open search index: %w", err)
		}
		m, err := buildIndexMapping()
		if err != nil {
			return nil, err
		}
		idx, err = bleve.New(path, m)
		if err != nil {
			return nil, fmt.Errorf("create search index: %w", err)
		}
	}
	return &Index{idx: idx}, nil
}

// Create destructively replaces the jobs index in dir with a fresh empty
// schema. This is the offline reconciliation path: callers re-derive every
// document from the store afterwards.
func Create(dir string) (*Index, error) {
	path := filepath.Join(dir, indexName)
	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("wipe search index: %w", err)
	}
	m, err := buildIndexMapping()
	if err != nil {
		return nil, err
	}
	idx, err := bleve.New(path, m)
	if err != nil {
		return nil, fmt.Errorf("create search index: %w", err)
	}
	return &Index{idx: idx}, nil
}

// NewMemOnly builds an in-memory index with the production schema.
func NewMemOnly() (*Index, error) {
	m, err := buildIndexMapping()
	if err != nil {
		return nil, err
	}
	idx, err := bleve.NewMemOnly(m)
	if err != nil {
		return nil, err
	}
	return &Index{idx: idx}, nil
}

func (i *Index) Close() error {
	return i.idx.Close()
}

func (i *Index) AddDocument(_ context.Context, doc model.SearchDocument) error {
	if err := i.idx.Index(doc.ID, docFields(doc)); err != nil {
		return fmt.Errorf("index document %s: %w", doc.ID, err)
	}
	return nil
}

// UpdateDocument upserts by the document id carried in the doc.
func (i *Index) UpdateDocument(ctx context.Context, doc model.SearchDocument) error {
	return i.AddDocument(ctx, doc)
}

// DeleteDocument removes the document; deleting an absent id is a no-op.
func (i *Index) DeleteDocument(_ context.Context, id string) error {
	if err := i.idx.Delete(id); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return nil
}

// AddDocumentBulk indexes docs in a single batch: a failure anywhere cancels
// the entire batch.
func (i *Index) AddDocumentBulk(_ context.Context, docs []model.SearchDocument) error {
	batch := i.idx.NewBatch()
	for _, doc := range docs {
		if err := batch.Index(doc.ID, docFields(doc)); err != nil {
			return fmt.Errorf("batch document %s: %w", doc.ID, err)
		}
	}
	if err := i.idx.Batch(batch); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// Search runs a multi-field OR query. order sorts by creation time; limit
// caps the result set (0 means all).
func (i *Index) Search(ctx context.Context, queryText string, order Order, limit int) ([]model.SearchDocument, error) {
	dis := bleve.NewDisjunctionQuery()
	for _, field := range SearchableFields {
		mq := bleve.NewMatchQuery(queryText)
		mq.SetField(field)
		dis.AddQuery(mq)
	}

	req := bleve.NewSearchRequest(dis)
	req.Fields = []string{"*"}
	if limit > 0 {
		req.Size = limit
	} else {
		req.Size = maxResults
	}
	switch order {
	case OrderAsc:
		req.SortBy([]string{"created"})
	case OrderDesc:
		req.SortBy([]string{"-created"})
	}

	res, err := i.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", queryText, err)
	}

	out := make([]model.SearchDocument, 0, len(res.Hits))
	for _, hit := range res.Hits {
		out = append(out, docFromFields(hit.ID, hit.Fields))
	}
	return out, nil
}

const maxResults = 1000

// commaListAnalyzer tokenizes comma-joined list fields (location, tags) into
// lowercased terms, mirroring how the documents store them.
const commaListAnalyzer = "comma_list"

func buildIndexMapping() (mapping.IndexMapping, error) {
	m := bleve.NewIndexMapping()

	err := m.AddCustomTokenizer("comma", map[string]any{
		"type":   regexptok.Name,
		"regexp": `[^,]+`,
	})
	if err != nil {
		return nil, err
	}
	err = m.AddCustomAnalyzer(commaListAnalyzer, map[string]any{
		"type":          custom.Name,
		"tokenizer":     "comma",
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, err
	}

	text := bleve.NewTextFieldMapping()
	text.Analyzer = en.AnalyzerName
	text.Store = true

	kw := bleve.NewTextFieldMapping()
	kw.Analyzer = commaListAnalyzer
	kw.Store = true

	created := bleve.NewDateTimeFieldMapping()
	created.Store = true

	id := bleve.NewTextFieldMapping()
	id.Analyzer = keyword.Name
	id.Store = true
	id.Index = false

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("id", id)
	doc.AddFieldMappingsAt("title", text)
	doc.AddFieldMappingsAt("description", text)
	doc.AddFieldMappingsAt("company", text)
	doc.AddFieldMappingsAt("location", kw)
	doc.AddFieldMappingsAt("job_type", text)
	doc.AddFieldMappingsAt("tags", kw)

	m.DefaultMapping = doc
	return m, nil
}

func docFields(doc model.SearchDocument) map[string]any {
	return map[string]any{
		"id":          doc.ID,
		"title":       doc.Title,
		"description": doc.Description,
		"company":     doc.Company,
		"location":    doc.Location,
		"job_type":    doc.JobType,
		"tags":        doc.Tags,
		"created":     doc.Created,
	}
}

func docFromFields(id string, fields map[string]any) model.SearchDocument {
	doc := model.SearchDocument{ID: id}
	str := func(key string) string {
		v, _ := fields[key].(string)
		return v
	}
	doc.Title = str("title")
	doc.Description = str("description")
	doc.Company = str("company")
	doc.Location = str("location")
	doc.JobType = str("job_type")
	doc.Tags = str("tags")
	if raw := str("created"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			doc.Created = t
		}
	}
	return doc
}
