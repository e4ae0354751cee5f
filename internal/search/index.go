package search

import (
	"errors"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/VanshikaSalekar/DevBlog/internal/posts"
)

var _ posts.Indexer = (*Index)(nil)

// Index wraps a Bleve search index over posts.
type Index struct {
	index bleve.Index
}

// IndexedPost is the document stored for each post.
type IndexedPost struct {
	ID      string
	Title   string
	Content string
	Tags    []string
	Author  string
	Slug    string
}

// Open opens or creates an on-disk index. An empty path keeps the index in
// memory, which is rebuilt from the store on every start.
func Open(path string) (*Index, error) {
	if path == "" {
		idx, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		return &Index{index: idx}, nil
	}

	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		idx, err = bleve.New(path, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	return &Index{index: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()

	// English analyzer for stemming on titles
	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = "en"

	keywordFieldMapping := bleve.NewTextFieldMapping()
	keywordFieldMapping.Analyzer = "keyword"

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("ID", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("Title", titleFieldMapping)
	docMapping.AddFieldMappingsAt("Content", textFieldMapping)
	docMapping.AddFieldMappingsAt("Tags", textFieldMapping)
	docMapping.AddFieldMappingsAt("Author", textFieldMapping)
	docMapping.AddFieldMappingsAt("Slug", keywordFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}

func (i *Index) Close() error {
	return i.index.Close()
}

func newIndexedPost(p *posts.Post) *IndexedPost {
	return &IndexedPost{
		ID:      p.ID,
		Title:   p.Title,
		Content: p.ContentMD,
		Tags:    p.Tags,
		Author:  p.User.Name(),
		Slug:    p.Slug,
	}
}

// IndexPost adds or replaces a post.
func (i *Index) IndexPost(p *posts.Post) error {
	return i.index.Index(p.ID, newIndexedPost(p))
}

func (i *Index) Remove(id string) error {
	return i.index.Delete(id)
}

// Rebuild indexes every post in one batch.
func (i *Index) Rebuild(all []*posts.Post) error {
	batch := i.index.NewBatch()
	for _, p := range all {
		if err := batch.Index(p.ID, newIndexedPost(p)); err != nil {
			return fmt.Errorf("batch index %s: %w", p.ID, err)
		}
	}
	if err := i.index.Batch(batch); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// Search runs a query string query (quotes, +/-, fuzzy ~) and returns hits
// ordered by score.
func (i *Index) Search(queryStr string, limit int) ([]posts.SearchHit, error) {
	query := bleve.NewQueryStringQuery(queryStr)
	req := bleve.NewSearchRequestOptions(query, limit, 0, false)
	req.Highlight = bleve.NewHighlightWithStyle("html")

	results, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	hits := make([]posts.SearchHit, 0, len(results.Hits))
	for _, hit := range results.Hits {
		hits = append(hits, posts.SearchHit{
			ID:        hit.ID,
			Score:     hit.Score,
			Fragments: hit.Fragments,
		})
	}
	return hits, nil
}

func (i *Index) Count() (uint64, error) {
	return i.index.DocCount()
}
