package posts

// Indexer is the full-text index kept alongside the store.
type Indexer interface {
	IndexPost(p *Post) error
	Remove(id string) error
	Rebuild(all []*Post) error
	Search(query string, limit int) ([]SearchHit, error)
}
