package posts

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the authoritative collection of posts: the seed posts followed by
// the user-created posts held in the mirror. Only the user-created subset is
// ever written back.
//
// Mutations are serialized and always write the mirror before the in-memory
// view changes, so a failed write leaves both sides as they were.
type Store struct {
	mu     sync.Mutex
	mirror Mirror
	all    []*Post
	stored map[string]bool

	seed    []*Post
	latency time.Duration
	now     func() time.Time
	newID   func() string
}

type Option func(*Store)

// WithLatency delays every operation by d before it runs.
func WithLatency(d time.Duration) Option {
	return func(s *Store) { s.latency = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithSeed replaces the built-in seed posts.
func WithSeed(seed []*Post) Option {
	return func(s *Store) { s.seed = seed }
}

func newPostID() string {
	return "post-" + uuid.Must(uuid.NewV7()).String()
}

// Open builds the collection from the seed posts and the mirror contents.
func Open(ctx context.Context, mirror Mirror, opts ...Option) (*Store, error) {
	s := &Store{
		mirror: mirror,
		stored: make(map[string]bool),
		seed:   SeedPosts(),
		now:    time.Now,
		newID:  newPostID,
	}
	for _, opt := range opts {
		opt(s)
	}

	seen := make(map[string]bool, len(s.seed))
	for _, p := range s.seed {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		s.all = append(s.all, p.clone())
	}

	stored, err := mirror.Load(ctx)
	if err != nil {
		return nil, &StorageError{Op: "read", Err: err}
	}
	for _, p := range stored {
		if p == nil || p.ID == "" || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		s.all = append(s.all, p.clone())
		s.stored[p.ID] = true
	}
	return s, nil
}

// List returns every post in collection order.
func (s *Store) List(ctx context.Context) ([]*Post, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Post, len(s.all))
	for i, p := range s.all {
		out[i] = p.clone()
	}
	return out, nil
}

// GetBySlug returns the first post with the given slug. A missing post is
// reported through ok, not as an error.
func (s *Store) GetBySlug(ctx context.Context, slug string) (post *Post, ok bool, err error) {
	if err := s.wait(ctx); err != nil {
		return nil, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.all {
		if p.Slug == slug {
			return p.clone(), true, nil
		}
	}
	return nil, false, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*Post, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	return s.all[i].clone(), nil
}

// Create assigns an id and timestamps to the draft and stores it. The slug is
// derived from the title unless the draft carries one.
func (s *Store) Create(ctx context.Context, d Draft) (*Post, error) {
	if err := validateDraft(&d); err != nil {
		return nil, err
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	for s.indexOf(id) >= 0 {
		id = s.newID()
	}
	slug := d.Slug
	if slug == "" {
		slug = Slugify(d.Title)
	}
	now := s.timestamp()
	post := &Post{
		ID:            id,
		Title:         d.Title,
		Slug:          slug,
		ContentMD:     d.ContentMD,
		CoverImageURL: d.CoverImageURL,
		Tags:          slices.Clone(d.Tags),
		CreatedAt:     now,
		UpdatedAt:     now,
		User:          d.User,
	}

	if err := s.save(ctx, append(s.storedPosts(), post)); err != nil {
		return nil, err
	}
	s.all = append(s.all, post)
	s.stored[id] = true
	return post.clone(), nil
}

// Update merges the provided patch fields over the post with patch.ID and
// stamps a new UpdatedAt. The post keeps its position in the collection.
func (s *Store) Update(ctx context.Context, patch Patch) (*Post, error) {
	if err := validatePatch(&patch); err != nil {
		return nil, err
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(patch.ID)
	if i < 0 {
		return nil, ErrNotFound
	}
	cur := s.all[i]
	if !patch.IfUnmodifiedSince.IsZero() && !patch.IfUnmodifiedSince.Equal(cur.UpdatedAt) {
		return nil, fmt.Errorf("update %s: %w", cur.ID, ErrConflict)
	}

	next := cur.clone()
	patch.apply(next)
	next.UpdatedAt = s.timestamp()
	if !next.UpdatedAt.After(cur.UpdatedAt) {
		next.UpdatedAt = cur.UpdatedAt.Add(time.Millisecond)
	}

	if s.stored[cur.ID] {
		stored := s.storedPosts()
		for j, p := range stored {
			if p.ID == cur.ID {
				stored[j] = next
			}
		}
		if err := s.save(ctx, stored); err != nil {
			return nil, err
		}
	}
	s.all[i] = next
	return next.clone(), nil
}

// Delete removes the post with the given id. Seed posts disappear from the
// collection until the next Open.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	if s.stored[id] {
		stored := slices.DeleteFunc(s.storedPosts(), func(p *Post) bool { return p.ID == id })
		if err := s.save(ctx, stored); err != nil {
			return err
		}
		delete(s.stored, id)
	}
	s.all = slices.Delete(s.all, i, i+1)
	return nil
}

// indexOf must be called with s.mu held.
func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.all, func(p *Post) bool { return p.ID == id })
}

// storedPosts returns the mirror subset in collection order. Must be called
// with s.mu held.
func (s *Store) storedPosts() []*Post {
	out := make([]*Post, 0, len(s.stored))
	for _, p := range s.all {
		if s.stored[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) save(ctx context.Context, posts []*Post) error {
	if err := s.mirror.Save(ctx, posts); err != nil {
		return &StorageError{Op: "write", Err: err}
	}
	return nil
}

// timestamp is millisecond precision so it survives the mirror unchanged.
func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *Store) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
