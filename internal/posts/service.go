package posts

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/VanshikaSalekar/DevBlog/internal/events"
	"github.com/VanshikaSalekar/DevBlog/internal/metrics"
)

// Service is the layer the API handlers call. It applies post defaults and
// author checks before handing posts to the Store, and keeps the search index
// and event stream in step with it.
type Service struct {
	store     *Store
	index     Indexer
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(store *Store, index Indexer, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &Service{
		store:     store,
		index:     index,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Reindex rebuilds the search index from the store.
func (s *Service) Reindex(ctx context.Context) error {
	if s.index == nil {
		return nil
	}
	all, err := s.store.List(ctx)
	if err != nil {
		return err
	}
	return s.index.Rebuild(all)
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return []string{DefaultTag}
	}
	return out
}

func coverOrDefault(url string) string {
	if strings.TrimSpace(url) == "" {
		return DefaultCoverImageURL
	}
	return url
}

func (s *Service) CreatePost(ctx context.Context, caller Caller, in CreateInput) (*Post, error) {
	post, err := s.store.Create(ctx, Draft{
		Title:         in.Title,
		Slug:          Slugify(in.Title),
		ContentMD:     in.ContentMD,
		CoverImageURL: coverOrDefault(in.CoverImageURL),
		Tags:          normalizeTags(in.Tags),
		User:          caller.Author,
	})
	metrics.PostOperationsTotal.WithLabelValues("create", metrics.Result(err)).Inc()
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx, events.TypePostCreated, post)
	return post, nil
}

func (s *Service) GetPost(ctx context.Context, slug string) (*Post, error) {
	post, ok, err := s.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return post, nil
}

// UpdatePost applies an edit by the post's author or an admin. A new title
// gets a new slug.
func (s *Service) UpdatePost(ctx context.Context, caller Caller, id string, in UpdateInput) (*Post, error) {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.Admin && caller.ID != current.User.ID {
		return nil, ErrForbidden
	}

	patch := Patch{
		ID:                id,
		Title:             in.Title,
		ContentMD:         in.ContentMD,
		IfUnmodifiedSince: in.IfUnmodifiedSince,
	}
	if in.Title != nil {
		slug := Slugify(*in.Title)
		patch.Slug = &slug
	}
	if in.CoverImageURL != nil {
		cover := coverOrDefault(*in.CoverImageURL)
		patch.CoverImageURL = &cover
	}
	if in.Tags != nil {
		tags := normalizeTags(*in.Tags)
		patch.Tags = &tags
	}

	post, err := s.store.Update(ctx, patch)
	metrics.PostOperationsTotal.WithLabelValues("update", metrics.Result(err)).Inc()
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx, events.TypePostUpdated, post)
	return post, nil
}

// DeletePost is restricted to admins.
func (s *Service) DeletePost(ctx context.Context, caller Caller, id string) error {
	if !caller.Admin {
		return ErrForbidden
	}
	post, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	err = s.store.Delete(ctx, id)
	metrics.PostOperationsTotal.WithLabelValues("delete", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	if s.index != nil {
		if err := s.index.Remove(id); err != nil {
			s.logger.Error("remove from search index failed", "post_id", id, "error", err)
		}
	}
	s.publish(ctx, events.NewPostEvent(events.TypePostDeleted, post.ID, post.Slug, post.Title, post.User.ID))
	return nil
}

func (s *Service) ListPosts(ctx context.Context, params ListParams) (*ListResult, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return paginate(filterPosts(all, params, s.now()), params.Page, params.PerPage), nil
}

// Tags returns every tag in use, in first-seen order.
func (s *Service) Tags(ctx context.Context) ([]string, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return uniqueTags(all), nil
}

// AdminSearch filters the whole collection for the dashboard. An empty query
// returns everything.
func (s *Service) AdminSearch(ctx context.Context, q string) ([]*Post, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if q == "" {
		return all, nil
	}
	return slices.DeleteFunc(all, func(p *Post) bool { return !adminMatch(p, q) }), nil
}

// Search returns ranked full-text matches. Hits whose post has since gone
// are dropped.
func (s *Service) Search(ctx context.Context, q string, limit int) ([]SearchResult, error) {
	if s.index == nil || strings.TrimSpace(q) == "" {
		return []SearchResult{}, nil
	}
	if limit < 1 || limit > MaxPerPage {
		limit = 10
	}
	hits, err := s.index.Search(q, limit)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", q, err)
	}
	results := make([]SearchResult, 0, len(hits))
	for _, h := range hits {
		post, err := s.store.GetByID(ctx, h.ID)
		if err != nil {
			continue
		}
		results = append(results, SearchResult{Post: post, Score: h.Score, Fragments: h.Fragments})
	}
	return results, nil
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	authors := make(map[string]bool)
	for _, p := range all {
		authors[p.User.ID] = true
	}
	return &Stats{
		TotalPosts:    len(all),
		UniqueAuthors: len(authors),
		UniqueTags:    len(uniqueTags(all)),
	}, nil
}

// afterWrite indexes and announces a stored post. Failures are logged: the
// post is already durable.
func (s *Service) afterWrite(ctx context.Context, typ string, post *Post) {
	if s.index != nil {
		if err := s.index.IndexPost(post); err != nil {
			s.logger.Error("search index update failed", "post_id", post.ID, "error", err)
		}
	}
	s.publish(ctx, events.NewPostEvent(typ, post.ID, post.Slug, post.Title, post.User.ID))
}

func (s *Service) publish(ctx context.Context, e events.PostEvent) {
	err := s.publisher.Publish(ctx, e)
	metrics.EventsPublishedTotal.WithLabelValues(e.Type, metrics.Result(err)).Inc()
	if err != nil {
		s.logger.Error("publish event failed", "type", e.Type, "post_id", e.Payload.PostID, "error", err)
	}
}
