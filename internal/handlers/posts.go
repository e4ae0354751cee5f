package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/VanshikaSalekar/DevBlog/internal/middleware"
	"github.com/VanshikaSalekar/DevBlog/internal/posts"
)

type PostsHandler struct {
	svc    *posts.Service
	logger *slog.Logger
}

func NewPostsHandler(svc *posts.Service, logger *slog.Logger) *PostsHandler {
	return &PostsHandler{
		svc:    svc,
		logger: logger,
	}
}

type CreatePostRequest struct {
	Title         string   `json:"title"`
	ContentMD     string   `json:"content_md"`
	CoverImageURL string   `json:"cover_image_url"`
	Tags          []string `json:"tags"`
}

type UpdatePostRequest struct {
	Title             *string    `json:"title"`
	ContentMD         *string    `json:"content_md"`
	CoverImageURL     *string    `json:"cover_image_url"`
	Tags              *[]string  `json:"tags"`
	IfUnmodifiedSince *time.Time `json:"if_unmodified_since"`
}

func caller(r *http.Request) posts.Caller {
	if u := middleware.UserFromContext(r.Context()); u != nil {
		return u.Caller()
	}
	return posts.Caller{}
}

func (h *PostsHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreatePostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
			return
		}

		post, err := h.svc.CreatePost(r.Context(), caller(r), posts.CreateInput{
			Title:         req.Title,
			ContentMD:     req.ContentMD,
			CoverImageURL: req.CoverImageURL,
			Tags:          req.Tags,
		})
		if err != nil {
			writeServiceError(w, r, h.logger, err)
			return
		}

		writeJSON(w, http.StatusCreated, post)
	}
}

func (h *PostsHandler) GetBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if slug == "" {
			writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "slug is required", nil)
			return
		}

		post, err := h.svc.GetPost(r.Context(), slug)
		if err != nil {
			writeServiceError(w, r, h.logger, err)
			return
		}

		writeJSON(w, http.StatusOK, post)
	}
}

func (h *PostsHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		params := posts.ListParams{
			Query: strings.TrimSpace(q.Get("q")),
			Tags:  splitTags(q["tags"]),
			Tab:   posts.Tab(q.Get("tab")),
		}
		switch params.Tab {
		case "", posts.TabAll, posts.TabRecent, posts.TabPopular:
		default:
			writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "tab must be all, recent or popular", nil)
			return
		}

		var ok bool
		if params.Page, ok = intParam(q.Get("page")); !ok {
			writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "page must be a positive integer", nil)
			return
		}
		if params.PerPage, ok = intParam(q.Get("per_page")); !ok {
			writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "per_page must be a positive integer", nil)
			return
		}

		result, err := h.svc.ListPosts(r.Context(), params)
		if err != nil {
			writeServiceError(w, r, h.logger, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func (h *PostsHandler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdatePostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
			return
		}

		in := posts.UpdateInput{
			Title:         req.Title,
			ContentMD:     req.ContentMD,
			CoverImageURL: req.CoverImageURL,
			Tags:          req.Tags,
		}
		if in.Empty() {
			writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "no fields to update", nil)
			return
		}
		if req.IfUnmodifiedSince != nil {
			in.IfUnmodifiedSince = *req.IfUnmodifiedSince
		}

		post, err := h.svc.UpdatePost(r.Context(), caller(r), chi.URLParam(r, "id"), in)
		if err != nil {
			writeServiceError(w, r, h.logger, err)
			return
		}

		writeJSON(w, http.StatusOK, post)
	}
}

func (h *PostsHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.svc.DeletePost(r.Context(), caller(r), chi.URLParam(r, "id")); err != nil {
			writeServiceError(w, r, h.logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *PostsHandler) Tags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.svc.Tags(r.Context())
		if err != nil {
			writeServiceError(w, r, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": tags})
	}
}

func (h *PostsHandler) Search() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, ok := intParam(r.URL.Query().Get("limit"))
		if !ok {
			writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "limit must be a positive integer", nil)
			return
		}
		results, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"), limit)
		if err != nil {
			writeServiceError(w, r, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": results})
	}
}

func (h *PostsHandler) AdminList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := h.svc.AdminSearch(r.Context(), strings.TrimSpace(r.URL.Query().Get("q")))
		if err != nil {
			writeServiceError(w, r, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": list})
	}
}

func (h *PostsHandler) Stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.svc.Stats(r.Context())
		if err != nil {
			writeServiceError(w, r, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

// intParam parses an optional positive integer; empty means zero.
func intParam(s string) (int, bool) {
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// splitTags accepts both ?tags=a&tags=b and ?tags=a,b.
func splitTags(values []string) []string {
	var tags []string
	for _, v := range values {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}
	return tags
}
