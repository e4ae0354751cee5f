package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/VanshikaSalekar/DevBlog/internal/auth"
	"github.com/VanshikaSalekar/DevBlog/internal/posts"
	"github.com/VanshikaSalekar/DevBlog/internal/search"
	"github.com/VanshikaSalekar/DevBlog/internal/storage"
)

type testEnv struct {
	router   http.Handler
	sessions *auth.Sessions
	store    *posts.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	st, err := storage.NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}
	store, err := posts.Open(ctx, posts.NewBlobMirror(st))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	idx, err := search.Open("")
	if err != nil {
		t.Fatalf("search.Open: %v", err)
	}
	t.Cleanup(func() { _ = idx.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := posts.NewService(store, idx, nil, logger)
	if err := svc.Reindex(ctx); err != nil {
		t.Fatalf("Reindex: %v", err)
	}
	sessions := auth.NewSessions("test-secret", time.Hour)

	return &testEnv{
		router: NewRouter(RouterDeps{
			Service:     svc,
			Sessions:    sessions,
			Health:      &HealthDeps{Mirror: st, Backend: "file"},
			Logger:      logger,
			CORSOrigins: []string{"*"},
		}),
		sessions: sessions,
		store:    store,
	}
}

func (e *testEnv) signIn(t *testing.T, email, password string) string {
	t.Helper()
	sess, err := e.sessions.SignIn(email, password)
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	return sess.Token
}

func (e *testEnv) do(method, path, token, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v (body %s)", err, rec.Body.String())
	}
	return v
}

type errorBody struct {
	Error APIError `json:"error"`
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) APIError {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected %d, got %d (body %s)", status, rec.Code, rec.Body.String())
	}
	body := decode[errorBody](t, rec)
	if body.Error.Code != code {
		t.Errorf("error code %q, want %q", body.Error.Code, code)
	}
	return body.Error
}

func TestPostsHandler_List(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/posts", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("List: status %d", rec.Code)
	}
	res := decode[posts.ListResult](t, rec)
	if res.Total != 3 || len(res.Posts) != 3 {
		t.Errorf("total %d, len %d", res.Total, len(res.Posts))
	}
	if res.Page != 1 || res.PerPage != posts.DefaultPerPage || res.TotalPages != 1 {
		t.Errorf("pagination %+v", res)
	}
}

func TestPostsHandler_List_Filters(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/posts?tags=React,Frontend", "", "")
	res := decode[posts.ListResult](t, rec)
	if res.Total != 1 || res.Posts[0].ID != "1" {
		t.Errorf("tag filter: %+v", res.Posts)
	}

	rec = env.do(http.MethodGet, "/posts?q=grid", "", "")
	res = decode[posts.ListResult](t, rec)
	if res.Total != 1 || res.Posts[0].ID != "2" {
		t.Errorf("query filter: %+v", res.Posts)
	}

	rec = env.do(http.MethodGet, "/posts?per_page=2&page=2", "", "")
	res = decode[posts.ListResult](t, rec)
	if len(res.Posts) != 1 || res.TotalPages != 2 {
		t.Errorf("page 2: %+v", res)
	}
}

func TestPostsHandler_List_PopularTab(t *testing.T) {
	env := newTestEnv(t)
	token := env.signIn(t, "writer@example.com", "pw")
	created := createPost(t, env, token)

	rec := env.do(http.MethodGet, "/posts?tab=popular", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("List: status %d", rec.Code)
	}
	res := decode[posts.ListResult](t, rec)
	if res.Total != 1 || res.Posts[0].ID != created.ID {
		t.Errorf("popular: %+v", res.Posts)
	}
}

func TestPostsHandler_List_StaleTokenOnPublicRead(t *testing.T) {
	env := newTestEnv(t)
	token := env.signIn(t, "writer@example.com", "pw")
	if err := env.sessions.SignOut(token); err != nil {
		t.Fatalf("SignOut: %v", err)
	}

	for _, path := range []string{"/posts", "/posts/advanced-css-grid-techniques", "/tags", "/health"} {
		if rec := env.do(http.MethodGet, path, token, ""); rec.Code != http.StatusOK {
			t.Errorf("GET %s with stale token: status %d", path, rec.Code)
		}
	}
	rec := env.do(http.MethodGet, "/posts", "garbage", "")
	if rec.Code != http.StatusOK {
		t.Errorf("GET /posts with garbage token: status %d", rec.Code)
	}
}

func TestPostsHandler_List_BadParams(t *testing.T) {
	env := newTestEnv(t)
	for _, q := range []string{"tab=trending", "page=0", "page=x", "per_page=-1"} {
		rec := env.do(http.MethodGet, "/posts?"+q, "", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", q, rec.Code)
		}
	}
}

func TestPostsHandler_GetBySlug(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/posts/advanced-css-grid-techniques", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GetBySlug: status %d", rec.Code)
	}
	post := decode[posts.Post](t, rec)
	if post.ID != "2" || post.User.DisplayName != "CSS Wizard" {
		t.Errorf("got %+v", post)
	}
}

func TestPostsHandler_GetBySlug_NotFound(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/posts/missing", "", "")
	expectError(t, rec, http.StatusNotFound, "NOT_FOUND")
}

func TestPostsHandler_Create(t *testing.T) {
	env := newTestEnv(t)
	token := env.signIn(t, "writer@example.com", "pw")

	rec := env.do(http.MethodPost, "/posts", token, `{"title":"Hello, World!","content_md":"# Hi"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Create: status %d, body %s", rec.Code, rec.Body.String())
	}
	post := decode[posts.Post](t, rec)
	if post.Slug != "hello-world" {
		t.Errorf("slug %q", post.Slug)
	}
	if post.CoverImageURL != posts.DefaultCoverImageURL {
		t.Errorf("cover %q", post.CoverImageURL)
	}
	if len(post.Tags) != 1 || post.Tags[0] != posts.DefaultTag {
		t.Errorf("tags %v", post.Tags)
	}
	if post.User.Email != "writer@example.com" || post.User.DisplayName != "writer" {
		t.Errorf("author %+v", post.User)
	}
	if !post.CreatedAt.Equal(post.UpdatedAt) {
		t.Errorf("created_at %v != updated_at %v", post.CreatedAt, post.UpdatedAt)
	}

	rec = env.do(http.MethodGet, "/posts/hello-world", "", "")
	if rec.Code != http.StatusOK {
		t.Errorf("read back: status %d", rec.Code)
	}
}

func TestPostsHandler_Create_Unauthenticated(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodPost, "/posts", "", `{"title":"T","content_md":"c"}`)
	expectError(t, rec, http.StatusUnauthorized, "UNAUTHORIZED")

	rec = env.do(http.MethodPost, "/posts", "not-a-token", `{"title":"T","content_md":"c"}`)
	expectError(t, rec, http.StatusUnauthorized, "UNAUTHORIZED")
}

func TestPostsHandler_Create_InvalidJSON(t *testing.T) {
	env := newTestEnv(t)
	token := env.signIn(t, "writer@example.com", "pw")
	rec := env.do(http.MethodPost, "/posts", token, `not json`)
	expectError(t, rec, http.StatusBadRequest, "BAD_REQUEST")
}

func TestPostsHandler_Create_ValidationError(t *testing.T) {
	env := newTestEnv(t)
	token := env.signIn(t, "writer@example.com", "pw")

	rec := env.do(http.MethodPost, "/posts", token, `{"title":"","content_md":""}`)
	apiErr := expectError(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
	if apiErr.Details["title"] != "title_required" || apiErr.Details["content_md"] != "content_required" {
		t.Errorf("details %v", apiErr.Details)
	}

	rec = env.do(http.MethodPost, "/posts", token, `{"title":"   ","content_md":"body"}`)
	apiErr = expectError(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
	if apiErr.Details["title"] != "title_required" {
		t.Errorf("blank title details %v", apiErr.Details)
	}

	rec = env.do(http.MethodPost, "/posts", token, `{"title":"T","content_md":"c","tags":["a","b","c","d","e","f","g","h","i","j","k"]}`)
	apiErr = expectError(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
	if apiErr.Details["tags"] != "too_many_tags" {
		t.Errorf("tags details %v", apiErr.Details)
	}
}

func createPost(t *testing.T, env *testEnv, token string) posts.Post {
	t.Helper()
	rec := env.do(http.MethodPost, "/posts", token, `{"title":"Draft","content_md":"body","tags":["Go"]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d, body %s", rec.Code, rec.Body.String())
	}
	return decode[posts.Post](t, rec)
}

func TestPostsHandler_Update(t *testing.T) {
	env := newTestEnv(t)
	token := env.signIn(t, "writer@example.com", "pw")
	created := createPost(t, env, token)

	rec := env.do(http.MethodPut, "/posts/"+created.ID, token, `{"title":"New Title","tags":[]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Update: status %d, body %s", rec.Code, rec.Body.String())
	}
	post := decode[posts.Post](t, rec)
	if post.Title != "New Title" || post.Slug != "new-title" || post.ContentMD != "body" {
		t.Errorf("got %+v", post)
	}
	if len(post.Tags) != 1 || post.Tags[0] != posts.DefaultTag {
		t.Errorf("tags %v", post.Tags)
	}
	if !post.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("updated_at %v not after %v", post.UpdatedAt, created.UpdatedAt)
	}
	if !post.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("created_at changed")
	}
}

func TestPostsHandler_Update_NoFields(t *testing.T) {
	env := newTestEnv(t)
	token := env.signIn(t, "writer@example.com", "pw")
	rec := env.do(http.MethodPut, "/posts/1", token, `{}`)
	expectError(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestPostsHandler_Update_InvalidJSON(t *testing.T) {
	env := newTestEnv(t)
	token := env.signIn(t, "writer@example.com", "pw")
	rec := env.do(http.MethodPut, "/posts/1", token, `not json`)
	expectError(t, rec, http.StatusBadRequest, "BAD_REQUEST")
}

func TestPostsHandler_Update_NotFound(t *testing.T) {
	env := newTestEnv(t)
	token := env.signIn(t, auth.AdminEmail, "admin123")
	rec := env.do(http.MethodPut, "/posts/missing", token, `{"title":"X"}`)
	expectError(t, rec, http.StatusNotFound, "NOT_FOUND")
}

func TestPostsHandler_Update_Forbidden(t *testing.T) {
	env := newTestEnv(t)
	author := env.signIn(t, "writer@example.com", "pw")
	created := createPost(t, env, author)

	other, err := env.sessions.SignUp("other@example.com", "pw")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	rec := env.do(http.MethodPut, "/posts/"+created.ID, other.Token, `{"title":"Mine now"}`)
	expectError(t, rec, http.StatusForbidden, "FORBIDDEN")

	admin := env.signIn(t, auth.AdminEmail, "admin123")
	rec = env.do(http.MethodPut, "/posts/"+created.ID, admin, `{"title":"Edited by admin"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("admin update: status %d", rec.Code)
	}
}

func TestPostsHandler_Update_Conflict(t *testing.T) {
	env := newTestEnv(t)
	token := env.signIn(t, "writer@example.com", "pw")
	created := createPost(t, env, token)
	stale := created.UpdatedAt.Format(time.RFC3339Nano)

	rec := env.do(http.MethodPut, "/posts/"+created.ID, token, `{"content_md":"first","if_unmodified_since":"`+stale+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("first update: status %d, body %s", rec.Code, rec.Body.String())
	}
	rec = env.do(http.MethodPut, "/posts/"+created.ID, token, `{"content_md":"second","if_unmodified_since":"`+stale+`"}`)
	expectError(t, rec, http.StatusConflict, "CONFLICT")
}

func TestPostsHandler_Delete(t *testing.T) {
	env := newTestEnv(t)
	admin := env.signIn(t, auth.AdminEmail, "admin123")

	rec := env.do(http.MethodDelete, "/posts/2", admin, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Delete: status %d", rec.Code)
	}
	rec = env.do(http.MethodGet, "/posts/advanced-css-grid-techniques", "", "")
	expectError(t, rec, http.StatusNotFound, "NOT_FOUND")

	rec = env.do(http.MethodDelete, "/posts/2", admin, "")
	expectError(t, rec, http.StatusNotFound, "NOT_FOUND")
}

func TestPostsHandler_Delete_RequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	token := env.signIn(t, "writer@example.com", "pw")
	created := createPost(t, env, token)

	rec := env.do(http.MethodDelete, "/posts/"+created.ID, token, "")
	expectError(t, rec, http.StatusForbidden, "FORBIDDEN")

	rec = env.do(http.MethodDelete, "/posts/"+created.ID, "", "")
	expectError(t, rec, http.StatusUnauthorized, "UNAUTHORIZED")
}

func TestPostsHandler_Tags(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/tags", "", "")
	body := decode[struct {
		Data []string `json:"data"`
	}](t, rec)
	want := []string{"React", "TypeScript", "Frontend", "CSS", "Web Design", "Performance", "JavaScript"}
	if len(body.Data) != len(want) {
		t.Fatalf("tags %v", body.Data)
	}
	for i := range want {
		if body.Data[i] != want[i] {
			t.Errorf("tag %d = %q, want %q", i, body.Data[i], want[i])
		}
	}
}

func TestPostsHandler_Search(t *testing.T) {
	env := newTestEnv(t)
	token := env.signIn(t, "writer@example.com", "pw")
	rec := env.do(http.MethodPost, "/posts", token, `{"title":"Kubernetes operators","content_md":"Writing kubernetes reconcile loops"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d", rec.Code)
	}

	rec = env.do(http.MethodGet, "/search?q=kubernetes", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Search: status %d", rec.Code)
	}
	body := decode[struct {
		Data []posts.SearchResult `json:"data"`
	}](t, rec)
	if len(body.Data) != 1 || body.Data[0].Post.Title != "Kubernetes operators" {
		t.Errorf("results %+v", body.Data)
	}

	rec = env.do(http.MethodGet, "/search?q=x&limit=abc", "", "")
	expectError(t, rec, http.StatusBadRequest, "BAD_REQUEST")
}

func TestPostsHandler_Admin(t *testing.T) {
	env := newTestEnv(t)
	admin := env.signIn(t, auth.AdminEmail, "admin123")

	rec := env.do(http.MethodGet, "/admin/posts?q=perf@example.com", admin, "")
	list := decode[struct {
		Data []posts.Post `json:"data"`
	}](t, rec)
	if len(list.Data) != 1 || list.Data[0].ID != "3" {
		t.Errorf("admin search %+v", list.Data)
	}

	rec = env.do(http.MethodGet, "/admin/stats", admin, "")
	stats := decode[posts.Stats](t, rec)
	if stats.TotalPosts != 3 || stats.UniqueAuthors != 3 || stats.UniqueTags != 7 {
		t.Errorf("stats %+v", stats)
	}

	user := env.signIn(t, "writer@example.com", "pw")
	rec = env.do(http.MethodGet, "/admin/stats", user, "")
	expectError(t, rec, http.StatusForbidden, "FORBIDDEN")
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Health: status %d", rec.Code)
	}
	body := decode[healthResponse](t, rec)
	if body.Status != "healthy" || body.Checks["mirror"] != "ok" || body.Checks["rabbitmq"] != "skipped" {
		t.Errorf("got %+v", body)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/posts/missing", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "req-123" {
		t.Errorf("header %q", got)
	}
	apiErr := expectError(t, rec, http.StatusNotFound, "NOT_FOUND")
	if apiErr.RequestID != "req-123" {
		t.Errorf("request_id %q", apiErr.RequestID)
	}
}
