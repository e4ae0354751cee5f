package posts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/VanshikaSalekar/DevBlog/internal/storage"
)

type mockStorage struct {
	upload   func(ctx context.Context, key string, body []byte, contentType string) error
	download func(ctx context.Context, key string) ([]byte, error)
}

func (m *mockStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if m.upload != nil {
		return m.upload(ctx, key, data, contentType)
	}
	return nil
}

func (m *mockStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if m.download != nil {
		data, err := m.download(ctx, key)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	return nil, storage.ErrNotFound
}

func (m *mockStorage) Delete(context.Context, string) error { return nil }

func (m *mockStorage) Exists(context.Context, string) (bool, error) { return false, nil }

func TestBlobMirror_LoadMissing(t *testing.T) {
	posts, err := NewBlobMirror(&mockStorage{}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("got %d posts", len(posts))
	}
}

func TestBlobMirror_LoadEmptyDocument(t *testing.T) {
	st := &mockStorage{download: func(context.Context, string) ([]byte, error) { return []byte("  "), nil }}
	posts, err := NewBlobMirror(st).Load(context.Background())
	if err != nil || len(posts) != 0 {
		t.Errorf("got %v, %v", posts, err)
	}
}

func TestBlobMirror_LoadDownloadError(t *testing.T) {
	st := &mockStorage{download: func(context.Context, string) ([]byte, error) { return nil, errors.New("boom") }}
	if _, err := NewBlobMirror(st).Load(context.Background()); err == nil {
		t.Error("expected error")
	}
}

func TestBlobMirror_SaveFormat(t *testing.T) {
	var gotKey, gotType string
	var gotBody []byte
	st := &mockStorage{upload: func(_ context.Context, key string, body []byte, contentType string) error {
		gotKey, gotBody, gotType = key, body, contentType
		return nil
	}}
	created := time.Date(2024, time.May, 4, 10, 30, 0, 123000000, time.UTC)
	err := NewBlobMirror(st).Save(context.Background(), []*Post{{
		ID:            "post-1",
		Title:         "T",
		Slug:          "t",
		ContentMD:     "body",
		CoverImageURL: "https://example.com/c.png",
		Tags:          []string{"Go"},
		CreatedAt:     created,
		UpdatedAt:     created,
		User:          Author{ID: "u1", DisplayName: "U", Email: "u@example.com", AvatarURL: "https://example.com/u.png"},
	}})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if gotKey != MirrorKey || gotType != "application/json" {
		t.Errorf("key=%q contentType=%q", gotKey, gotType)
	}

	var raw []map[string]any
	if err := json.Unmarshal(gotBody, &raw); err != nil {
		t.Fatalf("mirror is not a JSON array: %v", err)
	}
	if len(raw) != 1 {
		t.Fatalf("got %d records", len(raw))
	}
	for _, field := range []string{"id", "title", "slug", "content_md", "cover_image_url", "tags", "created_at", "updated_at", "user"} {
		if _, ok := raw[0][field]; !ok {
			t.Errorf("missing field %q", field)
		}
	}
	if raw[0]["created_at"] != "2024-05-04T10:30:00.123Z" {
		t.Errorf("created_at = %v", raw[0]["created_at"])
	}
	user := raw[0]["user"].(map[string]any)
	if user["display_name"] != "U" || user["avatar_url"] != "https://example.com/u.png" {
		t.Errorf("user = %v", user)
	}
}

func TestBlobMirror_SaveEmptyWritesArray(t *testing.T) {
	var gotBody []byte
	st := &mockStorage{upload: func(_ context.Context, _ string, body []byte, _ string) error {
		gotBody = body
		return nil
	}}
	if err := NewBlobMirror(st).Save(context.Background(), nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if string(gotBody) != "[]" {
		t.Errorf("got %q", gotBody)
	}
}

func TestBlobMirror_StoreWriteFailure(t *testing.T) {
	st := &mockStorage{upload: func(context.Context, string, []byte, string) error {
		return errors.New("disk full")
	}}
	s := openStore(t, NewBlobMirror(st))
	_, err := s.Create(context.Background(), draft("T"))
	var se *StorageError
	if !errors.As(err, &se) || se.Op != "write" {
		t.Fatalf("got err %v", err)
	}
}
