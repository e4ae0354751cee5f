package posts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/VanshikaSalekar/DevBlog/internal/storage"
)

// MirrorKey is the key the stored subset is written under.
const MirrorKey = "userCreatedPosts"

// Mirror is the durable copy of the user-created posts.
type Mirror interface {
	Load(ctx context.Context) ([]*Post, error)
	Save(ctx context.Context, posts []*Post) error
}

var _ Mirror = (*BlobMirror)(nil)

// BlobMirror keeps the stored subset as a single JSON document in a
// storage.Storage backend.
type BlobMirror struct {
	st  storage.Storage
	key string
}

func NewBlobMirror(st storage.Storage) *BlobMirror {
	return &BlobMirror{st: st, key: MirrorKey}
}

// Load returns the stored posts. A missing document is an empty mirror.
func (m *BlobMirror) Load(ctx context.Context) ([]*Post, error) {
	rc, err := m.st.Download(ctx, m.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("download %s: %w", m.key, err)
	}
	defer rc.Close()

	body, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", m.key, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var posts []*Post
	if err := json.Unmarshal(body, &posts); err != nil {
		return nil, fmt.Errorf("decode %s: %w", m.key, err)
	}
	return posts, nil
}

func (m *BlobMirror) Save(ctx context.Context, posts []*Post) error {
	if posts == nil {
		posts = []*Post{}
	}
	body, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("encode %s: %w", m.key, err)
	}
	if err := m.st.Upload(ctx, m.key, bytes.NewReader(body), "application/json"); err != nil {
		return fmt.Errorf("upload %s: %w", m.key, err)
	}
	return nil
}
