package events

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	TypePostCreated = "post.created"
	TypePostUpdated = "post.updated"
	TypePostDeleted = "post.deleted"
)

type PostPayload struct {
	PostID   string `json:"post_id"`
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	AuthorID string `json:"author_id,omitempty"`
}

type PostEvent struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   PostPayload `json:"payload"`
}

func NewPostEvent(typ, postID, slug, title, authorID string) PostEvent {
	return PostEvent{
		Type:      typ,
		Timestamp: time.Now().UTC(),
		Payload: PostPayload{
			PostID:   postID,
			Slug:     slug,
			Title:    title,
			AuthorID: authorID,
		},
	}
}

// Decode parses a delivery body and rejects unknown event types.
func Decode(body []byte) (PostEvent, error) {
	var e PostEvent
	if err := json.Unmarshal(body, &e); err != nil {
		return PostEvent{}, fmt.Errorf("decode event: %w", err)
	}
	switch e.Type {
	case TypePostCreated, TypePostUpdated, TypePostDeleted:
		return e, nil
	}
	return PostEvent{}, fmt.Errorf("unknown event type %q", e.Type)
}
