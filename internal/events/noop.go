package events

import "context"

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, PostEvent) error {
	return nil
}

var _ Publisher = (*NoopPublisher)(nil)
