// Package progress pushes project state changes to live viewers over redis
// pub/sub. Every store mutation publishes a full snapshot; subscribers render
// whatever arrives, so there is no polling and no client-side merge logic.
package progress

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"studyforge/internal/app/model"
)

const channelPrefix = "studyforge:project:"

// Publisher broadcasts project snapshots. Publishing is best effort: a failed
// publish is logged, never surfaced, because the database write has already
// succeeded and the next mutation will carry the state forward.
type Publisher struct {
	rdb    *redis.Client
	logger *slog.Logger
}

// NewPublisher creates a progress publisher.
func NewPublisher(rdb *redis.Client, logger *slog.Logger) *Publisher {
	return &Publisher{rdb: rdb, logger: logger}
}

// Publish sends the current snapshot to every subscriber of the project.
func (p *Publisher) Publish(ctx context.Context, project *model.Project) {
	payload, err := json.Marshal(project)
	if err != nil {
		p.logger.Error("failed to encode project snapshot",
			"project_id", project.ID, "error", err)
		return
	}
	if err := p.rdb.Publish(ctx, channelPrefix+project.ID, payload).Err(); err != nil {
		p.logger.Warn("failed to publish project snapshot",
			"project_id", project.ID, "error", err)
	}
}

// Subscriber delivers snapshots for one project until the context ends.
type Subscriber struct {
	rdb *redis.Client
}

// NewSubscriber creates a progress subscriber.
func NewSubscriber(rdb *redis.Client) *Subscriber {
	return &Subscriber{rdb: rdb}
}

// Watch subscribes to a project's snapshot stream. The returned channel closes
// when ctx is done or the subscription drops.
func (s *Subscriber) Watch(ctx context.Context, projectID string) <-chan model.Project {
	sub := s.rdb.Subscribe(ctx, channelPrefix+projectID)
	out := make(chan model.Project)

	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var snapshot model.Project
				if err := json.Unmarshal([]byte(msg.Payload), &snapshot); err != nil {
					continue
				}
				select {
				case out <- snapshot:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
