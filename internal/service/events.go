package service

import (
	"context"
	"time"

	"github.com/iliyamo/movie-news/internal/queue"
	"github.com/iliyamo/movie-news/internal/security"
)

// EventPublisher announces committed mutations.  *queue.Publisher is the
// production implementation.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.EntityChangedEvent) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, queue.EntityChangedEvent) error { return nil }

const publishTimeout = 3 * time.Second

// publish runs after commit.  A failure is logged and otherwise ignored:
// the mutation has already happened and must be reported as such.
func (r *Resource[E, D]) publish(ctx context.Context, action string, id uint64) {
	login, _ := security.CurrentLogin(ctx)
	ev := queue.NewEntityChangedEvent(r.kind.Name, action, id, login)
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := r.events.Publish(pctx, ev); err != nil {
		r.log.Warn().Err(err).Str("action", action).Uint64("id", id).Msg("event not published")
	}
}
