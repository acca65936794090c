package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-news/internal/dto"
	"github.com/iliyamo/movie-news/internal/mapper"
	"github.com/iliyamo/movie-news/internal/model"
	"github.com/iliyamo/movie-news/internal/repository"
)

// TwitterService orchestrates twitter posts.  A post's movie reference is
// the owning side of the association, so it is written here directly.
type TwitterService struct {
	*Resource[model.Twitter, dto.Twitter]
}

// NewTwitterService wires the twitter orchestrator.  events may be nil.
func NewTwitterService(store repository.Store, events EventPublisher, log zerolog.Logger) *TwitterService {
	kind := Kind[model.Twitter, dto.Twitter]{
		Name:     "twitter",
		Repo:     func(s repository.Store) repository.Repository[model.Twitter] { return s.Twitters() },
		ToDTO:    mapper.TwitterToDTO,
		ToEntity: mapper.TwitterToEntity,
		Merge:    mapper.MergeTwitter,
		ID:       func(d dto.Twitter) *uint64 { return d.ID },
		References: func(ctx context.Context, tx repository.Store, t *model.Twitter) error {
			if t.Movie == nil {
				return nil
			}
			return exists(ctx, tx.Movies().ExistsByID, "movie", t.Movie.ID)
		},
	}
	return &TwitterService{Resource: newResource(kind, store, events, log)}
}
