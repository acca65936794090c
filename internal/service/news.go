package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-news/internal/dto"
	"github.com/iliyamo/movie-news/internal/mapper"
	"github.com/iliyamo/movie-news/internal/model"
	"github.com/iliyamo/movie-news/internal/repository"
)

// NewsService orchestrates news items.
type NewsService struct {
	*Resource[model.News, dto.News]
}

// NewNewsService wires the news orchestrator.  events may be nil.
func NewNewsService(store repository.Store, events EventPublisher, log zerolog.Logger) *NewsService {
	kind := Kind[model.News, dto.News]{
		Name:     "news",
		Repo:     func(s repository.Store) repository.Repository[model.News] { return s.News() },
		ToDTO:    mapper.NewsToDTO,
		ToEntity: mapper.NewsToEntity,
		Merge:    mapper.MergeNews,
		ID:       func(d dto.News) *uint64 { return d.ID },
		References: func(ctx context.Context, tx repository.Store, n *model.News) error {
			if n.User == nil {
				return nil
			}
			return exists(ctx, tx.Users().ExistsByID, "user", n.User.ID)
		},
	}
	return &NewsService{Resource: newResource(kind, store, events, log)}
}
