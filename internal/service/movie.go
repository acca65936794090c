package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-news/internal/association"
	"github.com/iliyamo/movie-news/internal/dto"
	"github.com/iliyamo/movie-news/internal/mapper"
	"github.com/iliyamo/movie-news/internal/model"
	"github.com/iliyamo/movie-news/internal/queue"
	"github.com/iliyamo/movie-news/internal/repository"
)

// MovieService orchestrates movies and their derived twitter collection.
type MovieService struct {
	*Resource[model.Movie, dto.Movie]
}

// NewMovieService wires the movie orchestrator.  events may be nil.
func NewMovieService(store repository.Store, events EventPublisher, log zerolog.Logger) *MovieService {
	kind := Kind[model.Movie, dto.Movie]{
		Name:     "movie",
		Repo:     func(s repository.Store) repository.Repository[model.Movie] { return s.Movies() },
		ToDTO:    mapper.MovieToDTO,
		ToEntity: mapper.MovieToEntity,
		Merge:    mapper.MergeMovie,
		ID:       func(d dto.Movie) *uint64 { return d.ID },
		References: func(ctx context.Context, tx repository.Store, m *model.Movie) error {
			if m.User == nil {
				return nil
			}
			return exists(ctx, tx.Users().ExistsByID, "user", m.User.ID)
		},
		BeforeDelete: detachTwitters,
	}
	return &MovieService{Resource: newResource(kind, store, events, log)}
}

// detachTwitters clears the movie reference of every post attached to the
// movie about to be deleted.
func detachTwitters(ctx context.Context, tx repository.Store, id uint64) error {
	m, err := loadWithTwitters(ctx, tx, id)
	if err != nil {
		return err
	}
	for _, p := range association.DetachAll(m) {
		if _, err := tx.Twitters().Save(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// loadWithTwitters reads a movie and derives its twitter collection from
// the posts that reference it.
func loadWithTwitters(ctx context.Context, s repository.Store, id uint64) (*model.Movie, error) {
	m, err := s.Movies().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	posts, err := s.Twitters().FindByMovieID(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		association.Attach(m, p)
	}
	return m, nil
}

// Twitters returns the posts attached to the movie, ordered by ID.
func (s *MovieService) Twitters(ctx context.Context, id uint64) ([]dto.Twitter, error) {
	s.log.Debug().Uint64("id", id).Msg("request to get twitters")
	m, err := loadWithTwitters(ctx, s.store, id)
	if err != nil {
		return nil, classify(err)
	}
	return twitterDTOs(m.Twitters), nil
}

// SetTwitters replaces the movie's twitter collection with the posts
// identified by postIDs.  Posts dropped from the collection lose their
// movie reference; posts attached to another movie are moved.  Every
// identifier must name an existing post.
func (s *MovieService) SetTwitters(ctx context.Context, id uint64, postIDs []uint64) ([]dto.Twitter, error) {
	s.log.Debug().Uint64("id", id).Int("posts", len(postIDs)).Msg("request to replace twitters")
	var m *model.Movie
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		var err error
		m, err = loadWithTwitters(ctx, tx, id)
		if err != nil {
			return err
		}
		posts := make([]*model.Twitter, 0, len(postIDs))
		seen := make(map[uint64]bool, len(postIDs))
		for _, pid := range postIDs {
			if seen[pid] {
				continue
			}
			seen[pid] = true
			p, err := tx.Twitters().FindByID(ctx, pid)
			if errors.Is(err, repository.ErrNotFound) {
				return &model.ValidationError{Field: "twitters", Message: fmt.Sprintf("references missing record %d", pid)}
			}
			if err != nil {
				return err
			}
			posts = append(posts, p)
		}
		for _, p := range association.ReplaceTwitters(m, posts) {
			if _, err := tx.Twitters().Save(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	s.publish(ctx, queue.ActionTwittersReplaced, id)
	return twitterDTOs(m.Twitters), nil
}

func twitterDTOs(posts []*model.Twitter) []dto.Twitter {
	sorted := slices.Clone(posts)
	slices.SortFunc(sorted, func(a, b *model.Twitter) int { return cmp.Compare(a.ID, b.ID) })
	out := make([]dto.Twitter, 0, len(sorted))
	for _, p := range sorted {
		out = append(out, mapper.TwitterToDTO(p))
	}
	return out
}
