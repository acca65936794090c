package repository

import (
	"context"

	"github.com/iliyamo/movie-news/internal/model"
	"github.com/iliyamo/movie-news/internal/pagination"
)

// Filter narrows a listing.  The zero value lists everything.
type Filter struct {
	// OwnerLogin restricts the listing to records owned by this login.
	OwnerLogin string
}

// Repository is the Entity Store contract for one entity type.
type Repository[E any] interface {
	// Save inserts e when its identifier is zero and overwrites the stored
	// row otherwise.  It returns the record as stored.
	Save(ctx context.Context, e *E) (*E, error)
	// FindByID returns ErrNotFound when no row matches.  Inside a
	// transaction the row stays locked until commit.
	FindByID(ctx context.Context, id uint64) (*E, error)
	FindAll(ctx context.Context, req pagination.Request, f Filter) (pagination.Page[*E], error)
	ExistsByID(ctx context.Context, id uint64) (bool, error)
	// DeleteByID is idempotent: deleting a missing row is not an error.
	DeleteByID(ctx context.Context, id uint64) error
}

// TwitterRepository adds the lookup that derives Movie.Twitters.
type TwitterRepository interface {
	Repository[model.Twitter]
	FindByMovieID(ctx context.Context, movieID uint64) ([]*model.Twitter, error)
}

// UserRepository is the read-mostly user directory.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	GetByLogin(ctx context.Context, login string) (*model.User, error)
	ExistsByID(ctx context.Context, id uint64) (bool, error)
}

// Store groups the repositories and owns the transaction boundary.
type Store interface {
	Movies() Repository[model.Movie]
	News() Repository[model.News]
	Twitters() TwitterRepository
	Users() UserRepository
	// InTx runs fn in one unit of work: every mutation made through the
	// Store passed to fn is committed when fn returns nil and discarded
	// otherwise.
	InTx(ctx context.Context, fn func(Store) error) error
}

// Sortable properties per entity, as exposed to clients.
var (
	MovieSortKeys   = []string{"id", "name", "director", "startDate"}
	NewsSortKeys    = []string{"id", "headerline", "url", "pubDate"}
	TwitterSortKeys = []string{"id", "content", "pubDate", "publisher"}
)
