package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-news/internal/dto"
	"github.com/iliyamo/movie-news/internal/model"
	"github.com/iliyamo/movie-news/internal/pagination"
	"github.com/iliyamo/movie-news/internal/queue"
	"github.com/iliyamo/movie-news/internal/repository"
	"github.com/iliyamo/movie-news/internal/repository/memory"
	"github.com/iliyamo/movie-news/internal/security"
)

func str(s string) *string { return &s }
func id(n uint64) *uint64  { return &n }
func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

// recorder collects published events.
type recorder struct {
	mu     sync.Mutex
	events []queue.EntityChangedEvent
	err    error
}

func (r *recorder) Publish(_ context.Context, ev queue.EntityChangedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *recorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Entity+"."+ev.Action)
	}
	return out
}

func countMovies(t *testing.T, s repository.Store) int64 {
	t.Helper()
	page, err := s.Movies().FindAll(context.Background(), pagination.Request{Size: 100}, repository.Filter{})
	require.NoError(t, err)
	return page.TotalElements
}

func TestMovie_CreateUpdatePatch(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewMovieService(store, nil, zerolog.Nop())

	created, err := svc.Create(ctx, dto.Movie{Name: str("Inception"), Director: str("Nolan")})
	require.NoError(t, err)
	require.NotNil(t, created.ID)
	assert.Equal(t, "Inception", *created.Name)
	assert.Equal(t, "Nolan", *created.Director)

	mid := *created.ID
	updated, err := svc.Update(ctx, mid, dto.Movie{ID: id(mid), Name: str("Inception 2")})
	require.NoError(t, err)
	assert.Equal(t, "Inception 2", *updated.Name)
	assert.Nil(t, updated.Director, "full update clears fields the body leaves out")

	patched, err := svc.Patch(ctx, mid, dto.Movie{ID: id(mid), Director: str("C. Nolan")})
	require.NoError(t, err)
	assert.Equal(t, "Inception 2", *patched.Name, "patch keeps fields the body leaves out")
	assert.Equal(t, "C. Nolan", *patched.Director)

	got, err := svc.Get(ctx, mid)
	require.NoError(t, err)
	assert.Equal(t, patched, got)
}

func TestMovie_FullVersusPartialUpdate(t *testing.T) {
	ctx := context.Background()
	start := date("2010-07-16")

	seed := func() (*MovieService, uint64) {
		svc := NewMovieService(memory.New(), nil, zerolog.Nop())
		m, err := svc.Create(ctx, dto.Movie{
			Name:      str("Inception"),
			Synopsis:  str("dreams"),
			Comment:   str("great"),
			StartDate: start,
		})
		require.NoError(t, err)
		return svc, *m.ID
	}

	svc, mid := seed()
	full, err := svc.Update(ctx, mid, dto.Movie{ID: id(mid), Name: str("X")})
	require.NoError(t, err)
	assert.Nil(t, full.Synopsis)
	assert.Nil(t, full.Comment)
	assert.Nil(t, full.StartDate)

	svc, mid = seed()
	part, err := svc.Patch(ctx, mid, dto.Movie{ID: id(mid), Name: str("X")})
	require.NoError(t, err)
	assert.Equal(t, "X", *part.Name)
	assert.Equal(t, "dreams", *part.Synopsis)
	assert.Equal(t, "great", *part.Comment)
	assert.True(t, start.Equal(*part.StartDate))
}

func TestMovie_CreateWithIDRejected(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewMovieService(store, nil, zerolog.Nop())

	_, err := svc.Create(ctx, dto.Movie{ID: id(7), Name: str("Inception")})
	assert.ErrorIs(t, err, ErrIDAlreadyExists)
	assert.EqualValues(t, 0, countMovies(t, store))
}

func TestMovie_CreateValidation(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewMovieService(store, nil, zerolog.Nop())

	cases := map[string]dto.Movie{
		"missing name":  {},
		"empty name":    {Name: str("")},
		"image only":    {Name: str("a"), Image: []byte{1}},
		"type only":     {Name: str("a"), ImageContentType: str("image/png")},
		"unknown owner": {Name: str("a"), User: &dto.User{ID: id(42)}},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(ctx, body)
			assert.ErrorIs(t, err, ErrValidationFailed)
		})
	}
	assert.EqualValues(t, 0, countMovies(t, store))
}

func TestMovie_ImageRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := NewMovieService(memory.New(), nil, zerolog.Nop())

	m, err := svc.Create(ctx, dto.Movie{Name: str("a"), Image: []byte{0x89, 'P'}, ImageContentType: str("image/png")})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P'}, m.Image)
	assert.Equal(t, "image/png", *m.ImageContentType)

	_, err = svc.Patch(ctx, *m.ID, dto.Movie{ID: m.ID, Image: []byte{1}})
	assert.ErrorIs(t, err, ErrValidationFailed, "half an image pair is rejected on patch too")

	got, err := svc.Get(ctx, *m.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P'}, got.Image)
}

func TestResource_IdentityChecks(t *testing.T) {
	ctx := context.Background()
	svc := NewMovieService(memory.New(), nil, zerolog.Nop())
	m, err := svc.Create(ctx, dto.Movie{Name: str("a")})
	require.NoError(t, err)
	mid := *m.ID

	tests := []struct {
		name   string
		pathID uint64
		body   dto.Movie
		want   error
	}{
		{"no id", mid, dto.Movie{Name: str("b")}, ErrIDNull},
		{"mismatch", mid, dto.Movie{ID: id(mid + 1), Name: str("b")}, ErrIDInvalid},
		{"absent", 999, dto.Movie{ID: id(999), Name: str("b")}, ErrIDNotFound},
		{"invalid body", mid, dto.Movie{ID: id(mid), Name: str("")}, ErrValidationFailed},
	}
	for _, tt := range tests {
		t.Run("update/"+tt.name, func(t *testing.T) {
			_, err := svc.Update(ctx, tt.pathID, tt.body)
			assert.ErrorIs(t, err, tt.want)
		})
		t.Run("patch/"+tt.name, func(t *testing.T) {
			_, err := svc.Patch(ctx, tt.pathID, tt.body)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	got, err := svc.Get(ctx, mid)
	require.NoError(t, err)
	assert.Equal(t, "a", *got.Name, "failed checks leave the record untouched")
}

func TestResource_ValidationBeforeExistence(t *testing.T) {
	svc := NewMovieService(memory.New(), nil, zerolog.Nop())
	_, err := svc.Update(context.Background(), 999, dto.Movie{ID: id(999)})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestTwitter_EmptyContentRejected(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewTwitterService(store, nil, zerolog.Nop())

	_, err := svc.Create(ctx, dto.Twitter{Content: str("")})
	assert.ErrorIs(t, err, ErrValidationFailed)

	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "content", verr.Field)

	page, err := svc.List(ctx, pagination.Request{}, repository.Filter{})
	require.NoError(t, err)
	assert.Empty(t, page.Content)
}

func TestTwitter_MovieReference(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	movies := NewMovieService(store, nil, zerolog.Nop())
	posts := NewTwitterService(store, nil, zerolog.Nop())

	m, err := movies.Create(ctx, dto.Movie{Name: str("a")})
	require.NoError(t, err)

	p, err := posts.Create(ctx, dto.Twitter{Content: str("hi"), Movie: &dto.Movie{ID: m.ID}})
	require.NoError(t, err)
	require.NotNil(t, p.Movie)
	assert.Equal(t, *m.ID, *p.Movie.ID)
	assert.Nil(t, p.Movie.Name, "embedded movie is narrowed to its id")

	list, err := movies.Twitters(ctx, *m.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, *p.ID, *list[0].ID)

	_, err = posts.Create(ctx, dto.Twitter{Content: str("x"), Movie: &dto.Movie{ID: id(999)}})
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "movie", verr.Field)
}

func TestResource_GetMissing(t *testing.T) {
	svc := NewNewsService(memory.New(), nil, zerolog.Nop())
	_, err := svc.Get(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResource_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	svc := NewNewsService(memory.New(), rec, zerolog.Nop())

	require.NoError(t, svc.Delete(ctx, 999))
	assert.Empty(t, rec.actions(), "nothing deleted, nothing announced")

	n, err := svc.Create(ctx, dto.News{Headerline: str("h"), URL: str("u")})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, *n.ID))
	require.NoError(t, svc.Delete(ctx, *n.ID))

	_, err = svc.Get(ctx, *n.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []string{"news.created", "news.deleted"}, rec.actions())
}

// racingStore deletes a movie right after its existence pre-check, as a
// concurrent DELETE would.
type racingStore struct {
	*memory.Store
}

func (s racingStore) Movies() repository.Repository[model.Movie] {
	return racingMovies{Repository: s.Store.Movies(), store: s.Store}
}

type racingMovies struct {
	repository.Repository[model.Movie]
	store *memory.Store
}

func (r racingMovies) ExistsByID(ctx context.Context, id uint64) (bool, error) {
	ok, err := r.Repository.ExistsByID(ctx, id)
	if ok {
		if err := r.store.Movies().DeleteByID(ctx, id); err != nil {
			return false, err
		}
	}
	return ok, err
}

func TestPatch_DeletedAfterPrecheck(t *testing.T) {
	ctx := context.Background()
	base := memory.New()
	m, err := base.Movies().Save(ctx, &model.Movie{Name: "Inception"})
	require.NoError(t, err)

	svc := NewMovieService(racingStore{base}, nil, zerolog.Nop())
	_, err = svc.Patch(ctx, m.ID, dto.Movie{ID: id(m.ID), Name: str("Inception 2")})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = base.Movies().FindByID(ctx, m.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound, "the deleted movie must not be recreated")
	assert.EqualValues(t, 0, countMovies(t, base))
}

func TestUpdate_DeletedAfterPrecheck(t *testing.T) {
	ctx := context.Background()
	base := memory.New()
	m, err := base.Movies().Save(ctx, &model.Movie{Name: "Inception"})
	require.NoError(t, err)

	events := &recorder{}
	svc := NewMovieService(racingStore{base}, events, zerolog.Nop())
	_, err = svc.Update(ctx, m.ID, dto.Movie{ID: id(m.ID), Name: str("Inception 2")})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = base.Movies().FindByID(ctx, m.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound, "a full update must not recreate the deleted movie")
	assert.EqualValues(t, 0, countMovies(t, base))
	assert.Empty(t, events.events, "nothing committed, nothing published")
}

func TestResource_ListOwnerFilter(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	alice := &model.User{Login: "alice", Email: "a@x.io"}
	require.NoError(t, store.Users().Create(ctx, alice))
	bob := &model.User{Login: "bob", Email: "b@x.io"}
	require.NoError(t, store.Users().Create(ctx, bob))

	svc := NewNewsService(store, nil, zerolog.Nop())
	for i, owner := range []*model.User{alice, bob, alice} {
		_, err := svc.Create(ctx, dto.News{
			Headerline: str(string(rune('a' + i))),
			URL:        str("u"),
			User:       &dto.User{ID: id(owner.ID)},
		})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, pagination.Request{Size: 10}, repository.Filter{OwnerLogin: "alice"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.TotalElements)
	for _, n := range page.Content {
		assert.Equal(t, "alice", n.User.Login)
	}

	page, err = svc.List(ctx, pagination.Request{Size: 2, Sort: []pagination.Order{{Property: "headerline", Desc: true}}}, repository.Filter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "c", *page.Content[0].Headerline)
	assert.Equal(t, "b", *page.Content[1].Headerline)
}

func TestResource_PublishesAfterCommit(t *testing.T) {
	ctx := security.WithLogin(context.Background(), "alice")
	rec := &recorder{err: errors.New("broker down")}
	svc := NewTwitterService(memory.New(), rec, zerolog.Nop())

	p, err := svc.Create(ctx, dto.Twitter{Content: str("hi")})
	require.NoError(t, err, "a failing broker does not fail the mutation")
	_, err = svc.Patch(ctx, *p.ID, dto.Twitter{ID: p.ID, Publisher: str("me")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, dto.Twitter{Content: str("")})
	require.Error(t, err)

	assert.Equal(t, []string{"twitter.created", "twitter.updated"}, rec.actions())
	for _, ev := range rec.events {
		assert.Equal(t, *p.ID, ev.ID)
		assert.Equal(t, "alice", ev.Login)
	}
}

// failingStore makes every transaction fail as a lost connection would.
type failingStore struct {
	*memory.Store
}

func (failingStore) InTx(context.Context, func(repository.Store) error) error {
	return errors.New("connection refused")
}

func TestResource_StoreFailure(t *testing.T) {
	svc := NewNewsService(failingStore{memory.New()}, nil, zerolog.Nop())
	_, err := svc.Create(context.Background(), dto.News{Headerline: str("h"), URL: str("u")})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorContains(t, err, "connection refused")
}
