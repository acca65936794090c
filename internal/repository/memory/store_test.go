package memory

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-news/internal/model"
	"github.com/iliyamo/movie-news/internal/pagination"
	"github.com/iliyamo/movie-news/internal/repository"
)

func sp(s string) *string { return &s }

func TestSave_AssignsIDsAndClones(t *testing.T) {
	ctx := context.Background()
	s := New()

	in := &model.Movie{Name: "Inception", Director: sp("Nolan")}
	saved, err := s.Movies().Save(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), saved.ID)
	assert.Zero(t, in.ID, "the argument is not modified")

	*saved.Director = "someone else"
	got, err := s.Movies().FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nolan", *got.Director, "returned values never alias stored rows")

	second, err := s.Movies().Save(ctx, &model.Movie{Name: "Tenet"})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), second.ID)
}

func TestSave_MissingRowIsNotRecreated(t *testing.T) {
	ctx := context.Background()
	s := New()
	m, err := s.Movies().Save(ctx, &model.Movie{Name: "a"})
	require.NoError(t, err)
	require.NoError(t, s.Movies().DeleteByID(ctx, m.ID))

	_, err = s.Movies().Save(ctx, m)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	ok, err := s.Movies().ExistsByID(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDelete_Idempotent(t *testing.T) {
	s := New()
	assert.NoError(t, s.News().DeleteByID(context.Background(), 42))
}

func TestInTx_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("boom")

	err := s.InTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Movies().Save(ctx, &model.Movie{Name: "a"}); err != nil {
			return err
		}
		ok, err := tx.Movies().ExistsByID(ctx, 1)
		require.NoError(t, err)
		assert.True(t, ok, "writes are visible inside the transaction")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	ok, err := s.Movies().ExistsByID(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInTx_RollbackRestoresTouchedRows(t *testing.T) {
	ctx := context.Background()
	s := New()
	keep, err := s.Movies().Save(ctx, &model.Movie{Name: "keep"})
	require.NoError(t, err)
	gone, err := s.Movies().Save(ctx, &model.Movie{Name: "gone"})
	require.NoError(t, err)
	post, err := s.Twitters().Save(ctx, &model.Twitter{Content: "hi", Movie: &model.Movie{ID: keep.ID}})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.InTx(ctx, func(tx repository.Store) error {
		keep.Name = "renamed"
		if _, err := tx.Movies().Save(ctx, keep); err != nil {
			return err
		}
		keep.Name = "renamed twice"
		if _, err := tx.Movies().Save(ctx, keep); err != nil {
			return err
		}
		if err := tx.Movies().DeleteByID(ctx, gone.ID); err != nil {
			return err
		}
		if _, err := tx.Twitters().Save(ctx, &model.Twitter{ID: post.ID, Content: "hi"}); err != nil {
			return err
		}
		if _, err := tx.Movies().Save(ctx, &model.Movie{Name: "new"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Movies().FindByID(ctx, keep.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep", got.Name)
	_, err = s.Movies().FindByID(ctx, gone.ID)
	assert.NoError(t, err, "deleted row is restored")
	p, err := s.Twitters().FindByID(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, p.Movie)
	assert.Equal(t, keep.ID, p.Movie.ID)

	next, err := s.Movies().Save(ctx, &model.Movie{Name: "after"})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), next.ID, "identifiers handed out by the aborted transaction are reused")
}

func TestInTx_RollbackOnPanic(t *testing.T) {
	ctx := context.Background()
	s := New()
	assert.Panics(t, func() {
		_ = s.InTx(ctx, func(tx repository.Store) error {
			if _, err := tx.News().Save(ctx, &model.News{Headerline: "h", URL: "u"}); err != nil {
				return err
			}
			panic("boom")
		})
	})

	ok, err := s.News().ExistsByID(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	// the lock was released and the store still works
	n, err := s.News().Save(ctx, &model.News{Headerline: "h", URL: "u"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n.ID)
}

func TestInTx_Commit(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.InTx(ctx, func(tx repository.Store) error {
		m, err := tx.Movies().Save(ctx, &model.Movie{Name: "a"})
		if err != nil {
			return err
		}
		// nested transactions join the outer one
		return tx.InTx(ctx, func(inner repository.Store) error {
			_, err := inner.Twitters().Save(ctx, &model.Twitter{Content: "hi", Movie: &model.Movie{ID: m.ID}})
			return err
		})
	})
	require.NoError(t, err)

	posts, err := s.Twitters().FindByMovieID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "hi", posts[0].Content)
}

func TestInTx_CancelledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	err := s.InTx(ctx, func(tx repository.Store) error {
		if _, err := tx.News().Save(ctx, &model.News{Headerline: "h", URL: "u"}); err != nil {
			return err
		}
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	ok, err := s.News().ExistsByID(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFindAll_SortAndPage(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, d := range []struct {
		name     string
		director *string
	}{{"c", sp("x")}, {"a", nil}, {"b", sp("x")}, {"d", sp("a")}} {
		_, err := s.Movies().Save(ctx, &model.Movie{Name: d.name, Director: d.director})
		require.NoError(t, err)
	}

	names := func(p pagination.Page[*model.Movie]) []string {
		out := make([]string, 0, len(p.Content))
		for _, m := range p.Content {
			out = append(out, m.Name)
		}
		return out
	}

	page, err := s.Movies().FindAll(ctx, pagination.Request{Size: 10}, repository.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b", "d"}, names(page), "id order by default")

	page, err = s.Movies().FindAll(ctx, pagination.Request{Size: 10, Sort: []pagination.Order{{Property: "director"}}}, repository.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "d", "c", "b"}, names(page), "NULL first, ties broken by id")

	page, err = s.Movies().FindAll(ctx, pagination.Request{Page: 1, Size: 3, Sort: []pagination.Order{{Property: "name", Desc: true}}}, repository.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, names(page))
	assert.EqualValues(t, 4, page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)

	page, err = s.Movies().FindAll(ctx, pagination.Request{Page: 5, Size: 3}, repository.Filter{})
	require.NoError(t, err)
	assert.Empty(t, page.Content)
}

func TestFindAll_PageBeyondRange(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, err := s.Movies().Save(ctx, &model.Movie{Name: "only"})
	require.NoError(t, err)

	for _, req := range []pagination.Request{
		{Page: 922337203685477580, Size: 20},
		{Page: math.MaxInt, Size: pagination.MaxSize},
		{Page: -3, Size: 20},
	} {
		var page pagination.Page[*model.Movie]
		require.NotPanics(t, func() {
			page, err = s.Movies().FindAll(ctx, req, repository.Filter{})
		}, "page=%d size=%d", req.Page, req.Size)
		require.NoError(t, err)
		assert.EqualValues(t, 1, page.TotalElements)
		if req.Page > 0 {
			assert.Empty(t, page.Content, "page=%d", req.Page)
		}
	}
}

func TestFindAll_OwnerFilter(t *testing.T) {
	ctx := context.Background()
	s := New()
	alice := &model.User{Login: "Alice", Email: "a@x.io"}
	require.NoError(t, s.Users().Create(ctx, alice))
	assert.Equal(t, "alice", alice.Login)

	_, err := s.News().Save(ctx, &model.News{Headerline: "mine", URL: "u", User: &model.User{ID: alice.ID}})
	require.NoError(t, err)
	_, err = s.News().Save(ctx, &model.News{Headerline: "nobody's", URL: "u"})
	require.NoError(t, err)

	page, err := s.News().FindAll(ctx, pagination.Request{}, repository.Filter{OwnerLogin: "alice"})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "mine", page.Content[0].Headerline)
	assert.Equal(t, "alice", page.Content[0].User.Login, "owner login is resolved on read")
	assert.Equal(t, pagination.DefaultSize, page.Size)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return now }

	u := &model.User{Login: "bob", Email: "Bob@X.io", PasswordHash: "h"}
	require.NoError(t, s.Users().Create(ctx, u))
	assert.Equal(t, model.RoleUser, u.Role)
	assert.Equal(t, now, u.CreatedAt)
	assert.Equal(t, "bob@x.io", u.Email)

	err := s.Users().Create(ctx, &model.User{Login: "BOB", Email: "other@x.io"})
	assert.ErrorIs(t, err, repository.ErrLoginExists)

	got, err := s.Users().GetByLogin(ctx, "Bob")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.Users().GetByLogin(ctx, "carol")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
