// Package memory is an in-process implementation of repository.Store.  It
// backs the service when STORE_BACKEND=memory and is the store used by the
// service and handler tests.
//
// Rows are kept as private copies: every value handed in or out is cloned,
// so callers can never alias stored state.  A transaction holds the write
// lock for its whole duration and writes in place, journaling the prior
// value of each row it touches; on error the journal is replayed.  The
// cost of a transaction is proportional to the rows it writes.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/movie-news/internal/model"
	"github.com/iliyamo/movie-news/internal/repository"
)

type table[E any] struct {
	rows map[uint64]*E
	next uint64
	undo *journal[E] // non-nil while a transaction is open
}

// journal holds the value each touched row had when the transaction
// began.  A nil entry means the row did not exist.
type journal[E any] struct {
	next uint64
	rows map[uint64]*E
}

func newTable[E any]() table[E] {
	return table[E]{rows: map[uint64]*E{}}
}

func (t *table[E]) nextID() uint64 {
	t.next++
	return t.next
}

// Stored rows are never modified in place; writers replace them.
func (t *table[E]) put(id uint64, row *E) {
	t.remember(id)
	t.rows[id] = row
}

func (t *table[E]) del(id uint64) {
	t.remember(id)
	delete(t.rows, id)
}

func (t *table[E]) remember(id uint64) {
	if t.undo == nil {
		return
	}
	if _, seen := t.undo.rows[id]; !seen {
		t.undo.rows[id] = t.rows[id]
	}
}

func (t *table[E]) begin() {
	t.undo = &journal[E]{next: t.next, rows: map[uint64]*E{}}
}

func (t *table[E]) commit() { t.undo = nil }

func (t *table[E]) rollback() {
	if t.undo == nil {
		return
	}
	for id, row := range t.undo.rows {
		if row == nil {
			delete(t.rows, id)
		} else {
			t.rows[id] = row
		}
	}
	t.next = t.undo.next
	t.undo = nil
}

type state struct {
	movies   table[model.Movie]
	news     table[model.News]
	twitters table[model.Twitter]
	users    table[model.User]
}

func newState() *state {
	return &state{
		movies:   newTable[model.Movie](),
		news:     newTable[model.News](),
		twitters: newTable[model.Twitter](),
		users:    newTable[model.User](),
	}
}

func (s *state) begin() {
	s.movies.begin()
	s.news.begin()
	s.twitters.begin()
	s.users.begin()
}

func (s *state) commit() {
	s.movies.commit()
	s.news.commit()
	s.twitters.commit()
	s.users.commit()
}

func (s *state) rollback() {
	s.movies.rollback()
	s.news.rollback()
	s.twitters.rollback()
	s.users.rollback()
}

// access abstracts over locking: the Store takes its mutex, a transaction
// already holds it.
type access interface {
	read(ctx context.Context, fn func(*state) error) error
	write(ctx context.Context, fn func(*state) error) error
}

// Store is a mutex-guarded, snapshot-transactional repository.Store.
type Store struct {
	mu   sync.RWMutex
	data *state
	now  func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{data: newState(), now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) read(ctx context.Context, fn func(*state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

func (s *Store) write(ctx context.Context, fn func(*state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

func (s *Store) Movies() repository.Repository[model.Movie] { return movieRepo{a: s} }
func (s *Store) News() repository.Repository[model.News]    { return newsRepo{a: s} }
func (s *Store) Twitters() repository.TwitterRepository     { return twitterRepo{a: s} }
func (s *Store) Users() repository.UserRepository           { return userRepo{a: s, now: s.now} }

// InTx serialises fn against every other transaction and write.  The
// writes fn makes are undone unless it returns nil, including when it
// panics.
func (s *Store) InTx(ctx context.Context, fn func(repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.begin()
	committed := false
	defer func() {
		if !committed {
			s.data.rollback()
		}
	}()

	if err := fn(&tx{data: s.data, now: s.now}); err != nil {
		return err
	}
	// A cancelled context aborts the commit like a dropped connection would.
	if err := ctx.Err(); err != nil {
		return err
	}
	s.data.commit()
	committed = true
	return nil
}

type tx struct {
	data *state
	now  func() time.Time
}

func (t *tx) read(ctx context.Context, fn func(*state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(t.data)
}

func (t *tx) write(ctx context.Context, fn func(*state) error) error {
	return t.read(ctx, fn)
}

func (t *tx) Movies() repository.Repository[model.Movie] { return movieRepo{a: t} }
func (t *tx) News() repository.Repository[model.News]    { return newsRepo{a: t} }
func (t *tx) Twitters() repository.TwitterRepository     { return twitterRepo{a: t} }
func (t *tx) Users() repository.UserRepository           { return userRepo{a: t, now: t.now} }

// InTx joins the enclosing transaction.
func (t *tx) InTx(_ context.Context, fn func(repository.Store) error) error {
	return fn(t)
}

// ---- clones ----

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func userRef(u *model.User) *model.User {
	if u == nil || u.ID == 0 {
		return nil
	}
	return &model.User{ID: u.ID}
}

func cloneMovie(m *model.Movie) *model.Movie {
	return &model.Movie{
		ID:        m.ID,
		Name:      m.Name,
		Director:  cloneStr(m.Director),
		Synopsis:  cloneStr(m.Synopsis),
		Comment:   cloneStr(m.Comment),
		StartDate: cloneTime(m.StartDate),
		Image:     m.Image.Clone(),
		User:      userRef(m.User),
	}
}

func cloneNews(n *model.News) *model.News {
	return &model.News{
		ID:         n.ID,
		Headerline: n.Headerline,
		URL:        n.URL,
		PubDate:    cloneTime(n.PubDate),
		Image:      n.Image.Clone(),
		User:       userRef(n.User),
	}
}

func cloneTwitter(t *model.Twitter) *model.Twitter {
	c := &model.Twitter{
		ID:        t.ID,
		Content:   t.Content,
		PubDate:   cloneTime(t.PubDate),
		Publisher: cloneStr(t.Publisher),
	}
	if t.Movie != nil && t.Movie.ID != 0 {
		c.Movie = &model.Movie{ID: t.Movie.ID}
	}
	return c
}

func cloneUser(u *model.User) *model.User {
	c := *u
	return &c
}

// withLogin resolves the owner reference the way the SQL join does.
func withLogin(st *state, u *model.User) *model.User {
	if u == nil {
		return nil
	}
	out := &model.User{ID: u.ID}
	if row, ok := st.users.rows[u.ID]; ok {
		out.Login = row.Login
	}
	return out
}

func ownerLogin(st *state, u *model.User) string {
	if u == nil {
		return ""
	}
	if row, ok := st.users.rows[u.ID]; ok {
		return row.Login
	}
	return ""
}
