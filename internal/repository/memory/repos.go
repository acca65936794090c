package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/iliyamo/movie-news/internal/model"
	"github.com/iliyamo/movie-news/internal/pagination"
	"github.com/iliyamo/movie-news/internal/repository"
)

// comparators orders rows by one client-visible property.
type comparators[E any] map[string]func(a, b *E) int

// list filters, sorts and slices rows into a page.  Unknown properties are
// skipped; ordering by id is always applied last.
func list[E any](rows map[uint64]*E, req pagination.Request, keep func(*E) bool, by comparators[E], out func(*E) *E) pagination.Page[*E] {
	if req.Size <= 0 {
		req.Size = pagination.DefaultSize
	}
	all := make([]*E, 0, len(rows))
	for _, r := range rows {
		if keep == nil || keep(r) {
			all = append(all, r)
		}
	}
	orders := req.Orders()
	slices.SortFunc(all, func(a, b *E) int {
		for _, o := range orders {
			f, ok := by[o.Property]
			if !ok {
				continue
			}
			c := f(a, b)
			if o.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
	total := int64(len(all))
	start := min(max(req.Offset(), 0), len(all))
	end := start + min(max(req.Size, 0), len(all)-start)
	content := make([]*E, 0, end-start)
	for _, r := range all[start:end] {
		content = append(content, out(r))
	}
	return pagination.NewPage(content, req, total)
}

// NULL sorts first in ascending order, as in MySQL.
func cmpStrPtr(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return cmp.Compare(*a, *b)
}

func cmpTimePtr(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(*b)
}

// ---- movies ----

var movieOrder = comparators[model.Movie]{
	"id":        func(a, b *model.Movie) int { return cmp.Compare(a.ID, b.ID) },
	"name":      func(a, b *model.Movie) int { return cmp.Compare(a.Name, b.Name) },
	"director":  func(a, b *model.Movie) int { return cmpStrPtr(a.Director, b.Director) },
	"startDate": func(a, b *model.Movie) int { return cmpTimePtr(a.StartDate, b.StartDate) },
}

type movieRepo struct{ a access }

func readMovie(st *state, m *model.Movie) *model.Movie {
	c := cloneMovie(m)
	c.User = withLogin(st, m.User)
	return c
}

func (r movieRepo) Save(ctx context.Context, m *model.Movie) (*model.Movie, error) {
	var out *model.Movie
	err := r.a.write(ctx, func(st *state) error {
		row := cloneMovie(m)
		if row.ID == 0 {
			row.ID = st.movies.nextID()
		} else if _, ok := st.movies.rows[row.ID]; !ok {
			return repository.ErrNotFound
		}
		st.movies.put(row.ID, row)
		out = readMovie(st, row)
		return nil
	})
	return out, err
}

func (r movieRepo) FindByID(ctx context.Context, id uint64) (*model.Movie, error) {
	var out *model.Movie
	err := r.a.read(ctx, func(st *state) error {
		row, ok := st.movies.rows[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = readMovie(st, row)
		return nil
	})
	return out, err
}

func (r movieRepo) FindAll(ctx context.Context, req pagination.Request, f repository.Filter) (pagination.Page[*model.Movie], error) {
	var page pagination.Page[*model.Movie]
	err := r.a.read(ctx, func(st *state) error {
		var keep func(*model.Movie) bool
		if f.OwnerLogin != "" {
			keep = func(m *model.Movie) bool { return ownerLogin(st, m.User) == f.OwnerLogin }
		}
		page = list(st.movies.rows, req, keep, movieOrder, func(m *model.Movie) *model.Movie { return readMovie(st, m) })
		return nil
	})
	return page, err
}

func (r movieRepo) ExistsByID(ctx context.Context, id uint64) (bool, error) {
	var ok bool
	err := r.a.read(ctx, func(st *state) error {
		_, ok = st.movies.rows[id]
		return nil
	})
	return ok, err
}

func (r movieRepo) DeleteByID(ctx context.Context, id uint64) error {
	return r.a.write(ctx, func(st *state) error {
		st.movies.del(id)
		return nil
	})
}

// ---- news ----

var newsOrder = comparators[model.News]{
	"id":         func(a, b *model.News) int { return cmp.Compare(a.ID, b.ID) },
	"headerline": func(a, b *model.News) int { return cmp.Compare(a.Headerline, b.Headerline) },
	"url":        func(a, b *model.News) int { return cmp.Compare(a.URL, b.URL) },
	"pubDate":    func(a, b *model.News) int { return cmpTimePtr(a.PubDate, b.PubDate) },
}

type newsRepo struct{ a access }

func readNews(st *state, n *model.News) *model.News {
	c := cloneNews(n)
	c.User = withLogin(st, n.User)
	return c
}

func (r newsRepo) Save(ctx context.Context, n *model.News) (*model.News, error) {
	var out *model.News
	err := r.a.write(ctx, func(st *state) error {
		row := cloneNews(n)
		if row.ID == 0 {
			row.ID = st.news.nextID()
		} else if _, ok := st.news.rows[row.ID]; !ok {
			return repository.ErrNotFound
		}
		st.news.put(row.ID, row)
		out = readNews(st, row)
		return nil
	})
	return out, err
}

func (r newsRepo) FindByID(ctx context.Context, id uint64) (*model.News, error) {
	var out *model.News
	err := r.a.read(ctx, func(st *state) error {
		row, ok := st.news.rows[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = readNews(st, row)
		return nil
	})
	return out, err
}

func (r newsRepo) FindAll(ctx context.Context, req pagination.Request, f repository.Filter) (pagination.Page[*model.News], error) {
	var page pagination.Page[*model.News]
	err := r.a.read(ctx, func(st *state) error {
		var keep func(*model.News) bool
		if f.OwnerLogin != "" {
			keep = func(n *model.News) bool { return ownerLogin(st, n.User) == f.OwnerLogin }
		}
		page = list(st.news.rows, req, keep, newsOrder, func(n *model.News) *model.News { return readNews(st, n) })
		return nil
	})
	return page, err
}

func (r newsRepo) ExistsByID(ctx context.Context, id uint64) (bool, error) {
	var ok bool
	err := r.a.read(ctx, func(st *state) error {
		_, ok = st.news.rows[id]
		return nil
	})
	return ok, err
}

func (r newsRepo) DeleteByID(ctx context.Context, id uint64) error {
	return r.a.write(ctx, func(st *state) error {
		st.news.del(id)
		return nil
	})
}

// ---- twitters ----

var twitterOrder = comparators[model.Twitter]{
	"id":        func(a, b *model.Twitter) int { return cmp.Compare(a.ID, b.ID) },
	"content":   func(a, b *model.Twitter) int { return cmp.Compare(a.Content, b.Content) },
	"pubDate":   func(a, b *model.Twitter) int { return cmpTimePtr(a.PubDate, b.PubDate) },
	"publisher": func(a, b *model.Twitter) int { return cmpStrPtr(a.Publisher, b.Publisher) },
}

type twitterRepo struct{ a access }

func (r twitterRepo) Save(ctx context.Context, t *model.Twitter) (*model.Twitter, error) {
	var out *model.Twitter
	err := r.a.write(ctx, func(st *state) error {
		row := cloneTwitter(t)
		if row.ID == 0 {
			row.ID = st.twitters.nextID()
		} else if _, ok := st.twitters.rows[row.ID]; !ok {
			return repository.ErrNotFound
		}
		st.twitters.put(row.ID, row)
		out = cloneTwitter(row)
		return nil
	})
	return out, err
}

func (r twitterRepo) FindByID(ctx context.Context, id uint64) (*model.Twitter, error) {
	var out *model.Twitter
	err := r.a.read(ctx, func(st *state) error {
		row, ok := st.twitters.rows[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = cloneTwitter(row)
		return nil
	})
	return out, err
}

func (r twitterRepo) FindByMovieID(ctx context.Context, movieID uint64) ([]*model.Twitter, error) {
	var out []*model.Twitter
	err := r.a.read(ctx, func(st *state) error {
		for _, t := range st.twitters.rows {
			if t.Movie != nil && t.Movie.ID == movieID {
				out = append(out, cloneTwitter(t))
			}
		}
		slices.SortFunc(out, func(a, b *model.Twitter) int { return cmp.Compare(a.ID, b.ID) })
		return nil
	})
	return out, err
}

func (r twitterRepo) FindAll(ctx context.Context, req pagination.Request, _ repository.Filter) (pagination.Page[*model.Twitter], error) {
	var page pagination.Page[*model.Twitter]
	err := r.a.read(ctx, func(st *state) error {
		page = list(st.twitters.rows, req, nil, twitterOrder, cloneTwitter)
		return nil
	})
	return page, err
}

func (r twitterRepo) ExistsByID(ctx context.Context, id uint64) (bool, error) {
	var ok bool
	err := r.a.read(ctx, func(st *state) error {
		_, ok = st.twitters.rows[id]
		return nil
	})
	return ok, err
}

func (r twitterRepo) DeleteByID(ctx context.Context, id uint64) error {
	return r.a.write(ctx, func(st *state) error {
		st.twitters.del(id)
		return nil
	})
}

// ---- users ----

type userRepo struct {
	a   access
	now func() time.Time
}

func (r userRepo) Create(ctx context.Context, u *model.User) error {
	u.Login = strings.ToLower(strings.TrimSpace(u.Login))
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return r.a.write(ctx, func(st *state) error {
		for _, row := range st.users.rows {
			if row.Login == u.Login || (u.Email != "" && row.Email == u.Email) {
				return repository.ErrLoginExists
			}
		}
		if u.Role == "" {
			u.Role = model.RoleUser
		}
		u.ID = st.users.nextID()
		u.CreatedAt = r.now()
		st.users.put(u.ID, cloneUser(u))
		return nil
	})
}

func (r userRepo) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	var out *model.User
	err := r.a.read(ctx, func(st *state) error {
		for _, row := range st.users.rows {
			if row.Login == login {
				out = cloneUser(row)
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r userRepo) ExistsByID(ctx context.Context, id uint64) (bool, error) {
	var ok bool
	err := r.a.read(ctx, func(st *state) error {
		_, ok = st.users.rows[id]
		return nil
	})
	return ok, err
}
