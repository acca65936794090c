package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-news/internal/model"
	"github.com/iliyamo/movie-news/internal/pagination"
)

// TwitterRepo encapsulates all database queries related to twitter posts.
// The owning movie is returned as a reference carrying only its ID.
type TwitterRepo struct {
	q    querier
	lock bool
}

// NewTwitterRepo constructs a TwitterRepo on the provided DB handle.
func NewTwitterRepo(db *sql.DB) *TwitterRepo {
	return &TwitterRepo{q: db}
}

const twitterSelect = `SELECT t.id, t.content, t.pub_date, t.publisher, t.movie_id FROM twitter t`

var twitterColumns = map[string]string{
	"id":        "t.id",
	"content":   "t.content",
	"pubDate":   "t.pub_date",
	"publisher": "t.publisher",
}

func scanTwitter(s rowScanner) (*model.Twitter, error) {
	var (
		t         model.Twitter
		pub       sql.NullTime
		publisher sql.NullString
		movieID   sql.NullInt64
	)
	if err := s.Scan(&t.ID, &t.Content, &pub, &publisher, &movieID); err != nil {
		return nil, err
	}
	t.PubDate = timePtr(pub)
	t.Publisher = stringPtr(publisher)
	if movieID.Valid {
		t.Movie = &model.Movie{ID: uint64(movieID.Int64)}
	}
	return &t, nil
}

func movieID(m *model.Movie) uint64 {
	if m == nil {
		return 0
	}
	return m.ID
}

// Save inserts or overwrites a post; see MovieRepo.Save.
func (r *TwitterRepo) Save(ctx context.Context, t *model.Twitter) (*model.Twitter, error) {
	if t.ID == 0 {
		res, err := r.q.ExecContext(ctx,
			`INSERT INTO twitter (content, pub_date, publisher, movie_id) VALUES (?, ?, ?, ?)`,
			t.Content, nullTime(t.PubDate), nullString(t.Publisher), nullID(movieID(t.Movie)))
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		return r.find(ctx, uint64(id), false)
	}
	res, err := r.q.ExecContext(ctx,
		`UPDATE twitter SET content = ?, pub_date = ?, publisher = ?, movie_id = ? WHERE id = ?`,
		t.Content, nullTime(t.PubDate), nullString(t.Publisher), nullID(movieID(t.Movie)), t.ID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return r.find(ctx, t.ID, false)
}

// FindByID fetches a post by its ID.
func (r *TwitterRepo) FindByID(ctx context.Context, id uint64) (*model.Twitter, error) {
	return r.find(ctx, id, r.lock)
}

func (r *TwitterRepo) find(ctx context.Context, id uint64, lock bool) (*model.Twitter, error) {
	t, err := scanTwitter(r.q.QueryRowContext(ctx, twitterSelect+" WHERE t.id = ?"+lockClause(lock), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

// FindByMovieID returns every post attached to the movie, ordered by ID.
func (r *TwitterRepo) FindByMovieID(ctx context.Context, movieID uint64) ([]*model.Twitter, error) {
	rows, err := r.q.QueryContext(ctx, twitterSelect+" WHERE t.movie_id = ? ORDER BY t.id ASC"+lockClause(r.lock), movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Twitter
	for rows.Next() {
		t, err := scanTwitter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// FindAll returns one page of posts.  Posts have no owner, so the filter
// is ignored.
func (r *TwitterRepo) FindAll(ctx context.Context, req pagination.Request, _ Filter) (pagination.Page[*model.Twitter], error) {
	req = pageSize(req)
	var total int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM twitter`).Scan(&total); err != nil {
		return pagination.Page[*model.Twitter]{}, err
	}
	rows, err := r.q.QueryContext(ctx, twitterSelect+orderBy(req, twitterColumns)+" LIMIT ? OFFSET ?", req.Size, req.Offset())
	if err != nil {
		return pagination.Page[*model.Twitter]{}, err
	}
	defer rows.Close()

	out := make([]*model.Twitter, 0, req.Size)
	for rows.Next() {
		t, err := scanTwitter(rows)
		if err != nil {
			return pagination.Page[*model.Twitter]{}, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return pagination.Page[*model.Twitter]{}, err
	}
	return pagination.NewPage(out, req, total), nil
}

func (r *TwitterRepo) ExistsByID(ctx context.Context, id uint64) (bool, error) {
	return exists(ctx, r.q, "twitter", id)
}

func (r *TwitterRepo) DeleteByID(ctx context.Context, id uint64) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM twitter WHERE id = ?`, id)
	return err
}
