package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-news/internal/model"
	"github.com/iliyamo/movie-news/internal/pagination"
)

// NewsRepo encapsulates all database queries related to news items.
type NewsRepo struct {
	q    querier
	lock bool
}

// NewNewsRepo constructs a NewsRepo on the provided DB handle.
func NewNewsRepo(db *sql.DB) *NewsRepo {
	return &NewsRepo{q: db}
}

const newsSelect = `SELECT n.id, n.headerline, n.url, n.pub_date, n.image, n.image_content_type, n.user_id, u.login
  FROM news n LEFT JOIN users u ON u.id = n.user_id`

var newsColumns = map[string]string{
	"id":         "n.id",
	"headerline": "n.headerline",
	"url":        "n.url",
	"pubDate":    "n.pub_date",
}

func scanNews(s rowScanner) (*model.News, error) {
	var (
		n         model.News
		pub       sql.NullTime
		image     []byte
		ct, login sql.NullString
		userID    sql.NullInt64
	)
	if err := s.Scan(&n.ID, &n.Headerline, &n.URL, &pub, &image, &ct, &userID, &login); err != nil {
		return nil, err
	}
	n.PubDate = timePtr(pub)
	n.Image = imageFrom(image, ct)
	n.User = userFrom(userID, login)
	return &n, nil
}

// Save inserts or overwrites a news item; see MovieRepo.Save.
func (r *NewsRepo) Save(ctx context.Context, n *model.News) (*model.News, error) {
	img, ct := imageArgs(n.Image)
	if n.ID == 0 {
		res, err := r.q.ExecContext(ctx,
			`INSERT INTO news (headerline, url, pub_date, image, image_content_type, user_id) VALUES (?, ?, ?, ?, ?, ?)`,
			n.Headerline, n.URL, nullTime(n.PubDate), img, ct, nullID(ownerID(n.User)))
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
		`UPDATE news SET headerline = ?, url = ?, pub_date = ?, image = ?, image_content_type = ?, user_id = ? WHERE id = ?`,
		n.Headerline, n.URL, nullTime(n.PubDate), img, ct, nullID(ownerID(n.User)), n.ID)
	if err != nil {
		return nil, err
	}
	if c, _ := res.RowsAffected(); c == 0 {
		return nil, ErrNotFound
	}
	return r.find(ctx, n.ID, false)
}

// FindByID fetches a news item by its ID.
func (r *NewsRepo) FindByID(ctx context.Context, id uint64) (*model.News, error) {
	return r.find(ctx, id, r.lock)
}

func (r *NewsRepo) find(ctx context.Context, id uint64, lock bool) (*model.News, error) {
	n, err := scanNews(r.q.QueryRowContext(ctx, newsSelect+" WHERE n.id = ?"+lockClause(lock), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return n, err
}

// FindAll returns one page of news items.
func (r *NewsRepo) FindAll(ctx context.Context, req pagination.Request, f Filter) (pagination.Page[*model.News], error) {
	req = pageSize(req)
	where, args := " WHERE 1=1", []any{}
	if f.OwnerLogin != "" {
		where += " AND u.login = ?"
		args = append(args, f.OwnerLogin)
	}

	var total int64
	if err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM news n LEFT JOIN users u ON u.id = n.user_id`+where, args...).Scan(&total); err != nil {
		return pagination.Page[*model.News]{}, err
	}

	rows, err := r.q.QueryContext(ctx, newsSelect+where+orderBy(req, newsColumns)+" LIMIT ? OFFSET ?",
		append(args, req.Size, req.Offset())...)
	if err != nil {
		return pagination.Page[*model.News]{}, err
	}
	defer rows.Close()

	out := make([]*model.News, 0, req.Size)
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return pagination.Page[*model.News]{}, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return pagination.Page[*model.News]{}, err
	}
	return pagination.NewPage(out, req, total), nil
}

func (r *NewsRepo) ExistsByID(ctx context.Context, id uint64) (bool, error) {
	return exists(ctx, r.q, "news", id)
}

func (r *NewsRepo) DeleteByID(ctx context.Context, id uint64) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM news WHERE id = ?`, id)
	return err
}
