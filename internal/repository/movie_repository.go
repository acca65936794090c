package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-news/internal/model"
	"github.com/iliyamo/movie-news/internal/pagination"
)

// MovieRepo encapsulates all database queries related to movies.  The
// owner login is joined from users on every read; the derived twitter
// collection is not loaded (see TwitterRepo.FindByMovieID).
type MovieRepo struct {
	q    querier
	lock bool // FindByID locks the row (inside a transaction)
}

// NewMovieRepo constructs a MovieRepo on the provided DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{q: db}
}

const movieSelect = `SELECT m.id, m.name, m.director, m.synopsis, m.comment, m.start_date,
       m.image, m.image_content_type, m.user_id, u.login
  FROM movie m LEFT JOIN users u ON u.id = m.user_id`

var movieColumns = map[string]string{
	"id":        "m.id",
	"name":      "m.name",
	"director":  "m.director",
	"startDate": "m.start_date",
}

func scanMovie(s rowScanner) (*model.Movie, error) {
	var (
		m                        model.Movie
		director, synopsis, comm sql.NullString
		start                    sql.NullTime
		image                    []byte
		ct, login                sql.NullString
		userID                   sql.NullInt64
	)
	if err := s.Scan(&m.ID, &m.Name, &director, &synopsis, &comm, &start, &image, &ct, &userID, &login); err != nil {
		return nil, err
	}
	m.Director = stringPtr(director)
	m.Synopsis = stringPtr(synopsis)
	m.Comment = stringPtr(comm)
	m.StartDate = timePtr(start)
	m.Image = imageFrom(image, ct)
	m.User = userFrom(userID, login)
	return &m, nil
}

// Save inserts the movie when its ID is zero and overwrites every column
// otherwise.  A follow-up SELECT returns the stored row with the owner
// login populated.  Overwriting a missing row returns ErrNotFound.
func (r *MovieRepo) Save(ctx context.Context, m *model.Movie) (*model.Movie, error) {
	img, ct := imageArgs(m.Image)
	if m.ID == 0 {
		const q = `INSERT INTO movie (name, director, synopsis, comment, start_date, image, image_content_type, user_id)
		           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
		res, err := r.q.ExecContext(ctx, q, m.Name, nullString(m.Director), nullString(m.Synopsis),
			nullString(m.Comment), nullTime(m.StartDate), img, ct, nullID(ownerID(m.User)))
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		return r.find(ctx, uint64(id), false)
	}
	const q = `UPDATE movie
	           SET name = ?, director = ?, synopsis = ?, comment = ?, start_date = ?,
	               image = ?, image_content_type = ?, user_id = ?
	           WHERE id = ?`
	res, err := r.q.ExecContext(ctx, q, m.Name, nullString(m.Director), nullString(m.Synopsis),
		nullString(m.Comment), nullTime(m.StartDate), img, ct, nullID(ownerID(m.User)), m.ID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return r.find(ctx, m.ID, false)
}

// FindByID fetches a movie by its ID.  It returns ErrNotFound if no row is
// found.
func (r *MovieRepo) FindByID(ctx context.Context, id uint64) (*model.Movie, error) {
	return r.find(ctx, id, r.lock)
}

func (r *MovieRepo) find(ctx context.Context, id uint64, lock bool) (*model.Movie, error) {
	m, err := scanMovie(r.q.QueryRowContext(ctx, movieSelect+" WHERE m.id = ?"+lockClause(lock), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

// FindAll returns one page of movies, optionally only those owned by
// f.OwnerLogin.
func (r *MovieRepo) FindAll(ctx context.Context, req pagination.Request, f Filter) (pagination.Page[*model.Movie], error) {
	req = pageSize(req)
	where, args := " WHERE 1=1", []any{}
	if f.OwnerLogin != "" {
		where += " AND u.login = ?"
		args = append(args, f.OwnerLogin)
	}

	var total int64
	countSQL := `SELECT COUNT(*) FROM movie m LEFT JOIN users u ON u.id = m.user_id` + where
	if err := r.q.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return pagination.Page[*model.Movie]{}, err
	}

	dataSQL := movieSelect + where + orderBy(req, movieColumns) + " LIMIT ? OFFSET ?"
	rows, err := r.q.QueryContext(ctx, dataSQL, append(args, req.Size, req.Offset())...)
	if err != nil {
		return pagination.Page[*model.Movie]{}, err
	}
	defer rows.Close()

	out := make([]*model.Movie, 0, req.Size)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return pagination.Page[*model.Movie]{}, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return pagination.Page[*model.Movie]{}, err
	}
	return pagination.NewPage(out, req, total), nil
}

// ExistsByID reports whether a movie with the ID exists.
func (r *MovieRepo) ExistsByID(ctx context.Context, id uint64) (bool, error) {
	return exists(ctx, r.q, "movie", id)
}

// DeleteByID removes the movie.  Posts referencing it must be detached by
// the caller first.
func (r *MovieRepo) DeleteByID(ctx context.Context, id uint64) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM movie WHERE id = ?`, id)
	return err
}
