package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/movie-news/internal/model"
	"github.com/iliyamo/movie-news/internal/pagination"
)

// querier is satisfied by both *sql.DB and *sql.Tx so every repository can
// run either on the pool or inside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLStore is the MySQL-backed Store.  Tables:
//
//	users   (id, login, email, password_hash, role, created_at)
//	movie   (id, name, director, synopsis, comment, start_date, image, image_content_type, user_id)
//	news    (id, headerline, url, pub_date, image, image_content_type, user_id)
//	twitter (id, content, pub_date, publisher, movie_id)
type SQLStore struct {
	db   *sql.DB
	q    querier
	inTx bool
}

// NewSQLStore wraps an open connection pool.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, q: db}
}

func (s *SQLStore) Movies() Repository[model.Movie] { return &MovieRepo{q: s.q, lock: s.inTx} }
func (s *SQLStore) News() Repository[model.News]    { return &NewsRepo{q: s.q, lock: s.inTx} }
func (s *SQLStore) Twitters() TwitterRepository     { return &TwitterRepo{q: s.q, lock: s.inTx} }
func (s *SQLStore) Users() UserRepository           { return &UserRepo{q: s.q} }

// InTx begins a transaction, hands fn a Store bound to it and commits when
// fn succeeds.  Nested calls join the outer transaction.
func (s *SQLStore) InTx(ctx context.Context, fn func(Store) error) (err error) {
	if s.inTx {
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	return fn(&SQLStore{db: s.db, q: tx, inTx: true})
}

// orderBy renders an ORDER BY clause from whitelisted properties.
// Properties missing from columns are skipped; the id tiebreaker is
// always present.
func orderBy(req pagination.Request, columns map[string]string) string {
	parts := make([]string, 0, len(req.Sort)+1)
	for _, o := range req.Orders() {
		col, ok := columns[o.Property]
		if !ok {
			continue
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

// pageSize falls back to the default page size for zero-value requests.
func pageSize(req pagination.Request) pagination.Request {
	if req.Size <= 0 {
		req.Size = pagination.DefaultSize
	}
	return req
}

func lockClause(lock bool) string {
	if lock {
		return " FOR UPDATE"
	}
	return ""
}

// exists runs a SELECT EXISTS query for one identifier.
func exists(ctx context.Context, q querier, table string, id uint64) (bool, error) {
	var ok bool
	err := q.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM "+table+" WHERE id = ?)", id).Scan(&ok)
	return ok, err
}

// ---- NULL helpers ----

func nullString(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return p.UTC()
}

func nullID(id uint64) any {
	if id == 0 {
		return nil
	}
	return id
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	v := nt.Time.UTC()
	return &v
}

func imageArgs(img *model.Image) (any, any) {
	if img == nil {
		return nil, nil
	}
	return img.Data, img.ContentType
}

func imageFrom(data []byte, ct sql.NullString) *model.Image {
	if data == nil || !ct.Valid {
		return nil
	}
	return &model.Image{Data: data, ContentType: ct.String}
}

func userFrom(id sql.NullInt64, login sql.NullString) *model.User {
	if !id.Valid {
		return nil
	}
	return &model.User{ID: uint64(id.Int64), Login: login.String}
}

func ownerID(u *model.User) uint64 {
	if u == nil {
		return 0
	}
	return u.ID
}

// rowScanner is the common part of *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
