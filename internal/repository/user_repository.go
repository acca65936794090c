package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/movie-news/internal/model"
)

// UserRepo reads and registers accounts in the `users` table.
type UserRepo struct{ q querier }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{q: db} }

// Create inserts u, which must already carry a password hash, and sets
// its ID and CreatedAt.  Duplicate login or email yields ErrLoginExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Login = strings.ToLower(strings.TrimSpace(u.Login))
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role == "" {
		u.Role = model.RoleUser
	}
	res, err := r.q.ExecContext(ctx,
		"INSERT INTO users (login, email, password_hash, role) VALUES (?,?,?,?)",
		u.Login, u.Email, u.PasswordHash, u.Role)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return ErrLoginExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return r.q.QueryRowContext(ctx, "SELECT created_at FROM users WHERE id=?", u.ID).Scan(&u.CreatedAt)
}

// GetByLogin fetches a user by normalized login.
func (r *UserRepo) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	var u model.User
	err := r.q.QueryRowContext(ctx,
		"SELECT id,login,email,password_hash,role,created_at FROM users WHERE login=? LIMIT 1",
		login).Scan(&u.ID, &u.Login, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ExistsByID reports whether an account with the ID exists.
func (r *UserRepo) ExistsByID(ctx context.Context, id uint64) (bool, error) {
	return exists(ctx, r.q, "users", id)
}
