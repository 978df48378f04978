package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user with the already-hashed password and returns its
// ID.  New users start with the default 100 point grant from the schema.
// Optional profile fields should be nil rather than empty strings.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (int64, error) {
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, email, real_name, student_id, phone, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?)`,
		u.Username, u.PasswordHash, u.Email, u.RealName, u.StudentID, u.Phone, now, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	u.ID = id
	u.Points = 100
	u.CreatedAt = now
	u.UpdatedAt = now
	return id, nil
}

const userColumns = `id, username, password_hash, email, real_name, student_id, phone, points, avatar, created_at, updated_at`

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.RealName,
		&u.StudentID, &u.Phone, &u.Points, &u.Avatar, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByUsername fetches a user by login name.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username=? LIMIT 1`, username))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id=? LIMIT 1`, id))
}

// GetPoints returns only the current balance.  sql.ErrNoRows means the
// user does not exist.
func (r *UserRepo) GetPoints(ctx context.Context, id int64) (int, error) {
	var points int
	err := r.DB.QueryRowContext(ctx,
		`SELECT points FROM users WHERE id=? LIMIT 1`, id).Scan(&points)
	return points, err
}

// UpdateProfile overwrites the mutable profile fields.  Passing nil
// clears a field, mirroring the PUT semantics of the profile endpoint.
func (r *UserRepo) UpdateProfile(ctx context.Context, id int64, email, realName, phone, avatar *string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET email=?, real_name=?, phone=?, avatar=?, updated_at=? WHERE id=?`,
		email, realName, phone, avatar, time.Now().UTC(), id)
	return err
}
