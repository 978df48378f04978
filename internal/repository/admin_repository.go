package repository

import (
	"context"
	"database/sql"
)

// AdminRepo holds maintenance operations that exist for development
// convenience only.  The router keeps its endpoints off the production
// surface entirely.
type AdminRepo struct{ DB *sql.DB }

func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{DB: db} }

// ClearData wipes all bookings and ratings and resets their
// auto-increment counters so a dev database starts counting from 1
// again.  The sequence reset is best effort.
func (r *AdminRepo) ClearData(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM bookings`); err != nil {
		return err
	}
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM user_ratings`); err != nil {
		return err
	}
	_, _ = r.DB.ExecContext(ctx,
		`DELETE FROM sqlite_sequence WHERE name IN ('bookings', 'user_ratings')`)
	return nil
}
