package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/model"
)

// RatingRepo stores and aggregates user ratings.  Ratings are immutable:
// the repository exposes no update or delete.
type RatingRepo struct{ DB *sql.DB }

func NewRatingRepo(db *sql.DB) *RatingRepo { return &RatingRepo{DB: db} }

// Create inserts a rating and populates its generated ID.
func (r *RatingRepo) Create(ctx context.Context, rt *model.Rating) error {
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO user_ratings (user_id, booking_id, rating, comment, tags, rating_type, created_at)
		 VALUES (?,?,?,?,?,?,?)`,
		rt.UserID, rt.BookingID, rt.Rating, rt.Comment, rt.Tags, rt.RatingType, now)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rt.ID = id
	rt.CreatedAt = now
	return nil
}

// RatingWithUser is one row of the rating feed: the rating joined with
// the author's username.  Tags stays serialized here; the handler decodes
// it into a list for the response.
type RatingWithUser struct {
	ID         int64
	UserID     int64
	BookingID  *int64
	Rating     int
	Comment    *string
	Tags       *string
	RatingType string
	CreatedAt  time.Time
	Username   string
}

// ListAll returns every rating joined with its author, newest first.
// The feed is global by design: students can read each other's reviews.
func (r *RatingRepo) ListAll(ctx context.Context) ([]RatingWithUser, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT r.id, r.user_id, r.booking_id, r.rating, r.comment, r.tags, r.rating_type, r.created_at, u.username
		 FROM user_ratings r
		 JOIN users u ON u.id = r.user_id
		 ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RatingWithUser, 0)
	for rows.Next() {
		var rw RatingWithUser
		if err := rows.Scan(&rw.ID, &rw.UserID, &rw.BookingID, &rw.Rating, &rw.Comment,
			&rw.Tags, &rw.RatingType, &rw.CreatedAt, &rw.Username); err != nil {
			return nil, err
		}
		out = append(out, rw)
	}
	return out, rows.Err()
}

// Stats holds the aggregate numbers of the ratings dashboard.  A rating
// of 4 or 5 counts as high, 1 or 2 as low.
type Stats struct {
	TotalRatings int     `json:"total_ratings"`
	AvgRating    float64 `json:"avg_rating"`
	HighRatings  int     `json:"high_ratings"`
	LowRatings   int     `json:"low_ratings"`
}

// GetStats computes the aggregate rating statistics in one query.
func (r *RatingRepo) GetStats(ctx context.Context) (Stats, error) {
	var s Stats
	var avg sql.NullFloat64
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        AVG(rating),
		        COUNT(CASE WHEN rating >= 4 THEN 1 END),
		        COUNT(CASE WHEN rating <= 2 THEN 1 END)
		 FROM user_ratings`).Scan(&s.TotalRatings, &avg, &s.HighRatings, &s.LowRatings)
	if err != nil {
		return s, err
	}
	if avg.Valid {
		s.AvgRating = avg.Float64
	}
	return s, nil
}

// ListTagBlobs returns the raw serialized tag lists of every rating that
// has any.  The caller decodes and counts them; rows that fail to parse
// are skipped there.
func (r *RatingRepo) ListTagBlobs(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT tags FROM user_ratings WHERE tags IS NOT NULL AND tags != ''`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blobs := make([]string, 0)
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, err
		}
		blobs = append(blobs, b)
	}
	return blobs, rows.Err()
}
