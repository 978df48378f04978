package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/model"
)

// BookingRepo provides CRUD operations for bookings.  The conflict check
// and the insert are exposed as Tx variants so the handler can run both
// inside a single transaction; without it two concurrent requests for the
// same slot could both pass the check before either writes.
type BookingRepo struct{ DB *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

// EnsureSlotFreeTx returns ErrBookingConflict when an active booking for
// the same seat and date overlaps the requested [startTime, endTime)
// interval.  Overlap rule: s1 < e2 AND s2 < e1.
func (r *BookingRepo) EnsureSlotFreeTx(ctx context.Context, tx *sql.Tx, seatID int64, date, startTime, endTime string) error {
	var id int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM bookings
		 WHERE seat_id = ? AND booking_date = ? AND status = 'active'
		   AND start_time < ? AND end_time > ?
		 LIMIT 1`,
		seatID, date, endTime, startTime).Scan(&id)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	return ErrBookingConflict
}

// CreateTx inserts a new active booking within the given transaction and
// populates the generated ID on the record.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (user_id, seat_id, booking_date, start_time, end_time, status, created_at)
		 VALUES (?,?,?,?,?,?,?)`,
		b.UserID, b.SeatID, b.BookingDate, b.StartTime, b.EndTime, model.BookingStatusActive, now)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = id
	b.Status = model.BookingStatusActive
	b.CreatedAt = now
	return nil
}

// GetForUser loads a booking scoped to its owner.  A missing row (wrong
// id or a different owner) yields ErrBookingNotFound.
func (r *BookingRepo) GetForUser(ctx context.Context, bookingID, userID int64) (model.Booking, error) {
	var b model.Booking
	var checkIn sql.NullTime
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, seat_id, booking_date, start_time, end_time, status, check_in_time, created_at
		 FROM bookings WHERE id = ? AND user_id = ? LIMIT 1`,
		bookingID, userID).Scan(&b.ID, &b.UserID, &b.SeatID, &b.BookingDate,
		&b.StartTime, &b.EndTime, &b.Status, &checkIn, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return b, ErrBookingNotFound
	}
	if err != nil {
		return b, err
	}
	if checkIn.Valid {
		t := checkIn.Time
		b.CheckInTime = &t
	}
	return b, nil
}

// ExistsForUser reports whether a booking belongs to the given user.
// Used to validate the optional booking reference on ratings.
func (r *BookingRepo) ExistsForUser(ctx context.Context, bookingID, userID int64) (bool, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx,
		`SELECT id FROM bookings WHERE id = ? AND user_id = ? LIMIT 1`,
		bookingID, userID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Cancel transitions an active booking to cancelled.  The status guard
// is part of the UPDATE so a concurrent cancel cannot succeed twice.
func (r *BookingRepo) Cancel(ctx context.Context, bookingID, userID int64) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE bookings SET status = ?
		 WHERE id = ? AND user_id = ? AND status = ?`,
		model.BookingStatusCancelled, bookingID, userID, model.BookingStatusActive)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookingNotActive
	}
	return nil
}

// SetCheckedIn records the check-in timestamp exactly once.  The guard
// on check_in_time keeps a second check-in from overwriting the first.
func (r *BookingRepo) SetCheckedIn(ctx context.Context, bookingID, userID int64) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE bookings SET check_in_time = ?
		 WHERE id = ? AND user_id = ? AND status = ? AND check_in_time IS NULL`,
		time.Now().UTC(), bookingID, userID, model.BookingStatusActive)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAlreadyCheckedIn
	}
	return nil
}

// BookingListItem is one row of the paginated booking history, joined
// with the seat and room details the client renders.
type BookingListItem struct {
	ID          int64      `json:"id"`
	BookingDate string     `json:"booking_date"`
	StartTime   string     `json:"start_time"`
	EndTime     string     `json:"end_time"`
	Status      string     `json:"status"`
	CheckInTime *time.Time `json:"check_in_time"`
	CreatedAt   time.Time  `json:"created_at"`
	SeatNumber  string     `json:"seat_number"`
	RoomName    string     `json:"room_name"`
	Floor       int        `json:"floor"`
	Area        string     `json:"area"`
}

// ListByUser returns one page of the user's bookings, newest slot first,
// optionally filtered by status, along with the total row count for
// pagination.
func (r *BookingRepo) ListByUser(ctx context.Context, userID int64, status string, page, pageSize int) ([]BookingListItem, int, error) {
	where := `WHERE b.user_id = ?`
	args := []interface{}{userID}
	if status != "" {
		where += ` AND b.status = ?`
		args = append(args, status)
	}

	var total int
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings b `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT b.id, b.booking_date, b.start_time, b.end_time, b.status,
	             b.check_in_time, b.created_at,
	             s.seat_number, sr.name, sr.floor, sr.area
	      FROM bookings b
	      JOIN seats s ON s.id = b.seat_id
	      JOIN study_rooms sr ON sr.id = s.room_id
	      ` + where + `
	      ORDER BY b.booking_date DESC, b.start_time DESC
	      LIMIT ? OFFSET ?`
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]BookingListItem, 0)
	for rows.Next() {
		var it BookingListItem
		var checkIn sql.NullTime
		if err := rows.Scan(&it.ID, &it.BookingDate, &it.StartTime, &it.EndTime, &it.Status,
			&checkIn, &it.CreatedAt, &it.SeatNumber, &it.RoomName, &it.Floor, &it.Area); err != nil {
			return nil, 0, err
		}
		if checkIn.Valid {
			t := checkIn.Time
			it.CheckInTime = &t
		}
		items = append(items, it)
	}
	return items, total, rows.Err()
}
