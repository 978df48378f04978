package repository

import (
	"context"
	"database/sql"
)

// SeatRepo provides seat lookups, including the availability view that
// joins active bookings for a requested date and time window.
type SeatRepo struct{ DB *sql.DB }

func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{DB: db} }

// SeatAvailability is one row of the seat browse response: the seat, its
// room context and a computed availability_status for the requested
// window ("booked" when an active overlapping booking exists, otherwise
// the seat's own static status).
type SeatAvailability struct {
	ID                 int64  `json:"id"`
	SeatNumber         string `json:"seat_number"`
	RoomID             int64  `json:"room_id"`
	SeatType           string `json:"seat_type"`
	Status             string `json:"status"`
	RoomName           string `json:"room_name"`
	Floor              int    `json:"floor"`
	Area               string `json:"area"`
	AvailabilityStatus string `json:"availability_status"`
}

// ListAvailability returns the available seats of a room annotated with
// their booking state for the given date and [startTime, endTime) window.
// Two intervals [s1,e1) and [s2,e2) overlap iff s1 < e2 AND s2 < e1;
// with zero-padded HH:MM strings the comparison is plain lexicographic.
func (r *SeatRepo) ListAvailability(ctx context.Context, roomID int64, date, startTime, endTime string) ([]SeatAvailability, error) {
	const q = `SELECT s.id, s.seat_number, s.room_id, s.seat_type, s.status,
	                  sr.name, sr.floor, sr.area,
	                  CASE WHEN b.id IS NOT NULL THEN 'booked' ELSE s.status END
	           FROM seats s
	           JOIN study_rooms sr ON sr.id = s.room_id
	           LEFT JOIN bookings b ON b.seat_id = s.id
	                AND b.booking_date = ?
	                AND b.status = 'active'
	                AND b.start_time < ?
	                AND b.end_time > ?
	           WHERE s.room_id = ? AND s.status = 'available'
	           ORDER BY s.seat_number`
	rows, err := r.DB.QueryContext(ctx, q, date, endTime, startTime, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]SeatAvailability, 0)
	for rows.Next() {
		var s SeatAvailability
		if err := rows.Scan(&s.ID, &s.SeatNumber, &s.RoomID, &s.SeatType, &s.Status,
			&s.RoomName, &s.Floor, &s.Area, &s.AvailabilityStatus); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

// GetBookable returns the seat's room name when the seat exists and its
// static status is "available".  Any other state yields ErrSeatUnavailable.
func (r *SeatRepo) GetBookable(ctx context.Context, seatID int64) (string, error) {
	var roomName string
	err := r.DB.QueryRowContext(ctx,
		`SELECT sr.name
		 FROM seats s
		 JOIN study_rooms sr ON sr.id = s.room_id
		 WHERE s.id = ? AND s.status = 'available'`, seatID).Scan(&roomName)
	if err == sql.ErrNoRows {
		return "", ErrSeatUnavailable
	}
	return roomName, err
}
