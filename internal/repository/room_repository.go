package repository

import (
	"context"
	"database/sql"

	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/model"
)

// RoomRepo provides read access to study rooms.  Rooms are seeded at
// migration time and the API never mutates them, so the repository only
// exposes queries.
type RoomRepo struct{ DB *sql.DB }

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{DB: db} }

// ListActive returns all active study rooms ordered by floor then name,
// matching the order the browse page displays them in.
func (r *RoomRepo) ListActive(ctx context.Context) ([]model.StudyRoom, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name, floor, area, capacity, equipment, status
		 FROM study_rooms
		 WHERE status = 'active'
		 ORDER BY floor, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := make([]model.StudyRoom, 0)
	for rows.Next() {
		var rm model.StudyRoom
		if err := rows.Scan(&rm.ID, &rm.Name, &rm.Floor, &rm.Area, &rm.Capacity, &rm.Equipment, &rm.Status); err != nil {
			return nil, err
		}
		rooms = append(rooms, rm)
	}
	return rooms, rows.Err()
}
