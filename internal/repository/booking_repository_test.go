package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/database"
	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err, "open test db")
	t.Cleanup(func() { db.Close() })
	return db
}

func insertTestUser(t *testing.T, db *sql.DB, username string) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO users (username, password_hash) VALUES (?, ?)`, username, "x")
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func insertBooking(t *testing.T, repo *BookingRepo, userID, seatID int64, date, start, end string) model.Booking {
	t.Helper()
	tx, err := repo.DB.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	b := model.Booking{UserID: userID, SeatID: seatID, BookingDate: date, StartTime: start, EndTime: end}
	require.NoError(t, repo.CreateTx(context.Background(), tx, &b))
	require.NoError(t, tx.Commit())
	return b
}

func TestEnsureSlotFreeOverlapRules(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookingRepo(db)
	uid := insertTestUser(t, db, "alice")

	insertBooking(t, repo, uid, 1, "2026-10-01", "09:00", "10:00")

	cases := []struct {
		name       string
		start, end string
		conflict   bool
	}{
		{"partial overlap at tail", "09:30", "10:30", true},
		{"contained", "09:15", "09:45", true},
		{"containing", "08:00", "11:00", true},
		{"identical", "09:00", "10:00", true},
		{"back to back after", "10:00", "11:00", false},
		{"back to back before", "08:00", "09:00", false},
		{"disjoint", "12:00", "13:00", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx, err := db.BeginTx(context.Background(), nil)
			require.NoError(t, err)
			defer tx.Rollback()
			err = repo.EnsureSlotFreeTx(context.Background(), tx, 1, "2026-10-01", tc.start, tc.end)
			if tc.conflict {
				assert.ErrorIs(t, err, ErrBookingConflict)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnsureSlotFreeIgnoresOtherSeatDateAndCancelled(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookingRepo(db)
	uid := insertTestUser(t, db, "alice")

	b := insertBooking(t, repo, uid, 1, "2026-10-01", "09:00", "10:00")

	check := func(seatID int64, date string) error {
		tx, err := db.BeginTx(context.Background(), nil)
		require.NoError(t, err)
		defer tx.Rollback()
		return repo.EnsureSlotFreeTx(context.Background(), tx, seatID, date, "09:00", "10:00")
	}

	assert.NoError(t, check(2, "2026-10-01"), "different seat")
	assert.NoError(t, check(1, "2026-10-02"), "different date")

	require.NoError(t, repo.Cancel(context.Background(), b.ID, uid))
	assert.NoError(t, check(1, "2026-10-01"), "cancelled booking must not block the slot")
}

func TestCancelOnlyOnce(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookingRepo(db)
	uid := insertTestUser(t, db, "alice")
	b := insertBooking(t, repo, uid, 1, "2026-10-01", "09:00", "10:00")

	require.NoError(t, repo.Cancel(context.Background(), b.ID, uid))

	err := repo.Cancel(context.Background(), b.ID, uid)
	assert.ErrorIs(t, err, ErrBookingNotActive)

	got, err := repo.GetForUser(context.Background(), b.ID, uid)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, got.Status)
}

func TestCancelScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookingRepo(db)
	alice := insertTestUser(t, db, "alice")
	bob := insertTestUser(t, db, "bob")
	b := insertBooking(t, repo, alice, 1, "2026-10-01", "09:00", "10:00")

	err := repo.Cancel(context.Background(), b.ID, bob)
	assert.ErrorIs(t, err, ErrBookingNotActive)

	_, err = repo.GetForUser(context.Background(), b.ID, bob)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestSetCheckedInOnlyOnce(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookingRepo(db)
	uid := insertTestUser(t, db, "alice")
	b := insertBooking(t, repo, uid, 1, "2026-10-01", "09:00", "10:00")

	require.NoError(t, repo.SetCheckedIn(context.Background(), b.ID, uid))

	err := repo.SetCheckedIn(context.Background(), b.ID, uid)
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)

	got, err := repo.GetForUser(context.Background(), b.ID, uid)
	require.NoError(t, err)
	assert.NotNil(t, got.CheckInTime)
}

func TestListByUserFilterAndPaging(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookingRepo(db)
	uid := insertTestUser(t, db, "alice")

	insertBooking(t, repo, uid, 1, "2026-10-01", "09:00", "10:00")
	insertBooking(t, repo, uid, 2, "2026-10-02", "09:00", "10:00")
	b3 := insertBooking(t, repo, uid, 3, "2026-10-03", "09:00", "10:00")
	require.NoError(t, repo.Cancel(context.Background(), b3.ID, uid))

	all, total, err := repo.ListByUser(context.Background(), uid, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, all, 3)
	// Newest slot first, joined with seat and room.
	assert.Equal(t, "2026-10-03", all[0].BookingDate)
	assert.Equal(t, "A001", all[2].SeatNumber)
	assert.Equal(t, "Study Room A", all[2].RoomName)

	active, total, err := repo.ListByUser(context.Background(), uid, model.BookingStatusActive, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, active, 2)

	page2, total, err := repo.ListByUser(context.Background(), uid, "", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, page2, 1)
}

func TestSeatAvailabilityView(t *testing.T) {
	db := setupTestDB(t)
	bookings := NewBookingRepo(db)
	seats := NewSeatRepo(db)
	uid := insertTestUser(t, db, "alice")

	insertBooking(t, bookings, uid, 1, "2026-10-01", "09:00", "10:00")

	list, err := seats.ListAvailability(context.Background(), 1, "2026-10-01", "09:30", "10:30")
	require.NoError(t, err)
	require.Len(t, list, 5, "room 1 seeds five seats")

	byNumber := map[string]string{}
	for _, s := range list {
		byNumber[s.SeatNumber] = s.AvailabilityStatus
	}
	assert.Equal(t, "booked", byNumber["A001"])
	assert.Equal(t, "available", byNumber["A002"])

	// A non-overlapping window frees the seat again.
	list, err = seats.ListAvailability(context.Background(), 1, "2026-10-01", "10:00", "11:00")
	require.NoError(t, err)
	for _, s := range list {
		assert.Equal(t, "available", s.AvailabilityStatus, s.SeatNumber)
	}
}

func TestGetBookable(t *testing.T) {
	db := setupTestDB(t)
	seats := NewSeatRepo(db)

	room, err := seats.GetBookable(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Study Room A", room)

	_, err = seats.GetBookable(context.Background(), 999)
	assert.ErrorIs(t, err, ErrSeatUnavailable)

	_, err = db.Exec(`UPDATE seats SET status='maintenance' WHERE id=1`)
	require.NoError(t, err)
	_, err = seats.GetBookable(context.Background(), 1)
	assert.ErrorIs(t, err, ErrSeatUnavailable)
}
