package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListRooms(t *testing.T) {
	env := newTestEnv(t)
	uid := env.registerUser(t, "alice")

	rec := env.call(t, env.browse.ListRooms, "GET", "/api/study-rooms", "", uid, "")
	require.Equal(t, 200, rec.Code)

	var resp struct {
		Rooms []struct {
			Name  string `json:"name"`
			Floor int    `json:"floor"`
			Area  string `json:"area"`
		} `json:"rooms"`
	}
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Rooms, 4)
	assert.Equal(t, "Study Room A", resp.Rooms[0].Name)
	assert.Equal(t, "quiet", resp.Rooms[0].Area)
}

func TestListSeatsRequiresWindow(t *testing.T) {
	env := newTestEnv(t)
	uid := env.registerUser(t, "alice")

	rec := env.call(t, env.browse.ListSeats, "GET", "/api/seats?room_id=1", "", uid, "")
	assert.Equal(t, 400, rec.Code)

	rec = env.call(t, env.browse.ListSeats, "GET",
		"/api/seats?room_id=1&date=2026-10-01&start_time=10:00&end_time=09:00", "", uid, "")
	assert.Equal(t, 400, rec.Code)
}

func TestListSeatsMarksBooked(t *testing.T) {
	env := newTestEnv(t)
	uid := env.registerUser(t, "alice")

	rec := env.call(t, env.booking.Create, "POST", "/api/bookings",
		bookingBody(1, futureDate(), "09:00", "10:00"), uid, "")
	require.Equal(t, 201, rec.Code)

	rec = env.call(t, env.browse.ListSeats, "GET",
		"/api/seats?room_id=1&date="+futureDate()+"&start_time=09:00&end_time=10:00", "", uid, "")
	require.Equal(t, 200, rec.Code)

	var resp struct {
		Seats []struct {
			SeatNumber         string `json:"seat_number"`
			AvailabilityStatus string `json:"availability_status"`
		} `json:"seats"`
	}
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Seats, 5)

	byNumber := map[string]string{}
	for _, s := range resp.Seats {
		byNumber[s.SeatNumber] = s.AvailabilityStatus
	}
	assert.Equal(t, "booked", byNumber["A001"])
	assert.Equal(t, "available", byNumber["A002"])
}
