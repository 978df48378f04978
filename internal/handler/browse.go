package handler

import (
	"net/http"
	"regexp"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/repository"
)

// BrowseHandler serves the read-only room and seat listings.
type BrowseHandler struct {
	Rooms *repository.RoomRepo
	Seats *repository.SeatRepo
}

func NewBrowseHandler(rooms *repository.RoomRepo, seats *repository.SeatRepo) *BrowseHandler {
	return &BrowseHandler{Rooms: rooms, Seats: seats}
}

// Times must be zero-padded 24h HH:MM so string comparison orders them.
var (
	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

type roomPart struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Floor     int    `json:"floor"`
	Area      string `json:"area"`
	Capacity  int    `json:"capacity"`
	Equipment string `json:"equipment"`
	Status    string `json:"status"`
}

// ListRooms returns every active study room ordered by floor.
func (h *BrowseHandler) ListRooms(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	rooms, err := h.Rooms.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]roomPart, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, roomPart{
			ID:        r.ID,
			Name:      r.Name,
			Floor:     r.Floor,
			Area:      r.Area,
			Capacity:  r.Capacity,
			Equipment: r.Equipment,
			Status:    r.Status,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": out})
}

// ListSeats returns a room's seats annotated with their availability for
// the requested date and time window.  All four query parameters are
// required; without a window there is no availability to compute.
func (h *BrowseHandler) ListSeats(c echo.Context) error {
	roomID, err := strconv.ParseInt(c.QueryParam("room_id"), 10, 64)
	if err != nil || roomID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id is required"})
	}
	date := c.QueryParam("date")
	startTime := c.QueryParam("start_time")
	endTime := c.QueryParam("end_time")
	if !dateRe.MatchString(date) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	if !timeRe.MatchString(startTime) || !timeRe.MatchString(endTime) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time and end_time must be HH:MM"})
	}
	if startTime >= endTime {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be before end_time"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	seats, err := h.Seats.ListAvailability(ctx, roomID, date, startTime, endTime)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"seats": seats})
}
