package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/model"
	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/points"
	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/queue"
	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/repository"
	queue_publisher "github.com/bilichijing/whu-software-system-practice-library-manager/internal/service"
)

// BookingHandler bundles everything the booking endpoints touch: the
// booking and seat repositories, the points ledger for rewards and
// penalties, and the event publisher.
type BookingHandler struct {
	Bookings *repository.BookingRepo
	Seats    *repository.SeatRepo
	Ledger   *points.Ledger
	// PublishEvents toggles the best-effort AMQP notifications; tests
	// turn it off so they don't dial a broker.
	PublishEvents bool
}

func NewBookingHandler(b *repository.BookingRepo, s *repository.SeatRepo, l *points.Ledger, publish bool) *BookingHandler {
	return &BookingHandler{Bookings: b, Seats: s, Ledger: l, PublishEvents: publish}
}

type createBookingReq struct {
	SeatID      int64  `json:"seat_id"`
	BookingDate string `json:"booking_date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

// Create books a seat for a time slot.  Validation runs cheapest-first:
// shape of the fields, then the slot being in the future, then the seat,
// and only then the conflict check, which shares a transaction with the
// insert so two racing requests can't both take the slot.
func (h *BookingHandler) Create(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.SeatID <= 0 || req.BookingDate == "" || req.StartTime == "" || req.EndTime == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_id, booking_date, start_time and end_time are required"})
	}
	if !dateRe.MatchString(req.BookingDate) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_date must be YYYY-MM-DD"})
	}
	if !timeRe.MatchString(req.StartTime) || !timeRe.MatchString(req.EndTime) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time and end_time must be HH:MM"})
	}
	if req.StartTime >= req.EndTime {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be before end_time"})
	}

	// The slot must start strictly in the future, judged in server
	// local time since that's what the reading rooms run on.
	slotStart, err := time.ParseInLocation("2006-01-02 15:04", req.BookingDate+" "+req.StartTime, time.Local)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking_date"})
	}
	if !slotStart.After(time.Now()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking time must be in the future"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	roomName, err := h.Seats.GetBookable(ctx, req.SeatID)
	if err != nil {
		if err == repository.ErrSeatUnavailable {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat does not exist or is unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	tx, err := h.Bookings.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Bookings.EnsureSlotFreeTx(ctx, tx, req.SeatID, req.BookingDate, req.StartTime, req.EndTime); err != nil {
		if err == repository.ErrBookingConflict {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "the seat is already booked for this time slot"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "conflict check failed"})
	}

	b := model.Booking{
		UserID:      uid,
		SeatID:      req.SeatID,
		BookingDate: req.BookingDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	}
	if err := h.Bookings.CreateTx(ctx, tx, &b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	// The reward is applied after the booking commits.  If the ledger
	// hiccups the booking stands and the reward is simply lost; that
	// beats rolling a confirmed seat back out from under the student.
	pointsChange := 0
	res, err := h.Ledger.Apply(ctx, uid, "booking_success", "Seat booked successfully", &b.ID)
	if err == nil {
		pointsChange = res.Change
		h.publishPointsChanged(uid, "booking_success", res)
	} else {
		c.Logger().Warnf("booking %d: award points failed: %v", b.ID, err)
	}

	if h.PublishEvents {
		ev := queue.BookingConfirmedEvent{
			BookingID:   b.ID,
			UserID:      uid,
			SeatID:      b.SeatID,
			RoomName:    roomName,
			BookingDate: b.BookingDate,
			StartTime:   b.StartTime,
			EndTime:     b.EndTime,
			ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = queue_publisher.PublishBookingConfirmed(ctx, ev)
		}()
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message":       "booking successful",
		"booking_id":    b.ID,
		"room_name":     roomName,
		"points_change": pointsChange,
	})
}

// List returns one page of the caller's bookings, optionally filtered by
// status.
func (h *BookingHandler) List(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	status := c.QueryParam("status")
	switch status {
	case "", model.BookingStatusActive, model.BookingStatusCancelled, model.BookingStatusCompleted:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status filter"})
	}
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "pageSize", 10)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	records, total, err := h.Bookings.ListByUser(ctx, uid, status, page, pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"records":  records,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

// Cancel transitions an active booking to cancelled and applies the early
// cancellation penalty.
func (h *BookingHandler) Cancel(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || bookingID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Bookings.GetForUser(ctx, bookingID, uid); err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := h.Bookings.Cancel(ctx, bookingID, uid); err != nil {
		if err == repository.ErrBookingNotActive {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "only active bookings can be cancelled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}

	pointsChange := 0
	res, err := h.Ledger.Apply(ctx, uid, "early_cancel", "Booking cancelled", &bookingID)
	if err == nil {
		pointsChange = res.Change
		h.publishPointsChanged(uid, "early_cancel", res)
	} else {
		c.Logger().Warnf("booking %d: cancel penalty failed: %v", bookingID, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":       "booking cancelled",
		"points_change": pointsChange,
	})
}

// CheckIn records the arrival for an active booking.  Check-in only
// counts during the booked slot on the booked day; the timestamp is
// written exactly once.
func (h *BookingHandler) CheckIn(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || bookingID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Bookings.GetForUser(ctx, bookingID, uid)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if b.Status != model.BookingStatusActive {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "only active bookings can be checked in"})
	}
	if b.CheckInTime != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "already checked in"})
	}

	now := time.Now()
	today := now.Format("2006-01-02")
	clock := now.Format("15:04")
	if b.BookingDate != today {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check-in is only possible on the booking date"})
	}
	// Inclusive on both ends: arriving exactly at the start or the end
	// of the slot still counts.
	if clock < b.StartTime || clock > b.EndTime {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check-in is only possible during the booked time slot"})
	}

	if err := h.Bookings.SetCheckedIn(ctx, bookingID, uid); err != nil {
		if err == repository.ErrAlreadyCheckedIn {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "already checked in"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "check-in failed"})
	}

	pointsChange := 0
	res, err := h.Ledger.Apply(ctx, uid, "check_in_on_time", "Checked in on time", &bookingID)
	if err == nil {
		pointsChange = res.Change
		h.publishPointsChanged(uid, "check_in_on_time", res)
	} else {
		c.Logger().Warnf("booking %d: check-in reward failed: %v", bookingID, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":       "check-in successful",
		"points_change": pointsChange,
	})
}

func (h *BookingHandler) publishPointsChanged(uid int64, action string, res points.Result) {
	if !h.PublishEvents {
		return
	}
	ev := queue.PointsChangedEvent{
		UserID:       uid,
		ActionType:   action,
		PointsChange: res.Change,
		PointsBefore: res.Before,
		PointsAfter:  res.After,
		HistoryID:    res.HistoryID,
		OccurredAt:   time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishPointsChanged(ctx, ev)
	}()
}

func queryInt(c echo.Context, name string, def int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
