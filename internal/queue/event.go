// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a seat booking is successfully
// created.  It carries enough information for downstream consumers to log,
// notify, or feed analytics without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID   int64  `json:"booking_id"`
	UserID      int64  `json:"user_id"`
	SeatID      int64  `json:"seat_id"`
	RoomName    string `json:"room_name"`
	BookingDate string `json:"booking_date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	ConfirmedAt string `json:"confirmed_at"`
}

// PointsChangedEvent is published whenever the points ledger applies a
// delta, so external systems can mirror balances without polling.
type PointsChangedEvent struct {
	UserID       int64  `json:"user_id"`
	ActionType   string `json:"action_type"`
	PointsChange int    `json:"points_change"`
	PointsBefore int    `json:"points_before"`
	PointsAfter  int    `json:"points_after"`
	HistoryID    int64  `json:"history_id"`
	OccurredAt   string `json:"occurred_at"`
}
