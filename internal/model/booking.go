package model

import "time"

// Booking status values.  A booking is created active and may transition
// to cancelled before it completes, or acquire a check-in timestamp once
// during its own date/time window.  There is no automatic transition to
// completed; the value exists for forward compatibility with a no-show
// sweep that has not been built.
const (
    BookingStatusActive    = "active"
    BookingStatusCancelled = "cancelled"
    BookingStatusCompleted = "completed"
)

// Booking records a user's reservation of a seat for a half-open time
// interval [StartTime, EndTime) on a single date.  Dates are stored as
// "YYYY-MM-DD" and times as zero-padded "HH:MM" so that lexicographic
// comparison matches chronological order.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – user who made the booking.
//  SeatID      – seat being booked.
//  BookingDate – date of the reservation (YYYY-MM-DD).
//  StartTime   – start of the slot (HH:MM, inclusive).
//  EndTime     – end of the slot (HH:MM, exclusive).
//  Status      – lifecycle state, see constants above.
//  CheckInTime – when the user checked in (nil until then).
//  CreatedAt   – creation timestamp.
type Booking struct {
    ID          int64      // bookings.id
    UserID      int64      // bookings.user_id
    SeatID      int64      // bookings.seat_id
    BookingDate string     // bookings.booking_date
    StartTime   string     // bookings.start_time
    EndTime     string     // bookings.end_time
    Status      string     // bookings.status
    CheckInTime *time.Time // bookings.check_in_time (nullable)
    CreatedAt   time.Time  // bookings.created_at
}
