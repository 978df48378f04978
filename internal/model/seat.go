package model

import "time"

// Seat describes a physical seat within a study room.  The status column
// is a global availability flag independent of the booking calendar: a
// seat marked anything other than "available" can never be booked, even
// for a free time slot.
//
// Fields:
//  ID         – primary key identifier.
//  SeatNumber – label such as A001.
//  RoomID     – room the seat belongs to.
//  SeatType   – seat class (currently "standard").
//  Status     – "available" or a disabled state.
//  CreatedAt  – creation timestamp.
type Seat struct {
    ID         int64     // seats.id
    SeatNumber string    // seats.seat_number
    RoomID     int64     // seats.room_id
    SeatType   string    // seats.seat_type
    Status     string    // seats.status
    CreatedAt  time.Time // seats.created_at
}
