package model

import "time"

// StudyRoom is a static descriptive entity: a physical room on a floor
// with a capacity and an equipment list.  Rooms are seeded at migration
// time and only their status changes in practice.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name of the room.
//  Floor     – floor number the room is on.
//  Area      – zone type ("quiet" or "discussion").
//  Capacity  – number of seats the room can hold.
//  Equipment – comma-separated equipment list.
//  Status    – "active" or "inactive".
//  CreatedAt – creation timestamp.
type StudyRoom struct {
    ID        int64     // study_rooms.id
    Name      string    // study_rooms.name
    Floor     int       // study_rooms.floor
    Area      string    // study_rooms.area
    Capacity  int       // study_rooms.capacity
    Equipment string    // study_rooms.equipment
    Status    string    // study_rooms.status
    CreatedAt time.Time // study_rooms.created_at
}
