package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Optional profile fields use pointers so that nil maps to SQL
// NULL.  The points balance is mutable but is only ever written through
// the points ledger, which keeps it equal to the initial grant of 100
// plus the sum of the user's points_history rows.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  PasswordHash – bcrypt hashed password.
//  Email        – optional email address.
//  RealName     – optional real name.
//  StudentID    – optional university student number.
//  Phone        – optional phone number.
//  Points       – current loyalty point balance.
//  Avatar       – optional avatar URL.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           int64     // users.id
    Username     string    // users.username
    PasswordHash string    // users.password_hash
    Email        *string   // users.email (nullable)
    RealName     *string   // users.real_name (nullable)
    StudentID    *string   // users.student_id (nullable)
    Phone        *string   // users.phone (nullable)
    Points       int       // users.points
    Avatar       *string   // users.avatar (nullable)
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}
