package model

import "time"

// Rating is a user's 1-5 star review of a study session, optionally tied
// to a specific booking.  Tags are stored as a serialized JSON array in
// the tags column.  Ratings are immutable once created.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – user who submitted the rating.
//  BookingID  – optional booking the rating refers to.
//  Rating     – score between 1 and 5.
//  Comment    – optional free-text feedback.
//  Tags       – optional JSON-encoded tag list.
//  RatingType – category tag, defaults to "general".
//  CreatedAt  – creation timestamp.
type Rating struct {
    ID         int64     // user_ratings.id
    UserID     int64     // user_ratings.user_id
    BookingID  *int64    // user_ratings.booking_id (nullable)
    Rating     int       // user_ratings.rating
    Comment    *string   // user_ratings.comment (nullable)
    Tags       *string   // user_ratings.tags (nullable, JSON array)
    RatingType string    // user_ratings.rating_type
    CreatedAt  time.Time // user_ratings.created_at
}
