package handler

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/model"
	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/points"
	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/repository"
)

// RatingHandler serves rating submission, the global feed, aggregate
// statistics and the tag taxonomy.
type RatingHandler struct {
	Ratings  *repository.RatingRepo
	Bookings *repository.BookingRepo
	Ledger   *points.Ledger
}

func NewRatingHandler(r *repository.RatingRepo, b *repository.BookingRepo, l *points.Ledger) *RatingHandler {
	return &RatingHandler{Ratings: r, Bookings: b, Ledger: l}
}

type submitRatingReq struct {
	Rating     int      `json:"rating"`
	Comment    string   `json:"comment"`
	BookingID  *int64   `json:"booking_id"`
	Tags       []string `json:"tags"`
	RatingType string   `json:"rating_type"`
}

// availableTags is the fixed taxonomy clients pick from.  Free-form tags
// are still accepted on submission; the taxonomy just drives the UI.
var availableTags = map[string][]string{
	"facility":    {"Comfortable seat", "Clean desk", "Good lighting", "Pleasant temperature", "Stable WiFi", "Power outlet available"},
	"service":     {"Easy booking", "Smooth check-in", "Friendly staff", "Quick problem resolution"},
	"environment": {"Quiet", "Well ventilated", "Comfortable temperature", "Bright", "Spacious"},
	"experience":  {"Productive session", "Great experience", "Would recommend", "Will book again"},
}

// Submit stores a rating and awards points: a 4 or 5 star review with the
// high-quality bonus, anything lower with the plain submission reward.
func (h *RatingHandler) Submit(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	var req submitRatingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if req.BookingID != nil {
		owned, err := h.Bookings.ExistsForUser(ctx, *req.BookingID, uid)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		if !owned {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking does not exist or does not belong to you"})
		}
	}

	rt := model.Rating{
		UserID:     uid,
		BookingID:  req.BookingID,
		Rating:     req.Rating,
		RatingType: req.RatingType,
	}
	if rt.RatingType == "" {
		rt.RatingType = "general"
	}
	if req.Comment != "" {
		rt.Comment = &req.Comment
	}
	if len(req.Tags) > 0 {
		blob, err := json.Marshal(req.Tags)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tags"})
		}
		s := string(blob)
		rt.Tags = &s
	}

	if err := h.Ratings.Create(ctx, &rt); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "submit rating failed"})
	}

	actionType := "submit_rating"
	if req.Rating >= 4 {
		actionType = "high_quality_rating"
	}
	desc := fmt.Sprintf("Rated %d stars", req.Rating)
	if rt.Comment != nil {
		desc += ": " + *rt.Comment
	}
	res, err := h.Ledger.Apply(ctx, uid, actionType, desc, &rt.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "award points failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":      "rating submitted",
		"ratingId":     rt.ID,
		"pointsResult": res,
	})
}

// ratingItem is one row of the feed with tags decoded back into a list.
type ratingItem struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"`
	BookingID  *int64    `json:"booking_id"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment"`
	Tags       []string  `json:"tags"`
	RatingType string    `json:"rating_type"`
	CreatedAt  time.Time `json:"created_at"`
}

// List returns every rating, newest first.  The feed is shared across
// users.
func (h *RatingHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	rows, err := h.Ratings.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	items := make([]ratingItem, 0, len(rows))
	for _, rw := range rows {
		it := ratingItem{
			ID:         rw.ID,
			UserID:     rw.UserID,
			Username:   rw.Username,
			BookingID:  rw.BookingID,
			Rating:     rw.Rating,
			Comment:    rw.Comment,
			Tags:       decodeTags(rw.Tags),
			RatingType: rw.RatingType,
			CreatedAt:  rw.CreatedAt,
		}
		items = append(items, it)
	}
	return c.JSON(http.StatusOK, echo.Map{"ratings": items})
}

// Stats returns the aggregate numbers plus per-tag usage counts.
func (h *RatingHandler) Stats(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	stats, err := h.Ratings.GetStats(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	stats.AvgRating = math.Round(stats.AvgRating*10) / 10

	blobs, err := h.Ratings.ListTagBlobs(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	tagCounts := map[string]int{}
	for _, b := range blobs {
		var tags []string
		// Rows written before tags were JSON encoded are skipped.
		if err := json.Unmarshal([]byte(b), &tags); err != nil {
			continue
		}
		for _, t := range tags {
			tagCounts[t]++
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"stats":     stats,
		"tagCounts": tagCounts,
	})
}

// Tags returns the fixed tag taxonomy grouped by category.
func (h *RatingHandler) Tags(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"tags": availableTags})
}

func decodeTags(blob *string) []string {
	if blob == nil || *blob == "" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(*blob), &tags); err != nil {
		return []string{}
	}
	return tags
}
