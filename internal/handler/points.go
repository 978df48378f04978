package handler

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/points"
	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/repository"
)

// PointsHandler serves the balance, tier, history and rules endpoints.
type PointsHandler struct {
	Users  *repository.UserRepo
	Ledger *points.Ledger
}

func NewPointsHandler(u *repository.UserRepo, l *points.Ledger) *PointsHandler {
	return &PointsHandler{Users: u, Ledger: l}
}

// Balance returns the caller's current point balance.
func (h *PointsHandler) Balance(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	balance, err := h.Users.GetPoints(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"points": balance})
}

// Level maps the caller's balance onto their membership tier.
func (h *PointsHandler) Level(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	balance, err := h.Users.GetPoints(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, points.LevelFor(balance))
}

// History returns one page of the caller's ledger, newest first.
func (h *PointsHandler) History(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	entries, total, err := h.Ledger.History(ctx, uid, page, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	return c.JSON(http.StatusOK, echo.Map{
		"history": entries,
		"pagination": echo.Map{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		},
	})
}

type rulePart struct {
	ID           int64  `json:"id"`
	RuleName     string `json:"rule_name"`
	ActionType   string `json:"action_type"`
	PointsChange int    `json:"points_change"`
	Description  string `json:"description"`
}

// Rules lists the active earning and penalty rules.
func (h *PointsHandler) Rules(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	rules, err := h.Ledger.Rules(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]rulePart, 0, len(rules))
	for _, r := range rules {
		out = append(out, rulePart{
			ID:           r.ID,
			RuleName:     r.RuleName,
			ActionType:   r.ActionType,
			PointsChange: r.PointsChange,
			Description:  r.Description,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"rules": out})
}

type adjustReq struct {
	ActionType  string `json:"action_type"`
	Description string `json:"description"`
	RelatedID   *int64 `json:"related_id"`
}

// Adjust applies an arbitrary seeded rule to the caller's own balance.
// There is deliberately no rule management endpoint: an action type
// without a seeded rule is simply rejected.
func (h *PointsHandler) Adjust(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	var req adjustReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ActionType == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "action_type is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Ledger.Apply(ctx, uid, req.ActionType, req.Description, req.RelatedID)
	if err != nil {
		switch err {
		case points.ErrRuleNotFound:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no points rule for this action"})
		case points.ErrUserNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "apply points failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "points updated",
		"result":  res,
	})
}
