package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointsBalance(t *testing.T) {
	env := newTestEnv(t)
	uid := env.registerUser(t, "alice")

	rec := env.call(t, env.points.Balance, "GET", "/api/user/points", "", uid, "")
	require.Equal(t, 200, rec.Code)

	var resp struct {
		Points int `json:"points"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, 100, resp.Points)
}

func TestPointsLevel(t *testing.T) {
	env := newTestEnv(t)
	uid := env.registerUser(t, "alice")

	rec := env.call(t, env.points.Level, "GET", "/api/user/points/level", "", uid, "")
	require.Equal(t, 200, rec.Code)

	var resp struct {
		Points       int     `json:"points"`
		Level        string  `json:"level"`
		NextLevel    *string `json:"nextLevel"`
		PointsToNext *int    `json:"pointsToNext"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, 100, resp.Points)
	assert.Equal(t, "bronze", resp.Level)
	require.NotNil(t, resp.NextLevel)
	assert.Equal(t, "silver", *resp.NextLevel)
	require.NotNil(t, resp.PointsToNext)
	assert.Equal(t, 100, *resp.PointsToNext)
}

func TestPointsHistoryPagination(t *testing.T) {
	env := newTestEnv(t)
	uid := env.registerUser(t, "alice")

	for i := 0; i < 3; i++ {
		_, err := env.ledger.Apply(context.Background(), uid, "submit_rating", "Rating", nil)
		require.NoError(t, err)
	}

	rec := env.call(t, env.points.History, "GET", "/api/user/points/history?page=1&limit=2", "", uid, "")
	require.Equal(t, 200, rec.Code)

	var resp struct {
		History []struct {
			ActionType   string `json:"action_type"`
			PointsChange int    `json:"points_change"`
		} `json:"history"`
		Pagination struct {
			Page       int `json:"page"`
			Limit      int `json:"limit"`
			Total      int `json:"total"`
			TotalPages int `json:"totalPages"`
		} `json:"pagination"`
	}
	decodeBody(t, rec, &resp)
	assert.Len(t, resp.History, 2)
	assert.Equal(t, "submit_rating", resp.History[0].ActionType)
	assert.Equal(t, 3, resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
}

func TestPointsRules(t *testing.T) {
	env := newTestEnv(t)
	uid := env.registerUser(t, "alice")

	rec := env.call(t, env.points.Rules, "GET", "/api/points/rules", "", uid, "")
	require.Equal(t, 200, rec.Code)

	var resp struct {
		Rules []struct {
			ActionType   string `json:"action_type"`
			PointsChange int    `json:"points_change"`
		} `json:"rules"`
	}
	decodeBody(t, rec, &resp)
	assert.Len(t, resp.Rules, 7)
}

func TestPointsAdjust(t *testing.T) {
	env := newTestEnv(t)
	uid := env.registerUser(t, "alice")

	// Any seeded rule can be applied by action type.
	rec := env.call(t, env.points.Adjust, "POST", "/api/user/points/adjust",
		`{"action_type":"no_show","description":"missed the slot"}`, uid, "")
	require.Equal(t, 200, rec.Code, rec.Body.String())

	var resp struct {
		Result struct {
			PointsChange int `json:"pointsChange"`
			PointsAfter  int `json:"pointsAfter"`
		} `json:"result"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, -20, resp.Result.PointsChange)
	assert.Equal(t, 80, resp.Result.PointsAfter)

	// An action type without a seeded rule is rejected.
	rec = env.call(t, env.points.Adjust, "POST", "/api/user/points/adjust",
		`{"action_type":"manual_adjust"}`, uid, "")
	assert.Equal(t, 400, rec.Code)
}
