package points

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/database"
)

func setupLedgerTestDB(t *testing.T) (*Ledger, *sql.DB) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err, "open test db")
	t.Cleanup(func() { db.Close() })
	return NewLedger(db), db
}

func createTestUser(t *testing.T, db *sql.DB, username string) int64 {
	t.Helper()
	res, err := db.Exec(
		`INSERT INTO users (username, password_hash) VALUES (?, ?)`,
		username, "x")
	require.NoError(t, err, "insert user")
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func TestApplyAwardsAndRecordsHistory(t *testing.T) {
	ledger, db := setupLedgerTestDB(t)
	uid := createTestUser(t, db, "alice")

	res, err := ledger.Apply(context.Background(), uid, "booking_success", "Seat booked successfully", nil)
	require.NoError(t, err)

	assert.Equal(t, 10, res.Change)
	assert.Equal(t, 100, res.Before)
	assert.Equal(t, 110, res.After)
	assert.NotZero(t, res.HistoryID)

	var balance int
	require.NoError(t, db.QueryRow(`SELECT points FROM users WHERE id=?`, uid).Scan(&balance))
	assert.Equal(t, 110, balance)

	entries, total, err := ledger.History(context.Background(), uid, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, entries, 1)
	assert.Equal(t, "booking_success", entries[0].ActionType)
	assert.Equal(t, entries[0].PointsBefore+entries[0].PointsChange, entries[0].PointsAfter)
}

func TestApplyUnknownRule(t *testing.T) {
	ledger, db := setupLedgerTestDB(t)
	uid := createTestUser(t, db, "bob")

	_, err := ledger.Apply(context.Background(), uid, "manual_adjust", "", nil)
	assert.ErrorIs(t, err, ErrRuleNotFound)

	// No history row may exist after a rejected apply.
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM points_history WHERE user_id=?`, uid).Scan(&n))
	assert.Zero(t, n)
}

func TestApplyUnknownUser(t *testing.T) {
	ledger, _ := setupLedgerTestDB(t)

	_, err := ledger.Apply(context.Background(), 9999, "booking_success", "", nil)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestApplyPenaltiesMayGoNegative(t *testing.T) {
	ledger, db := setupLedgerTestDB(t)
	uid := createTestUser(t, db, "carol")

	// 100 - 5*30 = -50; the ledger does not clamp.
	var last Result
	for i := 0; i < 5; i++ {
		res, err := ledger.Apply(context.Background(), uid, "illegal_occupation", "Seat hogging", nil)
		require.NoError(t, err)
		last = res
	}
	assert.Equal(t, -50, last.After)

	balance := 0
	require.NoError(t, db.QueryRow(`SELECT points FROM users WHERE id=?`, uid).Scan(&balance))
	assert.Equal(t, -50, balance)
}

func TestHistoryPagination(t *testing.T) {
	ledger, db := setupLedgerTestDB(t)
	uid := createTestUser(t, db, "dave")

	for i := 0; i < 5; i++ {
		_, err := ledger.Apply(context.Background(), uid, "submit_rating", "Rating", nil)
		require.NoError(t, err)
	}

	page1, total, err := ledger.History(context.Background(), uid, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, page1, 2)

	page3, _, err := ledger.History(context.Background(), uid, 3, 2)
	require.NoError(t, err)
	assert.Len(t, page3, 1)
}

func TestRulesListsSeededRules(t *testing.T) {
	ledger, _ := setupLedgerTestDB(t)

	rules, err := ledger.Rules(context.Background())
	require.NoError(t, err)
	require.Len(t, rules, 7)
	// Ordered by delta descending: the booking reward comes first.
	assert.Equal(t, "booking_success", rules[0].ActionType)
	assert.Equal(t, 10, rules[0].PointsChange)
}
