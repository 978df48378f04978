// Package points implements the loyalty point ledger.  Every balance
// change resolves a rule from points_rules, updates users.points and
// appends an immutable points_history row.  The balance read, balance
// write and history append run in one SQL transaction so the invariant
// "balance = 100 + sum of history deltas" survives concurrent awards;
// the caller's own write (booking or rating insert) is deliberately NOT
// part of that transaction and the pair stays best effort.
package points

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/model"
)

// ErrRuleNotFound is returned when no active rule exists for the
// requested action type.
var ErrRuleNotFound = errors.New("no active points rule for action")

// ErrUserNotFound is returned when the user whose balance should change
// does not exist.
var ErrUserNotFound = errors.New("user not found")

// Result summarizes one applied ledger entry.  The field names follow
// the JSON the API has always returned for points side effects.
type Result struct {
	Change    int   `json:"pointsChange"`
	Before    int   `json:"pointsBefore"`
	After     int   `json:"pointsAfter"`
	HistoryID int64 `json:"historyId"`
}

// Ledger applies point deltas and answers history queries.
type Ledger struct{ DB *sql.DB }

func NewLedger(db *sql.DB) *Ledger { return &Ledger{DB: db} }

// Apply looks up the active rule for actionType, applies its delta to
// the user's balance and appends a history row.  Balances are not
// clamped: repeated penalties may drive them negative.  relatedID may be
// nil when the change has no associated entity.
func (l *Ledger) Apply(ctx context.Context, userID int64, actionType, description string, relatedID *int64) (Result, error) {
	var res Result

	tx, err := l.DB.BeginTx(ctx, nil)
	if err != nil {
		return res, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var change int
	err = tx.QueryRowContext(ctx,
		`SELECT points_change FROM points_rules WHERE action_type = ? AND is_active = 1 LIMIT 1`,
		actionType).Scan(&change)
	if err == sql.ErrNoRows {
		return res, ErrRuleNotFound
	}
	if err != nil {
		return res, err
	}

	var before int
	err = tx.QueryRowContext(ctx,
		`SELECT points FROM users WHERE id = ? LIMIT 1`, userID).Scan(&before)
	if err == sql.ErrNoRows {
		return res, ErrUserNotFound
	}
	if err != nil {
		return res, err
	}

	after := before + change
	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET points = ?, updated_at = ? WHERE id = ?`,
		after, time.Now().UTC(), userID); err != nil {
		return res, err
	}

	ins, err := tx.ExecContext(ctx,
		`INSERT INTO points_history (user_id, points_change, points_before, points_after, action_type, action_description, related_id, created_at)
		 VALUES (?,?,?,?,?,?,?,?)`,
		userID, change, before, after, actionType, description, relatedID, time.Now().UTC())
	if err != nil {
		return res, err
	}
	historyID, err := ins.LastInsertId()
	if err != nil {
		return res, err
	}

	if err := tx.Commit(); err != nil {
		return res, err
	}
	committed = true

	return Result{Change: change, Before: before, After: after, HistoryID: historyID}, nil
}

// HistoryEntry is one page row of a user's points history, joined with
// the rule that produced it (nil when the rule has since been removed).
type HistoryEntry struct {
	ID                int64     `json:"id"`
	PointsChange      int       `json:"points_change"`
	PointsBefore      int       `json:"points_before"`
	PointsAfter       int       `json:"points_after"`
	ActionType        string    `json:"action_type"`
	ActionDescription string    `json:"action_description"`
	RelatedID         *int64    `json:"related_id"`
	CreatedAt         time.Time `json:"created_at"`
	RuleName          *string   `json:"rule_name"`
	RuleDescription   *string   `json:"rule_description"`
}

// History returns one page of the user's ledger, newest first, plus the
// total row count for pagination.
func (l *Ledger) History(ctx context.Context, userID int64, page, limit int) ([]HistoryEntry, int, error) {
	var total int
	if err := l.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM points_history WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := l.DB.QueryContext(ctx,
		`SELECT ph.id, ph.points_change, ph.points_before, ph.points_after,
		        ph.action_type, ph.action_description, ph.related_id, ph.created_at,
		        pr.rule_name, pr.description
		 FROM points_history ph
		 LEFT JOIN points_rules pr ON pr.action_type = ph.action_type
		 WHERE ph.user_id = ?
		 ORDER BY ph.created_at DESC, ph.id DESC
		 LIMIT ? OFFSET ?`,
		userID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := make([]HistoryEntry, 0)
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.PointsChange, &e.PointsBefore, &e.PointsAfter,
			&e.ActionType, &e.ActionDescription, &e.RelatedID, &e.CreatedAt,
			&e.RuleName, &e.RuleDescription); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

// Rules returns every active rule ordered by delta descending, for the
// "how do I earn points" page.
func (l *Ledger) Rules(ctx context.Context) ([]model.PointsRule, error) {
	rows, err := l.DB.QueryContext(ctx,
		`SELECT id, rule_name, action_type, points_change, description, is_active, created_at
		 FROM points_rules
		 WHERE is_active = 1
		 ORDER BY points_change DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := make([]model.PointsRule, 0)
	for rows.Next() {
		var r model.PointsRule
		if err := rows.Scan(&r.ID, &r.RuleName, &r.ActionType, &r.PointsChange,
			&r.Description, &r.IsActive, &r.CreatedAt); err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}
