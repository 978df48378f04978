package model

import "time"

// PointsRule maps an action type to a signed point delta.  Rules are
// seeded at migration time and treated as read-only at request time; the
// unique index on action_type guarantees the ledger resolves at most one
// active rule per action.
type PointsRule struct {
    ID           int64     // points_rules.id
    RuleName     string    // points_rules.rule_name
    ActionType   string    // points_rules.action_type
    PointsChange int       // points_rules.points_change
    Description  string    // points_rules.description
    IsActive     bool      // points_rules.is_active
    CreatedAt    time.Time // points_rules.created_at
}

// PointsHistory is one append-only ledger row.  Rows are never updated
// or deleted; PointsAfter = PointsBefore + PointsChange always holds.
type PointsHistory struct {
    ID                int64     // points_history.id
    UserID            int64     // points_history.user_id
    PointsChange      int       // points_history.points_change
    PointsBefore      int       // points_history.points_before
    PointsAfter       int       // points_history.points_after
    ActionType        string    // points_history.action_type
    ActionDescription string    // points_history.action_description
    RelatedID         *int64    // points_history.related_id (nullable)
    CreatedAt         time.Time // points_history.created_at
}
