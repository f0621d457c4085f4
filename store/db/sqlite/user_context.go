package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/usehealthifier/healthifier/store"
)

// UpsertUserContext replaces the summary for (user, kind). Implemented as
// update-then-insert: the single-row invariant is owned by the caller's
// read-before-write flow, not by a storage constraint.
func (d *DB) UpsertUserContext(ctx context.Context, upsert *store.UserContext) (*store.UserContext, error) {
	result, err := d.db.ExecContext(ctx,
		`UPDATE user_context SET summary = ?, updated_ts = ? WHERE user_uid = ? AND kind = ?`,
		upsert.Summary, upsert.UpdatedTs, upsert.UserUID, upsert.Kind)
	if err != nil {
		return nil, fmt.Errorf("failed to update user_context: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check user_context update: %w", err)
	}
	if rows > 0 {
		return d.GetUserContext(ctx, &store.FindUserContext{UserUID: upsert.UserUID, Kind: &upsert.Kind})
	}

	fields := []string{"user_uid", "kind", "summary", "updated_ts"}
	args := []any{upsert.UserUID, upsert.Kind, upsert.Summary, upsert.UpdatedTs}
	stmt := `INSERT INTO user_context (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&upsert.ID); err != nil {
		return nil, fmt.Errorf("failed to create user_context: %w", err)
	}

	return upsert, nil
}

func (d *DB) GetUserContext(ctx context.Context, find *store.FindUserContext) (*store.UserContext, error) {
	where, args := []string{"user_uid = ?"}, []any{find.UserUID}

	if find.Kind != nil {
		where, args = append(where, "kind = ?"), append(args, *find.Kind)
	}

	query := `SELECT id, user_uid, kind, summary, updated_ts FROM user_context WHERE ` + strings.Join(where, " AND ") + ` ORDER BY updated_ts DESC LIMIT 1`
	c := &store.UserContext{}
	err := d.db.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.UserUID, &c.Kind, &c.Summary, &c.UpdatedTs)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user_context: %w", err)
	}

	return c, nil
}
