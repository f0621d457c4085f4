package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/usehealthifier/healthifier/store"
)

// UpsertPlan replaces the generated plan for (user, kind).
func (d *DB) UpsertPlan(ctx context.Context, upsert *store.Plan) (*store.Plan, error) {
	result, err := d.db.ExecContext(ctx,
		`UPDATE plan SET content = $1, generalized = $2, created_ts = $3 WHERE user_uid = $4 AND kind = $5`,
		upsert.Content, upsert.Generalized, upsert.CreatedTs, upsert.UserUID, upsert.Kind)
	if err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check plan update: %w", err)
	}
	if rows > 0 {
		return d.GetPlan(ctx, &store.FindPlan{UserUID: upsert.UserUID, Kind: &upsert.Kind})
	}

	fields := []string{"user_uid", "kind", "content", "generalized", "created_ts"}
	args := []any{upsert.UserUID, upsert.Kind, upsert.Content, upsert.Generalized, upsert.CreatedTs}
	stmt := `INSERT INTO plan (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&upsert.ID); err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	return upsert, nil
}

func (d *DB) GetPlan(ctx context.Context, find *store.FindPlan) (*store.Plan, error) {
	where, args := []string{"user_uid = $1"}, []any{find.UserUID}

	if find.Kind != nil {
		where, args = append(where, "kind = "+placeholder(len(args)+1)), append(args, *find.Kind)
	}

	query := `SELECT id, user_uid, kind, content, generalized, created_ts FROM plan WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_ts DESC LIMIT 1`
	p := &store.Plan{}
	err := d.db.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.UserUID, &p.Kind, &p.Content, &p.Generalized, &p.CreatedTs)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	return p, nil
}
