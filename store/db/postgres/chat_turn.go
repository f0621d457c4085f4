package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/usehealthifier/healthifier/store"
)

func (d *DB) CreateChatTurn(ctx context.Context, create *store.ChatTurn) (*store.ChatTurn, error) {
	fields := []string{"uid", "user_uid", "message", "reply", "message_ts", "reply_ts"}
	args := []any{create.UID, create.UserUID, create.Message, create.Reply, create.MessageTs, create.ReplyTs}

	stmt := `INSERT INTO chat_turn (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create chat_turn: %w", err)
	}

	return create, nil
}

func (d *DB) ListChatTurns(ctx context.Context, find *store.FindChatTurn) ([]*store.ChatTurn, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.UserUID != nil {
		where, args = append(where, "user_uid = "+placeholder(len(args)+1)), append(args, *find.UserUID)
	}

	query := `SELECT id, uid, user_uid, message, reply, message_ts, reply_ts FROM chat_turn WHERE ` + strings.Join(where, " AND ") + ` ORDER BY id`
	if find.Limit != nil {
		// Most recent N, presented in chronological order.
		query = `SELECT id, uid, user_uid, message, reply, message_ts, reply_ts FROM (
			SELECT id, uid, user_uid, message, reply, message_ts, reply_ts FROM chat_turn
			WHERE ` + strings.Join(where, " AND ") + ` ORDER BY id DESC LIMIT ` + placeholder(len(args)+1) + `
		) AS recent ORDER BY id`
		args = append(args, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat_turns: %w", err)
	}
	defer rows.Close()

	list := make([]*store.ChatTurn, 0)
	for rows.Next() {
		t := &store.ChatTurn{}
		if err := rows.Scan(&t.ID, &t.UID, &t.UserUID, &t.Message, &t.Reply, &t.MessageTs, &t.ReplyTs); err != nil {
			return nil, fmt.Errorf("failed to scan chat_turn: %w", err)
		}
		list = append(list, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chat_turns: %w", err)
	}

	return list, nil
}
