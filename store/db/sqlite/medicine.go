package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/usehealthifier/healthifier/store"
)

func (d *DB) CreateMedicine(ctx context.Context, create *store.Medicine) (*store.Medicine, error) {
	fields := []string{"uid", "user_uid", "name", "dosage", "hour", "minute", "usage"}
	args := []any{create.UID, create.UserUID, create.Name, create.Dosage, create.Hour, create.Minute, create.Usage}

	stmt := `INSERT INTO medicine (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create medicine: %w", err)
	}

	return create, nil
}

func (d *DB) ListMedicines(ctx context.Context, find *store.FindMedicine) ([]*store.Medicine, error) {
	where, args := []string{"user_uid = ?"}, []any{find.UserUID}

	if find.Name != nil {
		where, args = append(where, "name = ?"), append(args, *find.Name)
	}

	query := `SELECT id, uid, user_uid, name, dosage, hour, minute, usage FROM medicine WHERE ` + strings.Join(where, " AND ") + ` ORDER BY hour, minute`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list medicines: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Medicine, 0)
	for rows.Next() {
		m := &store.Medicine{}
		if err := rows.Scan(&m.ID, &m.UID, &m.UserUID, &m.Name, &m.Dosage, &m.Hour, &m.Minute, &m.Usage); err != nil {
			return nil, fmt.Errorf("failed to scan medicine: %w", err)
		}
		list = append(list, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate medicines: %w", err)
	}

	return list, nil
}

func (d *DB) DeleteMedicine(ctx context.Context, delete *store.DeleteMedicine) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM medicine WHERE user_uid = ? AND uid = ?", delete.UserUID, delete.UID); err != nil {
		return fmt.Errorf("failed to delete medicine: %w", err)
	}
	return nil
}
