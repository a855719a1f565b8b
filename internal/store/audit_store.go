package store

import (
	"context"
	"time"
)

type AuditStore struct {
	db DB
}

type AdminAction struct {
	ID           string    `db:"id"`
	AdminID      string    `db:"admin_id"`
	ActionType   string    `db:"action_type"`
	TargetUserID *string   `db:"target_user_id"`
	Details      string    `db:"details"`
	CreatedAt    time.Time `db:"created_at"`
}

func NewAuditStore(db DB) *AuditStore {
	return &AuditStore{db: db}
}

func (s *AuditStore) Log(ctx context.Context, tx Execer, adminID, actionType string, targetUserID *string, details string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO admin_actions (id, admin_id, action_type, target_user_id, details)
		VALUES (gen_random_uuid()::text, $1, $2, $3, $4)
	`, adminID, actionType, targetUserID, details)
	return err
}

func (s *AuditStore) List(ctx context.Context, limit, offset int) ([]AdminAction, error) {
	var rows []AdminAction
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, admin_id, action_type, target_user_id, details, created_at
		FROM admin_actions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
