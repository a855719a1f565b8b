package store

import (
	"context"
	"database/sql"
)

type AdminStore struct {
	db DB
}

func NewAdminStore(db DB) *AdminStore {
	return &AdminStore{db: db}
}

func (s *AdminStore) IsAdmin(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM admins WHERE user_id = $1)
	`, userID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return exists, err
}

func (s *AdminStore) HasRole(ctx context.Context, userID, role string) (bool, error) {
	if role != "admin" {
		return false, nil
	}
	return s.IsAdmin(ctx, userID)
}

func (s *AdminStore) CreateAdmin(ctx context.Context, tx Execer, userID string, createdBy *string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO admins (user_id, created_by)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, userID, createdBy)
	return err
}

func (s *AdminStore) HasAnyAdmin(ctx context.Context) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM admins`)
	return count > 0, err
}
