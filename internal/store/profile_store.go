package store

import (
	"context"
	"database/sql"
	"time"
)

type ProfileStore struct {
	db DB
}

type Profile struct {
	UserID       string     `db:"user_id"`
	IsFrozen     bool       `db:"is_frozen"`
	FrozenAt     *time.Time `db:"frozen_at"`
	FrozenReason *string    `db:"frozen_reason"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

func NewProfileStore(db DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// Get returns the stored profile, or an implicit active one for users that
// never had a row written.
func (s *ProfileStore) Get(ctx context.Context, userID string) (Profile, error) {
	var row Profile
	err := s.db.GetContext(ctx, &row, `
		SELECT user_id, is_frozen, frozen_at, frozen_reason, updated_at
		FROM profiles
		WHERE user_id = $1
	`, userID)
	if err == sql.ErrNoRows {
		return Profile{UserID: userID}, nil
	}
	if err != nil {
		return Profile{}, err
	}
	return row, nil
}

func (s *ProfileStore) SetFrozen(ctx context.Context, tx Execer, userID string, frozen bool, reason *string) error {
	if frozen {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO profiles (user_id, is_frozen, frozen_at, frozen_reason)
			VALUES ($1, TRUE, NOW(), $2)
			ON CONFLICT (user_id) DO UPDATE
			SET is_frozen = TRUE, frozen_at = NOW(), frozen_reason = $2, updated_at = NOW()
		`, userID, reason)
		return err
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO profiles (user_id, is_frozen, frozen_at, frozen_reason)
		VALUES ($1, FALSE, NULL, NULL)
		ON CONFLICT (user_id) DO UPDATE
		SET is_frozen = FALSE, frozen_at = NULL, frozen_reason = NULL, updated_at = NOW()
	`, userID)
	return err
}
