package postgres

import (
	"context"
	"fmt"
	"time"

	"jarrib-bot/internal/models"

	"go.uber.org/zap"
)

// TouchUser records activity and refreshes the telegram profile. The row is
// created on first contact, in which case firstVisit is true.
func (s *Store) TouchUser(ctx context.Context, user *models.User) (firstVisit bool, err error) {
	query := `
		INSERT INTO users (id, username, first_name, last_name, created_at, last_seen)
		VALUES (?, ?, ?, ?, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			username   = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_name  = EXCLUDED.last_name,
			last_seen  = NOW()
		RETURNING (xmax = 0)
	`

	err = s.sess.
		InsertBySql(query, user.ID, user.Username, user.FirstName, user.LastName).
		LoadContext(ctx, &firstVisit)
	if err != nil {
		s.logger.Error("failed to touch user",
			zap.Int64("user_id", user.ID),
			zap.Error(err),
		)
		return false, fmt.Errorf("touch user: %w", err)
	}

	if firstVisit {
		s.logger.Info("user created",
			zap.Int64("user_id", user.ID),
			zap.Stringp("username", user.Username),
		)
	}

	return firstVisit, nil
}

// CountActiveUsers counts chats seen since the given time
func (s *Store) CountActiveUsers(ctx context.Context, since time.Time) (int, error) {
	var count int

	err := s.sess.
		Select("COUNT(*)").
		From("users").
		Where("last_seen >= ?", since).
		LoadOneContext(ctx, &count)
	if err != nil {
		s.logger.Error("failed to count active users", zap.Error(err))
		return 0, fmt.Errorf("count active users: %w", err)
	}

	return count, nil
}
