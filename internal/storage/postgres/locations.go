package postgres

import (
	"context"
	"fmt"

	"jarrib-bot/internal/models"

	"github.com/gocraft/dbr/v2"
	"go.uber.org/zap"
)

// SaveLocation stores the raw query string of one view of a chat
func (s *Store) SaveLocation(ctx context.Context, userID int64, view, rawQuery string) error {
	query := `
		INSERT INTO browse_locations (user_id, view, raw_query, updated_at)
		VALUES (?, ?, ?, NOW())
		ON CONFLICT (user_id, view)
		DO UPDATE SET
			raw_query  = EXCLUDED.raw_query,
			updated_at = NOW()
	`

	_, err := s.sess.
		InsertBySql(query, userID, view, rawQuery).
		ExecContext(ctx)
	if err != nil {
		s.logger.Error("failed to save browse location",
			zap.Int64("user_id", userID),
			zap.String("view", view),
			zap.Error(err),
		)
		return fmt.Errorf("save location: %w", err)
	}

	s.logger.Debug("browse location saved",
		zap.Int64("user_id", userID),
		zap.String("view", view),
		zap.String("raw_query", rawQuery),
	)

	return nil
}

// GetLocation returns an empty string for a view that was never opened
func (s *Store) GetLocation(ctx context.Context, userID int64, view string) (string, error) {
	var location models.BrowseLocation

	err := s.sess.
		Select("*").
		From("browse_locations").
		Where("user_id = ? AND view = ?", userID, view).
		LoadOneContext(ctx, &location)

	if err == dbr.ErrNotFound {
		return "", nil
	}

	if err != nil {
		s.logger.Error("failed to get browse location",
			zap.Int64("user_id", userID),
			zap.String("view", view),
			zap.Error(err),
		)
		return "", fmt.Errorf("get location: %w", err)
	}

	return location.RawQuery, nil
}

func (s *Store) ClearLocations(ctx context.Context, userID int64) error {
	result, err := s.sess.
		DeleteFrom("browse_locations").
		Where("user_id = ?", userID).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to clear browse locations",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return fmt.Errorf("clear locations: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()

	s.logger.Info("browse locations cleared",
		zap.Int64("user_id", userID),
		zap.Int64("count", rowsAffected),
	)

	return nil
}
