package postgres

import (
	"context"
	"fmt"

	"jarrib-bot/internal/models"

	"github.com/gocraft/dbr/v2"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// SetValue writes one key of the chat storage
func (s *Store) SetValue(ctx context.Context, userID int64, key, value string) error {
	query := `
		INSERT INTO chat_storage (user_id, key, value, updated_at)
		VALUES (?, ?, ?, NOW())
		ON CONFLICT (user_id, key)
		DO UPDATE SET
			value      = EXCLUDED.value,
			updated_at = NOW()
	`

	_, err := s.sess.
		InsertBySql(query, userID, key, value).
		ExecContext(ctx)
	if err != nil {
		s.logger.Error("failed to set storage value",
			zap.Int64("user_id", userID),
			zap.String("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("set value: %w", err)
	}

	return nil
}

func (s *Store) GetValue(ctx context.Context, userID int64, key string) (string, bool, error) {
	var entry models.StorageEntry

	err := s.sess.
		Select("*").
		From("chat_storage").
		Where("user_id = ? AND key = ?", userID, key).
		LoadOneContext(ctx, &entry)

	if err == dbr.ErrNotFound {
		return "", false, nil
	}

	if err != nil {
		s.logger.Error("failed to get storage value",
			zap.Int64("user_id", userID),
			zap.String("key", key),
			zap.Error(err),
		)
		return "", false, fmt.Errorf("get value: %w", err)
	}

	return entry.Value, true, nil
}

// RemoveValues deletes the given keys, missing keys are not an error
func (s *Store) RemoveValues(ctx context.Context, userID int64, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	_, err := s.sess.
		DeleteFrom("chat_storage").
		Where("user_id = ? AND key = ANY(?)", userID, pq.Array(keys)).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to remove storage values",
			zap.Int64("user_id", userID),
			zap.Strings("keys", keys),
			zap.Error(err),
		)
		return fmt.Errorf("remove values: %w", err)
	}

	return nil
}

// ChatStorage is the key/value storage of one chat
type ChatStorage struct {
	store  *Store
	userID int64
}

func (s *Store) ChatStorage(userID int64) *ChatStorage {
	return &ChatStorage{store: s, userID: userID}
}

func (c *ChatStorage) Get(ctx context.Context, key string) (string, bool, error) {
	return c.store.GetValue(ctx, c.userID, key)
}

func (c *ChatStorage) Set(ctx context.Context, key, value string) error {
	return c.store.SetValue(ctx, c.userID, key, value)
}

func (c *ChatStorage) Remove(ctx context.Context, key string) error {
	return c.store.RemoveValues(ctx, c.userID, key)
}
