// Package session holds the signed in state of a chat: the API token, the
// current user and the saved listings. A Session is created once per chat
// by the Manager and passed explicitly to whoever needs it.
package session

import (
	"context"
	"fmt"
	"sync"

	"jarrib-bot/internal/api/jarrib"

	"go.uber.org/zap"
)

// Keys of the per chat storage
const (
	KeyToken         = "token"
	KeySavedListings = "savedListings"
)

// Storage is the per chat key value store backing a Session
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

type Session struct {
	ChatID int64
	Saved  *SavedSet

	storage Storage
	api     *jarrib.Client
	logger  *zap.Logger

	mu     sync.RWMutex
	token  string
	user   *jarrib.User
	client *jarrib.Client
}

func newSession(chatID int64, storage Storage, api *jarrib.Client, logger *zap.Logger) *Session {
	s := &Session{
		ChatID:  chatID,
		storage: storage,
		api:     api,
		logger:  logger.With(zap.Int64("chat_id", chatID)),
		client:  api,
	}
	s.Saved = newSavedSet(storage, func(err error) {
		s.logger.Warn("saved listing sync failed", zap.Error(err))
	})
	return s
}

// Bootstrap restores the saved listings and the stored token. A token the
// server no longer accepts is dropped without telling the user.
func (s *Session) Bootstrap(ctx context.Context) error {
	if err := s.Saved.load(ctx); err != nil {
		return err
	}

	token, ok, err := s.storage.Get(ctx, KeyToken)
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}
	if !ok || token == "" {
		return nil
	}

	client := s.api.WithToken(token)
	user, err := client.Me(ctx)
	if err != nil {
		s.logger.Info("stored token rejected, logging out", zap.Error(err))
		if rmErr := s.storage.Remove(ctx, KeyToken); rmErr != nil {
			return fmt.Errorf("clear token: %w", rmErr)
		}
		return nil
	}

	return s.signIn(ctx, token, user)
}

func (s *Session) Login(ctx context.Context, email, password string) (*jarrib.User, error) {
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.storage.Set(ctx, KeyToken, resp.Token); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	if err := s.signIn(ctx, resp.Token, &resp.User); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (s *Session) Register(ctx context.Context, email, password, name string) (*jarrib.User, error) {
	resp, err := s.api.Register(ctx, email, password, name)
	if err != nil {
		return nil, err
	}
	if err := s.storage.Set(ctx, KeyToken, resp.Token); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	if err := s.signIn(ctx, resp.Token, &resp.User); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// signIn installs the user; when the user carries a saved list it wins
// over the local one
func (s *Session) signIn(ctx context.Context, token string, user *jarrib.User) error {
	client := s.api.WithToken(token)

	s.mu.Lock()
	s.token = token
	s.user = user
	s.client = client
	s.mu.Unlock()

	s.Saved.setSync(func(ctx context.Context, id string, saved bool) error {
		var err error
		if saved {
			_, err = client.SaveListing(ctx, id)
		} else {
			_, err = client.UnsaveListing(ctx, id)
		}
		return err
	})

	if user.SavedListings != nil {
		if err := s.Saved.Replace(ctx, user.SavedListings); err != nil {
			return err
		}
	}

	s.logger.Info("session signed in",
		zap.String("api_user_id", user.ID),
		zap.String("role", user.Role),
	)
	return nil
}

// Logout forgets token and user, saved listings stay local
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.client = s.api
	s.mu.Unlock()

	s.Saved.setSync(nil)

	if err := s.storage.Remove(ctx, KeyToken); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

func (s *Session) User() *jarrib.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) IsAuthenticated() bool {
	return s.User() != nil
}

func (s *Session) IsAdmin() bool {
	return s.User().IsAdmin()
}

// Client is the API client carrying this session's token
func (s *Session) Client() *jarrib.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}
