package oauth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vickgarcia/fitpull/internal/tokenstore"
	"golang.org/x/oauth2"
)

var ErrTokenExpired = errors.New("token expired and no refresh token available")

// StoreTokenSource serves tokens from the local store, refreshing through the
// OAuth endpoint when the stored token has expired and persisting the result.
type StoreTokenSource struct {
	config  *oauth2.Config
	store   *tokenstore.Store
	account string

	mu     sync.Mutex
	token  *oauth2.Token
	userID string
}

var _ oauth2.TokenSource = (*StoreTokenSource)(nil)

func NewStoreTokenSource(config *oauth2.Config, store *tokenstore.Store, account string) *StoreTokenSource {
	return &StoreTokenSource{
		config:  config,
		store:   store,
		account: account,
	}
}

func (s *StoreTokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != nil && s.token.Valid() {
		return s.token, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stored, err := s.store.Get(ctx, s.account)
	if err != nil {
		return nil, err
	}
	s.userID = stored.UserID

	token := storedToOAuth2(stored)

	if token.Valid() {
		s.token = token
		return token, nil
	}

	if token.RefreshToken == "" {
		return nil, ErrTokenExpired
	}

	newToken, err := s.config.TokenSource(ctx, token).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}

	if err := SaveToken(ctx, s.store, s.account, newToken); err != nil {
		return nil, fmt.Errorf("failed to save refreshed token: %w", err)
	}

	s.token = newToken

	return newToken, nil
}

// UserID returns the Fitbit user id recorded with the stored grant, loading
// the token row if it has not been read yet.
func (s *StoreTokenSource) UserID(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.userID != "" {
		defer s.mu.Unlock()
		return s.userID, nil
	}
	s.mu.Unlock()

	stored, err := s.store.Get(ctx, s.account)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.userID = stored.UserID
	s.mu.Unlock()

	return stored.UserID, nil
}

func storedToOAuth2(t tokenstore.Token) *oauth2.Token {
	token := &oauth2.Token{
		AccessToken: t.AccessToken,
		TokenType:   t.TokenType,
		Expiry:      t.Expiry,
	}

	if t.RefreshToken != nil {
		token.RefreshToken = *t.RefreshToken
	}

	return token
}
