package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"github.com/planora/server/internal/config"
	"github.com/planora/server/internal/models"
	"github.com/planora/server/internal/observability"
	"github.com/planora/server/internal/repository"
)

// microsoftEndpoint is the common-tenant Microsoft identity platform endpoint
var microsoftEndpoint = oauth2.Endpoint{
	AuthURL:  "https://login.microsoftonline.com/common/oauth2/v2.0/authorize",
	TokenURL: "https://login.microsoftonline.com/common/oauth2/v2.0/token",
}

// CalendarService is the Outlook calendar connection boundary. It manages
// the OAuth dance and token storage; it does not touch access decisions or
// any collection data.
type CalendarService struct {
	tokenRepo repository.OutlookTokenRepo
	oauth     *oauth2.Config
}

// NewCalendarService creates a new CalendarService. Returns nil when the
// Outlook client is not configured; callers treat a nil service as
// "calendar integration disabled".
func NewCalendarService(tokenRepo repository.OutlookTokenRepo, cfg config.OutlookConfig) *CalendarService {
	if cfg.ClientID == "" {
		return nil
	}

	return &CalendarService{
		tokenRepo: tokenRepo,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     microsoftEndpoint,
			Scopes: []string{
				"offline_access",
				"https://graph.microsoft.com/Calendars.ReadWrite",
			},
		},
	}
}

// ConnectURL returns the Microsoft consent URL plus the state value the
// callback must echo back
func (s *CalendarService) ConnectURL() (url, state string, err error) {
	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		return "", "", err
	}
	state = hex.EncodeToString(stateBytes)

	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline), state, nil
}

// HandleCallback exchanges the authorization code and stores the tokens for
// the user
func (s *CalendarService) HandleCallback(ctx context.Context, userID, code string) error {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	record := &models.OutlookToken{
		UserID:       userID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry.UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.tokenRepo.Upsert(ctx, record); err != nil {
		return fmt.Errorf("failed to store tokens: %w", err)
	}

	observability.WithContext(ctx).WithField("user_id", userID).
		Info("outlook calendar connected")
	return nil
}

// Status reports whether the user has a calendar connection
func (s *CalendarService) Status(ctx context.Context, userID string) (*models.OutlookStatusResponse, error) {
	record, err := s.tokenRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tokens: %w", err)
	}
	if record == nil {
		return &models.OutlookStatusResponse{Connected: false}, nil
	}

	return &models.OutlookStatusResponse{
		Connected: true,
		ExpiresAt: record.ExpiresAt.Format(time.RFC3339),
	}, nil
}

// Disconnect removes the user's stored tokens
func (s *CalendarService) Disconnect(ctx context.Context, userID string) error {
	if err := s.tokenRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete tokens: %w", err)
	}
	return nil
}

// AccessToken returns a live access token for the user, refreshing through
// the stored refresh token when the cached one has expired. The refreshed
// token is written back so the next call is cheap.
func (s *CalendarService) AccessToken(ctx context.Context, userID string) (string, error) {
	record, err := s.tokenRepo.GetByUserID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to get tokens: %w", err)
	}
	if record == nil {
		return "", fmt.Errorf("outlook calendar not connected")
	}

	if !record.IsExpired() {
		return record.AccessToken, nil
	}

	source := s.oauth.TokenSource(ctx, &oauth2.Token{
		AccessToken:  record.AccessToken,
		RefreshToken: record.RefreshToken,
		Expiry:       record.ExpiresAt,
	})
	token, err := source.Token()
	if err != nil {
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}

	record.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		record.RefreshToken = token.RefreshToken
	}
	record.ExpiresAt = token.Expiry.UTC()
	record.UpdatedAt = time.Now().UTC()

	if err := s.tokenRepo.Upsert(ctx, record); err != nil {
		return "", fmt.Errorf("failed to store refreshed tokens: %w", err)
	}
	return record.AccessToken, nil
}
