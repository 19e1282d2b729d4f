package services

import (
	"context"
	"fmt"

	"github.com/planora/server/internal/models"
	"github.com/planora/server/internal/observability"
	"github.com/planora/server/internal/repository"
)

// EmailSender delivers account emails. The SMTP implementation lives in
// SMTPService; tests swap in a recorder.
type EmailSender interface {
	SendVerificationEmail(ctx context.Context, to, username, token string) error
}

// defaultCollectionTitles are seeded for every new account so a fresh user
// lands on a populated workspace
var defaultCollectionTitles = []string{
	"Health Tracker",
	"Journal",
	"Fitness Log",
	"Task Manager",
	"Habit Builder",
	"Finance Tracker",
}

// UserService handles account lifecycle: registration, email verification,
// login, deactivation and deletion
type UserService struct {
	userRepo       repository.UserRepo
	collectionRepo repository.CollectionRepo
	tokenRepo      repository.VerificationTokenRepo
	emailSender    EmailSender
}

// NewUserService creates a new UserService. emailSender may be nil when no
// SMTP configuration is present; registration then succeeds without sending.
func NewUserService(
	userRepo repository.UserRepo,
	collectionRepo repository.CollectionRepo,
	tokenRepo repository.VerificationTokenRepo,
	emailSender EmailSender,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		collectionRepo: collectionRepo,
		tokenRepo:      tokenRepo,
		emailSender:    emailSender,
	}
}

// Register creates an inactive account, seeds its default collections,
// stores a verification token and emails the verification link. The email is
// sent in the background; a delivery failure never fails registration.
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	user, err := models.NewUser(req.Username, req.Email)
	if err != nil {
		return nil, err
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}

	if existing, err := s.userRepo.GetByUsername(ctx, user.Username); err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	} else if existing != nil {
		return nil, models.ErrUsernameExists
	}
	if existing, err := s.userRepo.GetByEmail(ctx, user.Email); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if existing != nil {
		return nil, models.ErrEmailExists
	}

	if err := s.userRepo.Add(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	for _, title := range defaultCollectionTitles {
		collection, err := models.NewCollection(user.ID, title)
		if err != nil {
			return nil, err
		}
		if err := s.collectionRepo.Add(ctx, collection); err != nil {
			return nil, fmt.Errorf("failed to seed collection %q: %w", title, err)
		}
	}

	token, err := models.NewVerificationToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create verification token: %w", err)
	}
	if err := s.tokenRepo.Add(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to store verification token: %w", err)
	}

	if s.emailSender != nil {
		go func(email, username, plaintext string) {
			if err := s.emailSender.SendVerificationEmail(context.Background(), email, username, plaintext); err != nil {
				observability.GetLogger().WithField("username", username).
					Errorf("verification email failed: %v", err)
			}
		}(user.Email, user.Username, token.Token)
	}

	observability.WithContext(ctx).WithField("username", user.Username).
		Info("user registered")
	return user, nil
}

// VerifyEmail consumes a verification token and activates the account
func (s *UserService) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	record, err := s.tokenRepo.GetByTokenHash(ctx, models.HashAPIKey(token))
	if err != nil {
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}
	if record == nil {
		return nil, models.ErrTokenNotFound
	}
	if record.Used {
		return nil, models.ErrTokenUsed
	}
	if record.IsExpired() {
		return nil, models.ErrTokenExpired
	}

	record.MarkUsed()
	if err := s.tokenRepo.MarkUsed(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to consume token: %w", err)
	}

	if err := s.userRepo.SetActive(ctx, record.UserID, true); err != nil {
		return nil, fmt.Errorf("failed to activate user: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, record.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, models.ErrUserNotFound
	}
	return user, nil
}

// Login checks credentials and rotates the API key. The previous key stops
// working immediately; clients hold one live key at a time.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !user.VerifyPassword(req.Password) {
		return nil, models.ErrInvalidLogin
	}
	if !user.IsActive {
		return nil, models.ErrAccountInactive
	}

	apiKey, err := user.RotateAPIKey()
	if err != nil {
		return nil, fmt.Errorf("failed to rotate API key: %w", err)
	}
	if err := s.userRepo.UpdateAPIKeyHash(ctx, user.ID, user.APIKeyHash); err != nil {
		return nil, fmt.Errorf("failed to store API key: %w", err)
	}

	return &models.LoginResponse{
		User:   user.ToResponse(),
		APIKey: apiKey,
	}, nil
}

// GetByAPIKey authenticates a request by API key; inactive accounts are
// rejected even with a valid key
func (s *UserService) GetByAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	user, err := s.userRepo.GetByAPIKeyHash(ctx, models.HashAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, models.ErrInvalidAPIKey
	}
	if !user.IsActive {
		return nil, models.ErrAccountInactive
	}
	return user, nil
}

// Deactivate marks the account inactive. Content stays in place; the
// account no longer authenticates until reactivated.
func (s *UserService) Deactivate(ctx context.Context, userID string) error {
	if err := s.userRepo.SetActive(ctx, userID, false); err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}

	observability.WithContext(ctx).WithField("user_id", userID).
		Info("user deactivated")
	return nil
}

// DeleteAccount permanently deletes the account and, through foreign key
// cascades, every collection, task, note, grant and notification it owns
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	observability.WithContext(ctx).WithField("user_id", userID).
		Info("user deleted")
	return nil
}
