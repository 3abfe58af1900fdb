package application

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/harborblog/backend/internal/platform/apperror"
	"github.com/harborblog/backend/internal/platform/logger"
	"github.com/harborblog/backend/internal/users/domain"
	"github.com/harborblog/backend/internal/users/ports"
)

// AuthService handles registration and login. Password hashing is bcrypt;
// token issuance is delegated to TokenIssuer.
type AuthService struct {
	repo   ports.UserRepository
	tokens *TokenIssuer
	logger logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(repo ports.UserRepository, tokens *TokenIssuer, logger logger.Logger) *AuthService {
	return &AuthService{
		repo:   repo,
		tokens: tokens,
		logger: logger,
	}
}

// RegisterParams contains the fields of a registration request
type RegisterParams struct {
	Name     string
	Username string
	Email    string
	Password string
}

// TokenResponse is the payload returned by a successful login
type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Register creates a new user account. Username and email must be unique;
// either clash fails the whole operation before any row is written.
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (*domain.User, error) {
	if params.Password == "" {
		return nil, ErrInvalidUserData.WithDetails("password is required")
	}

	taken, err := s.repo.ExistsByUsername(ctx, params.Username)
	if err != nil {
		s.logger.Error(ctx, "failed to check username availability", "error", err)
		return nil, s.storageFailure(err, "failed to register user")
	}
	if taken {
		return nil, ErrUsernameTaken.WithDetails("username")
	}

	taken, err = s.repo.ExistsByEmail(ctx, params.Email)
	if err != nil {
		s.logger.Error(ctx, "failed to check email availability", "error", err)
		return nil, s.storageFailure(err, "failed to register user")
	}
	if taken {
		return nil, ErrEmailTaken.WithDetails("email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error(ctx, "failed to hash password", "error", err)
		return nil, s.storageFailure(err, "failed to register user")
	}

	user, err := domain.NewUser(params.Name, params.Username, params.Email, string(hash))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidEmail) {
			return nil, ErrInvalidEmail
		}
		return nil, ErrInvalidUserData.WithDetails(err.Error())
	}

	if err := s.repo.Create(ctx, user); err != nil {
		s.logger.Error(ctx, "failed to create user", "error", err, "username", params.Username)
		return nil, s.storageFailure(err, "failed to register user")
	}

	s.logger.Info(ctx, "user registered", "userID", user.ID, "username", user.Username)
	return user, nil
}

// Login verifies credentials and issues an access token. The login name may
// be either the username or the email. A deactivated account is rejected
// even with correct credentials.
func (s *AuthService) Login(ctx context.Context, usernameOrEmail, password string) (*TokenResponse, error) {
	user, err := s.repo.FindByUsernameOrEmail(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, ports.ErrUserNotFound) {
			// Same answer as a wrong password, to avoid leaking which
			// accounts exist.
			return nil, ErrInvalidCredentials
		}
		s.logger.Error(ctx, "failed to resolve login name", "error", err)
		return nil, s.storageFailure(err, "failed to log in")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.Active {
		return nil, ErrUserDeactivated
	}

	token, expiresAt, err := s.tokens.Issue(user.Username)
	if err != nil {
		s.logger.Error(ctx, "failed to issue token", "error", err, "userID", user.ID)
		return nil, s.storageFailure(err, "failed to log in")
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *AuthService) storageFailure(inner error, msg string) *apperror.AppError {
	return apperror.Wrap(
		inner,
		apperror.CodeInternalError,
		apperror.BusinessCodeGeneral,
		msg,
		http.StatusInternalServerError,
	)
}
