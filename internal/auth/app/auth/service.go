package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"shop/internal/auth/client/userclient"
	"shop/internal/auth/domain"
	"shop/internal/auth/repository/user_repo"
	"shop/internal/auth/token"
)

var (
	ErrEmailAlreadyExists = errors.New("email already registered")
	// ErrRegistrationFailed means the profile half of a registration could
	// not be completed and the credential half was rolled back.
	ErrRegistrationFailed = errors.New("registration failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRequest     = errors.New("invalid request")
)

// ProfileCreator creates the profile half of a registration in the user
// service.
type ProfileCreator interface {
	CreateUser(ctx context.Context, req *userclient.CreateUserRequest) error
}

type AuthService interface {
	// Register creates the credential record locally, then the profile
	// remotely. If the remote half fails the local half is deleted and
	// ErrRegistrationFailed is returned.
	Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*TokenPairResponse, error)
	Refresh(ctx context.Context, req *RefreshRequest) (*TokenPairResponse, error)
	Validate(ctx context.Context, accessToken string) (*ValidateResponse, error)
}

type authService struct {
	repo          user_repo.UserRepository
	profileClient ProfileCreator
	tokens        *token.Manager
	logger        *zap.Logger
}

func NewAuthService(
	repo user_repo.UserRepository,
	profileClient ProfileCreator,
	tokens *token.Manager,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repo:          repo,
		profileClient: profileClient,
		tokens:        tokens,
		logger:        logger.With(zap.String("component", "AuthService")),
	}
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	if err := validateRegisterRequest(req); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	userID, err := s.commitLocal(ctx, email, req.Password)
	if err != nil {
		if errors.Is(err, user_repo.ErrEmailTaken) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	if err := s.commitRemote(ctx, email, req); err != nil {
		s.compensate(ctx, userID, email)
		return nil, fmt.Errorf("%w: %v", ErrRegistrationFailed, err)
	}

	s.logger.Info("User registered", zap.Int64("user_id", userID), zap.String("email", email))
	return &RegisterResponse{UserID: userID, Email: email}, nil
}

func (s *authService) commitLocal(ctx context.Context, email, password string) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.repo.CreateUser(ctx, &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return 0, err
	}
	return userID, nil
}

func (s *authService) commitRemote(ctx context.Context, email string, req *RegisterRequest) error {
	return s.profileClient.CreateUser(ctx, &userclient.CreateUserRequest{
		Name:      req.Name,
		Surname:   req.Surname,
		BirthDate: req.BirthDate,
		Email:     email,
	})
}

// compensate removes the local credential record after the remote half
// failed. A failed delete leaves an orphaned credential; it is logged so it
// can be cleaned up by hand.
func (s *authService) compensate(ctx context.Context, userID int64, email string) {
	if err := s.repo.DeleteByID(ctx, userID); err != nil {
		s.logger.Error("Failed to roll back credential record",
			zap.Int64("user_id", userID),
			zap.String("email", email),
			zap.Error(err))
		return
	}
	s.logger.Warn("Registration rolled back",
		zap.Int64("user_id", userID),
		zap.String("email", email))
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*TokenPairResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidRequest)
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(user.Email, string(user.Role))
}

func (s *authService) Refresh(ctx context.Context, req *RefreshRequest) (*TokenPairResponse, error) {
	claims, err := s.tokens.Validate(req.RefreshToken)
	if err != nil {
		return nil, token.ErrInvalidToken
	}

	// The user may have been deleted since the refresh token was issued.
	user, err := s.repo.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, token.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return s.issueTokens(user.Email, string(user.Role))
}

func (s *authService) Validate(ctx context.Context, accessToken string) (*ValidateResponse, error) {
	claims, err := s.tokens.Validate(accessToken)
	if err != nil {
		return nil, token.ErrInvalidToken
	}
	return &ValidateResponse{Email: claims.Email, Role: claims.Role}, nil
}

func (s *authService) issueTokens(email, role string) (*TokenPairResponse, error) {
	access, err := s.tokens.GenerateAccessToken(email, role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(email, role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &TokenPairResponse{AccessToken: access, RefreshToken: refresh}, nil
}

func validateRegisterRequest(req *RegisterRequest) error {
	switch {
	case strings.TrimSpace(req.Email) == "":
		return fmt.Errorf("%w: email is required", ErrInvalidRequest)
	case len(req.Password) < 8:
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidRequest)
	case strings.TrimSpace(req.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidRequest)
	case strings.TrimSpace(req.Surname) == "":
		return fmt.Errorf("%w: surname is required", ErrInvalidRequest)
	}
	if req.BirthDate != "" {
		if _, err := time.Parse("2006-01-02", req.BirthDate); err != nil {
			return fmt.Errorf("%w: birth_date must be YYYY-MM-DD", ErrInvalidRequest)
		}
	}
	return nil
}
