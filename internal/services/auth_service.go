package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/markdave123-py/joba/internal/core/auth"
	"github.com/markdave123-py/joba/internal/core/errs"
	"github.com/markdave123-py/joba/internal/models"
	"github.com/markdave123-py/joba/internal/repositories"
)

// TokenPair is the credential bundle returned by signup, signin and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// Availability reports which of the requested identifiers are already taken.
type Availability struct {
	EmailTaken    *bool `json:"email_taken,omitempty"`
	UsernameTaken *bool `json:"username_taken,omitempty"`
}

type AuthService struct {
	users      repositories.UserRepository
	tokens     *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

func NewAuthService(users repositories.UserRepository, tokens *auth.TokenManager, bcryptCost int, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, bcryptCost: bcryptCost, logger: logger}
}

func (s *AuthService) Register(ctx context.Context, email, username, password string) (models.User, TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	if err := auth.ValidatePasswordStrength(password); err != nil {
		return models.User{}, TokenPair{}, err
	}

	if taken, err := s.users.EmailTaken(ctx, email); err != nil {
		return models.User{}, TokenPair{}, err
	} else if taken {
		return models.User{}, TokenPair{}, errs.Conflict("email already registered")
	}
	if username != "" {
		if taken, err := s.users.UsernameTaken(ctx, username); err != nil {
			return models.User{}, TokenPair{}, err
		} else if taken {
			return models.User{}, TokenPair{}, errs.Conflict("username already taken")
		}
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return models.User{}, TokenPair{}, errs.Database("failed to register user", err)
	}

	fields := map[string]any{
		"email":         email,
		"password_hash": hash,
		"is_active":     true,
		"onboarded":     false,
	}
	// An omitted username stays absent from the document. Storing "" would
	// land in the partial unique index and block every later username-less
	// signup.
	if username != "" {
		fields["username"] = username
	}
	user, err := s.users.Create(ctx, fields)
	if err != nil {
		return models.User{}, TokenPair{}, err
	}

	pair, err := s.issueTokens(user.ID)
	if err != nil {
		return models.User{}, TokenPair{}, err
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return user, pair, nil
}

// Authenticate matches the login against email or username. Unknown login and
// wrong password produce the same error so accounts cannot be enumerated.
func (s *AuthService) Authenticate(ctx context.Context, login, password string) (models.User, TokenPair, error) {
	login = strings.TrimSpace(login)

	user, hash, err := s.users.FindByLogin(ctx, login)
	if err != nil {
		if errs.Is(err, errs.KindNotFound) {
			return models.User{}, TokenPair{}, errs.Authentication("incorrect login or password")
		}
		return models.User{}, TokenPair{}, err
	}
	if !auth.VerifyPassword(password, hash) {
		return models.User{}, TokenPair{}, errs.Authentication("incorrect login or password")
	}
	if !user.IsActive {
		return models.User{}, TokenPair{}, errs.Authentication("incorrect login or password")
	}

	pair, err := s.issueTokens(user.ID)
	if err != nil {
		return models.User{}, TokenPair{}, err
	}
	return user, pair, nil
}

// CurrentUser resolves a bearer token to its user. Every failure mode is the
// same authentication error.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (models.User, error) {
	userID, err := s.tokens.ParseAccess(token)
	if err != nil {
		return models.User{}, err
	}
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return models.User{}, errs.Authentication("could not validate credentials")
	}
	return user, nil
}

// Refresh exchanges a valid refresh token for a fresh access token. The
// refresh token itself is returned unchanged, without rotation.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	userID, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	if _, err := s.users.Get(ctx, userID); err != nil {
		return TokenPair{}, errs.Authentication("could not validate credentials")
	}

	access, err := s.tokens.AccessToken(userID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.tokens.AccessExpirySeconds(),
	}, nil
}

// CheckAvailability reports whether the given email and/or username are free.
// At least one must be provided.
func (s *AuthService) CheckAvailability(ctx context.Context, email, username string) (Availability, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	if email == "" && username == "" {
		return Availability{}, errs.Validation("email or username is required")
	}

	var out Availability
	if email != "" {
		taken, err := s.users.EmailTaken(ctx, email)
		if err != nil {
			return Availability{}, err
		}
		out.EmailTaken = &taken
	}
	if username != "" {
		taken, err := s.users.UsernameTaken(ctx, username)
		if err != nil {
			return Availability{}, err
		}
		out.UsernameTaken = &taken
	}
	return out, nil
}

// SetOnboarded flips the onboarding flag on the user profile.
func (s *AuthService) SetOnboarded(ctx context.Context, userID string, onboarded bool) (models.User, error) {
	return s.users.Update(ctx, userID, map[string]any{"onboarded": onboarded})
}

func (s *AuthService) issueTokens(userID string) (TokenPair, error) {
	access, err := s.tokens.AccessToken(userID)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.tokens.RefreshToken(userID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    s.tokens.AccessExpirySeconds(),
	}, nil
}
