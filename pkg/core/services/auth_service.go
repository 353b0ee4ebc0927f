package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkbio/pkg/logger"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
	"golang.org/x/crypto/bcrypt"
)

var (
	errInvalidCredentials = domain.AuthError("Invalid credentials")
	errUserExists         = domain.ValidationError("User with this email or username already exists")
)

type AuthService struct {
	users    ports.UserRepository
	tokens   *TokenService
	notifier ports.Notifier
	hashCost int
	now      func() time.Time
}

func NewAuthService(users ports.UserRepository, tokens *TokenService, notifier ports.Notifier) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		notifier: notifier,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

type registerFields struct {
	Username        string `json:"username" validate:"required,alphanum,min=3,max=30"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

func (s *AuthService) Register(ctx context.Context, username, email, password, confirmPassword string) (*domain.AuthResult, error) {
	in := registerFields{
		Username:        strings.TrimSpace(username),
		Email:           normalizeEmail(email),
		Password:        password,
		ConfirmPassword: confirmPassword,
	}
	if err := ValidateStruct(in); err != nil {
		return nil, err
	}

	existing, err := s.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, storageError(err)
	}
	if existing == nil {
		existing, err = s.users.GetUserByUsername(ctx, in.Username)
		if err != nil {
			return nil, storageError(err)
		}
	}
	if existing != nil {
		return nil, errUserExists
	}

	hash, err := hashPassword(password, s.hashCost)
	if err != nil {
		return nil, domain.InternalError(err)
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Profile:      domain.Profile{Theme: domain.DefaultTheme()},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			// Lost a race with a concurrent registration
			return nil, errUserExists
		}
		return nil, storageError(err)
	}

	pair, err := s.tokens.GeneratePair(user.ID)
	if err != nil {
		return nil, domain.InternalError(err)
	}

	s.sendVerification(ctx, user)

	logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return &domain.AuthResult{TokenPair: *pair, User: user}, nil
}

func (s *AuthService) sendVerification(ctx context.Context, user *domain.User) {
	token, _, err := s.tokens.Generate(user.ID, domain.TokenEmailVerification)
	if err != nil {
		logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to issue verification token")
		return
	}
	if err := s.notifier.SendVerification(ctx, user, token); err != nil {
		logger.Warn().Err(err).Str("user_id", user.ID).Msg("failed to send verification")
	}
}

type loginFields struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	in := loginFields{Email: normalizeEmail(email), Password: password}
	if err := ValidateStruct(in); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, storageError(err)
	}
	if user == nil || !checkPassword(password, user.PasswordHash) {
		logger.Warn().Str("email", in.Email).Msg("login failed")
		return nil, errInvalidCredentials
	}

	pair, err := s.tokens.GeneratePair(user.ID)
	if err != nil {
		return nil, domain.InternalError(err)
	}
	return &domain.AuthResult{TokenPair: *pair, User: user}, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, domain.AuthError("Refresh token required")
	}

	claims, err := s.tokens.Verify(refreshToken, domain.TokenRefresh)
	if err != nil {
		return nil, domain.AuthError("Invalid refresh token")
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, storageError(err)
	}
	if user == nil {
		return nil, domain.AuthError("User not found")
	}

	pair, err := s.tokens.GeneratePair(user.ID)
	if err != nil {
		return nil, domain.InternalError(err)
	}
	return pair, nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ValidationError("Verification token required")
	}

	claims, err := s.tokens.Verify(token, domain.TokenEmailVerification)
	if err != nil {
		return nil, domain.ValidationError("Invalid or expired verification token")
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, storageError(err)
	}
	if user == nil {
		return nil, errUserNotFound
	}

	if !user.IsVerified {
		user.IsVerified = true
		user.UpdatedAt = s.now().UTC()
		if err := s.users.UpdateUser(ctx, user); err != nil {
			return nil, storageError(err)
		}
	}
	return user, nil
}

type emailFields struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPassword issues a reset token when the account exists. The outcome
// is the same either way so callers cannot enumerate registered emails.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	in := emailFields{Email: normalizeEmail(email)}
	if err := ValidateStruct(in); err != nil {
		return err
	}

	user, err := s.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return storageError(err)
	}
	if user == nil {
		return nil
	}

	token, _, err := s.tokens.Generate(user.ID, domain.TokenPasswordReset)
	if err != nil {
		return domain.InternalError(err)
	}
	if err := s.notifier.SendPasswordReset(ctx, user, token); err != nil {
		logger.Warn().Err(err).Str("user_id", user.ID).Msg("failed to send password reset")
	}
	return nil
}

type passwordFields struct {
	Password string `json:"password" validate:"required,min=6,max=72"`
}

func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	if token == "" {
		return domain.ValidationError("Reset token required")
	}
	if err := ValidateStruct(passwordFields{Password: password}); err != nil {
		return err
	}

	claims, err := s.tokens.Verify(token, domain.TokenPasswordReset)
	if err != nil {
		return domain.ValidationError("Invalid or expired reset token")
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return storageError(err)
	}
	if user == nil {
		return errUserNotFound
	}

	hash, err := hashPassword(password, s.hashCost)
	if err != nil {
		return domain.InternalError(err)
	}
	user.PasswordHash = hash
	user.UpdatedAt = s.now().UTC()
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return storageError(err)
	}

	logger.Info().Str("user_id", user.ID).Msg("password reset")
	return nil
}

// GoogleSignIn finds the account owning email or creates one. Google has
// already verified the address.
func (s *AuthService) GoogleSignIn(ctx context.Context, email, name, picture string) (*domain.AuthResult, error) {
	email = normalizeEmail(email)
	if err := ValidateStruct(emailFields{Email: email}); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, storageError(err)
	}

	if user == nil {
		user, err = s.createFederatedUser(ctx, email, name, picture)
		if err != nil {
			return nil, err
		}
	} else if !user.IsVerified {
		user.IsVerified = true
		user.UpdatedAt = s.now().UTC()
		if err := s.users.UpdateUser(ctx, user); err != nil {
			return nil, storageError(err)
		}
	}

	pair, err := s.tokens.GeneratePair(user.ID)
	if err != nil {
		return nil, domain.InternalError(err)
	}
	return &domain.AuthResult{TokenPair: *pair, User: user}, nil
}

func (s *AuthService) createFederatedUser(ctx context.Context, email, name, picture string) (*domain.User, error) {
	// The account has no usable password until the owner resets it
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, domain.InternalError(err)
	}
	hash, err := hashPassword(hex.EncodeToString(secret), s.hashCost)
	if err != nil {
		return nil, domain.InternalError(err)
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Profile: domain.Profile{
			DisplayName: name,
			Avatar:      picture,
			Theme:       domain.DefaultTheme(),
		},
		IsVerified: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	for attempt := 0; attempt < 5; attempt++ {
		user.Username, err = generateUsername(email)
		if err != nil {
			return nil, domain.InternalError(err)
		}
		err = s.users.CreateUser(ctx, user)
		if err == nil {
			logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user created from google sign-in")
			return user, nil
		}
		if !errors.Is(err, ports.ErrDuplicate) {
			return nil, storageError(err)
		}
	}
	return nil, domain.InternalError(fmt.Errorf("no free username for %s", email))
}

// Authenticate resolves an access token to the id of an existing user.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (string, error) {
	if accessToken == "" {
		return "", domain.AuthError("Not authorized, no token")
	}

	claims, err := s.tokens.Verify(accessToken, domain.TokenAccess)
	if err != nil {
		return "", domain.AuthError("Not authorized, token failed")
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return "", storageError(err)
	}
	if user == nil {
		return "", domain.AuthError("Not authorized, user not found")
	}
	return user.ID, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to generate hash from password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// generateUsername derives a username from the email local part plus a
// four digit suffix, keeping only letters and digits.
func generateUsername(email string) (string, error) {
	local, _, _ := strings.Cut(email, "@")

	var b strings.Builder
	for _, r := range local {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	base := b.String()
	if len(base) < 3 {
		base = "user" + base
	}
	if len(base) > 26 {
		base = base[:26]
	}

	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%d", base, 1000+n.Int64()), nil
}
