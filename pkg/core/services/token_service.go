package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/wadjakorntonsri/linkbio/pkg/config"
	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
)

var errTokenType = errors.New("token type mismatch")

// Claims is the payload of every token the service issues.
type Claims struct {
	UserID string           `json:"userId"`
	Type   domain.TokenType `json:"type"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-bounded tokens. Each token
// type has its own secret so a token of one type never verifies as another.
type TokenService struct {
	cfg config.TokenConfig
	now func() time.Time
}

func NewTokenService(cfg config.TokenConfig) *TokenService {
	return &TokenService{cfg: cfg, now: time.Now}
}

func (s *TokenService) keyFor(t domain.TokenType) ([]byte, time.Duration, error) {
	switch t {
	case domain.TokenAccess:
		return []byte(s.cfg.AccessSecret), s.cfg.AccessTTL, nil
	case domain.TokenRefresh:
		return []byte(s.cfg.RefreshSecret), s.cfg.RefreshTTL, nil
	case domain.TokenEmailVerification:
		return []byte(s.cfg.EmailSecret), s.cfg.EmailTTL, nil
	case domain.TokenPasswordReset:
		return []byte(s.cfg.PasswordSecret), s.cfg.PasswordTTL, nil
	default:
		return nil, 0, fmt.Errorf("invalid token type %q", t)
	}
}

// Generate signs a token of type t for userID and returns its expiry.
func (s *TokenService) Generate(userID string, t domain.TokenType) (string, time.Time, error) {
	secret, ttl, err := s.keyFor(t)
	if err != nil {
		return "", time.Time{}, err
	}

	now := s.now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		UserID: userID,
		Type:   t,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.cfg.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	// Expiry as encoded, truncated to whole seconds
	return signed, claims.ExpiresAt.Time, nil
}

// Verify parses tokenString and checks signature, issuer, expiry and type.
func (s *TokenService) Verify(tokenString string, t domain.TokenType) (*Claims, error) {
	secret, _, err := s.keyFor(t)
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Type != t || claims.UserID == "" {
		return nil, errTokenType
	}
	return claims, nil
}

// GeneratePair issues a fresh access and refresh token.
func (s *TokenService) GeneratePair(userID string) (*domain.TokenPair, error) {
	access, accessExp, err := s.Generate(userID, domain.TokenAccess)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.Generate(userID, domain.TokenRefresh)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{
		AccessToken:         access,
		RefreshToken:        refresh,
		AccessTokenExpires:  accessExp,
		RefreshTokenExpires: refreshExp,
	}, nil
}
