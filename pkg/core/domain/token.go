package domain

import "time"

type TokenType string

const (
	TokenAccess            TokenType = "access"
	TokenRefresh           TokenType = "refresh"
	TokenEmailVerification TokenType = "email-verification"
	TokenPasswordReset     TokenType = "password-reset"
)

// TokenPair is returned on register, login and refresh.
type TokenPair struct {
	AccessToken         string    `json:"accessToken"`
	RefreshToken        string    `json:"refreshToken"`
	AccessTokenExpires  time.Time `json:"accessTokenExpires"`
	RefreshTokenExpires time.Time `json:"refreshTokenExpires"`
}

// AuthResult is a token pair plus the account it was issued for.
type AuthResult struct {
	TokenPair
	User *User `json:"user,omitempty"`
}
