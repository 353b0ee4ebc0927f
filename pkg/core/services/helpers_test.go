package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/linkbio/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/linkbio/pkg/config"
	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
	"golang.org/x/crypto/bcrypt"
)

func newTestRepo(t *testing.T) *sqlite.SQLiteRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	repo, err := sqlite.NewSQLiteRepository(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func testTokenConfig() config.TokenConfig {
	return config.TokenConfig{
		Issuer:         "linkbio-test",
		AccessSecret:   "access-secret",
		RefreshSecret:  "refresh-secret",
		EmailSecret:    "email-secret",
		PasswordSecret: "password-secret",
		AccessTTL:      15 * time.Minute,
		RefreshTTL:     7 * 24 * time.Hour,
		EmailTTL:       time.Hour,
		PasswordTTL:    time.Hour,
	}
}

// seedUser stores a user whose password is "secret123".
func seedUser(t *testing.T, repo *sqlite.SQLiteRepository, username string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Profile:      domain.Profile{Theme: domain.DefaultTheme()},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

type sentToken struct {
	userID string
	token  string
}

type recordingNotifier struct {
	mu           sync.Mutex
	verification []sentToken
	reset        []sentToken
}

func (n *recordingNotifier) SendVerification(ctx context.Context, user *domain.User, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.verification = append(n.verification, sentToken{userID: user.ID, token: token})
	return nil
}

func (n *recordingNotifier) SendPasswordReset(ctx context.Context, user *domain.User, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reset = append(n.reset, sentToken{userID: user.ID, token: token})
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
