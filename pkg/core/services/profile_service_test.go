package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
)

func TestProfileService_UpdateProfile(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewProfileService(repo, repo)
	alice := seedUser(t, repo, "alice")
	ctx := context.Background()

	user, err := svc.UpdateProfile(ctx, alice.ID, ports.ProfileUpdate{
		DisplayName: ptr(" Alice A. "),
		Bio:         ptr("Writes Go"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice A.", user.Profile.DisplayName)
	assert.Equal(t, "Writes Go", user.Profile.Bio)

	// Omitted fields are kept
	user, err = svc.UpdateProfile(ctx, alice.ID, ports.ProfileUpdate{Bio: ptr("")})
	require.NoError(t, err)
	assert.Equal(t, "Alice A.", user.Profile.DisplayName)
	assert.Empty(t, user.Profile.Bio)

	_, err = svc.UpdateProfile(ctx, alice.ID, ports.ProfileUpdate{Bio: ptr(strings.Repeat("b", 201))})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.UpdateProfile(ctx, alice.ID, ports.ProfileUpdate{DisplayName: ptr(strings.Repeat("d", 51))})
	assert.ErrorIs(t, err, domain.ErrValidation)

	stored, err := svc.GetProfile(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice A.", stored.Profile.DisplayName)
	assert.Equal(t, domain.DefaultTheme(), stored.Profile.Theme)
}

func TestProfileService_UpdateTheme(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewProfileService(repo, repo)
	alice := seedUser(t, repo, "alice")
	ctx := context.Background()

	theme := domain.Theme{
		BackgroundColor: "#101010",
		TextColor:       "#fff",
		ButtonColor:     "#ABCDEF",
		ButtonTextColor: "#000",
	}
	got, err := svc.UpdateTheme(ctx, alice.ID, theme)
	require.NoError(t, err)
	assert.Equal(t, theme, *got)

	tests := []struct {
		name  string
		theme domain.Theme
		field string
	}{
		{name: "missing color", theme: domain.Theme{TextColor: "#fff", ButtonColor: "#fff", ButtonTextColor: "#fff"}, field: "backgroundColor"},
		{name: "named color", theme: domain.Theme{BackgroundColor: "#fff", TextColor: "red", ButtonColor: "#fff", ButtonTextColor: "#fff"}, field: "textColor"},
		{name: "four digits", theme: domain.Theme{BackgroundColor: "#fff", TextColor: "#fff", ButtonColor: "#ffff", ButtonTextColor: "#fff"}, field: "buttonColor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateTheme(ctx, alice.ID, tt.theme)
			require.ErrorIs(t, err, domain.ErrValidation)

			var de *domain.Error
			require.ErrorAs(t, err, &de)
			require.Len(t, de.Fields, 1)
			assert.Equal(t, tt.field, de.Fields[0].Field)
		})
	}

	stored, err := svc.GetProfile(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, theme, stored.Profile.Theme)
}

func TestProfileService_DeleteAccount(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewProfileService(repo, repo)
	links := NewLinkService(repo)
	alice := seedUser(t, repo, "alice")
	bob := seedUser(t, repo, "bob")
	ctx := context.Background()

	aliceLinks := createLinks(t, links, alice.ID, 2)
	bobLinks := createLinks(t, links, bob.ID, 1)
	require.NoError(t, links.RecordClick(ctx, ports.ClickInput{LinkID: aliceLinks[0].ID, UserID: alice.ID}))
	require.NoError(t, links.RecordClick(ctx, ports.ClickInput{LinkID: bobLinks[0].ID, UserID: bob.ID}))

	err := svc.DeleteAccount(ctx, alice.ID, "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = svc.DeleteAccount(ctx, alice.ID, "wrong-password")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, svc.DeleteAccount(ctx, alice.ID, "secret123"))

	_, err = svc.GetProfile(ctx, alice.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	remaining, err := repo.ListLinks(ctx, alice.ID, false)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	count, err := repo.CountEvents(ctx, alice.ID, domain.DateRange{})
	require.NoError(t, err)
	assert.Zero(t, count)

	// Other accounts are untouched
	bobRemaining, err := repo.ListLinks(ctx, bob.ID, false)
	require.NoError(t, err)
	assert.Len(t, bobRemaining, 1)
	bobCount, err := repo.CountEvents(ctx, bob.ID, domain.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), bobCount)
}

func TestProfileService_DeleteAccountKeepsOtherCountersInSync(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewProfileService(repo, repo)
	links := NewLinkService(repo)
	alice := seedUser(t, repo, "alice")
	bob := seedUser(t, repo, "bob")
	ctx := context.Background()

	aliceLink := createLinks(t, links, alice.ID, 1)[0]
	for i := 0; i < 3; i++ {
		require.NoError(t, links.RecordClick(ctx, ports.ClickInput{LinkID: aliceLink.ID, UserID: bob.ID}))
	}
	require.NoError(t, links.RecordClick(ctx, ports.ClickInput{LinkID: aliceLink.ID, UserID: alice.ID}))

	require.NoError(t, svc.DeleteAccount(ctx, bob.ID, "secret123"))

	stored, err := repo.GetUserLink(ctx, alice.ID, aliceLink.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)

	events, err := repo.LinkEvents(ctx, aliceLink.ID, domain.DateRange{})
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, int64(len(events)), stored.Clicks)
}

func TestProfileService_PublicProfile(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewProfileService(repo, repo)
	links := NewLinkService(repo)
	alice := seedUser(t, repo, "alice")
	ctx := context.Background()

	created := createLinks(t, links, alice.ID, 3)
	_, err := links.Update(ctx, alice.ID, created[1].ID, domain.LinkPatch{IsActive: ptr(false)})
	require.NoError(t, err)

	profile, err := svc.PublicProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, profile.User.ID)
	assert.Equal(t, "alice", profile.User.Username)
	require.Len(t, profile.Links, 2)
	assert.Equal(t, created[0].ID, profile.Links[0].ID)
	assert.Equal(t, created[2].ID, profile.Links[1].ID)

	body, err := json.Marshal(profile)
	require.NoError(t, err)
	assert.NotContains(t, string(body), alice.Email)
	assert.NotContains(t, string(body), "isVerified")
	assert.NotContains(t, string(body), "userId")

	_, err = svc.PublicProfile(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProfileService_PublicProfileWithoutLinks(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewProfileService(repo, repo)
	seedUser(t, repo, "alice")

	profile, err := svc.PublicProfile(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotNil(t, profile.Links)
	assert.Empty(t, profile.Links)
}

func TestProfileService_UpdatedAt(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewProfileService(repo, repo)
	alice := seedUser(t, repo, "alice")

	later := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = fixedClock(later)

	user, err := svc.UpdateProfile(context.Background(), alice.ID, ports.ProfileUpdate{DisplayName: ptr("A")})
	require.NoError(t, err)
	assert.True(t, later.Equal(user.UpdatedAt))

	stored, err := svc.GetProfile(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.True(t, later.Equal(stored.UpdatedAt))
}
