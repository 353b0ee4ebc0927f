package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkbio/pkg/logger"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
)

type ProfileService struct {
	users ports.UserRepository
	links ports.LinkRepository
	now   func() time.Time
}

func NewProfileService(users ports.UserRepository, links ports.LinkRepository) *ProfileService {
	return &ProfileService{users: users, links: links, now: time.Now}
}

type profileFields struct {
	DisplayName *string `json:"displayName" validate:"omitnil,max=50"`
	Bio         *string `json:"bio" validate:"omitnil,max=200"`
}

type themeFields struct {
	BackgroundColor string `json:"backgroundColor" validate:"required,themecolor"`
	TextColor       string `json:"textColor" validate:"required,themecolor"`
	ButtonColor     string `json:"buttonColor" validate:"required,themecolor"`
	ButtonTextColor string `json:"buttonTextColor" validate:"required,themecolor"`
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.user(ctx, userID)
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, update ports.ProfileUpdate) (*domain.User, error) {
	if update.DisplayName != nil {
		v := strings.TrimSpace(*update.DisplayName)
		update.DisplayName = &v
	}
	if update.Bio != nil {
		v := strings.TrimSpace(*update.Bio)
		update.Bio = &v
	}
	if err := ValidateStruct(profileFields{DisplayName: update.DisplayName, Bio: update.Bio}); err != nil {
		return nil, err
	}

	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	if update.DisplayName != nil {
		user.Profile.DisplayName = *update.DisplayName
	}
	if update.Bio != nil {
		user.Profile.Bio = *update.Bio
	}
	if err := s.save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *ProfileService) UpdateTheme(ctx context.Context, userID string, theme domain.Theme) (*domain.Theme, error) {
	if err := ValidateStruct(themeFields(theme)); err != nil {
		return nil, err
	}

	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Profile.Theme = theme
	if err := s.save(ctx, user); err != nil {
		return nil, err
	}
	return &user.Profile.Theme, nil
}

// DeleteAccount removes the user with all links and click events after
// checking confirmPassword against the stored hash.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID, confirmPassword string) error {
	if confirmPassword == "" {
		return domain.ValidationError("Please confirm your password",
			domain.FieldError{Field: "confirmPassword", Message: "confirmPassword is required"})
	}

	user, err := s.user(ctx, userID)
	if err != nil {
		return err
	}
	if !checkPassword(confirmPassword, user.PasswordHash) {
		return domain.AuthError("Invalid password")
	}

	if err := s.users.DeleteUser(ctx, user.ID); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return errUserNotFound
		}
		return storageError(err)
	}
	logger.Info().Str("user_id", user.ID).Msg("account deleted")
	return nil
}

// PublicProfile resolves a username to its public page. Inactive links are
// left out.
func (s *ProfileService) PublicProfile(ctx context.Context, username string) (*domain.PublicProfile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errUserNotFound
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, storageError(err)
	}
	if user == nil {
		return nil, errUserNotFound
	}

	links, err := s.links.ListLinks(ctx, user.ID, true)
	if err != nil {
		return nil, storageError(err)
	}

	public := make([]domain.PublicLink, 0, len(links))
	for _, l := range links {
		public = append(public, l.Public())
	}
	return &domain.PublicProfile{
		User: domain.PublicUser{
			ID:       user.ID,
			Username: user.Username,
			Profile:  user.Profile,
		},
		Links: public,
	}, nil
}

func (s *ProfileService) user(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, storageError(err)
	}
	if user == nil {
		return nil, errUserNotFound
	}
	return user, nil
}

func (s *ProfileService) save(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = s.now().UTC()
	if err := s.users.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return errUserNotFound
		}
		return storageError(err)
	}
	return nil
}
