package ports

import (
	"context"
	"errors"
	"time"

	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
)

// Repository errors. Lookups report a missing row as (nil, nil); mutations
// of a missing row return ErrNotFound.
var (
	ErrNotFound  = errors.New("repository: record not found")
	ErrDuplicate = errors.New("repository: duplicate entry")
)

// UserRepository defines storage operations for accounts
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id string) error // Cascades links and analytics
}

// LinkRepository defines storage operations for links
type LinkRepository interface {
	// CreateLink appends the link after the owner's last position and
	// stores the assigned position in link.Position.
	CreateLink(ctx context.Context, link *domain.Link) error
	GetUserLink(ctx context.Context, userID, id string) (*domain.Link, error)
	ListLinks(ctx context.Context, userID string, activeOnly bool) ([]domain.Link, error)
	UpdateLink(ctx context.Context, link *domain.Link) error
	DeleteLink(ctx context.Context, userID, id string) error
	ReorderLinks(ctx context.Context, userID string, ids []string) error

	// RecordClick increments the link counter and appends the event in one
	// transaction.
	RecordClick(ctx context.Context, event *domain.ClickEvent) error
}

// AnalyticsRepository defines aggregation queries over click events
type AnalyticsRepository interface {
	CountEvents(ctx context.Context, userID string, r domain.DateRange) (int64, error)
	DailyClicks(ctx context.Context, userID string, since time.Time) ([]domain.DailyClick, error)
	TopLinks(ctx context.Context, userID string, limit int) ([]domain.LinkRank, error)
	LinkEvents(ctx context.Context, linkID string, r domain.DateRange) ([]domain.ClickEvent, error)
	ReferrerCounts(ctx context.Context, linkID string, r domain.DateRange) ([]domain.ReferrerCount, error)
}

// Notifier delivers out-of-band tokens (verification, password reset).
type Notifier interface {
	SendVerification(ctx context.Context, user *domain.User, token string) error
	SendPasswordReset(ctx context.Context, user *domain.User, token string) error
}

// LinkInput is the payload of a new link.
type LinkInput struct {
	Title string
	URL   string
	Icon  string
}

// ClickInput describes the request that produced a click.
type ClickInput struct {
	LinkID    string
	UserID    string
	IPAddress string
	UserAgent string
	Referrer  string
}

// LinkService defines the link registry operations
type LinkService interface {
	List(ctx context.Context, userID string) ([]domain.Link, error)
	Create(ctx context.Context, userID string, in LinkInput) (*domain.Link, error)
	Update(ctx context.Context, userID, linkID string, patch domain.LinkPatch) (*domain.Link, error)
	Delete(ctx context.Context, userID, linkID string) error
	Reorder(ctx context.Context, userID string, linkIDs []string) ([]domain.Link, error)
	RecordClick(ctx context.Context, in ClickInput) error
}

// AnalyticsService defines the click aggregation operations
type AnalyticsService interface {
	TotalClicks(ctx context.Context, userID string, r domain.DateRange) (int64, error)
	DailyClickSeries(ctx context.Context, userID string) ([]domain.DailyClick, error)
	TopLinks(ctx context.Context, userID string, limit int) ([]domain.LinkRank, error)
	LinkDetail(ctx context.Context, userID, linkID string, r domain.DateRange) (*domain.LinkDetail, error)
	Summary(ctx context.Context, userID string, r domain.DateRange) (*domain.Summary, error)
}

// AuthService defines registration, login and token flows
type AuthService interface {
	Register(ctx context.Context, username, email, password, confirmPassword string) (*domain.AuthResult, error)
	Login(ctx context.Context, email, password string) (*domain.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	VerifyEmail(ctx context.Context, token string) (*domain.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
	GoogleSignIn(ctx context.Context, email, name, picture string) (*domain.AuthResult, error)
	Authenticate(ctx context.Context, accessToken string) (string, error)
}

// ProfileUpdate is a partial profile update; nil fields are left unchanged.
type ProfileUpdate struct {
	DisplayName *string
	Bio         *string
}

// ProfileService defines account and public profile operations
type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*domain.User, error)
	UpdateTheme(ctx context.Context, userID string, theme domain.Theme) (*domain.Theme, error)
	DeleteAccount(ctx context.Context, userID, confirmPassword string) error
	PublicProfile(ctx context.Context, username string) (*domain.PublicProfile, error)
}
