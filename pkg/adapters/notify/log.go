// Package notify delivers verification and password reset tokens.
package notify

import (
	"context"
	"net/url"
	"strings"

	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkbio/pkg/logger"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
)

// LogNotifier writes the links a mailer would send to the log. The token
// itself only appears at debug level.
type LogNotifier struct {
	frontendURL string
}

var _ ports.Notifier = (*LogNotifier)(nil)

func NewLogNotifier(frontendURL string) *LogNotifier {
	return &LogNotifier{frontendURL: strings.TrimRight(frontendURL, "/")}
}

func (n *LogNotifier) SendVerification(ctx context.Context, user *domain.User, token string) error {
	n.send(user, "verify-email", token)
	return nil
}

func (n *LogNotifier) SendPasswordReset(ctx context.Context, user *domain.User, token string) error {
	n.send(user, "reset-password", token)
	return nil
}

func (n *LogNotifier) send(user *domain.User, page, token string) {
	link := n.frontendURL + "/" + page + "?token=" + url.QueryEscape(token)

	logger.Info().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Str("kind", page).
		Msg("notification logged")
	logger.Debug().
		Str("user_id", user.ID).
		Str("link", link).
		Msg("notification link")
}
