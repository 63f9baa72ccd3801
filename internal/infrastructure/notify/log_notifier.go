package notify

import (
	"context"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/campusdesk/accounts/internal/core/domain"
	"github.com/campusdesk/accounts/internal/core/ports"
)

// LogNotifier delivers password reset links to the service log. It stands in
// for a mail transport in development deployments.
type LogNotifier struct {
	baseURL string
	log     zerolog.Logger
}

var _ ports.ResetNotifier = (*LogNotifier)(nil)

func NewLogNotifier(baseURL string, log zerolog.Logger) *LogNotifier {
	return &LogNotifier{baseURL: baseURL, log: log}
}

func (n *LogNotifier) NotifyPasswordReset(_ context.Context, identity *domain.Identity, token string) error {
	n.log.Info().
		Str("identity_id", identity.ID).
		Str("email", identity.Email).
		Str("reset_link", ResetLink(n.baseURL, token)).
		Msg("password reset requested")
	return nil
}

// ResetLink appends token as the "token" query parameter of baseURL.
func ResetLink(baseURL, token string) string {
	sep := "?"
	if strings.Contains(baseURL, "?") {
		sep = "&"
	}
	return baseURL + sep + "token=" + url.QueryEscape(token)
}
