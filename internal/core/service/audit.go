package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusdesk/accounts/internal/core/domain"
	"github.com/campusdesk/accounts/internal/core/ports"
)

// auditor writes the account audit trail. Failures are logged and never
// propagate to the caller.
type auditor struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

func (a auditor) record(ctx context.Context, identityID, actorID string, action domain.AccountAction) {
	if a.repo == nil {
		return
	}
	event := &domain.AccountEvent{
		IdentityID: identityID,
		ActorID:    actorID,
		Action:     action,
		At:         time.Now().UTC(),
	}
	if err := a.repo.InsertEvent(ctx, event); err != nil {
		a.log.Warn().Err(err).
			Str("identity_id", identityID).
			Str("action", string(action)).
			Msg("failed to insert audit event")
	}
}
