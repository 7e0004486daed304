package leagueservice

import (
	"context"
	"fmt"
	"strings"

	leaguedomain "github.com/Black-And-White-Club/lastman/app/modules/league/domain"
	leaguedb "github.com/Black-And-White-Club/lastman/app/modules/league/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// SendManualNotification sends an admin message to the chosen audience and
// returns how many participants it targeted.
func (s *LeagueService) SendManualNotification(ctx context.Context, req ManualNotificationRequest) (int, error) {
	box := &outbox{}
	count, err := execute(s, ctx, "SendManualNotification", req.LeagueID.String(), func(ctx context.Context, db bun.IDB) (int, error) {
		return s.manualNotificationLogic(ctx, db, req, box)
	})
	if err != nil {
		return 0, err
	}
	s.dispatch(ctx, "SendManualNotification", box)
	return count, nil
}

func (s *LeagueService) manualNotificationLogic(ctx context.Context, db bun.IDB, req ManualNotificationRequest, box *outbox) (int, error) {
	title := strings.TrimSpace(req.Title)
	message := strings.TrimSpace(req.Message)
	if title == "" || message == "" {
		return 0, invalid("notification", "title and message are required")
	}
	if !req.Audience.IsValid() {
		return 0, invalid("audience", "must be ALL_PLAYERS or UNPICKED")
	}
	if req.Audience == leaguedomain.AudienceUnpicked && req.RoundID == nil {
		return 0, invalid("roundId", "is required for the UNPICKED audience")
	}

	if _, err := s.authorizeOwner(ctx, db, req.LeagueID, req.CallerID); err != nil {
		return 0, err
	}

	var recipients []*leaguedb.Participant
	switch req.Audience {
	case leaguedomain.AudienceAllPlayers:
		all, err := s.repo.ListParticipants(ctx, db, req.LeagueID)
		if err != nil {
			return 0, fmt.Errorf("failed to list participants: %w", err)
		}
		recipients = all
	case leaguedomain.AudienceUnpicked:
		if _, err := s.loadRound(ctx, db, req.LeagueID, *req.RoundID); err != nil {
			return 0, err
		}
		active, err := s.repo.ListActiveParticipants(ctx, db, req.LeagueID)
		if err != nil {
			return 0, fmt.Errorf("failed to list active participants: %w", err)
		}
		selections, err := s.repo.ListSelections(ctx, db, req.LeagueID, *req.RoundID)
		if err != nil {
			return 0, fmt.Errorf("failed to list selections: %w", err)
		}
		recipients = unpicked(active, selections)
	}

	for _, p := range recipients {
		box.add(leaguedomain.AdminMessage(req.LeagueID, p.UserID, title, message))
	}
	return len(recipients), nil
}
