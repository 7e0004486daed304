package leaguedomain

import (
	"fmt"

	"github.com/google/uuid"
)

// PendingNotification is produced by an engine operation and dispatched only
// after the operation's transaction commits.
type PendingNotification struct {
	LeagueID uuid.UUID
	UserID   string
	Type     NotificationType
	Title    string
	Message  string
	DeepLink string
}

const eliminatedTitle = "You've been eliminated"

func leagueLink(leagueID uuid.UUID) string {
	return "/leagues/" + leagueID.String()
}

// NoPickElimination is sent when a round locks without a pick.
func NoPickElimination(leagueID uuid.UUID, userID string) PendingNotification {
	return PendingNotification{
		LeagueID: leagueID,
		UserID:   userID,
		Type:     NotificationEliminated,
		Title:    eliminatedTitle,
		Message:  "No pick was made before the deadline.",
		DeepLink: leagueLink(leagueID),
	}
}

// ResultElimination is sent when a validated pick lost or drew.
func ResultElimination(leagueID uuid.UUID, userID string, result Result) PendingNotification {
	verb := "lost"
	if result == ResultDraw {
		verb = "drew"
	}
	return PendingNotification{
		LeagueID: leagueID,
		UserID:   userID,
		Type:     NotificationEliminated,
		Title:    eliminatedTitle,
		Message:  fmt.Sprintf("Your team %s. Better luck next time!", verb),
		DeepLink: leagueLink(leagueID),
	}
}

// AdminElimination is sent when the league admin removes a participant.
func AdminElimination(leagueID uuid.UUID, userID string, roundNumber int) PendingNotification {
	return PendingNotification{
		LeagueID: leagueID,
		UserID:   userID,
		Type:     NotificationEliminated,
		Title:    eliminatedTitle,
		Message:  fmt.Sprintf("You were manually eliminated by the league admin in Round %d.", roundNumber),
		DeepLink: leagueLink(leagueID),
	}
}

// Winner is sent to each league winner.
func Winner(leagueID uuid.UUID, userID string) PendingNotification {
	return PendingNotification{
		LeagueID: leagueID,
		UserID:   userID,
		Type:     NotificationLeagueWinner,
		Title:    "🎉 You won!",
		Message:  "Congratulations! You are a league winner.",
		DeepLink: leagueLink(leagueID),
	}
}

// AdminMessage is a free-form broadcast from the league admin.
func AdminMessage(leagueID uuid.UUID, userID, title, message string) PendingNotification {
	return PendingNotification{
		LeagueID: leagueID,
		UserID:   userID,
		Type:     NotificationAdminMessage,
		Title:    title,
		Message:  message,
		DeepLink: leagueLink(leagueID),
	}
}
