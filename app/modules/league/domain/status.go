package leaguedomain

// LeagueStatus is the lifecycle state of a league.
type LeagueStatus string

const (
	LeagueStatusActive    LeagueStatus = "ACTIVE"
	LeagueStatusCompleted LeagueStatus = "COMPLETED"
	LeagueStatusArchived  LeagueStatus = "ARCHIVED"
)

func (s LeagueStatus) IsValid() bool {
	switch s {
	case LeagueStatusActive, LeagueStatusCompleted, LeagueStatusArchived:
		return true
	default:
		return false
	}
}

// RoundStatus is the lifecycle state of a round.
type RoundStatus string

const (
	RoundStatusOpen      RoundStatus = "OPEN"
	RoundStatusLocked    RoundStatus = "LOCKED"
	RoundStatusValidated RoundStatus = "VALIDATED"
)

func (s RoundStatus) IsValid() bool {
	switch s {
	case RoundStatusOpen, RoundStatusLocked, RoundStatusValidated:
		return true
	default:
		return false
	}
}

// Result is the outcome of a selection.
type Result string

const (
	ResultWin  Result = "WIN"
	ResultLoss Result = "LOSS"
	ResultDraw Result = "DRAW"
)

func (r Result) IsValid() bool {
	switch r {
	case ResultWin, ResultLoss, ResultDraw:
		return true
	default:
		return false
	}
}

// Eliminates reports whether the result knocks a participant out. Draws do.
func (r Result) Eliminates() bool {
	return r == ResultLoss || r == ResultDraw
}

// EliminationReason records why a participant was eliminated.
type EliminationReason string

const (
	EliminationReasonLoss   EliminationReason = "LOSS"
	EliminationReasonNoPick EliminationReason = "NO_PICK"
	EliminationReasonAdmin  EliminationReason = "ADMIN"
)

func (r EliminationReason) IsValid() bool {
	switch r {
	case EliminationReasonLoss, EliminationReasonNoPick, EliminationReasonAdmin:
		return true
	default:
		return false
	}
}

// FixtureStatus is the state of a fixture as reported by the results feed.
type FixtureStatus string

const (
	FixtureStatusScheduled FixtureStatus = "SCHEDULED"
	FixtureStatusLive      FixtureStatus = "LIVE"
	FixtureStatusFinished  FixtureStatus = "FINISHED"
	FixtureStatusCancelled FixtureStatus = "CANCELLED"
)

func (s FixtureStatus) IsValid() bool {
	switch s {
	case FixtureStatusScheduled, FixtureStatusLive, FixtureStatusFinished, FixtureStatusCancelled:
		return true
	default:
		return false
	}
}

// NotificationType classifies a notification.
type NotificationType string

const (
	NotificationRoundOpened  NotificationType = "ROUND_OPENED"
	NotificationRoundLocked  NotificationType = "ROUND_LOCKED"
	NotificationEliminated   NotificationType = "ELIMINATED"
	NotificationLeagueWinner NotificationType = "LEAGUE_WINNER"
	NotificationAdminMessage NotificationType = "ADMIN_MESSAGE"
)

func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationRoundOpened, NotificationRoundLocked, NotificationEliminated, NotificationLeagueWinner, NotificationAdminMessage:
		return true
	default:
		return false
	}
}

// Audience selects the recipients of an admin broadcast.
type Audience string

const (
	AudienceAllPlayers Audience = "ALL_PLAYERS"
	AudienceUnpicked   Audience = "UNPICKED"
)

func (a Audience) IsValid() bool {
	return a == AudienceAllPlayers || a == AudienceUnpicked
}
