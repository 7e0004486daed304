package leagueservice

import (
	leaguedomain "github.com/Black-And-White-Club/lastman/app/modules/league/domain"
	leaguedb "github.com/Black-And-White-Club/lastman/app/modules/league/infrastructure/repositories"
	"github.com/google/uuid"
)

// unpicked returns the participants in active with no selection.
func unpicked(active []*leaguedb.Participant, selections []*leaguedb.Selection) []*leaguedb.Participant {
	picked := make(map[string]struct{}, len(selections))
	for _, sel := range selections {
		picked[sel.UserID] = struct{}{}
	}
	var out []*leaguedb.Participant
	for _, p := range active {
		if _, ok := picked[p.UserID]; !ok {
			out = append(out, p)
		}
	}
	return out
}

func indexFixtures(fixtures []*leaguedb.Fixture) map[uuid.UUID]*leaguedb.Fixture {
	out := make(map[uuid.UUID]*leaguedb.Fixture, len(fixtures))
	for _, f := range fixtures {
		out[f.ID] = f
	}
	return out
}

// indexOverrides keys overrides by selection. Input is oldest first, so the
// newest override for a selection wins.
func indexOverrides(overrides []*leaguedb.AdminOverride) map[uuid.UUID]*leaguedb.AdminOverride {
	out := make(map[uuid.UUID]*leaguedb.AdminOverride, len(overrides))
	for _, o := range overrides {
		out[o.SelectionID] = o
	}
	return out
}

func indexParticipants(participants []*leaguedb.Participant) map[string]*leaguedb.Participant {
	out := make(map[string]*leaguedb.Participant, len(participants))
	for _, p := range participants {
		out[p.UserID] = p
	}
	return out
}

// resolveSelection returns the effective result of a selection. It is nil
// while the fixture is missing or unfinished; otherwise an override replaces
// the computed result.
func resolveSelection(sel *leaguedb.Selection, fixture *leaguedb.Fixture, override *leaguedb.AdminOverride) *leaguedomain.Result {
	if fixture == nil || !fixture.Finished() {
		return nil
	}
	result := leaguedomain.Resolve(fixture.HomeTeamID, fixture.AwayTeamID, *fixture.HomeScore, *fixture.AwayScore, sel.SelectedTeamID)
	if override != nil {
		result = override.OverrideResult
	}
	return &result
}

func sameResult(a, b *leaguedomain.Result) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// elimination is the elimination state of one participant.
type elimination struct {
	Eliminated bool
	Round      int
	Reason     leaguedomain.EliminationReason
}

func eliminationOf(p *leaguedb.Participant) elimination {
	round, reason, ok := p.EliminatedIn()
	if !ok {
		return elimination{}
	}
	return elimination{Eliminated: true, Round: round, Reason: reason}
}

func (e elimination) applyTo(p *leaguedb.Participant) {
	if e.Eliminated {
		p.Eliminate(e.Round, e.Reason)
		return
	}
	p.Reinstate()
}

// replay walks rounds in ascending order and returns the elimination state
// implied by results (keyed by round id): the first LOSS or DRAW decides,
// and no losing result means alive. NO_PICK and ADMIN eliminations are not
// derived from results, so they are returned unchanged.
func replay(current elimination, rounds []*leaguedb.Round, results map[uuid.UUID]*leaguedomain.Result) elimination {
	if current.Eliminated && current.Reason != leaguedomain.EliminationReasonLoss {
		return current
	}
	for _, round := range rounds {
		res := results[round.ID]
		if res != nil && res.Eliminates() {
			return elimination{Eliminated: true, Round: round.Number, Reason: leaguedomain.EliminationReasonLoss}
		}
	}
	return elimination{}
}

func anyActive(participants []*leaguedb.Participant) bool {
	for _, p := range participants {
		if !p.Eliminated {
			return true
		}
	}
	return false
}

// winners are the participants knocked out by a loss in the last round.
func winners(participants []*leaguedb.Participant, lastRound int) []*leaguedb.Participant {
	var out []*leaguedb.Participant
	for _, p := range participants {
		round, reason, ok := p.EliminatedIn()
		if ok && reason == leaguedomain.EliminationReasonLoss && round == lastRound {
			out = append(out, p)
		}
	}
	return out
}

// survivorsAfter counts participants still in the game once round n ends.
func survivorsAfter(participants []*leaguedb.Participant, n int) int {
	count := 0
	for _, p := range participants {
		round, _, ok := p.EliminatedIn()
		if !ok || round > n {
			count++
		}
	}
	return count
}

func userIDs(participants []*leaguedb.Participant) []string {
	out := make([]string, 0, len(participants))
	for _, p := range participants {
		out = append(out, p.UserID)
	}
	return out
}
