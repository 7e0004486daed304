package leagueservice

import (
	"context"
	"sort"
	"sync"

	leaguedomain "github.com/Black-And-White-Club/lastman/app/modules/league/domain"
	leaguedb "github.com/Black-And-White-Club/lastman/app/modules/league/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake League Repo
// ------------------------

// FakeLeagueRepo is an in-memory Repository. Reads hand out copies so the
// service only changes state through the write methods.
type FakeLeagueRepo struct {
	mu    sync.Mutex
	trace []string
	fails map[string]error

	leagues      map[uuid.UUID]*leaguedb.League
	rounds       map[uuid.UUID]*leaguedb.Round
	participants []*leaguedb.Participant
	selections   []*leaguedb.Selection
	fixtures     map[uuid.UUID]*leaguedb.Fixture
	overrides    []*leaguedb.AdminOverride
	winners      []*leaguedb.LeagueWinner

	// UpdateRoundStatusFunc replaces the compare-and-set when set.
	UpdateRoundStatusFunc func(ctx context.Context, db bun.IDB, leagueID, roundID uuid.UUID, from, to leaguedomain.RoundStatus) error
}

func NewFakeLeagueRepo() *FakeLeagueRepo {
	return &FakeLeagueRepo{
		trace:    []string{},
		fails:    map[string]error{},
		leagues:  map[uuid.UUID]*leaguedb.League{},
		rounds:   map[uuid.UUID]*leaguedb.Round{},
		fixtures: map[uuid.UUID]*leaguedb.Fixture{},
	}
}

// FailOn makes the named method return err.
func (f *FakeLeagueRepo) FailOn(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fails[method] = err
}

func (f *FakeLeagueRepo) record(step string) error {
	f.trace = append(f.trace, step)
	return f.fails[step]
}

func (f *FakeLeagueRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func copyLeague(l *leaguedb.League) *leaguedb.League {
	c := *l
	return &c
}

func copyRound(r *leaguedb.Round) *leaguedb.Round {
	c := *r
	return &c
}

func copyFixture(x *leaguedb.Fixture) *leaguedb.Fixture {
	c := *x
	if x.HomeScore != nil {
		h := *x.HomeScore
		c.HomeScore = &h
	}
	if x.AwayScore != nil {
		a := *x.AwayScore
		c.AwayScore = &a
	}
	return &c
}

func copyParticipant(p *leaguedb.Participant) *leaguedb.Participant {
	c := *p
	if p.EliminatedAtRound != nil {
		n := *p.EliminatedAtRound
		c.EliminatedAtRound = &n
	}
	if p.EliminatedReason != nil {
		r := *p.EliminatedReason
		c.EliminatedReason = &r
	}
	return &c
}

func copySelection(s *leaguedb.Selection) *leaguedb.Selection {
	c := *s
	if s.Result != nil {
		r := *s.Result
		c.Result = &r
	}
	return &c
}

func copyOverride(o *leaguedb.AdminOverride) *leaguedb.AdminOverride {
	c := *o
	return &c
}

// --- League ---

func (f *FakeLeagueRepo) CreateLeague(ctx context.Context, db bun.IDB, league *leaguedb.League) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateLeague"); err != nil {
		return err
	}
	f.leagues[league.ID] = copyLeague(league)
	return nil
}

func (f *FakeLeagueRepo) GetLeague(ctx context.Context, db bun.IDB, leagueID uuid.UUID) (*leaguedb.League, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetLeague"); err != nil {
		return nil, err
	}
	l, ok := f.leagues[leagueID]
	if !ok {
		return nil, leaguedb.ErrNotFound
	}
	return copyLeague(l), nil
}

func (f *FakeLeagueRepo) GetLeagueByCode(ctx context.Context, db bun.IDB, code string) (*leaguedb.League, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetLeagueByCode"); err != nil {
		return nil, err
	}
	for _, l := range f.leagues {
		if l.LeagueCode == code {
			return copyLeague(l), nil
		}
	}
	return nil, leaguedb.ErrNotFound
}

func (f *FakeLeagueRepo) UpdateLeagueStatus(ctx context.Context, db bun.IDB, leagueID uuid.UUID, status leaguedomain.LeagueStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UpdateLeagueStatus"); err != nil {
		return err
	}
	l, ok := f.leagues[leagueID]
	if !ok {
		return leaguedb.ErrNoRowsAffected
	}
	l.Status = status
	return nil
}

func (f *FakeLeagueRepo) SetCurrentRound(ctx context.Context, db bun.IDB, leagueID, roundID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("SetCurrentRound"); err != nil {
		return err
	}
	l, ok := f.leagues[leagueID]
	if !ok {
		return leaguedb.ErrNoRowsAffected
	}
	id := roundID
	l.CurrentRoundID = &id
	return nil
}

// --- Round ---

func (f *FakeLeagueRepo) CreateRound(ctx context.Context, db bun.IDB, round *leaguedb.Round) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateRound"); err != nil {
		return err
	}
	f.rounds[round.ID] = copyRound(round)
	return nil
}

func (f *FakeLeagueRepo) GetRound(ctx context.Context, db bun.IDB, leagueID, roundID uuid.UUID) (*leaguedb.Round, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetRound"); err != nil {
		return nil, err
	}
	r, ok := f.rounds[roundID]
	if !ok || r.LeagueID != leagueID {
		return nil, leaguedb.ErrNotFound
	}
	return copyRound(r), nil
}

func (f *FakeLeagueRepo) GetRoundForShare(ctx context.Context, db bun.IDB, leagueID, roundID uuid.UUID) (*leaguedb.Round, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetRoundForShare"); err != nil {
		return nil, err
	}
	r, ok := f.rounds[roundID]
	if !ok || r.LeagueID != leagueID {
		return nil, leaguedb.ErrNotFound
	}
	return copyRound(r), nil
}

func (f *FakeLeagueRepo) ListRounds(ctx context.Context, db bun.IDB, leagueID uuid.UUID) ([]*leaguedb.Round, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListRounds"); err != nil {
		return nil, err
	}
	var out []*leaguedb.Round
	for _, r := range f.rounds {
		if r.LeagueID == leagueID {
			out = append(out, copyRound(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (f *FakeLeagueRepo) MaxRoundNumber(ctx context.Context, db bun.IDB, leagueID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("MaxRoundNumber"); err != nil {
		return 0, err
	}
	last := 0
	for _, r := range f.rounds {
		if r.LeagueID == leagueID && r.Number > last {
			last = r.Number
		}
	}
	return last, nil
}

func (f *FakeLeagueRepo) UpdateRoundStatus(ctx context.Context, db bun.IDB, leagueID, roundID uuid.UUID, from, to leaguedomain.RoundStatus) error {
	if f.UpdateRoundStatusFunc != nil {
		f.mu.Lock()
		f.trace = append(f.trace, "UpdateRoundStatus")
		f.mu.Unlock()
		return f.UpdateRoundStatusFunc(ctx, db, leagueID, roundID, from, to)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UpdateRoundStatus"); err != nil {
		return err
	}
	r, ok := f.rounds[roundID]
	if !ok || r.LeagueID != leagueID || r.Status != from {
		return leaguedb.ErrNoRowsAffected
	}
	r.Status = to
	return nil
}

// --- Participant ---

func (f *FakeLeagueRepo) CreateParticipant(ctx context.Context, db bun.IDB, participant *leaguedb.Participant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateParticipant"); err != nil {
		return err
	}
	for _, p := range f.participants {
		if p.LeagueID == participant.LeagueID && p.UserID == participant.UserID {
			return nil
		}
	}
	f.participants = append(f.participants, copyParticipant(participant))
	return nil
}

func (f *FakeLeagueRepo) GetParticipant(ctx context.Context, db bun.IDB, leagueID uuid.UUID, userID string) (*leaguedb.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetParticipant"); err != nil {
		return nil, err
	}
	for _, p := range f.participants {
		if p.LeagueID == leagueID && p.UserID == userID {
			return copyParticipant(p), nil
		}
	}
	return nil, leaguedb.ErrNotFound
}

func (f *FakeLeagueRepo) GetParticipantByID(ctx context.Context, db bun.IDB, leagueID, participantID uuid.UUID) (*leaguedb.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetParticipantByID"); err != nil {
		return nil, err
	}
	for _, p := range f.participants {
		if p.LeagueID == leagueID && p.ID == participantID {
			return copyParticipant(p), nil
		}
	}
	return nil, leaguedb.ErrNotFound
}

func (f *FakeLeagueRepo) ListParticipants(ctx context.Context, db bun.IDB, leagueID uuid.UUID) ([]*leaguedb.Participant, error) {
	return f.listParticipants("ListParticipants", leagueID, false)
}

func (f *FakeLeagueRepo) ListActiveParticipants(ctx context.Context, db bun.IDB, leagueID uuid.UUID) ([]*leaguedb.Participant, error) {
	return f.listParticipants("ListActiveParticipants", leagueID, true)
}

func (f *FakeLeagueRepo) listParticipants(step string, leagueID uuid.UUID, activeOnly bool) ([]*leaguedb.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(step); err != nil {
		return nil, err
	}
	var out []*leaguedb.Participant
	for _, p := range f.participants {
		if p.LeagueID != leagueID || (activeOnly && p.Eliminated) {
			continue
		}
		out = append(out, copyParticipant(p))
	}
	return out, nil
}

func (f *FakeLeagueRepo) UpdateParticipant(ctx context.Context, db bun.IDB, participant *leaguedb.Participant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UpdateParticipant"); err != nil {
		return err
	}
	for i, p := range f.participants {
		if p.ID == participant.ID {
			f.participants[i] = copyParticipant(participant)
			return nil
		}
	}
	return leaguedb.ErrNoRowsAffected
}

// --- Selection ---

func (f *FakeLeagueRepo) CreateSelection(ctx context.Context, db bun.IDB, selection *leaguedb.Selection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateSelection"); err != nil {
		return err
	}
	for _, s := range f.selections {
		if s.RoundID == selection.RoundID && s.UserID == selection.UserID {
			return leaguedb.ErrDuplicateSelection
		}
	}
	f.selections = append(f.selections, copySelection(selection))
	return nil
}

func (f *FakeLeagueRepo) GetSelection(ctx context.Context, db bun.IDB, leagueID, roundID, selectionID uuid.UUID) (*leaguedb.Selection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetSelection"); err != nil {
		return nil, err
	}
	for _, s := range f.selections {
		if s.ID == selectionID && s.LeagueID == leagueID && s.RoundID == roundID {
			return copySelection(s), nil
		}
	}
	return nil, leaguedb.ErrNotFound
}

func (f *FakeLeagueRepo) ListSelections(ctx context.Context, db bun.IDB, leagueID, roundID uuid.UUID) ([]*leaguedb.Selection, error) {
	return f.filterSelections("ListSelections", func(s *leaguedb.Selection) bool {
		return s.LeagueID == leagueID && s.RoundID == roundID
	})
}

func (f *FakeLeagueRepo) ListUserSelections(ctx context.Context, db bun.IDB, leagueID uuid.UUID, userID string) ([]*leaguedb.Selection, error) {
	return f.filterSelections("ListUserSelections", func(s *leaguedb.Selection) bool {
		return s.LeagueID == leagueID && s.UserID == userID
	})
}

func (f *FakeLeagueRepo) ListLeagueSelections(ctx context.Context, db bun.IDB, leagueID uuid.UUID) ([]*leaguedb.Selection, error) {
	return f.filterSelections("ListLeagueSelections", func(s *leaguedb.Selection) bool {
		return s.LeagueID == leagueID
	})
}

func (f *FakeLeagueRepo) filterSelections(step string, keep func(*leaguedb.Selection) bool) ([]*leaguedb.Selection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(step); err != nil {
		return nil, err
	}
	var out []*leaguedb.Selection
	for _, s := range f.selections {
		if keep(s) {
			out = append(out, copySelection(s))
		}
	}
	return out, nil
}

func (f *FakeLeagueRepo) UpdateSelectionResult(ctx context.Context, db bun.IDB, selectionID uuid.UUID, result *leaguedomain.Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UpdateSelectionResult"); err != nil {
		return err
	}
	for _, s := range f.selections {
		if s.ID == selectionID {
			if result == nil {
				s.Result = nil
			} else {
				r := *result
				s.Result = &r
			}
			return nil
		}
	}
	return leaguedb.ErrNoRowsAffected
}

// --- Fixture ---

func (f *FakeLeagueRepo) CreateFixture(ctx context.Context, db bun.IDB, fixture *leaguedb.Fixture) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateFixture"); err != nil {
		return err
	}
	f.fixtures[fixture.ID] = copyFixture(fixture)
	return nil
}

func (f *FakeLeagueRepo) GetFixture(ctx context.Context, db bun.IDB, leagueID, roundID, fixtureID uuid.UUID) (*leaguedb.Fixture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetFixture"); err != nil {
		return nil, err
	}
	x, ok := f.fixtures[fixtureID]
	if !ok || x.LeagueID != leagueID || x.RoundID != roundID {
		return nil, leaguedb.ErrNotFound
	}
	return copyFixture(x), nil
}

func (f *FakeLeagueRepo) ListFixtures(ctx context.Context, db bun.IDB, leagueID, roundID uuid.UUID) ([]*leaguedb.Fixture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListFixtures"); err != nil {
		return nil, err
	}
	var out []*leaguedb.Fixture
	for _, x := range f.fixtures {
		if x.LeagueID == leagueID && x.RoundID == roundID {
			out = append(out, copyFixture(x))
		}
	}
	return out, nil
}

func (f *FakeLeagueRepo) UpdateFixtureResult(ctx context.Context, db bun.IDB, fixture *leaguedb.Fixture) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UpdateFixtureResult"); err != nil {
		return err
	}
	if _, ok := f.fixtures[fixture.ID]; !ok {
		return leaguedb.ErrNoRowsAffected
	}
	f.fixtures[fixture.ID] = copyFixture(fixture)
	return nil
}

// --- Override ---

func (f *FakeLeagueRepo) CreateOverride(ctx context.Context, db bun.IDB, override *leaguedb.AdminOverride) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateOverride"); err != nil {
		return err
	}
	f.overrides = append(f.overrides, copyOverride(override))
	return nil
}

func (f *FakeLeagueRepo) GetOverride(ctx context.Context, db bun.IDB, leagueID, roundID, overrideID uuid.UUID) (*leaguedb.AdminOverride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetOverride"); err != nil {
		return nil, err
	}
	for _, o := range f.overrides {
		if o.ID == overrideID && o.LeagueID == leagueID && o.RoundID == roundID {
			return copyOverride(o), nil
		}
	}
	return nil, leaguedb.ErrNotFound
}

func (f *FakeLeagueRepo) GetOverrideBySelection(ctx context.Context, db bun.IDB, selectionID uuid.UUID) (*leaguedb.AdminOverride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetOverrideBySelection"); err != nil {
		return nil, err
	}
	for i := len(f.overrides) - 1; i >= 0; i-- {
		if f.overrides[i].SelectionID == selectionID {
			return copyOverride(f.overrides[i]), nil
		}
	}
	return nil, leaguedb.ErrNotFound
}

func (f *FakeLeagueRepo) ListOverrides(ctx context.Context, db bun.IDB, leagueID, roundID uuid.UUID) ([]*leaguedb.AdminOverride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListOverrides"); err != nil {
		return nil, err
	}
	var out []*leaguedb.AdminOverride
	for _, o := range f.overrides {
		if o.LeagueID == leagueID && o.RoundID == roundID {
			out = append(out, copyOverride(o))
		}
	}
	return out, nil
}

func (f *FakeLeagueRepo) DeleteOverride(ctx context.Context, db bun.IDB, overrideID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteOverride"); err != nil {
		return err
	}
	for i, o := range f.overrides {
		if o.ID == overrideID {
			f.overrides = append(f.overrides[:i], f.overrides[i+1:]...)
			return nil
		}
	}
	return leaguedb.ErrNoRowsAffected
}

// --- Winner ---

func (f *FakeLeagueRepo) CreateWinners(ctx context.Context, db bun.IDB, winners []*leaguedb.LeagueWinner) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateWinners"); err != nil {
		return err
	}
	for _, w := range winners {
		if existing := f.winnerRow(w.LeagueID, w.UserID); existing != nil {
			existing.RetractedAt = nil
			continue
		}
		c := *w
		f.winners = append(f.winners, &c)
	}
	return nil
}

func (f *FakeLeagueRepo) winnerRow(leagueID uuid.UUID, userID string) *leaguedb.LeagueWinner {
	for _, w := range f.winners {
		if w.LeagueID == leagueID && w.UserID == userID {
			return w
		}
	}
	return nil
}

func (f *FakeLeagueRepo) ListWinners(ctx context.Context, db bun.IDB, leagueID uuid.UUID) ([]*leaguedb.LeagueWinner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListWinners"); err != nil {
		return nil, err
	}
	var out []*leaguedb.LeagueWinner
	for _, w := range f.winners {
		if w.LeagueID == leagueID && w.RetractedAt == nil {
			c := *w
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *FakeLeagueRepo) ListAwardedUserIDs(ctx context.Context, db bun.IDB, leagueID uuid.UUID) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListAwardedUserIDs"); err != nil {
		return nil, err
	}
	var out []string
	for _, w := range f.winners {
		if w.LeagueID == leagueID {
			out = append(out, w.UserID)
		}
	}
	return out, nil
}

func (f *FakeLeagueRepo) RetractWinners(ctx context.Context, db bun.IDB, leagueID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("RetractWinners"); err != nil {
		return err
	}
	now := testNow
	for _, w := range f.winners {
		if w.LeagueID == leagueID && w.RetractedAt == nil {
			w.RetractedAt = &now
		}
	}
	return nil
}

// Ensure the fake actually satisfies the interface
var _ leaguedb.Repository = (*FakeLeagueRepo)(nil)

// ------------------------
// Fake Notifier
// ------------------------

type FakeNotifier struct {
	mu   sync.Mutex
	sent []leaguedomain.PendingNotification
	Err  error
}

func (n *FakeNotifier) Notify(ctx context.Context, pending []leaguedomain.PendingNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, pending...)
	return n.Err
}

func (n *FakeNotifier) Sent() []leaguedomain.PendingNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]leaguedomain.PendingNotification, len(n.sent))
	copy(out, n.sent)
	return out
}

func (n *FakeNotifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = nil
}
