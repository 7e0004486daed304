package leagueservice

import (
	"testing"

	leaguedomain "github.com/Black-And-White-Club/lastman/app/modules/league/domain"
	leaguedb "github.com/Black-And-White-Club/lastman/app/modules/league/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSelection(t *testing.T) {
	t.Run("records the pick", func(t *testing.T) {
		h := newHarness(t)
		h.join("alice")
		r1 := h.round(1, leaguedomain.RoundStatusOpen)
		fx := h.fixture(r1, "ARS", "CHE", -1, -1)

		sel, err := h.svc.CreateSelection(h.ctx, CreateSelectionRequest{
			LeagueID:       h.league.ID,
			RoundID:        r1.ID,
			UserID:         "alice",
			SelectedTeamID: " CHE ",
			FixtureID:      fx.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, "CHE", sel.SelectedTeamID)
		assert.Equal(t, "Team CHE", sel.SelectedTeamName)
		assert.Nil(t, sel.Result)
		assert.Equal(t, testNow, sel.CreatedAt)
		assert.Contains(t, h.repo.Trace(), "GetRoundForShare", "the round is read under a share lock")
		assert.NotContains(t, h.repo.Trace(), "GetRound")
	})

	tests := []struct {
		name    string
		setup   func(h *harness, round *leaguedb.Round, fx *leaguedb.Fixture)
		status  leaguedomain.RoundStatus
		mutate  func(req *CreateSelectionRequest)
		wantErr error
	}{
		{
			name:    "no caller",
			mutate:  func(req *CreateSelectionRequest) { req.UserID = "" },
			wantErr: ErrUnauthenticated,
		},
		{
			name:    "no team",
			mutate:  func(req *CreateSelectionRequest) { req.SelectedTeamID = "  " },
			wantErr: ErrValidation,
		},
		{
			name:    "no fixture",
			mutate:  func(req *CreateSelectionRequest) { req.FixtureID = uuid.Nil },
			wantErr: ErrValidation,
		},
		{
			name:    "round locked",
			status:  leaguedomain.RoundStatusLocked,
			wantErr: ErrInvalidStateTransition,
		},
		{
			name:    "not a participant",
			mutate:  func(req *CreateSelectionRequest) { req.UserID = "mallory" },
			wantErr: ErrNotFound,
		},
		{
			name: "already eliminated",
			setup: func(h *harness, _ *leaguedb.Round, _ *leaguedb.Fixture) {
				p := h.participant("alice")
				p.Eliminate(1, leaguedomain.EliminationReasonAdmin)
				require.NoError(h.t, h.repo.UpdateParticipant(h.ctx, nil, p))
			},
			wantErr: ErrEliminatedParticipant,
		},
		{
			name:    "fixture from another round",
			mutate:  func(req *CreateSelectionRequest) { req.FixtureID = uuid.New() },
			wantErr: ErrNotFound,
		},
		{
			name:    "team not in the fixture",
			mutate:  func(req *CreateSelectionRequest) { req.SelectedTeamID = "LIV" },
			wantErr: ErrValidation,
		},
		{
			name: "second pick in the round",
			setup: func(h *harness, round *leaguedb.Round, fx *leaguedb.Fixture) {
				h.pick(round, "alice", "ARS", fx)
			},
			wantErr: ErrDuplicateSelection,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.join("alice")
			status := tt.status
			if status == "" {
				status = leaguedomain.RoundStatusOpen
			}
			r1 := h.round(1, status)
			fx := h.fixture(r1, "ARS", "CHE", -1, -1)
			if tt.setup != nil {
				tt.setup(h, r1, fx)
			}
			req := CreateSelectionRequest{
				LeagueID:       h.league.ID,
				RoundID:        r1.ID,
				UserID:         "alice",
				SelectedTeamID: "CHE",
				FixtureID:      fx.ID,
			}
			if tt.mutate != nil {
				tt.mutate(&req)
			}

			_, err := h.svc.CreateSelection(h.ctx, req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsFailure(err))
		})
	}

	t.Run("lost insert race maps to duplicate", func(t *testing.T) {
		h := newHarness(t)
		h.join("alice")
		r1 := h.round(1, leaguedomain.RoundStatusOpen)
		fx := h.fixture(r1, "ARS", "CHE", -1, -1)
		h.repo.FailOn("CreateSelection", leaguedb.ErrDuplicateSelection)

		_, err := h.svc.CreateSelection(h.ctx, CreateSelectionRequest{
			LeagueID:       h.league.ID,
			RoundID:        r1.ID,
			UserID:         "alice",
			SelectedTeamID: "ARS",
			FixtureID:      fx.ID,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDuplicateSelection)
	})

	t.Run("picking again in a later round is fine", func(t *testing.T) {
		h := newHarness(t)
		h.join("alice")
		r1 := h.round(1, leaguedomain.RoundStatusValidated)
		f1 := h.fixture(r1, "ARS", "CHE", 1, 0)
		h.pick(r1, "alice", "ARS", f1)
		r2 := h.round(2, leaguedomain.RoundStatusOpen)
		f2 := h.fixture(r2, "ARS", "LIV", -1, -1)

		_, err := h.svc.CreateSelection(h.ctx, CreateSelectionRequest{
			LeagueID:       h.league.ID,
			RoundID:        r2.ID,
			UserID:         "alice",
			SelectedTeamID: "ARS",
			FixtureID:      f2.ID,
		})
		require.NoError(t, err)

		picks, err := h.svc.ListUserSelections(h.ctx, h.league.ID, "alice")
		require.NoError(t, err)
		assert.Len(t, picks, 2)
	})
}
