package leaguerouter

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	authdomain "github.com/Black-And-White-Club/lastman/app/modules/auth/domain"
	leagueservice "github.com/Black-And-White-Club/lastman/app/modules/league/application"
	leaguedomain "github.com/Black-And-White-Club/lastman/app/modules/league/domain"
	leaguehandlers "github.com/Black-And-White-Club/lastman/app/modules/league/infrastructure/handlers"
	leaguedb "github.com/Black-And-White-Club/lastman/app/modules/league/infrastructure/repositories"
	leaguereports "github.com/Black-And-White-Club/lastman/app/modules/league/infrastructure/reports"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withCaller stands in for the bearer middleware.
func withCaller(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID != "" {
				ctx := authdomain.WithCaller(r.Context(), &authdomain.Claims{UserID: userID, DisplayName: "Alice", Email: "alice@example.com"})
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func newTestRouter(svc *FakeService, caller string) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	MountHTTP(r, leaguehandlers.NewLeagueHandlers(svc, logger), withCaller(caller))
	return r
}

func serve(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateLeagueRoute(t *testing.T) {
	var got leagueservice.CreateLeagueRequest
	svc := &FakeService{
		CreateLeagueFunc: func(ctx context.Context, req leagueservice.CreateLeagueRequest) (*leaguedb.League, error) {
			got = req
			return &leaguedb.League{ID: uuid.New(), Name: req.Name, LeagueCode: "sunday-league-abc123"}, nil
		},
	}
	rec := serve(t, newTestRouter(svc, "owner-1"), http.MethodPost, "/api/leagues",
		`{"name":"Sunday League","timeZone":"Europe/London"}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "owner-1", got.OwnerID)
	assert.Equal(t, "Europe/London", got.TimeZone)
	assert.Contains(t, rec.Body.String(), `"leagueCode":"sunday-league-abc123"`)
}

func TestJoinLeagueRoute_FillsProfileFromToken(t *testing.T) {
	var got leagueservice.JoinLeagueRequest
	svc := &FakeService{
		JoinLeagueFunc: func(ctx context.Context, req leagueservice.JoinLeagueRequest) (*leaguedb.Participant, error) {
			got = req
			return &leaguedb.Participant{UserID: req.UserID}, nil
		},
	}
	rec := serve(t, newTestRouter(svc, "alice"), http.MethodPost, "/api/leagues/join", `{"leagueCode":"sunday-league-abc123"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, leagueservice.JoinLeagueRequest{
		LeagueCode:  "sunday-league-abc123",
		UserID:      "alice",
		DisplayName: "Alice",
		Email:       "alice@example.com",
	}, got)
}

func TestRoutes_ErrorMapping(t *testing.T) {
	leagueID := uuid.New()
	roundID := uuid.New()

	tests := []struct {
		name       string
		caller     string
		method     string
		path       string
		body       string
		svc        *FakeService
		wantStatus int
		wantBody   string
	}{
		{
			name:   "lock by non owner",
			caller: "mallory",
			method: http.MethodPost,
			path:   "/api/leagues/" + leagueID.String() + "/rounds/" + roundID.String() + "/lock",
			svc: &FakeService{LockRoundFunc: func(ctx context.Context, l, r uuid.UUID, caller string) (*leagueservice.LockRoundResult, error) {
				return nil, leagueservice.ErrPermissionDenied
			}},
			wantStatus: http.StatusForbidden,
			wantBody:   `{"error":"permission denied"}`,
		},
		{
			name:   "lock validated round",
			caller: "owner-1",
			method: http.MethodPost,
			path:   "/api/leagues/" + leagueID.String() + "/rounds/" + roundID.String() + "/lock",
			svc: &FakeService{LockRoundFunc: func(ctx context.Context, l, r uuid.UUID, caller string) (*leagueservice.LockRoundResult, error) {
				return nil, &leaguedomain.TransitionError{From: "VALIDATED", Operation: "lock"}
			}},
			wantStatus: http.StatusConflict,
		},
		{
			name:   "anonymous selection",
			method: http.MethodPost,
			path:   "/api/leagues/" + leagueID.String() + "/rounds/" + roundID.String() + "/selections",
			body:   `{"selectedTeamId":"ARS","fixtureId":"` + uuid.NewString() + `"}`,
			svc: &FakeService{CreateSelectionFunc: func(ctx context.Context, req leagueservice.CreateSelectionRequest) (*leaguedb.Selection, error) {
				if req.UserID == "" {
					return nil, leagueservice.ErrUnauthenticated
				}
				return &leaguedb.Selection{}, nil
			}},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "duplicate selection",
			caller: "alice",
			method: http.MethodPost,
			path:   "/api/leagues/" + leagueID.String() + "/rounds/" + roundID.String() + "/selections",
			body:   `{"selectedTeamId":"ARS","fixtureId":"` + uuid.NewString() + `"}`,
			svc: &FakeService{CreateSelectionFunc: func(ctx context.Context, req leagueservice.CreateSelectionRequest) (*leaguedb.Selection, error) {
				return nil, leagueservice.ErrDuplicateSelection
			}},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "malformed league id",
			method:     http.MethodGet,
			path:       "/api/leagues/not-a-uuid",
			svc:        &FakeService{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			caller:     "owner-1",
			method:     http.MethodPost,
			path:       "/api/leagues/" + leagueID.String() + "/notifications",
			body:       `{"audience":`,
			svc:        &FakeService{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown body field",
			caller:     "owner-1",
			method:     http.MethodPost,
			path:       "/api/leagues",
			body:       `{"name":"x","owner":"someone-else"}`,
			svc:        &FakeService{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "unknown league",
			method: http.MethodGet,
			path:   "/api/leagues/" + leagueID.String(),
			svc: &FakeService{GetLeagueFunc: func(ctx context.Context, id uuid.UUID) (*leaguedb.League, error) {
				return nil, &leagueservice.NotFoundError{Entity: "league", ID: id.String()}
			}},
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"league ` + leagueID.String() + ` not found"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, newTestRouter(tt.svc, tt.caller), tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestRecordFixtureResultRoute(t *testing.T) {
	leagueID, roundID, fixtureID := uuid.New(), uuid.New(), uuid.New()
	var got leagueservice.FixtureResultRequest
	svc := &FakeService{
		RecordFixtureResultFunc: func(ctx context.Context, req leagueservice.FixtureResultRequest) (*leaguedb.Fixture, error) {
			got = req
			return &leaguedb.Fixture{ID: req.FixtureID, Status: req.Status}, nil
		},
	}
	path := "/api/leagues/" + leagueID.String() + "/rounds/" + roundID.String() + "/fixtures/" + fixtureID.String()
	rec := serve(t, newTestRouter(svc, "owner-1"), http.MethodPut, path, `{"status":"FINISHED","homeScore":2,"awayScore":1}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, fixtureID, got.FixtureID)
	assert.Equal(t, roundID, got.RoundID)
	assert.Equal(t, "owner-1", got.CallerID)
	require.NotNil(t, got.HomeScore)
	assert.Equal(t, 2, *got.HomeScore)
	assert.Equal(t, 1, *got.AwayScore)
}

func TestSendNotificationRoute(t *testing.T) {
	roundID := uuid.New()
	var got leagueservice.ManualNotificationRequest
	svc := &FakeService{
		SendManualNotificationFunc: func(ctx context.Context, req leagueservice.ManualNotificationRequest) (int, error) {
			got = req
			return 4, nil
		},
	}
	body := `{"audience":"UNPICKED","roundId":"` + roundID.String() + `","title":"Reminder","message":"Pick before Saturday"}`
	rec := serve(t, newTestRouter(svc, "owner-1"), http.MethodPost, "/api/leagues/"+uuid.NewString()+"/notifications", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"recipients":4}`, rec.Body.String())
	assert.Equal(t, leaguedomain.AudienceUnpicked, got.Audience)
	require.NotNil(t, got.RoundID)
	assert.Equal(t, roundID, *got.RoundID)
}

func TestStandingsExports(t *testing.T) {
	svc := &FakeService{
		GetStandingsFunc: func(ctx context.Context, leagueID uuid.UUID) (*leagueservice.Standings, error) {
			return &leagueservice.Standings{
				League: &leaguedb.League{ID: leagueID, Name: "Sunday League"},
				Rounds: []leagueservice.RoundStanding{{Number: 1, Survivors: 2}},
				Participants: []leagueservice.ParticipantStanding{
					{UserID: "alice"}, {UserID: "bob"},
				},
			}, nil
		},
	}
	h := newTestRouter(svc, "")
	base := "/api/leagues/" + uuid.NewString()

	tests := []struct {
		path        string
		contentType string
	}{
		{base + "/standings", "application/json"},
		{base + "/standings.xlsx", leaguereports.ContentTypeXLSX},
		{base + "/survival.png", leaguereports.ContentTypePNG},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(t, h, http.MethodGet, tt.path, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			assert.NotZero(t, rec.Body.Len())
		})
	}
}
