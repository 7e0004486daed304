package leaguehandlers

import (
	"net/http"
	"time"

	authdomain "github.com/Black-And-White-Club/lastman/app/modules/auth/domain"
	leagueservice "github.com/Black-And-White-Club/lastman/app/modules/league/application"
	leaguedomain "github.com/Black-And-White-Club/lastman/app/modules/league/domain"
	"github.com/google/uuid"
)

func (h *LeagueHandlers) HandleListRounds(w http.ResponseWriter, r *http.Request) {
	leagueID, err := uuidParam(r, "leagueID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rounds, err := h.service.ListRounds(r.Context(), leagueID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, rounds)
}

type createRoundBody struct {
	StartDateTime string `json:"startDateTime"`
	LockDateTime  string `json:"lockDateTime"`
}

func (h *LeagueHandlers) HandleCreateRound(w http.ResponseWriter, r *http.Request) {
	leagueID, err := uuidParam(r, "leagueID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var body createRoundBody
	if err := decode(r, &body); err != nil {
		h.fail(w, r, err)
		return
	}
	round, err := h.service.CreateRound(r.Context(), leagueservice.CreateRoundRequest{
		LeagueID: leagueID,
		CallerID: authdomain.CallerID(r.Context()),
		StartsAt: body.StartDateTime,
		LocksAt:  body.LockDateTime,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, round)
}

func (h *LeagueHandlers) HandleLockRound(w http.ResponseWriter, r *http.Request) {
	ids, err := uuidParams(r, "leagueID", "roundID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	result, err := h.service.LockRound(r.Context(), ids[0], ids[1], authdomain.CallerID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

func (h *LeagueHandlers) HandleValidateRound(w http.ResponseWriter, r *http.Request) {
	ids, err := uuidParams(r, "leagueID", "roundID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	result, err := h.service.ValidateRound(r.Context(), ids[0], ids[1], authdomain.CallerID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

func (h *LeagueHandlers) HandleListFixtures(w http.ResponseWriter, r *http.Request) {
	ids, err := uuidParams(r, "leagueID", "roundID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	fixtures, err := h.service.ListFixtures(r.Context(), ids[0], ids[1])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, fixtures)
}

type createFixtureBody struct {
	ExternalID   string     `json:"externalId"`
	HomeTeamID   string     `json:"homeTeamId"`
	HomeTeamName string     `json:"homeTeamName"`
	AwayTeamID   string     `json:"awayTeamId"`
	AwayTeamName string     `json:"awayTeamName"`
	KickoffAt    *time.Time `json:"kickoffAt"`
}

func (h *LeagueHandlers) HandleCreateFixture(w http.ResponseWriter, r *http.Request) {
	ids, err := uuidParams(r, "leagueID", "roundID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var body createFixtureBody
	if err := decode(r, &body); err != nil {
		h.fail(w, r, err)
		return
	}
	req := leagueservice.CreateFixtureRequest{
		LeagueID:     ids[0],
		RoundID:      ids[1],
		CallerID:     authdomain.CallerID(r.Context()),
		ExternalID:   body.ExternalID,
		HomeTeamID:   body.HomeTeamID,
		HomeTeamName: body.HomeTeamName,
		AwayTeamID:   body.AwayTeamID,
		AwayTeamName: body.AwayTeamName,
	}
	if body.KickoffAt != nil {
		req.KickoffAt = *body.KickoffAt
	}
	fixture, err := h.service.CreateFixture(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, fixture)
}

type fixtureResultBody struct {
	Status    leaguedomain.FixtureStatus `json:"status"`
	HomeScore *int                       `json:"homeScore"`
	AwayScore *int                       `json:"awayScore"`
}

func (h *LeagueHandlers) HandleRecordFixtureResult(w http.ResponseWriter, r *http.Request) {
	ids, err := uuidParams(r, "leagueID", "roundID", "fixtureID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var body fixtureResultBody
	if err := decode(r, &body); err != nil {
		h.fail(w, r, err)
		return
	}
	fixture, err := h.service.RecordFixtureResult(r.Context(), leagueservice.FixtureResultRequest{
		LeagueID:  ids[0],
		RoundID:   ids[1],
		FixtureID: ids[2],
		CallerID:  authdomain.CallerID(r.Context()),
		Status:    body.Status,
		HomeScore: body.HomeScore,
		AwayScore: body.AwayScore,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, fixture)
}

type overrideBody struct {
	Result leaguedomain.Result `json:"result"`
	Reason string              `json:"reason"`
}

func (h *LeagueHandlers) HandleOverrideSelection(w http.ResponseWriter, r *http.Request) {
	ids, err := uuidParams(r, "leagueID", "roundID", "selectionID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var body overrideBody
	if err := decode(r, &body); err != nil {
		h.fail(w, r, err)
		return
	}
	result, err := h.service.OverrideSelectionResult(r.Context(), leagueservice.OverrideRequest{
		LeagueID:    ids[0],
		RoundID:     ids[1],
		SelectionID: ids[2],
		Result:      body.Result,
		Reason:      body.Reason,
		CallerID:    authdomain.CallerID(r.Context()),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, result)
}

func (h *LeagueHandlers) HandleReverseOverride(w http.ResponseWriter, r *http.Request) {
	ids, err := uuidParams(r, "leagueID", "roundID", "overrideID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	result, err := h.service.ReverseOverride(r.Context(), ids[0], ids[1], ids[2], authdomain.CallerID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

type broadcastBody struct {
	Audience leaguedomain.Audience `json:"audience"`
	RoundID  *uuid.UUID            `json:"roundId"`
	Title    string                `json:"title"`
	Message  string                `json:"message"`
}

type broadcastResponse struct {
	Recipients int `json:"recipients"`
}

func (h *LeagueHandlers) HandleSendNotification(w http.ResponseWriter, r *http.Request) {
	leagueID, err := uuidParam(r, "leagueID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var body broadcastBody
	if err := decode(r, &body); err != nil {
		h.fail(w, r, err)
		return
	}
	count, err := h.service.SendManualNotification(r.Context(), leagueservice.ManualNotificationRequest{
		LeagueID: leagueID,
		CallerID: authdomain.CallerID(r.Context()),
		Audience: body.Audience,
		RoundID:  body.RoundID,
		Title:    body.Title,
		Message:  body.Message,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, broadcastResponse{Recipients: count})
}
