package leaguehandlers

import (
	"net/http"

	authdomain "github.com/Black-And-White-Club/lastman/app/modules/auth/domain"
	leagueservice "github.com/Black-And-White-Club/lastman/app/modules/league/application"
)

type createLeagueBody struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	TimeZone        string `json:"timeZone"`
	CompetitionCode string `json:"competitionCode"`
	CompetitionName string `json:"competitionName"`
}

func (h *LeagueHandlers) HandleCreateLeague(w http.ResponseWriter, r *http.Request) {
	var body createLeagueBody
	if err := decode(r, &body); err != nil {
		h.fail(w, r, err)
		return
	}
	league, err := h.service.CreateLeague(r.Context(), leagueservice.CreateLeagueRequest{
		OwnerID:         authdomain.CallerID(r.Context()),
		Name:            body.Name,
		Description:     body.Description,
		TimeZone:        body.TimeZone,
		CompetitionCode: body.CompetitionCode,
		CompetitionName: body.CompetitionName,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, league)
}

func (h *LeagueHandlers) HandleGetLeague(w http.ResponseWriter, r *http.Request) {
	leagueID, err := uuidParam(r, "leagueID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	league, err := h.service.GetLeague(r.Context(), leagueID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, league)
}

type joinLeagueBody struct {
	LeagueCode  string `json:"leagueCode"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

func (h *LeagueHandlers) HandleJoinLeague(w http.ResponseWriter, r *http.Request) {
	var body joinLeagueBody
	if err := decode(r, &body); err != nil {
		h.fail(w, r, err)
		return
	}
	// Token claims fill in what the body leaves out.
	if claims := authdomain.Caller(r.Context()); claims != nil {
		if body.DisplayName == "" {
			body.DisplayName = claims.DisplayName
		}
		if body.Email == "" {
			body.Email = claims.Email
		}
	}
	participant, err := h.service.JoinLeague(r.Context(), leagueservice.JoinLeagueRequest{
		LeagueCode:  body.LeagueCode,
		UserID:      authdomain.CallerID(r.Context()),
		DisplayName: body.DisplayName,
		Email:       body.Email,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, participant)
}

func (h *LeagueHandlers) HandleListParticipants(w http.ResponseWriter, r *http.Request) {
	leagueID, err := uuidParam(r, "leagueID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	participants, err := h.service.ListParticipants(r.Context(), leagueID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, participants)
}

type eliminateBody struct {
	RoundNumber int `json:"roundNumber"`
}

func (h *LeagueHandlers) HandleEliminateParticipant(w http.ResponseWriter, r *http.Request) {
	ids, err := uuidParams(r, "leagueID", "participantID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var body eliminateBody
	if err := decode(r, &body); err != nil {
		h.fail(w, r, err)
		return
	}
	result, err := h.service.ManuallyEliminateParticipant(r.Context(), ids[0], ids[1], body.RoundNumber, authdomain.CallerID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

func (h *LeagueHandlers) HandleListWinners(w http.ResponseWriter, r *http.Request) {
	leagueID, err := uuidParam(r, "leagueID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	winners, err := h.service.ListWinners(r.Context(), leagueID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, winners)
}
