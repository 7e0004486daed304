package leaguehandlers

import (
	"net/http"

	authdomain "github.com/Black-And-White-Club/lastman/app/modules/auth/domain"
	leagueservice "github.com/Black-And-White-Club/lastman/app/modules/league/application"
	"github.com/google/uuid"
)

func (h *LeagueHandlers) HandleListSelections(w http.ResponseWriter, r *http.Request) {
	ids, err := uuidParams(r, "leagueID", "roundID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	selections, err := h.service.ListSelections(r.Context(), ids[0], ids[1])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, selections)
}

// HandleListMySelections returns the caller's picks across rounds.
func (h *LeagueHandlers) HandleListMySelections(w http.ResponseWriter, r *http.Request) {
	leagueID, err := uuidParam(r, "leagueID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	callerID := authdomain.CallerID(r.Context())
	if callerID == "" {
		h.fail(w, r, leagueservice.ErrUnauthenticated)
		return
	}
	selections, err := h.service.ListUserSelections(r.Context(), leagueID, callerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, selections)
}

type createSelectionBody struct {
	SelectedTeamID string    `json:"selectedTeamId"`
	TeamName       string    `json:"teamName"`
	FixtureID      uuid.UUID `json:"fixtureId"`
}

func (h *LeagueHandlers) HandleCreateSelection(w http.ResponseWriter, r *http.Request) {
	ids, err := uuidParams(r, "leagueID", "roundID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var body createSelectionBody
	if err := decode(r, &body); err != nil {
		h.fail(w, r, err)
		return
	}
	selection, err := h.service.CreateSelection(r.Context(), leagueservice.CreateSelectionRequest{
		LeagueID:       ids[0],
		RoundID:        ids[1],
		UserID:         authdomain.CallerID(r.Context()),
		SelectedTeamID: body.SelectedTeamID,
		TeamName:       body.TeamName,
		FixtureID:      body.FixtureID,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, selection)
}
