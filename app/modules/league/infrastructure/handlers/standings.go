package leaguehandlers

import (
	"net/http"
	"strconv"

	leagueservice "github.com/Black-And-White-Club/lastman/app/modules/league/application"
	leaguereports "github.com/Black-And-White-Club/lastman/app/modules/league/infrastructure/reports"
)

func (h *LeagueHandlers) standings(w http.ResponseWriter, r *http.Request) (*leagueservice.Standings, bool) {
	leagueID, err := uuidParam(r, "leagueID")
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	st, err := h.service.GetStandings(r.Context(), leagueID)
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	return st, true
}

func (h *LeagueHandlers) HandleGetStandings(w http.ResponseWriter, r *http.Request) {
	st, ok := h.standings(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, st)
}

func (h *LeagueHandlers) HandleStandingsWorkbook(w http.ResponseWriter, r *http.Request) {
	st, ok := h.standings(w, r)
	if !ok {
		return
	}
	data, err := leaguereports.StandingsWorkbook(st)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="standings.xlsx"`)
	writeBinary(w, leaguereports.ContentTypeXLSX, data)
}

func (h *LeagueHandlers) HandleSurvivalChart(w http.ResponseWriter, r *http.Request) {
	st, ok := h.standings(w, r)
	if !ok {
		return
	}
	data, err := leaguereports.SurvivalChart(st)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeBinary(w, leaguereports.ContentTypePNG, data)
}

func writeBinary(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
