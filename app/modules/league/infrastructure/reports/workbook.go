package leaguereports

import (
	"fmt"
	"sort"

	leagueservice "github.com/Black-And-White-Club/lastman/app/modules/league/application"
	"github.com/xuri/excelize/v2"
)

const (
	standingsSheet = "Standings"
	roundsSheet    = "Rounds"

	// ContentTypeXLSX is the media type of StandingsWorkbook output.
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// StandingsWorkbook renders the standings as an XLSX file with one row per
// participant and one column per round, plus a per-round summary sheet.
func StandingsWorkbook(st *leagueservice.Standings) ([]byte, error) {
	if st == nil {
		return nil, fmt.Errorf("standings are required")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", standingsSheet); err != nil {
		return nil, fmt.Errorf("failed to name standings sheet: %w", err)
	}

	rounds := sortedRounds(st.Rounds)

	header := []any{"Player", "Status", "Eliminated Round", "Reason"}
	for _, r := range rounds {
		header = append(header, fmt.Sprintf("R%d", r.Number))
	}
	if err := setRow(f, standingsSheet, 1, header); err != nil {
		return nil, err
	}

	for i, p := range st.Participants {
		row := []any{p.DisplayName, "Alive", "", ""}
		if p.DisplayName == "" {
			row[0] = p.UserID
		}
		if p.Eliminated {
			row[1] = "Eliminated"
			if p.EliminatedAtRound != nil {
				row[2] = *p.EliminatedAtRound
			}
			if p.EliminatedReason != nil {
				row[3] = string(*p.EliminatedReason)
			}
		}
		for _, r := range rounds {
			row = append(row, pickCell(p.Picks, r.Number))
		}
		if err := setRow(f, standingsSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(roundsSheet); err != nil {
		return nil, fmt.Errorf("failed to create rounds sheet: %w", err)
	}
	if err := setRow(f, roundsSheet, 1, []any{"Round", "Status", "Picks", "Survivors"}); err != nil {
		return nil, err
	}
	for i, r := range rounds {
		if err := setRow(f, roundsSheet, i+2, []any{r.Number, string(r.Status), r.Picks, r.Survivors}); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func pickCell(picks map[int]leagueservice.Pick, round int) string {
	pick, ok := picks[round]
	if !ok {
		return ""
	}
	name := pick.TeamName
	if name == "" {
		name = pick.TeamID
	}
	if pick.Result == nil {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, *pick.Result)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func sortedRounds(rounds []leagueservice.RoundStanding) []leagueservice.RoundStanding {
	out := make([]leagueservice.RoundStanding, len(rounds))
	copy(out, rounds)
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}
