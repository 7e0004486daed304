package leaguedomain

// Resolve computes the outcome of picking selectedTeamID in a finished
// fixture. Callers must only pass fixtures whose scores are set.
func Resolve(homeTeamID, awayTeamID string, homeScore, awayScore int, selectedTeamID string) Result {
	if homeScore == awayScore {
		return ResultDraw
	}
	if (selectedTeamID == homeTeamID && homeScore > awayScore) ||
		(selectedTeamID == awayTeamID && awayScore > homeScore) {
		return ResultWin
	}
	return ResultLoss
}
