package leaguereports

import (
	"bytes"
	"fmt"

	leagueservice "github.com/Black-And-White-Club/lastman/app/modules/league/application"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ContentTypePNG is the media type of SurvivalChart output.
const ContentTypePNG = "image/png"

var (
	backgroundColor = drawing.ColorFromHex("0f1f17")
	barColor        = drawing.ColorFromHex("2f8f5b")
	textColor       = drawing.ColorFromHex("f4f1e8")
)

// SurvivalChart renders a bar chart of the participants still alive after
// each round.
func SurvivalChart(st *leagueservice.Standings) ([]byte, error) {
	if st == nil {
		return nil, fmt.Errorf("standings are required")
	}
	rounds := sortedRounds(st.Rounds)
	if len(rounds) == 0 {
		return renderNoData("No rounds played yet")
	}

	bars := make([]chart.Value, 0, len(rounds))
	for _, r := range rounds {
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("R%d", r.Number),
			Value: float64(r.Survivors),
			Style: chart.Style{
				FillColor:   barColor,
				StrokeColor: barColor,
			},
		})
	}

	// A fixed range keeps single-round and all-zero charts renderable.
	top := float64(len(st.Participants))
	if top < 1 {
		top = 1
	}

	graph := chart.BarChart{
		Title:    "Survivors per round",
		Width:    800,
		Height:   400,
		BarWidth: 40,
		TitleStyle: chart.Style{
			FontColor: textColor,
		},
		Background: chart.Style{
			FillColor: backgroundColor,
			Padding:   chart.Box{Top: 40},
		},
		Canvas: chart.Style{
			FillColor: backgroundColor,
		},
		XAxis: chart.Style{
			FontColor: textColor,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{
				FontColor: textColor,
			},
			Range: &chart.ContinuousRange{Min: 0, Max: top},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render survival chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// renderNoData draws msg as the title over a single empty bar. go-chart
// refuses to render a chart without series or bars.
func renderNoData(msg string) ([]byte, error) {
	graph := chart.BarChart{
		Title:    msg,
		Width:    400,
		Height:   200,
		BarWidth: 40,
		TitleStyle: chart.Style{
			FontColor: textColor,
		},
		Background: chart.Style{
			FillColor: backgroundColor,
			Padding:   chart.Box{Top: 40},
		},
		Canvas: chart.Style{
			FillColor: backgroundColor,
		},
		XAxis: chart.Style{
			FontColor: textColor,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{
				FontColor: textColor,
			},
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Bars: []chart.Value{{
			Label: "-",
			Value: 0,
			Style: chart.Style{
				FillColor:   backgroundColor,
				StrokeColor: backgroundColor,
			},
		}},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render empty survival chart: %w", err)
	}
	return buffer.Bytes(), nil
}
