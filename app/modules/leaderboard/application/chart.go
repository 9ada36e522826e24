package leaderboardservice

import (
	"bytes"
	"errors"

	leaderboarddomain "github.com/Black-And-White-Club/lp-bot/app/modules/leaderboard/domain"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var errNoChartData = errors.New("no leaderboard entries to chart")

var (
	chartBackground = drawing.ColorFromHex("2b2d31")
	chartBar        = drawing.ColorFromHex("ffd700")
	chartText       = drawing.ColorFromHex("f2f3f5")
)

// RenderChart draws the leaderboard as a PNG bar chart. labels are parallel to entries.
func RenderChart(entries []leaderboarddomain.Entry, labels []string) ([]byte, error) {
	if len(entries) == 0 {
		return nil, errNoChartData
	}

	var maxLP float64
	bars := make([]chart.Value, len(entries))
	for i, e := range entries {
		value := float64(e.LP)
		if value < 0 {
			value = 0
		}
		if value > maxLP {
			maxLP = value
		}
		label := e.UserID
		if i < len(labels) && labels[i] != "" {
			label = labels[i]
		}
		bars[i] = chart.Value{
			Label: label,
			Value: value,
			Style: chart.Style{
				FillColor:   chartBar,
				StrokeColor: chartBar,
			},
		}
	}
	if maxLP < 1 {
		maxLP = 1
	}

	graph := chart.BarChart{
		Title:  "Top LP",
		Width:  900,
		Height: 450,
		TitleStyle: chart.Style{
			FontColor: chartText,
		},
		Background: chart.Style{
			FillColor: chartBackground,
			Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{
			FillColor: chartBackground,
		},
		XAxis: chart.Style{
			FontColor: chartText,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{
				FontColor: chartText,
			},
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: maxLP * 1.1,
			},
		},
		BarWidth: 60,
		Bars:     bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
