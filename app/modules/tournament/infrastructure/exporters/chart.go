package tournamentexporters

import (
	"bytes"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	tournamentservice "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/application"
)

const (
	barWidth   = 40
	barSpacing = 20
)

var (
	backgroundColor = drawing.ColorFromHex("1b1f1c")
	barColor        = drawing.ColorFromHex("2e7d4f")
	winnerColor     = drawing.ColorFromHex("d4a017")
	textColor       = drawing.ColorFromHex("e8e6e3")
)

// RenderStandingsChart draws the points each user earned as a PNG bar chart.
// Users listed more than once have their points summed.
func RenderStandingsChart(awards []tournamentservice.RankingAward) ([]byte, error) {
	if len(awards) == 0 {
		return renderNoDataPlaceholder()
	}

	type total struct {
		label  string
		points int
		win    bool
	}
	var totals []*total
	byUser := map[string]*total{}
	for _, a := range awards {
		t, ok := byUser[a.UserID]
		if !ok {
			t = &total{label: a.Username}
			byUser[a.UserID] = t
			totals = append(totals, t)
		}
		t.points += a.Points
		t.win = t.win || a.Win
	}

	bars := make([]chart.Value, 0, len(totals))
	top := 0
	for _, t := range totals {
		top = max(top, t.points)
		color := barColor
		if t.win {
			color = winnerColor
		}
		bars = append(bars, chart.Value{
			Label: t.label,
			Value: float64(t.points),
			Style: chart.Style{
				FillColor:   color,
				StrokeColor: color,
			},
		})
	}

	graph := chart.BarChart{
		Title:      "Tournament points",
		Width:      max(400, len(bars)*(barWidth+barSpacing)+200),
		Height:     400,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{
			FillColor: backgroundColor,
			Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{
			FillColor: backgroundColor,
		},
		TitleStyle: chart.Style{
			FontColor: textColor,
		},
		XAxis: chart.Style{
			FontColor: textColor,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{
				FontColor: textColor,
			},
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: float64(top) * 1.1,
			},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func renderNoDataPlaceholder() ([]byte, error) {
	const (
		width  = 400
		height = 200
		msg    = "Nobody scored in this tournament"
	)

	graph := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			FillColor: backgroundColor,
		},
		Canvas: chart.Style{
			FillColor: backgroundColor,
		},
		// The chart needs a series to render; this one is drawn in the
		// background colour.
		XAxis: chart.XAxis{
			Style: chart.Style{Hidden: true},
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		YAxis: chart.YAxis{
			Style: chart.Style{Hidden: true},
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: []float64{0, 1},
				YValues: []float64{0, 0},
				Style:   chart.Style{StrokeColor: backgroundColor},
			},
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, chartDefaults chart.Style) {
				r.SetFontColor(textColor)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
