// Package monitor serves debugging-only chart endpoints rendered with
// go-echarts. These are for inspecting the angle timeline of a live
// session without the mobile UI.
package monitor

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/formsense/formsense/internal/engine"
)

// SessionLookup resolves a session ID to a live session, or nil.
type SessionLookup interface {
	Session(id string) *engine.Session
}

// ChartServer renders per-session debug charts.
type ChartServer struct {
	sessions SessionLookup
}

func NewChartServer(sessions SessionLookup) *ChartServer {
	return &ChartServer{sessions: sessions}
}

// Register mounts the debug endpoints on the given mux.
func (cs *ChartServer) Register(mux *http.ServeMux) {
	mux.HandleFunc("/debug/sessions/", cs.handleAngleChart)
}

// handleAngleChart renders the angle timeline of a session as an HTML
// line chart, with the rep thresholds drawn as horizontal mark lines.
// Path: /debug/sessions/{id}/chart
func (cs *ChartServer) handleAngleChart(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/debug/sessions/")
	id := strings.TrimSuffix(strings.Trim(rest, "/"), "/chart")
	id = strings.TrimSuffix(id, "/")
	if id == "" {
		http.Error(w, "missing session id", http.StatusBadRequest)
		return
	}

	session := cs.sessions.Session(id)
	if session == nil {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}

	samples := session.History()
	if len(samples) == 0 {
		http.Error(w, "no samples recorded yet", http.StatusNotFound)
		return
	}

	x := make([]string, len(samples))
	angleData := make([]opts.LineData, len(samples))
	for i, s := range samples {
		x[i] = fmt.Sprintf("%d", s.FrameIdx)
		angleData[i] = opts.LineData{Value: s.Angle}
	}

	th := session.Exercise.RepThresholds
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Session Angle Timeline",
			Theme:     "dark",
			Width:     "1200px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s angle timeline", session.Exercise.Name),
			Subtitle: fmt.Sprintf("session=%s frames=%d reps=%d side=%s", session.ID, len(samples), session.RepCount(), session.ActiveSide()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "frame"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "angle (deg)", Min: 0, Max: 180}),
	)

	line.SetXAxis(x)
	line.AddSeries("angle", angleData,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
		charts.WithMarkLineNameYAxisItemOpts(
			opts.MarkLineNameYAxisItem{Name: "lifting_min", YAxis: th.LiftingMin},
			opts.MarkLineNameYAxisItem{Name: "lowering_max", YAxis: th.LoweringMax},
			opts.MarkLineNameYAxisItem{Name: "rest_max", YAxis: th.RestMax},
		),
	)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		http.Error(w, fmt.Sprintf("failed to render chart: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
