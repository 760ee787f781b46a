// Command session-plot renders a PNG of a session's angle timeline from
// the JSON returned by /api/sessions/{id}/history, with the exercise's
// rep thresholds drawn as horizontal reference lines.
package main

import (
	"encoding/json"
	"flag"
	"image/color"
	"log"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/formsense/formsense/internal/engine"
	"github.com/formsense/formsense/internal/exercise"
)

type historyFile struct {
	SessionID string               `json:"session_id"`
	Samples   []engine.AngleSample `json:"samples"`
}

func main() {
	input := flag.String("i", "history.json", "history JSON file")
	output := flag.String("o", "session.png", "output PNG path")
	title := flag.String("title", "", "plot title (defaults to session id)")
	exName := flag.String("exercise", "", "catalog exercise whose thresholds to overlay")
	flag.Parse()

	data, err := os.ReadFile(*input)
	if err != nil {
		log.Fatalf("failed to read history file: %v", err)
	}

	var hist historyFile
	if err := json.Unmarshal(data, &hist); err != nil {
		log.Fatalf("failed to parse history file: %v", err)
	}
	if len(hist.Samples) == 0 {
		log.Fatal("history contains no samples")
	}

	p := plot.New()
	p.Title.Text = *title
	if p.Title.Text == "" {
		p.Title.Text = "Session " + hist.SessionID
	}
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Angle (deg)"
	p.Y.Min, p.Y.Max = 0, 185

	pts := make(plotter.XYs, len(hist.Samples))
	for i, s := range hist.Samples {
		pts[i] = plotter.XY{X: float64(s.FrameIdx), Y: s.Angle}
	}

	angleLine, err := plotter.NewLine(pts)
	if err != nil {
		log.Fatalf("failed to build angle line: %v", err)
	}
	angleLine.Width = vg.Points(1.5)
	angleLine.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	p.Add(angleLine)
	p.Legend.Add("angle", angleLine)

	if *exName != "" {
		ex := exercise.DefaultCatalog().ByName(*exName)
		if ex == nil {
			log.Fatalf("unknown exercise %q", *exName)
		}
		xMin := float64(hist.Samples[0].FrameIdx)
		xMax := float64(hist.Samples[len(hist.Samples)-1].FrameIdx)
		addThreshold(p, xMin, xMax, ex.RepThresholds.LiftingMin, "lifting_min", color.RGBA{R: 44, G: 160, B: 44, A: 255})
		addThreshold(p, xMin, xMax, ex.RepThresholds.LoweringMax, "lowering_max", color.RGBA{R: 255, G: 127, B: 14, A: 255})
		addThreshold(p, xMin, xMax, ex.RepThresholds.RestMax, "rest_max", color.RGBA{R: 214, G: 39, B: 40, A: 255})
	}

	if err := p.Save(14*vg.Inch, 6*vg.Inch, *output); err != nil {
		log.Fatalf("failed to save plot: %v", err)
	}
	log.Printf("wrote %s (%d samples)", *output, len(hist.Samples))
}

func addThreshold(p *plot.Plot, xMin, xMax, y float64, name string, c color.RGBA) {
	line, err := plotter.NewLine(plotter.XYs{{X: xMin, Y: y}, {X: xMax, Y: y}})
	if err != nil {
		log.Fatalf("failed to build threshold line: %v", err)
	}
	line.Width = vg.Points(1)
	line.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	line.Color = c
	p.Add(line)
	p.Legend.Add(name, line)
}
