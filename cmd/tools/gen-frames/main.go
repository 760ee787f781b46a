// Command gen-frames generates synthetic keypoint frame sequences for
// testing the analysis server without a camera. Each output line is a
// JSON body ready to POST to /api/sessions/{id}/frames.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"math"
	"math/rand"
	"os"

	"github.com/formsense/formsense/internal/exercise"
	"github.com/formsense/formsense/internal/pose"
)

func main() {
	exName := flag.String("exercise", "Shoulder Abduction", "exercise from the built-in catalog")
	output := flag.String("o", "frames.jsonl", "output path")
	frames := flag.Int("n", 300, "number of frames")
	reps := flag.Int("reps", 3, "number of full rep cycles")
	side := flag.String("side", "left", "which side performs the movement (left or right)")
	jitter := flag.Float64("jitter", 0.5, "per-frame angle jitter in degrees")
	seed := flag.Int64("seed", 1, "random seed for jitter")
	flag.Parse()

	ex := exercise.DefaultCatalog().ByName(*exName)
	if ex == nil {
		log.Fatalf("unknown exercise %q", *exName)
	}
	if *side != string(pose.SideLeft) && *side != string(pose.SideRight) {
		log.Fatalf("invalid side %q", *side)
	}

	rest := ex.TargetRanges.StartingPosition.Mid()
	peak := ex.TargetRanges.OptimalPeak.Mid()

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("failed to create output: %v", err)
	}
	defer f.Close()

	rng := rand.New(rand.NewSource(*seed))
	enc := json.NewEncoder(f)
	for i := 0; i < *frames; i++ {
		// Cosine sweep: rest -> peak -> rest, repeated per rep.
		t := float64(i) / float64(*frames)
		angle := rest + (peak-rest)*(1-math.Cos(2*math.Pi*t*float64(*reps)))/2
		angle += (rng.Float64()*2 - 1) * *jitter

		frame := frameAtAngle(ex, pose.Side(*side), angle)
		if err := enc.Encode(map[string]pose.Frame{"keypoints": frame}); err != nil {
			log.Fatalf("failed to write frame: %v", err)
		}
	}
	log.Printf("wrote %d frames of %q (%d reps) to %s", *frames, ex.Name, *reps, *output)
}

// frameAtAngle builds a full-body frame in which the moving side's
// primary joint sits at exactly the given interior angle while the
// opposite limb stays at rest. Both sides carry a complete limb chain
// so side detection sees real evidence on every frame.
func frameAtAngle(ex *exercise.Config, side pose.Side, deg float64) pose.Frame {
	frame := pose.Frame{}
	other := pose.SideRight
	if side == pose.SideRight {
		other = pose.SideLeft
	}

	if ex.Limb == exercise.LimbArm {
		armChain(frame, side, -0.08, deg)
		armChain(frame, other, 0.08, 15)
	} else {
		legChain(frame, side, -0.06, deg)
		legChain(frame, other, 0.06, 178)
	}

	// Overwrite the primary-angle triple so the joint sits at exactly
	// the requested angle regardless of which joints the config names.
	pts := pose.ResolveIndices(ex.PrimaryAngle.Points[:], side)
	a, vertex, b := pts[0], pts[1], pts[2]
	vx, vy := 0.5, 0.45
	rad := deg * math.Pi / 180
	frame[a] = pose.Keypoint{X: vx, Y: vy + 0.25, Visibility: 1}
	frame[vertex] = pose.Keypoint{X: vx, Y: vy, Visibility: 1}
	frame[b] = pose.Keypoint{X: vx + 0.25*math.Sin(rad), Y: vy + 0.25*math.Cos(rad), Visibility: 1}
	return frame
}

// armChain places shoulder, hip, elbow and wrist for one side, with the
// arm swung off straight-down by the given angle.
func armChain(frame pose.Frame, side pose.Side, xOff, deg float64) {
	sx, sy := 0.5+xOff, 0.30
	rad := deg * math.Pi / 180
	dx, dy := math.Sin(rad), math.Cos(rad)
	if side == pose.SideRight {
		dx = -dx
	}
	frame[pose.Resolve(pose.LeftShoulder, side)] = pose.Keypoint{X: sx, Y: sy, Visibility: 1}
	frame[pose.Resolve(pose.LeftHip, side)] = pose.Keypoint{X: sx, Y: sy + 0.3, Visibility: 1}
	frame[pose.Resolve(pose.LeftElbow, side)] = pose.Keypoint{X: sx + 0.15*dx, Y: sy + 0.15*dy, Visibility: 1}
	frame[pose.Resolve(pose.LeftWrist, side)] = pose.Keypoint{X: sx + 0.30*dx, Y: sy + 0.30*dy, Visibility: 1}
}

// legChain places hip, knee and ankle for one side, with the knee bent
// to the given interior angle.
func legChain(frame pose.Frame, side pose.Side, xOff, deg float64) {
	hx, hy := 0.5+xOff, 0.50
	bend := (180 - deg) * math.Pi / 180
	dx := math.Sin(bend)
	if side == pose.SideRight {
		dx = -dx
	}
	frame[pose.Resolve(pose.LeftHip, side)] = pose.Keypoint{X: hx, Y: hy, Visibility: 1}
	frame[pose.Resolve(pose.LeftKnee, side)] = pose.Keypoint{X: hx, Y: hy + 0.2, Visibility: 1}
	frame[pose.Resolve(pose.LeftAnkle, side)] = pose.Keypoint{X: hx + 0.2*dx, Y: hy + 0.2 + 0.2*math.Cos(bend), Visibility: 1}
}
