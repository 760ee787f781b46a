package monitor

import (
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/formsense/formsense/internal/engine"
	"github.com/formsense/formsense/internal/exercise"
	"github.com/formsense/formsense/internal/pose"
)

type stubLookup map[string]*engine.Session

func (s stubLookup) Session(id string) *engine.Session { return s[id] }

func liveSession(t *testing.T) *engine.Session {
	t.Helper()
	ex := exercise.DefaultCatalog().ByName("Shoulder Abduction")
	if ex == nil {
		t.Fatal("default catalog missing Shoulder Abduction")
	}
	session := engine.NewSession(ex, engine.DefaultConfig())
	session.Start()
	for _, deg := range []float64{20, 60, 120, 170, 120, 20} {
		rad := deg * math.Pi / 180
		session.Analyze(pose.Frame{
			pose.LeftHip:      {X: 0.5, Y: 0.7, Visibility: 1},
			pose.LeftShoulder: {X: 0.5, Y: 0.4, Visibility: 1},
			pose.LeftElbow:    {X: 0.5 + 0.15*math.Sin(rad), Y: 0.4 + 0.15*math.Cos(rad), Visibility: 1},
			pose.LeftWrist:    {X: 0.5 + 0.30*math.Sin(rad), Y: 0.4 + 0.30*math.Cos(rad), Visibility: 1},
		})
	}
	return session
}

func TestAngleChartRenders(t *testing.T) {
	session := liveSession(t)
	cs := NewChartServer(stubLookup{session.ID: session})

	mux := http.NewServeMux()
	cs.Register(mux)
	ts := httptest.NewServer(mux)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/debug/sessions/" + session.ID + "/chart")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected HTML content type, got %q", ct)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "Shoulder Abduction") {
		t.Error("chart body missing exercise name")
	}
}

func TestAngleChartUnknownSession(t *testing.T) {
	cs := NewChartServer(stubLookup{})
	mux := http.NewServeMux()
	cs.Register(mux)
	ts := httptest.NewServer(mux)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/debug/sessions/nope/chart")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
