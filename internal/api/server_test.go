package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formsense/formsense/internal/db"
	"github.com/formsense/formsense/internal/engine"
	"github.com/formsense/formsense/internal/exercise"
	"github.com/formsense/formsense/internal/monitoring"
	"github.com/formsense/formsense/internal/pose"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.SetLogger(nil) })

	store, err := db.Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.SeedCatalog(t.Context(), exercise.DefaultCatalog()))

	srv := NewServer(store, engine.DefaultConfig())
	ts := httptest.NewServer(srv.ServeMux())
	t.Cleanup(ts.Close)
	return srv, ts
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, into interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
}

func createSession(t *testing.T, ts *httptest.Server, exerciseName string) string {
	t.Helper()
	resp := postJSON(t, ts.URL+"/api/sessions", map[string]string{"exercise": exerciseName})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out map[string]string
	decodeBody(t, resp, &out)
	require.NotEmpty(t, out["session_id"])
	return out["session_id"]
}

// abductionFrame mirrors the geometry used in the engine tests: a left
// arm at the given abduction angle.
func abductionFrame(deg float64) pose.Frame {
	rad := deg * math.Pi / 180
	return pose.Frame{
		pose.LeftHip:      {X: 0.5, Y: 0.7, Visibility: 1},
		pose.LeftShoulder: {X: 0.5, Y: 0.4, Visibility: 1},
		pose.LeftElbow:    {X: 0.5 + 0.15*math.Sin(rad), Y: 0.4 + 0.15*math.Cos(rad), Visibility: 1},
		pose.LeftWrist:    {X: 0.5 + 0.30*math.Sin(rad), Y: 0.4 + 0.30*math.Cos(rad), Visibility: 1},
	}
}

func TestListExercises(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/exercises")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Exercises []db.ExerciseRecord `json:"exercises"`
	}
	decodeBody(t, resp, &out)
	assert.Len(t, out.Exercises, len(exercise.DefaultCatalog().Exercises))
}

func TestCreateSession_UnknownExercise(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/sessions", map[string]string{"exercise": "nonexistent"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFrameAnalysisFlow(t *testing.T) {
	_, ts := newTestServer(t)
	id := createSession(t, ts, "Shoulder Abduction")

	resp := postJSON(t, ts.URL+"/api/sessions/"+id+"/start", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	post := func(deg float64) engine.Result {
		resp := postJSON(t, fmt.Sprintf("%s/api/sessions/%s/frames", ts.URL, id),
			map[string]interface{}{"keypoints": abductionFrame(deg)})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var result engine.Result
		decodeBody(t, resp, &result)
		return result
	}

	low := post(20)
	assert.Equal(t, engine.PhaseReady, low.Phase)
	assert.True(t, low.Tracking)
	assert.InDelta(t, 20, low.Angle, 1)

	mid := post(120)
	assert.Equal(t, engine.PhaseMoving, mid.Phase)

	peak := post(170)
	assert.Equal(t, engine.PhasePeak, peak.Phase)
	assert.Equal(t, 1, peak.RepCount)

	// Summary reflects the frames so far.
	sresp, err := http.Get(ts.URL + "/api/sessions/" + id + "/summary")
	require.NoError(t, err)
	var sum engine.Summary
	decodeBody(t, sresp, &sum)
	assert.Equal(t, 1, sum.RepCount)
	assert.Equal(t, 3, sum.Frames)
	assert.Equal(t, "Shoulder Abduction", sum.Exercise)
}

func TestFrameHandler_UntrackedFrame(t *testing.T) {
	_, ts := newTestServer(t)
	id := createSession(t, ts, "Shoulder Abduction")

	resp := postJSON(t, fmt.Sprintf("%s/api/sessions/%s/frames", ts.URL, id),
		map[string]interface{}{"keypoints": pose.Frame{}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result engine.Result
	decodeBody(t, resp, &result)
	assert.False(t, result.Tracking)
	assert.Nil(t, result.FormOK)
}

func TestSessionControls(t *testing.T) {
	srv, ts := newTestServer(t)
	id := createSession(t, ts, "Bicep Curl")

	session := srv.Session(id)
	require.NotNil(t, session)
	assert.False(t, session.Started())

	resp := postJSON(t, ts.URL+"/api/sessions/"+id+"/start", nil)
	resp.Body.Close()
	assert.True(t, session.Started())

	resp = postJSON(t, ts.URL+"/api/sessions/"+id+"/stop", nil)
	resp.Body.Close()
	assert.False(t, session.Started())

	resp = postJSON(t, ts.URL+"/api/sessions/"+id+"/reset", nil)
	resp.Body.Close()
	assert.Equal(t, 0, session.RepCount())
}

func TestPushExerciseConfig(t *testing.T) {
	_, ts := newTestServer(t)

	cfg := map[string]interface{}{
		"name": "Recommended Raise",
		"primary_angle": map[string]interface{}{
			"points": []int{23, 11, 15},
			"name":   "shoulder angle",
		},
		"target_ranges": map[string]interface{}{
			"starting_position": map[string]float64{"low": 0, "high": 30},
			"target_range":      map[string]float64{"low": 80, "high": 180},
			"optimal_peak":      map[string]float64{"low": 160, "high": 180},
		},
		// Deliberately descending: load-time repair applies.
		"rep_thresholds": map[string]float64{"lifting_min": 150, "lowering_max": 100, "rest_max": 40},
	}

	resp := postJSON(t, ts.URL+"/api/exercises", cfg)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	id := createSession(t, ts, "Recommended Raise")
	assert.NotEmpty(t, id)
}

func TestPushExerciseConfig_RejectsMalformed(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/exercises", map[string]interface{}{"name": "No Angle"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnknownSessionActions(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/sessions/does-not-exist/summary")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	id := createSession(t, ts, "Squat")
	resp, err = http.Get(ts.URL + "/api/sessions/" + id + "/teleport")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
