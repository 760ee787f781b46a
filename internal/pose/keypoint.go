package pose

// Keypoint is a single tracked body landmark in normalized image
// coordinates. X and Y are in [0,1] with the origin at the top-left of
// the frame, so smaller Y means higher in the image. Visibility is the
// estimator's confidence that the landmark is actually in view.
type Keypoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Visibility float64 `json:"visibility"`
}

// Frame is one video frame's worth of keypoints, indexed by landmark.
// The map is sparse: landmarks the estimator did not report are simply
// absent, and low-visibility entries must be treated as missing too.
// A Frame is a read-only snapshot; nothing retains it past its analysis.
type Frame map[int]Keypoint

// At returns the keypoint for a landmark index if it is present with at
// least the given visibility.
func (f Frame) At(idx int, minVisibility float64) (Keypoint, bool) {
	kp, ok := f[idx]
	if !ok || kp.Visibility < minVisibility {
		return Keypoint{}, false
	}
	return kp, true
}

// Has reports whether every listed landmark is present with at least the
// given visibility.
func (f Frame) Has(minVisibility float64, indices ...int) bool {
	for _, idx := range indices {
		if _, ok := f.At(idx, minVisibility); !ok {
			return false
		}
	}
	return true
}
