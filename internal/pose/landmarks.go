// Package pose defines the body landmark schema and per-frame keypoint
// data produced by the external pose estimator.
package pose

// Body landmark indices following the MediaPipe Pose convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	Nose          = 0
	LeftEyeInner  = 1
	LeftEye       = 2
	LeftEyeOuter  = 3
	RightEyeInner = 4
	RightEye      = 5
	RightEyeOuter = 6
	LeftEar       = 7
	RightEar      = 8
	MouthLeft     = 9
	MouthRight    = 10
	LeftShoulder  = 11
	RightShoulder = 12
	LeftElbow     = 13
	RightElbow    = 14
	LeftWrist     = 15
	RightWrist    = 16
	LeftPinky     = 17
	RightPinky    = 18
	LeftIndex     = 19
	RightIndex    = 20
	LeftThumb     = 21
	RightThumb    = 22
	LeftHip       = 23
	RightHip      = 24
	LeftKnee      = 25
	RightKnee     = 26
	LeftAnkle     = 27
	RightAnkle    = 28
	LeftHeel      = 29
	RightHeel     = 30
	LeftFootIndex = 31
	RightFootIndex = 32
	NumLandmarks  = 33
)

// Side identifies which half of a bilateral landmark pair is meant.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// mirrorMap pairs each left-side landmark used by exercise configs with
// its right-side counterpart. Indices outside the map have no bilateral
// counterpart and resolve to themselves.
var mirrorMap = map[int]int{
	LeftShoulder: RightShoulder,
	RightShoulder: LeftShoulder,
	LeftElbow:  RightElbow,
	RightElbow: LeftElbow,
	LeftWrist:  RightWrist,
	RightWrist: LeftWrist,
	LeftHip:    RightHip,
	RightHip:   LeftHip,
	LeftKnee:   RightKnee,
	RightKnee:  LeftKnee,
	LeftAnkle:  RightAnkle,
	RightAnkle: LeftAnkle,
}

// Mirror returns the opposite-side counterpart of a landmark index, or
// the index itself when it has no bilateral counterpart.
func Mirror(idx int) int {
	if m, ok := mirrorMap[idx]; ok {
		return m
	}
	return idx
}

// ResolveIndices translates canonical (left-side) landmark indices to the
// given side. Exercise configs always reference the left-side convention;
// when the active side is the right, each index is swapped through the
// mirror map. Unmapped indices pass through unchanged.
func ResolveIndices(indices []int, side Side) []int {
	resolved := make([]int, len(indices))
	copy(resolved, indices)
	if side != SideRight {
		return resolved
	}
	for i, idx := range resolved {
		resolved[i] = Mirror(idx)
	}
	return resolved
}

// Resolve translates a single canonical landmark index to the given side.
func Resolve(idx int, side Side) int {
	if side == SideRight {
		return Mirror(idx)
	}
	return idx
}
