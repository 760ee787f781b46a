package pose

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolveIndices_Right(t *testing.T) {
	got := ResolveIndices([]int{LeftShoulder, LeftElbow, LeftWrist, LeftHip}, SideRight)
	want := []int{RightShoulder, RightElbow, RightWrist, RightHip}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ResolveIndices mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveIndices_LeftIsIdentity(t *testing.T) {
	in := []int{LeftShoulder, LeftElbow, LeftWrist, Nose, LeftKnee}
	got := ResolveIndices(in, SideLeft)
	if diff := cmp.Diff(in, got); diff != "" {
		t.Errorf("ResolveIndices mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveIndices_DoesNotMutateInput(t *testing.T) {
	in := []int{LeftShoulder, LeftElbow}
	_ = ResolveIndices(in, SideRight)
	if in[0] != LeftShoulder || in[1] != LeftElbow {
		t.Errorf("input slice was mutated: %v", in)
	}
}

func TestResolveIndices_UnmappedPassThrough(t *testing.T) {
	got := ResolveIndices([]int{Nose, MouthLeft, 99}, SideRight)
	want := []int{Nose, MouthLeft, 99}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unmapped indices should pass through (-want +got):\n%s", diff)
	}
}

func TestMirror_Symmetric(t *testing.T) {
	for idx := 0; idx < NumLandmarks; idx++ {
		if Mirror(Mirror(idx)) != idx {
			t.Errorf("Mirror(Mirror(%d)) = %d, want %d", idx, Mirror(Mirror(idx)), idx)
		}
	}
}

func TestFrame_At(t *testing.T) {
	f := Frame{
		LeftWrist: {X: 0.4, Y: 0.5, Visibility: 0.9},
		LeftElbow: {X: 0.4, Y: 0.6, Visibility: 0.1},
	}

	if _, ok := f.At(LeftWrist, 0.5); !ok {
		t.Error("expected visible wrist to be present")
	}
	if _, ok := f.At(LeftElbow, 0.5); ok {
		t.Error("expected low-visibility elbow to be treated as missing")
	}
	if _, ok := f.At(LeftShoulder, 0.5); ok {
		t.Error("expected absent shoulder to be missing")
	}
}

func TestFrame_Has(t *testing.T) {
	f := Frame{
		LeftShoulder: {X: 0.5, Y: 0.3, Visibility: 0.9},
		LeftElbow:    {X: 0.5, Y: 0.45, Visibility: 0.8},
		LeftWrist:    {X: 0.5, Y: 0.6, Visibility: 0.7},
	}

	if !f.Has(0.5, LeftShoulder, LeftElbow, LeftWrist) {
		t.Error("expected all arm landmarks present")
	}
	if f.Has(0.5, LeftShoulder, LeftHip) {
		t.Error("expected missing hip to fail Has")
	}
}
