package exercise

import "github.com/formsense/formsense/internal/pose"

// DefaultCatalog returns the built-in exercises used when no catalog
// file or recommendation service is available. All configs reference
// left-side landmarks; the engine mirrors them at runtime.
func DefaultCatalog() *Catalog {
	cat := &Catalog{
		Exercises: []*Config{
			{
				Name:        "Shoulder Abduction",
				Description: "Raise the arm sideways to shoulder height and above, keeping the elbow straight.",
				Steps: []string{
					"Stand upright with the arm relaxed at your side",
					"Raise the arm sideways in a slow, controlled arc",
					"Continue until the arm points overhead",
					"Lower back to your side at the same pace",
				},
				TargetKeypoints: []int{pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist, pose.LeftHip},
				PrimaryAngle: AngleSpec{
					Points: [3]int{pose.LeftHip, pose.LeftShoulder, pose.LeftElbow},
					Name:   "shoulder abduction angle",
				},
				TargetRanges: TargetRanges{
					StartingPosition: Range{Low: 0, High: 30},
					TargetRange:      Range{Low: 80, High: 180},
					OptimalPeak:      Range{Low: 160, High: 180},
				},
				FormChecks: []FormCheck{
					{
						Condition:    "wrist higher than shoulder before the arm is level",
						ErrorMessage: "Lead with the elbow, not the wrist",
						Keypoints:    []int{pose.LeftWrist, pose.LeftShoulder},
					},
					{
						Condition:    "torso upright",
						ErrorMessage: "Keep your back straight, avoid leaning sideways",
						Keypoints:    []int{pose.LeftShoulder, pose.LeftHip, pose.LeftKnee},
					},
				},
				RepThresholds: RepThresholds{LiftingMin: 40, LoweringMax: 100, RestMax: 150},
			},
			{
				Name:        "Bicep Curl",
				Description: "Curl the forearm toward the shoulder with the upper arm pinned to the torso.",
				Steps: []string{
					"Stand upright with the arm extended at your side",
					"Bend the elbow, bringing the hand to the shoulder",
					"Squeeze briefly at the top",
					"Lower slowly until the arm is straight again",
				},
				TargetKeypoints: []int{pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist, pose.LeftHip},
				PrimaryAngle: AngleSpec{
					Points: [3]int{pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist},
					Name:   "elbow flexion angle",
				},
				TargetRanges: TargetRanges{
					StartingPosition: Range{Low: 150, High: 180},
					TargetRange:      Range{Low: 30, High: 90},
					OptimalPeak:      Range{Low: 30, High: 60},
				},
				FormChecks: []FormCheck{
					{
						Condition:    "elbow away from body",
						ErrorMessage: "Keep the elbow tucked against your side",
						Keypoints:    []int{pose.LeftElbow, pose.LeftHip},
					},
				},
				RepThresholds: RepThresholds{LiftingMin: 70, LoweringMax: 110, RestMax: 150},
			},
			{
				Name:        "Squat",
				Description: "Bend the knees and hips to lower the body, then drive back up to standing.",
				Steps: []string{
					"Stand with feet shoulder-width apart",
					"Bend knees and hips, keeping the chest up",
					"Lower until the thighs are near parallel",
					"Push through the heels back to standing",
				},
				TargetKeypoints: []int{pose.LeftHip, pose.LeftKnee, pose.LeftAnkle, pose.LeftShoulder},
				PrimaryAngle: AngleSpec{
					Points: [3]int{pose.LeftHip, pose.LeftKnee, pose.LeftAnkle},
					Name:   "knee flexion angle",
				},
				TargetRanges: TargetRanges{
					StartingPosition: Range{Low: 160, High: 180},
					TargetRange:      Range{Low: 70, High: 120},
					OptimalPeak:      Range{Low: 70, High: 100},
				},
				FormChecks: []FormCheck{
					{
						Condition:    "knee alignment over the foot",
						ErrorMessage: "Keep the knee tracking over the foot",
						Keypoints:    []int{pose.LeftKnee, pose.LeftAnkle},
					},
					{
						Condition:    "back straight throughout the descent",
						ErrorMessage: "Keep your chest up and back straight",
						Keypoints:    []int{pose.LeftShoulder, pose.LeftHip, pose.LeftKnee},
					},
				},
				RepThresholds: RepThresholds{LiftingMin: 110, LoweringMax: 140, RestMax: 160},
			},
			{
				Name:        "Straight Leg Raise",
				Description: "Lift the straight leg forward and up while standing tall.",
				Steps: []string{
					"Stand upright, weight on the supporting leg",
					"Lift the other leg forward, knee straight",
					"Raise until you feel the stretch",
					"Lower back down with control",
				},
				TargetKeypoints: []int{pose.LeftHip, pose.LeftKnee, pose.LeftAnkle, pose.LeftShoulder},
				PrimaryAngle: AngleSpec{
					Points: [3]int{pose.LeftShoulder, pose.LeftHip, pose.LeftKnee},
					Name:   "hip flexion angle",
				},
				TargetRanges: TargetRanges{
					StartingPosition: Range{Low: 160, High: 180},
					TargetRange:      Range{Low: 100, High: 140},
					OptimalPeak:      Range{Low: 100, High: 125},
				},
				FormChecks: []FormCheck{
					{
						Condition:    "back straight, no leaning away",
						ErrorMessage: "Stay tall, do not lean back while lifting",
						Keypoints:    []int{pose.LeftShoulder, pose.LeftHip, pose.LeftKnee},
					},
				},
				RepThresholds: RepThresholds{LiftingMin: 130, LoweringMax: 145, RestMax: 160},
			},
		},
	}

	for _, ex := range cat.Exercises {
		// Built-in configs are well formed; Finalize only derives fields.
		if err := ex.Finalize(); err != nil {
			panic("built-in exercise catalog is invalid: " + err.Error())
		}
	}
	return cat
}
