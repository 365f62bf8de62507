package orientation

// Pose is the canonical representation of orientation for the cockpit.
// All angles are in degrees; Heading is in [0, 360).
type Pose struct {
	Heading float64 `json:"heading"`
	Pitch   float64 `json:"pitch"`
	Roll    float64 `json:"roll"`
}
