// progression/evaluator.go
package progression

import "fmt"

// Snapshot is the already-loaded progress of one user.
type Snapshot struct {
	Experience            int64
	CompletedMissionNames []string
	CompetencyPoints      []int64
}

// Requirements is the storage-independent view of a rank's requirements.
type Requirements struct {
	RankLevel                int
	RequiredExperience       int64
	RequiredMissionName      string
	RequiredCompetencyPoints int64
}

// CompetencyPolicy decides whether per-competency points meet a threshold.
type CompetencyPolicy func(points []int64, threshold int64) bool

// AnyCompetencyAtLeast passes when a single competency reaches the threshold.
func AnyCompetencyAtLeast(points []int64, threshold int64) bool {
	for _, p := range points {
		if p >= threshold {
			return true
		}
	}
	return false
}

// SummedCompetencies passes when the total across competencies reaches the threshold.
func SummedCompetencies(points []int64, threshold int64) bool {
	var sum int64
	for _, p := range points {
		sum += p
	}
	return sum >= threshold
}

// PolicyByName maps the config value to a policy: "any" (default) or "sum".
func PolicyByName(name string) (CompetencyPolicy, error) {
	switch name {
	case "", "any":
		return AnyCompetencyAtLeast, nil
	case "sum":
		return SummedCompetencies, nil
	default:
		return nil, fmt.Errorf("unknown competency policy %q", name)
	}
}

type UnmetKind string

const (
	UnmetExperience UnmetKind = "experience"
	UnmetMission    UnmetKind = "mission"
	UnmetCompetency UnmetKind = "competency"
)

type UnmetRequirement struct {
	Kind     UnmetKind `json:"kind"`
	Message  string    `json:"message"`
	Required int64     `json:"required,omitempty"`
	Actual   int64     `json:"actual,omitempty"`
	Mission  string    `json:"mission,omitempty"`
}

type Evaluator struct {
	policy CompetencyPolicy
}

func NewEvaluator(policy CompetencyPolicy) *Evaluator {
	if policy == nil {
		policy = AnyCompetencyAtLeast
	}
	return &Evaluator{policy: policy}
}

func (e *Evaluator) Satisfies(s Snapshot, req Requirements) bool {
	return len(e.Unmet(s, req)) == 0
}

// Unmet lists every failed check, in evaluation order.
func (e *Evaluator) Unmet(s Snapshot, req Requirements) []UnmetRequirement {
	var unmet []UnmetRequirement

	if s.Experience < req.RequiredExperience {
		unmet = append(unmet, UnmetRequirement{
			Kind:     UnmetExperience,
			Message:  fmt.Sprintf("need %d experience, have %d", req.RequiredExperience, s.Experience),
			Required: req.RequiredExperience,
			Actual:   s.Experience,
		})
	}

	if req.RequiredMissionName != "" && !containsExact(s.CompletedMissionNames, req.RequiredMissionName) {
		unmet = append(unmet, UnmetRequirement{
			Kind:    UnmetMission,
			Message: fmt.Sprintf("mission %q is not completed", req.RequiredMissionName),
			Mission: req.RequiredMissionName,
		})
	}

	if req.RequiredCompetencyPoints > 0 && !e.policy(s.CompetencyPoints, req.RequiredCompetencyPoints) {
		unmet = append(unmet, UnmetRequirement{
			Kind:     UnmetCompetency,
			Message:  fmt.Sprintf("need %d competency points", req.RequiredCompetencyPoints),
			Required: req.RequiredCompetencyPoints,
			Actual:   maxOf(s.CompetencyPoints),
		})
	}

	return unmet
}

func containsExact(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}

func maxOf(points []int64) int64 {
	var m int64
	for _, p := range points {
		if p > m {
			m = p
		}
	}
	return m
}
