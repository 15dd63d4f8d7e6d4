package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shreyasggowda/career-nexus/internal/store"
)

// ErrMissingProfile reports that the user has not completed onboarding, so
// there is no profile to ground the prompt on. Distinct from model failures.
var ErrMissingProfile = errors.New("profile missing: user has not completed onboarding")

// FormatProfile renders a profile into the fixed label:value block used as
// grounding context. Field order is stable and the output is byte-identical
// for identical profile values.
func FormatProfile(p *store.ProfileRecord) (string, error) {
	if p == nil {
		return "", ErrMissingProfile
	}

	var b strings.Builder
	b.WriteString("User Profile:\n")
	fmt.Fprintf(&b, "- Name: %s\n", p.FullName)
	fmt.Fprintf(&b, "- Age: %d\n", p.Age)
	fmt.Fprintf(&b, "- Education: %s\n", p.Education)
	fmt.Fprintf(&b, "- Current Role: %s\n", p.CurrentRole)
	fmt.Fprintf(&b, "- Experience: %d years\n", p.Experience)
	fmt.Fprintf(&b, "- Interests: %s\n", p.Interests)
	fmt.Fprintf(&b, "- Dream Goal: %s\n", p.DreamGoal)
	fmt.Fprintf(&b, "- Hard Skills: %s\n", p.HardSkills)
	fmt.Fprintf(&b, "- Soft Skills: %s\n", p.SoftSkills)
	fmt.Fprintf(&b, "- Missing Skill: %s\n", p.MissingSkill)
	fmt.Fprintf(&b, "- Problem Solving Style: %s\n", p.ProbSolving)
	fmt.Fprintf(&b, "- Team Style: %s\n", p.TeamRole)
	fmt.Fprintf(&b, "- Ideal Work Environment: %s\n", p.Environment)
	fmt.Fprintf(&b, "- Learning Style: %s", p.LearningStyle)
	return b.String(), nil
}
