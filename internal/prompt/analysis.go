package prompt

import (
	"fmt"
	"strings"

	"github.com/shreyasggowda/career-nexus/internal/store"
)

// AnalysisPrompt builds the one-shot onboarding prompt asking the model for a
// career analysis. Output markup is constrained to a small HTML subset so the
// result can be rendered directly on the dashboard.
func AnalysisPrompt(p store.ProfileRecord) string {
	var b strings.Builder
	b.WriteString("Analyze this user for a career path:\n")
	fmt.Fprintf(&b, "Name: %s\n", p.FullName)
	fmt.Fprintf(&b, "Role: %s (%d years)\n", p.CurrentRole, p.Experience)
	fmt.Fprintf(&b, "Education: %s\n", p.Education)
	fmt.Fprintf(&b, "Skills: %s (Soft: %s)\n", p.HardSkills, p.SoftSkills)
	fmt.Fprintf(&b, "Aptitude: Solves problems via %s, acts as %s, learns by %s.\n",
		p.ProbSolving, p.TeamRole, p.LearningStyle)
	fmt.Fprintf(&b, "Interests: %s\n", p.Interests)
	fmt.Fprintf(&b, "Dream: %s\n", p.DreamGoal)
	b.WriteString("\n")
	b.WriteString("Output HTML format (<h2>, <ul>, <li>, <p> only).\n")
	b.WriteString("Provide: 1. Executive Summary, 2. Top 3 Career Paths, 3. Skill Gap Analysis.")
	return b.String()
}
