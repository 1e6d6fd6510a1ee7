package profile

import (
	"strings"

	"github.com/abhisek/prepcoach/internal/practice"
	"github.com/abhisek/prepcoach/internal/questionbank"
)

// Drill is the skills-practice profile: a single focus skill, with the rest
// of the context derived from it.
type Drill struct {
	Skill string
}

const (
	drillRole        = "Software Developer"
	drillExperience  = "2-5"
	drillCompanyType = "Tech Company"
	drillRound       = "Technical"
)

// NewDrill returns a Drill for skill.
func NewDrill(skill string) Drill {
	return Drill{Skill: strings.TrimSpace(skill)}
}

func (d Drill) Validate() error {
	if strings.TrimSpace(d.Skill) == "" {
		return practice.InvalidInput("skill")
	}
	return nil
}

func (d Drill) Primary() string { return strings.TrimSpace(d.Skill) }

func (d Drill) keywords() []string {
	return append([]string{d.Primary()}, questionbank.RelatedSkills(d.Primary())...)
}

func (d Drill) Context() practice.ProfileContext {
	return practice.ProfileContext{
		JobRole:           drillRole,
		Experience:        drillExperience,
		TechnicalKeywords: d.keywords(),
		CompanyType:       drillCompanyType,
		InterviewRound:    drillRound,
		FocusArea:         d.Primary(),
	}
}

// FeedbackProfile carries only role, experience and keywords.
func (d Drill) FeedbackProfile() practice.ProfileContext {
	return practice.ProfileContext{
		JobRole:           drillRole,
		Experience:        drillExperience,
		TechnicalKeywords: d.keywords(),
	}
}

func (d Drill) Snapshot() Drill { return d }
