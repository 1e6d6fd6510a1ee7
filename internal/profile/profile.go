// Package profile holds the practice configuration a user edits before a
// session starts, and the two profile shapes sessions can be driven by.
package profile

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/abhisek/prepcoach/internal/practice"
)

// Well-known context tag keys.
const (
	TagCompanyType    = "company_type"
	TagInterviewRound = "interview_round"
	TagFocusArea      = "focus_area"
)

var (
	ErrEmptyKeyword     = errors.New("keyword is empty")
	ErrDuplicateKeyword = errors.New("keyword already present")
	ErrUnknownOption    = errors.New("unknown option")
)

// CompanyTypes and InterviewRounds list the accepted values for the
// corresponding tags, in display order.
var (
	CompanyTypes    = []string{"startup", "big_tech", "mnc", "consulting"}
	InterviewRounds = []string{"technical", "behavioral", "system_design", "hr"}
)

// Profile describes who is practicing and what the questions should be
// about. It is mutated directly by user input and is not safe for
// concurrent mutation; sessions only ever hold a Snapshot.
type Profile struct {
	JobRole    string
	Experience Experience

	keywords []string
	tags     map[string]string
}

// New returns an empty profile for jobRole.
func New(jobRole string) *Profile {
	return &Profile{
		JobRole: jobRole,
		tags:    make(map[string]string),
	}
}

// NewInterview returns the interview-coaching defaults.
func NewInterview() *Profile {
	p := New("Frontend Developer")
	p.Experience = Years(2)
	p.keywords = []string{"React", "JavaScript", "CSS"}
	p.tags[TagCompanyType] = "startup"
	p.tags[TagInterviewRound] = "technical"
	return p
}

// AddKeyword appends kw (trimmed) to the keyword set. Duplicates and blank
// keywords are rejected and leave the set unchanged.
func (p *Profile) AddKeyword(kw string) error {
	kw = strings.TrimSpace(kw)
	if kw == "" {
		return ErrEmptyKeyword
	}
	if slices.Contains(p.keywords, kw) {
		return fmt.Errorf("%w: %q", ErrDuplicateKeyword, kw)
	}
	p.keywords = append(p.keywords, kw)
	return nil
}

// RemoveKeyword deletes kw, reporting whether it was present.
func (p *Profile) RemoveKeyword(kw string) bool {
	i := slices.Index(p.keywords, kw)
	if i < 0 {
		return false
	}
	p.keywords = slices.Delete(p.keywords, i, i+1)
	return true
}

// Keywords returns the keywords in insertion order.
func (p *Profile) Keywords() []string {
	return slices.Clone(p.keywords)
}

// SetTag sets a context tag. An empty value removes it.
func (p *Profile) SetTag(key, value string) {
	if p.tags == nil {
		p.tags = make(map[string]string)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		delete(p.tags, key)
		return
	}
	p.tags[key] = value
}

// Tag returns the value of a context tag, or "".
func (p *Profile) Tag(key string) string {
	return p.tags[key]
}

// Tags returns a copy of all context tags.
func (p *Profile) Tags() map[string]string {
	return maps.Clone(p.tags)
}

// SetCompanyType sets the company_type tag to one of CompanyTypes.
func (p *Profile) SetCompanyType(v string) error {
	return p.setOption(TagCompanyType, v, CompanyTypes)
}

// SetInterviewRound sets the interview_round tag to one of InterviewRounds.
func (p *Profile) SetInterviewRound(v string) error {
	return p.setOption(TagInterviewRound, v, InterviewRounds)
}

func (p *Profile) setOption(key, v string, allowed []string) error {
	if !slices.Contains(allowed, v) {
		return fmt.Errorf("%w for %s: %q (want one of %s)", ErrUnknownOption, key, v, strings.Join(allowed, ", "))
	}
	p.SetTag(key, v)
	return nil
}

// Validate rejects a profile without a job role.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.JobRole) == "" {
		return practice.InvalidInput("job role")
	}
	return nil
}

// Primary returns the role the fallback question bank is keyed on.
func (p *Profile) Primary() string {
	return strings.TrimSpace(p.JobRole)
}

// Context returns the full profile as sent with question requests.
func (p *Profile) Context() practice.ProfileContext {
	return practice.ProfileContext{
		JobRole:           strings.TrimSpace(p.JobRole),
		Experience:        p.Experience.Value(),
		TechnicalKeywords: p.Keywords(),
		CompanyType:       p.tags[TagCompanyType],
		InterviewRound:    p.tags[TagInterviewRound],
		FocusArea:         p.tags[TagFocusArea],
	}
}

// FeedbackProfile returns the profile sent with feedback requests. The
// interview surface sends everything.
func (p *Profile) FeedbackProfile() practice.ProfileContext {
	return p.Context()
}

// Snapshot returns a deep copy. Later edits to p do not affect it.
func (p *Profile) Snapshot() *Profile {
	return &Profile{
		JobRole:    p.JobRole,
		Experience: p.Experience,
		keywords:   slices.Clone(p.keywords),
		tags:       maps.Clone(p.tags),
	}
}
