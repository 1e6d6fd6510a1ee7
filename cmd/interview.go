package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepcoach/internal/profile"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Start an interview coaching session",
	Long: `Start a timed interview session for a job profile.

Unset flags keep the defaults: Frontend Developer, 2 years, React,
JavaScript and CSS, startup, technical round.`,
	Example: `  prepcoach interview --role "Backend Engineer" --experience 5 -k Go -k PostgreSQL
  prepcoach interview --round system_design --focus "scalability"`,
	Args: cobra.NoArgs,
	RunE: runInterview,
}

func init() {
	addInterviewFlags(interviewCmd)
}

func addInterviewFlags(c *cobra.Command) {
	f := c.Flags()
	f.String("role", "", "Job role to practice for")
	f.String("experience", "", `Years of experience, or a label such as "2-5"`)
	f.StringSliceP("keyword", "k", nil, "Technical keyword (repeatable; replaces the defaults)")
	f.String("company", "", "Company type: "+strings.Join(profile.CompanyTypes, ", "))
	f.String("round", "", "Interview round: "+strings.Join(profile.InterviewRounds, ", "))
	f.String("focus", "", "Free-form focus area")
}

func runInterview(cmd *cobra.Command, args []string) error {
	p, err := interviewProfile(cmd)
	if err != nil {
		return err
	}
	return runPractice(cmd, "interview", "Interview coach", p)
}

// interviewProfile starts from the interview defaults and applies the flags
// the user set.
func interviewProfile(cmd *cobra.Command) (*profile.Profile, error) {
	f := cmd.Flags()
	p := profile.NewInterview()

	if f.Changed("role") {
		p.JobRole, _ = f.GetString("role")
	}
	if f.Changed("experience") {
		v, _ := f.GetString("experience")
		p.Experience = profile.Label(v)
	}
	if f.Changed("keyword") {
		kws, _ := f.GetStringSlice("keyword")
		for _, kw := range p.Keywords() {
			p.RemoveKeyword(kw)
		}
		for _, kw := range kws {
			if err := p.AddKeyword(kw); err != nil {
				return nil, fmt.Errorf("--keyword: %w", err)
			}
		}
	}
	if f.Changed("company") {
		v, _ := f.GetString("company")
		if err := p.SetCompanyType(v); err != nil {
			return nil, err
		}
	}
	if f.Changed("round") {
		v, _ := f.GetString("round")
		if err := p.SetInterviewRound(v); err != nil {
			return nil, err
		}
	}
	if f.Changed("focus") {
		v, _ := f.GetString("focus")
		p.SetTag(profile.TagFocusArea, v)
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("--role: %w", err)
	}
	return p, nil
}
