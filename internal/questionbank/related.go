package questionbank

import "slices"

// defaultRelated is used for skills missing from relatedSkills.
var defaultRelated = []string{"Programming", "Development", "Best Practices"}

var relatedSkills = map[string][]string{
	"React":            {"JavaScript", "TypeScript", "CSS", "HTML"},
	"Vue":              {"JavaScript", "TypeScript", "CSS", "HTML"},
	"Angular":          {"TypeScript", "JavaScript", "CSS", "HTML"},
	"JavaScript":       {"ES6", "TypeScript", "DOM", "Async"},
	"TypeScript":       {"JavaScript", "Interfaces", "Types"},
	"CSS":              {"HTML", "Responsive Design", "CSS3"},
	"Node.js":          {"JavaScript", "Express", "API", "Backend"},
	"Python":           {"Django", "Flask", "Backend", "API"},
	"Java":             {"Spring", "OOP", "Backend"},
	"SQL":              {"Database", "Queries", "Relations"},
	"API Design":       {"REST", "GraphQL", "Endpoints"},
	"Microservices":    {"Architecture", "Docker", "Kubernetes"},
	"AWS":              {"Cloud", "EC2", "S3", "Lambda"},
	"Docker":           {"Containers", "DevOps", "Deployment"},
	"Kubernetes":       {"Orchestration", "Containers", "DevOps"},
	"CI/CD":            {"Automation", "Testing", "Deployment"},
	"Terraform":        {"Infrastructure", "IaC", "Cloud"},
	"Monitoring":       {"Observability", "Logging", "Metrics"},
	"React Native":     {"JavaScript", "Mobile", "iOS", "Android"},
	"Flutter":          {"Dart", "Mobile", "UI"},
	"iOS":              {"Swift", "Mobile", "Apple"},
	"Android":          {"Kotlin", "Mobile", "Java"},
	"Mobile UI/UX":     {"Design", "User Experience", "Responsive"},
	"OWASP":            {"Security", "Web", "Vulnerabilities"},
	"Encryption":       {"Security", "Cryptography", "Data Protection"},
	"Network Security": {"Firewalls", "VPN", "Security"},
	"Pen Testing":      {"Security", "Testing", "Vulnerabilities"},
}

// RelatedSkills returns the keywords associated with skill, or the generic
// default set when the skill is unknown. The returned slice is a copy.
func RelatedSkills(skill string) []string {
	if rel, ok := relatedSkills[skill]; ok {
		return slices.Clone(rel)
	}
	return slices.Clone(defaultRelated)
}

// Category groups practice skills for the skills-drill surface.
type Category struct {
	ID     string
	Name   string
	Skills []string
}

var categories = []Category{
	{ID: "frontend", Name: "Frontend Development", Skills: []string{"React", "Vue", "Angular", "JavaScript", "TypeScript", "CSS"}},
	{ID: "backend", Name: "Backend Development", Skills: []string{"Node.js", "Python", "Java", "SQL", "API Design", "Microservices"}},
	{ID: "cloud", Name: "Cloud & DevOps", Skills: []string{"AWS", "Docker", "Kubernetes", "CI/CD", "Terraform", "Monitoring"}},
	{ID: "mobile", Name: "Mobile Development", Skills: []string{"React Native", "Flutter", "iOS", "Android", "Mobile UI/UX"}},
	{ID: "security", Name: "Cybersecurity", Skills: []string{"OWASP", "Encryption", "Network Security", "Pen Testing"}},
}

// Categories returns the skill catalog in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		c.Skills = slices.Clone(c.Skills)
		out[i] = c
	}
	return out
}

// CategoryOf returns the ID of the category containing skill.
func CategoryOf(skill string) (string, bool) {
	for _, c := range categories {
		if slices.Contains(c.Skills, skill) {
			return c.ID, true
		}
	}
	return "", false
}
