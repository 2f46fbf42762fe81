package score

import "strings"

// maxHeaderLen bounds recognized header lines; longer lines are treated
// as body text even when they mention a section name.
const maxHeaderLen = 40

// DefaultSection collects text appearing before the first recognized header.
const DefaultSection = "General"

// headerNames is the bilingual list of recognized section headers,
// matched case-insensitively against trimmed lines.
var headerNames = []string{
	"experience", "work experience", "education", "skills", "projects",
	"certificates", "summary", "languages", "contact",
	"deneyim", "iş deneyimi", "eğitim", "yetenekler", "beceriler",
	"projeler", "sertifikalar", "özet", "diller", "iletişim",
}

// Section is one split chunk of the resume.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// SplitSections scans lines and groups them under recognized headers.
// A line becomes a header when its uppercased, trimmed form contains one
// of the known names and the line is shorter than 40 characters. The
// split is best-effort, not guaranteed correct.
func SplitSections(text string) []Section {
	sections := []Section{{Title: DefaultSection}}
	cur := 0

	var bodies = make([][]string, 1)
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if title, ok := headerLine(trimmed); ok {
			sections = append(sections, Section{Title: title})
			bodies = append(bodies, nil)
			cur = len(sections) - 1
			continue
		}
		bodies[cur] = append(bodies[cur], line)
	}

	out := make([]Section, 0, len(sections))
	for i, s := range sections {
		s.Content = strings.TrimSpace(strings.Join(bodies[i], "\n"))
		// Keep the default bucket only if anything preceded the first header.
		if i == 0 && s.Content == "" && len(sections) > 1 {
			continue
		}
		out = append(out, s)
	}
	return out
}

func headerLine(trimmed string) (string, bool) {
	if trimmed == "" || len(trimmed) >= maxHeaderLen {
		return "", false
	}
	upper := strings.ToUpper(trimmed)
	for _, name := range headerNames {
		if strings.Contains(upper, strings.ToUpper(name)) {
			return trimmed, true
		}
	}
	return "", false
}
