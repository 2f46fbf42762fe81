package score

import (
	"math"
	"regexp"
	"strings"

	"github.com/ekoseoglu/takip/internal/i18n"
)

// Point caps per signal. The total never exceeds 100.
const (
	maxKeywordScore = 30
	maxSectionScore = 25
	maxLengthScore  = 20
	targetWordCount = 300
	tipThreshold    = 15
)

// keywords is the bilingual role/action/skill vocabulary. Matching is
// substring-based over the lowercased text; each distinct hit is worth 2
// points.
var keywords = []string{
	"go", "python", "java", "javascript", "typescript", "react", "swift",
	"kotlin", "sql", "docker", "kubernetes", "aws", "git", "linux", "rest",
	"api", "agile", "scrum", "ci/cd",
	"developed", "designed", "managed", "led", "built", "improved",
	"analysis", "project", "team", "software", "engineer",
	"geliştirdim", "tasarladım", "yönettim", "kurdum", "iyileştirdim",
	"analiz", "proje", "takım", "yazılım", "mühendis",
}

// requiredSections are the section names whose presence is scored, 5
// points per distinct name.
var requiredSections = []string{
	"experience", "education", "skills", "contact",
	"deneyim", "eğitim", "yetenekler", "iletişim",
}

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?\d[\d\s().-]{8,}\d`)
)

// profileLinks are the known profile-link keywords worth a 5-point bonus.
var profileLinks = []string{"github", "linkedin", "portfolio", "behance"}

// Result is the scored breakdown of one resume.
type Result struct {
	Total    int       `json:"total"`
	Keyword  int       `json:"keyword"`
	Section  int       `json:"section"`
	Length   int       `json:"length"`
	Contact  int       `json:"contact"`
	HasEmail bool      `json:"hasEmail"`
	HasPhone bool      `json:"hasPhone"`
	HasLink  bool      `json:"hasLink"`
	Words    int       `json:"words"`
	Tips     []string  `json:"tips"`
	Sections []Section `json:"sections"`
}

// Score rates the extracted text. Matching runs over a lowercased copy;
// the advisory tips come back localized for lang. Same text, same result.
func Score(text string, lang i18n.Lang) Result {
	lower := strings.ToLower(text)
	var r Result

	hits := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	r.Keyword = min(maxKeywordScore, 2*hits)

	present := 0
	for _, name := range requiredSections {
		if strings.Contains(lower, name) {
			present++
		}
	}
	r.Section = min(maxSectionScore, 5*present)

	r.Words = len(strings.Fields(text))
	if r.Words > targetWordCount {
		r.Length = maxLengthScore
	} else {
		r.Length = int(math.Round(maxLengthScore * float64(r.Words) / targetWordCount))
	}

	r.HasEmail = emailRe.MatchString(lower)
	r.HasPhone = phoneRe.MatchString(lower)
	for _, link := range profileLinks {
		if strings.Contains(lower, link) {
			r.HasLink = true
			break
		}
	}
	if r.HasEmail {
		r.Contact += 10
	}
	if r.HasPhone {
		r.Contact += 10
	}
	if r.HasLink {
		r.Contact += 5
	}

	r.Total = min(100, r.Keyword+r.Section+r.Length+r.Contact)
	r.Tips = tips(r, lang)
	r.Sections = SplitSections(text)
	return r
}

// tips emits one fixed suggestion per weak signal. They advise, they do
// not score.
func tips(r Result, lang i18n.Lang) []string {
	var out []string
	if !r.HasEmail {
		out = append(out, i18n.T(lang, "score.tip.email"))
	}
	if !r.HasPhone {
		out = append(out, i18n.T(lang, "score.tip.phone"))
	}
	if !r.HasLink {
		out = append(out, i18n.T(lang, "score.tip.link"))
	}
	if r.Length < tipThreshold {
		out = append(out, i18n.T(lang, "score.tip.length"))
	}
	if r.Section < tipThreshold {
		out = append(out, i18n.T(lang, "score.tip.sections"))
	}
	if r.Keyword < tipThreshold {
		out = append(out, i18n.T(lang, "score.tip.keywords"))
	}
	return out
}
