package score

import (
	"strings"
	"testing"
)

func TestSplitSections_Basic(t *testing.T) {
	text := strings.Join([]string{
		"Deniz Yılmaz",
		"Istanbul",
		"EXPERIENCE",
		"Acme Corp, backend developer",
		"Built internal tooling",
		"EDUCATION",
		"BSc Computer Engineering",
	}, "\n")

	sections := SplitSections(text)
	if len(sections) != 3 {
		t.Fatalf("len(sections) = %d, want 3: %+v", len(sections), sections)
	}

	if sections[0].Title != DefaultSection {
		t.Errorf("sections[0].Title = %q, want %q", sections[0].Title, DefaultSection)
	}
	if !strings.Contains(sections[0].Content, "Deniz Yılmaz") {
		t.Errorf("preamble not in default bucket: %q", sections[0].Content)
	}
	if sections[1].Title != "EXPERIENCE" || !strings.Contains(sections[1].Content, "Acme Corp") {
		t.Errorf("sections[1] = %+v", sections[1])
	}
	if sections[2].Title != "EDUCATION" {
		t.Errorf("sections[2].Title = %q, want EDUCATION", sections[2].Title)
	}
}

func TestSplitSections_TurkishHeaders(t *testing.T) {
	text := "İş Deneyimi\nAcme\nEğitim\nBoğaziçi"
	sections := SplitSections(text)
	if len(sections) != 2 {
		t.Fatalf("len(sections) = %d, want 2: %+v", len(sections), sections)
	}
	if sections[0].Title != "İş Deneyimi" || sections[1].Title != "Eğitim" {
		t.Errorf("titles = %q, %q", sections[0].Title, sections[1].Title)
	}
}

func TestSplitSections_LongLineIsNotAHeader(t *testing.T) {
	long := "my extensive work experience spans a decade of varied roles"
	sections := SplitSections(long + "\nmore text")
	if len(sections) != 1 || sections[0].Title != DefaultSection {
		t.Errorf("long line treated as header: %+v", sections)
	}
}

func TestSplitSections_NoHeaders(t *testing.T) {
	sections := SplitSections("just one block\nof plain text")
	if len(sections) != 1 {
		t.Fatalf("len(sections) = %d, want 1", len(sections))
	}
	if sections[0].Title != DefaultSection || sections[0].Content == "" {
		t.Errorf("sections[0] = %+v", sections[0])
	}
}

func TestSplitSections_EmptyPreambleDropped(t *testing.T) {
	sections := SplitSections("SKILLS\nGo, SQL")
	if len(sections) != 1 || sections[0].Title != "SKILLS" {
		t.Errorf("sections = %+v, want only SKILLS", sections)
	}
}
