package analytics

import (
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/ekoseoglu/takip/internal/store"
)

func viewApps() []store.Application {
	day := func(d int) time.Time { return time.Date(2025, time.May, d, 0, 0, 0, 0, time.UTC) }
	return []store.Application{
		{ID: "1", Company: "Getir", Position: "Backend Engineer", Status: store.StatusInProcess, AppliedAt: day(1), CreatedAt: 1},
		{ID: "2", Company: "Trendyol", Position: "iOS Developer", Status: store.StatusRejected, AppliedAt: day(3), CreatedAt: 2},
		{ID: "3", Company: "Apple", Position: "Backend Engineer", Status: store.StatusInProcess, AppliedAt: day(2), CreatedAt: 3},
	}
}

func TestView_SearchMatchesCompanyAndPosition(t *testing.T) {
	apps := viewApps()

	got := View(apps, ListQuery{Search: "backend"}, language.English)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	got = View(apps, ListQuery{Search: "TRENDYOL"}, language.English)
	if len(got) != 1 || got[0].ID != "2" {
		t.Errorf("case-insensitive company search = %+v", got)
	}

	got = View(apps, ListQuery{Search: "no such thing"}, language.English)
	if len(got) != 0 {
		t.Errorf("unmatched search returned %d records", len(got))
	}
}

func TestView_StatusFilter(t *testing.T) {
	got := View(viewApps(), ListQuery{Status: store.StatusRejected}, language.English)
	if len(got) != 1 || got[0].ID != "2" {
		t.Errorf("status filter = %+v", got)
	}
}

func TestView_SortByDate(t *testing.T) {
	got := View(viewApps(), ListQuery{Sort: SortByDate, Desc: true}, language.English)
	if got[0].ID != "2" || got[2].ID != "1" {
		t.Errorf("date desc order = %s,%s,%s; want 2,3,1", got[0].ID, got[1].ID, got[2].ID)
	}

	got = View(viewApps(), ListQuery{Sort: SortByDate, Desc: false}, language.English)
	if got[0].ID != "1" || got[2].ID != "2" {
		t.Errorf("date asc order = %s,%s,%s; want 1,3,2", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestView_SortByCompanyUsesCollation(t *testing.T) {
	got := View(viewApps(), ListQuery{Sort: SortByCompany, Desc: false}, language.Turkish)
	if got[0].Company != "Apple" || got[2].Company != "Trendyol" {
		t.Errorf("company asc = %s,%s,%s", got[0].Company, got[1].Company, got[2].Company)
	}
}

func TestView_DoesNotMutateInput(t *testing.T) {
	apps := viewApps()
	View(apps, ListQuery{Sort: SortByCompany, Desc: true}, language.English)
	if apps[0].ID != "1" || apps[2].ID != "3" {
		t.Error("View reordered the input slice")
	}
}

func TestToggleSort(t *testing.T) {
	key, desc := ToggleSort(SortByDate, true, SortByDate)
	if key != SortByDate || desc != false {
		t.Errorf("same key: got %v/%v, want date/asc", key, desc)
	}

	key, desc = ToggleSort(SortByDate, false, SortByCompany)
	if key != SortByCompany || !desc {
		t.Errorf("new key: got %v/%v, want companyName/desc", key, desc)
	}
}
