package analytics

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ekoseoglu/takip/internal/store"
)

// SortKey selects the list view sort column.
type SortKey string

const (
	SortByDate    SortKey = "date"
	SortByCompany SortKey = "companyName"
)

// ListQuery describes the applications list view: a case-insensitive
// substring search over company and position, an optional status-equality
// filter, and a sort key with direction.
type ListQuery struct {
	Search string
	Status string
	Sort   SortKey
	Desc   bool
}

// ToggleSort returns the sort state after the user selects key: picking
// the current key flips direction, picking a new key resets to descending.
func ToggleSort(current SortKey, desc bool, selected SortKey) (SortKey, bool) {
	if selected == current {
		return current, !desc
	}
	return selected, true
}

// View returns the filtered and sorted list view. Sorting by date compares
// creation timestamps numerically; sorting by company compares names with
// the collation rules of lang (Turkish casing differs from English).
// The input slice is not modified.
func View(apps []store.Application, q ListQuery, lang language.Tag) []store.Application {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]store.Application, 0, len(apps))
	for _, a := range apps {
		if q.Status != "" && a.Status != q.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(a.Company), search) &&
			!strings.Contains(strings.ToLower(a.Position), search) {
			continue
		}
		out = append(out, a)
	}

	switch q.Sort {
	case SortByCompany:
		col := collate.New(lang, collate.IgnoreCase)
		sort.SliceStable(out, func(i, j int) bool {
			c := col.CompareString(out[i].Company, out[j].Company)
			if q.Desc {
				return c > 0
			}
			return c < 0
		})
	default: // SortByDate
		sort.SliceStable(out, func(i, j int) bool {
			ti, tj := out[i].AppliedAt.UnixMilli(), out[j].AppliedAt.UnixMilli()
			if ti == tj {
				ti, tj = out[i].CreatedAt, out[j].CreatedAt
			}
			if q.Desc {
				return ti > tj
			}
			return ti < tj
		})
	}
	return out
}
