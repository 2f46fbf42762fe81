// Package export serializes a filtered record list to spreadsheet and PDF
// byte streams. Both exports share a fixed column set; an empty view
// produces a header-only file.
package export

import (
	"time"

	"github.com/ekoseoglu/takip/internal/i18n"
	"github.com/ekoseoglu/takip/internal/store"
)

var columnKeys = []string{
	"export.col.no",
	"export.col.company",
	"export.col.position",
	"export.col.date",
	"export.col.status",
	"export.col.platform",
	"export.col.cv",
	"export.col.notes",
}

func headers(lang i18n.Lang) []string {
	out := make([]string, len(columnKeys))
	for i, key := range columnKeys {
		out[i] = i18n.T(lang, key)
	}
	return out
}

func formatDate(t time.Time, lang i18n.Lang) string {
	if t.IsZero() {
		return ""
	}
	if lang == i18n.TR {
		return t.Format("02.01.2006")
	}
	return t.Format("Jan 2, 2006")
}

func row(a store.Application, lang i18n.Lang) []any {
	return []any{
		a.No,
		a.Company,
		a.Position,
		formatDate(a.AppliedAt, lang),
		a.Status,
		a.Platform,
		a.CVVersion,
		a.Notes,
	}
}
