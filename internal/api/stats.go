package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ekoseoglu/takip/internal/analytics"
	"github.com/ekoseoglu/takip/internal/export"
	"github.com/ekoseoglu/takip/internal/store"
)

// StatsResponse aggregates every derived view over the current record list.
type StatsResponse struct {
	Total         int                        `json:"total"`
	InterviewRate int                        `json:"interviewRate"`
	Monthly       []analytics.MonthCount     `json:"monthly"`
	Statuses      []analytics.StatusCount    `json:"statuses"`
	Platforms     []analytics.PlatformRate   `json:"platforms"`
	CVs           []analytics.CVRate         `json:"cvs"`
	Funnel        []analytics.FunnelStage    `json:"funnel"`
	Weekdays      [7]analytics.DayIntensity  `json:"weekdays"`
	Motivation    analytics.MotivationImpact `json:"motivation"`
}

// BuildStats computes the full stats payload; shared with the MCP layer.
func BuildStats(apps []store.Application, now time.Time) StatsResponse {
	return StatsResponse{
		Total:         len(apps),
		InterviewRate: analytics.InterviewRate(apps),
		Monthly:       analytics.MonthlySeries(apps, now),
		Statuses:      analytics.StatusDistribution(apps),
		Platforms:     analytics.PlatformComparison(apps),
		CVs:           analytics.CVComparison(apps),
		Funnel:        analytics.FunnelStages(apps),
		Weekdays:      analytics.WeekdayHeatmap(apps),
		Motivation:    analytics.MotivationImpactOf(apps),
	}
}

func handleStats(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := BuildStats(deps.Store.Applications(), time.Now())

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(stats)
	}
}

func handleExport(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang := reqLang(deps, r)
		apps := analytics.View(deps.Store.Applications(), listQuery(r), collationTag(lang))

		switch chi.URLParam(r, "format") {
		case "xlsx":
			data, err := export.XLSX(apps, lang)
			if err != nil {
				httpError(w, http.StatusInternalServerError, "api_error", "failed to build workbook: %v", err)
				return
			}
			w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			w.Header().Set("Content-Disposition", `attachment; filename="takip.xlsx"`)
			w.Write(data)

		case "pdf":
			data, err := export.PDF(apps, lang)
			if err != nil {
				httpError(w, http.StatusInternalServerError, "api_error", "failed to build document: %v", err)
				return
			}
			w.Header().Set("Content-Type", "application/pdf")
			w.Header().Set("Content-Disposition", `attachment; filename="takip.pdf"`)
			w.Write(data)

		default:
			httpError(w, http.StatusBadRequest, "invalid_request_error", "unknown export format %q", chi.URLParam(r, "format"))
		}
	}
}
