// Package analytics computes read-only aggregate views over the record
// list. Every function is pure: same input list, same output. Callers are
// responsible for memoizing against list identity if they need it.
package analytics

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ekoseoglu/takip/internal/store"
)

// Success sets. Interview success additionally counts a pending interview;
// offer success is the narrower set used for platform comparison.
var (
	interviewSuccess = map[string]bool{
		store.StatusPositive:         true,
		store.StatusOfferReceived:    true,
		store.StatusInterviewPending: true,
	}
	offerSuccess = map[string]bool{
		store.StatusPositive:      true,
		store.StatusOfferReceived: true,
	}
)

// pct returns round(100*n/d) as an integer percentage, rounded half-up.
// A zero denominator yields 0, never a division by zero.
func pct(n, d int) int {
	if d == 0 {
		return 0
	}
	return int(math.Round(100 * float64(n) / float64(d)))
}

// InterviewRate is the share of records whose status indicates the
// application reached an interview or better. 0 for an empty list.
func InterviewRate(apps []store.Application) int {
	n := 0
	for _, a := range apps {
		if interviewSuccess[a.Status] {
			n++
		}
	}
	return pct(n, len(apps))
}

// MonthCount is one bucket of the rolling monthly series.
type MonthCount struct {
	Month time.Month `json:"month"`
	Label string     `json:"label"`
	Count int        `json:"count"`
}

// MonthlySeries buckets records by the calendar month of their application
// date and returns the 6 months ending at now's month, oldest first.
// Bucketing is by month index only: records from different years in the
// same month collapse together. Records without a date are skipped.
func MonthlySeries(apps []store.Application, now time.Time) []MonthCount {
	var counts [12]int
	for _, a := range apps {
		if a.AppliedAt.IsZero() {
			continue
		}
		counts[int(a.AppliedAt.Month())-1]++
	}

	series := make([]MonthCount, 0, 6)
	cur := int(now.Month()) - 1
	for i := 5; i >= 0; i-- {
		idx := ((cur-i)%12 + 12) % 12
		m := time.Month(idx + 1)
		series = append(series, MonthCount{
			Month: m,
			Label: m.String()[:3],
			Count: counts[idx],
		})
	}
	return series
}

// StatusCount is one entry of the status distribution.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// StatusDistribution groups records by status label, descending by count.
// Ties keep encounter order.
func StatusDistribution(apps []store.Application) []StatusCount {
	index := make(map[string]int)
	var dist []StatusCount
	for _, a := range apps {
		i, ok := index[a.Status]
		if !ok {
			index[a.Status] = len(dist)
			dist = append(dist, StatusCount{Status: a.Status})
			i = index[a.Status]
		}
		dist[i].Count++
	}
	stableSortDesc(dist, func(c StatusCount) int { return c.Count })
	return dist
}

// PlatformRate is one platform's application volume and success rate.
type PlatformRate struct {
	Platform    string `json:"platform"`
	Total       int    `json:"total"`
	SuccessRate int    `json:"successRate"`
}

// DefaultPlatform labels records with an empty platform field.
const DefaultPlatform = "Other"

// PlatformComparison groups by platform, computes the offer-success rate
// per platform, sorts by application count descending and keeps the top 5.
func PlatformComparison(apps []store.Application) []PlatformRate {
	type agg struct{ total, ok int }
	index := make(map[string]int)
	var order []string
	var sums []agg

	for _, a := range apps {
		p := a.Platform
		if p == "" {
			p = DefaultPlatform
		}
		i, seen := index[p]
		if !seen {
			index[p] = len(sums)
			order = append(order, p)
			sums = append(sums, agg{})
			i = index[p]
		}
		sums[i].total++
		if offerSuccess[a.Status] {
			sums[i].ok++
		}
	}

	rates := make([]PlatformRate, 0, len(order))
	for _, p := range order {
		s := sums[index[p]]
		rates = append(rates, PlatformRate{Platform: p, Total: s.total, SuccessRate: pct(s.ok, s.total)})
	}
	stableSortDesc(rates, func(r PlatformRate) int { return r.Total })
	if len(rates) > 5 {
		rates = rates[:5]
	}
	return rates
}

// CVRate is one CV version's volume and interview-success rate.
type CVRate struct {
	Version     string `json:"version"`
	Total       int    `json:"total"`
	SuccessRate int    `json:"successRate"`
}

// DefaultCVVersion labels records without a CV version.
const DefaultCVVersion = "Default"

// CVComparison groups by CV version label, computes the interview-success
// rate per version, sorts by success rate descending and keeps the top 4.
func CVComparison(apps []store.Application) []CVRate {
	type agg struct{ total, ok int }
	index := make(map[string]int)
	var order []string
	var sums []agg

	for _, a := range apps {
		v := a.CVVersion
		if v == "" {
			v = DefaultCVVersion
		}
		i, seen := index[v]
		if !seen {
			index[v] = len(sums)
			order = append(order, v)
			sums = append(sums, agg{})
			i = index[v]
		}
		sums[i].total++
		if interviewSuccess[a.Status] {
			sums[i].ok++
		}
	}

	rates := make([]CVRate, 0, len(order))
	for _, v := range order {
		s := sums[index[v]]
		rates = append(rates, CVRate{Version: v, Total: s.total, SuccessRate: pct(s.ok, s.total)})
	}
	stableSortDesc(rates, func(r CVRate) int { return r.SuccessRate })
	if len(rates) > 4 {
		rates = rates[:4]
	}
	return rates
}

// FunnelStage is one independent count bucket of the pipeline view.
// The stages are snapshots, not cumulative filters: a record counts in
// every stage its status matches, plus always in "Applied".
type FunnelStage struct {
	Name          string `json:"name"`
	Count         int    `json:"count"`
	Conversion    int    `json:"conversion"`
	HasConversion bool   `json:"hasConversion"`
}

// FunnelStages returns the five fixed stages with adjacent conversion
// percentages. Conversion is only reported when the previous stage has a
// non-zero count.
func FunnelStages(apps []store.Application) []FunnelStage {
	countStatus := func(status string) int {
		n := 0
		for _, a := range apps {
			if a.Status == status {
				n++
			}
		}
		return n
	}

	stages := []FunnelStage{
		{Name: "Applied", Count: len(apps)},
		{Name: store.StatusInterviewPending, Count: countStatus(store.StatusInterviewPending)},
		{Name: store.StatusInProcess, Count: countStatus(store.StatusInProcess)},
		{Name: store.StatusOfferReceived, Count: countStatus(store.StatusOfferReceived)},
		{Name: store.StatusPositive, Count: countStatus(store.StatusPositive)},
	}
	for i := 1; i < len(stages); i++ {
		if stages[i-1].Count > 0 {
			stages[i].Conversion = pct(stages[i].Count, stages[i-1].Count)
			stages[i].HasConversion = true
		}
	}
	return stages
}

// DayIntensity is one weekday cell of the heatmap. Intensity is the cell's
// count relative to the busiest weekday, in [0, 1].
type DayIntensity struct {
	Count     int     `json:"count"`
	Intensity float64 `json:"intensity"`
}

// WeekdayHeatmap buckets records by ISO weekday of their application date
// (Monday = index 0). The divisor is floored at 1 so an all-zero week
// still yields zero intensities, not NaN.
func WeekdayHeatmap(apps []store.Application) [7]DayIntensity {
	var days [7]DayIntensity
	for _, a := range apps {
		if a.AppliedAt.IsZero() {
			continue
		}
		idx := (int(a.AppliedAt.Weekday()) + 6) % 7
		days[idx].Count++
	}
	max := 1
	for _, d := range days {
		if d.Count > max {
			max = d.Count
		}
	}
	for i := range days {
		days[i].Intensity = float64(days[i].Count) / float64(max)
	}
	return days
}

// MotivationImpact compares interview-success rates between records with
// and without a motivation letter.
type MotivationImpact struct {
	WithTotal    int `json:"withTotal"`
	WithoutTotal int `json:"withoutTotal"`
	WithRate     int `json:"withRate"`
	WithoutRate  int `json:"withoutRate"`
	// Lift is the relative improvement of WithRate over WithoutRate,
	// floored at 0 when motivation does not outperform.
	Lift int `json:"lift"`
}

// MotivationImpactOf partitions records by presence of non-empty
// motivation text and reports success rates and relative lift.
func MotivationImpactOf(apps []store.Application) MotivationImpact {
	var m MotivationImpact
	withOK, withoutOK := 0, 0
	for _, a := range apps {
		if strings.TrimSpace(a.Motivation) != "" {
			m.WithTotal++
			if interviewSuccess[a.Status] {
				withOK++
			}
		} else {
			m.WithoutTotal++
			if interviewSuccess[a.Status] {
				withoutOK++
			}
		}
	}
	m.WithRate = pct(withOK, m.WithTotal)
	m.WithoutRate = pct(withoutOK, m.WithoutTotal)

	denom := m.WithoutRate
	if denom < 1 {
		denom = 1
	}
	lift := int(math.Round(100 * float64(m.WithRate-m.WithoutRate) / float64(denom)))
	if lift < 0 {
		lift = 0
	}
	m.Lift = lift
	return m
}

// stableSortDesc sorts s descending by key, keeping encounter order on ties.
func stableSortDesc[T any](s []T, key func(T) int) {
	sort.SliceStable(s, func(i, j int) bool { return key(s[i]) > key(s[j]) })
}
