package analytics

import (
	"testing"
	"time"

	"github.com/ekoseoglu/takip/internal/store"
)

func app(status string, opts ...func(*store.Application)) store.Application {
	a := store.Application{Status: status}
	for _, o := range opts {
		o(&a)
	}
	return a
}

func onDate(t time.Time) func(*store.Application) {
	return func(a *store.Application) { a.AppliedAt = t }
}

func onPlatform(p string) func(*store.Application) {
	return func(a *store.Application) { a.Platform = p }
}

func withCV(v string) func(*store.Application) {
	return func(a *store.Application) { a.CVVersion = v }
}

func withMotivation(text string) func(*store.Application) {
	return func(a *store.Application) { a.Motivation = text }
}

func TestInterviewRate(t *testing.T) {
	tests := []struct {
		name string
		apps []store.Application
		want int
	}{
		{"empty list", nil, 0},
		{
			"half reached interview",
			[]store.Application{
				app(store.StatusPositive),
				app(store.StatusRejected),
				app(store.StatusInterviewPending),
				app(store.StatusNoResponse),
			},
			50,
		},
		{
			"rounds half up",
			[]store.Application{
				app(store.StatusOfferReceived),
				app(store.StatusRejected),
				app(store.StatusRejected),
			},
			33,
		},
		{"all successful", []store.Application{app(store.StatusPositive)}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InterviewRate(tt.apps)
			if got != tt.want {
				t.Errorf("InterviewRate = %d, want %d", got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("InterviewRate = %d, out of [0,100]", got)
			}
		})
	}
}

func TestMonthlySeries_OrderAndWindow(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	apps := []store.Application{
		app(store.StatusInProcess, onDate(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))),
		app(store.StatusInProcess, onDate(time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC))),
		app(store.StatusRejected, onDate(time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC))),
		app(store.StatusRejected, onDate(time.Date(2024, time.December, 3, 0, 0, 0, 0, time.UTC))), // outside window
		app(store.StatusRejected), // no date, skipped
	}

	series := MonthlySeries(apps, now)
	if len(series) != 6 {
		t.Fatalf("len(series) = %d, want 6", len(series))
	}
	wantMonths := []time.Month{time.January, time.February, time.March, time.April, time.May, time.June}
	for i, m := range wantMonths {
		if series[i].Month != m {
			t.Errorf("series[%d].Month = %v, want %v", i, series[i].Month, m)
		}
	}
	if series[5].Count != 2 {
		t.Errorf("current month count = %d, want 2", series[5].Count)
	}
	if series[2].Count != 1 {
		t.Errorf("March count = %d, want 1", series[2].Count)
	}
	if series[0].Count != 0 {
		t.Errorf("January count = %d, want 0", series[0].Count)
	}
}

func TestMonthlySeries_YearAgnosticCollapse(t *testing.T) {
	// January 2024 and January 2025 fall into the same bucket.
	now := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	apps := []store.Application{
		app(store.StatusInProcess, onDate(time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC))),
		app(store.StatusInProcess, onDate(time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC))),
	}
	series := MonthlySeries(apps, now)
	if last := series[5]; last.Month != time.January || last.Count != 2 {
		t.Errorf("last bucket = %+v, want January count 2", last)
	}
}

func TestMonthlySeries_WindowWrapsYearBoundary(t *testing.T) {
	now := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	series := MonthlySeries(nil, now)
	wantMonths := []time.Month{time.September, time.October, time.November, time.December, time.January, time.February}
	for i, m := range wantMonths {
		if series[i].Month != m {
			t.Errorf("series[%d].Month = %v, want %v", i, series[i].Month, m)
		}
		if series[i].Count != 0 {
			t.Errorf("series[%d].Count = %d, want 0", i, series[i].Count)
		}
	}
}

func TestStatusDistribution_CountsSumToTotal(t *testing.T) {
	apps := []store.Application{
		app(store.StatusInProcess),
		app(store.StatusRejected),
		app(store.StatusRejected),
		app(store.StatusPositive),
		app(store.StatusRejected),
	}
	dist := StatusDistribution(apps)

	sum := 0
	for _, d := range dist {
		sum += d.Count
	}
	if sum != len(apps) {
		t.Errorf("sum of counts = %d, want %d", sum, len(apps))
	}
	if dist[0].Status != store.StatusRejected || dist[0].Count != 3 {
		t.Errorf("dist[0] = %+v, want Rejected count 3", dist[0])
	}
}

func TestStatusDistribution_TiesKeepEncounterOrder(t *testing.T) {
	apps := []store.Application{
		app(store.StatusNoResponse),
		app(store.StatusPositive),
		app(store.StatusNoResponse),
		app(store.StatusPositive),
	}
	dist := StatusDistribution(apps)
	if dist[0].Status != store.StatusNoResponse || dist[1].Status != store.StatusPositive {
		t.Errorf("tie order = %q, %q; want No Response first", dist[0].Status, dist[1].Status)
	}
}

func TestStatusDistribution_EmptyList(t *testing.T) {
	if dist := StatusDistribution(nil); len(dist) != 0 {
		t.Errorf("dist = %+v, want empty", dist)
	}
}

func TestPlatformComparison(t *testing.T) {
	apps := []store.Application{
		app(store.StatusPositive, onPlatform("LinkedIn")),
		app(store.StatusRejected, onPlatform("LinkedIn")),
		app(store.StatusOfferReceived, onPlatform("Referral")),
		app(store.StatusInterviewPending, onPlatform("Referral")), // not offer success
		app(store.StatusRejected, onPlatform("")),
	}
	rates := PlatformComparison(apps)

	if len(rates) != 3 {
		t.Fatalf("len(rates) = %d, want 3", len(rates))
	}
	// Two applications each via LinkedIn and Referral; tie keeps encounter order.
	if rates[0].Platform != "LinkedIn" || rates[0].SuccessRate != 50 {
		t.Errorf("rates[0] = %+v, want LinkedIn 50", rates[0])
	}
	if rates[1].Platform != "Referral" || rates[1].SuccessRate != 50 {
		t.Errorf("rates[1] = %+v, want Referral 50", rates[1])
	}
	if rates[2].Platform != DefaultPlatform {
		t.Errorf("rates[2].Platform = %q, want %q", rates[2].Platform, DefaultPlatform)
	}
}

func TestPlatformComparison_TruncatesToTopFive(t *testing.T) {
	platforms := []string{"A", "B", "C", "D", "E", "F", "G"}
	var apps []store.Application
	for i, p := range platforms {
		// Increasing volume so the later platforms dominate.
		for j := 0; j <= i; j++ {
			apps = append(apps, app(store.StatusRejected, onPlatform(p)))
		}
	}
	rates := PlatformComparison(apps)
	if len(rates) != 5 {
		t.Fatalf("len(rates) = %d, want 5", len(rates))
	}
	if rates[0].Platform != "G" || rates[0].Total != 7 {
		t.Errorf("rates[0] = %+v, want G total 7", rates[0])
	}
}

func TestCVComparison_SortsByRateAndTruncates(t *testing.T) {
	var apps []store.Application
	versions := []string{"v1", "v2", "v3", "v4", "v5"}
	for i, v := range versions {
		apps = append(apps, app(store.StatusRejected, withCV(v)))
		if i%2 == 0 {
			apps = append(apps, app(store.StatusPositive, withCV(v)))
		}
	}
	apps = append(apps, app(store.StatusInterviewPending))

	rates := CVComparison(apps)
	if len(rates) != 4 {
		t.Fatalf("len(rates) = %d, want 4", len(rates))
	}
	if rates[0].SuccessRate < rates[len(rates)-1].SuccessRate {
		t.Errorf("rates not descending: %+v", rates)
	}
	// The record without a CV version got the default label and a 100% rate.
	if rates[0].Version != DefaultCVVersion || rates[0].SuccessRate != 100 {
		t.Errorf("rates[0] = %+v, want %s at 100", rates[0], DefaultCVVersion)
	}
}

func TestFunnelStages_IndependentBuckets(t *testing.T) {
	apps := []store.Application{
		app(store.StatusInterviewPending),
		app(store.StatusInterviewPending),
		app(store.StatusInProcess),
		app(store.StatusOfferReceived),
		app(store.StatusPositive),
		app(store.StatusRejected),
	}
	stages := FunnelStages(apps)
	if len(stages) != 5 {
		t.Fatalf("len(stages) = %d, want 5", len(stages))
	}

	wantCounts := []int{6, 2, 1, 1, 1}
	for i, want := range wantCounts {
		if stages[i].Count != want {
			t.Errorf("stages[%d] (%s) = %d, want %d", i, stages[i].Name, stages[i].Count, want)
		}
	}
	// 2/6 = 33%, 1/2 = 50%, 1/1 = 100%, 1/1 = 100%.
	wantConv := []int{33, 50, 100, 100}
	for i, want := range wantConv {
		st := stages[i+1]
		if !st.HasConversion || st.Conversion != want {
			t.Errorf("stages[%d] conversion = %d (has=%v), want %d", i+1, st.Conversion, st.HasConversion, want)
		}
	}
}

func TestFunnelStages_ZeroPreviousStageSkipsConversion(t *testing.T) {
	stages := FunnelStages(nil)
	if stages[0].Count != 0 {
		t.Errorf("Applied = %d, want 0", stages[0].Count)
	}
	for _, st := range stages[1:] {
		if st.HasConversion {
			t.Errorf("stage %s reports conversion over a zero denominator", st.Name)
		}
	}
}

func TestWeekdayHeatmap(t *testing.T) {
	mon := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC) // a Monday
	sun := time.Date(2025, time.June, 8, 0, 0, 0, 0, time.UTC) // a Sunday
	apps := []store.Application{
		app(store.StatusInProcess, onDate(mon)),
		app(store.StatusInProcess, onDate(mon)),
		app(store.StatusInProcess, onDate(sun)),
	}
	days := WeekdayHeatmap(apps)

	if days[0].Count != 2 || days[0].Intensity != 1.0 {
		t.Errorf("Monday = %+v, want count 2 intensity 1", days[0])
	}
	if days[6].Count != 1 || days[6].Intensity != 0.5 {
		t.Errorf("Sunday = %+v, want count 1 intensity 0.5", days[6])
	}
	if days[2].Count != 0 || days[2].Intensity != 0 {
		t.Errorf("Wednesday = %+v, want zeros", days[2])
	}
}

func TestWeekdayHeatmap_EmptyListHasNoNaN(t *testing.T) {
	days := WeekdayHeatmap(nil)
	for i, d := range days {
		if d.Intensity != 0 {
			t.Errorf("days[%d].Intensity = %v, want 0", i, d.Intensity)
		}
	}
}

func TestMotivationImpact(t *testing.T) {
	apps := []store.Application{
		app(store.StatusPositive, withMotivation("I want this role")),
		app(store.StatusRejected, withMotivation("Dear team")),
		app(store.StatusRejected),
		app(store.StatusRejected),
		app(store.StatusOfferReceived),
		app(store.StatusRejected),
	}
	m := MotivationImpactOf(apps)

	if m.WithTotal != 2 || m.WithoutTotal != 4 {
		t.Fatalf("partition = %d/%d, want 2/4", m.WithTotal, m.WithoutTotal)
	}
	if m.WithRate != 50 || m.WithoutRate != 25 {
		t.Errorf("rates = %d/%d, want 50/25", m.WithRate, m.WithoutRate)
	}
	if m.Lift != 100 {
		t.Errorf("Lift = %d, want 100", m.Lift)
	}
}

func TestMotivationImpact_LiftFlooredAtZero(t *testing.T) {
	apps := []store.Application{
		app(store.StatusRejected, withMotivation("text")),
		app(store.StatusPositive),
	}
	m := MotivationImpactOf(apps)
	if m.Lift != 0 {
		t.Errorf("Lift = %d, want 0 when motivation underperforms", m.Lift)
	}
}

func TestMotivationImpact_ZeroWithoutRateIsNotNaN(t *testing.T) {
	apps := []store.Application{
		app(store.StatusPositive, withMotivation("text")),
		app(store.StatusRejected),
	}
	m := MotivationImpactOf(apps)
	// withoutRate == 0: denominator floored at 1, lift stays a finite int.
	if m.WithoutRate != 0 {
		t.Fatalf("WithoutRate = %d, want 0", m.WithoutRate)
	}
	if m.Lift != 10000 {
		t.Errorf("Lift = %d, want 10000 (100*100/1)", m.Lift)
	}
}

func TestMotivationImpact_WhitespaceOnlyCountsAsAbsent(t *testing.T) {
	apps := []store.Application{app(store.StatusPositive, withMotivation("   \n"))}
	m := MotivationImpactOf(apps)
	if m.WithTotal != 0 || m.WithoutTotal != 1 {
		t.Errorf("partition = %d/%d, want 0/1", m.WithTotal, m.WithoutTotal)
	}
}
