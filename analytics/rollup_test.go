package analytics

import (
	"reflect"
	"testing"
)

func TestScoreSummary(t *testing.T) {
	tests := []struct {
		name    string
		correct []bool
		total   int
		want    Score
	}{
		{"no questions", nil, 0, Score{0, 0, 0}},
		{"all correct", []bool{true, true}, 2, Score{2, 2, 100}},
		{"one third", []bool{true, false, false}, 3, Score{1, 3, 33}},
		{"two thirds", []bool{true, true, false}, 3, Score{2, 3, 67}},
		{"half rounds away from zero", []bool{true}, 8, Score{1, 8, 13}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreSummary(tt.correct, tt.total); got != tt.want {
				t.Errorf("ScoreSummary() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPercentRoundingConvention(t *testing.T) {
	// 1/8 = 12.5%, 5/8 = 62.5%: both round up.
	if got := Percent(1, 8); got != 13 {
		t.Errorf("Percent(1, 8) = %d, want 13", got)
	}
	if got := Percent(5, 8); got != 63 {
		t.Errorf("Percent(5, 8) = %d, want 63", got)
	}
}

func TestPassBand(t *testing.T) {
	cases := map[int]string{100: BandPassed, 70: BandPassed, 69: BandNeedsImprovement, 60: BandNeedsImprovement, 59: BandFailed, 0: BandFailed}
	for pct, want := range cases {
		if got := PassBand(pct); got != want {
			t.Errorf("PassBand(%d) = %q, want %q", pct, got, want)
		}
	}
}

func TestRollupAttemptsEmpty(t *testing.T) {
	got := RollupAttempts(nil)
	want := Rollup{WeakTopicSummary: []WeakTopic{}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RollupAttempts(nil) = %+v, want %+v", got, want)
	}
}

func TestRollupAttempts(t *testing.T) {
	attempts := []AttemptStats{
		{Percentage: 80, TimeSpentSeconds: 120, WeakTopics: []string{"Hygiene"}},
		{Percentage: 45, TimeSpentSeconds: 300, WeakTopics: []string{"PPE", "Hygiene"}},
		{Percentage: 60, TimeSpentSeconds: 30},
	}

	got := RollupAttempts(attempts)
	if got.TotalAttempts != 3 {
		t.Errorf("TotalAttempts = %d", got.TotalAttempts)
	}
	if got.AverageScore != 62 { // 185/3 = 61.67
		t.Errorf("AverageScore = %d, want 62", got.AverageScore)
	}
	if got.TotalTimeSpentSeconds != 450 {
		t.Errorf("TotalTimeSpentSeconds = %d", got.TotalTimeSpentSeconds)
	}
	want := []WeakTopic{
		{Topic: "PPE", AverageScore: 45, AttemptCount: 1},
		{Topic: "Hygiene", AverageScore: 62.5, AttemptCount: 2},
	}
	if !reflect.DeepEqual(got.WeakTopicSummary, want) {
		t.Errorf("WeakTopicSummary = %+v, want %+v", got.WeakTopicSummary, want)
	}
}

func TestRollupAttemptsIsIdempotent(t *testing.T) {
	attempts := []AttemptStats{
		{Percentage: 90, WeakTopics: []string{"B", "A"}},
		{Percentage: 90, WeakTopics: []string{"A"}},
	}
	first := RollupAttempts(attempts)
	second := RollupAttempts(attempts)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("rollup not idempotent: %+v vs %+v", first, second)
	}
	if !reflect.DeepEqual(attempts[0].WeakTopics, []string{"B", "A"}) {
		t.Fatalf("input mutated: %v", attempts[0].WeakTopics)
	}
	// equal averages keep first-appearance order
	if first.WeakTopicSummary[0].Topic != "B" {
		t.Errorf("tie order = %+v", first.WeakTopicSummary)
	}
}

func TestRollupClass(t *testing.T) {
	got := RollupClass([]StudentAttempt{
		{UserID: "u1", Name: "Ada", Email: "ada@example.com", Percentage: 50, WeakTopics: []string{"A"}},
		{UserID: "u2", Percentage: 100},
		{UserID: "u1", Name: "Ada", Email: "ada@example.com", Percentage: 75, WeakTopics: []string{"A", "B"}},
	})

	if got.TotalAttempts != 3 || got.AverageScore != 75 {
		t.Fatalf("totals = %d/%d", got.TotalAttempts, got.AverageScore)
	}
	want := []StudentProgress{
		{UserID: "u1", Name: "Ada", Email: "ada@example.com", Attempts: 2, AverageScore: 63, WeakTopics: []string{"A", "B"}},
		{UserID: "u2", Name: "Unknown", Attempts: 1, AverageScore: 100, WeakTopics: []string{}},
	}
	if !reflect.DeepEqual(got.StudentProgress, want) {
		t.Errorf("StudentProgress = %+v, want %+v", got.StudentProgress, want)
	}
}

func TestRollupClassEmpty(t *testing.T) {
	got := RollupClass(nil)
	if got.TotalAttempts != 0 || got.AverageScore != 0 || len(got.StudentProgress) != 0 {
		t.Errorf("RollupClass(nil) = %+v", got)
	}
}
