package analytics

import "math"

// Pass bands shown on the attempt detail view.
const (
	PassPercentage       = 70
	NeedsWorkPercentage  = 60
	BandPassed           = "Passed"
	BandNeedsImprovement = "Needs Improvement"
	BandFailed           = "Failed"
)

// Score is the summary of a single quiz run.
type Score struct {
	CorrectCount int `json:"correct_count"`
	Total        int `json:"total"`
	Percentage   int `json:"percentage"`
}

// Percent rounds 100*part/whole half away from zero. A zero whole yields 0.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}

// ScoreSummary counts true outcomes against total questions.
func ScoreSummary(correct []bool, total int) Score {
	count := 0
	for _, ok := range correct {
		if ok {
			count++
		}
	}
	return Score{
		CorrectCount: count,
		Total:        total,
		Percentage:   Percent(count, total),
	}
}

func PassBand(percentage int) string {
	switch {
	case percentage >= PassPercentage:
		return BandPassed
	case percentage >= NeedsWorkPercentage:
		return BandNeedsImprovement
	default:
		return BandFailed
	}
}

func roundMean(sum, n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}
