package analytics

// DefaultTopic labels questions when neither the question nor its quiz
// carries a topic.
const DefaultTopic = "General"

// Thresholds used to bucket topics by correct/total ratio. The dashboard
// and the per-attempt detail view intentionally differ.
const (
	DashboardStrongThreshold = 0.7
	DetailStrongThreshold    = 0.8
	NeedsReviewThreshold     = 0.7
)

// Thresholds pairs the "strong" and "needs review" cut-offs for one view.
// Topics with Weak <= ratio < Strong fall in neither bucket.
type Thresholds struct {
	Strong float64
	Weak   float64
}

var (
	DashboardThresholds = Thresholds{Strong: DashboardStrongThreshold, Weak: NeedsReviewThreshold}
	DetailThresholds    = Thresholds{Strong: DetailStrongThreshold, Weak: NeedsReviewThreshold}
)

// TopicScore is the correct/total tally for one topic.
type TopicScore struct {
	Topic   string `json:"topic"`
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
}

// Ratio is never a division by zero for scores produced by TopicPerformance.
func (s TopicScore) Ratio() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total)
}

// QuestionTopic resolves the label a question is bucketed under: its own
// topic, then the quiz's first topic, then DefaultTopic.
func QuestionTopic(own string, quizTopics []string) string {
	if own != "" {
		return own
	}
	for _, t := range quizTopics {
		if t != "" {
			return t
		}
	}
	return DefaultTopic
}

// TopicPerformance tallies outcomes per topic in first-appearance order.
// topics and correct are parallel; when correct is shorter only the
// answered prefix is counted.
func TopicPerformance(topics []string, correct []bool) []TopicScore {
	n := len(topics)
	if len(correct) < n {
		n = len(correct)
	}

	scores := make([]TopicScore, 0)
	index := make(map[string]int)
	for i := 0; i < n; i++ {
		idx, ok := index[topics[i]]
		if !ok {
			idx = len(scores)
			index[topics[i]] = idx
			scores = append(scores, TopicScore{Topic: topics[i]})
		}
		scores[idx].Total++
		if correct[i] {
			scores[idx].Correct++
		}
	}
	return scores
}

// Classification splits topics into strong areas and areas needing review.
type Classification struct {
	Strong      []string `json:"strong_areas"`
	NeedsReview []string `json:"needs_review"`
}

func Classify(scores []TopicScore, th Thresholds) Classification {
	out := Classification{Strong: []string{}, NeedsReview: []string{}}
	for _, s := range scores {
		if s.Total == 0 {
			continue
		}
		ratio := s.Ratio()
		switch {
		case ratio >= th.Strong:
			out.Strong = append(out.Strong, s.Topic)
		case ratio < th.Weak:
			out.NeedsReview = append(out.NeedsReview, s.Topic)
		}
	}
	return out
}
