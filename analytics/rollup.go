package analytics

import "sort"

// AttemptStats is the slice of an attempt the rollups read.
type AttemptStats struct {
	Percentage       int
	TimeSpentSeconds int
	WeakTopics       []string
}

// WeakTopic reports how a repeatedly flagged topic performed.
type WeakTopic struct {
	Topic        string  `json:"topic"`
	AverageScore float64 `json:"average_score"`
	AttemptCount int     `json:"attempt_count"`
}

type Rollup struct {
	TotalAttempts         int         `json:"total_attempts"`
	AverageScore          int         `json:"average_score"`
	TotalTimeSpentSeconds int         `json:"total_time_spent_seconds"`
	WeakTopicSummary      []WeakTopic `json:"weak_topics"`
}

// RollupAttempts aggregates a user's attempts. Weak topics are ordered
// worst average first; equal averages keep first-appearance order.
func RollupAttempts(attempts []AttemptStats) Rollup {
	out := Rollup{
		TotalAttempts:    len(attempts),
		WeakTopicSummary: []WeakTopic{},
	}

	sum := 0
	var order []string
	byTopic := make(map[string][]int)
	for _, a := range attempts {
		sum += a.Percentage
		out.TotalTimeSpentSeconds += a.TimeSpentSeconds
		for _, topic := range a.WeakTopics {
			if _, seen := byTopic[topic]; !seen {
				order = append(order, topic)
			}
			byTopic[topic] = append(byTopic[topic], a.Percentage)
		}
	}
	out.AverageScore = roundMean(sum, len(attempts))

	for _, topic := range order {
		scores := byTopic[topic]
		total := 0
		for _, s := range scores {
			total += s
		}
		out.WeakTopicSummary = append(out.WeakTopicSummary, WeakTopic{
			Topic:        topic,
			AverageScore: float64(total) / float64(len(scores)),
			AttemptCount: len(scores),
		})
	}
	sort.SliceStable(out.WeakTopicSummary, func(i, j int) bool {
		return out.WeakTopicSummary[i].AverageScore < out.WeakTopicSummary[j].AverageScore
	})

	return out
}

// StudentAttempt is one instructor-visible attempt with its author.
type StudentAttempt struct {
	UserID     string
	Name       string
	Email      string
	Percentage int
	WeakTopics []string
}

type StudentProgress struct {
	UserID       string   `json:"user_id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Attempts     int      `json:"attempts"`
	AverageScore int      `json:"average_score"`
	WeakTopics   []string `json:"weak_topics"`
}

type ClassRollup struct {
	TotalAttempts   int               `json:"total_attempts"`
	AverageScore    int               `json:"average_score"`
	StudentProgress []StudentProgress `json:"student_progress"`
}

// RollupClass groups attempts by student in first-seen order.
func RollupClass(attempts []StudentAttempt) ClassRollup {
	out := ClassRollup{
		TotalAttempts:   len(attempts),
		StudentProgress: []StudentProgress{},
	}

	type acc struct {
		progress StudentProgress
		sum      int
		topics   map[string]bool
	}
	var order []string
	students := make(map[string]*acc)
	total := 0
	for _, a := range attempts {
		total += a.Percentage
		s, ok := students[a.UserID]
		if !ok {
			name := a.Name
			if name == "" {
				name = "Unknown"
			}
			s = &acc{
				progress: StudentProgress{UserID: a.UserID, Name: name, Email: a.Email, WeakTopics: []string{}},
				topics:   make(map[string]bool),
			}
			students[a.UserID] = s
			order = append(order, a.UserID)
		}
		s.progress.Attempts++
		s.sum += a.Percentage
		for _, topic := range a.WeakTopics {
			if !s.topics[topic] {
				s.topics[topic] = true
				s.progress.WeakTopics = append(s.progress.WeakTopics, topic)
			}
		}
	}
	out.AverageScore = roundMean(total, len(attempts))

	for _, id := range order {
		s := students[id]
		s.progress.AverageScore = roundMean(s.sum, s.progress.Attempts)
		out.StudentProgress = append(out.StudentProgress, s.progress)
	}
	return out
}
