package models

import (
	"time"

	"github.com/google/uuid"

	"simquiz_backend/analytics"
)

type AttemptMode string

const (
	ModePractice   AttemptMode = "practice"
	ModeAssessment AttemptMode = "assessment"
)

// AnswerRecord is one question's outcome; Selected is nil when skipped.
type AnswerRecord struct {
	Selected *int `json:"selected"`
	Correct  bool `json:"correct"`
}

type Attempt struct {
	ID                uuid.UUID      `json:"id"`
	QuizID            uuid.UUID      `json:"quiz_id"`
	UserID            uuid.UUID      `json:"user_id"`
	Mode              AttemptMode    `json:"mode"`
	Score             int            `json:"score"`
	TotalQuestions    int            `json:"total_questions"`
	Percentage        int            `json:"percentage"`
	TimeSpentSeconds  int            `json:"time_spent_seconds"`
	Answers           []AnswerRecord `json:"answers"`
	WeakTopics        []string       `json:"weak_topics"`
	InstructorVisible bool           `json:"instructor_visible"`
	CompletedAt       time.Time      `json:"completed_at"`
}

// AttemptSummary is an attempt joined with its quiz's title and topics.
type AttemptSummary struct {
	Attempt
	QuizTitle  string   `json:"quiz_title"`
	QuizTopics []string `json:"quiz_topics"`
}

// InstructorAttempt is a visible attempt joined with the student's profile.
type InstructorAttempt struct {
	Attempt
	StudentName  *string `json:"student_name"`
	StudentEmail string  `json:"student_email"`
}

type SubmitAttemptRequest struct {
	QuizID            uuid.UUID   `json:"quiz_id" binding:"required"`
	Mode              AttemptMode `json:"mode" binding:"required,oneof=practice assessment"`
	Selections        []*int      `json:"selections"`
	TimeSpentSeconds  int         `json:"time_spent_seconds" binding:"min=0"`
	InstructorVisible bool        `json:"instructor_visible"`
}

type AttemptDetailResponse struct {
	Attempt          Attempt                  `json:"attempt"`
	Quiz             QuizWithQuestions        `json:"quiz"`
	TopicPerformance []analytics.TopicScore   `json:"topic_performance"`
	Areas            analytics.Classification `json:"areas"`
	Result           string                   `json:"result"`
}

type ProgressResponse struct {
	analytics.Rollup
	RecentAttempts []AttemptSummary `json:"recent_attempts"`
}

type InstructorDashboardResponse struct {
	Quizzes []Quiz `json:"quizzes"`
	analytics.ClassRollup
}
