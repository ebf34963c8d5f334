package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"simquiz_backend/models"
)

const attemptColumns = `a.id, a.quiz_id, a.user_id, a.mode, a.score, a.total_questions, a.percentage,
	a.time_spent_seconds, a.answers, a.weak_topics, a.instructor_visible, a.completed_at`

// CreateAttempt persists a scored attempt and fills in its id and
// completion time.
func (s *Store) CreateAttempt(ctx context.Context, a *models.Attempt) error {
	answers, err := json.Marshal(a.Answers)
	if err != nil {
		return fmt.Errorf("error encoding answers: %w", err)
	}
	if a.WeakTopics == nil {
		a.WeakTopics = []string{}
	}

	a.ID = uuid.New()
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO quiz_attempts (id, quiz_id, user_id, mode, score, total_questions, percentage,
			time_spent_seconds, answers, weak_topics, instructor_visible)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING completed_at
	`, a.ID, a.QuizID, a.UserID, a.Mode, a.Score, a.TotalQuestions, a.Percentage,
		a.TimeSpentSeconds, answers, pq.Array(a.WeakTopics), a.InstructorVisible).Scan(&a.CompletedAt)
	if err != nil {
		return fmt.Errorf("error creating attempt: %w", err)
	}
	return nil
}

func scanAttempt(row rowScanner, extra ...any) (models.Attempt, error) {
	var a models.Attempt
	var answers []byte
	dest := append([]any{&a.ID, &a.QuizID, &a.UserID, &a.Mode, &a.Score, &a.TotalQuestions, &a.Percentage,
		&a.TimeSpentSeconds, &answers, pq.Array(&a.WeakTopics), &a.InstructorVisible, &a.CompletedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return a, err
	}
	if err := json.Unmarshal(answers, &a.Answers); err != nil {
		return a, fmt.Errorf("error decoding answers: %w", err)
	}
	if a.Answers == nil {
		a.Answers = []models.AnswerRecord{}
	}
	if a.WeakTopics == nil {
		a.WeakTopics = []string{}
	}
	return a, nil
}

// GetAttemptForUser returns an attempt only if userID owns it.
func (s *Store) GetAttemptForUser(ctx context.Context, id, userID uuid.UUID) (*models.Attempt, error) {
	a, err := scanAttempt(s.db.QueryRowContext(ctx, `
		SELECT `+attemptColumns+`
		FROM quiz_attempts a
		WHERE a.id = $1 AND a.user_id = $2
	`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching attempt: %w", err)
	}
	return &a, nil
}

// ListAttemptsByUser returns the user's attempts joined with quiz title
// and topics, most recent first.
func (s *Store) ListAttemptsByUser(ctx context.Context, userID uuid.UUID) ([]models.AttemptSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+attemptColumns+`, q.title, q.topics
		FROM quiz_attempts a
		JOIN quizzes q ON q.id = a.quiz_id
		WHERE a.user_id = $1
		ORDER BY a.completed_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching attempts: %w", err)
	}
	defer rows.Close()

	out := []models.AttemptSummary{}
	for rows.Next() {
		var sum models.AttemptSummary
		a, err := scanAttempt(rows, &sum.QuizTitle, pq.Array(&sum.QuizTopics))
		if err != nil {
			return nil, fmt.Errorf("error scanning attempt: %w", err)
		}
		sum.Attempt = a
		if sum.QuizTopics == nil {
			sum.QuizTopics = []string{}
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// ListVisibleAttempts returns instructor-visible attempts on the given
// quizzes with the student's profile, newest first.
func (s *Store) ListVisibleAttempts(ctx context.Context, quizIDs []uuid.UUID) ([]models.InstructorAttempt, error) {
	if len(quizIDs) == 0 {
		return []models.InstructorAttempt{}, nil
	}
	ids := make([]string, len(quizIDs))
	for i, id := range quizIDs {
		ids[i] = id.String()
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+attemptColumns+`, p.full_name, COALESCE(p.email, '')
		FROM quiz_attempts a
		LEFT JOIN profiles p ON p.id = a.user_id
		WHERE a.quiz_id = ANY($1::uuid[]) AND a.instructor_visible = TRUE
		ORDER BY a.completed_at DESC
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("error fetching visible attempts: %w", err)
	}
	defer rows.Close()

	out := []models.InstructorAttempt{}
	for rows.Next() {
		var ia models.InstructorAttempt
		a, err := scanAttempt(rows, &ia.StudentName, &ia.StudentEmail)
		if err != nil {
			return nil, fmt.Errorf("error scanning attempt: %w", err)
		}
		ia.Attempt = a
		out = append(out, ia)
	}
	return out, rows.Err()
}
