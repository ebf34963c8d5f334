package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"simquiz_backend/models"
)

// CreateQuiz stores a quiz and its questions in one transaction. Ids and
// the creation time are assigned here.
func (s *Store) CreateQuiz(ctx context.Context, quiz models.Quiz, questions []models.Question) (*models.QuizWithQuestions, error) {
	return s.createQuiz(ctx, quiz, questions, nil)
}

// CreateQuizWithinLimit stores a quiz only while the creator has made fewer
// than limit quizzes since the given time. The count is taken under a
// per-user transaction lock, so concurrent calls for one user serialize
// and cannot overshoot the limit; the loser gets ErrQuotaExceeded.
func (s *Store) CreateQuizWithinLimit(ctx context.Context, quiz models.Quiz, questions []models.Question, since time.Time, limit int) (*models.QuizWithQuestions, error) {
	return s.createQuiz(ctx, quiz, questions, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, quiz.CreatedBy.String()); err != nil {
			return fmt.Errorf("error locking quota: %w", err)
		}
		var n int
		if err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM quizzes WHERE created_by = $1 AND created_at >= $2
		`, quiz.CreatedBy, since).Scan(&n); err != nil {
			return fmt.Errorf("error counting quizzes: %w", err)
		}
		if n >= limit {
			return ErrQuotaExceeded
		}
		return nil
	})
}

func (s *Store) createQuiz(ctx context.Context, quiz models.Quiz, questions []models.Question, guard func(*sql.Tx) error) (*models.QuizWithQuestions, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if guard != nil {
		if err := guard(tx); err != nil {
			return nil, err
		}
	}

	quiz.ID = uuid.New()
	quiz.NumQuestions = len(questions)
	if quiz.Topics == nil {
		quiz.Topics = []string{}
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO quizzes (id, title, source_url, source_type, topics, num_questions, coverage_mode, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, quiz.ID, quiz.Title, quiz.SourceURL, quiz.SourceType, pq.Array(quiz.Topics),
		quiz.NumQuestions, quiz.CoverageMode, quiz.CreatedBy).Scan(&quiz.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error creating quiz: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO questions (id, quiz_id, question_text, options, correct_answer, explanation, difficulty, source, topic, order_num)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`)
	if err != nil {
		return nil, fmt.Errorf("error preparing question insert: %w", err)
	}
	defer stmt.Close()

	saved := make([]models.Question, len(questions))
	for i, q := range questions {
		q.ID = uuid.New()
		q.QuizID = quiz.ID
		q.OrderNum = i
		if _, err := stmt.ExecContext(ctx, q.ID, q.QuizID, q.QuestionText, pq.Array(q.Options),
			q.CorrectAnswer, q.Explanation, q.Difficulty, q.Source, q.Topic, q.OrderNum); err != nil {
			return nil, fmt.Errorf("error creating question %d: %w", i, err)
		}
		saved[i] = q
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}
	return &models.QuizWithQuestions{Quiz: quiz, Questions: saved}, nil
}

const quizColumns = `id, title, source_url, source_type, topics, num_questions, coverage_mode, created_by, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuiz(row rowScanner) (models.Quiz, error) {
	var q models.Quiz
	err := row.Scan(&q.ID, &q.Title, &q.SourceURL, &q.SourceType, pq.Array(&q.Topics),
		&q.NumQuestions, &q.CoverageMode, &q.CreatedBy, &q.CreatedAt)
	if q.Topics == nil {
		q.Topics = []string{}
	}
	return q, err
}

// GetQuiz returns a quiz with its questions in display order.
func (s *Store) GetQuiz(ctx context.Context, id uuid.UUID) (*models.QuizWithQuestions, error) {
	quiz, err := scanQuiz(s.db.QueryRowContext(ctx, `SELECT `+quizColumns+` FROM quizzes WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching quiz: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, quiz_id, question_text, options, correct_answer, explanation, difficulty, source, topic, order_num
		FROM questions
		WHERE quiz_id = $1
		ORDER BY order_num ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("error fetching questions: %w", err)
	}
	defer rows.Close()

	out := &models.QuizWithQuestions{Quiz: quiz, Questions: []models.Question{}}
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.QuizID, &q.QuestionText, pq.Array(&q.Options), &q.CorrectAnswer,
			&q.Explanation, &q.Difficulty, &q.Source, &q.Topic, &q.OrderNum); err != nil {
			return nil, fmt.Errorf("error scanning question: %w", err)
		}
		out.Questions = append(out.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading questions: %w", err)
	}
	return out, nil
}

// ListQuizzesByCreator returns the caller's quizzes, newest first.
func (s *Store) ListQuizzesByCreator(ctx context.Context, userID uuid.UUID) ([]models.Quiz, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+quizColumns+`
		FROM quizzes
		WHERE created_by = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching quizzes: %w", err)
	}
	defer rows.Close()

	quizzes := []models.Quiz{}
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning quiz: %w", err)
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

// CountQuizzesSince counts quizzes the user created at or after since.
func (s *Store) CountQuizzesSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM quizzes WHERE created_by = $1 AND created_at >= $2
	`, userID, since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting quizzes: %w", err)
	}
	return n, nil
}
