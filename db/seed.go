package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"simquiz_backend/models"
)

// DemoInstructorID owns the seeded demo quiz.
var DemoInstructorID = uuid.MustParse("00000000-0000-4000-8000-000000000001")

// SeedData populates a development database with a demo instructor and one
// quiz. It is a no-op once the instructor has quizzes.
func SeedData(ctx context.Context, s *Store) error {
	if _, err := s.EnsureProfile(ctx, DemoInstructorID, "demo-instructor@simquiz.local"); err != nil {
		return fmt.Errorf("error seeding profile: %w", err)
	}

	existing, err := s.ListQuizzesByCreator(ctx, DemoInstructorID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	_, err = s.CreateQuiz(ctx, models.Quiz{
		Title:        "Hand Hygiene Basics",
		SourceType:   models.SourceTranscript,
		Topics:       []string{"Hand Hygiene", "PPE"},
		CoverageMode: models.CoverageVideoOnly,
		CreatedBy:    DemoInstructorID,
	}, []models.Question{
		{
			QuestionText:  "When should hand hygiene be performed?",
			Options:       []string{"Only after patient contact", "Before and after patient contact", "Only when hands look dirty", "At the end of a shift"},
			CorrectAnswer: 1,
			Explanation:   "Hands are cleaned both before and after every patient contact.",
			Difficulty:    models.DifficultyBasic,
			Source:        models.ProvenanceVideo,
			Topic:         "Hand Hygiene",
		},
		{
			QuestionText:  "Which item is removed first when doffing PPE?",
			Options:       []string{"Gloves", "Mask", "Goggles", "Gown"},
			CorrectAnswer: 0,
			Explanation:   "Gloves are the most contaminated item and come off first.",
			Difficulty:    models.DifficultyIntermediate,
			Source:        models.ProvenanceVideo,
			Topic:         "PPE",
		},
	})
	if err != nil {
		return fmt.Errorf("error seeding quiz: %w", err)
	}
	return nil
}
