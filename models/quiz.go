package models

import (
	"time"

	"github.com/google/uuid"
)

type CoverageMode string

const (
	CoverageVideoOnly     CoverageMode = "video-content-only"
	CoverageComprehensive CoverageMode = "comprehensive"
)

func (m CoverageMode) Valid() bool {
	return m == CoverageVideoOnly || m == CoverageComprehensive
}

type SourceType string

const (
	SourceYouTube    SourceType = "youtube"
	SourceTranscript SourceType = "transcript"
	SourceUpload     SourceType = "upload"
)

type Difficulty string

const (
	DifficultyBasic        Difficulty = "basic"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Provenance marks whether a question tests the video itself or broader
// related knowledge.
type Provenance string

const (
	ProvenanceVideo    Provenance = "video"
	ProvenanceExpanded Provenance = "expanded"
)

type Quiz struct {
	ID           uuid.UUID    `json:"id"`
	Title        string       `json:"title"`
	SourceURL    *string      `json:"source_url"`
	SourceType   SourceType   `json:"source_type"`
	Topics       []string     `json:"topics"`
	NumQuestions int          `json:"num_questions"`
	CoverageMode CoverageMode `json:"coverage_mode"`
	CreatedBy    uuid.UUID    `json:"created_by"`
	CreatedAt    time.Time    `json:"created_at"`
}

type Question struct {
	ID            uuid.UUID  `json:"id"`
	QuizID        uuid.UUID  `json:"quiz_id"`
	QuestionText  string     `json:"question_text"`
	Options       []string   `json:"options"`
	CorrectAnswer int        `json:"correct_answer"`
	Explanation   string     `json:"explanation"`
	Difficulty    Difficulty `json:"difficulty"`
	Source        Provenance `json:"source"`
	Topic         string     `json:"topic,omitempty"`
	OrderNum      int        `json:"order_num"`
}

type QuizWithQuestions struct {
	Quiz
	Questions []Question `json:"questions"`
}

type GenerateQuizRequest struct {
	VideoURL     string       `json:"videoUrl"`
	Transcript   string       `json:"transcript"`
	NumQuestions int          `json:"numQuestions" binding:"required,min=1,max=50"`
	CoverageMode CoverageMode `json:"coverageMode" binding:"required,oneof=video-content-only comprehensive"`
	SourceType   SourceType   `json:"sourceType" binding:"omitempty,oneof=youtube transcript upload"`
}
