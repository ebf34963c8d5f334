package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"simquiz_backend/models"
	"simquiz_backend/transcript"
)

const (
	defaultModel      = "claude-sonnet-4-20250514"
	defaultMaxTokens  = 4000
	defaultMaxRetries = 2

	MaxQuestions = 50
)

var (
	ErrEmptyTranscript = errors.New("transcript is empty or invalid after processing")
	ErrInvalidResponse = errors.New("invalid AI response format")
	ErrInvalidRequest  = errors.New("numQuestions and coverageMode are required")
	ErrNotConfigured   = errors.New("LLM API key not configured")
)

// APIError is a non-2xx reply from the model provider.
type APIError struct {
	Status int
	Err    error
}

func (e *APIError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("model API error: %d", e.Status)
	}
	return fmt.Sprintf("model API error: %v", e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

type Config struct {
	APIKey    string
	Model     string
	MaxTokens int
	// BaseURL overrides the API root; empty uses the SDK default.
	BaseURL string
	// MaxRetries caps SDK retries on 429 and 5xx; negative disables them.
	MaxRetries int
}

type Request struct {
	Transcript   string
	NumQuestions int
	Coverage     models.CoverageMode
}

// Result is a validated quiz ready to persist. Questions carry their
// display position but no ids.
type Result struct {
	Title     string
	Topics    []string
	Questions []models.Question
}

type Generator struct {
	cfg    Config
	client anthropic.Client
}

func NewGenerator(cfg Config, httpClient *http.Client) *Generator {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 2 * time.Minute}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(max(cfg.MaxRetries, 0)),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Generator{cfg: cfg, client: anthropic.NewClient(opts...)}
}

// Generate cleans the transcript, asks the model for a quiz and validates
// what comes back. An empty transcript fails before any API call.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	text := strings.TrimSpace(transcript.Clean(req.Transcript))
	if text == "" {
		return nil, ErrEmptyTranscript
	}
	if req.NumQuestions < 1 || req.NumQuestions > MaxQuestions || !req.Coverage.Valid() {
		return nil, ErrInvalidRequest
	}
	if g.cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	reply, err := g.complete(ctx, BuildPrompt(text, req.NumQuestions, req.Coverage))
	if err != nil {
		return nil, err
	}
	return ParseQuiz(reply, req.Coverage)
}

func (g *Generator) complete(ctx context.Context, prompt string) (string, error) {
	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.cfg.Model),
		MaxTokens: int64(g.cfg.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", &APIError{Status: apiErr.StatusCode, Err: err}
		}
		return "", fmt.Errorf("model request: %w", err)
	}

	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", ErrInvalidResponse
}

type rawQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer *int     `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
	Source        string   `json:"source"`
	Topic         string   `json:"topic"`
}

type rawQuiz struct {
	Title     string        `json:"title"`
	Topics    []string      `json:"topics"`
	Questions []rawQuestion `json:"questions"`
}

// ParseQuiz finds the quiz object in a model reply and validates it.
// Objects that are not a usable quiz, such as an example shown before the
// answer, are skipped. Malformed questions are dropped; a reply with no
// usable quiz is ErrInvalidResponse.
func ParseQuiz(reply string, coverage models.CoverageMode) (*Result, error) {
	var res *Result
	err := fmt.Errorf("%w: no JSON object in reply", ErrInvalidResponse)
	jsonObjects(reply, func(raw json.RawMessage) bool {
		var candidate *Result
		candidate, err = parseQuizObject(raw, coverage)
		if err != nil {
			return true
		}
		res = candidate
		return false
	})
	if res == nil {
		return nil, err
	}
	return res, nil
}

func parseQuizObject(raw json.RawMessage, coverage models.CoverageMode) (*Result, error) {
	var q rawQuiz
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	res := &Result{Title: truncateTitle(strings.TrimSpace(q.Title)), Topics: []string{}}
	if res.Title == "" {
		return nil, fmt.Errorf("%w: missing title", ErrInvalidResponse)
	}
	if len(q.Questions) == 0 {
		return nil, fmt.Errorf("%w: no questions", ErrInvalidResponse)
	}
	for _, t := range q.Topics {
		if t = strings.TrimSpace(t); t != "" {
			res.Topics = append(res.Topics, t)
		}
	}

	for i, rq := range q.Questions {
		question, ok := normalizeQuestion(rq, coverage)
		if !ok {
			log.Printf("WARN: skipping invalid generated question %d: %q", i, rq.Question)
			continue
		}
		question.OrderNum = len(res.Questions)
		res.Questions = append(res.Questions, question)
	}
	if len(res.Questions) == 0 {
		return nil, fmt.Errorf("%w: no valid questions", ErrInvalidResponse)
	}
	return res, nil
}

// MaxTitleRunes caps stored quiz titles.
const MaxTitleRunes = 200

func truncateTitle(title string) string {
	r := []rune(title)
	if len(r) <= MaxTitleRunes {
		return title
	}
	return strings.TrimSpace(string(r[:MaxTitleRunes-3])) + "..."
}

func normalizeQuestion(rq rawQuestion, coverage models.CoverageMode) (models.Question, bool) {
	text := strings.TrimSpace(rq.Question)
	if text == "" || len(rq.Options) < 2 || rq.CorrectAnswer == nil {
		return models.Question{}, false
	}
	if *rq.CorrectAnswer < 0 || *rq.CorrectAnswer >= len(rq.Options) {
		return models.Question{}, false
	}

	difficulty := models.Difficulty(strings.ToLower(strings.TrimSpace(rq.Difficulty)))
	switch difficulty {
	case models.DifficultyBasic, models.DifficultyIntermediate, models.DifficultyAdvanced:
	default:
		difficulty = models.DifficultyBasic
	}

	source := models.ProvenanceVideo
	if coverage == models.CoverageComprehensive && strings.EqualFold(strings.TrimSpace(rq.Source), string(models.ProvenanceExpanded)) {
		source = models.ProvenanceExpanded
	}

	return models.Question{
		QuestionText:  text,
		Options:       rq.Options,
		CorrectAnswer: *rq.CorrectAnswer,
		Explanation:   strings.TrimSpace(rq.Explanation),
		Difficulty:    difficulty,
		Source:        source,
		Topic:         strings.TrimSpace(rq.Topic),
	}, true
}
