package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"simquiz_backend/models"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func stubResponse(status int, body string) *http.Response {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     h,
	}
}

const sampleQuiz = `{
  "title": "Hand Hygiene",
  "topics": ["Hygiene", " PPE "],
  "questions": [
    {"id": 1, "question": "When {exactly} should gloves go on?", "options": ["A", "B", "C", "D"], "correctAnswer": 2, "explanation": "Before contact", "difficulty": "Intermediate", "source": "expanded", "topic": "PPE"},
    {"id": 2, "question": "", "options": ["A", "B"], "correctAnswer": 0},
    {"id": 3, "question": "Out of range?", "options": ["A", "B"], "correctAnswer": 5},
    {"id": 4, "question": "What did the learner forget?", "options": ["Mask", "Gloves"], "correctAnswer": 1, "difficulty": "expert"}
  ]
}`

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"plain", `{"a":1}`, `{"a":1}`, true},
		{"surrounding prose", "Here you go:\n{\"a\":{\"b\":2}}\nThanks {not json}", `{"a":{"b":2}}`, true},
		{"braces in strings", `{"q":"use } and { freely"}`, `{"q":"use } and { freely"}`, true},
		{"code fence", "```json\n{\"a\":[1,2]}\n```", `{"a":[1,2]}`, true},
		{"skips broken prefix", `{broken {"a":1}`, `{"a":1}`, true},
		{"none", "no json here", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tt.in)
			if ok != tt.ok || string(got) != tt.want {
				t.Errorf("ExtractJSONObject() = (%s, %v), want (%s, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParseQuiz(t *testing.T) {
	res, err := ParseQuiz("Sure!\n"+sampleQuiz, models.CoverageComprehensive)
	if err != nil {
		t.Fatalf("ParseQuiz returned error: %v", err)
	}
	if res.Title != "Hand Hygiene" {
		t.Errorf("title = %q", res.Title)
	}
	if len(res.Topics) != 2 || res.Topics[1] != "PPE" {
		t.Errorf("topics = %v", res.Topics)
	}
	if len(res.Questions) != 2 {
		t.Fatalf("expected 2 valid questions, got %d", len(res.Questions))
	}

	first, second := res.Questions[0], res.Questions[1]
	if first.Difficulty != models.DifficultyIntermediate || first.Source != models.ProvenanceExpanded || first.Topic != "PPE" || first.OrderNum != 0 {
		t.Errorf("first = %+v", first)
	}
	if second.Difficulty != models.DifficultyBasic || second.Source != models.ProvenanceVideo || second.OrderNum != 1 {
		t.Errorf("second = %+v", second)
	}
}

func TestParseQuizSkipsNonQuizObjects(t *testing.T) {
	reply := "Format: {\"x\":1}\nExample: {\"title\":\"Sample\",\"questions\":[]}\nAnswer:\n" + sampleQuiz
	res, err := ParseQuiz(reply, models.CoverageComprehensive)
	if err != nil {
		t.Fatalf("ParseQuiz returned error: %v", err)
	}
	if res.Title != "Hand Hygiene" || len(res.Questions) != 2 {
		t.Errorf("result = %+v", res)
	}
}

func TestParseQuizTruncatesLongTitle(t *testing.T) {
	reply := `{"title":"` + strings.Repeat("é", MaxTitleRunes+50) + `","questions":[{"question":"q","options":["a","b"],"correctAnswer":0}]}`
	res, err := ParseQuiz(reply, models.CoverageVideoOnly)
	if err != nil {
		t.Fatalf("ParseQuiz returned error: %v", err)
	}
	if n := len([]rune(res.Title)); n != MaxTitleRunes || !strings.HasSuffix(res.Title, "...") {
		t.Errorf("title runes = %d", n)
	}
}

func TestParseQuizVideoOnlyForcesVideoSource(t *testing.T) {
	res, err := ParseQuiz(sampleQuiz, models.CoverageVideoOnly)
	if err != nil {
		t.Fatalf("ParseQuiz returned error: %v", err)
	}
	for _, q := range res.Questions {
		if q.Source != models.ProvenanceVideo {
			t.Errorf("source = %q in video-only mode", q.Source)
		}
	}
}

func TestParseQuizInvalid(t *testing.T) {
	for _, reply := range []string{
		"I cannot help with that.",
		`{"topics":["a"],"questions":[]}`,
		`{"title":"No questions","questions":[{"question":"x","options":["a"],"correctAnswer":0}]}`,
	} {
		if _, err := ParseQuiz(reply, models.CoverageVideoOnly); !errors.Is(err, ErrInvalidResponse) {
			t.Errorf("ParseQuiz(%q) error = %v, want ErrInvalidResponse", reply, err)
		}
	}
}

func TestGenerateEmptyTranscriptFailsFast(t *testing.T) {
	called := false
	g := NewGenerator(Config{APIKey: "k"}, &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		called = true
		return stubResponse(http.StatusOK, "{}"), nil
	})})

	_, err := g.Generate(context.Background(), Request{Transcript: "  \n ", NumQuestions: 5, Coverage: models.CoverageVideoOnly})
	if !errors.Is(err, ErrEmptyTranscript) {
		t.Fatalf("error = %v, want ErrEmptyTranscript", err)
	}
	if called {
		t.Fatalf("model API must not be called for an empty transcript")
	}
}

func TestGenerate(t *testing.T) {
	var sent struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
		Messages  []struct {
			Role    string `json:"role"`
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"messages"`
	}
	var headers http.Header
	var path string
	g := NewGenerator(Config{APIKey: "secret", BaseURL: "https://llm.internal/"}, &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		headers = r.Header
		path = r.URL.Host + r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&sent); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		body, _ := json.Marshal(map[string]any{
			"id":      "msg_1",
			"type":    "message",
			"role":    "assistant",
			"content": []map[string]string{{"type": "text", "text": sampleQuiz}},
		})
		return stubResponse(http.StatusOK, string(body)), nil
	})})

	res, err := g.Generate(context.Background(), Request{
		Transcript:   "00:01 The nurse washed her hands\n00:05 then put on gloves",
		NumQuestions: 4,
		Coverage:     models.CoverageComprehensive,
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(res.Questions) != 2 {
		t.Errorf("questions = %d", len(res.Questions))
	}
	if headers.Get("x-api-key") != "secret" || headers.Get("anthropic-version") == "" {
		t.Errorf("headers = %v", headers)
	}
	if path != "llm.internal/v1/messages" {
		t.Errorf("request sent to %q", path)
	}
	if sent.Model != defaultModel || sent.MaxTokens != defaultMaxTokens || len(sent.Messages) != 1 || len(sent.Messages[0].Content) != 1 {
		t.Fatalf("request = %+v", sent)
	}
	prompt := sent.Messages[0].Content[0].Text
	if !strings.Contains(prompt, "The nurse washed her hands then put on gloves") || strings.Contains(prompt, "00:01") {
		t.Errorf("prompt should carry the cleaned transcript: %q", prompt)
	}
	if !strings.Contains(prompt, "COMPREHENSIVE MODE - Generate 4 questions") {
		t.Errorf("prompt missing mode block")
	}
}

func TestGenerateAPIError(t *testing.T) {
	calls := 0
	g := NewGenerator(Config{APIKey: "secret", MaxRetries: -1}, &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		return stubResponse(http.StatusTooManyRequests, `{"type":"error","error":{"type":"rate_limit_error","message":"rate limited"}}`), nil
	})})

	_, err := g.Generate(context.Background(), Request{Transcript: "hello", NumQuestions: 1, Coverage: models.CoverageVideoOnly})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusTooManyRequests {
		t.Fatalf("error = %v, want APIError 429", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d with retries disabled", calls)
	}
}

func TestGenerateValidatesRequest(t *testing.T) {
	g := NewGenerator(Config{APIKey: "secret"}, nil)
	if _, err := g.Generate(context.Background(), Request{Transcript: "hello", NumQuestions: 0, Coverage: models.CoverageVideoOnly}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("zero questions: %v", err)
	}
	if _, err := g.Generate(context.Background(), Request{Transcript: "hello", NumQuestions: 3, Coverage: "everything"}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("bad coverage: %v", err)
	}
	if _, err := NewGenerator(Config{}, nil).Generate(context.Background(), Request{Transcript: "hello", NumQuestions: 3, Coverage: models.CoverageVideoOnly}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("missing key: %v", err)
	}
}

func TestTruncateTranscript(t *testing.T) {
	long := strings.Repeat("a", maxTranscriptChars+10)
	got := truncateTranscript(long)
	if len(got) != maxTranscriptChars+3 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncated length = %d", len(got))
	}
	if truncateTranscript("short") != "short" {
		t.Errorf("short transcript altered")
	}
}
