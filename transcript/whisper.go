package transcript

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// MaxUploadBytes is the transcription endpoint's file size cap.
const MaxUploadBytes = 25 * 1024 * 1024

var (
	ErrFileTooLarge       = errors.New("media file exceeds 25MB")
	ErrUnsupportedMedia   = errors.New("unsupported media type; supported formats: MP4, MPEG, MOV, AVI, WEBM, MP3, WAV, M4A")
	ErrEmptyTranscription = errors.New("transcription resulted in empty text; the media may not contain speech")
	ErrNotConfigured      = errors.New("transcription API key not configured")
)

var allowedMedia = []string{
	"video/mp4",
	"video/mpeg",
	"video/quicktime",
	"video/x-msvideo",
	"video/webm",
	"audio/mpeg",
	"audio/wav",
	"audio/mp4",
	"audio/x-m4a",
}

// DetectMedia sniffs the content type and reports whether it can be
// transcribed.
func DetectMedia(data []byte) (string, bool) {
	mt := mimetype.Detect(data)
	for _, allowed := range allowedMedia {
		if mt.Is(allowed) {
			return mt.String(), true
		}
	}
	return mt.String(), false
}

// WhisperClient uploads media to the OpenAI transcription API.
type WhisperClient struct {
	apiKey string
	client openai.Client
}

// NewWhisperClient builds a client on httpClient; baseURL may be empty to
// use the SDK default.
func NewWhisperClient(apiKey, baseURL string, httpClient *http.Client) *WhisperClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Minute}
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(1),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &WhisperClient{apiKey: apiKey, client: openai.NewClient(opts...)}
}

func (c *WhisperClient) Transcribe(ctx context.Context, filename string, data []byte) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}
	if len(data) > MaxUploadBytes {
		return "", fmt.Errorf("%w (%.2fMB)", ErrFileTooLarge, float64(len(data))/1024/1024)
	}
	mt, ok := DetectMedia(data)
	if !ok {
		return "", fmt.Errorf("%w (got %s)", ErrUnsupportedMedia, mt)
	}

	res, err := c.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:     openai.File(bytes.NewReader(data), filename, mt),
		Model:    openai.AudioModelWhisper1,
		Language: openai.String("en"),
	})
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	text := strings.TrimSpace(res.Text)
	if text == "" {
		return "", ErrEmptyTranscription
	}
	return text, nil
}
