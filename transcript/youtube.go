package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var (
	ErrInvalidURL  = errors.New("invalid YouTube URL")
	ErrNoCaptions  = errors.New("no transcript found; the video may not have captions enabled")
	videoIDPattern = regexp.MustCompile(`(?:youtu\.be/|youtube\.com(?:/embed/|/v/|/watch\?v=|/watch\?.+&v=))([^&\n?#]+)`)
)

const defaultCaptionsURL = "https://www.youtube.com/api/timedtext"

// ExtractVideoID pulls the video id out of the common YouTube URL shapes.
func ExtractVideoID(rawURL string) (string, error) {
	m := videoIDPattern.FindStringSubmatch(rawURL)
	if len(m) < 2 || m[1] == "" {
		return "", ErrInvalidURL
	}
	return m[1], nil
}

type captionSegment struct {
	UTF8 string `json:"utf8"`
}

type captionEvent struct {
	Segs []captionSegment `json:"segs"`
}

type captionsResponse struct {
	Events []captionEvent `json:"events"`
}

// CaptionsClient reads English captions from YouTube's timedtext endpoint.
type CaptionsClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewCaptionsClient(httpClient *http.Client) *CaptionsClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &CaptionsClient{BaseURL: defaultCaptionsURL, HTTPClient: httpClient}
}

func (c *CaptionsClient) Fetch(ctx context.Context, videoURL string) (string, error) {
	videoID, err := ExtractVideoID(videoURL)
	if err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("v", videoID)
	q.Set("lang", "en")
	q.Set("fmt", "json3")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch captions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("youtube returned status %d: %w", resp.StatusCode, ErrNoCaptions)
	}

	var payload captionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode captions: %w", ErrNoCaptions)
	}

	parts := make([]string, 0, len(payload.Events))
	for _, ev := range payload.Events {
		if len(ev.Segs) == 0 {
			continue
		}
		var b strings.Builder
		for _, s := range ev.Segs {
			b.WriteString(s.UTF8)
		}
		parts = append(parts, b.String())
	}

	text := strings.Join(parts, " ")
	if strings.TrimSpace(text) == "" {
		return "", ErrNoCaptions
	}
	return text, nil
}
