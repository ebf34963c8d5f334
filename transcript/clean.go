package transcript

import (
	"regexp"
	"strings"
)

var (
	bracketStamp = regexp.MustCompile(`\[\d{1,2}:\d{2}(?::\d{2})?\]`)
	parenStamp   = regexp.MustCompile(`\(\d{1,2}:\d{2}(?::\d{2})?\)`)
	leadingStamp = regexp.MustCompile(`(?m)^\d{1,2}:\d{2}(?::\d{2})?\s+`)
	loneStamp    = regexp.MustCompile(`(?m)^\d{1,2}:\d{2}(?::\d{2})?$`)
	onlyStamp    = regexp.MustCompile(`^\d{1,2}:\d{2}(?::\d{2})?$`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// Clean strips timestamps such as "[00:15]", "(0:09)" or a leading
// "00:00:15" from a pasted transcript and joins it into one line.
// Blank input is returned unchanged; if nothing but timestamps would
// remain, the trimmed original is returned instead.
func Clean(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	cleaned := bracketStamp.ReplaceAllString(text, "")
	cleaned = parenStamp.ReplaceAllString(cleaned, "")
	cleaned = leadingStamp.ReplaceAllString(cleaned, "")
	cleaned = loneStamp.ReplaceAllString(cleaned, "")

	lines := strings.Split(cleaned, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || onlyStamp.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}
	cleaned = strings.TrimSpace(whitespace.ReplaceAllString(strings.Join(kept, " "), " "))

	if cleaned == "" {
		return strings.TrimSpace(text)
	}
	return cleaned
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
