package quizgen

import (
	"fmt"
	"strings"

	"simquiz_backend/models"
)

// maxTranscriptChars bounds how much transcript is sent to the model.
const maxTranscriptChars = 3000

func truncateTranscript(t string) string {
	r := []rune(t)
	if len(r) <= maxTranscriptChars {
		return t
	}
	return string(r[:maxTranscriptChars]) + "..."
}

// BuildPrompt renders the generation instructions for a cleaned transcript.
func BuildPrompt(transcript string, numQuestions int, coverage models.CoverageMode) string {
	comprehensive := coverage == models.CoverageComprehensive

	var b strings.Builder
	kind := "video-specific"
	if comprehensive {
		kind = "comprehensive"
	}
	fmt.Fprintf(&b, "You are an expert medical educator creating %s assessment questions.\n\n", kind)
	fmt.Fprintf(&b, "TRANSCRIPT: %s\n\n", truncateTranscript(transcript))

	if comprehensive {
		fmt.Fprintf(&b, "COMPREHENSIVE MODE - Generate %d questions:\n", numQuestions)
		b.WriteString("- 40% test what happened in this video\n")
		b.WriteString("- 60% test broader best practices for topics mentioned\n")
		b.WriteString("Example: If video mentions \"PPE\" -> ask \"What did learner forget?\" (video) AND \"Why are gloves important in all patient care?\" (comprehensive)\n\n")
	} else {
		fmt.Fprintf(&b, "VIDEO-ONLY MODE - Generate %d questions:\n", numQuestions)
		b.WriteString("- Questions ONLY answerable by watching this specific video\n")
		b.WriteString("- Focus on specific details, names, what was said/done\n")
		b.WriteString("- Do NOT ask general knowledge questions\n\n")
	}

	source := "video"
	if comprehensive {
		source = "video or expanded"
	}
	b.WriteString("Return ONLY valid JSON:\n")
	fmt.Fprintf(&b, `{
  "title": "Quiz title",
  "topics": ["topic1", "topic2"],
  "questions": [
    {
      "id": 1,
      "question": "Question text?",
      "options": ["A) ...", "B) ...", "C) ...", "D) ..."],
      "correctAnswer": 0,
      "explanation": "Clear explanation",
      "difficulty": "basic",
      "source": "%s",
      "topic": "topic1"
    }
  ]
}
`, source)
	fmt.Fprintf(&b, "\nGenerate %d questions now. No other text.", numQuestions)
	return b.String()
}
