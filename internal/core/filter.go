package core

import "strings"

// maxSentences caps how many sentences a reply may contain.
const maxSentences = 4

// minTurnsBeforePrescribing is the conversation length below which any
// mention of prescribing is considered premature.
const minTurnsBeforePrescribing = 4

// bannedPhrases are discouraged openings matched case-insensitively against
// the whole answer.
var bannedPhrases = []string{
	"sorry to hear",
	"i cannot help",
	"i am not a doctor",
	"i'm glad you reached out",
}

// Constrain enforces the deterministic safety and brevity policy over a raw
// model answer. Rules apply in order: sentence cap, premature-prescription
// guard, banned-phrase guard. The later guards replace the whole answer, not
// just the offending sentence, and the prescription guard sees the already
// capped text. turnCount is the conversation length before the current
// exchange is appended.
//
// Constrain is pure: no side effects, no external calls.
func Constrain(raw string, turnCount int) string {
	answer := capSentences(raw)

	if strings.Contains(strings.ToLower(answer), "prescribe") && turnCount < minTurnsBeforePrescribing {
		answer = PrescriptionFallback
	}

	lowered := strings.ToLower(answer)
	for _, phrase := range bannedPhrases {
		if strings.Contains(lowered, phrase) {
			return RedirectMessage
		}
	}
	return answer
}

// capSentences splits on literal periods, drops empty fragments, and keeps
// at most maxSentences of them, re-joined with ". " and a trailing period.
// Answers at or under the cap pass through unchanged.
func capSentences(answer string) string {
	parts := strings.Split(answer, ".")
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			sentences = append(sentences, p)
		}
	}
	if len(sentences) <= maxSentences {
		return answer
	}
	return strings.Join(sentences[:maxSentences], ". ") + "."
}
