package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstrainSentenceCap(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		turnCount int
		want      string
	}{
		{
			name:      "short answer passes through unchanged",
			raw:       "Take rest. Drink water.",
			turnCount: 6,
			want:      "Take rest. Drink water.",
		},
		{
			name:      "exactly four sentences unchanged",
			raw:       "One. Two. Three. Four.",
			turnCount: 6,
			want:      "One. Two. Three. Four.",
		},
		{
			name:      "five sentences capped to four",
			raw:       "One. Two. Three. Four. Five.",
			turnCount: 6,
			want:      "One. Two. Three. Four.",
		},
		{
			name:      "empty fragments between periods are dropped",
			raw:       "One.. Two.  . Three. Four. Five.",
			turnCount: 6,
			want:      "One. Two. Three. Four.",
		},
		{
			name:      "empty answer unchanged",
			raw:       "",
			turnCount: 6,
			want:      "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Constrain(tt.raw, tt.turnCount))
		})
	}
}

func TestConstrainCapIsIdempotent(t *testing.T) {
	raw := "One. Two. Three. Four. Five. Six. Seven."
	once := Constrain(raw, 10)
	assert.Equal(t, once, Constrain(once, 10))
}

func TestConstrainCapKeepsSentenceOrder(t *testing.T) {
	raw := "Alpha. Beta. Gamma. Delta. Epsilon. Zeta."
	got := Constrain(raw, 10)
	sentences := strings.Split(strings.TrimSuffix(got, "."), ". ")
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma", "Delta"}, sentences)
	assert.True(t, strings.HasSuffix(got, "."))
	assert.False(t, strings.HasSuffix(got, ".."))
}

func TestConstrainPrescribeGuard(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		turnCount int
		want      string
	}{
		{
			name:      "prescribe with short conversation triggers fallback",
			raw:       "I will prescribe ibuprofen",
			turnCount: 2,
			want:      PrescriptionFallback,
		},
		{
			name:      "prescribe is case-insensitive",
			raw:       "I will PRESCRIBE ibuprofen",
			turnCount: 0,
			want:      PrescriptionFallback,
		},
		{
			name:      "prescribe allowed after enough turns",
			raw:       "I prescribe ibuprofen 400mg, twice daily for 5 days 😊",
			turnCount: 4,
			want:      "I prescribe ibuprofen 400mg, twice daily for 5 days 😊",
		},
		{
			name:      "guard sees the capped text",
			raw:       "One. Two. Three. Four. I will prescribe ibuprofen.",
			turnCount: 2,
			want:      "One. Two. Three. Four.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Constrain(tt.raw, tt.turnCount))
		})
	}
}

func TestConstrainBannedPhrases(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"sorry to hear", "Sorry to hear that, let's continue"},
		{"i cannot help", "I cannot help with that request"},
		{"i am not a doctor", "Remember, I am not a doctor"},
		{"i'm glad you reached out", "I'm glad you reached out today"},
		{"case-insensitive match", "SORRY TO HEAR about your headache"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, RedirectMessage, Constrain(tt.raw, 6))
		})
	}
}

func TestConstrainRuleOrdering(t *testing.T) {
	// Five sentences, the banned phrase in the first: the cap runs first,
	// then the banned-phrase guard fires on the capped text.
	raw := "Sorry to hear that. Let's talk. About symptoms. In detail. Further analysis."
	assert.Equal(t, RedirectMessage, Constrain(raw, 6))

	// The prescription fallback wins over a banned phrase when both apply:
	// the guard replaces the text before the banned-phrase scan.
	raw = "Sorry to hear that, I will prescribe something"
	assert.Equal(t, PrescriptionFallback, Constrain(raw, 1))
}

func TestConstrainCleanAnswerUntouched(t *testing.T) {
	raw := "Your symptoms suggest a mild cold 😊. Drink fluids and rest."
	assert.Equal(t, raw, Constrain(raw, 2))
}
