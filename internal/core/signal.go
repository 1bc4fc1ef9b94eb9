package core

import (
	"math"
	"strings"
)

const (
	// Each lexicon hit moves the score by this much before clamping.
	lexiconWeight = 0.1

	// Label thresholds. A single lexicon hit (+/-0.1) must cross the
	// boundary, so the cutoff sits below one weight.
	positiveThreshold = 0.05
	negativeThreshold = -0.05

	moodScaleMax = 10
)

const (
	LabelPositive = "Positive"
	LabelNeutral  = "Neutral"
	LabelNegative = "Negative"
)

// TextSignal is the derived sentiment and topic summary of one piece of
// text. Immutable once computed.
type TextSignal struct {
	SentimentScore  float64  `json:"sentiment_score"` // in [-1, 1]
	SentimentLabel  string   `json:"sentiment_label"`
	Tags            []string `json:"tags"`
	ActionableSteps []string `json:"actionable_steps"`
}

// Extract computes the TextSignal for a piece of text. It is a pure function
// of the text and the lexicon: no I/O, no randomness, so identical text
// always yields an identical signal.
//
// Known limitation, kept on purpose: there is no negation or intensifier
// handling, so "not stressed" still scores negative.
func Extract(text string) TextSignal {
	lower := strings.ToLower(text)

	var score float64
	for _, word := range strings.Fields(lower) {
		if _, ok := positiveWords[word]; ok {
			score += lexiconWeight
		}
		if _, ok := negativeWords[word]; ok {
			score -= lexiconWeight
		}
	}
	score = clamp(score, -1, 1)

	return TextSignal{
		SentimentScore: score,
		SentimentLabel: labelForScore(score),
		Tags:           detectTags(lower),
	}
}

func labelForScore(score float64) string {
	switch {
	case score > positiveThreshold:
		return LabelPositive
	case score < negativeThreshold:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

// detectTags scans the lowercased raw text for each trigger phrase by
// substring containment. Tags come back deduplicated, in canonical
// vocabulary order.
func detectTags(lowerText string) []string {
	var tags []string
	for _, tag := range tagVocabulary {
		for _, trigger := range tag.Triggers {
			if strings.Contains(lowerText, trigger) {
				tags = append(tags, tag.Name)
				break
			}
		}
	}
	return tags
}

// MoodScore maps a raw sentiment score in [-1, 1] onto the 0-10 display
// scale. The mapping is linear, so the UI thresholds (>=7 positive,
// <=4 negative) line up with the label thresholds on the raw score.
func MoodScore(sentimentScore float64) int {
	mood := math.Round((sentimentScore + 1) / 2 * moodScaleMax)
	return int(clamp(mood, 0, moodScaleMax))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
