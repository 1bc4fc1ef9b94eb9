package core

// The sentiment lexicon and topic vocabulary are static and versioned with
// the code: the extractor can never emit a tag that is not listed here.

var positiveWords = map[string]struct{}{
	"happy":    {},
	"joy":      {},
	"excited":  {},
	"great":    {},
	"good":     {},
	"well":     {},
	"positive": {},
}

var negativeWords = map[string]struct{}{
	"stress":      {},
	"stressed":    {},
	"anxious":     {},
	"worried":     {},
	"bad":         {},
	"tired":       {},
	"overwhelmed": {},
}

// topicTag pairs a tag with the phrases that trigger it. Triggers match by
// substring containment on the lowercased raw text, so "stress" also catches
// "stressed" and "stressful".
type topicTag struct {
	Name     string
	Triggers []string
}

// tagVocabulary is the closed set of topic tags, in canonical order. The
// recommender iterates this order so its output is stable regardless of how
// the tags were phrased in the text.
var tagVocabulary = []topicTag{
	{Name: "stress", Triggers: []string{"stress", "stressed"}},
	{Name: "anxiety", Triggers: []string{"anxious", "anxiety"}},
	{Name: "motivation", Triggers: []string{"motivate", "motivation"}},
	{Name: "time-management", Triggers: []string{"time", "schedule", "deadline"}},
	{Name: "work-life-balance", Triggers: []string{"balance", "life", "work-life"}},
	{Name: "focus", Triggers: []string{"focus", "concentrat", "distract"}},
	{Name: "sleep", Triggers: []string{"sleep", "insomnia", "exhausted"}},
}

// recommendationTable maps each tag to its actionable steps. Some steps are
// deliberately shared between tags; the recommender deduplicates them.
var recommendationTable = map[string][]string{
	"stress": {
		"Practice two minutes of slow breathing before your next meeting",
		"Reframe one 'problem' from today as a 'challenge' in your own words",
	},
	"anxiety": {
		"Write the worry down and rephrase it as a question you can act on",
		"Practice two minutes of slow breathing before your next meeting",
	},
	"motivation": {
		"Record one win from today in your journal, however small",
		"Visualize completing tomorrow's first task before you start it",
	},
	"time-management": {
		"List tomorrow's top three priorities before you log off",
		"Block one interruption-free hour in your calendar for deep work",
	},
	"work-life-balance": {
		"Set a hard stop time for work today and tell a colleague about it",
		"Plan one non-work activity this evening that recharges you",
	},
	"focus": {
		"Silence notifications for your next block of focused work",
		"Work in twenty-five minute sprints with short breaks between them",
	},
	"sleep": {
		"Keep a consistent wind-down time tonight, away from screens",
		"Note what kept you up last night and one change to try this evening",
	},
}
