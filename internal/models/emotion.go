package models

// NumEmotions is the size of the classifier's output vector.
const NumEmotions = 28

// EmotionNeutral is the fallback label for out-of-range classifier indices.
const EmotionNeutral = "neutral"

// emotionLabels is the closed label set, index-aligned with the classifier's
// output vector. The order is fixed and must not change.
var emotionLabels = [NumEmotions]string{
	"admiration", "amusement", "anger", "annoyance", "approval",
	"caring", "confusion", "curiosity", "desire", "disappointment",
	"disapproval", "disgust", "embarrassment", "excitement", "fear",
	"gratitude", "grief", "joy", "love", "nervousness",
	"optimism", "pride", "realization", "relief", "remorse",
	"sadness", "surprise", "neutral",
}

// LabelFor maps a classifier output index to its emotion label.
// Indices outside the known set map to "neutral", never an error.
func LabelFor(idx int) string {
	if idx < 0 || idx >= NumEmotions {
		return EmotionNeutral
	}
	return emotionLabels[idx]
}

// LabelIndex returns the vector index for a label, or -1 if unknown
func LabelIndex(label string) int {
	for i, l := range emotionLabels {
		if l == label {
			return i
		}
	}
	return -1
}

// ArgMax returns the index of the largest probability, first one on ties.
// Returns -1 for an empty vector.
func ArgMax(probs []float64) int {
	if len(probs) == 0 {
		return -1
	}
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	return best
}

// Coping suggestions per emotion group. Groups are disjoint; every label not
// covered by a group falls through to the default suggestion.
const (
	insightDefault = "Take a moment to breathe."
	insightAnger   = "Try the physiological sigh: 2 short inhales, 1 long exhale to reset autonomic nervous system."
	insightJoy     = "Savoring: Write down 3 specific sensory details about this feeling to strengthen neural pathways."
	insightSadness = "Behavioral Activation: Do one very small, functional task (like washing a cup) to break the inertia."
	insightFear    = "Box Breathing: Inhale 4s, Hold 4s, Exhale 4s, Hold 4s to activate the parasympathetic system."
)

var insightGroups = map[string]string{
	"anger":          insightAnger,
	"annoyance":      insightAnger,
	"joy":            insightJoy,
	"excitement":     insightJoy,
	"optimism":       insightJoy,
	"sadness":        insightSadness,
	"grief":          insightSadness,
	"disappointment": insightSadness,
	"fear":           insightFear,
	"nervousness":    insightFear,
}

// Insight returns the coping suggestion for an emotion. Deterministic and
// total: any emotion outside the four groups gets the default suggestion.
func Insight(emotion string) string {
	if s, ok := insightGroups[emotion]; ok {
		return s
	}
	return insightDefault
}
