package agent

// EmotionalState tracks the agent's affect on the valence/arousal/dominance
// model plus a named primary emotion with intensity and remaining duration.
type EmotionalState struct {
	Valence   float64 `json:"valence"`   // -1 negative .. +1 positive
	Arousal   float64 `json:"arousal"`   // 0 calm .. 1 excited
	Dominance float64 `json:"dominance"` // 0 submissive .. 1 dominant

	PrimaryEmotion string  `json:"primary_emotion"`
	Intensity      float64 `json:"intensity"`
	Duration       int     `json:"duration"` // steps remaining
}

// NewEmotionalState returns a neutral state.
func NewEmotionalState() *EmotionalState {
	return &EmotionalState{
		Arousal:        0.5,
		Dominance:      0.5,
		PrimaryEmotion: "neutral",
		Intensity:      0.5,
	}
}

// vad maps named emotions to (valence, arousal, dominance).
var vad = map[string][3]float64{
	"joy":          {0.8, 0.7, 0.6},
	"curiosity":    {0.6, 0.6, 0.5},
	"frustration":  {-0.4, 0.7, 0.4},
	"satisfaction": {0.7, 0.3, 0.6},
	"confusion":    {-0.2, 0.5, 0.3},
	"excitement":   {0.7, 0.9, 0.7},
	"neutral":      {0, 0.5, 0.5},
}

// Update sets the primary emotion. Known emotions also move the VAD axes;
// unknown names keep the current axes.
func (e *EmotionalState) Update(emotion string, intensity float64, duration int) {
	e.PrimaryEmotion = emotion
	e.Intensity = intensity
	e.Duration = duration

	if axes, ok := vad[emotion]; ok {
		e.Valence, e.Arousal, e.Dominance = axes[0], axes[1], axes[2]
	}
}

// Decay fades intensity and counts down duration; when it hits zero the
// emotion returns to neutral.
func (e *EmotionalState) Decay(rate float64) {
	e.Intensity *= 1 - rate
	if e.Duration > 0 {
		e.Duration--
	}
	if e.Duration == 0 {
		e.PrimaryEmotion = "neutral"
	}
}
