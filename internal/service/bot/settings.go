package bot

import "math"

// Weight keys recognised in Settings.PatternWeights.
const (
	WeightFive           = "five"
	WeightLiveFour       = "liveFour"
	WeightDeadFour       = "deadFour"
	WeightLiveThree      = "liveThree"
	WeightDeadThree      = "deadThree"
	WeightLiveTwo        = "liveTwo"
	WeightOpponentThreat = "opponentThreat"
)

const (
	DefaultSearchDepth    = 4
	DefaultCandidateCount = 10
	DefaultSearchRange    = 2
)

// A five scored at a leaf must stay below winScore, otherwise a leaf that
// merely contains a five outranks a proven win found earlier in the tree.
var defaultWeights = map[string]float64{
	WeightFive:           6000,
	WeightLiveFour:       2000,
	WeightDeadFour:       400,
	WeightLiveThree:      400,
	WeightDeadThree:      60,
	WeightLiveTwo:        10,
	WeightOpponentThreat: 1.2,
}

type Settings struct {
	SearchDepth    int                `json:"searchDepth" yaml:"searchDepth"`
	CandidateCount int                `json:"candidateCount" yaml:"candidateCount"`
	SearchRange    int                `json:"searchRange" yaml:"searchRange"`
	PatternWeights map[string]float64 `json:"patternWeights" yaml:"patternWeights"`
}

func DefaultWeights() map[string]float64 {
	out := make(map[string]float64, len(defaultWeights))
	for k, v := range defaultWeights {
		out[k] = v
	}
	return out
}

func DefaultSettings() Settings {
	return Settings{
		SearchDepth:    DefaultSearchDepth,
		CandidateCount: DefaultCandidateCount,
		SearchRange:    DefaultSearchRange,
		PatternWeights: DefaultWeights(),
	}
}

// Normalize returns a copy with every invalid or missing field replaced by
// its default. Unknown weight keys are dropped.
func (s Settings) Normalize() Settings {
	out := Settings{
		SearchDepth:    s.SearchDepth,
		CandidateCount: s.CandidateCount,
		SearchRange:    s.SearchRange,
		PatternWeights: make(map[string]float64, len(defaultWeights)),
	}
	if out.SearchDepth < 1 {
		out.SearchDepth = DefaultSearchDepth
	}
	if out.CandidateCount < 1 {
		out.CandidateCount = DefaultCandidateCount
	}
	if out.SearchRange < 1 {
		out.SearchRange = DefaultSearchRange
	}
	for key, def := range defaultWeights {
		v, ok := s.PatternWeights[key]
		if !ok || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			v = def
		}
		out.PatternWeights[key] = v
	}
	return out
}

// Weight reads a pattern weight, falling back to the default table.
func (s Settings) Weight(key string) float64 {
	if v, ok := s.PatternWeights[key]; ok {
		return v
	}
	return defaultWeights[key]
}

// Merge overlays the non-zero fields of override onto s. Weight keys in
// override replace the ones in s.
func (s Settings) Merge(override Settings) Settings {
	out := s
	if override.SearchDepth != 0 {
		out.SearchDepth = override.SearchDepth
	}
	if override.CandidateCount != 0 {
		out.CandidateCount = override.CandidateCount
	}
	if override.SearchRange != 0 {
		out.SearchRange = override.SearchRange
	}
	out.PatternWeights = make(map[string]float64, len(s.PatternWeights)+len(override.PatternWeights))
	for k, v := range s.PatternWeights {
		out.PatternWeights[k] = v
	}
	for k, v := range override.PatternWeights {
		out.PatternWeights[k] = v
	}
	return out
}
