package generation

import (
	"fmt"

	"github.com/anime-shed/study-worker-go/internal/config"
)

// Params are the sampling settings for one operation. MaxTokens 0 means no limit.
type Params struct {
	Temperature float64
	MaxTokens   int
}

// DefaultParams returns the tuned defaults: topic is the most deterministic,
// concepts next, and the free-form operations the most varied.
func DefaultParams() map[string]Params {
	return map[string]Params{
		OpTopic:       {Temperature: 0.3, MaxTokens: 20},
		OpConcepts:    {Temperature: 0.5},
		OpSummary:     {Temperature: 0.7},
		OpExplanation: {Temperature: 0.7},
		OpFlashcards:  {Temperature: 0.7},
		OpQuiz:        {Temperature: 0.7},
	}
}

// ResolveParams applies a profile on top of the defaults and validates the result.
func ResolveParams(profile *config.GenerationProfile) (map[string]Params, error) {
	params := DefaultParams()
	if profile != nil {
		for op, override := range profile.Operations {
			p, ok := params[op]
			if !ok {
				return nil, fmt.Errorf("generation profile: unknown operation %q", op)
			}
			if override.Temperature != nil {
				p.Temperature = *override.Temperature
			}
			if override.MaxTokens != nil {
				p.MaxTokens = *override.MaxTokens
			}
			params[op] = p
		}
	}
	if err := ValidateParams(params); err != nil {
		return nil, err
	}
	return params, nil
}

// ValidateParams checks ranges and the relative ordering
// topic < concepts < every free-form operation.
func ValidateParams(params map[string]Params) error {
	for _, op := range Operations {
		p, ok := params[op]
		if !ok {
			return fmt.Errorf("generation params: missing operation %q", op)
		}
		if p.Temperature < 0 || p.Temperature > 2 {
			return fmt.Errorf("generation params: %s temperature %.2f out of range [0, 2]", op, p.Temperature)
		}
		if p.MaxTokens < 0 {
			return fmt.Errorf("generation params: %s max_tokens must be >= 0", op)
		}
	}

	topic := params[OpTopic].Temperature
	concepts := params[OpConcepts].Temperature
	if topic >= concepts {
		return fmt.Errorf("generation params: topic temperature %.2f must be below concepts %.2f", topic, concepts)
	}
	for _, op := range []string{OpSummary, OpExplanation, OpFlashcards, OpQuiz} {
		if t := params[op].Temperature; concepts >= t {
			return fmt.Errorf("generation params: concepts temperature %.2f must be below %s %.2f", concepts, op, t)
		}
	}
	return nil
}
